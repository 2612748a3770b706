// Package slidescene provides a pure Go library for resolving rendered
// visual scenes into positioned, styled slide drawing primitives
// expressed in EMU (English Metric Units).
//
// A scene is a tree of shape-like elements carrying captured geometry and
// computed style, read from an SVG document or a headless-browser capture.
// The geometry resolver maps element bounds from screen or local
// coordinates onto an output page under a sizing mode; the style resolver
// derives fill, stroke, font and corner-radius attributes from the
// computed style. Resolved primitives are handed to an Emitter for
// serialization into the target document format.
//
// See the Version variable for the current library version.
package slidescene

import "strings"

// Scene is a captured document tree ready for resolution: the element
// tree, the on-screen viewport it was captured at, the declared
// logical box, and document metadata.
type Scene struct {
	Root        *Element
	Viewport    Rect
	Logical     Rect
	Title       string
	Description string
}

// NewScene creates an empty scene with the given viewport. The logical
// box defaults to the viewport until a declared one replaces it.
func NewScene(viewport Rect) *Scene {
	return &Scene{
		Root:     NewElement(KindGroup),
		Viewport: viewport,
		Logical:  viewport,
	}
}

// ElementCount returns the number of elements in the tree.
func (sc *Scene) ElementCount() int {
	return countElements(sc.Root)
}

func countElements(el *Element) int {
	if el == nil {
		return 0
	}
	n := 1
	for _, child := range el.Children {
		n += countElements(child)
	}
	return n
}

// NodeFilter decides which elements participate in a resolution pass.
// Returning false prunes the element and its whole subtree.
type NodeFilter func(*Element) bool

// DefaultFilter skips elements marked hidden at capture time and
// elements whose snapshot carries display:none or visibility:hidden.
func DefaultFilter(el *Element) bool {
	if el.Hidden {
		return false
	}
	if strings.EqualFold(strings.TrimSpace(el.Style.Display), "none") {
		return false
	}
	if strings.EqualFold(strings.TrimSpace(el.Style.Visibility), "hidden") {
		return false
	}
	return true
}

// FlatElement is one drawable element of a flattened scene: the node
// plus the transform and opacity composed from its ancestors. Opacity
// excludes the element's own opacity property, which the style
// resolver applies from the snapshot.
type FlatElement struct {
	*Element
	Transform Matrix
	Opacity   float64
}

// Flatten walks the tree depth first, composing each element's
// transform and opacity onto its descendants, and returns the
// drawable elements in document order. Group elements contribute
// composition only, never a primitive of their own. A nil filter
// selects DefaultFilter.
func (sc *Scene) Flatten(filter NodeFilter) []FlatElement {
	if filter == nil {
		filter = DefaultFilter
	}
	var out []FlatElement
	if sc != nil {
		flattenInto(sc.Root, Identity(), 1, filter, &out)
	}
	return out
}

func flattenInto(el *Element, parent Matrix, opacity float64, filter NodeFilter, out *[]FlatElement) {
	if el == nil || !filter(el) {
		return
	}
	world := parent.Mul(el.ownTransform())
	if el.Kind != KindGroup {
		*out = append(*out, FlatElement{Element: el, Transform: world, Opacity: opacity})
	}
	childOpacity := opacity * cssOpacity(el.Style.Opacity)
	for _, child := range el.Children {
		flattenInto(child, world, childOpacity, filter, out)
	}
}
