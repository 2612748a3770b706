package slidescene

import (
	"math"
	"strconv"
)

// Space identifies the coordinate space an element rectangle was
// captured in.
type Space int

const (
	// SpaceScreen is raw on-screen pixels; resolution converts through
	// the context viewport.
	SpaceScreen Space = iota
	// SpaceLocal means the rectangle is already expressed in the
	// scene's logical (viewBox) units.
	SpaceLocal
)

// String returns the space name.
func (s Space) String() string {
	if s == SpaceLocal {
		return "local"
	}
	return "screen"
}

// ElementRect is a bounding box tagged with its capture space.
type ElementRect struct {
	Rect
	Space Space
}

// ScreenRect creates an ElementRect in screen pixels.
func ScreenRect(x, y, w, h float64) ElementRect {
	return ElementRect{Rect: Rect{X: x, Y: y, W: w, H: h}, Space: SpaceScreen}
}

// LocalRect creates an ElementRect in logical units.
func LocalRect(x, y, w, h float64) ElementRect {
	return ElementRect{Rect: Rect{X: x, Y: y, W: w, H: h}, Space: SpaceLocal}
}

// Kind classifies a scene element.
type Kind int

const (
	KindRect Kind = iota
	KindEllipse
	KindLine
	KindText
	KindGroup
	KindImage
	KindPath
)

// MarshalJSON encodes the kind as its name.
func (k Kind) MarshalJSON() ([]byte, error) {
	return strconv.AppendQuote(nil, k.String()), nil
}

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindEllipse:
		return "ellipse"
	case KindLine:
		return "line"
	case KindText:
		return "text"
	case KindGroup:
		return "group"
	case KindImage:
		return "image"
	case KindPath:
		return "path"
	default:
		return "rect"
	}
}

// KindFromName maps an element/tag name to a Kind. Unknown names map
// to KindRect, the most permissive primitive.
func KindFromName(name string) Kind {
	switch name {
	case "ellipse", "circle":
		return KindEllipse
	case "line":
		return KindLine
	case "text", "tspan":
		return KindText
	case "group", "g", "svg":
		return KindGroup
	case "image", "img":
		return KindImage
	case "path":
		return KindPath
	default:
		return KindRect
	}
}

// vectorAuthoritative reports whether elements of this kind take their
// paint from the vector fill/stroke properties even when a visible box
// color is present. Text, rect and group elements are native vector
// shapes; everything else is treated as an HTML-emulated box first.
func (k Kind) vectorAuthoritative() bool {
	switch k {
	case KindText, KindRect, KindGroup:
		return true
	}
	return false
}

// Element is one node of a captured scene tree: a bounding box in a
// tagged coordinate space, the computed style snapshot taken at
// capture time, and optional geometry refinements (a local bounding
// box with the element's own transform, raw line endpoints).
type Element struct {
	Kind  Kind
	Name  string
	Rect  ElementRect
	Style StyleSnapshot

	// Local is the untransformed local-space bounding box, when the
	// capture provides one alongside Transform.
	Local *Rect
	// Transform is the element's own transform relative to its parent.
	// Scene flattening composes ancestor transforms onto it.
	Transform *Matrix

	// Line endpoints in local units, set only for line elements. Nil
	// pointers mark missing coordinates.
	X1, Y1, X2, Y2 *float64

	Text     string
	Href     string
	Hidden   bool
	Children []*Element
}

// NewElement creates an element of the given kind.
func NewElement(kind Kind) *Element {
	return &Element{Kind: kind}
}

// SetRect sets the element's bounding box and returns the element for
// chaining.
func (e *Element) SetRect(r ElementRect) *Element {
	e.Rect = r
	return e
}

// SetLocalBounds attaches a local-space bounding box. Elements with a
// local box are positioned by transforming its four corners instead of
// using the captured rect directly.
func (e *Element) SetLocalBounds(local Rect) *Element {
	e.Local = &local
	return e
}

// SetLine sets the four line endpoint coordinates.
func (e *Element) SetLine(x1, y1, x2, y2 float64) *Element {
	e.X1, e.Y1, e.X2, e.Y2 = &x1, &y1, &x2, &y2
	return e
}

// AddChild appends a child element and returns the parent for chaining.
func (e *Element) AddChild(child *Element) *Element {
	e.Children = append(e.Children, child)
	return e
}

// ownTransform returns the element's transform, or identity when none
// was captured.
func (e *Element) ownTransform() Matrix {
	if e.Transform == nil {
		return Identity()
	}
	return *e.Transform
}

// lineEndpoints returns the raw endpoint coordinates. Missing
// coordinates come back as NaN so the geometry resolver's non-finite
// filtering rejects them.
func (e *Element) lineEndpoints() (x1, y1, x2, y2 float64) {
	return derefCoord(e.X1), derefCoord(e.Y1), derefCoord(e.X2), derefCoord(e.Y2)
}

func derefCoord(p *float64) float64 {
	if p == nil {
		return math.NaN()
	}
	return *p
}
