package slidescene

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Capture scene reader: parses the JSON documents produced by the
// headless browser harness. Captured rectangles come from
// getBoundingClientRect and are therefore tagged SpaceScreen unless a
// node says otherwise; nodes that kept their untransformed box carry
// it under "local" together with a CSS transform string.

var errNoViewport = errors.New("capture missing viewport")

type captureDocument struct {
	Viewport    *captureRect     `json:"viewport"`
	Logical     *captureRect     `json:"logical"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Elements    []captureElement `json:"elements"`
}

type captureRect struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	W     float64 `json:"width"`
	H     float64 `json:"height"`
	Space string  `json:"space,omitempty"`
}

type captureLine struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

type captureElement struct {
	Kind      string            `json:"kind"`
	Name      string            `json:"name"`
	Rect      *captureRect      `json:"rect"`
	Local     *captureRect      `json:"local"`
	Style     map[string]string `json:"style"`
	Transform string            `json:"transform"`
	Text      string            `json:"text"`
	Href      string            `json:"href"`
	Hidden    bool              `json:"hidden"`
	Line      *captureLine      `json:"line"`
	Children  []captureElement  `json:"children"`
}

// OpenSceneCapture reads a capture scene from a file.
// This is a convenience wrapper around ReadSceneCapture.
func OpenSceneCapture(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene: %w", err)
	}
	defer f.Close()
	return ReadSceneCapture(f)
}

// ReadSceneCapture parses a capture document from the reader.
func ReadSceneCapture(r io.Reader) (*Scene, error) {
	var doc captureDocument
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse capture: %w", err)
	}
	if doc.Viewport == nil {
		return nil, errNoViewport
	}

	sc := NewScene(doc.Viewport.rect())
	if doc.Logical != nil {
		sc.Logical = doc.Logical.rect()
	}
	sc.Title = doc.Title
	sc.Description = doc.Description
	for i := range doc.Elements {
		sc.Root.AddChild(buildCaptureElement(&doc.Elements[i]))
	}
	return sc, nil
}

func (cr *captureRect) rect() Rect {
	return Rect{X: cr.X, Y: cr.Y, W: cr.W, H: cr.H}
}

func (cr *captureRect) space() Space {
	if strings.EqualFold(cr.Space, "local") {
		return SpaceLocal
	}
	return SpaceScreen
}

func buildCaptureElement(ce *captureElement) *Element {
	el := NewElement(KindFromName(ce.Kind))
	el.Name = ce.Name
	el.Text = ce.Text
	el.Href = ce.Href
	el.Hidden = ce.Hidden
	el.Style = SnapshotFromMap(ce.Style)

	if ce.Rect != nil {
		el.Rect = ElementRect{Rect: ce.Rect.rect(), Space: ce.Rect.space()}
	}
	if ce.Local != nil {
		el.SetLocalBounds(ce.Local.rect())
	}
	if ce.Transform != "" {
		m := ParseTransform(ce.Transform)
		el.Transform = &m
	}
	if ce.Line != nil && el.Kind == KindLine {
		el.SetLine(ce.Line.X1, ce.Line.Y1, ce.Line.X2, ce.Line.Y2)
	}
	for i := range ce.Children {
		el.AddChild(buildCaptureElement(&ce.Children[i]))
	}
	return el
}
