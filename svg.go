package slidescene

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"golang.org/x/net/html/charset"
)

// SVG scene reader: parses an SVG document into a Scene whose element
// rectangles are tagged SpaceLocal (SVG user units are the logical
// units). Styling merges, in cascade order, inherited properties,
// presentation attributes, matching <style> rules and the inline
// style attribute. Only plain tag and .class selectors are honored,
// and a <style> block applies to the elements that follow it.

var errNoSVGRoot = errors.New("missing svg root element")

// OpenSceneSVG reads an SVG scene from a file.
// This is a convenience wrapper around ReadSceneSVG.
func OpenSceneSVG(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene: %w", err)
	}
	defer f.Close()
	return ReadSceneSVG(f)
}

// ReadSceneSVG parses an SVG document from the reader.
func ReadSceneSVG(r io.Reader) (*Scene, error) {
	decoder := xml.NewDecoder(r)
	decoder.Strict = false
	decoder.AutoClose = xml.HTMLAutoClose
	decoder.Entity = xml.HTMLEntity
	decoder.CharsetReader = charset.NewReaderLabel

	sr := &svgReader{}
	for {
		t, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("failed to parse scene: %w", err)
		}
		switch tok := t.(type) {
		case xml.StartElement:
			sr.startElement(tok)
		case xml.EndElement:
			sr.endElement(tok)
		case xml.CharData:
			sr.charData(string(tok))
		}
	}
	if sr.scene == nil {
		return nil, errNoSVGRoot
	}
	return sr.scene, nil
}

// containers that do not render; their subtrees are dropped entirely.
var skippedSVGElements = map[string]bool{
	"defs":           true,
	"symbol":         true,
	"marker":         true,
	"mask":           true,
	"clippath":       true,
	"pattern":        true,
	"filter":         true,
	"lineargradient": true,
	"radialgradient": true,
	"stop":           true,
	"metadata":       true,
	"script":         true,
	"foreignobject":  true,
	"use":            true,
}

// styleRule is one qualified rule from a <style> block, flattened to
// one selector.
type styleRule struct {
	selector string
	decls    []*css.Declaration
}

type svgReader struct {
	scene *Scene
	stack []*Element
	rules []styleRule

	skipDepth int
	inStyle   bool
	inTitle   bool
	inDesc    bool
	styleText strings.Builder
}

func (sr *svgReader) startElement(se xml.StartElement) {
	if sr.skipDepth > 0 {
		sr.skipDepth++
		return
	}
	if sr.inStyle || sr.inTitle || sr.inDesc {
		// markup nested in a text-collecting element is ignored
		return
	}
	name := strings.ToLower(se.Name.Local)

	if sr.scene == nil {
		if name != "svg" {
			return
		}
		sr.readRootSVG(se)
		return
	}

	if len(sr.stack) == 0 {
		// content after the root element closed
		return
	}
	if skippedSVGElements[name] {
		sr.skipDepth = 1
		return
	}
	switch name {
	case "style":
		sr.inStyle = true
		return
	case "title":
		if len(sr.stack) == 1 {
			sr.inTitle = true
		} else {
			sr.skipDepth = 1
		}
		return
	case "desc":
		if len(sr.stack) == 1 {
			sr.inDesc = true
		} else {
			sr.skipDepth = 1
		}
		return
	}

	el := sr.readElement(name, se.Attr)
	parent := sr.stack[len(sr.stack)-1]
	parent.AddChild(el)
	sr.stack = append(sr.stack, el)
}

func (sr *svgReader) endElement(ee xml.EndElement) {
	if sr.skipDepth > 0 {
		sr.skipDepth--
		return
	}
	name := strings.ToLower(ee.Name.Local)
	if sr.inStyle {
		if name != "style" {
			return
		}
		sr.inStyle = false
		sr.parseStyleBlock(sr.styleText.String())
		sr.styleText.Reset()
		return
	}
	if sr.inTitle {
		if name != "title" {
			return
		}
		sr.inTitle = false
		return
	}
	if sr.inDesc {
		if name != "desc" {
			return
		}
		sr.inDesc = false
		return
	}
	if len(sr.stack) == 0 {
		return
	}
	el := sr.stack[len(sr.stack)-1]
	sr.stack = sr.stack[:len(sr.stack)-1]
	if el.Kind == KindText && (el.Local == nil || el.Local.IsEmpty()) {
		estimateTextBox(el)
	}
}

func (sr *svgReader) charData(text string) {
	switch {
	case sr.skipDepth > 0:
	case sr.inStyle:
		sr.styleText.WriteString(text)
	case sr.inTitle:
		sr.scene.Title = appendText(sr.scene.Title, text)
	case sr.inDesc:
		sr.scene.Description = appendText(sr.scene.Description, text)
	case len(sr.stack) > 0:
		el := sr.stack[len(sr.stack)-1]
		if el.Kind == KindText {
			el.Text = appendText(el.Text, text)
		}
	}
}

func appendText(dst, chunk string) string {
	chunk = strings.TrimSpace(chunk)
	if chunk == "" {
		return dst
	}
	if dst == "" {
		return chunk
	}
	return dst + " " + chunk
}

// readRootSVG builds the scene from the svg element's width, height
// and viewBox.
func (sr *svgReader) readRootSVG(se xml.StartElement) {
	var width, height float64
	var logical *Rect
	root := NewElement(KindGroup)
	root.Name = "svg"

	for _, attr := range se.Attr {
		switch strings.ToLower(attr.Name.Local) {
		case "width":
			width = cssPixels(attr.Value)
		case "height":
			height = cssPixels(attr.Value)
		case "viewbox":
			if nums := splitNumbers(attr.Value); len(nums) == 4 {
				logical = &Rect{X: nums[0], Y: nums[1], W: nums[2], H: nums[3]}
			}
		case "id":
			root.Name = attr.Value
		case "transform":
			m := ParseTransform(attr.Value)
			root.Transform = &m
		default:
			root.Style.Set(attr.Name.Local, attr.Value)
		}
	}

	viewport := Rect{W: width, H: height}
	if viewport.IsEmpty() && logical != nil {
		viewport = Rect{W: logical.W, H: logical.H}
	}
	sc := NewScene(viewport)
	if logical != nil {
		sc.Logical = *logical
	}
	sc.Root = root
	sr.scene = sc
	sr.stack = []*Element{root}
}

// readElement builds one scene element from a start tag.
func (sr *svgReader) readElement(name string, attrs []xml.Attr) *Element {
	el := NewElement(KindFromName(name))
	parent := sr.stack[len(sr.stack)-1]
	el.Style = parent.Style.inherited()

	var class string
	var x, y, w, h, cx, cy, rx, ry, radius float64
	var x1, y1, x2, y2 *float64
	var inline string
	var sawX, sawY bool

	// presentation attributes first; stylesheet rules and the inline
	// style attribute override them below, in cascade order.
	for _, attr := range attrs {
		key := strings.ToLower(attr.Name.Local)
		val := strings.TrimSpace(attr.Value)
		switch key {
		case "id":
			el.Name = val
		case "class":
			class = val
		case "style":
			inline = val
		case "transform":
			m := ParseTransform(val)
			el.Transform = &m
		case "href":
			el.Href = val
		case "x":
			x = cssPixels(val)
			sawX = true
		case "y":
			y = cssPixels(val)
			sawY = true
		case "width":
			w = cssPixels(val)
		case "height":
			h = cssPixels(val)
		case "cx":
			cx = cssPixels(val)
		case "cy":
			cy = cssPixels(val)
		case "r":
			radius = cssPixels(val)
		case "rx":
			rx = cssPixels(val)
		case "ry":
			ry = cssPixels(val)
		case "x1":
			v := cssPixels(val)
			x1 = &v
		case "y1":
			v := cssPixels(val)
			y1 = &v
		case "x2":
			v := cssPixels(val)
			x2 = &v
		case "y2":
			v := cssPixels(val)
			y2 = &v
		default:
			el.Style.Set(key, val)
		}
	}

	for _, rule := range sr.matchRules(name, class) {
		for _, d := range rule.decls {
			el.Style.Set(d.Property, d.Value)
		}
	}
	applyInlineStyle(&el.Style, inline)

	switch el.Kind {
	case KindEllipse:
		if radius > 0 {
			rx, ry = radius, radius
		}
		setLocalGeometry(el, Rect{X: cx - rx, Y: cy - ry, W: 2 * rx, H: 2 * ry})
	case KindLine:
		el.X1, el.Y1, el.X2, el.Y2 = x1, y1, x2, y2
		el.Rect.Space = SpaceLocal
	case KindText:
		// spans without their own anchor inherit the enclosing text
		// element's; the box is estimated at end element, once the
		// content is known.
		if parent.Kind == KindText && parent.Local != nil {
			if !sawX {
				x = parent.Local.X
			}
			if !sawY {
				y = parent.Local.Y
			}
		}
		setLocalGeometry(el, Rect{X: x, Y: y})
	case KindGroup:
		el.Rect.Space = SpaceLocal
	case KindPath:
		// outline geometry is not traced; an explicitly annotated box
		// is honored, otherwise the path acts as a container
		if w > 0 && h > 0 {
			setLocalGeometry(el, Rect{X: x, Y: y, W: w, H: h})
		} else {
			el.Rect.Space = SpaceLocal
		}
	default:
		if el.Kind == KindRect && rx > 0 && el.Style.BorderRadius == "" {
			el.Style.Set("border-radius", fmt.Sprintf("%gpx", rx))
		}
		setLocalGeometry(el, Rect{X: x, Y: y, W: w, H: h})
	}
	return el
}

// setLocalGeometry records attribute geometry as both the element's
// tagged rect and its local-bounds box, so composed transforms go
// through the four-corner path during resolution.
func setLocalGeometry(el *Element, r Rect) {
	el.Rect = ElementRect{Rect: r, Space: SpaceLocal}
	local := r
	el.Local = &local
}

// applyInlineStyle merges a style attribute's declarations into the
// snapshot. The parser requires a trailing semicolon that inline
// attributes commonly omit.
func applyInlineStyle(snap *StyleSnapshot, inline string) {
	if inline == "" {
		return
	}
	if !strings.HasSuffix(inline, ";") {
		inline += ";"
	}
	decls, err := parser.ParseDeclarations(inline)
	if err != nil {
		return
	}
	for _, d := range decls {
		snap.Set(d.Property, d.Value)
	}
}

// parseStyleBlock collects qualified rules from a <style> body.
func (sr *svgReader) parseStyleBlock(text string) {
	sheet, err := parser.Parse(text)
	if err != nil {
		return
	}
	for _, rule := range sheet.Rules {
		if rule.Kind == css.AtRule || len(rule.Declarations) == 0 {
			continue
		}
		for _, sel := range rule.Selectors {
			sr.rules = append(sr.rules, styleRule{
				selector: strings.TrimSpace(sel),
				decls:    rule.Declarations,
			})
		}
	}
}

// matchRules returns the stylesheet rules whose selector matches the
// tag name or one of the element's classes, in declaration order.
func (sr *svgReader) matchRules(tag, class string) []styleRule {
	if len(sr.rules) == 0 {
		return nil
	}
	classes := strings.Fields(class)
	var out []styleRule
	for _, rule := range sr.rules {
		if sel, ok := strings.CutPrefix(rule.selector, "."); ok {
			for _, c := range classes {
				if c == sel {
					out = append(out, rule)
					break
				}
			}
			continue
		}
		if strings.EqualFold(rule.selector, tag) {
			out = append(out, rule)
		}
	}
	return out
}

// estimateTextBox derives a bounding box for a text element from its
// anchor point, font size and content length. The source document
// anchors text at the baseline start and provides no intrinsic box;
// without glyph metrics the box uses the font size for line height
// and an average glyph advance.
func estimateTextBox(el *Element) {
	if el.Text == "" || el.Local == nil {
		return
	}
	size := cssPixels(el.Style.FontSize)
	if size <= 0 {
		size = 16
	}
	w := 0.6 * size * float64(utf8.RuneCountInString(el.Text))
	h := 1.2 * size
	x := el.Local.X
	y := el.Local.Y - size

	switch strings.ToLower(strings.TrimSpace(el.Style.TextAnchor)) {
	case "middle":
		x -= w / 2
	case "end":
		x -= w
	}
	setLocalGeometry(el, Rect{X: x, Y: y, W: w, H: h})
}
