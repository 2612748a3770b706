package slidescene

import (
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// StyleSnapshot is the computed style of one element at capture time,
// one field per recognized CSS longhand. Values are kept as raw CSS
// strings; the resolvers parse them on demand with documented
// fallbacks, so a snapshot full of garbage still resolves to a neutral
// invisible primitive.
type StyleSnapshot struct {
	BackgroundColor string
	Color           string
	Fill            string
	Stroke          string
	FillOpacity     string
	StrokeOpacity   string
	Opacity         string
	BorderColor     string
	BorderWidth     string
	StrokeWidth     string
	StrokeDasharray string
	FontFamily      string
	FontSize        string
	FontWeight      string
	TextAlign       string
	TextAnchor      string
	BorderRadius    string
	PaddingTop      string
	PaddingRight    string
	PaddingBottom   string
	PaddingLeft     string
	MarginTop       string
	MarginRight     string
	MarginBottom    string
	MarginLeft      string
	Display         string
	Visibility      string
}

// Set assigns a longhand property by its CSS name. Unrecognized
// properties are ignored and reported false.
func (s *StyleSnapshot) Set(property, value string) bool {
	value = strings.TrimSpace(value)
	switch strings.ToLower(strings.TrimSpace(property)) {
	case "background-color":
		s.BackgroundColor = value
	case "color":
		s.Color = value
	case "fill":
		s.Fill = value
	case "stroke":
		s.Stroke = value
	case "fill-opacity":
		s.FillOpacity = value
	case "stroke-opacity":
		s.StrokeOpacity = value
	case "opacity":
		s.Opacity = value
	case "border-color":
		s.BorderColor = value
	case "border-width":
		s.BorderWidth = value
	case "stroke-width":
		s.StrokeWidth = value
	case "stroke-dasharray":
		s.StrokeDasharray = value
	case "font-family":
		s.FontFamily = value
	case "font-size":
		s.FontSize = value
	case "font-weight":
		s.FontWeight = value
	case "text-align":
		s.TextAlign = value
	case "text-anchor":
		s.TextAnchor = value
	case "border-radius":
		s.BorderRadius = value
	case "padding-top":
		s.PaddingTop = value
	case "padding-right":
		s.PaddingRight = value
	case "padding-bottom":
		s.PaddingBottom = value
	case "padding-left":
		s.PaddingLeft = value
	case "margin-top":
		s.MarginTop = value
	case "margin-right":
		s.MarginRight = value
	case "margin-bottom":
		s.MarginBottom = value
	case "margin-left":
		s.MarginLeft = value
	case "display":
		s.Display = value
	case "visibility":
		s.Visibility = value
	default:
		return false
	}
	return true
}

// SnapshotFromMap builds a snapshot from a property-name-to-value map,
// the shape the computed-style collaborator delivers. Unknown keys are
// dropped.
func SnapshotFromMap(m map[string]string) StyleSnapshot {
	var s StyleSnapshot
	for k, v := range m {
		s.Set(k, v)
	}
	return s
}

// inherited returns a child snapshot carrying only the properties that
// cascade in the source document: paint, font and text properties.
// Box properties and opacity stay with their own element (opacity
// composes multiplicatively during flattening instead of inheriting).
func (s StyleSnapshot) inherited() StyleSnapshot {
	return StyleSnapshot{
		Color:           s.Color,
		Fill:            s.Fill,
		Stroke:          s.Stroke,
		FillOpacity:     s.FillOpacity,
		StrokeOpacity:   s.StrokeOpacity,
		StrokeWidth:     s.StrokeWidth,
		StrokeDasharray: s.StrokeDasharray,
		FontFamily:      s.FontFamily,
		FontSize:        s.FontSize,
		FontWeight:      s.FontWeight,
		TextAlign:       s.TextAlign,
		TextAnchor:      s.TextAnchor,
		Visibility:      s.Visibility,
	}
}

// firstNumber lexes a CSS value and splits its first number,
// percentage or dimension token into value and lowercase unit. Any
// other leading token means the value is not numeric.
func firstNumber(s string) (value float64, unit string, ok bool) {
	l := css.NewLexer(parse.NewInputString(s))
	for {
		tt, data := l.Next()
		switch tt {
		case css.WhitespaceToken, css.CommentToken:
			continue
		case css.NumberToken, css.PercentageToken, css.DimensionToken:
			return splitNumber(string(data))
		default:
			return 0, "", false
		}
	}
}

// splitNumber separates the numeric prefix of a token like "5px",
// "50%" or "1.5e2" from its unit.
func splitNumber(s string) (float64, string, bool) {
	i, n := 0, len(s)
	if i < n && (s[i] == '+' || s[i] == '-') {
		i++
	}
	for i < n && isDigit(s[i]) {
		i++
	}
	if i < n && s[i] == '.' {
		i++
		for i < n && isDigit(s[i]) {
			i++
		}
	}
	if i < n && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < n && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < n && isDigit(s[j]) {
			i = j
			for i < n && isDigit(s[i]) {
				i++
			}
		}
	}
	v, err := strconv.ParseFloat(s[:i], 64)
	if err != nil {
		return 0, "", false
	}
	return v, strings.ToLower(strings.TrimSpace(s[i:])), true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// cssFloat extracts the leading numeric value of a CSS value string.
func cssFloat(s string) (float64, bool) {
	v, _, ok := firstNumber(s)
	if !ok || !finite(v) {
		return 0, false
	}
	return v, true
}

// cssPixels reads a pixel length. Bare numbers and px dimensions
// qualify; any other unit or syntax degrades to 0.
func cssPixels(s string) float64 {
	v, unit, ok := firstNumber(s)
	if !ok || !finite(v) {
		return 0
	}
	switch unit {
	case "", "px":
		return v
	}
	return 0
}

// cssOpacity reads an opacity factor clamped to [0,1]. Missing or
// unparsable values mean fully opaque.
func cssOpacity(s string) float64 {
	if strings.TrimSpace(s) == "" {
		return 1
	}
	v, unit, ok := firstNumber(s)
	if !ok || !finite(v) {
		return 1
	}
	if unit == "%" {
		v /= 100
	}
	return clamp01(v)
}

func clamp01(v float64) float64 {
	if !finite(v) || v > 1 {
		return 1
	}
	if v < 0 {
		return 0
	}
	return v
}
