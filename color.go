package slidescene

import (
	"fmt"
	"math"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"golang.org/x/image/colornames"
)

// RGBA8 is a sampled color with 0-255 channels, alpha not
// premultiplied.
type RGBA8 struct {
	R, G, B, A uint8
}

// ColorDescriptor is a resolved absolute color plus its composed
// opacity. Descriptors combine only by multiplying alpha; hex values
// are never blended.
type ColorDescriptor struct {
	Hex   string  `json:"hex"`   // "#RRGGBB", uppercase
	Alpha float64 `json:"alpha"` // 0..1
}

// Transparent returns the invisible fallback descriptor.
func Transparent() ColorDescriptor {
	return ColorDescriptor{Hex: "#000000", Alpha: 0}
}

// Visible reports whether the descriptor would paint anything.
func (c ColorDescriptor) Visible() bool { return c.Alpha > 0 }

// WithAlpha returns a copy with alpha multiplied by the factor,
// clamped to [0,1] first.
func (c ColorDescriptor) WithAlpha(f float64) ColorDescriptor {
	c.Alpha *= clamp01(f)
	return c
}

// DescriptorFromRGBA converts a sampled color to a descriptor.
func DescriptorFromRGBA(s RGBA8) ColorDescriptor {
	return ColorDescriptor{
		Hex:   fmt.Sprintf("#%02X%02X%02X", s.R, s.G, s.B),
		Alpha: float64(s.A) / 255,
	}
}

// ColorSampler resolves arbitrary CSS color syntax to absolute RGBA.
// Implementations must be read-only after construction: one sampler is
// created at startup and shared by every resolution pass.
type ColorSampler interface {
	Sample(value string) (RGBA8, bool)
}

// CSSSampler is the built-in ColorSampler. It resolves hex notation,
// rgb()/rgba() and hsl()/hsla() functions, the extended named-color
// table and the transparent keywords without needing a raster surface.
type CSSSampler struct{}

// NewCSSSampler creates the built-in color sampler.
func NewCSSSampler() *CSSSampler { return &CSSSampler{} }

// Sample implements ColorSampler.
func (CSSSampler) Sample(value string) (RGBA8, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return RGBA8{}, false
	}
	switch value {
	case "none", "transparent":
		return RGBA8{}, true
	}
	if strings.HasPrefix(value, "#") {
		return parseHexColor(value)
	}
	if strings.Contains(value, "(") {
		return sampleFunction(value)
	}
	if c, ok := colornames.Map[value]; ok {
		return RGBA8{R: c.R, G: c.G, B: c.B, A: c.A}, true
	}
	return RGBA8{}, false
}

// ResolveColor resolves a CSS color through the sampler, degrading to
// the transparent descriptor when the syntax is not recognized. A nil
// sampler falls back to the built-in one.
func ResolveColor(sampler ColorSampler, value string) ColorDescriptor {
	if sampler == nil {
		sampler = NewCSSSampler()
	}
	rgba, ok := sampler.Sample(value)
	if !ok {
		return Transparent()
	}
	return DescriptorFromRGBA(rgba)
}

// parseHexColor parses #RGB, #RGBA, #RRGGBB and #RRGGBBAA notation.
func parseHexColor(s string) (RGBA8, bool) {
	s = strings.TrimPrefix(s, "#")
	if !isHexString(s) {
		return RGBA8{}, false
	}
	switch len(s) {
	case 3:
		r, g, b := hexVal(s[0]), hexVal(s[1]), hexVal(s[2])
		return RGBA8{R: uint8(r<<4 | r), G: uint8(g<<4 | g), B: uint8(b<<4 | b), A: 255}, true
	case 4:
		r, g, b, a := hexVal(s[0]), hexVal(s[1]), hexVal(s[2]), hexVal(s[3])
		return RGBA8{R: uint8(r<<4 | r), G: uint8(g<<4 | g), B: uint8(b<<4 | b), A: uint8(a<<4 | a)}, true
	case 6:
		return RGBA8{R: parseHexByte(s, 0), G: parseHexByte(s, 2), B: parseHexByte(s, 4), A: 255}, true
	case 8:
		return RGBA8{R: parseHexByte(s, 0), G: parseHexByte(s, 2), B: parseHexByte(s, 4), A: parseHexByte(s, 6)}, true
	}
	return RGBA8{}, false
}

// isHexString checks that s contains only hex digits.
func isHexString(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if hexVal(s[i]) < 0 {
			return false
		}
	}
	return true
}

// parseHexByte parses two hex characters at offset into a uint8.
// Returns 0 on any error (out of range, invalid chars).
func parseHexByte(s string, offset int) uint8 {
	if offset+2 > len(s) {
		return 0
	}
	h := hexVal(s[offset])
	l := hexVal(s[offset+1])
	if h < 0 || l < 0 {
		return 0
	}
	return uint8(h<<4 | l)
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return -1
	}
}

// numToken is one numeric argument of a color function.
type numToken struct {
	v   float64
	pct bool
}

// functionArgs tokenizes a color function call, returning the function
// name and its numeric arguments. Comma, space and slash separators
// all qualify.
func functionArgs(value string) (string, []numToken, bool) {
	l := css.NewLexer(parse.NewInputString(value))
	var name string
	var args []numToken
	for {
		tt, data := l.Next()
		switch tt {
		case css.ErrorToken:
			return name, args, name != ""
		case css.FunctionToken:
			if name != "" {
				return "", nil, false
			}
			name = strings.ToLower(strings.TrimSuffix(string(data), "("))
		case css.NumberToken, css.PercentageToken, css.DimensionToken:
			v, unit, ok := splitNumber(string(data))
			if !ok {
				return "", nil, false
			}
			args = append(args, numToken{v: v, pct: unit == "%"})
		case css.RightParenthesisToken:
			return name, args, name != ""
		case css.WhitespaceToken, css.CommaToken, css.DelimToken:
			// separators
		default:
			return "", nil, false
		}
	}
}

func sampleFunction(value string) (RGBA8, bool) {
	name, args, ok := functionArgs(value)
	if !ok || len(args) < 3 {
		return RGBA8{}, false
	}
	a := uint8(255)
	if len(args) >= 4 {
		a = alphaByte(args[3])
	}
	switch name {
	case "rgb", "rgba":
		return RGBA8{R: channelByte(args[0]), G: channelByte(args[1]), B: channelByte(args[2]), A: a}, true
	case "hsl", "hsla":
		r, g, b := hslToRGB(args[0].v, fraction(args[1]), fraction(args[2]))
		return RGBA8{R: clampByte(r * 255), G: clampByte(g * 255), B: clampByte(b * 255), A: a}, true
	}
	return RGBA8{}, false
}

func channelByte(n numToken) uint8 {
	v := n.v
	if n.pct {
		v = v * 255 / 100
	}
	return clampByte(v)
}

func alphaByte(n numToken) uint8 {
	v := n.v
	if n.pct {
		v /= 100
	}
	return clampByte(v * 255)
}

func fraction(n numToken) float64 {
	v := n.v
	if n.pct {
		v /= 100
	}
	return clamp01(v)
}

func clampByte(v float64) uint8 {
	if !finite(v) || v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// hslToRGB converts hue (degrees), saturation and lightness fractions
// to RGB fractions with the CSS color module algorithm.
func hslToRGB(h, s, l float64) (r, g, b float64) {
	if s == 0 {
		return l, l, l
	}
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	h /= 360

	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	return hueToChannel(p, q, h+1.0/3), hueToChannel(p, q, h), hueToChannel(p, q, h-1.0/3)
}

func hueToChannel(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 0.5:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	}
	return p
}
