package slidescene

import "strings"

// Style resolution: turns a computed-style snapshot into paint, stroke,
// font and alignment attributes ready for a slide emitter. Like the
// geometry resolver it never fails; every unparsable value has a
// documented neutral default.

// PaintSet is the resolved color set of one element.
type PaintSet struct {
	Fill       ColorDescriptor `json:"fill"`
	Stroke     ColorDescriptor `json:"stroke"`
	Text       ColorDescriptor `json:"text"`
	Background ColorDescriptor `json:"background"`
}

// Scaled composes an ancestor opacity factor onto every channel.
func (p PaintSet) Scaled(opacity float64) PaintSet {
	p.Fill = p.Fill.WithAlpha(opacity)
	p.Stroke = p.Stroke.WithAlpha(opacity)
	p.Text = p.Text.WithAlpha(opacity)
	p.Background = p.Background.WithAlpha(opacity)
	return p
}

// FontDescriptor is a resolved font for the output format.
type FontDescriptor struct {
	Family     string  `json:"family"`
	SizePoints float64 `json:"sizePoints"`
	Bold       bool    `json:"bold"`
}

// LineStyle is the binary dash classification of a stroke.
type LineStyle string

const (
	LineSolid LineStyle = "solid"
	LineDash  LineStyle = "dash"
)

// HorizontalAlignment represents horizontal text alignment in the
// output format's tokens.
type HorizontalAlignment string

const (
	HorizontalLeft    HorizontalAlignment = "l"
	HorizontalCenter  HorizontalAlignment = "ctr"
	HorizontalRight   HorizontalAlignment = "r"
	HorizontalJustify HorizontalAlignment = "just"
)

const (
	defaultFontFamily     = "Arial"
	defaultFontSizePoints = 12

	// minVisibleStrokeEMU is half a point. Strokes at or below it
	// render as antialiasing noise rather than a visible line, so they
	// are suppressed entirely.
	minVisibleStrokeEMU = 6350

	// maxStrokePoints is the widest line weight the output format
	// accepts.
	maxStrokePoints = 1584
)

// StyleResolver computes effective visual attributes from style
// snapshots. The color sampler is injected once at construction and
// used read-only afterwards.
type StyleResolver struct {
	sampler ColorSampler
}

// NewStyleResolver creates a resolver around the given sampler. A nil
// sampler selects the built-in CSS sampler.
func NewStyleResolver(sampler ColorSampler) *StyleResolver {
	if sampler == nil {
		sampler = NewCSSSampler()
	}
	return &StyleResolver{sampler: sampler}
}

// ResolveColors resolves the fill, stroke, text and background colors
// of an element.
//
// Precedence: a box color (background-color, border-color) wins over
// the corresponding vector paint (fill, stroke) only when the element
// kind is not vector-authoritative and the box color is actually
// visible. Visibility is the tie-break, not presence: a zero-alpha
// background loses to a live fill.
//
// Opacity composes multiplicatively: every channel carries its color's
// own alpha times the element opacity, and the fill and stroke
// channels additionally carry fill-opacity and stroke-opacity. Each
// factor is clamped to [0,1] before multiplying; unparsable factors
// count as 1.
func (r *StyleResolver) ResolveColors(kind Kind, snap StyleSnapshot) PaintSet {
	opacity := cssOpacity(snap.Opacity)
	fillOpacity := cssOpacity(snap.FillOpacity)
	strokeOpacity := cssOpacity(snap.StrokeOpacity)

	background := ResolveColor(r.sampler, snap.BackgroundColor)
	borderColor := ResolveColor(r.sampler, snap.BorderColor)
	vectorFill := ResolveColor(r.sampler, snap.Fill)
	vectorStroke := ResolveColor(r.sampler, snap.Stroke)
	textColor := ResolveColor(r.sampler, snap.Color)

	fill := pickPaint(kind, background, vectorFill)
	stroke := pickPaint(kind, borderColor, vectorStroke)

	return PaintSet{
		Fill:       fill.WithAlpha(opacity).WithAlpha(fillOpacity),
		Stroke:     stroke.WithAlpha(opacity).WithAlpha(strokeOpacity),
		Text:       textColor.WithAlpha(opacity),
		Background: background.WithAlpha(opacity),
	}
}

func pickPaint(kind Kind, box, vector ColorDescriptor) ColorDescriptor {
	if !kind.vectorAuthoritative() && box.Visible() {
		return box
	}
	return vector
}

// ResolveStrokeWidth converts the declared stroke width to EMU,
// preferring stroke-width and falling back to border-width; the first
// positive finite value wins. The second result is false when no
// usable width was declared or the converted width sits at or below
// the minimum-visible threshold, in which case the emitter must not
// draw a line at all.
func (r *StyleResolver) ResolveStrokeWidth(snap StyleSnapshot) (int64, bool) {
	px, ok := firstPositivePixels(snap.StrokeWidth, snap.BorderWidth)
	if !ok {
		return 0, false
	}
	emu := Pixel(px)
	if emu <= minVisibleStrokeEMU {
		return 0, false
	}
	return emu, true
}

func firstPositivePixels(values ...string) (float64, bool) {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		if px := cssPixels(v); px > 0 && finite(px) {
			return px, true
		}
	}
	return 0, false
}

// StrokeWidthPoints expresses a resolved stroke width in the output
// format's line-weight unit: points, never below 1, clamped to the
// valid range.
func StrokeWidthPoints(emu int64) float64 {
	pt := EMUToPoint(emu)
	if pt < 1 {
		return 1
	}
	if pt > maxStrokePoints {
		return maxStrokePoints
	}
	return pt
}

// ResolveFont resolves the font family, size and boldness. The family
// is the first comma-separated token with quotes stripped; declared
// pixel sizes convert to points at 72/96. Boldness is keyword
// membership, not a numeric threshold, so non-numeric weights like
// "bolder" classify correctly.
func (r *StyleResolver) ResolveFont(snap StyleSnapshot) FontDescriptor {
	size := float64(defaultFontSizePoints)
	if px := cssPixels(snap.FontSize); px > 0 {
		size = px * 72.0 / 96.0
	}
	return FontDescriptor{
		Family:     firstFontFamily(snap.FontFamily),
		SizePoints: size,
		Bold:       isBoldWeight(snap.FontWeight),
	}
}

func firstFontFamily(s string) string {
	first, _, _ := strings.Cut(s, ",")
	first = strings.Trim(strings.TrimSpace(first), `"'`)
	first = strings.TrimSpace(first)
	if first == "" {
		return defaultFontFamily
	}
	return first
}

func isBoldWeight(w string) bool {
	switch strings.ToLower(strings.TrimSpace(w)) {
	case "bold", "bolder", "600", "700", "800":
		return true
	}
	return false
}

// ResolveDash classifies the stroke as solid or dashed. Any non-empty
// dash-array counts as dashed; custom patterns are not preserved.
func (r *StyleResolver) ResolveDash(snap StyleSnapshot) LineStyle {
	v := strings.ToLower(strings.TrimSpace(snap.StrokeDasharray))
	if v == "" || v == "none" {
		return LineSolid
	}
	return LineDash
}

// ResolveAlign maps text-align, with text-anchor as fallback, onto the
// output alignment tokens.
func (r *StyleResolver) ResolveAlign(snap StyleSnapshot) HorizontalAlignment {
	switch strings.ToLower(strings.TrimSpace(snap.TextAlign)) {
	case "center":
		return HorizontalCenter
	case "right", "end":
		return HorizontalRight
	case "justify":
		return HorizontalJustify
	case "left", "start":
		return HorizontalLeft
	}
	switch strings.ToLower(strings.TrimSpace(snap.TextAnchor)) {
	case "middle":
		return HorizontalCenter
	case "end":
		return HorizontalRight
	}
	return HorizontalLeft
}
