package slidescene

// Rect is an axis-aligned rectangle in float coordinates. Depending on
// context it holds screen pixels or logical (viewBox) units.
type Rect struct {
	X, Y, W, H float64
}

// NewRect creates a rectangle from origin and size.
func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.W <= 0 || r.H <= 0
}

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return r.X + r.W }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float64 { return r.Y + r.H }

// Union returns the smallest rectangle containing both r and o.
// An empty rectangle does not contribute.
func (r Rect) Union(o Rect) Rect {
	if r.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return r
	}
	x := min(r.X, o.X)
	y := min(r.Y, o.Y)
	mx := max(r.MaxX(), o.MaxX())
	my := max(r.MaxY(), o.MaxY())
	return Rect{X: x, Y: y, W: mx - x, H: my - y}
}

// SizingMode selects how logical coordinates project onto the page.
type SizingMode int

const (
	// SizingFit stretches the logical box to exactly fill the page.
	SizingFit SizingMode = iota
	// SizingViewportPercent keeps out-of-bounds content by switching
	// that coordinate to a percentage-of-page value instead of
	// clamping or distorting it.
	SizingViewportPercent
)

// String returns the mode name.
func (m SizingMode) String() string {
	switch m {
	case SizingViewportPercent:
		return "viewport-percent"
	default:
		return "fit"
	}
}

// SlideContext carries everything needed to place one source scene onto
// one output page: the on-screen viewport the scene was captured at,
// the scene's declared logical box (its viewBox equivalent), the sizing
// mode, and the page dimensions in EMU. A context is built once per
// page and never modified afterwards.
type SlideContext struct {
	Viewport Rect
	Logical  Rect
	Sizing   SizingMode
	PageW    int64
	PageH    int64
}

// NewSlideContext creates a slide context, applying the defensive
// fallbacks for degenerate input: logical falls back to the viewport
// when it has no area, zero dimensions are floored to 1 so later ratio
// math cannot divide by zero, and non-positive page dimensions fall
// back to the default layout.
func NewSlideContext(viewport, logical Rect, mode SizingMode, pageW, pageH int64) *SlideContext {
	if viewport.W <= 0 {
		viewport.W = 1
	}
	if viewport.H <= 0 {
		viewport.H = 1
	}
	if logical.W <= 0 || logical.H <= 0 {
		logical = Rect{X: logical.X, Y: logical.Y, W: viewport.W, H: viewport.H}
	}
	def := NewPageSize()
	if pageW <= 0 {
		pageW = def.W
	}
	if pageH <= 0 {
		pageH = def.H
	}
	return &SlideContext{
		Viewport: viewport,
		Logical:  logical,
		Sizing:   mode,
		PageW:    pageW,
		PageH:    pageH,
	}
}

// ContextForScene builds a context from a scene's captured viewport and
// logical box and the given page size.
func ContextForScene(sc *Scene, mode SizingMode, page *PageSize) *SlideContext {
	if page == nil {
		page = NewPageSize()
	}
	var viewport, logical Rect
	if sc != nil {
		viewport = sc.Viewport
		logical = sc.Logical
	}
	return NewSlideContext(viewport, logical, mode, page.W, page.H)
}

// PageSize represents the output page dimensions.
type PageSize struct {
	W    int64 // width in EMU (English Metric Units)
	H    int64 // height in EMU
	Name string
}

// Standard layout constants (in EMU: 1 inch = 914400 EMU).
const (
	LayoutScreen4x3   = "screen4x3"
	LayoutScreen16x9  = "screen16x9"
	LayoutScreen16x10 = "screen16x10"
	LayoutBanner10x6  = "banner10x6"
	LayoutA4          = "A4"
	LayoutLetter      = "letter"
	LayoutCustom      = "custom"
)

// NewPageSize creates a default 4:3 page.
func NewPageSize() *PageSize {
	return &PageSize{
		W:    9144000, // 10 inches
		H:    6858000, // 7.5 inches
		Name: LayoutScreen4x3,
	}
}

// SetLayout sets a predefined layout.
func (ps *PageSize) SetLayout(name string) {
	ps.Name = name
	switch name {
	case LayoutScreen4x3:
		ps.W = 9144000
		ps.H = 6858000
	case LayoutScreen16x9:
		ps.W = 12192000
		ps.H = 6858000
	case LayoutScreen16x10:
		ps.W = 10972800
		ps.H = 6858000
	case LayoutBanner10x6:
		ps.W = 9144000
		ps.H = 5486400
	case LayoutA4:
		ps.W = 9906000
		ps.H = 6858000
	case LayoutLetter:
		ps.W = 9144000
		ps.H = 6858000
	}
}

// SetCustom sets custom dimensions in EMU. Both values must be positive.
func (ps *PageSize) SetCustom(w, h int64) {
	if w <= 0 {
		w = 9144000 // default 10 inches
	}
	if h <= 0 {
		h = 6858000 // default 7.5 inches
	}
	ps.W = w
	ps.H = h
	ps.Name = LayoutCustom
}
