package slidescene

import (
	"encoding/json"
	"math"
	"testing"
)

// helper: context for a 1000x600 capture onto a 10x6 inch page, where
// one source pixel maps to exactly 9144 EMU on both axes
func bannerContext(mode SizingMode) *SlideContext {
	page := NewPageSize()
	page.SetLayout(LayoutBanner10x6)
	return NewSlideContext(NewRect(0, 0, 1000, 600), Rect{}, mode, page.W, page.H)
}

// helper: compare floats with tolerance
func near(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s: expected %v, got %v", name, want, got)
	}
}

// =============================================================================
// Test 1: EMU measurement conversions
// =============================================================================
func TestMeasurements(t *testing.T) {
	if Inch(1) != 914400 {
		t.Errorf("1 inch = %d EMU, expected 914400", Inch(1))
	}
	if Point(1) != 12700 {
		t.Errorf("1 point = %d EMU, expected 12700", Point(1))
	}
	if Centimeter(1) != 360000 {
		t.Errorf("1 cm = %d EMU, expected 360000", Centimeter(1))
	}
	if Millimeter(1) != 36000 {
		t.Errorf("1 mm = %d EMU, expected 36000", Millimeter(1))
	}
	if Pixel(1) != 9525 {
		t.Errorf("1 px = %d EMU, expected 9525", Pixel(1))
	}

	if EMUToInch(Inch(2.5)) != 2.5 {
		t.Errorf("EMUToInch round-trip failed")
	}
	if EMUToPoint(Point(72)) != 72 {
		t.Errorf("EMUToPoint round-trip failed")
	}
	if EMUToPixel(Pixel(96)) != 96 {
		t.Errorf("EMUToPixel round-trip failed")
	}
}

// =============================================================================
// Test 2: page layout presets
// =============================================================================
func TestPageLayouts(t *testing.T) {
	layouts := []struct {
		name string
		w    int64
		h    int64
	}{
		{LayoutScreen4x3, 9144000, 6858000},
		{LayoutScreen16x9, 12192000, 6858000},
		{LayoutScreen16x10, 10972800, 6858000},
		{LayoutBanner10x6, 9144000, 5486400},
		{LayoutA4, 9906000, 6858000},
		{LayoutLetter, 9144000, 6858000},
	}

	for _, l := range layouts {
		t.Run(l.name, func(t *testing.T) {
			page := NewPageSize()
			page.SetLayout(l.name)
			if page.W != l.w {
				t.Errorf("W: expected %d, got %d", l.w, page.W)
			}
			if page.H != l.h {
				t.Errorf("H: expected %d, got %d", l.h, page.H)
			}
			if page.Name != l.name {
				t.Errorf("Name: expected %s, got %s", l.name, page.Name)
			}
		})
	}

	page := NewPageSize()
	page.SetCustom(Inch(13.333), Inch(7.5))
	if page.W != Inch(13.333) || page.H != Inch(7.5) {
		t.Errorf("custom page: expected %dx%d, got %dx%d", Inch(13.333), Inch(7.5), page.W, page.H)
	}
	if page.Name != LayoutCustom {
		t.Errorf("custom page name: expected %s, got %s", LayoutCustom, page.Name)
	}
	page.SetCustom(-5, 0)
	if page.W != 9144000 || page.H != 6858000 {
		t.Errorf("non-positive custom dims should fall back to defaults, got %dx%d", page.W, page.H)
	}
}

// =============================================================================
// Test 3: screen rect to page metrics in fit mode
// =============================================================================
func TestResolveMetricsFit(t *testing.T) {
	ctx := bannerContext(SizingFit)

	m := ResolveMetrics(ScreenRect(100, 60, 200, 120), ctx)
	if m.X.EMU() != 914400 {
		t.Errorf("X: expected 914400, got %d", m.X.EMU())
	}
	if m.Y.EMU() != 548640 {
		t.Errorf("Y: expected 548640, got %d", m.Y.EMU())
	}
	if m.W != 1828800 {
		t.Errorf("W: expected 1828800, got %d", m.W)
	}
	if m.H != 1097280 {
		t.Errorf("H: expected 1097280, got %d", m.H)
	}

	// full-viewport rect fills the page exactly
	full := ResolveMetrics(ScreenRect(0, 0, 1000, 600), ctx)
	if full.X.EMU() != 0 || full.Y.EMU() != 0 {
		t.Errorf("full rect origin: expected 0,0, got %d,%d", full.X.EMU(), full.Y.EMU())
	}
	if full.W != 9144000 || full.H != 5486400 {
		t.Errorf("full rect size: expected 9144000x5486400, got %dx%d", full.W, full.H)
	}

	// negative extents clamp to zero and the result reads as empty
	deg := ResolveMetrics(ScreenRect(0, 0, -10, 50), ctx)
	if deg.W != 0 {
		t.Errorf("negative width: expected 0, got %d", deg.W)
	}
	if !deg.IsEmpty() {
		t.Error("zero-width metrics should be empty")
	}
}

// =============================================================================
// Test 4: local rects normalize against the logical box
// =============================================================================
func TestResolveMetricsLocalSpace(t *testing.T) {
	page := NewPageSize()
	page.SetLayout(LayoutBanner10x6)
	ctx := NewSlideContext(NewRect(0, 0, 1000, 600), NewRect(0, 0, 500, 300), SizingFit, page.W, page.H)

	// same page share as the screen-space example, half the units
	m := ResolveMetrics(LocalRect(50, 30, 100, 60), ctx)
	if m.X.EMU() != 914400 || m.Y.EMU() != 548640 {
		t.Errorf("origin: expected 914400,548640, got %d,%d", m.X.EMU(), m.Y.EMU())
	}
	if m.W != 1828800 || m.H != 1097280 {
		t.Errorf("size: expected 1828800x1097280, got %dx%d", m.W, m.H)
	}

	// logical box with an offset origin shifts local coordinates
	ctx2 := NewSlideContext(NewRect(0, 0, 1000, 600), NewRect(50, 30, 500, 300), SizingFit, page.W, page.H)
	m2 := ResolveMetrics(LocalRect(100, 60, 100, 60), ctx2)
	if m2.X.EMU() != 914400 || m2.Y.EMU() != 548640 {
		t.Errorf("offset logical origin: expected 914400,548640, got %d,%d", m2.X.EMU(), m2.Y.EMU())
	}
}

// =============================================================================
// Test 5: viewport offsets subtract out of screen rects
// =============================================================================
func TestResolveMetricsViewportOffset(t *testing.T) {
	page := NewPageSize()
	page.SetLayout(LayoutBanner10x6)
	ctx := NewSlideContext(NewRect(10, 20, 1000, 600), Rect{}, SizingFit, page.W, page.H)

	m := ResolveMetrics(ScreenRect(110, 80, 200, 120), ctx)
	if m.X.EMU() != 914400 || m.Y.EMU() != 548640 {
		t.Errorf("origin: expected 914400,548640, got %d,%d", m.X.EMU(), m.Y.EMU())
	}
	if m.W != 1828800 || m.H != 1097280 {
		t.Errorf("size: expected 1828800x1097280, got %dx%d", m.W, m.H)
	}
}

// =============================================================================
// Test 6: viewport-percent mode matches fit for in-range content
// =============================================================================
func TestViewportPercentMatchesFit(t *testing.T) {
	fit := bannerContext(SizingFit)
	pct := bannerContext(SizingViewportPercent)

	rects := []ElementRect{
		ScreenRect(100, 60, 200, 120),
		ScreenRect(0, 0, 1000, 600),
		ScreenRect(999, 599, 1, 1),
	}
	for _, r := range rects {
		a := ResolveMetrics(r, fit)
		b := ResolveMetrics(r, pct)
		if a != b {
			t.Errorf("rect %+v: fit %+v != percent %+v", r.Rect, a, b)
		}
	}
}

// =============================================================================
// Test 7: viewport-percent escapes out-of-range origins
// =============================================================================
func TestViewportPercentEscape(t *testing.T) {
	pct := bannerContext(SizingViewportPercent)
	fit := bannerContext(SizingFit)

	m := ResolveMetrics(ScreenRect(-100, 60, 200, 120), pct)
	if !m.X.IsPercent() {
		t.Fatal("out-of-range X should be a percent coordinate")
	}
	if m.X.EMU() != 0 {
		t.Errorf("percent X absolute part: expected 0, got %d", m.X.EMU())
	}
	near(t, "percent X ratio", m.X.Ratio(), -0.1)
	if got := m.X.PercentString(); got != "-10%" {
		t.Errorf("percent string: expected -10%%, got %s", got)
	}
	if m.Y.IsPercent() {
		t.Error("in-range Y should stay absolute")
	}
	if m.Y.EMU() != 548640 {
		t.Errorf("Y: expected 548640, got %d", m.Y.EMU())
	}
	if m.W != 1828800 || m.H != 1097280 {
		t.Errorf("extents stay absolute: expected 1828800x1097280, got %dx%d", m.W, m.H)
	}

	// past the far edge
	right := ResolveMetrics(ScreenRect(1100, 60, 200, 120), pct)
	if !right.X.IsPercent() {
		t.Fatal("X past the far edge should be a percent coordinate")
	}
	if got := right.X.PercentString(); got != "110%" {
		t.Errorf("percent string: expected 110%%, got %s", got)
	}

	// the boundary ratios 0 and 1 are still in range
	edge := ResolveMetrics(ScreenRect(0, 0, 1000, 600), pct)
	if edge.X.IsPercent() || edge.Y.IsPercent() {
		t.Error("boundary ratios should stay absolute")
	}

	// fit mode converts the same rect to plain negative EMU
	f := ResolveMetrics(ScreenRect(-100, 60, 200, 120), fit)
	if f.X.IsPercent() {
		t.Error("fit mode must not produce percent coordinates")
	}
	if f.X.EMU() != -914400 {
		t.Errorf("fit X: expected -914400, got %d", f.X.EMU())
	}
}

// =============================================================================
// Test 8: rounding is half away from zero
// =============================================================================
func TestRoundingHalfAwayFromZero(t *testing.T) {
	// 1/4 of a 10-unit page lands exactly on 2.5
	ctx := NewSlideContext(NewRect(0, 0, 4, 4), Rect{}, SizingFit, 10, 10)

	m := ResolveMetrics(ScreenRect(1, 0, 1, 4), ctx)
	if m.X.EMU() != 3 {
		t.Errorf("2.5 should round to 3, got %d", m.X.EMU())
	}
	if m.W != 3 {
		t.Errorf("width 2.5 should round to 3, got %d", m.W)
	}

	neg := ResolveMetrics(ScreenRect(-1, 0, 1, 4), ctx)
	if neg.X.EMU() != -3 {
		t.Errorf("-2.5 should round to -3, got %d", neg.X.EMU())
	}
}

// =============================================================================
// Test 9: resolution is deterministic
// =============================================================================
func TestResolveMetricsDeterministic(t *testing.T) {
	ctx := bannerContext(SizingViewportPercent)
	r := ScreenRect(123.456, -78.9, 321.1, 42.42)
	first := ResolveMetrics(r, ctx)
	for i := 0; i < 10; i++ {
		if got := ResolveMetrics(r, ctx); got != first {
			t.Fatalf("run %d: expected %+v, got %+v", i, first, got)
		}
	}
}

// =============================================================================
// Test 10: local bounds resolve through the composed transform
// =============================================================================
func TestResolveElementMetricsLocalBounds(t *testing.T) {
	ctx := bannerContext(SizingFit)

	el := NewElement(KindRect)
	el.Rect = ElementRect{Space: SpaceScreen}
	el.SetLocalBounds(NewRect(0, 0, 100, 50))

	world := Translated(100, 60).Mul(Scaled(2, 2))
	m := ResolveElementMetrics(el, world, ctx)
	if m.X.EMU() != 914400 || m.Y.EMU() != 548640 {
		t.Errorf("origin: expected 914400,548640, got %d,%d", m.X.EMU(), m.Y.EMU())
	}
	if m.W != 1828800 {
		t.Errorf("W: expected 1828800, got %d", m.W)
	}
	if m.H != 914400 {
		t.Errorf("H: expected 914400, got %d", m.H)
	}

	// without local bounds the captured rect is used and the
	// transform does not apply
	plain := NewElement(KindRect).SetRect(ScreenRect(100, 60, 200, 120))
	mp := ResolveElementMetrics(plain, world, ctx)
	if mp.X.EMU() != 914400 || mp.W != 1828800 {
		t.Errorf("captured rect path: expected 914400/1828800, got %d/%d", mp.X.EMU(), mp.W)
	}
}

// =============================================================================
// Test 11: transformed bounds cover rotation and reflection
// =============================================================================
func TestTransformedBounds(t *testing.T) {
	r := NewRect(0, 0, 100, 50)

	rot := TransformedBounds(r, Rotated(math.Pi/2))
	near(t, "rot X", rot.X, -50)
	near(t, "rot Y", rot.Y, 0)
	near(t, "rot W", rot.W, 50)
	near(t, "rot H", rot.H, 100)

	refl := TransformedBounds(r, Scaled(-1, 1))
	near(t, "refl X", refl.X, -100)
	near(t, "refl W", refl.W, 100)
	near(t, "refl H", refl.H, 50)

	ident := TransformedBounds(r, Identity())
	if ident != r {
		t.Errorf("identity bounds: expected %+v, got %+v", r, ident)
	}
}

// =============================================================================
// Test 12: line endpoint resolution
// =============================================================================
func TestResolveLinePoints(t *testing.T) {
	ctx := bannerContext(SizingFit)

	line, ok := ResolveLinePoints(0, 0, 500, 300, Identity(), SpaceScreen, ctx)
	if !ok {
		t.Fatal("expected line to resolve")
	}
	if line.Start.X.EMU() != 0 || line.Start.Y.EMU() != 0 {
		t.Errorf("start: expected 0,0, got %d,%d", line.Start.X.EMU(), line.Start.Y.EMU())
	}
	if line.End.X.EMU() != 4572000 {
		t.Errorf("end X: expected 4572000, got %d", line.End.X.EMU())
	}
	if line.End.Y.EMU() != 2743200 {
		t.Errorf("end Y: expected 2743200, got %d", line.End.Y.EMU())
	}

	// a transform moves the endpoints before conversion
	moved, ok := ResolveLinePoints(0, 0, 500, 300, Translated(100, 60), SpaceScreen, ctx)
	if !ok {
		t.Fatal("expected transformed line to resolve")
	}
	if moved.Start.X.EMU() != 914400 || moved.Start.Y.EMU() != 548640 {
		t.Errorf("moved start: expected 914400,548640, got %d,%d", moved.Start.X.EMU(), moved.Start.Y.EMU())
	}

	// non-finite endpoints are rejected
	if _, ok := ResolveLinePoints(math.NaN(), 0, 10, 10, Identity(), SpaceScreen, ctx); ok {
		t.Error("NaN endpoint should not resolve")
	}
	if _, ok := ResolveLinePoints(0, 0, math.Inf(1), 10, Identity(), SpaceScreen, ctx); ok {
		t.Error("infinite endpoint should not resolve")
	}

	// out-of-viewport endpoints escape to percent in percent mode
	pct := bannerContext(SizingViewportPercent)
	esc, ok := ResolveLinePoints(-100, 0, 500, 300, Identity(), SpaceScreen, pct)
	if !ok {
		t.Fatal("expected escaping line to resolve")
	}
	if !esc.Start.X.IsPercent() {
		t.Error("out-of-range start X should be percent")
	}
	if got := esc.Start.X.PercentString(); got != "-10%" {
		t.Errorf("start X percent: expected -10%%, got %s", got)
	}
}

// =============================================================================
// Test 13: text insets apply padding and margin per side
// =============================================================================
func TestInsetForText(t *testing.T) {
	m := SlideMetrics{X: AbsCoord(914400), Y: AbsCoord(548640), W: 1828800, H: 1097280}

	var snap StyleSnapshot
	snap.Set("padding-left", "10px")
	snap.Set("margin-left", "5px")
	snap.Set("padding-top", "4px")

	got := InsetForText(m, snap)
	if got.X.EMU() != 914400+Pixel(15) {
		t.Errorf("X: expected %d, got %d", 914400+Pixel(15), got.X.EMU())
	}
	if got.Y.EMU() != 548640+Pixel(4) {
		t.Errorf("Y: expected %d, got %d", 548640+Pixel(4), got.Y.EMU())
	}
	if got.W != 1828800-Pixel(15) {
		t.Errorf("W: expected %d, got %d", 1828800-Pixel(15), got.W)
	}
	if got.H != 1097280-Pixel(4) {
		t.Errorf("H: expected %d, got %d", 1097280-Pixel(4), got.H)
	}

	// insets that would swallow the box leave it unchanged
	var fat StyleSnapshot
	fat.Set("padding-left", "200px")
	fat.Set("padding-right", "200px")
	if got := InsetForText(m, fat); got != m {
		t.Errorf("collapsing inset: expected original metrics, got %+v", got)
	}

	// percent origins pass through, extents still shrink
	pm := SlideMetrics{X: PctCoord(-0.1), Y: AbsCoord(548640), W: 1828800, H: 1097280}
	var pad StyleSnapshot
	pad.Set("padding-left", "10px")
	gp := InsetForText(pm, pad)
	if !gp.X.IsPercent() {
		t.Error("percent X should stay percent")
	}
	near(t, "percent X ratio", gp.X.Ratio(), -0.1)
	if gp.W != 1828800-Pixel(10) {
		t.Errorf("W: expected %d, got %d", 1828800-Pixel(10), gp.W)
	}
}

// =============================================================================
// Test 14: corner radius normalization
// =============================================================================
func TestResolveRadius(t *testing.T) {
	cases := []struct {
		px   float64
		want float64
	}{
		{40, 0.05},
		{8, 0.01},
		{4, 0.005},
		{100, 0.05},
		{0, 0},
		{-5, 0},
		{math.NaN(), 0},
		{math.Inf(1), 0},
	}
	for _, c := range cases {
		if got := ResolveRadius(c.px); got != c.want {
			t.Errorf("ResolveRadius(%v): expected %v, got %v", c.px, c.want, got)
		}
	}
}

// =============================================================================
// Test 15: transform parsing
// =============================================================================
func TestParseTransform(t *testing.T) {
	x, y := ParseTransform("translate(10,20)").Apply(1, 1)
	near(t, "translate x", x, 11)
	near(t, "translate y", y, 21)

	x, y = ParseTransform("matrix(2,0,0,2,5,5)").Apply(1, 1)
	near(t, "matrix x", x, 7)
	near(t, "matrix y", y, 7)

	x, y = ParseTransform("scale(2)").Apply(3, 4)
	near(t, "uniform scale x", x, 6)
	near(t, "uniform scale y", y, 8)

	x, y = ParseTransform("rotate(90)").Apply(1, 0)
	near(t, "rotate x", x, 0)
	near(t, "rotate y", y, 1)

	x, y = ParseTransform("rotate(90 10 10)").Apply(10, 0)
	near(t, "anchored rotate x", x, 20)
	near(t, "anchored rotate y", y, 10)

	// list entries compose in document order
	x, y = ParseTransform("translate(10,0) scale(2)").Apply(1, 0)
	near(t, "list x", x, 12)
	near(t, "list y", y, 0)

	if !ParseTransform("").IsIdentity() {
		t.Error("empty transform should be identity")
	}
	if !ParseTransform("skew(10,10) nonsense").IsIdentity() {
		t.Error("unknown operations should degrade to identity")
	}
	if !ParseTransform("translate(").IsIdentity() {
		t.Error("malformed transform should degrade to identity")
	}
}

// =============================================================================
// Test 16: matrix composition order
// =============================================================================
func TestMatrixMul(t *testing.T) {
	tr := Translated(10, 20)
	sc := Scaled(2, 3)

	// tr.Mul(sc) applies sc first
	x, y := tr.Mul(sc).Apply(1, 1)
	sx, sy := sc.Apply(1, 1)
	wx, wy := tr.Apply(sx, sy)
	near(t, "composed x", x, wx)
	near(t, "composed y", y, wy)

	if !Identity().Mul(Identity()).IsIdentity() {
		t.Error("identity composition should stay identity")
	}
	if got := Identity().Mul(tr); got != tr {
		t.Errorf("identity pre-compose: expected %+v, got %+v", tr, got)
	}
}

// =============================================================================
// Test 17: coordinate formatting
// =============================================================================
func TestCoordFormatting(t *testing.T) {
	if got := PctCoord(-0.125).PercentString(); got != "-12.5%" {
		t.Errorf("expected -12.5%%, got %s", got)
	}
	if got := PctCoord(1.5).PercentString(); got != "150%" {
		t.Errorf("expected 150%%, got %s", got)
	}
	if got := PctCoord(1.0 / 3).PercentString(); got != "33.3333%" {
		t.Errorf("expected 33.3333%%, got %s", got)
	}
	if got := PctCoord(0).PercentString(); got != "0%" {
		t.Errorf("expected 0%%, got %s", got)
	}
	if got := AbsCoord(914400).String(); got != "914400" {
		t.Errorf("expected 914400, got %s", got)
	}

	abs, err := json.Marshal(AbsCoord(914400))
	if err != nil {
		t.Fatalf("marshal absolute: %v", err)
	}
	if string(abs) != "914400" {
		t.Errorf("absolute JSON: expected 914400, got %s", abs)
	}
	pct, err := json.Marshal(PctCoord(-0.1))
	if err != nil {
		t.Fatalf("marshal percent: %v", err)
	}
	if string(pct) != `"-10%"` {
		t.Errorf(`percent JSON: expected "-10%%", got %s`, pct)
	}

	metrics := SlideMetrics{X: AbsCoord(10), Y: PctCoord(1.1), W: 20, H: 30}
	data, err := json.Marshal(metrics)
	if err != nil {
		t.Fatalf("marshal metrics: %v", err)
	}
	if string(data) != `{"x":10,"y":"110%","w":20,"h":30}` {
		t.Errorf("metrics JSON: got %s", data)
	}
}

// =============================================================================
// Test 18: context fallbacks for degenerate input
// =============================================================================
func TestContextFallbacks(t *testing.T) {
	ctx := NewSlideContext(Rect{}, Rect{}, SizingFit, 0, 0)
	if ctx.Viewport.W != 1 || ctx.Viewport.H != 1 {
		t.Errorf("viewport floor: expected 1x1, got %vx%v", ctx.Viewport.W, ctx.Viewport.H)
	}
	if ctx.Logical.W != 1 || ctx.Logical.H != 1 {
		t.Errorf("logical fallback: expected 1x1, got %vx%v", ctx.Logical.W, ctx.Logical.H)
	}
	if ctx.PageW != 9144000 || ctx.PageH != 6858000 {
		t.Errorf("page fallback: expected 9144000x6858000, got %dx%d", ctx.PageW, ctx.PageH)
	}

	// a scene-less context still resolves
	nilCtx := ContextForScene(nil, SizingFit, nil)
	m := ResolveMetrics(ScreenRect(0, 0, 1, 1), nilCtx)
	if m.IsEmpty() {
		t.Error("degenerate context should still produce drawable metrics")
	}

	if SizingFit.String() != "fit" {
		t.Errorf("expected fit, got %s", SizingFit.String())
	}
	if SizingViewportPercent.String() != "viewport-percent" {
		t.Errorf("expected viewport-percent, got %s", SizingViewportPercent.String())
	}
}

// =============================================================================
// Test 19: rect union
// =============================================================================
func TestRectUnion(t *testing.T) {
	a := NewRect(0, 0, 10, 10)
	b := NewRect(5, 5, 10, 10)
	u := a.Union(b)
	if u != NewRect(0, 0, 15, 15) {
		t.Errorf("union: expected {0 0 15 15}, got %+v", u)
	}
	if got := a.Union(Rect{}); got != a {
		t.Errorf("union with empty: expected %+v, got %+v", a, got)
	}
	if got := (Rect{}).Union(b); got != b {
		t.Errorf("empty union: expected %+v, got %+v", b, got)
	}
}
