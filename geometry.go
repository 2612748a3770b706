package slidescene

import "math"

// Geometry resolution: maps captured element geometry onto the output
// page. The resolver is a pure function over (rect, context); it never
// returns an error. Malformed input degrades to zero-area metrics that
// emitters discard.

// ResolveMetrics converts a tagged bounding box to output-page
// placement under the context's sizing mode.
//
// The conversion runs in two steps. First the rectangle is normalized
// to logical units anchored at the logical box's top-left: local
// rectangles only need the origin shift, screen rectangles are offset
// by the viewport origin and scaled by the logical/viewport ratio.
// Second, each coordinate becomes a ratio of the logical box and is
// projected onto the page: fit mode multiplies straight into EMU,
// viewport-percent mode keeps an out-of-range x/y ratio as a
// percentage of the page and pins the absolute component to zero.
func ResolveMetrics(rect ElementRect, ctx *SlideContext) SlideMetrics {
	lx, ly, lw, lh := normalizeToLogical(rect, ctx)

	rx := lx / ctx.Logical.W
	ry := ly / ctx.Logical.H
	rw := lw / ctx.Logical.W
	rh := lh / ctx.Logical.H

	w := roundUnits(rw * float64(ctx.PageW))
	h := roundUnits(rh * float64(ctx.PageH))
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}

	return SlideMetrics{
		X: projectCoord(rx, ctx.PageW, ctx.Sizing),
		Y: projectCoord(ry, ctx.PageH, ctx.Sizing),
		W: w,
		H: h,
	}
}

// ResolveElementMetrics resolves an element's placement, preferring the
// local-bounds path when the capture supplied one: the local box is
// mapped through the composed transform corner by corner and the
// axis-aligned bounds of the four transformed corners are resolved in
// the element's capture space. Without local bounds the captured
// bounding box is resolved directly.
func ResolveElementMetrics(el *Element, world Matrix, ctx *SlideContext) SlideMetrics {
	if el.Local != nil {
		r := TransformedBounds(*el.Local, world)
		return ResolveMetrics(ElementRect{Rect: r, Space: el.Rect.Space}, ctx)
	}
	return ResolveMetrics(el.Rect, ctx)
}

// ResolveLinePoints resolves the two endpoints of a linear primitive.
// Each endpoint is transformed through the element's composed matrix
// independently, then converted to a page coordinate exactly like a
// rectangle origin. The second result is false when any endpoint is
// missing or non-finite; the caller must skip the primitive instead of
// emitting garbage coordinates.
func ResolveLinePoints(x1, y1, x2, y2 float64, m Matrix, space Space, ctx *SlideContext) (LineEndpoints, bool) {
	sx1, sy1 := m.Apply(x1, y1)
	sx2, sy2 := m.Apply(x2, y2)
	if !finite(sx1) || !finite(sy1) || !finite(sx2) || !finite(sy2) {
		return LineEndpoints{}, false
	}
	return LineEndpoints{
		Start: resolvePoint(sx1, sy1, space, ctx),
		End:   resolvePoint(sx2, sy2, space, ctx),
	}, true
}

func resolvePoint(x, y float64, space Space, ctx *SlideContext) SlidePoint {
	var rx, ry float64
	if space == SpaceLocal {
		rx = (x - ctx.Logical.X) / ctx.Logical.W
		ry = (y - ctx.Logical.Y) / ctx.Logical.H
	} else {
		rx = (x - ctx.Viewport.X) / ctx.Viewport.W
		ry = (y - ctx.Viewport.Y) / ctx.Viewport.H
	}
	return SlidePoint{
		X: projectCoord(rx, ctx.PageW, ctx.Sizing),
		Y: projectCoord(ry, ctx.PageH, ctx.Sizing),
	}
}

// normalizeToLogical rewrites a tagged rectangle as logical units
// relative to the logical box's top-left corner.
func normalizeToLogical(rect ElementRect, ctx *SlideContext) (x, y, w, h float64) {
	if rect.Space == SpaceLocal {
		return rect.X - ctx.Logical.X, rect.Y - ctx.Logical.Y, rect.W, rect.H
	}
	sx := ctx.Logical.W / ctx.Viewport.W
	sy := ctx.Logical.H / ctx.Viewport.H
	return (rect.X - ctx.Viewport.X) * sx, (rect.Y - ctx.Viewport.Y) * sy, rect.W * sx, rect.H * sy
}

// projectCoord turns a logical-box ratio into one page coordinate. In
// viewport-percent mode a ratio outside [0,1] stays a percentage and
// the absolute value is pinned to zero; everything else converts to
// rounded EMU.
func projectCoord(ratio float64, pageUnits int64, mode SizingMode) Coord {
	if mode == SizingViewportPercent && (ratio < 0 || ratio > 1) {
		return PctCoord(ratio)
	}
	return AbsCoord(roundUnits(ratio * float64(pageUnits)))
}

// InsetForText shrinks resolved metrics by the element's CSS padding
// and margin, each side converted from pixels to EMU independently.
// If the shrink would leave no positive area the original metrics are
// returned unchanged; a degenerate text box must never be emitted.
// Percent origins pass through untouched.
func InsetForText(m SlideMetrics, snap StyleSnapshot) SlideMetrics {
	left := Pixel(cssPixels(snap.PaddingLeft) + cssPixels(snap.MarginLeft))
	right := Pixel(cssPixels(snap.PaddingRight) + cssPixels(snap.MarginRight))
	top := Pixel(cssPixels(snap.PaddingTop) + cssPixels(snap.MarginTop))
	bottom := Pixel(cssPixels(snap.PaddingBottom) + cssPixels(snap.MarginBottom))

	w := m.W - left - right
	h := m.H - top - bottom
	if w <= 0 || h <= 0 {
		return m
	}

	out := SlideMetrics{X: m.X, Y: m.Y, W: w, H: h}
	if !m.X.IsPercent() {
		out.X = AbsCoord(m.X.EMU() + left)
	}
	if !m.Y.IsPercent() {
		out.Y = AbsCoord(m.Y.EMU() + top)
	}
	return out
}

// radiusReference is the fixed scale corner radii are normalized
// against. Radii are not measured against the element's own box; the
// output format defines a corner radius as a fraction of the shape's
// shorter side and the fixed reference keeps small shapes from
// rounding into pills.
const radiusReference = 1600

// maxRadiusRatio caps the normalized corner radius.
const maxRadiusRatio = 0.05

// ResolveRadius normalizes an explicit corner radius in source pixels
// to the output format's [0, 0.05] ratio range. A 40px radius lands
// exactly on the cap.
func ResolveRadius(radiusPx float64) float64 {
	if !finite(radiusPx) || radiusPx <= 0 {
		return 0
	}
	ratio := radiusPx / (radiusReference / 2)
	if ratio > maxRadiusRatio {
		return maxRadiusRatio
	}
	return ratio
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
