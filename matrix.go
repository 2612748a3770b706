package slidescene

import (
	"math"
	"strconv"
	"strings"
)

// Matrix is a 2D affine transform in the CSS/SVG convention:
//
//	[ A C E ]   x' = A*x + C*y + E
//	[ B D F ]   y' = B*x + D*y + F
type Matrix struct {
	A, B, C, D, E, F float64
}

// Identity returns the identity transform.
func Identity() Matrix {
	return Matrix{A: 1, D: 1}
}

// Translated returns a translation transform.
func Translated(tx, ty float64) Matrix {
	return Matrix{A: 1, D: 1, E: tx, F: ty}
}

// Scaled returns a scale transform.
func Scaled(sx, sy float64) Matrix {
	return Matrix{A: sx, D: sy}
}

// Rotated returns a rotation transform for an angle in radians.
func Rotated(rad float64) Matrix {
	sin, cos := math.Sincos(rad)
	return Matrix{A: cos, B: sin, C: -sin, D: cos}
}

// IsIdentity reports whether m is the identity transform.
func (m Matrix) IsIdentity() bool {
	return m == Matrix{A: 1, D: 1}
}

// Mul composes transforms: the result applies o first, then m.
func (m Matrix) Mul(o Matrix) Matrix {
	return Matrix{
		A: m.A*o.A + m.C*o.B,
		B: m.B*o.A + m.D*o.B,
		C: m.A*o.C + m.C*o.D,
		D: m.B*o.C + m.D*o.D,
		E: m.A*o.E + m.C*o.F + m.E,
		F: m.B*o.E + m.D*o.F + m.F,
	}
}

// Apply maps a point through the transform.
func (m Matrix) Apply(x, y float64) (float64, float64) {
	return m.A*x + m.C*y + m.E, m.B*x + m.D*y + m.F
}

// ParseTransform parses an SVG/CSS transform list in document order:
// matrix(a,b,c,d,e,f), translate(tx[,ty]), scale(sx[,sy]) and
// rotate(deg[,cx,cy]). Unparsable input degrades to the transforms
// parsed so far (identity in the worst case); style data never errors.
func ParseTransform(s string) Matrix {
	m := Identity()
	for _, chunk := range strings.Split(s, ")") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		op, args, found := strings.Cut(chunk, "(")
		if !found {
			continue
		}
		pts := splitNumbers(args)
		m = applyTransformOp(m, strings.ToLower(strings.TrimSpace(op)), pts)
	}
	return m
}

func applyTransformOp(m Matrix, op string, pts []float64) Matrix {
	switch op {
	case "matrix":
		if len(pts) == 6 {
			m = m.Mul(Matrix{A: pts[0], B: pts[1], C: pts[2], D: pts[3], E: pts[4], F: pts[5]})
		}
	case "translate":
		switch len(pts) {
		case 1:
			m = m.Mul(Translated(pts[0], 0))
		case 2:
			m = m.Mul(Translated(pts[0], pts[1]))
		}
	case "scale":
		switch len(pts) {
		case 1:
			m = m.Mul(Scaled(pts[0], pts[0]))
		case 2:
			m = m.Mul(Scaled(pts[0], pts[1]))
		}
	case "rotate":
		switch len(pts) {
		case 1:
			m = m.Mul(Rotated(pts[0] * math.Pi / 180))
		case 3:
			m = m.Mul(Translated(pts[1], pts[2])).
				Mul(Rotated(pts[0] * math.Pi / 180)).
				Mul(Translated(-pts[1], -pts[2]))
		}
	}
	return m
}

// splitNumbers parses a comma- or space-separated number list, skipping
// anything that does not parse.
func splitNumbers(s string) []float64 {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

// TransformedBounds maps all four corners of r through m and returns
// the axis-aligned bounding box of the result. Mapping only two
// opposite corners is not enough: a composed transform may reflect or
// scale non-uniformly, leaving "top-left" and "bottom-right" swapped
// or sheared.
func TransformedBounds(r Rect, m Matrix) Rect {
	x0, y0 := m.Apply(r.X, r.Y)
	x1, y1 := m.Apply(r.X+r.W, r.Y)
	x2, y2 := m.Apply(r.X, r.Y+r.H)
	x3, y3 := m.Apply(r.X+r.W, r.Y+r.H)

	minX := min(min(x0, x1), min(x2, x3))
	minY := min(min(y0, y1), min(y2, y3))
	maxX := max(max(x0, x1), max(x2, x3))
	maxY := max(max(y0, y1), max(y2, y3))

	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}
