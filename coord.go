package slidescene

import (
	"strconv"
	"strings"
)

// Coord is one output coordinate: either an absolute EMU value or a
// percentage of the page dimension. The percent form exists for
// viewport-percent sizing, where content outside the logical box keeps
// its position as a share of the page instead of being clamped; the
// emitter decides how to serialize each form.
type Coord struct {
	emu     int64
	ratio   float64
	percent bool
}

// AbsCoord creates an absolute coordinate in EMU.
func AbsCoord(emu int64) Coord {
	return Coord{emu: emu}
}

// PctCoord creates a percentage coordinate from a page ratio
// (1.0 = 100% of the page dimension).
func PctCoord(ratio float64) Coord {
	return Coord{ratio: ratio, percent: true}
}

// IsPercent reports whether the coordinate is a percentage of the page.
func (c Coord) IsPercent() bool { return c.percent }

// EMU returns the absolute value, 0 for percent coordinates.
func (c Coord) EMU() int64 {
	if c.percent {
		return 0
	}
	return c.emu
}

// Ratio returns the page ratio for percent coordinates, 0 otherwise.
func (c Coord) Ratio() float64 {
	if !c.percent {
		return 0
	}
	return c.ratio
}

// PercentString formats the ratio as a percentage string with up to
// four decimal places, e.g. "150%" or "-12.5%".
func (c Coord) PercentString() string {
	s := strconv.FormatFloat(c.ratio*100, 'f', 4, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimRight(s, ".")
	}
	if s == "" || s == "-" {
		s = "0"
	}
	return s + "%"
}

// String returns the EMU value for absolute coordinates and the
// percentage string for percent ones.
func (c Coord) String() string {
	if c.percent {
		return c.PercentString()
	}
	return strconv.FormatInt(c.emu, 10)
}

// MarshalJSON encodes absolute coordinates as numbers and percent
// coordinates as percentage strings.
func (c Coord) MarshalJSON() ([]byte, error) {
	if c.percent {
		return []byte(strconv.Quote(c.PercentString())), nil
	}
	return []byte(strconv.FormatInt(c.emu, 10)), nil
}

// SlideMetrics is a resolved placement on the output page: origin
// coordinates (absolute or percent) and absolute extents in EMU.
type SlideMetrics struct {
	X Coord `json:"x"`
	Y Coord `json:"y"`
	W int64 `json:"w"`
	H int64 `json:"h"`
}

// IsEmpty reports whether the metrics describe no drawable area.
// Emitters must discard empty primitives.
func (m SlideMetrics) IsEmpty() bool {
	return m.W <= 0 || m.H <= 0
}

// SlidePoint is a resolved point on the output page.
type SlidePoint struct {
	X Coord `json:"x"`
	Y Coord `json:"y"`
}

// LineEndpoints is the resolved geometry of a linear primitive.
type LineEndpoints struct {
	Start SlidePoint `json:"start"`
	End   SlidePoint `json:"end"`
}
