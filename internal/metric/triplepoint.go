// Package metric maps raw proficiency ratios onto display severities.
package metric

import "fmt"

// TriplePoint is a piecewise-linear normalization over three breakpoints.
// Inputs at or below lo map to 0, mid maps to 0.5, hi and above map to 1.
type TriplePoint struct {
	lo  float64
	mid float64
	hi  float64
}

// ErrInvalidRange reports breakpoints that are out of order or outside [0, 1].
type ErrInvalidRange struct {
	Lo, Mid, Hi float64
}

func (e ErrInvalidRange) Error() string {
	return fmt.Sprintf("invalid breakpoints: need 0 <= %v <= %v <= %v <= 1", e.Lo, e.Mid, e.Hi)
}

// New validates the breakpoints and returns a TriplePoint.
func New(lo, mid, hi float64) (TriplePoint, error) {
	if lo < 0 || hi > 1 || lo > mid || mid > hi {
		return TriplePoint{}, ErrInvalidRange{Lo: lo, Mid: mid, Hi: hi}
	}
	return TriplePoint{lo: lo, mid: mid, hi: hi}, nil
}

// Default returns evenly spaced breakpoints.
func Default() TriplePoint {
	return TriplePoint{lo: 0.25, mid: 0.5, hi: 0.75}
}

// Value maps x onto [0, 1]. Monotonically non-decreasing.
func (t TriplePoint) Value(x float64) float64 {
	switch {
	case x <= t.lo:
		return 0
	case x <= t.mid:
		return interpolate(x, t.lo, t.mid, 0, 0.5)
	case x <= t.hi:
		return interpolate(x, t.mid, t.hi, 0.5, 1)
	default:
		return 1
	}
}

func interpolate(x, x0, x1, y0, y1 float64) float64 {
	if x1 == x0 {
		return y1
	}
	return y0 + (x-x0)/(x1-x0)*(y1-y0)
}
