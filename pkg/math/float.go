package math

import "math"

// ApproxEqual reports whether a and b differ by at most eps.
func ApproxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp interpolates between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
