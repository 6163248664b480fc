package cubesphere

import "github.com/Faultbox/planetgrid/pkg/math"

// FaceCoord is a position on one cube face with u, v in [0, 1].
type FaceCoord struct {
	Face Face    `json:"face"`
	U    float64 `json:"u"`
	V    float64 `json:"v"`
}

// FaceCenter returns the coordinate of the face midpoint.
func FaceCenter(f Face) FaceCoord {
	return FaceCoord{Face: f, U: 0.5, V: 0.5}
}

// Clamped returns fc with u and v limited to [0, 1].
func (fc FaceCoord) Clamped() FaceCoord {
	return FaceCoord{
		Face: fc.Face,
		U:    math.Clamp(fc.U, 0, 1),
		V:    math.Clamp(fc.V, 0, 1),
	}
}

// Interior reports whether fc lies strictly inside the face by at least margin.
func (fc FaceCoord) Interior(margin float64) bool {
	return fc.U > margin && fc.U < 1-margin && fc.V > margin && fc.V < 1-margin
}

// ApproxEqual reports whether two coordinates share a face and agree within eps.
func (fc FaceCoord) ApproxEqual(other FaceCoord, eps float64) bool {
	return fc.Face == other.Face &&
		math.ApproxEqual(fc.U, other.U, eps) &&
		math.ApproxEqual(fc.V, other.V, eps)
}

// UVRect is an axis-aligned rectangle in face UV space.
type UVRect struct {
	MinU float64 `json:"min_u"`
	MinV float64 `json:"min_v"`
	MaxU float64 `json:"max_u"`
	MaxV float64 `json:"max_v"`
}

// Center returns the rectangle midpoint.
func (r UVRect) Center() (u, v float64) {
	return (r.MinU + r.MaxU) / 2, (r.MinV + r.MaxV) / 2
}

// Contains reports whether (u, v) lies inside r, min-inclusive and max-exclusive.
func (r UVRect) Contains(u, v float64) bool {
	return u >= r.MinU && u < r.MaxU && v >= r.MinV && v < r.MaxV
}

// Corners returns the four corners ordered [bottom-left, bottom-right, top-left, top-right].
func (r UVRect) Corners() [4][2]float64 {
	return [4][2]float64{
		{r.MinU, r.MinV},
		{r.MaxU, r.MinV},
		{r.MinU, r.MaxV},
		{r.MaxU, r.MaxV},
	}
}
