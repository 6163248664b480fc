// Package math provides math types and helpers for planet-scale coordinates.
package math

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// WorldPos is an absolute position in integer world units.
// Planet-scale distances exceed what float32 can address at voxel
// resolution, so absolute positions stay integral and only offsets
// relative to an origin are carried as floats.
type WorldPos struct {
	X int64 `json:"x" yaml:"x"`
	Y int64 `json:"y" yaml:"y"`
	Z int64 `json:"z" yaml:"z"`
}

// Add returns p + other.
func (p WorldPos) Add(other WorldPos) WorldPos {
	return WorldPos{p.X + other.X, p.Y + other.Y, p.Z + other.Z}
}

// Sub returns p - other.
func (p WorldPos) Sub(other WorldPos) WorldPos {
	return WorldPos{p.X - other.X, p.Y - other.Y, p.Z - other.Z}
}

// Vec3 returns the position as a float vector.
func (p WorldPos) Vec3() mgl64.Vec3 {
	return mgl64.Vec3{float64(p.X), float64(p.Y), float64(p.Z)}
}

// Offset returns p translated by a local float offset, rounded to the nearest unit.
func (p WorldPos) Offset(v mgl64.Vec3) WorldPos {
	return p.Add(RoundVec3(v))
}

// RelativeTo returns the float offset from origin to p.
func (p WorldPos) RelativeTo(origin WorldPos) mgl64.Vec3 {
	return p.Sub(origin).Vec3()
}

// RoundVec3 rounds each component to the nearest integer unit.
func RoundVec3(v mgl64.Vec3) WorldPos {
	return WorldPos{
		int64(math.Round(v[0])),
		int64(math.Round(v[1])),
		int64(math.Round(v[2])),
	}
}

// FloorVec3 rounds each component toward negative infinity.
func FloorVec3(v mgl64.Vec3) WorldPos {
	return WorldPos{
		int64(math.Floor(v[0])),
		int64(math.Floor(v[1])),
		int64(math.Floor(v[2])),
	}
}

// CeilVec3 rounds each component toward positive infinity.
func CeilVec3(v mgl64.Vec3) WorldPos {
	return WorldPos{
		int64(math.Ceil(v[0])),
		int64(math.Ceil(v[1])),
		int64(math.Ceil(v[2])),
	}
}
