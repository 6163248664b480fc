package cubesphere

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/planetgrid/pkg/math"
)

// aabbSamples is the per-axis sample count for ChunkAABBFromChunk.
// Corner-only sampling misses the bulge of curved chunks.
const aabbSamples = 8

// BoundingSphere encloses a chunk in planet-local space.
type BoundingSphere struct {
	Center mgl64.Vec3 `json:"center"`
	Radius float64    `json:"radius"`
}

// BoundingSphereFromChunk bounds the chunk between minHeight and
// maxHeight above a planet of the given radius. The four corners and the
// centre are projected at both heights; the sphere is centred on the
// mid-height centre and reaches the farthest sample.
func BoundingSphereFromChunk(addr ChunkAddress, planetRadius, minHeight, maxHeight float64) BoundingSphere {
	r := addr.UVBounds()
	centre := addr.CenterFaceCoord()
	midRadius := planetRadius + (minHeight+maxHeight)/2
	s := BoundingSphere{Center: FaceCoordToSphereEveritt(centre).Mul(midRadius)}

	dirs := [5]mgl64.Vec3{FaceCoordToSphereEveritt(centre)}
	for i, c := range r.Corners() {
		dirs[i+1] = FaceCoordToSphereEveritt(FaceCoord{Face: addr.Face, U: c[0], V: c[1]})
	}
	for _, d := range dirs {
		for _, h := range [2]float64{minHeight, maxHeight} {
			dist := d.Mul(planetRadius + h).Sub(s.Center).Len()
			s.Radius = gomath.Max(s.Radius, dist)
		}
	}
	return s
}

// Contains reports whether p lies inside the sphere.
func (s BoundingSphere) Contains(p mgl64.Vec3) bool {
	return p.Sub(s.Center).Len() <= s.Radius
}

// Intersects reports whether two spheres overlap.
func (s BoundingSphere) Intersects(other BoundingSphere) bool {
	return s.Center.Sub(other.Center).Len() <= s.Radius+other.Radius
}

// DistanceTo returns the distance from p to the sphere surface, or zero
// when p is inside.
func (s BoundingSphere) DistanceTo(p mgl64.Vec3) float64 {
	return gomath.Max(p.Sub(s.Center).Len()-s.Radius, 0)
}

// ToWorld translates the sphere by the planet centre. The centre rounds
// to the nearest world unit.
func (s BoundingSphere) ToWorld(planetCenter math.WorldPos) WorldBoundingSphere {
	return WorldBoundingSphere{Center: planetCenter.Offset(s.Center), Radius: s.Radius}
}

// ChunkAABB is an axis-aligned box around a chunk in planet-local space.
type ChunkAABB struct {
	Min mgl64.Vec3 `json:"min"`
	Max mgl64.Vec3 `json:"max"`
}

// ChunkAABBFromChunk bounds the chunk by sampling an 8x8 grid spanning
// its UV rectangle at both height extremes.
func ChunkAABBFromChunk(addr ChunkAddress, planetRadius, minHeight, maxHeight float64) ChunkAABB {
	r := addr.UVBounds()
	inf := gomath.Inf(1)
	box := ChunkAABB{
		Min: mgl64.Vec3{inf, inf, inf},
		Max: mgl64.Vec3{-inf, -inf, -inf},
	}
	for j := 0; j < aabbSamples; j++ {
		v := math.Lerp(r.MinV, r.MaxV, float64(j)/(aabbSamples-1))
		for i := 0; i < aabbSamples; i++ {
			u := math.Lerp(r.MinU, r.MaxU, float64(i)/(aabbSamples-1))
			d := FaceCoordToSphereEveritt(FaceCoord{Face: addr.Face, U: u, V: v})
			for _, h := range [2]float64{minHeight, maxHeight} {
				box.extend(d.Mul(planetRadius + h))
			}
		}
	}
	return box
}

func (b *ChunkAABB) extend(p mgl64.Vec3) {
	for k := 0; k < 3; k++ {
		b.Min[k] = gomath.Min(b.Min[k], p[k])
		b.Max[k] = gomath.Max(b.Max[k], p[k])
	}
}

// Center returns the box midpoint.
func (b ChunkAABB) Center() mgl64.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Extents returns the half-size along each axis.
func (b ChunkAABB) Extents() mgl64.Vec3 {
	return b.Max.Sub(b.Min).Mul(0.5)
}

// Contains reports whether p lies inside the box.
func (b ChunkAABB) Contains(p mgl64.Vec3) bool {
	return p[0] >= b.Min[0] && p[0] <= b.Max[0] &&
		p[1] >= b.Min[1] && p[1] <= b.Max[1] &&
		p[2] >= b.Min[2] && p[2] <= b.Max[2]
}

// DistanceTo returns the distance from p to the box, or zero when p is inside.
func (b ChunkAABB) DistanceTo(p mgl64.Vec3) float64 {
	var d mgl64.Vec3
	for k := 0; k < 3; k++ {
		d[k] = gomath.Max(gomath.Max(b.Min[k]-p[k], p[k]-b.Max[k]), 0)
	}
	return d.Len()
}

// ToWorld translates the box by the planet centre. Min floors and max
// ceils so the integer box still encloses the chunk.
func (b ChunkAABB) ToWorld(planetCenter math.WorldPos) WorldAABB {
	return WorldAABB{
		Min: planetCenter.Add(math.FloorVec3(b.Min)),
		Max: planetCenter.Add(math.CeilVec3(b.Max)),
	}
}

// WorldBoundingSphere is a BoundingSphere in absolute world units.
type WorldBoundingSphere struct {
	Center math.WorldPos `json:"center"`
	Radius float64       `json:"radius"`
}

// WorldAABB is a ChunkAABB in absolute world units.
type WorldAABB struct {
	Min math.WorldPos `json:"min"`
	Max math.WorldPos `json:"max"`
}

// Contains reports whether p lies inside the box.
func (b WorldAABB) Contains(p math.WorldPos) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}
