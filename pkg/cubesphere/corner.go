package cubesphere

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Corner names a face corner, in the same order as ChunkAddress.Children.
type Corner uint8

const (
	BottomLeft Corner = iota
	BottomRight
	TopLeft
	TopRight
)

// Corners lists every corner in index order.
var Corners = [4]Corner{BottomLeft, BottomRight, TopLeft, TopRight}

func (c Corner) String() string {
	switch c {
	case BottomLeft:
		return "bottom-left"
	case BottomRight:
		return "bottom-right"
	case TopLeft:
		return "top-left"
	case TopRight:
		return "top-right"
	default:
		return fmt.Sprintf("Corner(%d)", uint8(c))
	}
}

// uv returns the corner's position in face UV space.
func (c Corner) uv() (u, v float64) {
	return float64(c & 1), float64(c >> 1)
}

// touches reports whether a occupies corner c of its face.
func (a ChunkAddress) touches(c Corner) bool {
	last := a.Size() - 1
	wantX, wantY := uint32(0), uint32(0)
	if c&1 != 0 {
		wantX = last
	}
	if c&2 != 0 {
		wantY = last
	}
	return a.X == wantX && a.Y == wantY
}

// cubeCorner returns the cube vertex at corner c of face.
func cubeCorner(face Face, c Corner) mgl64.Vec3 {
	u, v := c.uv()
	return FaceCoordToCubePoint(FaceCoord{Face: face, U: u, V: v})
}

// cornerOn returns the corner of face that sits on cube vertex p.
func cornerOn(face Face, p mgl64.Vec3) Corner {
	b := face.Basis()
	var c Corner
	if p.Dot(b.Tangent) > 0 {
		c |= 1
	}
	if p.Dot(b.Bitangent) > 0 {
		c |= 2
	}
	return c
}

// otherCornerFaces returns the two faces besides face that meet at the
// cube vertex p, in ascending face order, with their corner there.
func otherCornerFaces(face Face, p mgl64.Vec3) (faces [2]Face, corners [2]Corner) {
	i := 0
	for _, f := range Faces {
		if f == face || p.Dot(f.Normal()) <= 0 {
			continue
		}
		faces[i] = f
		corners[i] = cornerOn(f, p)
		i++
	}
	return faces, corners
}

// cornerCell returns the cell at level occupying corner c of face.
func cornerCell(face Face, level uint8, c Corner) ChunkAddress {
	last := GridSize(level) - 1
	a := ChunkAddress{Face: face, Level: level}
	if c&1 != 0 {
		a.X = last
	}
	if c&2 != 0 {
		a.Y = last
	}
	return a
}

// CornerNeighbors returns, at a's level, the cells of the other two faces
// that meet a at cube corner c, in ascending face order. It reports false
// when a does not occupy that corner of its face.
func CornerNeighbors(a ChunkAddress, c Corner) ([2]ChunkAddress, bool) {
	if !a.touches(c) {
		return [2]ChunkAddress{}, false
	}
	faces, corners := otherCornerFaces(a.Face, cubeCorner(a.Face, c))
	return [2]ChunkAddress{
		cornerCell(faces[0], a.Level, corners[0]),
		cornerCell(faces[1], a.Level, corners[1]),
	}, true
}

// CornerLodValid reports whether three chunks meeting at a corner differ
// by at most one level. Adaptive meshes must restore this before
// stitching corner geometry.
func CornerLodValid(a, b, c uint8) bool {
	lo := min(a, b, c)
	hi := max(a, b, c)
	return hi-lo <= 1
}

// CornerLeaves is the set of resident leaves meeting at one cube corner.
type CornerLeaves struct {
	Own    ChunkAddress    `json:"own"`
	Others [2]ChunkAddress `json:"others"`
	Valid  bool            `json:"valid"`
}

// ResolveCorner finds the resident leaves of all three faces at the cube
// corner that corner c of a's face sits on. It reports false when a does
// not occupy that corner or a face is not resident.
func ResolveCorner(src TreeSource, a ChunkAddress, c Corner) (CornerLeaves, bool) {
	if !a.touches(c) {
		return CornerLeaves{}, false
	}
	own := src.Tree(a.Face)
	if own == nil {
		return CornerLeaves{}, false
	}
	u, v := c.uv()
	out := CornerLeaves{Own: own.FindLeaf(u, v)}

	faces, corners := otherCornerFaces(a.Face, cubeCorner(a.Face, c))
	for i, f := range faces {
		t := src.Tree(f)
		if t == nil {
			return CornerLeaves{}, false
		}
		cu, cv := corners[i].uv()
		out.Others[i] = t.FindLeaf(cu, cv)
	}
	out.Valid = CornerLodValid(out.Own.Level, out.Others[0].Level, out.Others[1].Level)
	return out, true
}

// CornerLeaves resolves the leaves meeting at corner c of a's face.
func (p *Planet) CornerLeaves(a ChunkAddress, c Corner) (CornerLeaves, bool) {
	return ResolveCorner(p, a, c)
}
