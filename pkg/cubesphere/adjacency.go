package cubesphere

import (
	"fmt"

	"github.com/Faultbox/planetgrid/pkg/math"
)

// Direction is a cardinal step in face UV space.
type Direction uint8

const (
	Left  Direction = iota // -u
	Right                  // +u
	Down                   // -v
	Up                     // +v
)

// Directions lists every direction in index order.
var Directions = [4]Direction{Left, Right, Down, Up}

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Down:
		return "down"
	case Up:
		return "up"
	default:
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	return d ^ 1
}

// Vertical reports whether the face edge on this side runs along v.
// Left and right edges do; down and up edges run along u.
func (d Direction) Vertical() bool {
	return d == Left || d == Right
}

// EdgeLink describes the face on the far side of one face edge.
type EdgeLink struct {
	// Face is the adjacent face.
	Face Face
	// Edge is the side of Face that touches the shared cube edge.
	Edge Direction
	// Swap is set when the along-edge coordinate is u on one face and v
	// on the other.
	Swap bool
	// Flip is set when the along-edge coordinate runs in opposite
	// directions on the two faces.
	Flip bool
}

// edgeAdjacency is indexed [face][direction]. Face UV frames are not
// globally consistent, so the swap and flip flags matter on the ±Y faces
// and on every edge they share.
var edgeAdjacency = [FaceCount][4]EdgeLink{
	PosX: {
		Left:  {Face: PosZ, Edge: Right},
		Right: {Face: NegZ, Edge: Left},
		Down:  {Face: NegY, Edge: Right, Swap: true, Flip: true},
		Up:    {Face: PosY, Edge: Right, Swap: true},
	},
	NegX: {
		Left:  {Face: NegZ, Edge: Right},
		Right: {Face: PosZ, Edge: Left},
		Down:  {Face: NegY, Edge: Left, Swap: true},
		Up:    {Face: PosY, Edge: Left, Swap: true, Flip: true},
	},
	PosY: {
		Left:  {Face: NegX, Edge: Up, Swap: true, Flip: true},
		Right: {Face: PosX, Edge: Up, Swap: true},
		Down:  {Face: PosZ, Edge: Up},
		Up:    {Face: NegZ, Edge: Up, Flip: true},
	},
	NegY: {
		Left:  {Face: NegX, Edge: Down, Swap: true},
		Right: {Face: PosX, Edge: Down, Swap: true, Flip: true},
		Down:  {Face: NegZ, Edge: Down, Flip: true},
		Up:    {Face: PosZ, Edge: Down},
	},
	PosZ: {
		Left:  {Face: NegX, Edge: Right},
		Right: {Face: PosX, Edge: Left},
		Down:  {Face: NegY, Edge: Up},
		Up:    {Face: PosY, Edge: Down},
	},
	NegZ: {
		Left:  {Face: PosX, Edge: Right},
		Right: {Face: NegX, Edge: Left},
		Down:  {Face: NegY, Edge: Down, Flip: true},
		Up:    {Face: PosY, Edge: Up, Flip: true},
	},
}

// AdjacentFace returns the link across the given edge of face.
func AdjacentFace(face Face, dir Direction) EdgeLink {
	return edgeAdjacency[face.mustValid()][dir]
}

// alongEdge returns the coordinate that runs along the edge on side dir.
func alongEdge(u, v float64, dir Direction) float64 {
	if dir.Vertical() {
		return v
	}
	return u
}

// onEdge places an along-edge parameter and an inward depth on side dir.
func onEdge(along, depth float64, dir Direction) (u, v float64) {
	switch dir {
	case Left:
		return depth, along
	case Right:
		return 1 - depth, along
	case Down:
		return along, depth
	default:
		return along, 1 - depth
	}
}

// CrossFaceCoord carries fc over the edge on side dir. The along-edge
// coordinate is mapped through the adjacency table; any distance fc lies
// past the edge becomes the same distance into the adjacent face.
func CrossFaceCoord(fc FaceCoord, dir Direction) FaceCoord {
	link := AdjacentFace(fc.Face, dir)
	along := alongEdge(fc.U, fc.V, dir)
	if link.Flip {
		along = 1 - along
	}
	var depth float64
	switch dir {
	case Left:
		depth = -fc.U
	case Right:
		depth = fc.U - 1
	case Down:
		depth = -fc.V
	case Up:
		depth = fc.V - 1
	}
	u, v := onEdge(along, max(depth, 0), link.Edge)
	return FaceCoord{Face: link.Face, U: u, V: v}.Clamped()
}

// WrapFaceCoord returns fc unchanged when it lies on its face, and
// otherwise carries it across the edge it overshoots. Only one axis may
// overshoot; the other is clamped.
func WrapFaceCoord(fc FaceCoord) FaceCoord {
	switch {
	case fc.U < 0:
		return CrossFaceCoord(FaceCoord{Face: fc.Face, U: fc.U, V: math.Clamp(fc.V, 0, 1)}, Left)
	case fc.U > 1:
		return CrossFaceCoord(FaceCoord{Face: fc.Face, U: fc.U, V: math.Clamp(fc.V, 0, 1)}, Right)
	case fc.V < 0:
		return CrossFaceCoord(fc, Down)
	case fc.V > 1:
		return CrossFaceCoord(fc, Up)
	default:
		return fc
	}
}
