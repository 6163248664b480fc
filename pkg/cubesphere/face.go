// Package cubesphere maps a planet surface onto six recursively refinable
// cube faces: face geometry, cube/sphere projection and its inverse,
// hierarchical chunk addresses, per-face quadtrees, neighbor resolution
// across face edges and corners, and chunk bounding volumes.
//
// Nothing in this package locks. Quadtrees follow a single-writer
// discipline: mutate during one phase, query from many goroutines after.
package cubesphere

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Face identifies one of the six cube faces.
type Face uint8

// Cube faces, named by the axis their normal points along.
const (
	PosX Face = iota
	NegX
	PosY
	NegY
	PosZ
	NegZ
)

// FaceCount is the number of cube faces.
const FaceCount = 6

// Faces lists every face in index order.
var Faces = [FaceCount]Face{PosX, NegX, PosY, NegY, PosZ, NegZ}

// Basis is the orthonormal frame of a face. Tangent runs along +u,
// Bitangent along +v, and Tangent x Bitangent == Normal.
type Basis struct {
	Normal    mgl64.Vec3
	Tangent   mgl64.Vec3
	Bitangent mgl64.Vec3
}

var faceBases = [FaceCount]Basis{
	PosX: {Normal: mgl64.Vec3{1, 0, 0}, Tangent: mgl64.Vec3{0, 0, -1}, Bitangent: mgl64.Vec3{0, 1, 0}},
	NegX: {Normal: mgl64.Vec3{-1, 0, 0}, Tangent: mgl64.Vec3{0, 0, 1}, Bitangent: mgl64.Vec3{0, 1, 0}},
	PosY: {Normal: mgl64.Vec3{0, 1, 0}, Tangent: mgl64.Vec3{1, 0, 0}, Bitangent: mgl64.Vec3{0, 0, -1}},
	NegY: {Normal: mgl64.Vec3{0, -1, 0}, Tangent: mgl64.Vec3{1, 0, 0}, Bitangent: mgl64.Vec3{0, 0, 1}},
	PosZ: {Normal: mgl64.Vec3{0, 0, 1}, Tangent: mgl64.Vec3{1, 0, 0}, Bitangent: mgl64.Vec3{0, 1, 0}},
	NegZ: {Normal: mgl64.Vec3{0, 0, -1}, Tangent: mgl64.Vec3{-1, 0, 0}, Bitangent: mgl64.Vec3{0, 1, 0}},
}

var faceNames = [FaceCount]string{"+X", "-X", "+Y", "-Y", "+Z", "-Z"}

// Valid reports whether f is one of the six faces.
func (f Face) Valid() bool {
	return f < FaceCount
}

// Basis returns the face's orientation frame.
func (f Face) Basis() Basis {
	return faceBases[f.mustValid()]
}

// Normal returns the outward unit normal.
func (f Face) Normal() mgl64.Vec3 {
	return faceBases[f.mustValid()].Normal
}

// Tangent returns the +u direction.
func (f Face) Tangent() mgl64.Vec3 {
	return faceBases[f.mustValid()].Tangent
}

// Bitangent returns the +v direction.
func (f Face) Bitangent() mgl64.Vec3 {
	return faceBases[f.mustValid()].Bitangent
}

func (f Face) String() string {
	if !f.Valid() {
		return fmt.Sprintf("Face(%d)", uint8(f))
	}
	return faceNames[f]
}

// ParseFace parses the names produced by Face.String.
func ParseFace(s string) (Face, error) {
	for i, name := range faceNames {
		if s == name {
			return Face(i), nil
		}
	}
	return 0, fmt.Errorf("unknown face %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (f Face) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("invalid face %d", uint8(f))
	}
	return []byte(faceNames[f]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Face) UnmarshalText(text []byte) error {
	parsed, err := ParseFace(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

func (f Face) mustValid() Face {
	if !f.Valid() {
		panic(fmt.Sprintf("cubesphere: invalid face %d", uint8(f)))
	}
	return f
}
