package cubesphere

import (
	"fmt"
	gomath "math"
	"strconv"
	"strings"
)

// MaxLevel is the coarsest level: the whole face as one cell.
// Level 0 is the finest.
const MaxLevel = 20

// GridSize returns the number of cells along one face edge at level.
func GridSize(level uint8) uint32 {
	if level > MaxLevel {
		panic(fmt.Sprintf("cubesphere: level %d exceeds max level %d", level, MaxLevel))
	}
	return (1 << MaxLevel) >> level
}

// ChunkAddress is a cell of the face grid at one refinement level.
// Addresses are plain values; comparisons and map keys use all four fields.
type ChunkAddress struct {
	Face  Face
	Level uint8
	X, Y  uint32
}

// NewChunkAddress validates and builds an address. Out-of-range input is
// a caller bug and panics.
func NewChunkAddress(face Face, level uint8, x, y uint32) ChunkAddress {
	face.mustValid()
	size := GridSize(level)
	if x >= size || y >= size {
		panic(fmt.Sprintf("cubesphere: cell (%d,%d) out of range for level %d (grid %d)", x, y, level, size))
	}
	return ChunkAddress{Face: face, Level: level, X: x, Y: y}
}

// RootAddress returns the single level-MaxLevel cell covering a face.
func RootAddress(face Face) ChunkAddress {
	return NewChunkAddress(face, MaxLevel, 0, 0)
}

// AddressAt returns the cell at level containing fc. u = 1 and v = 1
// fall into the last row and column.
func AddressAt(fc FaceCoord, level uint8) ChunkAddress {
	size := GridSize(level)
	fc = fc.Clamped()
	x := uint32(gomath.Floor(fc.U * float64(size)))
	y := uint32(gomath.Floor(fc.V * float64(size)))
	return NewChunkAddress(fc.Face, level, min(x, size-1), min(y, size-1))
}

// Size returns GridSize(a.Level).
func (a ChunkAddress) Size() uint32 {
	return GridSize(a.Level)
}

// UVBounds returns the cell rectangle in face UV space.
func (a ChunkAddress) UVBounds() UVRect {
	size := float64(a.Size())
	return UVRect{
		MinU: float64(a.X) / size,
		MinV: float64(a.Y) / size,
		MaxU: float64(a.X+1) / size,
		MaxV: float64(a.Y+1) / size,
	}
}

// CenterFaceCoord returns the midpoint of the cell.
func (a ChunkAddress) CenterFaceCoord() FaceCoord {
	u, v := a.UVBounds().Center()
	return FaceCoord{Face: a.Face, U: u, V: v}
}

// Parent returns the coarser cell containing a. There is none at MaxLevel.
func (a ChunkAddress) Parent() (ChunkAddress, bool) {
	if a.Level >= MaxLevel {
		return ChunkAddress{}, false
	}
	return ChunkAddress{Face: a.Face, Level: a.Level + 1, X: a.X / 2, Y: a.Y / 2}, true
}

// Children returns the four finer cells ordered [bottom-left, bottom-right,
// top-left, top-right]. There are none at level 0.
func (a ChunkAddress) Children() ([4]ChunkAddress, bool) {
	if a.Level == 0 {
		return [4]ChunkAddress{}, false
	}
	l := a.Level - 1
	x, y := a.X*2, a.Y*2
	return [4]ChunkAddress{
		{Face: a.Face, Level: l, X: x, Y: y},
		{Face: a.Face, Level: l, X: x + 1, Y: y},
		{Face: a.Face, Level: l, X: x, Y: y + 1},
		{Face: a.Face, Level: l, X: x + 1, Y: y + 1},
	}, true
}

// ChildIndex returns a's position in its parent's Children order.
func (a ChunkAddress) ChildIndex() int {
	return int(a.X&1) + 2*int(a.Y&1)
}

// Ancestor returns the cell at a coarser or equal level that contains a.
func (a ChunkAddress) Ancestor(level uint8) (ChunkAddress, bool) {
	if level < a.Level || level > MaxLevel {
		return ChunkAddress{}, false
	}
	shift := level - a.Level
	return ChunkAddress{Face: a.Face, Level: level, X: a.X >> shift, Y: a.Y >> shift}, true
}

// Contains reports whether other lies inside a (a itself included).
func (a ChunkAddress) Contains(other ChunkAddress) bool {
	anc, ok := other.Ancestor(a.Level)
	return ok && anc == a
}

// EdgeLength approximates the chunk's edge length on a sphere of the given
// radius: a quarter great circle per face edge, split by the grid size.
func (a ChunkAddress) EdgeLength(radius float64) float64 {
	return radius * gomath.Pi / 2 / float64(a.Size())
}

func (a ChunkAddress) String() string {
	return fmt.Sprintf("%s/%d/%d/%d", a.Face, a.Level, a.X, a.Y)
}

// ParseChunkAddress parses the form produced by String, e.g. "+X/12/3/7".
func ParseChunkAddress(s string) (ChunkAddress, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 4 {
		return ChunkAddress{}, fmt.Errorf("parsing chunk address %q: want face/level/x/y", s)
	}
	face, err := ParseFace(parts[0])
	if err != nil {
		return ChunkAddress{}, fmt.Errorf("parsing chunk address %q: %w", s, err)
	}
	level, err := strconv.ParseUint(parts[1], 10, 8)
	if err != nil || level > MaxLevel {
		return ChunkAddress{}, fmt.Errorf("parsing chunk address %q: bad level %q", s, parts[1])
	}
	size := uint64(GridSize(uint8(level)))
	x, errX := strconv.ParseUint(parts[2], 10, 32)
	y, errY := strconv.ParseUint(parts[3], 10, 32)
	if errX != nil || errY != nil || x >= size || y >= size {
		return ChunkAddress{}, fmt.Errorf("parsing chunk address %q: cell out of range for level %d", s, level)
	}
	return ChunkAddress{Face: face, Level: uint8(level), X: uint32(x), Y: uint32(y)}, nil
}

// MarshalText implements encoding.TextMarshaler so addresses can key JSON maps.
func (a ChunkAddress) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *ChunkAddress) UnmarshalText(text []byte) error {
	parsed, err := ParseChunkAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Packed layout, low bits first: y (20), x (20), level (5), face (3).
const (
	packCoordBits = MaxLevel
	packLevelBits = 5
	packCoordMask = 1<<packCoordBits - 1
	packLevelMask = 1<<packLevelBits - 1
)

// Pack encodes the address into a fixed-width integer key.
func (a ChunkAddress) Pack() uint64 {
	return uint64(a.Face)<<(2*packCoordBits+packLevelBits) |
		uint64(a.Level)<<(2*packCoordBits) |
		uint64(a.X)<<packCoordBits |
		uint64(a.Y)
}

// UnpackChunkAddress decodes a key produced by Pack.
func UnpackChunkAddress(key uint64) (ChunkAddress, error) {
	if key>>(2*packCoordBits+packLevelBits+3) != 0 {
		return ChunkAddress{}, fmt.Errorf("unpacking chunk key %#x: stray high bits", key)
	}
	a := ChunkAddress{
		Face:  Face(key >> (2*packCoordBits + packLevelBits)),
		Level: uint8(key >> (2 * packCoordBits) & packLevelMask),
		X:     uint32(key >> packCoordBits & packCoordMask),
		Y:     uint32(key & packCoordMask),
	}
	if !a.Face.Valid() || a.Level > MaxLevel {
		return ChunkAddress{}, fmt.Errorf("unpacking chunk key %#x: invalid face or level", key)
	}
	if size := GridSize(a.Level); a.X >= size || a.Y >= size {
		return ChunkAddress{}, fmt.Errorf("unpacking chunk key %#x: cell out of range", key)
	}
	return a, nil
}
