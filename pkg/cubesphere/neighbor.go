package cubesphere

import "fmt"

// SameFaceNeighbor steps one cell in dir at a's level. It reports false
// when the step leaves the face; use Neighbor to cross face edges.
func (a ChunkAddress) SameFaceNeighbor(dir Direction) (ChunkAddress, bool) {
	size := a.Size()
	n := a
	switch dir {
	case Left:
		if a.X == 0 {
			return ChunkAddress{}, false
		}
		n.X--
	case Right:
		if a.X+1 >= size {
			return ChunkAddress{}, false
		}
		n.X++
	case Down:
		if a.Y == 0 {
			return ChunkAddress{}, false
		}
		n.Y--
	case Up:
		if a.Y+1 >= size {
			return ChunkAddress{}, false
		}
		n.Y++
	default:
		panic(fmt.Sprintf("cubesphere: invalid direction %d", uint8(dir)))
	}
	return n, true
}

// CrossFaceNeighbor returns the same-level cell across the face edge on
// side dir. It reports false when a does not touch that edge.
func CrossFaceNeighbor(a ChunkAddress, dir Direction) (ChunkAddress, bool) {
	if _, ok := a.SameFaceNeighbor(dir); ok {
		return ChunkAddress{}, false
	}
	last := a.Size() - 1
	link := AdjacentFace(a.Face, dir)
	along := a.X
	if dir.Vertical() {
		along = a.Y
	}
	if link.Flip {
		along = last - along
	}
	n := ChunkAddress{Face: link.Face, Level: a.Level}
	switch link.Edge {
	case Left:
		n.X, n.Y = 0, along
	case Right:
		n.X, n.Y = last, along
	case Down:
		n.X, n.Y = along, 0
	case Up:
		n.X, n.Y = along, last
	}
	return n, true
}

// Neighbor returns the same-level cell adjacent to a in dir, crossing
// onto the adjacent face when needed, plus the side of that cell that
// faces back toward a.
func Neighbor(a ChunkAddress, dir Direction) (ChunkAddress, Direction) {
	if n, ok := a.SameFaceNeighbor(dir); ok {
		return n, dir.Opposite()
	}
	n, _ := CrossFaceNeighbor(a, dir)
	return n, AdjacentFace(a.Face, dir).Edge
}

// NeighborKind classifies a LodNeighbor.
type NeighborKind uint8

const (
	// NeighborSingle is one chunk at the same or a coarser level.
	NeighborSingle NeighborKind = iota
	// NeighborMultiple is two or more finer chunks tiling the shared edge.
	NeighborMultiple
	// NeighborOffFace means no resident data lies across the edge.
	NeighborOffFace
)

func (k NeighborKind) String() string {
	switch k {
	case NeighborSingle:
		return "single"
	case NeighborMultiple:
		return "multiple"
	case NeighborOffFace:
		return "off_face"
	default:
		return fmt.Sprintf("NeighborKind(%d)", uint8(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k NeighborKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// LodNeighbor is the resident geometry across one edge of a chunk.
// For NeighborMultiple, Chunks are ordered by increasing along-edge
// coordinate in the querying chunk's own face frame.
type LodNeighbor struct {
	Kind   NeighborKind   `json:"kind"`
	Chunks []ChunkAddress `json:"chunks,omitempty"`
}

// Single returns the chunk of a NeighborSingle result.
func (n LodNeighbor) Single() (ChunkAddress, bool) {
	if n.Kind != NeighborSingle || len(n.Chunks) != 1 {
		return ChunkAddress{}, false
	}
	return n.Chunks[0], true
}

// ResolveNeighbor finds the resident chunks across the edge of a on side
// dir. Equal or coarser leaves come back as NeighborSingle; a finer
// region fans out to the leaves along the shared edge.
func ResolveNeighbor(src TreeSource, a ChunkAddress, dir Direction) LodNeighbor {
	n, back := Neighbor(a, dir)
	tree := src.Tree(n.Face)
	if tree == nil {
		return LodNeighbor{Kind: NeighborOffFace}
	}
	node := tree.descend(n)
	if node.IsLeaf() {
		return LodNeighbor{Kind: NeighborSingle, Chunks: []ChunkAddress{node.Address}}
	}

	var leaves []ChunkAddress
	collectEdgeLeaves(node, back, &leaves)
	if n.Face != a.Face && AdjacentFace(a.Face, dir).Flip {
		for i, j := 0, len(leaves)-1; i < j; i, j = i+1, j-1 {
			leaves[i], leaves[j] = leaves[j], leaves[i]
		}
	}
	return LodNeighbor{Kind: NeighborMultiple, Chunks: leaves}
}

// edgeChildren lists the children touching each side, in increasing
// along-edge order.
var edgeChildren = [4][2]int{
	Left:  {0, 2},
	Right: {1, 3},
	Down:  {0, 1},
	Up:    {2, 3},
}

func collectEdgeLeaves(n *QuadNode, side Direction, out *[]ChunkAddress) {
	if n.IsLeaf() {
		*out = append(*out, n.Address)
		return
	}
	for _, i := range edgeChildren[side] {
		collectEdgeLeaves(n.children[i], side, out)
	}
}

// ResolveNeighbors resolves all four edges of a in Directions order.
func ResolveNeighbors(src TreeSource, a ChunkAddress) [4]LodNeighbor {
	var out [4]LodNeighbor
	for _, d := range Directions {
		out[d] = ResolveNeighbor(src, a, d)
	}
	return out
}

// Neighbors resolves the chunks across one edge of a.
func (p *Planet) Neighbors(a ChunkAddress, dir Direction) LodNeighbor {
	return ResolveNeighbor(p, a, dir)
}
