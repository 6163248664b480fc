package cubesphere

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// QuadNode is one cell of a face quadtree: a leaf, or a branch owning
// exactly four children one level finer that tile its UV bounds.
type QuadNode struct {
	Address  ChunkAddress
	children *[4]*QuadNode
}

func newLeaf(addr ChunkAddress) *QuadNode {
	return &QuadNode{Address: addr}
}

// IsLeaf reports whether n has no children.
func (n *QuadNode) IsLeaf() bool {
	return n.children == nil
}

// Children returns the four children of a branch in ChunkAddress.Children order.
func (n *QuadNode) Children() ([4]*QuadNode, bool) {
	if n.children == nil {
		return [4]*QuadNode{}, false
	}
	return *n.children, true
}

// Subdivide turns a leaf into a branch of four finer leaves. Subdividing
// a branch or a level-0 leaf is a caller bug and panics.
func (n *QuadNode) Subdivide() {
	if !n.IsLeaf() {
		panic(fmt.Sprintf("cubesphere: subdivide of branch %s", n.Address))
	}
	addrs, ok := n.Address.Children()
	if !ok {
		panic(fmt.Sprintf("cubesphere: subdivide of finest leaf %s", n.Address))
	}
	var children [4]*QuadNode
	for i, a := range addrs {
		children[i] = newLeaf(a)
	}
	n.children = &children
}

// Merge drops every descendant and turns n back into a leaf. It is a
// no-op on a leaf.
func (n *QuadNode) Merge() {
	n.children = nil
}

// child returns the child of branch n that contains addr.
func (n *QuadNode) child(addr ChunkAddress) *QuadNode {
	shift := n.Address.Level - 1 - addr.Level
	x, y := addr.X>>shift, addr.Y>>shift
	return n.children[int(x&1)+2*int(y&1)]
}

// FaceQuadtree adaptively refines one cube face. Its leaves are the
// resident chunks of that face.
type FaceQuadtree struct {
	Face Face
	Root *QuadNode
}

// NewFaceQuadtree returns a tree holding the whole face as one leaf.
func NewFaceQuadtree(face Face) *FaceQuadtree {
	return &FaceQuadtree{Face: face, Root: newLeaf(RootAddress(face))}
}

// FindLeaf returns the leaf containing (u, v).
func (t *FaceQuadtree) FindLeaf(u, v float64) ChunkAddress {
	n := t.Root
	for !n.IsLeaf() {
		midU, midV := n.Address.UVBounds().Center()
		idx := 0
		if u >= midU {
			idx++
		}
		if v >= midV {
			idx += 2
		}
		n = n.children[idx]
	}
	return n.Address
}

// descend walks toward addr and returns the node at addr's level, or the
// leaf that covers it at a coarser level. It returns nil when addr is on
// another face.
func (t *FaceQuadtree) descend(addr ChunkAddress) *QuadNode {
	if addr.Face != t.Face {
		return nil
	}
	n := t.Root
	for !n.IsLeaf() && n.Address.Level > addr.Level {
		n = n.child(addr)
	}
	return n
}

// Node returns the node whose address is exactly addr, or nil if addr is
// not resident in the tree.
func (t *FaceQuadtree) Node(addr ChunkAddress) *QuadNode {
	n := t.descend(addr)
	if n == nil || n.Address != addr {
		return nil
	}
	return n
}

// LeafContaining returns the leaf covering addr when that leaf is at
// addr's level or coarser. It returns nil when the tree is finer there.
func (t *FaceQuadtree) LeafContaining(addr ChunkAddress) *QuadNode {
	n := t.descend(addr)
	if n == nil || !n.IsLeaf() {
		return nil
	}
	return n
}

// Subdivide splits the leaf at addr. It reports false when addr is not a
// resident leaf.
func (t *FaceQuadtree) Subdivide(addr ChunkAddress) bool {
	n := t.Node(addr)
	if n == nil || !n.IsLeaf() {
		return false
	}
	n.Subdivide()
	return true
}

// Merge collapses the branch at addr. It reports false when addr is not a
// resident branch.
func (t *FaceQuadtree) Merge(addr ChunkAddress) bool {
	n := t.Node(addr)
	if n == nil || n.IsLeaf() {
		return false
	}
	n.Merge()
	return true
}

// Walk visits nodes depth-first in child order. Returning false from fn
// skips the node's descendants.
func (t *FaceQuadtree) Walk(fn func(n *QuadNode) bool) {
	walkNode(t.Root, fn)
}

func walkNode(n *QuadNode, fn func(n *QuadNode) bool) {
	if !fn(n) || n.IsLeaf() {
		return
	}
	for _, c := range n.children {
		walkNode(c, fn)
	}
}

// LeavesAtLOD returns every leaf at the given level.
func (t *FaceQuadtree) LeavesAtLOD(level uint8) []ChunkAddress {
	var out []ChunkAddress
	t.Walk(func(n *QuadNode) bool {
		if n.IsLeaf() && n.Address.Level == level {
			out = append(out, n.Address)
		}
		// Nothing below a finer node can match.
		return n.Address.Level > level
	})
	return out
}

// AllLeaves returns every leaf in depth-first order.
func (t *FaceQuadtree) AllLeaves() []ChunkAddress {
	var out []ChunkAddress
	t.Walk(func(n *QuadNode) bool {
		if n.IsLeaf() {
			out = append(out, n.Address)
		}
		return true
	})
	return out
}

// LeafCount returns the number of leaves.
func (t *FaceQuadtree) LeafCount() int {
	count := 0
	t.Walk(func(n *QuadNode) bool {
		if n.IsLeaf() {
			count++
		}
		return true
	})
	return count
}

// TreeSource hands out the quadtree for a face, or nil when that face is
// not resident.
type TreeSource interface {
	Tree(face Face) *FaceQuadtree
}

// Planet holds one quadtree per face. Together they cover the sphere with
// no gaps or overlaps at any refinement.
type Planet struct {
	trees [FaceCount]*FaceQuadtree
}

// NewPlanet returns six unrefined face trees.
func NewPlanet() *Planet {
	p := &Planet{}
	for _, f := range Faces {
		p.trees[f] = NewFaceQuadtree(f)
	}
	return p
}

// Tree returns the quadtree for face.
func (p *Planet) Tree(face Face) *FaceQuadtree {
	if !face.Valid() {
		return nil
	}
	return p.trees[face]
}

// Locate returns the resident leaf under a direction from the planet centre.
func (p *Planet) Locate(dir mgl64.Vec3, method Method) ChunkAddress {
	fc := Unproject(dir, method)
	return p.trees[fc.Face].FindLeaf(fc.U, fc.V)
}

// LeafAt returns the resident leaf covering addr's region when it is at
// addr's level or coarser.
func (p *Planet) LeafAt(addr ChunkAddress) (ChunkAddress, bool) {
	t := p.Tree(addr.Face)
	if t == nil {
		return ChunkAddress{}, false
	}
	n := t.LeafContaining(addr)
	if n == nil {
		return ChunkAddress{}, false
	}
	return n.Address, true
}

// AllLeaves returns the leaves of every face in face order.
func (p *Planet) AllLeaves() []ChunkAddress {
	var out []ChunkAddress
	for _, t := range p.trees {
		out = append(out, t.AllLeaves()...)
	}
	return out
}

// LeafCount returns the number of leaves across all faces.
func (p *Planet) LeafCount() int {
	count := 0
	for _, t := range p.trees {
		count += t.LeafCount()
	}
	return count
}
