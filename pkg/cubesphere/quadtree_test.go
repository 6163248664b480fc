package cubesphere

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"
)

func TestNewFaceQuadtreeIsSingleRootLeaf(t *testing.T) {
	tree := NewFaceQuadtree(NegY)
	require.True(t, tree.Root.IsLeaf())
	require.Equal(t, RootAddress(NegY), tree.Root.Address)
	require.Equal(t, []ChunkAddress{RootAddress(NegY)}, tree.AllLeaves())
}

func TestSubdivideThenMergeRestoresLeaf(t *testing.T) {
	tree := NewFaceQuadtree(PosX)
	original := tree.Root.Address

	tree.Root.Subdivide()
	require.False(t, tree.Root.IsLeaf())
	children, ok := tree.Root.Children()
	require.True(t, ok)
	want, _ := original.Children()
	for i, c := range children {
		require.True(t, c.IsLeaf())
		require.Equal(t, want[i], c.Address)
	}

	tree.Root.Merge()
	require.True(t, tree.Root.IsLeaf())
	require.Equal(t, original, tree.Root.Address)

	// Merging a leaf changes nothing.
	tree.Root.Merge()
	require.Equal(t, original, tree.Root.Address)
}

func TestSubdivideProgrammerErrors(t *testing.T) {
	branch := newLeaf(RootAddress(PosZ))
	branch.Subdivide()
	require.Panics(t, branch.Subdivide)

	finest := newLeaf(NewChunkAddress(PosZ, 0, 0, 0))
	require.Panics(t, finest.Subdivide)
}

func TestFindLeafQuadrants(t *testing.T) {
	tree := NewFaceQuadtree(PosZ)
	tree.Root.Subdivide()
	children, _ := RootAddress(PosZ).Children()

	cases := []struct {
		u, v float64
		want ChunkAddress
	}{
		{0.1, 0.1, children[0]},
		{0.9, 0.1, children[1]},
		{0.1, 0.9, children[2]},
		{0.9, 0.9, children[3]},
	}
	for _, c := range cases {
		require.Equal(t, c.want, tree.FindLeaf(c.u, c.v), "(%v, %v)", c.u, c.v)
	}
}

func TestFindLeafDeepRefinement(t *testing.T) {
	tree := NewFaceQuadtree(NegX)
	target := FaceCoord{Face: NegX, U: 0.3141, V: 0.2718}
	for level := uint8(MaxLevel); level > 12; level-- {
		require.True(t, tree.Subdivide(AddressAt(target, level)))
	}
	require.Equal(t, AddressAt(target, 12), tree.FindLeaf(target.U, target.V))
	// Far away the tree is still coarse.
	require.Equal(t, uint8(19), tree.FindLeaf(0.9, 0.9).Level)
}

func TestLeavesAtLODAndAllLeaves(t *testing.T) {
	tree := NewFaceQuadtree(PosY)
	tree.Root.Subdivide()
	children, _ := tree.Root.Children()
	children[3].Subdivide()

	require.Len(t, tree.AllLeaves(), 7)
	require.Equal(t, 7, tree.LeafCount())
	require.Len(t, tree.LeavesAtLOD(19), 3)
	require.Len(t, tree.LeavesAtLOD(18), 4)
	require.Empty(t, tree.LeavesAtLOD(20))

	for _, a := range tree.LeavesAtLOD(18) {
		require.True(t, children[3].Address.Contains(a))
	}
}

func TestTreeSubdivideAndMergeByAddress(t *testing.T) {
	tree := NewFaceQuadtree(NegZ)
	child := NewChunkAddress(NegZ, 19, 1, 0)

	require.False(t, tree.Subdivide(child))
	require.True(t, tree.Subdivide(RootAddress(NegZ)))
	require.False(t, tree.Subdivide(RootAddress(NegZ)))
	require.True(t, tree.Subdivide(child))
	require.NotNil(t, tree.Node(NewChunkAddress(NegZ, 18, 3, 1)))
	require.Nil(t, tree.Node(NewChunkAddress(NegZ, 17, 0, 0)))
	require.Nil(t, tree.Node(RootAddress(PosZ)))

	require.Equal(t, NewChunkAddress(NegZ, 19, 0, 0), tree.LeafContaining(NewChunkAddress(NegZ, 15, 0, 0)).Address)
	require.Nil(t, tree.LeafContaining(child))
	require.True(t, tree.Merge(child))
	require.NotNil(t, tree.LeafContaining(child))
	require.False(t, tree.Merge(child))
}

func TestPlanetLocate(t *testing.T) {
	p := NewPlanet()
	require.Equal(t, 6, p.LeafCount())

	dir := FaceCoordToSphereEveritt(FaceCoord{Face: NegY, U: 0.8, V: 0.3})
	require.Equal(t, RootAddress(NegY), p.Locate(dir, MethodEveritt))

	p.Tree(NegY).Root.Subdivide()
	require.Equal(t, NewChunkAddress(NegY, 19, 1, 0), p.Locate(dir, MethodEveritt))
	require.Equal(t, RootAddress(PosX), p.Locate(mgl64.Vec3{}, MethodTangent))
	require.Len(t, p.AllLeaves(), 9)

	leaf, ok := p.LeafAt(NewChunkAddress(NegY, 10, 5, 5))
	require.True(t, ok)
	require.Equal(t, NewChunkAddress(NegY, 19, 0, 0), leaf)
}
