package cubesphere

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGridSizeHalvesPerLevel(t *testing.T) {
	require.Equal(t, uint32(1<<20), GridSize(0))
	require.Equal(t, uint32(1), GridSize(MaxLevel))
	for level := uint8(0); level < MaxLevel; level++ {
		require.Equal(t, GridSize(level)/2, GridSize(level+1))
	}
	require.Panics(t, func() { GridSize(MaxLevel + 1) })
}

func TestNewChunkAddressValidates(t *testing.T) {
	require.NotPanics(t, func() { NewChunkAddress(NegZ, 18, 3, 3) })
	require.Panics(t, func() { NewChunkAddress(NegZ, 18, 4, 0) })
	require.Panics(t, func() { NewChunkAddress(NegZ, 18, 0, 4) })
	require.Panics(t, func() { NewChunkAddress(NegZ, 21, 0, 0) })
	require.Panics(t, func() { NewChunkAddress(Face(6), 20, 0, 0) })
}

func TestUVBounds(t *testing.T) {
	a := NewChunkAddress(PosY, 18, 1, 2)
	require.Equal(t, UVRect{MinU: 0.25, MinV: 0.5, MaxU: 0.5, MaxV: 0.75}, a.UVBounds())
	require.Equal(t, FaceCoord{Face: PosY, U: 0.375, V: 0.625}, a.CenterFaceCoord())

	root := RootAddress(NegX)
	require.Equal(t, UVRect{MaxU: 1, MaxV: 1}, root.UVBounds())
}

func TestChildrenTileParent(t *testing.T) {
	parents := []ChunkAddress{
		RootAddress(PosX),
		NewChunkAddress(NegY, 15, 17, 30),
		NewChunkAddress(PosZ, 1, 1<<19-1, 12345),
	}
	for _, p := range parents {
		children, ok := p.Children()
		require.True(t, ok)

		pb := p.UVBounds()
		u := UVRect{MinU: 1, MinV: 1}
		for i, c := range children {
			require.Equal(t, p.Level-1, c.Level)
			require.Equal(t, i, c.ChildIndex())
			parent, ok := c.Parent()
			require.True(t, ok)
			require.Equal(t, p, parent)
			require.True(t, p.Contains(c))

			cb := c.UVBounds()
			u.MinU = min(u.MinU, cb.MinU)
			u.MinV = min(u.MinV, cb.MinV)
			u.MaxU = max(u.MaxU, cb.MaxU)
			u.MaxV = max(u.MaxV, cb.MaxV)
		}
		require.InDelta(t, pb.MinU, u.MinU, 1e-12)
		require.InDelta(t, pb.MinV, u.MinV, 1e-12)
		require.InDelta(t, pb.MaxU, u.MaxU, 1e-12)
		require.InDelta(t, pb.MaxV, u.MaxV, 1e-12)

		// Bottom-left, bottom-right, top-left, top-right.
		require.Equal(t, children[0].UVBounds().MinU, children[2].UVBounds().MinU)
		require.Less(t, children[0].UVBounds().MinU, children[1].UVBounds().MinU)
		require.Less(t, children[0].UVBounds().MinV, children[2].UVBounds().MinV)
		require.Equal(t, pb.MaxU, children[3].UVBounds().MaxU)
		require.Equal(t, pb.MaxV, children[3].UVBounds().MaxV)
	}
}

func TestParentAndChildrenAtLimits(t *testing.T) {
	_, ok := RootAddress(PosX).Parent()
	require.False(t, ok)

	_, ok = NewChunkAddress(PosX, 0, 5, 5).Children()
	require.False(t, ok)
}

func TestAncestorAndContains(t *testing.T) {
	a := NewChunkAddress(PosZ, 10, 513, 7)
	anc, ok := a.Ancestor(12)
	require.True(t, ok)
	require.Equal(t, NewChunkAddress(PosZ, 12, 128, 1), anc)
	require.True(t, anc.Contains(a))
	require.False(t, a.Contains(anc))

	_, ok = a.Ancestor(9)
	require.False(t, ok)

	other := NewChunkAddress(NegZ, 10, 513, 7)
	require.False(t, RootAddress(PosZ).Contains(other))
}

func TestAddressAt(t *testing.T) {
	require.Equal(t, NewChunkAddress(PosX, 18, 0, 3), AddressAt(FaceCoord{Face: PosX, U: 0.1, V: 0.99}, 18))
	require.Equal(t, NewChunkAddress(PosX, 18, 3, 3), AddressAt(FaceCoord{Face: PosX, U: 1, V: 1}, 18))
	require.Equal(t, RootAddress(NegY), AddressAt(FaceCoord{Face: NegY, U: 0.4, V: 0.2}, MaxLevel))
}

func TestPackRoundTrip(t *testing.T) {
	addrs := []ChunkAddress{
		RootAddress(NegZ),
		NewChunkAddress(PosX, 0, 1<<20-1, 1<<20-1),
		NewChunkAddress(NegY, 7, 4000, 13),
	}
	seen := make(map[uint64]ChunkAddress)
	for _, a := range addrs {
		key := a.Pack()
		got, err := UnpackChunkAddress(key)
		require.NoError(t, err)
		require.Equal(t, a, got)
		seen[key] = a
	}
	require.Len(t, seen, len(addrs))

	_, err := UnpackChunkAddress(uint64(7) << 45)
	require.Error(t, err)
	_, err = UnpackChunkAddress(1 << 60)
	require.Error(t, err)
}

func TestParseChunkAddress(t *testing.T) {
	a := NewChunkAddress(NegX, 12, 100, 255)
	got, err := ParseChunkAddress(a.String())
	require.NoError(t, err)
	require.Equal(t, a, got)
	require.Equal(t, "-X/12/100/255", a.String())

	var text ChunkAddress
	require.NoError(t, text.UnmarshalText([]byte("+Z/20/0/0")))
	require.Equal(t, RootAddress(PosZ), text)

	for _, bad := range []string{"", "+Z/20/0", "+Q/1/0/0", "+Z/21/0/0", "+Z/19/2/0", "+Z/x/0/0"} {
		_, err := ParseChunkAddress(bad)
		require.Error(t, err, bad)
	}
}

func TestEdgeLength(t *testing.T) {
	require.InDelta(t, 1000*3.141592653589793/2, RootAddress(PosX).EdgeLength(1000), 1e-9)
	a := NewChunkAddress(PosX, 19, 0, 0)
	require.InDelta(t, RootAddress(PosX).EdgeLength(1000)/2, a.EdgeLength(1000), 1e-9)
}
