package lod

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Faultbox/planetgrid/pkg/cubesphere"
)

func TestNewGridHeightsRejectsTinyGrid(t *testing.T) {
	_, err := NewGridHeights(1, func(cubesphere.FaceCoord) float64 { return 0 })
	require.Error(t, err)
}

func TestGridHeightsAtInterpolates(t *testing.T) {
	// A plane is reproduced exactly by bilinear interpolation.
	plane := func(fc cubesphere.FaceCoord) float64 {
		return 100*fc.U - 40*fc.V + float64(fc.Face)
	}
	g, err := NewGridHeights(5, plane)
	require.NoError(t, err)
	require.Equal(t, 5, g.Size())

	for _, f := range cubesphere.Faces {
		for _, uv := range [][2]float64{{0, 0}, {1, 1}, {0.3, 0.7}, {0.5, 0.125}, {1, 0}} {
			fc := cubesphere.FaceCoord{Face: f, U: uv[0], V: uv[1]}
			require.InDelta(t, plane(fc), g.At(fc), 1e-9, "%+v", fc)
		}
	}

	// Out-of-range coordinates clamp to the face.
	require.InDelta(t, 100.0, g.At(cubesphere.FaceCoord{U: 2, V: -1}), 1e-9)
}

func TestGridHeightsRangeEnclosesChunk(t *testing.T) {
	bumpy := func(fc cubesphere.FaceCoord) float64 {
		return 500 * (fc.U - 0.5) * (fc.V - 0.3)
	}
	g, err := NewGridHeights(9, bumpy)
	require.NoError(t, err)

	for _, addr := range []cubesphere.ChunkAddress{
		cubesphere.RootAddress(cubesphere.NegY),
		cubesphere.NewChunkAddress(cubesphere.PosX, 19, 1, 0),
		cubesphere.NewChunkAddress(cubesphere.PosZ, 17, 3, 5),
		cubesphere.NewChunkAddress(cubesphere.NegZ, 12, 100, 7),
	} {
		lo, hi := g.HeightRange(addr)
		require.LessOrEqual(t, lo, hi)

		r := addr.UVBounds()
		for j := 0; j <= 10; j++ {
			for i := 0; i <= 10; i++ {
				fc := cubesphere.FaceCoord{
					Face: addr.Face,
					U:    r.MinU + (r.MaxU-r.MinU)*float64(i)/10,
					V:    r.MinV + (r.MaxV-r.MinV)*float64(j)/10,
				}
				h := g.At(fc)
				require.True(t, h >= lo-1e-9 && h <= hi+1e-9, "%v: %v outside [%v, %v]", addr, h, lo, hi)
			}
		}
	}
}

func TestManagerWithGridHeights(t *testing.T) {
	g, err := NewGridHeights(3, func(fc cubesphere.FaceCoord) float64 {
		if fc.Face == cubesphere.PosZ {
			return 50
		}
		return 0
	})
	require.NoError(t, err)

	planet, lod := smallPlanet()
	m := NewManager(planet, lod, WithHeights(g))
	m.Update(nearCamera)

	root := cubesphere.RootAddress(cubesphere.PosZ)
	require.Equal(t, cubesphere.BoundingSphereFromChunk(root, planet.Radius, 50, 50), m.Bounds(root))
	requireBalanced(t, m.Planet())
}
