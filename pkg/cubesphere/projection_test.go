package cubesphere

import (
	gomath "math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"
)

func TestFaceBasisIsRightHanded(t *testing.T) {
	for _, f := range Faces {
		b := f.Basis()
		require.InDelta(t, 1.0, b.Normal.Len(), 1e-15, f.String())
		require.InDelta(t, 0.0, b.Tangent.Dot(b.Bitangent), 1e-15, f.String())
		require.Equal(t, b.Normal, b.Tangent.Cross(b.Bitangent), f.String())
	}
}

func TestParseFace(t *testing.T) {
	for _, f := range Faces {
		got, err := ParseFace(f.String())
		require.NoError(t, err)
		require.Equal(t, f, got)
	}
	_, err := ParseFace("+W")
	require.Error(t, err)
}

func TestFaceCentreMapsToNormal(t *testing.T) {
	for _, f := range Faces {
		fc := FaceCenter(f)
		require.Equal(t, f.Normal(), FaceCoordToCubePoint(fc))
		require.Equal(t, f.Normal(), FaceCoordToSphere(fc))
		require.Equal(t, f.Normal(), FaceCoordToSphereEveritt(fc))
		require.Equal(t, f.Normal(), CubeToSphereEveritt(f.Normal()))
	}
}

func TestProjectionsLandOnUnitSphere(t *testing.T) {
	for _, f := range Faces {
		for _, u := range []float64{0, 0.13, 0.5, 0.77, 1} {
			for _, v := range []float64{0, 0.31, 0.5, 0.92, 1} {
				fc := FaceCoord{Face: f, U: u, V: v}
				require.InDelta(t, 1.0, FaceCoordToSphere(fc).Len(), 1e-12)
				require.InDelta(t, 1.0, FaceCoordToSphereEveritt(fc).Len(), 1e-12)
			}
		}
	}
}

func TestProjectDispatch(t *testing.T) {
	fc := FaceCoord{Face: NegY, U: 0.2, V: 0.7}
	require.Equal(t, FaceCoordToSphere(fc), Project(fc, MethodTangent))
	require.Equal(t, FaceCoordToSphereEveritt(fc), Project(fc, MethodEveritt))
}

func TestParseMethod(t *testing.T) {
	m, err := ParseMethod(" Everitt ")
	require.NoError(t, err)
	require.Equal(t, MethodEveritt, m)

	var parsed Method
	require.NoError(t, parsed.UnmarshalText([]byte("tangent")))
	require.Equal(t, MethodTangent, parsed)

	_, err = ParseMethod("mercator")
	require.Error(t, err)
}

func TestDirectionToFace(t *testing.T) {
	cases := []struct {
		dir  mgl64.Vec3
		want Face
	}{
		{mgl64.Vec3{2, 1, -1}, PosX},
		{mgl64.Vec3{-2, 1, 1}, NegX},
		{mgl64.Vec3{0.1, 3, 0}, PosY},
		{mgl64.Vec3{0.1, -3, 0}, NegY},
		{mgl64.Vec3{0, 0, 1}, PosZ},
		{mgl64.Vec3{0, 0, -1}, NegZ},
		// Ties: X beats Y beats Z.
		{mgl64.Vec3{1, 1, 1}, PosX},
		{mgl64.Vec3{-1, 1, 1}, NegX},
		{mgl64.Vec3{0, -1, 1}, NegY},
		{mgl64.Vec3{0, 1, -1}, PosY},
		// Zero maps to +X.
		{mgl64.Vec3{}, PosX},
	}
	for _, c := range cases {
		require.Equal(t, c.want, DirectionToFace(c.dir), "dir %v", c.dir)
	}
}

func TestDirectionToFaceCoord(t *testing.T) {
	for _, f := range Faces {
		for _, u := range []float64{0, 0.25, 0.5, 0.8, 1} {
			for _, v := range []float64{0, 0.4, 0.5, 0.6, 1} {
				fc := FaceCoord{Face: f, U: u, V: v}
				if !fc.Interior(1e-9) {
					continue
				}
				got := DirectionToFaceCoord(FaceCoordToCubePoint(fc).Mul(3.5))
				require.True(t, got.ApproxEqual(fc, 1e-12), "got %+v want %+v", got, fc)
			}
		}
	}

	require.Equal(t, FaceCenter(PosX), DirectionToFaceCoord(mgl64.Vec3{}))
}

func TestEverittRoundTrip(t *testing.T) {
	for _, f := range Faces {
		for i := 1; i < 20; i++ {
			for j := 1; j < 20; j++ {
				fc := FaceCoord{Face: f, U: float64(i) / 20, V: float64(j) / 20}
				got := SphereToFaceCoordEveritt(FaceCoordToSphereEveritt(fc))
				require.True(t, got.ApproxEqual(fc, 1e-9), "got %+v want %+v", got, fc)
			}
		}
	}
}

func TestEverittInverseAcceptsScaledPoints(t *testing.T) {
	fc := FaceCoord{Face: NegZ, U: 0.3, V: 0.85}
	p := FaceCoordToSphereEveritt(fc).Mul(6371000)
	require.True(t, SphereToFaceCoordEveritt(p).ApproxEqual(fc, 1e-9))
}

func TestTangentRoundTrip(t *testing.T) {
	for _, f := range Faces {
		for _, u := range []float64{0.01, 0.2, 0.5, 0.73, 0.99} {
			for _, v := range []float64{0.05, 0.5, 0.66, 0.95} {
				fc := FaceCoord{Face: f, U: u, V: v}
				got := Unproject(Project(fc, MethodTangent), MethodTangent)
				require.True(t, got.ApproxEqual(fc, 1e-12), "got %+v want %+v", got, fc)
			}
		}
	}
}

func TestEverittCellsAreMoreUniform(t *testing.T) {
	// Ratio of largest to smallest cell edge along the face midline.
	spread := func(project func(FaceCoord) mgl64.Vec3) float64 {
		lo, hi := gomath.Inf(1), 0.0
		const n = 16
		for i := 0; i < n; i++ {
			a := project(FaceCoord{Face: PosZ, U: float64(i) / n, V: 0.5})
			b := project(FaceCoord{Face: PosZ, U: float64(i+1) / n, V: 0.5})
			d := a.Sub(b).Len()
			lo = gomath.Min(lo, d)
			hi = gomath.Max(hi, d)
		}
		return hi / lo
	}
	gnomonic := func(fc FaceCoord) mgl64.Vec3 { return FaceCoordToCubePoint(fc).Normalize() }
	require.Less(t, spread(FaceCoordToSphereEveritt), spread(gnomonic))
}
