package cubesphere

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// planeEpsilon guards the divide when a direction is nearly parallel
	// to the face plane.
	planeEpsilon = 1e-12

	newtonMaxIterations = 10
	newtonStep          = 1e-8
	newtonTolerance     = 1e-14
	newtonSingular      = 1e-20
)

// DirectionToFace returns the face a direction points through. The axis
// with the largest magnitude wins, ties go X over Y over Z, and within an
// axis positive beats negative. The zero vector maps to PosX.
func DirectionToFace(dir mgl64.Vec3) Face {
	ax, ay, az := gomath.Abs(dir[0]), gomath.Abs(dir[1]), gomath.Abs(dir[2])
	switch {
	case ax >= ay && ax >= az:
		if dir[0] >= 0 {
			return PosX
		}
		return NegX
	case ay >= az:
		if dir[1] >= 0 {
			return PosY
		}
		return NegY
	default:
		if dir[2] >= 0 {
			return PosZ
		}
		return NegZ
	}
}

// directionToCube returns the face and its [-1,1] plane coordinates for dir.
// ok is false when dir is (nearly) parallel to the chosen face plane.
func directionToCube(dir mgl64.Vec3) (face Face, s, t float64, ok bool) {
	face = DirectionToFace(dir)
	b := face.Basis()
	denom := dir.Dot(b.Normal)
	if gomath.Abs(denom) < planeEpsilon {
		return face, 0, 0, false
	}
	p := dir.Mul(1 / denom)
	return face, p.Dot(b.Tangent), p.Dot(b.Bitangent), true
}

// DirectionToFaceCoord finds the face a direction points through and the
// (u, v) where the ray meets that face's plane. Degenerate directions
// return the face centre.
func DirectionToFaceCoord(dir mgl64.Vec3) FaceCoord {
	face, s, t, ok := directionToCube(dir)
	if !ok {
		return FaceCenter(face)
	}
	return FaceCoord{Face: face, U: (s + 1) / 2, V: (t + 1) / 2}.Clamped()
}

// SphereToFaceCoordTangent inverts FaceCoordToSphere exactly.
func SphereToFaceCoordTangent(p mgl64.Vec3) FaceCoord {
	face, s, t, ok := directionToCube(p)
	if !ok {
		return FaceCenter(face)
	}
	s = gomath.Atan(s) * 4 / gomath.Pi
	t = gomath.Atan(t) * 4 / gomath.Pi
	return FaceCoord{Face: face, U: (s + 1) / 2, V: (t + 1) / 2}.Clamped()
}

// SphereToFaceCoordEveritt inverts FaceCoordToSphereEveritt. The plane
// projection seeds a Newton-Raphson solve of the 2x2 normal equations,
// with the Jacobian taken by forward differences. Iteration stops on
// convergence, on a near-singular Jacobian, or after a fixed cap; the
// best estimate so far is returned in every case.
//
// Points on face edges belong to more than one face and may come back on
// either of them.
func SphereToFaceCoordEveritt(p mgl64.Vec3) FaceCoord {
	fc := DirectionToFaceCoord(p)
	l := p.Len()
	if l == 0 {
		return fc
	}
	target := p.Mul(1 / l)

	for i := 0; i < newtonMaxIterations; i++ {
		f0 := FaceCoordToSphereEveritt(fc)
		r := f0.Sub(target)
		if r.Len() < newtonTolerance {
			break
		}

		fu := FaceCoordToSphereEveritt(FaceCoord{Face: fc.Face, U: fc.U + newtonStep, V: fc.V})
		fv := FaceCoordToSphereEveritt(FaceCoord{Face: fc.Face, U: fc.U, V: fc.V + newtonStep})
		ju := fu.Sub(f0).Mul(1 / newtonStep)
		jv := fv.Sub(f0).Mul(1 / newtonStep)

		a11 := ju.Dot(ju)
		a12 := ju.Dot(jv)
		a22 := jv.Dot(jv)
		det := a11*a22 - a12*a12
		if gomath.Abs(det) < newtonSingular {
			break
		}

		b1 := -ju.Dot(r)
		b2 := -jv.Dot(r)
		fc.U += (a22*b1 - a12*b2) / det
		fc.V += (a11*b2 - a12*b1) / det
	}

	return fc.Clamped()
}

// Unproject maps a point on the sphere back to a face coordinate using
// the inverse of the chosen method.
func Unproject(p mgl64.Vec3, method Method) FaceCoord {
	if method == MethodEveritt {
		return SphereToFaceCoordEveritt(p)
	}
	return SphereToFaceCoordTangent(p)
}
