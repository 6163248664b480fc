package cubesphere

import (
	"fmt"
	gomath "math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Method selects the cube-to-sphere mapping.
type Method uint8

const (
	// MethodTangent warps each face axis with tan(x*pi/4) before
	// normalizing. Cheap, cell areas vary mildly across a face.
	MethodTangent Method = iota
	// MethodEveritt is the closed-form area-correcting remap. Cell areas
	// are more uniform; terrain generation uses it.
	MethodEveritt
)

func (m Method) String() string {
	switch m {
	case MethodTangent:
		return "tangent"
	case MethodEveritt:
		return "everitt"
	default:
		return fmt.Sprintf("Method(%d)", uint8(m))
	}
}

// ParseMethod parses "tangent" or "everitt" (case-insensitive).
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tangent":
		return MethodTangent, nil
	case "everitt":
		return MethodEveritt, nil
	default:
		return 0, fmt.Errorf("unknown projection method %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Method) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Method) UnmarshalText(text []byte) error {
	parsed, err := ParseMethod(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// uvToCube remaps a face coordinate from [0,1] to [-1,1].
func uvToCube(u, v float64) (s, t float64) {
	return 2*u - 1, 2*v - 1
}

// FaceCoordToCubePoint returns the point on the [-1,1] cube shell.
func FaceCoordToCubePoint(fc FaceCoord) mgl64.Vec3 {
	b := fc.Face.Basis()
	s, t := uvToCube(fc.U, fc.V)
	return b.Normal.Add(b.Tangent.Mul(s)).Add(b.Bitangent.Mul(t))
}

// FaceCoordToSphere projects fc onto the unit sphere with the tangent warp.
func FaceCoordToSphere(fc FaceCoord) mgl64.Vec3 {
	b := fc.Face.Basis()
	s, t := uvToCube(fc.U, fc.V)
	s = gomath.Tan(s * gomath.Pi / 4)
	t = gomath.Tan(t * gomath.Pi / 4)
	return b.Normal.Add(b.Tangent.Mul(s)).Add(b.Bitangent.Mul(t)).Normalize()
}

// CubeToSphereEveritt maps a point on the cube shell to the unit sphere:
//
//	sx = x * sqrt(1 - y²/2 - z²/2 + y²z²/3)
//
// and cyclic permutations for sy and sz.
func CubeToSphereEveritt(p mgl64.Vec3) mgl64.Vec3 {
	x2, y2, z2 := p[0]*p[0], p[1]*p[1], p[2]*p[2]
	return mgl64.Vec3{
		p[0] * gomath.Sqrt(1-y2/2-z2/2+y2*z2/3),
		p[1] * gomath.Sqrt(1-z2/2-x2/2+z2*x2/3),
		p[2] * gomath.Sqrt(1-x2/2-y2/2+x2*y2/3),
	}
}

// FaceCoordToSphereEveritt projects fc onto the unit sphere with the Everitt mapping.
func FaceCoordToSphereEveritt(fc FaceCoord) mgl64.Vec3 {
	return CubeToSphereEveritt(FaceCoordToCubePoint(fc))
}

// Project maps fc to the unit sphere with the chosen method.
func Project(fc FaceCoord, method Method) mgl64.Vec3 {
	if method == MethodEveritt {
		return FaceCoordToSphereEveritt(fc)
	}
	return FaceCoordToSphere(fc)
}
