package lod

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/planetgrid/pkg/cubesphere"
	"github.com/Faultbox/planetgrid/pkg/math"
)

// GridHeights is a HeightSampler backed by a coarse per-face elevation
// grid. Each face holds size x size samples spanning u and v in [0, 1]
// inclusive, so samples on shared face edges are stored once per face.
type GridHeights struct {
	size  int
	faces [cubesphere.FaceCount][]float64 // Row-major, rows run along v
}

// NewGridHeights samples fn at every grid point of every face.
func NewGridHeights(size int, fn func(fc cubesphere.FaceCoord) float64) (*GridHeights, error) {
	if size < 2 {
		return nil, fmt.Errorf("height grid needs at least 2 samples per side, got %d", size)
	}
	g := &GridHeights{size: size}
	step := 1 / float64(size-1)
	for _, f := range cubesphere.Faces {
		samples := make([]float64, size*size)
		for j := 0; j < size; j++ {
			for i := 0; i < size; i++ {
				samples[j*size+i] = fn(cubesphere.FaceCoord{Face: f, U: float64(i) * step, V: float64(j) * step})
			}
		}
		g.faces[f] = samples
	}
	return g, nil
}

// Size returns the number of samples per face side.
func (g *GridHeights) Size() int {
	return g.size
}

func (g *GridHeights) sample(f cubesphere.Face, i, j int) float64 {
	return g.faces[f][j*g.size+i]
}

// At returns the bilinearly interpolated height at fc.
func (g *GridHeights) At(fc cubesphere.FaceCoord) float64 {
	fc = fc.Clamped()
	last := g.size - 1

	// Convert to grid cell and clamp to a valid cell
	fx := fc.U * float64(last)
	fy := fc.V * float64(last)
	i := min(int(fx), last-1)
	j := min(int(fy), last-1)

	// Fractional position within cell (0-1)
	tx := math.Clamp(fx-float64(i), 0, 1)
	ty := math.Clamp(fy-float64(j), 0, 1)

	// Lerp along u on the lower and upper rows, then along v
	lower := math.Lerp(g.sample(fc.Face, i, j), g.sample(fc.Face, i+1, j), tx)
	upper := math.Lerp(g.sample(fc.Face, i, j+1), g.sample(fc.Face, i+1, j+1), tx)
	return math.Lerp(lower, upper, ty)
}

// HeightRange implements HeightSampler. Bilinear patches take their
// extremes at grid samples, so the range over every sample whose cell
// overlaps the chunk encloses all interpolated heights inside it.
func (g *GridHeights) HeightRange(addr cubesphere.ChunkAddress) (float64, float64) {
	r := addr.UVBounds()
	last := float64(g.size - 1)
	i0 := int(gomath.Floor(r.MinU * last))
	i1 := int(gomath.Ceil(r.MaxU * last))
	j0 := int(gomath.Floor(r.MinV * last))
	j1 := int(gomath.Ceil(r.MaxV * last))

	lo, hi := gomath.Inf(1), gomath.Inf(-1)
	for j := j0; j <= j1; j++ {
		for i := i0; i <= i1; i++ {
			h := g.sample(addr.Face, i, j)
			lo = gomath.Min(lo, h)
			hi = gomath.Max(hi, h)
		}
	}
	return lo, hi
}
