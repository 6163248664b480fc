package lod

import "github.com/Faultbox/planetgrid/pkg/cubesphere"

// HeightSampler reports the terrain height range inside a chunk. Bounding
// volumes are built from it, so it must never under-report.
type HeightSampler interface {
	HeightRange(addr cubesphere.ChunkAddress) (min, max float64)
}

// FlatHeights is a HeightSampler that gives every chunk the same range.
type FlatHeights struct {
	Min, Max float64
}

// HeightRange implements HeightSampler.
func (h FlatHeights) HeightRange(cubesphere.ChunkAddress) (float64, float64) {
	return h.Min, h.Max
}

// HeightFunc adapts a plain function to HeightSampler.
type HeightFunc func(addr cubesphere.ChunkAddress) (min, max float64)

// HeightRange implements HeightSampler.
func (f HeightFunc) HeightRange(addr cubesphere.ChunkAddress) (float64, float64) {
	return f(addr)
}
