package main

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/planetgrid/internal/config"
	"github.com/Faultbox/planetgrid/pkg/cubesphere"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = prev })
	return &buf
}

func TestLocate(t *testing.T) {
	out := capture(t)
	cfg := config.Default()

	require.NoError(t, run(cfg, "locate", []string{"-dir", "0,0,5", "-level", "19"}))

	var res locateResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	require.Equal(t, mgl64.Vec3{0, 0, 1}, res.Direction)
	require.Equal(t, cubesphere.FaceCenter(cubesphere.PosZ), res.FaceCoord)
	require.Equal(t, cubesphere.PosZ, res.Address.Face)
	require.Equal(t, uint8(19), res.Address.Level)
	require.Equal(t, res.Address.Pack(), res.Key)
	require.InDelta(t, cfg.Planet.Radius, res.Surface.Len(), 1e-6)
	require.Equal(t, int64(cfg.Planet.Radius), res.World.Z)
}

func TestLocateLatLon(t *testing.T) {
	out := capture(t)
	require.NoError(t, run(config.Default(), "loc", []string{"-lat", "90"}))

	var res locateResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	require.Equal(t, cubesphere.PosY, res.FaceCoord.Face)
}

func TestLocateErrors(t *testing.T) {
	capture(t)
	cfg := config.Default()
	require.Error(t, run(cfg, "locate", []string{"-dir", "1,2"}))
	require.Error(t, run(cfg, "locate", []string{"-dir", "0,0,0"}))
	require.Error(t, run(cfg, "locate", []string{"-level", "21"}))
	require.Error(t, run(cfg, "nonsense", nil))
}

func TestNeighbors(t *testing.T) {
	out := capture(t)

	// +Z/19/1/1 borders +X/19/0/1; refining that cell makes the
	// neighbor fan out.
	args := []string{"-refine", "+X/18/0/2", "+Z/19/1/1"}
	require.NoError(t, run(config.Default(), "neighbors", args))

	var res struct {
		Address cubesphere.ChunkAddress `json:"address"`
		Edges   []struct {
			Direction string                  `json:"direction"`
			SameLevel cubesphere.ChunkAddress `json:"same_level"`
			Resolved  struct {
				Kind   string                    `json:"kind"`
				Chunks []cubesphere.ChunkAddress `json:"chunks"`
			} `json:"resolved"`
		} `json:"edges"`
		Corners []struct {
			Corner string `json:"corner"`
		} `json:"corners"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	require.Equal(t, cubesphere.NewChunkAddress(cubesphere.PosZ, 19, 1, 1), res.Address)
	require.Len(t, res.Edges, 4)

	right := res.Edges[cubesphere.Right]
	require.Equal(t, "right", right.Direction)
	require.Equal(t, cubesphere.NewChunkAddress(cubesphere.PosX, 19, 0, 1), right.SameLevel)
	require.Equal(t, cubesphere.NeighborMultiple.String(), right.Resolved.Kind)
	require.Len(t, right.Resolved.Chunks, 2)

	left := res.Edges[cubesphere.Left]
	require.Equal(t, cubesphere.NeighborSingle.String(), left.Resolved.Kind)
	// Only the top-right corner of a 2x2 grid cell sits on a face corner.
	require.Len(t, res.Corners, 1)
	require.Equal(t, cubesphere.TopRight.String(), res.Corners[0].Corner)
}

func TestBounds(t *testing.T) {
	out := capture(t)
	cfg := config.Default()

	require.NoError(t, run(cfg, "bounds", []string{"-min", "0", "-max", "100", "--", "-Z/10/3/7"}))

	var res struct {
		Address    cubesphere.ChunkAddress   `json:"address"`
		EdgeLength float64                   `json:"edge_length"`
		Sphere     cubesphere.BoundingSphere `json:"sphere"`
		AABB       cubesphere.ChunkAABB      `json:"aabb"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	require.Equal(t, cubesphere.NewChunkAddress(cubesphere.NegZ, 10, 3, 7), res.Address)
	require.InDelta(t, res.Address.EdgeLength(cfg.Planet.Radius), res.EdgeLength, 1e-9)
	require.True(t, res.AABB.Contains(res.Sphere.Center))

	require.Error(t, run(cfg, "bounds", []string{"-min", "10", "-max", "0", "+X/0/0/0"}))
	require.Error(t, run(cfg, "bounds", []string{"+X/banana"}))
}

func TestSimulate(t *testing.T) {
	out := capture(t)
	cfg := config.Default()
	cfg.Planet.Radius = 1000
	cfg.LOD.MinLevel = 15
	cfg.LOD.MinHeight = 0
	cfg.LOD.MaxHeight = 10

	args := []string{"-ticks", "6", "-altitude", "5", "-speed", "10", "-every", "2", "-drain", "8"}
	require.NoError(t, run(cfg, "sim", args))

	var ticks []tickResult
	sc := bufio.NewScanner(out)
	for sc.Scan() {
		var tr tickResult
		require.NoError(t, json.Unmarshal(sc.Bytes(), &tr))
		ticks = append(ticks, tr)
	}
	require.NoError(t, sc.Err())

	// Every second tick plus the last one.
	require.Len(t, ticks, 4)
	for i, want := range []int{0, 2, 4, 5} {
		require.Equal(t, want, ticks[i].Tick)
	}
	require.Positive(t, ticks[0].Stats.Splits)
	require.Equal(t, 8, ticks[0].Drained)
	require.Equal(t, cfg.LOD.MinLevel, ticks[0].Below.Level)
}

func TestParseVec3(t *testing.T) {
	v, err := parseVec3(" 1, -2.5 ,3e2")
	require.NoError(t, err)
	require.Equal(t, mgl64.Vec3{1, -2.5, 300}, v)

	_, err = parseVec3("1,x,3")
	require.Error(t, err)
}

func TestLatLonToDirection(t *testing.T) {
	cases := []struct {
		lat, lon float64
		want     mgl64.Vec3
	}{
		{0, 0, mgl64.Vec3{1, 0, 0}},
		{90, 0, mgl64.Vec3{0, 1, 0}},
		{-90, 0, mgl64.Vec3{0, -1, 0}},
		{0, 90, mgl64.Vec3{0, 0, 1}},
		{0, 180, mgl64.Vec3{-1, 0, 0}},
	}
	for _, c := range cases {
		got := latLonToDirection(c.lat, c.lon)
		require.True(t, got.ApproxEqualThreshold(c.want, 1e-12), "lat %v lon %v: %v", c.lat, c.lon, got)
	}
}
