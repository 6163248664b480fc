package main

import (
	"flag"
	"fmt"
	gomath "math"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/planetgrid/internal/config"
	"github.com/Faultbox/planetgrid/pkg/cubesphere"
	"github.com/Faultbox/planetgrid/pkg/math"
)

type locateResult struct {
	Direction mgl64.Vec3              `json:"direction"`
	FaceCoord cubesphere.FaceCoord    `json:"face_coord"`
	Address   cubesphere.ChunkAddress `json:"address"`
	Key       uint64                  `json:"key"`
	Surface   mgl64.Vec3              `json:"surface"`
	World     math.WorldPos           `json:"world"`
}

func cmdLocate(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("locate", flag.ContinueOnError)
	lat := fs.Float64("lat", 0, "Latitude in degrees")
	lon := fs.Float64("lon", 0, "Longitude in degrees")
	dirFlag := fs.String("dir", "", "Direction as x,y,z (overrides -lat/-lon)")
	level := fs.Int("level", 10, "Chunk level to report")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *level < 0 || *level > cubesphere.MaxLevel {
		return fmt.Errorf("level must be between 0 and %d", cubesphere.MaxLevel)
	}

	dir := latLonToDirection(*lat, *lon)
	if *dirFlag != "" {
		v, err := parseVec3(*dirFlag)
		if err != nil {
			return err
		}
		if v.Len() == 0 {
			return fmt.Errorf("direction must be non-zero")
		}
		dir = v.Normalize()
	}

	fc := cubesphere.Unproject(dir, cfg.Planet.Projection)
	addr := cubesphere.AddressAt(fc, uint8(*level))
	surface := cubesphere.Project(fc, cfg.Planet.Projection).Mul(cfg.Planet.Radius)

	return writeJSON(locateResult{
		Direction: dir,
		FaceCoord: fc,
		Address:   addr,
		Key:       addr.Pack(),
		Surface:   surface,
		World:     cfg.Planet.Center.Offset(surface),
	})
}

type edgeResult struct {
	Direction string                  `json:"direction"`
	SameLevel cubesphere.ChunkAddress `json:"same_level"`
	Back      string                  `json:"back"`
	Resolved  cubesphere.LodNeighbor  `json:"resolved"`
}

type cornerResult struct {
	Corner string                  `json:"corner"`
	Leaves cubesphere.CornerLeaves `json:"leaves"`
}

type neighborsResult struct {
	Address cubesphere.ChunkAddress `json:"address"`
	Leaves  int                     `json:"leaves"`
	Edges   []edgeResult            `json:"edges"`
	Corners []cornerResult          `json:"corners,omitempty"`
}

func cmdNeighbors(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("neighbors", flag.ContinueOnError)
	refine := fs.String("refine", "", "Comma-separated addresses to make resident first")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: planettool neighbors [-refine addr,...] <address>")
	}

	addr, err := cubesphere.ParseChunkAddress(fs.Arg(0))
	if err != nil {
		return err
	}

	planet := cubesphere.NewPlanet()
	if *refine != "" {
		for _, s := range strings.Split(*refine, ",") {
			r, err := cubesphere.ParseChunkAddress(strings.TrimSpace(s))
			if err != nil {
				return fmt.Errorf("refine: %w", err)
			}
			refineTo(planet, r)
		}
	}
	refineTo(planet, addr)

	res := neighborsResult{Address: addr, Leaves: planet.LeafCount()}
	for _, d := range cubesphere.Directions {
		same, back := cubesphere.Neighbor(addr, d)
		res.Edges = append(res.Edges, edgeResult{
			Direction: d.String(),
			SameLevel: same,
			Back:      back.String(),
			Resolved:  planet.Neighbors(addr, d),
		})
	}
	for _, c := range cubesphere.Corners {
		if cl, ok := planet.CornerLeaves(addr, c); ok {
			res.Corners = append(res.Corners, cornerResult{Corner: c.String(), Leaves: cl})
		}
	}
	return writeJSON(res)
}

// refineTo subdivides addr's ancestors until addr itself is resident.
func refineTo(p *cubesphere.Planet, addr cubesphere.ChunkAddress) {
	tree := p.Tree(addr.Face)
	for level := uint8(cubesphere.MaxLevel); level > addr.Level; level-- {
		anc, _ := addr.Ancestor(level)
		tree.Subdivide(anc)
	}
}

type boundsResult struct {
	Address     cubesphere.ChunkAddress        `json:"address"`
	UV          cubesphere.UVRect              `json:"uv"`
	EdgeLength  float64                        `json:"edge_length"`
	Sphere      cubesphere.BoundingSphere      `json:"sphere"`
	AABB        cubesphere.ChunkAABB           `json:"aabb"`
	WorldSphere cubesphere.WorldBoundingSphere `json:"world_sphere"`
	WorldAABB   cubesphere.WorldAABB           `json:"world_aabb"`
}

func cmdBounds(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("bounds", flag.ContinueOnError)
	minHeight := fs.Float64("min", cfg.LOD.MinHeight, "Lowest terrain height")
	maxHeight := fs.Float64("max", cfg.LOD.MaxHeight, "Highest terrain height")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: planettool bounds [-min h -max h] <address>")
	}
	if *maxHeight < *minHeight {
		return fmt.Errorf("max height %v is below min height %v", *maxHeight, *minHeight)
	}

	addr, err := cubesphere.ParseChunkAddress(fs.Arg(0))
	if err != nil {
		return err
	}

	r := cfg.Planet.Radius
	sphere := cubesphere.BoundingSphereFromChunk(addr, r, *minHeight, *maxHeight)
	box := cubesphere.ChunkAABBFromChunk(addr, r, *minHeight, *maxHeight)
	return writeJSON(boundsResult{
		Address:     addr,
		UV:          addr.UVBounds(),
		EdgeLength:  addr.EdgeLength(r),
		Sphere:      sphere,
		AABB:        box,
		WorldSphere: sphere.ToWorld(cfg.Planet.Center),
		WorldAABB:   box.ToWorld(cfg.Planet.Center),
	})
}

// latLonToDirection maps degrees to a unit vector with +Y as north and
// longitude zero on +X.
func latLonToDirection(lat, lon float64) mgl64.Vec3 {
	phi := mgl64.DegToRad(lat)
	lambda := mgl64.DegToRad(lon)
	return mgl64.Vec3{
		gomath.Cos(phi) * gomath.Cos(lambda),
		gomath.Sin(phi),
		gomath.Cos(phi) * gomath.Sin(lambda),
	}
}

// parseVec3 parses "x,y,z".
func parseVec3(s string) (mgl64.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return mgl64.Vec3{}, fmt.Errorf("expected x,y,z, got %q", s)
	}
	var v mgl64.Vec3
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return mgl64.Vec3{}, fmt.Errorf("component %d of %q: %w", i, s, err)
		}
		v[i] = f
	}
	return v, nil
}
