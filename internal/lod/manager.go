// Package lod refines a cubesphere planet around a moving viewer.
//
// A Manager owns the six face quadtrees and the chunk work queue. Each call
// to Update splits leaves the viewer is close to, merges branches it has
// left behind, restores the one-level balance between neighbors and queues
// every new leaf for downstream work. The Manager is the single writer of
// its planet; read-only queries between updates are safe from any
// goroutine, but Update itself is not reentrant.
package lod

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/planetgrid/internal/config"
	"github.com/Faultbox/planetgrid/pkg/chunkqueue"
	"github.com/Faultbox/planetgrid/pkg/cubesphere"
	"github.com/Faultbox/planetgrid/pkg/math"
)

// Stats summarizes one Update.
type Stats struct {
	Splits         int    `json:"splits"`
	BalanceSplits  int    `json:"balance_splits"`
	CornerSplits   int    `json:"corner_splits"`
	Merges         int    `json:"merges"`
	Leaves         int    `json:"leaves"`
	Queued         int    `json:"queued"`
	StaleDiscarded uint64 `json:"stale_discarded"`
}

// Changed reports whether the update altered the tree.
func (s Stats) Changed() bool {
	return s.Splits+s.BalanceSplits+s.CornerSplits+s.Merges > 0
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger. A nil logger discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(m *Manager) {
		m.log = log
	}
}

// WithHeights replaces the flat height range from the config.
func WithHeights(h HeightSampler) Option {
	return func(m *Manager) {
		m.heights = h
	}
}

// Manager drives refinement of one planet.
type Manager struct {
	planet  *cubesphere.Planet
	queue   *chunkqueue.Queue
	cfg     config.LODConfig
	radius  float64
	center  math.WorldPos
	method  cubesphere.Method
	heights HeightSampler
	log     *zap.Logger
	tick    uint64
}

// NewManager creates a manager for an unrefined planet. The six face roots
// start out queued.
func NewManager(planet config.PlanetConfig, cfg config.LODConfig, opts ...Option) *Manager {
	m := &Manager{
		planet:  cubesphere.NewPlanet(),
		queue:   chunkqueue.New(),
		cfg:     cfg,
		radius:  planet.Radius,
		center:  planet.Center,
		method:  planet.Projection,
		heights: FlatHeights{Min: cfg.MinHeight, Max: cfg.MaxHeight},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.log == nil {
		m.log = zap.NewNop()
	}
	if m.heights == nil {
		m.heights = FlatHeights{Min: cfg.MinHeight, Max: cfg.MaxHeight}
	}

	for _, root := range m.planet.AllLeaves() {
		m.queue.Push(root, 0)
	}

	m.log.Info("lod manager ready",
		zap.Float64("radius", m.radius),
		zap.Stringer("projection", m.method),
		zap.Uint8("min_level", cfg.MinLevel),
		zap.Bool("balance", cfg.Balance))
	return m
}

// Planet returns the managed planet. Callers must not modify it.
func (m *Manager) Planet() *cubesphere.Planet {
	return m.planet
}

// Queue returns the pending chunk work.
func (m *Manager) Queue() *chunkqueue.Queue {
	return m.queue
}

// Locate returns the leaf under a planet-local point.
func (m *Manager) Locate(p mgl64.Vec3) cubesphere.ChunkAddress {
	return m.planet.Locate(p, m.method)
}

// Bounds returns the bounding sphere of addr in planet-local space.
func (m *Manager) Bounds(addr cubesphere.ChunkAddress) cubesphere.BoundingSphere {
	lo, hi := m.heights.HeightRange(addr)
	return cubesphere.BoundingSphereFromChunk(addr, m.radius, lo, hi)
}

// UpdateWorld runs Update for a camera given in absolute world units.
func (m *Manager) UpdateWorld(camera math.WorldPos) Stats {
	return m.Update(camera.RelativeTo(m.center))
}

// Update refines the planet for a camera in planet-local space.
//
// Splitting stops at the configured budget; balance restoration does not
// count against it. Merges collapse at most one level per call.
func (m *Manager) Update(camera mgl64.Vec3) Stats {
	start := time.Now()
	m.tick++

	var s Stats
	created := make(map[cubesphere.ChunkAddress]struct{})

	m.refine(camera, &s, created)
	m.coarsen(camera, &s, created)
	if m.cfg.Balance {
		m.balance(&s, created)
	}
	m.schedule(camera, created)

	s.Leaves = m.planet.LeafCount()
	qs := m.queue.Stats()
	s.Queued = qs.Live
	s.StaleDiscarded = qs.StaleDiscarded

	instrumentTick(s, time.Since(start).Seconds())
	if s.Changed() {
		m.log.Debug("lod update",
			zap.Uint64("tick", m.tick),
			zap.Int("splits", s.Splits),
			zap.Int("balance_splits", s.BalanceSplits),
			zap.Int("corner_splits", s.CornerSplits),
			zap.Int("merges", s.Merges),
			zap.Int("leaves", s.Leaves),
			zap.Int("queued", s.Queued))
	}
	return s
}

// Next pops the most urgent queued leaf.
func (m *Manager) Next() (chunkqueue.Entry, bool) {
	for {
		e, ok := m.queue.Pop()
		if !ok {
			return chunkqueue.Entry{}, false
		}
		if m.isLeaf(e.Address) {
			return e, true
		}
	}
}

func (m *Manager) distance(addr cubesphere.ChunkAddress, camera mgl64.Vec3) float64 {
	return m.Bounds(addr).DistanceTo(camera)
}

// priority favours large chunks close to the camera.
func (m *Manager) priority(addr cubesphere.ChunkAddress, camera mgl64.Vec3) float64 {
	return addr.EdgeLength(m.radius) / (m.distance(addr, camera) + 1)
}

func (m *Manager) wantsSplit(addr cubesphere.ChunkAddress, camera mgl64.Vec3) bool {
	if addr.Level <= m.cfg.MinLevel {
		return false
	}
	return m.distance(addr, camera) < m.cfg.SplitFactor*addr.EdgeLength(m.radius)
}

func (m *Manager) wantsMerge(addr cubesphere.ChunkAddress, camera mgl64.Vec3) bool {
	return m.distance(addr, camera) > m.cfg.MergeFactor*addr.EdgeLength(m.radius)
}

func (m *Manager) isLeaf(addr cubesphere.ChunkAddress) bool {
	t := m.planet.Tree(addr.Face)
	if t == nil {
		return false
	}
	n := t.Node(addr)
	return n != nil && n.IsLeaf()
}

// split subdivides a resident leaf and returns its children.
func (m *Manager) split(addr cubesphere.ChunkAddress, created map[cubesphere.ChunkAddress]struct{}) [4]cubesphere.ChunkAddress {
	m.planet.Tree(addr.Face).Subdivide(addr)
	m.queue.Remove(addr)
	delete(created, addr)

	children, _ := addr.Children()
	for _, c := range children {
		created[c] = struct{}{}
	}
	return children
}

// refine splits leaves near the camera, largest and closest first.
func (m *Manager) refine(camera mgl64.Vec3, s *Stats, created map[cubesphere.ChunkAddress]struct{}) {
	frontier := chunkqueue.New()
	for _, leaf := range m.planet.AllLeaves() {
		frontier.Push(leaf, m.priority(leaf, camera))
	}

	for {
		e, ok := frontier.Pop()
		if !ok {
			return
		}
		if !m.wantsSplit(e.Address, camera) {
			continue
		}
		if m.cfg.MaxSplitsPerTick > 0 && s.Splits >= m.cfg.MaxSplitsPerTick {
			m.log.Debug("split budget exhausted",
				zap.Uint64("tick", m.tick),
				zap.Int("pending", frontier.Len()+1))
			return
		}
		for _, c := range m.split(e.Address, created) {
			frontier.Push(c, m.priority(c, camera))
		}
		s.Splits++
		instrumentSplit(reasonDistance)
	}
}

// coarsen merges branches whose children are all leaves once the camera
// has moved far enough away. A merge that would break balance is undone.
func (m *Manager) coarsen(camera mgl64.Vec3, s *Stats, created map[cubesphere.ChunkAddress]struct{}) {
	for _, face := range cubesphere.Faces {
		tree := m.planet.Tree(face)

		var candidates []cubesphere.ChunkAddress
		tree.Walk(func(n *cubesphere.QuadNode) bool {
			children, ok := n.Children()
			if !ok {
				return false
			}
			for _, c := range children {
				if !c.IsLeaf() {
					return true
				}
			}
			candidates = append(candidates, n.Address)
			return false
		})

		for _, addr := range candidates {
			children, _ := addr.Children()
			if anyCreated(children, created) || !m.wantsMerge(addr, camera) {
				continue
			}
			tree.Merge(addr)
			if m.cfg.Balance {
				if _, bad := m.imbalance(addr); bad {
					tree.Subdivide(addr)
					continue
				}
			}
			for _, c := range children {
				m.queue.Remove(c)
			}
			created[addr] = struct{}{}
			s.Merges++
			instrumentMerge()
		}
	}
}

func anyCreated(addrs [4]cubesphere.ChunkAddress, created map[cubesphere.ChunkAddress]struct{}) bool {
	for _, a := range addrs {
		if _, ok := created[a]; ok {
			return true
		}
	}
	return false
}

// imbalance reports why leaf addr must be split to keep every neighbor
// within one level of it. Only the coarser side of a violation reports it.
func (m *Manager) imbalance(addr cubesphere.ChunkAddress) (string, bool) {
	for _, d := range cubesphere.Directions {
		n := m.planet.Neighbors(addr, d)
		if n.Kind != cubesphere.NeighborMultiple {
			continue
		}
		for _, c := range n.Chunks {
			if c.Level+1 < addr.Level {
				return reasonBalance, true
			}
		}
	}
	for _, c := range cubesphere.Corners {
		cl, ok := m.planet.CornerLeaves(addr, c)
		if !ok || cl.Valid {
			continue
		}
		if addr.Level >= cl.Others[0].Level && addr.Level >= cl.Others[1].Level {
			return reasonCorner, true
		}
	}
	return "", false
}

// balance splits the coarser side of every edge or corner whose leaves
// differ by more than one level, until none remain.
func (m *Manager) balance(s *Stats, created map[cubesphere.ChunkAddress]struct{}) {
	work := m.planet.AllLeaves()
	for len(work) > 0 {
		addr := work[len(work)-1]
		work = work[:len(work)-1]
		if !m.isLeaf(addr) {
			continue
		}
		reason, bad := m.imbalance(addr)
		if !bad {
			continue
		}

		children := m.split(addr, created)
		work = append(work, children[:]...)
		if reason == reasonCorner {
			s.CornerSplits++
		} else {
			s.BalanceSplits++
		}
		instrumentSplit(reason)

		// Coarser neighbors may now be two levels away.
		for _, d := range cubesphere.Directions {
			if leaf, ok := m.planet.Neighbors(addr, d).Single(); ok {
				work = append(work, leaf)
			}
		}
		for _, c := range cubesphere.Corners {
			if cl, ok := m.planet.CornerLeaves(children[c], c); ok {
				work = append(work, cl.Others[:]...)
			}
		}
	}
}

// schedule queues new leaves and rescores those still waiting.
func (m *Manager) schedule(camera mgl64.Vec3, created map[cubesphere.ChunkAddress]struct{}) {
	for _, leaf := range m.planet.AllLeaves() {
		_, isNew := created[leaf]
		if isNew || m.queue.Contains(leaf) {
			m.queue.Push(leaf, m.priority(leaf, camera))
		}
	}
}
