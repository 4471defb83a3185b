// Package world keeps a procedurally generated voxel terrain current around a viewer.
//
// Each Update populates the octree where the LOD selection will look, selects the nodes
// to draw and reconciles the chunk cache with that selection.
package world

import (
	"runtime"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"voxel-lod/internal/config"
	"voxel-lod/internal/density"
	"voxel-lod/internal/lod"
	"voxel-lod/internal/meshing"
	"voxel-lod/internal/octree"
	"voxel-lod/internal/profiling"
	"voxel-lod/internal/voxel"
)

// UpdateStats describes one Update call.
type UpdateStats struct {
	Skipped    bool // viewer moved less than the update distance
	Stored     int  // grids written to the octree
	Complete   bool // population finished within the budget
	Selected   int  // keys returned by the selector
	Unresolved int  // selected keys with no grid on their path
	Targets    int  // distinct resolved nodes
	Chunks     int  // chunk records after the update
	Evicted    int
	Build      BuildStats
	Duration   time.Duration
}

// Terrain owns the octree, the sampler and the chunk cache. It is not safe for
// concurrent use; call Update, ApplyBrush and Close from one goroutine.
type Terrain struct {
	cfg      config.TerrainConfig
	tree     *octree.Octree
	sampler  *density.Editable
	grids    *voxel.Populator
	pop      *Populator
	selector *lod.Selector
	cache    *ChunkCache
	meshPool *meshing.WorkerPool
	settings *config.RenderSettings
	log      *zap.Logger

	lastViewer      mgl32.Vec3
	hasViewer       bool
	forced          bool
	settingsVersion uint64
	moveThreshold   float32 // squared
}

// New builds a terrain over sampler, pushing meshes into store.
func New(cfg config.TerrainConfig, sampler voxel.Sampler, store MeshStore, log *zap.Logger) (*Terrain, error) {
	if log == nil {
		log = zap.NewNop()
	}
	tree, err := octree.New(cfg.TreeSize)
	if err != nil {
		return nil, err
	}

	meshWorkers := cfg.MeshWorkers
	if meshWorkers <= 0 {
		meshWorkers = max(runtime.NumCPU(), 1)
	}
	depthLimit := tree.MaxLevel() - min(cfg.BaseLevel, tree.MaxLevel())

	t := &Terrain{
		cfg:           cfg,
		tree:          tree,
		sampler:       density.NewEditable(sampler),
		grids:         voxel.NewPopulator(cfg.Workers),
		meshPool:      meshing.NewWorkerPool(meshWorkers, 4*meshWorkers),
		settings:      config.NewRenderSettings(cfg, depthLimit),
		log:           log,
		moveThreshold: cfg.UpdateDistance * cfg.UpdateDistance,
	}
	t.pop = NewPopulator(tree, t.sampler, t.grids, cfg.PopulateBudget, log)
	t.cache = NewChunkCache(store, t.meshPool, cfg.IsoLevel, log)
	_, _, t.settingsVersion = t.settings.Snapshot()
	t.selector = t.newSelector(t.settings.ViewRadius())

	log.Info("terrain created",
		zap.Int32("tree_size", cfg.TreeSize),
		zap.Uint8("base_level", cfg.BaseLevel),
		zap.Int("view_radius", t.settings.ViewRadius()),
		zap.Uint8("max_depth", t.settings.MaxDepth()),
		zap.Float32("update_distance", cfg.UpdateDistance),
		zap.Int("mesh_workers", t.meshPool.Workers()))
	return t, nil
}

func (t *Terrain) newSelector(radius int) *lod.Selector {
	return lod.NewSelector(t.tree, lod.Options{
		BaseLevel: t.cfg.BaseLevel,
		Radius:    radius,
		Factor:    t.cfg.RefineFactor,
		Workers:   t.cfg.Workers,
	})
}

// Update refreshes the displayed chunks for a viewer position. It does nothing while
// the viewer stays within the update distance of the last processed position, unless
// an edit, a settings change or an unfinished population forces it.
func (t *Terrain) Update(viewer mgl32.Vec3) UpdateStats {
	start := time.Now()
	defer profiling.Track("world.Update")()

	radius, depth, version := t.settings.Snapshot()
	if version != t.settingsVersion {
		t.settingsVersion = version
		t.forced = true
		if radius != t.selector.Options().Radius {
			t.selector = t.newSelector(radius)
		}
	}

	if t.hasViewer && !t.forced {
		d := viewer.Sub(t.lastViewer)
		if d.Dot(d) < t.moveThreshold {
			return UpdateStats{Skipped: true, Chunks: t.cache.Len()}
		}
	}
	t.lastViewer = viewer
	t.hasViewer = true
	t.forced = false

	var stats UpdateStats
	stats.Stored, stats.Complete = t.pop.Populate(t.selector, viewer, depth)
	if !stats.Complete {
		t.forced = true
	}

	keys := t.selector.Select(viewer, depth)
	stats.Selected = len(keys)

	finest := t.cfg.BaseLevel + depth
	targets := make([]Target, 0, len(keys))
	seen := make(map[octree.Key]struct{}, len(keys))
	for _, k := range keys {
		rk, level, grid, ok := t.tree.Find(k)
		if !ok {
			stats.Unresolved++
			t.log.Debug("no grid for selected key", zap.Stringer("key", k))
			continue
		}
		if _, dup := seen[rk]; dup {
			continue
		}
		seen[rk] = struct{}{}

		origin, step := latticeOf(t.tree, rk, level)
		var ring uint8
		if level < finest {
			ring = finest - level
		}
		targets = append(targets, Target{Key: rk, Level: level, Ring: ring, Grid: grid, Origin: origin, Step: step})
	}
	stats.Targets = len(targets)

	stats.Build = t.cache.Update(targets)
	if t.cfg.EvictRadius > 0 {
		stats.Evicted = t.cache.EvictFarChunks(viewer, t.cfg.EvictRadius)
	}
	stats.Chunks = t.cache.Len()
	stats.Duration = time.Since(start)

	t.log.Debug("terrain update",
		zap.Float32("x", viewer.X()), zap.Float32("y", viewer.Y()), zap.Float32("z", viewer.Z()),
		zap.Int("stored", stats.Stored),
		zap.Int("targets", stats.Targets),
		zap.Int("built", stats.Build.Built),
		zap.Int("hollow", stats.Build.Hollow),
		zap.Int("evicted", stats.Evicted),
		zap.Duration("took", stats.Duration))
	return stats
}

// ForceUpdate makes the next Update run regardless of viewer movement.
func (t *Terrain) ForceUpdate() { t.forced = true }

// ApplyBrush records an edit stroke, resamples every stored grid it touches and marks
// the matching chunks for rebuild. Returns the number of grids resampled.
func (t *Terrain) ApplyBrush(b density.Brush) int {
	defer profiling.Track("world.ApplyBrush")()
	t.sampler.Apply(b)

	lo, hi := b.Bounds()
	type node struct {
		key   octree.Key
		level uint8
	}
	var touched []node
	t.tree.Range(func(k octree.Key, n *octree.Node) bool {
		if n.Payload() == nil {
			return true
		}
		nlo, nhi := t.tree.Bounds(k, n.Level)
		if overlaps(lo, hi, nlo, nhi) {
			touched = append(touched, node{k, n.Level})
		}
		return true
	})

	for _, n := range touched {
		if err := t.pop.Resample(n.key, n.level); err != nil {
			t.log.Error("resample grid", zap.Stringer("key", n.key), zap.Error(err))
			continue
		}
		t.cache.Invalidate(n.key)
	}
	t.forced = true

	t.log.Info("brush applied",
		zap.Float32("x", b.Center.X()), zap.Float32("y", b.Center.Y()), zap.Float32("z", b.Center.Z()),
		zap.Float32("radius", b.Radius),
		zap.Bool("subtract", b.Subtract),
		zap.Int("grids", len(touched)))
	return len(touched)
}

func overlaps(aLo, aHi, bLo, bHi mgl32.Vec3) bool {
	for i := range 3 {
		if aHi[i] < bLo[i] || bHi[i] < aLo[i] {
			return false
		}
	}
	return true
}

// Settings returns the runtime-tunable LOD settings.
func (t *Terrain) Settings() *config.RenderSettings { return t.settings }

// Tree returns the octree.
func (t *Terrain) Tree() *octree.Octree { return t.tree }

// Cache returns the chunk cache.
func (t *Terrain) Cache() *ChunkCache { return t.cache }

// Sampler returns the editable density field.
func (t *Terrain) Sampler() *density.Editable { return t.sampler }

// Visible returns the chunks to draw.
func (t *Terrain) Visible() []*Chunk { return t.cache.Visible() }

// Close stops the worker pools.
func (t *Terrain) Close() {
	t.meshPool.Shutdown()
	t.grids.Close()
}
