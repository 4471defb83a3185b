package world

import (
	"sort"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"voxel-lod/internal/meshing"
	"voxel-lod/internal/octree"
	"voxel-lod/internal/profiling"
	"voxel-lod/internal/voxel"
)

// Target is one resolved node the cache must show this tick.
type Target struct {
	Key    octree.Key
	Level  uint8
	Ring   uint8
	Grid   *voxel.Grid
	Origin mgl32.Vec3
	Step   float32
}

// BuildStats counts the work done by one cache update.
type BuildStats struct {
	Created int // new chunk records
	Built   int // polygonizations that produced a mesh
	Hollow  int // chunks found empty, with or without polygonizing
	Failed  int
}

// ChunkCache keeps one Chunk per displayed node and reconciles it with each selection.
type ChunkCache struct {
	mu     sync.RWMutex
	chunks map[octree.Key]*Chunk

	store    MeshStore
	pool     *meshing.WorkerPool // nil builds on the calling goroutine
	isoLevel float32
	log      *zap.Logger
}

// NewChunkCache creates an empty cache pushing meshes into store.
func NewChunkCache(store MeshStore, pool *meshing.WorkerPool, isoLevel float32, log *zap.Logger) *ChunkCache {
	if log == nil {
		log = zap.NewNop()
	}
	return &ChunkCache{
		chunks:   make(map[octree.Key]*Chunk),
		store:    store,
		pool:     pool,
		isoLevel: isoLevel,
		log:      log,
	}
}

// Update disables every chunk, builds the changed non-hollow targets and re-enables the
// targets. Mesh store calls happen on the calling goroutine.
func (cc *ChunkCache) Update(targets []Target) BuildStats {
	defer profiling.Track("world.ChunkCache.Update")()
	cc.mu.Lock()
	defer cc.mu.Unlock()

	var stats BuildStats
	for _, c := range cc.chunks {
		c.disabled = true
	}

	var jobs []meshing.MeshJob
	grids := make(map[octree.Key]*voxel.Grid)
	for _, t := range targets {
		c, ok := cc.chunks[t.Key]
		if !ok {
			c = NewChunk(t)
			cc.chunks[t.Key] = c
			stats.Created++
		}
		if c.Ring != t.Ring {
			c.Ring = t.Ring
			if !c.hollow {
				c.changed = true
			}
		}
		if c.changed && !c.hollow {
			if t.Grid != nil && !t.Grid.Crosses(cc.isoLevel) {
				cc.apply(c, meshing.MeshResult{Key: t.Key})
				stats.Hollow++
				continue
			}
			if _, queued := grids[t.Key]; !queued {
				grids[t.Key] = t.Grid
				jobs = append(jobs, meshing.MeshJob{Key: t.Key, Grid: t.Grid, IsoLevel: cc.isoLevel})
			}
		}
	}

	for _, r := range cc.polygonize(jobs) {
		c := cc.chunks[r.Key]
		if r.Error != nil {
			stats.Failed++
			cc.log.Warn("chunk build failed", zap.Stringer("key", r.Key), zap.Error(r.Error))
			continue
		}
		cc.apply(c, r)
		if c.hollow {
			stats.Hollow++
		} else {
			stats.Built++
		}
	}

	for _, t := range targets {
		cc.chunks[t.Key].disabled = false
	}
	return stats
}

func (cc *ChunkCache) polygonize(jobs []meshing.MeshJob) []meshing.MeshResult {
	if len(jobs) == 0 {
		return nil
	}
	defer profiling.Track("world.ChunkCache.polygonize")()
	results := make([]meshing.MeshResult, 0, len(jobs))
	if cc.pool == nil || len(jobs) < 2 {
		for _, j := range jobs {
			results = append(results, meshing.Build(j))
		}
		return results
	}

	resultChan := make(chan meshing.MeshResult, len(jobs))
	submitted := 0
	for _, j := range jobs {
		j.ResultChan = resultChan
		if !cc.pool.SubmitJobBlocking(j) {
			results = append(results, meshing.Build(j))
			continue
		}
		submitted++
	}
	for range submitted {
		results = append(results, <-resultChan)
	}
	return results
}

// apply converts a lattice-space result to world space and hands it to the mesh store.
func (cc *ChunkCache) apply(c *Chunk, r meshing.MeshResult) {
	c.changed = false
	c.triangles = len(r.Positions) / 3
	if c.triangles == 0 {
		c.hollow = true
		if c.hasMesh {
			cc.store.UpdateMesh(c.mesh, nil, nil, nil)
		}
		return
	}

	positions := make([]mgl32.Vec3, len(r.Positions))
	for i, p := range r.Positions {
		positions[i] = c.Origin.Add(p.Mul(c.Step))
	}
	uvs := make([]mgl32.Vec2, len(positions))
	tint := ringUV(c.Ring)
	for i := range uvs {
		uvs[i] = tint
	}

	if c.hasMesh {
		cc.store.UpdateMesh(c.mesh, positions, r.Normals, uvs)
		return
	}
	c.mesh = cc.store.CreateMesh(positions, r.Normals, uvs)
	c.hasMesh = true
}

// Invalidate marks the chunk at key for rebuild after its grid was replaced.
func (cc *ChunkCache) Invalidate(key octree.Key) bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	c, ok := cc.chunks[key]
	if !ok {
		return false
	}
	c.changed = true
	c.hollow = false
	return true
}

// Get returns the chunk at key.
func (cc *ChunkCache) Get(key octree.Key) (*Chunk, bool) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	c, ok := cc.chunks[key]
	return c, ok
}

// Len returns the number of chunk records.
func (cc *ChunkCache) Len() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return len(cc.chunks)
}

// Chunks returns every chunk record ordered by key.
func (cc *ChunkCache) Chunks() []*Chunk {
	return cc.collect(func(*Chunk) bool { return true })
}

// Visible returns the chunks a renderer should draw, ordered by key.
func (cc *ChunkCache) Visible() []*Chunk {
	return cc.collect((*Chunk).Visible)
}

func (cc *ChunkCache) collect(keep func(*Chunk) bool) []*Chunk {
	cc.mu.RLock()
	out := make([]*Chunk, 0, len(cc.chunks))
	for _, c := range cc.chunks {
		if keep(c) {
			out = append(out, c)
		}
	}
	cc.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return keyLess(out[i].Position, out[j].Position) })
	return out
}

// EvictFarChunks removes disabled chunks farther than radius from viewer and releases
// their meshes. Returns number of removed chunks.
func (cc *ChunkCache) EvictFarChunks(viewer mgl32.Vec3, radius float32) int {
	defer profiling.Track("world.EvictFarChunks")()
	releaser, _ := cc.store.(MeshReleaser)
	removed := 0
	cc.mu.Lock()
	for key, c := range cc.chunks {
		if !c.disabled || key.DistanceSq(viewer) <= radius*radius {
			continue
		}
		if c.hasMesh && releaser != nil {
			releaser.ReleaseMesh(c.mesh)
		}
		delete(cc.chunks, key)
		removed++
	}
	cc.mu.Unlock()
	return removed
}

func keyLess(a, b octree.Key) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.Z < b.Z
}
