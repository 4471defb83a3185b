package world

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap/zaptest"

	"voxel-lod/internal/config"
	"voxel-lod/internal/density"
	"voxel-lod/internal/octree"
	"voxel-lod/internal/voxel"
)

func testConfig(size int32, base uint8, radius int, depth uint8) config.TerrainConfig {
	return config.TerrainConfig{
		TreeSize:       size,
		BaseLevel:      base,
		ViewRadius:     radius,
		MaxDepth:       depth,
		RefineFactor:   6,
		UpdateDistance: 8,
		Workers:        2,
		MeshWorkers:    2,
	}
}

func newTerrain(t *testing.T, cfg config.TerrainConfig, s voxel.Sampler) (*Terrain, *MemoryMeshStore) {
	t.Helper()
	store := NewMemoryMeshStore()
	terrain, err := New(cfg, s, store, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(terrain.Close)
	return terrain, store
}

var ground = density.HalfSpace{Normal: mgl32.Vec3{0, 1, 0}}

func meshOf(t *testing.T, store *MemoryMeshStore, c *Chunk) *Mesh {
	t.Helper()
	id, ok := c.Mesh()
	if !ok {
		t.Fatalf("chunk %s has no mesh", c.Position)
	}
	m, ok := store.Mesh(id)
	if !ok {
		t.Fatalf("mesh %d missing from store", id)
	}
	return m
}

func TestHalfSpaceRootChunk(t *testing.T) {
	terrain, store := newTerrain(t, testConfig(64, 0, 0, 0), ground)

	stats := terrain.Update(mgl32.Vec3{0, 0, 0})
	if stats.Skipped || stats.Targets != 1 || stats.Build.Built != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	visible := terrain.Visible()
	if len(visible) != 1 || visible[0].Position != (octree.Key{}) {
		t.Fatalf("visible = %v, want only the root chunk", visible)
	}

	m := meshOf(t, store, visible[0])
	if m.Triangles() != 16*16*2 {
		t.Fatalf("got %d triangles, want %d", m.Triangles(), 16*16*2)
	}
	for i, p := range m.Positions {
		if p.Y() != 0 {
			t.Fatalf("vertex %d at %v, want y=0", i, p)
		}
		if p.X() < -32 || p.X() > 32 || p.Z() < -32 || p.Z() > 32 {
			t.Fatalf("vertex %d at %v outside the chunk", i, p)
		}
	}
	for i, n := range m.Normals {
		if n.Y() < 0.999 {
			t.Fatalf("normal %d = %v, want +y", i, n)
		}
	}
	for i, uv := range m.UVs {
		if uv != (mgl32.Vec2{0, 0}) {
			t.Fatalf("uv %d = %v, want ring 0 tint", i, uv)
		}
	}
}

func TestHalfSpaceRefined(t *testing.T) {
	terrain, store := newTerrain(t, testConfig(64, 0, 0, 1), ground)

	stats := terrain.Update(mgl32.Vec3{0, 0, 0})
	if stats.Targets != 8 || stats.Build.Built != 4 || stats.Build.Hollow != 4 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	visible := terrain.Visible()
	if len(visible) != 4 {
		t.Fatalf("got %d visible chunks, want 4", len(visible))
	}
	for _, c := range visible {
		if c.Position.Y != -16 || c.Level != 1 || c.Ring != 0 {
			t.Errorf("visible chunk %s level %d ring %d", c.Position, c.Level, c.Ring)
		}
		for _, p := range meshOf(t, store, c).Positions {
			if p.Y() != 0 {
				t.Fatalf("chunk %s vertex at %v, want y=0", c.Position, p)
			}
		}
	}
}

func TestMoveBelowThresholdSkips(t *testing.T) {
	terrain, store := newTerrain(t, testConfig(64, 0, 0, 0), ground)

	terrain.Update(mgl32.Vec3{0, 0, 0})
	creates, updates, _ := store.Counts()

	if stats := terrain.Update(mgl32.Vec3{3, 0, 4}); !stats.Skipped {
		t.Fatalf("move of 5 units was not skipped: %+v", stats)
	}
	stats := terrain.Update(mgl32.Vec3{9, 0, 0})
	if stats.Skipped {
		t.Fatal("move of 9 units was skipped")
	}
	if stats.Build.Created != 0 || stats.Build.Built != 0 {
		t.Fatalf("moving rebuilt chunks: %+v", stats.Build)
	}
	if c, u, _ := store.Counts(); c != creates || u != updates {
		t.Fatalf("mesh store touched by move: creates %d->%d updates %d->%d", creates, c, updates, u)
	}
}

func TestBrushRebuildsChunk(t *testing.T) {
	terrain, store := newTerrain(t, testConfig(64, 0, 0, 0), ground)
	terrain.Update(mgl32.Vec3{0, 0, 0})
	root, _ := terrain.Cache().Get(octree.Key{})
	id, _ := root.Mesh()
	before := root.Triangles()

	n := terrain.ApplyBrush(density.Brush{Center: mgl32.Vec3{0, 10, 0}, Radius: 5})
	if n != 1 {
		t.Fatalf("brush resampled %d grids, want 1", n)
	}
	if !root.Changed() {
		t.Fatal("brush did not invalidate the chunk")
	}

	stats := terrain.Update(mgl32.Vec3{0, 0, 0})
	if stats.Skipped || stats.Build.Built != 1 {
		t.Fatalf("forced update stats %+v", stats)
	}
	if got, _ := root.Mesh(); got != id {
		t.Fatalf("mesh id changed from %d to %d", id, got)
	}
	if _, updates, _ := store.Counts(); updates != 1 {
		t.Fatalf("UpdateMesh called %d times, want 1", updates)
	}
	if root.Triangles() <= before {
		t.Fatalf("added sphere did not grow the surface: %d -> %d triangles", before, root.Triangles())
	}
}

func TestHollowChunk(t *testing.T) {
	air := density.HalfSpace{Normal: mgl32.Vec3{0, 1, 0}, Offset: -100}
	terrain, store := newTerrain(t, testConfig(64, 0, 0, 0), air)

	stats := terrain.Update(mgl32.Vec3{0, 0, 0})
	if stats.Build.Hollow != 1 || stats.Build.Built != 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	c, ok := terrain.Cache().Get(octree.Key{})
	if !ok || !c.Hollow() || c.Changed() || c.Disabled() {
		t.Fatalf("root chunk state: %+v", c)
	}
	if len(terrain.Visible()) != 0 || store.Len() != 0 {
		t.Fatal("hollow chunk produced a mesh")
	}

	terrain.ForceUpdate()
	if stats := terrain.Update(mgl32.Vec3{0, 0, 0}); stats.Build.Hollow != 0 {
		t.Fatalf("hollow chunk polygonized again: %+v", stats.Build)
	}
}

func TestEvictFarChunks(t *testing.T) {
	cfg := testConfig(256, 2, 0, 0)
	cfg.EvictRadius = 100
	shelf := density.HalfSpace{Normal: mgl32.Vec3{0, 1, 0}, Offset: 40}
	terrain, store := newTerrain(t, cfg, shelf)

	terrain.Update(mgl32.Vec3{0, 0, 0})
	if _, ok := terrain.Cache().Get(octree.Key{X: 32, Y: 32, Z: 32}); !ok || store.Len() != 1 {
		t.Fatalf("first chunk not built, store has %d meshes", store.Len())
	}

	stats := terrain.Update(mgl32.Vec3{-100, 0, 0})
	if stats.Evicted != 1 {
		t.Fatalf("evicted %d chunks, want 1", stats.Evicted)
	}
	if _, ok := terrain.Cache().Get(octree.Key{X: 32, Y: 32, Z: 32}); ok {
		t.Fatal("far chunk still cached")
	}
	if _, ok := terrain.Cache().Get(octree.Key{X: -96, Y: 32, Z: 32}); !ok {
		t.Fatal("new chunk missing")
	}
	if _, _, releases := store.Counts(); releases != 1 {
		t.Fatalf("released %d meshes, want 1", releases)
	}
}

func TestEvictionDisabledByDefault(t *testing.T) {
	terrain, _ := newTerrain(t, testConfig(256, 2, 0, 0), ground)
	terrain.Update(mgl32.Vec3{0, 0, 0})
	stats := terrain.Update(mgl32.Vec3{-100, 0, 0})
	if stats.Evicted != 0 || stats.Chunks != 2 {
		t.Fatalf("stats %+v, want both chunks kept", stats)
	}
	old, _ := terrain.Cache().Get(octree.Key{X: 32, Y: 32, Z: 32})
	if !old.Disabled() {
		t.Fatal("unselected chunk not disabled")
	}
}

func TestPopulateBudget(t *testing.T) {
	cfg := testConfig(64, 1, 1, 0)
	cfg.PopulateBudget = 3
	terrain, _ := newTerrain(t, cfg, ground)
	viewer := mgl32.Vec3{0, 0, 0}

	stats := terrain.Update(viewer)
	if stats.Stored != 3 || stats.Complete || stats.Unresolved != 5 || stats.Targets != 3 {
		t.Fatalf("first update %+v", stats)
	}
	stats = terrain.Update(viewer)
	if stats.Skipped || stats.Stored != 3 {
		t.Fatalf("second update %+v", stats)
	}
	stats = terrain.Update(viewer)
	if stats.Stored != 2 || !stats.Complete || stats.Targets != 8 {
		t.Fatalf("third update %+v", stats)
	}
	if stats := terrain.Update(viewer); !stats.Skipped {
		t.Fatalf("complete terrain did not skip: %+v", stats)
	}
}

func TestPartialSplitFallsBackToParent(t *testing.T) {
	cfg := testConfig(64, 0, 0, 1)
	cfg.PopulateBudget = 3
	terrain, _ := newTerrain(t, cfg, ground)

	stats := terrain.Update(mgl32.Vec3{0, 0, 0})
	if stats.Selected != 8 || stats.Unresolved != 0 || stats.Targets != 3 {
		t.Fatalf("stats %+v", stats)
	}
	root, ok := terrain.Cache().Get(octree.Key{})
	if !ok || root.Ring != 1 {
		t.Fatalf("root chunk missing or wrong ring: %+v", root)
	}
	for _, k := range []octree.Key{{X: -16, Y: 16, Z: -16}, {X: 16, Y: 16, Z: -16}} {
		if _, ok := terrain.Cache().Get(k); !ok {
			t.Errorf("child %s not cached", k)
		}
	}
}

func TestSettingsChangeForcesUpdate(t *testing.T) {
	terrain, _ := newTerrain(t, testConfig(64, 0, 0, 0), ground)
	terrain.Update(mgl32.Vec3{0, 0, 0})

	terrain.Settings().SetMaxDepth(1)
	stats := terrain.Update(mgl32.Vec3{0, 0, 0})
	if stats.Skipped || stats.Targets != 8 {
		t.Fatalf("stats after depth change %+v", stats)
	}
	root, _ := terrain.Cache().Get(octree.Key{})
	if !root.Disabled() {
		t.Fatal("coarse root still enabled after refinement")
	}
}

func TestNewRejectsBadTree(t *testing.T) {
	if _, err := New(testConfig(100, 0, 0, 0), ground, NewMemoryMeshStore(), nil); err == nil {
		t.Fatal("expected error for non power of two tree")
	}
}

func BenchmarkTerrainUpdate(b *testing.B) {
	cfg := testConfig(1024, 3, 1, 2)
	cfg.UpdateDistance = 0
	terrain, err := New(cfg, density.Heightfield{Noise: density.DefaultNoise(1), Scale: 64, Amplitude: 16}, NewMemoryMeshStore(), nil)
	if err != nil {
		b.Fatal(err)
	}
	defer terrain.Close()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		terrain.Update(mgl32.Vec3{float32(i%256) - 128, 8, 0})
	}
}
