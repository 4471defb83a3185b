package meshing

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"

	"voxel-lod/internal/octree"
	"voxel-lod/internal/voxel"
)

func sphereGrid(r float32) *voxel.Grid {
	field := sphereField(8, 8, 8, r)
	g := &voxel.Grid{}
	for x := range voxel.Samples {
		for y := range voxel.Samples {
			for z := range voxel.Samples {
				g.Set(x, y, z, field(x, y, z))
			}
		}
	}
	return g
}

func TestWorkerPoolMatchesBuild(t *testing.T) {
	pool := NewWorkerPool(3, 8)
	defer pool.Shutdown()
	if pool.Workers() != 3 {
		t.Fatalf("Workers() = %d, want 3", pool.Workers())
	}

	results := make(chan MeshResult, 4)
	jobs := []MeshJob{
		{Key: octree.Key{X: 8}, Grid: sphereGrid(3.2), ResultChan: results},
		{Key: octree.Key{Y: 8}, Grid: sphereGrid(4.7), ResultChan: results},
		{Key: octree.Key{Z: 8}, Grid: sphereGrid(6.1), ResultChan: results},
		{Key: octree.Key{X: -8}, ResultChan: results},
	}
	for _, job := range jobs {
		if !pool.SubmitJobBlocking(job) {
			t.Fatal("submit rejected")
		}
	}

	got := make(map[octree.Key]MeshResult)
	for range jobs {
		r := <-results
		got[r.Key] = r
	}
	for _, job := range jobs[:3] {
		want := Build(job)
		if diff := cmp.Diff(want.Positions, got[job.Key].Positions); diff != "" {
			t.Errorf("chunk %s positions differ:\n%s", job.Key, diff)
		}
		if len(got[job.Key].Normals) != len(want.Positions) {
			t.Errorf("chunk %s: %d normals for %d positions", job.Key, len(got[job.Key].Normals), len(want.Positions))
		}
	}
	if err := got[jobs[3].Key].Error; !errors.Is(err, ErrNilGrid) {
		t.Errorf("nil grid job error = %v, want ErrNilGrid", err)
	}
}

func TestWorkerPoolShutdown(t *testing.T) {
	pool := NewWorkerPool(2, 1)
	pool.Shutdown()
	if pool.SubmitJobBlocking(MeshJob{}) {
		t.Fatal("submit accepted after shutdown")
	}
}
