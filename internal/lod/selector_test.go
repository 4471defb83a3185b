package lod

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/go-cmp/cmp"

	"voxel-lod/internal/octree"
	"voxel-lod/internal/voxel"
)

func newTree(t testing.TB, size int32) *octree.Octree {
	t.Helper()
	tree, err := octree.New(size)
	if err != nil {
		t.Fatal(err)
	}
	return tree
}

var shared = &voxel.Grid{}

// splitAll stores a grid at key and at every child down to depth more levels.
func splitAll(t testing.TB, tree *octree.Octree, key octree.Key, level, depth uint8) {
	t.Helper()
	if err := tree.Store(key, shared); err != nil {
		t.Fatal(err)
	}
	if depth == 0 {
		return
	}
	for _, c := range octree.ChildKeys(key, tree.HalfExtent(level+1)) {
		splitAll(t, tree, c, level+1, depth-1)
	}
}

func TestCandidates(t *testing.T) {
	tree := newTree(t, 64)
	tests := []struct {
		name   string
		opts   Options
		viewer mgl32.Vec3
		want   []octree.Key
	}{
		{"root", Options{}, mgl32.Vec3{3, -7, 20}, []octree.Key{{}}},
		{"level 1 radius 0", Options{BaseLevel: 1}, mgl32.Vec3{0, 0, 0}, []octree.Key{{X: 16, Y: 16, Z: 16}}},
		{"negative viewer", Options{BaseLevel: 1}, mgl32.Vec3{-0.5, -0.5, 0}, []octree.Key{{X: -16, Y: -16, Z: 16}}},
		{"clipped neighbourhood", Options{BaseLevel: 1, Radius: 1}, mgl32.Vec3{0, 0, 0}, []octree.Key{
			{X: -16, Y: -16, Z: -16}, {X: -16, Y: -16, Z: 16}, {X: -16, Y: 16, Z: -16}, {X: -16, Y: 16, Z: 16},
			{X: 16, Y: -16, Z: -16}, {X: 16, Y: -16, Z: 16}, {X: 16, Y: 16, Z: -16}, {X: 16, Y: 16, Z: 16},
		}},
		{"outside tree", Options{}, mgl32.Vec3{500, 0, 0}, []octree.Key{}},
		{"on the upper bound", Options{BaseLevel: 1, Radius: 1}, mgl32.Vec3{32, 0, 0}, []octree.Key{}},
		{"just below the lower bound", Options{BaseLevel: 1, Radius: 1}, mgl32.Vec3{0, -32.5, 0}, []octree.Key{}},
		{"beyond int32", Options{BaseLevel: 1, Radius: 1}, mgl32.Vec3{0, 0, 3e9}, []octree.Key{}},
		{"far negative", Options{BaseLevel: 1, Radius: 1}, mgl32.Vec3{-1e30, 0, 0}, []octree.Key{}},
		{"nan", Options{BaseLevel: 1, Radius: 1}, mgl32.Vec3{float32(math.NaN()), 0, 0}, []octree.Key{}},
		{"lower bound is inside", Options{BaseLevel: 1}, mgl32.Vec3{-32, -32, -32}, []octree.Key{{X: -16, Y: -16, Z: -16}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewSelector(tree, tt.opts).Candidates(tt.viewer)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("Candidates mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCandidatesFullNeighbourhood(t *testing.T) {
	tree := newTree(t, 256)
	got := NewSelector(tree, Options{BaseLevel: 4, Radius: 2}).Candidates(mgl32.Vec3{0, 0, 0})
	if len(got) != 125 {
		t.Fatalf("got %d candidates, want 125", len(got))
	}
	if got[0] != (octree.Key{X: -24, Y: -24, Z: -24}) || got[124] != (octree.Key{X: 40, Y: 40, Z: 40}) {
		t.Fatalf("unexpected neighbourhood corners %s .. %s", got[0], got[124])
	}
}

func TestShouldRefineThreshold(t *testing.T) {
	tree := newTree(t, 64)
	s := NewSelector(tree, Options{Factor: 1})
	root := octree.Key{}
	if s.ShouldRefine(root, 0, 0, 1, mgl32.Vec3{32, 0, 0}) {
		t.Error("refined exactly at threshold")
	}
	if !s.ShouldRefine(root, 0, 0, 1, mgl32.Vec3{31.5, 0, 0}) {
		t.Error("did not refine inside threshold")
	}
	if s.ShouldRefine(root, 0, 1, 1, mgl32.Vec3{}) {
		t.Error("refined at max depth")
	}
	if !NewSelector(tree, Options{}).ShouldRefine(root, 0, 0, 1, mgl32.Vec3{31, 31, 31}) {
		t.Error("default factor should refine anywhere inside a root of size 64")
	}
}

func TestSelect(t *testing.T) {
	tree := newTree(t, 64)
	splitAll(t, tree, octree.Key{}, 0, 2)
	rootChildren := octree.ChildKeys(octree.Key{}, 16)

	near := NewSelector(tree, Options{})
	if got := near.Select(mgl32.Vec3{1, 1, 1}, 0); !cmp.Equal(got, []octree.Key{{}}) {
		t.Errorf("maxDepth 0 = %v, want root", got)
	}
	if diff := cmp.Diff(rootChildren[:], near.Select(mgl32.Vec3{30, 30, 30}, 1)); diff != "" {
		t.Errorf("maxDepth 1 mismatch (-want +got):\n%s", diff)
	}

	far := NewSelector(tree, Options{Factor: 1})
	if got := far.Select(mgl32.Vec3{31, 31, 31}, 4); !cmp.Equal(got, []octree.Key{{}}) {
		t.Errorf("far viewer = %v, want root", got)
	}

	// Deep budget but only two stored levels below the root: every emitted key is a leaf.
	got := near.Select(mgl32.Vec3{0, 0, 0}, 5)
	for _, k := range got {
		if _, split := tree.Children(k); split {
			t.Errorf("emitted split node %s", k)
		}
	}
	if len(got) != 64 {
		t.Errorf("got %d keys, want 64", len(got))
	}
}

func TestSelectFinerNearViewer(t *testing.T) {
	tree := newTree(t, 256)
	splitAll(t, tree, octree.Key{}, 0, 4)
	s := NewSelector(tree, Options{Factor: 2})

	levels := make(map[octree.Key]uint8)
	for _, k := range s.Select(mgl32.Vec3{100, 100, 100}, 4) {
		lvl, err := tree.Locate(k)
		if err != nil {
			t.Fatal(err)
		}
		levels[k] = lvl
	}
	nearKey, _ := tree.KeyAt(4, 100, 100, 100)
	if levels[nearKey] != 4 {
		t.Fatalf("node containing the viewer not at finest level: %v", levels[nearKey])
	}
	if lvl, ok := levels[octree.Key{X: -64, Y: -64, Z: -64}]; !ok || lvl != 1 {
		t.Fatalf("far octant level = %d, %v; want coarse level 1", lvl, ok)
	}
}

func TestSelectDeterministicAcrossWorkers(t *testing.T) {
	tree := newTree(t, 256)
	rng := rand.New(rand.NewSource(3))
	for range 400 {
		key, _ := tree.KeyAt(uint8(1+rng.Intn(5)), int32(rng.Intn(256)-128), int32(rng.Intn(256)-128), int32(rng.Intn(256)-128))
		if err := tree.Store(key, shared); err != nil {
			t.Fatal(err)
		}
	}
	viewer := mgl32.Vec3{12, -40, 7}
	want := NewSelector(tree, Options{BaseLevel: 2, Radius: 1, Workers: 1}).Select(viewer, 4)
	for _, workers := range []int{2, 8} {
		got := NewSelector(tree, Options{BaseLevel: 2, Radius: 1, Workers: workers}).Select(viewer, 4)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("workers=%d output differs:\n%s", workers, diff)
		}
	}
}

func BenchmarkSelect(b *testing.B) {
	tree := newTree(b, 256)
	splitAll(b, tree, octree.Key{}, 0, 4)
	s := NewSelector(tree, Options{BaseLevel: 1, Radius: 1})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.Select(mgl32.Vec3{float32(i % 100), 0, 0}, 3)
	}
}
