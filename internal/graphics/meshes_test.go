package graphics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/go-cmp/cmp"
)

func TestInterleave(t *testing.T) {
	positions := []mgl32.Vec3{{1, 2, 3}, {4, 5, 6}}
	normals := []mgl32.Vec3{{0, 1, 0}}
	uvs := []mgl32.Vec2{{1, 0}, {1, 1}}

	got := interleave(positions, normals, uvs)
	want := []float32{
		1, 2, 3, 0, 1, 0, 1, 0,
		4, 5, 6, 0, 0, 0, 1, 1,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("interleave mismatch (-want +got):\n%s", diff)
	}
	if got := interleave(nil, nil, nil); len(got) != 0 {
		t.Errorf("interleave(nil) = %v, want empty", got)
	}
}
