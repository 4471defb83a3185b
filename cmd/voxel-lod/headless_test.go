package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap/zaptest"

	"voxel-lod/internal/config"
	"voxel-lod/internal/density"
	"voxel-lod/internal/world"
)

func TestWriteOBJMergesVisibleChunks(t *testing.T) {
	cfg := config.TerrainConfig{
		TreeSize:       64,
		MaxDepth:       1,
		RefineFactor:   6,
		UpdateDistance: 8,
		Workers:        2,
		MeshWorkers:    2,
	}
	store := world.NewMemoryMeshStore()
	terrain, err := world.New(cfg, density.HalfSpace{Normal: mgl32.Vec3{0, 1, 0}}, store, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("world.New: %v", err)
	}
	defer terrain.Close()
	terrain.Update(mgl32.Vec3{})

	visible := terrain.Visible()
	if len(visible) < 2 {
		t.Fatalf("got %d visible chunks, want several", len(visible))
	}
	triangles := 0
	for _, c := range visible {
		triangles += c.Triangles()
	}

	path := filepath.Join(t.TempDir(), "terrain.obj")
	if err := writeOBJ(path, terrain, store); err != nil {
		t.Fatalf("writeOBJ: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var objects, faces int
	for _, line := range strings.Split(string(data), "\n") {
		switch {
		case strings.HasPrefix(line, "o "):
			objects++
			if line != "o terrain" {
				t.Errorf("object line %q, want %q", line, "o terrain")
			}
		case strings.HasPrefix(line, "f "):
			faces++
		}
	}
	if objects != 1 {
		t.Errorf("got %d objects, want 1", objects)
	}
	if faces != triangles {
		t.Errorf("got %d faces, want %d", faces, triangles)
	}
}
