package world

import (
	"github.com/go-gl/mathgl/mgl32"

	"voxel-lod/internal/octree"
	"voxel-lod/internal/voxel"
)

// Chunk is the drawable record of one selected octree node.
type Chunk struct {
	Position octree.Key
	Level    uint8
	Ring     uint8      // 0 at the finest selected level, +1 per coarser level
	Origin   mgl32.Vec3 // world position of lattice point (0,0,0)
	Step     float32    // world units per lattice cell

	mesh      MeshID
	hasMesh   bool
	changed   bool
	hollow    bool
	disabled  bool
	triangles int
}

// NewChunk creates a chunk that still needs its first build.
func NewChunk(t Target) *Chunk {
	return &Chunk{
		Position: t.Key,
		Level:    t.Level,
		Ring:     t.Ring,
		Origin:   t.Origin,
		Step:     t.Step,
		changed:  true,
	}
}

// Mesh returns the mesh handle, if one was created.
func (c *Chunk) Mesh() (MeshID, bool) { return c.mesh, c.hasMesh }

// Changed reports whether the chunk must be rebuilt.
func (c *Chunk) Changed() bool { return c.changed }

// Hollow reports whether the last build produced no triangles.
func (c *Chunk) Hollow() bool { return c.hollow }

// Disabled reports whether the chunk was left out of the latest selection.
func (c *Chunk) Disabled() bool { return c.disabled }

// Triangles returns the triangle count of the last build.
func (c *Chunk) Triangles() int { return c.triangles }

// Visible reports whether a renderer should draw the chunk.
func (c *Chunk) Visible() bool { return !c.disabled && c.hasMesh && !c.hollow }

// Bounds returns the world-space box covered by the chunk's lattice.
func (c *Chunk) Bounds() (mgl32.Vec3, mgl32.Vec3) {
	size := c.Step * voxel.Cells
	return c.Origin, c.Origin.Add(mgl32.Vec3{size, size, size})
}

// ringUV tints vertices by LOD ring.
func ringUV(ring uint8) mgl32.Vec2 {
	switch ring {
	case 0:
		return mgl32.Vec2{0, 0}
	case 1:
		return mgl32.Vec2{1, 0}
	case 2:
		return mgl32.Vec2{1, 1}
	default:
		return mgl32.Vec2{0, 1}
	}
}
