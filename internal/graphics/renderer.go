package graphics

import (
	"voxel-lod/internal/profiling"
	"voxel-lod/internal/world"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

var lightDir = mgl32.Vec3{-0.4, -1, -0.3}

// FrameStats describes one rendered frame.
type FrameStats struct {
	Visible int
	Culled  int
	Drawn   int
}

// Renderer draws visible chunks from a MeshStore.
type Renderer struct {
	shader *Shader
	meshes *MeshStore
	camera *Camera

	TintRings bool
	Wireframe bool
}

// NewRenderer compiles the terrain program. A GL context must be current.
func NewRenderer(meshes *MeshStore, camera *Camera) (*Renderer, error) {
	shader, err := NewTerrainShader()
	if err != nil {
		return nil, err
	}
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)
	gl.ClearColor(0.53, 0.71, 0.86, 1)
	return &Renderer{shader: shader, meshes: meshes, camera: camera, TintRings: true}, nil
}

func (r *Renderer) SetViewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	r.camera.SetViewport(width, height)
}

// Render clears the frame and draws every chunk inside the view frustum.
func (r *Renderer) Render(chunks []*world.Chunk) FrameStats {
	defer profiling.Track("render.frame")()

	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	if r.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}

	r.shader.Use()
	r.shader.SetMat4("proj", r.camera.ProjectionMatrix())
	r.shader.SetMat4("view", r.camera.ViewMatrix())
	r.shader.SetVec3("lightDir", lightDir)
	r.shader.SetBool("tintRings", r.TintRings)

	frustum := r.camera.Frustum()
	stats := FrameStats{Visible: len(chunks)}
	for _, c := range chunks {
		lo, hi := c.Bounds()
		if !frustum.IntersectsAABB(lo, hi) {
			stats.Culled++
			continue
		}
		id, ok := c.Mesh()
		if ok && r.meshes.Draw(id) {
			stats.Drawn++
		}
	}
	gl.BindVertexArray(0)
	return stats
}

func (r *Renderer) Dispose() {
	r.shader.Delete()
}
