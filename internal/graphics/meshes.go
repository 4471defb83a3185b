package graphics

import (
	"voxel-lod/internal/world"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// position(3) normal(3) ring(2)
const vertexStride = 8

type gpuMesh struct {
	vao, vbo uint32
	count    int32
	// bytes allocated for vbo; updates that fit reuse the buffer
	capacity int
}

// MeshStore uploads chunk meshes to the GPU. All methods must be called on the
// thread that owns the GL context.
type MeshStore struct {
	next   world.MeshID
	meshes map[world.MeshID]*gpuMesh
}

var (
	_ world.MeshStore    = (*MeshStore)(nil)
	_ world.MeshReleaser = (*MeshStore)(nil)
)

func NewMeshStore() *MeshStore {
	return &MeshStore{meshes: make(map[world.MeshID]*gpuMesh)}
}

func (s *MeshStore) CreateMesh(positions, normals []mgl32.Vec3, uvs []mgl32.Vec2) world.MeshID {
	m := &gpuMesh{}
	gl.GenVertexArrays(1, &m.vao)
	gl.GenBuffers(1, &m.vbo)

	gl.BindVertexArray(m.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, vertexStride*4, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, vertexStride*4, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, vertexStride*4, gl.PtrOffset(6*4))
	gl.BindVertexArray(0)

	s.upload(m, interleave(positions, normals, uvs))

	s.next++
	s.meshes[s.next] = m
	return s.next
}

func (s *MeshStore) UpdateMesh(id world.MeshID, positions, normals []mgl32.Vec3, uvs []mgl32.Vec2) {
	m, ok := s.meshes[id]
	if !ok {
		return
	}
	s.upload(m, interleave(positions, normals, uvs))
}

func (s *MeshStore) ReleaseMesh(id world.MeshID) {
	m, ok := s.meshes[id]
	if !ok {
		return
	}
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteVertexArrays(1, &m.vao)
	delete(s.meshes, id)
}

// Draw issues the draw call for one mesh. Empty meshes are skipped.
func (s *MeshStore) Draw(id world.MeshID) bool {
	m, ok := s.meshes[id]
	if !ok || m.count == 0 {
		return false
	}
	gl.BindVertexArray(m.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, m.count)
	return true
}

func (s *MeshStore) Len() int { return len(s.meshes) }

// Dispose frees every mesh.
func (s *MeshStore) Dispose() {
	for id := range s.meshes {
		s.ReleaseMesh(id)
	}
}

func (s *MeshStore) upload(m *gpuMesh, data []float32) {
	m.count = int32(len(data) / vertexStride)
	if len(data) == 0 {
		return
	}
	size := len(data) * 4
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	if size > m.capacity {
		gl.BufferData(gl.ARRAY_BUFFER, size, gl.Ptr(data), gl.DYNAMIC_DRAW)
		m.capacity = size
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, size, gl.Ptr(data))
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// interleave packs attributes into the vertex layout. Missing normals or uvs are zero.
func interleave(positions, normals []mgl32.Vec3, uvs []mgl32.Vec2) []float32 {
	out := make([]float32, 0, len(positions)*vertexStride)
	for i, p := range positions {
		var n mgl32.Vec3
		if i < len(normals) {
			n = normals[i]
		}
		var uv mgl32.Vec2
		if i < len(uvs) {
			uv = uvs[i]
		}
		out = append(out, p[0], p[1], p[2], n[0], n[1], n[2], uv[0], uv[1])
	}
	return out
}
