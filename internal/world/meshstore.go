package world

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// MeshID is a stable handle to a mesh owned by a MeshStore.
type MeshID uint64

// MeshStore receives chunk surfaces. Positions are world space, three per triangle;
// normals and uvs match positions one to one. A mesh keeps its id across updates.
type MeshStore interface {
	CreateMesh(positions, normals []mgl32.Vec3, uvs []mgl32.Vec2) MeshID
	UpdateMesh(id MeshID, positions, normals []mgl32.Vec3, uvs []mgl32.Vec2)
}

// MeshReleaser is implemented by stores that free meshes of evicted chunks.
type MeshReleaser interface {
	ReleaseMesh(id MeshID)
}

// Mesh is a surface held by MemoryMeshStore.
type Mesh struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	UVs       []mgl32.Vec2
}

// Triangles returns the triangle count.
func (m *Mesh) Triangles() int { return len(m.Positions) / 3 }

// MemoryMeshStore keeps meshes in memory. Used headless and for OBJ export.
type MemoryMeshStore struct {
	mu     sync.RWMutex
	next   MeshID
	meshes map[MeshID]*Mesh

	creates, updates, releases int
}

// NewMemoryMeshStore creates an empty store.
func NewMemoryMeshStore() *MemoryMeshStore {
	return &MemoryMeshStore{meshes: make(map[MeshID]*Mesh)}
}

func (s *MemoryMeshStore) CreateMesh(positions, normals []mgl32.Vec3, uvs []mgl32.Vec2) MeshID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	s.meshes[s.next] = &Mesh{Positions: positions, Normals: normals, UVs: uvs}
	s.creates++
	return s.next
}

func (s *MemoryMeshStore) UpdateMesh(id MeshID, positions, normals []mgl32.Vec3, uvs []mgl32.Vec2) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.meshes[id]; ok {
		m.Positions, m.Normals, m.UVs = positions, normals, uvs
		s.updates++
	}
}

func (s *MemoryMeshStore) ReleaseMesh(id MeshID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.meshes[id]; ok {
		delete(s.meshes, id)
		s.releases++
	}
}

// Mesh returns the mesh with the given id.
func (s *MemoryMeshStore) Mesh(id MeshID) (*Mesh, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.meshes[id]
	return m, ok
}

// Len returns the number of live meshes.
func (s *MemoryMeshStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.meshes)
}

// Counts returns how many meshes were created, updated and released.
func (s *MemoryMeshStore) Counts() (creates, updates, releases int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creates, s.updates, s.releases
}
