package density

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"voxel-lod/internal/voxel"
)

// Brush is one spherical edit stroke.
type Brush struct {
	Center   mgl32.Vec3
	Radius   float32
	Subtract bool // carve instead of add
}

// Bounds returns the axis-aligned box enclosing the stroke.
func (b Brush) Bounds() (mgl32.Vec3, mgl32.Vec3) {
	r := mgl32.Vec3{b.Radius, b.Radius, b.Radius}
	return b.Center.Sub(r), b.Center.Add(r)
}

// apply folds the stroke into a density value.
func (b Brush) apply(p mgl32.Vec3, v float32) float32 {
	d := distance(p, b.Center)
	if b.Subtract {
		return max(v, b.Radius-d)
	}
	return min(v, d-b.Radius)
}

// Editable layers brush strokes over a base sampler in application order.
// Density is safe for concurrent use with Apply.
type Editable struct {
	base voxel.Sampler

	mu      sync.RWMutex
	strokes []Brush
}

// NewEditable wraps base.
func NewEditable(base voxel.Sampler) *Editable {
	return &Editable{base: base}
}

// Apply records a stroke.
func (e *Editable) Apply(b Brush) {
	e.mu.Lock()
	e.strokes = append(e.strokes, b)
	e.mu.Unlock()
}

// Strokes returns a copy of the recorded strokes.
func (e *Editable) Strokes() []Brush {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]Brush(nil), e.strokes...)
}

// Reset drops every stroke.
func (e *Editable) Reset() {
	e.mu.Lock()
	e.strokes = nil
	e.mu.Unlock()
}

func (e *Editable) Density(x, y, z float32) float32 {
	v := e.base.Density(x, y, z)
	e.mu.RLock()
	defer e.mu.RUnlock()
	if len(e.strokes) == 0 {
		return v
	}
	p := mgl32.Vec3{x, y, z}
	for _, b := range e.strokes {
		v = b.apply(p, v)
	}
	return v
}
