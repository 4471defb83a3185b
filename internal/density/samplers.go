package density

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"voxel-lod/internal/voxel"
)

// Heightfield is solid below a noise-driven surface height.
type Heightfield struct {
	Noise     Noise
	Scale     float64 // world units per noise unit
	Amplitude float32 // surface varies over [Base, Base + 2*Amplitude]
	Base      float32
}

// Height returns the surface height at (x, z).
func (h Heightfield) Height(x, z float32) float32 {
	n := h.Noise.At2(float64(x)/h.Scale+0.5, float64(z)/h.Scale+0.5)
	return h.Base + h.Amplitude*float32(2*n)
}

func (h Heightfield) Density(x, y, z float32) float32 {
	return y - h.Height(x, z)
}

// Caves is 3D noise biased toward solid below BaseHeight, giving overhangs and voids.
type Caves struct {
	Noise      Noise
	Scale      float64
	BaseHeight float32
	Gradient   float32 // world units over which the altitude bias changes by 1
}

func (c Caves) Density(x, y, z float32) float32 {
	n := c.Noise.At3(float64(x)/c.Scale, float64(y)/c.Scale, float64(z)/c.Scale)*2 - 1
	bias := (c.BaseHeight - y) / c.Gradient
	return -(float32(n) + bias)
}

// HalfSpace is solid where dot(p, Normal) < Offset.
type HalfSpace struct {
	Normal mgl32.Vec3
	Offset float32
}

func (h HalfSpace) Density(x, y, z float32) float32 {
	return mgl32.Vec3{x, y, z}.Dot(h.Normal) - h.Offset
}

// Sphere is solid inside the ball.
type Sphere struct {
	Center mgl32.Vec3
	Radius float32
}

func (s Sphere) Density(x, y, z float32) float32 {
	return distance(mgl32.Vec3{x, y, z}, s.Center) - s.Radius
}

func distance(a, b mgl32.Vec3) float32 {
	d := a.Sub(b)
	return float32(math.Sqrt(float64(d.Dot(d))))
}

var (
	_ voxel.Sampler = Heightfield{}
	_ voxel.Sampler = Caves{}
	_ voxel.Sampler = HalfSpace{}
	_ voxel.Sampler = Sphere{}
	_ voxel.Sampler = (*Editable)(nil)
)
