package graphics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	minPitch    = -89
	maxPitch    = 89
	minDistance = 4
)

// Camera orbits a target point. Yaw and pitch are in degrees.
type Camera struct {
	Target   mgl32.Vec3
	Yaw      float32
	Pitch    float32
	Distance float32

	AspectRatio float32
	FOV         float32
	NearPlane   float32
	FarPlane    float32
}

func NewCamera(width, height int, fov float32) *Camera {
	return &Camera{
		Yaw:         -90,
		Pitch:       -35,
		Distance:    96,
		AspectRatio: float32(width) / float32(height),
		FOV:         fov,
		NearPlane:   0.5,
		FarPlane:    8192,
	}
}

// SetViewport updates the aspect ratio.
func (c *Camera) SetViewport(width, height int) {
	if height > 0 {
		c.AspectRatio = float32(width) / float32(height)
	}
}

// Forward is the horizontal look direction.
func (c *Camera) Forward() mgl32.Vec3 {
	yaw := mgl32.DegToRad(c.Yaw)
	return mgl32.Vec3{cos(yaw), 0, sin(yaw)}
}

// Right is perpendicular to Forward on the horizontal plane.
func (c *Camera) Right() mgl32.Vec3 {
	return c.Forward().Cross(mgl32.Vec3{0, 1, 0}).Normalize()
}

// Eye returns the camera position.
func (c *Camera) Eye() mgl32.Vec3 {
	yaw, pitch := mgl32.DegToRad(c.Yaw), mgl32.DegToRad(c.Pitch)
	dir := mgl32.Vec3{cos(yaw) * cos(pitch), sin(pitch), sin(yaw) * cos(pitch)}
	return c.Target.Sub(dir.Mul(c.Distance))
}

// Rotate changes yaw and pitch, clamping pitch short of the poles.
func (c *Camera) Rotate(dYaw, dPitch float32) {
	c.Yaw += dYaw
	c.Pitch = mgl32.Clamp(c.Pitch+dPitch, minPitch, maxPitch)
}

// Zoom scales the orbit distance.
func (c *Camera) Zoom(factor float32) {
	c.Distance *= factor
	if c.Distance < minDistance {
		c.Distance = minDistance
	}
}

func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.AspectRatio, c.NearPlane, c.FarPlane)
}

func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Eye(), c.Target, mgl32.Vec3{0, 1, 0})
}

// Frustum returns the clip planes of the current view.
func (c *Camera) Frustum() Frustum {
	return NewFrustum(c.ProjectionMatrix().Mul4(c.ViewMatrix()))
}

func cos(r float32) float32 { return float32(math.Cos(float64(r))) }
func sin(r float32) float32 { return float32(math.Sin(float64(r))) }
