package graphics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Margin added to every box before the plane test, in world units.
var frustumMargin float32 = 1.0

type plane struct{ a, b, c, d float32 }

// Frustum holds the six clip planes of a projection*view matrix, in order
// left, right, bottom, top, near, far. Normals point inward.
type Frustum struct {
	planes [6]plane
}

// NewFrustum extracts the planes from a combined clip matrix.
func NewFrustum(clip mgl32.Mat4) Frustum {
	// mgl32 is column-major: row i is clip[i], clip[i+4], clip[i+8], clip[i+12]
	row := func(i int) plane {
		return plane{clip[i], clip[i+4], clip[i+8], clip[i+12]}
	}
	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)
	add := func(p, q plane) plane { return plane{p.a + q.a, p.b + q.b, p.c + q.c, p.d + q.d} }
	sub := func(p, q plane) plane { return plane{p.a - q.a, p.b - q.b, p.c - q.c, p.d - q.d} }

	return Frustum{planes: [6]plane{
		normalizePlane(add(r3, r0)),
		normalizePlane(sub(r3, r0)),
		normalizePlane(add(r3, r1)),
		normalizePlane(sub(r3, r1)),
		normalizePlane(add(r3, r2)),
		normalizePlane(sub(r3, r2)),
	}}
}

func normalizePlane(p plane) plane {
	l := float32(math.Sqrt(float64(p.a*p.a + p.b*p.b + p.c*p.c)))
	if l == 0 {
		return p
	}
	return plane{p.a / l, p.b / l, p.c / l, p.d / l}
}

// IntersectsAABB reports whether the box is at least partly inside.
func (f Frustum) IntersectsAABB(lo, hi mgl32.Vec3) bool {
	lo = lo.Sub(mgl32.Vec3{frustumMargin, frustumMargin, frustumMargin})
	hi = hi.Add(mgl32.Vec3{frustumMargin, frustumMargin, frustumMargin})
	for _, p := range f.planes {
		// positive vertex along the plane normal
		px, py, pz := hi[0], hi[1], hi[2]
		if p.a < 0 {
			px = lo[0]
		}
		if p.b < 0 {
			py = lo[1]
		}
		if p.c < 0 {
			pz = lo[2]
		}
		if p.a*px+p.b*py+p.c*pz+p.d < 0 {
			return false
		}
	}
	return true
}
