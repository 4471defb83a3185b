package octree

import (
	"strconv"

	"github.com/go-gl/mathgl/mgl32"
)

// Key is the integer world-space center of an octree node.
type Key struct {
	X, Y, Z int32
}

// Vec3 returns the key as a float vector.
func (k Key) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{float32(k.X), float32(k.Y), float32(k.Z)}
}

// DistanceSq returns the squared distance between the key and p.
func (k Key) DistanceSq(p mgl32.Vec3) float32 {
	d := k.Vec3().Sub(p)
	return d.Dot(d)
}

func (k Key) String() string {
	return "(" + strconv.Itoa(int(k.X)) + "," + strconv.Itoa(int(k.Y)) + "," + strconv.Itoa(int(k.Z)) + ")"
}
