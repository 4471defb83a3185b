// Package octree is a sparse voxel octree keyed by integer node centers.
//
// Nodes are created top-down on demand. The tree has no internal locking: all Store calls
// must come from one goroutine, and reads may run concurrently only while no Store is in
// flight.
package octree

import (
	"math/bits"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"voxel-lod/internal/voxel"
)

var (
	ErrInvalidSize   = errors.New("octree size must be a power of two >= 2")
	ErrOutOfBounds   = errors.New("key outside octree bounds")
	ErrNotNodeCenter = errors.New("key is not the center of an octree node")
)

// Node is one cube of the tree. A node may carry a payload and children at the same time.
type Node struct {
	Level uint8

	children [8]Key
	split    bool
	payload  *voxel.Grid
}

// Children returns the child keys in canonical order, if the node has been split.
func (n *Node) Children() ([8]Key, bool) {
	return n.children, n.split
}

// Payload returns the grid stored at this node, or nil.
func (n *Node) Payload() *voxel.Grid {
	return n.payload
}

// Octree maps node centers to nodes.
type Octree struct {
	size  int32
	half  int32
	nodes map[Key]*Node
}

// New creates a tree spanning [-size/2, size/2) on every axis, with an empty root.
func New(size int32) (*Octree, error) {
	if size < 2 || size&(size-1) != 0 {
		return nil, errors.Wrapf(ErrInvalidSize, "size %d", size)
	}
	t := &Octree{
		size:  size,
		half:  size / 2,
		nodes: make(map[Key]*Node),
	}
	t.nodes[Key{}] = &Node{}
	return t, nil
}

// Size returns the number of nodes, the root included.
func (t *Octree) Size() int { return len(t.nodes) }

// MaxLevel returns the deepest level whose half-extent is still at least 1.
func (t *Octree) MaxLevel() uint8 {
	return uint8(bits.Len32(uint32(t.size)) - 2)
}

// HalfExtent returns the half edge length of nodes at level.
func (t *Octree) HalfExtent(level uint8) int32 {
	if level >= 31 {
		return 0
	}
	return t.size >> (level + 1)
}

// Contains reports whether key lies inside the root cube.
func (t *Octree) Contains(key Key) bool {
	return key.X >= -t.half && key.X < t.half &&
		key.Y >= -t.half && key.Y < t.half &&
		key.Z >= -t.half && key.Z < t.half
}

// Locate returns the level of the node centered at key.
func (t *Octree) Locate(key Key) (uint8, error) {
	if !t.Contains(key) {
		return 0, errors.Wrapf(ErrOutOfBounds, "key %s, size %d", key, t.size)
	}
	center := Key{}
	h := t.half
	var level uint8
	for center != key {
		if h < 2 {
			return 0, errors.Wrapf(ErrNotNodeCenter, "key %s", key)
		}
		h /= 2
		center = childToward(center, h, key)
		level++
	}
	return level, nil
}

// KeyAt returns the center of the level node containing the point (x, y, z).
func (t *Octree) KeyAt(level uint8, x, y, z int32) (Key, bool) {
	if level > t.MaxLevel() || !t.Contains(Key{x, y, z}) {
		return Key{}, false
	}
	edge := t.size >> level
	snap := func(p int32) int32 {
		// p + half is never negative here so truncating division is floor division
		i := (p + t.half) / edge
		return -t.half + i*edge + edge/2
	}
	return Key{snap(x), snap(y), snap(z)}, true
}

// Bounds returns the min and max corners of the node at key, given its level.
func (t *Octree) Bounds(key Key, level uint8) (mgl32.Vec3, mgl32.Vec3) {
	h := float32(t.HalfExtent(level))
	c := key.Vec3()
	return c.Sub(mgl32.Vec3{h, h, h}), c.Add(mgl32.Vec3{h, h, h})
}

// Store places grid at key, creating and splitting nodes along the path as needed.
// Overwriting an existing payload does not create nodes.
func (t *Octree) Store(key Key, grid *voxel.Grid) error {
	if _, err := t.Locate(key); err != nil {
		return err
	}

	node := t.nodes[Key{}]
	center := Key{}
	h := t.half
	var level uint8
	for center != key {
		h /= 2
		if !node.split {
			node.children = ChildKeys(center, h)
			node.split = true
		}
		next := node.children[cornerOf(center, key)]
		level++
		child, ok := t.nodes[next]
		if !ok {
			child = &Node{Level: level}
			t.nodes[next] = child
		}
		node, center = child, next
	}
	node.payload = grid
	return nil
}

// Load returns the payload stored exactly at key.
func (t *Octree) Load(key Key) (*voxel.Grid, bool) {
	n, ok := t.nodes[key]
	if !ok || n.payload == nil {
		return nil, false
	}
	return n.payload, true
}

// Find returns the payload at key or, failing that, the deepest payload on the path from
// the root toward key. The returned key and level identify the node that owns the grid.
func (t *Octree) Find(key Key) (Key, uint8, *voxel.Grid, bool) {
	if n, ok := t.nodes[key]; ok && n.payload != nil {
		return key, n.Level, n.payload, true
	}
	if !t.Contains(key) {
		return Key{}, 0, nil, false
	}

	var (
		bestKey   Key
		bestLevel uint8
		best      *voxel.Grid
	)
	center := Key{}
	for {
		n, ok := t.nodes[center]
		if !ok {
			break
		}
		if n.payload != nil {
			bestKey, bestLevel, best = center, n.Level, n.payload
		}
		if center == key || !n.split {
			break
		}
		center = n.children[cornerOf(center, key)]
	}
	return bestKey, bestLevel, best, best != nil
}

// Children returns the child keys of the node at key if it exists and has been split.
func (t *Octree) Children(key Key) ([8]Key, bool) {
	n, ok := t.nodes[key]
	if !ok {
		return [8]Key{}, false
	}
	return n.Children()
}

// Range calls fn for every node until fn returns false. Order is unspecified.
func (t *Octree) Range(fn func(Key, *Node) bool) {
	for k, n := range t.nodes {
		if !fn(k, n) {
			return
		}
	}
}
