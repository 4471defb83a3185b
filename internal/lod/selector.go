// Package lod decides which octree nodes are drawn for a viewer position.
//
// Refinement is purely distance based: a node is split while the viewer is closer than
// sqrt(Factor) half-extents to its center and the depth budget allows it.
package lod

import (
	"math"
	"runtime"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/sync/errgroup"

	"voxel-lod/internal/octree"
)

// DefaultFactor is the squared distance, in half-extents, below which nodes refine.
const DefaultFactor = 6

// Tree is the part of the octree the selector reads.
type Tree interface {
	Contains(key octree.Key) bool
	HalfExtent(level uint8) int32
	Children(key octree.Key) ([8]octree.Key, bool)
}

// Options configure a Selector.
type Options struct {
	// BaseLevel is the level of the candidate neighbourhood. Larger is finer.
	BaseLevel uint8
	// Radius is the neighbourhood radius in base-level nodes per axis.
	Radius int
	// Factor scales the refinement distance; DefaultFactor when <= 0.
	Factor float32
	// Workers bounds the candidates walked in parallel; runtime.NumCPU when <= 0.
	Workers int
}

// Selector walks the octree from the candidate neighbourhood down to the nodes to draw.
// It only reads the tree and is safe for concurrent use while nothing writes to it.
type Selector struct {
	tree Tree
	opts Options
}

// NewSelector creates a selector over tree.
func NewSelector(tree Tree, opts Options) *Selector {
	if opts.Factor <= 0 {
		opts.Factor = DefaultFactor
	}
	if opts.Workers <= 0 {
		opts.Workers = max(runtime.NumCPU(), 1)
	}
	if opts.Radius < 0 {
		opts.Radius = 0
	}
	return &Selector{tree: tree, opts: opts}
}

// Options returns the effective options.
func (s *Selector) Options() Options { return s.opts }

// Candidates returns the base-level nodes in the [-Radius, Radius]^3 neighbourhood of the
// node containing viewer, in x, y, z order. Nodes outside the tree are skipped, and a
// viewer outside the root bounds gets no candidates.
func (s *Selector) Candidates(viewer mgl32.Vec3) []octree.Key {
	half := s.tree.HalfExtent(0)
	h := s.tree.HalfExtent(s.opts.BaseLevel)
	if h == 0 {
		return nil
	}
	for _, v := range viewer {
		// false for NaN as well
		if !(v >= float32(-half) && v < float32(half)) {
			return []octree.Key{}
		}
	}
	edge := 2 * h
	index := func(v float32) int32 {
		return floorDiv(int32(math.Floor(float64(v)))+half, edge)
	}
	ix, iy, iz := index(viewer.X()), index(viewer.Y()), index(viewer.Z())
	center := func(i int32) int32 { return -half + i*edge + h }

	r := int32(s.opts.Radius)
	out := make([]octree.Key, 0, (2*r+1)*(2*r+1)*(2*r+1))
	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			for dz := -r; dz <= r; dz++ {
				k := octree.Key{X: center(ix + dx), Y: center(iy + dy), Z: center(iz + dz)}
				if s.tree.Contains(k) {
					out = append(out, k)
				}
			}
		}
	}
	return out
}

// ShouldRefine reports whether the node at key (at level, depth below the base level)
// should be replaced by its children for a viewer at viewer.
func (s *Selector) ShouldRefine(key octree.Key, level, depth, maxDepth uint8, viewer mgl32.Vec3) bool {
	if depth >= maxDepth {
		return false
	}
	h := float32(s.tree.HalfExtent(level))
	return key.DistanceSq(viewer) < s.opts.Factor*h*h
}

// Select returns the keys to draw, at most maxDepth levels below the base level.
// A node is replaced by its children only when it should refine and has been split.
func (s *Selector) Select(viewer mgl32.Vec3, maxDepth uint8) []octree.Key {
	candidates := s.Candidates(viewer)
	parts := make([][]octree.Key, len(candidates))

	var g errgroup.Group
	g.SetLimit(s.opts.Workers)
	for i, c := range candidates {
		g.Go(func() error {
			parts[i] = s.collect(c, s.opts.BaseLevel, 0, maxDepth, viewer, nil)
			return nil
		})
	}
	_ = g.Wait()

	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]octree.Key, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func (s *Selector) collect(key octree.Key, level, depth, maxDepth uint8, viewer mgl32.Vec3, out []octree.Key) []octree.Key {
	if s.ShouldRefine(key, level, depth, maxDepth, viewer) {
		if children, ok := s.tree.Children(key); ok {
			for _, c := range children {
				out = s.collect(c, level+1, depth+1, maxDepth, viewer, out)
			}
			return out
		}
	}
	return append(out, key)
}

func floorDiv(a, b int32) int32 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
