package world

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"voxel-lod/internal/lod"
	"voxel-lod/internal/octree"
	"voxel-lod/internal/profiling"
	"voxel-lod/internal/voxel"
)

// Populator stores the grids a selection will need, coarse levels first.
type Populator struct {
	tree    *octree.Octree
	sampler voxel.Sampler
	grids   *voxel.Populator
	budget  int // grids per call, 0 = unlimited
	log     *zap.Logger
}

// NewPopulator creates a populator writing into tree.
func NewPopulator(tree *octree.Octree, sampler voxel.Sampler, grids *voxel.Populator, budget int, log *zap.Logger) *Populator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Populator{tree: tree, sampler: sampler, grids: grids, budget: budget, log: log}
}

type pending struct {
	key          octree.Key
	level, depth uint8
}

// Populate walks the selection breadth first from the candidates of sel, storing a grid
// at every visited node that lacks one. Refined nodes enqueue all 8 children together.
// It returns the number of grids stored and false if the budget ran out first.
func (p *Populator) Populate(sel *lod.Selector, viewer mgl32.Vec3, maxDepth uint8) (int, bool) {
	defer profiling.Track("world.Populate")()

	base := sel.Options().BaseLevel
	var queue []pending
	for _, k := range sel.Candidates(viewer) {
		queue = append(queue, pending{key: k, level: base})
	}

	stored := 0
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]

		if _, ok := p.tree.Load(n.key); !ok {
			if p.budget > 0 && stored >= p.budget {
				return stored, false
			}
			if err := p.tree.Store(n.key, p.sample(n.key, n.level)); err != nil {
				p.log.Error("store grid", zap.Stringer("key", n.key), zap.Error(err))
				continue
			}
			stored++
		}

		if n.level < p.tree.MaxLevel() && sel.ShouldRefine(n.key, n.level, n.depth, maxDepth, viewer) {
			for _, c := range octree.ChildKeys(n.key, p.tree.HalfExtent(n.level+1)) {
				queue = append(queue, pending{key: c, level: n.level + 1, depth: n.depth + 1})
			}
		}
	}
	return stored, true
}

// Resample replaces the grid at key from the current sampler.
func (p *Populator) Resample(key octree.Key, level uint8) error {
	return p.tree.Store(key, p.sample(key, level))
}

func (p *Populator) sample(key octree.Key, level uint8) *voxel.Grid {
	origin, step := latticeOf(p.tree, key, level)
	return p.grids.Populate(p.sampler, origin, step)
}

// latticeOf returns the world position of lattice point (0,0,0) and the cell size of the
// node at key.
func latticeOf(tree *octree.Octree, key octree.Key, level uint8) (mgl32.Vec3, float32) {
	h := float32(tree.HalfExtent(level))
	return key.Vec3().Sub(mgl32.Vec3{h, h, h}), 2 * h / voxel.Cells
}
