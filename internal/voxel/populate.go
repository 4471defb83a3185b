package voxel

import (
	"runtime"
	"sync"

	"github.com/alitto/pond/v2"
	"github.com/go-gl/mathgl/mgl32"
)

// Populator fills grids from a Sampler using a shared worker pool.
// Each x-slab of the lattice is an independent task; the sampler must be safe for
// concurrent use.
type Populator struct {
	pool pond.Pool
}

// NewPopulator creates a populator with the given number of workers (runtime.NumCPU if <= 0).
func NewPopulator(workers int) *Populator {
	if workers <= 0 {
		workers = max(runtime.NumCPU(), 1)
	}
	return &Populator{pool: pond.NewPool(workers)}
}

// Populate samples s on the lattice origin + (i, j, k) * step and returns the new grid.
func (p *Populator) Populate(s Sampler, origin mgl32.Vec3, step float32) *Grid {
	g := &Grid{}
	var wg sync.WaitGroup
	for x := range Samples {
		wg.Add(1)
		p.pool.Submit(func() {
			defer wg.Done()
			fillSlab(g, s, origin, step, x)
		})
	}
	wg.Wait()
	return g
}

// Close waits for queued tasks and stops the workers.
func (p *Populator) Close() {
	p.pool.StopAndWait()
}

// Sample fills a grid on the calling goroutine.
func Sample(s Sampler, origin mgl32.Vec3, step float32) *Grid {
	g := &Grid{}
	for x := range Samples {
		fillSlab(g, s, origin, step, x)
	}
	return g
}

func fillSlab(g *Grid, s Sampler, origin mgl32.Vec3, step float32, x int) {
	wx := origin.X() + float32(x)*step
	for y := range Samples {
		wy := origin.Y() + float32(y)*step
		for z := range Samples {
			wz := origin.Z() + float32(z)*step
			g.values[index(x, y, z)] = s.Density(wx, wy, wz)
		}
	}
}
