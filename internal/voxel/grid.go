// Package voxel holds the fixed-size density lattice stored at every octree node
// and the sampler contract used to fill it.
package voxel

const (
	// Cells is the number of marching-cubes cells along each grid axis.
	Cells = 16
	// Samples is the number of lattice points along each grid axis.
	Samples = Cells + 1
	// Volume is the total number of lattice points in a grid.
	Volume = Samples * Samples * Samples
)

// Sampler evaluates the density field at a world position.
// Values below the iso level (0 by default) are solid, values at or above it are empty.
type Sampler interface {
	Density(x, y, z float32) float32
}

// SamplerFunc adapts a plain function to the Sampler interface.
type SamplerFunc func(x, y, z float32) float32

// Density calls f(x, y, z).
func (f SamplerFunc) Density(x, y, z float32) float32 {
	return f(x, y, z)
}

// Grid is a Samples^3 lattice of density values.
// Grids are comparable with == so callers can detect a replaced payload.
type Grid struct {
	values [Volume]float32
}

// index converts lattice coordinates (x, y, z) → flat index
func index(x, y, z int) int {
	return (x*Samples+y)*Samples + z
}

// At returns the sample at lattice coordinates. Out of range coordinates read as empty space.
func (g *Grid) At(x, y, z int) float32 {
	if x < 0 || x >= Samples || y < 0 || y >= Samples || z < 0 || z >= Samples {
		return 1
	}
	return g.values[index(x, y, z)]
}

// Set stores a sample at lattice coordinates. Out of range writes are ignored.
func (g *Grid) Set(x, y, z int, v float32) {
	if x < 0 || x >= Samples || y < 0 || y >= Samples || z < 0 || z >= Samples {
		return
	}
	g.values[index(x, y, z)] = v
}

// Fill sets every sample to v.
func (g *Grid) Fill(v float32) {
	for i := range g.values {
		g.values[i] = v
	}
}

// Range returns the smallest and largest sample in the grid.
func (g *Grid) Range() (lo, hi float32) {
	lo, hi = g.values[0], g.values[0]
	for _, v := range g.values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// Crosses reports whether the iso surface can pass through the grid,
// i.e. some samples are below isoLevel and some are not.
func (g *Grid) Crosses(isoLevel float32) bool {
	lo, hi := g.Range()
	return lo < isoLevel && hi >= isoLevel
}
