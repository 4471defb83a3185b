// Package density provides the scalar fields sampled into octree grids.
//
// Every sampler follows one sign convention: negative is solid, zero or positive is empty.
package density

import "math"

// Noise is seeded multi-octave value noise. At2 and At3 return values in [0,1].
type Noise struct {
	Seed        int64
	Octaves     int
	Persistence float64
	Lacunarity  float64
}

// DefaultNoise returns four octaves with the usual halving amplitude.
func DefaultNoise(seed int64) Noise {
	return Noise{Seed: seed, Octaves: 4, Persistence: 0.5, Lacunarity: 2}
}

// At2 samples the 2D fractal sum at (x, z).
func (n Noise) At2(x, z float64) float64 {
	return n.octaves(func(f float64, seed int64) float64 {
		return valueNoise2D(x*f, z*f, seed)
	})
}

// At3 samples the 3D fractal sum at (x, y, z).
func (n Noise) At3(x, y, z float64) float64 {
	return n.octaves(func(f float64, seed int64) float64 {
		return valueNoise3D(x*f, y*f, z*f, seed)
	})
}

func (n Noise) octaves(sample func(frequency float64, seed int64) float64) float64 {
	amplitude := 1.0
	frequency := 1.0
	sum := 0.0
	norm := 0.0
	for i := range n.Octaves {
		sum += sample(frequency, n.Seed+int64(i*131)) * amplitude
		norm += amplitude
		amplitude *= n.Persistence
		frequency *= n.Lacunarity
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}

// fade is the quintic smoothstep 6t^5 - 15t^4 + 10t^3.
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// hash3 is a SplitMix64 finalizer over the lattice coordinates and seed.
func hash3(x, y, z int64, seed int64) uint64 {
	v := uint64(x)*0x9E3779B97F4A7C15 + uint64(y)*0x517CC1B727220A95 + uint64(z)*0x6C62272E07BB0142 + uint64(seed)
	v += 0x9E3779B97F4A7C15
	v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
	v = (v ^ (v >> 27)) * 0x94D049BB133111EB
	return v ^ (v >> 31)
}

func latticeValue(x, y, z int64, seed int64) float64 {
	return float64(hash3(x, y, z, seed)&0xFFFFFFFF) / float64(0xFFFFFFFF)
}

// valueNoise2D is the y=0 slice of the 3D lattice.
func valueNoise2D(x, z float64, seed int64) float64 {
	x0, z0 := math.Floor(x), math.Floor(z)
	ix, iz := int64(x0), int64(z0)
	fx, fz := fade(x-x0), fade(z-z0)

	i0 := lerp(latticeValue(ix, 0, iz, seed), latticeValue(ix+1, 0, iz, seed), fx)
	i1 := lerp(latticeValue(ix, 0, iz+1, seed), latticeValue(ix+1, 0, iz+1, seed), fx)
	return lerp(i0, i1, fz)
}

func valueNoise3D(x, y, z float64, seed int64) float64 {
	x0, y0, z0 := math.Floor(x), math.Floor(y), math.Floor(z)
	ix, iy, iz := int64(x0), int64(y0), int64(z0)
	fx, fy, fz := fade(x-x0), fade(y-y0), fade(z-z0)

	corner := func(dx, dy, dz int64) float64 {
		return latticeValue(ix+dx, iy+dy, iz+dz, seed)
	}
	i00 := lerp(corner(0, 0, 0), corner(1, 0, 0), fx)
	i10 := lerp(corner(0, 1, 0), corner(1, 1, 0), fx)
	i01 := lerp(corner(0, 0, 1), corner(1, 0, 1), fx)
	i11 := lerp(corner(0, 1, 1), corner(1, 1, 1), fx)

	return lerp(lerp(i00, i10, fy), lerp(i01, i11, fy), fz)
}
