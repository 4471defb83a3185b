package density

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"voxel-lod/internal/config"
	"voxel-lod/internal/voxel"
)

// FromConfig builds the base sampler described by cfg.
func FromConfig(cfg config.NoiseConfig) (voxel.Sampler, error) {
	noise := Noise{
		Seed:        cfg.Seed,
		Octaves:     cfg.Octaves,
		Persistence: cfg.Persistence,
		Lacunarity:  cfg.Lacunarity,
	}
	switch cfg.Kind {
	case config.KindHeightfield:
		return Heightfield{Noise: noise, Scale: cfg.Scale, Amplitude: cfg.Amplitude, Base: cfg.BaseHeight}, nil
	case config.KindCaves:
		return Caves{Noise: noise, Scale: cfg.Scale, BaseHeight: cfg.BaseHeight, Gradient: cfg.Gradient}, nil
	case config.KindHalfSpace:
		return HalfSpace{Normal: mgl32.Vec3{0, 1, 0}, Offset: cfg.BaseHeight}, nil
	case config.KindSphere:
		return Sphere{Center: mgl32.Vec3{0, cfg.BaseHeight, 0}, Radius: cfg.Radius}, nil
	default:
		return nil, fmt.Errorf("unknown noise kind %q", cfg.Kind)
	}
}
