// Package config handles terrain configuration loading and runtime settings.
package config

import (
	"fmt"
	"math/bits"

	"go.uber.org/multierr"
)

// Config holds all terrain settings.
type Config struct {
	Terrain    TerrainConfig    `yaml:"terrain"`
	Noise      NoiseConfig      `yaml:"noise"`
	Viewer     ViewerConfig     `yaml:"viewer"`
	Simulation SimulationConfig `yaml:"simulation"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// TerrainConfig holds octree, LOD and chunk settings.
type TerrainConfig struct {
	TreeSize       int32   `yaml:"tree_size"`       // root edge length, power of two
	BaseLevel      uint8   `yaml:"base_level"`      // level of the candidate neighbourhood
	ViewRadius     int     `yaml:"view_radius"`     // neighbourhood radius in base-level nodes
	MaxDepth       uint8   `yaml:"max_depth"`       // refinement levels below the base level
	RefineFactor   float32 `yaml:"refine_factor"`   // squared distance in half-extents
	IsoLevel       float32 `yaml:"iso_level"`       // surface threshold, below is solid
	UpdateDistance float32 `yaml:"update_distance"` // viewer move that triggers an update
	PopulateBudget int     `yaml:"populate_budget"` // grids stored per update, 0 = unlimited
	EvictRadius    float32 `yaml:"evict_radius"`    // 0 keeps every chunk
	Workers        int     `yaml:"workers"`         // sampling and LOD workers, 0 = NumCPU
	MeshWorkers    int     `yaml:"mesh_workers"`    // polygonization workers, 0 = NumCPU
}

// NoiseConfig selects and parameterizes the density field.
type NoiseConfig struct {
	Kind        string  `yaml:"kind"` // heightfield, caves, halfspace, sphere
	Seed        int64   `yaml:"seed"`
	Octaves     int     `yaml:"octaves"`
	Persistence float64 `yaml:"persistence"`
	Lacunarity  float64 `yaml:"lacunarity"`
	Scale       float64 `yaml:"scale"`     // world units per noise unit
	Amplitude   float32 `yaml:"amplitude"` // heightfield relief
	BaseHeight  float32 `yaml:"base_height"`
	Gradient    float32 `yaml:"gradient"` // caves altitude falloff
	Radius      float32 `yaml:"radius"`   // sphere radius
}

// ViewerConfig holds window settings for the interactive viewer.
type ViewerConfig struct {
	Width  int        `yaml:"width"`
	Height int        `yaml:"height"`
	FOV    float32    `yaml:"fov"`
	VSync  bool       `yaml:"vsync"`
	Start  [3]float32 `yaml:"start"`
	Speed  float32    `yaml:"speed"` // units per second
}

// SimulationConfig drives the headless walk.
type SimulationConfig struct {
	Ticks     int        `yaml:"ticks"`
	Speed     float32    `yaml:"speed"` // units per tick
	Direction [3]float32 `yaml:"direction"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Noise kinds.
const (
	KindHeightfield = "heightfield"
	KindCaves       = "caves"
	KindHalfSpace   = "halfspace"
	KindSphere      = "sphere"
)

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Terrain: TerrainConfig{
			TreeSize:       4096,
			BaseLevel:      6,
			ViewRadius:     1,
			MaxDepth:       2,
			RefineFactor:   6,
			IsoLevel:       0,
			UpdateDistance: 8,
			PopulateBudget: 0,
			EvictRadius:    0,
		},
		Noise: NoiseConfig{
			Kind:        KindHeightfield,
			Seed:        1,
			Octaves:     4,
			Persistence: 0.5,
			Lacunarity:  2,
			Scale:       64,
			Amplitude:   16,
			BaseHeight:  0,
			Gradient:    32,
			Radius:      48,
		},
		Viewer: ViewerConfig{
			Width:  1280,
			Height: 720,
			FOV:    60,
			VSync:  true,
			Start:  [3]float32{0, 24, 0},
			Speed:  32,
		},
		Simulation: SimulationConfig{
			Ticks:     64,
			Speed:     4,
			Direction: [3]float32{1, 0, 0},
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var err error
	t := c.Terrain
	if t.TreeSize < 2 || bits.OnesCount32(uint32(t.TreeSize)) != 1 {
		err = multierr.Append(err, fmt.Errorf("terrain.tree_size %d is not a power of two >= 2", t.TreeSize))
	} else if maxLevel := uint8(bits.Len32(uint32(t.TreeSize)) - 2); int(t.BaseLevel)+int(t.MaxDepth) > int(maxLevel) {
		err = multierr.Append(err, fmt.Errorf("terrain.base_level + max_depth = %d exceeds deepest level %d",
			int(t.BaseLevel)+int(t.MaxDepth), maxLevel))
	}
	if t.ViewRadius < 0 {
		err = multierr.Append(err, fmt.Errorf("terrain.view_radius %d is negative", t.ViewRadius))
	}
	if t.RefineFactor <= 0 {
		err = multierr.Append(err, fmt.Errorf("terrain.refine_factor %v must be positive", t.RefineFactor))
	}
	if t.UpdateDistance < 0 {
		err = multierr.Append(err, fmt.Errorf("terrain.update_distance %v is negative", t.UpdateDistance))
	}
	if t.PopulateBudget < 0 {
		err = multierr.Append(err, fmt.Errorf("terrain.populate_budget %d is negative", t.PopulateBudget))
	}
	if t.EvictRadius < 0 {
		err = multierr.Append(err, fmt.Errorf("terrain.evict_radius %v is negative", t.EvictRadius))
	}

	n := c.Noise
	switch n.Kind {
	case KindHeightfield, KindCaves, KindHalfSpace, KindSphere:
	default:
		err = multierr.Append(err, fmt.Errorf("noise.kind %q is unknown", n.Kind))
	}
	if n.Octaves < 1 {
		err = multierr.Append(err, fmt.Errorf("noise.octaves %d must be at least 1", n.Octaves))
	}
	if n.Scale <= 0 {
		err = multierr.Append(err, fmt.Errorf("noise.scale %v must be positive", n.Scale))
	}
	if n.Kind == KindCaves && n.Gradient <= 0 {
		err = multierr.Append(err, fmt.Errorf("noise.gradient %v must be positive", n.Gradient))
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		err = multierr.Append(err, fmt.Errorf("logging.level %q is unknown", c.Logging.Level))
	}
	return err
}
