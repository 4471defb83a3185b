package config

import "flag"

var (
	flagConfig = flag.String("config", "", "Path to config file")
	flagDebug  = flag.Bool("debug", false, "Enable debug logging")
	flagTicks  = flag.Int("ticks", 0, "Headless simulation ticks")
	flagSpeed  = flag.Float64("speed", 0, "Headless viewer speed in units per tick")
	flagSeed   = flag.Int64("seed", 0, "Noise seed")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagTicks > 0 {
		cfg.Simulation.Ticks = *flagTicks
	}
	if *flagSpeed > 0 {
		cfg.Simulation.Speed = float32(*flagSpeed)
	}
	if *flagSeed != 0 {
		cfg.Noise.Seed = *flagSeed
	}
}
