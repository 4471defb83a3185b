package main

import (
	"flag"
	"os"
	"runtime"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/xlab/closer"
	"go.uber.org/zap"

	"voxel-lod/internal/config"
	"voxel-lod/internal/density"
	"voxel-lod/internal/logger"
	"voxel-lod/internal/world"
)

var (
	flagOBJ    = flag.String("obj", "", "Write the visible surface to an OBJ file after the walk")
	flagSlice  = flag.String("slice", "", "Write a density slice at the start height to a BMP file")
	flagWindow = flag.Bool("window", false, "Open the interactive viewer instead of the headless walk")
)

// GL calls must stay on the main thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		closer.Fatalln("load config:", err)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		closer.Fatalln("init logger:", err)
	}
	closer.Bind(logger.Sync)

	log := logger.Named("main")
	log.Info("starting",
		zap.String("config", config.ConfigPath()),
		zap.String("noise", cfg.Noise.Kind),
		zap.Int64("seed", cfg.Noise.Seed),
		zap.Int32("tree_size", cfg.Terrain.TreeSize),
		zap.Uint8("base_level", cfg.Terrain.BaseLevel),
		zap.Uint8("max_depth", cfg.Terrain.MaxDepth))

	sampler, err := density.FromConfig(cfg.Noise)
	if err != nil {
		log.Error("density field", zap.Error(err))
		closer.Fatalln(err)
	}

	if *flagSlice != "" {
		if err := writeSlice(*flagSlice, sampler, mgl32.Vec3(cfg.Viewer.Start)); err != nil {
			log.Error("write slice", zap.Error(err))
			closer.Fatalln(err)
		}
		log.Info("slice written", zap.String("path", *flagSlice))
	}

	if *flagWindow {
		if err := runViewer(cfg, sampler, log); err != nil {
			log.Error("viewer", zap.Error(err))
			closer.Fatalln(err)
		}
		closer.Close()
		return
	}

	store := world.NewMemoryMeshStore()
	terrain, err := world.New(cfg.Terrain, sampler, store, logger.Named("world"))
	if err != nil {
		log.Error("create terrain", zap.Error(err))
		closer.Fatalln(err)
	}
	closer.Bind(terrain.Close)

	viewer := walk(cfg, terrain, log)

	if *flagOBJ != "" {
		if err := writeOBJ(*flagOBJ, terrain, store); err != nil {
			log.Error("write obj", zap.Error(err))
			closer.Fatalln(err)
		}
		log.Info("obj written", zap.String("path", *flagOBJ), zap.Int("meshes", store.Len()))
	}

	log.Info("done",
		zap.Float32("x", viewer.X()), zap.Float32("y", viewer.Y()), zap.Float32("z", viewer.Z()),
		zap.Int("nodes", terrain.Tree().Size()),
		zap.Int("chunks", terrain.Cache().Len()))
	closer.Close()
}

func createFile(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
}
