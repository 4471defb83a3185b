package main

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"voxel-lod/internal/config"
	"voxel-lod/internal/density"
	"voxel-lod/internal/meshing"
	"voxel-lod/internal/profiling"
	"voxel-lod/internal/voxel"
	"voxel-lod/internal/world"
)

const (
	sliceSize = 256
	sliceStep = 1

	slowTick = 100 * time.Millisecond
)

// walk moves the viewer in a straight line, updating the terrain once per tick.
func walk(cfg *config.Config, terrain *world.Terrain, log *zap.Logger) mgl32.Vec3 {
	viewer := mgl32.Vec3(cfg.Viewer.Start)
	dir := mgl32.Vec3(cfg.Simulation.Direction)
	if dir.Len() == 0 {
		dir = mgl32.Vec3{1, 0, 0}
	}
	step := dir.Normalize().Mul(cfg.Simulation.Speed)

	var built, skipped int
	for tick := range cfg.Simulation.Ticks {
		profiling.ResetTick()
		stats := terrain.Update(viewer)
		if stats.Skipped {
			skipped++
		} else {
			built += stats.Build.Built
			fields := []zap.Field{
				zap.Int("tick", tick),
				zap.Int("stored", stats.Stored),
				zap.Int("targets", stats.Targets),
				zap.Int("built", stats.Build.Built),
				zap.Int("visible", len(terrain.Visible())),
			}
			if stats.Duration > slowTick {
				log.Info("slow tick", append(fields, profiling.Fields(3)...)...)
			} else {
				log.Debug("tick", fields...)
			}
		}
		viewer = viewer.Add(step)
	}

	log.Info("walk finished",
		zap.Int("ticks", cfg.Simulation.Ticks),
		zap.Int("skipped", skipped),
		zap.Int("meshes_built", built))
	return viewer
}

// writeOBJ exports the visible chunks merged into a single "terrain" object.
func writeOBJ(path string, terrain *world.Terrain, store *world.MemoryMeshStore) (err error) {
	f, err := createFile(path)
	if err != nil {
		return errors.Wrap(err, "create obj")
	}
	defer func() { err = multierr.Append(err, f.Close()) }()

	var positions, normals []mgl32.Vec3
	for _, c := range terrain.Visible() {
		id, ok := c.Mesh()
		if !ok {
			continue
		}
		m, ok := store.Mesh(id)
		if !ok {
			continue
		}
		positions = append(positions, m.Positions...)
		normals = append(normals, m.Normals...)
	}
	return meshing.WriteOBJ(f, "terrain", positions, normals)
}

// writeSlice renders the density field on the horizontal plane through center.
func writeSlice(path string, s voxel.Sampler, center mgl32.Vec3) (err error) {
	f, err := createFile(path)
	if err != nil {
		return errors.Wrap(err, "create slice")
	}
	defer func() { err = multierr.Append(err, f.Close()) }()

	half := float32(sliceSize*sliceStep) / 2
	return density.WriteSliceBMP(f, s, center.Y(), center.X()-half, center.Z()-half, sliceSize, sliceStep)
}
