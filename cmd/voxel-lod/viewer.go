package main

import (
	"fmt"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"voxel-lod/internal/config"
	"voxel-lod/internal/density"
	"voxel-lod/internal/graphics"
	"voxel-lod/internal/input"
	"voxel-lod/internal/logger"
	"voxel-lod/internal/profiling"
	"voxel-lod/internal/voxel"
	"voxel-lod/internal/world"
)

const (
	brushRadius = 6
	rotateSpeed = 90 // degrees per second
)

// runViewer opens a window and renders the terrain around an orbit camera.
// Key bindings live in the input package.
func runViewer(cfg *config.Config, sampler voxel.Sampler, log *zap.Logger) error {
	if err := glfw.Init(); err != nil {
		return errors.Wrap(err, "glfw init")
	}
	defer glfw.Terminate()

	window, err := setupWindow(cfg.Viewer)
	if err != nil {
		return err
	}
	if err := gl.Init(); err != nil {
		return errors.Wrap(err, "gl init")
	}

	camera := graphics.NewCamera(cfg.Viewer.Width, cfg.Viewer.Height, cfg.Viewer.FOV)
	camera.Target = mgl32.Vec3(cfg.Viewer.Start)

	meshes := graphics.NewMeshStore()
	defer meshes.Dispose()
	r, err := graphics.NewRenderer(meshes, camera)
	if err != nil {
		return err
	}
	defer r.Dispose()
	fbWidth, fbHeight := window.GetFramebufferSize()
	r.SetViewport(fbWidth, fbHeight)

	terrain, err := world.New(cfg.Terrain, sampler, meshes, logger.Named("world"))
	if err != nil {
		return err
	}
	defer terrain.Close()

	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		r.SetViewport(width, height)
	})
	window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		camera.Zoom(float32(1 - 0.1*yoff))
	})
	keys := input.NewManager()
	keys.Attach(window)

	frames := 0
	fpsTicker := time.NewTicker(time.Second)
	defer fpsTicker.Stop()
	last := time.Now()
	var frame graphics.FrameStats

	for !window.ShouldClose() {
		now := time.Now()
		dt := float32(now.Sub(last).Seconds())
		last = now

		profiling.ResetTick()
		glfw.PollEvents()
		handleActions(keys, window, camera, terrain, r)
		moveCamera(keys, camera, cfg.Viewer.Speed*dt, rotateSpeed*dt)
		keys.PostUpdate()

		terrain.Update(camera.Target)
		frame = r.Render(terrain.Visible())

		func() { defer profiling.Track("glfw.SwapBuffers")(); window.SwapBuffers() }()
		frames++

		select {
		case <-fpsTicker.C:
			radius, depth, _ := terrain.Settings().Snapshot()
			window.SetTitle(fmt.Sprintf("voxel-lod  %d fps  radius %d  depth %d  drawn %d/%d",
				frames, radius, depth, frame.Drawn, frame.Visible))
			log.Debug("frame",
				append([]zap.Field{
					zap.Int("fps", frames),
					zap.Int("drawn", frame.Drawn),
					zap.Int("culled", frame.Culled),
				}, profiling.Fields(3)...)...)
			frames = 0
		default:
		}
	}
	return nil
}

func setupWindow(v config.ViewerConfig) (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	window, err := glfw.CreateWindow(v.Width, v.Height, "voxel-lod", nil, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create window")
	}
	window.MakeContextCurrent()
	if v.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	return window, nil
}

func handleActions(keys *input.Manager, w *glfw.Window, c *graphics.Camera, terrain *world.Terrain, r *graphics.Renderer) {
	settings := terrain.Settings()
	switch {
	case keys.JustPressed(input.ActionDepthUp):
		settings.SetMaxDepth(int(settings.MaxDepth()) + 1)
	case keys.JustPressed(input.ActionDepthDown):
		settings.SetMaxDepth(int(settings.MaxDepth()) - 1)
	}
	switch {
	case keys.JustPressed(input.ActionRadiusUp):
		settings.SetViewRadius(settings.ViewRadius() + 1)
	case keys.JustPressed(input.ActionRadiusDown):
		settings.SetViewRadius(settings.ViewRadius() - 1)
	}
	if keys.JustPressed(input.ActionDig) || keys.JustPressed(input.ActionFill) {
		terrain.ApplyBrush(density.Brush{
			Center:   c.Target,
			Radius:   brushRadius,
			Subtract: keys.JustPressed(input.ActionDig),
		})
	}
	if keys.JustPressed(input.ActionToggleWireframe) {
		r.Wireframe = !r.Wireframe
	}
	if keys.JustPressed(input.ActionToggleTint) {
		r.TintRings = !r.TintRings
	}
	if keys.JustPressed(input.ActionQuit) {
		w.SetShouldClose(true)
	}
}

func moveCamera(keys *input.Manager, c *graphics.Camera, dist, angle float32) {
	move := c.Forward().Mul(keys.Axis(input.ActionForward, input.ActionBackward)).
		Add(c.Right().Mul(keys.Axis(input.ActionRight, input.ActionLeft))).
		Add(mgl32.Vec3{0, keys.Axis(input.ActionRaise, input.ActionLower), 0})
	if move.Len() > 0 {
		c.Target = c.Target.Add(move.Normalize().Mul(dist))
	}
	c.Rotate(
		angle*keys.Axis(input.ActionYawRight, input.ActionYawLeft),
		angle*keys.Axis(input.ActionPitchUp, input.ActionPitchDown))
}
