// Package viewer implements the model viewer application loop.
package viewer

import (
	"fmt"
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/pkg/errors"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/tessera3d/tessera/internal/config"
	"github.com/tessera3d/tessera/internal/engine/camera"
	"github.com/tessera3d/tessera/internal/engine/effect"
	"github.com/tessera3d/tessera/internal/engine/glrender"
	"github.com/tessera3d/tessera/internal/engine/input"
	"github.com/tessera3d/tessera/internal/engine/model"
	"github.com/tessera3d/tessera/internal/engine/window"
	"github.com/tessera3d/tessera/internal/logger"
	"github.com/tessera3d/tessera/pkg/math"
)

// Viewer is the main application instance.
type Viewer struct {
	cfg     *config.Config
	running bool

	window *window.Window
	input  *input.Input

	device *glrender.Device
	ctx    *glrender.Context
	states *glrender.States

	basic    *effect.Basic
	skinning *effect.Skinning

	cube *model.Model
	arm  *model.Model

	cam *camera.OrbitCamera

	width, height int
	dragging      bool
	wireframe     bool
	elapsed       float32
}

// New creates the viewer: window, GL context, backend, effects, and the demo
// scene.
func New(cfg *config.Config) (*Viewer, error) {
	logger.Info("initializing viewer",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
	)

	v := &Viewer{
		cfg:       cfg,
		width:     cfg.Graphics.Width,
		height:    cfg.Graphics.Height,
		wireframe: cfg.Render.Wireframe,
	}

	// Create window (this also creates OpenGL context)
	var err error
	v.window, err = window.New(window.Config{
		Title:      "Tessera Model Viewer",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create window")
	}

	// GL function pointers must be loaded AFTER the context exists.
	if err := gl.Init(); err != nil {
		v.window.Close()
		return nil, errors.Wrap(err, "failed to initialize OpenGL")
	}
	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	v.device = glrender.NewDevice()
	v.ctx = glrender.NewContext()
	v.states = glrender.NewStates()
	v.input = input.New()

	v.basic, err = effect.NewBasic()
	if err != nil {
		v.Close()
		return nil, errors.Wrap(err, "failed to build basic effect")
	}
	v.skinning, err = effect.NewSkinning()
	if err != nil {
		v.Close()
		return nil, errors.Wrap(err, "failed to build skinning effect")
	}

	v.cube, err = buildCubeModel(v.device, v.basic)
	if err != nil {
		v.Close()
		return nil, errors.Wrap(err, "failed to build cube model")
	}
	v.arm, err = buildArmModel(v.device, v.skinning)
	if err != nil {
		v.Close()
		return nil, errors.Wrap(err, "failed to build arm model")
	}

	v.cam = camera.NewOrbitCamera()
	v.cam.SetCenter(0, 1, 0)

	logger.Info("viewer initialized")
	return v, nil
}

// Run starts the main loop.
func (v *Viewer) Run() error {
	v.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting viewer loop")

	for v.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now
		v.elapsed += dt

		if v.input.Update() {
			v.running = false
			break
		}
		v.handleEvents()

		v.render()
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			if v.cfg.Render.ShowFPS {
				v.window.SetTitle(fmt.Sprintf("Tessera Model Viewer - %d fps", frameCount))
			}
			logger.Debug("fps", zap.Int("count", frameCount))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (v *Viewer) handleEvents() {
	for _, e := range v.input.Events() {
		switch e.Type {
		case input.EventWindowResize:
			v.width = e.Width
			v.height = e.Height
		case input.EventKeyDown:
			switch e.Key {
			case sdl.SCANCODE_ESCAPE:
				v.running = false
			case sdl.SCANCODE_F1:
				v.wireframe = !v.wireframe
				logger.Info("wireframe toggled", zap.Bool("on", v.wireframe))
			}
		case input.EventMouseDown:
			if e.Button == sdl.BUTTON_LEFT {
				v.dragging = true
			}
		case input.EventMouseUp:
			if e.Button == sdl.BUTTON_LEFT {
				v.dragging = false
			}
		case input.EventMouseMove:
			if v.dragging {
				v.cam.HandleDrag(float32(e.RelX), float32(e.RelY))
			}
		case input.EventMouseWheel:
			v.cam.HandleZoom(float32(e.WheelY))
		}
	}
}

func (v *Viewer) render() {
	gl.Viewport(0, 0, int32(v.width), int32(v.height))
	gl.ClearColor(0.08, 0.09, 0.11, 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	aspect := float32(v.width) / float32(v.height)
	fov := v.cfg.Render.FOV * math32.Pi / 180
	projection := math.Perspective(fov, aspect, 0.1, 500)
	view := v.cam.ViewMatrix()

	// Slowly spinning cube with a translucent shell.
	world := math.Translate(-1.6, 1, 0).Mul(math.RotateY(v.elapsed * 0.4))
	v.cube.Draw(v.ctx, v.states, world, view, projection, v.wireframe, nil)

	// Skinned arm waving through a slerped key pose.
	if err := v.arm.SetLocalBoneTransforms(armPose(v.elapsed)); err != nil {
		logger.Error("failed to update arm pose", zap.Error(err))
	} else if err := v.arm.DrawSkinned(v.ctx, v.states,
		v.arm.AbsoluteBoneTransforms(), view, projection, v.wireframe, nil); err != nil {
		logger.Error("failed to draw arm", zap.Error(err))
	}
}

// Close cleans up viewer resources.
func (v *Viewer) Close() {
	logger.Info("closing viewer")

	if v.states != nil {
		v.states.Destroy()
	}
	if v.ctx != nil {
		v.ctx.Destroy()
	}
	if v.window != nil {
		v.window.Close()
	}
}
