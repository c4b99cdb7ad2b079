// Package engine runs the distortion pass in a GLFW window with the OpenGL
// backend.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"airdistort/internal/logger"
	"airdistort/pkg/config"
	"airdistort/pkg/distortion"
	"airdistort/pkg/render"
	"airdistort/pkg/render/opengl"
	"airdistort/pkg/scene"
)

// CameraTextureName names the camera color target
const CameraTextureName = "_CameraColorTexture"

// Engine owns the window, the GL device and the renderer
type Engine struct {
	window    *glfw.Window
	config    *config.Config
	logger    *logger.Logger
	device    *opengl.Device
	renderer  *render.Renderer
	feature   *distortion.Feature
	scene     *scene.Scene
	camera    *opengl.Texture
	noiseTex  *opengl.Texture
	isRunning bool
	start     time.Time
	frameRate int
}

// NewEngine creates the window and GL context and wires the distortion
// feature. It must be called from the main OS thread.
func NewEngine(cfg *config.Config, log *logger.Logger) (*Engine, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	resizable := glfw.False
	if cfg.Window.Resizable {
		resizable = glfw.True
	}
	glfw.WindowHint(glfw.Resizable, resizable)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create GLFW window: %w", err)
	}
	window.MakeContextCurrent()
	if cfg.Window.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	e := &Engine{
		window:    window,
		config:    cfg,
		logger:    log.With("engine"),
		frameRate: cfg.Window.FrameRate,
	}
	if err := e.init(); err != nil {
		e.cleanup()
		return nil, err
	}
	return e, nil
}

func (e *Engine) init() error {
	dev, err := opengl.NewDevice(e.logger)
	if err != nil {
		return err
	}
	e.device = dev

	noiseImg, err := scene.NoiseImage(e.config.Noise)
	if err != nil {
		return err
	}
	nb := noiseImg.Bounds()
	e.noiseTex, err = dev.NewTexture("_NoiseTex", render.TextureDescriptor{
		Width: nb.Dx(), Height: nb.Dy(), Format: render.FormatRGBA8,
	}, render.FilterBilinear, render.WrapRepeat)
	if err != nil {
		return fmt.Errorf("failed to create noise texture: %w", err)
	}
	if err := e.noiseTex.Upload(noiseImg); err != nil {
		return err
	}

	w, h := e.window.GetFramebufferSize()
	if e.scene, err = scene.New(w, h); err != nil {
		return err
	}

	material := render.NewMaterial("AirDistortion", opengl.NewShader(distortion.ShaderName, distortion.FragmentSource))
	e.feature = distortion.NewFeature(scene.Settings(e.config.Distortion, material, e.noiseTex), e.logger)
	e.renderer = render.NewRenderer(dev, e.logger)
	return e.renderer.AddFeature(e.feature)
}

// Run starts the main loop and returns when the window closes
func (e *Engine) Run(ctx context.Context) error {
	e.isRunning = true
	e.start = time.Now()
	last := e.start
	defer e.cleanup()

	for frameIndex := uint64(0); e.isRunning && !e.window.ShouldClose(); frameIndex++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		currentTime := time.Now()
		deltaTime := currentTime.Sub(last).Seconds()
		last = currentTime

		e.processInput()

		if err := e.render(ctx, currentTime.Sub(e.start).Seconds(), deltaTime, frameIndex); err != nil {
			return err
		}

		e.window.SwapBuffers()
		glfw.PollEvents()

		// Cap the frame rate
		if e.frameRate > 0 {
			frameTime := time.Since(currentTime)
			targetFrameTime := time.Second / time.Duration(e.frameRate)
			if frameTime < targetFrameTime {
				time.Sleep(targetFrameTime - frameTime)
			}
		}
	}
	return nil
}

// processInput handles user input
func (e *Engine) processInput() {
	// Close when ESC is pressed
	if e.window.GetKey(glfw.KeyEscape) == glfw.Press {
		e.isRunning = false
	}
}

// render draws the scene into the camera target, runs the passes and
// presents the result
func (e *Engine) render(ctx context.Context, t, dt float64, frameIndex uint64) error {
	w, h := e.window.GetFramebufferSize()
	if w == 0 || h == 0 {
		// minimised
		return nil
	}

	desc := scene.CameraDescriptor(e.config.Camera, w, h)
	if err := e.ensureCamera(desc); err != nil {
		return err
	}
	if err := e.camera.Upload(e.scene.Draw(t)); err != nil {
		return err
	}

	frame := &render.FrameData{
		Camera:     render.CameraData{Name: "Main", TargetDescriptor: desc, ColorTarget: e.camera},
		Time:       t,
		DeltaTime:  dt,
		FrameIndex: frameIndex,
	}
	if err := e.renderer.RenderFrame(ctx, frame); err != nil {
		return fmt.Errorf("frame %d: %w", frameIndex, err)
	}

	e.device.Present(e.camera, w, h)
	return nil
}

// ensureCamera recreates the camera target and scene image when the
// framebuffer size changes
func (e *Engine) ensureCamera(desc render.TextureDescriptor) error {
	if e.camera != nil && e.camera.Descriptor().Matches(desc) {
		return nil
	}
	if e.camera != nil {
		if err := e.device.ReleaseTexture(e.camera); err != nil {
			return err
		}
		e.camera = nil
	}

	camera, err := e.device.NewTexture(CameraTextureName, desc, render.FilterBilinear, render.WrapClamp)
	if err != nil {
		return fmt.Errorf("failed to create camera target: %w", err)
	}
	e.camera = camera
	e.logger.Infof("Camera target %v", desc)
	return e.scene.Resize(desc.Width, desc.Height)
}

// cleanup releases GPU resources and terminates GLFW
func (e *Engine) cleanup() {
	e.logger.Info("Shutting down engine...")
	if e.renderer != nil {
		if err := e.renderer.Close(); err != nil {
			e.logger.Warnf("Failed to close renderer: %v", err)
		}
		e.renderer = nil
	}
	if e.device != nil {
		e.device.Close()
		e.device = nil
	}
	if e.window != nil {
		e.window.Destroy()
		e.window = nil
	}
	glfw.Terminate()
}
