// Package headless renders frames with the software backend and writes the
// last one to disk.
package headless

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"airdistort/internal/logger"
	"airdistort/pkg/config"
	"airdistort/pkg/distortion"
	"airdistort/pkg/render"
	"airdistort/pkg/render/software"
	"airdistort/pkg/scene"
)

// Result summarises a headless run
type Result struct {
	Frames        uint64
	Blits         int
	Reallocations int
	Image         *image.NRGBA64
}

// Render draws cfg.Headless.Frames frames and returns the final camera
// image. Nothing is written to disk.
func Render(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Result, error) {
	log = log.With("headless")
	hc := cfg.Headless

	dev := software.NewDevice(log)
	defer dev.Close()

	noiseImg, err := scene.NoiseImage(cfg.Noise)
	if err != nil {
		return nil, err
	}
	nb := noiseImg.Bounds()
	noiseTex, err := dev.NewTexture("_NoiseTex", render.TextureDescriptor{
		Width: nb.Dx(), Height: nb.Dy(), Format: render.FormatRGBA8,
	}, render.FilterBilinear, render.WrapRepeat)
	if err != nil {
		return nil, fmt.Errorf("failed to create noise texture: %w", err)
	}
	if err := noiseTex.Upload(noiseImg); err != nil {
		return nil, err
	}

	desc := scene.CameraDescriptor(cfg.Camera, hc.Width, hc.Height)
	camera, err := dev.NewTexture("_CameraColorTexture", desc, render.FilterBilinear, render.WrapClamp)
	if err != nil {
		return nil, fmt.Errorf("failed to create camera target: %w", err)
	}

	sc, err := scene.New(hc.Width, hc.Height)
	if err != nil {
		return nil, err
	}

	feature := distortion.NewFeature(scene.Settings(cfg.Distortion, distortion.NewSoftwareMaterial(), noiseTex), log)
	renderer := render.NewRenderer(dev, log)
	if err := renderer.AddFeature(feature); err != nil {
		return nil, err
	}
	defer func() {
		if err := renderer.Close(); err != nil {
			log.Warnf("Failed to close renderer: %v", err)
		}
	}()

	for i := 0; i < hc.Frames; i++ {
		t := float64(i) * hc.FrameTime
		if err := camera.Upload(sc.Draw(t)); err != nil {
			return nil, err
		}
		frame := &render.FrameData{
			Camera:     render.CameraData{Name: "Main", TargetDescriptor: desc, ColorTarget: camera},
			Time:       t,
			DeltaTime:  hc.FrameTime,
			FrameIndex: uint64(i),
		}
		if err := renderer.RenderFrame(ctx, frame); err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
	}

	res := &Result{
		Frames: renderer.Frames(),
		Blits:  dev.Stats().Blits,
		Image:  camera.Image(),
	}
	if p := feature.Pass(); p != nil {
		res.Reallocations = p.Reallocations()
	}
	log.Infof("Rendered %d frames, %d blits", res.Frames, res.Blits)
	return res, nil
}

// Run renders and writes the final frame as PNG to cfg.Headless.Output
func Run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	res, err := Render(ctx, cfg, log)
	if err != nil {
		return err
	}
	return WritePNG(cfg.Headless.Output, res.Image)
}

// WritePNG encodes img to path, creating parent directories
func WritePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}
