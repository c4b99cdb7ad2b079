// Package scene draws the procedural camera image the distortion pass is
// applied to, and builds the feature inputs from configuration.
package scene

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"airdistort/internal/noise"
	"airdistort/internal/util"
	"airdistort/pkg/config"
	"airdistort/pkg/distortion"
	"airdistort/pkg/render"
)

// Label is drawn across the middle of the frame
const Label = "AIR DISTORTION"

// Scene renders a sky gradient, a sun, a striped ground and a label.
// Straight edges make the distortion easy to see.
type Scene struct {
	img  *image.NRGBA
	face font.Face
}

// New creates a scene of the given size
func New(width, height int) (*Scene, error) {
	s := &Scene{}
	if err := s.Resize(width, height); err != nil {
		return nil, err
	}
	return s, nil
}

// Resize reallocates the image and rebuilds the label face when the size
// changes
func (s *Scene) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid scene size %dx%d", width, height)
	}
	if s.img != nil && s.img.Rect.Dx() == width && s.img.Rect.Dy() == height {
		return nil
	}

	face, err := labelFace(float64(height) / 8)
	if err != nil {
		return err
	}
	if s.face != nil {
		s.face.Close()
	}
	s.face = face
	s.img = image.NewNRGBA(image.Rect(0, 0, width, height))
	return nil
}

// Size returns the image size
func (s *Scene) Size() (int, int) {
	return s.img.Rect.Dx(), s.img.Rect.Dy()
}

// Image returns the most recently drawn frame
func (s *Scene) Image() *image.NRGBA {
	return s.img
}

// Draw renders the scene at time t seconds and returns the image. The
// returned image is reused by the next call.
func (s *Scene) Draw(t float64) *image.NRGBA {
	w, h := s.Size()
	horizon := h * 3 / 5

	sunX := float64(w) * (0.5 + 0.3*math.Sin(t*0.25))
	sunY := float64(horizon) * 0.45
	sunR := float64(h) / 8

	for y := 0; y < h; y++ {
		fy := float64(y) / float64(h)
		for x := 0; x < w; x++ {
			var c color.NRGBA
			if y < horizon {
				k := fy / (float64(horizon) / float64(h))
				c = color.NRGBA{
					R: uint8(util.Lerp(40.0, 250.0, k)),
					G: uint8(util.Lerp(90.0, 170.0, k)),
					B: uint8(util.Lerp(200.0, 120.0, k)),
					A: 255,
				}
				dx, dy := float64(x)-sunX, float64(y)-sunY
				glow := 1 - util.SmoothStep(sunR*0.9, sunR*1.1, math.Hypot(dx, dy))
				c.R = uint8(util.Lerp(float64(c.R), 255, glow))
				c.G = uint8(util.Lerp(float64(c.G), 240, glow))
				c.B = uint8(util.Lerp(float64(c.B), 200, glow))
			} else {
				// Stripes converge on the horizon
				depth := float64(y-horizon+1) / float64(h-horizon)
				u := (float64(x)/float64(w) - 0.5) / depth
				stripe := int(math.Floor(u*8)) & 1
				shade := uint8(util.Lerp(60.0, 140.0, depth))
				if stripe == 1 {
					shade /= 2
				}
				c = color.NRGBA{R: shade, G: shade, B: shade / 2, A: 255}
			}
			s.img.SetNRGBA(x, y, c)
		}
	}

	s.drawLabel(w, horizon)
	return s.img
}

func (s *Scene) drawLabel(width, baseline int) {
	d := &font.Drawer{
		Dst:  s.img,
		Src:  image.NewUniform(color.NRGBA{R: 20, G: 20, B: 30, A: 255}),
		Face: s.face,
	}
	adv := d.MeasureString(Label)
	d.Dot = fixed.Point26_6{
		X: (fixed.I(width) - adv) / 2,
		Y: fixed.I(baseline - baseline/10),
	}
	d.DrawString(Label)
}

func labelFace(size float64) (font.Face, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse label font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    math.Max(size, 6),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create label face: %w", err)
	}
	return face, nil
}

// NoiseImage loads the configured noise texture or generates one
func NoiseImage(cfg config.NoiseConfig) (*image.NRGBA, error) {
	if cfg.Path != "" {
		return noise.Load(cfg.Path, cfg.Width, cfg.Height)
	}
	return noise.NewGenerator(cfg.Seed).Texture(noise.TextureOptions{
		Width:   cfg.Width,
		Height:  cfg.Height,
		Scale:   cfg.Scale,
		Octaves: cfg.Octaves,
		Gain:    cfg.Gain,
	})
}

// Settings builds feature settings from configuration. The caller supplies
// the backend-specific material and noise texture.
func Settings(cfg config.DistortionConfig, material *render.Material, noiseTex render.Texture) distortion.Settings {
	return distortion.Settings{
		Enabled:         cfg.Enabled,
		Event:           cfg.Event,
		Material:        material,
		TimeFactor:      cfg.TimeFactor,
		Strength:        cfg.Strength,
		NoiseTex:        noiseTex,
		ApplyToMaterial: cfg.ApplyToMaterial,
	}
}

// CameraDescriptor is the color target descriptor for a frame of the given
// size
func CameraDescriptor(cfg config.CameraConfig, width, height int) render.TextureDescriptor {
	return render.TextureDescriptor{
		Width:     width,
		Height:    height,
		Format:    cfg.Format,
		DepthBits: cfg.DepthBits,
	}
}
