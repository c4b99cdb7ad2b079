package scene

import (
	"path/filepath"
	"testing"

	"airdistort/internal/noise"
	"airdistort/pkg/config"
	"airdistort/pkg/render"
)

func TestDrawFillsFrame(t *testing.T) {
	s, err := New(64, 36)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	img := s.Draw(0)
	if got := img.Bounds().Dx(); got != 64 {
		t.Errorf("width = %d, want 64", got)
	}
	for y := 0; y < 36; y++ {
		for x := 0; x < 64; x++ {
			if a := img.NRGBAAt(x, y).A; a != 255 {
				t.Fatalf("pixel (%d,%d) alpha = %d, want 255", x, y, a)
			}
		}
	}

	sky, ground := img.NRGBAAt(0, 0), img.NRGBAAt(0, 35)
	if sky.B <= sky.R {
		t.Errorf("top-left pixel %v is not sky blue", sky)
	}
	if ground.R != ground.G {
		t.Errorf("bottom pixel %v is not grey ground", ground)
	}
}

func TestDrawMovesSun(t *testing.T) {
	s, err := New(64, 36)
	if err != nil {
		t.Fatal(err)
	}
	a := append([]uint8(nil), s.Draw(0).Pix...)
	b := s.Draw(3).Pix

	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Errorf("frames at t=0 and t=3 are identical")
	}
}

func TestResize(t *testing.T) {
	s, err := New(32, 32)
	if err != nil {
		t.Fatal(err)
	}
	before := s.Image()

	if err := s.Resize(32, 32); err != nil {
		t.Fatal(err)
	}
	if s.Image() != before {
		t.Errorf("same-size resize reallocated the image")
	}

	if err := s.Resize(48, 16); err != nil {
		t.Fatal(err)
	}
	if w, h := s.Size(); w != 48 || h != 16 {
		t.Errorf("Size = %dx%d, want 48x16", w, h)
	}

	if err := s.Resize(0, 10); err == nil {
		t.Errorf("Resize(0, 10) returned nil error")
	}
}

func TestNoiseImage(t *testing.T) {
	cfg := config.DefaultConfig().Noise
	cfg.Width, cfg.Height = 16, 8

	img, err := NoiseImage(cfg)
	if err != nil {
		t.Fatalf("NoiseImage: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 8 {
		t.Fatalf("bounds = %v, want 16x8", b)
	}

	cfg.Path = filepath.Join(t.TempDir(), "missing.png")
	if _, err := NoiseImage(cfg); err == nil {
		t.Errorf("missing noise file returned nil error")
	}
}

func TestNoiseImageMatchesGenerator(t *testing.T) {
	cfg := config.DefaultConfig().Noise
	cfg.Width, cfg.Height = 8, 8

	got, err := NoiseImage(cfg)
	if err != nil {
		t.Fatal(err)
	}
	want, err := noise.NewGenerator(cfg.Seed).Texture(noise.TextureOptions{
		Width: 8, Height: 8, Scale: cfg.Scale, Octaves: cfg.Octaves, Gain: cfg.Gain,
	})
	if err != nil {
		t.Fatal(err)
	}
	if got.NRGBAAt(3, 5) != want.NRGBAAt(3, 5) {
		t.Errorf("texel (3,5) = %v, want %v", got.NRGBAAt(3, 5), want.NRGBAAt(3, 5))
	}
	if got.NRGBAAt(0, 0).B != 0 || got.NRGBAAt(0, 0).A != 255 {
		t.Errorf("texel (0,0) = %v, want blue 0 and opaque", got.NRGBAAt(0, 0))
	}
}

func TestSettingsAndDescriptor(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Distortion.Strength = 0.5
	cfg.Distortion.Event = render.BeforeRenderingPostProcessing

	s := Settings(cfg.Distortion, nil, nil)
	if s.Strength != 0.5 || s.Event != render.BeforeRenderingPostProcessing || !s.Enabled {
		t.Errorf("Settings = %+v", s)
	}

	desc := CameraDescriptor(cfg.Camera, 10, 20)
	want := render.TextureDescriptor{Width: 10, Height: 20, Format: render.FormatRGBA8, DepthBits: 24}
	if desc != want {
		t.Errorf("CameraDescriptor = %v, want %v", desc, want)
	}
}

