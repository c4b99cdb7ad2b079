package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"airdistort/pkg/render"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
distortion:
  event: before_rendering_transparents
  strength: 0.05
camera:
  format: rgba16f
noise:
  path: assets/noise.png
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Distortion.Event != render.BeforeRenderingTransparents {
		t.Errorf("Event = %v, want before_rendering_transparents", cfg.Distortion.Event)
	}
	if cfg.Distortion.Strength != 0.05 {
		t.Errorf("Strength = %v, want 0.05", cfg.Distortion.Strength)
	}
	if cfg.Camera.Format != render.FormatRGBA16F {
		t.Errorf("Format = %v, want rgba16f", cfg.Camera.Format)
	}
	if cfg.Distortion.TimeFactor != 0.1 {
		t.Errorf("TimeFactor = %v, want default 0.1", cfg.Distortion.TimeFactor)
	}
	if cfg.Window.Width != 1280 {
		t.Errorf("Window.Width = %d, want default 1280", cfg.Window.Width)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{"bad yaml", "window: [1, 2", "error parsing config"},
		{"unknown event", "distortion:\n  event: sideways\n", "unknown pass event"},
		{"invalid values", "window:\n  width: -1\nheadless:\n  frames: 0\n", "window size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			cfg, err := LoadConfig(path)
			if err == nil {
				t.Fatalf("LoadConfig returned nil error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
			if cfg == nil {
				t.Errorf("LoadConfig returned nil config alongside error")
			}
		})
	}

	cfg, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	if err == nil || cfg == nil {
		t.Fatalf("missing file: cfg=%v err=%v", cfg, err)
	}
	if cfg.Window.Width != DefaultConfig().Window.Width {
		t.Errorf("missing file did not fall back to defaults")
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := DefaultConfig()
	cfg.Distortion.Event = render.AfterRenderingSkybox + 5
	cfg.Noise.Seed = 99

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), "event: after_rendering_skybox+5") {
		t.Errorf("saved yaml does not name the event:\n%s", raw)
	}

	back, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if back.Distortion.Event != cfg.Distortion.Event || back.Noise.Seed != 99 {
		t.Errorf("reloaded = %+v / seed %d", back.Distortion, back.Noise.Seed)
	}
}
