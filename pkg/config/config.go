package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"airdistort/pkg/render"
)

// Config represents the main configuration
type Config struct {
	Window     WindowConfig     `yaml:"window"`
	Camera     CameraConfig     `yaml:"camera"`
	Distortion DistortionConfig `yaml:"distortion"`
	Noise      NoiseConfig      `yaml:"noise"`
	Logging    LoggingConfig    `yaml:"logging"`
	Headless   HeadlessConfig   `yaml:"headless"`
}

// WindowConfig contains window-related configuration
type WindowConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Title     string `yaml:"title"`
	VSync     bool   `yaml:"vsync"`
	FrameRate int    `yaml:"framerate"` // 0 disables the cap
	Resizable bool   `yaml:"resizable"`
}

// CameraConfig describes the camera color target
type CameraConfig struct {
	Format    render.TextureFormat `yaml:"format"`
	DepthBits int                  `yaml:"depth_bits"`
}

// DistortionConfig contains the distortion pass settings
type DistortionConfig struct {
	Enabled         bool             `yaml:"enabled"`
	Event           render.PassEvent `yaml:"event"`
	TimeFactor      float32          `yaml:"time_factor"`
	Strength        float32          `yaml:"strength"`
	ApplyToMaterial bool             `yaml:"apply_to_material"`
}

// NoiseConfig selects the noise texture. A non-empty Path loads an image,
// otherwise one is generated.
type NoiseConfig struct {
	Path    string  `yaml:"path"`
	Width   int     `yaml:"width"`
	Height  int     `yaml:"height"`
	Scale   int     `yaml:"scale"`
	Octaves int     `yaml:"octaves"`
	Gain    float64 `yaml:"gain"`
	Seed    int64   `yaml:"seed"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"` // empty logs to stdout only
}

// HeadlessConfig controls rendering without a window
type HeadlessConfig struct {
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	Frames    int     `yaml:"frames"`
	FrameTime float64 `yaml:"frame_time"` // seconds per frame
	Output    string  `yaml:"output"`
}

// DefaultConfig creates a default configuration
func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Width:     1280,
			Height:    720,
			Title:     "Air Distortion",
			VSync:     true,
			FrameRate: 60,
			Resizable: true,
		},
		Camera: CameraConfig{
			Format:    render.FormatRGBA8,
			DepthBits: 24,
		},
		Distortion: DistortionConfig{
			Enabled:    true,
			Event:      render.AfterRenderingOpaques,
			TimeFactor: 0.1,
			Strength:   0.02,
		},
		Noise: NoiseConfig{
			Width:   256,
			Height:  256,
			Scale:   8,
			Octaves: 4,
			Gain:    0.5,
			Seed:    1337,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Headless: HeadlessConfig{
			Width:     320,
			Height:    180,
			Frames:    30,
			FrameTime: 1.0 / 30,
			Output:    "frame.png",
		},
	}
}

// LoadConfig loads the configuration from a file. On error the returned
// config holds the defaults merged with whatever was parsed.
func LoadConfig(filePath string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filePath)
	if err != nil {
		return config, fmt.Errorf("config file not found, using defaults: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return config, fmt.Errorf("error parsing config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to a file
func SaveConfig(config *Config, filePath string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("error serializing config: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// Validate reports every invalid setting
func (c *Config) Validate() error {
	var errs []error

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Window.FrameRate < 0 {
		errs = append(errs, fmt.Errorf("framerate %d must not be negative", c.Window.FrameRate))
	}
	if !c.Camera.Format.Valid() {
		errs = append(errs, fmt.Errorf("camera format %v is not supported", c.Camera.Format))
	}
	if c.Distortion.Strength < 0 {
		errs = append(errs, fmt.Errorf("distortion strength %v must not be negative", c.Distortion.Strength))
	}
	if c.Noise.Path == "" {
		if c.Noise.Width <= 0 || c.Noise.Height <= 0 {
			errs = append(errs, fmt.Errorf("noise size %dx%d must be positive", c.Noise.Width, c.Noise.Height))
		}
		if c.Noise.Scale <= 0 {
			errs = append(errs, fmt.Errorf("noise scale %d must be positive", c.Noise.Scale))
		}
	}
	if c.Headless.Width <= 0 || c.Headless.Height <= 0 {
		errs = append(errs, fmt.Errorf("headless size %dx%d must be positive", c.Headless.Width, c.Headless.Height))
	}
	if c.Headless.Frames < 1 {
		errs = append(errs, fmt.Errorf("headless frames %d must be at least 1", c.Headless.Frames))
	}

	return errors.Join(errs...)
}
