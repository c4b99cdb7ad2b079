package distortion

import (
	"fmt"

	"airdistort/internal/logger"
	"airdistort/pkg/render"
)

// Feature registers the distortion pass with a renderer
type Feature struct {
	settings Settings
	log      *logger.Logger
	pass     *Pass
	creates  int
}

// NewFeature creates a feature with the given settings. Nothing is
// allocated until Create.
func NewFeature(settings Settings, log *logger.Logger) *Feature {
	return &Feature{
		settings: settings,
		log:      log.With("distortion"),
	}
}

func (f *Feature) Name() string { return FeatureName }

// Settings returns the live settings. Edits take effect at the next Create.
func (f *Feature) Settings() *Settings { return &f.settings }

// Pass returns the pass built by the last Create
func (f *Feature) Pass() *Pass { return f.pass }

// Creates returns how many times the parameters were snapshotted
func (f *Feature) Creates() int { return f.creates }

// Create snapshots the shader parameters and builds the pass. Calling it
// again disposes the previous pass first.
func (f *Feature) Create(dev render.Device) error {
	if err := f.settings.validate(); err != nil {
		return err
	}

	if f.pass != nil {
		if err := f.pass.Dispose(); err != nil {
			return fmt.Errorf("dispose previous pass: %w", err)
		}
	}

	params := f.settings.params()
	if f.settings.ApplyToMaterial {
		m := f.settings.Material
		m.SetFloat(TimeFactorID, f.settings.TimeFactor)
		m.SetFloat(StrengthID, f.settings.Strength)
		m.SetTexture(NoiseTexID, f.settings.NoiseTex)
	}

	f.pass = NewPass(dev, f.settings.Event, f.settings.Material, params, f.log)
	f.creates++
	f.log.Infof("Created %s at %v (time factor %.3f, strength %.3f)",
		PassName, f.settings.Event, f.settings.TimeFactor, f.settings.Strength)
	return nil
}

// SetupPasses hands the camera color target to the pass
func (f *Feature) SetupPasses(r *render.Renderer, frame *render.FrameData) error {
	if !f.settings.Enabled {
		return nil
	}
	if f.pass == nil {
		return fmt.Errorf("%s: Create has not been called", FeatureName)
	}
	f.pass.Setup(r.CameraColorTarget())
	return nil
}

// AddPasses enqueues the pass when the feature is enabled
func (f *Feature) AddPasses(r *render.Renderer, frame *render.FrameData) {
	if f.settings.Enabled && f.pass != nil {
		r.EnqueuePass(f.pass)
	}
}

// Dispose releases the pass's temporary texture
func (f *Feature) Dispose() error {
	if f.pass == nil {
		return nil
	}
	f.log.Info("Disposing distortion pass")
	return f.pass.Dispose()
}
