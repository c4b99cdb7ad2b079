package distortion

import (
	"errors"

	"airdistort/pkg/render"
)

// Shader property names consumed by the distortion shader
var (
	TimeFactorID = render.PropertyToID("_DistortTimeFactor")
	StrengthID   = render.PropertyToID("_DistortStrength")
	NoiseTexID   = render.PropertyToID("_NoiseTex")
)

const (
	// PassName labels the pass's command buffers
	PassName = "AirDistortion01"

	// FeatureName identifies the feature in logs and errors
	FeatureName = "AirDistortion"

	// TemporaryTextureName names the intermediate color texture
	TemporaryTextureName = "_TemporaryColorTexture"
)

var (
	ErrNoMaterial     = errors.New("distortion: material is nil")
	ErrNoNoiseTexture = errors.New("distortion: noise texture is nil")
	ErrNoSource       = errors.New("distortion: source color target is nil")
	ErrNotPrepared    = errors.New("distortion: temporary texture not allocated, OnCameraSetup must run first")
	ErrAliasedTarget  = errors.New("distortion: source aliases the temporary texture")
)

// Settings configures the distortion feature
type Settings struct {
	Enabled    bool
	Event      render.PassEvent
	Material   *render.Material
	TimeFactor float32 // noise scroll speed
	Strength   float32 // maximum UV offset
	NoiseTex   render.Texture

	// ApplyToMaterial also writes the three parameters onto the shared
	// material at Create, for shaders that read them from the material
	// instead of the per-draw block.
	ApplyToMaterial bool
}

// DefaultSettings returns an enabled feature scheduled after opaques
func DefaultSettings() Settings {
	return Settings{
		Enabled:    true,
		Event:      render.AfterRenderingOpaques,
		TimeFactor: 0.1,
		Strength:   0.02,
	}
}

// params snapshots the shader parameters
func (s *Settings) params() *render.ParamBlock {
	b := render.NewParamBlock()
	b.SetFloat(TimeFactorID, s.TimeFactor)
	b.SetFloat(StrengthID, s.Strength)
	b.SetTexture(NoiseTexID, s.NoiseTex)
	return b
}

func (s *Settings) validate() error {
	if s.Material == nil {
		return ErrNoMaterial
	}
	if s.NoiseTex == nil {
		return ErrNoNoiseTexture
	}
	return nil
}
