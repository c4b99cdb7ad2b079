package software

import "airdistort/pkg/render"

// ShadeFunc computes the color of one destination texel. uv is the texel
// centre in destination space.
type ShadeFunc func(uv [2]float32, in *Inputs) RGBA

// Shader is a fragment program run on the CPU
type Shader struct {
	name string
	fn   ShadeFunc
}

// NewShader wraps fn as a render.Shader
func NewShader(name string, fn ShadeFunc) *Shader {
	return &Shader{name: name, fn: fn}
}

func (s *Shader) Name() string { return s.name }

// Shade runs the shader for one texel
func (s *Shader) Shade(uv [2]float32, in *Inputs) RGBA {
	return s.fn(uv, in)
}

// Inputs exposes the resolved parameters of a draw to a shader
type Inputs struct {
	params *render.ParamBlock
}

// NewInputs wraps a resolved parameter block
func NewInputs(params *render.ParamBlock) *Inputs {
	return &Inputs{params: params}
}

// Float returns a scalar parameter, zero when unset
func (in *Inputs) Float(id render.PropertyID) float32 {
	v, _ := in.params.Float(id)
	return v
}

// Vector returns a vector parameter, zero when unset
func (in *Inputs) Vector(id render.PropertyID) [4]float32 {
	v, _ := in.params.Vector(id)
	return v
}

// Sampler returns the texture bound to id. Unbound or foreign textures
// sample as transparent black.
func (in *Inputs) Sampler(id render.PropertyID) Sampler {
	t, ok := in.params.Texture(id)
	if !ok {
		return blackSampler{}
	}
	st, ok := t.(*Texture)
	if !ok || st == nil {
		return blackSampler{}
	}
	return st
}

// Main returns the blit source
func (in *Inputs) Main() Sampler {
	return in.Sampler(render.MainTexID)
}
