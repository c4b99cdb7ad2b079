package distortion

import (
	"airdistort/pkg/render"
	"airdistort/pkg/render/software"
)

// ShaderName is shared by the CPU and GLSL versions of the shader
const ShaderName = "Hidden/AirDistortion"

// Distort computes the distorted sample position for uv. The noise texture
// is scrolled by time*timeFactor and its red/green channels, remapped to
// [-1,1], scale the offset.
func Distort(uv [2]float32, noise software.Sampler, t, timeFactor, strength float32) [2]float32 {
	scroll := t * timeFactor
	n := noise.Sample(uv[0]+scroll, uv[1]+scroll)
	return [2]float32{
		uv[0] + (n[0]*2-1)*strength,
		uv[1] + (n[1]*2-1)*strength,
	}
}

func shade(uv [2]float32, in *software.Inputs) software.RGBA {
	t := in.Vector(render.TimeID)[1]
	p := Distort(uv, in.Sampler(NoiseTexID), t, in.Float(TimeFactorID), in.Float(StrengthID))
	return in.Main().Sample(p[0], p[1])
}

// SoftwareShader returns the distortion shader for the software backend
func SoftwareShader() *software.Shader {
	return software.NewShader(ShaderName, shade)
}

// NewSoftwareMaterial creates a distortion material for the software backend
func NewSoftwareMaterial() *render.Material {
	return render.NewMaterial(FeatureName, SoftwareShader())
}

// FragmentSource is the GLSL 4.10 version of the shader. It expects the
// full-screen vertex stage to provide uv in [0,1].
const FragmentSource = `#version 410 core
in vec2 uv;
out vec4 FragColor;

uniform sampler2D _MainTex;
uniform sampler2D _NoiseTex;
uniform float _DistortTimeFactor;
uniform float _DistortStrength;
uniform vec4 _Time;

void main() {
    float scroll = _Time.y * _DistortTimeFactor;
    vec2 n = texture(_NoiseTex, uv + vec2(scroll)).rg;
    vec2 offset = (n * 2.0 - 1.0) * _DistortStrength;
    FragColor = texture(_MainTex, uv + offset);
}
`
