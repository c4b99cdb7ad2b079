package render

// Shader is a backend program. Each backend accepts only its own shader
// implementation and reports an error for anything else.
type Shader interface {
	Name() string
}

// Material pairs a shader with asset-level parameter values. Its
// properties are shared by every pass that references the material; use
// per-draw parameter blocks on CommandBuffer.Blit for pass-local values.
type Material struct {
	name   string
	shader Shader
	props  *ParamBlock
	writes int
}

// NewMaterial creates a material for shader
func NewMaterial(name string, shader Shader) *Material {
	return &Material{
		name:   name,
		shader: shader,
		props:  NewParamBlock(),
	}
}

// Name returns the material name
func (m *Material) Name() string { return m.name }

// Shader returns the material's shader
func (m *Material) Shader() Shader { return m.shader }

// Properties returns the shared parameter values
func (m *Material) Properties() *ParamBlock { return m.props }

// Writes returns how many property assignments the material has received
func (m *Material) Writes() int { return m.writes }

// SetFloat assigns a shared scalar property
func (m *Material) SetFloat(id PropertyID, v float32) {
	m.props.SetFloat(id, v)
	m.writes++
}

// SetVector assigns a shared vector property
func (m *Material) SetVector(id PropertyID, v [4]float32) {
	m.props.SetVector(id, v)
	m.writes++
}

// SetTexture assigns a shared texture property
func (m *Material) SetTexture(id PropertyID, t Texture) {
	m.props.SetTexture(id, t)
	m.writes++
}

// ResolveParams returns the values a draw with this material sees: the
// shared properties overridden by the per-draw block.
func (m *Material) ResolveParams(perDraw *ParamBlock) *ParamBlock {
	var shared *ParamBlock
	if m != nil {
		shared = m.props
	}
	return shared.Clone().Merge(perDraw)
}
