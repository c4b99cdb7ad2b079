package opengl

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"airdistort/internal/logger"
	"airdistort/pkg/render"
)

// ErrUnsupportedShader is returned for materials whose shader is not a GLSL
// Shader
var ErrUnsupportedShader = errors.New("opengl: unsupported shader")

// Device renders with OpenGL 4.1 core. Every method must be called on the
// thread that owns the current GL context.
type Device struct {
	log      *logger.Logger
	programs map[string]*program
	textures map[*Texture]struct{}
	quadVAO  uint32
	quadVBO  uint32
	blits    int
}

// NewDevice loads GL entry points for the current context and creates the
// shared full-screen quad
func NewDevice(log *logger.Logger) (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	d := &Device{
		log:      log.With("opengl"),
		programs: make(map[string]*program),
		textures: make(map[*Texture]struct{}),
	}
	d.setupScreenQuad()
	d.log.Infof("OpenGL %s", gl.GoStr(gl.GetString(gl.VERSION)))
	return d, nil
}

// setupScreenQuad creates a full-screen quad drawn as a triangle strip
func (d *Device) setupScreenQuad() {
	vertices := []float32{
		// Positions // Texture coords
		-1.0, -1.0, 0.0, 0.0,
		1.0, -1.0, 1.0, 0.0,
		-1.0, 1.0, 0.0, 1.0,
		1.0, 1.0, 1.0, 1.0,
	}

	gl.GenVertexArrays(1, &d.quadVAO)
	gl.GenBuffers(1, &d.quadVBO)
	gl.BindVertexArray(d.quadVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 4*4, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, 4*4, gl.PtrOffset(2*4))
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
}

// CreateTexture allocates a texture and its framebuffer
func (d *Device) CreateTexture(name string, desc render.TextureDescriptor, filter render.FilterMode, wrap render.WrapMode) (render.Texture, error) {
	return d.NewTexture(name, desc, filter, wrap)
}

// NewTexture is CreateTexture returning the concrete type
func (d *Device) NewTexture(name string, desc render.TextureDescriptor, filter render.FilterMode, wrap render.WrapMode) (*Texture, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	t := &Texture{name: name, desc: desc, filter: filter, wrap: wrap}
	if err := t.allocate(); err != nil {
		return nil, err
	}
	d.textures[t] = struct{}{}
	d.log.Debugf("Created texture %s (%v) id=%d fbo=%d", name, desc, t.id, t.fbo)
	return t, nil
}

// DefaultFramebuffer wraps the window's framebuffer as a blit target
func (d *Device) DefaultFramebuffer(width, height int) *Texture {
	return &Texture{
		name:     "_Backbuffer",
		desc:     render.TextureDescriptor{Width: width, Height: height, Format: render.FormatRGBA8},
		external: true,
	}
}

// ReleaseTexture deletes a texture created by this device
func (d *Device) ReleaseTexture(t render.Texture) error {
	gt, err := d.owned(t)
	if err != nil {
		return err
	}
	delete(d.textures, gt)
	gt.delete()
	d.log.Debugf("Released texture %s", gt.name)
	return nil
}

func (d *Device) owned(t render.Texture) (*Texture, error) {
	if t == nil {
		return nil, render.ErrNilTexture
	}
	gt, ok := t.(*Texture)
	if !ok {
		return nil, fmt.Errorf("%w: %s is %T", render.ErrUnknownTexture, t.Name(), t)
	}
	if _, live := d.textures[gt]; !live && !gt.external {
		return nil, fmt.Errorf("%w: %s", render.ErrUnknownTexture, gt.name)
	}
	return gt, nil
}

// Submit executes cmd on the GPU
func (d *Device) Submit(ctx context.Context, cmd *render.CommandBuffer) error {
	for i, c := range cmd.Commands() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.execute(c); err != nil {
			return fmt.Errorf("%s: command %d (%v): %w", cmd.Name(), i, c.Kind, err)
		}
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	return nil
}

func (d *Device) execute(c render.Command) error {
	switch c.Kind {
	case render.CmdSetRenderTarget:
		t, err := d.owned(c.Target)
		if err != nil {
			return err
		}
		gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
		gl.Viewport(0, 0, int32(t.desc.Width), int32(t.desc.Height))
		return nil
	case render.CmdBlit:
		return d.blit(c)
	case render.CmdReleaseTemporary:
		return nil
	default:
		return fmt.Errorf("opengl: unknown command %v", c.Kind)
	}
}

func (d *Device) blit(c render.Command) error {
	if err := render.ValidateBlit(c); err != nil {
		return err
	}
	src, err := d.owned(c.Source)
	if err != nil {
		return err
	}
	dst, err := d.owned(c.Target)
	if err != nil {
		return err
	}
	d.blits++

	if c.Material == nil {
		d.copyFramebuffer(src, dst, false)
		return nil
	}

	shader, ok := c.Material.Shader().(*Shader)
	if !ok {
		return fmt.Errorf("%w: material %s uses %T", ErrUnsupportedShader, c.Material.Name(), c.Material.Shader())
	}
	prog, err := d.program(shader)
	if err != nil {
		return err
	}

	params := c.Material.ResolveParams(c.Params)
	params.SetTexture(render.MainTexID, src)
	params.SetVector(render.MainTexTexelSizeID, [4]float32{
		1 / float32(src.desc.Width), 1 / float32(src.desc.Height),
		float32(src.desc.Width), float32(src.desc.Height),
	})

	gl.BindFramebuffer(gl.FRAMEBUFFER, dst.fbo)
	gl.Viewport(0, 0, int32(dst.desc.Width), int32(dst.desc.Height))
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.BLEND)
	gl.UseProgram(prog.id)

	if err := d.bindParams(prog, params); err != nil {
		return err
	}

	gl.BindVertexArray(d.quadVAO)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
	gl.BindVertexArray(0)
	gl.UseProgram(0)
	return nil
}

// bindParams uploads every parameter as a uniform of the same name.
// Textures take consecutive units starting at 0.
func (d *Device) bindParams(prog *program, params *render.ParamBlock) error {
	var unit uint32
	var bindErr error
	params.Range(func(id render.PropertyID, p render.Param) {
		if bindErr != nil {
			return
		}
		loc := prog.location(id.Name())
		switch p.Kind {
		case render.ParamFloat:
			gl.Uniform1f(loc, p.Float)
		case render.ParamVector:
			gl.Uniform4f(loc, p.Vector[0], p.Vector[1], p.Vector[2], p.Vector[3])
		case render.ParamTexture:
			t, err := d.owned(p.Texture)
			if err != nil {
				bindErr = fmt.Errorf("bind %s: %w", id.Name(), err)
				return
			}
			gl.ActiveTexture(gl.TEXTURE0 + unit)
			gl.BindTexture(gl.TEXTURE_2D, t.id)
			gl.Uniform1i(loc, int32(unit))
			unit++
		}
	})
	gl.ActiveTexture(gl.TEXTURE0)
	return bindErr
}

// copyFramebuffer blits src onto dst. flip mirrors the image vertically,
// used when presenting to the window.
func (d *Device) copyFramebuffer(src, dst *Texture, flip bool) {
	filter := uint32(gl.NEAREST)
	if src.desc.Width != dst.desc.Width || src.desc.Height != dst.desc.Height {
		filter = gl.LINEAR
	}

	dy0, dy1 := int32(0), int32(dst.desc.Height)
	if flip {
		dy0, dy1 = dy1, dy0
	}

	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, src.fbo)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, dst.fbo)
	gl.BlitFramebuffer(
		0, 0, int32(src.desc.Width), int32(src.desc.Height),
		0, dy0, int32(dst.desc.Width), dy1,
		gl.COLOR_BUFFER_BIT, filter,
	)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// Present copies src to the window, flipping rows so image row 0 ends up
// at the top of the screen
func (d *Device) Present(src *Texture, width, height int) {
	d.copyFramebuffer(src, d.DefaultFramebuffer(width, height), true)
}

func (d *Device) program(s *Shader) (*program, error) {
	if p, ok := d.programs[s.name]; ok {
		return p, nil
	}
	id, err := createShaderProgram(quadVertexShader, s.fragment)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", s.name, err)
	}
	p := &program{id: id, uniforms: make(map[string]int32)}
	d.programs[s.name] = p
	d.log.Debugf("Compiled shader %s", s.name)
	return p, nil
}

// Blits returns the number of blits executed
func (d *Device) Blits() int { return d.blits }

// Close releases every GL object the device created
func (d *Device) Close() error {
	for t := range d.textures {
		t.delete()
	}
	d.textures = make(map[*Texture]struct{})
	for name, p := range d.programs {
		gl.DeleteProgram(p.id)
		delete(d.programs, name)
	}
	gl.DeleteVertexArrays(1, &d.quadVAO)
	gl.DeleteBuffers(1, &d.quadVBO)
	return nil
}
