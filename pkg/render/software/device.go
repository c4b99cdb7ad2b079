package software

import (
	"context"
	"errors"
	"fmt"

	"airdistort/internal/logger"
	"airdistort/pkg/render"
)

// ErrUnsupportedShader is returned for materials whose shader is not a
// software Shader
var ErrUnsupportedShader = errors.New("software: unsupported shader")

// Stats counts device activity
type Stats struct {
	TexturesCreated  int
	TexturesReleased int
	Blits            int
	Submits          int
}

// Device executes command buffers on the CPU. It is the reference backend
// used in tests and headless runs.
type Device struct {
	log      *logger.Logger
	live     map[*Texture]struct{}
	nextID   uint64
	target   *Texture
	stats    Stats
	released bool
}

// NewDevice creates an empty software device
func NewDevice(log *logger.Logger) *Device {
	return &Device{
		log:  log.With("software"),
		live: make(map[*Texture]struct{}),
	}
}

// Stats returns a copy of the activity counters
func (d *Device) Stats() Stats { return d.stats }

// LiveTextures returns the number of textures not yet released
func (d *Device) LiveTextures() int { return len(d.live) }

// RenderTarget returns the target set by the last SetRenderTarget command
func (d *Device) RenderTarget() *Texture { return d.target }

// CreateTexture allocates a zeroed texture
func (d *Device) CreateTexture(name string, desc render.TextureDescriptor, filter render.FilterMode, wrap render.WrapMode) (render.Texture, error) {
	if d.released {
		return nil, errors.New("software: device closed")
	}
	if err := desc.Validate(); err != nil {
		return nil, err
	}

	d.nextID++
	t := newTexture(d.nextID, name, desc, filter, wrap)
	d.live[t] = struct{}{}
	d.stats.TexturesCreated++
	d.log.Debugf("Created texture %s #%d (%v, %v, %v)", name, t.id, desc, filter, wrap)
	return t, nil
}

// NewTexture is CreateTexture returning the concrete type
func (d *Device) NewTexture(name string, desc render.TextureDescriptor, filter render.FilterMode, wrap render.WrapMode) (*Texture, error) {
	t, err := d.CreateTexture(name, desc, filter, wrap)
	if err != nil {
		return nil, err
	}
	return t.(*Texture), nil
}

// ReleaseTexture frees t. Releasing a texture twice is an error.
func (d *Device) ReleaseTexture(t render.Texture) error {
	st, err := d.owned(t)
	if err != nil {
		return err
	}
	delete(d.live, st)
	st.pix = nil
	if d.target == st {
		d.target = nil
	}
	d.stats.TexturesReleased++
	d.log.Debugf("Released texture %s #%d", st.name, st.id)
	return nil
}

func (d *Device) owned(t render.Texture) (*Texture, error) {
	if t == nil {
		return nil, render.ErrNilTexture
	}
	st, ok := t.(*Texture)
	if !ok {
		return nil, fmt.Errorf("%w: %s is %T", render.ErrUnknownTexture, t.Name(), t)
	}
	if _, live := d.live[st]; !live {
		return nil, fmt.Errorf("%w: %s", render.ErrUnknownTexture, st.name)
	}
	return st, nil
}

// Submit executes the commands of cmd in order
func (d *Device) Submit(ctx context.Context, cmd *render.CommandBuffer) error {
	d.stats.Submits++
	for i, c := range cmd.Commands() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.execute(c); err != nil {
			return fmt.Errorf("%s: command %d (%v): %w", cmd.Name(), i, c.Kind, err)
		}
	}
	return nil
}

func (d *Device) execute(c render.Command) error {
	switch c.Kind {
	case render.CmdSetRenderTarget:
		t, err := d.owned(c.Target)
		if err != nil {
			return err
		}
		d.target = t
		return nil
	case render.CmdBlit:
		return d.blit(c)
	case render.CmdReleaseTemporary:
		// temporaries are owned by their RTHandle; nothing to do here
		return nil
	default:
		return fmt.Errorf("software: unknown command %v", c.Kind)
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
	d.stats.Blits++

	w, h := dst.desc.Width, dst.desc.Height

	if c.Material == nil {
		if src.desc.Width == w && src.desc.Height == h {
			for y := 0; y < h; y++ {
				for x := 0; x < w; x++ {
					dst.Set(x, y, src.At(x, y))
				}
			}
			return nil
		}
		d.eachTexel(dst, func(uv [2]float32) RGBA {
			return src.SampleWith(uv[0], uv[1], render.FilterBilinear, render.WrapClamp)
		})
		return nil
	}

	shader, ok := c.Material.Shader().(*Shader)
	if !ok {
		return fmt.Errorf("%w: material %s uses %T", ErrUnsupportedShader, c.Material.Name(), c.Material.Shader())
	}

	params := c.Material.ResolveParams(c.Params)
	params.SetTexture(render.MainTexID, src)
	params.SetVector(render.MainTexTexelSizeID, [4]float32{
		1 / float32(src.desc.Width), 1 / float32(src.desc.Height),
		float32(src.desc.Width), float32(src.desc.Height),
	})
	in := NewInputs(params)

	d.eachTexel(dst, func(uv [2]float32) RGBA {
		return shader.Shade(uv, in)
	})
	return nil
}

func (d *Device) eachTexel(dst *Texture, fn func(uv [2]float32) RGBA) {
	w, h := dst.desc.Width, dst.desc.Height
	for y := 0; y < h; y++ {
		v := (float32(y) + 0.5) / float32(h)
		for x := 0; x < w; x++ {
			u := (float32(x) + 0.5) / float32(w)
			dst.Set(x, y, fn([2]float32{u, v}))
		}
	}
}

// Close releases every live texture
func (d *Device) Close() error {
	for t := range d.live {
		delete(d.live, t)
		t.pix = nil
		d.stats.TexturesReleased++
	}
	d.target = nil
	d.released = true
	return nil
}
