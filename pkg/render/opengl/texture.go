package opengl

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/go-gl/gl/v4.1-core/gl"

	"airdistort/pkg/render"
)

// Texture is a GL color texture with its own framebuffer. The default
// framebuffer is represented by a Texture with id and fbo zero.
type Texture struct {
	name   string
	desc   render.TextureDescriptor
	filter render.FilterMode
	wrap   render.WrapMode

	id  uint32
	fbo uint32
	rbo uint32

	external bool
}

func (t *Texture) Name() string                         { return t.name }
func (t *Texture) Descriptor() render.TextureDescriptor { return t.desc }
func (t *Texture) Filter() render.FilterMode            { return t.filter }
func (t *Texture) Wrap() render.WrapMode                { return t.wrap }

// ID returns the GL texture name
func (t *Texture) ID() uint32 { return t.id }

// Framebuffer returns the GL framebuffer name
func (t *Texture) Framebuffer() uint32 { return t.fbo }

// formatParams maps a render format to GL internal format and upload type
func formatParams(f render.TextureFormat) (internal int32, pixelType uint32) {
	switch f {
	case render.FormatRGBA16F:
		return gl.RGBA16F, gl.HALF_FLOAT
	case render.FormatRGBA32F:
		return gl.RGBA32F, gl.FLOAT
	default:
		return gl.RGBA8, gl.UNSIGNED_BYTE
	}
}

func glFilter(m render.FilterMode) int32 {
	if m == render.FilterBilinear {
		return gl.LINEAR
	}
	return gl.NEAREST
}

func glWrap(m render.WrapMode) int32 {
	if m == render.WrapRepeat {
		return gl.REPEAT
	}
	return gl.CLAMP_TO_EDGE
}

// allocate creates the GL objects backing t
func (t *Texture) allocate() error {
	internal, pixelType := formatParams(t.desc.Format)

	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internal, int32(t.desc.Width), int32(t.desc.Height), 0, gl.RGBA, pixelType, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, glFilter(t.filter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, glFilter(t.filter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, glWrap(t.wrap))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, glWrap(t.wrap))

	gl.GenFramebuffers(1, &t.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, t.id, 0)

	// Depth only when asked for; blit temporaries have none
	if t.desc.DepthBits > 0 {
		gl.GenRenderbuffers(1, &t.rbo)
		gl.BindRenderbuffer(gl.RENDERBUFFER, t.rbo)
		gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH24_STENCIL8, int32(t.desc.Width), int32(t.desc.Height))
		gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_STENCIL_ATTACHMENT, gl.RENDERBUFFER, t.rbo)
	}

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if status != gl.FRAMEBUFFER_COMPLETE {
		t.delete()
		return fmt.Errorf("framebuffer for %s not complete (status 0x%x)", t.name, status)
	}
	return nil
}

func (t *Texture) delete() {
	if t.external {
		return
	}
	if t.rbo != 0 {
		gl.DeleteRenderbuffers(1, &t.rbo)
		t.rbo = 0
	}
	if t.fbo != 0 {
		gl.DeleteFramebuffers(1, &t.fbo)
		t.fbo = 0
	}
	if t.id != 0 {
		gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}

// Upload replaces the texture contents with img. img must match the
// texture size.
func (t *Texture) Upload(img image.Image) error {
	if t.external {
		return fmt.Errorf("upload %s: cannot upload to the default framebuffer", t.name)
	}
	b := img.Bounds()
	if b.Dx() != t.desc.Width || b.Dy() != t.desc.Height {
		return fmt.Errorf("upload %s: image is %dx%d, texture is %dx%d", t.name, b.Dx(), b.Dy(), t.desc.Width, t.desc.Height)
	}

	rgba, ok := img.(*image.NRGBA)
	if !ok || rgba.Stride != 4*b.Dx() {
		rgba = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	}

	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(b.Dx()), int32(b.Dy()), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba.Pix))
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return nil
}
