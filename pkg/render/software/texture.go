package software

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"airdistort/internal/util"
	"airdistort/pkg/render"
)

// RGBA is a linear float color
type RGBA [4]float32

// Sampler reads a texture at normalised coordinates
type Sampler interface {
	Sample(u, v float32) RGBA
}

// Texture is a CPU render texture storing float RGBA texels, row 0 first
type Texture struct {
	id     uint64
	name   string
	desc   render.TextureDescriptor
	filter render.FilterMode
	wrap   render.WrapMode
	pix    []float32
}

func newTexture(id uint64, name string, desc render.TextureDescriptor, filter render.FilterMode, wrap render.WrapMode) *Texture {
	return &Texture{
		id:     id,
		name:   name,
		desc:   desc,
		filter: filter,
		wrap:   wrap,
		pix:    make([]float32, desc.Width*desc.Height*4),
	}
}

func (t *Texture) Name() string                         { return t.name }
func (t *Texture) Descriptor() render.TextureDescriptor { return t.desc }
func (t *Texture) Filter() render.FilterMode           { return t.filter }
func (t *Texture) Wrap() render.WrapMode               { return t.wrap }

// ID returns the device-unique texture identifier
func (t *Texture) ID() uint64 { return t.id }

// At returns the texel at (x, y)
func (t *Texture) At(x, y int) RGBA {
	i := (y*t.desc.Width + x) * 4
	return RGBA{t.pix[i], t.pix[i+1], t.pix[i+2], t.pix[i+3]}
}

// Set stores c at (x, y), quantized to the texture format
func (t *Texture) Set(x, y int, c RGBA) {
	i := (y*t.desc.Width + x) * 4
	for k := 0; k < 4; k++ {
		t.pix[i+k] = Quantize(t.desc.Format, c[k])
	}
}

// Fill sets every texel to c
func (t *Texture) Fill(c RGBA) {
	for y := 0; y < t.desc.Height; y++ {
		for x := 0; x < t.desc.Width; x++ {
			t.Set(x, y, c)
		}
	}
}

// Snapshot returns a copy of the raw texel data
func (t *Texture) Snapshot() []float32 {
	out := make([]float32, len(t.pix))
	copy(out, t.pix)
	return out
}

// Upload copies img into the texture, resampling bilinearly when the sizes
// differ.
func (t *Texture) Upload(img image.Image) error {
	if img == nil {
		return fmt.Errorf("upload %s: nil image", t.name)
	}

	rect := image.Rect(0, 0, t.desc.Width, t.desc.Height)
	src := image.NewNRGBA64(rect)
	if img.Bounds().Size() == rect.Size() {
		draw.Draw(src, rect, img, img.Bounds().Min, draw.Src)
	} else {
		draw.BiLinear.Scale(src, rect, img, img.Bounds(), draw.Src, nil)
	}

	for y := 0; y < t.desc.Height; y++ {
		for x := 0; x < t.desc.Width; x++ {
			c := src.NRGBA64At(x, y)
			t.Set(x, y, RGBA{
				float32(c.R) / 0xffff,
				float32(c.G) / 0xffff,
				float32(c.B) / 0xffff,
				float32(c.A) / 0xffff,
			})
		}
	}
	return nil
}

// Image exports the texture as a non-premultiplied 16-bit image
func (t *Texture) Image() *image.NRGBA64 {
	img := image.NewNRGBA64(image.Rect(0, 0, t.desc.Width, t.desc.Height))
	for y := 0; y < t.desc.Height; y++ {
		for x := 0; x < t.desc.Width; x++ {
			c := t.At(x, y)
			img.SetNRGBA64(x, y, color.NRGBA64{
				R: toUint16(c[0]),
				G: toUint16(c[1]),
				B: toUint16(c[2]),
				A: toUint16(c[3]),
			})
		}
	}
	return img
}

func toUint16(v float32) uint16 {
	return uint16(util.Clamp(v, 0, 1)*0xffff + 0.5)
}

// Sample reads the texture at (u, v) using its own filter and wrap modes.
// Texel centres sit at ((x+0.5)/w, (y+0.5)/h).
func (t *Texture) Sample(u, v float32) RGBA {
	return t.SampleWith(u, v, t.filter, t.wrap)
}

// SampleWith reads the texture with explicit filter and wrap modes
func (t *Texture) SampleWith(u, v float32, filter render.FilterMode, wrap render.WrapMode) RGBA {
	w, h := t.desc.Width, t.desc.Height
	x := u * float32(w)
	y := v * float32(h)

	if filter == render.FilterPoint {
		return t.At(t.index(int(math.Floor(float64(x))), w, wrap), t.index(int(math.Floor(float64(y))), h, wrap))
	}

	x -= 0.5
	y -= 0.5
	fx0 := float32(math.Floor(float64(x)))
	fy0 := float32(math.Floor(float64(y)))
	tx := x - fx0
	ty := y - fy0
	x0, y0 := int(fx0), int(fy0)

	c00 := t.At(t.index(x0, w, wrap), t.index(y0, h, wrap))
	c10 := t.At(t.index(x0+1, w, wrap), t.index(y0, h, wrap))
	c01 := t.At(t.index(x0, w, wrap), t.index(y0+1, h, wrap))
	c11 := t.At(t.index(x0+1, w, wrap), t.index(y0+1, h, wrap))

	var out RGBA
	for k := 0; k < 4; k++ {
		top := util.Lerp(c00[k], c10[k], tx)
		bottom := util.Lerp(c01[k], c11[k], tx)
		out[k] = util.Lerp(top, bottom, ty)
	}
	return out
}

func (t *Texture) index(i, n int, wrap render.WrapMode) int {
	if wrap == render.WrapRepeat {
		return util.WrapIndex(i, n)
	}
	return util.ClampInt(i, 0, n-1)
}

// Quantize rounds v to the precision of format. RGBA8 stores 256 levels in
// [0,1]; float formats keep the value (16-bit floats are not emulated).
func Quantize(format render.TextureFormat, v float32) float32 {
	if format != render.FormatRGBA8 {
		return v
	}
	return float32(math.Round(float64(util.Clamp(v, 0, 1))*255)) / 255
}

// blackSampler is bound for texture properties that are missing
type blackSampler struct{}

func (blackSampler) Sample(u, v float32) RGBA { return RGBA{} }
