package noise

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"

	"airdistort/internal/util"
)

// TextureOptions controls procedural noise texture generation
type TextureOptions struct {
	Width   int
	Height  int
	Scale   int     // lattice cells across one tile
	Octaves int     // fBm octaves
	Gain    float64 // amplitude falloff per octave
}

// DefaultTextureOptions returns a 256x256 tile with four octaves
func DefaultTextureOptions() TextureOptions {
	return TextureOptions{
		Width:   256,
		Height:  256,
		Scale:   8,
		Octaves: 4,
		Gain:    0.5,
	}
}

// Texture renders a tileable two-channel noise image. Red and green carry
// independent fBm fields remapped to [0,1], blue is zero and alpha opaque.
func (g *Generator) Texture(opts TextureOptions) (*image.NRGBA, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid noise texture size %dx%d", opts.Width, opts.Height)
	}
	if opts.Scale <= 0 {
		return nil, fmt.Errorf("noise scale must be positive, got %d", opts.Scale)
	}

	img := image.NewNRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	for py := 0; py < opts.Height; py++ {
		y := float64(py) / float64(opts.Height) * float64(opts.Scale)
		for px := 0; px < opts.Width; px++ {
			x := float64(px) / float64(opts.Width) * float64(opts.Scale)

			r := g.fbm(x, y, opts.Octaves, 2, opts.Gain, opts.Scale, 0)
			gr := g.fbm(x, y, opts.Octaves, 2, opts.Gain, opts.Scale, 1)

			img.SetNRGBA(px, py, color.NRGBA{
				R: toByte(r),
				G: toByte(gr),
				B: 0,
				A: 255,
			})
		}
	}
	return img, nil
}

// toByte maps noise in [-1,1] onto [0,255]
func toByte(n float64) uint8 {
	v := util.Clamp(0.5+0.5*n, 0, 1)
	return uint8(v*255 + 0.5)
}

// Load decodes a noise image from disk. When width and height are positive
// and differ from the file's size the image is resampled with Catmull-Rom.
func Load(path string, width, height int) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open noise texture: %w", err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode noise texture %s: %w", path, err)
	}

	b := src.Bounds()
	if width <= 0 || height <= 0 {
		width, height = b.Dx(), b.Dy()
	}

	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	if width == b.Dx() && height == b.Dy() {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	}

	return dst, nil
}
