package software

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"

	"airdistort/internal/logger"
	"airdistort/pkg/render"
)

func newTestDevice(t *testing.T) *Device {
	t.Helper()
	return NewDevice(logger.Discard())
}

func mustTexture(t *testing.T, d *Device, name string, w, h int, format render.TextureFormat) *Texture {
	t.Helper()
	tex, err := d.NewTexture(name, render.TextureDescriptor{Width: w, Height: h, Format: format}, render.FilterPoint, render.WrapClamp)
	if err != nil {
		t.Fatalf("NewTexture(%s): %v", name, err)
	}
	return tex
}

func gradient(tex *Texture) {
	w, h := tex.desc.Width, tex.desc.Height
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			tex.Set(x, y, RGBA{float32(x) / float32(w), float32(y) / float32(h), 0.5, 1})
		}
	}
}

func TestCreateAndReleaseTexture(t *testing.T) {
	d := newTestDevice(t)

	if _, err := d.CreateTexture("bad", render.TextureDescriptor{Width: 0, Height: 4}, render.FilterPoint, render.WrapClamp); err == nil {
		t.Errorf("zero-width texture created")
	}

	tex := mustTexture(t, d, "a", 4, 4, render.FormatRGBA8)
	if d.LiveTextures() != 1 {
		t.Fatalf("LiveTextures = %d, want 1", d.LiveTextures())
	}
	if err := d.ReleaseTexture(tex); err != nil {
		t.Fatalf("ReleaseTexture: %v", err)
	}
	if err := d.ReleaseTexture(tex); !errors.Is(err, render.ErrUnknownTexture) {
		t.Errorf("second release = %v, want ErrUnknownTexture", err)
	}
	if err := d.ReleaseTexture(nil); !errors.Is(err, render.ErrNilTexture) {
		t.Errorf("nil release = %v, want ErrNilTexture", err)
	}

	st := d.Stats()
	if st.TexturesCreated != 1 || st.TexturesReleased != 1 {
		t.Errorf("stats = %+v", st)
	}
}

func TestSamplePointAndBilinear(t *testing.T) {
	d := newTestDevice(t)
	tex := mustTexture(t, d, "s", 2, 1, render.FormatRGBA32F)
	tex.Set(0, 0, RGBA{0, 0, 0, 1})
	tex.Set(1, 0, RGBA{1, 1, 1, 1})

	tests := []struct {
		name   string
		u      float32
		filter render.FilterMode
		wrap   render.WrapMode
		want   float32
	}{
		{"point left centre", 0.25, render.FilterPoint, render.WrapClamp, 0},
		{"point right centre", 0.75, render.FilterPoint, render.WrapClamp, 1},
		{"bilinear midpoint", 0.5, render.FilterBilinear, render.WrapClamp, 0.5},
		{"bilinear clamp past edge", 1.5, render.FilterBilinear, render.WrapClamp, 1},
		{"point repeat", 1.25, render.FilterPoint, render.WrapRepeat, 0},
		{"point clamp negative", -0.5, render.FilterPoint, render.WrapClamp, 0},
		{"bilinear repeat seam", 0, render.FilterBilinear, render.WrapRepeat, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tex.SampleWith(tt.u, 0.5, tt.filter, tt.wrap)
			if got[0] != tt.want {
				t.Errorf("sample(%v) = %v, want %v", tt.u, got[0], tt.want)
			}
		})
	}
}

func TestQuantize(t *testing.T) {
	if got := Quantize(render.FormatRGBA8, 0.5); got != 128.0/255 {
		t.Errorf("Quantize rgba8 0.5 = %v, want 128/255", got)
	}
	if got := Quantize(render.FormatRGBA8, 2); got != 1 {
		t.Errorf("Quantize rgba8 clamps high: %v", got)
	}
	if got := Quantize(render.FormatRGBA32F, 2); got != 2 {
		t.Errorf("Quantize rgba32f = %v, want 2", got)
	}
}

func TestIdentityBlitCopiesExactly(t *testing.T) {
	d := newTestDevice(t)
	src := mustTexture(t, d, "src", 5, 3, render.FormatRGBA8)
	dst := mustTexture(t, d, "dst", 5, 3, render.FormatRGBA8)
	gradient(src)

	cb := render.NewCommandBuffer("copy")
	cb.Blit(src, dst, nil, nil)
	if err := d.Submit(context.Background(), cb); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	for y := 0; y < 3; y++ {
		for x := 0; x < 5; x++ {
			if src.At(x, y) != dst.At(x, y) {
				t.Fatalf("texel (%d,%d) = %v, want %v", x, y, dst.At(x, y), src.At(x, y))
			}
		}
	}
	if d.Stats().Blits != 1 {
		t.Errorf("Blits = %d, want 1", d.Stats().Blits)
	}
}

func TestScaledBlit(t *testing.T) {
	d := newTestDevice(t)
	src := mustTexture(t, d, "src", 4, 4, render.FormatRGBA32F)
	dst := mustTexture(t, d, "dst", 2, 2, render.FormatRGBA32F)
	src.Fill(RGBA{0.25, 0.5, 0.75, 1})

	cb := render.NewCommandBuffer("downsample")
	cb.Blit(src, dst, nil, nil)
	if err := d.Submit(context.Background(), cb); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if got := dst.At(1, 1); got != (RGBA{0.25, 0.5, 0.75, 1}) {
		t.Errorf("downsampled texel = %v", got)
	}
}

func TestMaterialBlitUsesResolvedParams(t *testing.T) {
	d := newTestDevice(t)
	src := mustTexture(t, d, "src", 2, 2, render.FormatRGBA32F)
	dst := mustTexture(t, d, "dst", 2, 2, render.FormatRGBA32F)
	src.Fill(RGBA{0.5, 0.5, 0.5, 1})

	gain := render.PropertyToID("_TestGain")
	bias := render.PropertyToID("_TestBias")
	shader := NewShader("gain", func(uv [2]float32, in *Inputs) RGBA {
		c := in.Main().Sample(uv[0], uv[1])
		g := in.Float(gain)
		return RGBA{c[0]*g + in.Float(bias), c[1] * g, c[2] * g, c[3]}
	})

	mat := render.NewMaterial("gain", shader)
	mat.SetFloat(gain, 10)
	mat.SetFloat(bias, 0.25)

	perDraw := render.NewParamBlock()
	perDraw.SetFloat(gain, 2)

	cb := render.NewCommandBuffer("shade")
	cb.Blit(src, dst, mat, perDraw)
	if err := d.Submit(context.Background(), cb); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	want := RGBA{1.25, 1, 1, 1}
	if got := dst.At(0, 0); got != want {
		t.Errorf("shaded texel = %v, want %v", got, want)
	}
	if v, _ := mat.Properties().Float(gain); v != 10 {
		t.Errorf("material gain changed to %v", v)
	}
	if _, ok := mat.Properties().Texture(render.MainTexID); ok {
		t.Errorf("_MainTex leaked into shared material properties")
	}
}

type foreignShader struct{}

func (foreignShader) Name() string { return "glsl" }

func TestBlitErrors(t *testing.T) {
	d := newTestDevice(t)
	a := mustTexture(t, d, "a", 2, 2, render.FormatRGBA8)
	b := mustTexture(t, d, "b", 2, 2, render.FormatRGBA8)
	gone := mustTexture(t, d, "gone", 2, 2, render.FormatRGBA8)
	if err := d.ReleaseTexture(gone); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		record func(cb *render.CommandBuffer)
		want   error
	}{
		{"aliased", func(cb *render.CommandBuffer) { cb.Blit(a, a, nil, nil) }, render.ErrAliasedBlit},
		{"released source", func(cb *render.CommandBuffer) { cb.Blit(gone, b, nil, nil) }, render.ErrUnknownTexture},
		{"nil target", func(cb *render.CommandBuffer) { cb.Blit(a, nil, nil, nil) }, render.ErrNilTexture},
		{"foreign shader", func(cb *render.CommandBuffer) {
			cb.Blit(a, b, render.NewMaterial("x", foreignShader{}), nil)
		}, ErrUnsupportedShader},
		{"released target", func(cb *render.CommandBuffer) { cb.SetRenderTarget(gone) }, render.ErrUnknownTexture},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cb := render.NewCommandBuffer(tt.name)
			tt.record(cb)
			if err := d.Submit(context.Background(), cb); !errors.Is(err, tt.want) {
				t.Errorf("Submit = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSetRenderTarget(t *testing.T) {
	d := newTestDevice(t)
	a := mustTexture(t, d, "a", 2, 2, render.FormatRGBA8)

	cb := render.NewCommandBuffer("target")
	cb.SetRenderTarget(a)
	cb.ReleaseTemporary(a)
	if err := d.Submit(context.Background(), cb); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if d.RenderTarget() != a {
		t.Errorf("RenderTarget = %v, want a", d.RenderTarget())
	}
	if d.LiveTextures() != 1 {
		t.Errorf("ReleaseTemporary freed the texture")
	}
}

func TestUploadAndImage(t *testing.T) {
	d := newTestDevice(t)
	tex := mustTexture(t, d, "img", 2, 2, render.FormatRGBA8)

	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	img.SetNRGBA(1, 1, color.NRGBA{B: 255, A: 255})
	if err := tex.Upload(img); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if got := tex.At(0, 0); got != (RGBA{1, 0, 0, 1}) {
		t.Errorf("texel (0,0) = %v", got)
	}

	out := tex.Image()
	if c := out.NRGBA64At(1, 1); c.B != 0xffff || c.R != 0 {
		t.Errorf("exported (1,1) = %v", c)
	}

	big := mustTexture(t, d, "big", 4, 4, render.FormatRGBA8)
	if err := big.Upload(img); err != nil {
		t.Fatalf("resampling Upload: %v", err)
	}
	if err := big.Upload(nil); err == nil {
		t.Errorf("nil upload accepted")
	}
}

func TestCloseReleasesEverything(t *testing.T) {
	d := newTestDevice(t)
	mustTexture(t, d, "a", 1, 1, render.FormatRGBA8)
	mustTexture(t, d, "b", 1, 1, render.FormatRGBA8)
	if err := d.Close(); err != nil {
		t.Fatal(err)
	}
	if d.LiveTextures() != 0 {
		t.Errorf("LiveTextures after Close = %d", d.LiveTextures())
	}
	if _, err := d.CreateTexture("c", render.TextureDescriptor{Width: 1, Height: 1}, render.FilterPoint, render.WrapClamp); err == nil {
		t.Errorf("CreateTexture after Close succeeded")
	}
}
