package render

import (
	"errors"
	"fmt"
	"strings"
)

// TextureFormat is the texel layout of a color texture
type TextureFormat int

// Supported color formats
const (
	FormatRGBA8 TextureFormat = iota
	FormatRGBA16F
	FormatRGBA32F
)

var formatNames = map[TextureFormat]string{
	FormatRGBA8:   "rgba8",
	FormatRGBA16F: "rgba16f",
	FormatRGBA32F: "rgba32f",
}

// String returns the lower-case format name
func (f TextureFormat) String() string {
	if n, ok := formatNames[f]; ok {
		return n
	}
	return fmt.Sprintf("format(%d)", int(f))
}

// Valid reports whether f is a known format
func (f TextureFormat) Valid() bool {
	_, ok := formatNames[f]
	return ok
}

// BytesPerTexel returns the storage size of one texel
func (f TextureFormat) BytesPerTexel() int {
	switch f {
	case FormatRGBA16F:
		return 8
	case FormatRGBA32F:
		return 16
	default:
		return 4
	}
}

// ParseTextureFormat parses a format name such as "rgba8"
func ParseTextureFormat(s string) (TextureFormat, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for f, n := range formatNames {
		if n == key {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown texture format %q", s)
}

// UnmarshalYAML decodes a format from its name
func (f *TextureFormat) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	v, err := ParseTextureFormat(s)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// MarshalYAML encodes a format by name
func (f TextureFormat) MarshalYAML() (interface{}, error) {
	return f.String(), nil
}

// FilterMode selects how a texture is sampled between texel centres
type FilterMode int

const (
	FilterPoint FilterMode = iota
	FilterBilinear
)

func (m FilterMode) String() string {
	if m == FilterBilinear {
		return "bilinear"
	}
	return "point"
}

// WrapMode selects how coordinates outside [0,1] are resolved
type WrapMode int

const (
	WrapClamp WrapMode = iota
	WrapRepeat
)

func (m WrapMode) String() string {
	if m == WrapRepeat {
		return "repeat"
	}
	return "clamp"
}

// TextureDescriptor describes the storage of a render texture
type TextureDescriptor struct {
	Width     int
	Height    int
	Format    TextureFormat
	DepthBits int
}

// Matches reports whether a texture allocated for d can be reused for other
func (d TextureDescriptor) Matches(other TextureDescriptor) bool {
	return d.Width == other.Width &&
		d.Height == other.Height &&
		d.Format == other.Format &&
		d.DepthBits == other.DepthBits
}

// Validate checks that the descriptor can be allocated
func (d TextureDescriptor) Validate() error {
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("invalid texture size %dx%d", d.Width, d.Height)
	}
	if !d.Format.Valid() {
		return fmt.Errorf("invalid texture format %v", d.Format)
	}
	switch d.DepthBits {
	case 0, 16, 24, 32:
	default:
		return fmt.Errorf("unsupported depth bits %d", d.DepthBits)
	}
	return nil
}

func (d TextureDescriptor) String() string {
	return fmt.Sprintf("%dx%d %v depth=%d", d.Width, d.Height, d.Format, d.DepthBits)
}

// Texture is a backend-owned image that can be sampled and rendered into
type Texture interface {
	Name() string
	Descriptor() TextureDescriptor
	Filter() FilterMode
	Wrap() WrapMode
}

// Errors shared by backends
var (
	ErrNilTexture     = errors.New("render: nil texture")
	ErrAliasedBlit    = errors.New("render: blit source and destination are the same texture")
	ErrUnknownTexture = errors.New("render: texture is not owned by this device")
)

// RTHandle owns at most one render texture and re-creates it only when the
// requested allocation no longer matches.
type RTHandle struct {
	tex         Texture
	allocations int
}

// Texture returns the current allocation, or nil
func (h *RTHandle) Texture() Texture {
	return h.tex
}

// Allocations returns how many textures this handle has created
func (h *RTHandle) Allocations() int {
	return h.allocations
}

// ReallocateIfNeeded makes sure the handle holds a texture matching desc,
// filter, wrap and name. It reports whether a new texture was created.
func (h *RTHandle) ReallocateIfNeeded(dev Device, desc TextureDescriptor, filter FilterMode, wrap WrapMode, name string) (bool, error) {
	if h.tex != nil &&
		h.tex.Descriptor().Matches(desc) &&
		h.tex.Filter() == filter &&
		h.tex.Wrap() == wrap &&
		h.tex.Name() == name {
		return false, nil
	}

	if err := h.Release(dev); err != nil {
		return false, err
	}

	tex, err := dev.CreateTexture(name, desc, filter, wrap)
	if err != nil {
		return false, fmt.Errorf("allocate %s (%v): %w", name, desc, err)
	}
	h.tex = tex
	h.allocations++
	return true, nil
}

// Release frees the held texture. Releasing an empty handle is a no-op.
func (h *RTHandle) Release(dev Device) error {
	if h.tex == nil {
		return nil
	}
	tex := h.tex
	h.tex = nil
	if err := dev.ReleaseTexture(tex); err != nil {
		return fmt.Errorf("release %s: %w", tex.Name(), err)
	}
	return nil
}
