package render

import (
	"fmt"
	"strconv"
	"strings"
)

// PassEvent is the point in a frame at which a pass is scheduled.
// Passes run in ascending event order.
type PassEvent int

// Scheduling points
const (
	BeforeRendering               PassEvent = 0
	BeforeRenderingShadows        PassEvent = 50
	AfterRenderingShadows         PassEvent = 100
	BeforeRenderingPrePasses      PassEvent = 150
	AfterRenderingPrePasses       PassEvent = 200
	BeforeRenderingGbuffer        PassEvent = 210
	AfterRenderingGbuffer         PassEvent = 220
	BeforeRenderingDeferredLights PassEvent = 230
	AfterRenderingDeferredLights  PassEvent = 240
	BeforeRenderingOpaques        PassEvent = 250
	AfterRenderingOpaques         PassEvent = 300
	BeforeRenderingSkybox         PassEvent = 350
	AfterRenderingSkybox          PassEvent = 400
	BeforeRenderingTransparents   PassEvent = 450
	AfterRenderingTransparents    PassEvent = 500
	BeforeRenderingPostProcessing PassEvent = 550
	AfterRenderingPostProcessing  PassEvent = 600
	AfterRendering                PassEvent = 1000
)

var passEventNames = []struct {
	event PassEvent
	name  string
}{
	{BeforeRendering, "before_rendering"},
	{BeforeRenderingShadows, "before_rendering_shadows"},
	{AfterRenderingShadows, "after_rendering_shadows"},
	{BeforeRenderingPrePasses, "before_rendering_prepasses"},
	{AfterRenderingPrePasses, "after_rendering_prepasses"},
	{BeforeRenderingGbuffer, "before_rendering_gbuffer"},
	{AfterRenderingGbuffer, "after_rendering_gbuffer"},
	{BeforeRenderingDeferredLights, "before_rendering_deferred_lights"},
	{AfterRenderingDeferredLights, "after_rendering_deferred_lights"},
	{BeforeRenderingOpaques, "before_rendering_opaques"},
	{AfterRenderingOpaques, "after_rendering_opaques"},
	{BeforeRenderingSkybox, "before_rendering_skybox"},
	{AfterRenderingSkybox, "after_rendering_skybox"},
	{BeforeRenderingTransparents, "before_rendering_transparents"},
	{AfterRenderingTransparents, "after_rendering_transparents"},
	{BeforeRenderingPostProcessing, "before_rendering_post_processing"},
	{AfterRenderingPostProcessing, "after_rendering_post_processing"},
	{AfterRendering, "after_rendering"},
}

// String returns the snake_case name of the event. Events between named
// points are printed as name+offset.
func (e PassEvent) String() string {
	base := passEventNames[0]
	for _, n := range passEventNames {
		if n.event == e {
			return n.name
		}
		if n.event < e {
			base = n
		}
	}
	if e < BeforeRendering {
		return strconv.Itoa(int(e))
	}
	return fmt.Sprintf("%s+%d", base.name, int(e-base.event))
}

// ParsePassEvent parses an event name. Matching ignores case and
// underscores, so "AfterRenderingOpaques" and "after_rendering_opaques"
// are equivalent. A "+N" suffix adds an offset, a bare integer is taken
// as the raw event value.
func ParsePassEvent(s string) (PassEvent, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty pass event")
	}
	if v, err := strconv.Atoi(s); err == nil {
		return PassEvent(v), nil
	}

	offset := 0
	if i := strings.IndexByte(s, '+'); i >= 0 {
		v, err := strconv.Atoi(strings.TrimSpace(s[i+1:]))
		if err != nil {
			return 0, fmt.Errorf("invalid pass event offset in %q: %w", s, err)
		}
		offset = v
		s = strings.TrimSpace(s[:i])
	}

	key := normalizeEventName(s)
	for _, n := range passEventNames {
		if normalizeEventName(n.name) == key {
			return n.event + PassEvent(offset), nil
		}
	}
	return 0, fmt.Errorf("unknown pass event %q", s)
}

func normalizeEventName(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, "_", ""))
}

// UnmarshalYAML decodes an event from its name or integer value
func (e *PassEvent) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	v, err := ParsePassEvent(s)
	if err != nil {
		return err
	}
	*e = v
	return nil
}

// MarshalYAML encodes an event by name
func (e PassEvent) MarshalYAML() (interface{}, error) {
	return e.String(), nil
}
