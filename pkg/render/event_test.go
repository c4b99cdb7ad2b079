package render

import (
	"testing"

	"gopkg.in/yaml.v2"
)

func TestPassEventString(t *testing.T) {
	tests := []struct {
		event PassEvent
		want  string
	}{
		{AfterRenderingOpaques, "after_rendering_opaques"},
		{BeforeRenderingPostProcessing, "before_rendering_post_processing"},
		{AfterRenderingOpaques + 5, "after_rendering_opaques+5"},
		{AfterRendering + 20, "after_rendering+20"},
		{-3, "-3"},
	}

	for _, tt := range tests {
		if got := tt.event.String(); got != tt.want {
			t.Errorf("PassEvent(%d).String() = %q, want %q", int(tt.event), got, tt.want)
		}
	}
}

func TestParsePassEvent(t *testing.T) {
	tests := []struct {
		in      string
		want    PassEvent
		wantErr bool
	}{
		{in: "after_rendering_opaques", want: AfterRenderingOpaques},
		{in: "AfterRenderingOpaques", want: AfterRenderingOpaques},
		{in: "BeforeRenderingTransparents", want: BeforeRenderingTransparents},
		{in: "after_rendering_skybox+10", want: AfterRenderingSkybox + 10},
		{in: "455", want: 455},
		{in: "", wantErr: true},
		{in: "during_opaques", wantErr: true},
		{in: "after_rendering+x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePassEvent(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParsePassEvent(%q) = %v, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePassEvent(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParsePassEvent(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestPassEventNamesRoundTrip(t *testing.T) {
	for _, n := range passEventNames {
		got, err := ParsePassEvent(n.event.String())
		if err != nil || got != n.event {
			t.Errorf("round trip of %s = %v, %v", n.name, got, err)
		}
	}
}

func TestPassEventYAML(t *testing.T) {
	var doc struct {
		Event  PassEvent     `yaml:"event"`
		Format TextureFormat `yaml:"format"`
	}
	if err := yaml.Unmarshal([]byte("event: before_rendering_skybox\nformat: rgba16f\n"), &doc); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if doc.Event != BeforeRenderingSkybox {
		t.Errorf("Event = %v, want %v", doc.Event, BeforeRenderingSkybox)
	}
	if doc.Format != FormatRGBA16F {
		t.Errorf("Format = %v, want %v", doc.Format, FormatRGBA16F)
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := "event: before_rendering_skybox\nformat: rgba16f\n"
	if string(out) != want {
		t.Errorf("Marshal = %q, want %q", out, want)
	}

	if err := yaml.Unmarshal([]byte("event: nowhere\n"), &doc); err == nil {
		t.Errorf("Unmarshal of unknown event returned nil error")
	}
}
