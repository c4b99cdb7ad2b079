package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFract(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{0.25, 0.25},
		{1.75, 0.75},
		{-0.25, 0.75},
		{-2, 0},
	}

	for _, tt := range tests {
		if got := Fract(tt.in); got != tt.want {
			t.Errorf("Fract(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWrapIndex(t *testing.T) {
	tests := []struct {
		i, n, want int
	}{
		{0, 4, 0},
		{5, 4, 1},
		{-1, 4, 3},
		{-8, 4, 0},
	}

	for _, tt := range tests {
		if got := WrapIndex(tt.i, tt.n); got != tt.want {
			t.Errorf("WrapIndex(%d, %d) = %d, want %d", tt.i, tt.n, got, tt.want)
		}
	}
}

func TestClampAndLerp(t *testing.T) {
	if got := Clamp(float32(1.5), 0, 1); got != 1 {
		t.Errorf("Clamp above = %v, want 1", got)
	}
	if got := Clamp(-3.0, -1, 1); got != -1 {
		t.Errorf("Clamp below = %v, want -1", got)
	}
	if got := ClampInt(7, 0, 5); got != 5 {
		t.Errorf("ClampInt = %d, want 5", got)
	}
	if got := Lerp(float32(2), 4, 0.5); got != 3 {
		t.Errorf("Lerp = %v, want 3", got)
	}
	if got := SmoothStep(0.0, 1.0, 0.5); got != 0.5 {
		t.Errorf("SmoothStep midpoint = %v, want 0.5", got)
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "noise.png")
	if FileExists(path) {
		t.Fatalf("FileExists(%q) before create = true", path)
	}
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if !FileExists(path) {
		t.Errorf("FileExists(%q) = false, want true", path)
	}
	if FileExists(dir) {
		t.Errorf("FileExists(dir) = true, want false")
	}
}
