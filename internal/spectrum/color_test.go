// ABOUTME: Tests for bar colour and placement helpers
// ABOUTME: Checks HSV sector boundaries and bar geometry
package spectrum

import (
	"image/color"
	"testing"
)

func TestHSVToRGB(t *testing.T) {
	tests := []struct {
		name string
		h    float64
		want color.RGBA
	}{
		{"red", 0, color.RGBA{191, 0, 0, 255}},
		{"yellow", 60, color.RGBA{191, 191, 0, 255}},
		{"green", 120, color.RGBA{0, 191, 0, 255}},
		{"cyan", 180, color.RGBA{0, 191, 191, 255}},
		{"blue", 240, color.RGBA{0, 0, 191, 255}},
		{"magenta", 300, color.RGBA{191, 0, 191, 255}},
		{"out of range", 360, color.RGBA{0, 0, 0, 255}},
		{"negative", -1, color.RGBA{0, 0, 0, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HSVToRGB(tt.h, 1, 0.75); got != tt.want {
				t.Errorf("HSVToRGB(%v) = %v, want %v", tt.h, got, tt.want)
			}
		})
	}
}

func TestHSVDesaturated(t *testing.T) {
	r, g, b := HSV(200, 0, 0.5)
	if r != 0.5 || g != 0.5 || b != 0.5 {
		t.Errorf("expected grey 0.5, got %v %v %v", r, g, b)
	}
}

func TestColumnColor(t *testing.T) {
	if got := ColumnColor(0, 512); got != (color.RGBA{191, 0, 0, 255}) {
		t.Errorf("expected first column red, got %v", got)
	}
	if got := ColumnHue(256, 512); got != 180 {
		t.Errorf("expected middle hue 180, got %v", got)
	}
	if got := ColumnHue(511, 512); got >= 360 {
		t.Errorf("expected last hue below 360, got %v", got)
	}
}

func TestBarTop(t *testing.T) {
	if got := BarTop(100, 2, 50, 384); got != 234 {
		t.Errorf("expected 234, got %v", got)
	}
	// values below sub/mult sit under the bottom edge
	if got := BarTop(10, 2, 50, 384); got <= 384 {
		t.Errorf("expected bar below the window, got %v", got)
	}
}

func TestScale(t *testing.T) {
	s := Scale{Mult: 2, Sub: 50}

	if got := s.Top(100, 384); got != 234 {
		t.Errorf("expected top 234, got %v", got)
	}
	if got := s.Height(100, 384); got != 150 {
		t.Errorf("expected height 150, got %v", got)
	}
	if got := s.Height(10, 384); got != 0 {
		t.Errorf("expected clamped height 0, got %v", got)
	}
	if got := s.Height(1000, 384); got != 384 {
		t.Errorf("expected clamped height 384, got %v", got)
	}

	s = s.Adjust(-10, 5)
	if s.Mult != MinMult || s.Sub != 55 {
		t.Errorf("unexpected adjusted scale %+v", s)
	}
}
