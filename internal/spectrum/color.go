// ABOUTME: Colour and geometry helpers for drawing spectrum bars
// ABOUTME: HSV to RGB conversion, per-column hue and bar placement
package spectrum

import (
	"image/color"
	"math"
)

const (
	// BarSaturation and BarValue are applied to every column colour
	BarSaturation = 1.0
	BarValue      = 0.75
)

// Background is the clear colour behind the bars
var Background = color.RGBA{R: 29, G: 32, B: 33, A: 255}

// HSV converts hue in degrees [0, 360) and saturation/value in [0, 1] to RGB
// components in [0, 1]. Hues outside the range give black.
func HSV(h, s, v float64) (r, g, b float64) {
	if h < 0 || h >= 360 {
		return 0, 0, 0
	}

	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c

	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return r + m, g + m, b + m
}

// HSVToRGB is HSV as an opaque 8-bit colour
func HSVToRGB(h, s, v float64) color.RGBA {
	r, g, b := HSV(h, s, v)
	return color.RGBA{R: to8(r), G: to8(g), B: to8(b), A: 255}
}

func to8(f float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, f)) * 255))
}

// ColumnHue spreads the colour wheel across the columns
func ColumnHue(col, columns int) float64 {
	return float64(col) / float64(columns) * 360
}

// ColumnColor is the bar colour for a column
func ColumnColor(col, columns int) color.RGBA {
	return HSVToRGB(ColumnHue(col, columns), BarSaturation, BarValue)
}

// BarTop is the y coordinate of a bar's top edge; bars rise from height
func BarTop(value, mult, sub, height float64) float64 {
	return height - (value*mult - sub)
}

// MinMult keeps bars from collapsing when scaled down
const MinMult = 0.25

// Scale holds the runtime bar scaling: height = value*Mult - Sub
type Scale struct {
	Mult float64
	Sub  float64
}

// Top is BarTop for this scale
func (s Scale) Top(value, height float64) float64 {
	return BarTop(value, s.Mult, s.Sub, height)
}

// Height is the visible bar height clamped to [0, height]
func (s Scale) Height(value, height float64) float64 {
	return math.Max(0, math.Min(height, height-s.Top(value, height)))
}

// Adjust changes mult and sub by the given steps, keeping Mult >= MinMult
func (s Scale) Adjust(dMult, dSub float64) Scale {
	s.Mult = math.Max(MinMult, s.Mult+dMult)
	s.Sub += dSub
	return s
}
