package render

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Color represents a color value.
// Supports true color (RGB) and terminal palette colors.
type Color struct {
	R, G, B uint8
	// If Indexed is true, R contains the palette index (0-255).
	// G and B are ignored in indexed mode.
	Indexed bool
	// Default indicates this is the terminal's default color.
	Default bool
}

// ColorDefault represents the terminal's default color.
var ColorDefault = Color{Default: true}

// RGB creates a true color from components.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// Indexed creates a palette color from an index (0-255).
func Indexed(index uint8) Color {
	return Color{R: index, Indexed: true}
}

// IsDefault returns true if this is the terminal's default color.
func (c Color) IsDefault() bool {
	return c.Default
}

// Equals returns true if two colors are equal.
func (c Color) Equals(other Color) bool {
	if c.Default != other.Default {
		return false
	}
	if c.Default {
		return true
	}
	if c.Indexed != other.Indexed {
		return false
	}
	if c.Indexed {
		return c.R == other.R
	}
	return c.R == other.R && c.G == other.G && c.B == other.B
}

// String returns a string representation of the color.
func (c Color) String() string {
	if c.Default {
		return "default"
	}
	if c.Indexed {
		return fmt.Sprintf("idx(%d)", c.R)
	}
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Depth is the color resolution a terminal supports.
type Depth uint8

const (
	// DepthTrueColor emits 24-bit SGR color.
	DepthTrueColor Depth = iota

	// Depth256 quantizes to the xterm 256-color palette.
	Depth256

	// Depth16 quantizes to the 16 base colors.
	Depth16
)

// Downsample returns the color adjusted to the given depth. True colors are
// mapped to the perceptually nearest palette entry; indexed and default
// colors pass through (indexed above 15 is re-mapped for Depth16).
func (c Color) Downsample(depth Depth) Color {
	if c.Default || depth == DepthTrueColor {
		return c
	}
	limit := 256
	if depth == Depth16 {
		limit = 16
	}
	if c.Indexed {
		if int(c.R) < limit {
			return c
		}
		r, g, b := paletteRGB(c.R)
		return Indexed(nearestIndex(r, g, b, limit))
	}
	return Indexed(nearestIndex(c.R, c.G, c.B, limit))
}

// nearestIndex finds the palette entry closest to an RGB color using
// perceptual (Lab) distance.
func nearestIndex(r, g, b uint8, limit int) uint8 {
	want := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}

	best := 0
	bestDist := -1.0
	for i := 0; i < limit; i++ {
		pr, pg, pb := paletteRGB(uint8(i))
		have := colorful.Color{R: float64(pr) / 255, G: float64(pg) / 255, B: float64(pb) / 255}
		d := want.DistanceLab(have)
		if bestDist < 0 || d < bestDist {
			best = i
			bestDist = d
		}
	}
	return uint8(best)
}

// paletteRGB returns the RGB value of an xterm palette index: 16 base
// colors, a 6x6x6 color cube, then a 24-step grayscale ramp.
func paletteRGB(index uint8) (r, g, b uint8) {
	if int(index) < len(basePalette) {
		c := basePalette[index]
		return c[0], c[1], c[2]
	}
	if index < 232 {
		n := index - 16
		return cubeLevel(n / 36), cubeLevel(n / 6 % 6), cubeLevel(n % 6)
	}
	gray := 8 + 10*(index-232)
	return gray, gray, gray
}

// cubeLevel converts a 0-5 cube coordinate to its channel value.
func cubeLevel(n uint8) uint8 {
	if n == 0 {
		return 0
	}
	return 55 + 40*n
}

// basePalette holds the standard xterm values for the 16 base colors.
var basePalette = [16][3]uint8{
	{0, 0, 0},       // black
	{128, 0, 0},     // maroon
	{0, 128, 0},     // green
	{128, 128, 0},   // olive
	{0, 0, 128},     // navy
	{128, 0, 128},   // purple
	{0, 128, 128},   // teal
	{192, 192, 192}, // silver
	{128, 128, 128}, // gray
	{255, 0, 0},     // red
	{0, 255, 0},     // lime
	{255, 255, 0},   // yellow
	{0, 0, 255},     // blue
	{255, 0, 255},   // fuchsia
	{0, 255, 255},   // aqua
	{255, 255, 255}, // white
}
