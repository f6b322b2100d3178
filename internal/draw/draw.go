// Package draw renders to ANSI terminals using half-block characters.
package draw

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Shade characters from lightest to darkest.
var Shades = []rune{' ', '░', '▒', '▓', '█'}

// ShadeLevel returns a shade character for a value between 0.0 (empty) and 1.0 (solid).
func ShadeLevel(intensity float64) rune {
	if intensity <= 0 {
		return Shades[0]
	}
	if intensity >= 1 {
		return Shades[len(Shades)-1]
	}
	idx := int(intensity * float64(len(Shades)-1))
	return Shades[idx]
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockLight     = '░'
	BlockMedium    = '▒'
	BlockDark      = '▓'
	BlockEmpty     = ' '
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// ColorReset restores default terminal attributes.
const ColorReset = "\033[0m"

// Color is a 24-bit RGB color.
type Color struct {
	R, G, B uint8
}

// Common colors.
var (
	White  = Color{255, 255, 255}
	Gray   = Color{128, 128, 128}
	Red    = Color{255, 0, 0}
	Green  = Color{0, 255, 0}
	Yellow = Color{255, 255, 0}
	Cyan   = Color{0, 255, 255}
)

// ParseHex parses "#rrggbb" or "rrggbb".
func ParseHex(s string) (Color, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color{uint8(v >> 16), uint8(v >> 8), uint8(v)}, nil
}

// HexOr parses s and falls back to def on error.
func HexOr(s string, def Color) Color {
	c, err := ParseHex(s)
	if err != nil {
		return def
	}
	return c
}

// Scale returns the color with every channel multiplied by f in [0, 1].
func (c Color) Scale(f float64) Color {
	f = max(0, min(1, f))
	return Color{uint8(float64(c.R) * f), uint8(float64(c.G) * f), uint8(float64(c.B) * f)}
}

// FG returns the truecolor foreground escape sequence.
func (c Color) FG() string {
	return "\033[38;2;" + strconv.Itoa(int(c.R)) + ";" + strconv.Itoa(int(c.G)) + ";" + strconv.Itoa(int(c.B)) + "m"
}

// BG returns the truecolor background escape sequence.
func (c Color) BG() string {
	return "\033[48;2;" + strconv.Itoa(int(c.R)) + ";" + strconv.Itoa(int(c.G)) + ";" + strconv.Itoa(int(c.B)) + "m"
}

// FromHue returns a fully saturated color for hue h in degrees.
func FromHue(h float64) Color {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	x := 1 - math.Abs(math.Mod(h/60, 2)-1)
	var r, g, b float64
	switch {
	case h < 60:
		r, g = 1, x
	case h < 120:
		r, g = x, 1
	case h < 180:
		g, b = 1, x
	case h < 240:
		g, b = x, 1
	case h < 300:
		r, b = x, 1
	default:
		r, b = 1, x
	}
	return Color{uint8(r * 255), uint8(g * 255), uint8(b * 255)}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
