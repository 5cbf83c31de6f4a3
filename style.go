package gochart

import (
	"fmt"
	"image/color"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color represents an opaque RGB color.
type Color struct {
	R, G, B uint8
}

// Predefined colors.
var (
	ColorBlack = Color{0, 0, 0}
	ColorWhite = Color{255, 255, 255}
	ColorRed   = Color{255, 0, 0}
	ColorGreen = Color{0, 255, 0}
	ColorBlue  = Color{0, 0, 255}
)

// Alpha values used for series shapes.
const (
	fillAlpha   = 100
	strokeAlpha = 255
)

// NewColor creates a Color from a packed 0xRRGGBB integer.
func NewColor(rgb int) Color {
	return Color{
		R: uint8(rgb >> 16 & 0xFF),
		G: uint8(rgb >> 8 & 0xFF),
		B: uint8(rgb & 0xFF),
	}
}

// ParseColor parses "#rrggbb", "rrggbb" or the short "#rgb" form.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b}, nil
}

// Int packs the color into 0xRRGGBB.
func (c Color) Int() int {
	return int(c.R)<<16 | int(c.G)<<8 | int(c.B)
}

// Hex returns the "#rrggbb" form.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// RGBA returns the color with the given alpha as a non-premultiplied image color.
func (c Color) RGBA(alpha uint8) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: alpha}
}

// Luminance returns the perceptual brightness 0.2126R + 0.7152G + 0.0722B.
func (c Color) Luminance() float64 {
	return 0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)
}

// colorOr returns *c, or fallback when c is nil.
func colorOr(c *Color, fallback Color) Color {
	if c == nil {
		return fallback
	}
	return *c
}
