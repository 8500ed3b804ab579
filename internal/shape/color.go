package shape

import (
	"fmt"
	"image/color"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a non-premultiplied 8-bit RGBA color.
type Color struct {
	R, G, B, A uint8
}

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 0xff}
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA(c).RGBA()
}

// Complement returns the bitwise RGB complement of c with alpha unchanged.
func (c Color) Complement() Color {
	return Color{R: ^c.R, G: ^c.G, B: ^c.B, A: c.A}
}

// Hex formats c as "#rrggbb", or "#rrggbbaa" when not fully opaque.
func (c Color) Hex() string {
	hex := colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
	if c.A != 0xff {
		hex += fmt.Sprintf("%02x", c.A)
	}
	return hex
}

// ParseColor parses "#rrggbb" or "#rrggbbaa".
func ParseColor(s string) (Color, error) {
	if len(s) != 7 && len(s) != 9 {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	cf, err := colorful.Hex(s[:7])
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := cf.RGB255()
	c := Color{R: r, G: g, B: b, A: 0xff}
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("invalid color alpha %q: %w", s, err)
		}
		c.A = uint8(a)
	}
	return c, nil
}

// Common scene colors.
var (
	DefaultColor = RGB(125, 125, 125)
	Highlight    = RGB(255, 0, 0)
	Magenta      = RGB(255, 0, 255)
)

// palette is the fixed table AssignPaletteColors cycles through.
var palette = [...]Color{
	RGB(230, 25, 75), RGB(60, 180, 75), RGB(255, 225, 25),
	RGB(0, 130, 200), RGB(245, 130, 48), RGB(70, 240, 240),
	RGB(240, 50, 230), RGB(250, 190, 212), RGB(0, 128, 128),
	RGB(220, 190, 255), RGB(170, 110, 40), RGB(255, 250, 200),
	RGB(128, 0, 0), RGB(170, 255, 195), RGB(0, 0, 128),
	RGB(128, 128, 128), RGB(255, 255, 255), RGB(0, 0, 0),
}

// PaletteSize is the number of palette entries.
const PaletteSize = len(palette)

// PaletteColor returns palette entry i modulo PaletteSize.
func PaletteColor(i int) Color {
	i %= PaletteSize
	if i < 0 {
		i += PaletteSize
	}
	return palette[i]
}

// Palette returns a copy of the palette.
func Palette() []Color {
	out := make([]Color, PaletteSize)
	copy(out, palette[:])
	return out
}
