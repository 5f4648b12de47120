package imgfx

import (
	"fmt"
	"math"
)

// Color8 is an opaque 8-bit constant color used as the right-hand operand
// of channel operations.
type Color8 struct {
	R, G, B uint8
}

// ParseHex parses a hex color string. Accepted forms are "#RRGGBB",
// "RRGGBB", "#RGB" and "RGB". Errors wrap ErrInvalidColor.
func ParseHex(hex string) (Color8, error) {
	s := hex
	if s != "" && s[0] == '#' {
		s = s[1:]
	}

	var r, g, b uint32
	var ok bool
	switch len(s) {
	case 3: // RGB
		ok = parseHex(s[0:1], &r) && parseHex(s[1:2], &g) && parseHex(s[2:3], &b)
		r, g, b = r*17, g*17, b*17
	case 6: // RRGGBB
		ok = parseHex(s[0:2], &r) && parseHex(s[2:4], &g) && parseHex(s[4:6], &b)
	}
	if !ok {
		return Color8{}, fmt.Errorf("%w: %q", ErrInvalidColor, hex)
	}
	return Color8{R: uint8(r), G: uint8(g), B: uint8(b)}, nil
}

// MustParseHex is like ParseHex but panics on error. Intended for tests and
// package-level constants.
func MustParseHex(hex string) Color8 {
	c, err := ParseHex(hex)
	if err != nil {
		panic(err)
	}
	return c
}

// parseHex accumulates hex digits of s into val and reports whether every
// digit was valid.
func parseHex(s string, val *uint32) bool {
	*val = 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		*val *= 16
		switch {
		case '0' <= c && c <= '9':
			*val += uint32(c - '0')
		case 'a' <= c && c <= 'f':
			*val += uint32(c - 'a' + 10)
		case 'A' <= c && c <= 'F':
			*val += uint32(c - 'A' + 10)
		default:
			return false
		}
	}
	return true
}

// Scale multiplies each component by f and quantizes by truncation.
// f is clamped to [0, 1]; NaN scales to zero.
//
// This is the only place a modulated color is converted back to 8 bits,
// so Scale(1) always returns c unchanged.
func (c Color8) Scale(f float64) Color8 {
	f = clampUnit(f)
	return Color8{
		R: uint8(float64(c.R) * f),
		G: uint8(float64(c.G) * f),
		B: uint8(float64(c.B) * f),
	}
}

// Pixel returns the color as an opaque RGBA pixel.
func (c Color8) Pixel() [4]uint8 {
	return [4]uint8{c.R, c.G, c.B, 255}
}

// Hex formats the color as "#rrggbb".
func (c Color8) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// String implements fmt.Stringer.
func (c Color8) String() string {
	return c.Hex()
}

func clampUnit(f float64) float64 {
	if math.IsNaN(f) || f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
