// Package color provides the color types and derived keys (luma, hue,
// saturation) used by the imgfx filters.
package color

// ColorU8 represents a color with uint8 components in [0,255].
type ColorU8 struct {
	R, G, B, A uint8
}

// FromPixel converts an RGBA sample quadruple to ColorU8.
func FromPixel(px [4]uint8) ColorU8 {
	return ColorU8{R: px[0], G: px[1], B: px[2], A: px[3]}
}

// Pixel returns c as an RGBA sample quadruple.
func (c ColorU8) Pixel() [4]uint8 {
	return [4]uint8{c.R, c.G, c.B, c.A}
}
