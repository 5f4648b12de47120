package filter

import "github.com/gogpu/imgfx"

// Test helper functions shared across filter tests.

// createTestPixmap creates a pixmap filled with the given pixel.
func createTestPixmap(w, h int, px [4]uint8) *imgfx.Pixmap {
	p := imgfx.NewPixmap(w, h)
	p.Fill(px)
	return p
}

// gradientPixmap creates a pixmap whose pixels vary with position so that
// every pixel differs from its neighbours.
func gradientPixmap(w, h int) *imgfx.Pixmap {
	p := imgfx.NewPixmap(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p.SetPixel(x, y, [4]uint8{uint8(x * 37), uint8(y * 53), uint8((x + y) * 11), uint8(200 + x%50)})
		}
	}
	return p
}

// absf returns the absolute value of a float64.
func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
