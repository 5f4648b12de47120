package color

// Rec. 601 luma weights in thousandths.
const (
	LumaR = 299
	LumaG = 587
	LumaB = 114
)

// Luma returns the Rec. 601 weighted luminance of an 8-bit color,
// in [0, 255]. The weighted sum is computed in integers so white is
// exactly 255.
func Luma(r, g, b uint8) float64 {
	return float64(LumaR*int(r)+LumaG*int(g)+LumaB*int(b)) / 1000
}

// Brightness returns Luma normalized to [0, 1].
func Brightness(c ColorU8) float64 {
	return Luma(c.R, c.G, c.B) / 255
}

// HSV returns hue in degrees [0, 360) and saturation and value in [0, 1].
// Gray colors have hue 0 and saturation 0.
func HSV(c ColorU8) (h, s, v float64) {
	r, g, b := float64(c.R)/255, float64(c.G)/255, float64(c.B)/255
	hi := max3(r, g, b)
	lo := min3(r, g, b)
	v = hi
	d := hi - lo
	if hi == 0 || d == 0 {
		return 0, 0, v
	}
	s = d / hi

	switch hi {
	case r:
		h = (g - b) / d
		if h < 0 {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	h *= 60
	if h >= 360 {
		h -= 360
	}
	return h, s, v
}

// Hue returns the HSV hue normalized to [0, 1).
func Hue(c ColorU8) float64 {
	h, _, _ := HSV(c)
	return h / 360
}

// Saturation returns the HSV saturation in [0, 1].
func Saturation(c ColorU8) float64 {
	_, s, _ := HSV(c)
	return s
}

// min3 returns the minimum of three float64 values.
func min3(a, b, c float64) float64 {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}

// max3 returns the maximum of three float64 values.
func max3(a, b, c float64) float64 {
	if a > b {
		if a > c {
			return a
		}
		return c
	}
	if b > c {
		return b
	}
	return c
}
