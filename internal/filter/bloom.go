package filter

import (
	"fmt"
	"math"

	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/gogpu/imgfx"
	"github.com/gogpu/imgfx/internal/color"
	"github.com/gogpu/imgfx/internal/parallel"
)

// DefaultBloomMax is the upper luminance threshold used when none is given.
const DefaultBloomMax = 255

// LumaRange is an inclusive Rec. 601 luminance range on the 0..255 scale.
type LumaRange struct {
	Min, Max uint8
}

// Contains reports whether l lies within the range.
func (r LumaRange) Contains(l float64) bool {
	return l >= float64(r.Min) && l <= float64(r.Max)
}

// Bloom adds a blurred copy of an image's bright pixels back onto it.
type Bloom struct {
	// Intensity scales the blurred bright-pass before it is added.
	Intensity float64

	// Radius is the Gaussian sigma in pixels.
	Radius float64

	// Threshold selects the pixels that contribute to the glow.
	Threshold LumaRange
}

// MaxBloomRadius is the largest accepted blur radius in pixels.
const MaxBloomRadius = 1024

// NewBloom returns a validated bloom filter. Intensity must be finite and
// non-negative, radius in (0, MaxBloomRadius], and min <= max.
func NewBloom(intensity, radius float64, min, max uint8) (*Bloom, error) {
	b := &Bloom{
		Intensity: intensity,
		Radius:    radius,
		Threshold: LumaRange{Min: min, Max: max},
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Validate reports a *imgfx.ConfigError for invalid parameters.
func (b *Bloom) Validate() error {
	if math.IsNaN(b.Intensity) || math.IsInf(b.Intensity, 0) || b.Intensity < 0 {
		return imgfx.NewConfigError("intensity", fmt.Errorf("%w: intensity %v must be >= 0", imgfx.ErrInvalidParam, b.Intensity))
	}
	if math.IsNaN(b.Radius) || b.Radius <= 0 || b.Radius > MaxBloomRadius {
		return imgfx.NewConfigError("radius", fmt.Errorf("%w: radius %v must be in (0, %d]", imgfx.ErrInvalidParam, b.Radius, MaxBloomRadius))
	}
	if b.Threshold.Min > b.Threshold.Max {
		return imgfx.NewConfigError("threshold", fmt.Errorf("%w: %d > %d", imgfx.ErrThresholdRange, b.Threshold.Min, b.Threshold.Max))
	}
	return nil
}

// WithIntensity returns a copy of b with a different intensity.
func (b Bloom) WithIntensity(intensity float64) *Bloom {
	b.Intensity = intensity
	return &b
}

// Apply returns src with bloom applied. Alpha is preserved.
// With zero intensity the result is an exact copy of src.
func (b *Bloom) Apply(src *imgfx.Pixmap) *imgfx.Pixmap {
	if b.Intensity == 0 || src.Width() == 0 || src.Height() == 0 {
		return src.Clone()
	}

	w, h := src.Width(), src.Height()
	in := src.Data()

	// Base and bright-pass planes, one per color channel.
	var base, bright [3]plane
	for c := range 3 {
		base[c] = newPlane(w, h)
		bright[c] = newPlane(w, h)
	}

	parallel.ForRows(nil, h, func(lo, hi int) {
		for i := lo * w; i < hi*w; i++ {
			r, g, bl := in[i*4], in[i*4+1], in[i*4+2]
			base[0].data[i] = float64(r)
			base[1].data[i] = float64(g)
			base[2].data[i] = float64(bl)
			if b.Threshold.Contains(color.Luma(r, g, bl)) {
				bright[0].data[i] = float64(r)
				bright[1].data[i] = float64(g)
				bright[2].data[i] = float64(bl)
			}
		}
	})

	for c := range 3 {
		blurPlane(bright[c], b.Radius)
		vecmath.ScaleBlockInPlace(bright[c].data, b.Intensity)
		vecmath.AddBlockInPlace(base[c].data, bright[c].data)
	}

	dst := imgfx.NewPixmap(w, h)
	out := dst.Data()
	parallel.ForRows(nil, h, func(lo, hi int) {
		for i := lo * w; i < hi*w; i++ {
			out[i*4] = clampUint8(base[0].data[i])
			out[i*4+1] = clampUint8(base[1].data[i])
			out[i*4+2] = clampUint8(base[2].data[i])
			out[i*4+3] = in[i*4+3]
		}
	})

	imgfx.Logger().Debug("filter: bloom applied",
		"width", w, "height", h, "intensity", b.Intensity, "radius", b.Radius)
	return dst
}

// clampUint8 clamps v to [0, 255] and truncates it to uint8.
func clampUint8(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
