package blend

import (
	"fmt"

	"github.com/gogpu/imgfx"
	"github.com/gogpu/imgfx/internal/channel"
	"github.com/gogpu/imgfx/internal/parallel"
)

// Operand is the right-hand side of an image operation: either a constant
// color broadcast to every pixel or a second image of the same size.
type Operand struct {
	color imgfx.Color8
	image *imgfx.Pixmap
}

// ConstOperand returns an operand that supplies c at every pixel, with
// alpha 255.
func ConstOperand(c imgfx.Color8) Operand {
	return Operand{color: c}
}

// ImageOperand returns an operand that reads the pixel at the same
// position of img.
func ImageOperand(img *imgfx.Pixmap) Operand {
	return Operand{image: img}
}

// IsImage reports whether the operand is an image.
func (o Operand) IsImage() bool {
	return o.image != nil
}

// Color returns the constant color of a constant operand.
func (o Operand) Color() imgfx.Color8 {
	return o.color
}

// Scaled returns the operand with its constant color scaled by f (see
// imgfx.Color8.Scale). Image operands are returned unchanged.
func (o Operand) Scaled(f float64) Operand {
	if o.image != nil {
		return o
	}
	return Operand{color: o.color.Scale(f)}
}

// ApplyImage applies op to every pixel of src and returns a new pixmap.
// src is not modified. Rows are processed in parallel on the default pool.
func ApplyImage(src *imgfx.Pixmap, op Op, rhs Operand, lsel, rsel channel.Selector, p Params) (*imgfx.Pixmap, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if rhs.image != nil && !src.SameSize(rhs.image) {
		return nil, imgfx.NewConfigError("with", fmt.Errorf("%w: %dx%d vs %dx%d",
			imgfx.ErrOperandSize, src.Width(), src.Height(), rhs.image.Width(), rhs.image.Height()))
	}

	w, h := src.Width(), src.Height()
	dst := imgfx.NewPixmap(w, h)
	in := src.Data()
	out := dst.Data()
	constPx := rhs.color.Pixel()

	parallel.ForRows(nil, h, func(lo, hi int) {
		var other []uint8
		if rhs.image != nil {
			other = rhs.image.Data()
		}
		for i := lo * w * 4; i < hi*w*4; i += 4 {
			lhs := [4]uint8{in[i], in[i+1], in[i+2], in[i+3]}
			b := constPx
			if other != nil {
				b = [4]uint8{other[i], other[i+1], other[i+2], other[i+3]}
			}
			px := apply(op, lhs, b, lsel, rsel, p)
			copy(out[i:i+4], px[:])
		}
	})

	imgfx.Logger().Debug("blend: applied",
		"op", op.String(), "width", w, "height", h, "image_operand", rhs.IsImage())
	return dst, nil
}
