package blend

import (
	"math"

	"github.com/gogpu/imgfx/internal/channel"
)

// Eval returns the wide per-channel result of op on a and b before
// narrowing to 8 bits. Sub may be negative and Add, Mult and ShiftLeft may
// exceed 255.
func Eval(op Op, a, b uint8, p Params) int {
	switch op {
	case Or:
		return negate(a|b, p.Negate)
	case And:
		return negate(a&b, p.Negate)
	case Xor:
		return negate(a^b, p.Negate)
	case Add:
		return int(a) + int(b)
	case Sub:
		return int(a) - int(b)
	case Mult:
		return int(a) * int(b)
	case Div:
		return divide(a, b)
	case Pow:
		return power(a, b)
	case Average:
		return (int(a) + int(b)) / 2
	case Screen:
		return int(inv255(mulDiv255(inv255(a), inv255(b))))
	case Overlay:
		return overlay(a, b)
	case ShiftLeft:
		return int(a) << p.Bits
	case ShiftRight:
		return int(a) >> p.Bits
	}
	return int(a)
}

// Narrow converts a wide result to a byte: clamped to [0, 255], or, when
// raw is set, the low 8 bits.
func Narrow(v int, raw bool) uint8 {
	if raw {
		return wrap255(v)
	}
	return clamp255(v)
}

// Channel applies op to a single channel pair and narrows the result.
func Channel(op Op, a, b uint8, p Params) uint8 {
	return Narrow(Eval(op, a, b, p), p.Raw && op.HonorsRaw())
}

// Apply computes the output pixel of op for lhs and rhs.
//
// Each operand is first passed through its selector. R, G and B of the
// result are op applied channel-wise; alpha is carried from the unmapped
// lhs pixel. A constant operand is passed as its opaque pixel.
func Apply(op Op, lhs, rhs [4]uint8, lsel, rsel channel.Selector, p Params) ([4]uint8, error) {
	if err := p.Validate(); err != nil {
		return [4]uint8{}, err
	}
	return apply(op, lhs, rhs, lsel, rsel, p), nil
}

// apply is Apply without validation, for inner loops.
func apply(op Op, lhs, rhs [4]uint8, lsel, rsel channel.Selector, p Params) [4]uint8 {
	a := lsel.Resolve(lhs)
	b := rsel.Resolve(rhs)
	raw := p.Raw && op.HonorsRaw()
	return [4]uint8{
		Narrow(Eval(op, a[0], b[0], p), raw),
		Narrow(Eval(op, a[1], b[1], p), raw),
		Narrow(Eval(op, a[2], b[2], p), raw),
		lhs[3],
	}
}

func negate(v uint8, neg bool) int {
	if neg {
		return int(^v)
	}
	return int(v)
}

// divide computes (a/255)/(b/255)*255 = 255*a/b. Division by zero yields
// 255 for a non-zero numerator and 0 otherwise.
func divide(a, b uint8) int {
	if b == 0 {
		if a == 0 {
			return 0
		}
		return 255
	}
	return 255 * int(a) / int(b)
}

// powEpsilon absorbs float error so that exact results such as
// (a/255)^1*255 do not truncate to a-1.
const powEpsilon = 1e-9

// power computes (a/255)^(b/255)*255, truncated.
func power(a, b uint8) int {
	base := float64(a) / 255
	exp := float64(b) / 255
	return int(math.Pow(base, exp)*255 + powEpsilon)
}

// overlay is the two-branch overlay blend with a as the base layer.
func overlay(a, b uint8) int {
	if a < 128 {
		return int(div255(2 * uint16(a) * uint16(b)))
	}
	return 255 - int(div255(2*uint16(inv255(a))*uint16(inv255(b))))
}
