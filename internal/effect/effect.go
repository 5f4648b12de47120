// Package effect dispatches one configured effect (a channel operation,
// bloom, or pixel sort) and applies tempo modulation to the parameter each
// kind exposes to it.
//
// Modulated parameters:
//
//	Op:    the constant color operand (image operands and shifts are not scaled)
//	Bloom: the intensity
//	Sort:  both threshold bounds, clamped to [0, 1] after scaling
package effect

import (
	"fmt"

	"github.com/gogpu/imgfx"
	"github.com/gogpu/imgfx/internal/blend"
	"github.com/gogpu/imgfx/internal/channel"
	"github.com/gogpu/imgfx/internal/filter"
)

// Kind identifies the variant held by an Effect.
type Kind uint8

// Effect kinds.
const (
	KindOp Kind = iota
	KindBloom
	KindSort
)

func (k Kind) String() string {
	switch k {
	case KindOp:
		return "op"
	case KindBloom:
		return "bloom"
	case KindSort:
		return "sort"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Effect is a validated effect ready to be applied to frames. Exactly one of
// the variant groups below is populated, selected by kind.
type Effect struct {
	kind Kind

	// KindOp
	op      blend.Op
	operand blend.Operand
	lhs     channel.Selector
	rhs     channel.Selector
	params  blend.Params

	// KindBloom
	bloom *filter.Bloom

	// KindSort
	sorter *filter.Sorter
}

// OpConfig describes a channel operation.
type OpConfig struct {
	Op      blend.Op
	Operand blend.Operand
	LHS     channel.Selector
	RHS     channel.Selector
	Params  blend.Params
}

// NewOp returns a channel operation effect.
func NewOp(cfg OpConfig) (*Effect, error) {
	if err := cfg.Params.Validate(); err != nil {
		return nil, err
	}
	if int(cfg.Op) > int(blend.ShiftRight) {
		return nil, imgfx.NewConfigError("op", fmt.Errorf("%w: %v", imgfx.ErrUnknownOp, cfg.Op))
	}
	return &Effect{
		kind:    KindOp,
		op:      cfg.Op,
		operand: cfg.Operand,
		lhs:     cfg.LHS,
		rhs:     cfg.RHS,
		params:  cfg.Params,
	}, nil
}

// NewBloom returns a bloom effect. b is validated and copied.
func NewBloom(b filter.Bloom) (*Effect, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &Effect{kind: KindBloom, bloom: &b}, nil
}

// NewSort returns a pixel sort effect. s is validated and copied.
func NewSort(s filter.Sorter) (*Effect, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &Effect{kind: KindSort, sorter: &s}, nil
}

// Kind returns the effect variant.
func (e *Effect) Kind() Kind {
	return e.kind
}

// Apply applies the effect to src with its modulated parameter multiplied
// by scale. A scale of 1 applies the effect as configured. src is not
// modified.
func (e *Effect) Apply(src *imgfx.Pixmap, scale float64) (*imgfx.Pixmap, error) {
	switch e.kind {
	case KindOp:
		return blend.ApplyImage(src, e.op, e.operand.Scaled(scale), e.lhs, e.rhs, e.params)
	case KindBloom:
		b := e.bloom
		if scale != 1 {
			b = b.WithIntensity(b.Intensity * clampScale(scale))
		}
		return b.Apply(src), nil
	case KindSort:
		s := e.sorter
		if scale != 1 {
			s = s.WithThreshold(s.Threshold.Min*scale, s.Threshold.Max*scale)
		}
		return s.Apply(src), nil
	}
	return nil, fmt.Errorf("effect: %w: kind %v", imgfx.ErrUnknownOp, e.kind)
}

// Transform adapts the effect to the frame pipeline's transform signature.
func (e *Effect) Transform(src *imgfx.Pixmap, scale float64) (*imgfx.Pixmap, error) {
	return e.Apply(src, scale)
}

// String describes the effect for logs, e.g. "SUB #102030 raw" or
// "bloom(intensity=1.5, radius=4)".
func (e *Effect) String() string {
	switch e.kind {
	case KindOp:
		s := e.op.String()
		switch {
		case e.op.IsShift():
			s += fmt.Sprintf(" %d", e.params.Bits)
		case e.operand.IsImage():
			s += " <image>"
		default:
			s += " " + e.operand.Color().Hex()
		}
		if e.params.Raw && e.op.HonorsRaw() {
			s += " raw"
		}
		if e.params.Negate && e.op.IsBitwise() {
			s += " negate"
		}
		return s
	case KindBloom:
		return fmt.Sprintf("bloom(intensity=%g, radius=%g, threshold=%d..%d)",
			e.bloom.Intensity, e.bloom.Radius, e.bloom.Threshold.Min, e.bloom.Threshold.Max)
	case KindSort:
		return fmt.Sprintf("sort(%s, %s, %g..%g)",
			e.sorter.Direction, e.sorter.Key, e.sorter.Threshold.Min, e.sorter.Threshold.Max)
	}
	return e.kind.String()
}

// clampScale limits a modulation factor to [0, 1]. NaN becomes 0.
func clampScale(f float64) float64 {
	if !(f > 0) {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
