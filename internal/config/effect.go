package config

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"golang.org/x/text/cases"

	"github.com/gogpu/imgfx"
	"github.com/gogpu/imgfx/internal/blend"
	"github.com/gogpu/imgfx/internal/channel"
	"github.com/gogpu/imgfx/internal/effect"
	"github.com/gogpu/imgfx/internal/filter"
	"github.com/gogpu/imgfx/internal/image"
	"github.com/gogpu/imgfx/internal/pipeline"
	"github.com/gogpu/imgfx/internal/tempo"
)

var fold = cases.Fold()

// Validate checks every field without touching the filesystem and returns
// the first problem as a *imgfx.ConfigError.
func (j *Job) Validate() error {
	if j.Input == "" {
		return imgfx.NewConfigError("input", fmt.Errorf("%w: required", imgfx.ErrInvalidParam))
	}
	if j.Output == "" {
		return imgfx.NewConfigError("output", fmt.Errorf("%w: required", imgfx.ErrInvalidParam))
	}
	if _, err := j.plan(); err != nil {
		return err
	}
	if _, err := j.Modulator(); err != nil {
		return err
	}
	if _, err := j.DecodePolicy(); err != nil {
		return err
	}
	if j.Workers < 0 {
		return imgfx.NewConfigError("workers", fmt.Errorf("%w: %d", imgfx.ErrInvalidParam, j.Workers))
	}
	if j.FPS < 0 || math.IsNaN(j.FPS) || math.IsInf(j.FPS, 0) {
		return imgfx.NewConfigError("fps", fmt.Errorf("%w: %v", imgfx.ErrInvalidParam, j.FPS))
	}
	if j.MaxDuration < 0 {
		return imgfx.NewConfigError("max_duration", fmt.Errorf("%w: %v", imgfx.ErrInvalidParam, j.MaxDuration))
	}
	return nil
}

// Modulator returns the tempo modulator selected by Visualization and BPM.
func (j *Job) Modulator() (tempo.Modulator, error) {
	return tempo.ParseVisualization(j.Visualization, j.BPM)
}

// DecodePolicy returns the pipeline decode policy.
func (j *Job) DecodePolicy() (pipeline.DecodePolicy, error) {
	return pipeline.ParseDecodePolicy(fold.String(j.DecodeErrors))
}

// Effect builds the configured effect. An image operand named by With is
// loaded from disk.
func (j *Job) Effect() (*effect.Effect, error) {
	p, err := j.plan()
	if err != nil {
		return nil, err
	}
	switch {
	case p.bloom != nil:
		return effect.NewBloom(*p.bloom)
	case p.sorter != nil:
		return effect.NewSort(*p.sorter)
	}

	if j.With != "" {
		img, err := image.Load(j.With)
		if err != nil {
			return nil, fmt.Errorf("config: load operand image: %w", err)
		}
		p.op.Operand = blend.ImageOperand(img)
	}
	return effect.NewOp(p.op)
}

// plan is a parsed effect, before any image operand is loaded.
type plan struct {
	op     effect.OpConfig
	bloom  *filter.Bloom
	sorter *filter.Sorter
}

func (j *Job) plan() (plan, error) {
	if j.Op == "" {
		return plan{}, imgfx.NewConfigError("op", fmt.Errorf("%w: required", imgfx.ErrUnknownOp))
	}
	switch name := fold.String(j.Op); name {
	case "bloom", "sort":
		if j.Raw {
			return plan{}, errRawUnsupported(name)
		}
	}
	switch fold.String(j.Op) {
	case "bloom":
		b, err := j.bloom()
		return plan{bloom: b}, err
	case "sort":
		s, err := j.sorter()
		return plan{sorter: s}, err
	}

	op, err := blend.ParseOp(j.Op)
	if err != nil {
		return plan{}, imgfx.NewConfigError("op", err)
	}
	if j.Raw && !op.HonorsRaw() {
		return plan{}, errRawUnsupported(op.String())
	}
	lhs, err := channel.ParseString(j.LHS)
	if err != nil {
		return plan{}, refield("lhs", err)
	}
	rhs, err := channel.ParseString(j.RHS)
	if err != nil {
		return plan{}, refield("rhs", err)
	}

	cfg := effect.OpConfig{
		Op:     op,
		LHS:    lhs,
		RHS:    rhs,
		Params: blend.Params{Negate: j.Negate, Raw: j.Raw},
	}
	args := j.Args

	if op.IsShift() {
		bits := j.BitShift
		if len(args) > 0 {
			if bits, err = strconv.Atoi(args[0]); err != nil {
				return plan{}, imgfx.NewConfigError("bit_shift", fmt.Errorf("%w: %q", imgfx.ErrBitCount, args[0]))
			}
			args = args[1:]
		}
		if bits < 0 {
			return plan{}, imgfx.NewConfigError("bit_shift", fmt.Errorf("%w: %d", imgfx.ErrBitCount, bits))
		}
		cfg.Params.Bits = uint(bits)
	} else {
		switch {
		case len(args) > 0:
			c, err := imgfx.ParseHex(args[0])
			if err != nil {
				return plan{}, imgfx.NewConfigError("color", err)
			}
			if j.With != "" {
				return plan{}, imgfx.NewConfigError("with", fmt.Errorf("%w: both a color and an image operand given", imgfx.ErrInvalidParam))
			}
			cfg.Operand = blend.ConstOperand(c)
			args = args[1:]
		case j.With == "":
			return plan{}, imgfx.NewConfigError("color", fmt.Errorf("%w: %s needs a color or an image operand", imgfx.ErrInvalidColor, op))
		}
	}

	if len(args) > 0 {
		if fold.String(args[0]) != "raw" || !op.HonorsRaw() {
			return plan{}, imgfx.NewConfigError("args", fmt.Errorf("%w: unexpected argument %q for %s", imgfx.ErrInvalidParam, args[0], op))
		}
		cfg.Params.Raw = true
		args = args[1:]
	}
	if len(args) > 0 {
		return plan{}, imgfx.NewConfigError("args", fmt.Errorf("%w: too many arguments for %s", imgfx.ErrInvalidParam, op))
	}
	if err := cfg.Params.Validate(); err != nil {
		return plan{}, err
	}
	return plan{op: cfg}, nil
}

// bloom parses INTENSITY RADIUS MIN [MAX].
func (j *Job) bloom() (*filter.Bloom, error) {
	if len(j.Args) < 3 || len(j.Args) > 4 {
		return nil, imgfx.NewConfigError("args", fmt.Errorf("%w: BLOOM takes INTENSITY RADIUS MIN [MAX]", imgfx.ErrInvalidParam))
	}
	intensity, err := parseFloat("intensity", j.Args[0])
	if err != nil {
		return nil, err
	}
	radius, err := parseFloat("radius", j.Args[1])
	if err != nil {
		return nil, err
	}
	lo, err := parseLuma("threshold", j.Args[2])
	if err != nil {
		return nil, err
	}
	hi := uint8(filter.DefaultBloomMax)
	if len(j.Args) == 4 {
		if hi, err = parseLuma("threshold", j.Args[3]); err != nil {
			return nil, err
		}
	}
	return filter.NewBloom(intensity, radius, lo, hi)
}

// sorter parses DIRECTION KEY MIN MAX.
func (j *Job) sorter() (*filter.Sorter, error) {
	if len(j.Args) != 4 {
		return nil, imgfx.NewConfigError("args", fmt.Errorf("%w: SORT takes DIRECTION KEY MIN MAX", imgfx.ErrInvalidParam))
	}
	dir, err := filter.ParseDirection(j.Args[0])
	if err != nil {
		return nil, imgfx.NewConfigError("direction", err)
	}
	key, err := filter.ParseSortKey(j.Args[1])
	if err != nil {
		return nil, imgfx.NewConfigError("sort_by", err)
	}
	lo, err := parseFloat("threshold", j.Args[2])
	if err != nil {
		return nil, err
	}
	hi, err := parseFloat("threshold", j.Args[3])
	if err != nil {
		return nil, err
	}
	return filter.NewSorter(dir, key, lo, hi)
}

func errRawUnsupported(op string) error {
	return imgfx.NewConfigError("raw", fmt.Errorf("%w: raw applies only to SUB, LEFT and RIGHT, not %s", imgfx.ErrInvalidParam, op))
}

// refield reports err against the job field that supplied the value.
func refield(field string, err error) error {
	var ce *imgfx.ConfigError
	if errors.As(err, &ce) {
		return imgfx.NewConfigError(field, ce.Err)
	}
	return imgfx.NewConfigError(field, err)
}

func parseFloat(field, s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, imgfx.NewConfigError(field, fmt.Errorf("%w: %q", imgfx.ErrInvalidParam, s))
	}
	return f, nil
}

func parseLuma(field, s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, imgfx.NewConfigError(field, fmt.Errorf("%w: %q is not in 0..255", imgfx.ErrThresholdRange, s))
	}
	return uint8(v), nil
}
