package imgfx

import (
	"errors"
	"fmt"
)

// Configuration errors. They are always reported wrapped in a *ConfigError
// that names the offending field.
var (
	// ErrInvalidSelector is returned for channel selectors with an unknown
	// channel name or a length other than 1, 3 or 4.
	ErrInvalidSelector = errors.New("imgfx: invalid channel selector")

	// ErrInvalidColor is returned when a hex color cannot be parsed.
	ErrInvalidColor = errors.New("imgfx: invalid hex color")

	// ErrBitCount is returned when a shift amount is outside 0..7.
	ErrBitCount = errors.New("imgfx: bit count out of range 0..7")

	// ErrThresholdRange is returned when a threshold minimum exceeds its maximum.
	ErrThresholdRange = errors.New("imgfx: min threshold greater than max threshold")

	// ErrInvalidParam is returned for out-of-range numeric parameters
	// (negative intensity, non-positive radius, NaN).
	ErrInvalidParam = errors.New("imgfx: invalid parameter")

	// ErrBPM is returned when a pulsed visualization has no positive BPM.
	ErrBPM = errors.New("imgfx: bpm must be > 0")

	// ErrOperandSize is returned when an image operand does not match the
	// dimensions of the image it is combined with.
	ErrOperandSize = errors.New("imgfx: operand size mismatch")

	// ErrUnknownOp is returned for unrecognized operation, direction,
	// key or waveform names.
	ErrUnknownOp = errors.New("imgfx: unknown name")
)

// ConfigError reports a configuration problem detected before any pixel is
// processed. Field names the offending setting.
type ConfigError struct {
	Field string
	Err   error
}

// NewConfigError wraps err as a configuration error for field.
func NewConfigError(field string, err error) *ConfigError {
	return &ConfigError{Field: field, Err: err}
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("config: %v", e.Err)
	}
	return fmt.Sprintf("config: %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// IsConfigError reports whether err is or wraps a *ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// DecodeError reports a failure to decode frame Frame of a video source.
type DecodeError struct {
	Frame int
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode frame %d: %v", e.Frame, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EncodeError reports a failure to encode frame Frame. It is always fatal.
type EncodeError struct {
	Frame int
	Err   error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode frame %d: %v", e.Frame, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }
