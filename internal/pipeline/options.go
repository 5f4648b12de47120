package pipeline

import (
	"log/slog"
	"time"

	"github.com/gogpu/imgfx/internal/tempo"
)

// DecodePolicy selects how a failed frame decode is handled.
type DecodePolicy uint8

const (
	// SkipFrame logs the failure, drops the frame and keeps going. The
	// frame's index is consumed so later frames keep their timestamps.
	SkipFrame DecodePolicy = iota

	// EndOfStream treats the first decode failure as the end of input.
	EndOfStream
)

func (p DecodePolicy) String() string {
	if p == EndOfStream {
		return "stop"
	}
	return "skip"
}

// DefaultMaxDecodeErrors is the number of consecutive decode failures
// SkipFrame tolerates before the run fails.
const DefaultMaxDecodeErrors = 16

// Option configures a Pipeline during creation.
//
// Example:
//
//	p := pipeline.New(src, sink, fx.Transform,
//		pipeline.WithModulator(mod),
//		pipeline.WithWorkers(4))
type Option func(*options)

// options holds optional configuration for a Pipeline.
type options struct {
	modulator       tempo.Modulator
	workers         int
	policy          DecodePolicy
	maxDecodeErrors int
	maxDuration     time.Duration
	logger          *slog.Logger
}

// defaultOptions returns the default pipeline options.
func defaultOptions() options {
	return options{
		workers:         1,
		policy:          SkipFrame,
		maxDecodeErrors: DefaultMaxDecodeErrors,
	}
}

// WithModulator sets the tempo modulator. The default modulator applies
// effects at full strength.
func WithModulator(m tempo.Modulator) Option {
	return func(o *options) {
		o.modulator = m
	}
}

// WithWorkers sets how many frames are transformed concurrently.
// Values below 1 select one worker.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = 1
		}
		o.workers = n
	}
}

// WithDecodePolicy sets the decode failure policy.
func WithDecodePolicy(p DecodePolicy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithMaxDecodeErrors sets how many consecutive decode failures SkipFrame
// tolerates. Negative values are treated as 0.
func WithMaxDecodeErrors(n int) Option {
	return func(o *options) {
		if n < 0 {
			n = 0
		}
		o.maxDecodeErrors = n
	}
}

// WithMaxDuration stops the run once a frame's presentation time exceeds d.
// Zero means no limit.
func WithMaxDuration(d time.Duration) Option {
	return func(o *options) {
		if d < 0 {
			d = 0
		}
		o.maxDuration = d
	}
}

// WithLogger sets the logger used for run records. The default is
// imgfx.Logger() at the time Run starts.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
