// Package pipeline drives frames from a decoder through an effect and into
// an encoder.
//
// A run pulls frames from a Source in order, computes the tempo scale factor
// for each frame from its index, transforms a batch of frames concurrently
// and writes the results to a Sink strictly in index order, stamped at
// index/fps.
//
// # Failure handling
//
// Decode failures follow the DecodePolicy. Transform and encode failures are
// fatal. The sink is closed on every exit path once Run has started,
// including cancellation, so containers receive a trailer for the frames
// already written.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/gogpu/imgfx"
	"github.com/gogpu/imgfx/internal/parallel"
)

// Source produces decoded frames in presentation order. Next returns io.EOF
// at the end of the stream.
type Source interface {
	Next(ctx context.Context) (*imgfx.Pixmap, error)
	FrameRate() float64
}

// Sink consumes transformed frames. Close finalizes the output and is
// called exactly once per run.
type Sink interface {
	WriteFrame(ctx context.Context, f Frame) error
	Close() error
}

// Frame is one frame of a stream.
type Frame struct {
	// Index is the zero-based position in the source stream. Skipped
	// frames consume an index.
	Index int

	// PTS is the presentation timestamp, Index/fps.
	PTS time.Duration

	Image *imgfx.Pixmap
}

// Transform applies an effect to one frame at the given modulation scale.
type Transform func(img *imgfx.Pixmap, scale float64) (*imgfx.Pixmap, error)

// State is the lifecycle state of a Pipeline.
type State int32

// Pipeline states.
const (
	Idle State = iota
	Streaming
	Draining
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Streaming:
		return "streaming"
	case Draining:
		return "draining"
	case Done:
		return "done"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// Errors returned by the pipeline.
var (
	// ErrAlreadyRun is returned when Run is called more than once.
	ErrAlreadyRun = errors.New("pipeline: already run")

	// ErrFrameRate is returned when the source reports a non-positive or
	// non-finite frame rate.
	ErrFrameRate = errors.New("pipeline: invalid frame rate")
)

// Stats summarizes a run.
type Stats struct {
	// RunID identifies the run in log records.
	RunID string

	// Frames is the number of frames written to the sink.
	Frames int

	// Skipped is the number of frames dropped after decode failures.
	Skipped int

	// Duration is the presentation time covered by the output.
	Duration time.Duration

	// Elapsed is the wall-clock time of the run.
	Elapsed time.Duration
}

// Pipeline runs a single decode, transform, encode pass.
type Pipeline struct {
	src       Source
	sink      Sink
	transform Transform
	opts      options

	state atomic.Int32
}

// New creates a pipeline. Nothing is read or written until Run.
func New(src Source, sink Sink, transform Transform, opts ...Option) *Pipeline {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Pipeline{src: src, sink: sink, transform: transform, opts: o}
}

// State returns the current state. Safe for concurrent use.
func (p *Pipeline) State() State {
	return State(p.state.Load())
}

func (p *Pipeline) setState(s State) {
	p.state.Store(int32(s))
}

// ParseDecodePolicy parses "skip" or "stop".
func ParseDecodePolicy(name string) (DecodePolicy, error) {
	switch name {
	case "", "skip":
		return SkipFrame, nil
	case "stop", "eos":
		return EndOfStream, nil
	}
	return 0, imgfx.NewConfigError("decode_errors", fmt.Errorf("%w: decode policy %q", imgfx.ErrInvalidParam, name))
}

// frameTime returns index/fps as a duration.
func frameTime(index int, fps float64) time.Duration {
	return time.Duration(float64(index) * float64(time.Second) / fps)
}

// job is a frame awaiting its transform.
type job struct {
	frame Frame
	scale float64
	out   *imgfx.Pixmap
	err   error
}

// Run executes the pipeline. It returns ctx.Err() when cancelled after
// closing the sink with the frames already written.
func (p *Pipeline) Run(ctx context.Context) (Stats, error) {
	if !p.state.CompareAndSwap(int32(Idle), int32(Streaming)) {
		return Stats{}, ErrAlreadyRun
	}

	start := time.Now()
	stats := Stats{RunID: uuid.NewString()}
	log := p.opts.logger
	if log == nil {
		log = imgfx.Logger()
	}
	log = log.With("run_id", stats.RunID)

	fps := p.src.FrameRate()
	if !(fps > 0) || math.IsInf(fps, 0) {
		err := imgfx.NewConfigError("fps", fmt.Errorf("%w: %v", ErrFrameRate, fps))
		p.setState(Failed)
		return stats, errors.Join(err, p.sink.Close())
	}

	log.Info("pipeline: start",
		"fps", fps, "workers", p.opts.workers, "modulator", p.opts.modulator.String(),
		"decode_policy", p.opts.policy.String(), "max_duration", p.opts.maxDuration)

	pool := parallel.NewWorkerPool(p.opts.workers)
	defer pool.Close()

	r := &run{p: p, log: log, fps: fps, pool: pool, stats: &stats}
	err := r.loop(ctx)

	stats.Duration = frameTime(r.written, fps)
	stats.Elapsed = time.Since(start)
	return stats, p.finish(ctx, log, &stats, err)
}

// finish closes the sink and settles the final state.
func (p *Pipeline) finish(ctx context.Context, log *slog.Logger, stats *Stats, runErr error) error {
	cancelled := runErr != nil && ctx.Err() != nil && errors.Is(runErr, ctx.Err())
	if runErr == nil || cancelled {
		p.setState(Draining)
	}

	closeErr := p.sink.Close()
	if closeErr != nil {
		closeErr = fmt.Errorf("pipeline: finalize: %w", &imgfx.EncodeError{Frame: stats.Frames, Err: closeErr})
	}

	switch {
	case runErr == nil && closeErr == nil:
		p.setState(Done)
		log.Info("pipeline: done",
			"frames", stats.Frames, "skipped", stats.Skipped,
			"duration", stats.Duration, "elapsed", stats.Elapsed)
		return nil
	case cancelled && closeErr == nil:
		p.setState(Done)
		log.Warn("pipeline: cancelled", "frames", stats.Frames, "err", runErr)
		return ctx.Err()
	}

	p.setState(Failed)
	err := errors.Join(runErr, closeErr)
	log.Error("pipeline: failed", "frames", stats.Frames, "err", err)
	return err
}

// run is the mutable state of one Run call.
type run struct {
	p     *Pipeline
	log   *slog.Logger
	fps   float64
	pool  *parallel.WorkerPool
	stats *Stats

	next        int // index of the next frame to pull
	written     int // index after the last frame written
	consecutive int // consecutive decode failures
	eof         bool
}

func (r *run) loop(ctx context.Context) error {
	batch := make([]*job, 0, r.p.opts.workers)
	for !r.eof {
		batch = batch[:0]
		if err := r.fill(ctx, &batch); err != nil {
			return err
		}
		if len(batch) == 0 {
			continue
		}
		r.transformAll(batch)
		for _, j := range batch {
			if err := r.write(ctx, j); err != nil {
				return err
			}
		}
	}
	return nil
}

// fill pulls up to workers frames into batch.
func (r *run) fill(ctx context.Context, batch *[]*job) error {
	opts := r.p.opts
	for len(*batch) < opts.workers && !r.eof {
		if err := ctx.Err(); err != nil {
			return err
		}

		pts := frameTime(r.next, r.fps)
		if opts.maxDuration > 0 && pts > opts.maxDuration {
			r.log.Info("pipeline: max duration reached", "frame", r.next, "pts", pts)
			r.eof = true
			return nil
		}

		img, err := r.p.src.Next(ctx)
		switch {
		case errors.Is(err, io.EOF):
			r.eof = true
			return nil
		case err != nil:
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if err := r.decodeFailed(err); err != nil {
				return err
			}
			continue
		}

		r.consecutive = 0
		*batch = append(*batch, &job{
			frame: Frame{Index: r.next, PTS: pts, Image: img},
			scale: opts.modulator.At(float64(r.next) / r.fps),
		})
		r.next++
	}
	return nil
}

// decodeFailed applies the decode policy to a failed frame.
func (r *run) decodeFailed(err error) error {
	derr := &imgfx.DecodeError{Frame: r.next, Err: err}
	if r.p.opts.policy == EndOfStream {
		r.log.Warn("pipeline: decode failed, ending stream", "frame", r.next, "err", err)
		r.eof = true
		return nil
	}

	r.consecutive++
	if r.consecutive > r.p.opts.maxDecodeErrors {
		return fmt.Errorf("pipeline: %d consecutive decode failures: %w", r.consecutive, derr)
	}
	r.log.Warn("pipeline: skipping frame", "frame", r.next, "err", err)
	r.stats.Skipped++
	r.next++
	return nil
}

// transformAll runs the transform for every job of a batch on the pool.
func (r *run) transformAll(batch []*job) {
	r.pool.For(len(batch), func(i int) {
		j := batch[i]
		j.out, j.err = r.p.transform(j.frame.Image, j.scale)
	})
}

// write hands a transformed frame to the sink.
func (r *run) write(ctx context.Context, j *job) error {
	if j.err != nil {
		return fmt.Errorf("pipeline: transform frame %d: %w", j.frame.Index, j.err)
	}
	f := j.frame
	f.Image = j.out
	if err := r.p.sink.WriteFrame(ctx, f); err != nil {
		return &imgfx.EncodeError{Frame: f.Index, Err: err}
	}
	r.stats.Frames++
	r.written = f.Index + 1
	r.log.Debug("pipeline: frame written", "frame", f.Index, "pts", f.PTS, "scale", j.scale)
	return nil
}
