package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/gogpu/imgfx"
	"github.com/gogpu/imgfx/internal/config"
	"github.com/gogpu/imgfx/internal/media/frames"
	"github.com/gogpu/imgfx/internal/pipeline"
)

// closer releases a source after a run.
type closer func() error

// runVideo streams every frame of the input through the effect.
// A directory input is read as numbered still frames; an output without an
// extension is written as a frame directory.
func runVideo(ctx context.Context, job *config.Job) error {
	fx, err := job.Effect()
	if err != nil {
		return err
	}
	mod, err := job.Modulator()
	if err != nil {
		return err
	}
	policy, err := job.DecodePolicy()
	if err != nil {
		return err
	}

	src, release, err := openSource(job)
	if err != nil {
		return err
	}
	defer func() { _ = release() }()

	sink, err := createSink(job, src.FrameRate())
	if err != nil {
		return err
	}

	p := pipeline.New(src, sink, fx.Transform,
		pipeline.WithModulator(mod),
		pipeline.WithWorkers(job.WorkerCount()),
		pipeline.WithDecodePolicy(policy),
		pipeline.WithMaxDuration(job.MaxDuration),
		pipeline.WithLogger(imgfx.Logger().With("effect", fx.String())),
	)
	stats, err := p.Run(ctx)
	imgfx.Logger().Info("imgfx: video processed",
		"run_id", stats.RunID, "frames", stats.Frames, "skipped", stats.Skipped,
		"duration", stats.Duration, "state", p.State().String())
	return err
}

func openSource(job *config.Job) (pipeline.Source, closer, error) {
	if info, err := os.Stat(job.Input); err == nil && info.IsDir() {
		src, err := frames.OpenSource(job.Input, job.FPS)
		if err != nil {
			return nil, nil, err
		}
		return src, func() error { return nil }, nil
	}
	return openVideoFile(job.Input, job.FPS)
}

func createSink(job *config.Job, fps float64) (pipeline.Sink, error) {
	if filepath.Ext(job.Output) == "" {
		return frames.CreateSink(job.Output)
	}
	return createVideoFile(job.Output, fps)
}
