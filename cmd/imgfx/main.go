// Command imgfx applies per-channel pixel effects, bloom and pixel sorting
// to still images and video.
//
// Usage:
//
//	imgfx [flags] OP [ARGS...]
//
//	OR|AND|XOR|ADD|MULT|DIV|POW|AVG|SCREEN|OVERLAY COLOR
//	SUB COLOR [raw]
//	LEFT|RIGHT BITS [raw]
//	BLOOM INTENSITY RADIUS MIN [MAX]
//	SORT DIRECTION KEY MIN MAX
//
// Exit status is 0 on success, 2 for configuration errors and 1 for
// runtime errors.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gogpu/imgfx"
	"github.com/gogpu/imgfx/internal/config"
	"github.com/gogpu/imgfx/internal/image"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// Exit codes.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one invocation and returns the exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("imgfx", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: imgfx [flags] OP [ARGS...]\n\nflags:\n")
		fs.PrintDefaults()
	}

	configPath := fs.String("config", "", "YAML job file; explicit flags override it")
	showVersion := fs.Bool("version", false, "print version and exit")
	fs.String("input", "", "input image, video file or frame directory")
	fs.String("output", "", "output image, video file or frame directory")
	fs.Bool("video", false, "process the input as video")
	fs.String("lhs", "", "left-hand channel selector, e.g. r,g,b")
	fs.String("rhs", "", "right-hand channel selector, e.g. b,g,r")
	fs.Bool("negate", false, "complement the result of OR, AND and XOR")
	fs.Bool("raw", false, "wrap instead of clamp for SUB, LEFT and RIGHT")
	fs.Int("bit-shift", 0, "shift amount for LEFT and RIGHT (0-7)")
	fs.String("with", "", "image operand instead of a constant color")
	fs.Int("bpm", 0, "tempo for pulsing visualizations")
	fs.String("visualization", "default", "default, sine, saw, square or triangle")
	fs.Float64("fps", 0, "frame rate for frame directories or when the container has none")
	fs.Duration("max-duration", 0, "stop after this much video (0 = no limit)")
	fs.Int("workers", 0, "frames transformed concurrently (0 = GOMAXPROCS)")
	fs.String("decode-errors", "skip", "skip or stop on undecodable frames")
	fs.Bool("v", false, "debug logging")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitConfig
	}
	if *showVersion {
		fmt.Fprintf(stdout, "imgfx %s\n", version)
		return exitOK
	}

	job := config.Default()
	if *configPath != "" {
		var err error
		if job, err = config.Load(*configPath); err != nil {
			return fail(stderr, err)
		}
	}

	// Only flags given on the command line override the job file.
	var setErr error
	fs.Visit(func(f *flag.Flag) {
		if g, ok := f.Value.(flag.Getter); ok && setErr == nil {
			setErr = job.Set(f.Name, g.Get())
		}
	})
	if setErr != nil {
		return fail(stderr, setErr)
	}
	if rest := fs.Args(); len(rest) > 0 {
		job.Op, job.Args = rest[0], rest[1:]
	}

	level := slog.LevelInfo
	if job.Verbose {
		level = slog.LevelDebug
	}
	imgfx.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))
	defer imgfx.SetLogger(nil)

	if err := job.Validate(); err != nil {
		return fail(stderr, err)
	}

	start := time.Now()
	var err error
	if job.Video {
		err = runVideo(ctx, &job)
	} else {
		err = runImage(&job)
	}
	if err != nil {
		return fail(stderr, err)
	}
	imgfx.Logger().Info("imgfx: done", "output", job.Output, "elapsed", time.Since(start))
	return exitOK
}

// runImage applies the effect once to a still image.
func runImage(job *config.Job) error {
	fx, err := job.Effect()
	if err != nil {
		return err
	}
	src, err := image.Load(job.Input)
	if err != nil {
		return err
	}
	imgfx.Logger().Debug("imgfx: image loaded", "path", job.Input,
		"width", src.Width(), "height", src.Height(), "effect", fx.String())

	out, err := fx.Apply(src, 1)
	if err != nil {
		return err
	}
	return image.Save(job.Output, out)
}

// fail prints err and maps it to an exit code.
func fail(stderr io.Writer, err error) int {
	fmt.Fprintf(stderr, "imgfx: %v\n", err)
	if imgfx.IsConfigError(err) {
		return exitConfig
	}
	return exitRuntime
}
