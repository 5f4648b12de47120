// Package frames treats a directory of numbered still images as a video
// stream.
//
// A Source reads every supported image in a directory in natural name order
// ("frame2.png" before "frame10.png"). A Sink writes frame_000000.png,
// frame_000001.png, ... named by frame index, so gaps left by skipped frames
// stay visible in the output.
package frames

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/gogpu/imgfx"
	"github.com/gogpu/imgfx/internal/image"
	"github.com/gogpu/imgfx/internal/pipeline"
)

// DefaultFrameRate is used when a Source is opened with a non-positive rate.
const DefaultFrameRate = 24

// ErrNoFrames is returned when a source directory holds no images.
var ErrNoFrames = errors.New("frames: no images in directory")

// Source reads frames from a directory.
type Source struct {
	paths []string
	pos   int
	fps   float64
}

// OpenSource lists the images in dir. Files of unknown format are ignored.
func OpenSource(dir string, fps float64) (*Source, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("frames: read dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || image.FormatFromPath(e.Name()) == image.FormatUnknown {
			continue
		}
		names = append(names, e.Name())
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoFrames, dir)
	}
	sort.Slice(names, func(i, j int) bool { return naturalLess(names[i], names[j]) })

	if !(fps > 0) {
		fps = DefaultFrameRate
	}
	paths := make([]string, len(names))
	for i, n := range names {
		paths[i] = filepath.Join(dir, n)
	}
	imgfx.Logger().Debug("frames: source opened", "dir", dir, "frames", len(paths), "fps", fps)
	return &Source{paths: paths, fps: fps}, nil
}

// Len returns the number of frames in the directory.
func (s *Source) Len() int {
	return len(s.paths)
}

// FrameRate implements pipeline.Source.
func (s *Source) FrameRate() float64 {
	return s.fps
}

// Next implements pipeline.Source. A file that fails to decode still
// advances the position.
func (s *Source) Next(ctx context.Context) (*imgfx.Pixmap, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.pos >= len(s.paths) {
		return nil, io.EOF
	}
	path := s.paths[s.pos]
	s.pos++
	return image.Load(path)
}

// Sink writes frames into a directory.
type Sink struct {
	dir     string
	written int
	closed  bool
}

// CreateSink creates dir if needed and returns a sink writing PNG files.
func CreateSink(dir string) (*Sink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("frames: create dir: %w", err)
	}
	return &Sink{dir: dir}, nil
}

// FrameName returns the file name used for the frame at index.
func FrameName(index int) string {
	return fmt.Sprintf("frame_%06d.png", index)
}

// WriteFrame implements pipeline.Sink.
func (s *Sink) WriteFrame(ctx context.Context, f pipeline.Frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.closed {
		return errors.New("frames: sink closed")
	}
	if err := image.Save(filepath.Join(s.dir, FrameName(f.Index)), f.Image); err != nil {
		return err
	}
	s.written++
	return nil
}

// Close implements pipeline.Sink. It is safe to call more than once.
func (s *Sink) Close() error {
	if !s.closed {
		s.closed = true
		imgfx.Logger().Debug("frames: sink closed", "dir", s.dir, "frames", s.written)
	}
	return nil
}

// Written returns the number of frames written so far.
func (s *Sink) Written() int {
	return s.written
}

// naturalLess orders names so that embedded numbers compare numerically.
// Names that compare equal that way ("f2", "f002") fall back to byte order.
func naturalLess(a, b string) bool {
	if c := naturalCompare(a, b); c != 0 {
		return c < 0
	}
	return a < b
}

func naturalCompare(a, b string) int {
	for a != "" && b != "" {
		ca, cb := a[0], b[0]
		if isDigit(ca) && isDigit(cb) {
			na, ra := leadingNumber(a)
			nb, rb := leadingNumber(b)
			if na != nb {
				if na < nb {
					return -1
				}
				return 1
			}
			a, b = ra, rb
			continue
		}
		if ca != cb {
			if ca < cb {
				return -1
			}
			return 1
		}
		a, b = a[1:], b[1:]
	}
	return len(a) - len(b)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// leadingNumber splits the leading run of digits from s. Runs too long for
// uint64 compare as the maximum value.
func leadingNumber(s string) (uint64, string) {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	n, err := strconv.ParseUint(s[:i], 10, 64)
	if err != nil {
		n = ^uint64(0)
	}
	return n, s[i:]
}
