//go:build !nogst

package gst

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/tinyzimmer/go-gst/gst"
	"github.com/tinyzimmer/go-gst/gst/app"

	"github.com/gogpu/imgfx"
	"github.com/gogpu/imgfx/internal/pipeline"
)

// finalizeTimeout bounds the wait for EOS after the last frame is pushed.
const finalizeTimeout = 30 * time.Second

var initOnce sync.Once

func initGst() {
	initOnce.Do(func() { gst.Init(nil) })
}

// Source decodes a video file into RGBA frames.
type Source struct {
	pipe *gst.Pipeline
	sink *app.Sink
	info VideoInfo
	path string
}

// OpenSource starts decoding path. When the container does not report a
// frame rate, fallbackFPS is used.
func OpenSource(path string, fallbackFPS float64) (*Source, error) {
	initGst()

	pipe, err := gst.NewPipelineFromString(
		"filesrc name=src ! decodebin ! videoconvert ! video/x-raw,format=RGBA ! appsink name=sink sync=false")
	if err != nil {
		return nil, fmt.Errorf("gst: create decode pipeline: %w", err)
	}
	src, err := pipe.GetElementByName("src")
	if err != nil {
		return nil, fmt.Errorf("gst: filesrc: %w", err)
	}
	if err := src.SetProperty("location", path); err != nil {
		return nil, fmt.Errorf("gst: set location: %w", err)
	}
	sinkElem, err := pipe.GetElementByName("sink")
	if err != nil {
		return nil, fmt.Errorf("gst: appsink: %w", err)
	}
	s := &Source{pipe: pipe, sink: app.SinkFromElement(sinkElem), path: path}

	if err := pipe.SetState(gst.StatePaused); err != nil {
		return nil, fmt.Errorf("gst: pause decode pipeline: %w", err)
	}
	preroll := s.sink.PullPreroll()
	if preroll == nil {
		err := busError(pipe)
		_ = pipe.SetState(gst.StateNull)
		return nil, fmt.Errorf("gst: open %s: %w", path, err)
	}
	info, err := ParseCaps(preroll.GetCaps().String())
	if err != nil {
		_ = pipe.SetState(gst.StateNull)
		return nil, err
	}
	if !(info.FPS > 0) {
		info.FPS = fallbackFPS
	}
	s.info = info

	if err := pipe.SetState(gst.StatePlaying); err != nil {
		_ = pipe.SetState(gst.StateNull)
		return nil, fmt.Errorf("gst: start decode pipeline: %w", err)
	}
	imgfx.Logger().Info("gst: source opened",
		"path", path, "width", info.Width, "height", info.Height, "fps", info.FPS)
	return s, nil
}

// Info returns the negotiated frame size and rate.
func (s *Source) Info() VideoInfo {
	return s.info
}

// FrameRate implements pipeline.Source.
func (s *Source) FrameRate() float64 {
	return s.info.FPS
}

// Next implements pipeline.Source.
func (s *Source) Next(ctx context.Context) (*imgfx.Pixmap, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sample := s.sink.PullSample()
	if sample == nil {
		if s.sink.IsEOS() {
			return nil, io.EOF
		}
		return nil, busError(s.pipe)
	}

	buffer := sample.GetBuffer()
	if buffer == nil {
		return nil, errors.New("gst: sample without buffer")
	}
	mapInfo := buffer.Map(gst.MapRead)
	data := mapInfo.Bytes()
	want := s.info.Width * s.info.Height * 4
	if len(data) < want {
		buffer.Unmap()
		return nil, fmt.Errorf("gst: short frame: %d bytes, want %d", len(data), want)
	}
	// GStreamer reuses the buffer.
	pix := make([]uint8, want)
	copy(pix, data)
	buffer.Unmap()

	return imgfx.PixmapFromData(s.info.Width, s.info.Height, pix)
}

// Close stops the decode pipeline.
func (s *Source) Close() error {
	return s.pipe.SetState(gst.StateNull)
}

// Sink encodes frames into a video file. The encode pipeline is built when
// the first frame arrives, using that frame's size.
type Sink struct {
	path  string
	fps   float64
	chain string

	pipe          *gst.Pipeline
	src           *app.Source
	width, height int
	interval      time.Duration
	frames        int
	closed        bool
}

// CreateSink returns a sink that writes path at fps. The container and codec
// follow the extension (see EncoderChain).
func CreateSink(path string, fps float64) (*Sink, error) {
	chain, err := EncoderChain(path)
	if err != nil {
		return nil, err
	}
	if !(fps > 0) {
		return nil, imgfx.NewConfigError("fps", fmt.Errorf("%w: %v", imgfx.ErrInvalidParam, fps))
	}
	return &Sink{
		path:     path,
		fps:      fps,
		chain:    chain,
		interval: time.Duration(float64(time.Second) / fps),
	}, nil
}

func (s *Sink) start(width, height int) error {
	initGst()

	launch := fmt.Sprintf("appsrc name=src format=time ! videoconvert ! %s ! filesink name=out", s.chain)
	pipe, err := gst.NewPipelineFromString(launch)
	if err != nil {
		return fmt.Errorf("gst: create encode pipeline: %w", err)
	}
	out, err := pipe.GetElementByName("out")
	if err != nil {
		return fmt.Errorf("gst: filesink: %w", err)
	}
	if err := out.SetProperty("location", s.path); err != nil {
		return fmt.Errorf("gst: set location: %w", err)
	}
	srcElem, err := pipe.GetElementByName("src")
	if err != nil {
		return fmt.Errorf("gst: appsrc: %w", err)
	}
	src := app.SrcFromElement(srcElem)
	src.SetCaps(gst.NewCapsFromString(RawCaps(width, height, s.fps)))

	if err := pipe.SetState(gst.StatePlaying); err != nil {
		return fmt.Errorf("gst: start encode pipeline: %w", err)
	}
	s.pipe, s.src = pipe, src
	s.width, s.height = width, height
	imgfx.Logger().Info("gst: sink started",
		"path", s.path, "width", width, "height", height, "fps", s.fps, "chain", s.chain)
	return nil
}

// WriteFrame implements pipeline.Sink. All frames must share the size of
// the first one.
func (s *Sink) WriteFrame(ctx context.Context, f pipeline.Frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.closed {
		return errors.New("gst: sink closed")
	}
	if s.pipe == nil {
		if err := s.start(f.Image.Width(), f.Image.Height()); err != nil {
			return err
		}
	}
	if f.Image.Width() != s.width || f.Image.Height() != s.height {
		return fmt.Errorf("gst: frame %d is %dx%d, stream is %dx%d",
			f.Index, f.Image.Width(), f.Image.Height(), s.width, s.height)
	}

	buf := gst.NewBufferFromBytes(f.Image.Data())
	buf.SetPresentationTimestamp(f.PTS)
	buf.SetDuration(s.interval)
	if ret := s.src.PushBuffer(buf); ret != gst.FlowOK {
		return fmt.Errorf("gst: push buffer: %v", ret)
	}
	s.frames++
	return nil
}

// Close signals end of stream, waits for the muxer to write its trailer and
// stops the pipeline. A sink that never received a frame writes nothing.
func (s *Sink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.pipe == nil {
		return nil
	}
	defer func() { _ = s.pipe.SetState(gst.StateNull) }()

	if ret := s.src.EndStream(); ret != gst.FlowOK {
		return fmt.Errorf("gst: end stream: %v", ret)
	}
	if err := waitEOS(s.pipe, finalizeTimeout); err != nil {
		return err
	}
	imgfx.Logger().Info("gst: sink finalized", "path", s.path, "frames", s.frames)
	return nil
}

// waitEOS polls the bus until EOS, an error, or timeout.
func waitEOS(pipe *gst.Pipeline, timeout time.Duration) error {
	bus := pipe.GetPipelineBus()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		msg := bus.TimedPop(50 * time.Millisecond)
		if msg == nil {
			continue
		}
		switch msg.Type() {
		case gst.MessageEOS:
			return nil
		case gst.MessageError:
			gerr := msg.ParseError()
			return fmt.Errorf("gst: %s (%s)", gerr.Error(), gerr.DebugString())
		}
	}
	return fmt.Errorf("gst: no EOS after %v", timeout)
}

// busError returns the pending error message on the bus, if any.
func busError(pipe *gst.Pipeline) error {
	bus := pipe.GetPipelineBus()
	for {
		msg := bus.TimedPop(10 * time.Millisecond)
		if msg == nil {
			return errors.New("gst: no sample")
		}
		if msg.Type() == gst.MessageError {
			gerr := msg.ParseError()
			return fmt.Errorf("gst: %s (%s)", gerr.Error(), gerr.DebugString())
		}
	}
}
