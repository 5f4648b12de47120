// Package gst decodes and encodes video files with GStreamer through
// github.com/tinyzimmer/go-gst.
//
// Decoding uses
//
//	filesrc ! decodebin ! videoconvert ! video/x-raw,format=RGBA ! appsink
//
// and encoding
//
//	appsrc ! videoconvert ! <encoder> ! <muxer> ! filesink
//
// with the encoder and muxer chosen from the output extension. The GStreamer
// bindings are excluded by the nogst build tag; the helpers in this file
// are always available.
package gst

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
)

// Errors returned by the adapter.
var (
	// ErrCaps is returned when negotiated caps lack a size or frame rate.
	ErrCaps = errors.New("gst: unusable caps")

	// ErrContainer is returned for output extensions without an encoder chain.
	ErrContainer = errors.New("gst: unsupported container")
)

// VideoInfo is the part of negotiated raw video caps the adapter needs.
type VideoInfo struct {
	Width, Height int
	FPS           float64
}

// ParseCaps extracts width, height and framerate from a caps string such as
//
//	video/x-raw, format=(string)RGBA, width=(int)640, height=(int)360, framerate=(fraction)30000/1001
//
// A missing or zero framerate leaves FPS at 0.
func ParseCaps(caps string) (VideoInfo, error) {
	var info VideoInfo
	first := strings.Index(caps, ";")
	if first >= 0 {
		caps = caps[:first]
	}
	for _, field := range strings.Split(caps, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(field), "=")
		if !ok {
			continue
		}
		if i := strings.Index(value, ")"); strings.HasPrefix(value, "(") && i > 0 {
			value = value[i+1:]
		}
		var err error
		switch strings.TrimSpace(key) {
		case "width":
			info.Width, err = strconv.Atoi(value)
		case "height":
			info.Height, err = strconv.Atoi(value)
		case "framerate":
			info.FPS, err = parseFraction(value)
		}
		if err != nil {
			return VideoInfo{}, fmt.Errorf("%w: %s: %v", ErrCaps, key, err)
		}
	}
	if info.Width <= 0 || info.Height <= 0 {
		return VideoInfo{}, fmt.Errorf("%w: no frame size in %q", ErrCaps, caps)
	}
	return info, nil
}

func parseFraction(s string) (float64, error) {
	num, den, ok := strings.Cut(s, "/")
	n, err := strconv.Atoi(num)
	if err != nil {
		return 0, err
	}
	d := 1
	if ok {
		if d, err = strconv.Atoi(den); err != nil {
			return 0, err
		}
	}
	if d == 0 {
		return 0, nil
	}
	return float64(n) / float64(d), nil
}

// Fraction returns a numerator and denominator for fps. Integer rates
// map to n/1 and NTSC rates such as 29.97 to n/1001.
func Fraction(fps float64) (int, int) {
	if r := math.Round(fps); math.Abs(r-fps) < 1e-9 {
		return int(r), 1
	}
	if n := math.Round(fps * 1001); math.Abs(n/1001-fps) < 1e-3 && int(n)%1000 == 0 {
		return int(n), 1001
	}
	return int(math.Round(fps * 1000)), 1000
}

// RawCaps returns the appsrc caps for RGBA frames.
func RawCaps(width, height int, fps float64) string {
	n, d := Fraction(fps)
	return fmt.Sprintf("video/x-raw,format=RGBA,width=%d,height=%d,framerate=%d/%d", width, height, n, d)
}

// EncoderChain returns the encoder and muxer elements for an output path.
func EncoderChain(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp4", ".m4v":
		return "x264enc ! mp4mux", nil
	case ".mov":
		return "x264enc ! qtmux", nil
	case ".mkv":
		return "x264enc ! matroskamux", nil
	case ".webm":
		return "vp8enc ! webmmux", nil
	case ".avi":
		return "x264enc ! avimux", nil
	}
	return "", fmt.Errorf("%w: %q", ErrContainer, filepath.Ext(path))
}
