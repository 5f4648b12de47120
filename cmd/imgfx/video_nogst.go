//go:build nogst

package main

import (
	"errors"

	"github.com/gogpu/imgfx/internal/pipeline"
)

var errNoGst = errors.New("imgfx: built without GStreamer (nogst); use frame directories for video")

func openVideoFile(string, float64) (pipeline.Source, closer, error) {
	return nil, nil, errNoGst
}

func createVideoFile(string, float64) (pipeline.Sink, error) {
	return nil, errNoGst
}
