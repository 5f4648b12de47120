//go:build !nogst

package main

import (
	"github.com/gogpu/imgfx/internal/media/frames"
	"github.com/gogpu/imgfx/internal/media/gst"
	"github.com/gogpu/imgfx/internal/pipeline"
)

func openVideoFile(path string, fps float64) (pipeline.Source, closer, error) {
	if !(fps > 0) {
		fps = frames.DefaultFrameRate
	}
	src, err := gst.OpenSource(path, fps)
	if err != nil {
		return nil, nil, err
	}
	return src, src.Close, nil
}

func createVideoFile(path string, fps float64) (pipeline.Sink, error) {
	return gst.CreateSink(path, fps)
}
