// Package imgfx provides programmable per-channel pixel effects for still
// images and video.
//
// # Overview
//
// imgfx combines two pixel operands channel by channel: an image and either
// a constant color or a second image. Operations cover bitwise logic
// (OR, AND, XOR), arithmetic (ADD, SUB, MULT, DIV, POW, AVERAGE), blend
// modes (SCREEN, OVERLAY) and bit shifts. Two higher-level filters, bloom
// and pixel sort, build on the same pixel buffer. For video, every frame is
// run through the selected effect, optionally with its parameters modulated
// by a tempo-synchronized waveform.
//
// # Quick Start
//
//	img, _ := image.Load("in.png")
//	green := imgfx.MustParseHex("#00ff00")
//	out, _ := blend.ApplyImage(img, blend.And, blend.ConstOperand(green),
//	    channel.Identity, channel.Identity, blend.Params{})
//	_ = image.Save("out.png", out)
//
// # Architecture
//
// The root package holds the shared types:
//   - Pixmap: a row-major RGBA pixel buffer
//   - Color8: a constant color with truncating Scale
//   - ConfigError, DecodeError, EncodeError: the error taxonomy
//   - SetLogger / Logger: opt-in structured logging
//
// Effects live in internal packages (channel, blend, filter, tempo,
// effect) and the frame pipeline in internal/pipeline. Codec adapters are
// in internal/image and internal/media.
//
// # Ownership
//
// A Pixmap belongs to one stage at a time. Effects never modify their
// input; they return a new Pixmap. Pixmaps are not safe for concurrent
// mutation.
//
// # Logging
//
// imgfx is silent by default. See [SetLogger].
package imgfx
