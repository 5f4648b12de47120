// Package tempo computes tempo-synchronized scale factors for modulating
// effect parameters over time.
//
// Everything here is a pure function of (bpm, waveform, elapsed seconds);
// the same inputs always give the same factor.
package tempo

import (
	"fmt"
	"math"

	"golang.org/x/text/cases"

	"github.com/gogpu/imgfx"
)

// Waveform is the shape of the modulation within one beat.
type Waveform uint8

// Supported waveforms.
const (
	Sine Waveform = iota
	Saw
	Square
	Triangle
)

var waveformNames = [...]string{
	Sine:     "sine",
	Saw:      "saw",
	Square:   "square",
	Triangle: "triangle",
}

func (w Waveform) String() string {
	if int(w) < len(waveformNames) {
		return waveformNames[w]
	}
	return fmt.Sprintf("Waveform(%d)", uint8(w))
}

var fold = cases.Fold()

// ParseWaveform parses a waveform name case-insensitively. Errors wrap
// imgfx.ErrUnknownOp.
func ParseWaveform(name string) (Waveform, error) {
	key := fold.String(name)
	for i, n := range waveformNames {
		if n == key {
			return Waveform(i), nil
		}
	}
	return 0, fmt.Errorf("%w: waveform %q", imgfx.ErrUnknownOp, name)
}

// Phase returns the position within the current beat, in [0, 1).
// bpm must be positive.
func Phase(bpm int, elapsed float64) float64 {
	beat := 60 / float64(bpm)
	p := math.Mod(elapsed, beat) / beat
	if p < 0 {
		p += 1
	}
	if p >= 1 {
		p = 0
	}
	return p
}

// ScaleFactor returns the modulation factor at elapsed seconds:
//
//	Sine:     sin(2π·phase)·0.5 + 0.5   in [0, 1]
//	Saw:      1 − phase                 in (0, 1]
//	Square:   1 if phase < 0.5 else 0
//	Triangle: 1 − |2·phase − 1|         in [0, 1]
//
// bpm must be positive; callers validate it with Modulator.Validate.
func ScaleFactor(bpm int, w Waveform, elapsed float64) float64 {
	phase := Phase(bpm, elapsed)
	switch w {
	case Saw:
		return 1 - phase
	case Square:
		if phase < 0.5 {
			return 1
		}
		return 0
	case Triangle:
		return 1 - math.Abs(2*phase-1)
	}
	return math.Sin(phase*2*math.Pi)*0.5 + 0.5
}
