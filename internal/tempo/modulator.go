package tempo

import (
	"fmt"

	"github.com/gogpu/imgfx"
)

// Visualization selects whether effect parameters are modulated.
type Visualization uint8

const (
	// Default applies effects at full strength on every frame.
	Default Visualization = iota
	// Pulse scales effect parameters by the waveform at the given BPM.
	Pulse
)

func (v Visualization) String() string {
	if v == Pulse {
		return "pulse"
	}
	return "default"
}

// Modulator maps elapsed time to a scale factor. The zero value is the
// Default visualization and always yields 1.
type Modulator struct {
	Mode     Visualization
	BPM      int
	Waveform Waveform
}

// NewPulse returns a validated pulsing modulator.
func NewPulse(bpm int, w Waveform) (Modulator, error) {
	m := Modulator{Mode: Pulse, BPM: bpm, Waveform: w}
	return m, m.Validate()
}

// ParseVisualization parses the visualization names used on the command
// line: "default" or a waveform name, which selects Pulse with that
// waveform. bpm is only checked for Pulse.
func ParseVisualization(name string, bpm int) (Modulator, error) {
	if name == "" || fold.String(name) == "default" {
		return Modulator{}, nil
	}
	w, err := ParseWaveform(name)
	if err != nil {
		return Modulator{}, imgfx.NewConfigError("visualization", err)
	}
	return NewPulse(bpm, w)
}

// Validate reports a *imgfx.ConfigError when a pulsing modulator has no
// positive BPM or an unknown waveform.
func (m Modulator) Validate() error {
	if m.Mode != Pulse {
		return nil
	}
	if m.BPM <= 0 {
		return imgfx.NewConfigError("bpm", fmt.Errorf("%w: got %d", imgfx.ErrBPM, m.BPM))
	}
	if int(m.Waveform) >= len(waveformNames) {
		return imgfx.NewConfigError("visualization", fmt.Errorf("%w: %v", imgfx.ErrUnknownOp, m.Waveform))
	}
	return nil
}

// At returns the scale factor at elapsed seconds.
func (m Modulator) At(elapsed float64) float64 {
	if m.Mode != Pulse || m.BPM <= 0 {
		return 1
	}
	return ScaleFactor(m.BPM, m.Waveform, elapsed)
}

// String describes the modulator, e.g. "pulse(120 bpm, square)".
func (m Modulator) String() string {
	if m.Mode != Pulse {
		return "default"
	}
	return fmt.Sprintf("pulse(%d bpm, %s)", m.BPM, m.Waveform)
}
