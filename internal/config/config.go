// Package config describes an imgfx job: what to read, which effect to
// apply, how to modulate it and where to write the result.
//
// A job can be loaded from a YAML file and then overridden field by field
// with Set, which the command line uses for flags given explicitly:
//
//	input: clip.mp4
//	output: out.mp4
//	video: true
//	op: XOR
//	args: ["#ff00ff"]
//	lhs: r,g,b
//	bpm: 120
//	visualization: square
//	max_duration: 20s
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/imgfx"
)

// Job is one invocation of the effect engine.
type Job struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
	Video  bool   `yaml:"video"`

	// Op is the operation name (OR, SUB, LEFT, BLOOM, SORT, ...) and Args
	// its positional arguments.
	Op   string   `yaml:"op"`
	Args []string `yaml:"args"`

	LHS      string `yaml:"lhs"`
	RHS      string `yaml:"rhs"`
	Negate   bool   `yaml:"negate"`
	Raw      bool   `yaml:"raw"`
	BitShift int    `yaml:"bit_shift"`
	With     string `yaml:"with"`

	BPM           int           `yaml:"bpm"`
	Visualization string        `yaml:"visualization"`
	FPS           float64       `yaml:"fps"`
	MaxDuration   time.Duration `yaml:"max_duration"`
	Workers       int           `yaml:"workers"`
	DecodeErrors  string        `yaml:"decode_errors"`

	Verbose bool `yaml:"verbose"`
}

// Default returns a job with every optional field at its default.
func Default() Job {
	return Job{
		Visualization: "default",
		DecodeErrors:  "skip",
	}
}

// Load reads a YAML job file over Default. Unknown keys are rejected.
func Load(path string) (Job, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Job{}, fmt.Errorf("config: read: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML job over Default. An empty document yields the
// defaults.
func Parse(data []byte) (Job, error) {
	job := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&job); err != nil && !errors.Is(err, io.EOF) {
		return Job{}, imgfx.NewConfigError("config", fmt.Errorf("%w: %v", imgfx.ErrInvalidParam, err))
	}
	return job, nil
}

// Set assigns the field named by a command-line flag. value is the flag's
// typed value (string, bool, int, float64 or time.Duration).
func (j *Job) Set(name string, value any) error {
	var ok bool
	switch name {
	case "input":
		j.Input, ok = value.(string)
	case "output":
		j.Output, ok = value.(string)
	case "video":
		j.Video, ok = value.(bool)
	case "lhs":
		j.LHS, ok = value.(string)
	case "rhs":
		j.RHS, ok = value.(string)
	case "negate":
		j.Negate, ok = value.(bool)
	case "raw":
		j.Raw, ok = value.(bool)
	case "bit-shift", "bit_shift":
		j.BitShift, ok = value.(int)
	case "with":
		j.With, ok = value.(string)
	case "bpm":
		j.BPM, ok = value.(int)
	case "visualization":
		j.Visualization, ok = value.(string)
	case "fps":
		j.FPS, ok = value.(float64)
	case "max-duration", "max_duration":
		j.MaxDuration, ok = value.(time.Duration)
	case "workers":
		j.Workers, ok = value.(int)
	case "decode-errors", "decode_errors":
		j.DecodeErrors, ok = value.(string)
	case "v", "verbose":
		j.Verbose, ok = value.(bool)
	default:
		return nil
	}
	if !ok {
		return imgfx.NewConfigError(name, fmt.Errorf("%w: unexpected value %v (%T)", imgfx.ErrInvalidParam, value, value))
	}
	return nil
}

// WorkerCount returns the number of frames to transform concurrently.
// Zero selects GOMAXPROCS.
func (j *Job) WorkerCount() int {
	if j.Workers > 0 {
		return j.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// String renders the job for debug logs.
func (j *Job) String() string {
	return fmt.Sprintf("%s %v (input=%s output=%s video=%t bpm=%d)",
		j.Op, j.Args, j.Input, j.Output, j.Video, j.BPM)
}
