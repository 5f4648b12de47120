package filter

import (
	"fmt"
	"math"
	"sort"

	"golang.org/x/text/cases"

	"github.com/gogpu/imgfx"
	"github.com/gogpu/imgfx/internal/color"
	"github.com/gogpu/imgfx/internal/parallel"
)

// Direction selects the scan axis of the pixel sorter and whether runs are
// sorted ascending (forward) or descending (reverse).
type Direction uint8

// Sort directions.
const (
	Horizontal Direction = iota
	Vertical
	HorizontalReverse
	VerticalReverse
)

var directionNames = [...]string{
	Horizontal:        "horizontal",
	Vertical:          "vertical",
	HorizontalReverse: "horizontal-reverse",
	VerticalReverse:   "vertical-reverse",
}

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

// IsVertical reports whether scanlines are columns.
func (d Direction) IsVertical() bool {
	return d == Vertical || d == VerticalReverse
}

// IsReverse reports whether runs are sorted in descending key order.
func (d Direction) IsReverse() bool {
	return d == HorizontalReverse || d == VerticalReverse
}

// SortKey selects the per-pixel value runs are sorted by. Every key is
// normalized to [0, 1].
type SortKey uint8

// Sort keys.
const (
	Brightness SortKey = iota
	Hue
	Saturation
	Red
	Green
	Blue
)

var sortKeyNames = [...]string{
	Brightness: "brightness",
	Hue:        "hue",
	Saturation: "saturation",
	Red:        "red",
	Green:      "green",
	Blue:       "blue",
}

func (k SortKey) String() string {
	if int(k) < len(sortKeyNames) {
		return sortKeyNames[k]
	}
	return fmt.Sprintf("SortKey(%d)", uint8(k))
}

// Of returns the key value of px in [0, 1].
func (k SortKey) Of(px [4]uint8) float64 {
	c := color.FromPixel(px)
	switch k {
	case Hue:
		return color.Hue(c)
	case Saturation:
		return color.Saturation(c)
	case Red:
		return float64(c.R) / 255
	case Green:
		return float64(c.G) / 255
	case Blue:
		return float64(c.B) / 255
	}
	return color.Brightness(c)
}

var fold = cases.Fold()

// ParseDirection parses a direction name. Underscores are accepted in place
// of hyphens. Errors wrap imgfx.ErrUnknownOp.
func ParseDirection(name string) (Direction, error) {
	key := normalizeName(name)
	for i, n := range directionNames {
		if n == key {
			return Direction(i), nil
		}
	}
	return 0, fmt.Errorf("%w: direction %q", imgfx.ErrUnknownOp, name)
}

// ParseSortKey parses a sort key name. "luma" and "luminance" are aliases of
// brightness. Errors wrap imgfx.ErrUnknownOp.
func ParseSortKey(name string) (SortKey, error) {
	key := normalizeName(name)
	switch key {
	case "luma", "luminance":
		return Brightness, nil
	}
	for i, n := range sortKeyNames {
		if n == key {
			return SortKey(i), nil
		}
	}
	return 0, fmt.Errorf("%w: sort key %q", imgfx.ErrUnknownOp, name)
}

func normalizeName(name string) string {
	b := []byte(fold.String(name))
	for i, c := range b {
		if c == '_' {
			b[i] = '-'
		}
	}
	return string(b)
}

// KeyRange is an inclusive range of sort key values in [0, 1].
type KeyRange struct {
	Min, Max float64
}

// Clamped returns r with both bounds clamped to [0, 1]. NaN becomes 0.
func (r KeyRange) Clamped() KeyRange {
	return KeyRange{Min: clampUnit(r.Min), Max: clampUnit(r.Max)}
}

// Contains reports whether v lies within the range.
func (r KeyRange) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Sorter reorders runs of pixels along scanlines by a sort key.
type Sorter struct {
	Direction Direction
	Key       SortKey
	Threshold KeyRange
}

// NewSorter returns a validated sorter. Thresholds are clamped to [0, 1]
// before the min <= max check.
func NewSorter(dir Direction, key SortKey, min, max float64) (*Sorter, error) {
	s := &Sorter{Direction: dir, Key: key, Threshold: KeyRange{Min: min, Max: max}.Clamped()}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate reports a *imgfx.ConfigError when the clamped minimum exceeds the
// clamped maximum.
func (s *Sorter) Validate() error {
	t := s.Threshold.Clamped()
	if t.Min > t.Max {
		return imgfx.NewConfigError("threshold", fmt.Errorf("%w: %v > %v", imgfx.ErrThresholdRange, t.Min, t.Max))
	}
	if int(s.Direction) >= len(directionNames) {
		return imgfx.NewConfigError("direction", fmt.Errorf("%w: %v", imgfx.ErrUnknownOp, s.Direction))
	}
	if int(s.Key) >= len(sortKeyNames) {
		return imgfx.NewConfigError("sort_by", fmt.Errorf("%w: %v", imgfx.ErrUnknownOp, s.Key))
	}
	return nil
}

// WithThreshold returns a copy of s with a different threshold range.
// Out-of-range values are clamped, not rejected.
func (s Sorter) WithThreshold(min, max float64) *Sorter {
	s.Threshold = KeyRange{Min: min, Max: max}.Clamped()
	return &s
}

// keyed is a pixel and its precomputed sort key.
type keyed struct {
	px  [4]uint8
	key float64
}

// Apply returns a copy of src whose active runs are sorted. A pixel is active
// when its key lies within the threshold; each maximal run of active pixels
// along a scanline is stably sorted and inactive pixels are left in place.
func (s *Sorter) Apply(src *imgfx.Pixmap) *imgfx.Pixmap {
	dst := src.Clone()
	w, h := dst.Width(), dst.Height()
	t := s.Threshold.Clamped()
	if t.Min > t.Max {
		return dst
	}

	lines, length := h, w
	if s.Direction.IsVertical() {
		lines, length = w, h
	}

	data := dst.Data()
	index := func(line, pos int) int {
		if s.Direction.IsVertical() {
			return (pos*w + line) * 4
		}
		return (line*w + pos) * 4
	}

	parallel.ForRows(nil, lines, func(lo, hi int) {
		scan := make([]keyed, length)
		for line := lo; line < hi; line++ {
			for pos := 0; pos < length; pos++ {
				i := index(line, pos)
				px := [4]uint8{data[i], data[i+1], data[i+2], data[i+3]}
				scan[pos] = keyed{px: px, key: s.Key.Of(px)}
			}
			if !sortRuns(scan, t, s.Direction.IsReverse()) {
				continue
			}
			for pos := 0; pos < length; pos++ {
				i := index(line, pos)
				copy(data[i:i+4], scan[pos].px[:])
			}
		}
	})

	imgfx.Logger().Debug("filter: pixel sort applied",
		"direction", s.Direction.String(), "key", s.Key.String(), "min", t.Min, "max", t.Max)
	return dst
}

// sortRuns stably sorts each maximal run of active entries in scan and
// reports whether any run had more than one entry.
func sortRuns(scan []keyed, t KeyRange, reverse bool) bool {
	changed := false
	for start := 0; start < len(scan); {
		if !t.Contains(scan[start].key) {
			start++
			continue
		}
		end := start + 1
		for end < len(scan) && t.Contains(scan[end].key) {
			end++
		}
		if end-start > 1 {
			run := scan[start:end]
			if reverse {
				sort.SliceStable(run, func(i, j int) bool { return run[i].key > run[j].key })
			} else {
				sort.SliceStable(run, func(i, j int) bool { return run[i].key < run[j].key })
			}
			changed = true
		}
		start = end
	}
	return changed
}

func clampUnit(f float64) float64 {
	if math.IsNaN(f) || f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
