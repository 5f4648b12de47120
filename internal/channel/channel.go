// Package channel implements channel selectors: per-output-channel mappings
// that name which source channel of an operand pixel to read.
package channel

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/gogpu/imgfx"
)

// Channel indices into an RGBA pixel.
const (
	R = 0
	G = 1
	B = 2
	A = 3
)

var names = [4]byte{'r', 'g', 'b', 'a'}

var fold = cases.Fold()

// Selector maps output channel positions to source channel indices.
// It holds 1, 3 or 4 entries; the zero value is the identity mapping.
//
// A single entry is broadcast to all four outputs. Three entries map
// R, G and B and leave alpha as the identity.
type Selector struct {
	idx [4]uint8
	n   uint8
}

// Identity reads every channel from its own position.
var Identity = Selector{}

// Parse builds a selector from channel names such as ["b", "g", "r"].
// Names are case-insensitive. An empty list yields Identity.
// A single element that is a run of letters ("bgr") is split into names.
// Errors are *imgfx.ConfigError wrapping imgfx.ErrInvalidSelector.
func Parse(list []string) (Selector, error) {
	if len(list) == 1 && len(list[0]) > 1 {
		if _, ok := lookup(list[0]); !ok {
			list = strings.Split(strings.TrimSpace(list[0]), "")
		}
	}
	if len(list) == 0 {
		return Identity, nil
	}
	switch len(list) {
	case 1, 3, 4:
	default:
		return Selector{}, imgfx.NewConfigError("selector", fmt.Errorf("%w: length %d not in {1, 3, 4}", imgfx.ErrInvalidSelector, len(list)))
	}

	var s Selector
	for i, name := range list {
		idx, ok := lookup(name)
		if !ok {
			return Selector{}, imgfx.NewConfigError("selector", fmt.Errorf("%w: unknown channel %q", imgfx.ErrInvalidSelector, name))
		}
		s.idx[i] = idx
	}
	s.n = uint8(len(list))
	return s, nil
}

// ParseString parses a comma-separated selector such as "b,g,r".
// Whitespace around names is ignored.
func ParseString(s string) (Selector, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Identity, nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return Parse(parts)
}

func lookup(name string) (uint8, bool) {
	name = fold.String(strings.TrimSpace(name))
	switch name {
	case "r", "red":
		return R, true
	case "g", "green":
		return G, true
	case "b", "blue":
		return B, true
	case "a", "alpha":
		return A, true
	}
	return 0, false
}

// Len returns the number of entries, 0 for the identity selector.
func (s Selector) Len() int {
	return int(s.n)
}

// IsIdentity reports whether s leaves every pixel unchanged.
func (s Selector) IsIdentity() bool {
	switch s.n {
	case 0:
		return true
	case 3:
		return s.idx[0] == R && s.idx[1] == G && s.idx[2] == B
	case 4:
		return s.idx == [4]uint8{R, G, B, A}
	}
	return false
}

// Index returns the source channel read for output position i.
func (s Selector) Index(i int) int {
	switch s.n {
	case 1:
		return int(s.idx[0])
	case 3:
		if i == A {
			return A
		}
		return int(s.idx[i])
	case 4:
		return int(s.idx[i])
	}
	return i
}

// Resolve returns the pixel with each output channel read from the
// selected source channel.
func (s Selector) Resolve(px [4]uint8) [4]uint8 {
	switch s.n {
	case 0:
		return px
	case 1:
		v := px[s.idx[0]]
		return [4]uint8{v, v, v, v}
	case 3:
		return [4]uint8{px[s.idx[0]], px[s.idx[1]], px[s.idx[2]], px[A]}
	}
	return [4]uint8{px[s.idx[0]], px[s.idx[1]], px[s.idx[2]], px[s.idx[3]]}
}

// String renders the selector as channel letters, e.g. "bgr".
// The identity selector renders as "rgba".
func (s Selector) String() string {
	if s.n == 0 {
		return "rgba"
	}
	var b strings.Builder
	for i := 0; i < int(s.n); i++ {
		b.WriteByte(names[s.idx[i]])
	}
	return b.String()
}
