package effect

import (
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/imgfx"
	"github.com/gogpu/imgfx/internal/blend"
	"github.com/gogpu/imgfx/internal/channel"
	"github.com/gogpu/imgfx/internal/filter"
)

func solid(w, h int, px [4]uint8) *imgfx.Pixmap {
	p := imgfx.NewPixmap(w, h)
	p.Fill(px)
	return p
}

// =============================================================================
// Channel operations
// =============================================================================

func TestOpScalesConstantColor(t *testing.T) {
	e, err := NewOp(OpConfig{Op: blend.Add, Operand: blend.ConstOperand(imgfx.Color8{R: 100, G: 51, B: 255})})
	if err != nil {
		t.Fatal(err)
	}
	src := solid(2, 2, [4]uint8{10, 10, 10, 255})

	tests := []struct {
		scale float64
		want  [4]uint8
	}{
		{1, [4]uint8{110, 61, 255, 255}},
		{0.5, [4]uint8{60, 35, 137, 255}},
		{0, [4]uint8{10, 10, 10, 255}},
	}
	for _, tt := range tests {
		out, err := e.Apply(src, tt.scale)
		if err != nil {
			t.Fatalf("Apply(scale=%v) error = %v", tt.scale, err)
		}
		if got := out.Pixel(1, 1); got != tt.want {
			t.Errorf("Apply(scale=%v) pixel = %v, want %v", tt.scale, got, tt.want)
		}
	}
	if src.Pixel(0, 0) != [4]uint8{10, 10, 10, 255} {
		t.Error("Apply modified its input")
	}
}

func TestOpShiftIgnoresScale(t *testing.T) {
	e, err := NewOp(OpConfig{Op: blend.ShiftLeft, Params: blend.Params{Bits: 1}})
	if err != nil {
		t.Fatal(err)
	}
	src := solid(1, 1, [4]uint8{3, 4, 5, 255})
	a, _ := e.Apply(src, 1)
	b, _ := e.Apply(src, 0)
	if !a.Equal(b) {
		t.Errorf("shift result depends on scale: %v vs %v", a.Pixel(0, 0), b.Pixel(0, 0))
	}
	if got := a.Pixel(0, 0); got != [4]uint8{6, 8, 10, 255} {
		t.Errorf("LEFT 1 = %v, want [6 8 10 255]", got)
	}
}

func TestOpSelectors(t *testing.T) {
	lhs, _ := channel.ParseString("b,g,r")
	e, err := NewOp(OpConfig{Op: blend.Or, LHS: lhs, Operand: blend.ConstOperand(imgfx.Color8{})})
	if err != nil {
		t.Fatal(err)
	}
	out, err := e.Apply(solid(1, 1, [4]uint8{1, 2, 3, 255}), 1)
	if err != nil {
		t.Fatal(err)
	}
	if got := out.Pixel(0, 0); got != [4]uint8{3, 2, 1, 255} {
		t.Errorf("OR with lhs bgr = %v, want [3 2 1 255]", got)
	}
}

func TestNewOpInvalid(t *testing.T) {
	_, err := NewOp(OpConfig{Op: blend.ShiftRight, Params: blend.Params{Bits: 8}})
	if !errors.Is(err, imgfx.ErrBitCount) {
		t.Errorf("NewOp(bits=8) error = %v, want ErrBitCount", err)
	}
	_, err = NewOp(OpConfig{Op: blend.Op(99)})
	if !errors.Is(err, imgfx.ErrUnknownOp) {
		t.Errorf("NewOp(99) error = %v, want ErrUnknownOp", err)
	}
}

func TestOpImageOperandSizeMismatch(t *testing.T) {
	e, err := NewOp(OpConfig{Op: blend.Xor, Operand: blend.ImageOperand(solid(3, 3, [4]uint8{}))})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Apply(solid(2, 2, [4]uint8{}), 1); !errors.Is(err, imgfx.ErrOperandSize) {
		t.Errorf("Apply error = %v, want ErrOperandSize", err)
	}
}

// =============================================================================
// Bloom and sort
// =============================================================================

func TestBloomScaleZeroIsIdentity(t *testing.T) {
	e, err := NewBloom(filter.Bloom{Intensity: 2, Radius: 2, Threshold: filter.LumaRange{Min: 0, Max: 255}})
	if err != nil {
		t.Fatal(err)
	}
	src := imgfx.NewPixmap(8, 8)
	src.SetPixel(4, 4, [4]uint8{255, 255, 255, 255})

	out, err := e.Apply(src, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !out.Equal(src) {
		t.Error("bloom at scale 0 changed the image")
	}

	full, _ := e.Apply(src, 1)
	if full.Pixel(5, 4)[0] == 0 {
		t.Error("bloom at scale 1 did not spread light to a neighbour")
	}
}

func TestNewBloomInvalid(t *testing.T) {
	_, err := NewBloom(filter.Bloom{Intensity: 1, Radius: 1, Threshold: filter.LumaRange{Min: 200, Max: 100}})
	if !errors.Is(err, imgfx.ErrThresholdRange) || !imgfx.IsConfigError(err) {
		t.Errorf("NewBloom error = %v, want ConfigError wrapping ErrThresholdRange", err)
	}
}

func TestSortScaledThresholds(t *testing.T) {
	// Row of decreasing red values; the sort key is red.
	src := imgfx.NewPixmap(4, 1)
	for x, r := range []uint8{250, 200, 100, 50} {
		src.SetPixel(x, 0, [4]uint8{r, 0, 0, 255})
	}
	e, err := NewSort(filter.Sorter{Direction: filter.Horizontal, Key: filter.Red, Threshold: filter.KeyRange{Min: 0, Max: 1}})
	if err != nil {
		t.Fatal(err)
	}

	out, _ := e.Apply(src, 1)
	for x, r := range []uint8{50, 100, 200, 250} {
		if got := out.Pixel(x, 0)[0]; got != r {
			t.Errorf("scale 1: pixel %d red = %d, want %d", x, got, r)
		}
	}

	// At half scale only keys <= 0.5 are active: the 100 and 50 run.
	out, _ = e.Apply(src, 0.5)
	for x, r := range []uint8{250, 200, 50, 100} {
		if got := out.Pixel(x, 0)[0]; got != r {
			t.Errorf("scale 0.5: pixel %d red = %d, want %d", x, got, r)
		}
	}
}

func TestKindAndString(t *testing.T) {
	c := imgfx.Color8{R: 0x10, G: 0x20, B: 0x30}
	op, _ := NewOp(OpConfig{Op: blend.Sub, Operand: blend.ConstOperand(c), Params: blend.Params{Raw: true}})
	bl, _ := NewBloom(filter.Bloom{Intensity: 1.5, Radius: 4, Threshold: filter.LumaRange{Max: 255}})
	so, _ := NewSort(filter.Sorter{Direction: filter.Vertical, Key: filter.Hue, Threshold: filter.KeyRange{Max: 1}})

	tests := []struct {
		e      *Effect
		kind   Kind
		prefix string
	}{
		{op, KindOp, "SUB #102030 raw"},
		{bl, KindBloom, "bloom(intensity=1.5"},
		{so, KindSort, "sort(vertical, hue"},
	}
	for _, tt := range tests {
		if tt.e.Kind() != tt.kind {
			t.Errorf("Kind() = %v, want %v", tt.e.Kind(), tt.kind)
		}
		if !strings.HasPrefix(tt.e.String(), tt.prefix) {
			t.Errorf("String() = %q, want prefix %q", tt.e.String(), tt.prefix)
		}
	}
}
