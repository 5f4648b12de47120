package blend

import (
	"errors"
	"testing"

	"github.com/gogpu/imgfx"
	"github.com/gogpu/imgfx/internal/channel"
)

func TestBitwiseProperties(t *testing.T) {
	for a := 0; a <= 255; a++ {
		x := uint8(a)
		if got := Channel(Xor, x, x, Params{}); got != 0 {
			t.Fatalf("XOR(%d, %d) = %d, want 0", x, x, got)
		}
		if got := Channel(And, x, 255, Params{}); got != x {
			t.Fatalf("AND(%d, 255) = %d, want %d", x, got, x)
		}
		if got := Channel(Or, x, 0, Params{}); got != x {
			t.Fatalf("OR(%d, 0) = %d, want %d", x, got, x)
		}
		if got := Channel(ShiftLeft, x, 0, Params{Bits: 0}); got != x {
			t.Fatalf("LEFT(%d, 0) = %d, want %d", x, got, x)
		}
		if got := Channel(ShiftRight, x, 0, Params{Bits: 0}); got != x {
			t.Fatalf("RIGHT(%d, 0) = %d, want %d", x, got, x)
		}
	}
}

func TestNegateAfterCombine(t *testing.T) {
	for a := 0; a <= 255; a += 3 {
		for b := 0; b <= 255; b += 5 {
			x, y := uint8(a), uint8(b)
			plain := Channel(Or, x, y, Params{})
			neg := Channel(Or, x, y, Params{Negate: true})
			if neg != 255-plain {
				t.Fatalf("negate(OR(%d, %d)) = %d, want %d", x, y, neg, 255-plain)
			}
		}
	}
	// Negate has no effect outside the bitwise operations.
	if got := Channel(Add, 10, 20, Params{Negate: true}); got != 30 {
		t.Errorf("ADD(10, 20) with Negate = %d, want 30", got)
	}
}

func TestChannel(t *testing.T) {
	tests := []struct {
		name string
		op   Op
		a, b uint8
		p    Params
		want uint8
	}{
		{"and", And, 0xF0, 0x3C, Params{}, 0x30},
		{"xor", Xor, 0xF0, 0x3C, Params{}, 0xCC},
		{"add saturates", Add, 200, 100, Params{}, 255},
		{"add raw still clamps", Add, 200, 100, Params{Raw: true}, 255},
		{"sub clamps", Sub, 10, 20, Params{}, 0},
		{"sub raw wraps", Sub, 10, 20, Params{Raw: true}, 246},
		{"sub in range", Sub, 20, 10, Params{Raw: true}, 10},
		{"mult clamps", Mult, 16, 16, Params{}, 255},
		{"mult small", Mult, 3, 5, Params{}, 15},
		{"div", Div, 100, 200, Params{}, 127},
		{"div saturates", Div, 200, 100, Params{}, 255},
		{"div by zero", Div, 5, 0, Params{}, 255},
		{"div zero by zero", Div, 0, 0, Params{}, 0},
		{"pow exponent one", Pow, 100, 255, Params{}, 100},
		{"pow exponent zero", Pow, 100, 0, Params{}, 255},
		{"pow half", Pow, 64, 128, Params{}, 127},
		{"average", Average, 10, 21, Params{}, 15},
		{"screen black", Screen, 0, 0, Params{}, 0},
		{"screen white", Screen, 0, 255, Params{}, 255},
		{"screen mid", Screen, 128, 128, Params{}, 192},
		{"overlay dark", Overlay, 64, 128, Params{}, 64},
		{"overlay light", Overlay, 192, 128, Params{}, 193},
		{"overlay zero", Overlay, 0, 255, Params{}, 0},
		{"left clamps", ShiftLeft, 200, 0, Params{Bits: 1}, 255},
		{"left raw wraps", ShiftLeft, 200, 0, Params{Bits: 1, Raw: true}, 144},
		{"left in range", ShiftLeft, 3, 0, Params{Bits: 2}, 12},
		{"right", ShiftRight, 200, 0, Params{Bits: 3}, 25},
		{"right raw", ShiftRight, 200, 0, Params{Bits: 3, Raw: true}, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Channel(tt.op, tt.a, tt.b, tt.p); got != tt.want {
				t.Errorf("%v(%d, %d, %+v) = %d, want %d", tt.op, tt.a, tt.b, tt.p, got, tt.want)
			}
		})
	}
}

func TestEvalWide(t *testing.T) {
	if got := Eval(Sub, 10, 20, Params{}); got != -10 {
		t.Errorf("Eval(SUB, 10, 20) = %d, want -10", got)
	}
	if got := Eval(ShiftLeft, 255, 0, Params{Bits: 7}); got != 255<<7 {
		t.Errorf("Eval(LEFT, 255, bits 7) = %d, want %d", got, 255<<7)
	}
	if got := Narrow(-10, false); got != 0 {
		t.Errorf("Narrow(-10, false) = %d, want 0", got)
	}
	if got := Narrow(-10, true); got != 246 {
		t.Errorf("Narrow(-10, true) = %d, want 246", got)
	}
}

func TestTotalOverByteDomain(t *testing.T) {
	ops := []Op{Or, And, Xor, Add, Sub, Mult, Div, Pow, Average, Screen, Overlay, ShiftLeft, ShiftRight}
	for _, op := range ops {
		for _, raw := range []bool{false, true} {
			p := Params{Raw: raw, Bits: 7, Negate: true}
			for a := 0; a <= 255; a += 17 {
				for b := 0; b <= 255; b += 17 {
					_ = Channel(op, uint8(a), uint8(b), p)
				}
			}
		}
	}
}

func TestApply(t *testing.T) {
	bgr, _ := channel.Parse([]string{"b", "g", "r"})
	green, _ := channel.Parse([]string{"g"})

	tests := []struct {
		name       string
		op         Op
		lhs, rhs   [4]uint8
		lsel, rsel channel.Selector
		want       [4]uint8
	}{
		{
			name: "identity and",
			op:   And,
			lhs:  [4]uint8{255, 0, 0, 255}, rhs: [4]uint8{0, 255, 0, 255},
			want: [4]uint8{0, 0, 0, 255},
		},
		{
			name: "alpha from lhs",
			op:   Add,
			lhs:  [4]uint8{10, 20, 30, 77}, rhs: [4]uint8{1, 1, 1, 255},
			want: [4]uint8{11, 21, 31, 77},
		},
		{
			name: "lhs selector swaps",
			op:   Or,
			lhs:  [4]uint8{10, 20, 30, 255}, rhs: [4]uint8{0, 0, 0, 255},
			lsel: bgr,
			want: [4]uint8{30, 20, 10, 255},
		},
		{
			name: "rhs broadcast",
			op:   Add,
			lhs:  [4]uint8{0, 0, 0, 9}, rhs: [4]uint8{1, 50, 3, 255},
			rsel: green,
			want: [4]uint8{50, 50, 50, 9},
		},
		{
			name: "alpha unaffected by 4-entry selector",
			op:   Or,
			lhs:  [4]uint8{1, 2, 3, 4}, rhs: [4]uint8{0, 0, 0, 0},
			lsel: mustParse(t, "a", "b", "g", "r"),
			want: [4]uint8{4, 3, 2, 4},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(tt.op, tt.lhs, tt.rhs, tt.lsel, tt.rsel, Params{})
			if err != nil {
				t.Fatalf("Apply error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Apply(%v, %v, %v) = %v, want %v", tt.op, tt.lhs, tt.rhs, got, tt.want)
			}
		})
	}
}

func TestApplyRejectsBitCount(t *testing.T) {
	_, err := Apply(ShiftLeft, [4]uint8{}, [4]uint8{}, channel.Identity, channel.Identity, Params{Bits: 8})
	if !errors.Is(err, imgfx.ErrBitCount) {
		t.Fatalf("Apply(bits 8) error = %v, want ErrBitCount", err)
	}
	if !imgfx.IsConfigError(err) {
		t.Errorf("Apply(bits 8) error is not a ConfigError")
	}
}

func TestParseOp(t *testing.T) {
	tests := []struct {
		in   string
		want Op
	}{
		{"OR", Or}, {"and", And}, {"Xor", Xor}, {"add", Add}, {"SUB", Sub},
		{"mult", Mult}, {"DIV", Div}, {"pow", Pow}, {"AVG", Average},
		{"average", Average}, {"screen", Screen}, {"OVERLAY", Overlay},
		{"left", ShiftLeft}, {"RIGHT", ShiftRight},
	}
	for _, tt := range tests {
		got, err := ParseOp(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseOp(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseOp("blur"); !errors.Is(err, imgfx.ErrUnknownOp) {
		t.Errorf("ParseOp(\"blur\") error = %v, want ErrUnknownOp", err)
	}
	if got := Op(99).String(); got != "Op(99)" {
		t.Errorf("Op(99).String() = %q", got)
	}
}

func TestOpClassification(t *testing.T) {
	if !Sub.HonorsRaw() || !ShiftLeft.HonorsRaw() || Add.HonorsRaw() {
		t.Error("HonorsRaw classification wrong")
	}
	if ShiftRight.NeedsOperand() || !Xor.NeedsOperand() {
		t.Error("NeedsOperand classification wrong")
	}
	if !And.IsBitwise() || Screen.IsBitwise() {
		t.Error("IsBitwise classification wrong")
	}
}

func mustParse(t *testing.T, names ...string) channel.Selector {
	t.Helper()
	s, err := channel.Parse(names)
	if err != nil {
		t.Fatalf("channel.Parse(%v): %v", names, err)
	}
	return s
}
