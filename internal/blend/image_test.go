package blend

import (
	"errors"
	"testing"

	"github.com/gogpu/imgfx"
	"github.com/gogpu/imgfx/internal/channel"
)

func TestApplyImageConstAnd(t *testing.T) {
	src := imgfx.NewPixmap(2, 1)
	src.SetPixel(0, 0, [4]uint8{255, 0, 0, 255})
	src.SetPixel(1, 0, [4]uint8{0, 255, 0, 255})
	before := src.Clone()

	got, err := ApplyImage(src, And, ConstOperand(imgfx.MustParseHex("#00FF00")),
		channel.Identity, channel.Identity, Params{})
	if err != nil {
		t.Fatalf("ApplyImage: %v", err)
	}

	want := [][4]uint8{{0, 0, 0, 255}, {0, 255, 0, 255}}
	for x, w := range want {
		if px := got.Pixel(x, 0); px != w {
			t.Errorf("pixel %d = %v, want %v", x, px, w)
		}
	}
	if !src.Equal(before) {
		t.Error("ApplyImage modified its input")
	}
}

func TestApplyImageOperand(t *testing.T) {
	w, h := 17, 33
	a := imgfx.NewPixmap(w, h)
	b := imgfx.NewPixmap(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a.SetPixel(x, y, [4]uint8{uint8(x * 7), uint8(y * 5), 100, 200})
			b.SetPixel(x, y, [4]uint8{uint8(y * 3), 1, uint8(x), 10})
		}
	}

	got, err := ApplyImage(a, Xor, ImageOperand(b), channel.Identity, channel.Identity, Params{})
	if err != nil {
		t.Fatalf("ApplyImage: %v", err)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			want, _ := Apply(Xor, a.Pixel(x, y), b.Pixel(x, y), channel.Identity, channel.Identity, Params{})
			if px := got.Pixel(x, y); px != want {
				t.Fatalf("pixel (%d, %d) = %v, want %v", x, y, px, want)
			}
		}
	}
}

func TestApplyImageErrors(t *testing.T) {
	src := imgfx.NewPixmap(4, 4)

	_, err := ApplyImage(src, Or, ImageOperand(imgfx.NewPixmap(4, 5)), channel.Identity, channel.Identity, Params{})
	if !errors.Is(err, imgfx.ErrOperandSize) || !imgfx.IsConfigError(err) {
		t.Errorf("size mismatch error = %v, want ConfigError wrapping ErrOperandSize", err)
	}

	_, err = ApplyImage(src, ShiftRight, Operand{}, channel.Identity, channel.Identity, Params{Bits: 9})
	if !errors.Is(err, imgfx.ErrBitCount) {
		t.Errorf("bits 9 error = %v, want ErrBitCount", err)
	}
}

func TestOperandScaled(t *testing.T) {
	c := ConstOperand(imgfx.Color8{R: 200, G: 100, B: 10})
	if got := c.Scaled(0.5).Color(); got != (imgfx.Color8{R: 100, G: 50, B: 5}) {
		t.Errorf("Scaled(0.5) = %v", got)
	}
	img := ImageOperand(imgfx.NewPixmap(1, 1))
	if !img.Scaled(0).IsImage() {
		t.Error("Scaled image operand lost its image")
	}
}

func BenchmarkApplyImage(b *testing.B) {
	src := imgfx.NewPixmap(1920, 1080)
	rhs := ConstOperand(imgfx.Color8{R: 10, G: 200, B: 30})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ApplyImage(src, Screen, rhs, channel.Identity, channel.Identity, Params{})
	}
}
