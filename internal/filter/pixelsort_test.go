package filter

import (
	"errors"
	"testing"

	"github.com/gogpu/imgfx"
)

func gray(v uint8) [4]uint8 { return [4]uint8{v, v, v, 255} }

func rowPixmap(px ...[4]uint8) *imgfx.Pixmap {
	p := imgfx.NewPixmap(len(px), 1)
	for x, c := range px {
		p.SetPixel(x, 0, c)
	}
	return p
}

func rowOf(p *imgfx.Pixmap) [][4]uint8 {
	out := make([][4]uint8, p.Width())
	for x := range out {
		out[x] = p.Pixel(x, 0)
	}
	return out
}

func TestSorterRuns(t *testing.T) {
	tests := []struct {
		name     string
		dir      Direction
		min, max float64
		in, want [][4]uint8
	}{
		{
			name: "whole row ascending",
			dir:  Horizontal, min: 0, max: 1,
			in:   [][4]uint8{gray(200), gray(10), gray(100)},
			want: [][4]uint8{gray(10), gray(100), gray(200)},
		},
		{
			name: "whole row descending",
			dir:  HorizontalReverse, min: 0, max: 1,
			in:   [][4]uint8{gray(10), gray(200), gray(100)},
			want: [][4]uint8{gray(200), gray(100), gray(10)},
		},
		{
			name: "inactive pixel splits runs",
			dir:  Horizontal, min: 0.2, max: 1,
			in:   [][4]uint8{gray(250), gray(100), gray(0), gray(240), gray(60)},
			want: [][4]uint8{gray(100), gray(250), gray(0), gray(60), gray(240)},
		},
		{
			name: "nothing active",
			dir:  Horizontal, min: 0.9, max: 1,
			in:   [][4]uint8{gray(30), gray(20), gray(10)},
			want: [][4]uint8{gray(30), gray(20), gray(10)},
		},
		{
			name: "equal keys keep order",
			dir:  Horizontal, min: 0, max: 1,
			in:   [][4]uint8{{50, 50, 50, 1}, {50, 50, 50, 2}, gray(10), {50, 50, 50, 3}},
			want: [][4]uint8{gray(10), {50, 50, 50, 1}, {50, 50, 50, 2}, {50, 50, 50, 3}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSorter(tt.dir, Brightness, tt.min, tt.max)
			if err != nil {
				t.Fatal(err)
			}
			got := rowOf(s.Apply(rowPixmap(tt.in...)))
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("row = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestSorterImpossibleRangeIsIdentity(t *testing.T) {
	src := gradientPixmap(31, 19)
	for _, key := range []SortKey{Brightness, Hue, Saturation, Red, Green, Blue} {
		for _, dir := range []Direction{Horizontal, Vertical, HorizontalReverse, VerticalReverse} {
			s, err := NewSorter(dir, key, 0, 0)
			if err != nil {
				t.Fatal(err)
			}
			if got := s.Apply(src); !got.Equal(src) {
				t.Errorf("Apply(%v, %v, 0, 0) changed the image", dir, key)
			}
		}
	}
}

func TestSorterVertical(t *testing.T) {
	src := imgfx.NewPixmap(2, 3)
	vals := []uint8{90, 30, 60}
	for y, v := range vals {
		src.SetPixel(0, y, gray(v))
		src.SetPixel(1, y, gray(v))
	}
	s, _ := NewSorter(Vertical, Brightness, 0, 1)
	got := s.Apply(src)
	for x := 0; x < 2; x++ {
		for y, want := range []uint8{30, 60, 90} {
			if px := got.Pixel(x, y); px != gray(want) {
				t.Errorf("pixel (%d, %d) = %v, want %v", x, y, px, gray(want))
			}
		}
	}
	if src.Pixel(0, 0) != gray(90) {
		t.Error("Apply modified its input")
	}
}

func TestSorterKeys(t *testing.T) {
	red := [4]uint8{255, 0, 0, 255}
	green := [4]uint8{0, 255, 0, 255}
	blue := [4]uint8{0, 0, 255, 255}

	s, _ := NewSorter(Horizontal, Hue, 0, 1)
	got := rowOf(s.Apply(rowPixmap(blue, red, green)))
	want := [][4]uint8{red, green, blue}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("hue sort = %v, want %v", got, want)
		}
	}

	s, _ = NewSorter(HorizontalReverse, Blue, 0, 1)
	got = rowOf(s.Apply(rowPixmap(red, blue, green)))
	if got[0] != blue {
		t.Errorf("blue-descending sort = %v, want blue first", got)
	}
}

func TestNewSorterClampsThresholds(t *testing.T) {
	s, err := NewSorter(Horizontal, Brightness, -3, 7)
	if err != nil {
		t.Fatal(err)
	}
	if s.Threshold != (KeyRange{Min: 0, Max: 1}) {
		t.Errorf("Threshold = %+v, want [0, 1]", s.Threshold)
	}
	if _, err := NewSorter(Horizontal, Brightness, 0.8, 0.2); !errors.Is(err, imgfx.ErrThresholdRange) {
		t.Errorf("min > max error = %v, want ErrThresholdRange", err)
	}
	w := s.WithThreshold(0.5, 2)
	if w.Threshold.Max != 1 || s.Threshold.Min != 0 {
		t.Errorf("WithThreshold = %+v, original %+v", w.Threshold, s.Threshold)
	}
}

func TestParseDirectionAndKey(t *testing.T) {
	dirs := map[string]Direction{
		"horizontal": Horizontal, "VERTICAL": Vertical,
		"horizontal-reverse": HorizontalReverse, "vertical_reverse": VerticalReverse,
	}
	for in, want := range dirs {
		if got, err := ParseDirection(in); err != nil || got != want {
			t.Errorf("ParseDirection(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseDirection("diagonal"); !errors.Is(err, imgfx.ErrUnknownOp) {
		t.Errorf("ParseDirection(diagonal) error = %v", err)
	}

	keys := map[string]SortKey{
		"brightness": Brightness, "Luma": Brightness, "hue": Hue,
		"SATURATION": Saturation, "red": Red, "green": Green, "blue": Blue,
	}
	for in, want := range keys {
		if got, err := ParseSortKey(in); err != nil || got != want {
			t.Errorf("ParseSortKey(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseSortKey("alpha"); !errors.Is(err, imgfx.ErrUnknownOp) {
		t.Errorf("ParseSortKey(alpha) error = %v", err)
	}
}
