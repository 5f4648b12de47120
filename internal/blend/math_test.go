package blend

import "testing"

func TestDiv255(t *testing.T) {
	for x := 0; x <= 255*255; x++ {
		if got, want := int(div255(uint16(x))), x/255; got != want {
			t.Fatalf("div255(%d) = %d, want %d", x, got, want)
		}
	}
}

func TestMulDiv255(t *testing.T) {
	tests := []struct {
		a, b, want byte
	}{
		{0, 0, 0},
		{255, 255, 255},
		{0, 255, 0},
		{255, 0, 0},
		{128, 128, 64},  // 16384/255 = 64.25
		{200, 100, 78},  // 20000/255 = 78.43
		{127, 127, 63},  // 16129/255 = 63.25
		{254, 254, 253}, // 64516/255 = 253.0
	}
	for _, tt := range tests {
		if got := mulDiv255(tt.a, tt.b); got != tt.want {
			t.Errorf("mulDiv255(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestClampAndWrap(t *testing.T) {
	tests := []struct {
		v           int
		clamp, wrap uint8
	}{
		{0, 0, 0},
		{255, 255, 255},
		{256, 255, 0},
		{400, 255, 144},
		{-1, 0, 255},
		{-10, 0, 246},
		{-255, 0, 1},
		{128, 128, 128},
	}
	for _, tt := range tests {
		if got := clamp255(tt.v); got != tt.clamp {
			t.Errorf("clamp255(%d) = %d, want %d", tt.v, got, tt.clamp)
		}
		if got := wrap255(tt.v); got != tt.wrap {
			t.Errorf("wrap255(%d) = %d, want %d", tt.v, got, tt.wrap)
		}
	}
}
