package core

import (
	"math"
	"testing"
)

func TestHex(t *testing.T) {
	tests := []struct {
		in   uint32
		want Color
	}{
		{0xffffff, Color{1, 1, 1, 1}},
		{0x000000, Color{0, 0, 0, 1}},
		{0xff0000, Color{1, 0, 0, 1}},
		{0x00ff00, Color{0, 1, 0, 1}},
		{0x7cf7ff, Color{0x7c / 255.0, 0xf7 / 255.0, 1, 1}},
	}
	for _, tc := range tests {
		if got := Hex(tc.in); !closeColor(got, tc.want) {
			t.Errorf("Hex(%06x) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}

func TestColorHelpers(t *testing.T) {
	c := RGBA8(255, 128, 0, 128).WithAlpha(1).Scale(0.5)
	want := Color{0.5, 64.0 / 255.0, 0, 1}
	if !closeColor(c, want) {
		t.Errorf("got %+v, want %+v", c, want)
	}
}

func closeColor(a, b Color) bool {
	const eps = 1e-6
	return math.Abs(float64(a.R-b.R)) < eps && math.Abs(float64(a.G-b.G)) < eps &&
		math.Abs(float64(a.B-b.B)) < eps && math.Abs(float64(a.A-b.A)) < eps
}
