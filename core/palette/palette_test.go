package palette

import (
	"fmt"
	"math"
	"testing"

	"planetsystem/core"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    core.Color
		wantErr bool
	}{
		{in: "#ffffff", want: core.Color{R: 1, G: 1, B: 1, A: 1}},
		{in: "000000", want: core.Color{A: 1}},
		{in: "0xff0000", want: core.Color{R: 1, A: 1}},
		{in: " #00ff0080 ", want: core.Color{G: 1, A: 128.0 / 255.0}},
		{in: "#7cf", wantErr: true},
		{in: "nothex", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := Parse(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if !closeColor(got, tc.want) {
				t.Errorf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestParseMatchesHex(t *testing.T) {
	for _, rgb := range []uint32{0x7cf7ff, 0xff9ff3, 0x9cffb5, 0x02040a} {
		if a, b := core.Hex(rgb), MustParse(fmtHex(rgb)); !closeColor(a, b) {
			t.Errorf("%06x: Hex %+v != Parse %+v", rgb, a, b)
		}
	}
}

func fmtHex(rgb uint32) string {
	return fmt.Sprintf("#%06x", rgb)
}

func closeColor(a, b core.Color) bool {
	const eps = 1e-6
	return math.Abs(float64(a.R-b.R)) < eps && math.Abs(float64(a.G-b.G)) < eps &&
		math.Abs(float64(a.B-b.B)) < eps && math.Abs(float64(a.A-b.A)) < eps
}
