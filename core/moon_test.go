package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestMoonColorRange(t *testing.T) {
	base := Hex(0x7cf7ff)
	b := base.Vec64()
	for i := 0; i < 200; i++ {
		pos := mgl64.Vec3{float64(i%7) - 3, float64(i%5) - 2, float64(i%11) - 5}
		c := MoonColor(base, pos, float64(i)*0.013)
		for k := 0; k < 3; k++ {
			if c[k] < b[k]*0.7-1e-9 || c[k] > b[k]*1.2+1e-9 {
				t.Fatalf("MoonColor(%v)[%d] = %f outside [%f, %f]", pos, k, c[k], b[k]*0.7, b[k]*1.2)
			}
		}
	}
}

func TestMoonColorDeterministic(t *testing.T) {
	base := Hex(0xff9ff3)
	pos := mgl64.Vec3{0.1, 0.2, 0.27}
	if MoonColor(base, pos, 1.5) != MoonColor(base, pos, 1.5) {
		t.Error("MoonColor is not deterministic")
	}
	if MoonColor(base, mgl64.Vec3{}, 0) != MoonColor(base, mgl64.Vec3{0, 1, 0}, 0) {
		t.Error("origin should fall back to the +Y direction")
	}
}
