package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// MoonDrift is how fast the crater pattern slides per unit of uniform time.
const MoonDrift = 0.1

// MoonColor shades a cratered moon at an object-space position: the base
// color is darkened to 0.7 in pits and brightened to 1.2 on rims.
func MoonColor(base Color, pos mgl64.Vec3, t float64) mgl64.Vec3 {
	p := normalizeOr(pos, mgl64.Vec3{0, 1, 0}).Mul(3)
	drift := t * MoonDrift
	n := FBM(p.Add(mgl64.Vec3{drift, drift, drift}))
	crater := smoothstep(0.2, 0.8, math.Abs(n))
	c := base.Vec64()
	return mix3(c.Mul(0.7), c.Mul(1.2), crater)
}
