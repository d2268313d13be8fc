package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Simplex3 evaluates 3D simplex noise at v. The result lies roughly in [-1, 1].
//
// This is the same lattice, permutation polynomial and gradient mapping used by
// the GLSL snoise in rendering/opengl/shaders, so a CPU sample matches what the
// GPU draws at the same point. The radial kernel uses 0.5 (scaled by 105) which
// keeps the field continuous across simplex borders.
func Simplex3(v mgl64.Vec3) float64 {
	const (
		c1 = 1.0 / 6.0
		c2 = 1.0 / 3.0
	)

	// skew into the simplex lattice
	s := (v[0] + v[1] + v[2]) * c2
	i := mgl64.Vec3{math.Floor(v[0] + s), math.Floor(v[1] + s), math.Floor(v[2] + s)}
	t := (i[0] + i[1] + i[2]) * c1
	x0 := mgl64.Vec3{v[0] - i[0] + t, v[1] - i[1] + t, v[2] - i[2] + t}

	// rank the components to pick the traversal order
	g := mgl64.Vec3{step(x0[1], x0[0]), step(x0[2], x0[1]), step(x0[0], x0[2])}
	l := mgl64.Vec3{1 - g[0], 1 - g[1], 1 - g[2]}
	i1 := mgl64.Vec3{math.Min(g[0], l[2]), math.Min(g[1], l[0]), math.Min(g[2], l[1])}
	i2 := mgl64.Vec3{math.Max(g[0], l[2]), math.Max(g[1], l[0]), math.Max(g[2], l[1])}

	x1 := x0.Sub(i1).Add(mgl64.Vec3{c1, c1, c1})
	x2 := x0.Sub(i2).Add(mgl64.Vec3{c2, c2, c2})
	x3 := x0.Sub(mgl64.Vec3{0.5, 0.5, 0.5})

	i = mgl64.Vec3{mod289(i[0]), mod289(i[1]), mod289(i[2])}

	var p [4]float64
	zs := [4]float64{0, i1[2], i2[2], 1}
	ys := [4]float64{0, i1[1], i2[1], 1}
	xs := [4]float64{0, i1[0], i2[0], 1}
	for k := 0; k < 4; k++ {
		h := permute(i[2] + zs[k])
		h = permute(h + i[1] + ys[k])
		p[k] = permute(h + i[0] + xs[k])
	}

	// gradients: 7x7 points over a square, mapped onto an octahedron
	const n = 1.0 / 7.0
	nsx, nsy, nsz := n*2.0, n*0.5-1.0, n

	var gx, gy, gz [4]float64
	for k := 0; k < 4; k++ {
		j := p[k] - 49.0*math.Floor(p[k]*nsz*nsz)
		xk := math.Floor(j * nsz)
		yk := math.Floor(j - 7.0*xk)
		x := xk*nsx + nsy
		y := yk*nsx + nsy
		h := 1.0 - math.Abs(x) - math.Abs(y)

		sx := math.Floor(x)*2.0 + 1.0
		sy := math.Floor(y)*2.0 + 1.0
		sh := 0.0
		if h <= 0 {
			sh = -1.0
		}
		gx[k] = x + sx*sh
		gy[k] = y + sy*sh
		gz[k] = h
	}

	corners := [4]mgl64.Vec3{x0, x1, x2, x3}
	var sum float64
	for k := 0; k < 4; k++ {
		grad := mgl64.Vec3{gx[k], gy[k], gz[k]}
		grad = grad.Mul(taylorInvSqrt(grad.Dot(grad)))

		m := math.Max(0.5-corners[k].Dot(corners[k]), 0)
		m *= m
		sum += m * m * grad.Dot(corners[k])
	}
	return 105.0 * sum
}

// Hash3 is the cheap lattice-free hash used for moon craters. Output in [0, 1).
func Hash3(p mgl64.Vec3) float64 {
	p = mgl64.Vec3{fract(p[0]*0.3183099 + 0.1), fract(p[1]*0.3183099 + 0.1), fract(p[2]*0.3183099 + 0.1)}
	p = p.Mul(17.0)
	return fract(p[0] * p[1] * p[2] * (p[0] + p[1] + p[2]))
}

// FBM sums four octaves of Hash3.
func FBM(p mgl64.Vec3) float64 {
	v := 0.5 * Hash3(p)
	v += 0.25 * Hash3(p.Mul(2.1))
	v += 0.125 * Hash3(p.Mul(4.3))
	v += 0.0625 * Hash3(p.Mul(8.7))
	return v
}

func mod289(x float64) float64 {
	return x - math.Floor(x*(1.0/289.0))*289.0
}

func permute(x float64) float64 {
	return mod289((x*34.0 + 1.0) * x)
}

func taylorInvSqrt(r float64) float64 {
	return 1.79284291400159 - 0.85373472095314*r
}

// step mirrors GLSL step(edge, x).
func step(edge, x float64) float64 {
	if x < edge {
		return 0
	}
	return 1
}

func fract(x float64) float64 {
	return x - math.Floor(x)
}
