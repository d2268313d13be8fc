package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Drift rates applied to the noise domain per unit of uniform time.
const (
	ElevationDrift = 0.03
	CraterDrift    = 0.02
)

var (
	craterRimTint = mgl64.Vec3{0.75, 0.82, 0.95}
	polarCapColor = mgl64.Vec3{0.88, 0.93, 1.0}
)

// SurfaceParams is the parameter set of a procedurally shaded body. The same
// values are uploaded as uniforms and evaluated by the generated fragment
// program, so every formula here has a GLSL twin.
type SurfaceParams struct {
	Scale          float64 // noise frequency
	Displacement   float64 // vertex offset along the normal per unit of noise
	BandFrequency  float64 // latitude bands
	CraterStrength float64 // 0..1
	ColorA         Color   // low latitude tint
	ColorB         Color   // high latitude tint
	PolarCaps      bool
}

// DefaultSurface matches the generic noisy body.
func DefaultSurface() SurfaceParams {
	return SurfaceParams{
		Scale:          1.6,
		Displacement:   0.02,
		BandFrequency:  2.2,
		CraterStrength: 0.35,
		ColorA:         Hex(0x1a2044),
		ColorB:         Hex(0x2a3e85),
		PolarCaps:      true,
	}
}

// Sanitize folds out-of-range values back into something drawable. It never
// fails: negative frequencies are mirrored, non-finite values fall back to
// the defaults and crater strength is clamped to [0, 1].
func (p SurfaceParams) Sanitize() SurfaceParams {
	d := DefaultSurface()
	p.Scale = finiteAbs(p.Scale, d.Scale)
	p.Displacement = finiteAbs(p.Displacement, d.Displacement)
	p.BandFrequency = finiteAbs(p.BandFrequency, d.BandFrequency)
	p.CraterStrength = clamp(finiteAbs(p.CraterStrength, d.CraterStrength), 0, 1)
	return p
}

// Elevation samples the displacement noise at a surface position.
func (p SurfaceParams) Elevation(pos mgl64.Vec3, t float64) float64 {
	dir := normalizeOr(pos, mgl64.Vec3{0, 1, 0})
	drift := t * ElevationDrift
	return Simplex3(dir.Mul(math.Abs(p.Scale)).Add(mgl64.Vec3{drift, drift, drift}))
}

// Displace moves pos along normal by Displacement * Elevation.
func (p SurfaceParams) Displace(pos, normal mgl64.Vec3, t float64) mgl64.Vec3 {
	return pos.Add(normal.Mul(p.Elevation(pos, t) * p.Displacement))
}

// CraterMask is 0 on plains and approaches 1 on crater rims.
func (p SurfaceParams) CraterMask(pos mgl64.Vec3, t float64) float64 {
	drift := t * CraterDrift
	n := Simplex3(pos.Mul(math.Abs(p.Scale) * 0.7).Add(mgl64.Vec3{drift, drift, drift}))
	return smoothstep(0.2, 0.9, math.Abs(n))
}

// CraterTint blends from white toward the rim tint by mask*strength.
func (p SurfaceParams) CraterTint(mask float64) mgl64.Vec3 {
	return mix3(mgl64.Vec3{1, 1, 1}, craterRimTint, mask*clamp(p.CraterStrength, 0, 1))
}

// BandColor blends the two tints along world height, then toward the cap
// color near the poles.
func (p SurfaceParams) BandColor(pos mgl64.Vec3) mgl64.Vec3 {
	band := mix3(p.ColorA.Vec64(), p.ColorB.Vec64(), 0.5+0.5*math.Sin(pos[1]*math.Abs(p.BandFrequency)))
	if !p.PolarCaps {
		return band
	}
	lat := math.Abs(normalizeOr(pos, mgl64.Vec3{}).Y())
	caps := smoothstep(0.58, 0.92, lat)
	return mix3(band, polarCapColor, caps*0.35)
}

// AmbientOcclusion returns a darkening factor in [0.82, 1].
func (p SurfaceParams) AmbientOcclusion(pos mgl64.Vec3) float64 {
	n := Simplex3(pos.Mul(math.Abs(p.Scale) * 0.35))
	return 0.82 + 0.18*clamp(n*0.5+0.5, 0, 1)
}

// Shade combines band color, crater tint and AO over base, and returns the
// surface color together with the roughness after crater adjustment.
func (p SurfaceParams) Shade(base mgl64.Vec3, roughness float64, pos mgl64.Vec3, t float64) (mgl64.Vec3, float64) {
	mask := p.CraterMask(pos, t)
	band := p.BandColor(pos)
	tint := p.CraterTint(mask)
	ao := p.AmbientOcclusion(pos)

	c := mgl64.Vec3{
		base[0] * band[0] * tint[0] * ao,
		base[1] * band[1] * tint[1] * ao,
		base[2] * band[2] * tint[2] * ao,
	}
	r := clamp(roughness+mask*0.22*clamp(p.CraterStrength, 0, 1), 0, 1)
	return c, r
}

func smoothstep(e0, e1, x float64) float64 {
	t := clamp((x-e0)/(e1-e0), 0, 1)
	return t * t * (3 - 2*t)
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

func mix3(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Mul(1 - t).Add(b.Mul(t))
}

func normalizeOr(v, fallback mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return fallback
	}
	return v.Mul(1 / l)
}

func finiteAbs(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return math.Abs(v)
}
