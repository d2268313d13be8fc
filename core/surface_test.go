package core

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestSurfaceSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   SurfaceParams
		want SurfaceParams
	}{
		{
			name: "negative frequencies mirrored",
			in:   SurfaceParams{Scale: -1.7, Displacement: -0.045, BandFrequency: -1.9, CraterStrength: 0.42},
			want: SurfaceParams{Scale: 1.7, Displacement: 0.045, BandFrequency: 1.9, CraterStrength: 0.42},
		},
		{
			name: "crater strength clamped",
			in:   SurfaceParams{Scale: 1, Displacement: 0, BandFrequency: 1, CraterStrength: 3},
			want: SurfaceParams{Scale: 1, Displacement: 0, BandFrequency: 1, CraterStrength: 1},
		},
		{
			name: "non-finite replaced",
			in:   SurfaceParams{Scale: math.NaN(), Displacement: math.Inf(1), BandFrequency: 2, CraterStrength: math.NaN()},
			want: SurfaceParams{Scale: 1.6, Displacement: 0.02, BandFrequency: 2, CraterStrength: 0.35},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.in.Sanitize()
			if got.Scale != tc.want.Scale || got.Displacement != tc.want.Displacement ||
				got.BandFrequency != tc.want.BandFrequency || got.CraterStrength != tc.want.CraterStrength {
				t.Errorf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestShadeRanges(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	params := SurfaceParams{
		Scale:          1.7,
		Displacement:   0.045,
		BandFrequency:  1.9,
		CraterStrength: 0.42,
		ColorA:         Hex(0x172148),
		ColorB:         Hex(0x3557a8),
		PolarCaps:      true,
	}
	white := mgl64.Vec3{1, 1, 1}
	for i := 0; i < 2000; i++ {
		p := randomUnit(rng).Mul(2)
		tm := rng.Float64() * 50

		mask := params.CraterMask(p, tm)
		if mask < 0 || mask > 1 {
			t.Fatalf("crater mask %f outside [0, 1]", mask)
		}
		ao := params.AmbientOcclusion(p)
		if ao < 0.82 || ao > 1 {
			t.Fatalf("ao %f outside [0.82, 1]", ao)
		}
		c, r := params.Shade(white, 0.52, p, tm)
		for k := 0; k < 3; k++ {
			if math.IsNaN(c[k]) || c[k] < 0 || c[k] > 1 {
				t.Fatalf("color component %d = %f", k, c[k])
			}
		}
		if r < 0.52 || r > 1 {
			t.Fatalf("roughness %f, want within [0.52, 1]", r)
		}
	}
}

func TestPolarCapsBrighten(t *testing.T) {
	params := DefaultSurface()
	params.BandFrequency = 0 // flat band: mix(a, b, 0.5)
	equator := params.BandColor(mgl64.Vec3{2, 0, 0})
	pole := params.BandColor(mgl64.Vec3{0, 2, 0})
	if pole[2] <= equator[2] || pole[0] <= equator[0] {
		t.Errorf("pole %v not lighter than equator %v", pole, equator)
	}

	params.PolarCaps = false
	if got := params.BandColor(mgl64.Vec3{0, 2, 0}); got != equator {
		t.Errorf("caps disabled: pole %v, want %v", got, equator)
	}
}

func TestCraterTintEndpoints(t *testing.T) {
	params := DefaultSurface()
	params.CraterStrength = 1
	if got := params.CraterTint(0); got != (mgl64.Vec3{1, 1, 1}) {
		t.Errorf("no crater: got %v", got)
	}
	got := params.CraterTint(1)
	want := mgl64.Vec3{0.75, 0.82, 0.95}
	for k := 0; k < 3; k++ {
		if math.Abs(got[k]-want[k]) > 1e-12 {
			t.Errorf("full crater: got %v, want %v", got, want)
		}
	}
}

func TestDisplaceAlongNormal(t *testing.T) {
	params := DefaultSurface()
	params.Displacement = 0.05
	pos := mgl64.Vec3{0, 0, 2}
	n := mgl64.Vec3{0, 0, 1}
	got := params.Displace(pos, n, 3)
	if got[0] != 0 || got[1] != 0 {
		t.Errorf("displacement left the normal: %v", got)
	}
	if math.Abs(got[2]-2) > 0.05*1.2 {
		t.Errorf("displacement %f larger than scale", got[2]-2)
	}
}

func TestElevationAtOrigin(t *testing.T) {
	params := DefaultSurface()
	if v := params.Elevation(mgl64.Vec3{}, 0); math.IsNaN(v) {
		t.Error("elevation at origin is NaN")
	}
}
