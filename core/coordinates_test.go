package core

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestGeographicToCartesian(t *testing.T) {
	tests := []struct {
		name    string
		lat     float64 // degrees
		lon     float64 // degrees
		r       float64
		want    mgl64.Vec3
		epsilon float64
	}{
		{name: "North Pole", lat: 90, lon: 0, r: 2.02, want: mgl64.Vec3{0, 2.02, 0}, epsilon: 1e-9},
		{name: "South Pole", lat: -90, lon: 0, r: 2.02, want: mgl64.Vec3{0, -2.02, 0}, epsilon: 1e-9},
		{name: "Equator Prime Meridian", lat: 0, lon: 0, r: 2.02, want: mgl64.Vec3{2.02, 0, 0}, epsilon: 1e-9},
		{name: "Equator 90E", lat: 0, lon: 90, r: 2.02, want: mgl64.Vec3{0, 0, 2.02}, epsilon: 1e-9},
		{name: "45N 45E", lat: 45, lon: 45, r: 2, want: mgl64.Vec3{1, math.Sqrt2, 1}, epsilon: 1e-9},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := Geographic{Lat: DegreesToRadians(tc.lat), Lon: DegreesToRadians(tc.lon)}
			got := GeographicToCartesian(g, tc.r)
			for i := 0; i < 3; i++ {
				if math.Abs(got[i]-tc.want[i]) > tc.epsilon {
					t.Errorf("component %d: got %f, want %f", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestCartesianRoundTrip(t *testing.T) {
	vectors := []struct {
		name    string
		v       mgl64.Vec3
		wantLat float64
		wantLon float64
	}{
		{"North", mgl64.Vec3{0, 1, 0}, math.Pi / 2, 0},
		{"South", mgl64.Vec3{0, -1, 0}, -math.Pi / 2, 0},
		{"East", mgl64.Vec3{0, 0, 1}, 0, math.Pi / 2},
		{"West", mgl64.Vec3{0, 0, -1}, 0, -math.Pi / 2},
		{"PrimeMeridian", mgl64.Vec3{3, 0, 0}, 0, 0},
	}
	for _, v := range vectors {
		t.Run(v.name, func(t *testing.T) {
			g := CartesianToGeographic(v.v)
			if math.Abs(g.Lat-v.wantLat) > 1e-9 || math.Abs(g.Lon-v.wantLon) > 1e-9 {
				t.Errorf("got lat=%.4f lon=%.4f, want lat=%.4f lon=%.4f", g.Lat, g.Lon, v.wantLat, v.wantLon)
			}
		})
	}

	if g := CartesianToGeographic(mgl64.Vec3{}); g != (Geographic{}) {
		t.Errorf("origin: got %+v", g)
	}
}

func TestNormalizeCoordinates(t *testing.T) {
	g := NormalizeCoordinates(Geographic{Lat: 2, Lon: 3 * math.Pi})
	if g.Lat != math.Pi/2 {
		t.Errorf("lat not clamped: %f", g.Lat)
	}
	if math.Abs(math.Abs(g.Lon)-math.Pi) > 1e-9 {
		t.Errorf("lon not wrapped: %f", g.Lon)
	}
}

func TestLatitudeArc(t *testing.T) {
	pts := LatitudeArc(0.3, 0, 0.9*math.Pi, 2.02, 0.02)
	if len(pts) != 51 {
		t.Fatalf("got %d points, want 51", len(pts))
	}
	for i, p := range pts {
		if math.Abs(p.Len()-2.02) > 1e-9 {
			t.Errorf("point %d off the sphere: |p|=%f", i, p.Len())
		}
		if math.Abs(p[1]-2.02*math.Sin(0.3)) > 1e-9 {
			t.Errorf("point %d left its latitude: y=%f", i, p[1])
		}
	}
}

func TestRandomShellPoint(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 500; i++ {
		p := RandomShellPoint(rng, 35, 120)
		if r := p.Len(); r < 35-1e-9 || r >= 120 {
			t.Fatalf("radius %f outside [35, 120)", r)
		}
	}
}
