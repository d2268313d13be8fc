package core

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
)

// Geographic is a point on a sphere in radians.
type Geographic struct {
	Lat float64 // [-π/2, π/2], positive = north (+Y)
	Lon float64 // [-π, π], measured from +X toward +Z
}

// DegreesToRadians converts degrees to radians
func DegreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}

// RadiansToDegrees converts radians to degrees
func RadiansToDegrees(radians float64) float64 {
	return radians * 180.0 / math.Pi
}

// GeographicToCartesian places g on a sphere of the given radius, Y up.
func GeographicToCartesian(g Geographic, radius float64) mgl64.Vec3 {
	cosLat := math.Cos(g.Lat)
	return mgl64.Vec3{
		radius * cosLat * math.Cos(g.Lon),
		radius * math.Sin(g.Lat),
		radius * cosLat * math.Sin(g.Lon),
	}
}

// CartesianToGeographic is the inverse of GeographicToCartesian. The origin
// maps to (0, 0).
func CartesianToGeographic(c mgl64.Vec3) Geographic {
	r := c.Len()
	if r < 1e-10 {
		return Geographic{}
	}
	return Geographic{
		Lat: math.Asin(clamp(c[1]/r, -1, 1)),
		Lon: math.Atan2(c[2], c[0]),
	}
}

// NormalizeCoordinates clamps latitude and wraps longitude into range.
func NormalizeCoordinates(g Geographic) Geographic {
	g.Lat = clamp(g.Lat, -math.Pi/2, math.Pi/2)
	g.Lon = math.Remainder(g.Lon, 2*math.Pi)
	return g
}

// LatitudeArc samples a constant-latitude arc starting at lon0 and spanning
// span radians, every stepFrac of the span (inclusive of both ends).
func LatitudeArc(lat, lon0, span, radius, stepFrac float64) []mgl64.Vec3 {
	if stepFrac <= 0 || stepFrac > 1 {
		stepFrac = 0.02
	}
	steps := int(math.Round(1 / stepFrac))
	pts := make([]mgl64.Vec3, 0, steps+1)
	for k := 0; k <= steps; k++ {
		t := float64(k) / float64(steps)
		pts = append(pts, GeographicToCartesian(Geographic{Lat: lat, Lon: lon0 + t*span}, radius))
	}
	return pts
}

// RandomShellPoint returns a point uniformly distributed in direction with a
// radius drawn uniformly from [minR, maxR).
func RandomShellPoint(rng *rand.Rand, minR, maxR float64) mgl64.Vec3 {
	r := minR + rng.Float64()*(maxR-minR)
	theta := rng.Float64() * 2 * math.Pi
	phi := math.Acos(rng.Float64()*2 - 1)
	return mgl64.Vec3{
		r * math.Sin(phi) * math.Cos(theta),
		r * math.Cos(phi),
		r * math.Sin(phi) * math.Sin(theta),
	}
}
