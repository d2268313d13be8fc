package simulation

import (
	"log"
	"math"
	"math/rand/v2"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// Orbit shape constants. The vertical term uses a different phase
// multiplier than the horizontal one, so orbits wobble out of plane.
const (
	AngularRate   = 0.01 // radians per tick per unit speed
	SpinRate      = 0.01 // satellite self-rotation per tick
	VerticalScale = 0.45
	VerticalPhase = 1.15
	minRadius     = 0.1
)

var logger = log.New(os.Stderr, "[simulation] ", log.LstdFlags)

// Placeable receives a satellite's transform after every advance.
type Placeable interface {
	Place(position mgl32.Vec3, spin float32)
}

// Satellite is one orbiting body and the navigation target it stands for.
type Satellite struct {
	Label  string
	Target string
	Body   Placeable

	radius float64
	speed  float64
	angle  float64
	spin   float64
	pos    mgl64.Vec3
}

func (s *Satellite) Radius() float64 { return s.radius }
func (s *Satellite) Speed() float64  { return s.speed }

// Angle is the unbounded orbit phase.
func (s *Satellite) Angle() float64 { return s.angle }

func (s *Satellite) Spin() float64 { return s.spin }

func (s *Satellite) Position() mgl64.Vec3 { return s.pos }

func (s *Satellite) Position32() mgl32.Vec3 {
	return mgl32.Vec3{float32(s.pos[0]), float32(s.pos[1]), float32(s.pos[2])}
}

// Advance moves the satellite forward by ticks frame steps. It is linear in
// ticks: Advance(a); Advance(b) lands where Advance(a+b) does.
func (s *Satellite) Advance(ticks float64) {
	s.angle += s.speed * AngularRate * ticks
	s.spin += SpinRate * ticks
	s.pos = OrbitPosition(s.radius, s.angle)
	s.place()
}

func (s *Satellite) place() {
	if s.Body != nil {
		s.Body.Place(s.Position32(), float32(s.spin))
	}
}

// OrbitPosition evaluates the tilted orbit at a phase.
func OrbitPosition(radius, angle float64) mgl64.Vec3 {
	return mgl64.Vec3{
		radius * math.Cos(angle),
		VerticalScale * radius * math.Sin(VerticalPhase*angle),
		radius * math.Sin(angle),
	}
}

// Registry holds every satellite of the scene in insertion order.
type Registry struct {
	satellites []*Satellite
	phase      func() float64
}

// NewRegistry returns a registry that draws starting phases uniformly from
// [0, 2π).
func NewRegistry() *Registry {
	return &Registry{phase: func() float64 { return rand.Float64() * 2 * math.Pi }}
}

// Add registers a satellite. Radius must be positive; a negative radius is
// mirrored and anything below 0.1 is raised to 0.1. Speed may have any sign.
func (r *Registry) Add(body Placeable, radius, speed float64, label, target string) *Satellite {
	return r.AddAt(body, radius, speed, r.phase(), label, target)
}

// AddAt is Add with an explicit starting phase.
func (r *Registry) AddAt(body Placeable, radius, speed, angle float64, label, target string) *Satellite {
	if math.IsNaN(radius) || math.IsInf(radius, 0) {
		logger.Printf("satellite %q: radius %v is not finite, using %.1f", label, radius, minRadius)
		radius = minRadius
	}
	if radius < 0 {
		radius = -radius
	}
	if radius < minRadius {
		logger.Printf("satellite %q: radius %.3f too small, using %.1f", label, radius, minRadius)
		radius = minRadius
	}
	if math.IsNaN(speed) || math.IsInf(speed, 0) {
		speed = 0
	}

	s := &Satellite{
		Label:  label,
		Target: target,
		Body:   body,
		radius: radius,
		speed:  speed,
		angle:  angle,
	}
	s.pos = OrbitPosition(radius, angle)
	s.place()
	r.satellites = append(r.satellites, s)
	return s
}

func (r *Registry) All() []*Satellite {
	return r.satellites
}

func (r *Registry) Len() int {
	return len(r.satellites)
}

// Advance steps every satellite by ticks.
func (r *Registry) Advance(ticks float64) {
	for _, s := range r.satellites {
		s.Advance(ticks)
	}
}
