package simulation

import "math"

// Animation applies a cosmetic value computed from the loop clock. It must
// be a closed-form function of t so long sessions never accumulate drift.
type Animation func(t float64)

// Animator runs every registered animation once per tick.
type Animator struct {
	animations []Animation
}

func (a *Animator) Add(fn Animation) {
	a.animations = append(a.animations, fn)
}

func (a *Animator) Len() int {
	return len(a.animations)
}

// Apply evaluates every animation at t.
func (a *Animator) Apply(t float64) {
	for _, fn := range a.animations {
		fn(t)
	}
}

// Oscillate returns base + amplitude*sin(frequency*t + phase).
func Oscillate(base, amplitude, frequency, phase float64) func(t float64) float64 {
	return func(t float64) float64 {
		return base + amplitude*math.Sin(frequency*t+phase)
	}
}

// Spin turns a per-tick rotation increment into an angle as a function of
// the loop clock, wrapped to one turn.
func Spin(perTick float64) func(t float64) float64 {
	rate := perTick / TickStep
	return func(t float64) float64 {
		return math.Mod(rate*t, 2*math.Pi)
	}
}
