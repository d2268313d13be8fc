package core

import (
	"fmt"
	"math"
)

// TimeUniform is the name every procedural program reads its clock from.
const TimeUniform = "uTime"

// UniformSet maps shader parameter names to values. It is shared by pointer
// between the frame loop, which advances the clock, and the renderer, which
// uploads the values on every draw.
type UniformSet struct {
	Name      string
	TimeScale float64 // multiplier on the loop tick step

	time   float64
	values map[string]any
	order  []string
}

// NewUniformSet creates an empty set whose clock advances timeScale times the
// tick step.
func NewUniformSet(name string, timeScale float64) *UniformSet {
	if math.IsNaN(timeScale) || math.IsInf(timeScale, 0) {
		timeScale = 1
	}
	return &UniformSet{
		Name:      name,
		TimeScale: timeScale,
		values:    make(map[string]any),
	}
}

func (u *UniformSet) set(name string, v any) {
	if _, ok := u.values[name]; !ok {
		u.order = append(u.order, name)
	}
	u.values[name] = v
}

func (u *UniformSet) SetFloat(name string, v float32) { u.set(name, v) }

func (u *UniformSet) SetColor(name string, c Color) { u.set(name, c) }

// Float returns the named float, or 0 when absent or of another type.
func (u *UniformSet) Float(name string) float32 {
	v, _ := u.values[name].(float32)
	return v
}

// Color returns the named color, or the zero color.
func (u *UniformSet) Color(name string) Color {
	v, _ := u.values[name].(Color)
	return v
}

// Value returns the raw value for the renderer's type switch.
func (u *UniformSet) Value(name string) (any, bool) {
	v, ok := u.values[name]
	return v, ok
}

// Names lists the parameters in insertion order. The clock is not included.
func (u *UniformSet) Names() []string {
	return u.order
}

// Time is the accumulated clock of this set.
func (u *UniformSet) Time() float64 {
	return u.time
}

// AdvanceTime adds TimeScale*step to the clock.
func (u *UniformSet) AdvanceTime(step float64) {
	u.time += u.TimeScale * step
}

func (u *UniformSet) String() string {
	return fmt.Sprintf("%s(t=%.3f, %d params)", u.Name, u.time, len(u.order))
}

// UniformRegistry is the list of time-animated uniform sets of one scene.
type UniformRegistry struct {
	sets []*UniformSet
}

func NewUniformRegistry() *UniformRegistry {
	return &UniformRegistry{}
}

// Register adds a set; registering the same set twice is a no-op.
func (r *UniformRegistry) Register(u *UniformSet) {
	for _, s := range r.sets {
		if s == u {
			return
		}
	}
	r.sets = append(r.sets, u)
}

func (r *UniformRegistry) All() []*UniformSet {
	return r.sets
}

func (r *UniformRegistry) Len() int {
	return len(r.sets)
}

// Advance moves every registered clock forward by step scaled per set.
func (r *UniformRegistry) Advance(step float64) {
	for _, s := range r.sets {
		s.AdvanceTime(step)
	}
}
