package scene

import (
	"math"
	"testing"

	"planetsystem/config"
	"planetsystem/simulation"
)

func smallSettings() config.Settings {
	s := config.Default()
	s.Planet.Detail = 24
	s.Scene.StarsNear, s.Scene.StarsMid, s.Scene.StarsFar = 50, 40, 30
	s.Scene.Pebbles = 20
	return s
}

func TestComposeSatellites(t *testing.T) {
	s := smallSettings()
	sc := Compose(s)

	if got := sc.Satellites.Len(); got != len(s.Satellites) {
		t.Fatalf("satellites = %d, want %d", got, len(s.Satellites))
	}
	for i, sat := range sc.Satellites.All() {
		want := s.Satellites[i]
		if sat.Label != want.Label || sat.Target != want.Target {
			t.Errorf("satellite %d = %s/%s, want %s/%s", i, sat.Label, sat.Target, want.Label, want.Target)
		}
		if sat.Radius() != want.Radius || sat.Speed() != want.Speed {
			t.Errorf("%s: radius %.2f speed %.2f", sat.Label, sat.Radius(), sat.Speed())
		}
		if a := sat.Angle(); a < 0 || a >= 2*math.Pi {
			t.Errorf("%s: initial angle %f outside [0, 2π)", sat.Label, a)
		}

		root := sc.Root.Find("satellite-" + want.Label)
		if root == nil {
			t.Fatalf("no node for %s", want.Label)
		}
		if root.Selectable != sat {
			t.Errorf("%s: subtree root does not reference its satellite", want.Label)
		}
		if root.Position != sat.Position32() {
			t.Errorf("%s: node at %v, satellite at %v", want.Label, root.Position, sat.Position32())
		}
	}
}

func TestComposeRegistersUniforms(t *testing.T) {
	s := smallSettings()
	sc := Compose(s)

	// The planet plus one cratered moon per satellite.
	if got, want := sc.Uniforms.Len(), 1+len(s.Satellites); got != want {
		t.Errorf("uniform sets = %d, want %d", got, want)
	}
	if sc.Planet.Uniforms.TimeScale != 1.6 {
		t.Errorf("planet time scale = %v", sc.Planet.Uniforms.TimeScale)
	}
	if got := sc.Planet.Uniforms.Float(UniformDisp); got != float32(s.Planet.Displacement) {
		t.Errorf("uDisp = %v, want %v", got, s.Planet.Displacement)
	}

	loop := &simulation.Loop{Uniforms: sc.Uniforms, Satellites: sc.Satellites, Animator: sc.Animator}
	for range 10 {
		loop.Tick()
	}
	if got := sc.Planet.Uniforms.Time(); math.Abs(got-0.08) > 1e-9 {
		t.Errorf("planet time after 10 ticks = %v, want 0.08", got)
	}
	for _, u := range sc.Uniforms.All()[1:] {
		if got := u.Time(); math.Abs(got-0.05) > 1e-9 {
			t.Errorf("%s time after 10 ticks = %v, want 0.05", u.Name, got)
		}
	}
}

func TestComposeAnimations(t *testing.T) {
	sc := Compose(smallSettings())
	atm := sc.Root.Find("atmosphere")
	aurora := sc.Root.Find("aurora")
	if atm == nil || aurora == nil {
		t.Fatal("missing atmosphere or aurora")
	}

	for _, tm := range []float64{0, 0.5, 3, 120} {
		sc.Animator.Apply(tm)
		wantOpacity := 0.2 + 0.03*math.Sin(2*tm)
		if math.Abs(float64(atm.Material.Opacity)-wantOpacity) > 1e-6 {
			t.Errorf("t=%v: atmosphere opacity %v, want %v", tm, atm.Material.Opacity, wantOpacity)
		}
		wantY := 1.55 + 0.05*math.Sin(1.5*tm)
		if math.Abs(float64(aurora.Position[1])-wantY) > 1e-6 {
			t.Errorf("t=%v: aurora height %v, want %v", tm, aurora.Position[1], wantY)
		}
	}
}

func TestComposeEmptyLayers(t *testing.T) {
	s := smallSettings()
	s.Scene.StarsNear, s.Scene.StarsMid, s.Scene.StarsFar, s.Scene.BigStars = 0, 0, 0, 0
	s.Scene.Pebbles, s.Scene.Arcs = 0, 0
	s.Satellites = nil

	sc := Compose(s)
	if sc.Satellites.Len() != 0 {
		t.Errorf("satellites = %d", sc.Satellites.Len())
	}
	for _, name := range []string{"stars-near", "belt", "arc-0", "big-star-0"} {
		if sc.Root.Find(name) != nil {
			t.Errorf("%s should not be built", name)
		}
	}
	if sc.Root.Find("planet") == nil || sc.Root.Find("far-planet") == nil {
		t.Error("planets are always built")
	}
}

func TestComposeBadColorFallsBack(t *testing.T) {
	s := smallSettings()
	s.Window.ClearColor = "not-a-color"
	s.Satellites[0].Color = "#zz"
	sc := Compose(s)
	if sc.ClearColor.A != 1 || sc.ClearColor.B == 0 {
		t.Errorf("clear color = %+v, want default", sc.ClearColor)
	}
	moon := sc.Root.Find("moon-" + s.Satellites[0].Label)
	if moon == nil {
		t.Fatal("moon missing")
	}
	if moon.Material.Color != neonCyan {
		t.Errorf("moon color = %+v, want fallback %+v", moon.Material.Color, neonCyan)
	}
}
