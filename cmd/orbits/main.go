// Command orbits steps the satellite orbits without a window and prints where
// each satellite and its label end up.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"planetsystem/config"
	"planetsystem/core"
	"planetsystem/simulation"
)

type printSink struct {
	every int
	ticks int
}

func (p *printSink) PublishLabels(labels []simulation.Label, vp simulation.Viewport) {
	p.ticks++
	if p.ticks%p.every != 0 {
		return
	}
	fmt.Printf("tick %d\n", p.ticks)
	for _, l := range labels {
		if !l.Visible {
			fmt.Printf("  %-10s hidden\n", l.Text)
			continue
		}
		fmt.Printf("  %-10s label at (%4.0f, %4.0f) of %dx%d\n", l.Text, l.X, l.Y, vp.Width, vp.Height)
	}
}

func main() {
	var (
		settingsPath = flag.String("settings", "settings.json", "Settings file (JSON, optional)")
		ticks        = flag.Int("ticks", 600, "Frames to simulate")
		every        = flag.Int("every", 200, "Print labels every N frames")
	)
	flag.Parse()
	if *every < 1 {
		*every = 1
	}

	settings, err := config.Load(*settingsPath)
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}

	fmt.Println("=== Orbit Check ===")

	// Phase zero for every satellite so runs are repeatable.
	reg := simulation.NewRegistry()
	for _, s := range settings.Satellites {
		reg.AddAt(nil, s.Radius, s.Speed, 0, s.Label, s.Target)
	}

	p := settings.Camera.Position
	cam := simulation.NewCamera(mgl32.Vec3{float32(p[0]), float32(p[1]), float32(p[2])},
		float32(settings.Camera.FOV), 1, float32(settings.Camera.Near), float32(settings.Camera.Far))

	sink := &printSink{every: *every}
	loop := &simulation.Loop{Satellites: reg, Camera: cam, Labels: sink}
	loop.Resize(settings.Window.Width, settings.Window.Height)

	for i := 0; i < *ticks; i++ {
		loop.Tick()
	}

	fmt.Printf("\nAfter %d frames (t=%.3f):\n", loop.Ticks(), loop.Time())
	for _, s := range reg.All() {
		pos := s.Position()
		geo := core.CartesianToGeographic(pos)
		period := 2 * math.Pi / (math.Abs(s.Speed()) * simulation.AngularRate)
		fmt.Printf("%-10s pos=(%6.2f, %6.2f, %6.2f) lat=%6.1f° lon=%7.1f° period=%.0f frames -> %s\n",
			s.Label, pos[0], pos[1], pos[2],
			core.RadiansToDegrees(geo.Lat), core.RadiansToDegrees(geo.Lon), period, s.Target)
	}
}
