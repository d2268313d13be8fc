package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"runtime"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/browser"

	"planetsystem/config"
	"planetsystem/navigation"
	"planetsystem/overlay"
	"planetsystem/rendering/opengl"
	"planetsystem/scene"
	"planetsystem/simulation"
)

func init() {
	// GLFW and GL calls must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	var (
		settingsPath = flag.String("settings", "settings.json", "Settings file (JSON, optional)")
		width        = flag.Int("width", 0, "Window width (overrides settings)")
		height       = flag.Int("height", 0, "Window height (overrides settings)")
		noOverlay    = flag.Bool("no-overlay", false, "Disable the label overlay server")
		openOverlay  = flag.Bool("open-overlay", false, "Open the label overlay in the browser")
	)
	flag.Parse()

	settings, err := config.Load(*settingsPath)
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}
	if *width > 0 {
		settings.Window.Width = *width
	}
	if *height > 0 {
		settings.Window.Height = *height
	}
	if *noOverlay {
		settings.Overlay.Enabled = false
	}

	fmt.Println("=== Planet System ===")
	fmt.Printf("Window: %dx%d\n", settings.Window.Width, settings.Window.Height)
	fmt.Printf("Planet detail: %d (~%d vertices)\n", settings.Planet.Detail, config.SphereVertexCount(settings.Planet.Detail))

	sc := scene.Compose(settings)
	for _, s := range sc.Satellites.All() {
		fmt.Printf("Satellite %-10s r=%.2f speed=%.2f -> %s\n", s.Label, s.Radius(), s.Speed(), s.Target)
	}

	renderer, err := opengl.NewSceneRenderer(opengl.Options{
		Width:  settings.Window.Width,
		Height: settings.Window.Height,
		Title:  settings.Window.Title,
		VSync:  settings.Window.VSync,
	})
	if err != nil {
		log.Fatalf("Failed to create renderer: %v", err)
	}
	defer renderer.Terminate()

	cam := simulation.NewCamera(vec3(settings.Camera.Position), float32(settings.Camera.FOV),
		float32(settings.Window.Width)/float32(settings.Window.Height),
		float32(settings.Camera.Near), float32(settings.Camera.Far))
	controls := simulation.NewControls(cam, settings.Camera.Damping, settings.Camera.MinDistance, settings.Camera.MaxDistance)

	metrics := overlay.NewMetrics()
	desktop := navigation.NewDesktop(settings.Navigation)
	nav := overlay.CountingNavigator{Next: desktop, Metrics: metrics}

	loop := &simulation.Loop{
		Uniforms:   sc.Uniforms,
		Satellites: sc.Satellites,
		Animator:   sc.Animator,
		Camera:     cam,
		Controls:   controls,
		Renderer:   renderer,
		Observer:   metrics,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var hub *overlay.Hub
	var server *overlay.Server
	if settings.Overlay.Enabled {
		hub = overlay.NewHub(settings.Overlay.LabelRate, metrics)
		server = overlay.NewServer(settings.Overlay.Addr, hub, metrics)
		if err := server.Start(); err != nil {
			log.Printf("Label overlay disabled: %v", err)
			hub, server = nil, nil
		} else {
			go hub.Run(ctx)
			loop.Labels = hub
			overlayURL := "http://" + server.Addr() + "/"
			fmt.Printf("Label overlay: %s (metrics at %smetrics)\n", overlayURL, overlayURL)
			if *openOverlay {
				if err := browser.OpenURL(overlayURL); err != nil {
					log.Printf("Failed to open overlay: %v", err)
				}
			}
		}
	}

	desktop.OnSection(func(section string) {
		renderer.SetTitle(navigation.SectionTitle(settings.Window.Title, section))
		if hub != nil {
			hub.PublishSection(section)
		}
	})

	suffixes := settings.Navigation.DocumentSuffixes
	renderer.SetPointerHandler(scene.NewSelector(sc.Root, cam, controls, nav, suffixes))
	renderer.Attach(sc, cam, loop.Time)
	renderer.OnResize(func(w, h int) { loop.Resize(w, h) })

	fmt.Println("\nControls:")
	fmt.Println("  Mouse: Drag to orbit, click a moon to navigate")
	fmt.Println("  Scroll: Zoom in/out")
	fmt.Println("  ESC: Exit")

	frameCount := 0
	lastFPSTime := time.Now()

	for !renderer.ShouldClose() {
		renderer.PollEvents()
		if hub != nil {
			drainRequests(hub.Requests(), nav, suffixes)
		}

		loop.Tick()

		frameCount++
		now := time.Now()
		if elapsed := now.Sub(lastFPSTime).Seconds(); elapsed >= 1.0 {
			fps := float64(frameCount) / elapsed
			fmt.Printf("\rFPS: %.1f | Draw calls: %d | Section: %-10s", fps, renderer.DrawCalls(), desktop.Section())
			frameCount = 0
			lastFPSTime = now
		}
	}

	fmt.Println("\nShutting down...")
	if server != nil {
		shutdownCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("Overlay shutdown: %v", err)
		}
		done()
	}
}

// drainRequests handles every navigation request queued by overlay clients
// without blocking the frame.
func drainRequests(requests <-chan overlay.Request, nav scene.Navigator, suffixes []string) int {
	handled := 0
	for {
		select {
		case req := <-requests:
			if req.Type != "navigate" || req.Target == "" {
				continue
			}
			if err := scene.Navigate(nav, req.Target, suffixes); err != nil {
				log.Printf("navigate %s: %v", req.Target, err)
			}
			handled++
		default:
			return handled
		}
	}
}

func vec3(v [3]float64) mgl32.Vec3 {
	return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}
