package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix namespaces every environment override.
const EnvPrefix = "PLANETSYSTEM_"

// ErrInvalidSettings wraps settings files that exist but cannot be decoded.
var ErrInvalidSettings = errors.New("invalid settings")

type Settings struct {
	Window     WindowSettings      `json:"window"     envPrefix:"WINDOW_"`
	Camera     CameraSettings      `json:"camera"     envPrefix:"CAMERA_"`
	Planet     PlanetSettings      `json:"planet"     envPrefix:"PLANET_"`
	Scene      SceneSettings       `json:"scene"      envPrefix:"SCENE_"`
	Satellites []SatelliteSettings `json:"satellites"`
	Overlay    OverlaySettings     `json:"overlay"    envPrefix:"OVERLAY_"`
	Navigation NavigationSettings  `json:"navigation" envPrefix:"NAV_"`
}

type WindowSettings struct {
	Width      int    `json:"width"      env:"WIDTH"`
	Height     int    `json:"height"     env:"HEIGHT"`
	Title      string `json:"title"      env:"TITLE"`
	VSync      bool   `json:"vsync"      env:"VSYNC"`
	ClearColor string `json:"clearColor" env:"CLEAR_COLOR"`
}

type CameraSettings struct {
	FOV         float64    `json:"fov"         env:"FOV"`
	Position    [3]float64 `json:"position"`
	Near        float64    `json:"near"        env:"NEAR"`
	Far         float64    `json:"far"         env:"FAR"`
	Damping     float64    `json:"damping"     env:"DAMPING"`
	MinDistance float64    `json:"minDistance" env:"MIN_DISTANCE"`
	MaxDistance float64    `json:"maxDistance" env:"MAX_DISTANCE"`
}

// PlanetSettings drives the main planet's procedural surface.
type PlanetSettings struct {
	Detail        int     `json:"detail"        env:"DETAIL"`
	Radius        float64 `json:"radius"        env:"RADIUS"`
	NoiseScale    float64 `json:"noiseScale"    env:"NOISE_SCALE"`
	Displacement  float64 `json:"displacement"  env:"DISPLACEMENT"`
	BandFrequency float64 `json:"bandFrequency" env:"BAND_FREQUENCY"`
	Crater        float64 `json:"crater"        env:"CRATER"`
	ColorA        string  `json:"colorA"        env:"COLOR_A"`
	ColorB        string  `json:"colorB"        env:"COLOR_B"`
	TimeScale     float64 `json:"timeScale"     env:"TIME_SCALE"`
}

type SceneSettings struct {
	StarsNear     int     `json:"starsNear"     env:"STARS_NEAR"`
	StarsMid      int     `json:"starsMid"      env:"STARS_MID"`
	StarsFar      int     `json:"starsFar"      env:"STARS_FAR"`
	BigStars      int     `json:"bigStars"      env:"BIG_STARS"`
	Pebbles       int     `json:"pebbles"       env:"PEBBLES"`
	Arcs          int     `json:"arcs"          env:"ARCS"`
	MoonTimeScale float64 `json:"moonTimeScale" env:"MOON_TIME_SCALE"`
}

type SatelliteSettings struct {
	Label  string  `json:"label"`
	Target string  `json:"target"`
	Color  string  `json:"color"`
	Radius float64 `json:"radius"`
	Speed  float64 `json:"speed"`
	Size   float64 `json:"size"`
}

type OverlaySettings struct {
	Enabled   bool    `json:"enabled"   env:"ENABLED"`
	Addr      string  `json:"addr"      env:"ADDR"`
	LabelRate float64 `json:"labelRate" env:"LABEL_RATE"`
}

type NavigationSettings struct {
	DocumentSuffixes []string `json:"documentSuffixes" env:"DOCUMENT_SUFFIXES" envSeparator:","`
	BaseURL          string   `json:"baseURL"          env:"BASE_URL"`
	DocsDir          string   `json:"docsDir"          env:"DOCS_DIR"`
}

// Default returns the stock scene.
func Default() Settings {
	return Settings{
		Window: WindowSettings{
			Width:      1280,
			Height:     720,
			Title:      "Planet System",
			VSync:      true,
			ClearColor: "#02040a",
		},
		Camera: CameraSettings{
			FOV:         55,
			Position:    [3]float64{0, 2, 9},
			Near:        0.1,
			Far:         800,
			Damping:     0.06,
			MinDistance: 3.5,
			MaxDistance: 22,
		},
		Planet: PlanetSettings{
			Detail:        160,
			Radius:        2,
			NoiseScale:    1.7,
			Displacement:  0.045,
			BandFrequency: 1.9,
			Crater:        0.42,
			ColorA:        "#172148",
			ColorB:        "#3557a8",
			TimeScale:     1.6,
		},
		Scene: SceneSettings{
			StarsNear:     1400,
			StarsMid:      1200,
			StarsFar:      1600,
			BigStars:      14,
			Pebbles:       420,
			Arcs:          26,
			MoonTimeScale: 1.0,
		},
		Satellites: []SatelliteSettings{
			{Label: "Projects", Target: "#projects", Color: "#7cf7ff", Radius: 3.6, Speed: 0.62, Size: 0.28},
			{Label: "About", Target: "#about", Color: "#ff9ff3", Radius: 4.6, Speed: 0.44, Size: 0.28},
			{Label: "Resume", Target: "Resume.pdf", Color: "#9cffb5", Radius: 5.4, Speed: 0.30, Size: 0.28},
		},
		Overlay: OverlaySettings{
			Enabled:   true,
			Addr:      "127.0.0.1:8090",
			LabelRate: 30,
		},
		Navigation: NavigationSettings{
			DocumentSuffixes: []string{".pdf"},
			DocsDir:          ".",
		},
	}
}

// Load layers defaults, the optional JSON file at path, and PLANETSYSTEM_*
// environment variables, then sanitizes the result. A missing file is not
// an error.
func Load(path string) (Settings, error) {
	s := Default()

	if path != "" {
		file, err := os.Open(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			log.Printf("No %s found, using defaults", path)
		case err != nil:
			return s, fmt.Errorf("open settings: %w", err)
		default:
			defer file.Close()
			if err := json.NewDecoder(file).Decode(&s); err != nil {
				return s, fmt.Errorf("%w: %s: %v", ErrInvalidSettings, path, err)
			}
		}
	}

	if err := env.ParseWithOptions(&s, env.Options{Prefix: EnvPrefix}); err != nil {
		return s, fmt.Errorf("parse env: %w", err)
	}

	s = s.Sanitize()
	log.Printf("Loaded settings: planet detail %d (~%d vertices), %d satellites",
		s.Planet.Detail, SphereVertexCount(s.Planet.Detail), len(s.Satellites))
	return s, nil
}

// Sanitize clamps values that would break the scene, logging each change.
func (s Settings) Sanitize() Settings {
	d := Default()

	if s.Window.Width < 1 || s.Window.Height < 1 {
		log.Printf("window %dx%d invalid, using %dx%d", s.Window.Width, s.Window.Height, d.Window.Width, d.Window.Height)
		s.Window.Width, s.Window.Height = d.Window.Width, d.Window.Height
	}
	if s.Camera.FOV <= 1 || s.Camera.FOV >= 179 || !finite(s.Camera.FOV) {
		s.Camera.FOV = d.Camera.FOV
	}
	if s.Camera.Near <= 0 || !finite(s.Camera.Near) {
		s.Camera.Near = d.Camera.Near
	}
	if s.Camera.Far <= s.Camera.Near || !finite(s.Camera.Far) {
		s.Camera.Far = math.Max(d.Camera.Far, s.Camera.Near*10)
	}
	s.Camera.Damping = clampFloat(s.Camera.Damping, 0.001, 1, d.Camera.Damping)
	if s.Camera.MinDistance <= 0 || !finite(s.Camera.MinDistance) {
		s.Camera.MinDistance = d.Camera.MinDistance
	}
	if s.Camera.MaxDistance < s.Camera.MinDistance || !finite(s.Camera.MaxDistance) {
		log.Printf("camera max distance %.2f below min %.2f, clamping", s.Camera.MaxDistance, s.Camera.MinDistance)
		s.Camera.MaxDistance = s.Camera.MinDistance
	}

	s.Planet.Detail = clampInt(s.Planet.Detail, 8, 512)
	if s.Planet.Radius <= 0 || !finite(s.Planet.Radius) {
		s.Planet.Radius = d.Planet.Radius
	}
	if !finite(s.Planet.TimeScale) {
		s.Planet.TimeScale = d.Planet.TimeScale
	}

	s.Scene.StarsNear = clampInt(s.Scene.StarsNear, 0, 100000)
	s.Scene.StarsMid = clampInt(s.Scene.StarsMid, 0, 100000)
	s.Scene.StarsFar = clampInt(s.Scene.StarsFar, 0, 100000)
	s.Scene.BigStars = clampInt(s.Scene.BigStars, 0, 1000)
	s.Scene.Pebbles = clampInt(s.Scene.Pebbles, 0, 100000)
	s.Scene.Arcs = clampInt(s.Scene.Arcs, 0, 1000)
	if !finite(s.Scene.MoonTimeScale) {
		s.Scene.MoonTimeScale = d.Scene.MoonTimeScale
	}

	s.Satellites = append([]SatelliteSettings(nil), s.Satellites...)
	for i := range s.Satellites {
		sat := &s.Satellites[i]
		if sat.Size <= 0 || !finite(sat.Size) {
			sat.Size = 0.28
		}
		if sat.Label == "" {
			sat.Label = sat.Target
		}
	}

	if s.Overlay.LabelRate <= 0 || !finite(s.Overlay.LabelRate) {
		s.Overlay.LabelRate = d.Overlay.LabelRate
	}
	if s.Overlay.Enabled && s.Overlay.Addr == "" {
		s.Overlay.Addr = d.Overlay.Addr
	}

	suffixes := s.Navigation.DocumentSuffixes[:0:0]
	for _, suf := range s.Navigation.DocumentSuffixes {
		suf = strings.ToLower(strings.TrimSpace(suf))
		if suf == "" {
			continue
		}
		if !strings.HasPrefix(suf, ".") {
			suf = "." + suf
		}
		suffixes = append(suffixes, suf)
	}
	if len(suffixes) == 0 {
		suffixes = d.Navigation.DocumentSuffixes
	}
	s.Navigation.DocumentSuffixes = suffixes
	if s.Navigation.DocsDir == "" {
		s.Navigation.DocsDir = d.Navigation.DocsDir
	}

	return s
}

// SphereVertexCount is the vertex count of a UV sphere with detail segments
// around and detail rings from pole to pole.
func SphereVertexCount(detail int) int {
	return (detail + 1) * (detail + 1)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func clampFloat(v, lo, hi, fallback float64) float64 {
	if !finite(v) {
		return fallback
	}
	return math.Max(lo, math.Min(hi, v))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
