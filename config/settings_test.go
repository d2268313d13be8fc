package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeSettings(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsSane(t *testing.T) {
	d := Default()
	if got := d.Sanitize(); !reflect.DeepEqual(got, d) {
		t.Errorf("Sanitize changed the defaults:\n got %+v\nwant %+v", got, d)
	}
	if len(d.Satellites) != 3 {
		t.Fatalf("default satellites %d, want 3", len(d.Satellites))
	}
	if d.Satellites[2].Target != "Resume.pdf" {
		t.Errorf("third satellite target %q", d.Satellites[2].Target)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(s, Default()) {
		t.Errorf("missing file did not yield defaults: %+v", s)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	s, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Planet.Detail != Default().Planet.Detail {
		t.Errorf("detail %d", s.Planet.Detail)
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeSettings(t, `{
		"window": {"width": 640, "height": 480},
		"planet": {"detail": 64, "colorA": "#ff0000"},
		"satellites": [
			{"label": "Blog", "target": "https://example.com/blog", "color": "#ffffff", "radius": 4, "speed": 0.5, "size": 0.3}
		]
	}`)
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Window.Width != 640 || s.Window.Height != 480 {
		t.Errorf("window %dx%d", s.Window.Width, s.Window.Height)
	}
	if s.Window.Title != "Planet System" {
		t.Errorf("unset title lost its default: %q", s.Window.Title)
	}
	if s.Planet.Detail != 64 || s.Planet.ColorA != "#ff0000" || s.Planet.ColorB != "#3557a8" {
		t.Errorf("planet %+v", s.Planet)
	}
	if len(s.Satellites) != 1 || s.Satellites[0].Label != "Blog" {
		t.Errorf("satellites %+v", s.Satellites)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	path := writeSettings(t, `{"window": {"width": "wide"}`)
	_, err := Load(path)
	if !errors.Is(err, ErrInvalidSettings) {
		t.Fatalf("err = %v, want ErrInvalidSettings", err)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeSettings(t, `{"window": {"width": 640, "height": 480}}`)
	t.Setenv(EnvPrefix+"WINDOW_WIDTH", "1024")
	t.Setenv(EnvPrefix+"OVERLAY_ENABLED", "false")
	t.Setenv(EnvPrefix+"NAV_DOCUMENT_SUFFIXES", "PDF, docx")
	t.Setenv(EnvPrefix+"PLANET_CRATER", "0.1")

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Window.Width != 1024 || s.Window.Height != 480 {
		t.Errorf("window %dx%d, want 1024x480", s.Window.Width, s.Window.Height)
	}
	if s.Overlay.Enabled {
		t.Error("overlay still enabled")
	}
	if want := []string{".pdf", ".docx"}; !reflect.DeepEqual(s.Navigation.DocumentSuffixes, want) {
		t.Errorf("suffixes %v, want %v", s.Navigation.DocumentSuffixes, want)
	}
	if s.Planet.Crater != 0.1 {
		t.Errorf("crater %f", s.Planet.Crater)
	}
}

func TestLoadBadEnv(t *testing.T) {
	t.Setenv(EnvPrefix+"WINDOW_WIDTH", "wide")
	if _, err := Load(""); err == nil {
		t.Fatal("expected an error for a non-numeric width")
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Settings)
		check func(*testing.T, Settings)
	}{
		{
			name: "zero window",
			edit: func(s *Settings) { s.Window.Width = 0 },
			check: func(t *testing.T, s Settings) {
				if s.Window.Width != 1280 || s.Window.Height != 720 {
					t.Errorf("window %dx%d", s.Window.Width, s.Window.Height)
				}
			},
		},
		{
			name: "inverted distances",
			edit: func(s *Settings) { s.Camera.MinDistance, s.Camera.MaxDistance = 10, 5 },
			check: func(t *testing.T, s Settings) {
				if s.Camera.MaxDistance != 10 {
					t.Errorf("max distance %f, want 10", s.Camera.MaxDistance)
				}
			},
		},
		{
			name: "far inside near",
			edit: func(s *Settings) { s.Camera.Near, s.Camera.Far = 5, 1 },
			check: func(t *testing.T, s Settings) {
				if s.Camera.Far != 800 {
					t.Errorf("far %f, want 800", s.Camera.Far)
				}
			},
		},
		{
			name: "nan damping",
			edit: func(s *Settings) { s.Camera.Damping = math.NaN() },
			check: func(t *testing.T, s Settings) {
				if s.Camera.Damping != 0.06 {
					t.Errorf("damping %f", s.Camera.Damping)
				}
			},
		},
		{
			name: "detail clamped",
			edit: func(s *Settings) { s.Planet.Detail = 4096 },
			check: func(t *testing.T, s Settings) {
				if s.Planet.Detail != 512 {
					t.Errorf("detail %d", s.Planet.Detail)
				}
			},
		},
		{
			name: "negative stars",
			edit: func(s *Settings) { s.Scene.StarsNear = -5 },
			check: func(t *testing.T, s Settings) {
				if s.Scene.StarsNear != 0 {
					t.Errorf("stars %d", s.Scene.StarsNear)
				}
			},
		},
		{
			name: "satellite without label or size",
			edit: func(s *Settings) {
				s.Satellites = []SatelliteSettings{{Target: "#contact", Radius: 4}}
			},
			check: func(t *testing.T, s Settings) {
				sat := s.Satellites[0]
				if sat.Label != "#contact" || sat.Size != 0.28 {
					t.Errorf("satellite %+v", sat)
				}
			},
		},
		{
			name: "empty suffixes",
			edit: func(s *Settings) { s.Navigation.DocumentSuffixes = []string{" ", ""} },
			check: func(t *testing.T, s Settings) {
				if !reflect.DeepEqual(s.Navigation.DocumentSuffixes, []string{".pdf"}) {
					t.Errorf("suffixes %v", s.Navigation.DocumentSuffixes)
				}
			},
		},
		{
			name: "enabled overlay without addr",
			edit: func(s *Settings) { s.Overlay.Addr = "" },
			check: func(t *testing.T, s Settings) {
				if s.Overlay.Addr != "127.0.0.1:8090" {
					t.Errorf("addr %q", s.Overlay.Addr)
				}
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := Default()
			tc.edit(&s)
			tc.check(t, s.Sanitize())
		})
	}
}

func TestSphereVertexCount(t *testing.T) {
	if got := SphereVertexCount(160); got != 161*161 {
		t.Errorf("SphereVertexCount(160) = %d", got)
	}
}
