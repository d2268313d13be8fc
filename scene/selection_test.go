package scene

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"planetsystem/core"
	"planetsystem/simulation"
)

type recordingNavigator struct {
	documents []string
	sections  []string
	err       error
}

func (n *recordingNavigator) OpenDocument(target string) error {
	n.documents = append(n.documents, target)
	return n.err
}

func (n *recordingNavigator) ShowSection(section string) {
	n.sections = append(n.sections, section)
}

var testViewport = simulation.Viewport{Width: 1280, Height: 720}

func newPickCamera() *simulation.Camera {
	cam := simulation.NewCamera(mgl32.Vec3{0, 2, 9}, 55, 1, 0.1, 800)
	cam.Resize(testViewport.Width, testViewport.Height)
	return cam
}

// satelliteNode builds a moon and halo subtree the way the composer does.
func satelliteNode(label string) *Node {
	moon := NewMeshNode("moon-"+label, Sphere("moon-"+label, 0.28, 16, 16), NewMaterial(MoonMaterial, core.Hex(0x7cf7ff)))
	halo := BuildGlow("halo-"+label, 1.2, core.RGB(1, 1, 1).WithAlpha(0.4), 20.0/128)
	return NewNode("satellite-"+label).Add(moon, halo)
}

func screenPointer(cam *simulation.Camera, world mgl32.Vec3) (float64, float64) {
	ndc, _ := cam.Project(world)
	return testViewport.ToScreen(ndc)
}

func TestClickResolvesProjectedSatellite(t *testing.T) {
	root := NewNode("scene")
	reg := simulation.NewRegistry()
	for i, s := range []struct {
		label, target string
		radius, speed float64
	}{
		{"Projects", "#projects", 3.6, 0.62},
		{"About", "#about", 4.6, 0.44},
		{"Resume", "Resume.pdf", 5.4, 0.30},
	} {
		n := satelliteNode(s.label)
		root.Add(n)
		n.Selectable = reg.AddAt(n, s.radius, s.speed, float64(i)*2.1, s.label, s.target)
	}
	reg.Advance(37)

	cam := newPickCamera()
	for _, sat := range reg.All() {
		nav := &recordingNavigator{}
		sel := NewSelector(root, cam, nil, nav, []string{".pdf"})
		px, py := screenPointer(cam, sat.Position32())
		sel.Move(px, py, testViewport)
		sel.Press(px, py)
		hit, ok := sel.Release(px, py)
		if !ok {
			t.Fatalf("%s: click at (%.1f, %.1f) missed", sat.Label, px, py)
		}
		if hit.Satellite != sat {
			t.Errorf("%s: resolved %s", sat.Label, hit.Satellite.Label)
		}
		if got := append(nav.documents, nav.sections...); len(got) != 1 || got[0] != sat.Target {
			t.Errorf("%s: navigated %v, want [%s]", sat.Label, got, sat.Target)
		}
	}
}

func TestClickWithoutPriorMove(t *testing.T) {
	root := NewNode("scene")
	reg := simulation.NewRegistry()
	n := satelliteNode("About")
	root.Add(n)
	// Off center, so the default pointer at NDC (0, 0) would miss.
	n.Selectable = reg.AddAt(n, 4.6, 0, 0, "About", "#about")

	cam := newPickCamera()
	nav := &recordingNavigator{}
	sel := NewSelector(root, cam, nil, nav, nil)
	sel.SetViewport(testViewport)

	px, py := screenPointer(cam, n.Selectable.Position32())
	sel.Press(px, py)
	hit, ok := sel.Release(px, py)
	if !ok || hit.Satellite != n.Selectable {
		t.Fatalf("click at (%.1f, %.1f) without a move: hit %v ok %v", px, py, hit.Satellite, ok)
	}
	if len(nav.sections) != 1 || nav.sections[0] != "#about" {
		t.Errorf("sections %v", nav.sections)
	}
}

func TestPickNearestWins(t *testing.T) {
	reg := simulation.NewRegistry()
	root := NewNode("scene")

	far := satelliteNode("far")
	far.Selectable = reg.AddAt(nil, 1, 0, 0, "far", "#far")
	near := satelliteNode("near")
	near.Selectable = reg.AddAt(nil, 1, 0, 0, "near", "#near")
	root.Add(far, near)

	// Both lie on the ray through the center of the screen.
	far.Position = mgl32.Vec3{0, 0, 0}
	near.Position = mgl32.Vec3{0, 1, 4.5}

	hit, ok := Pick(root, newPickCamera(), Pointer{})
	if !ok {
		t.Fatal("expected a hit")
	}
	if hit.Satellite.Label != "near" {
		t.Errorf("picked %s, want near", hit.Satellite.Label)
	}
}

func TestPickMissIsNoop(t *testing.T) {
	reg := simulation.NewRegistry()
	root := NewNode("scene")
	n := satelliteNode("only")
	n.Selectable = reg.AddAt(nil, 1, 0, 0, "only", "#only")
	root.Add(n)

	nav := &recordingNavigator{}
	sel := NewSelector(root, newPickCamera(), nil, nav, []string{".pdf"})
	sel.Move(5, 5, testViewport)
	if _, ok := sel.Click(); ok {
		t.Error("click in the corner should miss")
	}
	if len(nav.documents)+len(nav.sections) != 0 {
		t.Errorf("miss navigated: %+v", nav)
	}
}

func TestPickIgnoresUnselectableNodes(t *testing.T) {
	root := NewNode("scene")
	planet := NewMeshNode("planet", Sphere("planet", 2, 16, 16), NewMaterial(SurfaceMaterial, core.RGB(1, 1, 1)))
	root.Add(planet)
	if _, ok := Pick(root, newPickCamera(), Pointer{}); ok {
		t.Error("planet is not selectable")
	}
}

func TestNavigateSuffixDispatch(t *testing.T) {
	tests := []struct {
		target  string
		wantDoc bool
	}{
		{"Resume.pdf", true},
		{"docs/RESUME.PDF", true},
		{"#about", false},
		{"#projects", false},
		{"pdf", false},
		{"", false},
	}
	for _, tc := range tests {
		nav := &recordingNavigator{}
		if err := Navigate(nav, tc.target, []string{".pdf"}); err != nil {
			t.Fatalf("Navigate(%q): %v", tc.target, err)
		}
		if tc.wantDoc {
			if len(nav.documents) != 1 || nav.documents[0] != tc.target || len(nav.sections) != 0 {
				t.Errorf("Navigate(%q) = %+v, want document", tc.target, nav)
			}
			continue
		}
		if len(nav.sections) != 1 || nav.sections[0] != tc.target || len(nav.documents) != 0 {
			t.Errorf("Navigate(%q) = %+v, want section", tc.target, nav)
		}
	}
}

func TestNavigatePropagatesOpenError(t *testing.T) {
	want := errors.New("no browser")
	nav := &recordingNavigator{err: want}
	if err := Navigate(nav, "cv.pdf", []string{".pdf"}); !errors.Is(err, want) {
		t.Errorf("err = %v, want %v", err, want)
	}
}

func TestDragIsNotAClick(t *testing.T) {
	cam := newPickCamera()
	controls := simulation.NewControls(cam, 0.06, 3.5, 22)
	reg := simulation.NewRegistry()
	root := NewNode("scene")
	n := satelliteNode("center")
	n.Selectable = reg.AddAt(nil, 1, 0, 0, "center", "#center")
	root.Add(n)

	nav := &recordingNavigator{}
	sel := NewSelector(root, cam, controls, nav, nil)
	cx, cy := float64(testViewport.Width)/2, float64(testViewport.Height)/2
	sel.Move(cx, cy, testViewport)
	sel.Press(cx, cy)
	sel.Move(cx+60, cy, testViewport)
	sel.Move(cx+60, cy+30, testViewport)
	if _, ok := sel.Release(cx, cy); ok {
		t.Error("release after a drag must not click")
	}
	if len(nav.sections) != 0 {
		t.Errorf("drag navigated to %v", nav.sections)
	}

	before := cam.Position
	controls.Update()
	if cam.Position == before {
		t.Error("drag did not rotate the camera")
	}
}

func TestPointerFromScreen(t *testing.T) {
	tests := []struct {
		px, py float64
		want   Pointer
	}{
		{0, 0, Pointer{-1, 1}},
		{1280, 720, Pointer{1, -1}},
		{640, 360, Pointer{0, 0}},
		{320, 540, Pointer{-0.5, -0.5}},
	}
	for _, tc := range tests {
		if got := PointerFromScreen(tc.px, tc.py, testViewport); got != tc.want {
			t.Errorf("PointerFromScreen(%v, %v) = %+v, want %+v", tc.px, tc.py, got, tc.want)
		}
	}
}
