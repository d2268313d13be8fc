package scene

import (
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"planetsystem/simulation"
)

// DefaultDragThreshold is how far, in pixels, the pointer may move between
// press and release and still count as a click.
const DefaultDragThreshold = 4

// Pointer is the last pointer position in normalized device coordinates.
type Pointer struct {
	X, Y float32
}

// PointerFromScreen maps window pixels to NDC with +Y up.
func PointerFromScreen(px, py float64, vp simulation.Viewport) Pointer {
	w, h := float64(max(vp.Width, 1)), float64(max(vp.Height, 1))
	return Pointer{
		X: float32(px/w*2 - 1),
		Y: float32(1 - py/h*2),
	}
}

// Hit is the nearest intersected node of a satellite subtree.
type Hit struct {
	Node      *Node
	Satellite *simulation.Satellite
	Distance  float32
}

// Pick casts a ray from the camera through p and returns the nearest hit
// among all satellite subtrees under root.
func Pick(root *Node, cam *simulation.Camera, p Pointer) (Hit, bool) {
	origin, dir := cam.Ray(p.X, p.Y)
	forward := cam.Target.Sub(cam.Position).Normalize()

	var best Hit
	found := false
	root.Walk(func(n *Node) bool {
		if n.Selectable == nil {
			return true
		}
		sat := n.Selectable
		n.Walk(func(m *Node) bool {
			if m.Mesh == nil {
				return true
			}
			d, ok := intersect(m, origin, dir, forward)
			if ok && (!found || d < best.Distance) {
				best = Hit{Node: m, Satellite: sat, Distance: d}
				found = true
			}
			return true
		})
		return false
	})
	return best, found
}

func intersect(n *Node, origin, dir, forward mgl32.Vec3) (float32, bool) {
	center := n.WorldPosition()
	if n.Billboard {
		return raySprite(origin, dir, forward, center, 0.5*n.WorldScale())
	}
	return raySphere(origin, dir, center, n.Mesh.Bounds*n.WorldScale())
}

// raySphere returns the distance along dir to the first intersection.
func raySphere(origin, dir, center mgl32.Vec3, radius float32) (float32, bool) {
	oc := origin.Sub(center)
	b := oc.Dot(dir)
	c := oc.Dot(oc) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := float32(math.Sqrt(float64(disc)))
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

// raySprite intersects a camera-facing disc.
func raySprite(origin, dir, forward, center mgl32.Vec3, radius float32) (float32, bool) {
	denom := dir.Dot(forward)
	if math.Abs(float64(denom)) < 1e-6 {
		return 0, false
	}
	t := center.Sub(origin).Dot(forward) / denom
	if t < 0 {
		return 0, false
	}
	if origin.Add(dir.Mul(t)).Sub(center).Len() > radius {
		return 0, false
	}
	return t, true
}

// Navigator performs the action a satellite stands for.
type Navigator interface {
	// OpenDocument opens target outside the scene, e.g. in a browser tab.
	OpenDocument(target string) error
	// ShowSection switches the in-page section.
	ShowSection(section string)
}

// IsDocumentLink reports whether target ends in one of suffixes, ignoring
// case.
func IsDocumentLink(target string, suffixes []string) bool {
	lower := strings.ToLower(target)
	for _, s := range suffixes {
		if s != "" && strings.HasSuffix(lower, strings.ToLower(s)) {
			return true
		}
	}
	return false
}

// Navigate dispatches target: documents open externally, everything else
// selects the section named by target verbatim.
func Navigate(nav Navigator, target string, suffixes []string) error {
	if IsDocumentLink(target, suffixes) {
		return nav.OpenDocument(target)
	}
	nav.ShowSection(target)
	return nil
}

// Selector turns raw pointer events into camera drags and satellite clicks.
type Selector struct {
	Root          *Node
	Camera        *simulation.Camera
	Controls      *simulation.Controls
	Navigator     Navigator
	Suffixes      []string
	DragThreshold float64

	pointer        Pointer
	viewport       simulation.Viewport
	pressed        bool
	dragged        bool
	pressX, pressY float64
	lastX, lastY   float64
}

// NewSelector wires a selector with the default drag threshold.
func NewSelector(root *Node, cam *simulation.Camera, controls *simulation.Controls, nav Navigator, suffixes []string) *Selector {
	return &Selector{
		Root:          root,
		Camera:        cam,
		Controls:      controls,
		Navigator:     nav,
		Suffixes:      suffixes,
		DragThreshold: DefaultDragThreshold,
	}
}

func (s *Selector) Pointer() Pointer { return s.pointer }

// SetViewport records the window size used to map pointer pixels to NDC.
func (s *Selector) SetViewport(vp simulation.Viewport) {
	s.viewport = vp
}

// locate moves the pointer to px, py once the window size is known, so a
// press without a preceding move still picks under the cursor.
func (s *Selector) locate(px, py float64) {
	if s.viewport.Width > 0 && s.viewport.Height > 0 {
		s.pointer = PointerFromScreen(px, py, s.viewport)
	}
}

// Move records the pointer and, while a button is held, rotates the camera.
func (s *Selector) Move(px, py float64, vp simulation.Viewport) {
	s.viewport = vp
	s.pointer = PointerFromScreen(px, py, vp)
	if !s.pressed {
		return
	}
	if math.Hypot(px-s.pressX, py-s.pressY) > s.DragThreshold {
		s.dragged = true
	}
	if s.Controls != nil {
		s.Controls.Rotate(px-s.lastX, py-s.lastY, vp.Height)
	}
	s.lastX, s.lastY = px, py
}

func (s *Selector) Press(px, py float64) {
	s.locate(px, py)
	s.pressed = true
	s.dragged = false
	s.pressX, s.pressY = px, py
	s.lastX, s.lastY = px, py
}

// Release ends a press. If the pointer did not travel past the drag
// threshold the release is a click.
func (s *Selector) Release(px, py float64) (Hit, bool) {
	if !s.pressed {
		return Hit{}, false
	}
	s.pressed = false
	if s.dragged || math.Hypot(px-s.pressX, py-s.pressY) > s.DragThreshold {
		return Hit{}, false
	}
	s.locate(px, py)
	return s.Click()
}

// Scroll zooms the camera; positive offsets move closer.
func (s *Selector) Scroll(offset float64) {
	if s.Controls != nil {
		s.Controls.Zoom(offset)
	}
}

// Hover reports whether the pointer is over a satellite.
func (s *Selector) Hover() bool {
	if s.Root == nil || s.Camera == nil {
		return false
	}
	_, ok := Pick(s.Root, s.Camera, s.pointer)
	return ok
}

// Click picks at the current pointer and navigates to the hit satellite's
// target. A miss does nothing. Navigation failures are logged.
func (s *Selector) Click() (Hit, bool) {
	if s.Root == nil || s.Camera == nil {
		return Hit{}, false
	}
	hit, ok := Pick(s.Root, s.Camera, s.pointer)
	if !ok {
		return hit, false
	}
	logger.Printf("Selected %q -> %s", hit.Satellite.Label, hit.Satellite.Target)
	if s.Navigator != nil {
		if err := Navigate(s.Navigator, hit.Satellite.Target, s.Suffixes); err != nil {
			logger.Printf("navigate %s: %v", hit.Satellite.Target, err)
		}
	}
	return hit, true
}
