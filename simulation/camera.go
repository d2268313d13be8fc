package simulation

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Viewport is the size of the output buffer in pixels.
type Viewport struct {
	Width, Height int
}

// Camera is a perspective camera looking at Target.
type Camera struct {
	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3
	FovY     float32 // degrees
	Aspect   float32
	Near     float32
	Far      float32
}

// NewCamera builds a camera at position looking at the origin.
func NewCamera(position mgl32.Vec3, fovY, aspect, near, far float32) *Camera {
	return &Camera{
		Position: position,
		Up:       mgl32.Vec3{0, 1, 0},
		FovY:     fovY,
		Aspect:   aspect,
		Near:     near,
		Far:      far,
	}
}

func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}

func (c *Camera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FovY), c.Aspect, c.Near, c.Far)
}

func (c *Camera) ViewProjection() mgl32.Mat4 {
	return c.Projection().Mul4(c.View())
}

// Resize sets the aspect ratio to width/height and returns the new output
// buffer size. Zero or negative sizes (a minimized window) are raised to 1 so
// the projection stays finite.
func (c *Camera) Resize(width, height int) Viewport {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	c.Aspect = float32(width) / float32(height)
	return Viewport{Width: width, Height: height}
}

// Project maps a world position to normalized device coordinates. behind is
// true when the point cannot be seen: it lies behind the camera or past the
// far plane.
func (c *Camera) Project(world mgl32.Vec3) (ndc mgl32.Vec3, behind bool) {
	clip := c.ViewProjection().Mul4x1(world.Vec4(1))
	if clip[3] <= 0 {
		return mgl32.Vec3{}, true
	}
	ndc = clip.Vec3().Mul(1 / clip[3])
	return ndc, ndc[2] > 1
}

// Ray returns the world-space ray through normalized device coordinates.
func (c *Camera) Ray(ndcX, ndcY float32) (origin, dir mgl32.Vec3) {
	inv := c.ViewProjection().Inv()

	nearWorld := inv.Mul4x1(mgl32.Vec4{ndcX, ndcY, -1, 1})
	farWorld := inv.Mul4x1(mgl32.Vec4{ndcX, ndcY, 1, 1})
	nearWorld = nearWorld.Mul(1 / nearWorld[3])
	farWorld = farWorld.Mul(1 / farWorld[3])

	origin = c.Position
	dir = farWorld.Vec3().Sub(nearWorld.Vec3()).Normalize()
	return origin, dir
}

// ToScreen converts NDC to pixel coordinates with the origin at the top left.
func (v Viewport) ToScreen(ndc mgl32.Vec3) (x, y float64) {
	x = (float64(ndc[0])*0.5 + 0.5) * float64(v.Width)
	y = (-float64(ndc[1])*0.5 + 0.5) * float64(v.Height)
	return x, y
}

// Controls orbits the camera around its target with damped rotation and
// zoom, the way an orbit-control widget does.
type Controls struct {
	Camera        *Camera
	DampingFactor float64
	MinDistance   float64
	MaxDistance   float64
	RotateSpeed   float64
	ZoomSpeed     float64

	theta, phi, radius float64
	deltaTheta         float64
	deltaPhi           float64
	scale              float64
}

const phiEpsilon = 1e-6

// NewControls derives the orbit state from the camera's current position.
func NewControls(cam *Camera, damping, minDistance, maxDistance float64) *Controls {
	c := &Controls{
		Camera:        cam,
		DampingFactor: damping,
		MinDistance:   minDistance,
		MaxDistance:   maxDistance,
		RotateSpeed:   1,
		ZoomSpeed:     1,
		scale:         1,
	}
	if c.DampingFactor <= 0 || c.DampingFactor > 1 || math.IsNaN(c.DampingFactor) {
		c.DampingFactor = 1
	}
	if c.MaxDistance < c.MinDistance {
		c.MinDistance, c.MaxDistance = c.MaxDistance, c.MinDistance
	}

	off := cam.Position.Sub(cam.Target)
	c.radius = float64(off.Len())
	if c.radius > 0 {
		c.theta = math.Atan2(float64(off[0]), float64(off[2]))
		c.phi = math.Acos(math.Max(-1, math.Min(1, float64(off[1])/c.radius)))
	}
	return c
}

// Rotate queues a drag of dx, dy pixels on a viewport of the given height.
func (c *Controls) Rotate(dx, dy float64, viewportHeight int) {
	if viewportHeight < 1 {
		viewportHeight = 1
	}
	h := float64(viewportHeight)
	c.deltaTheta -= 2 * math.Pi * dx / h * c.RotateSpeed
	c.deltaPhi -= 2 * math.Pi * dy / h * c.RotateSpeed
}

// Zoom queues a wheel step; positive steps move the camera closer.
func (c *Controls) Zoom(steps float64) {
	if steps == 0 || math.IsNaN(steps) {
		return
	}
	c.scale *= math.Pow(math.Pow(0.95, c.ZoomSpeed), steps)
}

// Update applies a damped fraction of the pending input and moves the camera.
func (c *Controls) Update() {
	c.theta += c.deltaTheta * c.DampingFactor
	c.phi += c.deltaPhi * c.DampingFactor
	c.phi = math.Max(phiEpsilon, math.Min(math.Pi-phiEpsilon, c.phi))

	c.radius *= c.scale
	c.radius = math.Max(c.MinDistance, math.Min(c.MaxDistance, c.radius))

	sinPhi := math.Sin(c.phi)
	off := mgl32.Vec3{
		float32(c.radius * sinPhi * math.Sin(c.theta)),
		float32(c.radius * math.Cos(c.phi)),
		float32(c.radius * sinPhi * math.Cos(c.theta)),
	}
	c.Camera.Position = c.Camera.Target.Add(off)

	c.deltaTheta *= 1 - c.DampingFactor
	c.deltaPhi *= 1 - c.DampingFactor
	c.scale = 1
}

// Distance is the current camera-to-target distance.
func (c *Controls) Distance() float64 {
	return c.radius
}
