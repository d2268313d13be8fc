package scene

import (
	"fmt"
	"log"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl64"

	"planetsystem/core"
)

// Uniform names read by the generated surface and moon programs.
const (
	UniformScale     = "uScale"
	UniformDisp      = "uDisp"
	UniformBandFreq  = "uBandFreq"
	UniformCrater    = "uCrater"
	UniformColorA    = "uColorA"
	UniformColorB    = "uColorB"
	UniformCaps      = "uCaps"
	UniformMoonColor = "uColor"
)

// Surface clock rates. The planet's terrain runs at 1.6 times the loop step,
// moon craters at the loop step.
const (
	BodyTimeScale = 1.6
	MoonTimeScale = 1.0
)

var logger = log.New(os.Stderr, "[scene] ", log.LstdFlags)

// BodyConfig describes a procedurally shaded sphere.
type BodyConfig struct {
	Name      string
	Detail    int // segments around and rings pole to pole
	Radius    float64
	BaseColor core.Color
	Surface   core.SurfaceParams
	Finish    Finish
	TimeScale float64
}

// Body is a built sphere together with the uniform set driving it.
type Body struct {
	Node     *Node
	Uniforms *core.UniformSet
	Params   core.SurfaceParams
}

// BuildBody creates the mesh, material and uniforms for cfg and registers the
// uniforms so the frame loop advances their clock. Out of range values are
// sanitized, never rejected.
func BuildBody(reg *core.UniformRegistry, cfg BodyConfig) *Body {
	params := cfg.Surface.Sanitize()
	radius := cfg.Radius
	if radius <= 0 || math.IsNaN(radius) || math.IsInf(radius, 0) {
		logger.Printf("body %q: radius %v invalid, using 1", cfg.Name, radius)
		radius = 1
	}
	if cfg.TimeScale == 0 {
		cfg.TimeScale = BodyTimeScale
	}

	u := core.NewUniformSet(cfg.Name, cfg.TimeScale)
	u.SetFloat(UniformScale, float32(params.Scale))
	u.SetFloat(UniformDisp, float32(params.Displacement))
	u.SetFloat(UniformBandFreq, float32(params.BandFrequency))
	u.SetFloat(UniformCrater, float32(params.CraterStrength))
	u.SetColor(UniformColorA, params.ColorA)
	u.SetColor(UniformColorB, params.ColorB)
	u.SetFloat(UniformCaps, boolFloat(params.PolarCaps))
	reg.Register(u)

	mesh := Sphere(cfg.Name, float32(radius), cfg.Detail, cfg.Detail)
	mesh.Bounds = float32(displacedBounds(mesh, params))

	mat := NewMaterial(SurfaceMaterial, cfg.BaseColor)
	mat.Finish = cfg.Finish
	mat.Uniforms = u

	return &Body{
		Node:     NewMeshNode(cfg.Name, mesh, mat),
		Uniforms: u,
		Params:   params,
	}
}

// displacedBounds is the largest vertex distance after displacement at t=0.
func displacedBounds(m *Mesh, p core.SurfaceParams) float64 {
	var r float64
	for i := 0; i+5 < len(m.Vertices); i += VertexStride {
		pos := mgl64.Vec3{float64(m.Vertices[i]), float64(m.Vertices[i+1]), float64(m.Vertices[i+2])}
		normal := mgl64.Vec3{float64(m.Vertices[i+3]), float64(m.Vertices[i+4]), float64(m.Vertices[i+5])}
		r = math.Max(r, p.Displace(pos, normal, 0).Len())
	}
	return r
}

// BuildMoon creates a cratered moon sphere. Its uniform set is registered at
// the moon clock rate.
func BuildMoon(reg *core.UniformRegistry, name string, color core.Color, size float64) *Node {
	if size <= 0 || math.IsNaN(size) || math.IsInf(size, 0) {
		size = 0.28
	}
	u := core.NewUniformSet(name, MoonTimeScale)
	u.SetColor(UniformMoonColor, color)
	reg.Register(u)

	mat := NewMaterial(MoonMaterial, color)
	mat.Uniforms = u
	return NewMeshNode(name, Sphere(name, float32(size), 64, 64), mat)
}

// BuildShell creates a translucent unlit sphere drawn after opaque geometry.
func BuildShell(name string, radius float32, detail int, color core.Color, opacity float32, order int) *Node {
	mat := NewMaterial(BasicMaterial, color).Translucent(opacity)
	n := NewMeshNode(name, Sphere(name, radius, detail, detail), mat)
	n.RenderOrder = order
	return n
}

// BuildGlow creates an additive radial glow sprite of the given world size.
// color.A is the alpha at the center of the gradient.
func BuildGlow(name string, size float32, color core.Color, inner float32) *Node {
	mat := NewMaterial(SpriteMaterial, color).Translucent(1)
	mat.Additive = true
	mat.Inner = inner
	n := NewMeshNode(name, Quad(name), mat)
	n.Billboard = true
	n.SetScale(size)
	return n
}

// Describe is a one-line summary for the startup log.
func (b *Body) Describe() string {
	return fmt.Sprintf("%s: %d vertices, bounds %.3f, %s",
		b.Node.Name, b.Node.Mesh.VertexCount(), b.Node.Mesh.Bounds, b.Uniforms)
}

func boolFloat(b bool) float32 {
	if b {
		return 1
	}
	return 0
}
