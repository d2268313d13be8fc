package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"planetsystem/core"
	"planetsystem/simulation"
)

// Primitive selects how a mesh's indices are drawn.
type Primitive int

const (
	Triangles Primitive = iota
	Points
	LineStrip
)

// VertexStride is the number of floats per vertex: position, normal, uv.
const VertexStride = 8

// Mesh is interleaved vertex data, uploaded once by the renderer.
type Mesh struct {
	Name      string
	Vertices  []float32
	Indices   []uint32
	Primitive Primitive
	// Instances holds per-instance model matrices. When non-empty the mesh is
	// drawn once per entry.
	Instances []mgl32.Mat4
	// Bounds is the bounding sphere radius around the local origin.
	Bounds float32
}

func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / VertexStride
}

// MaterialKind names the program a node is drawn with.
type MaterialKind int

const (
	BasicMaterial    MaterialKind = iota // unlit color
	StandardMaterial                     // lit, finish only
	SurfaceMaterial                      // lit, procedural terrain
	MoonMaterial                         // unlit cratered noise
	SpriteMaterial                       // camera-facing radial glow
	RingMaterial                         // radial alpha band
	AuroraMaterial                       // vertical gradient ribbon
	PointsMaterial                       // size-attenuated stars
)

var materialNames = [...]string{"basic", "standard", "surface", "moon", "sprite", "ring", "aurora", "points"}

func (k MaterialKind) String() string {
	if int(k) < len(materialNames) {
		return materialNames[k]
	}
	return "unknown"
}

// Finish is the physically based part of a lit material.
type Finish struct {
	Roughness          float32
	Metalness          float32
	Clearcoat          float32
	ClearcoatRoughness float32
	Sheen              float32
	SheenColor         core.Color
	Emissive           core.Color
	EmissiveIntensity  float32
}

// DefaultFinish is a plain rough dielectric.
func DefaultFinish() Finish {
	return Finish{Roughness: 0.6, Metalness: 0.05}
}

type Material struct {
	Kind        MaterialKind
	Color       core.Color
	Opacity     float32
	Transparent bool
	DepthWrite  bool
	Additive    bool
	DoubleSided bool
	Finish      Finish
	// Uniforms carries the procedural parameters and clock, shared with the
	// frame loop. Nil for materials without animated parameters.
	Uniforms *core.UniformSet
	// Size is the point size for PointsMaterial.
	Size float32
	// Inner is where a sprite's radial gradient starts, as a fraction of
	// its radius.
	Inner float32
}

// NewMaterial returns an opaque, depth-writing material.
func NewMaterial(kind MaterialKind, color core.Color) *Material {
	return &Material{
		Kind:       kind,
		Color:      color,
		Opacity:    1,
		DepthWrite: true,
		Finish:     DefaultFinish(),
	}
}

// Translucent marks the material as blended without depth writes.
func (m *Material) Translucent(opacity float32) *Material {
	m.Opacity = opacity
	m.Transparent = true
	m.DepthWrite = false
	return m
}

type LightKind int

const (
	AmbientLight LightKind = iota
	PointLight
	DirectionalLight
)

// Light is a scene light. Position is a direction for DirectionalLight.
type Light struct {
	Kind      LightKind
	Color     core.Color
	Intensity float32
	Position  mgl32.Vec3
	Range     float32
}

// Node is one entry of the scene graph. Rotation holds Euler angles in
// radians applied in X, Y, Z order.
type Node struct {
	Name        string
	Position    mgl32.Vec3
	Rotation    mgl32.Vec3
	Scale       mgl32.Vec3
	Visible     bool
	Billboard   bool
	Mesh        *Mesh
	Material    *Material
	RenderOrder int
	// Selectable is set on the root of a satellite subtree; picking any
	// descendant resolves to it.
	Selectable *simulation.Satellite

	parent   *Node
	children []*Node
}

func NewNode(name string) *Node {
	return &Node{Name: name, Scale: mgl32.Vec3{1, 1, 1}, Visible: true}
}

// NewMeshNode is NewNode with a mesh and material attached.
func NewMeshNode(name string, mesh *Mesh, mat *Material) *Node {
	n := NewNode(name)
	n.Mesh = mesh
	n.Material = mat
	return n
}

// Add attaches children, detaching them from any previous parent.
func (n *Node) Add(children ...*Node) *Node {
	for _, c := range children {
		if c.parent != nil {
			c.parent.remove(c)
		}
		c.parent = n
		n.children = append(n.children, c)
	}
	return n
}

func (n *Node) remove(c *Node) {
	for i, x := range n.children {
		if x == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			return
		}
	}
}

func (n *Node) Parent() *Node     { return n.parent }
func (n *Node) Children() []*Node { return n.children }

// SetScale sets a uniform scale.
func (n *Node) SetScale(s float32) {
	n.Scale = mgl32.Vec3{s, s, s}
}

// Local is the node's transform relative to its parent.
func (n *Node) Local() mgl32.Mat4 {
	t := mgl32.Translate3D(n.Position[0], n.Position[1], n.Position[2])
	r := mgl32.HomogRotate3DX(n.Rotation[0]).
		Mul4(mgl32.HomogRotate3DY(n.Rotation[1])).
		Mul4(mgl32.HomogRotate3DZ(n.Rotation[2]))
	s := mgl32.Scale3D(n.Scale[0], n.Scale[1], n.Scale[2])
	return t.Mul4(r).Mul4(s)
}

// World is the node's transform in scene space.
func (n *Node) World() mgl32.Mat4 {
	if n.parent == nil {
		return n.Local()
	}
	return n.parent.World().Mul4(n.Local())
}

func (n *Node) WorldPosition() mgl32.Vec3 {
	return n.World().Col(3).Vec3()
}

// WorldScale is the largest axis scale of the world transform.
func (n *Node) WorldScale() float32 {
	w := n.World()
	s := w.Col(0).Vec3().Len()
	s = max(s, w.Col(1).Vec3().Len())
	return max(s, w.Col(2).Vec3().Len())
}

// Walk visits n and its visible descendants depth first. Returning false
// from fn skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !n.Visible {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// Find returns the first descendant with the given name.
func (n *Node) Find(name string) *Node {
	var found *Node
	n.Walk(func(x *Node) bool {
		if found != nil {
			return false
		}
		if x.Name == name {
			found = x
			return false
		}
		return true
	})
	return found
}

// Place positions a satellite subtree; the spin turns it about Y.
func (n *Node) Place(position mgl32.Vec3, spin float32) {
	n.Position = position
	n.Rotation[1] = spin
}
