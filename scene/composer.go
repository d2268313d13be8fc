package scene

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"planetsystem/config"
	"planetsystem/core"
	"planetsystem/core/palette"
	"planetsystem/simulation"
)

// Scene is everything the composer builds. It owns the nodes, the uniform
// registry and the satellites; the frame loop and renderer only borrow them.
type Scene struct {
	Root       *Node
	Uniforms   *core.UniformRegistry
	Satellites *simulation.Registry
	Animator   *simulation.Animator
	Lights     []Light
	ClearColor core.Color
	Planet     *Body
}

// Palette of the stock scene.
var (
	neonCyan  = core.Hex(0x7cf7ff)
	neonPink  = core.Hex(0xff9ff3)
	neonGreen = core.Hex(0x9cffb5)
)

const (
	arcRadius = 2.02
	arcSpan   = 0.9 * math.Pi
	arcStep   = 0.02
)

// Compose builds the full scene from settings. Bad colors are logged and
// replaced, so composing never fails.
func Compose(s config.Settings) *Scene {
	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	sc := &Scene{
		Root:       NewNode("scene"),
		Uniforms:   core.NewUniformRegistry(),
		Satellites: simulation.NewRegistry(),
		Animator:   &simulation.Animator{},
		ClearColor: colorOr(s.Window.ClearColor, core.Hex(0x02040a), "clear color"),
	}

	sc.addLights()
	sc.addSunGlow()
	sc.addPlanet(s, rng)
	sc.addStars(s.Scene, rng)
	sc.addSatellites(s)
	sc.addFarPlanet()

	logger.Printf("Composed scene: %d uniform sets, %d satellites, %d animations",
		sc.Uniforms.Len(), sc.Satellites.Len(), sc.Animator.Len())
	logger.Print(sc.Planet.Describe())
	return sc
}

func (sc *Scene) addLights() {
	sc.Lights = []Light{
		{Kind: AmbientLight, Color: core.Hex(0x687088), Intensity: 0.55},
		{Kind: PointLight, Color: core.Hex(0x9ecfff), Intensity: 110, Range: 140, Position: mgl32.Vec3{8, 6, 10}},
		{Kind: PointLight, Color: neonPink, Intensity: 70, Range: 100, Position: mgl32.Vec3{-8, -4, -9}},
		{Kind: DirectionalLight, Color: core.Hex(0xa6d2ff), Intensity: 1.2, Position: mgl32.Vec3{-2.5, 1.5, -4.5}},
	}
}

func (sc *Scene) addSunGlow() {
	glow := BuildGlow("sun-glow", 22, neonCyan.WithAlpha(0.35), 10.0/128)
	glow.Position = mgl32.Vec3{-2.2, 1.2, -6}
	sc.Root.Add(glow)

	opacity := simulation.Oscillate(0.3, 0.05, 1.3, 0)
	sc.Animator.Add(func(t float64) { glow.Material.Opacity = float32(opacity(t)) })
}

func (sc *Scene) addPlanet(s config.Settings, rng *rand.Rand) {
	group := NewNode("planet-group")
	sc.Root.Add(group)

	surface := core.SurfaceParams{
		Scale:          s.Planet.NoiseScale,
		Displacement:   s.Planet.Displacement,
		BandFrequency:  s.Planet.BandFrequency,
		CraterStrength: s.Planet.Crater,
		ColorA:         colorOr(s.Planet.ColorA, core.Hex(0x172148), "planet colorA"),
		ColorB:         colorOr(s.Planet.ColorB, core.Hex(0x3557a8), "planet colorB"),
		PolarCaps:      true,
	}
	sc.Planet = BuildBody(sc.Uniforms, BodyConfig{
		Name:      "planet",
		Detail:    s.Planet.Detail,
		Radius:    s.Planet.Radius,
		BaseColor: core.RGB(1, 1, 1),
		Surface:   surface,
		TimeScale: s.Planet.TimeScale,
		Finish: Finish{
			Roughness:          0.52,
			Metalness:          0.08,
			Clearcoat:          0.65,
			ClearcoatRoughness: 0.33,
			Sheen:              0.4,
			SheenColor:         core.Hex(0x1a2a6d),
			Emissive:           core.Hex(0x0a1236),
			EmissiveIntensity:  0.33,
		},
	})
	planet := sc.Planet.Node
	planet.RenderOrder = 1
	group.Add(planet)

	atm := BuildShell("atmosphere", 2.12, 128, neonCyan, 0.22, 2)
	group.Add(atm)

	cloudMat := NewMaterial(StandardMaterial, core.RGB(1, 1, 1)).Translucent(0.22)
	cloudMat.Finish.Emissive = core.RGB(1, 1, 1)
	cloudMat.Finish.EmissiveIntensity = 0.05
	clouds := NewMeshNode("clouds", Sphere("clouds", 2.06, 128, 128), cloudMat)
	clouds.RenderOrder = 3
	group.Add(clouds)

	sc.addArcs(group, s.Scene.Arcs, rng)
	aurora := sc.addAurora(group)
	ring := sc.addRing(group)
	sc.addBelt(group, ring, s.Scene.Pebbles, rng)

	planetSpin := simulation.Spin(0.0012)
	cloudSpin := simulation.Spin(0.0018)
	groupSpin := simulation.Spin(0.0009)
	ringSpin := simulation.Spin(0.0006)
	atmOpacity := simulation.Oscillate(0.2, 0.03, 2, 0)
	auroraHeight := simulation.Oscillate(1.55, 0.05, 1.5, 0)
	sc.Animator.Add(func(t float64) {
		planet.Rotation[1] = float32(planetSpin(t))
		clouds.Rotation[1] = float32(cloudSpin(t))
		group.Rotation[1] = float32(groupSpin(t))
		ring.Rotation[2] = float32(ringSpin(t))
		atm.Material.Opacity = float32(atmOpacity(t))
		aurora.Position[1] = float32(auroraHeight(t))
	})
}

// addArcs lays neon polylines along random latitudes just above the surface.
func (sc *Scene) addArcs(group *Node, count int, rng *rand.Rand) {
	matA := NewMaterial(BasicMaterial, neonPink).Translucent(0.75)
	matB := NewMaterial(BasicMaterial, neonCyan).Translucent(0.75)
	for i := range count {
		lat := rng.Float64()*math.Pi - math.Pi/2
		lon0 := rng.Float64() * 2 * math.Pi
		mat := matB
		if i%2 == 1 {
			mat = matA
		}
		name := fmt.Sprintf("arc-%d", i)
		group.Add(NewMeshNode(name, Polyline(name, core.LatitudeArc(lat, lon0, arcSpan, arcRadius, arcStep)), mat))
	}
}

func (sc *Scene) addAurora(group *Node) *Node {
	mesh := Plane("aurora", 4.8, 2.1, 40, 1, func(x float32) float32 {
		return float32(math.Sin(float64(x)*1.4) * 0.25)
	})
	mat := NewMaterial(AuroraMaterial, neonGreen).Translucent(1)
	mat.Additive = true
	mat.DoubleSided = true
	aurora := NewMeshNode("aurora", mesh, mat)
	aurora.Rotation[1] = math.Pi / 3
	aurora.Position = mgl32.Vec3{0, 1.6, 0.1}
	aurora.RenderOrder = 4
	group.Add(aurora)
	return aurora
}

func (sc *Scene) addRing(group *Node) *Node {
	mat := NewMaterial(RingMaterial, neonCyan).Translucent(1)
	mat.DoubleSided = true
	ring := NewMeshNode("ring", Ring("ring", 2.55, 3.25, 256), mat)
	ring.Rotation = mgl32.Vec3{math.Pi * 0.53, math.Pi * 0.18, 0}
	ring.Position[1] = 0.05
	group.Add(ring)
	return ring
}

// addBelt scatters instanced pebbles in the ring plane. The belt shares the
// ring's tilt but not its precession.
func (sc *Scene) addBelt(group, ring *Node, count int, rng *rand.Rand) {
	if count <= 0 {
		return
	}
	mesh := Pebble("belt", 0.025)
	mesh.Instances = make([]mgl32.Mat4, 0, count)
	for range count {
		a := rng.Float64() * 2 * math.Pi
		r := 2.62 + rng.Float64()*(3.18-2.62)
		y := (rng.Float64() - 0.5) * 0.08
		rot := mgl32.HomogRotate3DX(rng.Float32()).
			Mul4(mgl32.HomogRotate3DY(rng.Float32())).
			Mul4(mgl32.HomogRotate3DZ(rng.Float32()))
		m := mgl32.Translate3D(float32(math.Cos(a)*r), float32(y), float32(math.Sin(a)*r)).Mul4(rot)
		mesh.Instances = append(mesh.Instances, m)
	}
	mesh.Bounds = 3.25

	mat := NewMaterial(StandardMaterial, core.Hex(0xcfefff))
	mat.Finish = Finish{
		Roughness:         0.9,
		Metalness:         0.05,
		Emissive:          neonCyan,
		EmissiveIntensity: 0.05,
	}
	belt := NewMeshNode("belt", mesh, mat)
	belt.Rotation = mgl32.Vec3{ring.Rotation[0], ring.Rotation[1], 0}
	belt.Position = ring.Position
	group.Add(belt)
}

type starLayer struct {
	name       string
	count      int
	size       float32
	minR, maxR float64
	spin       float64
	opacity    func(t float64) float64
}

func (sc *Scene) addStars(s config.SceneSettings, rng *rand.Rand) {
	layers := []starLayer{
		{"stars-far", s.StarsFar, 0.07, 140, 320, -0.0001, simulation.Oscillate(0.65, 0.15, 2.1, 2.3)},
		{"stars-mid", s.StarsMid, 0.12, 60, 160, -0.00025, simulation.Oscillate(0.75, 0.18, 3, 1.2)},
		{"stars-near", s.StarsNear, 0.2, 35, 120, -0.00045, func(t float64) float64 {
			return 0.85 + 0.04*(math.Sin(t*5)*0.5+0.5)
		}},
	}
	for _, l := range layers {
		if l.count <= 0 {
			continue
		}
		pts := make([]mgl64.Vec3, l.count)
		for i := range pts {
			pts[i] = core.RandomShellPoint(rng, l.minR, l.maxR)
		}
		mat := NewMaterial(PointsMaterial, core.RGB(1, 1, 1)).Translucent(0.9)
		mat.Size = l.size
		node := NewMeshNode(l.name, PointCloud(l.name, pts, func(int) float32 { return rng.Float32() }), mat)
		sc.Root.Add(node)

		spin, opacity := simulation.Spin(l.spin), l.opacity
		sc.Animator.Add(func(t float64) {
			node.Rotation[1] = float32(spin(t))
			node.Material.Opacity = float32(opacity(t))
		})
	}

	for i := range s.BigStars {
		scale := 0.8 + rng.Float64()*(1.35-0.8)
		star := BuildGlow(fmt.Sprintf("big-star-%d", i), float32(scale*4), core.RGB(1, 1, 1).WithAlpha(0.95), 10.0/128)
		p := core.RandomShellPoint(rng, 60, 180)
		star.Position = mgl32.Vec3{float32(p[0]), float32(p[1]), float32(p[2])}
		sc.Root.Add(star)

		twinkle := simulation.Oscillate(0.55, 0.4, 3, float64(i))
		sc.Animator.Add(func(t float64) { star.Material.Opacity = float32(twinkle(t)) })
	}
}

// addSatellites builds one moon with a halo per configured satellite and
// registers it for orbiting and picking.
func (sc *Scene) addSatellites(s config.Settings) {
	group := NewNode("satellites")
	sc.Root.Add(group)

	for _, cfg := range s.Satellites {
		color := colorOr(cfg.Color, neonCyan, "satellite "+cfg.Label)
		moon := BuildMoon(sc.Uniforms, "moon-"+cfg.Label, color, cfg.Size)
		moon.Material.Uniforms.TimeScale = s.Scene.MoonTimeScale
		halo := BuildGlow("halo-"+cfg.Label, 1.2, core.RGB(1, 1, 1).WithAlpha(0.4), 20.0/128)

		root := NewNode("satellite-" + cfg.Label).Add(moon, halo)
		group.Add(root)
		root.Selectable = sc.Satellites.Add(root, cfg.Radius, cfg.Speed, cfg.Label, cfg.Target)
	}
}

func (sc *Scene) addFarPlanet() {
	group := NewNode("far-group")
	group.Position = mgl32.Vec3{-12, 6, -24}
	sc.Root.Add(group)

	mat := NewMaterial(StandardMaterial, core.Hex(0x142438))
	mat.Finish = Finish{
		Roughness:          0.5,
		Metalness:          0.1,
		Clearcoat:          0.5,
		ClearcoatRoughness: 0.4,
		Emissive:           core.Hex(0x081426),
		EmissiveIntensity:  0.25,
	}
	group.Add(NewMeshNode("far-planet", Sphere("far-planet", 1.25, 96, 96), mat))
	group.Add(BuildShell("far-atmosphere", 1.31, 64, core.Hex(0x9abfff), 0.15, 2))

	ringMat := NewMaterial(RingMaterial, neonCyan).Translucent(1)
	ringMat.DoubleSided = true
	ring := NewMeshNode("far-ring", Ring("far-ring", 1.5, 1.85, 160), ringMat)
	ring.Rotation = mgl32.Vec3{math.Pi * 0.72, math.Pi * 0.18, 0}
	group.Add(ring)

	groupSpin := simulation.Spin(-0.0006)
	ringSpin := simulation.Spin(-0.0003)
	sc.Animator.Add(func(t float64) {
		group.Rotation[1] = float32(groupSpin(t))
		ring.Rotation[2] = float32(ringSpin(t))
	})
}

func colorOr(s string, fallback core.Color, what string) core.Color {
	if s == "" {
		return fallback
	}
	c, err := palette.Parse(s)
	if err != nil {
		logger.Printf("%s: %v, using default", what, err)
		return fallback
	}
	return c
}
