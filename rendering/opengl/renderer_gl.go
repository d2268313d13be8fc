package opengl

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"sort"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"planetsystem/core"
	"planetsystem/rendering/opengl/shaders"
	"planetsystem/scene"
	"planetsystem/simulation"
)

var logger = log.New(os.Stderr, "[renderer] ", log.LstdFlags)

// Options configures the window.
type Options struct {
	Width, Height int
	Title         string
	VSync         bool
}

// PointerHandler receives window input in window pixels.
type PointerHandler interface {
	Move(px, py float64, vp simulation.Viewport)
	SetViewport(vp simulation.Viewport)
	Press(px, py float64)
	Release(px, py float64) (scene.Hit, bool)
	Scroll(offset float64)
	Hover() bool
}

// SceneRenderer draws a scene graph into a GLFW window.
type SceneRenderer struct {
	window *glfw.Window

	scene  *scene.Scene
	camera *simulation.Camera
	clock  func() float64

	programs map[string]*shaders.Program
	meshes   map[*scene.Mesh]*gpuMesh

	// framebuffer size drives the viewport, window size drives the pointer
	fbWidth, fbHeight   int
	winWidth, winHeight int

	pointer  PointerHandler
	onResize func(width, height int)

	handCursor *glfw.Cursor
	hovering   bool

	drawCalls int
	queue     []drawItem
}

type drawItem struct {
	node     *scene.Node
	world    mgl32.Mat4
	distance float32
}

// NewSceneRenderer opens the window and compiles every program.
func NewSceneRenderer(opts Options) (*SceneRenderer, error) {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Samples, 4)

	window, err := glfw.CreateWindow(opts.Width, opts.Height, opts.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	window.MakeContextCurrent()

	if opts.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	if err := gl.Init(); err != nil {
		window.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	logger.Printf("OpenGL version: %s", gl.GoStr(gl.GetString(gl.VERSION)))

	r := &SceneRenderer{
		window:     window,
		programs:   make(map[string]*shaders.Program),
		meshes:     make(map[*scene.Mesh]*gpuMesh),
		handCursor: glfw.CreateStandardCursor(glfw.HandCursor),
	}
	r.fbWidth, r.fbHeight = window.GetFramebufferSize()
	r.winWidth, r.winHeight = window.GetSize()

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.Enable(gl.PROGRAM_POINT_SIZE)
	gl.Enable(gl.MULTISAMPLE)
	gl.Viewport(0, 0, int32(r.fbWidth), int32(r.fbHeight))

	for _, spec := range shaders.All() {
		p, err := shaders.Build(spec)
		if err != nil {
			r.Terminate()
			return nil, fmt.Errorf("failed to build shader program: %w", err)
		}
		r.programs[spec.Name] = p
	}
	logger.Printf("Compiled %d shader programs", len(r.programs))

	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		r.resizeFramebuffer(width, height)
	})
	window.SetSizeCallback(func(w *glfw.Window, width, height int) {
		r.winWidth, r.winHeight = width, height
		if r.pointer != nil {
			r.pointer.SetViewport(r.windowViewport())
		}
	})
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		r.onKey(key, action)
	})
	window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		if r.pointer != nil {
			r.pointer.Scroll(yoff)
		}
	})
	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		r.onMouseButton(button, action)
	})
	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		r.onMouseMove(xpos, ypos)
	})

	return r, nil
}

// Attach sets the scene and camera drawn by Render. clock supplies uTime for
// materials that carry no uniform set of their own.
func (r *SceneRenderer) Attach(sc *scene.Scene, cam *simulation.Camera, clock func() float64) {
	r.scene = sc
	r.camera = cam
	r.clock = clock
}

func (r *SceneRenderer) SetPointerHandler(h PointerHandler) {
	r.pointer = h
	if h != nil {
		h.SetViewport(r.windowViewport())
	}
}

func (r *SceneRenderer) windowViewport() simulation.Viewport {
	return simulation.Viewport{Width: r.winWidth, Height: r.winHeight}
}

// OnResize registers fn to be called with the new framebuffer size. It is
// called once immediately with the current size.
func (r *SceneRenderer) OnResize(fn func(width, height int)) {
	r.onResize = fn
	if fn != nil {
		fn(r.fbWidth, r.fbHeight)
	}
}

func (r *SceneRenderer) FramebufferSize() (int, int) {
	return r.fbWidth, r.fbHeight
}

func (r *SceneRenderer) DrawCalls() int {
	return r.drawCalls
}

// Render draws one frame and swaps buffers.
func (r *SceneRenderer) Render() {
	if err := gl.GetError(); err != gl.NO_ERROR {
		logger.Printf("OpenGL error before render: 0x%x", err)
	}

	bg := mgl32.Vec4{0, 0, 0, 1}
	if r.scene != nil {
		bg = r.scene.ClearColor.Vec4()
	}
	gl.ClearColor(bg[0], bg[1], bg[2], 1)
	gl.DepthMask(true)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	r.drawCalls = 0
	if r.scene == nil || r.camera == nil || r.fbWidth == 0 || r.fbHeight == 0 {
		r.window.SwapBuffers()
		return
	}

	view := r.camera.View()
	proj := r.camera.Projection()
	lights := packLights(r.scene.Lights)

	opaque, transparent := r.collect()

	gl.Disable(gl.BLEND)
	for _, item := range opaque {
		r.draw(item, view, proj, lights)
	}

	gl.Enable(gl.BLEND)
	for _, item := range transparent {
		r.draw(item, view, proj, lights)
	}
	gl.Disable(gl.BLEND)
	gl.DepthMask(true)

	r.window.SwapBuffers()
}

// collect flattens the visible scene into an opaque list, grouped by program,
// and a transparent list ordered by render order then back to front.
func (r *SceneRenderer) collect() (opaque, transparent []drawItem) {
	r.queue = r.queue[:0]
	eye := r.camera.Position
	r.scene.Root.Walk(func(n *scene.Node) bool {
		if n.Mesh == nil || n.Material == nil {
			return true
		}
		world := n.World()
		pos := world.Col(3).Vec3()
		r.queue = append(r.queue, drawItem{node: n, world: world, distance: pos.Sub(eye).Len()})
		return true
	})

	split := 0
	for i, item := range r.queue {
		if !item.node.Material.Transparent {
			r.queue[split], r.queue[i] = r.queue[i], r.queue[split]
			split++
		}
	}
	opaque, transparent = r.queue[:split], r.queue[split:]

	sort.SliceStable(opaque, func(i, j int) bool {
		return opaque[i].node.Material.Kind < opaque[j].node.Material.Kind
	})
	sort.SliceStable(transparent, func(i, j int) bool {
		a, b := transparent[i].node, transparent[j].node
		if a.RenderOrder != b.RenderOrder {
			return a.RenderOrder < b.RenderOrder
		}
		return transparent[i].distance > transparent[j].distance
	})
	return opaque, transparent
}

func (r *SceneRenderer) draw(item drawItem, view, proj mgl32.Mat4, lights lightBlock) {
	n := item.node
	mat := n.Material

	prog := r.programs[programFor(mat.Kind, n.Mesh)]
	if prog == nil {
		return
	}
	mesh := r.meshes[n.Mesh]
	if mesh == nil {
		mesh = uploadMesh(n.Mesh)
		r.meshes[n.Mesh] = mesh
	}

	prog.Use()
	gl.UniformMatrix4fv(prog.Location("uModel"), 1, false, &item.world[0])
	gl.UniformMatrix4fv(prog.Location("uView"), 1, false, &view[0])
	gl.UniformMatrix4fv(prog.Location("uProjection"), 1, false, &proj[0])
	eye := r.camera.Position
	gl.Uniform3f(prog.Location("uCameraPos"), eye[0], eye[1], eye[2])

	t := 0.0
	if mat.Uniforms != nil {
		t = mat.Uniforms.Time()
	} else if r.clock != nil {
		t = r.clock()
	}
	gl.Uniform1f(prog.Location(core.TimeUniform), float32(t))

	base := mat.Color.Vec4()
	gl.Uniform4f(prog.Location("uBaseColor"), base[0], base[1], base[2], base[3])
	gl.Uniform1f(prog.Location("uOpacity"), mat.Opacity)
	gl.Uniform1f(prog.Location("uSize"), mat.Size)
	gl.Uniform1f(prog.Location("uPointScale"), float32(r.fbHeight)/2)
	gl.Uniform1f(prog.Location("uInner"), mat.Inner)

	if prog.Spec.Base == shaders.Lit {
		lights.upload(prog)
		uploadFinish(prog, mat.Finish)
	}
	if mat.Uniforms != nil {
		uploadUniformSet(prog, mat.Uniforms)
	}

	if mat.Transparent {
		gl.DepthMask(mat.DepthWrite)
		if mat.Additive {
			gl.BlendFunc(gl.SRC_ALPHA, gl.ONE)
		} else {
			gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
		}
	} else {
		gl.DepthMask(true)
	}
	if mat.DoubleSided || n.Billboard || n.Mesh.Primitive != scene.Triangles {
		gl.Disable(gl.CULL_FACE)
	} else {
		gl.Enable(gl.CULL_FACE)
	}

	mesh.draw()
	r.drawCalls++
}

// programFor maps a material kind to its program name. Standard meshes with
// instance transforms use the instanced variant.
func programFor(kind scene.MaterialKind, mesh *scene.Mesh) string {
	switch kind {
	case scene.StandardMaterial:
		if len(mesh.Instances) > 0 {
			return shaders.ProgramStandardInstanced
		}
		return shaders.ProgramStandard
	case scene.SurfaceMaterial:
		return shaders.ProgramSurface
	case scene.MoonMaterial:
		return shaders.ProgramMoon
	case scene.SpriteMaterial:
		return shaders.ProgramSprite
	case scene.RingMaterial:
		return shaders.ProgramRing
	case scene.AuroraMaterial:
		return shaders.ProgramAurora
	case scene.PointsMaterial:
		return shaders.ProgramPoints
	default:
		return shaders.ProgramBasic
	}
}

func uploadFinish(p *shaders.Program, f scene.Finish) {
	gl.Uniform1f(p.Location("uRoughness"), f.Roughness)
	gl.Uniform1f(p.Location("uMetalness"), f.Metalness)
	gl.Uniform1f(p.Location("uClearcoat"), f.Clearcoat)
	gl.Uniform1f(p.Location("uClearcoatRoughness"), f.ClearcoatRoughness)
	gl.Uniform1f(p.Location("uSheen"), f.Sheen)
	sheen := f.SheenColor.Vec3()
	gl.Uniform3f(p.Location("uSheenColor"), sheen[0], sheen[1], sheen[2])
	emissive := f.Emissive.Vec3().Mul(f.EmissiveIntensity)
	gl.Uniform3f(p.Location("uEmissive"), emissive[0], emissive[1], emissive[2])
}

// uploadUniformSet pushes a material's procedural parameters. Floats and
// colors are the only value types a set holds.
func uploadUniformSet(p *shaders.Program, u *core.UniformSet) {
	for _, name := range u.Names() {
		v, _ := u.Value(name)
		switch v := v.(type) {
		case float32:
			gl.Uniform1f(p.Location(name), v)
		case core.Color:
			c := v.Vec3()
			gl.Uniform3f(p.Location(name), c[0], c[1], c[2])
		}
	}
}

// lightBlock is the scene lights flattened into the lit programs' arrays.
type lightBlock struct {
	ambient mgl32.Vec3
	count   int32
	kind    [shaders.MaxLights]int32
	color   [shaders.MaxLights]mgl32.Vec3
	pos     [shaders.MaxLights]mgl32.Vec3
	rng     [shaders.MaxLights]float32
}

func packLights(lights []scene.Light) lightBlock {
	var b lightBlock
	for _, l := range lights {
		radiance := l.Color.Vec3().Mul(l.Intensity)
		if l.Kind == scene.AmbientLight {
			b.ambient = b.ambient.Add(radiance)
			continue
		}
		if b.count == shaders.MaxLights {
			continue
		}
		i := b.count
		b.kind[i] = shaders.LightPoint
		if l.Kind == scene.DirectionalLight {
			b.kind[i] = shaders.LightDirectional
		}
		b.color[i] = radiance
		b.pos[i] = l.Position
		b.rng[i] = l.Range
		b.count++
	}
	return b
}

func (b *lightBlock) upload(p *shaders.Program) {
	gl.Uniform3f(p.Location("uAmbient"), b.ambient[0], b.ambient[1], b.ambient[2])
	gl.Uniform1i(p.Location("uLightCount"), b.count)
	if b.count == 0 {
		return
	}
	gl.Uniform1iv(p.Location("uLightKind[0]"), b.count, &b.kind[0])
	gl.Uniform3fv(p.Location("uLightColor[0]"), b.count, &b.color[0][0])
	gl.Uniform3fv(p.Location("uLightPos[0]"), b.count, &b.pos[0][0])
	gl.Uniform1fv(p.Location("uLightRange[0]"), b.count, &b.rng[0])
}

func (r *SceneRenderer) resizeFramebuffer(width, height int) {
	r.fbWidth, r.fbHeight = width, height
	gl.Viewport(0, 0, int32(width), int32(height))
	if r.onResize != nil {
		r.onResize(width, height)
	}
}

func (r *SceneRenderer) onKey(key glfw.Key, action glfw.Action) {
	if action != glfw.Press {
		return
	}
	if key == glfw.KeyEscape {
		r.window.SetShouldClose(true)
	}
}

func (r *SceneRenderer) onMouseButton(button glfw.MouseButton, action glfw.Action) {
	if button != glfw.MouseButtonLeft || r.pointer == nil {
		return
	}
	x, y := r.window.GetCursorPos()
	switch action {
	case glfw.Press:
		r.pointer.Press(x, y)
	case glfw.Release:
		r.pointer.Release(x, y)
	}
}

func (r *SceneRenderer) onMouseMove(xpos, ypos float64) {
	if r.pointer == nil {
		return
	}
	r.pointer.Move(xpos, ypos, r.windowViewport())

	hovering := r.pointer.Hover()
	if hovering == r.hovering {
		return
	}
	r.hovering = hovering
	if hovering {
		r.window.SetCursor(r.handCursor)
	} else {
		r.window.SetCursor(nil)
	}
}

func (r *SceneRenderer) SetTitle(title string) {
	r.window.SetTitle(title)
}

func (r *SceneRenderer) ShouldClose() bool {
	return r.window.ShouldClose()
}

func (r *SceneRenderer) PollEvents() {
	glfw.PollEvents()
}

// Terminate releases GPU resources and closes the window.
func (r *SceneRenderer) Terminate() {
	for _, m := range r.meshes {
		m.release()
	}
	for _, p := range r.programs {
		p.Delete()
	}
	if r.handCursor != nil {
		r.handCursor.Destroy()
	}
	r.window.Destroy()
	glfw.Terminate()
}
