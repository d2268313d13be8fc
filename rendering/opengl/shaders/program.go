package shaders

import (
	"fmt"
	"sort"
	"strings"
)

// GLSLVersion heads every generated source.
const GLSLVersion = "#version 410 core"

// Base selects the skeleton a program is generated from.
type Base int

const (
	// Unlit writes the surface color directly.
	Unlit Base = iota
	// Lit runs the surface color through the scene lights and finish.
	Lit
)

// Uniform is an extra uniform declaration.
type Uniform struct {
	Name string
	Type string // GLSL type, e.g. "float", "vec3"
}

// ProgramSpec describes a program as a fixed skeleton plus named parts. The
// parts are plain GLSL:
//
//   - Functions are emitted before main in both stages.
//   - Displacement runs in the vertex stage and may modify `pos` and `nrm`
//     (object space) before the model transform.
//   - Surface runs in the fragment stage and may modify `color`, `alpha` and
//     `roughness`. vObjPos, vWorldPos, vNormal and vUV are in scope.
type ProgramSpec struct {
	Name         string
	Base         Base
	Uniforms     []Uniform
	Functions    []string
	Displacement string
	Surface      string

	Billboard bool // quad faces the camera, scaled by the model matrix
	Points    bool // sets gl_PointSize from uSize with distance attenuation
	Instanced bool // reads a per-instance model matrix at locations 3-6
}

// Source is a generated vertex and fragment shader pair.
type Source struct {
	Vertex   string
	Fragment string
}

// Attribute locations shared with the renderer's vertex layout.
const (
	AttribPosition = 0
	AttribNormal   = 1
	AttribUV       = 2
	AttribInstance = 3 // occupies 3, 4, 5, 6
)

// MaxLights is the size of the light uniform arrays in lit programs.
const MaxLights = 4

// Light kinds as seen by the shaders.
const (
	LightPoint       = 0
	LightDirectional = 1
)

// builtinUniforms are declared by every skeleton.
var builtinUniforms = []Uniform{
	{"uModel", "mat4"},
	{"uView", "mat4"},
	{"uProjection", "mat4"},
	{"uTime", "float"},
	{"uBaseColor", "vec4"},
	{"uOpacity", "float"},
	{"uSize", "float"},
	{"uPointScale", "float"},
	{"uCameraPos", "vec3"},
}

var litUniforms = []Uniform{
	{"uAmbient", "vec3"},
	{"uLightCount", "int"},
	{fmt.Sprintf("uLightKind[%d]", MaxLights), "int"},
	{fmt.Sprintf("uLightColor[%d]", MaxLights), "vec3"},
	{fmt.Sprintf("uLightPos[%d]", MaxLights), "vec3"},
	{fmt.Sprintf("uLightRange[%d]", MaxLights), "float"},
	{"uRoughness", "float"},
	{"uMetalness", "float"},
	{"uClearcoat", "float"},
	{"uClearcoatRoughness", "float"},
	{"uSheen", "float"},
	{"uSheenColor", "vec3"},
	{"uEmissive", "vec3"},
}

// Declared lists every uniform name the generated program declares, sorted.
// Array uniforms are listed by their base name.
func (p ProgramSpec) Declared() []string {
	var names []string
	for _, u := range p.uniforms() {
		name, _, _ := strings.Cut(u.Name, "[")
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (p ProgramSpec) uniforms() []Uniform {
	all := append([]Uniform{}, builtinUniforms...)
	if p.Base == Lit {
		all = append(all, litUniforms...)
	}
	seen := make(map[string]bool, len(all))
	for _, u := range all {
		seen[u.Name] = true
	}
	for _, u := range p.Uniforms {
		if !seen[u.Name] {
			all = append(all, u)
			seen[u.Name] = true
		}
	}
	return all
}

func (p ProgramSpec) writeHeader(b *strings.Builder) {
	b.WriteString(GLSLVersion)
	b.WriteString("\n// program: ")
	b.WriteString(p.Name)
	b.WriteString("\n\n")
	for _, u := range p.uniforms() {
		fmt.Fprintf(b, "uniform %s %s;\n", u.Type, u.Name)
	}
	b.WriteString("\n")
	for _, fn := range p.Functions {
		b.WriteString(strings.TrimSpace(fn))
		b.WriteString("\n\n")
	}
}

// Generate assembles the program. It is deterministic: the same spec always
// yields byte-identical sources.
func (p ProgramSpec) Generate() Source {
	return Source{Vertex: p.vertex(), Fragment: p.fragment()}
}

func (p ProgramSpec) vertex() string {
	var b strings.Builder
	p.writeHeader(&b)

	fmt.Fprintf(&b, "layout(location = %d) in vec3 aPosition;\n", AttribPosition)
	fmt.Fprintf(&b, "layout(location = %d) in vec3 aNormal;\n", AttribNormal)
	fmt.Fprintf(&b, "layout(location = %d) in vec2 aUV;\n", AttribUV)
	if p.Instanced {
		fmt.Fprintf(&b, "layout(location = %d) in mat4 aInstance;\n", AttribInstance)
	}
	b.WriteString(`
out vec3 vObjPos;
out vec3 vWorldPos;
out vec3 vNormal;
out vec2 vUV;

void main() {
    vec3 pos = aPosition;
    vec3 nrm = aNormal;
`)
	if p.Displacement != "" {
		b.WriteString(indent(p.Displacement))
	}

	model := "uModel"
	if p.Instanced {
		model = "uModel * aInstance"
	}
	if p.Billboard {
		b.WriteString(`
    vec3 center = uModel[3].xyz;
    vec2 scale = vec2(length(uModel[0].xyz), length(uModel[1].xyz));
    vec3 right = vec3(uView[0][0], uView[1][0], uView[2][0]);
    vec3 up = vec3(uView[0][1], uView[1][1], uView[2][1]);
    vec4 world = vec4(center + right * pos.x * scale.x + up * pos.y * scale.y, 1.0);
    nrm = normalize(uCameraPos - center);
`)
		b.WriteString("    mat3 normalMat = mat3(1.0);\n")
	} else {
		fmt.Fprintf(&b, "\n    mat4 model = %s;\n", model)
		b.WriteString("    vec4 world = model * vec4(pos, 1.0);\n")
		b.WriteString("    mat3 normalMat = mat3(transpose(inverse(model)));\n")
	}
	b.WriteString(`
    vObjPos = pos;
    vWorldPos = world.xyz;
    vNormal = normalize(normalMat * nrm);
    vUV = aUV;
    vec4 viewPos = uView * world;
    gl_Position = uProjection * viewPos;
`)
	if p.Points {
		b.WriteString("    gl_PointSize = max(uSize * uPointScale / max(-viewPos.z, 0.001), 1.0);\n")
	}
	b.WriteString("}\n")
	return b.String()
}

func (p ProgramSpec) fragment() string {
	var b strings.Builder
	p.writeHeader(&b)

	b.WriteString(`in vec3 vObjPos;
in vec3 vWorldPos;
in vec3 vNormal;
in vec2 vUV;

out vec4 fragColor;

`)
	if p.Base == Lit {
		b.WriteString(strings.TrimSpace(lightingGLSL))
		b.WriteString("\n\n")
	}

	b.WriteString(`void main() {
    vec3 color = uBaseColor.rgb;
    float alpha = uBaseColor.a * uOpacity;
`)
	if p.Base == Lit {
		b.WriteString("    float roughness = uRoughness;\n")
	} else {
		b.WriteString("    float roughness = 1.0;\n")
	}
	if p.Surface != "" {
		b.WriteString(indent(p.Surface))
	}
	if p.Base == Lit {
		b.WriteString("    color = shade(color, roughness, normalize(vNormal), vWorldPos);\n")
	}
	b.WriteString(`    if (alpha <= 0.001) {
        discard;
    }
    fragColor = vec4(color, alpha);
}
`)
	return b.String()
}

func indent(code string) string {
	var b strings.Builder
	for _, line := range strings.Split(strings.TrimSpace(code), "\n") {
		b.WriteString("    ")
		b.WriteString(strings.TrimSpace(line))
		b.WriteString("\n")
	}
	return b.String()
}
