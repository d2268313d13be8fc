package shaders

// Program names, one per material kind.
const (
	ProgramBasic             = "basic"
	ProgramStandard          = "standard"
	ProgramStandardInstanced = "standard-instanced"
	ProgramSurface           = "surface"
	ProgramMoon              = "moon"
	ProgramSprite            = "sprite"
	ProgramRing              = "ring"
	ProgramAurora            = "aurora"
	ProgramPoints            = "points"
)

// Surface is the procedural terrain program driven by core.SurfaceParams.
func Surface() ProgramSpec {
	return ProgramSpec{
		Name: ProgramSurface,
		Base: Lit,
		Uniforms: []Uniform{
			{"uScale", "float"},
			{"uDisp", "float"},
			{"uBandFreq", "float"},
			{"uCrater", "float"},
			{"uColorA", "vec3"},
			{"uColorB", "vec3"},
			{"uCaps", "float"},
		},
		Functions: []string{SimplexGLSL, SurfaceGLSL},
		Displacement: `
float elevation = surfaceElevation(pos, uScale, uTime);
pos += nrm * (elevation * uDisp);`,
		Surface: `
float mask = craterMask(vWorldPos, uScale, uTime);
color *= bandColor(vWorldPos, uColorA, uColorB, uBandFreq, uCaps) * craterTint(mask, uCrater) * ambientOcclusion(vWorldPos, uScale);
roughness = clamp(roughness + mask * 0.22 * clamp(uCrater, 0.0, 1.0), 0.0, 1.0);`,
	}
}

// Moon is the unlit cratered moon, the GLSL side of core.MoonColor.
func Moon() ProgramSpec {
	return ProgramSpec{
		Name:      ProgramMoon,
		Base:      Unlit,
		Uniforms:  []Uniform{{"uColor", "vec3"}},
		Functions: []string{HashFBMGLSL},
		Surface: `
float n = fbm(normalize(vObjPos) * 3.0 + vec3(uTime * 0.1));
float crater = smoothstep(0.2, 0.8, abs(n));
color = mix(uColor * 0.7, uColor * 1.2, crater);`,
	}
}

func Basic() ProgramSpec {
	return ProgramSpec{Name: ProgramBasic, Base: Unlit}
}

// Standard is a lit material with no procedural parts.
func Standard(instanced bool) ProgramSpec {
	name := ProgramStandard
	if instanced {
		name = ProgramStandardInstanced
	}
	return ProgramSpec{Name: name, Base: Lit, Instanced: instanced}
}

// Sprite is a camera-facing radial glow. The gradient starts at uInner of the
// radius and fades linearly to zero at the edge.
func Sprite() ProgramSpec {
	return ProgramSpec{
		Name:      ProgramSprite,
		Base:      Unlit,
		Billboard: true,
		Uniforms:  []Uniform{{"uInner", "float"}},
		Surface: `
float d = length(vUV - 0.5) * 2.0;
alpha *= 1.0 - clamp((d - uInner) / max(1.0 - uInner, 0.0001), 0.0, 1.0);`,
	}
}

// Ring draws a band whose alpha peaks mid-ring and fades softly at both
// edges. vUV.x runs from the inner to the outer radius.
func Ring() ProgramSpec {
	return ProgramSpec{
		Name: ProgramRing,
		Base: Unlit,
		Surface: `
float t = vUV.x;
float band = 0.35 * (1.0 - abs(t - 0.5) * 2.0);
float edge = smoothstep(0.0, 0.08, t) * (1.0 - smoothstep(0.92, 1.0, t));
alpha *= band * mix(0.7, 1.0, edge);`,
	}
}

// Aurora is a vertical gradient: transparent at the top, peaking at 35% in
// the base color, fading into cyan at the bottom.
func Aurora() ProgramSpec {
	return ProgramSpec{
		Name: ProgramAurora,
		Base: Unlit,
		Surface: `
float s = 1.0 - vUV.y;
vec3 bottom = vec3(0.486, 0.969, 1.0);
if (s < 0.35) {
alpha *= mix(0.0, 0.35, s / 0.35);
} else {
color = mix(color, bottom, (s - 0.35) / 0.65);
alpha *= mix(0.35, 0.0, (s - 0.35) / 0.65);
}`,
	}
}

// Points draws round, size-attenuated stars. vUV.x is a per-star brightness
// offset.
func Points() ProgramSpec {
	return ProgramSpec{
		Name:   ProgramPoints,
		Base:   Unlit,
		Points: true,
		Surface: `
float d = length(gl_PointCoord - 0.5) * 2.0;
if (d > 1.0) {
discard;
}
alpha *= 1.0 - smoothstep(0.6, 1.0, d);
color *= 0.8 + 0.2 * vUV.x;`,
	}
}

// All returns every program the renderer builds at startup.
func All() []ProgramSpec {
	return []ProgramSpec{
		Basic(),
		Standard(false),
		Standard(true),
		Surface(),
		Moon(),
		Sprite(),
		Ring(),
		Aurora(),
		Points(),
	}
}
