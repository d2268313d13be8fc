package shaders

// SimplexGLSL is 3D simplex noise with the same lattice, permutation and
// gradient mapping as core.Simplex3. Corner gradients are paired with their
// own corner (p1 from a0.zw, p2 from a1.xy) and the kernel radius is 0.5, so
// the field is continuous across cell borders.
const SimplexGLSL = `
vec3 mod289(vec3 x) { return x - floor(x * (1.0 / 289.0)) * 289.0; }
vec4 mod289(vec4 x) { return x - floor(x * (1.0 / 289.0)) * 289.0; }
vec4 permute(vec4 x) { return mod289(((x * 34.0) + 1.0) * x); }
vec4 taylorInvSqrt(vec4 r) { return 1.79284291400159 - 0.85373472095314 * r; }

float snoise(vec3 v) {
    const vec2 C = vec2(1.0 / 6.0, 1.0 / 3.0);
    const vec4 D = vec4(0.0, 0.5, 1.0, 2.0);

    vec3 i = floor(v + dot(v, C.yyy));
    vec3 x0 = v - i + dot(i, C.xxx);

    vec3 g = step(x0.yzx, x0.xyz);
    vec3 l = 1.0 - g;
    vec3 i1 = min(g.xyz, l.zxy);
    vec3 i2 = max(g.xyz, l.zxy);

    vec3 x1 = x0 - i1 + C.xxx;
    vec3 x2 = x0 - i2 + C.yyy;
    vec3 x3 = x0 - D.yyy;

    i = mod289(i);
    vec4 p = permute(permute(permute(
                i.z + vec4(0.0, i1.z, i2.z, 1.0))
              + i.y + vec4(0.0, i1.y, i2.y, 1.0))
              + i.x + vec4(0.0, i1.x, i2.x, 1.0));

    float n_ = 0.142857142857;
    vec3 ns = n_ * D.wyz - D.xzx;

    vec4 j = p - 49.0 * floor(p * ns.z * ns.z);
    vec4 x_ = floor(j * ns.z);
    vec4 y_ = floor(j - 7.0 * x_);

    vec4 x = x_ * ns.x + ns.yyyy;
    vec4 y = y_ * ns.x + ns.yyyy;
    vec4 h = 1.0 - abs(x) - abs(y);

    vec4 b0 = vec4(x.xy, y.xy);
    vec4 b1 = vec4(x.zw, y.zw);
    vec4 s0 = floor(b0) * 2.0 + 1.0;
    vec4 s1 = floor(b1) * 2.0 + 1.0;
    vec4 sh = -step(h, vec4(0.0));

    vec4 a0 = b0.xzyw + s0.xzyw * sh.xxyy;
    vec4 a1 = b1.xzyw + s1.xzyw * sh.zzww;

    vec3 p0 = vec3(a0.xy, h.x);
    vec3 p1 = vec3(a0.zw, h.y);
    vec3 p2 = vec3(a1.xy, h.z);
    vec3 p3 = vec3(a1.zw, h.w);

    vec4 norm = taylorInvSqrt(vec4(dot(p0, p0), dot(p1, p1), dot(p2, p2), dot(p3, p3)));
    p0 *= norm.x;
    p1 *= norm.y;
    p2 *= norm.z;
    p3 *= norm.w;

    vec4 m = max(0.5 - vec4(dot(x0, x0), dot(x1, x1), dot(x2, x2), dot(x3, x3)), 0.0);
    m = m * m;
    return 105.0 * dot(m * m, vec4(dot(p0, x0), dot(p1, x1), dot(p2, x2), dot(p3, x3)));
}
`

// HashFBMGLSL mirrors core.Hash3 and core.FBM.
const HashFBMGLSL = `
float hash(vec3 p) {
    p = fract(p * 0.3183099 + 0.1);
    p *= 17.0;
    return fract(p.x * p.y * p.z * (p.x + p.y + p.z));
}

float fbm(vec3 p) {
    float v = 0.0;
    v += 0.5 * hash(p);
    v += 0.25 * hash(p * 2.1);
    v += 0.125 * hash(p * 4.3);
    v += 0.0625 * hash(p * 8.7);
    return v;
}
`

// SurfaceGLSL mirrors core.SurfaceParams. It needs SimplexGLSL.
const SurfaceGLSL = `
float surfaceElevation(vec3 p, float scale, float t) {
    return snoise(normalize(p) * abs(scale) + vec3(t * 0.03));
}

float craterMask(vec3 p, float scale, float t) {
    float n = snoise(p * (abs(scale) * 0.7) + vec3(t * 0.02));
    return smoothstep(0.2, 0.9, abs(n));
}

vec3 craterTint(float mask, float strength) {
    return mix(vec3(1.0), vec3(0.75, 0.82, 0.95), mask * clamp(strength, 0.0, 1.0));
}

vec3 bandColor(vec3 p, vec3 colorA, vec3 colorB, float freq, float caps) {
    vec3 band = mix(colorA, colorB, 0.5 + 0.5 * sin(p.y * abs(freq)));
    float lat = abs(normalize(p).y);
    float cap = smoothstep(0.58, 0.92, lat) * caps;
    return mix(band, vec3(0.88, 0.93, 1.0), cap * 0.35);
}

float ambientOcclusion(vec3 p, float scale) {
    return 0.82 + 0.18 * clamp(snoise(p * (abs(scale) * 0.35)) * 0.5 + 0.5, 0.0, 1.0);
}
`

// lightingGLSL is the lit skeleton's shading function. Point lights fall off
// with the inverse square of distance, windowed to zero at their range.
const lightingGLSL = `
float distanceFalloff(float d, float range) {
    float falloff = 1.0 / max(d * d, 0.01);
    if (range > 0.0) {
        float w = clamp(1.0 - pow(d / range, 4.0), 0.0, 1.0);
        falloff *= w * w;
    }
    return falloff;
}

vec3 shade(vec3 albedo, float roughness, vec3 N, vec3 P) {
    vec3 V = normalize(uCameraPos - P);
    float NdotV = max(dot(N, V), 0.0);
    vec3 F0 = mix(vec3(0.04), albedo, uMetalness);
    vec3 diffuse = albedo * (1.0 - uMetalness);

    float shininess = 2.0 / max(pow(roughness, 4.0), 0.002) - 2.0;
    float ccShininess = 2.0 / max(pow(uClearcoatRoughness, 4.0), 0.002) - 2.0;

    vec3 result = uAmbient * diffuse;
    for (int i = 0; i < uLightCount && i < 4; i++) {
        vec3 L;
        vec3 radiance = uLightColor[i];
        if (uLightKind[i] == 1) {
            L = normalize(uLightPos[i]);
        } else {
            vec3 toLight = uLightPos[i] - P;
            float d = length(toLight);
            L = toLight / max(d, 0.0001);
            radiance *= distanceFalloff(d, uLightRange[i]);
        }
        float NdotL = max(dot(N, L), 0.0);
        vec3 H = normalize(L + V);
        float NdotH = max(dot(N, H), 0.0);

        vec3 fresnel = F0 + (1.0 - F0) * pow(1.0 - max(dot(H, V), 0.0), 5.0);
        vec3 spec = fresnel * pow(NdotH, shininess) * (shininess + 8.0) / 25.13274;
        float cc = uClearcoat * 0.04 * pow(NdotH, ccShininess) * (ccShininess + 8.0) / 25.13274;
        vec3 sheen = uSheen * uSheenColor * pow(1.0 - NdotV, 2.0) * NdotL;

        result += radiance * (NdotL * (diffuse / 3.14159265 + spec + cc) + sheen);
    }
    return result + uEmissive;
}
`
