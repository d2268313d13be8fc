package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// Sphere builds a UV sphere with segments around the equator and rings from
// pole to pole. Non-positive counts fall back to 64x32.
func Sphere(name string, radius float32, segments, rings int) *Mesh {
	if segments <= 0 {
		segments = 64
	}
	if rings <= 0 {
		rings = 32
	}

	vertices := make([]float32, 0, (rings+1)*(segments+1)*VertexStride)
	indices := make([]uint32, 0, rings*segments*6)

	for ring := 0; ring <= rings; ring++ {
		theta := float64(ring) * math.Pi / float64(rings)
		sinTheta, cosTheta := float32(math.Sin(theta)), float32(math.Cos(theta))

		for seg := 0; seg <= segments; seg++ {
			phi := float64(seg) * 2 * math.Pi / float64(segments)
			sinPhi, cosPhi := float32(math.Sin(phi)), float32(math.Cos(phi))

			x := cosPhi * sinTheta
			y := cosTheta
			z := sinPhi * sinTheta

			vertices = append(vertices,
				x*radius, y*radius, z*radius,
				x, y, z,
				float32(seg)/float32(segments), float32(ring)/float32(rings),
			)
		}
	}

	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			current := uint32(ring*(segments+1) + seg)
			next := current + uint32(segments) + 1
			indices = append(indices, current, next, current+1)
			indices = append(indices, current+1, next, next+1)
		}
	}

	return &Mesh{Name: name, Vertices: vertices, Indices: indices, Bounds: radius}
}

// Ring builds a flat annulus in the XY plane facing +Z. The u texture
// coordinate runs from 0 at the inner edge to 1 at the outer edge.
func Ring(name string, inner, outer float32, segments int) *Mesh {
	if segments < 3 {
		segments = 3
	}
	if inner > outer {
		inner, outer = outer, inner
	}

	vertices := make([]float32, 0, (segments+1)*2*VertexStride)
	indices := make([]uint32, 0, segments*6)
	for seg := 0; seg <= segments; seg++ {
		a := float64(seg) * 2 * math.Pi / float64(segments)
		c, s := float32(math.Cos(a)), float32(math.Sin(a))
		v := float32(seg) / float32(segments)
		vertices = append(vertices,
			c*inner, s*inner, 0, 0, 0, 1, 0, v,
			c*outer, s*outer, 0, 0, 0, 1, 1, v,
		)
	}
	for seg := 0; seg < segments; seg++ {
		i := uint32(seg * 2)
		indices = append(indices, i, i+1, i+2, i+2, i+1, i+3)
	}
	return &Mesh{Name: name, Vertices: vertices, Indices: indices, Bounds: outer}
}

// Plane builds a width x height grid in the XY plane. bend, when non-nil,
// returns the Z offset for a vertex at x.
func Plane(name string, width, height float32, segX, segY int, bend func(x float32) float32) *Mesh {
	segX, segY = max(segX, 1), max(segY, 1)

	vertices := make([]float32, 0, (segX+1)*(segY+1)*VertexStride)
	indices := make([]uint32, 0, segX*segY*6)
	for iy := 0; iy <= segY; iy++ {
		v := float32(iy) / float32(segY)
		y := (0.5 - v) * height
		for ix := 0; ix <= segX; ix++ {
			u := float32(ix) / float32(segX)
			x := (u - 0.5) * width
			var z float32
			if bend != nil {
				z = bend(x)
			}
			vertices = append(vertices, x, y, z, 0, 0, 1, u, 1-v)
		}
	}
	row := uint32(segX + 1)
	for iy := 0; iy < segY; iy++ {
		for ix := 0; ix < segX; ix++ {
			a := uint32(iy)*row + uint32(ix)
			b := a + row
			indices = append(indices, a, b, a+1, b, b+1, a+1)
		}
	}

	half := mgl32.Vec2{width / 2, height / 2}.Len()
	return &Mesh{Name: name, Vertices: vertices, Indices: indices, Bounds: half}
}

// Quad is the unit square sprites are drawn with.
func Quad(name string) *Mesh {
	return &Mesh{
		Name: name,
		Vertices: []float32{
			-0.5, -0.5, 0, 0, 0, 1, 0, 0,
			0.5, -0.5, 0, 0, 0, 1, 1, 0,
			0.5, 0.5, 0, 0, 0, 1, 1, 1,
			-0.5, 0.5, 0, 0, 0, 1, 0, 1,
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
		Bounds:  0.5,
	}
}

// Pebble builds a flat-shaded icosahedron.
func Pebble(name string, radius float32) *Mesh {
	t := float32((1 + math.Sqrt(5)) / 2)
	corners := []mgl32.Vec3{
		{-1, t, 0}, {1, t, 0}, {-1, -t, 0}, {1, -t, 0},
		{0, -1, t}, {0, 1, t}, {0, -1, -t}, {0, 1, -t},
		{t, 0, -1}, {t, 0, 1}, {-t, 0, -1}, {-t, 0, 1},
	}
	faces := [][3]int{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}

	vertices := make([]float32, 0, len(faces)*3*VertexStride)
	indices := make([]uint32, 0, len(faces)*3)
	for _, f := range faces {
		a, b, c := corners[f[0]].Normalize(), corners[f[1]].Normalize(), corners[f[2]].Normalize()
		n := b.Sub(a).Cross(c.Sub(a)).Normalize()
		for _, p := range []mgl32.Vec3{a, b, c} {
			p = p.Mul(radius)
			indices = append(indices, uint32(len(vertices)/VertexStride))
			vertices = append(vertices, p[0], p[1], p[2], n[0], n[1], n[2], 0, 0)
		}
	}
	return &Mesh{Name: name, Vertices: vertices, Indices: indices, Bounds: radius}
}

// PointCloud builds a point mesh. The u coordinate carries a per-point
// phase in [0, 1) for twinkling.
func PointCloud(name string, points []mgl64.Vec3, phase func(i int) float32) *Mesh {
	vertices := make([]float32, 0, len(points)*VertexStride)
	indices := make([]uint32, 0, len(points))
	var bounds float64
	for i, p := range points {
		var ph float32
		if phase != nil {
			ph = phase(i)
		}
		vertices = append(vertices, float32(p[0]), float32(p[1]), float32(p[2]), 0, 0, 0, ph, 0)
		indices = append(indices, uint32(i))
		bounds = math.Max(bounds, p.Len())
	}
	return &Mesh{Name: name, Vertices: vertices, Indices: indices, Primitive: Points, Bounds: float32(bounds)}
}

// Polyline builds a line strip through points.
func Polyline(name string, points []mgl64.Vec3) *Mesh {
	m := PointCloud(name, points, nil)
	m.Primitive = LineStrip
	return m
}
