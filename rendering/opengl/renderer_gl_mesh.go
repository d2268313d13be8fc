package opengl

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"planetsystem/rendering/opengl/shaders"
	"planetsystem/scene"
)

const floatSize = 4

// gpuMesh is a mesh uploaded to vertex, index and optional instance buffers.
type gpuMesh struct {
	vao, vbo, ebo, instanceVBO uint32
	indexCount                 int32
	instanceCount              int32
	mode                       uint32
}

func uploadMesh(m *scene.Mesh) *gpuMesh {
	g := &gpuMesh{indexCount: int32(len(m.Indices))}
	switch m.Primitive {
	case scene.Points:
		g.mode = gl.POINTS
	case scene.LineStrip:
		g.mode = gl.LINE_STRIP
	default:
		g.mode = gl.TRIANGLES
	}

	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	if len(m.Vertices) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(m.Vertices)*floatSize, gl.Ptr(m.Vertices), gl.STATIC_DRAW)
	}

	stride := int32(scene.VertexStride * floatSize)
	gl.VertexAttribPointer(shaders.AttribPosition, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(shaders.AttribPosition)
	gl.VertexAttribPointer(shaders.AttribNormal, 3, gl.FLOAT, false, stride, gl.PtrOffset(3*floatSize))
	gl.EnableVertexAttribArray(shaders.AttribNormal)
	gl.VertexAttribPointer(shaders.AttribUV, 2, gl.FLOAT, false, stride, gl.PtrOffset(6*floatSize))
	gl.EnableVertexAttribArray(shaders.AttribUV)

	gl.GenBuffers(1, &g.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	if len(m.Indices) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, gl.Ptr(m.Indices), gl.STATIC_DRAW)
	}

	if n := len(m.Instances); n > 0 {
		g.instanceCount = int32(n)
		gl.GenBuffers(1, &g.instanceVBO)
		gl.BindBuffer(gl.ARRAY_BUFFER, g.instanceVBO)
		gl.BufferData(gl.ARRAY_BUFFER, n*int(unsafe.Sizeof(m.Instances[0])), gl.Ptr(&m.Instances[0][0]), gl.STATIC_DRAW)

		// a mat4 attribute takes four consecutive vec4 slots
		matStride := int32(16 * floatSize)
		for col := uint32(0); col < 4; col++ {
			loc := shaders.AttribInstance + col
			gl.VertexAttribPointer(loc, 4, gl.FLOAT, false, matStride, gl.PtrOffset(int(col)*4*floatSize))
			gl.EnableVertexAttribArray(loc)
			gl.VertexAttribDivisor(loc, 1)
		}
	}

	gl.BindVertexArray(0)
	return g
}

func (g *gpuMesh) draw() {
	gl.BindVertexArray(g.vao)
	if g.instanceCount > 0 {
		gl.DrawElementsInstanced(g.mode, g.indexCount, gl.UNSIGNED_INT, nil, g.instanceCount)
	} else {
		gl.DrawElements(g.mode, g.indexCount, gl.UNSIGNED_INT, nil)
	}
}

func (g *gpuMesh) release() {
	gl.DeleteVertexArrays(1, &g.vao)
	gl.DeleteBuffers(1, &g.vbo)
	gl.DeleteBuffers(1, &g.ebo)
	if g.instanceVBO != 0 {
		gl.DeleteBuffers(1, &g.instanceVBO)
	}
}
