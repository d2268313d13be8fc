package core

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// Color is a linear RGBA color with components in [0, 1]. Text forms are
// parsed by the palette package.
type Color struct {
	R, G, B, A float32
}

// RGB builds an opaque color from float components.
func RGB(r, g, b float32) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// RGBA8 normalizes 8-bit channels.
func RGBA8(r, g, b, a uint8) Color {
	return Color{R: float32(r) / 255, G: float32(g) / 255, B: float32(b) / 255, A: float32(a) / 255}
}

// Hex converts a 0xRRGGBB value.
func Hex(rgb uint32) Color {
	return RGBA8(uint8(rgb>>16), uint8(rgb>>8), uint8(rgb), 0xff)
}

// WithAlpha returns c with its alpha replaced.
func (c Color) WithAlpha(a float32) Color {
	c.A = a
	return c
}

// Scale multiplies the RGB components.
func (c Color) Scale(s float32) Color {
	return Color{R: c.R * s, G: c.G * s, B: c.B * s, A: c.A}
}

func (c Color) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{c.R, c.G, c.B}
}

func (c Color) Vec4() mgl32.Vec4 {
	return mgl32.Vec4{c.R, c.G, c.B, c.A}
}

func (c Color) Vec64() mgl64.Vec3 {
	return mgl64.Vec3{float64(c.R), float64(c.G), float64(c.B)}
}
