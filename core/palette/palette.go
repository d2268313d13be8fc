// Package palette parses configured colors through raylib's color helpers.
// It is kept apart from core so the math packages build without cgo.
package palette

import (
	"fmt"
	"strconv"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"planetsystem/core"
)

// Parse accepts "#rrggbb", "rrggbb", "0xrrggbb" and the 8 digit forms with alpha.
func Parse(s string) (core.Color, error) {
	raw := strings.TrimSpace(s)
	raw = strings.TrimPrefix(raw, "#")
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "0x"), "0X")

	v, err := strconv.ParseUint(raw, 16, 32)
	if err != nil {
		return core.Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	switch len(raw) {
	case 6:
		return FromRaylib(rl.GetColor(uint(v)<<8 | 0xff)), nil
	case 8:
		return FromRaylib(rl.GetColor(uint(v))), nil
	default:
		return core.Color{}, fmt.Errorf("parse color %q: want 6 or 8 hex digits", s)
	}
}

// MustParse is Parse for palette literals.
func MustParse(s string) core.Color {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// FromRaylib normalizes an 8-bit raylib color.
func FromRaylib(c rl.Color) core.Color {
	n := rl.ColorNormalize(c)
	return core.Color{R: n.X, G: n.Y, B: n.Z, A: n.W}
}
