// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package draw

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Color8 is a color with 8-bit channels, as written in scene files.
type Color8 struct {
	R, G, B, A uint8
}

// Float converts to a 0-1 float color.
func (c Color8) Float() ColorF {
	return ColorF{
		float32(c.R) / 255,
		float32(c.G) / 255,
		float32(c.B) / 255,
		float32(c.A) / 255,
	}
}

// ColorF is a color with channels in the 0-1 range, as passed to GL.
type ColorF mgl32.Vec4

// RGBA creates a float color.
func RGBA(r, g, b, a float32) ColorF {
	return ColorF{r, g, b, a}
}

// Vec4 returns the color as a vector.
func (c ColorF) Vec4() mgl32.Vec4 {
	return mgl32.Vec4(c)
}

// Bytes converts to 8-bit channels, clamping out of range values.
func (c ColorF) Bytes() Color8 {
	channel := func(v float32) uint8 {
		return uint8(math32.Round(math32.Max(0, math32.Min(1, v)) * 255))
	}
	return Color8{channel(c[0]), channel(c[1]), channel(c[2]), channel(c[3])}
}

// Common colors
var (
	Black = ColorF{0, 0, 0, 1}
	White = ColorF{1, 1, 1, 1}
)

func colorBytes(colors []Color8) []byte {
	data := make([]byte, 0, 4*len(colors))
	for _, c := range colors {
		data = append(data, c.R, c.G, c.B, c.A)
	}
	return data
}
