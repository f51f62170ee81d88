// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package draw

import "github.com/devblok/glstage/gfx"

// AttribOptions describes how buffer data feeds a vertex attribute.
// Zero Size and Type fall back to two float components.
type AttribOptions struct {
	Size       int
	Type       gfx.Enum
	Normalized bool
	Stride     int
	Offset     int
}

func (o AttribOptions) withDefaults() AttribOptions {
	if o.Size == 0 {
		o.Size = 2
	}
	if o.Type == 0 {
		o.Type = gfx.Float
	}
	return o
}

// vertexCount is the number of whole vertices in n bytes of buffer data.
// The last vertex only needs its own components after the offset.
func (o AttribOptions) vertexCount(n int) int {
	element := o.Size * gfx.SizeOf(o.Type)
	stride := o.Stride
	if stride == 0 {
		stride = element
	}
	if stride <= 0 || element <= 0 || n-o.Offset < element {
		return 0
	}
	return (n-o.Offset-element)/stride + 1
}

// Binding names the attribute an interleaved buffer region feeds.
type Binding struct {
	Name string
	AttribOptions
}

// Names is the attribute and uniform naming convention shaders follow.
// An empty name disables the binding.
type Names struct {
	Position   string
	TexCoord   string
	Color      string
	Resolution string
	Image      string
	Projection string
}

// DefaultNames returns the convention used by the bundled shaders.
func DefaultNames() Names {
	return Names{
		Position:   "a_position",
		TexCoord:   "a_texCoord",
		Color:      "a_color",
		Resolution: "u_resolution",
		Image:      "u_image",
	}
}
