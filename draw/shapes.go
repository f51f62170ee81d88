// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package draw

import (
	"fmt"

	"github.com/devblok/glstage/core"
	"github.com/devblok/glstage/gfx"
	"github.com/devblok/glstage/resource"
)

// DrawTriangles draws a triangle list from flat x, y position pairs.
func (s *Session) DrawTriangles(positions []float32) error {
	return s.DrawTrianglesWith(positions, AttribOptions{})
}

// DrawTrianglesWith draws a triangle list, feeding the position attribute
// as described by opts.
func (s *Session) DrawTrianglesWith(positions []float32, opts AttribOptions) error {
	if err := s.drawable(); err != nil {
		return err
	}
	opts = opts.withDefaults()
	data := core.Float32Bytes(positions)
	b := s.vertices.upload(s.ctx, data)
	s.bindAttrib(s.names.Position, b, opts)
	s.ctx.DrawArrays(gfx.Triangles, 0, opts.vertexCount(len(data)))
	s.unbindAttribs()
	return nil
}

// DrawColoredTriangles draws a triangle list with one color per vertex.
func (s *Session) DrawColoredTriangles(positions []float32, colors []Color8) error {
	return s.DrawColoredTrianglesWith(positions, colors, AttribOptions{})
}

// DrawColoredTrianglesWith is DrawColoredTriangles with the position
// attribute fed as described by opts.
func (s *Session) DrawColoredTrianglesWith(positions []float32, colors []Color8, opts AttribOptions) error {
	if err := s.drawable(); err != nil {
		return err
	}
	opts = opts.withDefaults()
	data := core.Float32Bytes(positions)
	count := opts.vertexCount(len(data))
	if len(colors) != count {
		return fmt.Errorf("%w: %d colors for %d vertices", ErrColorCount, len(colors), count)
	}

	pb := s.vertices.upload(s.ctx, data)
	s.bindAttrib(s.names.Position, pb, opts)
	cb := s.vertices.upload(s.ctx, colorBytes(colors))
	s.bindAttrib(s.names.Color, cb, AttribOptions{Size: 4, Type: gfx.UnsignedByte, Normalized: true})
	s.ctx.DrawArrays(gfx.Triangles, 0, count)
	s.unbindAttribs()
	return nil
}

// DrawRectangle draws an axis-aligned rectangle as two triangles.
func (s *Session) DrawRectangle(x, y, w, h float32) error {
	return s.DrawTriangles(RectanglePositions(x, y, w, h))
}

// DrawColoredRectangle draws a rectangle filled with a single color.
func (s *Session) DrawColoredRectangle(x, y, w, h float32, c Color8) error {
	colors := make([]Color8, 6)
	for i := range colors {
		colors[i] = c
	}
	return s.DrawColoredTriangles(RectanglePositions(x, y, w, h), colors)
}

// DrawTexturedRectangle draws img stretched over a rectangle. A zero width
// or height uses the natural size of the image, or 100 if that is zero too.
func (s *Session) DrawTexturedRectangle(img *resource.Image, x, y, w, h float32) error {
	if err := s.drawable(); err != nil {
		return err
	}
	if img == nil {
		return ErrNoImage
	}
	w = orDefault(w, float32(img.Width))
	h = orDefault(h, float32(img.Height))

	s.bindTexture(img)
	opts := AttribOptions{}.withDefaults()
	pb := s.vertices.upload(s.ctx, core.Float32Bytes(RectanglePositions(x, y, w, h)))
	s.bindAttrib(s.names.Position, pb, opts)
	tb := s.vertices.upload(s.ctx, core.Float32Bytes(unitQuad))
	s.bindAttrib(s.names.TexCoord, tb, opts)
	s.ctx.DrawArrays(gfx.Triangles, 0, 6)
	s.unbindAttribs()
	return nil
}

func orDefault(v, natural float32) float32 {
	switch {
	case v != 0:
		return v
	case natural != 0:
		return natural
	}
	return 100
}

// DrawIndexed draws indexed triangles from interleaved vertex data. Each
// binding names an attribute and where it sits in a vertex. Without
// bindings the data is read as x, y position pairs.
func (s *Session) DrawIndexed(vertices []float32, indices []uint16, layout ...Binding) error {
	return s.DrawIndexedColored(vertices, indices, nil, layout...)
}

// DrawIndexedColored is DrawIndexed with an additional per-vertex color buffer.
func (s *Session) DrawIndexedColored(vertices []float32, indices []uint16, colors []Color8, layout ...Binding) error {
	if err := s.drawable(); err != nil {
		return err
	}
	if len(layout) == 0 {
		layout = []Binding{{Name: s.names.Position}}
	}

	data := core.Float32Bytes(vertices)
	vb := s.vertices.upload(s.ctx, data)
	for _, binding := range layout {
		s.bindAttrib(binding.Name, vb, binding.withDefaults())
	}
	if len(colors) > 0 {
		if count := layout[0].withDefaults().vertexCount(len(data)); len(colors) != count {
			s.unbindAttribs()
			return fmt.Errorf("%w: %d colors for %d vertices", ErrColorCount, len(colors), count)
		}
		cb := s.vertices.upload(s.ctx, colorBytes(colors))
		s.bindAttrib(s.names.Color, cb, AttribOptions{Size: 4, Type: gfx.UnsignedByte, Normalized: true})
	}
	s.indices.upload(s.ctx, core.Uint16Bytes(indices))
	s.ctx.DrawElements(gfx.Triangles, len(indices), gfx.UnsignedShort, 0)
	s.unbindAttribs()
	return nil
}
