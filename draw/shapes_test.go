// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package draw_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/devblok/glstage/draw"
	"github.com/devblok/glstage/gfx"
	"github.com/devblok/glstage/gfx/gfxtest"
	"github.com/devblok/glstage/resource"
)

func TestRectanglePositions(t *testing.T) {
	c := qt.New(t)
	c.Assert(draw.RectanglePositions(10, 20, 30, 40), qt.DeepEquals, []float32{
		10, 20,
		40, 20,
		10, 60,
		10, 60,
		40, 20,
		40, 60,
	})

	// corners are computed from the inputs, never accumulated
	got := draw.RectanglePositions(0.1, 0.2, 0.3, 0.7)
	c.Assert(got[2], qt.Equals, float32(0.1)+float32(0.3))
	c.Assert(got[11], qt.Equals, float32(0.2)+float32(0.7))
}

func TestDrawTriangles(t *testing.T) {
	c := qt.New(t)
	s, ctx, _ := newSession(c, triangleVertex, triangleFragment)

	c.Assert(s.BeginFrame(800, 600, draw.Black), qt.IsNil)
	c.Assert(s.DrawTriangles(draw.FPositions()), qt.IsNil)

	c.Assert(lastDrawCount(c, ctx), qt.Equals, 18)
	c.Assert(attribData(c, ctx, "a_position"), qt.DeepEquals, draw.FPositions())

	ptr := ctx.Named("VertexAttribPointer")[0]
	c.Assert(ptr.Args[1:6], qt.DeepEquals, []interface{}{2, gfx.Float, false, 0, 0})
	c.Assert(ctx.Named("DisableVertexAttribArray"), qt.HasLen, 1)
}

func TestDrawTrianglesWith(t *testing.T) {
	c := qt.New(t)
	s, ctx, _ := newSession(c, triangleVertex, triangleFragment)
	c.Assert(s.BeginFrame(800, 600, draw.Black), qt.IsNil)

	// x, y, u, v per vertex
	vertices := []float32{
		0, 0, 0, 0,
		1, 0, 1, 0,
		0, 1, 0, 1,
	}
	c.Assert(s.DrawTrianglesWith(vertices, draw.AttribOptions{Stride: 16}), qt.IsNil)
	c.Assert(lastDrawCount(c, ctx), qt.Equals, 3)

	c.Assert(s.DrawTrianglesWith(vertices, draw.AttribOptions{Size: 4}), qt.IsNil)
	c.Assert(lastDrawCount(c, ctx), qt.Equals, 3)

	ptr := ctx.Named("VertexAttribPointer")[0]
	c.Assert(ptr.Args[1:6], qt.DeepEquals, []interface{}{2, gfx.Float, false, 16, 0})

	// the last vertex ends after its own components, short of a full stride
	c.Assert(s.DrawTrianglesWith(vertices, draw.AttribOptions{Stride: 16, Offset: 8}), qt.IsNil)
	c.Assert(lastDrawCount(c, ctx), qt.Equals, 3)
	c.Assert(s.DrawTrianglesWith(vertices[:11], draw.AttribOptions{Stride: 16, Offset: 8}), qt.IsNil)
	c.Assert(lastDrawCount(c, ctx), qt.Equals, 2)
	c.Assert(s.DrawTrianglesWith(vertices[:2], draw.AttribOptions{Stride: 16, Offset: 8}), qt.IsNil)
	c.Assert(lastDrawCount(c, ctx), qt.Equals, 0)
}

func TestDrawTexturedRectangle(t *testing.T) {
	c := qt.New(t)
	s, ctx, warnings := newSession(c, textureVertex, textureFragment)
	img := &resource.Image{ID: "img2.png", Width: 200, Height: 150, Pix: make([]uint8, 200*150*4)}

	c.Assert(s.BeginFrame(800, 600, draw.Black), qt.IsNil)
	c.Assert(s.DrawTexturedRectangle(img, 200, 200, 0, 0), qt.IsNil)

	c.Assert(lastDrawCount(c, ctx), qt.Equals, 6)
	c.Assert(attribData(c, ctx, "a_position"), qt.DeepEquals, draw.RectanglePositions(200, 200, 200, 150))
	c.Assert(attribData(c, ctx, "a_texCoord"), qt.DeepEquals, draw.UnitQuad())

	params := ctx.Named("TexParameteri")
	c.Assert(params, qt.HasLen, 4)
	c.Assert(params[0].Args, qt.DeepEquals, []interface{}{gfx.Texture2D, gfx.TextureWrapS, int32(gfx.ClampToEdge)})
	c.Assert(params[1].Args, qt.DeepEquals, []interface{}{gfx.Texture2D, gfx.TextureWrapT, int32(gfx.ClampToEdge)})
	c.Assert(params[2].Args, qt.DeepEquals, []interface{}{gfx.Texture2D, gfx.TextureMinFilter, int32(gfx.Nearest)})
	c.Assert(params[3].Args, qt.DeepEquals, []interface{}{gfx.Texture2D, gfx.TextureMagFilter, int32(gfx.Nearest)})
	c.Assert(ctx.Named("TexImage2D")[0].Args, qt.DeepEquals, []interface{}{gfx.Texture2D, 0, 200, 150, 200 * 150 * 4})

	call, ok := ctx.UniformCall(ctx.Current(), "u_image")
	c.Assert(ok, qt.IsTrue)
	c.Assert(call.Args[1], qt.Equals, int32(0))

	// explicit size, same image: the texture is reused
	c.Assert(s.DrawTexturedRectangle(img, 0, 200, 50, 60), qt.IsNil)
	c.Assert(attribData(c, ctx, "a_position"), qt.DeepEquals, draw.RectanglePositions(0, 200, 50, 60))
	c.Assert(ctx.Named("CreateTexture"), qt.HasLen, 1)
	c.Assert(*warnings, qt.HasLen, 0)
}

func TestDrawTexturedRectangleUnknownSize(t *testing.T) {
	c := qt.New(t)
	s, ctx, _ := newSession(c, textureVertex, textureFragment)
	c.Assert(s.BeginFrame(800, 600, draw.Black), qt.IsNil)

	c.Assert(s.DrawTexturedRectangle(&resource.Image{ID: "empty"}, 0, 0, 0, 0), qt.IsNil)
	c.Assert(attribData(c, ctx, "a_position"), qt.DeepEquals, draw.RectanglePositions(0, 0, 100, 100))
	c.Assert(s.DrawTexturedRectangle(nil, 0, 0, 0, 0), qt.ErrorIs, draw.ErrNoImage)
}

func TestDrawColoredTriangles(t *testing.T) {
	c := qt.New(t)
	s, ctx, _ := newSession(c, colorVertex, colorFragment)
	c.Assert(s.BeginFrame(800, 600, draw.Black), qt.IsNil)

	positions := []float32{0, 0, 100, 0, 0, 100}
	colors := []draw.Color8{{R: 255, A: 255}, {G: 255, A: 255}, {B: 255, A: 255}}
	c.Assert(s.DrawColoredTriangles(positions, colors), qt.IsNil)
	c.Assert(lastDrawCount(c, ctx), qt.Equals, 3)

	loc := ctx.GetAttribLocation(ctx.Current(), "a_color")
	var colorBuffer gfx.Buffer
	for _, call := range ctx.Named("VertexAttribPointer") {
		if call.Args[0] == loc {
			c.Assert(call.Args[1:6], qt.DeepEquals, []interface{}{4, gfx.UnsignedByte, true, 0, 0})
			colorBuffer = call.Args[6].(gfx.Buffer)
		}
	}
	c.Assert(ctx.Contents(colorBuffer), qt.DeepEquals, []byte{
		255, 0, 0, 255,
		0, 255, 0, 255,
		0, 0, 255, 255,
	})

	c.Assert(s.DrawColoredTriangles(positions, colors[:2]), qt.ErrorIs, draw.ErrColorCount)
}

func TestTrianglesCommandKeepsOptionsWithColors(t *testing.T) {
	c := qt.New(t)
	s, ctx, _ := newSession(c, colorVertex, colorFragment)

	// u, v, x, y per vertex
	vertices := []float32{
		0, 0, 0, 0,
		1, 0, 100, 0,
		0, 1, 0, 100,
	}
	cmd := draw.Triangles{
		Positions: vertices,
		Options:   draw.AttribOptions{Stride: 16, Offset: 8},
		Colors:    []draw.Color8{{R: 255, A: 255}, {G: 255, A: 255}, {B: 255, A: 255}},
	}
	c.Assert(s.Render(800, 600, draw.Scene{Clear: draw.Black, Commands: []draw.Command{cmd}}), qt.IsNil)
	c.Assert(lastDrawCount(c, ctx), qt.Equals, 3)

	loc := ctx.GetAttribLocation(ctx.Current(), "a_position")
	var found bool
	for _, call := range ctx.Named("VertexAttribPointer") {
		if call.Args[0] == loc {
			c.Assert(call.Args[1:6], qt.DeepEquals, []interface{}{2, gfx.Float, false, 16, 8})
			found = true
		}
	}
	c.Assert(found, qt.IsTrue)
}

func TestSamplesAreCopies(t *testing.T) {
	c := qt.New(t)
	s, ctx, _ := newSession(c, textureVertex, textureFragment)
	c.Assert(s.BeginFrame(800, 600, draw.Black), qt.IsNil)

	quad := draw.UnitQuad()
	for i := range quad {
		quad[i] = 9
	}
	f := draw.FPositions()
	f[0] = -1

	c.Assert(draw.UnitQuad(), qt.DeepEquals, []float32{0, 0, 1, 0, 0, 1, 0, 1, 1, 0, 1, 1})
	c.Assert(draw.FPositions()[0], qt.Equals, float32(0))

	img := &resource.Image{ID: "img.png", Width: 2, Height: 2, Pix: make([]uint8, 2*2*4)}
	c.Assert(s.DrawTexturedRectangle(img, 0, 0, 0, 0), qt.IsNil)
	c.Assert(attribData(c, ctx, "a_texCoord"), qt.DeepEquals, []float32{0, 0, 1, 0, 0, 1, 0, 1, 1, 0, 1, 1})
}

func TestDrawIndexed(t *testing.T) {
	c := qt.New(t)
	s, ctx, _ := newSession(c, colorVertex, colorFragment)
	c.Assert(s.BeginFrame(800, 600, draw.Black), qt.IsNil)

	vertices := []float32{
		0, 0, 0, 0,
		.5, 0, 1, 0,
		.5, .5, 0, 1,
		0, .5, 1, 1,
	}
	indices := []uint16{0, 1, 2, 2, 3, 0}
	colors := []draw.Color8{
		{R: 255, G: 255, A: 255},
		{G: 255, A: 255},
		{R: 255, G: 255, A: 255},
		{R: 255, A: 255},
	}
	layout := []draw.Binding{
		{Name: "a_position", AttribOptions: draw.AttribOptions{Stride: 16}},
	}
	c.Assert(s.DrawIndexedColored(vertices, indices, colors, layout...), qt.IsNil)

	elements := ctx.Named("DrawElements")
	c.Assert(elements, qt.HasLen, 1)
	c.Assert(elements[0].Args, qt.DeepEquals, []interface{}{gfx.Triangles, 6, gfx.UnsignedShort, 0})
	c.Assert(gfxtest.Uint16s(ctx.Contents(ctx.Bound(gfx.ElementArrayBuffer))), qt.DeepEquals, indices)
	c.Assert(attribData(c, ctx, "a_position"), qt.DeepEquals, vertices)

	c.Assert(s.DrawIndexedColored(vertices, indices, colors[:3], layout...), qt.ErrorIs, draw.ErrColorCount)

	// an offset layout still counts the last vertex
	offset := []draw.Binding{
		{Name: "a_position", AttribOptions: draw.AttribOptions{Stride: 16, Offset: 8}},
	}
	c.Assert(s.DrawIndexedColored(vertices[:12], []uint16{0, 1, 2}, colors[:3], offset...), qt.IsNil)
	c.Assert(ctx.Named("DrawElements"), qt.HasLen, 2)

	// without a layout the data is read as position pairs
	c.Assert(s.DrawIndexed([]float32{0, 0, 1, 0, 0, 1}, []uint16{0, 1, 2}), qt.IsNil)
	c.Assert(ctx.Named("DrawElements"), qt.HasLen, 3)
}
