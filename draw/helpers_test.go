// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package draw_test

import (
	qt "github.com/frankban/quicktest"

	"github.com/devblok/glstage/draw"
	"github.com/devblok/glstage/gfx"
	"github.com/devblok/glstage/gfx/gfxtest"
)

const (
	triangleVertex = `
attribute vec2 a_position;
uniform vec2 u_resolution;
void main() {
	vec2 clipSpace = a_position / u_resolution * 2.0 - 1.0;
	gl_Position = vec4(clipSpace * vec2(1, -1), 0, 1);
}`
	triangleFragment = `
precision mediump float;
void main() {
	gl_FragColor = vec4(1, 0, 0.5, 1);
}`
	textureVertex = `
attribute vec2 a_position;
attribute vec2 a_texCoord;
uniform vec2 u_resolution;
varying vec2 v_texCoord;
void main() {
	gl_Position = vec4((a_position / u_resolution * 2.0 - 1.0) * vec2(1, -1), 0, 1);
	v_texCoord = a_texCoord;
}`
	textureFragment = `
precision mediump float;
uniform sampler2D u_image;
varying vec2 v_texCoord;
void main() {
	gl_FragColor = texture2D(u_image, v_texCoord);
}`
	colorVertex = `
attribute vec2 a_position;
attribute vec4 a_color;
uniform vec2 u_resolution;
uniform mat4 u_matrix;
uniform float u_scale;
uniform ivec2 u_offset;
varying vec4 v_color;
void main() {
	gl_Position = u_matrix * vec4(a_position * u_scale, 0, 1);
	v_color = a_color;
}`
	colorFragment = `
precision mediump float;
varying vec4 v_color;
void main() {
	gl_FragColor = v_color;
}`
)

// newSession returns a session with a compiled program and a recorder of
// binding warnings.
func newSession(c *qt.C, vs, fs string, opts ...draw.Option) (*draw.Session, *gfxtest.Context, *[]draw.BindingWarning) {
	ctx := gfxtest.New()
	var warnings []draw.BindingWarning
	opts = append([]draw.Option{draw.WithWarningHandler(func(w draw.BindingWarning) {
		warnings = append(warnings, w)
	})}, opts...)
	s := draw.NewSession(ctx, opts...)
	_, err := s.Compile(vs, fs)
	c.Assert(err, qt.IsNil)
	return s, ctx, &warnings
}

// attribData returns the floats last fed to the named attribute.
func attribData(c *qt.C, ctx *gfxtest.Context, name string) []float32 {
	loc := ctx.GetAttribLocation(ctx.Current(), name)
	c.Assert(loc.Valid(), qt.IsTrue, qt.Commentf("attribute %s", name))
	calls := ctx.Named("VertexAttribPointer")
	for i := len(calls) - 1; i >= 0; i-- {
		if calls[i].Args[0] == loc {
			return gfxtest.Floats(ctx.Contents(calls[i].Args[6].(gfx.Buffer)))
		}
	}
	c.Fatalf("attribute %s was never bound", name)
	return nil
}

func lastDrawCount(c *qt.C, ctx *gfxtest.Context) int {
	calls := ctx.Named("DrawArrays")
	c.Assert(calls, qt.Not(qt.HasLen), 0)
	return calls[len(calls)-1].Args[2].(int)
}
