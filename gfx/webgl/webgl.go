// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

//go:build js && wasm

// Package webgl implements gfx.Context on a browser WebGL 1 context.
// WebGL objects are JavaScript values, so the context keeps a registry
// mapping the integer handles gfx hands out to them.
package webgl

import (
	"errors"
	"syscall/js"

	"github.com/devblok/glstage/core"
	"github.com/devblok/glstage/gfx"
)

// ErrUnsupported is returned when the canvas cannot provide a WebGL context.
var ErrUnsupported = errors.New("webgl: context not available")

// Attributes are the context creation attributes passed to getContext.
type Attributes struct {
	Alpha                 bool
	Antialias             bool
	PremultipliedAlpha    bool
	PreserveDrawingBuffer bool
}

// DefaultAttributes returns browser defaults with premultiplied alpha off,
// so uploaded RGBA pixels are used as they are.
func DefaultAttributes() Attributes {
	return Attributes{
		Alpha:     true,
		Antialias: true,
	}
}

func (a Attributes) value() map[string]interface{} {
	return map[string]interface{}{
		"alpha":                 a.Alpha,
		"antialias":             a.Antialias,
		"premultipliedAlpha":    a.PremultipliedAlpha,
		"preserveDrawingBuffer": a.PreserveDrawingBuffer,
	}
}

// Context wraps a WebGLRenderingContext.
type Context struct {
	gl      js.Value
	objects map[uint32]js.Value
	next    uint32

	// uniform locations are objects too, indexed by gfx.Uniform
	uniforms   []js.Value
	uniformIDs map[uniformKey]gfx.Uniform
}

type uniformKey struct {
	program gfx.Program
	name    string
}

var _ gfx.Context = (*Context)(nil)

// New creates a context rendering into canvas.
func New(canvas js.Value, attrs Attributes) (*Context, error) {
	gl := canvas.Call("getContext", "webgl", attrs.value())
	if gl.IsNull() || gl.IsUndefined() {
		return nil, ErrUnsupported
	}
	return &Context{
		gl:         gl,
		objects:    make(map[uint32]js.Value),
		uniformIDs: make(map[uniformKey]gfx.Uniform),
	}, nil
}

func (c *Context) register(v js.Value) uint32 {
	if v.IsNull() {
		return 0
	}
	c.next++
	c.objects[c.next] = v
	return c.next
}

func (c *Context) object(handle uint32) js.Value {
	if v, ok := c.objects[handle]; ok {
		return v
	}
	return js.Null()
}

func (c *Context) forget(handle uint32) js.Value {
	v := c.object(handle)
	delete(c.objects, handle)
	return v
}

func float32Array(v []float32) js.Value {
	data := core.Float32Bytes(v)
	bytes := js.Global().Get("Uint8Array").New(len(data))
	js.CopyBytesToJS(bytes, data)
	return js.Global().Get("Float32Array").New(bytes.Get("buffer"))
}

func int32Array(v []int32) js.Value {
	data := core.Int32Bytes(v)
	bytes := js.Global().Get("Uint8Array").New(len(data))
	js.CopyBytesToJS(bytes, data)
	return js.Global().Get("Int32Array").New(bytes.Get("buffer"))
}

func uint8Array(data []byte) js.Value {
	bytes := js.Global().Get("Uint8Array").New(len(data))
	js.CopyBytesToJS(bytes, data)
	return bytes
}

// CreateShader implements interface
func (c *Context) CreateShader(typ gfx.ShaderType) gfx.Shader {
	return gfx.Shader(c.register(c.gl.Call("createShader", uint32(typ.Enum()))))
}

// ShaderSource implements interface
func (c *Context) ShaderSource(s gfx.Shader, src string) {
	c.gl.Call("shaderSource", c.object(uint32(s)), src)
}

// CompileShader implements interface
func (c *Context) CompileShader(s gfx.Shader) {
	c.gl.Call("compileShader", c.object(uint32(s)))
}

// ShaderCompiled implements interface
func (c *Context) ShaderCompiled(s gfx.Shader) bool {
	return c.gl.Call("getShaderParameter", c.object(uint32(s)), c.gl.Get("COMPILE_STATUS")).Truthy()
}

// ShaderInfoLog implements interface
func (c *Context) ShaderInfoLog(s gfx.Shader) string {
	return c.gl.Call("getShaderInfoLog", c.object(uint32(s))).String()
}

// DeleteShader implements interface
func (c *Context) DeleteShader(s gfx.Shader) {
	c.gl.Call("deleteShader", c.forget(uint32(s)))
}

// CreateProgram implements interface
func (c *Context) CreateProgram() gfx.Program {
	return gfx.Program(c.register(c.gl.Call("createProgram")))
}

// AttachShader implements interface
func (c *Context) AttachShader(p gfx.Program, s gfx.Shader) {
	c.gl.Call("attachShader", c.object(uint32(p)), c.object(uint32(s)))
}

// DetachShader implements interface
func (c *Context) DetachShader(p gfx.Program, s gfx.Shader) {
	c.gl.Call("detachShader", c.object(uint32(p)), c.object(uint32(s)))
}

// LinkProgram implements interface
func (c *Context) LinkProgram(p gfx.Program) {
	c.gl.Call("linkProgram", c.object(uint32(p)))
}

// ProgramLinked implements interface
func (c *Context) ProgramLinked(p gfx.Program) bool {
	return c.gl.Call("getProgramParameter", c.object(uint32(p)), c.gl.Get("LINK_STATUS")).Truthy()
}

// ProgramInfoLog implements interface
func (c *Context) ProgramInfoLog(p gfx.Program) string {
	return c.gl.Call("getProgramInfoLog", c.object(uint32(p))).String()
}

// UseProgram implements interface
func (c *Context) UseProgram(p gfx.Program) {
	c.gl.Call("useProgram", c.object(uint32(p)))
}

// DeleteProgram implements interface
func (c *Context) DeleteProgram(p gfx.Program) {
	c.gl.Call("deleteProgram", c.forget(uint32(p)))
	for key, u := range c.uniformIDs {
		if key.program == p {
			c.uniforms[u] = js.Null()
			delete(c.uniformIDs, key)
		}
	}
}

// GetAttribLocation implements interface
func (c *Context) GetAttribLocation(p gfx.Program, name string) gfx.Attrib {
	return gfx.Attrib(c.gl.Call("getAttribLocation", c.object(uint32(p)), name).Int())
}

// GetUniformLocation implements interface
func (c *Context) GetUniformLocation(p gfx.Program, name string) gfx.Uniform {
	key := uniformKey{program: p, name: name}
	if u, ok := c.uniformIDs[key]; ok {
		return u
	}
	loc := c.gl.Call("getUniformLocation", c.object(uint32(p)), name)
	if loc.IsNull() {
		return gfx.NoUniform
	}
	u := gfx.Uniform(len(c.uniforms))
	c.uniforms = append(c.uniforms, loc)
	c.uniformIDs[key] = u
	return u
}

func (c *Context) location(u gfx.Uniform) js.Value {
	if u < 0 || int(u) >= len(c.uniforms) {
		return js.Null()
	}
	return c.uniforms[u]
}

// CreateBuffer implements interface
func (c *Context) CreateBuffer() gfx.Buffer {
	return gfx.Buffer(c.register(c.gl.Call("createBuffer")))
}

// BindBuffer implements interface
func (c *Context) BindBuffer(target gfx.Enum, b gfx.Buffer) {
	c.gl.Call("bindBuffer", uint32(target), c.object(uint32(b)))
}

// BufferData implements interface
func (c *Context) BufferData(target gfx.Enum, data []byte, usage gfx.Enum) {
	c.gl.Call("bufferData", uint32(target), uint8Array(data), uint32(usage))
}

// DeleteBuffer implements interface
func (c *Context) DeleteBuffer(b gfx.Buffer) {
	c.gl.Call("deleteBuffer", c.forget(uint32(b)))
}

// EnableVertexAttribArray implements interface
func (c *Context) EnableVertexAttribArray(a gfx.Attrib) {
	c.gl.Call("enableVertexAttribArray", int32(a))
}

// DisableVertexAttribArray implements interface
func (c *Context) DisableVertexAttribArray(a gfx.Attrib) {
	c.gl.Call("disableVertexAttribArray", int32(a))
}

// VertexAttribPointer implements interface
func (c *Context) VertexAttribPointer(a gfx.Attrib, size int, typ gfx.Enum, normalized bool, stride, offset int) {
	c.gl.Call("vertexAttribPointer", int32(a), size, uint32(typ), normalized, stride, offset)
}

// VertexAttrib4f implements interface
func (c *Context) VertexAttrib4f(a gfx.Attrib, x, y, z, w float32) {
	c.gl.Call("vertexAttrib4f", int32(a), x, y, z, w)
}

// Uniform1f implements interface
func (c *Context) Uniform1f(u gfx.Uniform, x float32) {
	c.gl.Call("uniform1f", c.location(u), x)
}

// Uniform2f implements interface
func (c *Context) Uniform2f(u gfx.Uniform, x, y float32) {
	c.gl.Call("uniform2f", c.location(u), x, y)
}

// Uniform3f implements interface
func (c *Context) Uniform3f(u gfx.Uniform, x, y, z float32) {
	c.gl.Call("uniform3f", c.location(u), x, y, z)
}

// Uniform4f implements interface
func (c *Context) Uniform4f(u gfx.Uniform, x, y, z, w float32) {
	c.gl.Call("uniform4f", c.location(u), x, y, z, w)
}

// Uniform1i implements interface
func (c *Context) Uniform1i(u gfx.Uniform, x int32) {
	c.gl.Call("uniform1i", c.location(u), x)
}

// Uniform2i implements interface
func (c *Context) Uniform2i(u gfx.Uniform, x, y int32) {
	c.gl.Call("uniform2i", c.location(u), x, y)
}

// Uniform3i implements interface
func (c *Context) Uniform3i(u gfx.Uniform, x, y, z int32) {
	c.gl.Call("uniform3i", c.location(u), x, y, z)
}

// Uniform4i implements interface
func (c *Context) Uniform4i(u gfx.Uniform, x, y, z, w int32) {
	c.gl.Call("uniform4i", c.location(u), x, y, z, w)
}

// Uniform1fv implements interface
func (c *Context) Uniform1fv(u gfx.Uniform, v []float32) {
	c.gl.Call("uniform1fv", c.location(u), float32Array(v))
}

// Uniform2fv implements interface
func (c *Context) Uniform2fv(u gfx.Uniform, v []float32) {
	c.gl.Call("uniform2fv", c.location(u), float32Array(v))
}

// Uniform3fv implements interface
func (c *Context) Uniform3fv(u gfx.Uniform, v []float32) {
	c.gl.Call("uniform3fv", c.location(u), float32Array(v))
}

// Uniform4fv implements interface
func (c *Context) Uniform4fv(u gfx.Uniform, v []float32) {
	c.gl.Call("uniform4fv", c.location(u), float32Array(v))
}

// Uniform1iv implements interface
func (c *Context) Uniform1iv(u gfx.Uniform, v []int32) {
	c.gl.Call("uniform1iv", c.location(u), int32Array(v))
}

// Uniform2iv implements interface
func (c *Context) Uniform2iv(u gfx.Uniform, v []int32) {
	c.gl.Call("uniform2iv", c.location(u), int32Array(v))
}

// Uniform3iv implements interface
func (c *Context) Uniform3iv(u gfx.Uniform, v []int32) {
	c.gl.Call("uniform3iv", c.location(u), int32Array(v))
}

// Uniform4iv implements interface
func (c *Context) Uniform4iv(u gfx.Uniform, v []int32) {
	c.gl.Call("uniform4iv", c.location(u), int32Array(v))
}

// UniformMatrix2fv implements interface
func (c *Context) UniformMatrix2fv(u gfx.Uniform, transpose bool, v []float32) {
	c.gl.Call("uniformMatrix2fv", c.location(u), transpose, float32Array(v))
}

// UniformMatrix3fv implements interface
func (c *Context) UniformMatrix3fv(u gfx.Uniform, transpose bool, v []float32) {
	c.gl.Call("uniformMatrix3fv", c.location(u), transpose, float32Array(v))
}

// UniformMatrix4fv implements interface
func (c *Context) UniformMatrix4fv(u gfx.Uniform, transpose bool, v []float32) {
	c.gl.Call("uniformMatrix4fv", c.location(u), transpose, float32Array(v))
}

// CreateTexture implements interface
func (c *Context) CreateTexture() gfx.Texture {
	return gfx.Texture(c.register(c.gl.Call("createTexture")))
}

// ActiveTexture implements interface
func (c *Context) ActiveTexture(unit gfx.Enum) {
	c.gl.Call("activeTexture", uint32(unit))
}

// BindTexture implements interface
func (c *Context) BindTexture(target gfx.Enum, t gfx.Texture) {
	c.gl.Call("bindTexture", uint32(target), c.object(uint32(t)))
}

// TexParameteri implements interface
func (c *Context) TexParameteri(target, pname gfx.Enum, param int32) {
	c.gl.Call("texParameteri", uint32(target), uint32(pname), param)
}

// TexImage2D implements interface
func (c *Context) TexImage2D(target gfx.Enum, level, width, height int, pix []uint8) {
	c.gl.Call("texImage2D", uint32(target), level, uint32(gfx.RGBA), width, height, 0,
		uint32(gfx.RGBA), uint32(gfx.UnsignedByte), uint8Array(pix))
}

// DeleteTexture implements interface
func (c *Context) DeleteTexture(t gfx.Texture) {
	c.gl.Call("deleteTexture", c.forget(uint32(t)))
}

// Viewport implements interface
func (c *Context) Viewport(x, y, width, height int) {
	c.gl.Call("viewport", x, y, width, height)
}

// ClearColor implements interface
func (c *Context) ClearColor(r, g, b, a float32) {
	c.gl.Call("clearColor", r, g, b, a)
}

// Clear implements interface
func (c *Context) Clear(mask gfx.Enum) {
	c.gl.Call("clear", uint32(mask))
}

// Enable implements interface
func (c *Context) Enable(cap gfx.Enum) {
	c.gl.Call("enable", uint32(cap))
}

// Disable implements interface
func (c *Context) Disable(cap gfx.Enum) {
	c.gl.Call("disable", uint32(cap))
}

// BlendFunc implements interface
func (c *Context) BlendFunc(sfactor, dfactor gfx.Enum) {
	c.gl.Call("blendFunc", uint32(sfactor), uint32(dfactor))
}

// DrawArrays implements interface
func (c *Context) DrawArrays(mode gfx.Enum, first, count int) {
	c.gl.Call("drawArrays", uint32(mode), first, count)
}

// DrawElements implements interface
func (c *Context) DrawElements(mode gfx.Enum, count int, typ gfx.Enum, offset int) {
	c.gl.Call("drawElements", uint32(mode), count, uint32(typ), offset)
}

// Flush implements interface
func (c *Context) Flush() {
	c.gl.Call("flush")
}
