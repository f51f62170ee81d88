// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

//go:build !js

// Package glr implements gfx.Context on desktop OpenGL 3.3 core.
package glr

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/devblok/glstage/gfx"
)

// Context issues calls to the OpenGL context current on the calling thread.
type Context struct {
	vao uint32
}

var _ gfx.Context = (*Context)(nil)

// New loads the GL function pointers for the current context and binds the
// single vertex array object that core profiles require before any draw.
func New() (*Context, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("gl.Init(): %s", err.Error())
	}
	c := &Context{}
	gl.GenVertexArrays(1, &c.vao)
	gl.BindVertexArray(c.vao)
	return c, nil
}

// Version returns the GL version string of the driver.
func (c *Context) Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

// DriverInfo describes the driver behind the current context.
type DriverInfo struct {
	Vendor   string `json:"vendor"`
	Renderer string `json:"renderer"`
	Version  string `json:"version"`
	GLSL     string `json:"glsl"`
}

// Info queries the driver strings of the current context.
func (c *Context) Info() DriverInfo {
	str := func(name uint32) string {
		return gl.GoStr(gl.GetString(name))
	}
	return DriverInfo{
		Vendor:   str(gl.VENDOR),
		Renderer: str(gl.RENDERER),
		Version:  str(gl.VERSION),
		GLSL:     str(gl.SHADING_LANGUAGE_VERSION),
	}
}

// Release deletes the vertex array object.
func (c *Context) Release() {
	gl.DeleteVertexArrays(1, &c.vao)
}

// CreateShader implements interface
func (c *Context) CreateShader(typ gfx.ShaderType) gfx.Shader {
	return gfx.Shader(gl.CreateShader(uint32(typ.Enum())))
}

// ShaderSource implements interface
func (c *Context) ShaderSource(s gfx.Shader, src string) {
	csources, free := gl.Strs(src + "\x00")
	gl.ShaderSource(uint32(s), 1, csources, nil)
	free()
}

// CompileShader implements interface
func (c *Context) CompileShader(s gfx.Shader) {
	gl.CompileShader(uint32(s))
}

// ShaderCompiled implements interface
func (c *Context) ShaderCompiled(s gfx.Shader) bool {
	var status int32
	gl.GetShaderiv(uint32(s), gl.COMPILE_STATUS, &status)
	return status == gl.TRUE
}

// ShaderInfoLog implements interface
func (c *Context) ShaderInfoLog(s gfx.Shader) string {
	var logLength int32
	gl.GetShaderiv(uint32(s), gl.INFO_LOG_LENGTH, &logLength)
	if logLength == 0 {
		return ""
	}
	msg := strings.Repeat("\x00", int(logLength+1))
	gl.GetShaderInfoLog(uint32(s), logLength, nil, gl.Str(msg))
	return strings.TrimRight(msg, "\x00")
}

// DeleteShader implements interface
func (c *Context) DeleteShader(s gfx.Shader) {
	gl.DeleteShader(uint32(s))
}

// CreateProgram implements interface
func (c *Context) CreateProgram() gfx.Program {
	return gfx.Program(gl.CreateProgram())
}

// AttachShader implements interface
func (c *Context) AttachShader(p gfx.Program, s gfx.Shader) {
	gl.AttachShader(uint32(p), uint32(s))
}

// DetachShader implements interface
func (c *Context) DetachShader(p gfx.Program, s gfx.Shader) {
	gl.DetachShader(uint32(p), uint32(s))
}

// LinkProgram implements interface
func (c *Context) LinkProgram(p gfx.Program) {
	gl.LinkProgram(uint32(p))
}

// ProgramLinked implements interface
func (c *Context) ProgramLinked(p gfx.Program) bool {
	var status int32
	gl.GetProgramiv(uint32(p), gl.LINK_STATUS, &status)
	return status == gl.TRUE
}

// ProgramInfoLog implements interface
func (c *Context) ProgramInfoLog(p gfx.Program) string {
	var logLength int32
	gl.GetProgramiv(uint32(p), gl.INFO_LOG_LENGTH, &logLength)
	if logLength == 0 {
		return ""
	}
	msg := strings.Repeat("\x00", int(logLength+1))
	gl.GetProgramInfoLog(uint32(p), logLength, nil, gl.Str(msg))
	return strings.TrimRight(msg, "\x00")
}

// UseProgram implements interface
func (c *Context) UseProgram(p gfx.Program) {
	gl.UseProgram(uint32(p))
}

// DeleteProgram implements interface
func (c *Context) DeleteProgram(p gfx.Program) {
	gl.DeleteProgram(uint32(p))
}

// GetAttribLocation implements interface
func (c *Context) GetAttribLocation(p gfx.Program, name string) gfx.Attrib {
	return gfx.Attrib(gl.GetAttribLocation(uint32(p), gl.Str(name+"\x00")))
}

// GetUniformLocation implements interface
func (c *Context) GetUniformLocation(p gfx.Program, name string) gfx.Uniform {
	return gfx.Uniform(gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00")))
}

// CreateBuffer implements interface
func (c *Context) CreateBuffer() gfx.Buffer {
	var b uint32
	gl.GenBuffers(1, &b)
	return gfx.Buffer(b)
}

// BindBuffer implements interface
func (c *Context) BindBuffer(target gfx.Enum, b gfx.Buffer) {
	gl.BindBuffer(uint32(target), uint32(b))
}

// BufferData implements interface
func (c *Context) BufferData(target gfx.Enum, data []byte, usage gfx.Enum) {
	if len(data) == 0 {
		gl.BufferData(uint32(target), 0, nil, uint32(usage))
		return
	}
	gl.BufferData(uint32(target), len(data), gl.Ptr(data), uint32(usage))
}

// DeleteBuffer implements interface
func (c *Context) DeleteBuffer(b gfx.Buffer) {
	handle := uint32(b)
	gl.DeleteBuffers(1, &handle)
}

// EnableVertexAttribArray implements interface
func (c *Context) EnableVertexAttribArray(a gfx.Attrib) {
	gl.EnableVertexAttribArray(uint32(a))
}

// DisableVertexAttribArray implements interface
func (c *Context) DisableVertexAttribArray(a gfx.Attrib) {
	gl.DisableVertexAttribArray(uint32(a))
}

// VertexAttribPointer implements interface
func (c *Context) VertexAttribPointer(a gfx.Attrib, size int, typ gfx.Enum, normalized bool, stride, offset int) {
	gl.VertexAttribPointer(uint32(a), int32(size), uint32(typ), normalized, int32(stride), gl.PtrOffset(offset))
}

// VertexAttrib4f implements interface
func (c *Context) VertexAttrib4f(a gfx.Attrib, x, y, z, w float32) {
	gl.VertexAttrib4f(uint32(a), x, y, z, w)
}

// Uniform1f implements interface
func (c *Context) Uniform1f(u gfx.Uniform, x float32) { gl.Uniform1f(int32(u), x) }

// Uniform2f implements interface
func (c *Context) Uniform2f(u gfx.Uniform, x, y float32) { gl.Uniform2f(int32(u), x, y) }

// Uniform3f implements interface
func (c *Context) Uniform3f(u gfx.Uniform, x, y, z float32) { gl.Uniform3f(int32(u), x, y, z) }

// Uniform4f implements interface
func (c *Context) Uniform4f(u gfx.Uniform, x, y, z, w float32) { gl.Uniform4f(int32(u), x, y, z, w) }

// Uniform1i implements interface
func (c *Context) Uniform1i(u gfx.Uniform, x int32) { gl.Uniform1i(int32(u), x) }

// Uniform2i implements interface
func (c *Context) Uniform2i(u gfx.Uniform, x, y int32) { gl.Uniform2i(int32(u), x, y) }

// Uniform3i implements interface
func (c *Context) Uniform3i(u gfx.Uniform, x, y, z int32) { gl.Uniform3i(int32(u), x, y, z) }

// Uniform4i implements interface
func (c *Context) Uniform4i(u gfx.Uniform, x, y, z, w int32) { gl.Uniform4i(int32(u), x, y, z, w) }

// Uniform1fv implements interface
func (c *Context) Uniform1fv(u gfx.Uniform, v []float32) {
	gl.Uniform1fv(int32(u), int32(len(v)), &v[0])
}

// Uniform2fv implements interface
func (c *Context) Uniform2fv(u gfx.Uniform, v []float32) {
	gl.Uniform2fv(int32(u), int32(len(v)/2), &v[0])
}

// Uniform3fv implements interface
func (c *Context) Uniform3fv(u gfx.Uniform, v []float32) {
	gl.Uniform3fv(int32(u), int32(len(v)/3), &v[0])
}

// Uniform4fv implements interface
func (c *Context) Uniform4fv(u gfx.Uniform, v []float32) {
	gl.Uniform4fv(int32(u), int32(len(v)/4), &v[0])
}

// Uniform1iv implements interface
func (c *Context) Uniform1iv(u gfx.Uniform, v []int32) {
	gl.Uniform1iv(int32(u), int32(len(v)), &v[0])
}

// Uniform2iv implements interface
func (c *Context) Uniform2iv(u gfx.Uniform, v []int32) {
	gl.Uniform2iv(int32(u), int32(len(v)/2), &v[0])
}

// Uniform3iv implements interface
func (c *Context) Uniform3iv(u gfx.Uniform, v []int32) {
	gl.Uniform3iv(int32(u), int32(len(v)/3), &v[0])
}

// Uniform4iv implements interface
func (c *Context) Uniform4iv(u gfx.Uniform, v []int32) {
	gl.Uniform4iv(int32(u), int32(len(v)/4), &v[0])
}

// UniformMatrix2fv implements interface
func (c *Context) UniformMatrix2fv(u gfx.Uniform, transpose bool, v []float32) {
	gl.UniformMatrix2fv(int32(u), int32(len(v)/4), transpose, &v[0])
}

// UniformMatrix3fv implements interface
func (c *Context) UniformMatrix3fv(u gfx.Uniform, transpose bool, v []float32) {
	gl.UniformMatrix3fv(int32(u), int32(len(v)/9), transpose, &v[0])
}

// UniformMatrix4fv implements interface
func (c *Context) UniformMatrix4fv(u gfx.Uniform, transpose bool, v []float32) {
	gl.UniformMatrix4fv(int32(u), int32(len(v)/16), transpose, &v[0])
}

// CreateTexture implements interface
func (c *Context) CreateTexture() gfx.Texture {
	var t uint32
	gl.GenTextures(1, &t)
	return gfx.Texture(t)
}

// ActiveTexture implements interface
func (c *Context) ActiveTexture(unit gfx.Enum) {
	gl.ActiveTexture(uint32(unit))
}

// BindTexture implements interface
func (c *Context) BindTexture(target gfx.Enum, t gfx.Texture) {
	gl.BindTexture(uint32(target), uint32(t))
}

// TexParameteri implements interface
func (c *Context) TexParameteri(target, pname gfx.Enum, param int32) {
	gl.TexParameteri(uint32(target), uint32(pname), param)
}

// TexImage2D implements interface
func (c *Context) TexImage2D(target gfx.Enum, level, width, height int, pix []uint8) {
	var ptr = gl.Ptr(nil)
	if len(pix) > 0 {
		ptr = gl.Ptr(pix)
	}
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(uint32(target), int32(level), gl.RGBA, int32(width), int32(height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, ptr)
}

// DeleteTexture implements interface
func (c *Context) DeleteTexture(t gfx.Texture) {
	handle := uint32(t)
	gl.DeleteTextures(1, &handle)
}

// Viewport implements interface
func (c *Context) Viewport(x, y, width, height int) {
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

// ClearColor implements interface
func (c *Context) ClearColor(r, g, b, a float32) { gl.ClearColor(r, g, b, a) }

// Clear implements interface
func (c *Context) Clear(mask gfx.Enum) { gl.Clear(uint32(mask)) }

// Enable implements interface
func (c *Context) Enable(cap gfx.Enum) { gl.Enable(uint32(cap)) }

// Disable implements interface
func (c *Context) Disable(cap gfx.Enum) { gl.Disable(uint32(cap)) }

// BlendFunc implements interface
func (c *Context) BlendFunc(sfactor, dfactor gfx.Enum) {
	gl.BlendFunc(uint32(sfactor), uint32(dfactor))
}

// DrawArrays implements interface
func (c *Context) DrawArrays(mode gfx.Enum, first, count int) {
	gl.DrawArrays(uint32(mode), int32(first), int32(count))
}

// DrawElements implements interface
func (c *Context) DrawElements(mode gfx.Enum, count int, typ gfx.Enum, offset int) {
	gl.DrawElements(uint32(mode), int32(count), uint32(typ), gl.PtrOffset(offset))
}

// Flush implements interface
func (c *Context) Flush() { gl.Flush() }
