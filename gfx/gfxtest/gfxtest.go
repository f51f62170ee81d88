// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package gfxtest provides an in-memory gfx.Context that records every call.
//
// Shader sources are not really compiled. A source fails to compile when it
// contains an #error directive, whose text becomes the info log. A program
// fails to link unless it has a compiled vertex and fragment shader that both
// define main. Attribute locations come from the attribute/in declarations of
// the vertex shader, uniform locations from uniform declarations of both
// stages, numbered in declaration order.
package gfxtest

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/devblok/glstage/gfx"
)

// Call is one recorded method invocation.
type Call struct {
	Name string
	Args []interface{}
}

type shader struct {
	typ      gfx.ShaderType
	source   string
	compiled bool
	log      string
}

type program struct {
	shaders  []gfx.Shader
	linked   bool
	log      string
	attribs  map[string]gfx.Attrib
	uniforms map[string]gfx.Uniform
}

// Context records calls made to it. It is not safe for concurrent use.
type Context struct {
	Calls []Call

	next     uint32
	shaders  map[gfx.Shader]*shader
	programs map[gfx.Program]*program
	buffers  map[gfx.Buffer][]byte
	textures map[gfx.Texture]struct{}
	bound    map[gfx.Enum]gfx.Buffer
	current  gfx.Program
	values   map[gfx.Program]map[gfx.Uniform]Call
}

// New creates an empty recording context.
func New() *Context {
	return &Context{
		shaders:  make(map[gfx.Shader]*shader),
		programs: make(map[gfx.Program]*program),
		buffers:  make(map[gfx.Buffer][]byte),
		textures: make(map[gfx.Texture]struct{}),
		bound:    make(map[gfx.Enum]gfx.Buffer),
		values:   make(map[gfx.Program]map[gfx.Uniform]Call),
	}
}

var _ gfx.Context = (*Context)(nil)

func (c *Context) record(name string, args ...interface{}) {
	c.Calls = append(c.Calls, Call{Name: name, Args: args})
}

func (c *Context) handle() uint32 {
	c.next++
	return c.next
}

// Named returns the recorded calls with the given method name, in order.
func (c *Context) Named(name string) []Call {
	var calls []Call
	for _, call := range c.Calls {
		if call.Name == name {
			calls = append(calls, call)
		}
	}
	return calls
}

// Reset forgets recorded calls but keeps object state.
func (c *Context) Reset() {
	c.Calls = nil
}

// Current is the program selected by the last UseProgram.
func (c *Context) Current() gfx.Program {
	return c.current
}

// Live counts objects that were created and not yet deleted.
func (c *Context) Live() (shaders, programs, buffers, textures int) {
	return len(c.shaders), len(c.programs), len(c.buffers), len(c.textures)
}

// Contents returns the data last uploaded into b.
func (c *Context) Contents(b gfx.Buffer) []byte {
	return c.buffers[b]
}

// Bound returns the buffer bound to target.
func (c *Context) Bound(target gfx.Enum) gfx.Buffer {
	return c.bound[target]
}

// UniformCall returns the last call that set the named uniform of program p.
func (c *Context) UniformCall(p gfx.Program, name string) (Call, bool) {
	prog, ok := c.programs[p]
	if !ok {
		return Call{}, false
	}
	loc, ok := prog.uniforms[name]
	if !ok {
		return Call{}, false
	}
	call, ok := c.values[p][loc]
	return call, ok
}

// Floats decodes native-endian float32 data as uploaded by BufferData.
func Floats(data []byte) []float32 {
	out := make([]float32, len(data)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.NativeEndian.Uint32(data[i*4:]))
	}
	return out
}

// Uint16s decodes native-endian index data.
func Uint16s(data []byte) []uint16 {
	out := make([]uint16, len(data)/2)
	for i := range out {
		out[i] = binary.NativeEndian.Uint16(data[i*2:])
	}
	return out
}

// CreateShader implements interface
func (c *Context) CreateShader(typ gfx.ShaderType) gfx.Shader {
	s := gfx.Shader(c.handle())
	c.shaders[s] = &shader{typ: typ}
	c.record("CreateShader", typ)
	return s
}

// ShaderSource implements interface
func (c *Context) ShaderSource(s gfx.Shader, src string) {
	c.record("ShaderSource", s, src)
	if sh, ok := c.shaders[s]; ok {
		sh.source = src
	}
}

// CompileShader implements interface
func (c *Context) CompileShader(s gfx.Shader) {
	c.record("CompileShader", s)
	sh, ok := c.shaders[s]
	if !ok {
		return
	}
	sh.compiled, sh.log = true, ""
	for _, line := range strings.Split(sh.source, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "#error") {
			sh.compiled = false
			sh.log = "ERROR: 0:1: " + strings.TrimSpace(strings.TrimPrefix(line, "#error"))
			return
		}
	}
}

// ShaderCompiled implements interface
func (c *Context) ShaderCompiled(s gfx.Shader) bool {
	sh, ok := c.shaders[s]
	return ok && sh.compiled
}

// ShaderInfoLog implements interface
func (c *Context) ShaderInfoLog(s gfx.Shader) string {
	if sh, ok := c.shaders[s]; ok {
		return sh.log
	}
	return ""
}

// DeleteShader implements interface
func (c *Context) DeleteShader(s gfx.Shader) {
	c.record("DeleteShader", s)
	delete(c.shaders, s)
}

// CreateProgram implements interface
func (c *Context) CreateProgram() gfx.Program {
	p := gfx.Program(c.handle())
	c.programs[p] = &program{}
	c.record("CreateProgram")
	return p
}

// AttachShader implements interface
func (c *Context) AttachShader(p gfx.Program, s gfx.Shader) {
	c.record("AttachShader", p, s)
	if prog, ok := c.programs[p]; ok {
		prog.shaders = append(prog.shaders, s)
	}
}

// DetachShader implements interface
func (c *Context) DetachShader(p gfx.Program, s gfx.Shader) {
	c.record("DetachShader", p, s)
	prog, ok := c.programs[p]
	if !ok {
		return
	}
	for i, attached := range prog.shaders {
		if attached == s {
			prog.shaders = append(prog.shaders[:i], prog.shaders[i+1:]...)
			return
		}
	}
}

// LinkProgram implements interface
func (c *Context) LinkProgram(p gfx.Program) {
	c.record("LinkProgram", p)
	prog, ok := c.programs[p]
	if !ok {
		return
	}
	prog.linked, prog.log = false, ""
	prog.attribs = make(map[string]gfx.Attrib)
	prog.uniforms = make(map[string]gfx.Uniform)

	stages := make(map[gfx.ShaderType]*shader)
	for _, s := range prog.shaders {
		sh, ok := c.shaders[s]
		if !ok || !sh.compiled {
			prog.log = "ERROR: attached shader is not compiled"
			return
		}
		stages[sh.typ] = sh
	}
	for _, typ := range []gfx.ShaderType{gfx.VertexShaderType, gfx.FragmentShaderType} {
		sh, ok := stages[typ]
		if !ok {
			prog.log = fmt.Sprintf("ERROR: missing %s shader", typ)
			return
		}
		if !strings.Contains(sh.source, "void main") {
			prog.log = fmt.Sprintf("ERROR: %s shader does not define main", typ)
			return
		}
	}

	for _, name := range declarations(stages[gfx.VertexShaderType].source, "attribute", "in") {
		if _, ok := prog.attribs[name]; !ok {
			prog.attribs[name] = gfx.Attrib(len(prog.attribs))
		}
	}
	for _, typ := range []gfx.ShaderType{gfx.VertexShaderType, gfx.FragmentShaderType} {
		for _, name := range declarations(stages[typ].source, "uniform") {
			if _, ok := prog.uniforms[name]; !ok {
				prog.uniforms[name] = gfx.Uniform(len(prog.uniforms))
			}
		}
	}
	prog.linked = true
}

// declarations lists the variable names declared with one of the qualifiers.
func declarations(source string, qualifiers ...string) []string {
	var names []string
	for _, line := range strings.Split(source, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "layout") {
			if i := strings.Index(line, ")"); i >= 0 {
				line = strings.TrimSpace(line[i+1:])
			}
		}
		end := strings.Index(line, ";")
		if end < 0 {
			continue
		}
		fields := strings.Fields(line[:end])
		if len(fields) < 3 {
			continue
		}
		for _, q := range qualifiers {
			if fields[0] == q {
				name := fields[len(fields)-1]
				if i := strings.Index(name, "["); i >= 0 {
					name = name[:i]
				}
				names = append(names, name)
				break
			}
		}
	}
	return names
}

// ProgramLinked implements interface
func (c *Context) ProgramLinked(p gfx.Program) bool {
	prog, ok := c.programs[p]
	return ok && prog.linked
}

// ProgramInfoLog implements interface
func (c *Context) ProgramInfoLog(p gfx.Program) string {
	if prog, ok := c.programs[p]; ok {
		return prog.log
	}
	return ""
}

// UseProgram implements interface
func (c *Context) UseProgram(p gfx.Program) {
	c.record("UseProgram", p)
	c.current = p
}

// DeleteProgram implements interface
func (c *Context) DeleteProgram(p gfx.Program) {
	c.record("DeleteProgram", p)
	delete(c.programs, p)
	delete(c.values, p)
	if c.current == p {
		c.current = 0
	}
}

// GetAttribLocation implements interface
func (c *Context) GetAttribLocation(p gfx.Program, name string) gfx.Attrib {
	prog, ok := c.programs[p]
	if !ok || !prog.linked {
		return gfx.NoAttrib
	}
	if a, ok := prog.attribs[name]; ok {
		return a
	}
	return gfx.NoAttrib
}

// GetUniformLocation implements interface
func (c *Context) GetUniformLocation(p gfx.Program, name string) gfx.Uniform {
	prog, ok := c.programs[p]
	if !ok || !prog.linked {
		return gfx.NoUniform
	}
	if u, ok := prog.uniforms[name]; ok {
		return u
	}
	return gfx.NoUniform
}

// CreateBuffer implements interface
func (c *Context) CreateBuffer() gfx.Buffer {
	b := gfx.Buffer(c.handle())
	c.buffers[b] = nil
	c.record("CreateBuffer")
	return b
}

// BindBuffer implements interface
func (c *Context) BindBuffer(target gfx.Enum, b gfx.Buffer) {
	c.record("BindBuffer", target, b)
	c.bound[target] = b
}

// BufferData implements interface
func (c *Context) BufferData(target gfx.Enum, data []byte, usage gfx.Enum) {
	contents := append([]byte(nil), data...)
	c.record("BufferData", target, contents, usage)
	if b := c.bound[target]; b != 0 {
		c.buffers[b] = contents
	}
}

// DeleteBuffer implements interface
func (c *Context) DeleteBuffer(b gfx.Buffer) {
	c.record("DeleteBuffer", b)
	delete(c.buffers, b)
	for target, bound := range c.bound {
		if bound == b {
			delete(c.bound, target)
		}
	}
}

// EnableVertexAttribArray implements interface
func (c *Context) EnableVertexAttribArray(a gfx.Attrib) {
	c.record("EnableVertexAttribArray", a)
}

// DisableVertexAttribArray implements interface
func (c *Context) DisableVertexAttribArray(a gfx.Attrib) {
	c.record("DisableVertexAttribArray", a)
}

// VertexAttribPointer implements interface
func (c *Context) VertexAttribPointer(a gfx.Attrib, size int, typ gfx.Enum, normalized bool, stride, offset int) {
	c.record("VertexAttribPointer", a, size, typ, normalized, stride, offset, c.bound[gfx.ArrayBuffer])
}

// VertexAttrib4f implements interface
func (c *Context) VertexAttrib4f(a gfx.Attrib, x, y, z, w float32) {
	c.record("VertexAttrib4f", a, x, y, z, w)
}

func (c *Context) setUniform(name string, u gfx.Uniform, args ...interface{}) {
	call := Call{Name: name, Args: append([]interface{}{u}, args...)}
	c.Calls = append(c.Calls, call)
	if !u.Valid() {
		return
	}
	if c.values[c.current] == nil {
		c.values[c.current] = make(map[gfx.Uniform]Call)
	}
	c.values[c.current][u] = call
}

// Uniform1f implements interface
func (c *Context) Uniform1f(u gfx.Uniform, x float32) { c.setUniform("Uniform1f", u, x) }

// Uniform2f implements interface
func (c *Context) Uniform2f(u gfx.Uniform, x, y float32) { c.setUniform("Uniform2f", u, x, y) }

// Uniform3f implements interface
func (c *Context) Uniform3f(u gfx.Uniform, x, y, z float32) { c.setUniform("Uniform3f", u, x, y, z) }

// Uniform4f implements interface
func (c *Context) Uniform4f(u gfx.Uniform, x, y, z, w float32) {
	c.setUniform("Uniform4f", u, x, y, z, w)
}

// Uniform1i implements interface
func (c *Context) Uniform1i(u gfx.Uniform, x int32) { c.setUniform("Uniform1i", u, x) }

// Uniform2i implements interface
func (c *Context) Uniform2i(u gfx.Uniform, x, y int32) { c.setUniform("Uniform2i", u, x, y) }

// Uniform3i implements interface
func (c *Context) Uniform3i(u gfx.Uniform, x, y, z int32) { c.setUniform("Uniform3i", u, x, y, z) }

// Uniform4i implements interface
func (c *Context) Uniform4i(u gfx.Uniform, x, y, z, w int32) {
	c.setUniform("Uniform4i", u, x, y, z, w)
}

// Uniform1fv implements interface
func (c *Context) Uniform1fv(u gfx.Uniform, v []float32) {
	c.setUniform("Uniform1fv", u, append([]float32(nil), v...))
}

// Uniform2fv implements interface
func (c *Context) Uniform2fv(u gfx.Uniform, v []float32) {
	c.setUniform("Uniform2fv", u, append([]float32(nil), v...))
}

// Uniform3fv implements interface
func (c *Context) Uniform3fv(u gfx.Uniform, v []float32) {
	c.setUniform("Uniform3fv", u, append([]float32(nil), v...))
}

// Uniform4fv implements interface
func (c *Context) Uniform4fv(u gfx.Uniform, v []float32) {
	c.setUniform("Uniform4fv", u, append([]float32(nil), v...))
}

// Uniform1iv implements interface
func (c *Context) Uniform1iv(u gfx.Uniform, v []int32) {
	c.setUniform("Uniform1iv", u, append([]int32(nil), v...))
}

// Uniform2iv implements interface
func (c *Context) Uniform2iv(u gfx.Uniform, v []int32) {
	c.setUniform("Uniform2iv", u, append([]int32(nil), v...))
}

// Uniform3iv implements interface
func (c *Context) Uniform3iv(u gfx.Uniform, v []int32) {
	c.setUniform("Uniform3iv", u, append([]int32(nil), v...))
}

// Uniform4iv implements interface
func (c *Context) Uniform4iv(u gfx.Uniform, v []int32) {
	c.setUniform("Uniform4iv", u, append([]int32(nil), v...))
}

// UniformMatrix2fv implements interface
func (c *Context) UniformMatrix2fv(u gfx.Uniform, transpose bool, v []float32) {
	c.setUniform("UniformMatrix2fv", u, transpose, append([]float32(nil), v...))
}

// UniformMatrix3fv implements interface
func (c *Context) UniformMatrix3fv(u gfx.Uniform, transpose bool, v []float32) {
	c.setUniform("UniformMatrix3fv", u, transpose, append([]float32(nil), v...))
}

// UniformMatrix4fv implements interface
func (c *Context) UniformMatrix4fv(u gfx.Uniform, transpose bool, v []float32) {
	c.setUniform("UniformMatrix4fv", u, transpose, append([]float32(nil), v...))
}

// CreateTexture implements interface
func (c *Context) CreateTexture() gfx.Texture {
	t := gfx.Texture(c.handle())
	c.textures[t] = struct{}{}
	c.record("CreateTexture")
	return t
}

// ActiveTexture implements interface
func (c *Context) ActiveTexture(unit gfx.Enum) { c.record("ActiveTexture", unit) }

// BindTexture implements interface
func (c *Context) BindTexture(target gfx.Enum, t gfx.Texture) { c.record("BindTexture", target, t) }

// TexParameteri implements interface
func (c *Context) TexParameteri(target, pname gfx.Enum, param int32) {
	c.record("TexParameteri", target, pname, param)
}

// TexImage2D implements interface
func (c *Context) TexImage2D(target gfx.Enum, level, width, height int, pix []uint8) {
	c.record("TexImage2D", target, level, width, height, len(pix))
}

// DeleteTexture implements interface
func (c *Context) DeleteTexture(t gfx.Texture) {
	c.record("DeleteTexture", t)
	delete(c.textures, t)
}

// Viewport implements interface
func (c *Context) Viewport(x, y, width, height int) { c.record("Viewport", x, y, width, height) }

// ClearColor implements interface
func (c *Context) ClearColor(r, g, b, a float32) { c.record("ClearColor", r, g, b, a) }

// Clear implements interface
func (c *Context) Clear(mask gfx.Enum) { c.record("Clear", mask) }

// Enable implements interface
func (c *Context) Enable(cap gfx.Enum) { c.record("Enable", cap) }

// Disable implements interface
func (c *Context) Disable(cap gfx.Enum) { c.record("Disable", cap) }

// BlendFunc implements interface
func (c *Context) BlendFunc(sfactor, dfactor gfx.Enum) { c.record("BlendFunc", sfactor, dfactor) }

// DrawArrays implements interface
func (c *Context) DrawArrays(mode gfx.Enum, first, count int) {
	c.record("DrawArrays", mode, first, count)
}

// DrawElements implements interface
func (c *Context) DrawElements(mode gfx.Enum, count int, typ gfx.Enum, offset int) {
	c.record("DrawElements", mode, count, typ, offset)
}

// Flush implements interface
func (c *Context) Flush() { c.record("Flush") }
