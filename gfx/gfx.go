// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package gfx defines the graphics API surface that renderers are built on.
// It is the WebGL 1 subset the draw package needs, expressed so that both a
// desktop OpenGL backend and a browser WebGL backend can implement it.
// All calls on a Context must happen on the goroutine that owns it.
package gfx

// Releasable defines any memory-occupying item that can be freed.
type Releasable interface {

	// Release releases memory occupied by the implementing structure.
	Release()
}

// Enum is a GL enumeration value. Values are shared by OpenGL and WebGL.
type Enum uint32

// Enumerations used by the pipeline.
const (
	Triangles Enum = 0x0004

	Byte          Enum = 0x1400
	UnsignedByte  Enum = 0x1401
	Short         Enum = 0x1402
	UnsignedShort Enum = 0x1403
	Int           Enum = 0x1404
	UnsignedInt   Enum = 0x1405
	Float         Enum = 0x1406

	ArrayBuffer        Enum = 0x8892
	ElementArrayBuffer Enum = 0x8893
	StaticDraw         Enum = 0x88E4
	StreamDraw         Enum = 0x88E0
	DynamicDraw        Enum = 0x88E8

	FragmentShader Enum = 0x8B30
	VertexShader   Enum = 0x8B31

	Texture2D        Enum = 0x0DE1
	Texture0         Enum = 0x84C0
	TextureMagFilter Enum = 0x2800
	TextureMinFilter Enum = 0x2801
	TextureWrapS     Enum = 0x2802
	TextureWrapT     Enum = 0x2803
	Nearest          Enum = 0x2600
	Linear           Enum = 0x2601
	ClampToEdge      Enum = 0x812F
	Repeat           Enum = 0x2901
	RGBA             Enum = 0x1908

	ColorBufferBit Enum = 0x4000

	CullFace         Enum = 0x0B44
	Blend            Enum = 0x0BE2
	SrcAlpha         Enum = 0x0302
	OneMinusSrcAlpha Enum = 0x0303
)

// SizeOf returns the byte size of one component of a vertex attribute type.
func SizeOf(t Enum) int {
	switch t {
	case Byte, UnsignedByte:
		return 1
	case Short, UnsignedShort:
		return 2
	case Int, UnsignedInt, Float:
		return 4
	}
	return 0
}

// ShaderType represents the stage a shader is compiled for.
type ShaderType int

// Identifies shader objects with their types
const (
	VertexShaderType ShaderType = iota
	FragmentShaderType
	UnknownShaderType
)

// Enum returns the GL shader type enumeration.
func (t ShaderType) Enum() Enum {
	switch t {
	case VertexShaderType:
		return VertexShader
	case FragmentShaderType:
		return FragmentShader
	}
	return 0
}

func (t ShaderType) String() string {
	switch t {
	case VertexShaderType:
		return "vertex"
	case FragmentShaderType:
		return "fragment"
	}
	return "unknown"
}

// Object handles are assigned by the backend. Zero is never a valid object.
type (
	Shader  uint32
	Program uint32
	Buffer  uint32
	Texture uint32
)

// Attrib is a vertex attribute location.
type Attrib int32

// Uniform is a uniform location.
type Uniform int32

// Locations returned for names the program does not declare or use.
const (
	NoAttrib  Attrib  = -1
	NoUniform Uniform = -1
)

// Valid reports whether the location refers to an active attribute.
func (a Attrib) Valid() bool { return a >= 0 }

// Valid reports whether the location refers to an active uniform.
func (u Uniform) Valid() bool { return u >= 0 }

// Context is a GL rendering context.
type Context interface {
	CreateShader(ShaderType) Shader
	ShaderSource(Shader, string)
	CompileShader(Shader)
	// ShaderCompiled reports the compile status of the shader.
	ShaderCompiled(Shader) bool
	ShaderInfoLog(Shader) string
	DeleteShader(Shader)

	CreateProgram() Program
	AttachShader(Program, Shader)
	DetachShader(Program, Shader)
	LinkProgram(Program)
	// ProgramLinked reports the link status of the program.
	ProgramLinked(Program) bool
	ProgramInfoLog(Program) string
	UseProgram(Program)
	DeleteProgram(Program)

	// GetAttribLocation returns NoAttrib when the program has no such attribute.
	GetAttribLocation(Program, string) Attrib
	// GetUniformLocation returns NoUniform when the program has no such uniform.
	GetUniformLocation(Program, string) Uniform

	CreateBuffer() Buffer
	BindBuffer(target Enum, b Buffer)
	BufferData(target Enum, data []byte, usage Enum)
	DeleteBuffer(Buffer)

	EnableVertexAttribArray(Attrib)
	DisableVertexAttribArray(Attrib)
	VertexAttribPointer(a Attrib, size int, typ Enum, normalized bool, stride, offset int)
	VertexAttrib4f(a Attrib, x, y, z, w float32)

	Uniform1f(u Uniform, x float32)
	Uniform2f(u Uniform, x, y float32)
	Uniform3f(u Uniform, x, y, z float32)
	Uniform4f(u Uniform, x, y, z, w float32)
	Uniform1i(u Uniform, x int32)
	Uniform2i(u Uniform, x, y int32)
	Uniform3i(u Uniform, x, y, z int32)
	Uniform4i(u Uniform, x, y, z, w int32)
	Uniform1fv(u Uniform, v []float32)
	Uniform2fv(u Uniform, v []float32)
	Uniform3fv(u Uniform, v []float32)
	Uniform4fv(u Uniform, v []float32)
	Uniform1iv(u Uniform, v []int32)
	Uniform2iv(u Uniform, v []int32)
	Uniform3iv(u Uniform, v []int32)
	Uniform4iv(u Uniform, v []int32)
	UniformMatrix2fv(u Uniform, transpose bool, v []float32)
	UniformMatrix3fv(u Uniform, transpose bool, v []float32)
	UniformMatrix4fv(u Uniform, transpose bool, v []float32)

	CreateTexture() Texture
	ActiveTexture(unit Enum)
	BindTexture(target Enum, t Texture)
	TexParameteri(target, pname Enum, param int32)
	// TexImage2D uploads tightly packed RGBA pixels with unsigned byte components.
	TexImage2D(target Enum, level, width, height int, pix []uint8)
	DeleteTexture(Texture)

	Viewport(x, y, width, height int)
	ClearColor(r, g, b, a float32)
	Clear(mask Enum)
	Enable(cap Enum)
	Disable(cap Enum)
	BlendFunc(sfactor, dfactor Enum)
	DrawArrays(mode Enum, first, count int)
	DrawElements(mode Enum, count int, typ Enum, offset int)
	Flush()
}
