// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package draw turns loaded resources into GL draw calls. A Session owns one
// linked program, the textures made from loaded images and a pool of vertex
// buffers reused every frame. Draws happen between BeginFrame and EndFrame.
//
// A Session is not safe for concurrent use and must stay on the goroutine
// that owns its gfx.Context.
package draw

import (
	log "github.com/sirupsen/logrus"

	"github.com/devblok/glstage/gfx"
	"github.com/devblok/glstage/resource"
)

// Program is a compiled and linked shader program owned by a Session.
// The zero value is not a program.
type Program struct {
	handle gfx.Program
}

// Valid reports whether p refers to a linked program.
func (p Program) Valid() bool {
	return p.handle != 0
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used for debug output and default warnings.
func WithLogger(logger log.FieldLogger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithNames overrides the attribute and uniform naming convention.
func WithNames(names Names) Option {
	return func(s *Session) {
		s.names = names
	}
}

// WithWarningHandler replaces logging of binding warnings.
func WithWarningHandler(fn func(BindingWarning)) Option {
	return func(s *Session) {
		s.warn = fn
	}
}

// Session issues draws against a gfx.Context.
type Session struct {
	ctx    gfx.Context
	logger log.FieldLogger
	names  Names
	warn   func(BindingWarning)

	program  Program
	attribs  map[string]gfx.Attrib
	uniforms map[string]gfx.Uniform
	enabled  []gfx.Attrib

	loaded   *resource.Loaded
	textures map[*resource.Image]gfx.Texture
	vertices bufferPool
	indices  bufferPool

	inFrame  bool
	frameW   int
	frameH   int
	released bool
}

// NewSession creates a session drawing into ctx.
func NewSession(ctx gfx.Context, opts ...Option) *Session {
	s := &Session{
		ctx:      ctx,
		logger:   log.StandardLogger(),
		names:    DefaultNames(),
		textures: make(map[*resource.Image]gfx.Texture),
		vertices: bufferPool{target: gfx.ArrayBuffer},
		indices:  bufferPool{target: gfx.ElementArrayBuffer},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.warn == nil {
		s.warn = func(w BindingWarning) {
			s.logger.WithFields(log.Fields{
				"kind": w.Kind,
				"name": w.Name,
			}).Warn("binding not found in program, skipped")
		}
	}
	s.resetBindings()
	return s
}

// Prepare compiles the loaded shader sources and keeps the loaded images
// for textured draws.
func (s *Session) Prepare(loaded *resource.Loaded) (Program, error) {
	if loaded == nil {
		return Program{}, ErrNotLoaded
	}
	p, err := s.Compile(loaded.VertexSource, loaded.FragmentSource)
	if err != nil {
		return Program{}, err
	}
	if s.loaded != nil && s.loaded != loaded {
		s.releaseTextures(loaded)
	}
	s.loaded = loaded
	return p, nil
}

// Loaded returns the resources of the last successful Prepare.
func (s *Session) Loaded() *resource.Loaded {
	return s.loaded
}

// Program returns the current program.
func (s *Session) Program() Program {
	return s.program
}

// Compile builds a program from shader sources and makes it current. On failure
// every object created along the way is deleted and the previous program
// stays current.
func (s *Session) Compile(vertex, fragment string) (Program, error) {
	if s.released {
		return Program{}, ErrReleased
	}

	vs, err := s.compileShader(gfx.VertexShaderType, vertex)
	if err != nil {
		return Program{}, err
	}
	defer s.ctx.DeleteShader(vs)
	fs, err := s.compileShader(gfx.FragmentShaderType, fragment)
	if err != nil {
		return Program{}, err
	}
	defer s.ctx.DeleteShader(fs)

	p := s.ctx.CreateProgram()
	s.ctx.AttachShader(p, vs)
	s.ctx.AttachShader(p, fs)
	s.ctx.LinkProgram(p)
	if !s.ctx.ProgramLinked(p) {
		info := s.ctx.ProgramInfoLog(p)
		s.ctx.DeleteProgram(p)
		return Program{}, &ProgramLinkError{Log: info}
	}
	s.ctx.DetachShader(p, vs)
	s.ctx.DetachShader(p, fs)

	if s.program.Valid() {
		s.ctx.DeleteProgram(s.program.handle)
	}
	s.program = Program{handle: p}
	s.resetBindings()
	s.ctx.UseProgram(p)
	if s.inFrame {
		if err := s.publishFrame(); err != nil {
			return s.program, err
		}
	}

	s.logger.WithField("program", p).Debug("program linked")
	return s.program, nil
}

func (s *Session) compileShader(stage gfx.ShaderType, source string) (gfx.Shader, error) {
	sh := s.ctx.CreateShader(stage)
	s.ctx.ShaderSource(sh, source)
	s.ctx.CompileShader(sh)
	if !s.ctx.ShaderCompiled(sh) {
		info := s.ctx.ShaderInfoLog(sh)
		s.ctx.DeleteShader(sh)
		return 0, &ShaderCompileError{Stage: stage, Log: info}
	}
	return sh, nil
}

func (s *Session) resetBindings() {
	s.attribs = make(map[string]gfx.Attrib)
	s.uniforms = make(map[string]gfx.Uniform)
}

// BeginFrame selects the program, sets the viewport to width x height, clears
// to the given color and publishes the resolution uniform.
func (s *Session) BeginFrame(width, height int, clear ColorF) error {
	if s.released {
		return ErrReleased
	}
	if !s.program.Valid() {
		return ErrNoProgram
	}

	s.ctx.UseProgram(s.program.handle)
	s.ctx.Viewport(0, 0, width, height)
	s.ctx.ClearColor(clear[0], clear[1], clear[2], clear[3])
	s.ctx.Clear(gfx.ColorBufferBit)

	s.frameW, s.frameH = width, height
	if err := s.publishFrame(); err != nil {
		return err
	}

	s.vertices.reset()
	s.indices.reset()
	s.inFrame = true
	return nil
}

// publishFrame sets the resolution and projection uniforms of the current
// program for the frame size.
func (s *Session) publishFrame() error {
	if u, ok := s.uniform(s.names.Resolution); ok {
		s.ctx.Uniform2fv(u, []float32{float32(s.frameW), float32(s.frameH)})
	}
	return s.SetProjection(s.frameW, s.frameH)
}

// EndFrame flushes the draws of the current frame.
func (s *Session) EndFrame() error {
	if !s.inFrame {
		return ErrNoFrame
	}
	s.ctx.Flush()
	s.inFrame = false
	return nil
}

// Render draws a whole scene as one frame. The frame is ended even when a
// command fails.
func (s *Session) Render(width, height int, scene Scene) error {
	if err := s.BeginFrame(width, height, scene.Clear); err != nil {
		return err
	}
	for _, cmd := range scene.Commands {
		if err := cmd.apply(s); err != nil {
			s.EndFrame()
			return err
		}
	}
	return s.EndFrame()
}

func (s *Session) drawable() error {
	if s.released {
		return ErrReleased
	}
	if !s.inFrame {
		return ErrNoFrame
	}
	return nil
}

func (s *Session) attrib(name string) (gfx.Attrib, bool) {
	if name == "" {
		return gfx.NoAttrib, false
	}
	a, ok := s.attribs[name]
	if !ok {
		a = s.ctx.GetAttribLocation(s.program.handle, name)
		s.attribs[name] = a
		if !a.Valid() {
			s.warn(BindingWarning{Kind: "attribute", Name: name})
		}
	}
	return a, a.Valid()
}

func (s *Session) uniform(name string) (gfx.Uniform, bool) {
	if name == "" {
		return gfx.NoUniform, false
	}
	u, ok := s.uniforms[name]
	if !ok {
		u = s.ctx.GetUniformLocation(s.program.handle, name)
		s.uniforms[name] = u
		if !u.Valid() {
			s.warn(BindingWarning{Kind: "uniform", Name: name})
		}
	}
	return u, u.Valid()
}

// bindAttrib points a named attribute at buffer b. Missing attributes are skipped.
func (s *Session) bindAttrib(name string, b gfx.Buffer, opts AttribOptions) {
	a, ok := s.attrib(name)
	if !ok {
		return
	}
	s.ctx.BindBuffer(gfx.ArrayBuffer, b)
	s.ctx.EnableVertexAttribArray(a)
	s.ctx.VertexAttribPointer(a, opts.Size, opts.Type, opts.Normalized, opts.Stride, opts.Offset)
	s.enabled = append(s.enabled, a)
}

func (s *Session) unbindAttribs() {
	for _, a := range s.enabled {
		s.ctx.DisableVertexAttribArray(a)
	}
	s.enabled = s.enabled[:0]
}

// Release deletes every GL object the session created. The session cannot
// be used afterwards.
func (s *Session) Release() {
	if s.released {
		return
	}
	s.releaseTextures(nil)
	s.vertices.release(s.ctx)
	s.indices.release(s.ctx)
	if s.program.Valid() {
		s.ctx.DeleteProgram(s.program.handle)
	}
	s.program = Program{}
	s.loaded = nil
	s.inFrame = false
	s.released = true
}

type bufferPool struct {
	target  gfx.Enum
	buffers []gfx.Buffer
	used    int
}

// upload stores data in the next free buffer of the pool, leaving it bound.
func (p *bufferPool) upload(ctx gfx.Context, data []byte) gfx.Buffer {
	if p.used == len(p.buffers) {
		p.buffers = append(p.buffers, ctx.CreateBuffer())
	}
	b := p.buffers[p.used]
	p.used++
	ctx.BindBuffer(p.target, b)
	ctx.BufferData(p.target, data, gfx.StaticDraw)
	return b
}

func (p *bufferPool) reset() {
	p.used = 0
}

func (p *bufferPool) release(ctx gfx.Context) {
	for _, b := range p.buffers {
		ctx.DeleteBuffer(b)
	}
	p.buffers = nil
	p.used = 0
}
