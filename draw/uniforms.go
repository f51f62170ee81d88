// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package draw

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/devblok/glstage/gfx"
)

// SetUniform sets a float uniform of the current program.
// A name the program does not declare is reported and ignored.
func (s *Session) SetUniform(name string, kind UniformKind, values ...float32) error {
	if err := s.usable(); err != nil {
		return err
	}
	set, ok := floatSetters[kind]
	if !ok {
		return fmt.Errorf("%w: %s takes integer values", ErrUniformKind, kind)
	}
	if err := kind.check(len(values)); err != nil {
		return err
	}
	if u, ok := s.uniform(name); ok {
		set(s.ctx, u, values)
	}
	return nil
}

// SetUniformInt sets an integer uniform of the current program.
func (s *Session) SetUniformInt(name string, kind UniformKind, values ...int32) error {
	if err := s.usable(); err != nil {
		return err
	}
	set, ok := intSetters[kind]
	if !ok {
		return fmt.Errorf("%w: %s takes float values", ErrUniformKind, kind)
	}
	if err := kind.check(len(values)); err != nil {
		return err
	}
	if u, ok := s.uniform(name); ok {
		set(s.ctx, u, values)
	}
	return nil
}

// SetUniformMatrix sets a size x size matrix uniform, or an array of them.
func (s *Session) SetUniformMatrix(name string, size int, transpose bool, values []float32) error {
	if err := s.usable(); err != nil {
		return err
	}
	var set func(gfx.Uniform, bool, []float32)
	switch size {
	case 2:
		set = s.ctx.UniformMatrix2fv
	case 3:
		set = s.ctx.UniformMatrix3fv
	case 4:
		set = s.ctx.UniformMatrix4fv
	default:
		return fmt.Errorf("%w: %dx%d matrix", ErrUniformKind, size, size)
	}
	if n := len(values); n == 0 || n%(size*size) != 0 {
		return fmt.Errorf("%w: %dx%d matrix, got %d", ErrUniformValues, size, size, n)
	}
	if u, ok := s.uniform(name); ok {
		set(u, transpose, values)
	}
	return nil
}

// SetProjection publishes an orthographic projection mapping pixel
// coordinates, origin top left, to clip space. It does nothing unless a
// projection uniform name is configured.
func (s *Session) SetProjection(width, height int) error {
	if s.names.Projection == "" {
		return nil
	}
	m := mgl32.Ortho2D(0, float32(width), float32(height), 0)
	return s.SetUniformMatrix(s.names.Projection, 4, false, m[:])
}

func (s *Session) usable() error {
	if s.released {
		return ErrReleased
	}
	if !s.program.Valid() {
		return ErrNoProgram
	}
	return nil
}
