// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package draw

import (
	"github.com/devblok/glstage/resource"
)

// Scene is one frame worth of commands.
type Scene struct {
	Clear    ColorF
	Commands []Command
}

// Command is a single step of a Scene.
type Command interface {
	apply(s *Session) error
}

// Triangles draws a triangle list.
type Triangles struct {
	Positions []float32
	Options   AttribOptions
	// Colors, when set, holds one color per vertex.
	Colors []Color8
}

func (c Triangles) apply(s *Session) error {
	if len(c.Colors) > 0 {
		return s.DrawColoredTrianglesWith(c.Positions, c.Colors, c.Options)
	}
	return s.DrawTrianglesWith(c.Positions, c.Options)
}

// Rectangle draws an axis-aligned rectangle, optionally in a solid color.
type Rectangle struct {
	X, Y, W, H float32
	Color      *Color8
}

func (c Rectangle) apply(s *Session) error {
	if c.Color != nil {
		return s.DrawColoredRectangle(c.X, c.Y, c.W, c.H, *c.Color)
	}
	return s.DrawRectangle(c.X, c.Y, c.W, c.H)
}

// TexturedRectangle draws an image. Zero W or H use the image size.
type TexturedRectangle struct {
	Image      *resource.Image
	X, Y, W, H float32
}

func (c TexturedRectangle) apply(s *Session) error {
	return s.DrawTexturedRectangle(c.Image, c.X, c.Y, c.W, c.H)
}

// Indexed draws indexed triangles from interleaved vertices.
type Indexed struct {
	Vertices []float32
	Indices  []uint16
	Layout   []Binding
	Colors   []Color8
}

func (c Indexed) apply(s *Session) error {
	return s.DrawIndexedColored(c.Vertices, c.Indices, c.Colors, c.Layout...)
}

// UniformValue sets a uniform between draws. Ints is used for integer kinds,
// Floats for the rest.
type UniformValue struct {
	Name   string
	Kind   UniformKind
	Floats []float32
	Ints   []int32
}

func (c UniformValue) apply(s *Session) error {
	if c.Kind.Int() {
		return s.SetUniformInt(c.Name, c.Kind, c.Ints...)
	}
	return s.SetUniform(c.Name, c.Kind, c.Floats...)
}
