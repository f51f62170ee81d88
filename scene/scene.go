// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package scene reads YAML scene descriptions: the resources a scene needs
// and the commands that draw it.
//
//	clear: [0, 0, 0, 255]
//	manifest:
//	  vertex: shader/texture.vert
//	  fragment: shader/texture.frag
//	  images: [img/img2.png, img/img1.png]
//	commands:
//	  - image: {image: 0, x: 200, y: 200}
//	  - rectangle: {x: 10, y: 10, w: 50, h: 50, color: [255, 0, 0, 255]}
package scene

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/devblok/glstage/draw"
	"github.com/devblok/glstage/gfx"
	"github.com/devblok/glstage/resource"
)

// package errors
var (
	ErrInvalid      = errors.New("invalid scene")
	ErrUnknownImage = errors.New("image not in manifest")
)

// Description is a parsed scene file.
type Description struct {
	Name      string    `yaml:"name"`
	Clear     Color     `yaml:"clear"`
	Resources Manifest  `yaml:"manifest"`
	Uniforms  []Uniform `yaml:"uniforms"`
	Commands  []Command `yaml:"commands"`
}

// Manifest lists the resources of a scene.
type Manifest struct {
	Vertex   string   `yaml:"vertex"`
	Fragment string   `yaml:"fragment"`
	Images   []string `yaml:"images"`
}

// Color is an 8-bit RGBA color written as a four element list.
type Color []uint8

func (c Color) color8() draw.Color8 {
	return draw.Color8{R: c[0], G: c[1], B: c[2], A: c[3]}
}

// Command is one drawing step. Exactly one field is set.
type Command struct {
	Triangles *Triangles `yaml:"triangles"`
	Rectangle *Rectangle `yaml:"rectangle"`
	Image     *Image     `yaml:"image"`
	Indexed   *Indexed   `yaml:"indexed"`
	Mesh      *Mesh      `yaml:"mesh"`
	Uniform   *Uniform   `yaml:"uniform"`
}

// Triangles draws a triangle list, given either as positions or by sample name.
type Triangles struct {
	Sample    string    `yaml:"sample"`
	Positions []float32 `yaml:"positions"`
	Colors    []Color   `yaml:"colors"`
	Size      int       `yaml:"size"`
	Stride    int       `yaml:"stride"`
	Offset    int       `yaml:"offset"`
}

// Rectangle draws an axis-aligned rectangle.
type Rectangle struct {
	X     float32 `yaml:"x"`
	Y     float32 `yaml:"y"`
	W     float32 `yaml:"w"`
	H     float32 `yaml:"h"`
	Color Color   `yaml:"color"`
}

// Image draws a manifest image. W and H default to the image size.
type Image struct {
	Image ImageRef `yaml:"image"`
	X     float32  `yaml:"x"`
	Y     float32  `yaml:"y"`
	W     float32  `yaml:"w"`
	H     float32  `yaml:"h"`
}

// ImageRef refers to a manifest image by index or by identifier.
type ImageRef struct {
	Index int
	ID    string
}

// UnmarshalYAML implements yaml.Unmarshaler
func (r *ImageRef) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: image reference must be an index or identifier", value.Line)
	}
	if value.ShortTag() == "!!int" {
		index, err := strconv.Atoi(value.Value)
		if err != nil {
			return err
		}
		r.Index, r.ID = index, ""
		return nil
	}
	r.Index, r.ID = -1, value.Value
	return nil
}

// Indexed draws indexed triangles from interleaved vertices.
type Indexed struct {
	Vertices []float32 `yaml:"vertices"`
	Indices  []uint16  `yaml:"indices"`
	Layout   []Binding `yaml:"layout"`
	Colors   []Color   `yaml:"colors"`
}

// Binding places an attribute inside an interleaved vertex.
type Binding struct {
	Name       string `yaml:"name"`
	Size       int    `yaml:"size"`
	Type       string `yaml:"type"`
	Normalized bool   `yaml:"normalized"`
	Stride     int    `yaml:"stride"`
	Offset     int    `yaml:"offset"`
}

// Mesh draws the triangles of a Collada geometry, flattened onto the x/y plane
// after scaling, rotating about z and translating.
type Mesh struct {
	Source    string    `yaml:"source"`
	Geometry  string    `yaml:"geometry"`
	Scale     []float32 `yaml:"scale"`
	Rotate    float32   `yaml:"rotate"`
	Translate []float32 `yaml:"translate"`
	Color     Color     `yaml:"color"`
}

// Uniform sets a uniform, with Kind written as a GL suffix such as "2fv".
type Uniform struct {
	Name   string    `yaml:"name"`
	Kind   string    `yaml:"kind"`
	Values []float64 `yaml:"values"`
}

var samples = map[string]func() []float32{
	"f":         draw.FPositions,
	"unit_quad": draw.UnitQuad,
}

var attribTypes = map[string]gfx.Enum{
	"":               gfx.Float,
	"float":          gfx.Float,
	"byte":           gfx.Byte,
	"unsigned_byte":  gfx.UnsignedByte,
	"short":          gfx.Short,
	"unsigned_short": gfx.UnsignedShort,
}

// Parse decodes and validates a scene description. Unknown keys are errors.
func Parse(data []byte) (*Description, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var d Description
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalid, err.Error())
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Load fetches and parses a scene file.
func Load(ctx context.Context, f resource.Fetcher, id string) (*Description, error) {
	data, err := f.Fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", id, err)
	}
	return d, nil
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

func (d *Description) validate() error {
	if d.Resources.Vertex == "" || d.Resources.Fragment == "" {
		return invalid("manifest needs a vertex and a fragment shader")
	}
	if d.Clear != nil && len(d.Clear) != 4 {
		return invalid("clear color needs 4 channels")
	}
	for i, u := range d.Uniforms {
		if err := u.validate(); err != nil {
			return invalid("uniform %d: %s", i, err.Error())
		}
	}
	for i, cmd := range d.Commands {
		if err := cmd.validate(); err != nil {
			return invalid("command %d: %s", i, err.Error())
		}
	}
	return nil
}

func (c Command) validate() error {
	set := 0
	for _, present := range []bool{
		c.Triangles != nil, c.Rectangle != nil, c.Image != nil,
		c.Indexed != nil, c.Mesh != nil, c.Uniform != nil,
	} {
		if present {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("expected exactly one command, got %d", set)
	}

	switch {
	case c.Triangles != nil:
		if c.Triangles.Sample != "" {
			if _, ok := samples[strings.ToLower(c.Triangles.Sample)]; !ok {
				return fmt.Errorf("unknown sample %q", c.Triangles.Sample)
			}
		} else if len(c.Triangles.Positions) == 0 {
			return errors.New("triangles need positions or a sample")
		}
		return validColors(c.Triangles.Colors)
	case c.Rectangle != nil:
		return validColors(optional(c.Rectangle.Color))
	case c.Indexed != nil:
		if len(c.Indexed.Indices) == 0 {
			return errors.New("indexed needs indices")
		}
		for _, b := range c.Indexed.Layout {
			if _, ok := attribTypes[strings.ToLower(b.Type)]; !ok {
				return fmt.Errorf("unknown attribute type %q", b.Type)
			}
		}
		return validColors(c.Indexed.Colors)
	case c.Mesh != nil:
		if c.Mesh.Source == "" {
			return errors.New("mesh needs a source")
		}
		if n := len(c.Mesh.Scale); n > 2 {
			return errors.New("mesh scale takes one or two values")
		}
		if n := len(c.Mesh.Translate); n != 0 && n != 2 {
			return errors.New("mesh translate takes two values")
		}
		return validColors(optional(c.Mesh.Color))
	case c.Uniform != nil:
		return c.Uniform.validate()
	}
	return nil
}

func optional(c Color) []Color {
	if c == nil {
		return nil
	}
	return []Color{c}
}

func validColors(colors []Color) error {
	for _, c := range colors {
		if len(c) != 4 {
			return fmt.Errorf("color %v needs 4 channels", []uint8(c))
		}
	}
	return nil
}

func (u Uniform) validate() error {
	if u.Name == "" {
		return errors.New("uniform needs a name")
	}
	_, err := draw.ParseUniformKind(u.Kind)
	return err
}

// Manifest returns the resources the scene needs.
func (d *Description) Manifest() resource.Manifest {
	return resource.NewManifest(d.Resources.Vertex, d.Resources.Fragment, d.Resources.Images...)
}
