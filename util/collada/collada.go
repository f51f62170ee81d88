// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package collada decodes the geometry library of Collada (.dae) documents.
package collada

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Semantics of the inputs used by meshes
const (
	SemanticVertex   = "VERTEX"
	SemanticPosition = "POSITION"
	SemanticNormal   = "NORMAL"
)

// package errors
var (
	ErrNoGeometry = errors.New("geometry not found")
	ErrNoSource   = errors.New("source not found")
	ErrBadIndex   = errors.New("index out of range")
)

// Collada is the top-level Collada object
type Collada struct {
	Geometries []Geometry `xml:"library_geometries>geometry"`
}

// Decode parses a Collada document.
func Decode(data []byte) (*Collada, error) {
	var c Collada
	if err := xml.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Geometry returns the geometry with the given id, or the first one
// when id is empty.
func (c *Collada) Geometry(id string) (*Geometry, error) {
	for i := range c.Geometries {
		if id == "" || c.Geometries[i].ID == id || c.Geometries[i].Name == id {
			return &c.Geometries[i], nil
		}
	}
	if id == "" {
		return nil, ErrNoGeometry
	}
	return nil, fmt.Errorf("%w: %s", ErrNoGeometry, id)
}

// Geometry represents Collada's geometry
type Geometry struct {
	Mesh Mesh   `xml:"mesh"`
	ID   string `xml:"id,attr"`
	Name string `xml:"name,attr"`
}

// Mesh contains all the primitive data
type Mesh struct {
	Source    []Source    `xml:"source"`
	Vertices  Vertices    `xml:"vertices"`
	Triangles []Triangles `xml:"triangles"`
}

// Source links to other sources where data is present
type Source struct {
	ID       string   `xml:"id,attr"`
	Floats   Floats   `xml:"float_array"`
	Accessor Accessor `xml:"technique_common>accessor"`
}

// Accessor describes how a source's array is read
type Accessor struct {
	Count  int `xml:"count,attr"`
	Stride int `xml:"stride,attr"`
}

// Floats is the array of floats
type Floats struct {
	ID    string
	Count int
	Data  []float32
}

// UnmarshalXML unmarshals the array of floats
func (f *Floats) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "id":
			f.ID = attr.Value
		case "count":
			num, err := strconv.Atoi(attr.Value)
			if err != nil {
				return err
			}
			f.Count = num
		}
	}
	var raw string
	if err := d.DecodeElement(&raw, &start); err != nil {
		return err
	}
	fields := strings.Fields(raw)
	f.Data = make([]float32, 0, len(fields))
	for _, r := range fields {
		num, err := strconv.ParseFloat(r, 32)
		if err != nil {
			return err
		}
		f.Data = append(f.Data, float32(num))
	}
	return nil
}

// Vertices contains the list of vertices
type Vertices struct {
	ID     string  `xml:"id,attr"`
	Inputs []Input `xml:"input"`
}

// Triangles contain the list of triangles
type Triangles struct {
	Count    int     `xml:"count,attr"`
	Material string  `xml:"material,attr"`
	Inputs   []Input `xml:"input"`
	Index    []int
}

// UnmarshalXML parses the index list
func (t *Triangles) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "count":
			num, err := strconv.Atoi(attr.Value)
			if err != nil {
				return err
			}
			t.Count = num
		case "material":
			t.Material = attr.Value
		}
	}

	for {
		token, err := d.Token()
		if err != nil {
			return err
		}

		switch el := token.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "input":
				var input Input
				if err := d.DecodeElement(&input, &el); err != nil {
					return err
				}
				t.Inputs = append(t.Inputs, input)
			case "p":
				var raw string
				if err := d.DecodeElement(&raw, &el); err != nil {
					return err
				}
				fields := strings.Fields(raw)
				ints := make([]int, 0, len(fields))
				for _, r := range fields {
					num, err := strconv.Atoi(r)
					if err != nil {
						return err
					}
					ints = append(ints, num)
				}
				t.Index = ints
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if el == start.End() {
				return nil
			}
		}
	}
}

// Stride is the number of index values per triangle corner.
func (t *Triangles) Stride() int {
	stride := 0
	for _, in := range t.Inputs {
		if int(in.Offset)+1 > stride {
			stride = int(in.Offset) + 1
		}
	}
	return stride
}

// Input is Collada'a input type
type Input struct {
	Semantic string `xml:"semantic,attr"`
	Source   string `xml:"source,attr"`
	Offset   uint   `xml:"offset,attr"`
}

func (m *Mesh) source(ref string) (*Source, error) {
	id := strings.TrimPrefix(ref, "#")
	for i := range m.Source {
		if m.Source[i].ID == id {
			return &m.Source[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNoSource, ref)
}

// positions resolves the position source a triangle VERTEX input points at.
func (m *Mesh) positions(in Input) (*Source, error) {
	if strings.TrimPrefix(in.Source, "#") != m.Vertices.ID {
		return m.source(in.Source)
	}
	for _, vin := range m.Vertices.Inputs {
		if vin.Semantic == SemanticPosition {
			return m.source(vin.Source)
		}
	}
	return nil, fmt.Errorf("%w: no %s input in %s", ErrNoSource, SemanticPosition, m.Vertices.ID)
}

// TrianglePositions flattens every triangle list of the mesh into
// x, y, z triples, three corners per triangle.
func (m *Mesh) TrianglePositions() ([]float32, error) {
	var out []float32
	for _, tris := range m.Triangles {
		var vertexInput *Input
		for i := range tris.Inputs {
			if tris.Inputs[i].Semantic == SemanticVertex {
				vertexInput = &tris.Inputs[i]
				break
			}
		}
		if vertexInput == nil {
			return nil, fmt.Errorf("%w: triangles without %s input", ErrNoSource, SemanticVertex)
		}
		src, err := m.positions(*vertexInput)
		if err != nil {
			return nil, err
		}
		components := src.Accessor.Stride
		if components == 0 {
			components = 3
		}

		stride := tris.Stride()
		for corner := 0; corner+stride <= len(tris.Index); corner += stride {
			idx := tris.Index[corner+int(vertexInput.Offset)]
			start := idx * components
			if idx < 0 || start+3 > len(src.Floats.Data) {
				return nil, fmt.Errorf("%w: %d in %s", ErrBadIndex, idx, src.ID)
			}
			out = append(out, src.Floats.Data[start:start+3]...)
		}
	}
	return out, nil
}
