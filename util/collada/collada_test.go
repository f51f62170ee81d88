// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package collada_test

import (
	"encoding/xml"
	"errors"
	"testing"

	"github.com/devblok/glstage/util/collada"
)

const quad = `<?xml version="1.0" encoding="utf-8"?>
<COLLADA xmlns="http://www.collada.org/2005/11/COLLADASchema" version="1.4.1">
  <library_geometries>
    <geometry id="Plane-mesh" name="Plane">
      <mesh>
        <source id="Plane-mesh-positions">
          <float_array id="Plane-mesh-positions-array" count="12">-1 -1 0 1 -1 0
            -1 1 0 1 1 0</float_array>
          <technique_common>
            <accessor source="#Plane-mesh-positions-array" count="4" stride="3"/>
          </technique_common>
        </source>
        <source id="Plane-mesh-normals">
          <float_array id="Plane-mesh-normals-array" count="3">0 0 1</float_array>
        </source>
        <vertices id="Plane-mesh-vertices">
          <input semantic="POSITION" source="#Plane-mesh-positions"/>
        </vertices>
        <triangles material="Material-material" count="2">
          <input semantic="VERTEX" source="#Plane-mesh-vertices" offset="0"/>
          <input semantic="NORMAL" source="#Plane-mesh-normals" offset="1"/>
          <p>1 0 2 0 0 0 1 0 3 0 2 0</p>
        </triangles>
      </mesh>
    </geometry>
  </library_geometries>
</COLLADA>`

func TestTrianglesDecode(t *testing.T) {
	data := `
		<triangles material="Material-material" count="12">
		<input semantic="VERTEX" source="#Cube-mesh-vertices" offset="0"/>
		<input semantic="NORMAL" source="#Cube-mesh-normals" offset="1"/>
		<p>0 0 2 0 3 0 7 1 5 1 4 1 4 2 1 2 0 2 5 3 2 3 1 3 2 4 7 4 3 4 0 5 7 5 4 5 0 6 1 6 2 6 7 7 6 7 5 7 4 8 5 8 1 8 5 9 6 9 2 9 2 10 6 10 7 10 0 11 3 11 7 11</p>
		</triangles>
	`
	var triangles collada.Triangles
	err := xml.Unmarshal([]byte(data), &triangles)
	if err != nil {
		t.Fatal(err)
	}

	if triangles.Material != "Material-material" {
		t.Fatalf("incorrect material: %s", triangles.Material)
	}

	if triangles.Count != 12 {
		t.Fatalf("incorrect count: %d", triangles.Count)
	}

	if len(triangles.Inputs) != 2 {
		t.Fatalf("number of inputs incorrect: %d", len(triangles.Inputs))
	}

	if len(triangles.Index) != 12*6 {
		t.Fatalf("number of index elements incorrect: %d", len(triangles.Index))
	}

	if triangles.Stride() != 2 {
		t.Fatalf("incorrect stride: %d", triangles.Stride())
	}
}

func TestInputDecode(t *testing.T) {
	data := `
	<object>
		<input semantic="VERTEX" source="#Cube-mesh-vertices" offset="0" />
		<input semantic="NORMAL" source="#Cube-mesh-normals" offset="1" />
		<input semantic="TEXCOORD" source="#Cube-mesh-map-0" offset="2" />
	</object>
	`

	type Object struct {
		XMLName xml.Name        `xml:"object"`
		Inputs  []collada.Input `xml:"input"`
	}

	var obj Object
	if err := xml.Unmarshal([]byte(data), &obj); err != nil {
		t.Fatal(err)
	}

	expected := []collada.Input{
		{Semantic: "VERTEX", Source: "#Cube-mesh-vertices", Offset: 0},
		{Semantic: "NORMAL", Source: "#Cube-mesh-normals", Offset: 1},
		{Semantic: "TEXCOORD", Source: "#Cube-mesh-map-0", Offset: 2},
	}
	for i, in := range expected {
		if obj.Inputs[i] != in {
			t.Errorf("input %d: expected %+v, got %+v", i, in, obj.Inputs[i])
		}
	}
}

func TestFloatsDecode(t *testing.T) {
	data := `<float_array id="Cube-mesh-normals-array" count="36">0 0 -1 0 0 1 1 0 -2.38419e-7 0 -1 -4.76837e-7 -1 2.38419e-7 -1.49012e-7 2.68221e-7 1 2.38419e-7 0 0 -1 0 0 1 1 -5.96046e-7 3.27825e-7 -4.76837e-7 -1 0 -1 2.38419e-7 -1.19209e-7 2.08616e-7 1 0</float_array>`

	var floats collada.Floats
	if err := xml.Unmarshal([]byte(data), &floats); err != nil {
		t.Fatal(err)
	}

	if len(floats.Data) != 36 || floats.Count != 36 {
		t.Fatalf("bad number of floats, got: %d", len(floats.Data))
	}

	if floats.ID != "Cube-mesh-normals-array" {
		t.Fatalf("bad id, got: %s", floats.ID)
	}
}

func TestTrianglePositions(t *testing.T) {
	doc, err := collada.Decode([]byte(quad))
	if err != nil {
		t.Fatal(err)
	}

	geometry, err := doc.Geometry("Plane")
	if err != nil {
		t.Fatal(err)
	}
	positions, err := geometry.Mesh.TrianglePositions()
	if err != nil {
		t.Fatal(err)
	}

	expected := []float32{
		1, -1, 0, -1, 1, 0, -1, -1, 0,
		1, -1, 0, 1, 1, 0, -1, 1, 0,
	}
	if len(positions) != len(expected) {
		t.Fatalf("expected %d floats, got %d", len(expected), len(positions))
	}
	for i := range expected {
		if positions[i] != expected[i] {
			t.Fatalf("position %d: expected %f, got %f", i, expected[i], positions[i])
		}
	}
}

func TestGeometryLookup(t *testing.T) {
	doc, err := collada.Decode([]byte(quad))
	if err != nil {
		t.Fatal(err)
	}
	if g, err := doc.Geometry(""); err != nil || g.ID != "Plane-mesh" {
		t.Fatalf("expected first geometry, got %v, %v", g, err)
	}
	if _, err := doc.Geometry("Cube"); !errors.Is(err, collada.ErrNoGeometry) {
		t.Fatalf("expected ErrNoGeometry, got %v", err)
	}
	if _, err := (&collada.Collada{}).Geometry(""); !errors.Is(err, collada.ErrNoGeometry) {
		t.Fatalf("expected ErrNoGeometry, got %v", err)
	}
}

func TestTrianglePositionsBadIndex(t *testing.T) {
	mesh := collada.Mesh{
		Source:   []collada.Source{{ID: "p", Floats: collada.Floats{Data: []float32{0, 0, 0}}}},
		Vertices: collada.Vertices{ID: "v", Inputs: []collada.Input{{Semantic: "POSITION", Source: "#p"}}},
		Triangles: []collada.Triangles{{
			Inputs: []collada.Input{{Semantic: "VERTEX", Source: "#v"}},
			Index:  []int{0, 0, 4},
		}},
	}
	if _, err := mesh.TrianglePositions(); !errors.Is(err, collada.ErrBadIndex) {
		t.Fatalf("expected ErrBadIndex, got %v", err)
	}
}
