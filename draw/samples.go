// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package draw

// RectanglePositions expands a rectangle into two counter-clockwise
// triangles: (x,y) (x+w,y) (x,y+h) and (x,y+h) (x+w,y) (x+w,y+h).
func RectanglePositions(x, y, w, h float32) []float32 {
	return []float32{
		x, y,
		x + w, y,
		x, y + h,
		x, y + h,
		x + w, y,
		x + w, y + h,
	}
}

// UnitQuad returns the texture coordinate pairing of RectanglePositions.
func UnitQuad() []float32 {
	return append([]float32(nil), unitQuad...)
}

// FPositions returns the letter F drawn in a 100x150 box.
func FPositions() []float32 {
	return append([]float32(nil), fPositions...)
}

var unitQuad = []float32{
	0, 0,
	1, 0,
	0, 1,
	0, 1,
	1, 0,
	1, 1,
}

var fPositions = []float32{
	// left column
	0, 0,
	30, 0,
	0, 150,
	0, 150,
	30, 0,
	30, 150,
	// top rung
	30, 120,
	100, 120,
	30, 150,
	30, 150,
	100, 120,
	100, 150,
	// middle rung
	30, 60,
	67, 60,
	30, 90,
	30, 90,
	67, 60,
	67, 90,
}
