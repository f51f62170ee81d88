// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package draw

import (
	"fmt"
	"strings"

	"github.com/devblok/glstage/gfx"
)

// UniformKind selects the GL call used to set a uniform. Scalar kinds such as
// Uniform2f take exactly their arity in values. Vector kinds such as Uniform2fv
// take any non-zero multiple of it, one element per array entry.
type UniformKind uint8

// Uniform kinds
const (
	Uniform1f UniformKind = iota + 1
	Uniform2f
	Uniform3f
	Uniform4f
	Uniform1i
	Uniform2i
	Uniform3i
	Uniform4i
	Uniform1fv
	Uniform2fv
	Uniform3fv
	Uniform4fv
	Uniform1iv
	Uniform2iv
	Uniform3iv
	Uniform4iv
	UniformMatrix2fv
	UniformMatrix3fv
	UniformMatrix4fv
)

type uniformKind struct {
	suffix  string
	size    int
	vector  bool
	integer bool
}

var uniformKinds = map[UniformKind]uniformKind{
	Uniform1f:        {"1f", 1, false, false},
	Uniform2f:        {"2f", 2, false, false},
	Uniform3f:        {"3f", 3, false, false},
	Uniform4f:        {"4f", 4, false, false},
	Uniform1i:        {"1i", 1, false, true},
	Uniform2i:        {"2i", 2, false, true},
	Uniform3i:        {"3i", 3, false, true},
	Uniform4i:        {"4i", 4, false, true},
	Uniform1fv:       {"1fv", 1, true, false},
	Uniform2fv:       {"2fv", 2, true, false},
	Uniform3fv:       {"3fv", 3, true, false},
	Uniform4fv:       {"4fv", 4, true, false},
	Uniform1iv:       {"1iv", 1, true, true},
	Uniform2iv:       {"2iv", 2, true, true},
	Uniform3iv:       {"3iv", 3, true, true},
	Uniform4iv:       {"4iv", 4, true, true},
	UniformMatrix2fv: {"Matrix2fv", 4, true, false},
	UniformMatrix3fv: {"Matrix3fv", 9, true, false},
	UniformMatrix4fv: {"Matrix4fv", 16, true, false},
}

var floatSetters = map[UniformKind]func(gfx.Context, gfx.Uniform, []float32){
	Uniform1f:        func(c gfx.Context, u gfx.Uniform, v []float32) { c.Uniform1f(u, v[0]) },
	Uniform2f:        func(c gfx.Context, u gfx.Uniform, v []float32) { c.Uniform2f(u, v[0], v[1]) },
	Uniform3f:        func(c gfx.Context, u gfx.Uniform, v []float32) { c.Uniform3f(u, v[0], v[1], v[2]) },
	Uniform4f:        func(c gfx.Context, u gfx.Uniform, v []float32) { c.Uniform4f(u, v[0], v[1], v[2], v[3]) },
	Uniform1fv:       gfx.Context.Uniform1fv,
	Uniform2fv:       gfx.Context.Uniform2fv,
	Uniform3fv:       gfx.Context.Uniform3fv,
	Uniform4fv:       gfx.Context.Uniform4fv,
	UniformMatrix2fv: func(c gfx.Context, u gfx.Uniform, v []float32) { c.UniformMatrix2fv(u, false, v) },
	UniformMatrix3fv: func(c gfx.Context, u gfx.Uniform, v []float32) { c.UniformMatrix3fv(u, false, v) },
	UniformMatrix4fv: func(c gfx.Context, u gfx.Uniform, v []float32) { c.UniformMatrix4fv(u, false, v) },
}

var intSetters = map[UniformKind]func(gfx.Context, gfx.Uniform, []int32){
	Uniform1i:  func(c gfx.Context, u gfx.Uniform, v []int32) { c.Uniform1i(u, v[0]) },
	Uniform2i:  func(c gfx.Context, u gfx.Uniform, v []int32) { c.Uniform2i(u, v[0], v[1]) },
	Uniform3i:  func(c gfx.Context, u gfx.Uniform, v []int32) { c.Uniform3i(u, v[0], v[1], v[2]) },
	Uniform4i:  func(c gfx.Context, u gfx.Uniform, v []int32) { c.Uniform4i(u, v[0], v[1], v[2], v[3]) },
	Uniform1iv: gfx.Context.Uniform1iv,
	Uniform2iv: gfx.Context.Uniform2iv,
	Uniform3iv: gfx.Context.Uniform3iv,
	Uniform4iv: gfx.Context.Uniform4iv,
}

// ParseUniformKind maps a GL call suffix such as "2f", "3iv" or "Matrix4fv"
// to its kind.
func ParseUniformKind(suffix string) (UniformKind, error) {
	for kind, info := range uniformKinds {
		if strings.EqualFold(info.suffix, suffix) {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUniformKind, suffix)
}

func (k UniformKind) String() string {
	if info, ok := uniformKinds[k]; ok {
		return "uniform" + info.suffix
	}
	return fmt.Sprintf("UniformKind(%d)", uint8(k))
}

// Size is the number of values per element.
func (k UniformKind) Size() int { return uniformKinds[k].size }

// Vector reports whether the kind takes an array of elements.
func (k UniformKind) Vector() bool { return uniformKinds[k].vector }

// Int reports whether the kind takes integer values.
func (k UniformKind) Int() bool { return uniformKinds[k].integer }

func (k UniformKind) check(n int) error {
	info, ok := uniformKinds[k]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUniformKind, uint8(k))
	}
	if info.vector {
		if n == 0 || n%info.size != 0 {
			return fmt.Errorf("%w: %s takes a multiple of %d, got %d", ErrUniformValues, k, info.size, n)
		}
		return nil
	}
	if n != info.size {
		return fmt.Errorf("%w: %s takes %d, got %d", ErrUniformValues, k, info.size, n)
	}
	return nil
}
