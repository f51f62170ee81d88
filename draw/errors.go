// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package draw

import (
	"errors"
	"fmt"

	"github.com/devblok/glstage/gfx"
)

// Session errors
var (
	ErrNoProgram     = errors.New("draw: no program compiled")
	ErrNoFrame       = errors.New("draw: not inside a frame")
	ErrReleased      = errors.New("draw: session released")
	ErrNotLoaded     = errors.New("draw: no loaded resources")
	ErrNoImage       = errors.New("draw: nil image")
	ErrUniformKind   = errors.New("draw: unsupported uniform kind")
	ErrUniformValues = errors.New("draw: wrong number of uniform values")
	ErrColorCount    = errors.New("draw: color count does not match vertex count")
)

// ShaderCompileError reports a shader stage that failed to compile.
type ShaderCompileError struct {
	Stage gfx.ShaderType
	Log   string
}

func (e *ShaderCompileError) Error() string {
	return fmt.Sprintf("compiling %s shader: %s", e.Stage, e.Log)
}

// ProgramLinkError reports a program that failed to link.
type ProgramLinkError struct {
	Log string
}

func (e *ProgramLinkError) Error() string {
	return "linking program: " + e.Log
}

// BindingWarning reports an attribute or uniform name the current program
// does not declare. The draw that hit it proceeds without that binding.
type BindingWarning struct {
	// Kind is either "attribute" or "uniform".
	Kind string
	Name string
}

func (w BindingWarning) Error() string {
	return fmt.Sprintf("%s %q not found in program", w.Kind, w.Name)
}
