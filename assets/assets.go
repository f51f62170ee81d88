// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package assets holds the built-in scenes, shaders, images and models.
// Scenes name shaders as "shader/<name>"; each front end redirects those
// identifiers to the directory of the GLSL dialect it compiles.
package assets

import (
	"github.com/devblok/glstage/resource"
)

// Shader dialect directories.
const (
	Desktop = "gl330"
	Web     = "es100"
)

// Scenes are the built-in scene names, in the order the web front end numbers them.
var Scenes = []string{"triangle", "image", "color", "indexed"}

// ScenePath is the resource identifier of a named scene.
func ScenePath(name string) string {
	return "scenes/" + name + ".yaml"
}

// ShaderPath is where a scene's shader identifier lives for dialect.
func ShaderPath(id, dialect string) string {
	return resource.RedirectPath(id, "shader/", "shader/"+dialect+"/")
}

// Dialect wraps f so that shader identifiers resolve to dialect.
func Dialect(f resource.Fetcher, dialect string) resource.Fetcher {
	return resource.Redirect(f, "shader/", "shader/"+dialect+"/")
}
