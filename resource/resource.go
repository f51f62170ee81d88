// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package resource loads the shader sources and images a draw session needs.
// A Loader fetches every resource of a Manifest concurrently and hands back
// a Loaded set once all of them are ready, or the first failure.
package resource

import (
	"image"
)

// Kind identifies the role of a resource in a Manifest.
type Kind int

// Resource kinds
const (
	VertexShader Kind = iota
	FragmentShader
	ImageResource
	MeshResource
)

func (k Kind) String() string {
	switch k {
	case VertexShader:
		return "vertex shader"
	case FragmentShader:
		return "fragment shader"
	case ImageResource:
		return "image"
	case MeshResource:
		return "mesh"
	}
	return "unknown"
}

// Manifest is the declarative list of resources to load. It is immutable.
type Manifest struct {
	vertex   string
	fragment string
	images   []string
}

// NewManifest creates a Manifest from shader identifiers and image identifiers.
func NewManifest(vertex, fragment string, images ...string) Manifest {
	return Manifest{
		vertex:   vertex,
		fragment: fragment,
		images:   append([]string(nil), images...),
	}
}

// Vertex is the vertex shader identifier.
func (m Manifest) Vertex() string { return m.vertex }

// Fragment is the fragment shader identifier.
func (m Manifest) Fragment() string { return m.fragment }

// Images returns a copy of the image identifiers, in order.
func (m Manifest) Images() []string { return append([]string(nil), m.images...) }

// Len is the number of resources the manifest names.
func (m Manifest) Len() int { return len(m.images) + 2 }

// Image is a decoded image held as tightly packed, non-premultiplied RGBA rows,
// top row first.
type Image struct {
	ID     string
	Format string
	Width  int
	Height int
	Pix    []uint8
}

// NRGBA returns an image.NRGBA view sharing the pixel data.
func (img *Image) NRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    img.Pix,
		Stride: 4 * img.Width,
		Rect:   image.Rect(0, 0, img.Width, img.Height),
	}
}

// Loaded is the result of loading a Manifest. It is read-only once returned.
type Loaded struct {
	// Images are in manifest order.
	Images []*Image

	VertexSource   string
	FragmentSource string

	byID map[string]*Image
}

func newLoaded(images []*Image, vs, fs string) *Loaded {
	byID := make(map[string]*Image, len(images))
	for _, img := range images {
		if _, ok := byID[img.ID]; !ok {
			byID[img.ID] = img
		}
	}
	return &Loaded{
		Images:         images,
		VertexSource:   vs,
		FragmentSource: fs,
		byID:           byID,
	}
}

// Image looks up an image by its manifest identifier. When an identifier
// appears more than once, the first occurrence is returned.
func (l *Loaded) Image(id string) (*Image, bool) {
	img, ok := l.byID[id]
	return img, ok
}
