// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package scene

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/sync/errgroup"

	"github.com/devblok/glstage/draw"
	"github.com/devblok/glstage/resource"
	"github.com/devblok/glstage/util/collada"
)

// Build turns the description into a drawable scene. Images are resolved
// against loaded, which must come from loading d.Manifest(). Mesh sources
// are fetched through f concurrently.
func (d *Description) Build(ctx context.Context, f resource.Fetcher, loaded *resource.Loaded) (draw.Scene, error) {
	scene := draw.Scene{Clear: draw.Black}
	if d.Clear != nil {
		scene.Clear = d.Clear.color8().Float()
	}

	meshes, err := d.fetchMeshes(ctx, f)
	if err != nil {
		return draw.Scene{}, err
	}

	for _, u := range d.Uniforms {
		scene.Commands = append(scene.Commands, u.command())
	}
	for i, c := range d.Commands {
		cmd, err := c.command(loaded, meshes[i])
		if err != nil {
			return draw.Scene{}, fmt.Errorf("command %d: %w", i, err)
		}
		scene.Commands = append(scene.Commands, cmd)
	}
	return scene, nil
}

// fetchMeshes returns the flattened positions of every mesh command,
// indexed like d.Commands.
func (d *Description) fetchMeshes(ctx context.Context, f resource.Fetcher) ([][]float32, error) {
	meshes := make([][]float32, len(d.Commands))
	g, gctx := errgroup.WithContext(ctx)
	for i, c := range d.Commands {
		if c.Mesh == nil {
			continue
		}
		m := c.Mesh
		g.Go(func() error {
			data, err := f.Fetch(gctx, m.Source)
			if err != nil {
				return &resource.LoadError{Resource: m.Source, Kind: resource.MeshResource, Cause: err}
			}
			positions, err := m.positions(data)
			if err != nil {
				return &resource.LoadError{Resource: m.Source, Kind: resource.MeshResource, Cause: err}
			}
			meshes[i] = positions
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return meshes, nil
}

func (m *Mesh) positions(data []byte) ([]float32, error) {
	doc, err := collada.Decode(data)
	if err != nil {
		return nil, err
	}
	geometry, err := doc.Geometry(m.Geometry)
	if err != nil {
		return nil, err
	}
	xyz, err := geometry.Mesh.TrianglePositions()
	if err != nil {
		return nil, err
	}

	model := m.transform()
	out := make([]float32, 0, len(xyz)/3*2)
	for i := 0; i+3 <= len(xyz); i += 3 {
		v := model.Mul4x1(mgl32.Vec4{xyz[i], xyz[i+1], xyz[i+2], 1})
		out = append(out, v.X(), v.Y())
	}
	return out, nil
}

func (m *Mesh) transform() mgl32.Mat4 {
	sx, sy := float32(1), float32(1)
	switch len(m.Scale) {
	case 1:
		sx, sy = m.Scale[0], m.Scale[0]
	case 2:
		sx, sy = m.Scale[0], m.Scale[1]
	}
	var tx, ty float32
	if len(m.Translate) == 2 {
		tx, ty = m.Translate[0], m.Translate[1]
	}
	return mgl32.Translate3D(tx, ty, 0).
		Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(m.Rotate))).
		Mul4(mgl32.Scale3D(sx, sy, 1))
}

func (c Command) command(loaded *resource.Loaded, mesh []float32) (draw.Command, error) {
	switch {
	case c.Triangles != nil:
		t := c.Triangles
		positions := t.Positions
		if t.Sample != "" {
			positions = samples[strings.ToLower(t.Sample)]()
		}
		return draw.Triangles{
			Positions: positions,
			Colors:    colors(t.Colors),
			Options:   draw.AttribOptions{Size: t.Size, Stride: t.Stride, Offset: t.Offset},
		}, nil
	case c.Rectangle != nil:
		r := c.Rectangle
		cmd := draw.Rectangle{X: r.X, Y: r.Y, W: r.W, H: r.H}
		if r.Color != nil {
			color := r.Color.color8()
			cmd.Color = &color
		}
		return cmd, nil
	case c.Image != nil:
		img, err := resolveImage(loaded, c.Image.Image)
		if err != nil {
			return nil, err
		}
		return draw.TexturedRectangle{Image: img, X: c.Image.X, Y: c.Image.Y, W: c.Image.W, H: c.Image.H}, nil
	case c.Indexed != nil:
		ix := c.Indexed
		layout := make([]draw.Binding, 0, len(ix.Layout))
		for _, b := range ix.Layout {
			layout = append(layout, draw.Binding{
				Name: b.Name,
				AttribOptions: draw.AttribOptions{
					Size:       b.Size,
					Type:       attribTypes[strings.ToLower(b.Type)],
					Normalized: b.Normalized,
					Stride:     b.Stride,
					Offset:     b.Offset,
				},
			})
		}
		return draw.Indexed{Vertices: ix.Vertices, Indices: ix.Indices, Layout: layout, Colors: colors(ix.Colors)}, nil
	case c.Mesh != nil:
		cmd := draw.Triangles{Positions: mesh}
		if c.Mesh.Color != nil {
			cmd.Colors = make([]draw.Color8, len(mesh)/2)
			for i := range cmd.Colors {
				cmd.Colors[i] = c.Mesh.Color.color8()
			}
		}
		return cmd, nil
	case c.Uniform != nil:
		return c.Uniform.command(), nil
	}
	return nil, ErrInvalid
}

func resolveImage(loaded *resource.Loaded, ref ImageRef) (*resource.Image, error) {
	if loaded == nil {
		return nil, fmt.Errorf("%w: nothing loaded", ErrUnknownImage)
	}
	if ref.ID != "" {
		if img, ok := loaded.Image(ref.ID); ok {
			return img, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrUnknownImage, ref.ID)
	}
	if ref.Index < 0 || ref.Index >= len(loaded.Images) {
		return nil, fmt.Errorf("%w: index %d", ErrUnknownImage, ref.Index)
	}
	return loaded.Images[ref.Index], nil
}

func colors(cs []Color) []draw.Color8 {
	if len(cs) == 0 {
		return nil
	}
	out := make([]draw.Color8, len(cs))
	for i, c := range cs {
		out[i] = c.color8()
	}
	return out
}

// command assumes the uniform was validated.
func (u Uniform) command() draw.Command {
	kind, _ := draw.ParseUniformKind(u.Kind)
	cmd := draw.UniformValue{Name: u.Name, Kind: kind}
	for _, v := range u.Values {
		if kind.Int() {
			cmd.Ints = append(cmd.Ints, int32(v))
		} else {
			cmd.Floats = append(cmd.Floats, float32(v))
		}
	}
	return cmd
}
