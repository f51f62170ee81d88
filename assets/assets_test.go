// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package assets_test

import (
	"context"
	"os"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/devblok/glstage/assets"
	"github.com/devblok/glstage/draw"
	"github.com/devblok/glstage/gfx/gfxtest"
	"github.com/devblok/glstage/resource"
	"github.com/devblok/glstage/scene"
)

func TestScenesRender(t *testing.T) {
	fetchers := map[string]resource.Fetcher{
		"box": resource.BoxFetcher{Box: assets.Box()},
		"dir": resource.FSFetcher{FS: os.DirFS(".")},
	}
	for source, base := range fetchers {
		for _, dialect := range []string{assets.Desktop, assets.Web} {
			for _, name := range assets.Scenes {
				t.Run(source+"/"+dialect+"/"+name, func(t *testing.T) {
					c := qt.New(t)
					ctx := context.Background()
					f := assets.Dialect(base, dialect)

					desc, err := scene.Load(ctx, f, assets.ScenePath(name))
					c.Assert(err, qt.IsNil)
					c.Assert(desc.Name, qt.Equals, name)

					loaded, err := resource.NewLoader(f).Load(ctx, desc.Manifest())
					c.Assert(err, qt.IsNil)

					gl := gfxtest.New()
					session := draw.NewSession(gl)
					defer session.Release()
					_, err = session.Prepare(loaded)
					c.Assert(err, qt.IsNil)

					sc, err := desc.Build(ctx, f, loaded)
					c.Assert(err, qt.IsNil)
					c.Assert(session.Render(800, 600, sc), qt.IsNil)
					draws := len(gl.Named("DrawArrays")) + len(gl.Named("DrawElements"))
					c.Assert(draws > 0, qt.IsTrue)
				})
			}
		}
	}
}

func TestShaderPath(t *testing.T) {
	c := qt.New(t)
	c.Assert(assets.ShaderPath("shader/color.vert", assets.Web), qt.Equals, "shader/es100/color.vert")
	c.Assert(assets.ShaderPath("img/img1.png", assets.Web), qt.Equals, "img/img1.png")
	c.Assert(assets.ScenePath("image"), qt.Equals, "scenes/image.yaml")
}
