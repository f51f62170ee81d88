// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

//go:build js && wasm

// Command glstage-web renders one built-in scene into a canvas. Serve the
// assets directory next to the page and pick the scene with ?testCase=N.
package main

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"syscall/js"

	log "github.com/sirupsen/logrus"

	"github.com/devblok/glstage/assets"
	"github.com/devblok/glstage/draw"
	"github.com/devblok/glstage/gfx/webgl"
	"github.com/devblok/glstage/resource"
	"github.com/devblok/glstage/scene"
)

const (
	canvasWidth  = 800
	canvasHeight = 600
)

func main() {
	log.SetFormatter(&log.TextFormatter{DisableColors: true, DisableTimestamp: true})

	page, err := url.Parse(js.Global().Get("location").Get("href").String())
	if err != nil {
		log.Fatal(err)
	}
	if err := run(context.Background(), page); err != nil {
		log.WithError(err).Error("glstage-web stopped")
	}
}

func run(ctx context.Context, page *url.URL) error {
	name := sceneName(page.Query().Get("testCase"))
	logger := log.WithField("scene", name)
	f := assets.Dialect(&resource.HTTPFetcher{Base: page}, assets.Web)

	desc, err := scene.Load(ctx, f, assets.ScenePath(name))
	if err != nil {
		return err
	}

	canvas := newCanvas(desc.Clear)
	gl, err := webgl.New(canvas, webgl.DefaultAttributes())
	if err != nil {
		return err
	}

	loaded, err := resource.NewLoader(f,
		resource.WithLogger(logger),
		resource.WithProgress(func(done, total int) {
			logger.Debugf("loaded %d/%d", done, total)
		}),
	).Load(ctx, desc.Manifest())
	if err != nil {
		return err
	}

	session := draw.NewSession(gl, draw.WithLogger(logger))
	if _, err := session.Prepare(loaded); err != nil {
		return err
	}
	sc, err := desc.Build(ctx, f, loaded)
	if err != nil {
		return err
	}
	if err := session.Render(canvasWidth, canvasHeight, sc); err != nil {
		return err
	}
	logger.Info("rendered")
	return nil
}

// sceneName maps the testCase parameter onto a built-in scene, falling back
// to the first one.
func sceneName(testCase string) string {
	n, err := strconv.Atoi(testCase)
	if err != nil || n < 0 || n >= len(assets.Scenes) {
		return assets.Scenes[0]
	}
	return assets.Scenes[n]
}

func newCanvas(background scene.Color) js.Value {
	doc := js.Global().Get("document")
	canvas := doc.Call("createElement", "canvas")
	canvas.Set("width", canvasWidth)
	canvas.Set("height", canvasHeight)
	if len(background) == 4 {
		canvas.Get("style").Set("background", fmt.Sprintf("rgba(%d,%d,%d,%.3g)",
			background[0], background[1], background[2], float64(background[3])/255))
	} else {
		canvas.Get("style").Set("background", "black")
	}
	doc.Get("body").Call("appendChild", canvas)
	return canvas
}
