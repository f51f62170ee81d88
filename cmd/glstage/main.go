// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
	"sync/atomic"
	"time"

	"github.com/schollz/progressbar/v3"
	log "github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/devblok/glstage/assets"
	"github.com/devblok/glstage/core"
	"github.com/devblok/glstage/draw"
	"github.com/devblok/glstage/gfx/glr"
	"github.com/devblok/glstage/resource"
	"github.com/devblok/glstage/scene"
)

func init() {
	runtime.LockOSThread()
}

var (
	configFile = flag.String("config", "", "TOML configuration file")
	envFile    = flag.String("env", "", "Environment file loaded before the configuration")
	sceneName  = flag.String("scene", "", "Scene to render, overrides the configuration")
	printInfo  = flag.Bool("info", false, "Print the OpenGL driver info as JSON and exit")
)

// Profiling
var (
	cpuProfile   = flag.String("cpuprof", "", "Profile CPU usage to file")
	memProfile   = flag.String("memprof", "", "Profile memory usage into a file")
	traceProfile = flag.String("trace", "", "Trace output for profiling")
)

var frameCounter int64

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: glstage [flags]\n\nscenes: %v\n\n", assets.Scenes)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *envFile != "" {
		if err := core.LoadEnvFile(*envFile); err != nil {
			log.Fatal(err)
		}
	}
	configuration, err := core.LoadConfiguration(*configFile)
	if err != nil {
		log.Fatal(err)
	}
	if *sceneName != "" {
		configuration.Renderer.Scene = *sceneName
	}
	if err := core.ConfigureLogging(configuration.Log); err != nil {
		log.Fatal(err)
	}

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatal(err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal(err)
		}
		defer pprof.StopCPUProfile()
	}

	if *traceProfile != "" {
		f, err := os.Create(*traceProfile)
		if err != nil {
			log.Fatal(err)
		}
		if err := trace.Start(f); err != nil {
			log.Fatal(err)
		}
		defer trace.Stop()
	}

	runErr := run(configuration)

	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			log.Fatal(err)
		}
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatal(err)
		}
		f.Close()
	}

	if runErr != nil {
		log.WithError(runErr).Error("glstage stopped")
		pprof.StopCPUProfile()
		trace.Stop()
		os.Exit(1)
	}
}

func run(configuration core.Configuration) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fetcher, err := newFetcher(configuration.Assets)
	if err != nil {
		return err
	}
	defer fetcher.Close()

	name := configuration.Renderer.Scene
	desc, err := scene.Load(ctx, fetcher, assets.ScenePath(name))
	if err != nil {
		return err
	}
	loaded, err := load(ctx, fetcher, desc)
	if err != nil {
		return err
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return err
	}
	defer sdl.Quit()

	window, glContext, err := newWindow(configuration.Renderer, desc.Name)
	if err != nil {
		return err
	}
	defer window.Destroy()
	defer sdl.GLDeleteContext(glContext)

	gl, err := glr.New()
	if err != nil {
		return err
	}
	defer gl.Release()
	if *printInfo {
		return json.NewEncoder(os.Stdout).Encode(gl.Info())
	}
	log.WithField("version", gl.Version()).Info("OpenGL context ready")

	session := draw.NewSession(gl, draw.WithLogger(log.WithField("scene", name)))
	defer session.Release()
	if _, err := session.Prepare(loaded); err != nil {
		return err
	}

	sc, err := desc.Build(ctx, fetcher, loaded)
	if err != nil {
		return err
	}
	if desc.Clear == nil {
		sc.Clear = clearColor(configuration.Renderer.ClearColor)
	}

	var reloads <-chan string
	if configuration.Assets.Watch {
		watcher, err := fetcher.Watch(desc.Manifest())
		if err != nil {
			return err
		}
		if watcher != nil {
			defer watcher.Close()
			reloads = watcher.Events()
		}
	}

	go countFrames(ctx)

	timeService := core.NewTime(configuration.Time)
	defer timeService.Release()

	for {
		select {
		case path, ok := <-reloads:
			if !ok {
				reloads = nil
				continue
			}
			reload(ctx, session, fetcher, desc.Manifest(), path)
		case <-timeService.EventTicker().C:
			if quit := pollEvents(); quit {
				log.Info("Event loop exited")
				return nil
			}
		case <-timeService.FpsTicker().C:
			width, height := window.GLGetDrawableSize()
			if err := session.Render(int(width), int(height), sc); err != nil {
				return err
			}
			window.GLSwap()
			atomic.AddInt64(&frameCounter, 1)
		}
	}
}

func load(ctx context.Context, fetcher resource.Fetcher, desc *scene.Description) (*resource.Loaded, error) {
	manifest := desc.Manifest()
	bar := progressbar.Default(int64(manifest.Len()), "loading "+desc.Name)
	defer bar.Close()

	loader := resource.NewLoader(fetcher,
		resource.WithLogger(log.WithField("scene", desc.Name)),
		resource.WithProgress(func(done, total int) {
			bar.Set(done)
		}))
	return loader.Load(ctx, manifest)
}

func newWindow(cfg core.RendererConfiguration, title string) (*sdl.Window, sdl.GLContext, error) {
	attributes := []struct {
		attr  sdl.GLattr
		value int
	}{
		{sdl.GL_CONTEXT_MAJOR_VERSION, 3},
		{sdl.GL_CONTEXT_MINOR_VERSION, 3},
		{sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE},
		{sdl.GL_DOUBLEBUFFER, 1},
	}
	for _, a := range attributes {
		if err := sdl.GLSetAttribute(a.attr, a.value); err != nil {
			return nil, nil, err
		}
	}

	window, err := sdl.CreateWindow("glstage: "+title,
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		int32(cfg.ScreenWidth),
		int32(cfg.ScreenHeight),
		sdl.WINDOW_OPENGL|sdl.WINDOW_RESIZABLE)
	if err != nil {
		return nil, nil, err
	}
	glContext, err := window.GLCreateContext()
	if err != nil {
		window.Destroy()
		return nil, nil, err
	}
	return window, glContext, nil
}

func pollEvents() (quit bool) {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch et := event.(type) {
		case *sdl.KeyboardEvent:
			if et.Keysym.Sym == sdl.K_ESCAPE {
				return true
			}
		case *sdl.QuitEvent:
			return true
		}
	}
	return false
}

func countFrames(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			log.WithFields(log.Fields{
				"fps":       atomic.SwapInt64(&frameCounter, 0),
				"cgo_calls": runtime.NumCgoCall(),
			}).Debug("frames")
		}
	}
}

func clearColor(c [4]uint8) draw.ColorF {
	return draw.Color8{R: c[0], G: c[1], B: c[2], A: c[3]}.Float()
}
