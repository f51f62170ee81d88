// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/devblok/glstage/assets"
	"github.com/devblok/glstage/core"
	"github.com/devblok/glstage/draw"
	"github.com/devblok/glstage/resource"
	"github.com/devblok/glstage/utility/kar"
)

// assetFetcher routes identifiers to the configured asset sources.
//
//	shader/triangle.vert        default source (directory, URL or bundled box)
//	box:img/img1.png            bundled box
//	kar:img/img1.png            configured archive
//	https://host/img/img1.png   network
type assetFetcher struct {
	*resource.Mux

	// dir is set when the default source is a local directory.
	dir     string
	archive *kar.Archive
}

func newFetcher(cfg core.AssetConfiguration) (*assetFetcher, error) {
	box := resource.BoxFetcher{Box: assets.Box()}
	network := &resource.HTTPFetcher{}

	f := &assetFetcher{}
	var def resource.Fetcher
	switch {
	case cfg.Root == "":
		def = box
	case strings.HasPrefix(cfg.Root, "http://"), strings.HasPrefix(cfg.Root, "https://"):
		base, err := url.Parse(strings.TrimSuffix(cfg.Root, "/") + "/")
		if err != nil {
			return nil, err
		}
		def = &resource.HTTPFetcher{Base: base}
	default:
		info, err := os.Stat(cfg.Root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			return nil, &os.PathError{Op: "assets", Path: cfg.Root, Err: os.ErrInvalid}
		}
		f.dir = cfg.Root
		def = resource.FSFetcher{FS: os.DirFS(cfg.Root)}
	}

	f.Mux = resource.NewMux(assets.Dialect(def, assets.Desktop))
	f.Handle("box", assets.Dialect(box, assets.Desktop))
	f.Handle("http", network)
	f.Handle("https", network)

	if cfg.Archive != "" {
		archive, err := kar.OpenFile(cfg.Archive)
		if err != nil {
			return nil, err
		}
		f.archive = archive
		f.Handle("kar", assets.Dialect(resource.ArchiveFetcher{Archive: archive}, assets.Desktop))
		log.WithFields(log.Fields{
			"archive": cfg.Archive,
			"author":  archive.Header().Author,
			"files":   len(archive.Names()),
		}).Info("archive opened")
	}
	return f, nil
}

// Close releases the archive, if any.
func (f *assetFetcher) Close() error {
	if f.archive == nil {
		return nil
	}
	return f.archive.Close()
}

// Watch watches the shaders of m when they are served from a local directory.
// It returns nil when there is nothing to watch.
func (f *assetFetcher) Watch(m resource.Manifest) (*resource.Watcher, error) {
	if f.dir == "" {
		log.Warn("shader reload needs a local asset directory")
		return nil, nil
	}
	var paths []string
	for _, id := range []string{m.Vertex(), m.Fragment()} {
		if strings.Contains(id, ":") {
			continue
		}
		paths = append(paths, f.path(id))
	}
	if len(paths) == 0 {
		return nil, nil
	}
	log.WithField("paths", paths).Info("watching shaders")
	return resource.NewWatcher(resource.DefaultDebounce, paths...)
}

func (f *assetFetcher) path(id string) string {
	return filepath.Join(f.dir, filepath.FromSlash(strings.TrimLeft(assets.ShaderPath(id, assets.Desktop), "/")))
}

// reload recompiles the shaders after one of them changed on disk. A failed
// compile is logged and the current program stays in use.
func reload(ctx context.Context, s *draw.Session, f resource.Fetcher, m resource.Manifest, changed string) {
	logger := log.WithField("changed", changed)
	vertex, err := f.Fetch(ctx, m.Vertex())
	if err != nil {
		logger.WithError(err).Warn("reload: fetch vertex shader")
		return
	}
	fragment, err := f.Fetch(ctx, m.Fragment())
	if err != nil {
		logger.WithError(err).Warn("reload: fetch fragment shader")
		return
	}
	if _, err := s.Compile(string(vertex), string(fragment)); err != nil {
		logger.WithError(err).Error("reload failed, keeping the previous program")
		return
	}
	logger.Info("shaders reloaded")
}
