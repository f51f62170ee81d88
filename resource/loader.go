// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package resource

import (
	"context"
	"errors"
	"sync/atomic"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger fetch results are reported to.
func WithLogger(logger log.FieldLogger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithProgress sets a callback invoked after each resource completes.
// It is called from fetch goroutines and must be safe for concurrent use.
func WithProgress(fn func(done, total int)) Option {
	return func(l *Loader) {
		l.progress = fn
	}
}

// Loader fetches the resources of a Manifest concurrently.
// It keeps no state between loads, so it is safe for concurrent use.
type Loader struct {
	fetcher  Fetcher
	logger   log.FieldLogger
	progress func(done, total int)
}

// NewLoader creates a Loader fetching through f.
func NewLoader(f Fetcher, opts ...Option) *Loader {
	l := &Loader{
		fetcher: f,
		logger:  log.StandardLogger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load starts fetching every resource of the manifest at once and returns when
// all of them are available. The first failure observed is returned as a
// *LoadError without waiting for the remaining fetches, which are cancelled.
func (l *Loader) Load(ctx context.Context, m Manifest) (*Loaded, error) {
	var (
		total    = m.Len()
		finished int32
		vertex   string
		fragment string
		images   = make([]*Image, len(m.images))
	)

	g, gctx := errgroup.WithContext(ctx)

	complete := func(kind Kind, id string, size int) {
		n := atomic.AddInt32(&finished, 1)
		l.logger.WithFields(log.Fields{
			"resource": id,
			"kind":     kind.String(),
			"bytes":    size,
		}).Debug("resource loaded")
		if l.progress != nil {
			l.progress(int(n), total)
		}
	}

	text := func(kind Kind, id string, dst *string) {
		g.Go(func() error {
			data, err := l.fetch(gctx, id)
			if err != nil {
				return &LoadError{Resource: id, Kind: kind, Cause: err}
			}
			*dst = string(data)
			complete(kind, id, len(data))
			return nil
		})
	}
	text(VertexShader, m.vertex, &vertex)
	text(FragmentShader, m.fragment, &fragment)

	for i, id := range m.images {
		g.Go(func() error {
			data, err := l.fetch(gctx, id)
			if err != nil {
				return &LoadError{Resource: id, Kind: ImageResource, Cause: err}
			}
			img, err := DecodeImage(id, data)
			if err != nil {
				return &LoadError{Resource: id, Kind: ImageResource, Cause: err}
			}
			images[i] = img
			complete(ImageResource, id, len(data))
			return nil
		})
	}

	wait := make(chan error, 1)
	go func() {
		wait <- g.Wait()
	}()

	var err error
	select {
	case err = <-wait:
	case <-gctx.Done():
		err = firstFailure(ctx, gctx, wait)
	}
	if err != nil {
		l.logger.WithError(err).Debug("load failed")
		return nil, err
	}
	return newLoaded(images, vertex, fragment), nil
}

func (l *Loader) fetch(ctx context.Context, id string) ([]byte, error) {
	if id == "" {
		return nil, ErrNoIdentifier
	}
	return l.fetcher.Fetch(ctx, id)
}

// firstFailure decides why the group context ended. A failing fetch cancels
// it with its own error as the cause; otherwise either the caller cancelled
// or the group finished and Wait has the answer.
func firstFailure(ctx, gctx context.Context, wait <-chan error) error {
	var loadErr *LoadError
	if errors.As(context.Cause(gctx), &loadErr) {
		return loadErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return <-wait
}
