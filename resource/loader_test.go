// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package resource_test

import (
	"context"
	"errors"
	"image/color"
	"io/fs"
	"sync"
	"sync/atomic"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/devblok/glstage/resource"
)

func mapFetcher(t testing.TB, files map[string][]byte) (resource.Fetcher, *int32) {
	var calls int32
	return resource.FetcherFunc(func(ctx context.Context, id string) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		data, ok := files[id]
		if !ok {
			return nil, fs.ErrNotExist
		}
		return data, nil
	}), &calls
}

func TestLoadManifestOrder(t *testing.T) {
	c := qt.New(t)
	fetcher, _ := mapFetcher(t, map[string][]byte{
		"a.png": encodePNG(t, 2, 3, color.NRGBA{R: 255, A: 255}),
		"b.png": encodePNG(t, 4, 1, color.NRGBA{B: 255, A: 255}),
		"v":     []byte("vertex source"),
		"f":     []byte("fragment source"),
	})

	loaded, err := resource.NewLoader(fetcher).Load(context.Background(),
		resource.NewManifest("v", "f", "a.png", "b.png"))
	c.Assert(err, qt.IsNil)
	c.Assert(loaded.VertexSource, qt.Equals, "vertex source")
	c.Assert(loaded.FragmentSource, qt.Equals, "fragment source")
	c.Assert(loaded.Images, qt.HasLen, 2)

	a, b := loaded.Images[0], loaded.Images[1]
	c.Assert(a.ID, qt.Equals, "a.png")
	c.Assert([2]int{a.Width, a.Height}, qt.Equals, [2]int{2, 3})
	c.Assert(a.Pix[:4], qt.DeepEquals, []uint8{255, 0, 0, 255})
	c.Assert(b.ID, qt.Equals, "b.png")
	c.Assert([2]int{b.Width, b.Height}, qt.Equals, [2]int{4, 1})
	c.Assert(b.Pix, qt.HasLen, 16)

	img, ok := loaded.Image("b.png")
	c.Assert(ok, qt.IsTrue)
	c.Assert(img, qt.Equals, b)
	_, ok = loaded.Image("c.png")
	c.Assert(ok, qt.IsFalse)
}

func TestLoadNoImages(t *testing.T) {
	c := qt.New(t)
	fetcher, _ := mapFetcher(t, map[string][]byte{
		"v": []byte("vs"),
		"f": []byte("fs"),
	})
	loaded, err := resource.NewLoader(fetcher).Load(context.Background(), resource.NewManifest("v", "f"))
	c.Assert(err, qt.IsNil)
	c.Assert(loaded.Images, qt.HasLen, 0)
	c.Assert(loaded.VertexSource, qt.Equals, "vs")
}

func TestLoadIndependentRounds(t *testing.T) {
	c := qt.New(t)
	fetcher, calls := mapFetcher(t, map[string][]byte{
		"a.png": encodePNG(t, 1, 1, color.NRGBA{A: 255}),
		"v":     []byte("vs"),
		"f":     []byte("fs"),
	})
	loader := resource.NewLoader(fetcher)
	m := resource.NewManifest("v", "f", "a.png")

	first, err := loader.Load(context.Background(), m)
	c.Assert(err, qt.IsNil)
	second, err := loader.Load(context.Background(), m)
	c.Assert(err, qt.IsNil)

	c.Assert(atomic.LoadInt32(calls), qt.Equals, int32(2*m.Len()))
	c.Assert(first.Images[0], qt.Not(qt.Equals), second.Images[0])
}

func TestLoadFailureIdentifiesResource(t *testing.T) {
	c := qt.New(t)
	release := make(chan struct{})
	defer close(release)

	fetcher := resource.FetcherFunc(func(ctx context.Context, id string) ([]byte, error) {
		switch id {
		case "b.png":
			return nil, &resource.StatusError{URL: id, Code: 404, Status: "404 Not Found"}
		case "slow.png":
			// ignores cancellation, the loader must not wait for it
			<-release
			return nil, errors.New("released")
		}
		return []byte("text"), nil
	})

	_, err := resource.NewLoader(fetcher).Load(context.Background(),
		resource.NewManifest("v", "f", "slow.png", "b.png"))

	var loadErr *resource.LoadError
	c.Assert(err, qt.ErrorAs, &loadErr)
	c.Assert(loadErr.Resource, qt.Equals, "b.png")
	c.Assert(loadErr.Kind, qt.Equals, resource.ImageResource)

	var statusErr *resource.StatusError
	c.Assert(err, qt.ErrorAs, &statusErr)
	c.Assert(statusErr.Code, qt.Equals, 404)
}

func TestLoadShaderFailure(t *testing.T) {
	c := qt.New(t)
	fetcher, _ := mapFetcher(t, map[string][]byte{"v": []byte("vs")})

	_, err := resource.NewLoader(fetcher).Load(context.Background(), resource.NewManifest("v", "missing.frag"))
	var loadErr *resource.LoadError
	c.Assert(err, qt.ErrorAs, &loadErr)
	c.Assert(loadErr.Resource, qt.Equals, "missing.frag")
	c.Assert(loadErr.Kind, qt.Equals, resource.FragmentShader)
	c.Assert(err, qt.ErrorIs, fs.ErrNotExist)
}

func TestLoadDecodeFailure(t *testing.T) {
	c := qt.New(t)
	fetcher, _ := mapFetcher(t, map[string][]byte{
		"v":       []byte("vs"),
		"f":       []byte("fs"),
		"bad.png": []byte("this is not a picture"),
	})

	_, err := resource.NewLoader(fetcher).Load(context.Background(), resource.NewManifest("v", "f", "bad.png"))
	var loadErr *resource.LoadError
	c.Assert(err, qt.ErrorAs, &loadErr)
	c.Assert(loadErr.Resource, qt.Equals, "bad.png")
	c.Assert(err, qt.ErrorIs, resource.ErrNotImage)
}

func TestLoadEmptyIdentifier(t *testing.T) {
	c := qt.New(t)
	fetcher, calls := mapFetcher(t, nil)

	_, err := resource.NewLoader(fetcher).Load(context.Background(), resource.NewManifest("", ""))
	c.Assert(err, qt.ErrorIs, resource.ErrNoIdentifier)
	c.Assert(atomic.LoadInt32(calls), qt.Equals, int32(0))
}

func TestLoadCancelled(t *testing.T) {
	c := qt.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := resource.FetcherFunc(func(ctx context.Context, id string) ([]byte, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	_, err := resource.NewLoader(fetcher).Load(ctx, resource.NewManifest("v", "f"))
	c.Assert(err, qt.ErrorIs, context.Canceled)
}

func TestLoadProgress(t *testing.T) {
	c := qt.New(t)
	fetcher, _ := mapFetcher(t, map[string][]byte{
		"a.png": encodePNG(t, 1, 1, color.NRGBA{A: 255}),
		"b.png": encodePNG(t, 1, 1, color.NRGBA{A: 255}),
		"v":     []byte("vs"),
		"f":     []byte("fs"),
	})

	var (
		mu    sync.Mutex
		seen  []int
		total int
	)
	loader := resource.NewLoader(fetcher, resource.WithProgress(func(done, of int) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, done)
		total = of
	}))
	_, err := loader.Load(context.Background(), resource.NewManifest("v", "f", "a.png", "b.png"))
	c.Assert(err, qt.IsNil)

	mu.Lock()
	defer mu.Unlock()
	c.Assert(total, qt.Equals, 4)
	c.Assert(seen, qt.HasLen, 4)
	max := 0
	for _, n := range seen {
		if n > max {
			max = n
		}
	}
	c.Assert(max, qt.Equals, 4)
}

func TestManifestIsImmutable(t *testing.T) {
	c := qt.New(t)
	images := []string{"a.png", "b.png"}
	m := resource.NewManifest("v", "f", images...)
	images[0] = "changed.png"
	c.Assert(m.Images(), qt.DeepEquals, []string{"a.png", "b.png"})

	got := m.Images()
	got[1] = "changed.png"
	c.Assert(m.Images(), qt.DeepEquals, []string{"a.png", "b.png"})
	c.Assert(m.Len(), qt.Equals, 4)
}
