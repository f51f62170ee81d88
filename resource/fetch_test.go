// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package resource_test

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"

	qt "github.com/frankban/quicktest"
	"github.com/gobuffalo/packr"

	"github.com/devblok/glstage/resource"
	"github.com/devblok/glstage/utility/kar"
)

func TestHTTPFetcher(t *testing.T) {
	c := qt.New(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/shaders/a.vert" {
			fmt.Fprint(w, "void main() {}")
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	base, err := url.Parse(srv.URL + "/shaders/")
	c.Assert(err, qt.IsNil)
	f := &resource.HTTPFetcher{Client: srv.Client(), Base: base}

	data, err := f.Fetch(context.Background(), "a.vert")
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Equals, "void main() {}")

	_, err = f.Fetch(context.Background(), "b.vert")
	var statusErr *resource.StatusError
	c.Assert(err, qt.ErrorAs, &statusErr)
	c.Assert(statusErr.Code, qt.Equals, http.StatusNotFound)
	c.Assert(statusErr.URL, qt.Equals, srv.URL+"/shaders/b.vert")

	// absolute identifiers ignore the base
	data, err = (&resource.HTTPFetcher{}).Fetch(context.Background(), srv.URL+"/shaders/a.vert")
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Equals, "void main() {}")
}

func TestFSFetcher(t *testing.T) {
	c := qt.New(t)
	f := resource.FSFetcher{FS: fstest.MapFS{
		"img/a.png": {Data: []byte("png")},
	}}

	for _, id := range []string{"img/a.png", "/img/a.png", "img/../img/a.png"} {
		data, err := f.Fetch(context.Background(), id)
		c.Assert(err, qt.IsNil, qt.Commentf("id %q", id))
		c.Assert(string(data), qt.Equals, "png")
	}

	_, err := f.Fetch(context.Background(), "img/b.png")
	c.Assert(err, qt.ErrorIs, fs.ErrNotExist)
}

func TestBoxFetcher(t *testing.T) {
	c := qt.New(t)
	f := resource.BoxFetcher{Box: packr.NewBox("./testdata")}

	data, err := f.Fetch(context.Background(), "boxed.frag")
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Contains, "void main()")

	_, err = f.Fetch(context.Background(), "missing.frag")
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestArchiveFetcher(t *testing.T) {
	c := qt.New(t)
	builder, err := kar.NewBuilder(kar.Header{Author: "glstage", Version: 1})
	c.Assert(err, qt.IsNil)
	defer builder.Close()
	c.Assert(builder.Add("shaders/a.vert", strings.NewReader("attribute vec2 a_position;")), qt.IsNil)

	var buf bytes.Buffer
	_, err = builder.WriteTo(&buf)
	c.Assert(err, qt.IsNil)
	archive, err := kar.Open(bytes.NewReader(buf.Bytes()))
	c.Assert(err, qt.IsNil)

	f := resource.ArchiveFetcher{Archive: archive}
	data, err := f.Fetch(context.Background(), "/shaders/a.vert")
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Equals, "attribute vec2 a_position;")

	_, err = f.Fetch(context.Background(), "shaders/b.vert")
	c.Assert(err, qt.ErrorIs, kar.ErrNotFound)
}

func TestMux(t *testing.T) {
	c := qt.New(t)
	record := func(prefix string) resource.Fetcher {
		return resource.FetcherFunc(func(ctx context.Context, id string) ([]byte, error) {
			return []byte(prefix + id), nil
		})
	}

	mux := resource.NewMux(record("default:"))
	mux.Handle("box", record("box:"))
	mux.Handle("http", record("http:"))

	tests := []struct {
		id   string
		want string
	}{
		{"shaders/a.vert", "default:shaders/a.vert"},
		{"box:shaders/a.vert", "box:shaders/a.vert"},
		{"http://example.com/a.png", "http:http://example.com/a.png"},
		{"kar:a.png", "default:kar:a.png"},
	}
	for _, test := range tests {
		data, err := mux.Fetch(context.Background(), test.id)
		c.Assert(err, qt.IsNil)
		c.Assert(string(data), qt.Equals, test.want, qt.Commentf("id %q", test.id))
	}

	_, err := resource.NewMux(nil).Fetch(context.Background(), "a.png")
	c.Assert(err, qt.ErrorIs, resource.ErrNoFetcher)
}

func TestRedirect(t *testing.T) {
	c := qt.New(t)
	var got []string
	f := resource.Redirect(resource.FetcherFunc(func(ctx context.Context, id string) ([]byte, error) {
		got = append(got, id)
		return nil, nil
	}), "shader/", "shader/es100/")

	for _, id := range []string{"shader/color.vert", "/shader/color.frag", "img/img1.png", "shaders/x.vert"} {
		_, err := f.Fetch(context.Background(), id)
		c.Assert(err, qt.IsNil)
	}
	c.Assert(got, qt.DeepEquals, []string{
		"shader/es100/color.vert",
		"shader/es100/color.frag",
		"img/img1.png",
		"shaders/x.vert",
	})
}
