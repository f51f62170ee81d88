// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package resource

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/gobuffalo/packr"

	"github.com/devblok/glstage/utility/kar"
)

// Fetcher retrieves the raw bytes of a resource by identifier.
// Implementations must be safe for concurrent use.
type Fetcher interface {
	Fetch(ctx context.Context, id string) ([]byte, error)
}

// FetcherFunc adapts a function to a Fetcher.
type FetcherFunc func(ctx context.Context, id string) ([]byte, error)

// Fetch implements interface
func (f FetcherFunc) Fetch(ctx context.Context, id string) ([]byte, error) {
	return f(ctx, id)
}

// HTTPFetcher fetches resources over HTTP. Identifiers are resolved
// against Base when it is set. Any non-2xx response is a StatusError.
type HTTPFetcher struct {
	Client *http.Client
	Base   *url.URL
}

// Fetch implements interface
func (f *HTTPFetcher) Fetch(ctx context.Context, id string) ([]byte, error) {
	ref, err := url.Parse(id)
	if err != nil {
		return nil, err
	}
	if f.Base != nil {
		ref = f.Base.ResolveReference(ref)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref.String(), nil)
	if err != nil {
		return nil, err
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			URL:    ref.String(),
			Code:   resp.StatusCode,
			Status: resp.Status,
		}
	}
	return io.ReadAll(resp.Body)
}

// FSFetcher reads resources from a file system, such as os.DirFS or an embed.FS.
// A leading slash in the identifier is ignored.
type FSFetcher struct {
	FS fs.FS
}

// Fetch implements interface
func (f FSFetcher) Fetch(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return fs.ReadFile(f.FS, cleanName(id))
}

// BoxFetcher reads resources packed into the binary with packr.
type BoxFetcher struct {
	Box packr.Box
}

// Fetch implements interface
func (f BoxFetcher) Fetch(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.Box.Find(cleanName(id))
}

// ArchiveFetcher reads resources out of a kar archive.
type ArchiveFetcher struct {
	Archive *kar.Archive
}

// Fetch implements interface
func (f ArchiveFetcher) Fetch(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.Archive.ReadAll(cleanName(id))
}

// Mux routes identifiers of the form "scheme:rest" to the fetcher registered
// for scheme, passing it rest. URL-like identifiers ("scheme://...") are
// passed whole. Everything else goes to Default.
type Mux struct {
	Default Fetcher

	schemes map[string]Fetcher
}

// NewMux creates a Mux falling back to def.
func NewMux(def Fetcher) *Mux {
	return &Mux{
		Default: def,
		schemes: make(map[string]Fetcher),
	}
}

// Handle registers f for scheme.
func (m *Mux) Handle(scheme string, f Fetcher) {
	m.schemes[scheme] = f
}

// Fetch implements interface
func (m *Mux) Fetch(ctx context.Context, id string) ([]byte, error) {
	if scheme, rest, ok := strings.Cut(id, ":"); ok {
		if f, ok := m.schemes[scheme]; ok {
			if strings.HasPrefix(rest, "//") {
				return f.Fetch(ctx, id)
			}
			return f.Fetch(ctx, rest)
		}
	}
	if m.Default == nil {
		return nil, fmt.Errorf("%s: %w", id, ErrNoFetcher)
	}
	return m.Default.Fetch(ctx, id)
}

// Redirect serves identifiers starting with prefix from target+rest instead,
// leaving all others alone. The front ends use it to pick a shader dialect.
func Redirect(f Fetcher, prefix, target string) Fetcher {
	return FetcherFunc(func(ctx context.Context, id string) ([]byte, error) {
		return f.Fetch(ctx, RedirectPath(id, prefix, target))
	})
}

// RedirectPath applies the rewrite done by Redirect to id.
func RedirectPath(id, prefix, target string) string {
	trimmed := strings.TrimLeft(id, "/")
	if rest, ok := strings.CutPrefix(trimmed, prefix); ok {
		return target + rest
	}
	return id
}

func cleanName(id string) string {
	return path.Clean(strings.TrimLeft(id, "/"))
}
