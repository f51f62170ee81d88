// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package kar

import (
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/pierrec/lz4"
)

// NewBuilder creates a new Builder. Do not fill the Index in
// the header, it will be overwritten anyway.
func NewBuilder(header Header) (*Builder, error) {
	temp, err := os.MkdirTemp("", "karBuilder")
	if err != nil {
		return nil, err
	}
	return &Builder{
		tempDir: temp,
		header:  header,
		names:   make(map[string]struct{}),
	}, nil
}

type tempFile struct {

	// Name is the actual name of the file
	Name string

	// TempName is the temporary file holding the compressed data
	TempName string

	// Size in uncompressed state
	Size int64

	Compressed int64
}

// Builder is the high level builder for the archive format.
// Archives are versioned and cannot be appended to, this Builder
// is the way to create an archive. Whenever Add is called, the Builder
// stores the compressed file in a temporary dir, then finally bundles
// them together and writes them out with WriteTo.
// Close removes the temporary dir.
type Builder struct {
	tempDir string
	header  Header

	mutex sync.Mutex
	files []tempFile
	names map[string]struct{}
}

// Add appends data to the builder with a given name.
// Will block until lz4 finishes compression. Is safe
// to use concurrently in different goroutines.
func (b *Builder) Add(name string, r io.Reader) error {
	b.mutex.Lock()
	if _, ok := b.names[name]; ok {
		b.mutex.Unlock()
		return fmt.Errorf("%s: %w", name, ErrDuplicate)
	}
	b.names[name] = struct{}{}
	b.mutex.Unlock()

	f, err := os.CreateTemp(b.tempDir, "entry-*")
	if err != nil {
		return err
	}
	defer f.Close()

	writer := lz4.NewWriter(f)
	written, err := io.Copy(writer, r)
	if err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		return err
	}

	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.files = append(b.files, tempFile{
		Name:       name,
		TempName:   f.Name(),
		Size:       written,
		Compressed: info.Size(),
	})
	return nil
}

// WriteTo bundles and writes all of the files added to the Builder
// into a kar archive that is ready to use. Entries are ordered by name.
func (b *Builder) WriteTo(w io.Writer) (int64, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	files := append([]tempFile(nil), b.files...)
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	header := b.header
	header.Index = nil
	var offset int64
	for _, v := range files {
		header.Index = append(header.Index, IndexEntry{
			Name:           v.Name,
			Size:           v.Size,
			CompressedSize: v.Compressed,
			Offset:         offset,
		})
		offset += v.Compressed
	}

	rawHeader, err := gobEncode(header)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, chunk := range [][]byte{magic[:], int64ToBinary(int64(len(rawHeader))), rawHeader} {
		n, err := w.Write(chunk)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}

	for _, v := range files {
		n, err := copyFile(w, v.TempName)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Close removes the temporary files of the builder.
func (b *Builder) Close() error {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.files = nil
	return os.RemoveAll(b.tempDir)
}

func copyFile(w io.Writer, path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return io.Copy(w, f)
}
