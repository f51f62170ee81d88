// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package kar

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/pierrec/lz4"
	"golang.org/x/exp/mmap"
)

// Open opens the kar archived from r. It will also check
// if the file is actually a kar archive, will return an error
// when file incorrect.
func Open(r io.ReaderAt) (*Archive, error) {
	prefix := make([]byte, MagicLength+HeaderSizeNumberLength)
	if num, err := r.ReadAt(prefix, 0); num < len(prefix) {
		if err == nil || err == io.EOF {
			return nil, ErrFileFormat
		}
		return nil, err
	}
	if !bytes.Equal(prefix[:MagicLength], magic[:]) {
		return nil, ErrFileFormat
	}

	headerSize, err := binaryToint64(prefix[MagicLength:])
	if err != nil || headerSize <= 0 {
		return nil, ErrFileFormat
	}

	headerBytes := make([]byte, headerSize)
	if num, err := r.ReadAt(headerBytes, int64(len(prefix))); int64(num) < headerSize {
		if err == nil || err == io.EOF {
			return nil, ErrFileFormat
		}
		return nil, err
	}

	var header Header
	if err := gobDecode(&header, headerBytes); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), ErrFileFormat)
	}

	index := make(map[string]IndexEntry, len(header.Index))
	for _, e := range header.Index {
		index[e.Name] = e
	}

	return &Archive{
		reader:     r,
		header:     header,
		index:      index,
		dataOffset: int64(len(prefix)) + headerSize,
	}, nil
}

// OpenFile memory maps the kar file at path and opens it.
// The returned Archive must be closed to release the mapping.
func OpenFile(path string) (*Archive, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	ar, err := Open(r)
	if err != nil {
		r.Close()
		return nil, err
	}
	ar.closer = r
	return ar, nil
}

// Archive provides concurrent io for a kar file, and can provide
// an io.Reader for each file separately to perform actions on.
type Archive struct {
	reader     io.ReaderAt
	closer     io.Closer
	header     Header
	index      map[string]IndexEntry
	dataOffset int64
}

// Header returns the archive header with its index.
func (a *Archive) Header() Header {
	return a.header
}

// Names lists the files in the archive in sorted order.
func (a *Archive) Names() []string {
	names := make([]string, 0, len(a.index))
	for name := range a.index {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ReadAll returns the entire contents of a file with a given name
func (a *Archive) ReadAll(name string) ([]byte, error) {
	r, err := a.Open(name)
	if err != nil {
		return nil, err
	}
	buf := bytes.NewBuffer(make([]byte, 0, r.Size()))
	if _, err := io.Copy(buf, r); err != nil {
		return nil, fmt.Errorf("%s: %s", name, err.Error())
	}
	return buf.Bytes(), nil
}

// Open returns a Reader for a file in the Archive
func (a *Archive) Open(name string) (*Reader, error) {
	entry, ok := a.index[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	section := io.NewSectionReader(a.reader, a.dataOffset+entry.Offset, entry.CompressedSize)
	return &Reader{
		entry: entry,
		lz:    lz4.NewReader(section),
	}, nil
}

// Close releases the memory mapping of archives opened with OpenFile.
func (a *Archive) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// Reader is a reader for a single file in an Archive.
// Abstracts away the location that needs to be known.
type Reader struct {
	entry IndexEntry
	lz    *lz4.Reader
}

// Read reads already decompressed data
func (r *Reader) Read(p []byte) (n int, err error) {
	return r.lz.Read(p)
}

// Size is the decompressed size of the file.
func (r *Reader) Size() int64 {
	return r.entry.Size
}
