// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package kar is an api for an lz4 backed file format.
// It's purpose is to be well suited for streaming resources from it.
// It's designed to be memory mapped, so (unlike tar) it knows
// where all the files are located before they're read. The archive itself
// is not compressed in any form, rather every file is individually compressed,
// so it can be read from its place and decompressed on the fly.
// This compromises space efficiency, in favour of getting resources from disk
// to a usable state fast. It can be read from concurrently.
//
// Layout: the magic "KAR\x00", the gob encoded Header length as a little
// endian int64, the gob encoded Header, then the compressed entries back
// to back. Entry offsets are relative to the end of the Header.
package kar

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"errors"
)

// package errors
var (
	ErrFileFormat = errors.New("corrupted or not a kar archive")
	ErrNotFound   = errors.New("no such file in archive")
	ErrDuplicate  = errors.New("file already added to archive")
)

// Sizes relevant to the header of file
const (
	MagicLength            = 4
	HeaderSizeNumberLength = 8
)

var magic = [MagicLength]byte{'K', 'A', 'R', '\x00'}

// IndexEntry is info for one file in the file index.
type IndexEntry struct {
	Name           string
	Offset         int64
	Size           int64
	CompressedSize int64
}

// Header is the file header for kar files.
type Header struct {
	Author      string
	DateCreated int64
	Version     int64
	Index       []IndexEntry
}

func int64ToBinary(num int64) []byte {
	bts := make([]byte, HeaderSizeNumberLength)
	binary.LittleEndian.PutUint64(bts, uint64(num))
	return bts
}

func binaryToint64(bts []byte) (int64, error) {
	if len(bts) < HeaderSizeNumberLength {
		return 0, ErrFileFormat
	}
	return int64(binary.LittleEndian.Uint64(bts)), nil
}

func gobEncode(data interface{}) ([]byte, error) {
	var encoded bytes.Buffer
	enc := gob.NewEncoder(&encoded)
	if err := enc.Encode(data); err != nil {
		return nil, err
	}
	return encoded.Bytes(), nil
}

func gobDecode(obj interface{}, bts []byte) error {
	dec := gob.NewDecoder(bytes.NewBuffer(bts))
	return dec.Decode(obj)
}
