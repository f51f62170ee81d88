// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package resource

import (
	"bytes"
	"fmt"
	"image"

	// Supported image formats
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/devblok/glstage/core"
)

// DecodeImage sniffs the format of data and decodes it into an Image
// with non-premultiplied RGBA pixels.
func DecodeImage(id string, data []byte) (*Image, error) {
	kind, err := filetype.Match(data)
	if err != nil {
		return nil, err
	}
	if kind == filetype.Unknown || kind.MIME.Type != "image" {
		return nil, fmt.Errorf("%w: sniffed %s", ErrNotImage, kind.Extension)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("image.Decode(): %s: %w", kind.Extension, err)
	}

	pixels := core.GetPixels(img)
	return &Image{
		ID:     id,
		Format: format,
		Width:  pixels.Rect.Dx(),
		Height: pixels.Rect.Dy(),
		Pix:    pixels.Pix,
	}, nil
}
