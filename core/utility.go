// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"image"
	"image/draw"
	"unsafe"
)

// GetPixels transforms a given image into a tightly packed, non-premultiplied
// RGBA pixel arrangement with its origin at (0, 0), by drawing the decoded
// image onto a controlled canvas. Images already in that layout are returned as is.
func GetPixels(img image.Image) *image.NRGBA {
	bounds := img.Bounds()
	if nrgba, ok := img.(*image.NRGBA); ok && bounds.Min == (image.Point{}) && nrgba.Stride == 4*bounds.Dx() {
		return nrgba
	}
	canvas := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(canvas, canvas.Bounds(), img, bounds.Min, draw.Src)
	return canvas
}

// Float32Bytes reslices float32 data into bytes in native byte order,
// the way vertex data is submitted to the GPU. The result aliases data.
func Float32Bytes(data []float32) []byte {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(data)*4)
}

// Int32Bytes reslices int32 data into bytes in native byte order.
func Int32Bytes(data []int32) []byte {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(data)*4)
}

// Uint16Bytes reslices index data into bytes in native byte order.
func Uint16Bytes(data []uint16) []byte {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(data)*2)
}
