// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

//go:build !js

package assets

import "github.com/gobuffalo/packr"

// Box returns the asset box. Without a packr build step it reads this
// directory from disk.
func Box() packr.Box {
	return packr.NewBox(".")
}
