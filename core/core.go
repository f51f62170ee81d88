// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package core holds the engine-wide services shared by the front ends:
// configuration, logging setup, frame timing and pixel/byte helpers.
package core
