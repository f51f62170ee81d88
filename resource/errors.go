// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package resource

import (
	"errors"
	"fmt"
)

// package errors
var (
	ErrNoIdentifier = errors.New("empty resource identifier")
	ErrNotImage     = errors.New("data is not an image")
	ErrNoFetcher    = errors.New("no fetcher for resource")
)

// LoadError reports the resource that made a Load fail.
type LoadError struct {
	Resource string
	Kind     Kind
	Cause    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading %s %q: %s", e.Kind, e.Resource, e.Cause)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// StatusError is returned by HTTPFetcher for non-success responses.
type StatusError struct {
	URL    string
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %s", e.URL, e.Status)
}
