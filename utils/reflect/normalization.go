/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package reflect

import (
	"errors"
	"reflect"
)

// DefaultMaxUnwrap bounds pointer unwrapping when callers pass a non-positive limit.
const DefaultMaxUnwrap = 8

var (
	// ErrReflectNilType is returned when a nil reflect.Type is provided.
	ErrReflectNilType = errors.New("reflect: nil reflect.Type provided")
	// ErrReflectTypeNotNamed indicates that the provided type (after unwrapping pointers)
	// is not a named type (e.g., anonymous struct, slice literal type, func).
	ErrReflectTypeNotNamed = errors.New("reflect: type has no name")
)

// Normalize unwraps pointers (at most maxUnwrap levels) and returns the
// nearest named type, or an error if none is found.
//
// Containers are not unwrapped: []T and T have different structures, so
// only indirection is stripped.
//
// If maxUnwrap <= 0, DefaultMaxUnwrap is used.
func Normalize(t reflect.Type, maxUnwrap int) (reflect.Type, error) {
	if t == nil {
		return nil, ErrReflectNilType
	}
	if maxUnwrap <= 0 {
		maxUnwrap = DefaultMaxUnwrap
	}
	for i := 0; i < maxUnwrap && t.Name() == "" && t.Kind() == reflect.Pointer; i++ {
		t = t.Elem()
	}
	if t.Name() != "" {
		return t, nil
	}
	return nil, ErrReflectTypeNotNamed
}

// Indirect returns the first of v, *v, **v, ... (at most maxUnwrap
// dereferences) accepted by accept. Nil pointers stop the walk.
func Indirect(v any, maxUnwrap int, accept func(any) bool) (any, bool) {
	if accept(v) {
		return v, true
	}
	if maxUnwrap <= 0 {
		maxUnwrap = DefaultMaxUnwrap
	}
	rv := reflect.ValueOf(v)
	for range maxUnwrap {
		if rv.Kind() != reflect.Pointer || rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
		if !rv.CanInterface() {
			return nil, false
		}
		cur := rv.Interface()
		if accept(cur) {
			return cur, true
		}
	}
	return nil, false
}
