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

// Package immutable classifies values and hints as immutable.
//
// Immutability here is a cache-safety property: a verdict computed for an
// immutable value stays true for as long as the value lives. The rules are
// deliberately conservative; anything not recognized is mutable.
//
//   - nil, booleans, numbers and strings are immutable.
//   - Arrays and structs are immutable if every element or field is.
//   - Values carrying the shape.Immutable marker are trusted. If they are
//     also containers, every element (and, for mappings, every key and
//     value) must be immutable too.
//   - Nil pointers are immutable. Other pointers are immutable only if the
//     pointer type carries the marker.
//   - Maps, slices, channels, functions and unsafe pointers are mutable.
package immutable

import (
	"reflect"

	"dirpx.dev/typecheck/shape"
)

// Is reports whether v is immutable. It never panics and never mutates v.
func Is(v any) bool {
	if v == nil {
		return true
	}
	w := walker{seen: make(map[uintptr]struct{})}
	return w.value(reflect.ValueOf(v))
}

type walker struct {
	seen map[uintptr]struct{}
}

func (w *walker) value(rv reflect.Value) bool {
	if !rv.IsValid() {
		return true
	}
	switch rv.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128,
		reflect.String:
		return true
	case reflect.Interface:
		if rv.IsNil() {
			return true
		}
		return w.value(rv.Elem())
	case reflect.Pointer:
		if rv.IsNil() {
			return true
		}
		if !shape.IsImmutable(rv.Type()) {
			return false
		}
		addr := rv.Pointer()
		if _, ok := w.seen[addr]; ok {
			return true
		}
		w.seen[addr] = struct{}{}
		return w.marked(rv)
	case reflect.Array:
		for i := range rv.Len() {
			if !w.value(rv.Index(i)) {
				return false
			}
		}
		return true
	case reflect.Struct:
		if shape.IsImmutable(rv.Type()) {
			return w.marked(rv)
		}
		for i := range rv.NumField() {
			if !w.value(rv.Field(i)) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// marked checks the contents of a value carrying the Immutable marker.
func (w *walker) marked(rv reflect.Value) bool {
	if !rv.CanInterface() {
		return false
	}
	v := rv.Interface()
	if pairs, ok := v.(shape.MappingProtocol); ok {
		for k, val := range pairs.Pairs() {
			if !w.value(reflect.ValueOf(k)) || !w.value(reflect.ValueOf(val)) {
				return false
			}
		}
		return true
	}
	if it, ok := v.(shape.IterableProtocol); ok {
		for e := range it.Items() {
			if !w.value(reflect.ValueOf(e)) {
				return false
			}
		}
		return true
	}
	return true
}
