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

package shape

import (
	"iter"
	"reflect"
)

// Elements walks the members of v: values of sequences, members of sets
// and keys of mappings. It reports false if v cannot be walked.
func Elements(v any) (iter.Seq[any], bool) {
	if it, ok := v.(IterableProtocol); ok {
		return it.Items(), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return func(yield func(any) bool) {
			for i := range rv.Len() {
				if !yield(rv.Index(i).Interface()) {
					return
				}
			}
		}, true
	case reflect.Map:
		return func(yield func(any) bool) {
			it := rv.MapRange()
			for it.Next() {
				if !yield(it.Key().Interface()) {
					return
				}
			}
		}, true
	}
	return nil, false
}

// Entries walks the key/value pairs of a mapping.
func Entries(v any) (iter.Seq2[any, any], bool) {
	if m, ok := v.(MappingProtocol); ok {
		return m.Pairs(), true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map {
		return nil, false
	}
	return func(yield func(any, any) bool) {
		it := rv.MapRange()
		for it.Next() {
			if !yield(it.Key().Interface(), it.Value().Interface()) {
				return
			}
		}
	}, true
}

// Lookup fetches key from a mapping. Keys whose type does not fit a Go map
// are reported as absent.
func Lookup(v any, key any) (any, bool) {
	if m, ok := v.(MappingProtocol); ok {
		return m.Get(key)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || key == nil {
		return nil, false
	}
	kv := reflect.ValueOf(key)
	kt := rv.Type().Key()
	switch {
	case kv.Type().AssignableTo(kt):
	case kv.Type().ConvertibleTo(kt) && kv.Kind() == kt.Kind():
		kv = kv.Convert(kt)
	default:
		return nil, false
	}
	found := rv.MapIndex(kv)
	if !found.IsValid() {
		return nil, false
	}
	return found.Interface(), true
}

// Len returns the number of elements in v, if v is sized.
func Len(v any) (int, bool) {
	if c, ok := v.(CollectionProtocol); ok {
		return c.Len(), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), true
	}
	return 0, false
}

// At returns the i-th element of a sequence.
func At(v any, i int) (any, bool) {
	if s, ok := v.(SequenceProtocol); ok {
		if i < 0 || i >= s.Len() {
			return nil, false
		}
		return s.At(i), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if i < 0 || i >= rv.Len() {
			return nil, false
		}
		return rv.Index(i).Interface(), true
	}
	return nil, false
}
