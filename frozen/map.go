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

package frozen

import (
	"iter"
	"maps"
)

// Map is a read-only keyed collection.
type Map[K comparable, V any] struct {
	entries map[K]V
}

// MapOf builds a Map holding a shallow copy of m.
func MapOf[K comparable, V any](m map[K]V) *Map[K, V] {
	return &Map[K, V]{entries: maps.Clone(m)}
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int { return len(m.entries) }

// Lookup returns the value stored under key.
func (m *Map[K, V]) Lookup(key K) (V, bool) {
	v, ok := m.entries[key]
	return v, ok
}

// Get is Lookup for untyped callers.
func (m *Map[K, V]) Get(key any) (any, bool) {
	k, ok := key.(K)
	if !ok {
		return nil, false
	}
	v, ok := m.entries[k]
	if !ok {
		return nil, false
	}
	return v, true
}

// Items yields every key.
func (m *Map[K, V]) Items() iter.Seq[any] {
	return func(yield func(any) bool) {
		for k := range m.entries {
			if !yield(k) {
				return
			}
		}
	}
}

// Pairs yields every key/value pair.
func (m *Map[K, V]) Pairs() iter.Seq2[any, any] {
	return func(yield func(any, any) bool) {
		for k, v := range m.entries {
			if !yield(k, v) {
				return
			}
		}
	}
}

// All yields every entry with its static types.
func (m *Map[K, V]) All() iter.Seq2[K, V] { return maps.All(m.entries) }

// Immutable marks Map as read-only.
func (*Map[K, V]) Immutable() {}
