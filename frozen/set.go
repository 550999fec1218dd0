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

// Set is an unordered collection of unique members.
type Set[T comparable] struct {
	members map[T]struct{}
}

// SetOf builds a Set from items. Duplicates collapse.
func SetOf[T comparable](items ...T) *Set[T] {
	members := make(map[T]struct{}, len(items))
	for _, v := range items {
		members[v] = struct{}{}
	}
	return &Set[T]{members: members}
}

// Len returns the number of members.
func (s *Set[T]) Len() int { return len(s.members) }

// Has reports whether v is a member.
func (s *Set[T]) Has(v T) bool {
	_, ok := s.members[v]
	return ok
}

// Contains is Has for untyped callers. Values of another type are never members.
func (s *Set[T]) Contains(v any) bool {
	tv, ok := v.(T)
	return ok && s.Has(tv)
}

// Items yields every member in unspecified order.
func (s *Set[T]) Items() iter.Seq[any] {
	return func(yield func(any) bool) {
		for v := range s.members {
			if !yield(v) {
				return
			}
		}
	}
}

// Members yields every member with its static type.
func (s *Set[T]) Members() iter.Seq[T] { return maps.Keys(s.members) }

// Immutable marks Set as read-only.
func (*Set[T]) Immutable() {}
