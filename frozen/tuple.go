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
	"fmt"
	"iter"
	"slices"
	"strings"
)

// Tuple is a fixed, ordered sequence of values.
type Tuple[T any] struct {
	items []T
}

// TupleOf builds a Tuple holding a copy of items.
func TupleOf[T any](items ...T) *Tuple[T] {
	return &Tuple[T]{items: slices.Clone(items)}
}

// Len returns the number of elements.
func (t *Tuple[T]) Len() int { return len(t.items) }

// At returns the i-th element as any.
func (t *Tuple[T]) At(i int) any { return t.items[i] }

// Get returns the i-th element.
func (t *Tuple[T]) Get(i int) T { return t.items[i] }

// Items yields every element in order.
func (t *Tuple[T]) Items() iter.Seq[any] {
	return func(yield func(any) bool) {
		for _, v := range t.items {
			if !yield(v) {
				return
			}
		}
	}
}

// Values yields every element in order with its static type.
func (t *Tuple[T]) Values() iter.Seq[T] { return slices.Values(t.items) }

// Immutable marks Tuple as read-only.
func (*Tuple[T]) Immutable() {}

func (t *Tuple[T]) String() string {
	parts := make([]string, len(t.items))
	for i, v := range t.items {
		parts[i] = fmt.Sprint(v)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
