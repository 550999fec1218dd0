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

package apis

import (
	"log/slog"
	"maps"
	"reflect"
	"slices"
)

// Config carries read-only knobs for classification and checking.
// It is passed by value and should be treated as immutable by implementations.
type Config struct {
	// MaxUnwrap limits pointer unwrapping when an object is matched against
	// a non-pointer class (e.g. *[]int against list[int]).
	MaxUnwrap int

	// MaxDepth bounds the nesting depth of a single check. Exceeding it
	// yields a RecursionError. Non-positive means unbounded.
	MaxDepth int

	// Caching enables the validation cache.
	Caching bool

	// Noncachable lists dynamic types whose verdicts are never cached,
	// regardless of their immutability.
	Noncachable TypeSet

	// Logger receives debug events. Nil means discard.
	Logger *slog.Logger
}

// Log returns the configured logger, or a discarding one.
func (c Config) Log() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return discard
}

var discard = slog.New(slog.DiscardHandler)

// TypeSet is an immutable set of Go types.
type TypeSet struct {
	m map[reflect.Type]struct{}
}

// NewTypeSet builds a set from ts. Nil entries are ignored.
func NewTypeSet(ts ...reflect.Type) TypeSet {
	return TypeSet{}.With(ts...)
}

// With returns a copy of s extended with ts.
func (s TypeSet) With(ts ...reflect.Type) TypeSet {
	m := make(map[reflect.Type]struct{}, len(s.m)+len(ts))
	maps.Copy(m, s.m)
	for _, t := range ts {
		if t != nil {
			m[t] = struct{}{}
		}
	}
	return TypeSet{m: m}
}

// Has reports whether t is in the set.
func (s TypeSet) Has(t reflect.Type) bool {
	_, ok := s.m[t]
	return ok
}

// Len returns the number of types.
func (s TypeSet) Len() int { return len(s.m) }

// Types returns the members sorted by their string form.
func (s TypeSet) Types() []reflect.Type {
	out := slices.Collect(maps.Keys(s.m))
	slices.SortFunc(out, func(a, b reflect.Type) int {
		switch {
		case a.String() < b.String():
			return -1
		case a.String() > b.String():
			return 1
		}
		return 0
	})
	return out
}
