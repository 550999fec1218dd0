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
	"fmt"
	"strings"
)

// Structure is the closed set of structural protocols a container or
// callable may satisfy.
//
// # Ordering
//
// The numeric order of the non-None values is the dispatch order used by the
// checker: a value satisfying several protocols is always matched by the
// lowest one. Mapping, Set and Sequence are refinements of Collection, which
// is itself a refinement of Iterable. Callable stands alone.
//
// # Contract
//
//   - Values MUST NOT be renumbered: dispatch order depends on them.
//   - Structure values are plain integers and safe for concurrent use.
type Structure int

const (
	// None marks a type with no structural protocol (scalars, strings,
	// channels, plain structs).
	None Structure = iota

	// Mapping is a keyed collection (Go maps, shape.MappingProtocol implementations).
	Mapping

	// Set is an unordered collection of unique members
	// (map[K]struct{}, shape.SetProtocol implementations).
	Set

	// Sequence is an ordered, indexable collection (slices, arrays,
	// shape.SequenceProtocol implementations).
	Sequence

	// Collection is a sized iterable with no further guarantees.
	Collection

	// Iterable can only be walked.
	Iterable

	// Callable is a function value.
	Callable
)

// Dispatch lists the structural protocols in matching order.
var Dispatch = [...]Structure{Mapping, Set, Sequence, Collection, Iterable, Callable}

// String returns the stable token for s, or a diagnostic form for unknown values.
func (s Structure) String() string {
	switch s {
	case None:
		return "None"
	case Mapping:
		return "Mapping"
	case Set:
		return "Set"
	case Sequence:
		return "Sequence"
	case Collection:
		return "Collection"
	case Iterable:
		return "Iterable"
	case Callable:
		return "Callable"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// Valid reports whether s is one of the declared values.
func (s Structure) Valid() bool { return s >= None && s <= Callable }

// Container reports whether s describes something that holds elements.
func (s Structure) Container() bool { return s >= Mapping && s <= Iterable }

// Satisfies reports whether a value of structure s also satisfies the
// (possibly more general) protocol want.
func (s Structure) Satisfies(want Structure) bool {
	if s == want {
		return true
	}
	switch want {
	case Collection:
		return s == Mapping || s == Set || s == Sequence
	case Iterable:
		return s == Mapping || s == Set || s == Sequence || s == Collection
	default:
		return false
	}
}

// Arity is the number of type arguments a bare hint of structure s implies.
func (s Structure) Arity() int {
	switch s {
	case Mapping, Callable:
		return 2
	case Set, Sequence, Collection, Iterable:
		return 1
	default:
		return 0
	}
}

// Parse converts a case-insensitive token into a Structure.
func Parse(text string) (Structure, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return None, fmt.Errorf("shape: empty structure")
	}
	switch strings.ToLower(trimmed) {
	case "none":
		return None, nil
	case "mapping":
		return Mapping, nil
	case "set":
		return Set, nil
	case "sequence":
		return Sequence, nil
	case "collection":
		return Collection, nil
	case "iterable":
		return Iterable, nil
	case "callable":
		return Callable, nil
	default:
		return None, fmt.Errorf("shape: unknown structure %q", text)
	}
}

// MustParse is like Parse but panics on error. Intended for static tables.
func MustParse(text string) Structure {
	s, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return s
}

// MarshalText implements encoding.TextMarshaler.
func (s Structure) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("shape: cannot marshal unknown structure %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Structure) UnmarshalText(text []byte) error {
	value, err := Parse(string(text))
	if err != nil {
		return err
	}
	*s = value
	return nil
}
