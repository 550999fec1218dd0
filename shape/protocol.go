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

// IterableProtocol is implemented by user types that can be walked element by element.
type IterableProtocol interface {
	Items() iter.Seq[any]
}

// CollectionProtocol is a sized Iterable.
type CollectionProtocol interface {
	IterableProtocol
	Len() int
}

// SequenceProtocol is an ordered Collection with positional access.
type SequenceProtocol interface {
	CollectionProtocol
	At(i int) any
}

// SetProtocol is a Collection with membership tests.
type SetProtocol interface {
	CollectionProtocol
	Contains(v any) bool
}

// MappingProtocol is a keyed Collection. Items yields keys.
type MappingProtocol interface {
	CollectionProtocol
	Get(key any) (any, bool)
	Pairs() iter.Seq2[any, any]
}

// Immutable marks a type whose contents never change after construction.
// The immutability classifier still inspects the elements of containers
// carrying this marker.
type Immutable interface {
	Immutable()
}

// Parameterized is implemented by generic user types that can report the
// type arguments they were instantiated with.
type Parameterized interface {
	TypeArgs() []reflect.Type
}

var (
	iterableType   = reflect.TypeFor[IterableProtocol]()
	collectionType = reflect.TypeFor[CollectionProtocol]()
	sequenceType   = reflect.TypeFor[SequenceProtocol]()
	setType        = reflect.TypeFor[SetProtocol]()
	mappingType    = reflect.TypeFor[MappingProtocol]()
	immutableType  = reflect.TypeFor[Immutable]()
	emptyType      = reflect.TypeFor[struct{}]()
)

// Declared returns the structure t declares by implementing one of the
// protocol interfaces, most specific first.
func Declared(t reflect.Type) (Structure, bool) {
	if t == nil {
		return None, false
	}
	switch {
	case t.Implements(mappingType):
		return Mapping, true
	case t.Implements(setType):
		return Set, true
	case t.Implements(sequenceType):
		return Sequence, true
	case t.Implements(collectionType):
		return Collection, true
	case t.Implements(iterableType):
		return Iterable, true
	}
	return None, false
}

// Builtin classifies t by its reflect.Kind. map[K]struct{} is a Set,
// other maps are Mappings. Strings and channels are not containers.
func Builtin(t reflect.Type) Structure {
	if t == nil {
		return None
	}
	switch t.Kind() {
	case reflect.Map:
		if IsSetMap(t) {
			return Set
		}
		return Mapping
	case reflect.Slice, reflect.Array:
		return Sequence
	case reflect.Func:
		return Callable
	default:
		return None
	}
}

// IsSetMap reports whether t is a map whose values are exactly struct{}.
// Maps of other zero-size values stay Mappings.
func IsSetMap(t reflect.Type) bool {
	return t != nil && t.Kind() == reflect.Map && t.Elem() == emptyType
}

// Of is the default classification: declared protocols win over kinds.
func Of(t reflect.Type) Structure {
	if s, ok := Declared(t); ok {
		return s
	}
	return Builtin(t)
}

// IsImmutable reports whether t carries the Immutable marker.
func IsImmutable(t reflect.Type) bool {
	return t != nil && t.Implements(immutableType)
}
