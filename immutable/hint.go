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

package immutable

import (
	"reflect"

	"dirpx.dev/typecheck/hint"
	"dirpx.dev/typecheck/shape"
)

// IsDataHint reports whether every value conforming to h is immutable.
// Bare containers (tuple without arguments) and Any are not: nothing is
// known about their elements.
func IsDataHint(h hint.Hint) bool {
	return dataHint(h, make(map[*hint.Ref]bool))
}

// IsStructHint reports whether h is a frozen structured dict whose fields
// are all immutable data.
func IsStructHint(h hint.Hint) bool {
	return structHint(h, make(map[*hint.Ref]bool))
}

func structHint(h hint.Hint, refs map[*hint.Ref]bool) bool {
	if r, ok := h.(*hint.Ref); ok {
		if done, seen := refs[r]; seen {
			return done
		}
		refs[r] = true
		ok := structHint(r.Target(), refs)
		refs[r] = ok
		return ok
	}
	s, ok := h.(*hint.Struct)
	if !ok || !s.Frozen() {
		return false
	}
	for _, f := range s.Fields() {
		if !dataHint(hint.Unmark(f.Hint).Hint, refs) {
			return false
		}
	}
	return true
}

func dataHint(h hint.Hint, refs map[*hint.Ref]bool) bool {
	switch h := h.(type) {
	case *hint.Class:
		return classData(h)
	case *hint.Generic:
		return genericData(h, refs)
	case *hint.Union:
		for _, m := range h.Members() {
			if !dataHint(m, refs) {
				return false
			}
		}
		return true
	case *hint.Literal:
		for _, v := range h.Values() {
			if !Is(v) {
				return false
			}
		}
		return true
	case *hint.Struct:
		return structHint(h, refs)
	case *hint.Ref:
		if done, seen := refs[h]; seen {
			return done
		}
		// Assume true while descending so self references terminate.
		refs[h] = true
		ok := dataHint(h.Target(), refs)
		refs[h] = ok
		return ok
	default:
		return false
	}
}

func classData(c *hint.Class) bool {
	switch c {
	case hint.None, hint.Int, hint.Uint, hint.Float, hint.Complex, hint.Str, hint.Bool, hint.Never:
		return true
	}
	if c.Form() == hint.FormType {
		return typeData(c.Type(), make(map[reflect.Type]bool))
	}
	return false
}

func genericData(g *hint.Generic, refs map[*hint.Ref]bool) bool {
	switch g.Origin() {
	case hint.Tuple, hint.FrozenSet, hint.FrozenDict:
	case hint.MarkerRequired, hint.MarkerNotRequired, hint.MarkerReadOnly:
		return g.NumArgs() == 1 && dataHint(g.Arg(0), refs)
	default:
		return false
	}
	for _, a := range g.Args() {
		if a == hint.Ellipsis {
			continue
		}
		if !dataHint(a, refs) {
			return false
		}
	}
	return true
}

// typeData decides immutability from a Go type: scalars, arrays and
// structs of immutable types, and types carrying the marker that are not
// containers.
func typeData(t reflect.Type, seen map[reflect.Type]bool) bool {
	if t == nil {
		return true
	}
	if done, ok := seen[t]; ok {
		return done
	}
	seen[t] = true
	ok := typeDataUncached(t, seen)
	seen[t] = ok
	return ok
}

func typeDataUncached(t reflect.Type, seen map[reflect.Type]bool) bool {
	if shape.IsImmutable(t) {
		_, container := shape.Declared(t)
		return !container
	}
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128,
		reflect.String:
		return true
	case reflect.Array:
		return typeData(t.Elem(), seen)
	case reflect.Struct:
		for i := range t.NumField() {
			if !typeData(t.Field(i).Type, seen) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
