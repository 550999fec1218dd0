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

package hint

import (
	"reflect"

	"dirpx.dev/typecheck/shape"
)

const maxConformDepth = 64

var errorType = reflect.TypeFor[error]()

// Conforms reports whether every value of static type t satisfies h, as far
// as that can be decided from the type alone. It is used where only types
// are available: generic type arguments and function signatures.
//
// Interface types conform only to Any and to hints they are assignable to.
func Conforms(t reflect.Type, h Hint) bool {
	return conforms(t, h, 0)
}

func conforms(t reflect.Type, h Hint, depth int) bool {
	if depth > maxConformDepth {
		return true
	}
	switch h := h.(type) {
	case anyHint:
		return true
	case *Class:
		return classConforms(t, h)
	case *Union:
		for _, m := range h.members {
			if conforms(t, m, depth+1) {
				return true
			}
		}
		return false
	case *Ref:
		return conforms(t, h.target, depth+1)
	case *Generic:
		return genericConforms(t, h, depth)
	default:
		return false
	}
}

func classConforms(t reflect.Type, c *Class) bool {
	if t != nil && t.Kind() == reflect.Interface && c.form == FormType && c.typ.Kind() == reflect.Interface {
		return t.Implements(c.typ)
	}
	return c.AcceptsType(t)
}

func genericConforms(t reflect.Type, g *Generic, depth int) bool {
	if g.origin.form == FormMarker {
		return false
	}
	if !classConforms(t, g.origin) {
		return false
	}
	args := g.args
	switch shape.Builtin(t) {
	case shape.Mapping:
		return len(args) == 2 && conforms(t.Key(), args[0], depth+1) && conforms(t.Elem(), args[1], depth+1)
	case shape.Set:
		return len(args) == 1 && conforms(t.Key(), args[0], depth+1)
	case shape.Sequence:
		if g.origin == Tuple && t.Kind() == reflect.Array && !(len(args) == 2 && args[1] == Ellipsis) {
			if t.Len() != len(args) {
				return false
			}
			for _, a := range args {
				if !conforms(t.Elem(), a, depth+1) {
					return false
				}
			}
			return true
		}
		return len(args) >= 1 && conforms(t.Elem(), args[0], depth+1)
	case shape.Callable:
		return SignatureConforms(t, g)
	}
	// Types with a declared protocol or a user generic cannot be decided
	// from the type alone.
	return true
}

// SignatureConforms reports whether the function type fn matches the
// callable hint g: parameters pairwise (unless the hint's parameter list is
// Ellipsis) and the result against the first return value. A trailing error
// return is ignored.
func SignatureConforms(fn reflect.Type, g *Generic) bool {
	if fn == nil || fn.Kind() != reflect.Func || len(g.args) != 2 {
		return false
	}
	if ps, ok := g.args[0].(*Params); ok {
		if fn.NumIn() != len(ps.items) {
			return false
		}
		for i, p := range ps.items {
			in := fn.In(i)
			if in.Kind() == reflect.Interface && in.NumMethod() == 0 {
				continue
			}
			if !Conforms(in, p) {
				return false
			}
		}
	}
	outs := fn.NumOut()
	if outs > 0 && fn.Out(outs-1) == errorType {
		outs--
	}
	result := g.args[1]
	switch outs {
	case 0:
		return result == Any || result == None || Conforms(nil, result)
	case 1:
		return Conforms(fn.Out(0), result)
	default:
		return result == Any
	}
}
