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

package checker

import (
	"reflect"
	"slices"

	"dirpx.dev/typecheck/apis"
	"dirpx.dev/typecheck/guard"
	"dirpx.dev/typecheck/hint"
	"dirpx.dev/typecheck/shape"
	uref "dirpx.dev/typecheck/utils/reflect"
)

// match is one structural matching step: obj is already known to be an
// instance of origin.
type match struct {
	obj     any
	h       hint.Hint
	origin  *hint.Class
	args    []hint.Hint
	imm     bool
	parents *guard.Path
	raise   bool
	label   string
}

func (m match) fail() apis.Result { return apis.Result{Immutable: m.imm} }

var (
	anyTuple    = []hint.Hint{hint.Any, hint.Ellipsis}
	anyCallable = []hint.Hint{hint.Ellipsis, hint.Any}
)

// implied returns the arguments a bare class stands for: list means
// list[Any], dict means dict[Any, Any], tuple means tuple[Any, ...] and
// Callable means Callable[..., Any]. Classes without a structure imply
// nothing.
func implied(cls *hint.Class) []hint.Hint {
	switch s := cls.Structure(); {
	case cls == hint.Tuple:
		return anyTuple
	case s == shape.Callable:
		return anyCallable
	case s.Container():
		args := make([]hint.Hint, s.Arity())
		for i := range args {
			args[i] = hint.Any
		}
		return args
	default:
		return nil
	}
}

func (c *Checker) checkGeneric(obj any, h hint.Hint, imm bool, parents *guard.Path, raise bool, label string) (apis.Result, error) {
	fail := apis.Result{Immutable: imm}

	var (
		origin *hint.Class
		args   []hint.Hint
	)
	switch h := h.(type) {
	case *hint.Generic:
		origin, args = h.Origin(), h.Args()
	case *hint.Class:
		origin, args = h, implied(h)
	}

	if !origin.RuntimeCheckable() {
		return c.reject(fail, raise, apis.TagNonRuntimeCheckableProtocol, obj, h, label,
			"protocol %s is not runtime checkable", origin)
	}
	// Markers are always reported, whatever raise says.
	if origin.Form() == hint.FormMarker {
		return fail, apis.NewTypeError(apis.TagInvalidPseudoOrigin, obj, h, label,
			"%s is only valid on a structured dict field", origin)
	}

	target, ok := c.instance(origin, obj)
	if !ok {
		return c.reject(fail, raise, apis.TagTypeHintMismatch, obj, h, label,
			"object of type %T is not an instance of %s", obj, origin)
	}
	if len(args) == 0 {
		return apis.Result{Valid: true, Immutable: imm}, nil
	}

	tok := visit(h, label, obj, target)
	if parents.Contains(tok) {
		c.debug("typecheck: cycle assumed valid", h, obj, label)
		return apis.Result{Valid: true}, nil
	}

	m := match{
		obj:     target,
		h:       h,
		origin:  origin,
		args:    args,
		imm:     imm,
		parents: parents.Extend(tok),
		raise:   raise,
		label:   label,
	}

	st := origin.Structure()
	if st == shape.None {
		st = c.res.Resolve(target, c.cfg)
	}
	for _, s := range shape.Dispatch {
		if st.Satisfies(s) {
			return c.matcher(s)(m)
		}
	}
	return c.matchParameterized(m)
}

// visit builds the guard token for checking obj against h. target is obj or
// a value reached by dereferencing it; when target is a copy with no address
// of its own, the pointer it was read through stands in for it.
func visit(h hint.Hint, label string, obj, target any) guard.Token {
	tok := guard.Token{Hint: h.Key(), Context: label}
	var ok bool
	if tok.Addr, tok.Span, ok = guard.Identity(target); !ok {
		tok.Addr, tok.Span, _ = guard.Identity(obj)
	}
	return tok
}

// instance returns obj, or the first value behind at most MaxUnwrap of its
// pointers, that is an instance of cls.
func (c *Checker) instance(cls *hint.Class, obj any) (any, bool) {
	return uref.Indirect(obj, c.cfg.MaxUnwrap, func(v any) bool {
		if cls.Form() == hint.FormStructural {
			return v != nil && c.res.Resolve(v, c.cfg).Satisfies(cls.Structure())
		}
		return cls.Instance(v)
	})
}

// matchParameterized handles origins with no structural protocol, i.e.
// user-defined generics. In order: the object's own report of its type
// arguments, the instantiation recorded in its runtime type name, and
// finally its elements if it can be walked.
func (c *Checker) matchParameterized(m match) (apis.Result, error) {
	if p, ok := m.obj.(shape.Parameterized); ok {
		targs := p.TypeArgs()
		if len(targs) != len(m.args) {
			return c.reject(m.fail(), m.raise, apis.TagValidationFailed, m.obj, m.h, m.label,
				"%T has %d type arguments, %s expects %d", m.obj, len(targs), m.h, len(m.args))
		}
		for i, t := range targs {
			if !hint.Conforms(t, m.args[i]) {
				return c.reject(m.fail(), m.raise, apis.TagValidationFailed, m.obj, m.h, ContextGenericParam,
					"type argument %d of %T is %v, want %s", i, m.obj, t, m.args[i])
			}
		}
		return apis.Result{Valid: true, Immutable: m.imm}, nil
	}

	t := reflect.TypeOf(m.obj)
	if t != nil && t.Kind() == reflect.Pointer && t.Name() == "" {
		t = t.Elem()
	}
	if names := typeParams(t); len(names) > 0 {
		if len(names) != len(m.args) {
			return c.reject(m.fail(), m.raise, apis.TagValidationFailed, m.obj, m.h, m.label,
				"%v has %d type arguments, %s expects %d", t, len(names), m.h, len(m.args))
		}
		for i, name := range names {
			if !paramMatches(name, m.args[i]) {
				return c.reject(m.fail(), m.raise, apis.TagValidationFailed, m.obj, m.h, ContextGenericParam,
					"type argument %d of %v is %s, want %s", i, t, name, m.args[i])
			}
		}
		return apis.Result{Valid: true, Immutable: m.imm}, nil
	}

	if items, ok := shape.Elements(m.obj); ok {
		c.debug("typecheck: checking generic by its elements", m.h, m.obj, m.label)
		return c.each(m, items, m.args[0], ContextGenericItem)
	}
	c.debug("typecheck: generic arguments not checkable", m.h, m.obj, m.label)
	return apis.Result{Valid: true, Immutable: m.imm}, nil
}

func typeParams(t reflect.Type) []string {
	if t == nil {
		return nil
	}
	return uref.TypeParams(t.Name())
}

var scalarNames = map[*hint.Class][]string{
	hint.Int:     {"int", "int8", "int16", "int32", "int64"},
	hint.Uint:    {"uint", "uint8", "uint16", "uint32", "uint64", "uintptr"},
	hint.Float:   {"float32", "float64"},
	hint.Complex: {"complex64", "complex128"},
	hint.Str:     {"string"},
	hint.Bool:    {"bool"},
}

// paramMatches reports whether the type argument spelled name in a runtime
// type name satisfies h. Hints that cannot be compared with a name are
// assumed to match.
func paramMatches(name string, h hint.Hint) bool {
	switch h := hint.Resolve(h).(type) {
	case *hint.Class:
		switch h.Form() {
		case hint.FormType:
			return uref.QualifiedName(h.Type()) == name
		case hint.FormNone:
			return false
		case hint.FormBuiltin:
			if names, ok := scalarNames[h]; ok {
				return slices.Contains(names, name)
			}
		}
		return true
	case *hint.Union:
		for _, m := range h.Members() {
			if paramMatches(name, m) {
				return true
			}
		}
		return false
	default:
		return true
	}
}
