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
	"iter"
	"reflect"

	"dirpx.dev/typecheck/apis"
	"dirpx.dev/typecheck/hint"
	"dirpx.dev/typecheck/shape"
)

type matchFunc func(m match) (apis.Result, error)

// matcher returns the matcher of structure s.
func (c *Checker) matcher(s shape.Structure) matchFunc {
	switch s {
	case shape.Mapping:
		return c.matchMapping
	case shape.Set:
		return c.matchSet
	case shape.Sequence:
		return c.matchSequence
	case shape.Collection:
		return c.matchCollection
	case shape.Iterable:
		return c.matchIterable
	case shape.Callable:
		return c.matchCallable
	default:
		return c.matchParameterized
	}
}

func (c *Checker) arity(m match, want int) (apis.Result, error) {
	return m.fail(), apis.NewValueError(m.obj, m.h, "%s takes %d type arguments, got %d", m.origin, want, len(m.args))
}

func (c *Checker) unwalkable(m match) (apis.Result, error) {
	return c.reject(m.fail(), m.raise, apis.TagTypeHintMismatch, m.obj, m.h, m.label,
		"object of type %T cannot be walked as %s", m.obj, m.h)
}

// each checks every element of items against eh. The result is immutable
// only if the container and every inspected element are.
func (c *Checker) each(m match, items iter.Seq[any], eh hint.Hint, label string) (apis.Result, error) {
	res := apis.Result{Valid: true, Immutable: m.imm}
	i := 0
	for v := range items {
		r, err := c.Check(v, eh, m.parents, m.raise, label)
		res.Immutable = res.Immutable && r.Immutable
		if err != nil {
			return apis.Result{Immutable: res.Immutable}, c.propagate(err, m.obj, m.h, m.label, "%s %d", label, i)
		}
		if !r.Valid {
			return apis.Result{Immutable: res.Immutable}, nil
		}
		i++
	}
	return res, nil
}

func (c *Checker) matchMapping(m match) (apis.Result, error) {
	if len(m.args) != 2 {
		return c.arity(m, 2)
	}
	entries, ok := shape.Entries(m.obj)
	if !ok {
		return c.unwalkable(m)
	}
	res := apis.Result{Valid: true, Immutable: m.imm}
	for k, v := range entries {
		rk, err := c.Check(k, m.args[0], m.parents, m.raise, ContextMappingKey)
		res.Immutable = res.Immutable && rk.Immutable
		if err != nil {
			return apis.Result{Immutable: res.Immutable}, c.propagate(err, m.obj, m.h, m.label, "key %v", k)
		}
		if !rk.Valid {
			return apis.Result{Immutable: res.Immutable}, nil
		}
		rv, err := c.Check(v, m.args[1], m.parents, m.raise, ContextMappingValue)
		res.Immutable = res.Immutable && rv.Immutable
		if err != nil {
			return apis.Result{Immutable: res.Immutable}, c.propagate(err, m.obj, m.h, m.label, "value of key %v", k)
		}
		if !rv.Valid {
			return apis.Result{Immutable: res.Immutable}, nil
		}
	}
	return res, nil
}

func (c *Checker) matchSet(m match) (apis.Result, error) {
	if len(m.args) != 1 {
		return c.arity(m, 1)
	}
	items, ok := shape.Elements(m.obj)
	if !ok {
		return c.unwalkable(m)
	}
	return c.each(m, items, m.args[0], ContextSetItem)
}

func (c *Checker) matchSequence(m match) (apis.Result, error) {
	if m.origin == hint.Tuple && !homogeneous(m.args) {
		return c.matchTuple(m)
	}
	if len(m.args) != 1 && !homogeneous(m.args) {
		return c.arity(m, 1)
	}
	items, ok := shape.Elements(m.obj)
	if !ok {
		return c.unwalkable(m)
	}
	return c.each(m, items, m.args[0], ContextSequenceItem)
}

// homogeneous reports whether args is (elem, ...).
func homogeneous(args []hint.Hint) bool {
	return len(args) == 2 && args[1] == hint.Ellipsis
}

// matchTuple checks a fixed-length tuple position by position.
func (c *Checker) matchTuple(m match) (apis.Result, error) {
	for _, a := range m.args {
		if a == hint.Ellipsis {
			return m.fail(), apis.NewValueError(m.obj, m.h, "... is only valid as the second of two tuple arguments")
		}
	}
	n, ok := shape.Len(m.obj)
	if !ok {
		return c.unwalkable(m)
	}
	if n != len(m.args) {
		return c.reject(m.fail(), m.raise, apis.TagValidationFailed, m.obj, m.h, m.label,
			"tuple has %d items, %s expects %d", n, m.h, len(m.args))
	}
	res := apis.Result{Valid: true, Immutable: m.imm}
	for i, a := range m.args {
		v, _ := shape.At(m.obj, i)
		r, err := c.Check(v, a, m.parents, m.raise, ContextSequenceItem)
		res.Immutable = res.Immutable && r.Immutable
		if err != nil {
			return apis.Result{Immutable: res.Immutable}, c.propagate(err, m.obj, m.h, m.label, "item %d", i)
		}
		if !r.Valid {
			return apis.Result{Immutable: res.Immutable}, nil
		}
	}
	return res, nil
}

func (c *Checker) matchCollection(m match) (apis.Result, error) {
	if len(m.args) != 1 {
		return c.arity(m, 1)
	}
	items, ok := shape.Elements(m.obj)
	if !ok {
		return c.unwalkable(m)
	}
	return c.each(m, items, m.args[0], ContextCollectionItem)
}

func (c *Checker) matchIterable(m match) (apis.Result, error) {
	if len(m.args) != 1 {
		return c.arity(m, 1)
	}
	items, ok := shape.Elements(m.obj)
	if !ok {
		return c.unwalkable(m)
	}
	return c.each(m, items, m.args[0], ContextIterableItem)
}

// matchCallable compares the function's signature with the hint. The
// function is never called.
func (c *Checker) matchCallable(m match) (apis.Result, error) {
	if len(m.args) != 2 {
		return c.arity(m, 2)
	}
	g, ok := m.h.(*hint.Generic)
	if !ok {
		g = hint.Of(m.origin, m.args...)
	}
	if !hint.SignatureConforms(reflect.TypeOf(m.obj), g) {
		return c.reject(m.fail(), m.raise, apis.TagValidationFailed, m.obj, m.h, m.label,
			"signature %T does not match %s", m.obj, m.h)
	}
	return apis.Result{Valid: true, Immutable: m.imm}, nil
}
