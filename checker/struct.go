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
	"strings"

	"dirpx.dev/typecheck/apis"
	"dirpx.dev/typecheck/guard"
	"dirpx.dev/typecheck/hint"
	"dirpx.dev/typecheck/shape"
	uref "dirpx.dev/typecheck/utils/reflect"
)

// TagName is the struct tag that renames a Go struct field when the struct
// is checked against a structured-dict hint. "-" hides the field.
const TagName = "typecheck"

// record is a string-keyed view over a structured-dict instance.
type record struct {
	keys []string
	get  func(name string) (any, bool)
}

// recordOf views v as a record: a map or shape.MappingProtocol whose keys are all
// strings, or a Go struct's exported fields.
func recordOf(v any) (record, bool) {
	if m, ok := v.(shape.MappingProtocol); ok {
		keys := make([]string, 0, m.Len())
		for k := range m.Pairs() {
			s, ok := k.(string)
			if !ok {
				return record{}, false
			}
			keys = append(keys, s)
		}
		return record{keys: keys, get: func(name string) (any, bool) { return m.Get(name) }}, true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return record{}, false
		}
		keys := make([]string, 0, rv.Len())
		it := rv.MapRange()
		for it.Next() {
			keys = append(keys, it.Key().String())
		}
		return record{keys: keys, get: func(name string) (any, bool) { return shape.Lookup(v, name) }}, true
	case reflect.Struct:
		fields := make(map[string]any, rv.NumField())
		keys := make([]string, 0, rv.NumField())
		t := rv.Type()
		for i := range t.NumField() {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			name := f.Name
			if tag, ok := f.Tag.Lookup(TagName); ok {
				tag, _, _ = strings.Cut(tag, ",")
				if tag == "-" {
					continue
				}
				if tag != "" {
					name = tag
				}
			}
			fields[name] = rv.Field(i).Interface()
			keys = append(keys, name)
		}
		return record{keys: keys, get: func(name string) (any, bool) {
			fv, ok := fields[name]
			return fv, ok
		}}, true
	default:
		return record{}, false
	}
}

func isRecord(v any) bool {
	if _, ok := v.(shape.MappingProtocol); ok {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		return rv.Type().Key().Kind() == reflect.String
	case reflect.Struct:
		return true
	default:
		return false
	}
}

// checkStruct matches a structured dict: every required field present,
// every present field valid, and no undeclared keys when s is closed.
func (c *Checker) checkStruct(obj any, s *hint.Struct, imm bool, parents *guard.Path, raise bool, label string) (apis.Result, error) {
	fail := apis.Result{Immutable: imm}

	target, ok := uref.Indirect(obj, c.cfg.MaxUnwrap, isRecord)
	if !ok {
		return c.reject(fail, raise, apis.TagTypeHintMismatch, obj, s, label,
			"object of type %T is not a string-keyed mapping or a struct", obj)
	}
	rec, ok := recordOf(target)
	if !ok {
		return c.reject(fail, raise, apis.TagTypeHintMismatch, obj, s, label,
			"object of type %T has non-string keys", obj)
	}

	tok := visit(s, label, obj, target)
	if parents.Contains(tok) {
		c.debug("typecheck: cycle assumed valid", s, obj, label)
		return apis.Result{Valid: true}, nil
	}
	next := parents.Extend(tok)

	res := apis.Result{Valid: true, Immutable: imm}
	for _, f := range s.Fields() {
		v, present := rec.get(f.Name)
		if !present {
			if s.IsRequired(f) {
				return c.reject(apis.Result{Immutable: res.Immutable}, raise, apis.TagValidationFailed, obj, s, label,
					"missing required key %q", f.Name)
			}
			continue
		}
		r, err := c.Check(v, hint.Unmark(f.Hint).Hint, next, raise, ContextStructField)
		res.Immutable = res.Immutable && r.Immutable
		if err != nil {
			return apis.Result{Immutable: res.Immutable}, c.propagate(err, obj, s, label, "key %q", f.Name)
		}
		if !r.Valid {
			return apis.Result{Immutable: res.Immutable}, nil
		}
	}

	if s.Closed() {
		for _, k := range rec.keys {
			if _, declared := s.Field(k); !declared {
				return c.reject(apis.Result{Immutable: res.Immutable}, raise, apis.TagValidationFailed, obj, s, label,
					"unexpected key %q", k)
			}
		}
	}
	return res, nil
}
