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
	"fmt"
	"slices"
	"strings"
	"unique"
)

// Field is one declared key of a structured dict.
type Field struct {
	Name string
	Hint Hint
}

// Struct is a structured-dict hint: a string-keyed mapping with declared
// per-key value hints.
type Struct struct {
	name   string
	fields []Field
	total  bool
	closed bool
	frozen bool
	key    unique.Handle[string]
}

// StructOption configures a Struct.
type StructOption func(*Struct)

// WithTotal sets whether unmarked fields are required. Defaults to true.
func WithTotal(total bool) StructOption { return func(s *Struct) { s.total = total } }

// WithClosed rejects keys that are not declared.
func WithClosed() StructOption { return func(s *Struct) { s.closed = true } }

// WithFrozen declares instances of the struct immutable.
func WithFrozen() StructOption { return func(s *Struct) { s.frozen = true } }

// StructOf declares a structured dict. Field names must be unique.
func StructOf(name string, fields []Field, opts ...StructOption) *Struct {
	s := &Struct{name: name, fields: slices.Clone(fields), total: true}
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if f.Hint == nil {
			panic(fmt.Sprintf("hint: struct %s field %q has nil hint", name, f.Name))
		}
		if _, dup := seen[f.Name]; dup {
			panic(fmt.Sprintf("hint: struct %s declares field %q twice", name, f.Name))
		}
		seen[f.Name] = struct{}{}
	}
	for _, opt := range opts {
		opt(s)
	}
	s.key = unique.Make(fmt.Sprintf("s#%d:%s", nextID(), name))
	return s
}

func (*Struct) Kind() Kind                   { return KindStruct }
func (s *Struct) Key() unique.Handle[string] { return s.key }
func (*Struct) sealed()                      {}

func (s *Struct) String() string {
	if s.name != "" {
		return s.name
	}
	parts := make([]string, len(s.fields))
	for i, f := range s.fields {
		parts[i] = fmt.Sprintf("%q: %s", f.Name, f.Hint)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Name returns the declared name, possibly empty.
func (s *Struct) Name() string { return s.name }

// Fields returns a copy of the declared fields.
func (s *Struct) Fields() []Field { return slices.Clone(s.fields) }

// Field returns the hint declared for name.
func (s *Struct) Field(name string) (Hint, bool) {
	for _, f := range s.fields {
		if f.Name == name {
			return f.Hint, true
		}
	}
	return nil, false
}

// Total reports whether unmarked fields are required.
func (s *Struct) Total() bool { return s.total }

// Closed reports whether undeclared keys are rejected.
func (s *Struct) Closed() bool { return s.closed }

// Frozen reports whether instances are declared immutable.
func (s *Struct) Frozen() bool { return s.frozen }

// Required marks a field as present even in a non-total struct.
func Required(h Hint) *Generic { return Of(MarkerRequired, h) }

// NotRequired marks a field as optional even in a total struct.
func NotRequired(h Hint) *Generic { return Of(MarkerNotRequired, h) }

// ReadOnly marks a field as read-only. It does not affect presence.
func ReadOnly(h Hint) *Generic { return Of(MarkerReadOnly, h) }

// FieldSpec is a field hint with its markers peeled off.
type FieldSpec struct {
	Hint        Hint
	Required    bool
	NotRequired bool
	ReadOnly    bool
}

// Unmark strips Required, NotRequired and ReadOnly wrappers from h.
func Unmark(h Hint) FieldSpec {
	var spec FieldSpec
	for {
		g, ok := h.(*Generic)
		if !ok || g.origin.form != FormMarker || len(g.args) != 1 {
			spec.Hint = h
			return spec
		}
		switch g.origin {
		case MarkerRequired:
			spec.Required = true
		case MarkerNotRequired:
			spec.NotRequired = true
		case MarkerReadOnly:
			spec.ReadOnly = true
		}
		h = g.args[0]
	}
}

// IsRequired reports whether field must be present in instances of s.
func (s *Struct) IsRequired(field Field) bool {
	spec := Unmark(field.Hint)
	switch {
	case spec.Required:
		return true
	case spec.NotRequired:
		return false
	default:
		return s.total
	}
}
