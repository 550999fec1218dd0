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
	"reflect"
	"slices"
	"strings"
	"unique"
)

// Union matches a value conforming to at least one member.
type Union struct {
	members []Hint
	key     unique.Handle[string]
}

func (*Union) Kind() Kind                   { return KindUnion }
func (u *Union) Key() unique.Handle[string] { return u.key }
func (*Union) sealed()                      {}

func (u *Union) String() string {
	parts := make([]string, len(u.members))
	for i, m := range u.members {
		parts[i] = m.String()
	}
	return strings.Join(parts, " | ")
}

// Members returns a copy of the member hints in declaration order.
func (u *Union) Members() []Hint { return slices.Clone(u.members) }

// UnionOf builds a union. Nested unions are flattened and duplicates
// dropped. A union of one member is that member.
func UnionOf(members ...Hint) Hint {
	var flat []Hint
	seen := make(map[unique.Handle[string]]struct{})
	var add func(h Hint)
	add = func(h Hint) {
		if h == nil {
			panic("hint: nil union member")
		}
		if u, ok := h.(*Union); ok {
			for _, m := range u.members {
				add(m)
			}
			return
		}
		if _, dup := seen[h.Key()]; dup {
			return
		}
		seen[h.Key()] = struct{}{}
		flat = append(flat, h)
	}
	for _, m := range members {
		add(m)
	}
	switch len(flat) {
	case 0:
		return Never
	case 1:
		return flat[0]
	}
	keys := make([]string, len(flat))
	for i, m := range flat {
		keys[i] = m.Key().Value()
	}
	slices.Sort(keys)
	return &Union{
		members: flat,
		key:     unique.Make("U(" + strings.Join(keys, "|") + ")"),
	}
}

// Optional is h | None.
func Optional(h Hint) Hint { return UnionOf(h, None) }

// Literal matches values equal to one of a fixed set of comparable values.
type Literal struct {
	values []any
	key    unique.Handle[string]
}

func (*Literal) Kind() Kind                   { return KindLiteral }
func (l *Literal) Key() unique.Handle[string] { return l.key }
func (*Literal) sealed()                      {}

func (l *Literal) String() string {
	parts := make([]string, len(l.values))
	for i, v := range l.values {
		parts[i] = literalRepr(v)
	}
	return "Literal[" + strings.Join(parts, ", ") + "]"
}

// Values returns a copy of the accepted values.
func (l *Literal) Values() []any { return slices.Clone(l.values) }

// Matches reports whether v equals one of the values. Equality requires
// identical dynamic types: Literal[1] does not match int64(1).
func (l *Literal) Matches(v any) bool {
	if v != nil && !reflect.TypeOf(v).Comparable() {
		return false
	}
	for _, want := range l.values {
		if v == want {
			return true
		}
	}
	return false
}

// LiteralOf builds a literal hint. Every value must be comparable.
func LiteralOf(values ...any) *Literal {
	parts := make([]string, len(values))
	for i, v := range values {
		if v != nil && !reflect.TypeOf(v).Comparable() {
			panic(fmt.Sprintf("hint: literal value %v of type %T is not comparable", v, v))
		}
		parts[i] = fmt.Sprintf("%T:%#v", v, v)
	}
	return &Literal{
		values: slices.Clone(values),
		key:    unique.Make("L(" + strings.Join(parts, ",") + ")"),
	}
}

func literalRepr(v any) string {
	switch v := v.(type) {
	case nil:
		return "None"
	case string:
		return fmt.Sprintf("%q", v)
	case bool:
		if v {
			return "True"
		}
		return "False"
	default:
		return fmt.Sprint(v)
	}
}
