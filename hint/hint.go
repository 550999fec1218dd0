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
	"strings"
	"sync/atomic"
	"unique"
)

// Kind is the variant tag of a Hint.
type Kind uint8

const (
	KindAny Kind = iota
	KindClass
	KindGeneric
	KindParams
	KindUnion
	KindLiteral
	KindStruct
	KindRef
	KindEllipsis
)

func (k Kind) String() string {
	switch k {
	case KindAny:
		return "Any"
	case KindClass:
		return "Class"
	case KindGeneric:
		return "Generic"
	case KindParams:
		return "Params"
	case KindUnion:
		return "Union"
	case KindLiteral:
		return "Literal"
	case KindStruct:
		return "Struct"
	case KindRef:
		return "Ref"
	case KindEllipsis:
		return "Ellipsis"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Hint is a runtime type hint. The set of implementations is closed.
type Hint interface {
	// Kind returns the variant tag.
	Kind() Kind
	// String returns a human-readable expression, e.g. "dict[str, int]".
	String() string
	// Key returns the canonical identity of the hint.
	Key() unique.Handle[string]

	sealed()
}

type anyHint struct{ key unique.Handle[string] }

func (anyHint) Kind() Kind                   { return KindAny }
func (anyHint) String() string               { return "Any" }
func (a anyHint) Key() unique.Handle[string] { return a.key }
func (anyHint) sealed()                      {}

type ellipsisHint struct{ key unique.Handle[string] }

func (ellipsisHint) Kind() Kind                   { return KindEllipsis }
func (ellipsisHint) String() string               { return "..." }
func (e ellipsisHint) Key() unique.Handle[string] { return e.key }
func (ellipsisHint) sealed()                      {}

var (
	// Any matches every value.
	Any Hint = anyHint{key: unique.Make("Any")}
	// Ellipsis stands for "any number of" in tuple and callable hints.
	Ellipsis Hint = ellipsisHint{key: unique.Make("...")}
)

var seq atomic.Uint64

// nextID hands out identities for hints compared by identity rather than
// by structure (exact types, protocols, structs, refs).
func nextID() uint64 { return seq.Add(1) }

// Origin returns the class a Generic hint parameterizes, or nil.
func Origin(h Hint) *Class {
	if g, ok := h.(*Generic); ok {
		return g.origin
	}
	return nil
}

// Args returns the argument hints of a Generic hint, or nil.
func Args(h Hint) []Hint {
	if g, ok := h.(*Generic); ok {
		return g.Args()
	}
	return nil
}

// Equal reports whether a and b describe the same constraint.
func Equal(a, b Hint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Key() == b.Key()
}

func joinKeys(hs []Hint, sep string) string {
	var sb strings.Builder
	for i, h := range hs {
		if i > 0 {
			sb.WriteString(sep)
		}
		sb.WriteString(h.Key().Value())
	}
	return sb.String()
}

func joinStrings(hs []Hint) string {
	parts := make([]string, len(hs))
	for i, h := range hs {
		parts[i] = h.String()
	}
	return strings.Join(parts, ", ")
}
