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

// Package guard tracks the values visited on the current descent of a
// recursive check so that self-referential data terminates.
//
// A Path is persistent: Extend returns a new path sharing its tail with the
// receiver, so sibling branches of a container never observe each other's
// visits and a Path can be handed to concurrent goroutines without locking.
package guard

import (
	"reflect"
	"unique"
)

// Token identifies one step of a descent: which object, checked against
// which hint, in which context.
type Token struct {
	// Addr is the object's address. Zero means the object has no identity.
	Addr uintptr
	// Span distinguishes slices sharing a backing array.
	Span int
	// Hint is the canonical key of the hint being checked.
	Hint unique.Handle[string]
	// Context labels the role of the object in its parent, e.g. "mapping_value".
	Context string
}

// Path is an immutable list of tokens. The nil *Path is the empty path.
type Path struct {
	parent *Path
	tok    Token
	depth  int
}

// Depth returns the number of steps on the path.
func (p *Path) Depth() int {
	if p == nil {
		return 0
	}
	return p.depth
}

// Contains reports whether t was visited on this path. Tokens without
// identity are never considered visited.
func (p *Path) Contains(t Token) bool {
	if t.Addr == 0 {
		return false
	}
	for n := p; n != nil; n = n.parent {
		if n.tok == t {
			return true
		}
	}
	return false
}

// Extend returns a path with t appended. The receiver is unchanged.
func (p *Path) Extend(t Token) *Path {
	return &Path{parent: p, tok: t, depth: p.Depth() + 1}
}

// Tokens returns the visited tokens, outermost first.
func (p *Path) Tokens() []Token {
	out := make([]Token, p.Depth())
	for n, i := p, p.Depth()-1; n != nil; n, i = n.parent, i-1 {
		out[i] = n.tok
	}
	return out
}

// Identity returns the address and span of v when v is a reference value
// that can participate in a cycle (pointers, maps, slices). Values without
// identity return ok == false.
func Identity(v any) (addr uintptr, span int, ok bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map:
		if rv.IsNil() {
			return 0, 0, false
		}
		return rv.Pointer(), 0, true
	case reflect.Slice:
		if rv.IsNil() || rv.Len() == 0 {
			return 0, 0, false
		}
		return rv.Pointer(), rv.Len(), true
	default:
		return 0, 0, false
	}
}

// TokenFor builds the token for checking v against hintKey in context.
func TokenFor(v any, hintKey unique.Handle[string], context string) (Token, bool) {
	addr, span, ok := Identity(v)
	if !ok {
		return Token{}, false
	}
	return Token{Addr: addr, Span: span, Hint: hintKey, Context: context}, true
}
