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
	"unique"
)

// Ref names a hint so that it can refer to itself.
type Ref struct {
	name   string
	target Hint
	key    unique.Handle[string]
}

// Recursive builds a self-referential hint. build receives the Ref under
// construction and returns its target:
//
//	tree := hint.Recursive("Tree", func(self hint.Hint) hint.Hint {
//		return hint.ListOf(self)
//	})
func Recursive(name string, build func(self Hint) Hint) *Ref {
	r := &Ref{
		name: name,
		key:  unique.Make(fmt.Sprintf("r#%d:%s", nextID(), name)),
	}
	r.target = build(r)
	if r.target == nil {
		panic(fmt.Sprintf("hint: recursive hint %s has nil target", name))
	}
	return r
}

// Alias names an existing hint without changing its meaning.
func Alias(name string, target Hint) *Ref {
	return Recursive(name, func(Hint) Hint { return target })
}

func (*Ref) Kind() Kind                   { return KindRef }
func (r *Ref) Key() unique.Handle[string] { return r.key }
func (r *Ref) String() string             { return r.name }
func (*Ref) sealed()                      {}

// Name returns the declared name.
func (r *Ref) Name() string { return r.name }

// Target returns the referenced hint.
func (r *Ref) Target() Hint { return r.target }

// Resolve follows refs until a non-ref hint is reached. A ref chain that
// loops back on itself resolves to Any.
func Resolve(h Hint) Hint {
	seen := 0
	for {
		r, ok := h.(*Ref)
		if !ok {
			return h
		}
		if seen++; seen > 64 {
			return Any
		}
		h = r.target
	}
}
