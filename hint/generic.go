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
	"unique"
)

// Generic is a class parameterized by argument hints, e.g. list[int].
type Generic struct {
	origin *Class
	args   []Hint
	key    unique.Handle[string]
}

func (*Generic) Kind() Kind                   { return KindGeneric }
func (g *Generic) Key() unique.Handle[string] { return g.key }
func (*Generic) sealed()                      {}

func (g *Generic) String() string {
	return g.origin.String() + "[" + joinStrings(g.args) + "]"
}

// Origin returns the parameterized class.
func (g *Generic) Origin() *Class { return g.origin }

// Args returns a copy of the argument hints.
func (g *Generic) Args() []Hint { return slices.Clone(g.args) }

// Arg returns the i-th argument.
func (g *Generic) Arg(i int) Hint { return g.args[i] }

// NumArgs returns the number of arguments.
func (g *Generic) NumArgs() int { return len(g.args) }

// Of parameterizes origin with args. Nil arguments are rejected.
func Of(origin *Class, args ...Hint) *Generic {
	if origin == nil {
		panic("hint: Of with nil origin")
	}
	for i, a := range args {
		if a == nil {
			panic(fmt.Sprintf("hint: nil argument %d for %s", i, origin))
		}
	}
	return &Generic{
		origin: origin,
		args:   slices.Clone(args),
		key:    unique.Make(origin.Key().Value() + "[" + joinKeys(args, ",") + "]"),
	}
}

// ListOf is list[elem].
func ListOf(elem Hint) *Generic { return Of(List, elem) }

// DictOf is dict[key, value].
func DictOf(key, value Hint) *Generic { return Of(Dict, key, value) }

// SetOf is set[elem].
func SetOf(elem Hint) *Generic { return Of(Set, elem) }

// FrozenSetOf is frozenset[elem].
func FrozenSetOf(elem Hint) *Generic { return Of(FrozenSet, elem) }

// FrozenDictOf is frozendict[key, value].
func FrozenDictOf(key, value Hint) *Generic { return Of(FrozenDict, key, value) }

// TupleOf is a positional tuple hint. Pass (elem, Ellipsis) for a
// homogeneous tuple of any length.
func TupleOf(elems ...Hint) *Generic { return Of(Tuple, elems...) }

// MappingOf is Mapping[key, value].
func MappingOf(key, value Hint) *Generic { return Of(Mapping, key, value) }

// SequenceOf is Sequence[elem].
func SequenceOf(elem Hint) *Generic { return Of(Sequence, elem) }

// CollectionOf is Collection[elem].
func CollectionOf(elem Hint) *Generic { return Of(Collection, elem) }

// IterableOf is Iterable[elem].
func IterableOf(elem Hint) *Generic { return Of(Iterable, elem) }

// CallableOf is Callable[params, result]. params is either a *Params or
// Ellipsis.
func CallableOf(params Hint, result Hint) *Generic {
	switch params.(type) {
	case *Params, ellipsisHint:
	default:
		panic(fmt.Sprintf("hint: callable parameters must be a parameter list or ..., got %s", params))
	}
	return Of(Callable, params, result)
}

// Params is the parameter list of a callable hint.
type Params struct {
	items []Hint
	key   unique.Handle[string]
}

func (*Params) Kind() Kind                   { return KindParams }
func (p *Params) Key() unique.Handle[string] { return p.key }
func (p *Params) String() string             { return "[" + joinStrings(p.items) + "]" }
func (*Params) sealed()                      {}

// Items returns a copy of the parameter hints.
func (p *Params) Items() []Hint { return slices.Clone(p.items) }

// Len returns the number of parameters.
func (p *Params) Len() int { return len(p.items) }

// ParamsOf builds a parameter list.
func ParamsOf(items ...Hint) *Params {
	return &Params{
		items: slices.Clone(items),
		key:   unique.Make("P[" + joinKeys(items, ",") + "]"),
	}
}
