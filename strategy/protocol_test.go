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

package strategy_test

import (
	"iter"
	"reflect"
	"slices"
	"testing"

	"dirpx.dev/typecheck/apis"
	"dirpx.dev/typecheck/frozen"
	"dirpx.dev/typecheck/shape"
	"dirpx.dev/typecheck/strategy"
)

// stream only walks.
type stream struct{ xs []any }

func (s stream) Items() iter.Seq[any] { return slices.Values(s.xs) }

// bag walks and counts.
type bag struct{ stream }

func (b bag) Len() int { return len(b.xs) }

func TestProtocolStrategy_TryClassify(t *testing.T) {
	s := strategy.NewProtocolStrategy()
	conf := apis.Config{} // config is irrelevant for ProtocolStrategy

	cases := []struct {
		name string
		val  any
		want shape.Structure
	}{
		{"iterable", stream{}, shape.Iterable},
		{"collection", bag{}, shape.Collection},
		{"tuple", frozen.TupleOf(1, 2), shape.Sequence},
		{"frozen set", frozen.SetOf("a"), shape.Set},
		{"frozen map", frozen.MapOf(map[string]int{"a": 1}), shape.Mapping},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := s.TryClassify(tc.val, conf)
			if !ok || got != tc.want {
				t.Fatalf("TryClassify(%T): got (%v,%v), want (%v,true)", tc.val, got, ok, tc.want)
			}
			got, ok = s.TryClassifyType(reflect.TypeOf(tc.val), conf)
			if !ok || got != tc.want {
				t.Fatalf("TryClassifyType(%T): got (%v,%v), want (%v,true)", tc.val, got, ok, tc.want)
			}
		})
	}

	// Plain Go containers do not declare a protocol -> handled = false
	for _, v := range []any{nil, []int{1}, map[string]int{}, struct{}{}} {
		if got, ok := s.TryClassify(v, conf); ok || got != shape.None {
			t.Fatalf("TryClassify(%T): got (%v,%v), want (None,false)", v, got, ok)
		}
	}
	if got, ok := s.TryClassifyType(nil, conf); ok || got != shape.None {
		t.Fatalf("TryClassifyType(nil): got (%v,%v), want (None,false)", got, ok)
	}
}

// Ensure the local types actually satisfy the protocols (compile-time).
var (
	_ shape.IterableProtocol   = stream{}
	_ shape.CollectionProtocol = bag{}
)
