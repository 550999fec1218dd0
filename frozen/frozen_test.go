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

package frozen_test

import (
	"reflect"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/typecheck/frozen"
	"dirpx.dev/typecheck/shape"
)

func TestTupleCopiesInput(t *testing.T) {
	src := []int{1, 2, 3}
	tup := frozen.TupleOf(src...)
	src[0] = 99

	assert.Equal(t, 3, tup.Len())
	assert.Equal(t, 1, tup.Get(0))
	assert.Equal(t, []any{1, 2, 3}, slices.Collect(tup.Items()))
	assert.Equal(t, "(1, 2, 3)", tup.String())
}

func TestSetMembership(t *testing.T) {
	s := frozen.SetOf("a", "b", "a")

	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Has("a"))
	assert.True(t, s.Contains("b"))
	assert.False(t, s.Contains(1), "members of another type never match")
	assert.ElementsMatch(t, []string{"a", "b"}, slices.Collect(s.Members()))
}

func TestMapIsDetached(t *testing.T) {
	src := map[string]int{"a": 1}
	m := frozen.MapOf(src)
	src["b"] = 2

	require.Equal(t, 1, m.Len())
	v, ok := m.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	_, ok = m.Get(1)
	assert.False(t, ok)
	_, ok = m.Lookup("b")
	assert.False(t, ok)
}

func TestProtocols(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want shape.Structure
	}{
		{"tuple", frozen.TupleOf(1), shape.Sequence},
		{"set", frozen.SetOf(1), shape.Set},
		{"map", frozen.MapOf(map[int]int{}), shape.Mapping},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ := reflect.TypeOf(tt.v)
			assert.Equal(t, tt.want, shape.Of(typ))
			assert.True(t, shape.IsImmutable(typ))
		})
	}
}
