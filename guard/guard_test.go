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

package guard_test

import (
	"sync"
	"testing"
	"unique"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/typecheck/guard"
)

func TestEmptyPath(t *testing.T) {
	var p *guard.Path
	assert.Equal(t, 0, p.Depth())
	assert.False(t, p.Contains(guard.Token{Addr: 1}))
	assert.Empty(t, p.Tokens())
}

func TestExtendDoesNotMutate(t *testing.T) {
	key := unique.Make("list[int]")
	a := guard.Token{Addr: 1, Hint: key}
	b := guard.Token{Addr: 2, Hint: key}
	c := guard.Token{Addr: 3, Hint: key}

	root := (*guard.Path)(nil).Extend(a)
	left := root.Extend(b)
	right := root.Extend(c)

	assert.Equal(t, 1, root.Depth())
	assert.False(t, root.Contains(b))
	assert.True(t, left.Contains(a))
	assert.True(t, left.Contains(b))
	assert.False(t, left.Contains(c), "siblings do not see each other")
	assert.False(t, right.Contains(b))
	assert.Equal(t, []guard.Token{a, c}, right.Tokens())
}

func TestTokenFieldsAllMatter(t *testing.T) {
	p := (*guard.Path)(nil).Extend(guard.Token{Addr: 1, Hint: unique.Make("a"), Context: "x"})
	assert.False(t, p.Contains(guard.Token{Addr: 1, Hint: unique.Make("b"), Context: "x"}))
	assert.False(t, p.Contains(guard.Token{Addr: 1, Hint: unique.Make("a"), Context: "y"}))
	assert.False(t, p.Contains(guard.Token{Addr: 1, Span: 2, Hint: unique.Make("a"), Context: "x"}))
	assert.True(t, p.Contains(guard.Token{Addr: 1, Hint: unique.Make("a"), Context: "x"}))

	anon := (*guard.Path)(nil).Extend(guard.Token{Hint: unique.Make("a")})
	assert.Equal(t, 1, anon.Depth())
	assert.False(t, anon.Contains(guard.Token{Hint: unique.Make("a")}), "tokens without identity never match")
}

func TestIdentity(t *testing.T) {
	x := 1
	_, _, ok := guard.Identity(&x)
	assert.True(t, ok)

	m := map[string]int{}
	a1, _, _ := guard.Identity(m)
	a2, _, _ := guard.Identity(m)
	assert.Equal(t, a1, a2)

	s := []int{1, 2, 3}
	addr, span, ok := guard.Identity(s)
	require.True(t, ok)
	assert.Equal(t, 3, span)
	addr2, span2, _ := guard.Identity(s[:2])
	assert.Equal(t, addr, addr2)
	assert.NotEqual(t, span, span2)

	for _, v := range []any{nil, 1, "s", [2]int{}, []int(nil), []int{}, (*int)(nil)} {
		_, _, ok := guard.Identity(v)
		assert.False(t, ok, "%#v", v)
	}
}

func TestSelfReferentialSlice(t *testing.T) {
	s := []any{nil}
	s[0] = s
	key := unique.Make("list[Any]")

	outer, ok := guard.TokenFor(s, key, "")
	require.True(t, ok)
	inner, ok := guard.TokenFor(s[0], key, "")
	require.True(t, ok)
	assert.Equal(t, outer, inner)
	assert.True(t, (*guard.Path)(nil).Extend(outer).Contains(inner))
}

func TestConcurrentExtend(t *testing.T) {
	root := (*guard.Path)(nil).Extend(guard.Token{Addr: 1})
	var wg sync.WaitGroup
	for i := range 64 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := root
			for j := range 100 {
				p = p.Extend(guard.Token{Addr: uintptr(i*1000 + j + 2)})
			}
			assert.Equal(t, 101, p.Depth())
			assert.True(t, p.Contains(guard.Token{Addr: 1}))
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, root.Depth())
}
