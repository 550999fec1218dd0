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

package strategy

import (
	"reflect"
	"runtime"
	"sync"
	"testing"

	"dirpx.dev/typecheck/apis"
	"dirpx.dev/typecheck/shape"
)

// Local test types.
type A struct{}
type G[T any] struct{}
type W[T any] []T
type Flags map[string]struct{}

// cfg returns a convenient baseline Config for tests.
func cfg(opts ...func(*apis.Config)) apis.Config {
	c := apis.Config{MaxUnwrap: 8}
	for _, o := range opts {
		o(&c)
	}
	return c
}

func TestReflectStrategy_ByValue(t *testing.T) {
	s := NewReflectStrategy()

	cases := []struct {
		name     string
		val      any
		expected shape.Structure
	}{
		{"plain struct", A{}, shape.None},
		{"ptr", &A{}, shape.None},
		{"slice", []A{}, shape.Sequence},
		{"array", [2]A{}, shape.Sequence},
		{"chan", make(chan A), shape.None},
		{"map", map[string]A{}, shape.Mapping},
		{"map of empty struct", map[string]struct{}{}, shape.Set},
		{"named set", Flags{}, shape.Set},
		{"func", func(int) string { return "" }, shape.Callable},
		{"string is not a sequence", "abc", shape.None},
		{"builtin", 42, shape.None},
		{"generic struct", G[int]{}, shape.None},
		{"generic slice", W[G[int]]{}, shape.Sequence},
		{"pointer to slice", &[]int{}, shape.None},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := s.TryClassify(tc.val, cfg())
			if !ok {
				t.Fatalf("expected ok=true for %T", tc.val)
			}
			if got != tc.expected {
				t.Fatalf("got %v, want %v", got, tc.expected)
			}
		})
	}

	if got, ok := s.TryClassify(nil, cfg()); ok || got != shape.None {
		t.Fatalf("nil value: got (%v,%v), want (None,false)", got, ok)
	}
}

func TestReflectStrategy_ByType(t *testing.T) {
	s := NewReflectStrategy()

	cases := []struct {
		name     string
		typ      reflect.Type
		expected shape.Structure
	}{
		{"type plain", reflect.TypeOf(A{}), shape.None},
		{"type slice", reflect.TypeOf([]A{}), shape.Sequence},
		{"type array", reflect.TypeOf([2]A{}), shape.Sequence},
		{"type chan", reflect.TypeOf((chan A)(nil)), shape.None},
		{"type map", reflect.TypeOf(map[string]A{}), shape.Mapping},
		{"type set", reflect.TypeOf(Flags{}), shape.Set},
		{"type func", reflect.TypeOf((func())(nil)), shape.Callable},
		{"type interface", reflect.TypeFor[error](), shape.None},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := s.TryClassifyType(tc.typ, cfg())
			if !ok {
				t.Fatalf("expected ok=true for %v", tc.typ)
			}
			if got != tc.expected {
				t.Fatalf("got %v, want %v", got, tc.expected)
			}
		})
	}

	if got, ok := s.TryClassifyType(nil, cfg()); ok || got != shape.None {
		t.Fatalf("nil type: got (%v,%v), want (None,false)", got, ok)
	}
}

// This test stresses the memoization path under concurrency.
func TestReflectStrategy_Concurrent(t *testing.T) {
	s := NewReflectStrategy()
	conf := cfg()

	types := []reflect.Type{
		reflect.TypeOf(A{}),
		reflect.TypeOf(&A{}),
		reflect.TypeOf([]A{}),
		reflect.TypeOf(map[string]A{}),
		reflect.TypeOf(Flags{}),
		reflect.TypeOf(W[G[int]]{}),
		reflect.TypeOf(0),
	}
	expect := []shape.Structure{shape.None, shape.None, shape.Sequence, shape.Mapping, shape.Set, shape.Sequence, shape.None}

	workers := runtime.GOMAXPROCS(0) * 4
	iters := 2000

	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan shape.Structure, workers)

	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < iters; i++ {
				idx := i % len(types)
				got, ok := s.TryClassifyType(types[idx], conf)
				if !ok || got != expect[idx] {
					errCh <- got
					return
				}
			}
		}()
	}

	wg.Wait()
	close(errCh)
	for e := range errCh {
		t.Fatalf("concurrent classify mismatch: got=%v", e)
	}
}

// ---- Benchmarks ----

func BenchmarkReflectStrategy_ByType(b *testing.B) {
	s := NewReflectStrategy()
	conf := cfg()

	types := []reflect.Type{
		reflect.TypeOf(A{}),
		reflect.TypeOf(&A{}),
		reflect.TypeOf([]A{}),
		reflect.TypeOf(map[string]A{}),
		reflect.TypeOf(G[int]{}),
		reflect.TypeOf(W[G[int]]{}),
		reflect.TypeOf(0),
	}

	// Warm-up cache
	for _, t0 := range types {
		s.TryClassifyType(t0, conf)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		t0 := types[i%len(types)]
		s.TryClassifyType(t0, conf)
	}
}

func BenchmarkReflectStrategy_ByValue(b *testing.B) {
	s := NewReflectStrategy()

	values := []any{
		A{},
		&A{},
		[]A{},
		map[string]A{},
		G[int]{},
		W[G[int]]{},
		0,
	}

	conf := cfg()
	// Warm-up
	for _, v := range values {
		s.TryClassify(v, conf)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v := values[i%len(values)]
		s.TryClassify(v, conf)
	}
}
