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
	"reflect"
	"runtime"
	"sync"
	"testing"

	"dirpx.dev/typecheck/apis"
	"dirpx.dev/typecheck/registry"
	"dirpx.dev/typecheck/shape"
	"dirpx.dev/typecheck/strategy"
)

// Local test types.
type A struct{}
type G[T any] struct{}

// cfg returns a convenient baseline Config for tests.
func cfg(opts ...func(*apis.Config)) apis.Config {
	c := apis.Config{MaxUnwrap: 8}
	for _, o := range opts {
		o(&c)
	}
	return c
}

func TestRegistryStrategy_WithRealRegistry_ByValue(t *testing.T) {
	conf := cfg()
	reg := registry.New(conf)

	if err := reg.Register(reflect.TypeOf(A{}), shape.Collection); err != nil {
		t.Fatalf("Register(A): %v", err)
	}

	s := strategy.NewRegistryStrategy(reg)

	cases := []struct {
		name string
		val  any
		want shape.Structure
	}{
		{"plain", A{}, shape.Collection},
		{"ptr", &A{}, shape.Collection},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := s.TryClassify(tc.val, conf)
			if !ok || got != tc.want {
				t.Fatalf("TryClassify(%T) = (%v,%v), want (%v,true)", tc.val, got, ok, tc.want)
			}
		})
	}

	// Containers of A and unknown types -> miss.
	for _, v := range []any{[]A{}, map[string]A{}, G[int]{}, nil} {
		if got, ok := s.TryClassify(v, conf); ok || got != shape.None {
			t.Fatalf("TryClassify(%T) = (%v,%v), want (None,false)", v, got, ok)
		}
	}
}

func TestRegistryStrategy_WithRealRegistry_ByType(t *testing.T) {
	conf := cfg()
	reg := registry.New(conf)

	if err := reg.Register(reflect.TypeOf(A{}), shape.Iterable); err != nil {
		t.Fatalf("Register(A): %v", err)
	}

	s := strategy.NewRegistryStrategy(reg)

	if got, ok := s.TryClassifyType(reflect.TypeOf(&A{}), conf); !ok || got != shape.Iterable {
		t.Fatalf("TryClassifyType(*A) = (%v,%v), want (Iterable,true)", got, ok)
	}
	if got, ok := s.TryClassifyType(reflect.TypeOf(G[int]{}), conf); ok || got != shape.None {
		t.Fatalf("TryClassifyType(G[int]) = (%v,%v), want (None,false)", got, ok)
	}

	// A nil registry never handles.
	empty := strategy.NewRegistryStrategy(nil)
	if got, ok := empty.TryClassifyType(reflect.TypeOf(A{}), conf); ok || got != shape.None {
		t.Fatalf("nil registry: got (%v,%v), want (None,false)", got, ok)
	}
}

// A small concurrency smoke test to ensure RegistryStrategy + real registry behave well.
func TestRegistryStrategy_WithRealRegistry_Concurrent(t *testing.T) {
	conf := cfg()
	reg := registry.New(conf)

	if err := reg.Register(reflect.TypeOf(A{}), shape.Sequence); err != nil {
		t.Fatalf("Register(A): %v", err)
	}
	if err := reg.Register(reflect.TypeOf(G[int]{}), shape.Mapping); err != nil {
		t.Fatalf("Register(G[int]): %v", err)
	}

	s := strategy.NewRegistryStrategy(reg)

	types := []reflect.Type{
		reflect.TypeOf(A{}),
		reflect.TypeOf(&A{}),
		reflect.TypeOf(G[int]{}),
		reflect.TypeOf(&G[int]{}),
	}
	want := []shape.Structure{shape.Sequence, shape.Sequence, shape.Mapping, shape.Mapping}

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
				if !ok || got != want[idx] {
					errCh <- got
					return
				}
			}
		}()
	}

	wg.Wait()
	close(errCh)
	for e := range errCh {
		t.Fatalf("concurrent mismatch: got=%v", e)
	}
}
