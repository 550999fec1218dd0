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

package registry_test

import (
	"errors"
	"reflect"
	"testing"

	"dirpx.dev/typecheck/config"
	"dirpx.dev/typecheck/registry"
	"dirpx.dev/typecheck/shape"
	uref "dirpx.dev/typecheck/utils/reflect"
)

func TestRegister_IdempotentAndLookup(t *testing.T) {
	cfg := config.DefaultConfig()
	reg := registry.New(cfg)

	// pointer -> nearest named = T1
	err := reg.Register(reflect.TypeOf(&T1{}), shape.Sequence)
	if err != nil {
		t.Fatalf("Register(&T1{}): unexpected error: %v", err)
	}
	// idempotent re-register with same structure
	if err := reg.Register(reflect.TypeOf(T1{}), shape.Sequence); err != nil {
		t.Fatalf("Register(T1{}) idempotent: unexpected error: %v", err)
	}

	if s, ok := reg.Lookup(reflect.TypeOf(&T1{})); !ok || s != shape.Sequence {
		t.Fatalf("Lookup(&T1{}): got (%v,%v), want (Sequence,true)", s, ok)
	}
	if s, ok := reg.Lookup(reflect.TypeOf(T1{})); !ok || s != shape.Sequence {
		t.Fatalf("Lookup(T1{}): got (%v,%v), want (Sequence,true)", s, ok)
	}
	// containers of T1 are different shapes and must not hit
	if s, ok := reg.Lookup(reflect.TypeOf([]T1{})); ok {
		t.Fatalf("Lookup([]T1{}): got (%v,%v), want miss", s, ok)
	}

	if reg.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", reg.Count())
	}
}

func TestRegister_Conflict(t *testing.T) {
	cfg := config.DefaultConfig()
	reg := registry.New(cfg)

	if err := reg.Register(reflect.TypeOf(&T1{}), shape.Sequence); err != nil {
		t.Fatalf("Register: unexpected error: %v", err)
	}
	// Same normalized type, different structure -> conflict
	err := reg.Register(reflect.TypeOf(T1{}), shape.Mapping)
	if !errors.Is(err, registry.ErrConflictingRegistration) {
		t.Fatalf("expected ErrConflictingRegistration, got: %v", err)
	}
}

func TestRegister_Errors(t *testing.T) {
	cfg := config.DefaultConfig()
	reg := registry.New(cfg)

	if err := reg.Register(nil, shape.Set); err != registry.ErrNilType {
		t.Fatalf("nil type: want ErrNilType, got %v", err)
	}
	if err := reg.Register(reflect.TypeOf(&T1{}), shape.None); err != registry.ErrInvalidStructure {
		t.Fatalf("None structure: want ErrInvalidStructure, got %v", err)
	}
	if err := reg.Register(reflect.TypeOf(&T1{}), shape.Structure(42)); err != registry.ErrInvalidStructure {
		t.Fatalf("unknown structure: want ErrInvalidStructure, got %v", err)
	}
	if err := reg.Register(reflect.TypeOf([]T1{}), shape.Sequence); !errors.Is(err, uref.ErrReflectTypeNotNamed) {
		t.Fatalf("unnamed type: want ErrReflectTypeNotNamed, got %v", err)
	}
}

func TestNormalize_MaxUnwrapLimit(t *testing.T) {
	type PtrPtrT1 = **T1
	var x PtrPtrT1

	// MaxUnwrap = 1 leaves *T1, which is unnamed
	cfg := config.DefaultConfig()
	cfg.MaxUnwrap = 1
	reg := registry.New(cfg)
	if err := reg.Register(reflect.TypeOf(x), shape.Iterable); !errors.Is(err, uref.ErrReflectTypeNotNamed) {
		t.Fatalf("MaxUnwrap=1: want ErrReflectTypeNotNamed, got %v", err)
	}

	// With enough unwraps it should succeed
	cfg2 := config.DefaultConfig()
	cfg2.MaxUnwrap = 8
	reg2 := registry.New(cfg2)
	if err := reg2.Register(reflect.TypeOf(x), shape.Iterable); err != nil {
		t.Fatalf("MaxUnwrap=8: unexpected error: %v", err)
	}
	if s, ok := reg2.Lookup(reflect.TypeOf(T1{})); !ok || s != shape.Iterable {
		t.Fatalf("Lookup(T1{}): got (%v,%v), want (Iterable,true)", s, ok)
	}
}

func TestEntriesAndReset(t *testing.T) {
	cfg := config.DefaultConfig()
	reg := registry.New(cfg)

	_ = reg.Register(reflect.TypeOf(&T1{}), shape.Sequence)
	_ = reg.Register(reflect.TypeOf(&T2{}), shape.Mapping)

	entries := reg.Entries()
	if len(entries) != 2 {
		t.Fatalf("Entries len = %d, want 2", len(entries))
	}
	if reg.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", reg.Count())
	}

	reg.Reset()

	if reg.Count() != 0 {
		t.Fatalf("after Reset, Count() = %d, want 0", reg.Count())
	}
	if s, ok := reg.Lookup(reflect.TypeOf(&T1{})); ok || s != shape.None {
		t.Fatalf("Lookup after Reset: got (%v,%v), want (None,false)", s, ok)
	}
}

func TestLookupNilAndUnknown(t *testing.T) {
	cfg := config.DefaultConfig()
	reg := registry.New(cfg)

	if s, ok := reg.Lookup(nil); ok || s != shape.None {
		t.Fatalf("Lookup(nil): got (%v,%v), want (None,false)", s, ok)
	}
	if s, ok := reg.Lookup(reflect.TypeOf(&T1{})); ok || s != shape.None {
		t.Fatalf("Lookup(unknown): got (%v,%v), want (None,false)", s, ok)
	}
}
