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

package registry

import (
	"errors"
	"reflect"
	"sync"

	"dirpx.dev/typecheck/apis"
	"dirpx.dev/typecheck/config"
	"dirpx.dev/typecheck/shape"
	uref "dirpx.dev/typecheck/utils/reflect"
)

var (
	// ErrNilType is returned when a nil reflect.Type is provided.
	ErrNilType = errors.New("typecheck(registry): nil reflect.Type provided")
	// ErrInvalidStructure is returned when shape.None or an undeclared
	// shape.Structure is provided.
	ErrInvalidStructure = errors.New("typecheck(registry): invalid structure provided")
	// ErrConflictingRegistration indicates an attempt to re-register
	// a type with a different structure.
	ErrConflictingRegistration = errors.New("typecheck(registry): conflicting type registration")
)

// New constructs a Registry that normalizes types according to cfg.
// Only MaxUnwrap is used here.
func New(cfg apis.Config) apis.Registry {
	if cfg.MaxUnwrap <= 0 {
		cfg.MaxUnwrap = config.DefaultMaxUnwrap
	}
	return &registry{cfg: cfg}
}

// registry is a simple Registry implementation backed by sync.Map.
type registry struct {
	// cfg is the configuration used for type normalization.
	cfg apis.Config
	// mu guards write-side consistency and counter
	mu sync.Mutex
	// m maps reflect.Type to registered structure.
	m sync.Map // map[reflect.Type]shape.Structure
	// count tracks the number of registered entries.
	count int
}

// Register associates the nearest named type of t with the given structure.
// It is idempotent for the same (type,structure) pair.
func (r *registry) Register(t reflect.Type, s shape.Structure) error {
	// Validate inputs early.
	if t == nil {
		return ErrNilType
	}
	if s == shape.None || !s.Valid() {
		return ErrInvalidStructure
	}

	// Normalize to the nearest named type (pointers stripped).
	b, err := uref.Normalize(t, r.cfg.MaxUnwrap)
	if err != nil {
		return err
	}

	// Fast read path: idempotency / conflict check without locking.
	if old, ok := r.m.Load(b); ok {
		if old.(shape.Structure) == s {
			return nil // idempotent re-registration
		}
		return ErrConflictingRegistration
	}

	// Write path: guard with a mutex to keep counter consistent and avoid ABA.
	r.mu.Lock()
	defer r.mu.Unlock()

	// Re-check under lock in case another goroutine stored meanwhile.
	if old, ok := r.m.Load(b); ok {
		if old.(shape.Structure) == s {
			return nil
		}
		return ErrConflictingRegistration
	}

	r.m.Store(b, s)
	r.count++
	return nil
}

// Lookup returns the structure registered for a type if present.
func (r *registry) Lookup(t reflect.Type) (s shape.Structure, ok bool) {
	if t == nil {
		return shape.None, false
	}
	nt, err := uref.Normalize(t, r.cfg.MaxUnwrap)
	if err != nil {
		return shape.None, false
	}
	if v, ok := r.m.Load(nt); ok {
		return v.(shape.Structure), true
	}
	return shape.None, false
}

// Entries returns a snapshot for diagnostics/docs (order is unspecified).
func (r *registry) Entries() []apis.Entry {
	entries := make([]apis.Entry, 0, r.Count())
	r.m.Range(func(key, value any) bool {
		entries = append(entries, apis.Entry{
			Type:      key.(reflect.Type),
			Structure: value.(shape.Structure),
		})
		return true
	})
	return entries
}

// Count returns the number of registered entries.
func (r *registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Reset clears all registered entries.
func (r *registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m.Clear()
	r.count = 0
}
