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

package apis

import (
	"reflect"

	"dirpx.dev/typecheck/shape"
)

// Registry is the registration table mapping concrete Go types to the
// structural protocol they should be checked as. It overrides the default
// kind- and method-based classification.
// Keep it minimal so implementations can be lock-free or sync.Map-backed.
type Registry interface {
	// Register associates a (nearest named) reflect.Type with a structure.
	// Implementations should be idempotent; conflicting re-registrations return an error.
	Register(t reflect.Type, s shape.Structure) error
	// Lookup returns the structure registered for a type if present.
	Lookup(t reflect.Type) (s shape.Structure, ok bool)
	// Entries returns a snapshot for diagnostics/docs (order is unspecified).
	Entries() []Entry
	// Count returns the number of registered entries.
	Count() int
	// Reset clears all registered entries.
	Reset()
}

// Entry is a single (type, structure) association in a Registry snapshot.
type Entry struct {
	// Type is the registered reflect.Type.
	Type reflect.Type
	// Structure is the associated structural protocol.
	Structure shape.Structure
}
