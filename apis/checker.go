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
	"dirpx.dev/typecheck/guard"
	"dirpx.dev/typecheck/hint"
)

// Result is the outcome of one check.
type Result struct {
	// Valid reports whether the object conforms to the hint.
	Valid bool
	// Immutable reports whether the object and every inspected element are
	// immutable.
	Immutable bool
}

// Checker validates objects against hints.
type Checker interface {
	// Check validates obj against h. parents is the cycle-guard path of the
	// enclosing descent (nil at top level) and context labels obj's role in
	// its parent. When raise is set, mismatches are returned as typed errors;
	// otherwise they are reported through Result alone.
	Check(obj any, h hint.Hint, parents *guard.Path, raise bool, context string) (Result, error)
}
