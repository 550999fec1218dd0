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

import "dirpx.dev/typecheck/hint"

//go:generate mockgen -source=cache.go -destination=mocks/mock_cache.go -package=mocks

// Cache memoizes verdicts per (hint, object identity).
//
// Entries must never keep their object alive and must disappear once the
// object is collected, so a recycled address can never observe a stale
// verdict. Implementations must be safe for concurrent use.
type Cache interface {
	// Lookup returns the cached verdict. ok is false on a miss, which is
	// distinct from a cached invalid verdict. Lookup never validates.
	Lookup(h hint.Hint, obj any) (valid bool, ok bool)

	// Store records a verdict for obj. Callers must only store verdicts for
	// objects they classified immutable. Objects whose dynamic type is in
	// noncachable, or that have no identity, are skipped. It reports
	// whether an entry was written.
	Store(h hint.Hint, obj any, valid bool, noncachable TypeSet) bool

	// Clear drops every entry.
	Clear()

	// Len returns the number of live entries.
	Len() int
}
