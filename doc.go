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

// Package typecheck is a process-wide runtime type-hint validator.
//
// Given a Go value and a hint (see package hint), typecheck answers two
// questions at once: does the value conform to the hint, and is the value
// immutable. Hints describe shapes the way Python typing does: list[int],
// dict[str, list[int]], tuple[int, ...], Callable[[int], str], unions,
// literals and structured dicts. They can be built with constructors or
// parsed from text:
//
//	h := hint.MustParse("dict[str, tuple[int, ...]]")
//	valid, immutable, err := typecheck.IsInstance(obj, h)
//
// # Design
//
// The core of typecheck is a read-mostly global snapshot (state). The
// snapshot holds:
//
//   - Config: limits and switches (pointer unwrap depth, recursion depth,
//     caching, non-cacheable types, logger).
//
//   - Registry: a process-wide mapping from Go types to the structural
//     protocol (Mapping, Set, Sequence, Collection, Iterable, Callable) they
//     should be treated as. RegisterShape writes to it.
//
//   - Resolver: answers "which structure does this value have?". The
//     default resolver tries, in order:
//     1. The Registry.
//     2. The shape protocols the type implements (shape.MappingProtocol, ...).
//     3. The value's reflect.Kind: maps are mappings (or sets, for
//     map[K]struct{}), slices and arrays are sequences, funcs are callable.
//
//   - Cache: verdicts for immutable objects, keyed by hint and object
//     identity, dropped automatically when the object is collected.
//
//   - Checker: the recursive matching engine wired over Resolver and Cache.
//
//   - Builder: a pluggable factory that constructs all of the above for a
//     Config (and optional extension data), migrating state from previous
//     instances where it makes sense.
//
// Readers load the current snapshot atomically and never take locks.
// Writers take a short build mutex, assemble a brand-new snapshot and swap
// it in.
//
// # Global API
//
//  1. Checking:
//
//     IsInstance(obj, h, opts...) (valid, immutable bool, err error)
//     Validate(obj, h) error
//     IsImmutable(obj) bool
//     IsImmutableDataHint(h) bool
//     IsImmutableStructHint(h) bool
//     ClearCache()
//     RegisterShape(t, s) error
//
//  2. Snapshot management:
//
//     SetConfig(cfg apis.Config)
//     SetBuilder(b apis.Builder)
//     SetExt(ext T)
//     SetRegistry(reg apis.Registry)
//     SetResolver(res apis.Resolver)
//     SetCache(c apis.Cache)
//     UnpinRegistry(), UnpinResolver(), UnpinCache()
//     SetAll(...)
//
//     SetRegistry, SetResolver and SetCache "pin" a layer: later rebuilds
//     leave it alone until it is unpinned. SetAll is the hard reset used by
//     tests. The checker itself is rebuilt on every change.
//
// # Errors
//
// Mismatches are reported through valid. With WithRaise they also come back
// as a *TypeError whose Tag says what went wrong and whose chain leads to
// the innermost mismatch. Misuse of hints yields a *ValueError, and checks
// deeper than Config.MaxDepth yield a *RecursionError, whether or not
// raising was requested. All three carry zerr metadata (object_type,
// type_hint, context) for structured logging.
//
// # Immutability and caching
//
// A verdict is cached only if it is positive and the object is immutable:
// numbers, strings, arrays and structs of immutable values, and values of
// types carrying the shape.Immutable marker (see package frozen). Go slices
// and maps are mutable, so list[int] checks on a []int are never cached and
// always reflect the current contents.
package typecheck
