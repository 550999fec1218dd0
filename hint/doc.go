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

// Package hint describes runtime type hints as a closed set of variants.
//
// A Hint is one of:
//
//   - Any: every value conforms.
//   - *Class: a plain class. Builtin kind families (Int, Str, List, ...),
//     abstract structural protocols (Mapping, Sequence, ...), exact Go types,
//     generic type families, method-set protocols, the None class and the
//     structured-dict markers.
//   - *Generic: a class origin parameterized by argument hints.
//   - *Params: the parameter list of a callable hint.
//   - *Union and *Literal.
//   - *Struct: a structured dict with declared fields.
//   - *Ref: a named, possibly self-referential hint.
//   - Ellipsis: the "..." argument of homogeneous tuples and callables.
//
// Hints are immutable after construction and safe to share between
// goroutines. Every hint has a canonical Key suitable for map keys and cache
// keys: two hints with the same key describe the same constraint.
//
// Hints are built with the constructors in this package (ListOf, DictOf,
// Optional, StructOf, ...) or parsed from a compact expression language:
//
//	h, err := hint.Parse("dict[str, list[int] | None]")
package hint
