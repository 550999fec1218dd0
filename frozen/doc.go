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

// Package frozen provides read-only containers.
//
// Tuple, Set and Map copy their input on construction and expose no
// mutators, so a value never changes after it is built. They implement the
// protocol interfaces of package shape and carry the shape.Immutable marker,
// which makes them eligible for verdict caching when their elements are
// immutable too.
package frozen
