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

// Resolver coordinates strategies to decide the structural protocol of
// values and types.
// Typical chain: RegistryStrategy -> ProtocolStrategy -> KindStrategy.
type Resolver interface {
	// Resolve returns the structure of v, or shape.None.
	Resolve(v any, cfg Config) shape.Structure

	// ResolveType returns the structure of t, or shape.None.
	ResolveType(t reflect.Type, cfg Config) shape.Structure
}
