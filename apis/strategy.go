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

// Strategy is a pluggable classification step. A Resolver can chain multiple
// strategies in order (e.g., Registry -> Protocol -> Kind).
type Strategy interface {
	// TryClassify attempts to classify value v according to cfg.
	// It returns (structure, true) if handled; otherwise (shape.None, false) to fall through.
	TryClassify(v any, cfg Config) (s shape.Structure, handled bool)

	// TryClassifyType attempts to classify the reflect.Type t.
	TryClassifyType(t reflect.Type, cfg Config) (s shape.Structure, handled bool)
}
