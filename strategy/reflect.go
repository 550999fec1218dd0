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

package strategy

import (
	"reflect"
	"sync"

	"dirpx.dev/typecheck/apis"
	"dirpx.dev/typecheck/shape"
)

// NewReflectStrategy creates an apis.Strategy that classifies types by their
// reflect.Kind, with memoization.
func NewReflectStrategy() apis.Strategy {
	return reflectStrategy{}
}

// reflectStrategy is the universal fallback. Maps with zero-size values are
// sets, other maps are mappings, slices and arrays are sequences and funcs
// are callables. Everything else is shape.None.
type reflectStrategy struct{}

// Ensure reflectStrategy implements apis.Strategy.
var _ apis.Strategy = (*reflectStrategy)(nil)

// kindCache caches classifications by type.
var kindCache sync.Map // key: reflect.Type, val: shape.Structure

// TryClassify classifies v's dynamic type.
func (reflectStrategy) TryClassify(v any, _ apis.Config) (shape.Structure, bool) {
	if v == nil {
		return shape.None, false
	}
	return byKind(reflect.TypeOf(v)), true
}

// TryClassifyType classifies t.
func (reflectStrategy) TryClassifyType(t reflect.Type, _ apis.Config) (shape.Structure, bool) {
	if t == nil {
		return shape.None, false
	}
	return byKind(t), true
}

// byKind classifies t with memoization.
func byKind(t reflect.Type) shape.Structure {
	if v, ok := kindCache.Load(t); ok {
		return v.(shape.Structure)
	}
	s := shape.Builtin(t)
	kindCache.Store(t, s)
	return s
}
