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

	"dirpx.dev/typecheck/apis"
	"dirpx.dev/typecheck/shape"
)

// NewProtocolStrategy creates an apis.Strategy that classifies types by the
// shape protocol interfaces they implement.
func NewProtocolStrategy() apis.Strategy {
	return &protocolStrategy{}
}

// protocolStrategy is a reflection-light fast path: if v implements one of
// shape.MappingProtocol, shape.SetProtocol, shape.SequenceProtocol,
// shape.CollectionProtocol or shape.IterableProtocol, the most specific one
// wins and the chain stops.
type protocolStrategy struct{}

// Ensure protocolStrategy implements apis.Strategy.
var _ apis.Strategy = (*protocolStrategy)(nil)

// TryClassify uses type assertions on v, most specific first.
func (*protocolStrategy) TryClassify(v any, _ apis.Config) (shape.Structure, bool) {
	switch v.(type) {
	case nil:
		return shape.None, false
	case shape.MappingProtocol:
		return shape.Mapping, true
	case shape.SetProtocol:
		return shape.Set, true
	case shape.SequenceProtocol:
		return shape.Sequence, true
	case shape.CollectionProtocol:
		return shape.Collection, true
	case shape.IterableProtocol:
		return shape.Iterable, true
	}
	return shape.None, false
}

// TryClassifyType checks the method set of t.
func (*protocolStrategy) TryClassifyType(t reflect.Type, _ apis.Config) (shape.Structure, bool) {
	return shape.Declared(t)
}
