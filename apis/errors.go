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
	"errors"
	"fmt"

	"go.trai.ch/zerr"

	"dirpx.dev/typecheck/hint"
)

// ErrorTag is the machine-readable category of a TypeError.
type ErrorTag string

const (
	// TagNonRuntimeCheckableProtocol: the hint is a protocol that cannot be
	// checked at runtime.
	TagNonRuntimeCheckableProtocol ErrorTag = "NON_RUNTIME_CHECKABLE_PROTOCOL"
	// TagValidationFailed: an element, parameter or field failed its hint.
	TagValidationFailed ErrorTag = "VALIDATION_FAILED"
	// TagTypeHintMismatch: the object is not an instance of the hint.
	TagTypeHintMismatch ErrorTag = "TYPE_HINT_MISMATCH"
	// TagInvalidPseudoOrigin: a structured-dict marker was used outside a
	// structured dict.
	TagInvalidPseudoOrigin ErrorTag = "INVALID_PSEUDO_ORIGIN"
)

// Sentinels matched by errors.Is on the typed errors.
var (
	ErrType      = errors.New("typecheck: type error")
	ErrValue     = errors.New("typecheck: value error")
	ErrRecursion = errors.New("typecheck: recursion error")
)

// Metadata keys attached to every typed error.
const (
	MetaTag        = "tag"
	MetaObjectType = "object_type"
	MetaTypeHint   = "type_hint"
	MetaContext    = "context"
	MetaDepth      = "depth"
)

// TypeError reports that an object does not satisfy a hint, or that the
// hint cannot be used at runtime.
type TypeError struct {
	Tag ErrorTag
	err error
}

func (e *TypeError) Error() string        { return e.err.Error() }
func (e *TypeError) Unwrap() error        { return e.err }
func (e *TypeError) Is(target error) bool { return target == ErrType }

// Metadata returns the structured fields of the error.
func (e *TypeError) Metadata() map[string]any { return metadata(e.err) }

// ValueError reports an invalid argument to the checking API.
type ValueError struct {
	err error
}

func (e *ValueError) Error() string        { return e.err.Error() }
func (e *ValueError) Unwrap() error        { return e.err }
func (e *ValueError) Is(target error) bool { return target == ErrValue }

// Metadata returns the structured fields of the error.
func (e *ValueError) Metadata() map[string]any { return metadata(e.err) }

// RecursionError reports that a check exceeded Config.MaxDepth.
type RecursionError struct {
	Depth int
	err   error
}

func (e *RecursionError) Error() string        { return e.err.Error() }
func (e *RecursionError) Unwrap() error        { return e.err }
func (e *RecursionError) Is(target error) bool { return target == ErrRecursion }

// Metadata returns the structured fields of the error.
func (e *RecursionError) Metadata() map[string]any { return metadata(e.err) }

// NewTypeError builds a TypeError about obj and h.
func NewTypeError(tag ErrorTag, obj any, h hint.Hint, context, format string, args ...any) *TypeError {
	err := annotate(zerr.New(fmt.Sprintf(format, args...)), obj, h, context)
	return &TypeError{Tag: tag, err: zerr.With(err, MetaTag, string(tag))}
}

// WrapTypeError builds a TypeError about obj and h caused by a failure of one
// of obj's elements. The cause stays reachable through errors.Unwrap.
func WrapTypeError(tag ErrorTag, cause error, obj any, h hint.Hint, context, format string, args ...any) *TypeError {
	err := annotate(zerr.Wrap(cause, fmt.Sprintf(format, args...)), obj, h, context)
	return &TypeError{Tag: tag, err: zerr.With(err, MetaTag, string(tag))}
}

// NewValueError builds a ValueError about obj and h.
func NewValueError(obj any, h hint.Hint, format string, args ...any) *ValueError {
	return &ValueError{err: annotate(zerr.New(fmt.Sprintf(format, args...)), obj, h, "")}
}

// NewRecursionError builds a RecursionError raised at depth.
func NewRecursionError(depth int, obj any, h hint.Hint, context string) *RecursionError {
	err := annotate(zerr.New(fmt.Sprintf("check exceeded maximum depth %d", depth)), obj, h, context)
	return &RecursionError{Depth: depth, err: zerr.With(err, MetaDepth, depth)}
}

// TagOf returns the tag of the first TypeError in err's chain.
func TagOf(err error) (ErrorTag, bool) {
	var te *TypeError
	if errors.As(err, &te) {
		return te.Tag, true
	}
	return "", false
}

func annotate(err error, obj any, h hint.Hint, context string) error {
	err = zerr.With(err, MetaObjectType, fmt.Sprintf("%T", obj))
	if h != nil {
		err = zerr.With(err, MetaTypeHint, h.String())
	}
	if context != "" {
		err = zerr.With(err, MetaContext, context)
	}
	return err
}

func metadata(err error) map[string]any {
	var z *zerr.Error
	if errors.As(err, &z) {
		return z.Metadata()
	}
	return map[string]any{}
}
