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

// Package checker implements apis.Checker: the recursive matching engine
// that decides whether an object conforms to a hint and whether the object
// is immutable.
//
// A check probes the cache, classifies the object, guards against cycles,
// resolves the origin's structure and hands off to exactly one structural
// matcher, which recurses back into Check for every element. Verdicts are
// cached only when they are valid and the object is immutable.
package checker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"dirpx.dev/typecheck/apis"
	"dirpx.dev/typecheck/guard"
	"dirpx.dev/typecheck/hint"
	"dirpx.dev/typecheck/immutable"
	"dirpx.dev/typecheck/resolver"
	"dirpx.dev/typecheck/strategy"
)

// Context labels of nested checks. They appear in guard tokens and in the
// context metadata of errors.
const (
	ContextMappingKey     = "mapping_key"
	ContextMappingValue   = "mapping_value"
	ContextSetItem        = "set_item"
	ContextSequenceItem   = "sequence_item"
	ContextCollectionItem = "collection_item"
	ContextIterableItem   = "iterable_item"
	ContextGenericParam   = "generic_parameter"
	ContextGenericItem    = "generic_item"
	ContextStructField    = "struct_field"
)

// Checker validates objects against hints. It is safe for concurrent use;
// the cache is its only shared mutable state.
type Checker struct {
	cfg   apis.Config
	res   apis.Resolver
	cache apis.Cache
	log   *slog.Logger
}

// Ensure Checker implements apis.Checker.
var _ apis.Checker = (*Checker)(nil)

// New returns a Checker. A nil resolver falls back to protocol and kind
// classification; a nil cache disables caching.
func New(cfg apis.Config, res apis.Resolver, c apis.Cache) *Checker {
	if res == nil {
		res = resolver.New(strategy.NewProtocolStrategy(), strategy.NewReflectStrategy())
	}
	return &Checker{cfg: cfg, res: res, cache: c, log: cfg.Log()}
}

// Check validates obj against h. See apis.Checker.
func (c *Checker) Check(obj any, h hint.Hint, parents *guard.Path, raise bool, label string) (apis.Result, error) {
	if h == nil {
		return apis.Result{}, apis.NewValueError(obj, nil, "nil type hint")
	}
	if c.cfg.MaxDepth > 0 && parents.Depth() >= c.cfg.MaxDepth {
		return apis.Result{}, apis.NewRecursionError(c.cfg.MaxDepth, obj, h, label)
	}
	switch h.Kind() {
	case hint.KindAny:
		return apis.Result{Valid: true, Immutable: immutable.Is(obj)}, nil
	case hint.KindRef:
		return c.Check(obj, hint.Resolve(h), parents, raise, label)
	case hint.KindUnion:
		return c.checkUnion(obj, h.(*hint.Union), parents, raise, label)
	case hint.KindLiteral:
		return c.checkLiteral(obj, h.(*hint.Literal), raise, label)
	case hint.KindClass, hint.KindGeneric, hint.KindStruct:
		return c.checkCached(obj, h, parents, raise, label)
	default:
		return apis.Result{}, apis.NewValueError(obj, h, "%s is only valid as an argument of a tuple or Callable hint", h)
	}
}

// checkCached wraps the class, generic and struct paths with the cache.
func (c *Checker) checkCached(obj any, h hint.Hint, parents *guard.Path, raise bool, label string) (apis.Result, error) {
	caching := c.cfg.Caching && c.cache != nil
	if caching {
		if valid, ok := c.cache.Lookup(h, obj); ok {
			c.debug("typecheck: cache hit", h, obj, label)
			res := apis.Result{Valid: valid, Immutable: true}
			if !valid {
				return c.reject(res, raise, apis.TagTypeHintMismatch, obj, h, label,
					"object of type %T does not match %s", obj, h)
			}
			return res, nil
		}
	}

	imm := immutable.Is(obj)
	var (
		res apis.Result
		err error
	)
	if s, ok := h.(*hint.Struct); ok {
		res, err = c.checkStruct(obj, s, imm, parents, raise, label)
	} else {
		res, err = c.checkGeneric(obj, h, imm, parents, raise, label)
	}
	if err == nil && caching && res.Valid && res.Immutable {
		c.cache.Store(h, obj, true, c.cfg.Noncachable)
	}
	return res, err
}

func (c *Checker) checkUnion(obj any, u *hint.Union, parents *guard.Path, raise bool, label string) (apis.Result, error) {
	imm := immutable.Is(obj)
	for _, m := range u.Members() {
		r, err := c.Check(obj, m, parents, false, label)
		if err != nil {
			return apis.Result{Immutable: imm}, err
		}
		if r.Valid {
			return apis.Result{Valid: true, Immutable: imm}, nil
		}
	}
	return c.reject(apis.Result{Immutable: imm}, raise, apis.TagTypeHintMismatch, obj, u, label,
		"object of type %T matches no member of %s", obj, u)
}

func (c *Checker) checkLiteral(obj any, l *hint.Literal, raise bool, label string) (apis.Result, error) {
	res := apis.Result{Valid: l.Matches(obj), Immutable: immutable.Is(obj)}
	if !res.Valid {
		return c.reject(res, raise, apis.TagTypeHintMismatch, obj, l, label,
			"%#v is not one of %s", obj, l)
	}
	return res, nil
}

// reject returns res and, when raise is set, a TypeError built from the
// remaining arguments.
func (c *Checker) reject(res apis.Result, raise bool, tag apis.ErrorTag, obj any, h hint.Hint, label, format string, args ...any) (apis.Result, error) {
	if !raise {
		return res, nil
	}
	return res, apis.NewTypeError(tag, obj, h, label, format, args...)
}

// propagate turns the error of a nested check into the error of its parent.
// Mismatches are wrapped as validation failures; hint-usage and recursion
// errors pass through unchanged so their kind and tag survive.
func (c *Checker) propagate(err error, obj any, h hint.Hint, label, format string, args ...any) error {
	var te *apis.TypeError
	if errors.As(err, &te) && (te.Tag == apis.TagTypeHintMismatch || te.Tag == apis.TagValidationFailed) {
		return apis.WrapTypeError(apis.TagValidationFailed, err, obj, h, label, format, args...)
	}
	return err
}

func (c *Checker) debug(msg string, h hint.Hint, obj any, label string) {
	ctx := context.Background()
	if !c.log.Enabled(ctx, slog.LevelDebug) {
		return
	}
	c.log.LogAttrs(ctx, slog.LevelDebug, msg,
		slog.String(apis.MetaTypeHint, h.String()),
		slog.String(apis.MetaObjectType, fmt.Sprintf("%T", obj)),
		slog.String(apis.MetaContext, label),
	)
}
