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

package typecheck

import (
	"errors"
	"reflect"
	"sync"
	"sync/atomic"

	"dirpx.dev/typecheck/apis"
	"dirpx.dev/typecheck/builder"
	"dirpx.dev/typecheck/config"
	"dirpx.dev/typecheck/hint"
	"dirpx.dev/typecheck/immutable"
	"dirpx.dev/typecheck/shape"
)

// init publishes the default snapshot.
func init() {
	s := &state{cfg: config.DefaultConfig(), bld: builder.New()}
	st.Store(s.rebuild(&state{}, allLayers))
}

var (
	// ErrNilRegistry is returned when a builder returns a nil registry.
	ErrNilRegistry = errors.New("typecheck: builder returned nil registry")
	// ErrNilResolver is returned when a builder returns a nil resolver.
	ErrNilResolver = errors.New("typecheck: builder returned nil resolver")
	// ErrNilCache is returned when a builder returns a nil cache.
	ErrNilCache = errors.New("typecheck: builder returned nil cache")
	// ErrNilChecker is returned when a builder returns a nil checker.
	ErrNilChecker = errors.New("typecheck: builder returned nil checker")
)

// Error types and tags, re-exported from apis.
type (
	TypeError      = apis.TypeError
	ValueError     = apis.ValueError
	RecursionError = apis.RecursionError
	ErrorTag       = apis.ErrorTag
)

const (
	TagNonRuntimeCheckableProtocol = apis.TagNonRuntimeCheckableProtocol
	TagValidationFailed            = apis.TagValidationFailed
	TagTypeHintMismatch            = apis.TagTypeHintMismatch
	TagInvalidPseudoOrigin         = apis.TagInvalidPseudoOrigin
)

// Sentinels matched by errors.Is.
var (
	ErrType      = apis.ErrType
	ErrValue     = apis.ErrValue
	ErrRecursion = apis.ErrRecursion
)

// TagOf returns the tag of the first TypeError in err's chain.
func TagOf(err error) (ErrorTag, bool) { return apis.TagOf(err) }

// CheckOption configures a single IsInstance call.
type CheckOption func(*checkOptions)

type checkOptions struct {
	raise bool
	label string
}

// WithRaise makes IsInstance return a TypeError describing the first
// mismatch instead of only reporting it.
func WithRaise() CheckOption { return func(o *checkOptions) { o.raise = true } }

// WithContext labels the top-level check in errors and logs.
func WithContext(label string) CheckOption { return func(o *checkOptions) { o.label = label } }

// IsInstance reports whether obj conforms to h and whether obj is immutable.
//
// Without WithRaise a mismatch is reported only through valid. Errors are
// still returned for misuse of hints (ValueError), for protocols that can
// never be checked when raising, for structured-dict markers used outside a
// structured dict, and when the check exceeds Config.MaxDepth.
func IsInstance(obj any, h hint.Hint, opts ...CheckOption) (valid, immutable bool, err error) {
	var o checkOptions
	for _, opt := range opts {
		opt(&o)
	}
	res, err := st.Load().chk.Check(obj, h, nil, o.raise, o.label)
	return res.Valid, res.Immutable, err
}

// Validate is IsInstance with WithRaise: it returns nil if and only if obj
// conforms to h.
func Validate(obj any, h hint.Hint) error {
	valid, _, err := IsInstance(obj, h, WithRaise())
	if err == nil && !valid {
		err = apis.NewTypeError(apis.TagTypeHintMismatch, obj, h, "", "object of type %T does not match %s", obj, h)
	}
	return err
}

// ClearCache drops every cached verdict.
func ClearCache() {
	st.Load().cache.Clear()
}

// IsImmutable reports whether obj can never change after construction.
func IsImmutable(obj any) bool { return immutable.Is(obj) }

// IsImmutableDataHint reports whether every instance of h is immutable.
func IsImmutableDataHint(h hint.Hint) bool { return immutable.IsDataHint(h) }

// IsImmutableStructHint reports whether h is a frozen structured-dict hint.
func IsImmutableStructHint(h hint.Hint) bool { return immutable.IsStructHint(h) }

// RegisterShape declares the structure of t in the global registry. Cached
// verdicts are dropped because the classification of t may have changed.
func RegisterShape(t reflect.Type, s shape.Structure) error {
	cur := st.Load()
	if err := cur.reg.Register(t, s); err != nil {
		return err
	}
	cur.cache.Clear()
	return nil
}

// SetAll explicitly sets all global state components.
//
// Nil arguments leave the corresponding component to the builder and
// unpinned, except for ext which is always replaced. Non-nil components are
// pinned.
func SetAll(cfg *apis.Config, ext any, reg apis.Registry, res apis.Resolver, c apis.Cache, bld apis.Builder) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	next := &state{cfg: old.cfg, ext: ext, bld: old.bld}
	if cfg != nil {
		next.cfg = *cfg
	}
	if bld != nil {
		next.bld = bld
	}
	next.reg, next.preg = reg, reg != nil
	next.res, next.pres = res, res != nil
	next.cache, next.pcache = c, c != nil
	st.Store(next.rebuild(old, allLayers))
}

// Config returns the global configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig sets the global configuration and rebuilds every unpinned layer.
func SetConfig(cfg apis.Config) {
	update(allLayers, func(s *state) { s.cfg = cfg })
}

// Registry returns the global registry.
func Registry() apis.Registry {
	return st.Load().reg
}

// SetRegistry pins reg as the global registry and rebuilds the resolver
// and cache unless they are pinned.
func SetRegistry(reg apis.Registry) {
	if reg == nil {
		return
	}
	update(layerResolver|layerCache, func(s *state) { s.reg, s.preg = reg, true })
}

// Resolver returns the global resolver.
func Resolver() apis.Resolver {
	return st.Load().res
}

// SetResolver pins res as the global resolver. The cache is rebuilt unless
// pinned.
func SetResolver(res apis.Resolver) {
	if res == nil {
		return
	}
	update(layerCache, func(s *state) { s.res, s.pres = res, true })
}

// Cache returns the global cache.
func Cache() apis.Cache {
	return st.Load().cache
}

// SetCache pins c as the global cache.
func SetCache(c apis.Cache) {
	if c == nil {
		return
	}
	update(0, func(s *state) { s.cache, s.pcache = c, true })
}

// Builder returns the global builder.
func Builder() apis.Builder {
	return st.Load().bld
}

// SetBuilder replaces the global builder and rebuilds every unpinned layer
// with it.
func SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}
	update(allLayers, func(s *state) { s.bld = b })
}

// SetExt replaces the extension value passed to the builder and rebuilds
// every unpinned layer.
func SetExt[T any](ext T) {
	update(allLayers, func(s *state) { s.ext = ext })
}

// ExtAs returns the global extension value as type T.
func ExtAs[T any]() (T, bool) {
	ext, ok := st.Load().ext.(T)
	return ext, ok
}

// IsRegistryPinned reports whether the global registry survives rebuilds.
func IsRegistryPinned() bool { return st.Load().preg }

// UnpinRegistry lets the next rebuild replace the global registry.
func UnpinRegistry() { update(0, func(s *state) { s.preg = false }) }

// IsResolverPinned reports whether the global resolver survives rebuilds.
func IsResolverPinned() bool { return st.Load().pres }

// UnpinResolver lets the next rebuild replace the global resolver.
func UnpinResolver() { update(0, func(s *state) { s.pres = false }) }

// IsCachePinned reports whether the global cache survives rebuilds.
func IsCachePinned() bool { return st.Load().pcache }

// UnpinCache lets the next rebuild replace the global cache.
func UnpinCache() { update(0, func(s *state) { s.pcache = false }) }

// layer selects the components a state change rebuilds.
type layer uint8

const (
	layerRegistry layer = 1 << iota
	layerResolver
	layerCache

	allLayers = layerRegistry | layerResolver | layerCache
)

// update publishes a copy of the current state changed by edit, with the
// given layers rebuilt.
func update(layers layer, edit func(*state)) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	next := *old
	edit(&next)
	st.Store(next.rebuild(old, layers))
}

// rebuild builds the selected unpinned layers of s from prev, always
// rebuilds the checker, and returns s.
func (s *state) rebuild(prev *state, layers layer) *state {
	if layers&layerRegistry != 0 && !s.preg {
		s.reg = s.bld.BuildRegistry(s.cfg, prev.reg, s.ext)
	}
	if layers&layerResolver != 0 && !s.pres {
		s.res = s.bld.BuildResolver(s.cfg, s.reg, prev.res, s.ext)
	}
	if layers&layerCache != 0 && !s.pcache {
		s.cache = s.bld.BuildCache(s.cfg, prev.cache, s.ext)
	}
	switch {
	case s.reg == nil:
		panic(ErrNilRegistry)
	case s.res == nil:
		panic(ErrNilResolver)
	case s.cache == nil:
		panic(ErrNilCache)
	}
	s.chk = s.bld.BuildChecker(s.cfg, s.res, s.cache, s.ext)
	if s.chk == nil {
		panic(ErrNilChecker)
	}
	return s
}

// buildMu serializes writers (reconfigurations/swaps) so we never publish
// partially-built snapshots.
var buildMu sync.Mutex

// st is the global state.
var st atomic.Pointer[state]

// state is a global state snapshot.
// Immutable once published via st.Store; writers copy, rebuild and swap.
type state struct {
	cfg   apis.Config
	ext   any
	reg   apis.Registry
	res   apis.Resolver
	cache apis.Cache
	chk   apis.Checker
	bld   apis.Builder
	// preg, pres and pcache pin a layer: rebuilds keep it as is.
	preg   bool
	pres   bool
	pcache bool
}
