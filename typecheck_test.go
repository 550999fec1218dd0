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
	"runtime"
	"strconv"
	"sync"
	"testing"
	"time"

	"dirpx.dev/typecheck/apis"
	"dirpx.dev/typecheck/builder"
	"dirpx.dev/typecheck/cache"
	"dirpx.dev/typecheck/checker"
	"dirpx.dev/typecheck/config"
	"dirpx.dev/typecheck/frozen"
	"dirpx.dev/typecheck/hint"
	"dirpx.dev/typecheck/shape"
)

// resetWithBuilder installs a clean snapshot built by b and restores the
// default snapshot when the test ends. Pins are reset because we pass nil
// layers.
func resetWithBuilder(tb testing.TB, b apis.Builder, cfg apis.Config, ext any) {
	tb.Helper()
	SetAll(&cfg, ext, nil, nil, nil, b)
	tb.Cleanup(func() {
		def := config.DefaultConfig()
		SetAll(&def, nil, nil, nil, nil, builder.New())
	})
}

// ---------------------- Test doubles (mocks) ----------------------

type mockRegistry struct {
	id   string
	mu   sync.Mutex
	data map[reflect.Type]shape.Structure
}

func newMockRegistry(id string) *mockRegistry {
	return &mockRegistry{id: id, data: make(map[reflect.Type]shape.Structure)}
}

func (m *mockRegistry) Register(t reflect.Type, s shape.Structure) error {
	m.mu.Lock()
	m.data[t] = s
	m.mu.Unlock()
	return nil
}
func (m *mockRegistry) Lookup(t reflect.Type) (shape.Structure, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.data[t]
	return s, ok
}
func (m *mockRegistry) Entries() []apis.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []apis.Entry
	for t, s := range m.data {
		out = append(out, apis.Entry{Type: t, Structure: s})
	}
	return out
}
func (m *mockRegistry) Count() int { m.mu.Lock(); defer m.mu.Unlock(); return len(m.data) }
func (m *mockRegistry) Reset() {
	m.mu.Lock()
	m.data = make(map[reflect.Type]shape.Structure)
	m.mu.Unlock()
}

// mockResolver classifies everything as fixed.
type mockResolver struct {
	id    string
	fixed shape.Structure
}

func (r *mockResolver) Resolve(any, apis.Config) shape.Structure { return r.fixed }
func (r *mockResolver) ResolveType(reflect.Type, apis.Config) shape.Structure {
	return r.fixed
}

type mockBuilder struct {
	mu            sync.Mutex
	lastCfg       apis.Config
	lastExt       any
	lastPrevRegID string
	regCounter    int
	resCounter    int
	cacheCounter  int
	chkCounter    int
}

func (b *mockBuilder) BuildRegistry(cfg apis.Config, prev apis.Registry, ext any) apis.Registry {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastCfg, b.lastExt = cfg, ext
	if mr, ok := prev.(*mockRegistry); ok {
		b.lastPrevRegID = mr.id
	}
	b.regCounter++
	return newMockRegistry("reg#" + strconv.Itoa(b.regCounter))
}

func (b *mockBuilder) BuildResolver(cfg apis.Config, _ apis.Registry, _ apis.Resolver, ext any) apis.Resolver {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastCfg, b.lastExt = cfg, ext
	b.resCounter++
	return &mockResolver{id: "res#" + strconv.Itoa(b.resCounter), fixed: shape.Sequence}
}

func (b *mockBuilder) BuildCache(apis.Config, apis.Cache, any) apis.Cache {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cacheCounter++
	return cache.New()
}

func (b *mockBuilder) BuildChecker(cfg apis.Config, res apis.Resolver, c apis.Cache, _ any) apis.Checker {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.chkCounter++
	return checker.New(cfg, res, c)
}

func (b *mockBuilder) counters() (reg, res, c, chk int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.regCounter, b.resCounter, b.cacheCounter, b.chkCounter
}

// ---------------------- Snapshot tests ----------------------

func TestSetConfig_Rebuilds_Unpinned(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, config.NewConfig(config.WithMaxUnwrap(8)), nil)

	s1Reg, s1Res, s1Cache := Registry(), Resolver(), Cache()

	SetConfig(config.NewConfig(config.WithMaxUnwrap(4), config.WithMaxDepth(16)))

	if Registry() == s1Reg {
		t.Fatalf("registry was not rebuilt on SetConfig (unpinned)")
	}
	if Resolver() == s1Res {
		t.Fatalf("resolver was not rebuilt on SetConfig (unpinned)")
	}
	if Cache() == s1Cache {
		t.Fatalf("cache was not rebuilt on SetConfig (unpinned)")
	}

	b.mu.Lock()
	gotCfg, prevID := b.lastCfg, b.lastPrevRegID
	b.mu.Unlock()
	if gotCfg.MaxUnwrap != 4 || gotCfg.MaxDepth != 16 {
		t.Fatalf("builder received wrong cfg: %+v", gotCfg)
	}
	if prevID != "reg#1" {
		t.Fatalf("builder did not receive the previous registry: %q", prevID)
	}
	if Config().MaxDepth != 16 {
		t.Fatalf("Config not published: %+v", Config())
	}
}

func TestSetRegistry_PinsRegistry_and_RebuildsResolverIfUnpinned(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, config.DefaultConfig(), nil)

	customReg := newMockRegistry("custom")
	SetRegistry(customReg)
	if !IsRegistryPinned() {
		t.Fatalf("SetRegistry did not pin the registry")
	}

	beforeRes := Resolver()
	SetConfig(config.NewConfig(config.WithMaxDepth(32)))

	if Registry() != customReg {
		t.Fatalf("pinned registry was rebuilt unexpectedly")
	}
	if Resolver() == beforeRes {
		t.Fatalf("resolver was not rebuilt when cfg changed and res not pinned")
	}

	SetRegistry(nil)
	if Registry() != customReg {
		t.Fatalf("SetRegistry(nil) replaced the registry")
	}
}

func TestSetResolver_PinsResolver(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, config.DefaultConfig(), nil)

	customRes := &mockResolver{id: "custom"}
	SetResolver(customRes)
	regBefore := Registry()

	SetConfig(config.NewConfig(config.WithMaxDepth(32)))

	if Resolver() != customRes {
		t.Fatalf("pinned resolver was rebuilt unexpectedly")
	}
	if Registry() == regBefore {
		t.Fatalf("registry was not rebuilt on SetConfig when resolver is pinned")
	}
}

func TestSetCache_PinsCache(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, config.DefaultConfig(), nil)

	c := cache.New()
	SetCache(c)
	if !IsCachePinned() || Cache() != c {
		t.Fatalf("SetCache did not pin the cache")
	}

	SetConfig(config.NewConfig(config.WithMaxDepth(32)))
	if Cache() != c {
		t.Fatalf("pinned cache was rebuilt unexpectedly")
	}

	tup := frozen.TupleOf(1)
	if _, _, err := IsInstance(tup, hint.Tuple); err != nil {
		t.Fatalf("IsInstance failed: %v", err)
	}
	if c.Len() != 1 {
		t.Fatalf("checker does not use the pinned cache: len=%d", c.Len())
	}
	runtime.KeepAlive(tup)

	UnpinCache()
	SetConfig(config.DefaultConfig())
	if Cache() == c {
		t.Fatalf("cache should rebuild after UnpinCache+SetConfig")
	}
}

func TestSetBuilder_Rebuilds_Only_Unpinned(t *testing.T) {
	a := &mockBuilder{}
	resetWithBuilder(t, a, config.DefaultConfig(), nil)

	SetResolver(&mockResolver{id: "pinned"})
	regBefore := Registry()
	resBefore := Resolver()

	b := &mockBuilder{}
	SetBuilder(b)

	if Registry() == regBefore {
		t.Fatalf("registry did not rebuild after SetBuilder (unpinned)")
	}
	if Resolver() != resBefore {
		t.Fatalf("pinned resolver was rebuilt after SetBuilder")
	}
	if Builder() != b {
		t.Fatalf("builder not published")
	}
	if reg, res, c, chk := b.counters(); reg != 1 || res != 0 || c != 1 || chk != 1 {
		t.Fatalf("unexpected builds: reg=%d res=%d cache=%d chk=%d", reg, res, c, chk)
	}
}

func TestSetExt_Rebuilds_Unpinned_and_PassesValue(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, config.DefaultConfig(), nil)

	type extCfg struct{ X int }
	SetExt(extCfg{X: 42})

	b.mu.Lock()
	got := b.lastExt
	b.mu.Unlock()
	if ec, ok := got.(extCfg); !ok || ec.X != 42 {
		t.Fatalf("builder did not receive ext properly: %#v", got)
	}
	if ec, ok := ExtAs[extCfg](); !ok || ec.X != 42 {
		t.Fatalf("ExtAs mismatch: %#v %v", ec, ok)
	}

	// Pin every layer and ensure nothing but the checker rebuilds.
	SetRegistry(Registry())
	SetResolver(Resolver())
	SetCache(Cache())
	rBefore, sBefore, cBefore, kBefore := b.counters()
	SetExt(extCfg{X: 7})
	rAfter, sAfter, cAfter, kAfter := b.counters()
	if rAfter != rBefore || sAfter != sBefore || cAfter != cBefore {
		t.Fatalf("SetExt should not rebuild pinned layers")
	}
	if kAfter != kBefore+1 {
		t.Fatalf("checker was not rebuilt: %d -> %d", kBefore, kAfter)
	}
}

func TestUnpin_Allows_Rebuild_After(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, config.DefaultConfig(), nil)

	SetRegistry(Registry())
	SetResolver(Resolver())

	reg1 := Registry()
	res1 := Resolver()
	SetConfig(config.NewConfig(config.WithMaxUnwrap(4)))
	if Registry() != reg1 || Resolver() != res1 {
		t.Fatalf("pinned layers should not rebuild on SetConfig")
	}

	UnpinRegistry()
	UnpinResolver()
	if IsRegistryPinned() || IsResolverPinned() {
		t.Fatalf("unpin did not take effect")
	}
	SetConfig(config.NewConfig(config.WithMaxUnwrap(6)))
	if Registry() == reg1 {
		t.Fatalf("registry should rebuild after UnpinRegistry+SetConfig")
	}
	if Resolver() == res1 {
		t.Fatalf("resolver should rebuild after UnpinResolver+SetConfig")
	}
}

func TestCustomResolverDrivesChecks(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b, config.DefaultConfig(), nil)

	// The mock resolver calls everything a Sequence, so a map walks as one.
	valid, _, err := IsInstance(map[string]int{"a": 1}, hint.SequenceOf(hint.Str))
	if err != nil || !valid {
		t.Fatalf("mock resolver not used: valid=%v err=%v", valid, err)
	}
}

func TestIsInstance_Concurrent_With_SetConfig(t *testing.T) {
	def := config.DefaultConfig()
	resetWithBuilder(t, builder.New(), def, nil)

	tup := frozen.TupleOf(1, 2, 3)
	h := hint.TupleOf(hint.Int, hint.Ellipsis)
	done := make(chan struct{})
	var wg sync.WaitGroup

	readers := runtime.GOMAXPROCS(0) * 4
	wg.Add(readers)
	for i := 0; i < readers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				valid, imm, err := IsInstance(tup, h)
				if err != nil || !valid || !imm {
					t.Errorf("unexpected verdict: %v %v %v", valid, imm, err)
					return
				}
				_, _, _ = IsInstance([]any{j}, hint.ListOf(hint.Int))
			}
		}()
	}

	go func() {
		for i := 0; i < 20; i++ {
			SetConfig(config.NewConfig(
				config.WithMaxUnwrap(4+i%5),
				config.WithCaching(i%2 == 0),
			))
			time.Sleep(time.Millisecond)
		}
		close(done)
	}()

	wg.Wait()
	<-done
}

// ---------------------- Checking API ----------------------

func TestIsInstance_Scenarios(t *testing.T) {
	resetWithBuilder(t, builder.New(), config.DefaultConfig(), nil)

	tests := []struct {
		name      string
		obj       any
		h         hint.Hint
		valid     bool
		immutable bool
	}{
		{"list", []int{1, 2, 3}, hint.ListOf(hint.Int), true, false},
		{"tuple", frozen.TupleOf(1, 2, 3), hint.MustParse("tuple[int, ...]"), true, true},
		{"tuple with a str", frozen.TupleOf[any](1, "x"), hint.MustParse("tuple[int, ...]"), false, true},
		{"frozen dict", frozen.MapOf(map[string]int{"a": 1}), hint.MustParse("frozendict[str, int]"), true, true},
		{"optional", nil, hint.MustParse("int | None"), true, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			valid, imm, err := IsInstance(tc.obj, tc.h)
			if err != nil {
				t.Fatalf("IsInstance: %v", err)
			}
			if valid != tc.valid || imm != tc.immutable {
				t.Fatalf("got (%v, %v), want (%v, %v)", valid, imm, tc.valid, tc.immutable)
			}
		})
	}
}

func TestValidate_ReturnsTaggedErrors(t *testing.T) {
	resetWithBuilder(t, builder.New(), config.DefaultConfig(), nil)

	if err := Validate([]int{1}, hint.ListOf(hint.Int)); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	err := Validate([]any{"x"}, hint.ListOf(hint.Int))
	if !errors.Is(err, ErrType) {
		t.Fatalf("want ErrType, got %v", err)
	}
	if tag, _ := TagOf(err); tag != TagValidationFailed {
		t.Fatalf("tag = %q", tag)
	}

	err = Validate(1, hint.Protocol("Closer", false, "Close"))
	if tag, _ := TagOf(err); tag != TagNonRuntimeCheckableProtocol {
		t.Fatalf("tag = %q", tag)
	}

	_, _, err = IsInstance(1, hint.Required(hint.Int))
	if tag, _ := TagOf(err); tag != TagInvalidPseudoOrigin {
		t.Fatalf("marker error not reported without raise: %v", err)
	}

	_, _, err = IsInstance(1, hint.Ellipsis)
	var ve *ValueError
	if !errors.As(err, &ve) {
		t.Fatalf("want ValueError, got %T", err)
	}

	_, _, err = IsInstance([]any{"x"}, hint.ListOf(hint.Int), WithRaise(), WithContext("payload"))
	var te *TypeError
	if !errors.As(err, &te) || te.Metadata()[apis.MetaContext] != "payload" {
		t.Fatalf("context label not attached: %v", err)
	}
}

func TestClearCache(t *testing.T) {
	resetWithBuilder(t, builder.New(), config.DefaultConfig(), nil)

	tup := frozen.TupleOf(1)
	if _, _, err := IsInstance(tup, hint.Tuple); err != nil {
		t.Fatal(err)
	}
	if Cache().Len() != 1 {
		t.Fatalf("verdict not cached: len=%d", Cache().Len())
	}
	ClearCache()
	if Cache().Len() != 0 {
		t.Fatalf("ClearCache left %d entries", Cache().Len())
	}
	runtime.KeepAlive(tup)
}

func TestRegisterShape(t *testing.T) {
	resetWithBuilder(t, builder.New(), config.DefaultConfig(), nil)

	type names []string
	if valid, _, _ := IsInstance(names{"a"}, hint.SequenceOf(hint.Str)); !valid {
		t.Fatalf("names should be a sequence by kind")
	}

	if err := RegisterShape(reflect.TypeOf(names{}), shape.Iterable); err != nil {
		t.Fatalf("RegisterShape: %v", err)
	}
	if valid, _, _ := IsInstance(names{"a"}, hint.SequenceOf(hint.Str)); valid {
		t.Fatalf("registration did not override the kind")
	}
	if valid, _, _ := IsInstance(names{"a"}, hint.IterableOf(hint.Str)); !valid {
		t.Fatalf("registered structure not honored")
	}

	if err := RegisterShape(reflect.TypeOf(names{}), shape.Mapping); err == nil {
		t.Fatalf("conflicting registration accepted")
	}
}

func TestImmutablePredicates(t *testing.T) {
	if !IsImmutable(frozen.TupleOf(1)) || IsImmutable([]int{}) {
		t.Fatalf("IsImmutable misclassified")
	}
	if !IsImmutableDataHint(hint.MustParse("tuple[int, ...]")) || IsImmutableDataHint(hint.ListOf(hint.Int)) {
		t.Fatalf("IsImmutableDataHint misclassified")
	}
	frozenMovie := hint.StructOf("Movie", []hint.Field{{Name: "title", Hint: hint.Str}}, hint.WithFrozen())
	if !IsImmutableStructHint(frozenMovie) || IsImmutableStructHint(hint.Int) {
		t.Fatalf("IsImmutableStructHint misclassified")
	}
}
