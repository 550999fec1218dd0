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

// Package cache implements apis.Cache as a sharded, identity-keyed table of
// verdicts. Entries hold their object weakly and are evicted by a runtime
// cleanup once the object is collected.
package cache

import (
	"context"
	"reflect"
	"runtime"
	"sync"
	"sync/atomic"
	"unique"
	"unsafe"
	"weak"

	"github.com/cespare/xxhash/v2"
	"go.opentelemetry.io/otel/metric"

	"dirpx.dev/typecheck/apis"
	"dirpx.dev/typecheck/hint"
)

// DefaultShards is the shard count used when none is configured.
const DefaultShards = 16

// slot locates a verdict: one hint checked against the object living at
// addr.
type slot struct {
	hint unique.Handle[string]
	addr uintptr
}

// record is a verdict together with a weak reference to its object. A weak
// pointer compares equal only for the same live object, so an address
// recycled by a new object never observes a stale verdict.
type record struct {
	ref   weak.Pointer[byte]
	valid bool
}

type shard struct {
	mu sync.RWMutex
	m  map[slot]record
}

// Option configures a Cache.
type Option func(*options)

type options struct {
	shards int
	meter  metric.Meter
}

// WithShards sets the number of shards, rounded up to a power of two.
func WithShards(n int) Option {
	return func(o *options) { o.shards = n }
}

// WithMeter records cache instruments on m instead of the global meter.
func WithMeter(m metric.Meter) Option {
	return func(o *options) { o.meter = m }
}

// Cache is a concurrent verdict cache keyed by (hint, object identity).
type Cache struct {
	shards []shard
	mask   uint64
	m      *metrics

	hits      atomic.Uint64
	misses    atomic.Uint64
	stores    atomic.Uint64
	evictions atomic.Uint64
	entries   atomic.Int64
}

// Ensure Cache implements apis.Cache.
var _ apis.Cache = (*Cache)(nil)

// New builds an empty cache.
func New(opts ...Option) *Cache {
	o := options{shards: DefaultShards}
	for _, opt := range opts {
		opt(&o)
	}
	n := 1
	for n < o.shards {
		n <<= 1
	}
	c := &Cache{
		shards: make([]shard, n),
		mask:   uint64(n - 1),
		m:      newMetrics(o.meter),
	}
	for i := range c.shards {
		c.shards[i].m = make(map[slot]record)
	}
	return c
}

// ref returns the base pointer of obj when obj can be cached by identity:
// a non-nil pointer to a value with non-zero size. Zero-size values may
// share one address and are never cached.
func ref(obj any) (*byte, bool) {
	rv := reflect.ValueOf(obj)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Type().Elem().Size() == 0 {
		return nil, false
	}
	return (*byte)(rv.UnsafePointer()), true
}

func (c *Cache) shardFor(sl slot) *shard {
	sum := xxhash.Sum64String(sl.hint.Value()) ^ uint64(sl.addr)*0x9e3779b97f4a7c15
	return &c.shards[sum&c.mask]
}

// Lookup returns the cached verdict for (h, obj).
func (c *Cache) Lookup(h hint.Hint, obj any) (valid bool, ok bool) {
	p, has := ref(obj)
	if !has || h == nil {
		return false, false
	}
	sl := slot{hint: h.Key(), addr: uintptr(unsafe.Pointer(p))}
	s := c.shardFor(sl)
	s.mu.RLock()
	rec, found := s.m[sl]
	s.mu.RUnlock()
	// Only addresses that were stored reach weak.Make; those are known to
	// be heap objects.
	if found && rec.ref == weak.Make(p) {
		c.hits.Add(1)
		c.m.hit(context.Background())
		return rec.valid, true
	}
	c.misses.Add(1)
	c.m.miss(context.Background())
	return false, false
}

// Store records the verdict for (h, obj). Objects without identity, objects
// outside the heap, and objects whose dynamic type is in noncachable are
// skipped. A live entry for (h, obj) is kept as is.
func (c *Cache) Store(h hint.Hint, obj any, valid bool, noncachable apis.TypeSet) bool {
	p, has := ref(obj)
	if !has || h == nil || noncachable.Has(reflect.TypeOf(obj)) {
		return false
	}
	sl := slot{hint: h.Key(), addr: uintptr(unsafe.Pointer(p))}
	s := c.shardFor(sl)

	// Live entries are never rewritten.
	s.mu.Lock()
	if rec, ok := s.m[sl]; ok && rec.ref == weak.Make(p) {
		s.mu.Unlock()
		return true
	}
	s.mu.Unlock()

	// A zero Cleanup means p is not heap allocated and can never be
	// collected, nor weakly referenced.
	if runtime.AddCleanup(p, c.evict, cleanup{slot: sl, shard: s}) == (runtime.Cleanup{}) {
		return false
	}
	w := weak.Make(p)

	s.mu.Lock()
	rec, existed := s.m[sl]
	if existed && rec.ref == w {
		s.mu.Unlock()
		return true
	}
	s.m[sl] = record{ref: w, valid: valid}
	s.mu.Unlock()
	if !existed {
		c.entries.Add(1)
		c.m.resize(context.Background(), 1)
	}
	c.stored(valid)
	return true
}

func (c *Cache) stored(valid bool) {
	c.stores.Add(1)
	c.m.store(context.Background(), valid)
}

// cleanup is the argument of the runtime cleanup attached to a stored
// object. It must not reference the object itself.
type cleanup struct {
	slot  slot
	shard *shard
}

// evict runs once an object stored at e.slot is unreachable. A record
// written since for a new object at the same address is kept.
func (c *Cache) evict(e cleanup) {
	s := e.shard
	s.mu.Lock()
	rec, ok := s.m[e.slot]
	dead := ok && rec.ref.Value() == nil
	if dead {
		delete(s.m, e.slot)
	}
	s.mu.Unlock()
	if dead {
		c.evictions.Add(1)
		c.entries.Add(-1)
		c.m.evict(context.Background())
	}
}

// Clear drops every entry. Pending cleanups for dropped entries become no-ops.
func (c *Cache) Clear() {
	var dropped int64
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.Lock()
		dropped += int64(len(s.m))
		clear(s.m)
		s.mu.Unlock()
	}
	c.entries.Add(-dropped)
	c.m.resize(context.Background(), -dropped)
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	n := 0
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.RLock()
		n += len(s.m)
		s.mu.RUnlock()
	}
	return n
}

// Stats is a point-in-time view of cache activity.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Stores    uint64
	Evictions uint64
	Entries   int
}

// Stats returns the current counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Stores:    c.stores.Load(),
		Evictions: c.evictions.Load(),
		Entries:   int(c.entries.Load()),
	}
}
