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

package cache

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ScopeName is the instrumentation scope of the cache instruments.
const ScopeName = "dirpx.dev/typecheck/cache"

// Instrument names.
const (
	MetricHits      = "typecheck.cache.hits"
	MetricMisses    = "typecheck.cache.misses"
	MetricStores    = "typecheck.cache.stores"
	MetricEvictions = "typecheck.cache.evictions"
	MetricEntries   = "typecheck.cache.entries"
)

// metrics holds the otel instruments of one Cache. A nil *metrics records
// nothing.
type metrics struct {
	hits      metric.Int64Counter
	misses    metric.Int64Counter
	stores    metric.Int64Counter
	evictions metric.Int64Counter
	entries   metric.Int64UpDownCounter
}

// newMetrics creates the instruments on meter, or on the global meter when
// meter is nil. Instrument errors disable recording.
func newMetrics(meter metric.Meter) *metrics {
	if meter == nil {
		meter = otel.Meter(ScopeName)
	}
	m := &metrics{}
	var err error
	if m.hits, err = meter.Int64Counter(MetricHits,
		metric.WithDescription("Cache lookups that found a verdict")); err != nil {
		return nil
	}
	if m.misses, err = meter.Int64Counter(MetricMisses,
		metric.WithDescription("Cache lookups that found nothing")); err != nil {
		return nil
	}
	if m.stores, err = meter.Int64Counter(MetricStores,
		metric.WithDescription("Verdicts written to the cache")); err != nil {
		return nil
	}
	if m.evictions, err = meter.Int64Counter(MetricEvictions,
		metric.WithDescription("Entries dropped after their object was collected")); err != nil {
		return nil
	}
	if m.entries, err = meter.Int64UpDownCounter(MetricEntries,
		metric.WithDescription("Live cache entries")); err != nil {
		return nil
	}
	return m
}

func (m *metrics) hit(ctx context.Context) {
	if m != nil {
		m.hits.Add(ctx, 1)
	}
}

func (m *metrics) miss(ctx context.Context) {
	if m != nil {
		m.misses.Add(ctx, 1)
	}
}

func (m *metrics) store(ctx context.Context, valid bool) {
	if m != nil {
		m.stores.Add(ctx, 1, metric.WithAttributes(attribute.Bool("valid", valid)))
	}
}

func (m *metrics) evict(ctx context.Context) {
	if m != nil {
		m.evictions.Add(ctx, 1)
	}
}

func (m *metrics) resize(ctx context.Context, delta int64) {
	if m != nil && delta != 0 {
		m.entries.Add(ctx, delta)
	}
}
