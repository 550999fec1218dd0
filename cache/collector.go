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

import "github.com/prometheus/client_golang/prometheus"

var (
	descHits = prometheus.NewDesc("typecheck_cache_hits_total",
		"Cache lookups that found a verdict.", nil, nil)
	descMisses = prometheus.NewDesc("typecheck_cache_misses_total",
		"Cache lookups that found nothing.", nil, nil)
	descStores = prometheus.NewDesc("typecheck_cache_stores_total",
		"Verdicts written to the cache.", nil, nil)
	descEvictions = prometheus.NewDesc("typecheck_cache_evictions_total",
		"Entries dropped after their object was collected.", nil, nil)
	descEntries = prometheus.NewDesc("typecheck_cache_entries",
		"Live cache entries.", nil, nil)
)

// Collector exposes Stats of a Cache to a prometheus registry.
type Collector struct {
	c *Cache
}

// Ensure Collector implements prometheus.Collector.
var _ prometheus.Collector = (*Collector)(nil)

// NewCollector returns a collector reading c on every scrape.
func NewCollector(c *Cache) *Collector {
	return &Collector{c: c}
}

// Describe implements prometheus.Collector.
func (col *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- descHits
	ch <- descMisses
	ch <- descStores
	ch <- descEvictions
	ch <- descEntries
}

// Collect implements prometheus.Collector.
func (col *Collector) Collect(ch chan<- prometheus.Metric) {
	st := col.c.Stats()
	ch <- prometheus.MustNewConstMetric(descHits, prometheus.CounterValue, float64(st.Hits))
	ch <- prometheus.MustNewConstMetric(descMisses, prometheus.CounterValue, float64(st.Misses))
	ch <- prometheus.MustNewConstMetric(descStores, prometheus.CounterValue, float64(st.Stores))
	ch <- prometheus.MustNewConstMetric(descEvictions, prometheus.CounterValue, float64(st.Evictions))
	ch <- prometheus.MustNewConstMetric(descEntries, prometheus.GaugeValue, float64(st.Entries))
}
