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

package builder

import (
	"go.opentelemetry.io/otel/metric"

	"dirpx.dev/typecheck/apis"
	"dirpx.dev/typecheck/cache"
	"dirpx.dev/typecheck/checker"
	"dirpx.dev/typecheck/registry"
	"dirpx.dev/typecheck/resolver"
	"dirpx.dev/typecheck/strategy"
)

// New creates and returns a new instance of an apis.Builder.
func New() apis.Builder {
	return &builder{}
}

// builder is an empty struct to be used as a receiver for builder methods.
type builder struct{}

// BuildRegistry builds and returns a new apis.Registry based on the provided configuration
// and pre-existing registry. If a pre-existing registry is provided, its entries are copied
// into the new registry; entries the new configuration rejects are dropped.
func (b *builder) BuildRegistry(cfg apis.Config, preg apis.Registry, _ any) apis.Registry {
	nreg := registry.New(cfg)
	if preg != nil {
		for _, e := range preg.Entries() {
			_ = nreg.Register(e.Type, e.Structure)
		}
	}
	return nreg
}

// BuildResolver builds and returns the default classification chain:
// explicit registrations, then declared protocols, then the value's kind.
func (b *builder) BuildResolver(_ apis.Config, reg apis.Registry, _ apis.Resolver, _ any) apis.Resolver {
	return resolver.New(
		strategy.NewRegistryStrategy(reg),
		strategy.NewProtocolStrategy(),
		strategy.NewReflectStrategy(),
	)
}

// BuildCache returns the previous cache, emptied, when it is one of ours,
// and a new cache otherwise. Verdicts computed under the old stack are not
// carried over. An ext of type metric.Meter instruments a new cache.
func (b *builder) BuildCache(_ apis.Config, prev apis.Cache, ext any) apis.Cache {
	if c, ok := prev.(*cache.Cache); ok {
		c.Clear()
		return c
	}
	var opts []cache.Option
	if m, ok := ext.(metric.Meter); ok {
		opts = append(opts, cache.WithMeter(m))
	}
	return cache.New(opts...)
}

// BuildChecker wires the default checker.
func (b *builder) BuildChecker(cfg apis.Config, res apis.Resolver, c apis.Cache, _ any) apis.Checker {
	return checker.New(cfg, res, c)
}
