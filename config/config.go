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

package config

import (
	"log/slog"
	"reflect"

	"dirpx.dev/typecheck/apis"
	uref "dirpx.dev/typecheck/utils/reflect"
)

const (
	// DefaultMaxUnwrap represents the default for MaxUnwrap.
	// A value of 8 should be sufficient for all practical purposes.
	DefaultMaxUnwrap = uref.DefaultMaxUnwrap
	// DefaultMaxDepth represents the default for MaxDepth.
	DefaultMaxDepth = 1024
	// DefaultCaching represents the default for Caching.
	DefaultCaching = true
)

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	// Ensure MaxUnwrap is valid.
	if cfg.MaxUnwrap < 0 {
		cfg.MaxUnwrap = DefaultMaxUnwrap
	}
	if cfg.MaxDepth < 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	return cfg
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		MaxUnwrap: DefaultMaxUnwrap,
		MaxDepth:  DefaultMaxDepth,
		Caching:   DefaultCaching,
	}
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithMaxUnwrap sets the MaxUnwrap option.
// A negative value resets to the default.
func WithMaxUnwrap(max int) Option {
	return func(c *apis.Config) {
		if max < 0 {
			c.MaxUnwrap = DefaultMaxUnwrap
			return
		}
		c.MaxUnwrap = max
	}
}

// WithMaxDepth sets the MaxDepth option. Zero disables the bound.
// A negative value resets to the default.
func WithMaxDepth(max int) Option {
	return func(c *apis.Config) {
		if max < 0 {
			c.MaxDepth = DefaultMaxDepth
			return
		}
		c.MaxDepth = max
	}
}

// WithCaching enables or disables the validation cache.
func WithCaching(enabled bool) Option {
	return func(c *apis.Config) {
		c.Caching = enabled
	}
}

// WithNoncachable adds types whose verdicts must never be cached.
func WithNoncachable(types ...reflect.Type) Option {
	return func(c *apis.Config) {
		c.Noncachable = c.Noncachable.With(types...)
	}
}

// WithLogger sets the logger receiving debug events.
func WithLogger(l *slog.Logger) Option {
	return func(c *apis.Config) {
		c.Logger = l
	}
}
