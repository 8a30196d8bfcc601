/*
   Copyright 2026 The Parameterized Authors.

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
	"github.com/DamonGeorge/parameterized/apis"
)

const (
	// DefaultTypeKey is the reserved mapping key for discriminator tags.
	DefaultTypeKey = "type"
	// DefaultIndent is the indentation unit of the text rendering boundary.
	DefaultIndent = "  "
	// DefaultMaxDepth represents the default for MaxDepth.
	// A value of 32 should be sufficient for all practical object graphs.
	DefaultMaxDepth = 32
	// DefaultDetectCycles represents the default for DetectCycles.
	// Cyclic graphs are not supported; the depth guard catches runaways.
	DefaultDetectCycles = false
)

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	// Ensure required knobs are valid.
	if cfg.TypeKey == "" {
		cfg.TypeKey = DefaultTypeKey
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	return cfg
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		TypeKey:      DefaultTypeKey,
		Indent:       DefaultIndent,
		MaxDepth:     DefaultMaxDepth,
		DetectCycles: DefaultDetectCycles,
	}
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithTypeKey sets the reserved discriminator key.
// An empty value resets to the default.
func WithTypeKey(key string) Option {
	return func(c *apis.Config) {
		if key == "" {
			c.TypeKey = DefaultTypeKey
			return
		}
		c.TypeKey = key
	}
}

// WithIndent sets the indentation unit for text rendering.
func WithIndent(indent string) Option {
	return func(c *apis.Config) {
		c.Indent = indent
	}
}

// WithMaxDepth sets the nested-serialization depth limit.
// A non-positive value resets to the default.
func WithMaxDepth(max int) Option {
	return func(c *apis.Config) {
		if max <= 0 {
			c.MaxDepth = DefaultMaxDepth
			return
		}
		c.MaxDepth = max
	}
}

// WithCycleDetection sets the DetectCycles option.
func WithCycleDetection(detect bool) Option {
	return func(c *apis.Config) {
		c.DetectCycles = detect
	}
}
