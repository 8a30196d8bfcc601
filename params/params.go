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

// Package params implements the mapping representation crossing the core
// boundary: an insertion-ordered collection of (string key, value) pairs
// where a value is nil, a bool, a number, a string, an ordered sequence of
// values, or a nested mapping.
//
// Insertion order is preserved through all three wire codecs (JSON, msgpack,
// YAML), which makes text renderings deterministic.
package params

import "sort"

// Pair is a single (key, value) entry.
type Pair struct {
	// Key is the attribute name.
	Key string
	// Value is the attribute's representable value.
	Value any
}

// Params is an insertion-ordered string-keyed mapping.
// The zero value is ready to use. Params is not safe for concurrent
// mutation; copies made with Clone are independent at the top level.
type Params struct {
	keys   []string
	values map[string]any
}

// New returns an empty mapping.
func New() *Params {
	return &Params{values: make(map[string]any)}
}

// FromMap builds a mapping from m with keys in sorted order, so the result
// is deterministic regardless of Go map iteration.
func FromMap(m map[string]any) *Params {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	p := New()
	for _, k := range keys {
		p.Set(k, m[k])
	}
	return p
}

// FromPairs builds a mapping from pairs in the given order.
// A repeated key keeps its first position and the last value.
func FromPairs(pairs ...Pair) *Params {
	p := New()
	for _, kv := range pairs {
		p.Set(kv.Key, kv.Value)
	}
	return p
}

// Set stores v under key, appending key if new and keeping its position
// otherwise. It returns p for chaining.
func (p *Params) Set(key string, v any) *Params {
	if p.values == nil {
		p.values = make(map[string]any)
	}
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = v
	return p
}

// Get returns the value stored under key.
func (p *Params) Get(key string) (any, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Has reports whether key is present.
func (p *Params) Has(key string) bool {
	_, ok := p.values[key]
	return ok
}

// Pop removes key and returns its value.
func (p *Params) Pop(key string) (any, bool) {
	v, ok := p.values[key]
	if ok {
		p.Delete(key)
	}
	return v, ok
}

// Delete removes key if present.
func (p *Params) Delete(key string) {
	if _, ok := p.values[key]; !ok {
		return
	}
	delete(p.values, key)
	for i, k := range p.keys {
		if k == key {
			p.keys = append(p.keys[:i], p.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of entries.
func (p *Params) Len() int {
	return len(p.keys)
}

// Keys returns the keys in insertion order. The slice is a copy.
func (p *Params) Keys() []string {
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

// Range calls fn for each entry in insertion order until fn returns false.
func (p *Params) Range(fn func(key string, v any) bool) {
	for _, k := range p.keys {
		if !fn(k, p.values[k]) {
			return
		}
	}
}

// Clone returns a shallow copy: keys and the top-level map are copied,
// values are shared.
func (p *Params) Clone() *Params {
	out := &Params{
		keys:   make([]string, len(p.keys)),
		values: make(map[string]any, len(p.values)),
	}
	copy(out.keys, p.keys)
	for k, v := range p.values {
		out.values[k] = v
	}
	return out
}

// Pairs returns the entries in insertion order.
func (p *Params) Pairs() []Pair {
	out := make([]Pair, 0, len(p.keys))
	for _, k := range p.keys {
		out = append(out, Pair{Key: k, Value: p.values[k]})
	}
	return out
}

// Map returns a plain map view of the top level. Nested *Params values are
// shared, not converted.
func (p *Params) Map() map[string]any {
	out := make(map[string]any, len(p.values))
	for k, v := range p.values {
		out[k] = v
	}
	return out
}
