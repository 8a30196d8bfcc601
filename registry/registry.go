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

package registry

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/DamonGeorge/parameterized/apis"
)

var (
	// ErrNilType is returned when a nil reflect.Type is provided.
	ErrNilType = errors.New("parameterized(registry): nil reflect.Type provided")
	// ErrEmptyAttr is returned when an empty attribute name is provided.
	ErrEmptyAttr = errors.New("parameterized(registry): empty attribute name provided")
	// ErrNilConverter is returned when a nil converter is provided.
	ErrNilConverter = errors.New("parameterized(registry): nil converter provided")
	// ErrSelfLink is returned when a type is linked to itself.
	ErrSelfLink = errors.New("parameterized(registry): type cannot inherit from itself")
)

// maxLineage bounds inheritance-link walks, guarding against link cycles.
const maxLineage = 8

// maxUnwrap bounds pointer unwrapping of owner types.
const maxUnwrap = 4

// New constructs an empty conversion Registry.
func New(cfg apis.Config) apis.Registry {
	return &registry{cfg: cfg}
}

// registry is an apis.Registry backed by sync.Map.
// Registration mutates per-type rule sets under a write mutex; resolution
// reads without locking, relying on the registration-before-use discipline.
type registry struct {
	// cfg is the configuration the registry was built with.
	cfg apis.Config
	// mu guards write-side consistency and counter.
	mu sync.Mutex
	// types maps an owner reflect.Type to its *ruleSet.
	types sync.Map
	// count tracks the number of registered rules.
	count int
}

// ruleSet holds one owner type's rules for both directions.
type ruleSet struct {
	serAttr  map[string]apis.Converter
	desAttr  map[string]apis.Converter
	serTyped []apis.TypedRule
	desTyped []apis.TypedRule
	excluded map[string]struct{}
	// parent is the explicit inheritance link, or nil.
	parent reflect.Type
}

// normalizeOwner unwraps pointers; the owner itself may be any named type,
// including a family-root interface.
func normalizeOwner(t reflect.Type) (reflect.Type, error) {
	if t == nil {
		return nil, ErrNilType
	}
	for i := 0; t.Kind() == reflect.Pointer && i < maxUnwrap; i++ {
		t = t.Elem()
	}
	return t, nil
}

// edit runs fn on owner's ruleSet under the write mutex, creating it if absent.
func (r *registry) edit(owner reflect.Type, fn func(*ruleSet) error) error {
	nt, err := normalizeOwner(owner)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var rs *ruleSet
	if v, ok := r.types.Load(nt); ok {
		rs = v.(*ruleSet)
	} else {
		rs = &ruleSet{
			serAttr:  make(map[string]apis.Converter),
			desAttr:  make(map[string]apis.Converter),
			excluded: make(map[string]struct{}),
		}
		r.types.Store(nt, rs)
	}
	return fn(rs)
}

// OnSerialize associates an exact-attribute serialize rule with owner.
// Re-registering an attribute replaces the previous rule.
func (r *registry) OnSerialize(owner reflect.Type, attr string, fn apis.Converter) error {
	if attr == "" {
		return ErrEmptyAttr
	}
	if fn == nil {
		return ErrNilConverter
	}
	return r.edit(owner, func(rs *ruleSet) error {
		if _, ok := rs.serAttr[attr]; !ok {
			r.count++
		}
		rs.serAttr[attr] = fn
		return nil
	})
}

// OnDeserialize associates an exact-attribute deserialize rule with owner.
func (r *registry) OnDeserialize(owner reflect.Type, attr string, fn apis.Converter) error {
	if attr == "" {
		return ErrEmptyAttr
	}
	if fn == nil {
		return ErrNilConverter
	}
	return r.edit(owner, func(rs *ruleSet) error {
		if _, ok := rs.desAttr[attr]; !ok {
			r.count++
		}
		rs.desAttr[attr] = fn
		return nil
	})
}

// OnSerializeType appends a type-matched serialize rule for owner.
func (r *registry) OnSerializeType(owner reflect.Type, match reflect.Type, fn apis.Converter) error {
	if match == nil {
		return ErrNilType
	}
	if fn == nil {
		return ErrNilConverter
	}
	return r.edit(owner, func(rs *ruleSet) error {
		rs.serTyped = append(rs.serTyped, apis.TypedRule{Match: match, Fn: fn})
		r.count++
		return nil
	})
}

// OnDeserializeType appends a type-matched deserialize rule for owner.
func (r *registry) OnDeserializeType(owner reflect.Type, match reflect.Type, fn apis.Converter) error {
	if match == nil {
		return ErrNilType
	}
	if fn == nil {
		return ErrNilConverter
	}
	return r.edit(owner, func(rs *ruleSet) error {
		rs.desTyped = append(rs.desTyped, apis.TypedRule{Match: match, Fn: fn})
		r.count++
		return nil
	})
}

// Exclude adds attribute names to owner's exclusion set.
func (r *registry) Exclude(owner reflect.Type, names ...string) error {
	for _, n := range names {
		if n == "" {
			return ErrEmptyAttr
		}
	}
	return r.edit(owner, func(rs *ruleSet) error {
		for _, n := range names {
			rs.excluded[n] = struct{}{}
		}
		return nil
	})
}

// Inherit links child to parent so lookups on child fall back to parent.
// A child has at most one link; re-linking replaces it.
func (r *registry) Inherit(child, parent reflect.Type) error {
	np, err := normalizeOwner(parent)
	if err != nil {
		return err
	}
	return r.edit(child, func(rs *ruleSet) error {
		nc, _ := normalizeOwner(child)
		if nc == np {
			return ErrSelfLink
		}
		rs.parent = np
		return nil
	})
}

// lookup returns owner's ruleSet without creating one.
func (r *registry) lookup(t reflect.Type) *ruleSet {
	if v, ok := r.types.Load(t); ok {
		return v.(*ruleSet)
	}
	return nil
}

// Resolve converts v for attribute attr of owner in the given direction:
// exact-attribute rules first (owner, then along Inherit links), then
// type-matched rules in registration order (owner, then links). When no rule
// matches, v is returned unchanged with handled=false so the caller may fall
// through to built-in converters. Converter failures propagate unchanged.
func (r *registry) Resolve(owner reflect.Type, attr string, v any, dir apis.Direction) (any, bool, error) {
	nt, err := normalizeOwner(owner)
	if err != nil {
		return v, false, nil
	}

	// Exact-attribute rules take precedence over every type-matched rule,
	// including inherited exact rules over own type-matched rules.
	for t, i := nt, 0; t != nil && i < maxLineage; i++ {
		rs := r.lookup(t)
		if rs == nil {
			break
		}
		if fn, ok := rs.attrRules(dir)[attr]; ok {
			out, err := fn(v)
			return out, true, err
		}
		t = rs.parent
	}

	for t, i := nt, 0; t != nil && i < maxLineage; i++ {
		rs := r.lookup(t)
		if rs == nil {
			break
		}
		for _, tr := range rs.typedRules(dir) {
			if matches(tr.Match, v) {
				out, err := tr.Fn(v)
				return out, true, err
			}
		}
		t = rs.parent
	}

	return v, false, nil
}

// Excluded returns owner's effective exclusion set: the union of its own and
// all linked ancestors' declarations. The returned map is a copy.
func (r *registry) Excluded(owner reflect.Type) map[string]struct{} {
	out := make(map[string]struct{})
	nt, err := normalizeOwner(owner)
	if err != nil {
		return out
	}
	for t, i := nt, 0; t != nil && i < maxLineage; i++ {
		rs := r.lookup(t)
		if rs == nil {
			break
		}
		for n := range rs.excluded {
			out[n] = struct{}{}
		}
		t = rs.parent
	}
	return out
}

func (rs *ruleSet) attrRules(dir apis.Direction) map[string]apis.Converter {
	if dir == apis.SerializeDir {
		return rs.serAttr
	}
	return rs.desAttr
}

func (rs *ruleSet) typedRules(dir apis.Direction) []apis.TypedRule {
	if dir == apis.SerializeDir {
		return rs.serTyped
	}
	return rs.desTyped
}

// matches implements the isinstance-style check: exact runtime type,
// interface satisfaction, or assignability.
func matches(match reflect.Type, v any) bool {
	vt := reflect.TypeOf(v)
	if vt == nil || match == nil {
		return false
	}
	if match.Kind() == reflect.Interface {
		return vt.Implements(match)
	}
	return vt == match || vt.AssignableTo(match)
}

// Entries returns a rule snapshot: per owner, exact-attribute rules in
// sorted attribute order, then type-matched rules in registration order.
func (r *registry) Entries() []apis.RuleEntry {
	var entries []apis.RuleEntry
	r.types.Range(func(key, value any) bool {
		owner := key.(reflect.Type)
		rs := value.(*ruleSet)
		for _, dir := range []apis.Direction{apis.SerializeDir, apis.DeserializeDir} {
			attrs := rs.attrRules(dir)
			names := make([]string, 0, len(attrs))
			for n := range attrs {
				names = append(names, n)
			}
			sort.Strings(names)
			for _, n := range names {
				entries = append(entries, apis.RuleEntry{Owner: owner, Attr: n, Dir: dir, Fn: attrs[n]})
			}
			for _, tr := range rs.typedRules(dir) {
				entries = append(entries, apis.RuleEntry{Owner: owner, Match: tr.Match, Dir: dir, Fn: tr.Fn})
			}
		}
		return true
	})
	return entries
}

// Exclusions returns a snapshot of per-type exclusion sets.
func (r *registry) Exclusions() []apis.ExclusionEntry {
	var out []apis.ExclusionEntry
	r.types.Range(func(key, value any) bool {
		rs := value.(*ruleSet)
		if len(rs.excluded) == 0 {
			return true
		}
		names := make([]string, 0, len(rs.excluded))
		for n := range rs.excluded {
			names = append(names, n)
		}
		sort.Strings(names)
		out = append(out, apis.ExclusionEntry{Owner: key.(reflect.Type), Names: names})
		return true
	})
	return out
}

// Links returns a snapshot of inheritance links.
func (r *registry) Links() []apis.LinkEntry {
	var out []apis.LinkEntry
	r.types.Range(func(key, value any) bool {
		rs := value.(*ruleSet)
		if rs.parent != nil {
			out = append(out, apis.LinkEntry{Child: key.(reflect.Type), Parent: rs.parent})
		}
		return true
	})
	return out
}

// Count returns the number of registered rules.
func (r *registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Reset clears all rules, exclusions and links.
func (r *registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types = sync.Map{}
	r.count = 0
}

// Ensure the interface is satisfied.
var _ apis.Registry = (*registry)(nil)

// String aids debugging in tests.
func (r *registry) String() string {
	return fmt.Sprintf("registry(%d rules)", r.Count())
}
