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

package apis

import "reflect"

// Registry holds per-type conversion rules for both directions.
// Registrations are process-wide state populated once at type-definition
// time; all registrations for a type must complete before the type is used
// for projection from any goroutine.
type Registry interface {
	// OnSerialize associates an exact-attribute serialize rule with owner's
	// attribute attr. Exact rules take precedence over type-matched rules.
	OnSerialize(owner reflect.Type, attr string, fn Converter) error
	// OnDeserialize associates an exact-attribute deserialize rule.
	OnDeserialize(owner reflect.Type, attr string, fn Converter) error
	// OnSerializeType appends a type-matched serialize rule for owner.
	// Type rules are tried in registration order; the first match wins.
	OnSerializeType(owner reflect.Type, match reflect.Type, fn Converter) error
	// OnDeserializeType appends a type-matched deserialize rule for owner.
	OnDeserializeType(owner reflect.Type, match reflect.Type, fn Converter) error
	// Exclude adds attribute names to owner's exclusion set.
	Exclude(owner reflect.Type, names ...string) error
	// Inherit links child to parent so that rule and exclusion lookups on
	// child fall back to parent when child has no own entry.
	Inherit(child, parent reflect.Type) error

	// Resolve converts v for attribute attr of owner in the given direction.
	// handled reports whether any rule applied; when false, out equals v and
	// the caller may fall through to built-in converters.
	Resolve(owner reflect.Type, attr string, v any, dir Direction) (out any, handled bool, err error)
	// Excluded returns owner's effective exclusion set, following Inherit links.
	Excluded(owner reflect.Type) map[string]struct{}

	// Entries returns a rule snapshot for diagnostics and migration
	// (attribute rules first, then type rules in registration order).
	Entries() []RuleEntry
	// Exclusions returns a snapshot of per-type exclusion sets.
	Exclusions() []ExclusionEntry
	// Links returns a snapshot of inheritance links.
	Links() []LinkEntry
	// Count returns the number of registered rules.
	Count() int
	// Reset clears all rules, exclusions and links.
	Reset()
}

// RuleEntry is a single conversion rule in a Registry snapshot.
type RuleEntry struct {
	// Owner is the entity type the rule is scoped to.
	Owner reflect.Type
	// Attr is the attribute name for exact rules; empty for type rules.
	Attr string
	// Match is the matched value type for type rules; nil for exact rules.
	Match reflect.Type
	// Dir is the rule's direction.
	Dir Direction
	// Fn is the registered converter.
	Fn Converter
}

// ExclusionEntry is a per-type exclusion set in a Registry snapshot.
type ExclusionEntry struct {
	// Owner is the entity type the exclusions are scoped to.
	Owner reflect.Type
	// Names are the excluded attribute names.
	Names []string
}

// LinkEntry is a single inheritance link in a Registry snapshot.
type LinkEntry struct {
	// Child falls back to Parent for rule and exclusion lookups.
	Child, Parent reflect.Type
}
