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

// Direction selects which rule set of a conversion registry applies.
type Direction int

const (
	// SerializeDir selects rules turning attribute values into representable values.
	SerializeDir Direction = iota
	// DeserializeDir selects rules turning representable values back into attribute values.
	DeserializeDir
)

// String returns the direction's name for diagnostics.
func (d Direction) String() string {
	if d == SerializeDir {
		return "serialize"
	}
	return "deserialize"
}

// Converter transforms one value representation into another, in one direction.
// Converters must be idempotent-safe: applying one to an already-converted
// value must not corrupt it. Errors propagate to the caller unchanged.
type Converter func(v any) (any, error)

// TypedRule pairs a type match with a converter. Type-matched rules are
// evaluated in registration order; the first match wins.
type TypedRule struct {
	// Match is the value type (or interface) the rule applies to.
	Match reflect.Type
	// Fn is the conversion applied to matching values.
	Fn Converter
}

// Enum is implemented by enumerated constants that carry a stable symbolic
// name. Discriminator values of polymorphic families must implement it.
type Enum interface {
	// EnumName returns the constant's symbolic name (e.g. "CIRCLE").
	EnumName() string
}

// Excluder is implemented by entities that declare attribute names invisible
// to both projection directions. The effective exclusion set of an instance
// is the union of its declaration and any registry-level exclusions.
type Excluder interface {
	// ExcludedParams returns the attribute names to hide.
	ExcludedParams() []string
}
