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

package parameterized

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/DamonGeorge/parameterized/apis"
	"github.com/DamonGeorge/parameterized/params"
)

// RuleTable declares an owner's conversion rules and exclusions as one
// static value, for registration in a single call.
type RuleTable struct {
	// SerializeAttrs maps attribute names to serialize converters.
	SerializeAttrs map[string]apis.Converter
	// DeserializeAttrs maps attribute names to deserialize converters.
	DeserializeAttrs map[string]apis.Converter
	// SerializeTypes holds type-matched serialize rules, in priority order.
	SerializeTypes []apis.TypedRule
	// DeserializeTypes holds type-matched deserialize rules, in priority order.
	DeserializeTypes []apis.TypedRule
	// Excluded lists attribute names hidden from projection.
	Excluded []string
}

// RegisterRules registers every rule of table on the global registry for
// owner. Attribute rules are applied in name order; registration stops at
// the first error.
func RegisterRules(owner reflect.Type, table RuleTable) error {
	for _, attr := range sortedKeys(table.SerializeAttrs) {
		if err := OnSerialize(owner, attr, table.SerializeAttrs[attr]); err != nil {
			return err
		}
	}
	for _, attr := range sortedKeys(table.DeserializeAttrs) {
		if err := OnDeserialize(owner, attr, table.DeserializeAttrs[attr]); err != nil {
			return err
		}
	}
	for _, r := range table.SerializeTypes {
		if err := OnSerializeType(owner, r.Match, r.Fn); err != nil {
			return err
		}
	}
	for _, r := range table.DeserializeTypes {
		if err := OnDeserializeType(owner, r.Match, r.Fn); err != nil {
			return err
		}
	}
	if len(table.Excluded) > 0 {
		return Exclude(owner, table.Excluded...)
	}
	return nil
}

func sortedKeys(m map[string]apis.Converter) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// EnumConverter returns a deserialize converter resolving symbolic names to
// enumerated constants of E via byName. Values that are already E pass
// through unchanged, so the converter is idempotent.
func EnumConverter[E apis.Enum](byName map[string]E) apis.Converter {
	return func(v any) (any, error) {
		switch t := v.(type) {
		case E:
			return t, nil
		case string:
			e, ok := byName[t]
			if !ok {
				return nil, fmt.Errorf("parameterized: unknown %s name %q",
					TypeOf[E]().Name(), t)
			}
			return e, nil
		default:
			return nil, fmt.Errorf("parameterized: cannot convert %T to %s",
				v, TypeOf[E]().Name())
		}
	}
}

// EntityConverter returns a deserialize converter rebuilding a nested entity
// of type T from its serialized mapping. T may be a struct type or a family
// root interface. Values already satisfying T (or *T for structs) pass
// through unchanged.
func EntityConverter[T any]() apis.Converter {
	t := TypeOf[T]()
	return func(v any) (any, error) {
		if v == nil {
			return nil, nil
		}
		vt := reflect.TypeOf(v)
		if vt == reflect.PointerTo(t) || vt == t {
			return v, nil
		}
		if t.Kind() == reflect.Interface && vt.Implements(t) {
			return v, nil
		}
		switch m := v.(type) {
		case *params.Params:
			return Build(t, m)
		case map[string]any:
			return Build(t, params.FromMap(m))
		default:
			return nil, fmt.Errorf("parameterized: cannot build %s from %T",
				t.Name(), v)
		}
	}
}

// Float64SliceConverter returns a converter coercing any numeric slice or
// array (including the []any form produced by codecs) into []float64.
func Float64SliceConverter() apis.Converter {
	return func(v any) (any, error) {
		if v == nil {
			return nil, nil
		}
		if out, ok := v.([]float64); ok {
			return out, nil
		}
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return nil, fmt.Errorf("parameterized: cannot convert %T to []float64", v)
		}
		out := make([]float64, rv.Len())
		f64 := reflect.TypeOf(float64(0))
		for i := 0; i < rv.Len(); i++ {
			ev := rv.Index(i)
			if ev.Kind() == reflect.Interface {
				ev = ev.Elem()
			}
			if !ev.IsValid() || !ev.Type().ConvertibleTo(f64) {
				return nil, fmt.Errorf("parameterized: element %d of %T is not numeric", i, v)
			}
			out[i] = ev.Convert(f64).Float()
		}
		return out, nil
	}
}

// TextConverter returns a deserialize converter coercing plain strings into
// the string-kinded type T. Values already of type T pass through unchanged.
func TextConverter[T ~string]() apis.Converter {
	return func(v any) (any, error) {
		switch t := v.(type) {
		case T:
			return t, nil
		case string:
			return T(t), nil
		default:
			return nil, fmt.Errorf("parameterized: cannot convert %T to %s",
				v, TypeOf[T]().Name())
		}
	}
}
