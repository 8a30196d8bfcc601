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

// Package schema derives the static attribute schema of an entity type from
// its struct declaration. The declaration is the field list: projection
// iterates this schema instead of introspecting live object state.
//
// Field names and binding behavior are controlled by the `param` struct tag:
//
//	Radius float64 `param:"radius"`            // mapping key "radius"
//	ID     string  `param:"id,required"`       // construction fails if absent
//	Extras map[string]any `param:",extra"`     // open-ended keyword capture
//	Cache  *lru.Cache     `param:"-"`          // never projected
//
// Untagged exported fields use their Go name. Unexported fields are ignored.
// Schemas are computed once per type and memoized.
package schema

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
)

var (
	// ErrNilType is returned when a nil reflect.Type is provided.
	ErrNilType = errors.New("schema: nil reflect.Type provided")
	// ErrNotStruct indicates that the provided type (after unwrapping
	// pointers) is not a struct and therefore has no attribute schema.
	ErrNotStruct = errors.New("schema: type is not a struct")
	// ErrBadExtra indicates a `param:",extra"` field that is not a
	// map[string]any.
	ErrBadExtra = errors.New("schema: extra-capture field must be a map[string]any")
	// ErrDuplicateName indicates two fields mapping to the same key.
	ErrDuplicateName = errors.New("schema: duplicate attribute name")
)

// maxUnwrap bounds pointer unwrapping during normalization.
const maxUnwrap = 4

// Field is one attribute of an entity schema.
type Field struct {
	// Name is the mapping key.
	Name string
	// Index locates the field for reflect.Value.FieldByIndex.
	Index []int
	// Type is the field's declared Go type.
	Type reflect.Type
	// Required marks a construction-time required parameter.
	Required bool
	// Extra marks the open-ended keyword capture map.
	Extra bool
}

// Schema is the static attribute list of one struct type,
// in declaration order.
type Schema struct {
	// Type is the normalized struct type.
	Type reflect.Type
	// Fields are the projectable attributes in declaration order,
	// excluding the extra-capture field.
	Fields []Field

	byName map[string]int
	extra  *Field
}

// Field returns the schema field mapped to name.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Field{}, false
	}
	return s.Fields[i], true
}

// Extra returns the open-ended capture field, if declared.
func (s *Schema) Extra() (Field, bool) {
	if s.extra == nil {
		return Field{}, false
	}
	return *s.extra, true
}

// Names returns the attribute names in declaration order.
func (s *Schema) Names() []string {
	out := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		out[i] = f.Name
	}
	return out
}

// Normalize unwraps pointers and returns the underlying struct type.
func Normalize(t reflect.Type) (reflect.Type, error) {
	if t == nil {
		return nil, ErrNilType
	}
	for i := 0; t.Kind() == reflect.Pointer && i < maxUnwrap; i++ {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s", ErrNotStruct, t)
	}
	return t, nil
}

// cache memoizes schemas by normalized struct type.
var cache sync.Map // map[reflect.Type]*Schema

// Of returns the memoized schema of t (a struct or pointer-to-struct type).
func Of(t reflect.Type) (*Schema, error) {
	nt, err := Normalize(t)
	if err != nil {
		return nil, err
	}
	if s, ok := cache.Load(nt); ok {
		return s.(*Schema), nil
	}
	s, err := build(nt)
	if err != nil {
		return nil, err
	}
	// First build wins; concurrent builds produce identical schemas.
	actual, _ := cache.LoadOrStore(nt, s)
	return actual.(*Schema), nil
}

// build walks the visible exported fields of t in declaration order.
func build(t reflect.Type) (*Schema, error) {
	s := &Schema{Type: t, byName: make(map[string]int)}
	for _, f := range reflect.VisibleFields(t) {
		if f.Anonymous || f.PkgPath != "" {
			continue // embedded container itself, or unexported
		}
		name, opts := parseTag(f.Tag.Get("param"))
		if name == "-" || hasOpt(opts, "omit") {
			continue
		}
		if name == "" {
			name = f.Name
		}
		if hasOpt(opts, "extra") {
			if f.Type.Kind() != reflect.Map ||
				f.Type.Key().Kind() != reflect.String ||
				f.Type.Elem().Kind() != reflect.Interface {
				return nil, fmt.Errorf("%w: %s.%s", ErrBadExtra, t, f.Name)
			}
			extra := Field{Name: name, Index: f.Index, Type: f.Type, Extra: true}
			s.extra = &extra
			continue
		}
		if _, dup := s.byName[name]; dup {
			return nil, fmt.Errorf("%w: %q on %s", ErrDuplicateName, name, t)
		}
		s.byName[name] = len(s.Fields)
		s.Fields = append(s.Fields, Field{
			Name:     name,
			Index:    f.Index,
			Type:     f.Type,
			Required: hasOpt(opts, "required"),
		})
	}
	return s, nil
}

// FieldByIndex returns the field of v at the given promotion path,
// allocating any nil embedded pointers along the way. v must be an
// addressable struct value; use this on write paths where
// reflect.Value.FieldByIndex would panic on a nil embedded pointer.
// A nil embedded pointer of unexported type cannot be allocated by
// reflect; the zero Value is returned in that case.
func FieldByIndex(v reflect.Value, index []int) reflect.Value {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				if !v.CanSet() {
					return reflect.Value{}
				}
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v
}

// parseTag splits a `param` tag into its name and option list.
func parseTag(tag string) (string, []string) {
	if tag == "" {
		return "", nil
	}
	parts := strings.Split(tag, ",")
	return parts[0], parts[1:]
}

func hasOpt(opts []string, want string) bool {
	for _, o := range opts {
		if o == want {
			return true
		}
	}
	return false
}
