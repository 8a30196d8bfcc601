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

package strategy

import (
	"encoding"
	"reflect"

	"github.com/DamonGeorge/parameterized/apis"
	"github.com/DamonGeorge/parameterized/params"
)

// NewEntityStrategy creates an apis.Strategy that serializes nested entities
// (structs and non-nil pointers to structs) into their own mappings via fn.
// Value-like structs — already-serialized mappings, enumerated constants and
// text-marshalable types such as time.Time — are left for later strategies.
func NewEntityStrategy(fn apis.SerializeFunc) apis.Strategy {
	return &entityStrategy{fn: fn}
}

// entityStrategy recurses into nested entities. The recursion hook carries
// the caller's depth and cycle bookkeeping.
type entityStrategy struct {
	fn apis.SerializeFunc
}

// Ensure entityStrategy implements apis.Strategy.
var _ apis.Strategy = (*entityStrategy)(nil)

// TryConvert serializes v when it is a nested entity.
func (s *entityStrategy) TryConvert(v any, _ apis.Config) (any, bool, error) {
	if v == nil || s.fn == nil {
		return nil, false, nil
	}
	if !isEntity(v) {
		return nil, false, nil
	}
	out, err := s.fn(v)
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

// isEntity reports whether v is a struct or non-nil pointer to struct that
// should be projected recursively rather than treated as a scalar-like value.
func isEntity(v any) bool {
	switch v.(type) {
	case *params.Params, params.Params:
		return false // already a mapping
	case apis.Enum:
		return false // enumerated constant, handled by the enum strategy
	case encoding.TextMarshaler:
		return false // textual value, handled by the text strategy
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}
	return rv.Kind() == reflect.Struct
}
