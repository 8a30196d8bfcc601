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
	"reflect"

	"github.com/DamonGeorge/parameterized/apis"
)

// NewNumericStrategy creates an apis.Strategy that flattens homogeneous
// numeric slices and arrays into ordered sequences of scalars.
func NewNumericStrategy() apis.Strategy {
	return numericStrategy{}
}

type numericStrategy struct{}

// Ensure numericStrategy implements apis.Strategy.
var _ apis.Strategy = numericStrategy{}

// TryConvert converts v when it is a slice or array of a numeric kind.
func (numericStrategy) TryConvert(v any, _ apis.Config) (any, bool, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
	default:
		return nil, false, nil
	}
	if !isNumericKind(rv.Type().Elem().Kind()) {
		return nil, false, nil
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true, nil
}

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
