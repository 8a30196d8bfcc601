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

	"github.com/DamonGeorge/parameterized/apis"
)

// NewTextStrategy creates an apis.Strategy that serializes text-marshalable
// values (filesystem-path-like types, net addresses, timestamps) to their
// string form.
func NewTextStrategy() apis.Strategy {
	return textStrategy{}
}

type textStrategy struct{}

// Ensure textStrategy implements apis.Strategy.
var _ apis.Strategy = textStrategy{}

// TryConvert emits the text form of an encoding.TextMarshaler.
// A marshal failure aborts the projection.
func (textStrategy) TryConvert(v any, _ apis.Config) (any, bool, error) {
	m, ok := v.(encoding.TextMarshaler)
	if !ok {
		return nil, false, nil
	}
	b, err := m.MarshalText()
	if err != nil {
		return nil, false, err
	}
	return string(b), true, nil
}
