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

// Package json provides the JSON codec over serialized mappings. It is the
// text rendering boundary: with an indent set, output is the deterministic,
// human-readable form of an entity's mapping.
package json

import (
	"encoding/json"

	"github.com/DamonGeorge/parameterized/apis"
)

// Encoder implements apis.Codec using encoding/json. Mappings marshal with
// their keys in insertion order, so rendering is deterministic.
type Encoder struct {
	// Indent, when non-empty, selects indented output.
	Indent string
	// Fallback converts values the codec cannot natively represent
	// (entities, enumerated constants, numeric arrays, textual values).
	Fallback apis.FallbackFunc
}

var _ apis.Codec = &Encoder{}

// Encode serializes v to JSON bytes, applying the fallback hook first.
func (e *Encoder) Encode(v any) ([]byte, error) {
	if e.Fallback != nil {
		out, ok, err := e.Fallback(v)
		if err != nil {
			return nil, err
		}
		if ok {
			v = out
		}
	}
	if e.Indent != "" {
		return json.MarshalIndent(v, "", e.Indent)
	}
	return json.Marshal(v)
}

// Decode deserializes JSON bytes into v.
func (d *Encoder) Decode(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// New creates a new compact JSON encoder.
func New() *Encoder {
	return &Encoder{}
}

// NewIndented creates a JSON encoder producing indented text.
func NewIndented(indent string) *Encoder {
	return &Encoder{Indent: indent}
}
