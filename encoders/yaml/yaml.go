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

// Package yaml provides the YAML codec over serialized mappings. Mappings
// keep their key order through a round trip.
package yaml

import (
	"gopkg.in/yaml.v3"

	"github.com/DamonGeorge/parameterized/apis"
)

// Encoder implements apis.Codec using YAML.
type Encoder struct {
	// Fallback converts values the codec cannot natively represent.
	Fallback apis.FallbackFunc
}

var _ apis.Codec = &Encoder{}

// Encode serializes v to YAML bytes, applying the fallback hook first.
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
	return yaml.Marshal(v)
}

// Decode deserializes YAML bytes into v.
func (d *Encoder) Decode(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}

// New creates a new YAML encoder.
func New() *Encoder {
	return &Encoder{}
}
