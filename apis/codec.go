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

// Codec encodes serialized mappings (or values reducible to them) to bytes
// and back. Implementations include JSON, MessagePack and YAML codecs.
type Codec interface {
	// Encode serializes v into bytes.
	Encode(v any) ([]byte, error)

	// Decode deserializes data into v.
	Decode(data []byte, v any) error
}

// FallbackFunc converts a value a codec cannot natively represent (a nested
// entity, an enumerated constant, a numeric array, a textual value) into a
// representable one. It returns (out, true, nil) if it converted v, and a
// non-nil error when a conversion was attempted but failed; codecs must abort
// on that error rather than encode the raw value.
type FallbackFunc func(v any) (out any, ok bool, err error)
