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

package json_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DamonGeorge/parameterized/encoders/json"
	"github.com/DamonGeorge/parameterized/params"
)

func TestEncode_CompactAndIndented(t *testing.T) {
	p := params.New().Set("i", 5).Set("b", false).Set("s", "Hello")

	data, err := json.New().Encode(p)
	require.NoError(t, err)
	assert.Equal(t, `{"i":5,"b":false,"s":"Hello"}`, string(data))

	data, err = json.NewIndented("  ").Encode(p)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"i\": 5,\n  \"b\": false,\n  \"s\": \"Hello\"\n}", string(data))
}

func TestEncode_FallbackApplied(t *testing.T) {
	enc := json.New()
	enc.Fallback = func(v any) (any, bool, error) {
		if v == "raw" {
			return params.New().Set("wrapped", true), true, nil
		}
		return nil, false, nil
	}

	data, err := enc.Encode("raw")
	require.NoError(t, err)
	assert.Equal(t, `{"wrapped":true}`, string(data))

	// Unhandled values encode as-is.
	data, err = enc.Encode(42)
	require.NoError(t, err)
	assert.Equal(t, "42", string(data))
}

func TestEncode_FallbackErrorAborts(t *testing.T) {
	broken := errors.New("conversion failed")
	enc := json.New()
	enc.Fallback = func(v any) (any, bool, error) {
		return nil, false, broken
	}

	data, err := enc.Encode("raw")
	assert.Nil(t, data)
	assert.ErrorIs(t, err, broken)
}

func TestDecode_RoundTrip(t *testing.T) {
	src := params.New().Set("a", 1).Set("z", params.New().Set("k", "v"))
	data, err := json.New().Encode(src)
	require.NoError(t, err)

	var got params.Params
	require.NoError(t, json.New().Decode(data, &got))
	assert.Equal(t, []string{"a", "z"}, got.Keys())
}
