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

package params

import (
	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

var (
	_ msgpack.CustomEncoder = (*Params)(nil)
	_ msgpack.CustomDecoder = (*Params)(nil)
)

// EncodeMsgpack writes entries as a msgpack map in insertion order.
func (p *Params) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeMapLen(p.Len()); err != nil {
		return err
	}
	for _, k := range p.keys {
		if err := enc.EncodeString(k); err != nil {
			return err
		}
		if err := enc.Encode(p.values[k]); err != nil {
			return err
		}
	}
	return nil
}

// DecodeMsgpack reads a msgpack map preserving key order.
// Nested maps decode as *Params, arrays as []any.
func (p *Params) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeMapLen()
	if err != nil {
		return err
	}
	out := New()
	for i := 0; i < n; i++ {
		k, err := dec.DecodeString()
		if err != nil {
			return err
		}
		v, err := decodeMsgpackValue(dec)
		if err != nil {
			return err
		}
		out.Set(k, v)
	}
	*p = *out
	return nil
}

// decodeMsgpackValue reads one value, recursing into maps and arrays so
// nested mappings stay ordered.
func decodeMsgpackValue(dec *msgpack.Decoder) (any, error) {
	code, err := dec.PeekCode()
	if err != nil {
		return nil, err
	}
	switch {
	case msgpcode.IsFixedMap(code) || code == msgpcode.Map16 || code == msgpcode.Map32:
		nested := New()
		if err := nested.DecodeMsgpack(dec); err != nil {
			return nil, err
		}
		return nested, nil
	case msgpcode.IsFixedArray(code) || code == msgpcode.Array16 || code == msgpcode.Array32:
		n, err := dec.DecodeArrayLen()
		if err != nil {
			return nil, err
		}
		seq := make([]any, 0, n)
		for i := 0; i < n; i++ {
			v, err := decodeMsgpackValue(dec)
			if err != nil {
				return nil, err
			}
			seq = append(seq, v)
		}
		return seq, nil
	default:
		return dec.DecodeInterfaceLoose()
	}
}
