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
	"fmt"

	"gopkg.in/yaml.v3"
)

var (
	_ yaml.Marshaler   = (*Params)(nil)
	_ yaml.Unmarshaler = (*Params)(nil)
)

// MarshalYAML emits a mapping node with keys in insertion order.
func (p *Params) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range p.keys {
		key := &yaml.Node{}
		key.SetString(k)
		val := &yaml.Node{}
		if err := val.Encode(p.values[k]); err != nil {
			return nil, fmt.Errorf("params: key %q: %w", k, err)
		}
		node.Content = append(node.Content, key, val)
	}
	return node, nil
}

// UnmarshalYAML decodes a mapping node preserving key order.
// Nested mappings decode as *Params, sequences as []any.
func (p *Params) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("params: YAML node is %v, want a mapping", value.Kind)
	}
	out, err := decodeYAMLMapping(value)
	if err != nil {
		return err
	}
	*p = *out
	return nil
}

func decodeYAMLMapping(node *yaml.Node) (*Params, error) {
	out := New()
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		v, err := decodeYAMLValue(node.Content[i+1])
		if err != nil {
			return nil, fmt.Errorf("params: key %q: %w", key, err)
		}
		out.Set(key, v)
	}
	return out, nil
}

func decodeYAMLValue(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.MappingNode:
		return decodeYAMLMapping(node)
	case yaml.SequenceNode:
		seq := make([]any, 0, len(node.Content))
		for _, n := range node.Content {
			v, err := decodeYAMLValue(n)
			if err != nil {
				return nil, err
			}
			seq = append(seq, v)
		}
		return seq, nil
	case yaml.AliasNode:
		return decodeYAMLValue(node.Alias)
	default:
		var v any
		if err := node.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	}
}
