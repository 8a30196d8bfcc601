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

import (
	"reflect"

	"github.com/DamonGeorge/parameterized/params"
)

// Projector moves attribute values between entities and mappings, consulting
// the Registry for each attribute. It never mutates the registry, the
// catalog, or any exclusion set.
type Projector interface {
	// Serialize projects entity's non-excluded attributes into a mapping,
	// applying registry rules first and built-in converters as a fallback.
	// Family members get their discriminator tag appended under the
	// configured TypeKey.
	Serialize(entity any) (*params.Params, error)

	// Convert is the mapping-mode deserialize: every non-excluded key of p is
	// converted via owner's deserialize rules; unmatched keys pass through
	// unchanged. p itself is not mutated.
	Convert(owner reflect.Type, p *params.Params) (*params.Params, error)

	// Update is the in-place deserialize: only keys both present in p and
	// already declared as attributes of target are assigned, so unknown keys
	// never create attributes. When convert is true each accepted value runs
	// through deserialize rules first, exactly as in Convert.
	Update(target any, p *params.Params, convert bool) error
}

// SerializeFunc is the recursion hook handed to the nested-entity built-in
// converter; it serializes one nested entity.
type SerializeFunc func(entity any) (*params.Params, error)
