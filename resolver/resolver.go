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

package resolver

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/DamonGeorge/parameterized/apis"
)

var (
	// ErrNotFamily indicates that a type used for resolution never declared
	// a discriminator enumeration type. Raised at resolution time, not at
	// declaration time; a programming/setup defect, not retryable.
	ErrNotFamily = errors.New("parameterized(resolver): type is not a declared family root")
	// ErrUnknownVariant indicates a discriminator tag matching no eligible
	// concrete member. Never silently defaulted.
	ErrUnknownVariant = errors.New("parameterized(resolver): no member matches the discriminator tag")
	// ErrBadTag indicates a tag that is neither a discriminator value nor a
	// symbolic name string.
	ErrBadTag = errors.New("parameterized(resolver): tag must be a discriminator value or its symbolic name")
)

// New constructs an apis.Resolver over the given catalog. The returned
// resolver is a read-only consumer of the catalog and is safe for concurrent
// use provided the catalog's registrations completed beforehand.
func New(cat apis.Catalog) apis.Resolver {
	return &resolver{cat: cat}
}

// resolver answers discriminator-tag lookups against a catalog.
type resolver struct {
	cat apis.Catalog
}

// Ensure resolver implements apis.Resolver.
var _ apis.Resolver = (*resolver)(nil)

// Resolve normalizes tag — accepting either the live discriminator value or
// its symbolic name — and returns the unique eligible member it selects.
func (r *resolver) Resolve(root reflect.Type, tag any) (apis.Member, error) {
	members, err := r.Members(root)
	if err != nil {
		return apis.Member{}, err
	}

	switch t := tag.(type) {
	case nil:
		return apis.Member{}, ErrBadTag
	case string:
		for _, m := range members {
			if m.Tag.EnumName() == t {
				return m, nil
			}
		}
		return apis.Member{}, fmt.Errorf("%w: %q in family %s", ErrUnknownVariant, t, root)
	case apis.Enum:
		for _, m := range members {
			if m.Tag == t {
				return m, nil
			}
		}
		return apis.Member{}, fmt.Errorf("%w: %s in family %s", ErrUnknownVariant, t.EnumName(), root)
	default:
		return apis.Member{}, fmt.Errorf("%w: got %T, want the family's enum value or a plain string name", ErrBadTag, tag)
	}
}

// Members enumerates root's eligible concrete members: explicitly registered,
// constructible, and not named in the family's excluded-member list.
func (r *resolver) Members(root reflect.Type) ([]apis.Member, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: nil type", ErrNotFamily)
	}
	if _, ok := r.cat.Family(root); !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFamily, root)
	}
	return r.cat.Members(root)
}

// Mapping returns a static discriminator-value -> concrete-type view of the
// family's eligible members.
func (r *resolver) Mapping(root reflect.Type) (map[apis.Enum]reflect.Type, error) {
	members, err := r.Members(root)
	if err != nil {
		return nil, err
	}
	out := make(map[apis.Enum]reflect.Type, len(members))
	for _, m := range members {
		out[m.Tag] = m.Type
	}
	return out, nil
}
