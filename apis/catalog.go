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

// Catalog is the process-wide family catalog: for each family root (an
// interface type) it records the declared discriminator enumeration type and
// the explicitly registered concrete members. Like Registry, it is written
// once at type-definition time and read thereafter.
type Catalog interface {
	// DeclareFamily declares root (an interface type) as a family root with
	// the given discriminator enumeration type. Idempotent for the same pair;
	// re-declaring with a different discriminator type is an error.
	DeclareFamily(root reflect.Type, disc reflect.Type) error
	// Register adds a concrete member to root's family under tag.
	// A second member claiming an already-claimed tag is a registration
	// error; resolution never tie-breaks between ambiguous members.
	Register(root reflect.Type, tag Enum, member reflect.Type, opts ...MemberOption) error
	// ExcludeMembers marks concrete type names of root's family as not
	// externally constructible (treated as if abstract by resolution).
	ExcludeMembers(root reflect.Type, names ...string) error

	// Family returns the declaration for root, if any.
	Family(root reflect.Type) (Family, bool)
	// Members returns root's eligible members in registration order,
	// with excluded names filtered out.
	Members(root reflect.Type) ([]Member, error)
	// TagOf reverse-looks-up the discriminator tag and family root of a
	// registered member type.
	TagOf(member reflect.Type) (tag Enum, root reflect.Type, ok bool)

	// Entries returns a snapshot of all families for diagnostics/migration.
	Entries() []Family
	// Count returns the number of declared families.
	Count() int
	// Reset clears all families and members.
	Reset()
}

// Family is a family declaration in a Catalog snapshot.
type Family struct {
	// Root is the family's abstract root (an interface type).
	Root reflect.Type
	// Discriminator is the declared discriminator enumeration type.
	Discriminator reflect.Type
	// Members are the registered members in registration order,
	// including ones matching ExcludedNames.
	Members []Member
	// ExcludedNames are concrete type names hidden from resolution.
	ExcludedNames []string
}

// Member is one concrete family member.
type Member struct {
	// Tag is the member's fixed discriminator value.
	Tag Enum
	// Type is the member's concrete struct type.
	Type reflect.Type
	// Factory optionally overrides default construction for this member.
	Factory FactoryFunc
}

// FactoryFunc builds a member instance from an already-deserialized mapping.
type FactoryFunc func(p *params.Params) (any, error)

// MemberOption customizes a member registration.
type MemberOption func(*Member)

// WithFactory registers an explicit construction function for a member,
// taking precedence over schema-driven construction.
func WithFactory(fn FactoryFunc) MemberOption {
	return func(m *Member) {
		m.Factory = fn
	}
}
