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

// Package catalog implements the process-wide family catalog. Each concrete
// family member registers itself and its discriminator value explicitly
// (typically from an init function or a bootstrap call); nothing walks a type
// hierarchy at runtime.
package catalog

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/DamonGeorge/parameterized/apis"
)

var (
	// ErrNilType is returned when a nil reflect.Type is provided.
	ErrNilType = errors.New("parameterized(catalog): nil reflect.Type provided")
	// ErrNotInterface is returned when a family root is not an interface type.
	ErrNotInterface = errors.New("parameterized(catalog): family root must be an interface type")
	// ErrConflictingFamily indicates an attempt to re-declare a family
	// with a different discriminator type.
	ErrConflictingFamily = errors.New("parameterized(catalog): conflicting family declaration")
	// ErrUnknownFamily indicates an operation on an undeclared family root.
	ErrUnknownFamily = errors.New("parameterized(catalog): family root not declared")
	// ErrNilTag is returned when a nil discriminator tag is provided.
	ErrNilTag = errors.New("parameterized(catalog): nil discriminator tag provided")
	// ErrTagType indicates a tag whose type is not the family's declared
	// discriminator enumeration type.
	ErrTagType = errors.New("parameterized(catalog): tag is not of the family's discriminator type")
	// ErrNotStructMember is returned when a member is not a struct type.
	ErrNotStructMember = errors.New("parameterized(catalog): member must be a struct type")
	// ErrNotMember indicates a member type that does not implement the
	// family root interface.
	ErrNotMember = errors.New("parameterized(catalog): member does not implement the family root")
	// ErrAmbiguousVariant indicates two concrete members claiming the same
	// discriminator value within one family. Detected at registration time;
	// resolution never tie-breaks.
	ErrAmbiguousVariant = errors.New("parameterized(catalog): discriminator value already claimed")
)

// maxUnwrap bounds pointer unwrapping of member types.
const maxUnwrap = 4

// New constructs an empty family Catalog.
func New(cfg apis.Config) apis.Catalog {
	return &catalog{cfg: cfg}
}

// catalog is an apis.Catalog backed by sync.Map.
// Writes are guarded by a mutex; reads rely on the registration-before-use
// discipline, like the conversion registry.
type catalog struct {
	// cfg is the configuration the catalog was built with.
	cfg apis.Config
	// mu guards write-side consistency and counter.
	mu sync.Mutex
	// families maps a root reflect.Type to its *family.
	families sync.Map
	// members maps a member reflect.Type to its memberRef for reverse lookup.
	members sync.Map
	// count tracks the number of declared families.
	count int
}

// family is one family's declaration and member list.
type family struct {
	root     reflect.Type
	disc     reflect.Type
	members  []apis.Member
	byTag    map[apis.Enum]int
	byName   map[string]int
	excluded map[string]struct{}
}

// memberRef is the reverse index entry for one member type.
type memberRef struct {
	root reflect.Type
	tag  apis.Enum
}

// DeclareFamily declares root as a family with the given discriminator type.
// It is idempotent for the same (root, disc) pair.
func (c *catalog) DeclareFamily(root reflect.Type, disc reflect.Type) error {
	if root == nil || disc == nil {
		return ErrNilType
	}
	if root.Kind() != reflect.Interface {
		return fmt.Errorf("%w: %s", ErrNotInterface, root)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.families.Load(root); ok {
		if v.(*family).disc == disc {
			return nil // idempotent re-declaration
		}
		return fmt.Errorf("%w: %s", ErrConflictingFamily, root)
	}

	c.families.Store(root, &family{
		root:     root,
		disc:     disc,
		byTag:    make(map[apis.Enum]int),
		byName:   make(map[string]int),
		excluded: make(map[string]struct{}),
	})
	c.count++
	return nil
}

// Register adds a concrete member to root's family under tag.
// Idempotent for an identical (tag, member) pair; a second member claiming
// the same tag — or the same member claiming a second tag — is an
// ErrAmbiguousVariant registration error.
func (c *catalog) Register(root reflect.Type, tag apis.Enum, member reflect.Type, opts ...apis.MemberOption) error {
	if tag == nil {
		return ErrNilTag
	}
	nm, err := normalizeMember(member)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.families.Load(root)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFamily, root)
	}
	fam := v.(*family)

	if reflect.TypeOf(tag) != fam.disc {
		return fmt.Errorf("%w: tag %s is %T, family %s declares %s",
			ErrTagType, tag.EnumName(), tag, root, fam.disc)
	}
	if !nm.Implements(root) && !reflect.PointerTo(nm).Implements(root) {
		return fmt.Errorf("%w: %s does not implement %s", ErrNotMember, nm, root)
	}

	if i, claimed := fam.byTag[tag]; claimed {
		if fam.members[i].Type == nm {
			return nil // idempotent re-registration
		}
		return fmt.Errorf("%w: %s already maps to %s", ErrAmbiguousVariant, tag.EnumName(), fam.members[i].Type)
	}
	if _, claimed := fam.byName[nm.Name()]; claimed {
		return fmt.Errorf("%w: %s already registered under another tag", ErrAmbiguousVariant, nm)
	}

	m := apis.Member{Tag: tag, Type: nm}
	for _, opt := range opts {
		opt(&m)
	}

	fam.byTag[tag] = len(fam.members)
	fam.byName[nm.Name()] = len(fam.members)
	fam.members = append(fam.members, m)
	c.members.Store(nm, memberRef{root: root, tag: tag})
	return nil
}

// ExcludeMembers hides concrete type names of root's family from resolution.
func (c *catalog) ExcludeMembers(root reflect.Type, names ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.families.Load(root)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFamily, root)
	}
	fam := v.(*family)
	for _, n := range names {
		fam.excluded[n] = struct{}{}
	}
	return nil
}

// Family returns the declaration for root, if any.
func (c *catalog) Family(root reflect.Type) (apis.Family, bool) {
	v, ok := c.families.Load(root)
	if !ok {
		return apis.Family{}, false
	}
	return v.(*family).snapshot(), true
}

// Members returns root's eligible members in registration order, with
// excluded names filtered out.
func (c *catalog) Members(root reflect.Type) ([]apis.Member, error) {
	v, ok := c.families.Load(root)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFamily, root)
	}
	fam := v.(*family)
	out := make([]apis.Member, 0, len(fam.members))
	for _, m := range fam.members {
		if _, hidden := fam.excluded[m.Type.Name()]; hidden {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// TagOf reverse-looks-up the discriminator tag and family root of member.
func (c *catalog) TagOf(member reflect.Type) (apis.Enum, reflect.Type, bool) {
	nm, err := normalizeMember(member)
	if err != nil {
		return nil, nil, false
	}
	if v, ok := c.members.Load(nm); ok {
		ref := v.(memberRef)
		return ref.tag, ref.root, true
	}
	return nil, nil, false
}

// Entries returns a snapshot of all families (order is unspecified).
func (c *catalog) Entries() []apis.Family {
	var out []apis.Family
	c.families.Range(func(_, value any) bool {
		out = append(out, value.(*family).snapshot())
		return true
	})
	return out
}

// Count returns the number of declared families.
func (c *catalog) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// Reset clears all families and members.
func (c *catalog) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.families = sync.Map{}
	c.members = sync.Map{}
	c.count = 0
}

// snapshot copies the family for external consumption.
func (fam *family) snapshot() apis.Family {
	out := apis.Family{
		Root:          fam.root,
		Discriminator: fam.disc,
		Members:       make([]apis.Member, len(fam.members)),
	}
	copy(out.Members, fam.members)
	for n := range fam.excluded {
		out.ExcludedNames = append(out.ExcludedNames, n)
	}
	sort.Strings(out.ExcludedNames)
	return out
}

// normalizeMember unwraps pointers and requires a struct type, the Go analog
// of "non-abstract, fully constructible".
func normalizeMember(t reflect.Type) (reflect.Type, error) {
	if t == nil {
		return nil, ErrNilType
	}
	for i := 0; t.Kind() == reflect.Pointer && i < maxUnwrap; i++ {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s", ErrNotStructMember, t)
	}
	return t, nil
}

// Ensure the interface is satisfied.
var _ apis.Catalog = (*catalog)(nil)
