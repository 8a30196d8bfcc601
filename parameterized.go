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

package parameterized

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/DamonGeorge/parameterized/apis"
	"github.com/DamonGeorge/parameterized/builder"
	"github.com/DamonGeorge/parameterized/config"
	"github.com/DamonGeorge/parameterized/encoders/json"
	"github.com/DamonGeorge/parameterized/factory"
	"github.com/DamonGeorge/parameterized/params"
	"github.com/DamonGeorge/parameterized/strategy"
)

// init initializes the global snapshot.
func init() {
	// Initialize state with default cfg, reg, cat, res and prj.
	s := &state{cfg: config.DefaultConfig()}
	b := builder.New()
	s.reg = b.BuildRegistry(s.cfg, nil, nil)
	s.cat = b.BuildCatalog(s.cfg, nil, nil)
	s.res = b.BuildResolver(s.cfg, s.cat, nil, nil)
	s.prj = b.BuildProjector(s.cfg, s.reg, s.cat, nil)
	s.bld = b
	// Store the initial state atomically.
	st.Store(s)
}

var (
	// ErrNilRegistry is returned when a builder returns a nil registry.
	ErrNilRegistry = errors.New("parameterized: builder returned nil registry")
	// ErrNilCatalog is returned when a builder returns a nil catalog.
	ErrNilCatalog = errors.New("parameterized: builder returned nil catalog")
	// ErrNilResolver is returned when a builder returns a nil resolver.
	ErrNilResolver = errors.New("parameterized: builder returned nil resolver")
	// ErrNilProjector is returned when a builder returns a nil projector.
	ErrNilProjector = errors.New("parameterized: builder returned nil projector")
	// ErrWrongType is returned by BuildAs when the built instance is not of
	// the requested type.
	ErrWrongType = errors.New("parameterized: built instance has unexpected type")
)

// TypeOf returns the reflect.Type of T, for registration and build calls:
// a struct type for concrete entities, an interface type for family roots.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Serialize projects entity's non-excluded attributes into a mapping using
// the global registries. Family members carry their discriminator tag.
func Serialize(entity any) (*params.Params, error) {
	return st.Load().prj.Serialize(entity)
}

// Render returns the deterministic, indented text rendering of entity's
// serialized mapping.
func Render(entity any) (string, error) {
	s := st.Load()
	p, err := s.prj.Serialize(entity)
	if err != nil {
		return "", err
	}
	enc := json.NewIndented(s.cfg.Indent)
	b, err := enc.Encode(p)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Update deserializes p onto target in place: only keys naming existing
// attributes are assigned, each converted through target's deserialize rules.
func Update(target any, p *params.Params) error {
	return st.Load().prj.Update(target, p, true)
}

// Convert runs mapping-mode deserialization with owner's rules: excluded
// keys are dropped, unmatched keys pass through unchanged.
func Convert(owner reflect.Type, p *params.Params) (*params.Params, error) {
	return st.Load().prj.Convert(owner, p)
}

// Build constructs an instance of t from mapping p. When t is a family root
// the discriminator tag selects the concrete member first.
func Build(t reflect.Type, p *params.Params) (any, error) {
	s := st.Load()
	return factory.Build(s.cfg, s.res, s.prj, t, p)
}

// BuildAs constructs an instance from p and returns it as T: an interface
// family root, a pointer to struct, or a struct value.
func BuildAs[T any](p *params.Params) (T, error) {
	var zero T
	t := TypeOf[T]()
	built := t
	if built.Kind() == reflect.Pointer {
		built = built.Elem()
	}
	out, err := Build(built, p)
	if err != nil {
		return zero, err
	}
	if v, ok := out.(T); ok {
		return v, nil
	}
	// Build returns pointers; unwrap when T is the struct itself.
	rv := reflect.ValueOf(out)
	if rv.Kind() == reflect.Pointer && rv.Elem().Type() == t {
		return rv.Elem().Interface().(T), nil
	}
	return zero, fmt.Errorf("%w: got %T", ErrWrongType, out)
}

// Members enumerates root's eligible concrete members.
func Members(root reflect.Type) ([]apis.Member, error) {
	return st.Load().res.Members(root)
}

// ResolveVariant returns the concrete member type selected by tag, which may
// be a live discriminator value or its symbolic name.
func ResolveVariant(root reflect.Type, tag any) (reflect.Type, error) {
	m, err := st.Load().res.Resolve(root, tag)
	if err != nil {
		return nil, err
	}
	return m.Type, nil
}

// Mapping returns a static discriminator-value -> concrete-type view of the
// family's eligible members.
func Mapping(root reflect.Type) (map[apis.Enum]reflect.Type, error) {
	return st.Load().res.Mapping(root)
}

// Fallback is the conversion hook handed to codecs: it converts a value a
// codec cannot natively represent — a nested entity, an enumerated constant,
// a homogeneous numeric array, a textual value — into a representable one.
// A strategy failure (depth exceeded, cycle, a failing conversion rule) is
// returned as an error so the codec aborts instead of encoding the raw value.
func Fallback(v any) (any, bool, error) {
	if v == nil {
		return nil, false, nil
	}
	s := st.Load()
	chain := []apis.Strategy{
		strategy.NewEntityStrategy(func(e any) (*params.Params, error) {
			return s.prj.Serialize(e)
		}),
		strategy.NewNumericStrategy(),
		strategy.NewEnumStrategy(),
		strategy.NewTextStrategy(),
	}
	for _, str := range chain {
		out, handled, err := str.TryConvert(v, s.cfg)
		if err != nil {
			return nil, false, err
		}
		if handled {
			return out, true, nil
		}
	}
	return nil, false, nil
}

// OnSerialize registers an exact-attribute serialize rule on the global registry.
func OnSerialize(owner reflect.Type, attr string, fn apis.Converter) error {
	return st.Load().reg.OnSerialize(owner, attr, fn)
}

// OnDeserialize registers an exact-attribute deserialize rule on the global registry.
func OnDeserialize(owner reflect.Type, attr string, fn apis.Converter) error {
	return st.Load().reg.OnDeserialize(owner, attr, fn)
}

// OnSerializeType registers a type-matched serialize rule on the global registry.
func OnSerializeType(owner reflect.Type, match reflect.Type, fn apis.Converter) error {
	return st.Load().reg.OnSerializeType(owner, match, fn)
}

// OnDeserializeType registers a type-matched deserialize rule on the global registry.
func OnDeserializeType(owner reflect.Type, match reflect.Type, fn apis.Converter) error {
	return st.Load().reg.OnDeserializeType(owner, match, fn)
}

// Exclude hides attribute names of owner from both projection directions.
func Exclude(owner reflect.Type, names ...string) error {
	return st.Load().reg.Exclude(owner, names...)
}

// DeclareFamily declares root (an interface type) as a polymorphic family
// with the given discriminator enumeration type.
func DeclareFamily(root reflect.Type, disc reflect.Type) error {
	return st.Load().cat.DeclareFamily(root, disc)
}

// RegisterMember adds a concrete member to root's family under tag, and
// links the member to root in the conversion registry so it inherits the
// family's rules and exclusions.
func RegisterMember(root reflect.Type, tag apis.Enum, member reflect.Type, opts ...apis.MemberOption) error {
	s := st.Load()
	if err := s.cat.Register(root, tag, member, opts...); err != nil {
		return err
	}
	return s.reg.Inherit(member, root)
}

// ExcludeMembers hides concrete type names of root's family from resolution.
func ExcludeMembers(root reflect.Type, names ...string) error {
	return st.Load().cat.ExcludeMembers(root, names...)
}

// TagOf reverse-looks-up the discriminator tag and family root of member.
func TagOf(member reflect.Type) (apis.Enum, reflect.Type, bool) {
	return st.Load().cat.TagOf(member)
}

// SetAll explicitly sets all global state components.
//
// Nil arguments leave the corresponding component unchanged,
// except for ext which is always replaced.
func SetAll(cfg *apis.Config, ext any, reg apis.Registry, cat apis.Catalog, res apis.Resolver, bld apis.Builder) {
	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()

	// Configuration
	ncfg := old.cfg
	if cfg != nil {
		ncfg = *cfg
	}

	// Extension
	next := ext

	// Builder
	nbld := old.bld
	if bld != nil {
		nbld = bld
	}

	// Registry
	nreg := reg
	npreg := false
	if nreg == nil {
		nreg = nbld.BuildRegistry(ncfg, old.reg, next)
	} else {
		npreg = true
	}

	// Catalog
	ncat := cat
	npcat := false
	if ncat == nil {
		ncat = nbld.BuildCatalog(ncfg, old.cat, next)
	} else {
		npcat = true
	}

	// Resolver
	nres := res
	npres := false
	if nres == nil {
		nres = nbld.BuildResolver(ncfg, ncat, old.res, next)
	} else {
		npres = true
	}

	publish(&state{
		cfg:  ncfg,
		ext:  next,
		reg:  nreg,
		cat:  ncat,
		res:  nres,
		prj:  nbld.BuildProjector(ncfg, nreg, ncat, next),
		bld:  nbld,
		preg: npreg,
		pcat: npcat,
		pres: npres,
	})
}

// Config returns the global configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig sets the global configuration to cfg.
// It rebuilds non-pinned layers using the new configuration.
func SetConfig(cfg apis.Config) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	b := old.bld

	nreg := old.reg
	if !old.preg {
		nreg = b.BuildRegistry(cfg, old.reg, old.ext)
	}
	ncat := old.cat
	if !old.pcat {
		ncat = b.BuildCatalog(cfg, old.cat, old.ext)
	}
	nres := old.res
	if !old.pres {
		nres = b.BuildResolver(cfg, ncat, old.res, old.ext)
	}

	publish(&state{
		cfg:  cfg,
		ext:  old.ext,
		reg:  nreg,
		cat:  ncat,
		res:  nres,
		prj:  b.BuildProjector(cfg, nreg, ncat, old.ext),
		bld:  b,
		preg: old.preg,
		pcat: old.pcat,
		pres: old.pres,
	})
}

// Registry returns the global conversion registry.
func Registry() apis.Registry {
	return st.Load().reg
}

// SetRegistry sets the global conversion registry and pins it.
// The projector is rebuilt over the new registry.
func SetRegistry(reg apis.Registry) {
	if reg == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	b := old.bld

	publish(&state{
		cfg:  old.cfg,
		ext:  old.ext,
		reg:  reg,
		cat:  old.cat,
		res:  old.res,
		prj:  b.BuildProjector(old.cfg, reg, old.cat, old.ext),
		bld:  b,
		preg: true,
		pcat: old.pcat,
		pres: old.pres,
	})
}

// Catalog returns the global family catalog.
func Catalog() apis.Catalog {
	return st.Load().cat
}

// SetCatalog sets the global family catalog and pins it.
// The resolver (unless pinned) and projector are rebuilt over it.
func SetCatalog(cat apis.Catalog) {
	if cat == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	b := old.bld

	nres := old.res
	if !old.pres {
		nres = b.BuildResolver(old.cfg, cat, old.res, old.ext)
	}

	publish(&state{
		cfg:  old.cfg,
		ext:  old.ext,
		reg:  old.reg,
		cat:  cat,
		res:  nres,
		prj:  b.BuildProjector(old.cfg, old.reg, cat, old.ext),
		bld:  b,
		preg: old.preg,
		pcat: true,
		pres: old.pres,
	})
}

// Resolver returns the global polymorphic resolver.
func Resolver() apis.Resolver {
	return st.Load().res
}

// SetResolver sets the global polymorphic resolver and pins it.
func SetResolver(res apis.Resolver) {
	if res == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()

	publish(&state{
		cfg:  old.cfg,
		ext:  old.ext,
		reg:  old.reg,
		cat:  old.cat,
		res:  res,
		prj:  old.prj,
		bld:  old.bld,
		preg: old.preg,
		pcat: old.pcat,
		pres: true,
	})
}

// Projector returns the global attribute projector.
func Projector() apis.Projector {
	return st.Load().prj
}

// Builder returns the global builder.
func Builder() apis.Builder {
	return st.Load().bld
}

// SetBuilder sets the global builder and rebuilds non-pinned layers with it.
func SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()

	nreg := old.reg
	if !old.preg {
		nreg = b.BuildRegistry(old.cfg, old.reg, old.ext)
	}
	ncat := old.cat
	if !old.pcat {
		ncat = b.BuildCatalog(old.cfg, old.cat, old.ext)
	}
	nres := old.res
	if !old.pres {
		nres = b.BuildResolver(old.cfg, ncat, old.res, old.ext)
	}

	publish(&state{
		cfg:  old.cfg,
		ext:  old.ext,
		reg:  nreg,
		cat:  ncat,
		res:  nres,
		prj:  b.BuildProjector(old.cfg, nreg, ncat, old.ext),
		bld:  b,
		preg: old.preg,
		pcat: old.pcat,
		pres: old.pres,
	})
}

// SetExt replaces extension config and rebuilds non-pinned layers via the builder.
func SetExt[T any](ext T) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	b := old.bld

	nreg := old.reg
	if !old.preg {
		nreg = b.BuildRegistry(old.cfg, old.reg, ext)
	}
	ncat := old.cat
	if !old.pcat {
		ncat = b.BuildCatalog(old.cfg, old.cat, ext)
	}
	nres := old.res
	if !old.pres {
		nres = b.BuildResolver(old.cfg, ncat, old.res, ext)
	}

	publish(&state{
		cfg:  old.cfg,
		ext:  ext,
		reg:  nreg,
		cat:  ncat,
		res:  nres,
		prj:  b.BuildProjector(old.cfg, nreg, ncat, ext),
		bld:  b,
		preg: old.preg,
		pcat: old.pcat,
		pres: old.pres,
	})
}

// ExtAs returns the global extension config as type T.
func ExtAs[T any]() (T, bool) {
	ext, ok := st.Load().ext.(T)
	return ext, ok
}

// IsRegistryPinned returns whether the global registry is pinned.
func IsRegistryPinned() bool {
	return st.Load().preg
}

// PinRegistry stops automatic rebuilds of the global registry.
func PinRegistry() {
	setPins(func(s *state) { s.preg = true })
}

// UnpinRegistry re-enables automatic rebuilds of the global registry.
func UnpinRegistry() {
	setPins(func(s *state) { s.preg = false })
}

// IsCatalogPinned returns whether the global catalog is pinned.
func IsCatalogPinned() bool {
	return st.Load().pcat
}

// PinCatalog stops automatic rebuilds of the global catalog.
func PinCatalog() {
	setPins(func(s *state) { s.pcat = true })
}

// UnpinCatalog re-enables automatic rebuilds of the global catalog.
func UnpinCatalog() {
	setPins(func(s *state) { s.pcat = false })
}

// IsResolverPinned returns whether the global resolver is pinned.
func IsResolverPinned() bool {
	return st.Load().pres
}

// PinResolver stops automatic rebuilds of the global resolver.
func PinResolver() {
	setPins(func(s *state) { s.pres = true })
}

// UnpinResolver re-enables automatic rebuilds of the global resolver.
func UnpinResolver() {
	setPins(func(s *state) { s.pres = false })
}

// setPins republishes the current snapshot with adjusted pin flags.
func setPins(mut func(*state)) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	next := *old
	mut(&next)
	st.Store(&next)
}

// publish validates and atomically stores a new snapshot.
func publish(s *state) {
	if s.reg == nil {
		panic(ErrNilRegistry)
	}
	if s.cat == nil {
		panic(ErrNilCatalog)
	}
	if s.res == nil {
		panic(ErrNilResolver)
	}
	if s.prj == nil {
		panic(ErrNilProjector)
	}
	st.Store(s)
}

// buildMu serializes writers (reconfigurations/swaps) so we never publish
// partially-built snapshots.
var buildMu sync.Mutex

// st is the global state.
var st atomic.Pointer[state]

// state is the global state snapshot.
// Immutable snapshot published atomically via st.Store; never mutate fields
// of a published state. Writers create a new state and swap it atomically.
type state struct {
	// cfg is the global configuration.
	cfg apis.Config
	// ext is the global extension configuration.
	ext any
	// reg is the global conversion registry.
	reg apis.Registry
	// cat is the global family catalog.
	cat apis.Catalog
	// res is the global polymorphic resolver.
	res apis.Resolver
	// prj is the global attribute projector, always derived from reg and cat.
	prj apis.Projector
	// bld is the global builder.
	bld apis.Builder
	// preg indicates whether the registry is pinned (immutable).
	preg bool
	// pcat indicates whether the catalog is pinned (immutable).
	pcat bool
	// pres indicates whether the resolver is pinned (immutable).
	pres bool
}
