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

// Package parameterized provides a global, process-wide serialization
// service for declared entities.
//
// parameterized is responsible for turning "some Go struct" into a portable,
// ordered mapping of its attributes — and back. The mapping round-trips
// through JSON, MessagePack or YAML, preserves attribute declaration order,
// and carries a discriminator tag for polymorphic families so the right
// concrete type can be rebuilt on the way in.
//
// # Design
//
// The core of parameterized is a read-mostly global snapshot (state). The
// snapshot holds five layers:
//
//   - Config: rules that control projection (the discriminator key name,
//     the rendering indent, the nesting depth limit, and whether pointer
//     cycles are detected eagerly).
//
//   - Registry: a process-wide store of per-owner conversion rules. An
//     owner (a struct type) can attach exact-attribute converters,
//     type-matched converters, attribute exclusions, and inheritance links
//     to other owners whose rules it shares. The registry can be written
//     to at runtime (OnSerialize, OnDeserializeType, Exclude, Inherit).
//
//   - Catalog: a process-wide store of polymorphic families. A family is an
//     interface root, a discriminator enumeration type, and a set of
//     registered concrete members, each keyed by a unique tag and a unique
//     type name. Ambiguity is rejected at registration time.
//
//   - Resolver: a read-only object that answers "which concrete type does
//     this discriminator select?". It accepts both a live discriminator
//     value and its symbolic name, and exposes the family's member list
//     and tag-to-type mapping for introspection.
//
//   - Projector: a read-only object derived from Registry and Catalog that
//     performs the actual work: Serialize projects an entity into an
//     ordered mapping (exact-attribute rules first, then type-matched
//     rules along inheritance links, then built-in converters, then the
//     value unchanged); Update assigns mapping keys back onto an existing
//     entity, touching only declared attributes; Convert runs
//     mapping-to-mapping deserialization without a target instance.
//
// Attribute declaration is static: a struct opts its fields in through the
// `param` tag (see package schema). The factory package adds construction:
// Build instantiates a struct — or, given a family root, the member its
// discriminator tag selects — from a mapping, failing fast when a required
// attribute is absent.
//
// All five layers live inside a single immutable struct called state. The
// package holds an atomic pointer to the current state. Readers load that
// pointer, use it, and never mutate it. Writers build a brand-new state and
// atomically swap it in.
//
// This means projections are lock-free on the hot path:
//
//	p, err := parameterized.Serialize(obj)
//	text, err := parameterized.Render(obj)
//
// and concurrent callers always see a consistent snapshot.
//
// # Global API
//
// The package exposes three groups of operations:
//
//  1. Read helpers:
//
//     Serialize(entity any) (*params.Params, error)
//     Render(entity any) (string, error)
//     Update(target any, p *params.Params) error
//     Convert(owner reflect.Type, p *params.Params) (*params.Params, error)
//     Build(t reflect.Type, p *params.Params) (any, error)
//     BuildAs[T any](p *params.Params) (T, error)
//     Members / ResolveVariant / Mapping / TagOf
//
//     These are safe for concurrent use without additional locking.
//     They always read from the latest published snapshot.
//
//  2. Registration helpers:
//
//     OnSerialize / OnDeserialize (exact-attribute rules)
//     OnSerializeType / OnDeserializeType (type-matched rules)
//     Exclude (attribute exclusions)
//     RegisterRules (a whole RuleTable in one call)
//     DeclareFamily / RegisterMember / ExcludeMembers
//
//     These write into the live Registry and Catalog of the current
//     snapshot. RegisterMember also links the member to its family root
//     in the Registry, so members inherit the root's rules and exclusions.
//
//  3. Mutation helpers:
//
//     SetConfig(cfg apis.Config)
//     SetBuilder(b apis.Builder)
//     SetExt(ext T)
//     SetRegistry / SetCatalog / SetResolver
//     PinRegistry / PinCatalog / PinResolver (and Unpin / IsPinned)
//     SetAll(...)
//
//     Each of these acquires an internal build lock, derives a new
//     snapshot (rebuilding or reusing layers as needed), and then
//     atomically publishes it. The Projector is always rebuilt, since it
//     is purely derived from Config, Registry and Catalog.
//
// # Concurrency model
//
// Reads are wait-free: they load the current *state atomically and never
// take locks. The Registry, Catalog, Resolver and Projector held by a
// snapshot must themselves be concurrency-safe for reads; the bundled
// implementations are.
//
// Writes take a short build mutex, assemble a brand-new state struct, and
// publish it via an atomic pointer swap. This gives the calling binary a
// predictable "last write wins" behavior without per-projection locking.
//
// # Pinning
//
// parameterized supports pinning a layer:
//
//   - SetRegistry(reg) makes that exact Registry the process-wide registry
//     and pins it. Further SetConfig calls will not rebuild the Registry
//     until UnpinRegistry().
//
//   - SetCatalog(cat) and SetResolver(res) behave the same way for their
//     layers.
//
// The Projector cannot be pinned: it carries no registrations of its own
// and is rederived on every publish.
//
// # Codecs
//
// The encoders subpackages (encoders/json, encoders/msgpack, encoders/yaml)
// wrap serialized mappings for transport. Each codec accepts a Fallback
// hook; the package-level Fallback function is the canonical one, applying
// the built-in converter chain (entity, numeric array, enumerated constant,
// textual value) to values a codec cannot natively represent.
//
// # Usage pattern in a binary
//
//  1. Declare entities as structs with `param` tags.
//
//  2. Register conversion rules up front:
//
//     parameterized.OnSerialize(parameterized.TypeOf[Job](), "when", toUnix)
//     parameterized.OnDeserialize(parameterized.TypeOf[Job](), "when", fromUnix)
//
//  3. Declare polymorphic families and their members:
//
//     parameterized.DeclareFamily(parameterized.TypeOf[Shape](), parameterized.TypeOf[ShapeKind]())
//     parameterized.RegisterMember(parameterized.TypeOf[Shape](), KindCircle, parameterized.TypeOf[Circle]())
//
//  4. Use Serialize / Render / Build everywhere entities cross a boundary.
//
//  5. In tests, call SetAll(...) to get deterministic snapshots between
//     test cases.
//
// # Scope
//
// parameterized is intentionally small. It does not try to be an ORM, a
// schema-validation framework, or a general codec. It solves one job:
//
//	"Given a declared entity, produce an ordered, portable mapping of its
//	 attributes — and rebuild an equivalent entity from such a mapping,
//	 resolving polymorphic families by discriminator."
//
// Everything else (transport, persistence, validation policy) belongs to
// higher layers.
package parameterized
