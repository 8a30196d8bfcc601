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

// Builder composes Registry, Catalog, Resolver and Projector from a Config.
// Implementations may migrate state from previous instances (prev*), or ignore them.
type Builder interface {
	// BuildRegistry constructs a Registry for Config. May migrate rules,
	// exclusions and links from the previous registry.
	// ext is an optional extension context. Its meaning is implementation-defined.
	BuildRegistry(cfg Config, prev Registry, ext any) Registry
	// BuildCatalog constructs a Catalog for Config. May migrate families from
	// the previous catalog.
	BuildCatalog(cfg Config, prev Catalog, ext any) Catalog
	// BuildResolver constructs a Resolver over cat. May reuse state from the
	// previous resolver.
	BuildResolver(cfg Config, cat Catalog, prev Resolver, ext any) Resolver
	// BuildProjector constructs a Projector over reg and cat, with the
	// built-in converter chain wired in.
	BuildProjector(cfg Config, reg Registry, cat Catalog, ext any) Projector
}
