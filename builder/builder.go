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

package builder

import (
	"github.com/DamonGeorge/parameterized/apis"
	"github.com/DamonGeorge/parameterized/catalog"
	"github.com/DamonGeorge/parameterized/projector"
	"github.com/DamonGeorge/parameterized/registry"
	"github.com/DamonGeorge/parameterized/resolver"
)

// New creates and returns a new instance of an apis.Builder.
func New() apis.Builder {
	return &builder{}
}

// builder is an empty struct to be used as a receiver for builder methods.
type builder struct{}

// BuildRegistry builds and returns a new apis.Registry based on the provided
// configuration and pre-existing registry. If a pre-existing registry is
// provided, its rules, exclusions and inheritance links are copied into the
// new registry.
func (b *builder) BuildRegistry(cfg apis.Config, prev apis.Registry, _ any) apis.Registry {
	nreg := registry.New(cfg)
	if prev == nil {
		return nreg
	}
	for _, e := range prev.Entries() {
		switch {
		case e.Attr != "" && e.Dir == apis.SerializeDir:
			_ = nreg.OnSerialize(e.Owner, e.Attr, e.Fn)
		case e.Attr != "":
			_ = nreg.OnDeserialize(e.Owner, e.Attr, e.Fn)
		case e.Dir == apis.SerializeDir:
			_ = nreg.OnSerializeType(e.Owner, e.Match, e.Fn)
		default:
			_ = nreg.OnDeserializeType(e.Owner, e.Match, e.Fn)
		}
	}
	for _, x := range prev.Exclusions() {
		_ = nreg.Exclude(x.Owner, x.Names...)
	}
	for _, l := range prev.Links() {
		_ = nreg.Inherit(l.Child, l.Parent)
	}
	return nreg
}

// BuildCatalog builds and returns a new apis.Catalog based on the provided
// configuration and pre-existing catalog, copying family declarations,
// members and excluded names.
func (b *builder) BuildCatalog(cfg apis.Config, prev apis.Catalog, _ any) apis.Catalog {
	ncat := catalog.New(cfg)
	if prev == nil {
		return ncat
	}
	for _, fam := range prev.Entries() {
		_ = ncat.DeclareFamily(fam.Root, fam.Discriminator)
		for _, m := range fam.Members {
			if m.Factory != nil {
				_ = ncat.Register(fam.Root, m.Tag, m.Type, apis.WithFactory(m.Factory))
				continue
			}
			_ = ncat.Register(fam.Root, m.Tag, m.Type)
		}
		if len(fam.ExcludedNames) > 0 {
			_ = ncat.ExcludeMembers(fam.Root, fam.ExcludedNames...)
		}
	}
	return ncat
}

// BuildResolver builds and returns a new apis.Resolver over cat. The
// pre-existing resolver carries no state worth migrating.
func (b *builder) BuildResolver(_ apis.Config, cat apis.Catalog, _ apis.Resolver, _ any) apis.Resolver {
	return resolver.New(cat)
}

// BuildProjector builds and returns a new apis.Projector over reg and cat
// with the default built-in converter chain.
func (b *builder) BuildProjector(cfg apis.Config, reg apis.Registry, cat apis.Catalog, _ any) apis.Projector {
	return projector.New(cfg, reg, cat)
}
