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

// Package factory implements the construction engine: it reconciles a flat
// mapping with a concrete type's declared field schema and builds the
// instance. There is no session state; each Build call is independent and
// reads only the process-wide registries.
package factory

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/DamonGeorge/parameterized/apis"
	"github.com/DamonGeorge/parameterized/params"
	"github.com/DamonGeorge/parameterized/schema"
)

var (
	// ErrNilType is returned when a nil reflect.Type is provided.
	ErrNilType = errors.New("parameterized(factory): nil reflect.Type provided")
	// ErrMissingArgument indicates a required parameter with no mapping
	// entry. Fatal for the Build call; no partial instance is returned.
	ErrMissingArgument = errors.New("parameterized(factory): required parameter absent from mapping")
	// ErrMissingDiscriminator indicates a family mapping without the
	// reserved discriminator key.
	ErrMissingDiscriminator = errors.New("parameterized(factory): mapping carries no discriminator tag")
)

// Build constructs an instance of t from mapping p and returns it as a
// pointer to the concrete struct. When t is a family root (an interface
// type), the discriminator tag is popped from the mapping — so it is never
// mistaken for a parameter — and the resolved concrete member is built
// instead. Values are deserialized through t's registry rules first; entries
// not bound to declared fields land in the type's open-ended capture map if
// it declares one, and are discarded otherwise.
func Build(cfg apis.Config, res apis.Resolver, prj apis.Projector, t reflect.Type, p *params.Params) (any, error) {
	if t == nil {
		return nil, ErrNilType
	}
	if p == nil {
		p = params.New()
	}
	if t.Kind() == reflect.Interface {
		return buildFamily(cfg, res, prj, t, p)
	}

	work, err := prj.Convert(t, p)
	if err != nil {
		return nil, err
	}
	return bind(prj, t, work)
}

// buildFamily deserializes with the root's rules, extracts the tag, resolves
// the concrete member and builds it.
func buildFamily(cfg apis.Config, res apis.Resolver, prj apis.Projector, root reflect.Type, p *params.Params) (any, error) {
	work, err := prj.Convert(root, p)
	if err != nil {
		return nil, err
	}
	tag, ok := work.Pop(cfg.TypeKey)
	if !ok {
		return nil, fmt.Errorf("%w: key %q in family %s", ErrMissingDiscriminator, cfg.TypeKey, root)
	}
	member, err := res.Resolve(root, tag)
	if err != nil {
		return nil, err
	}
	if member.Factory != nil {
		return member.Factory(work)
	}
	return bind(prj, member.Type, work)
}

// bind reconciles an already-deserialized mapping with t's field schema.
func bind(prj apis.Projector, t reflect.Type, work *params.Params) (any, error) {
	s, err := schema.Of(t)
	if err != nil {
		return nil, err
	}

	// Required parameters are checked up front: the mapping is structurally
	// incompatible if any is absent, and no instance escapes.
	for _, f := range s.Fields {
		if f.Required && !work.Has(f.Name) {
			return nil, fmt.Errorf("%w: %q of %s", ErrMissingArgument, f.Name, s.Type)
		}
	}

	inst := reflect.New(s.Type)

	// Undeclared entries go to the open-ended capture map when present;
	// otherwise the in-place update below discards them.
	if ef, ok := s.Extra(); ok {
		extras := make(map[string]any)
		for _, k := range work.Keys() {
			if _, declared := s.Field(k); declared {
				continue
			}
			v, _ := work.Pop(k)
			extras[k] = v
		}
		if len(extras) > 0 {
			// FieldByIndex would panic if the capture map were promoted
			// through a nil embedded pointer; allocate the path instead.
			if fv := schema.FieldByIndex(inst.Elem(), ef.Index); fv.IsValid() {
				fv.Set(reflect.ValueOf(extras))
			}
		}
	}

	// Values already ran through deserialize rules; bind without re-applying.
	if err := prj.Update(inst.Interface(), work, false); err != nil {
		return nil, err
	}
	return inst.Interface(), nil
}
