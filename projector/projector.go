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

package projector

import (
	"errors"
	"fmt"
	"reflect"
	"sort"

	"github.com/DamonGeorge/parameterized/apis"
	"github.com/DamonGeorge/parameterized/params"
	"github.com/DamonGeorge/parameterized/schema"
	"github.com/DamonGeorge/parameterized/strategy"
)

var (
	// ErrNilEntity is returned when a nil entity is provided.
	ErrNilEntity = errors.New("parameterized(projector): nil entity provided")
	// ErrNotPointer is returned when an update target is not a non-nil
	// pointer to struct.
	ErrNotPointer = errors.New("parameterized(projector): update target must be a non-nil pointer to struct")
	// ErrDepthExceeded indicates nested serialization past MaxDepth.
	ErrDepthExceeded = errors.New("parameterized(projector): serialization depth limit exceeded")
	// ErrCycle indicates a cyclic object graph (DetectCycles enabled).
	ErrCycle = errors.New("parameterized(projector): cycle detected in object graph")
	// ErrReservedKey indicates a family member whose own attributes claim
	// the reserved discriminator key.
	ErrReservedKey = errors.New("parameterized(projector): attribute collides with the reserved discriminator key")
	// ErrCannotAssign indicates a mapping value incompatible with the
	// target attribute's type.
	ErrCannotAssign = errors.New("parameterized(projector): cannot assign value to attribute")
	// ErrNilEmbedded indicates an attribute promoted through a nil embedded
	// pointer, so its value is unreachable.
	ErrNilEmbedded = errors.New("parameterized(projector): attribute unreachable through nil embedded pointer")
)

// New constructs a Projector over reg and cat with the default built-in
// converter chain (numeric sequence, enum name, text form; nested entities
// are handled by a per-call recursion strategy carrying depth bookkeeping).
func New(cfg apis.Config, reg apis.Registry, cat apis.Catalog) *Projector {
	return &Projector{
		cfg: cfg,
		reg: reg,
		cat: cat,
		chain: []apis.Strategy{
			strategy.NewNumericStrategy(),
			strategy.NewEnumStrategy(),
			strategy.NewTextStrategy(),
		},
	}
}

// Projector implements apis.Projector over a registry and a catalog.
// It is a read-only consumer of both and is safe for concurrent use once
// registrations have completed.
type Projector struct {
	cfg   apis.Config
	reg   apis.Registry
	cat   apis.Catalog
	chain []apis.Strategy
}

// Ensure Projector implements apis.Projector.
var _ apis.Projector = (*Projector)(nil)

// UseFallback replaces the built-in converter chain. Must be called before
// the projector is published for concurrent use.
func (p *Projector) UseFallback(strategies ...apis.Strategy) {
	out := make([]apis.Strategy, 0, len(strategies))
	for _, s := range strategies {
		if s != nil {
			out = append(out, s)
		}
	}
	p.chain = out
}

// Serialize projects entity's non-excluded attributes into a mapping.
// Family members get their discriminator tag appended under TypeKey.
func (p *Projector) Serialize(entity any) (*params.Params, error) {
	var visited map[uintptr]struct{}
	if p.cfg.DetectCycles {
		visited = make(map[uintptr]struct{})
	}
	return p.serialize(entity, 0, visited)
}

func (p *Projector) serialize(entity any, depth int, visited map[uintptr]struct{}) (*params.Params, error) {
	if entity == nil {
		return nil, ErrNilEntity
	}
	if depth >= p.cfg.MaxDepth {
		return nil, fmt.Errorf("%w: %d", ErrDepthExceeded, p.cfg.MaxDepth)
	}

	rv := reflect.ValueOf(entity)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, ErrNilEntity
		}
		if visited != nil {
			ptr := rv.Pointer()
			if _, seen := visited[ptr]; seen {
				return nil, fmt.Errorf("%w: %T", ErrCycle, entity)
			}
			visited[ptr] = struct{}{}
			defer delete(visited, ptr)
		}
		rv = rv.Elem()
	}

	s, err := schema.Of(rv.Type())
	if err != nil {
		return nil, err
	}
	excluded := p.excludedFor(s.Type, entity)

	out := params.New()
	for _, f := range s.Fields {
		if _, skip := excluded[f.Name]; skip {
			continue
		}
		fv, ferr := rv.FieldByIndexErr(f.Index)
		if ferr != nil {
			return nil, fmt.Errorf("%w: %q of %s", ErrNilEmbedded, f.Name, s.Type)
		}
		v, err := p.serializeValue(s.Type, f.Name, fv.Interface(), depth, visited)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", f.Name, err)
		}
		out.Set(f.Name, v)
	}

	// Open-ended capture entries serialize like ordinary attributes,
	// in sorted key order for determinism.
	if ef, ok := s.Extra(); ok {
		// A capture map behind a nil embedded pointer simply holds nothing.
		if extras := extrasMap(rv.FieldByIndexErr(ef.Index)); extras != nil {
			keys := make([]string, 0, len(extras))
			for k := range extras {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				if _, skip := excluded[k]; skip {
					continue
				}
				v, err := p.serializeValue(s.Type, k, extras[k], depth, visited)
				if err != nil {
					return nil, fmt.Errorf("attribute %q: %w", k, err)
				}
				out.Set(k, v)
			}
		}
	}

	if tag, _, ok := p.cat.TagOf(s.Type); ok {
		if out.Has(p.cfg.TypeKey) {
			return nil, fmt.Errorf("%w: %q on %s", ErrReservedKey, p.cfg.TypeKey, s.Type)
		}
		out.Set(p.cfg.TypeKey, tag.EnumName())
	}
	return out, nil
}

// serializeValue resolves one attribute value: registry rules first, then the
// built-in chain, then unchanged.
func (p *Projector) serializeValue(owner reflect.Type, attr string, v any, depth int, visited map[uintptr]struct{}) (any, error) {
	out, handled, err := p.reg.Resolve(owner, attr, v, apis.SerializeDir)
	if err != nil {
		return nil, err
	}
	if handled {
		return out, nil
	}

	nested := strategy.NewEntityStrategy(func(e any) (*params.Params, error) {
		return p.serialize(e, depth+1, visited)
	})
	for _, s := range p.fallback(nested) {
		out, handled, err := s.TryConvert(v, p.cfg)
		if err != nil {
			return nil, err
		}
		if handled {
			return out, nil
		}
	}
	return v, nil
}

// fallback prepends the per-call nested-entity strategy to the pure chain.
func (p *Projector) fallback(nested apis.Strategy) []apis.Strategy {
	out := make([]apis.Strategy, 0, len(p.chain)+1)
	out = append(out, nested)
	return append(out, p.chain...)
}

// Convert is the mapping-mode deserialize: excluded keys are dropped, every
// other key runs through owner's deserialize rules, unmatched keys pass
// through unchanged. The input mapping is not mutated.
func (p *Projector) Convert(owner reflect.Type, in *params.Params) (*params.Params, error) {
	excluded := p.reg.Excluded(owner)
	out := params.New()
	var convErr error
	in.Range(func(k string, v any) bool {
		if _, skip := excluded[k]; skip {
			return true
		}
		conv, _, err := p.reg.Resolve(owner, k, v, apis.DeserializeDir)
		if err != nil {
			convErr = fmt.Errorf("attribute %q: %w", k, err)
			return false
		}
		out.Set(k, conv)
		return true
	})
	if convErr != nil {
		return nil, convErr
	}
	return out, nil
}

// Update is the in-place deserialize: only keys both present in the mapping
// and already declared as attributes of target are assigned, so unknown keys
// never create attributes. When convert is true, values run through
// deserialize rules first.
func (p *Projector) Update(target any, in *params.Params, convert bool) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return ErrNotPointer
	}
	elem := rv.Elem()

	s, err := schema.Of(elem.Type())
	if err != nil {
		return err
	}

	src := in
	if convert {
		if src, err = p.Convert(s.Type, in); err != nil {
			return err
		}
	}
	excluded := p.excludedFor(s.Type, target)

	for _, f := range s.Fields {
		if _, skip := excluded[f.Name]; skip {
			continue
		}
		v, ok := src.Get(f.Name)
		if !ok {
			continue
		}
		if err := p.assign(schema.FieldByIndex(elem, f.Index), v); err != nil {
			return fmt.Errorf("attribute %q: %w", f.Name, err)
		}
	}
	return nil
}

// excludedFor unions registry-level exclusions (with inherited entries) and
// the instance's own Excluder declaration.
func (p *Projector) excludedFor(t reflect.Type, instance any) map[string]struct{} {
	out := p.reg.Excluded(t)
	if ex, ok := instance.(apis.Excluder); ok {
		for _, n := range ex.ExcludedParams() {
			out[n] = struct{}{}
		}
	}
	return out
}

// assign stores v into the attribute field, coercing representable forms:
// direct assignment, numeric kind conversion, nested mapping -> struct,
// sequence -> slice/array. Already-deserialized values assign directly,
// keeping the operation idempotent-safe.
func (p *Projector) assign(fv reflect.Value, v any) error {
	if !fv.CanSet() {
		return ErrCannotAssign
	}
	ft := fv.Type()
	if v == nil {
		fv.Set(reflect.Zero(ft))
		return nil
	}
	rv := reflect.ValueOf(v)

	if rv.Type().AssignableTo(ft) {
		fv.Set(rv)
		return nil
	}

	// Nested mapping onto a struct (or pointer-to-struct) attribute.
	if mp := asParams(v); mp != nil {
		switch {
		case ft.Kind() == reflect.Struct:
			nested := reflect.New(ft)
			if err := p.Update(nested.Interface(), mp, true); err != nil {
				return err
			}
			fv.Set(nested.Elem())
			return nil
		case ft.Kind() == reflect.Pointer && ft.Elem().Kind() == reflect.Struct:
			nested := reflect.New(ft.Elem())
			if err := p.Update(nested.Interface(), mp, true); err != nil {
				return err
			}
			fv.Set(nested)
			return nil
		}
	}

	// Sequences assign element-wise so scalar coercion applies per element.
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		switch ft.Kind() {
		case reflect.Slice:
			out := reflect.MakeSlice(ft, rv.Len(), rv.Len())
			for i := 0; i < rv.Len(); i++ {
				if err := p.assign(out.Index(i), rv.Index(i).Interface()); err != nil {
					return err
				}
			}
			fv.Set(out)
			return nil
		case reflect.Array:
			if ft.Len() != rv.Len() {
				return fmt.Errorf("%w: sequence length %d, array length %d", ErrCannotAssign, rv.Len(), ft.Len())
			}
			out := reflect.New(ft).Elem()
			for i := 0; i < rv.Len(); i++ {
				if err := p.assign(out.Index(i), rv.Index(i).Interface()); err != nil {
					return err
				}
			}
			fv.Set(out)
			return nil
		}
	}

	if convertibleKinds(rv.Type(), ft) && rv.Type().ConvertibleTo(ft) {
		fv.Set(rv.Convert(ft))
		return nil
	}

	return fmt.Errorf("%w: %T -> %s", ErrCannotAssign, v, ft)
}

// extrasMap reads the capture map from a FieldByIndexErr result, treating an
// unreachable field as an empty capture.
func extrasMap(v reflect.Value, err error) map[string]any {
	if err != nil {
		return nil
	}
	m, _ := v.Interface().(map[string]any)
	return m
}

// asParams views a mapping value as *params.Params, accepting the plain-map
// form produced by generic decoders.
func asParams(v any) *params.Params {
	switch m := v.(type) {
	case *params.Params:
		return m
	case map[string]any:
		return params.FromMap(m)
	}
	return nil
}

// convertibleKinds restricts reflect conversion to shape-preserving cases:
// numeric to numeric and string-kind to string-kind. Notably it rejects
// int -> string (a rune conversion in Go).
func convertibleKinds(from, to reflect.Type) bool {
	if isNumericKind(from.Kind()) && isNumericKind(to.Kind()) {
		return true
	}
	return from.Kind() == reflect.String && to.Kind() == reflect.String
}

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
