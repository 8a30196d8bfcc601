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

package factory_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DamonGeorge/parameterized/apis"
	"github.com/DamonGeorge/parameterized/catalog"
	"github.com/DamonGeorge/parameterized/config"
	"github.com/DamonGeorge/parameterized/factory"
	"github.com/DamonGeorge/parameterized/params"
	"github.com/DamonGeorge/parameterized/projector"
	"github.com/DamonGeorge/parameterized/registry"
	"github.com/DamonGeorge/parameterized/resolver"
)

type job struct {
	X int `param:"x,required"`
	Y int `param:"y"`
}

type openJob struct {
	ID     string         `param:"id"`
	Extras map[string]any `param:",extra"`
}

// JobMeta is exported: reflect can only allocate a nil embedded pointer
// whose type name is exported.
type JobMeta struct {
	Owner  string         `param:"owner"`
	Extras map[string]any `param:",extra"`
}

type trackedJob struct {
	*JobMeta
	X int `param:"x"`
}

type shape interface{ Area() float64 }

type skind string

func (k skind) EnumName() string { return string(k) }

const (
	kindCircle skind = "circle"
	kindSquare skind = "square"
)

type circle struct {
	Radius float64 `param:"radius"`
}

func (c *circle) Area() float64 { return 3.14159 * c.Radius * c.Radius }

type square struct {
	Side float64 `param:"side"`
}

func (s *square) Area() float64 { return s.Side * s.Side }

var (
	shapeT = reflect.TypeOf((*shape)(nil)).Elem()
	skindT = reflect.TypeOf(skind(""))
)

type world struct {
	cfg apis.Config
	reg apis.Registry
	cat apis.Catalog
	res apis.Resolver
	prj apis.Projector
}

func newWorld(t *testing.T) *world {
	t.Helper()
	cfg := config.DefaultConfig()
	reg := registry.New(cfg)
	cat := catalog.New(cfg)
	require.NoError(t, cat.DeclareFamily(shapeT, skindT))
	require.NoError(t, cat.Register(shapeT, kindCircle, reflect.TypeOf(circle{})))
	require.NoError(t, cat.Register(shapeT, kindSquare, reflect.TypeOf(square{})))
	return &world{
		cfg: cfg,
		reg: reg,
		cat: cat,
		res: resolver.New(cat),
		prj: projector.New(cfg, reg, cat),
	}
}

func (w *world) build(t reflect.Type, p *params.Params) (any, error) {
	return factory.Build(w.cfg, w.res, w.prj, t, p)
}

func TestBuild_Concrete(t *testing.T) {
	w := newWorld(t)

	out, err := w.build(reflect.TypeOf(job{}), params.New().Set("x", 1).Set("y", 2))
	require.NoError(t, err)
	assert.Equal(t, &job{X: 1, Y: 2}, out)
}

func TestBuild_RequiredPresentOptionalDefaulted(t *testing.T) {
	w := newWorld(t)

	out, err := w.build(reflect.TypeOf(job{}), params.New().Set("x", 7))
	require.NoError(t, err)
	assert.Equal(t, &job{X: 7, Y: 0}, out)
}

func TestBuild_RequiredMissingIsFatal(t *testing.T) {
	w := newWorld(t)

	_, err := w.build(reflect.TypeOf(job{}), params.New().Set("y", 2))
	require.ErrorIs(t, err, factory.ErrMissingArgument)
	// The error names the offending parameter and type.
	assert.Contains(t, err.Error(), `"x"`)
	assert.Contains(t, err.Error(), "job")
}

func TestBuild_UnknownKeysDiscardedWithoutCapture(t *testing.T) {
	w := newWorld(t)

	out, err := w.build(reflect.TypeOf(job{}), params.New().Set("x", 1).Set("stray", true))
	require.NoError(t, err)
	assert.Equal(t, &job{X: 1}, out)
}

func TestBuild_ExtrasCaptured(t *testing.T) {
	w := newWorld(t)

	out, err := w.build(reflect.TypeOf(openJob{}), params.New().
		Set("id", "a").
		Set("y", 2).
		Set("note", "kept"))
	require.NoError(t, err)

	oj := out.(*openJob)
	assert.Equal(t, "a", oj.ID)
	assert.Equal(t, map[string]any{"y": 2, "note": "kept"}, oj.Extras)
}

func TestBuild_PromotedFieldsThroughEmbeddedPointer(t *testing.T) {
	w := newWorld(t)

	// Both the promoted attribute and the promoted capture map live behind
	// an embedded pointer that starts nil on the fresh instance.
	out, err := w.build(reflect.TypeOf(trackedJob{}), params.New().
		Set("x", 1).
		Set("owner", "ops").
		Set("note", "kept"))
	require.NoError(t, err)

	tj := out.(*trackedJob)
	require.NotNil(t, tj.JobMeta)
	assert.Equal(t, 1, tj.X)
	assert.Equal(t, "ops", tj.Owner)
	assert.Equal(t, map[string]any{"note": "kept"}, tj.Extras)
}

func TestBuild_AppliesDeserializeRules(t *testing.T) {
	w := newWorld(t)
	require.NoError(t, w.reg.OnDeserialize(reflect.TypeOf(job{}), "x", func(v any) (any, error) {
		return int(v.(float64)), nil
	}))

	out, err := w.build(reflect.TypeOf(job{}), params.New().Set("x", 5.0))
	require.NoError(t, err)
	assert.Equal(t, &job{X: 5}, out)
}

func TestBuild_FamilyByTagName(t *testing.T) {
	w := newWorld(t)

	out, err := w.build(shapeT, params.New().Set("type", "circle").Set("radius", 2.0))
	require.NoError(t, err)

	c, ok := out.(*circle)
	require.True(t, ok, "built %T", out)
	assert.Equal(t, 2.0, c.Radius)
}

func TestBuild_FamilyRoundTrip(t *testing.T) {
	w := newWorld(t)

	src := &square{Side: 3}
	p, err := w.prj.Serialize(src)
	require.NoError(t, err)

	out, err := w.build(shapeT, p)
	require.NoError(t, err)
	assert.Equal(t, src, out)
}

func TestBuild_FamilyMissingDiscriminator(t *testing.T) {
	w := newWorld(t)

	_, err := w.build(shapeT, params.New().Set("radius", 2.0))
	assert.ErrorIs(t, err, factory.ErrMissingDiscriminator)
}

func TestBuild_FamilyUnknownVariant(t *testing.T) {
	w := newWorld(t)

	_, err := w.build(shapeT, params.New().Set("type", "triangle"))
	assert.ErrorIs(t, err, resolver.ErrUnknownVariant)
}

func TestBuild_FamilyCustomFactory(t *testing.T) {
	cfg := config.DefaultConfig()
	reg := registry.New(cfg)
	cat := catalog.New(cfg)
	require.NoError(t, cat.DeclareFamily(shapeT, skindT))
	require.NoError(t, cat.Register(shapeT, kindCircle, reflect.TypeOf(circle{}),
		apis.WithFactory(func(p *params.Params) (any, error) {
			r, _ := p.Get("radius")
			return &circle{Radius: r.(float64) * 2}, nil
		})))

	prj := projector.New(cfg, reg, cat)
	out, err := factory.Build(cfg, resolver.New(cat), prj, shapeT,
		params.New().Set("type", "circle").Set("radius", 3.0))
	require.NoError(t, err)
	assert.Equal(t, &circle{Radius: 6}, out)
}

func TestBuild_DiscriminatorNotBoundAsParameter(t *testing.T) {
	w := newWorld(t)

	p := params.New().Set("type", "circle").Set("radius", 1.0)
	_, err := w.build(shapeT, p)
	require.NoError(t, err)

	// The input mapping is not mutated by the pop.
	assert.True(t, p.Has("type"))
}

func TestBuild_NilInputs(t *testing.T) {
	w := newWorld(t)

	_, err := w.build(nil, params.New())
	assert.ErrorIs(t, err, factory.ErrNilType)

	out, err := w.build(reflect.TypeOf(openJob{}), nil)
	require.NoError(t, err)
	assert.Equal(t, &openJob{}, out)
}
