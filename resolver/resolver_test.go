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

package resolver_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DamonGeorge/parameterized/apis"
	"github.com/DamonGeorge/parameterized/catalog"
	"github.com/DamonGeorge/parameterized/config"
	"github.com/DamonGeorge/parameterized/resolver"
)

type vehicle interface{ Wheels() int }

type vkind string

func (k vkind) EnumName() string { return string(k) }

const (
	vkindCar  vkind = "car"
	vkindBike vkind = "bike"
	vkindVan  vkind = "van"
)

type car struct{}

func (car) Wheels() int { return 4 }

type bike struct{}

func (bike) Wheels() int { return 2 }

type van struct{}

func (van) Wheels() int { return 4 }

var (
	vehicleT = reflect.TypeOf((*vehicle)(nil)).Elem()
	vkindT   = reflect.TypeOf(vkind(""))
)

func newResolver(t *testing.T) apis.Resolver {
	t.Helper()
	cat := catalog.New(config.DefaultConfig())
	require.NoError(t, cat.DeclareFamily(vehicleT, vkindT))
	require.NoError(t, cat.Register(vehicleT, vkindCar, reflect.TypeOf(car{})))
	require.NoError(t, cat.Register(vehicleT, vkindBike, reflect.TypeOf(bike{})))
	require.NoError(t, cat.Register(vehicleT, vkindVan, reflect.TypeOf(van{})))
	require.NoError(t, cat.ExcludeMembers(vehicleT, "van"))
	return resolver.New(cat)
}

func TestResolve_BySymbolicName(t *testing.T) {
	res := newResolver(t)

	m, err := res.Resolve(vehicleT, "car")
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeOf(car{}), m.Type)
	assert.Equal(t, vkindCar, m.Tag.(vkind))
}

func TestResolve_ByDiscriminatorValue(t *testing.T) {
	res := newResolver(t)

	m, err := res.Resolve(vehicleT, vkindBike)
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeOf(bike{}), m.Type)
}

func TestResolve_UnknownVariant(t *testing.T) {
	res := newResolver(t)

	_, err := res.Resolve(vehicleT, "boat")
	assert.ErrorIs(t, err, resolver.ErrUnknownVariant)

	_, err = res.Resolve(vehicleT, vkind("boat"))
	assert.ErrorIs(t, err, resolver.ErrUnknownVariant)
}

func TestResolve_ExcludedMemberIsInvisible(t *testing.T) {
	res := newResolver(t)

	_, err := res.Resolve(vehicleT, "van")
	assert.ErrorIs(t, err, resolver.ErrUnknownVariant)
}

func TestResolve_BadTag(t *testing.T) {
	res := newResolver(t)

	_, err := res.Resolve(vehicleT, nil)
	assert.ErrorIs(t, err, resolver.ErrBadTag)

	_, err = res.Resolve(vehicleT, 42)
	assert.ErrorIs(t, err, resolver.ErrBadTag)
	// The message tells the caller which forms are accepted.
	assert.Contains(t, err.Error(), "enum value")
	assert.Contains(t, err.Error(), "string name")
}

func TestResolve_NotFamily(t *testing.T) {
	res := newResolver(t)

	_, err := res.Resolve(reflect.TypeOf(car{}), "car")
	assert.ErrorIs(t, err, resolver.ErrNotFamily)

	_, err = res.Members(nil)
	assert.ErrorIs(t, err, resolver.ErrNotFamily)
}

func TestMembers_FiltersExcluded(t *testing.T) {
	res := newResolver(t)

	members, err := res.Members(vehicleT)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, reflect.TypeOf(car{}), members[0].Type)
	assert.Equal(t, reflect.TypeOf(bike{}), members[1].Type)
}

func TestMapping(t *testing.T) {
	res := newResolver(t)

	mapping, err := res.Mapping(vehicleT)
	require.NoError(t, err)
	assert.Equal(t, map[apis.Enum]reflect.Type{
		vkindCar:  reflect.TypeOf(car{}),
		vkindBike: reflect.TypeOf(bike{}),
	}, mapping)
}
