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

package catalog_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/DamonGeorge/parameterized/apis"
	"github.com/DamonGeorge/parameterized/catalog"
	"github.com/DamonGeorge/parameterized/config"
	"github.com/DamonGeorge/parameterized/params"
)

// shape is a family root; kind is its discriminator enumeration.
type shape interface{ Area() float64 }

type kind string

func (k kind) EnumName() string { return string(k) }

const (
	kindCircle kind = "circle"
	kindSquare kind = "square"
)

// otherTag is a discriminator of the wrong type.
type otherTag string

func (o otherTag) EnumName() string { return string(o) }

type circle struct {
	Radius float64 `param:"radius"`
}

func (c *circle) Area() float64 { return 3.14159 * c.Radius * c.Radius }

type square struct {
	Side float64 `param:"side"`
}

func (s *square) Area() float64 { return s.Side * s.Side }

type notAMember struct{}

var (
	shapeT  = reflect.TypeOf((*shape)(nil)).Elem()
	kindT   = reflect.TypeOf(kind(""))
	circleT = reflect.TypeOf(circle{})
	squareT = reflect.TypeOf(square{})
)

func newDeclared(t *testing.T) apis.Catalog {
	t.Helper()
	cat := catalog.New(config.DefaultConfig())
	if err := cat.DeclareFamily(shapeT, kindT); err != nil {
		t.Fatalf("DeclareFamily: %v", err)
	}
	return cat
}

func TestDeclareFamily(t *testing.T) {
	cat := newDeclared(t)

	// Idempotent re-declaration with the same discriminator.
	if err := cat.DeclareFamily(shapeT, kindT); err != nil {
		t.Fatalf("re-declare: %v", err)
	}
	// A different discriminator conflicts.
	err := cat.DeclareFamily(shapeT, reflect.TypeOf(otherTag("")))
	if !errors.Is(err, catalog.ErrConflictingFamily) {
		t.Fatalf("want ErrConflictingFamily, got %v", err)
	}
	// Roots must be interface types.
	err = cat.DeclareFamily(circleT, kindT)
	if !errors.Is(err, catalog.ErrNotInterface) {
		t.Fatalf("want ErrNotInterface, got %v", err)
	}
	if cat.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", cat.Count())
	}
}

func TestRegister_AndMembers(t *testing.T) {
	cat := newDeclared(t)

	if err := cat.Register(shapeT, kindCircle, circleT); err != nil {
		t.Fatalf("Register(circle): %v", err)
	}
	if err := cat.Register(shapeT, kindSquare, squareT); err != nil {
		t.Fatalf("Register(square): %v", err)
	}
	// Idempotent re-registration of the identical pair.
	if err := cat.Register(shapeT, kindCircle, circleT); err != nil {
		t.Fatalf("idempotent Register: %v", err)
	}

	members, err := cat.Members(shapeT)
	if err != nil {
		t.Fatalf("Members: %v", err)
	}
	if len(members) != 2 || members[0].Type != circleT || members[1].Type != squareT {
		t.Fatalf("Members = %+v, want registration order [circle square]", members)
	}
}

func TestRegister_AmbiguityDetectedAtRegistration(t *testing.T) {
	cat := newDeclared(t)
	_ = cat.Register(shapeT, kindCircle, circleT)

	// Second member claiming an already-claimed tag.
	err := cat.Register(shapeT, kindCircle, squareT)
	if !errors.Is(err, catalog.ErrAmbiguousVariant) {
		t.Fatalf("tag collision: want ErrAmbiguousVariant, got %v", err)
	}
	// Same member under a second tag.
	err = cat.Register(shapeT, kindSquare, circleT)
	if !errors.Is(err, catalog.ErrAmbiguousVariant) {
		t.Fatalf("name collision: want ErrAmbiguousVariant, got %v", err)
	}
}

func TestRegister_Errors(t *testing.T) {
	cat := newDeclared(t)

	if err := cat.Register(shapeT, nil, circleT); !errors.Is(err, catalog.ErrNilTag) {
		t.Fatalf("nil tag: want ErrNilTag, got %v", err)
	}
	if err := cat.Register(shapeT, otherTag("x"), circleT); !errors.Is(err, catalog.ErrTagType) {
		t.Fatalf("wrong tag type: want ErrTagType, got %v", err)
	}
	if err := cat.Register(shapeT, kindCircle, reflect.TypeOf(42)); !errors.Is(err, catalog.ErrNotStructMember) {
		t.Fatalf("non-struct member: want ErrNotStructMember, got %v", err)
	}
	if err := cat.Register(shapeT, kindCircle, reflect.TypeOf(notAMember{})); !errors.Is(err, catalog.ErrNotMember) {
		t.Fatalf("non-implementing member: want ErrNotMember, got %v", err)
	}
	undeclared := reflect.TypeOf((*interface{ F() })(nil)).Elem()
	if err := cat.Register(undeclared, kindCircle, circleT); !errors.Is(err, catalog.ErrUnknownFamily) {
		t.Fatalf("undeclared root: want ErrUnknownFamily, got %v", err)
	}
}

func TestRegister_PointerMemberNormalizes(t *testing.T) {
	cat := newDeclared(t)
	if err := cat.Register(shapeT, kindCircle, reflect.TypeOf(&circle{})); err != nil {
		t.Fatalf("Register(*circle): %v", err)
	}
	members, _ := cat.Members(shapeT)
	if len(members) != 1 || members[0].Type != circleT {
		t.Fatalf("Members = %+v, want normalized circle", members)
	}
}

func TestExcludeMembers(t *testing.T) {
	cat := newDeclared(t)
	_ = cat.Register(shapeT, kindCircle, circleT)
	_ = cat.Register(shapeT, kindSquare, squareT)

	if err := cat.ExcludeMembers(shapeT, "square"); err != nil {
		t.Fatalf("ExcludeMembers: %v", err)
	}

	members, _ := cat.Members(shapeT)
	if len(members) != 1 || members[0].Type != circleT {
		t.Fatalf("Members after exclusion = %+v", members)
	}

	fam, ok := cat.Family(shapeT)
	if !ok || len(fam.ExcludedNames) != 1 || fam.ExcludedNames[0] != "square" {
		t.Fatalf("Family snapshot = (%+v,%v)", fam, ok)
	}
	// The raw member list in the snapshot is unfiltered.
	if len(fam.Members) != 2 {
		t.Fatalf("snapshot Members = %d, want 2", len(fam.Members))
	}
}

func TestTagOf(t *testing.T) {
	cat := newDeclared(t)
	_ = cat.Register(shapeT, kindCircle, circleT)

	tag, root, ok := cat.TagOf(circleT)
	if !ok || tag != kindCircle || root != shapeT {
		t.Fatalf("TagOf(circle) = (%v,%v,%v)", tag, root, ok)
	}
	// Pointer form normalizes to the same member.
	if tag, _, ok := cat.TagOf(reflect.TypeOf(&circle{})); !ok || tag != kindCircle {
		t.Fatalf("TagOf(*circle) = (%v,%v)", tag, ok)
	}
	if _, _, ok := cat.TagOf(squareT); ok {
		t.Fatalf("TagOf(unregistered) reported ok")
	}
}

func TestRegister_WithFactory(t *testing.T) {
	cat := newDeclared(t)

	called := false
	fac := func(p *params.Params) (any, error) {
		called = true
		return &circle{Radius: 1}, nil
	}
	if err := cat.Register(shapeT, kindCircle, circleT, apis.WithFactory(fac)); err != nil {
		t.Fatalf("Register: %v", err)
	}

	members, _ := cat.Members(shapeT)
	if members[0].Factory == nil {
		t.Fatalf("factory not attached")
	}
	if _, err := members[0].Factory(params.New()); err != nil || !called {
		t.Fatalf("factory call: err=%v called=%v", err, called)
	}
}

func TestReset(t *testing.T) {
	cat := newDeclared(t)
	_ = cat.Register(shapeT, kindCircle, circleT)

	cat.Reset()

	if cat.Count() != 0 {
		t.Fatalf("Count() after Reset = %d", cat.Count())
	}
	if _, ok := cat.Family(shapeT); ok {
		t.Fatalf("family survived Reset")
	}
	if _, _, ok := cat.TagOf(circleT); ok {
		t.Fatalf("reverse index survived Reset")
	}
}

// Compile-time interface check.
var _ apis.Catalog = catalog.New(config.DefaultConfig())
