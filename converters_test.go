package parameterized

import (
	"reflect"
	"testing"

	"github.com/DamonGeorge/parameterized/apis"
	"github.com/DamonGeorge/parameterized/params"
)

type uri string

func TestEnumConverter(t *testing.T) {
	byName := map[string]shapeKind{
		"circle": kindCircle,
		"square": kindSquare,
	}
	conv := EnumConverter(byName)

	out, err := conv("circle")
	if err != nil || out != kindCircle {
		t.Fatalf("conv(circle) = (%v,%v)", out, err)
	}

	// Idempotent: already-converted values pass through.
	out, err = conv(kindSquare)
	if err != nil || out != kindSquare {
		t.Fatalf("conv(kindSquare) = (%v,%v)", out, err)
	}

	if _, err := conv("triangle"); err == nil {
		t.Fatalf("unknown name accepted")
	}
	if _, err := conv(42); err == nil {
		t.Fatalf("non-string accepted")
	}
}

func TestEntityConverter(t *testing.T) {
	resetAll(t)
	conv := EntityConverter[demo]()

	out, err := conv(params.New().Set("i", 1).Set("s", "x"))
	if err != nil {
		t.Fatalf("conv(mapping): %v", err)
	}
	d, ok := out.(*demo)
	if !ok || d.I != 1 || d.S != "x" {
		t.Fatalf("built %#v", out)
	}

	// Plain-map form from generic decoders.
	out, err = conv(map[string]any{"i": 2})
	if err != nil || out.(*demo).I != 2 {
		t.Fatalf("conv(map) = (%#v,%v)", out, err)
	}

	// Already-built values pass through.
	same := &demo{I: 9}
	out, err = conv(same)
	if err != nil || out != any(same) {
		t.Fatalf("conv(*demo) = (%#v,%v)", out, err)
	}

	if out, err := conv(nil); err != nil || out != nil {
		t.Fatalf("conv(nil) = (%v,%v)", out, err)
	}
	if _, err := conv("bogus"); err == nil {
		t.Fatalf("string accepted as entity")
	}
}

func TestEntityConverter_FamilyRoot(t *testing.T) {
	resetAll(t)
	declareShapes(t)
	conv := EntityConverter[testShape]()

	out, err := conv(params.New().Set("type", "circle").Set("radius", 2.0))
	if err != nil {
		t.Fatalf("conv: %v", err)
	}
	if c, ok := out.(*testCircle); !ok || c.Radius != 2 {
		t.Fatalf("built %#v", out)
	}

	// A value already satisfying the root passes through.
	sq := &testSquare{Side: 1}
	if out, err := conv(sq); err != nil || out != any(sq) {
		t.Fatalf("passthrough = (%#v,%v)", out, err)
	}
}

func TestFloat64SliceConverter(t *testing.T) {
	conv := Float64SliceConverter()

	out, err := conv([]float64{1, 2})
	if err != nil || !reflect.DeepEqual(out, []float64{1, 2}) {
		t.Fatalf("passthrough = (%#v,%v)", out, err)
	}

	out, err = conv([]any{1.5, 2, int64(3)})
	if err != nil || !reflect.DeepEqual(out, []float64{1.5, 2, 3}) {
		t.Fatalf("mixed numeric = (%#v,%v)", out, err)
	}

	out, err = conv([]int{4, 5})
	if err != nil || !reflect.DeepEqual(out, []float64{4, 5}) {
		t.Fatalf("[]int = (%#v,%v)", out, err)
	}

	if _, err := conv("nope"); err == nil {
		t.Fatalf("scalar accepted")
	}
	if _, err := conv([]any{"x"}); err == nil {
		t.Fatalf("non-numeric element accepted")
	}
	if out, err := conv(nil); err != nil || out != nil {
		t.Fatalf("conv(nil) = (%v,%v)", out, err)
	}
}

func TestTextConverter(t *testing.T) {
	conv := TextConverter[uri]()

	out, err := conv("https://example.com")
	if err != nil || out != uri("https://example.com") {
		t.Fatalf("conv(string) = (%v,%v)", out, err)
	}
	out, err = conv(uri("u"))
	if err != nil || out != uri("u") {
		t.Fatalf("conv(uri) = (%v,%v)", out, err)
	}
	if _, err := conv(42); err == nil {
		t.Fatalf("non-string accepted")
	}
}

func TestRegisterRules_AppliesWholeTable(t *testing.T) {
	resetAll(t)

	table := RuleTable{
		SerializeAttrs: map[string]apis.Converter{
			"i": func(v any) (any, error) { return v.(int) + 1, nil },
		},
		DeserializeAttrs: map[string]apis.Converter{
			"i": func(v any) (any, error) { return v.(int) - 1, nil },
		},
		Excluded: []string{"b"},
	}
	if err := RegisterRules(TypeOf[demo](), table); err != nil {
		t.Fatalf("RegisterRules: %v", err)
	}

	p, err := Serialize(&demo{I: 5, B: true, S: "x"})
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if i, _ := p.Get("i"); i != 6 {
		t.Fatalf("serialize rule not applied: i = %v", i)
	}
	if p.Has("b") {
		t.Fatalf("exclusion not applied: keys = %v", p.Keys())
	}

	dst := &demo{}
	if err := Update(dst, params.New().Set("i", 6)); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if dst.I != 5 {
		t.Fatalf("deserialize rule not applied: i = %d", dst.I)
	}
}
