package value

import (
	"testing"

	"github.com/rigz-lang/rigz/pkg/snapshot"
	"github.com/rigz-lang/rigz/pkg/types"
)

// roundTrip checks §8 property 1: decode(encode(v)) == v for every
// non-Object ObjectValue.
func roundTrip(t *testing.T, v ObjectValue) ObjectValue {
	t.Helper()
	w := snapshot.NewWriter()
	if err := v.Encode(w); err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := Decode(snapshot.NewReader(w.Bytes()))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return got
}

func TestSnapshotRoundTrip(t *testing.T) {
	cases := []ObjectValue{
		None(),
		BoolV(true),
		BoolV(false),
		IntV(42),
		IntV(-7),
		FloatV(3.5),
		StringV("hello"),
		ListV([]ObjectValue{IntV(1), StringV("a"), BoolV(true)}),
		TupleV(IntV(1), IntV(2)),
		SetV([]ObjectValue{IntV(1), IntV(2)}),
		MapV([]MapPair{{Key: StringV("k"), Val: IntV(1)}}),
		ErrorV(NewRuntime("boom")),
		EnumV(0, 1, nil),
	}
	for _, v := range cases {
		got := roundTrip(t, v)
		if !got.Equal(v) {
			t.Errorf("round-trip mismatch: %s vs %s", got.String(), v.String())
		}
	}
}

func TestArithmeticIdentity(t *testing.T) {
	// §8 property 2: x + 0 == x and x * 1 == x.
	for _, x := range []ObjectValue{IntV(5), FloatV(2.5), IntV(-3)} {
		sum := EvalBinary(OpAdd, x, IntV(0))
		if !sum.Equal(x) {
			t.Errorf("%s + 0 = %s, want %s", x.String(), sum.String(), x.String())
		}
		prod := EvalBinary(OpMul, x, IntV(1))
		if !prod.Equal(x) {
			t.Errorf("%s * 1 = %s, want %s", x.String(), prod.String(), x.String())
		}
	}
}

func TestEqualityReflexivity(t *testing.T) {
	// §8 property 3: every value equals itself except Error (unless kind
	// and message both match).
	vals := []ObjectValue{None(), BoolV(true), IntV(1), StringV("x"), ListV(nil)}
	for _, v := range vals {
		if !v.Equal(v) {
			t.Errorf("%s is not equal to itself", v.String())
		}
	}
	e1 := ErrorV(NewRuntime("boom"))
	e2 := ErrorV(NewRuntime("boom"))
	if !e1.Equal(e2) {
		t.Error("errors with matching kind/message should be equal")
	}
	e3 := ErrorV(NewRuntime("other"))
	if e1.Equal(e3) {
		t.Error("errors with differing messages should not be equal")
	}
}

func TestFalsyCrossKindEquality(t *testing.T) {
	// §3.1: "none == false == 0 == \"\" == [] == {}"
	falsy := []ObjectValue{None(), BoolV(false), IntV(0), FloatV(0), StringV(""), ListV(nil), SetV(nil), MapV(nil)}
	for i, a := range falsy {
		for j, b := range falsy {
			if !a.Equal(b) {
				t.Errorf("falsy[%d]=%s should equal falsy[%d]=%s", i, a.String(), j, b.String())
			}
		}
	}
}

func TestTruthiness(t *testing.T) {
	falsy := []ObjectValue{None(), BoolV(false), IntV(0), FloatV(0), StringV(""), ListV(nil), SetV(nil), MapV(nil), RangeV(ValueRange{Start: 1, End: 0})}
	for _, v := range falsy {
		if v.Truthy() {
			t.Errorf("%s should be falsy", v.String())
		}
	}
	truthy := []ObjectValue{BoolV(true), IntV(1), StringV("x"), ListV([]ObjectValue{IntV(1)}), ErrorV(NewRuntime("x"))}
	for _, v := range truthy {
		if !v.Truthy() {
			t.Errorf("%s should be truthy", v.String())
		}
	}
}

func TestOrderingVariantPriority(t *testing.T) {
	// §3.1: "Error < Type < None < Bool < Number < Range < String < Tuple
	// < List < Set < Map"
	ordered := []ObjectValue{
		ErrorV(NewRuntime("x")),
		TypeV(types.Int),
		None(),
		BoolV(true),
		IntV(1),
		RangeV(ValueRange{}),
		StringV("a"),
		TupleV(IntV(1)),
		ListV([]ObjectValue{IntV(1)}),
		SetV([]ObjectValue{IntV(1)}),
		MapV([]MapPair{{Key: StringV("k"), Val: IntV(1)}}),
	}
	for i := 0; i < len(ordered)-1; i++ {
		if ordered[i].Compare(ordered[i+1]) >= 0 {
			t.Errorf("expected %s < %s", ordered[i].String(), ordered[i+1].String())
		}
	}
}

func TestDivisionByZeroYieldsError(t *testing.T) {
	result := EvalBinary(OpDiv, IntV(1), IntV(0))
	if result.Kind != KError {
		t.Fatalf("expected Error, got %s", result.String())
	}
}

func TestCastStringToNumberFailure(t *testing.T) {
	result := StringV("abc").Cast(types.Num)
	if result.Kind != KError {
		t.Fatalf("expected Error casting %q to Number, got %s", "abc", result.String())
	}
}

func TestCastRoundTrips(t *testing.T) {
	if got := IntV(5).Cast(types.Float); got.Kind != KNumber || got.Num.Kind != NumFloat {
		t.Errorf("Int->Float cast failed: %#v", got)
	}
	if got := StringV("42").Cast(types.Num); got.Kind != KNumber || got.Num.Int != 42 {
		t.Errorf("String->Number cast failed: %#v", got)
	}
	if got := IntV(0).Cast(types.Bool); got.Kind != KBool || got.Bool != false {
		t.Errorf("Int->Bool cast failed: %#v", got)
	}
}

func TestElvisOperator(t *testing.T) {
	lhs := None()
	got := EvalBinary(OpElvis, lhs, IntV(7))
	if !got.Equal(IntV(7)) {
		t.Errorf("none ?: 7 = %s, want 7", got.String())
	}
	got2 := EvalBinary(OpElvis, IntV(3), IntV(7))
	if !got2.Equal(IntV(3)) {
		t.Errorf("3 ?: 7 = %s, want 3", got2.String())
	}
}
