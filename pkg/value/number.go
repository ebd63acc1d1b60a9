package value

import (
	"math"
	"strconv"
)

// NumKind discriminates Number's two representations (spec §3.1: "Numbers
// are Int(i64) ∪ Float(f64) with an ordered total order where NaN is
// disallowed").
type NumKind uint8

const (
	NumInt NumKind = iota
	NumFloat
)

// Number is Rigz's numeric tower: a 64-bit two's-complement int or an
// IEEE-754 double, promoted to Float on mixed arithmetic (§4.5).
type Number struct {
	Kind  NumKind
	Int   int64
	Float float64
}

func Int(v int64) Number     { return Number{Kind: NumInt, Int: v} }
func Flt(v float64) Number   { return Number{Kind: NumFloat, Float: v} }
func ZeroNumber() Number     { return Number{Kind: NumInt, Int: 0} }
func OneNumber() Number      { return Number{Kind: NumInt, Int: 1} }
func (n Number) IsZero() bool {
	if n.Kind == NumInt {
		return n.Int == 0
	}
	return n.Float == 0
}

func (n Number) AsFloat() float64 {
	if n.Kind == NumInt {
		return float64(n.Int)
	}
	return n.Float
}

func (n Number) String() string {
	if n.Kind == NumInt {
		return strconv.FormatInt(n.Int, 10)
	}
	return strconv.FormatFloat(n.Float, 'g', -1, 64)
}

// promote returns both operands as Float when either is Float.
func promote(a, b Number) (float64, float64, bool) {
	if a.Kind == NumFloat || b.Kind == NumFloat {
		return a.AsFloat(), b.AsFloat(), true
	}
	return 0, 0, false
}

// Add implements Int+Int wrapping-free 64-bit addition (overflow is an
// Error per §4.5) and mixed/float addition with NaN rejection.
func (n Number) Add(o Number) (Number, *VMError) {
	if fa, fb, isFloat := promote(n, o); isFloat {
		r := fa + fb
		if math.IsNaN(r) {
			e := NewRuntime("Addition produced NaN")
			return Number{}, &e
		}
		return Flt(r), nil
	}
	r := n.Int + o.Int
	if (o.Int > 0 && r < n.Int) || (o.Int < 0 && r > n.Int) {
		e := NewRuntime("Int overflow: %d + %d", n.Int, o.Int)
		return Number{}, &e
	}
	return Int(r), nil
}

func (n Number) Sub(o Number) (Number, *VMError) {
	if fa, fb, isFloat := promote(n, o); isFloat {
		r := fa - fb
		if math.IsNaN(r) {
			e := NewRuntime("Subtraction produced NaN")
			return Number{}, &e
		}
		return Flt(r), nil
	}
	r := n.Int - o.Int
	if (o.Int < 0 && r < n.Int) || (o.Int > 0 && r > n.Int) {
		e := NewRuntime("Int overflow: %d - %d", n.Int, o.Int)
		return Number{}, &e
	}
	return Int(r), nil
}

func (n Number) Mul(o Number) (Number, *VMError) {
	if fa, fb, isFloat := promote(n, o); isFloat {
		r := fa * fb
		if math.IsNaN(r) {
			e := NewRuntime("Multiplication produced NaN")
			return Number{}, &e
		}
		return Flt(r), nil
	}
	if n.Int != 0 && o.Int != 0 {
		r := n.Int * o.Int
		if r/o.Int != n.Int {
			e := NewRuntime("Int overflow: %d * %d", n.Int, o.Int)
			return Number{}, &e
		}
		return Int(r), nil
	}
	return Int(0), nil
}

func (n Number) Div(o Number) (Number, *VMError) {
	if fa, fb, isFloat := promote(n, o); isFloat {
		if fb == 0 {
			e := NewRuntime("Division by zero")
			return Number{}, &e
		}
		r := fa / fb
		if math.IsNaN(r) {
			e := NewRuntime("Division produced NaN")
			return Number{}, &e
		}
		return Flt(r), nil
	}
	if o.Int == 0 {
		e := NewRuntime("Division by zero")
		return Number{}, &e
	}
	return Int(n.Int / o.Int), nil
}

func (n Number) Rem(o Number) (Number, *VMError) {
	if fa, fb, isFloat := promote(n, o); isFloat {
		if fb == 0 {
			e := NewRuntime("Division by zero")
			return Number{}, &e
		}
		return Flt(math.Mod(fa, fb)), nil
	}
	if o.Int == 0 {
		e := NewRuntime("Division by zero")
		return Number{}, &e
	}
	return Int(n.Int % o.Int), nil
}

func (n Number) Neg() Number {
	if n.Kind == NumInt {
		return Int(-n.Int)
	}
	return Flt(-n.Float)
}

// Shl/Shr wrap per spec §4.5 ("wrapping semantics only for shifts").
func (n Number) Shl(o Number) Number { return Int(n.toInt() << uint(o.toInt()&63)) }
func (n Number) Shr(o Number) Number { return Int(n.toInt() >> uint(o.toInt()&63)) }
func (n Number) And(o Number) Number { return Int(n.toInt() & o.toInt()) }
func (n Number) Or(o Number) Number  { return Int(n.toInt() | o.toInt()) }
func (n Number) Xor(o Number) Number { return Int(n.toInt() ^ o.toInt()) }

func (n Number) toInt() int64 {
	if n.Kind == NumInt {
		return n.Int
	}
	return int64(n.Float)
}

// Cmp gives a total order over numbers (used by Compare and by sort).
func (n Number) Cmp(o Number) int {
	if n.Kind == NumInt && o.Kind == NumInt {
		switch {
		case n.Int < o.Int:
			return -1
		case n.Int > o.Int:
			return 1
		default:
			return 0
		}
	}
	a, b := n.AsFloat(), o.AsFloat()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (n Number) Equal(o Number) bool { return n.Cmp(o) == 0 }

// ParseNumber parses a Rigz numeric literal / coercion source (§4.5's
// `as Number`): integers parse as Int, anything with a '.' or exponent
// parses as Float.
func ParseNumber(s string) (Number, bool) {
	if iv, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(iv), true
	}
	if fv, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsNaN(fv) {
			return Number{}, false
		}
		return Flt(fv), true
	}
	return Number{}, false
}
