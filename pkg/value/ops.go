package value

// BinaryOperation enumerates the infix operators lowered by Binary/
// BinaryAssign instructions (§4.2's Pratt table, §4.4).
type BinaryOperation uint8

const (
	OpAdd BinaryOperation = iota
	OpSub
	OpMul
	OpDiv
	OpRem
	OpAnd
	OpOr
	OpBitAnd
	OpBitOr
	OpXor
	OpShl
	OpShr
	OpEq
	OpNeq
	OpLt
	OpLte
	OpGt
	OpGte
	OpElvis
)

// UnaryOperation enumerates the prefix operators and the debug-display
// "tap" operators (§4.4: "Neg, Not, Reverse, Print*, EPrint*").
type UnaryOperation uint8

const (
	OpNeg UnaryOperation = iota
	OpNot
	OpReverse
	OpPrint
	OpEPrint
	OpPrintLn
	OpEPrintLn
)

// BinaryAssignOperation enumerates the compound-assignment operators
// (`+= -= *= /= ...`) lowered by BinaryAssign.
type BinaryAssignOperation = BinaryOperation

// EvalBinary applies op to (lhs, rhs), returning an Error value (not a Go
// error) on any failure — division by zero, overflow, NaN, or an
// unsupported combination of kinds (§4.4, §4.5).
func EvalBinary(op BinaryOperation, lhs, rhs ObjectValue) ObjectValue {
	switch op {
	case OpAdd:
		return addValues(lhs, rhs)
	case OpSub:
		return arithNumeric(lhs, rhs, Number.Sub, "-")
	case OpMul:
		return arithNumeric(lhs, rhs, Number.Mul, "*")
	case OpDiv:
		return arithNumeric(lhs, rhs, Number.Div, "/")
	case OpRem:
		return arithNumeric(lhs, rhs, Number.Rem, "%")
	case OpAnd:
		return BoolV(lhs.Truthy() && rhs.Truthy())
	case OpOr:
		return BoolV(lhs.Truthy() || rhs.Truthy())
	case OpBitAnd:
		return bitwiseNumeric(lhs, rhs, Number.And)
	case OpBitOr:
		return bitwiseNumeric(lhs, rhs, Number.Or)
	case OpXor:
		return bitwiseNumeric(lhs, rhs, Number.Xor)
	case OpShl:
		return bitwiseNumeric(lhs, rhs, Number.Shl)
	case OpShr:
		return bitwiseNumeric(lhs, rhs, Number.Shr)
	case OpEq:
		return BoolV(lhs.Equal(rhs))
	case OpNeq:
		return BoolV(!lhs.Equal(rhs))
	case OpLt:
		return BoolV(lhs.Compare(rhs) < 0)
	case OpLte:
		return BoolV(lhs.Compare(rhs) <= 0)
	case OpGt:
		return BoolV(lhs.Compare(rhs) > 0)
	case OpGte:
		return BoolV(lhs.Compare(rhs) >= 0)
	case OpElvis:
		if lhs.Kind == KNone || lhs.Kind == KError {
			return rhs
		}
		return lhs
	default:
		return ErrorV(NewUnsupportedOperation("Unsupported binary operation"))
	}
}

// addValues handles the one binary op where non-numeric operands have
// well-defined behavior: string/list concatenation, plus List's "cons" form
// on either side (§8's S4: `1 + [2,3]` is `[1,2,3]`, a scalar prepended to a
// List exactly as `[2,3] + 1` appends one).
func addValues(lhs, rhs ObjectValue) ObjectValue {
	if lhs.Kind == KString || rhs.Kind == KString {
		return StringV(lhs.FormatForDisplay() + rhs.FormatForDisplay())
	}
	if lhs.Kind == KList || rhs.Kind == KList {
		left := lhs.Items()
		if lhs.Kind != KList {
			left = []ObjectValue{lhs}
		}
		right := rhs.Items()
		if rhs.Kind != KList {
			right = []ObjectValue{rhs}
		}
		return ListV(append(append([]ObjectValue{}, left...), right...))
	}
	return arithNumeric(lhs, rhs, Number.Add, "+")
}

func arithNumeric(lhs, rhs ObjectValue, f func(Number, Number) (Number, *VMError), sym string) ObjectValue {
	ln, lok := asNumber(lhs)
	rn, rok := asNumber(rhs)
	if !lok || !rok {
		return ErrorV(NewUnsupportedOperation("Cannot apply %s to %s and %s", sym, lhs.TypeOf(), rhs.TypeOf()))
	}
	r, err := f(ln, rn)
	if err != nil {
		return ErrorV(*err)
	}
	return NumV(r)
}

func bitwiseNumeric(lhs, rhs ObjectValue, f func(Number, Number) Number) ObjectValue {
	ln, lok := asNumber(lhs)
	rn, rok := asNumber(rhs)
	if !lok || !rok {
		return ErrorV(NewUnsupportedOperation("Cannot apply bitwise operation to %s and %s", lhs.TypeOf(), rhs.TypeOf()))
	}
	return NumV(f(ln, rn))
}

func asNumber(v ObjectValue) (Number, bool) {
	switch v.Kind {
	case KNumber:
		return v.Num, true
	case KBool:
		if v.Bool {
			return OneNumber(), true
		}
		return ZeroNumber(), true
	case KNone:
		return ZeroNumber(), true
	default:
		return Number{}, false
	}
}

// EvalUnary applies op to v. Print-family operators are handled by the VM
// (they need access to the output sink); EvalUnary covers the pure
// transformations (Neg, Not, Reverse).
func EvalUnary(op UnaryOperation, v ObjectValue) ObjectValue {
	switch op {
	case OpNeg:
		n, ok := asNumber(v)
		if !ok {
			return ErrorV(NewUnsupportedOperation("Cannot negate %s", v.TypeOf()))
		}
		return NumV(n.Neg())
	case OpNot:
		return BoolV(!v.Truthy())
	case OpReverse:
		return reverseValue(v)
	default:
		return v
	}
}

func reverseValue(v ObjectValue) ObjectValue {
	switch v.Kind {
	case KString:
		runes := []rune(v.Str)
		for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
			runes[i], runes[j] = runes[j], runes[i]
		}
		return StringV(string(runes))
	case KList:
		items := v.Items()
		out := make([]ObjectValue, len(items))
		for i, it := range items {
			out[len(items)-1-i] = it
		}
		return ListV(out)
	default:
		return ErrorV(NewUnsupportedOperation("Cannot reverse %s", v.TypeOf()))
	}
}
