package value

import (
	"strconv"

	"github.com/rigz-lang/rigz/pkg/types"
)

// Cast performs the `as T` coercions named in §4.5. Failure yields an Error
// value rather than a Go error, matching Rigz's "errors are first-class"
// model — callers that need to distinguish failure from a successful cast
// to an Error-typed value should check Kind == KError on the Cast target.
func (o ObjectValue) Cast(target types.RigzType) ObjectValue {
	switch target.Kind {
	case types.KindInt:
		return o.castToNumber(true)
	case types.KindFloat:
		return o.castToNumber(false)
	case types.KindNumber:
		return o.castToNumber(o.Kind != KNumber || o.Num.Kind == NumInt)
	case types.KindString:
		return StringV(o.String())
	case types.KindBool:
		return BoolV(o.Truthy())
	case types.KindAny:
		return o
	default:
		return ErrorV(NewConversion("Cannot convert %s to %s", o.TypeOf(), target))
	}
}

func (o ObjectValue) castToNumber(wantInt bool) ObjectValue {
	var n Number
	switch o.Kind {
	case KNone:
		n = ZeroNumber()
	case KBool:
		if o.Bool {
			n = OneNumber()
		} else {
			n = ZeroNumber()
		}
	case KNumber:
		n = o.Num
	case KString:
		parsed, ok := ParseNumber(o.Str)
		if !ok {
			return ErrorV(NewConversion("Cannot convert %q to Number", o.Str))
		}
		n = parsed
	default:
		return ErrorV(NewConversion("Cannot convert %s to Number", o.TypeOf()))
	}
	if wantInt && n.Kind == NumFloat {
		n = Int(int64(n.Float))
	} else if !wantInt && n.Kind == NumInt {
		n = Flt(float64(n.Int))
	}
	return NumV(n)
}

// FormatForDisplay renders v the way Display/Log instructions interpolate
// `{}` placeholders: strings render without quotes, everything else uses
// String().
func (o ObjectValue) FormatForDisplay() string {
	if o.Kind == KString {
		return o.Str
	}
	return o.String()
}

// quoteString renders s with its quotes visible, for debug-style output;
// nothing in the module calls it.
func quoteString(s string) string { return strconv.Quote(s) }
