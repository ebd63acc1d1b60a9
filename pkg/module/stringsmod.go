package module

import (
	"strings"

	"github.com/rigz-lang/rigz/pkg/types"
	"github.com/rigz-lang/rigz/pkg/value"
)

// StringsModule is the minimal native module shipped with the core to
// exercise CallModule/CallExtension/CallMutableExtension end to end (§6.3,
// SPEC_FULL.md §B): `upper("a")` resolves as a free-function call and
// `"a".upper` / `"a".trim` as extension-method calls, plus
// one mutable extension (`push_str`, appending in place through the
// receiver's Cell) to exercise CallMutableExtension specifically.
type StringsModule struct{}

func (StringsModule) Name() string { return "strings" }

func (StringsModule) TraitSource() string {
	return `trait Strings
  fn upper(val: String) -> String
  fn lower(val: String) -> String
  fn self.upper -> String
  fn self.lower -> String
  fn self.trim -> String
  fn self.len -> Number
  fn mut self.push_str(suffix: String)
end`
}

func (StringsModule) Dependencies() []string { return nil }

func (StringsModule) Signatures() []Signature {
	str := types.Str
	return []Signature{
		{Name: "upper", Args: []types.RigzType{types.Str}, VarArgsStart: -1, Ret: types.Str},
		{Name: "lower", Args: []types.RigzType{types.Str}, VarArgsStart: -1, Ret: types.Str},
		{Name: "upper", Self: &str, VarArgsStart: -1, Ret: types.Str},
		{Name: "lower", Self: &str, VarArgsStart: -1, Ret: types.Str},
		{Name: "trim", Self: &str, VarArgsStart: -1, Ret: types.Str},
		{Name: "len", Self: &str, VarArgsStart: -1, Ret: types.Num},
		{Name: "push_str", Self: &str, SelfMutable: true, Args: []types.RigzType{types.Str}, VarArgsStart: -1, Ret: types.None},
	}
}

func (StringsModule) Call(fn string, args []value.ObjectValue) value.ObjectValue {
	if len(args) != 1 || args[0].Kind != value.KString {
		return value.ErrorV(value.NewInvalidModuleFunction("strings.%s expects one String argument", fn))
	}
	return stringsDispatch(fn, args[0].Str)
}

func (StringsModule) CallExtension(self value.ObjectValue, fn string, args []value.ObjectValue) value.ObjectValue {
	if self.Kind != value.KString {
		return value.ErrorV(value.NewUnsupportedOperation("strings.%s is only defined on String, got %s", fn, self.TypeOf()))
	}
	return stringsDispatch(fn, self.Str)
}

func (StringsModule) CallMutableExtension(self *value.ObjectValue, fn string, args []value.ObjectValue) value.ObjectValue {
	if self.Kind != value.KString {
		return value.ErrorV(value.NewUnsupportedOperation("strings.%s is only defined on String, got %s", fn, self.TypeOf()))
	}
	switch fn {
	case "push_str":
		if len(args) != 1 || args[0].Kind != value.KString {
			return value.ErrorV(value.NewInvalidModuleFunction("push_str expects one String argument"))
		}
		self.Str += args[0].Str
		return value.None()
	default:
		return value.ErrorV(value.NewInvalidModuleFunction("strings has no mutable extension %q", fn))
	}
}

func stringsDispatch(fn, s string) value.ObjectValue {
	switch fn {
	case "upper":
		return value.StringV(strings.ToUpper(s))
	case "lower":
		return value.StringV(strings.ToLower(s))
	case "trim":
		return value.StringV(strings.TrimSpace(s))
	case "len":
		return value.IntV(int64(len([]rune(s))))
	default:
		return value.ErrorV(value.NewInvalidModuleFunction("strings has no function %q", fn))
	}
}
