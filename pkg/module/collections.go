package module

import (
	"github.com/rigz-lang/rigz/pkg/types"
	"github.com/rigz-lang/rigz/pkg/value"
)

// CollectionsModule is the core's other capability-seam exerciser
// (StringsModule's sibling): extension methods on List that §8's testable
// scenarios call directly — `[1,2,3].sum` (S2) and `.split_first` (S4) —
// rather than free functions, since nothing in spec.md §8 ever calls them
// as `list.sum(x)` with an explicit free-function receiver argument. A
// full collections standard library (map/filter/reduce/sort/...) is out of
// scope the same way json/fs/random are (spec.md §1); this module exists
// only to give those two named scenarios, plus `len`/`first`/`last` as the
// same shape of trivially-grounded sibling operations, something real to
// compile and dispatch against.
type CollectionsModule struct{}

func (CollectionsModule) Name() string { return "collections" }

func (CollectionsModule) TraitSource() string {
	return `trait Collections
  fn self.sum -> Number
  fn self.len -> Number
  fn self.first -> Any
  fn self.last -> Any
  fn self.split_first -> Tuple
end`
}

func (CollectionsModule) Dependencies() []string { return nil }

func (CollectionsModule) Signatures() []Signature {
	list := types.List(types.Any)
	return []Signature{
		{Name: "sum", Self: &list, VarArgsStart: -1, Ret: types.Num},
		{Name: "len", Self: &list, VarArgsStart: -1, Ret: types.Num},
		{Name: "first", Self: &list, VarArgsStart: -1, Ret: types.Any},
		{Name: "last", Self: &list, VarArgsStart: -1, Ret: types.Any},
		{Name: "split_first", Self: &list, VarArgsStart: -1, Ret: types.Tuple(types.Any, types.List(types.Any))},
	}
}

func (CollectionsModule) Call(fn string, args []value.ObjectValue) value.ObjectValue {
	return value.ErrorV(value.NewInvalidModuleFunction("collections has no free function %q", fn))
}

func (CollectionsModule) CallExtension(self value.ObjectValue, fn string, args []value.ObjectValue) value.ObjectValue {
	if self.Kind != value.KList {
		return value.ErrorV(value.NewUnsupportedOperation("collections.%s is only defined on List, got %s", fn, self.TypeOf()))
	}
	items := self.List.Borrow()
	switch fn {
	case "sum":
		total := value.IntV(0)
		for _, it := range items {
			total = value.EvalBinary(value.OpAdd, total, it)
		}
		return total
	case "len":
		return value.IntV(int64(len(items)))
	case "first":
		if len(items) == 0 {
			return value.None()
		}
		return items[0]
	case "last":
		if len(items) == 0 {
			return value.None()
		}
		return items[len(items)-1]
	case "split_first":
		if len(items) == 0 {
			return value.ErrorV(value.NewRuntime("split_first on empty list"))
		}
		rest := make([]value.ObjectValue, len(items)-1)
		copy(rest, items[1:])
		return value.TupleV(items[0], value.ListV(rest))
	default:
		return value.ErrorV(value.NewInvalidModuleFunction("collections has no extension %q", fn))
	}
}

func (CollectionsModule) CallMutableExtension(self *value.ObjectValue, fn string, args []value.ObjectValue) value.ObjectValue {
	return value.ErrorV(value.NewUnsupportedOperation("collections has no mutable extension %q", fn))
}
