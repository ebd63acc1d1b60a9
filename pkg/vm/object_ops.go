package vm

import (
	"github.com/rigz-lang/rigz/pkg/bytecode"
	"github.com/rigz-lang/rigz/pkg/value"
)

// instanceGet implements §3.2's indexed/field-access family for every
// composite ObjectValue kind: List/Tuple/String/Range by integer index,
// Map by hashed key, Set as a membership test, and Object/Enum by named
// field.
func (v *VM) instanceGet(target, key value.ObjectValue) value.ObjectValue {
	switch target.Kind {
	case value.KList:
		idx, ok := indexOf(key, len(target.Items()))
		if !ok {
			return value.ErrorV(value.NewRuntime("index out of bounds"))
		}
		return target.Items()[idx]
	case value.KTuple:
		idx, ok := indexOf(key, len(target.Tuple))
		if !ok {
			return value.ErrorV(value.NewRuntime("index out of bounds"))
		}
		return target.Tuple[idx]
	case value.KString:
		runes := []rune(target.Str)
		idx, ok := indexOf(key, len(runes))
		if !ok {
			return value.ErrorV(value.NewRuntime("index out of bounds"))
		}
		return value.StringV(string(runes[idx]))
	case value.KRange:
		items := target.Rng.ToSlice()
		idx, ok := indexOf(key, len(items))
		if !ok {
			return value.ErrorV(value.NewRuntime("index out of bounds"))
		}
		return value.IntV(items[idx])
	case value.KMap:
		if pair, ok := target.Map.Data.Get(key.Hash()); ok {
			return pair.Val
		}
		return value.None()
	case value.KSet:
		_, ok := target.Set.Data.Get(key.Hash())
		return value.BoolV(ok)
	case value.KEnum:
		switch key.Str {
		case "variant":
			return value.IntV(int64(target.Enum.Variant))
		case "payload":
			if target.Enum.Payload != nil {
				return *target.Enum.Payload
			}
			return value.None()
		}
		return value.None()
	case value.KObject:
		if s, ok := target.Object.(*structInstance); ok {
			if v, ok := s.get(key.Str); ok {
				return v
			}
		}
		return value.ErrorV(value.NewUnsupportedOperation("no field %q on %s", key.Str, target.TypeOf()))
	default:
		return value.ErrorV(value.NewUnsupportedOperation("cannot index into %s", target.TypeOf()))
	}
}

func indexOf(key value.ObjectValue, n int) (int, bool) {
	if key.Kind != value.KNumber {
		return 0, false
	}
	idx := int(key.Num.Int)
	if idx < 0 {
		idx += n
	}
	if idx < 0 || idx >= n {
		return 0, false
	}
	return idx, true
}

// instanceSet implements `base.path [op]= value` for the mutable composite
// kinds; List/Map mutate their shared cell in place (§3.2: values read
// through any alias observe the write), Tuple and String are immutable
// (no-op), matching Rigz's own distinction between value and reference
// composite types.
func (v *VM) instanceSet(target, key, val value.ObjectValue) {
	switch target.Kind {
	case value.KList:
		items := target.Items()
		idx, ok := indexOf(key, len(items))
		if ok {
			items[idx] = val
		}
	case value.KMap:
		target.Map.Data.Set(key.Hash(), value.MapPair{Key: key, Val: val})
	case value.KSet:
		target.Set.Data.Set(key.Hash(), key)
	case value.KObject:
		if s, ok := target.Object.(*structInstance); ok {
			s.set(key.Str, val)
		}
	}
}

// execCreateObject lowers CreateObject for both the reserved builtin
// pseudo-types (List/Set/Map/Tuple/Range, §"no dedicated collection-literal
// opcode") and genuine user `object` declarations.
func (v *VM) execCreateObject(ins bytecode.Instruction) {
	switch ins.TypeName {
	case "List":
		v.push(value.ListV(v.popN(ins.Args)))
	case "Set":
		v.push(value.SetV(v.popN(ins.Args)))
	case "Tuple":
		v.push(value.TupleV(v.popN(ins.Args)...))
	case "Range":
		bounds := v.popN(2)
		v.push(value.RangeV(value.ValueRange{Start: bounds[0].Num.Int, End: bounds[1].Num.Int}))
	case "Map":
		raw := v.popN(ins.Args)
		pairs := make([]value.MapPair, 0, len(raw)/2)
		for i := 0; i+1 < len(raw); i += 2 {
			pairs = append(pairs, value.MapPair{Key: raw[i], Val: raw[i+1]})
		}
		v.push(value.MapV(pairs))
	default:
		fieldVals := v.popN(ins.Args)
		decl, ok := v.prog.Objects[ins.TypeName]
		var order []string
		if ok {
			order = make([]string, len(decl.Fields))
			for i, f := range decl.Fields {
				order[i] = f.Name
			}
		}
		v.push(value.ObjectV(newStructInstance(ins.TypeName, order, fieldVals)))
	}
}
