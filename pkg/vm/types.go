package vm

import "github.com/rigz-lang/rigz/pkg/types"

// resolveTypeName maps Cast/CreateObject's surface TypeName string onto the
// RigzType lattice, the same way pkg/compiler's resolveType does at compile
// time — duplicated rather than shared because the compiler's version also
// consults its own in-progress Enums/Objects maps mid-compilation, while
// this one consults the already-finished compiler.Program.
func (v *VM) resolveTypeName(name string) types.RigzType {
	switch name {
	case "", "Any":
		return types.Any
	case "None":
		return types.None
	case "Bool":
		return types.Bool
	case "Int":
		return types.Int
	case "Float":
		return types.Float
	case "Number":
		return types.Num
	case "String":
		return types.Str
	case "Range":
		return types.Range
	case "Error":
		return types.Err
	case "Type":
		return types.Typ
	case "Never":
		return types.Never
	case "This":
		return types.This
	case "List":
		return types.List(types.Any)
	case "Set":
		return types.Set(types.Any)
	case "Map":
		return types.Map(types.Any, types.Any)
	}
	if decl, ok := v.prog.Enums[name]; ok {
		return types.Enum(decl.Name)
	}
	if decl, ok := v.prog.Objects[name]; ok {
		return types.Custom(decl.Name, decl.Fields...)
	}
	return types.Custom(name)
}
