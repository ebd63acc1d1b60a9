package compiler

import "github.com/rigz-lang/rigz/pkg/types"

// resolveType maps a surface type name (as retained by the parser off
// Param.Type/FunctionDef.ReturnType/CastExpr.TypeName) onto the RigzType
// lattice (§3.3). User Custom/Enum names fall back to an Enum reference if
// declared, else a Custom reference with no recorded fields (resolved
// loosely since the parser does not carry a full type-expression grammar
// for wrapper/union/composite forms — §9 leaves this underspecified and
// this port resolves only the primitive/composite/user-name cases the
// instruction set actually needs for dispatch).
func (c *Compiler) resolveType(name string) types.RigzType {
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
	if decl, ok := c.prog.Enums[name]; ok {
		return types.Enum(decl.Name)
	}
	if decl, ok := c.prog.Objects[name]; ok {
		return types.Custom(decl.Name, decl.Fields...)
	}
	return types.Custom(name)
}
