// Package types implements the Rigz type lattice (RigzType, spec §3.3).
//
// RigzType is a sum type. Rather than model it as a Go interface with one
// implementation per variant (which would force every caller to type-switch
// for even the simplest comparisons), it is modeled the way the teacher
// models its own small sum types (vm.Cell-tagged opcodes, asm's labelSite
// variants): a single struct carrying a Kind discriminant plus the payload
// fields relevant to that Kind. Equal/String are the only operations that
// need to branch on Kind.
package types

import (
	"fmt"
	"strings"
)

// Kind discriminates the RigzType sum.
type Kind uint8

const (
	KindNone Kind = iota
	KindBool
	KindInt
	KindFloat
	KindNumber
	KindString
	KindRange
	KindError
	KindType
	KindAny
	KindNever
	KindThis
	KindList
	KindSet
	KindMap
	KindTuple
	KindFunction
	KindCustom
	KindEnum
	KindWrapper
	KindUnion
	KindComposite
)

var kindNames = map[Kind]string{
	KindNone:      "None",
	KindBool:      "Bool",
	KindInt:       "Int",
	KindFloat:     "Float",
	KindNumber:    "Number",
	KindString:    "String",
	KindRange:     "Range",
	KindError:     "Error",
	KindType:      "Type",
	KindAny:       "Any",
	KindNever:     "Never",
	KindThis:      "This",
	KindList:      "List",
	KindSet:       "Set",
	KindMap:       "Map",
	KindTuple:     "Tuple",
	KindFunction:  "Function",
	KindCustom:    "Custom",
	KindEnum:      "Enum",
	KindWrapper:   "Wrapper",
	KindUnion:     "Union",
	KindComposite: "Composite",
}

// Field is a (name, type) pair used by Custom type declarations.
type Field struct {
	Name string
	Type RigzType
}

// RigzType is the full Rigz type lattice: primitives, composites,
// user-defined types, and the two meta-types (Wrapper, Union/Composite).
type RigzType struct {
	Kind Kind

	// List(elem) / Set(elem) / Wrapper{base}
	Elem *RigzType

	// Map(key, val)
	Key *RigzType
	Val *RigzType

	// Tuple(elems) / Union(types) / Composite(types)
	Elems []RigzType

	// Function(args, ret)
	Args []RigzType
	Ret  *RigzType

	// Custom{name, fields} / Enum(name)
	Name   string
	Fields []Field

	// Wrapper{optional, can_return_error}
	Optional       bool
	CanReturnError bool
}

// Simple type constructors for the primitive and meta-only kinds.
var (
	None  = RigzType{Kind: KindNone}
	Bool  = RigzType{Kind: KindBool}
	Int   = RigzType{Kind: KindInt}
	Float = RigzType{Kind: KindFloat}
	Num   = RigzType{Kind: KindNumber}
	Str   = RigzType{Kind: KindString}
	Range = RigzType{Kind: KindRange}
	Err   = RigzType{Kind: KindError}
	Typ   = RigzType{Kind: KindType}
	Any   = RigzType{Kind: KindAny}
	Never = RigzType{Kind: KindNever}
	This  = RigzType{Kind: KindThis}
)

// List builds a List(elem) type.
func List(elem RigzType) RigzType { return RigzType{Kind: KindList, Elem: &elem} }

// Set builds a Set(elem) type.
func Set(elem RigzType) RigzType { return RigzType{Kind: KindSet, Elem: &elem} }

// Map builds a Map(key, val) type.
func Map(key, val RigzType) RigzType { return RigzType{Kind: KindMap, Key: &key, Val: &val} }

// Tuple builds a Tuple(elems) type.
func Tuple(elems ...RigzType) RigzType { return RigzType{Kind: KindTuple, Elems: elems} }

// Function builds a Function(args, ret) type.
func Function(ret RigzType, args ...RigzType) RigzType {
	return RigzType{Kind: KindFunction, Args: args, Ret: &ret}
}

// Custom builds a user-defined struct type.
func Custom(name string, fields ...Field) RigzType {
	return RigzType{Kind: KindCustom, Name: name, Fields: fields}
}

// Enum builds a reference to a user-defined enum type by name.
func Enum(name string) RigzType { return RigzType{Kind: KindEnum, Name: name} }

// Wrapper builds a T?/T!/T!? meta-type: optional marks T?, canReturnError
// marks T!, both marks T!?.
func Wrapper(base RigzType, optional, canReturnError bool) RigzType {
	return RigzType{Kind: KindWrapper, Elem: &base, Optional: optional, CanReturnError: canReturnError}
}

// Union builds an A||B||... type.
func Union(types ...RigzType) RigzType { return RigzType{Kind: KindUnion, Elems: types} }

// Composite builds an A&B&... type.
func Composite(types ...RigzType) RigzType { return RigzType{Kind: KindComposite, Elems: types} }

// Equal reports whether two RigzType values denote the same type.
func (t RigzType) Equal(o RigzType) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case KindList, KindSet:
		return t.Elem.Equal(*o.Elem)
	case KindMap:
		return t.Key.Equal(*o.Key) && t.Val.Equal(*o.Val)
	case KindTuple, KindUnion, KindComposite:
		if len(t.Elems) != len(o.Elems) {
			return false
		}
		for i := range t.Elems {
			if !t.Elems[i].Equal(o.Elems[i]) {
				return false
			}
		}
		return true
	case KindFunction:
		if len(t.Args) != len(o.Args) || !t.Ret.Equal(*o.Ret) {
			return false
		}
		for i := range t.Args {
			if !t.Args[i].Equal(o.Args[i]) {
				return false
			}
		}
		return true
	case KindCustom:
		return t.Name == o.Name
	case KindEnum:
		return t.Name == o.Name
	case KindWrapper:
		return t.Optional == o.Optional && t.CanReturnError == o.CanReturnError && t.Elem.Equal(*o.Elem)
	default:
		return true
	}
}

// Assignable reports whether a value of type t may be used where a value of
// type want is expected, per §4.6's overload-matching rule: "Any matches
// anything", This is resolved against the receiver's concrete type by the
// caller before Assignable is consulted, and Never assigns to nothing.
func (t RigzType) Assignable(want RigzType) bool {
	if want.Kind == KindAny {
		return true
	}
	if t.Kind == KindNever {
		return false
	}
	if want.Kind == KindUnion {
		for _, alt := range want.Elems {
			if t.Assignable(alt) {
				return true
			}
		}
		return false
	}
	if t.Kind == KindNumber && (want.Kind == KindInt || want.Kind == KindFloat) {
		return true
	}
	if (t.Kind == KindInt || t.Kind == KindFloat) && want.Kind == KindNumber {
		return true
	}
	return t.Equal(want)
}

// String renders the type in Rigz's own surface syntax, e.g. "List(Int)",
// "Map(String, Any)", "Int!?".
func (t RigzType) String() string {
	switch t.Kind {
	case KindList:
		return fmt.Sprintf("List(%s)", t.Elem)
	case KindSet:
		return fmt.Sprintf("Set(%s)", t.Elem)
	case KindMap:
		return fmt.Sprintf("Map(%s, %s)", t.Key, t.Val)
	case KindTuple:
		return fmt.Sprintf("(%s)", joinTypes(t.Elems, ", "))
	case KindFunction:
		return fmt.Sprintf("Function(%s) -> %s", joinTypes(t.Args, ", "), t.Ret)
	case KindCustom:
		return t.Name
	case KindEnum:
		return t.Name
	case KindWrapper:
		s := t.Elem.String()
		if t.CanReturnError {
			s += "!"
		}
		if t.Optional {
			s += "?"
		}
		return s
	case KindUnion:
		return joinTypes(t.Elems, "||")
	case KindComposite:
		return joinTypes(t.Elems, "&")
	default:
		if t.Kind == KindAny && t.Name != "" {
			return t.Name
		}
		if name, ok := kindNames[t.Kind]; ok {
			return name
		}
		return "Unknown"
	}
}

func joinTypes(types []RigzType, sep string) string {
	parts := make([]string, len(types))
	for i, ty := range types {
		parts[i] = ty.String()
	}
	return strings.Join(parts, sep)
}
