// Package value implements Rigz's runtime value model: ObjectValue (§3.1),
// the numeric tower, VMError, and the equality/ordering/truthiness rules
// every other stage of the pipeline relies on (§8).
package value

import (
	"fmt"
	"strings"
	"sync"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/rigz-lang/rigz/pkg/types"
)

// ObjKind discriminates the ObjectValue sum (§3.1's variant table).
type ObjKind uint8

const (
	KNone ObjKind = iota
	KBool
	KNumber
	KString
	KRange
	KError
	KType
	KList
	KSet
	KMap
	KTuple
	KEnum
	KObject
	// KScope is a first-class reference to a compiled scope (a lambda/block
	// literal or named function used as a value, e.g. passed to `spawn` or
	// stored in a variable) — not present in the original Value enum, which
	// predates closures-as-values; added here since Go has no bare "function
	// pointer into the bytecode table" primitive of its own to lean on.
	KScope
)

// MapPair is one insertion-ordered (key, value) entry of a Map value.
type MapPair struct {
	Key ObjectValue
	Val ObjectValue
}

// MapData is the insertion-ordered mapping backing Map values (§3.1:
// "insertion order preserved"), keyed by the canonical hash of the key
// ObjectValue since ObjectValue itself is not a comparable Go type (it may
// embed slices/pointers).
type MapData = orderedmap.OrderedMap[string, MapPair]

// SetData is the insertion-ordered unique element set backing Set values.
type SetData = orderedmap.OrderedMap[string, ObjectValue]

// EnumValue is an instance of a user-declared sum type (§3.1).
type EnumValue struct {
	EnumType int
	Variant  int
	Payload  *ObjectValue
}

// Handle is implemented by native-registered Object types (§6.3's
// Dependency / Object concept). The VM treats handles opaquely and routes
// CallObject* instructions to module code.
type Handle interface {
	TypeName() string
}

// ListCell is the shared, mutable, reference-counted-by-aliasing backing
// store for List values (§3.2). It carries its own borrow lock rather than
// reusing the scalar Cell type, since its payload is a slice, not a single
// ObjectValue.
type ListCell struct {
	mu     sync.Mutex
	locked bool
	items  []ObjectValue
}

func NewListCell(items []ObjectValue) *ListCell { return &ListCell{items: items} }

func (l *ListCell) Borrow() []ObjectValue {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.items
}

func (l *ListCell) BorrowMut() (*ListCell, *VMError) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.locked {
		e := NewRuntime("Cannot borrow list as mutable, already borrowed")
		return nil, &e
	}
	l.locked = true
	return l, nil
}

func (l *ListCell) Release() {
	l.mu.Lock()
	l.locked = false
	l.mu.Unlock()
}

func (l *ListCell) Set(items []ObjectValue) {
	l.mu.Lock()
	l.items = items
	l.mu.Unlock()
}

// SetCell is the shared, mutable backing store for Set values.
type SetCell struct {
	mu     sync.Mutex
	locked bool
	Data   *SetData
}

func NewSetCell() *SetCell { return &SetCell{Data: orderedmap.New[string, ObjectValue]()} }

func (s *SetCell) BorrowMut() (*SetCell, *VMError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locked {
		e := NewRuntime("Cannot borrow set as mutable, already borrowed")
		return nil, &e
	}
	s.locked = true
	return s, nil
}

func (s *SetCell) Release() {
	s.mu.Lock()
	s.locked = false
	s.mu.Unlock()
}

// MapCell is the shared, mutable backing store for Map values.
type MapCell struct {
	mu     sync.Mutex
	locked bool
	Data   *MapData
}

func NewMapCell() *MapCell { return &MapCell{Data: orderedmap.New[string, MapPair]()} }

func (m *MapCell) BorrowMut() (*MapCell, *VMError) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locked {
		e := NewRuntime("Cannot borrow map as mutable, already borrowed")
		return nil, &e
	}
	m.locked = true
	return m, nil
}

func (m *MapCell) Release() {
	m.mu.Lock()
	m.locked = false
	m.mu.Unlock()
}

// ObjectValue is Rigz's single runtime value type: a tagged union over the
// primitive, composite, enum, and native-object variants of §3.1.
type ObjectValue struct {
	Kind ObjKind

	Bool   bool
	Num    Number
	Str    string
	Rng    ValueRange
	Err    VMError
	Typ    types.RigzType
	List   *ListCell
	Set    *SetCell
	Map    *MapCell
	Tuple  []ObjectValue
	Enum   EnumValue
	Object Handle
	Scope  int // KScope's target scope id
}

func None() ObjectValue                  { return ObjectValue{Kind: KNone} }
func BoolV(b bool) ObjectValue           { return ObjectValue{Kind: KBool, Bool: b} }
func NumV(n Number) ObjectValue          { return ObjectValue{Kind: KNumber, Num: n} }
func IntV(i int64) ObjectValue           { return NumV(Int(i)) }
func FloatV(f float64) ObjectValue       { return NumV(Flt(f)) }
func StringV(s string) ObjectValue       { return ObjectValue{Kind: KString, Str: s} }
func RangeV(r ValueRange) ObjectValue    { return ObjectValue{Kind: KRange, Rng: r} }
func ErrorV(e VMError) ObjectValue       { return ObjectValue{Kind: KError, Err: e} }
func TypeV(t types.RigzType) ObjectValue { return ObjectValue{Kind: KType, Typ: t} }

func TupleV(items ...ObjectValue) ObjectValue {
	return ObjectValue{Kind: KTuple, Tuple: items}
}

func EnumV(enumType, variant int, payload *ObjectValue) ObjectValue {
	return ObjectValue{Kind: KEnum, Enum: EnumValue{EnumType: enumType, Variant: variant, Payload: payload}}
}

func ObjectV(h Handle) ObjectValue { return ObjectValue{Kind: KObject, Object: h} }

// ScopeRefV builds a first-class callable value referencing scope id.
func ScopeRefV(scopeID int) ObjectValue { return ObjectValue{Kind: KScope, Scope: scopeID} }

func ListV(items []ObjectValue) ObjectValue {
	return ObjectValue{Kind: KList, List: NewListCell(items)}
}

func SetV(items []ObjectValue) ObjectValue {
	sc := NewSetCell()
	for _, it := range items {
		sc.Data.Set(it.Hash(), it)
	}
	return ObjectValue{Kind: KSet, Set: sc}
}

func MapV(pairs []MapPair) ObjectValue {
	mc := NewMapCell()
	for _, p := range pairs {
		mc.Data.Set(p.Key.Hash(), p)
	}
	return ObjectValue{Kind: KMap, Map: mc}
}

// Items returns a List's current elements.
func (o ObjectValue) Items() []ObjectValue {
	if o.Kind != KList || o.List == nil {
		return nil
	}
	return o.List.Borrow()
}

// TypeOf returns the RigzType describing v's runtime shape (used by
// overload resolution and `as`/Cast).
func (o ObjectValue) TypeOf() types.RigzType {
	switch o.Kind {
	case KNone:
		return types.None
	case KBool:
		return types.Bool
	case KNumber:
		if o.Num.Kind == NumInt {
			return types.Int
		}
		return types.Float
	case KString:
		return types.Str
	case KRange:
		return types.Range
	case KError:
		return types.Err
	case KType:
		return types.Typ
	case KList:
		return types.List(types.Any)
	case KSet:
		return types.Set(types.Any)
	case KMap:
		return types.Map(types.Any, types.Any)
	case KTuple:
		elems := make([]types.RigzType, len(o.Tuple))
		for i, e := range o.Tuple {
			elems[i] = e.TypeOf()
		}
		return types.Tuple(elems...)
	case KEnum:
		return types.Enum(fmt.Sprintf("enum#%d", o.Enum.EnumType))
	case KScope:
		return types.Function(types.Any)
	default:
		return types.Any
	}
}

func (o ObjectValue) String() string {
	switch o.Kind {
	case KNone:
		return "none"
	case KBool:
		if o.Bool {
			return "true"
		}
		return "false"
	case KNumber:
		return o.Num.String()
	case KString:
		return o.Str
	case KRange:
		return fmt.Sprintf("%d..%d", o.Rng.Start, o.Rng.End)
	case KError:
		return o.Err.Error()
	case KType:
		return o.Typ.String()
	case KList:
		items := o.Items()
		parts := make([]string, len(items))
		for i, it := range items {
			parts[i] = it.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KSet:
		var parts []string
		for p := o.Set.Data.Oldest(); p != nil; p = p.Next() {
			parts = append(parts, p.Value.String())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KMap:
		var parts []string
		for p := o.Map.Data.Oldest(); p != nil; p = p.Next() {
			parts = append(parts, fmt.Sprintf("%s: %s", p.Value.Key, p.Value.Val))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KTuple:
		parts := make([]string, len(o.Tuple))
		for i, e := range o.Tuple {
			parts[i] = e.String()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case KEnum:
		if o.Enum.Payload != nil {
			return fmt.Sprintf("enum#%d::%d(%s)", o.Enum.EnumType, o.Enum.Variant, o.Enum.Payload.String())
		}
		return fmt.Sprintf("enum#%d::%d", o.Enum.EnumType, o.Enum.Variant)
	case KObject:
		return fmt.Sprintf("<object %s>", o.Object.TypeName())
	case KScope:
		return fmt.Sprintf("<fn scope#%d>", o.Scope)
	default:
		return "<unknown>"
	}
}
