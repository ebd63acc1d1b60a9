package ast

import "github.com/rigz-lang/rigz/pkg/lexer"

// Expression is any node that produces a value (§2's Element = Statement |
// Expression split).
type Expression interface {
	Element
	exprNode()
}

type baseExpr struct{ pos }

func (baseExpr) elementNode() {}
func (baseExpr) exprNode()    {}

// LiteralKind discriminates NoneLit/BoolLit/IntLit/FloatLit/StringLit/
// SymbolLit, which otherwise share the same shape.
type LiteralKind uint8

const (
	LitNone LiteralKind = iota
	LitBool
	LitInt
	LitFloat
	LitString
	LitSymbol
)

// Literal is a constant value appearing verbatim in source.
type Literal struct {
	baseExpr
	Kind LiteralKind
	Text string // raw lexeme; the compiler parses it into an ObjectValue constant
	Bool bool
}

func (n *Literal) Accept(v Visitor) any { return v.VisitLiteral(n) }

func NewLiteral(span lexer.Span, kind LiteralKind, text string, b bool) *Literal {
	return &Literal{baseExpr: baseExpr{newPos(span)}, Kind: kind, Text: text, Bool: b}
}

// Identifier is a bare name reference, resolved by the compiler to either a
// variable slot or a call (§4.2's bare-identifier-call rule).
type Identifier struct {
	baseExpr
	Name string
}

func (n *Identifier) Accept(v Visitor) any { return v.VisitIdentifier(n) }

func NewIdentifier(span lexer.Span, name string) *Identifier {
	return &Identifier{baseExpr: baseExpr{newPos(span)}, Name: name}
}

// ThisExpr is the bare `this` receiver reference available inside trait/impl
// method bodies.
type ThisExpr struct{ baseExpr }

func (n *ThisExpr) Accept(v Visitor) any { return v.VisitThisExpr(n) }

func NewThisExpr(span lexer.Span) *ThisExpr { return &ThisExpr{baseExpr{newPos(span)}} }

// BinaryExpr is an infix application, lowered from the Pratt table (§4.2).
type BinaryExpr struct {
	baseExpr
	Op    string
	Left  Expression
	Right Expression
}

func (n *BinaryExpr) Accept(v Visitor) any { return v.VisitBinaryExpr(n) }

func NewBinaryExpr(span lexer.Span, op string, left, right Expression) *BinaryExpr {
	return &BinaryExpr{baseExpr: baseExpr{newPos(span)}, Op: op, Left: left, Right: right}
}

// UnaryExpr is a prefix application: `-`, `!`, `try`.
type UnaryExpr struct {
	baseExpr
	Op      string
	Operand Expression
}

func (n *UnaryExpr) Accept(v Visitor) any { return v.VisitUnaryExpr(n) }

func NewUnaryExpr(span lexer.Span, op string, operand Expression) *UnaryExpr {
	return &UnaryExpr{baseExpr: baseExpr{newPos(span)}, Op: op, Operand: operand}
}

// Arg is one call argument: positional when Name == "".
type Arg struct {
	Name  string
	Value Expression
}

// CallExpr is a function/method invocation. Receiver is nil for a bare
// call; set for `recv.method(...)` forms (§4.2).
type CallExpr struct {
	baseExpr
	Receiver Expression
	Callee   string
	Args     []Arg
}

func (n *CallExpr) Accept(v Visitor) any { return v.VisitCallExpr(n) }

func NewCallExpr(span lexer.Span, receiver Expression, callee string, args []Arg) *CallExpr {
	return &CallExpr{baseExpr: baseExpr{newPos(span)}, Receiver: receiver, Callee: callee, Args: args}
}

// IndexExpr is `a[k]`.
type IndexExpr struct {
	baseExpr
	Target Expression
	Index  Expression
}

func (n *IndexExpr) Accept(v Visitor) any { return v.VisitIndexExpr(n) }

func NewIndexExpr(span lexer.Span, target, index Expression) *IndexExpr {
	return &IndexExpr{baseExpr: baseExpr{newPos(span)}, Target: target, Index: index}
}

// FieldExpr is `a.b`, Rigz's member-access form (distinct from IndexExpr's
// bracket form, both lower to InstanceGet).
type FieldExpr struct {
	baseExpr
	Target Expression
	Field  string
}

func (n *FieldExpr) Accept(v Visitor) any { return v.VisitFieldExpr(n) }

func NewFieldExpr(span lexer.Span, target Expression, field string) *FieldExpr {
	return &FieldExpr{baseExpr: baseExpr{newPos(span)}, Target: target, Field: field}
}

// ListExpr is a `[a, b, c]` literal.
type ListExpr struct {
	baseExpr
	Items []Expression
}

func (n *ListExpr) Accept(v Visitor) any { return v.VisitListExpr(n) }

func NewListExpr(span lexer.Span, items []Expression) *ListExpr {
	return &ListExpr{baseExpr: baseExpr{newPos(span)}, Items: items}
}

// SetExpr is a `{a, b, c}` literal disambiguated from MapExpr by the
// absence of `key: value` pairs.
type SetExpr struct {
	baseExpr
	Items []Expression
}

func (n *SetExpr) Accept(v Visitor) any { return v.VisitSetExpr(n) }

func NewSetExpr(span lexer.Span, items []Expression) *SetExpr {
	return &SetExpr{baseExpr: baseExpr{newPos(span)}, Items: items}
}

// MapEntry is one `key: value` pair of a MapExpr.
type MapEntry struct {
	Key   Expression
	Value Expression
}

// MapExpr is a `{k: v, ...}` literal.
type MapExpr struct {
	baseExpr
	Entries []MapEntry
}

func (n *MapExpr) Accept(v Visitor) any { return v.VisitMapExpr(n) }

func NewMapExpr(span lexer.Span, entries []MapEntry) *MapExpr {
	return &MapExpr{baseExpr: baseExpr{newPos(span)}, Entries: entries}
}

// TupleExpr is a `(a, b, c)` literal.
type TupleExpr struct {
	baseExpr
	Items []Expression
}

func (n *TupleExpr) Accept(v Visitor) any { return v.VisitTupleExpr(n) }

func NewTupleExpr(span lexer.Span, items []Expression) *TupleExpr {
	return &TupleExpr{baseExpr: baseExpr{newPos(span)}, Items: items}
}

// RangeExpr is `start..end`.
type RangeExpr struct {
	baseExpr
	Start Expression
	End   Expression
}

func (n *RangeExpr) Accept(v Visitor) any { return v.VisitRangeExpr(n) }

func NewRangeExpr(span lexer.Span, start, end Expression) *RangeExpr {
	return &RangeExpr{baseExpr: baseExpr{newPos(span)}, Start: start, End: end}
}

// Param is one block/function parameter: `name`, `mut name`, or
// `name: Type` with an optional default value (the default written as
// `name: Type = expr`, covering §4.6's "missing args must have defaults").
type Param struct {
	Name    string
	Mutable bool
	Type    string // empty if undeclared (resolved as Any)
	Default Expression
}

// BlockExpr is `do ... end`, `do |args| ... end`, or the one-expression
// body form `= expr` (§4.2); also used for function/trait method bodies.
type BlockExpr struct {
	baseExpr
	Params []Param
	Body   []Element
}

func (n *BlockExpr) Accept(v Visitor) any { return v.VisitBlockExpr(n) }

func NewBlockExpr(span lexer.Span, params []Param, body []Element) *BlockExpr {
	return &BlockExpr{baseExpr: baseExpr{newPos(span)}, Params: params, Body: body}
}

// IfExpr is `if cond \n body [else \n body] end` (also covers `unless` via
// Negated).
type IfExpr struct {
	baseExpr
	Negated   bool
	Condition Expression
	Then      *BlockExpr
	Else      *BlockExpr // nil if no else clause
}

func (n *IfExpr) Accept(v Visitor) any { return v.VisitIfExpr(n) }

func NewIfExpr(span lexer.Span, negated bool, cond Expression, then, els *BlockExpr) *IfExpr {
	return &IfExpr{baseExpr: baseExpr{newPos(span)}, Negated: negated, Condition: cond, Then: then, Else: els}
}

// LoopExpr is an unconditional `loop ... end`, broken by Break/Next inside
// its body.
type LoopExpr struct {
	baseExpr
	Body *BlockExpr
}

func (n *LoopExpr) Accept(v Visitor) any { return v.VisitLoopExpr(n) }

func NewLoopExpr(span lexer.Span, body *BlockExpr) *LoopExpr {
	return &LoopExpr{baseExpr: baseExpr{newPos(span)}, Body: body}
}

// ForExpr is `for x in iter ... end` or the comprehension form
// `for x in iter : expr` (§4.3: list/map comprehension), discriminated by
// Comprehension being non-nil.
type ForExpr struct {
	baseExpr
	Binding       []string // one name for list iteration, two for map (key, value)
	Iterable      Expression
	Body          *BlockExpr
	Comprehension Expression // non-nil for `for ... : expr` form
}

func (n *ForExpr) Accept(v Visitor) any { return v.VisitForExpr(n) }

func NewForExpr(span lexer.Span, binding []string, iterable Expression, body *BlockExpr, compr Expression) *ForExpr {
	return &ForExpr{baseExpr: baseExpr{newPos(span)}, Binding: binding, Iterable: iterable, Body: body, Comprehension: compr}
}

// MatchArm is one `Pattern => expr`/`Pattern do ... end` arm of a MatchExpr.
type MatchArm struct {
	EnumName string // empty for a wildcard `_` arm
	Variant  string // empty for a wildcard arm
	Binding  string // name bound to the payload, if any
	Body     *BlockExpr
}

// MatchExpr dispatches on an enum value's variant (§4.3/§4.4).
type MatchExpr struct {
	baseExpr
	Subject Expression
	Arms    []MatchArm
}

func (n *MatchExpr) Accept(v Visitor) any { return v.VisitMatchExpr(n) }

func NewMatchExpr(span lexer.Span, subject Expression, arms []MatchArm) *MatchExpr {
	return &MatchExpr{baseExpr: baseExpr{newPos(span)}, Subject: subject, Arms: arms}
}

// TryExpr is the prefix `try expr`: propagates an Error operand unchanged
// to the enclosing frame rather than continuing.
type TryExpr struct {
	baseExpr
	Operand Expression
}

func (n *TryExpr) Accept(v Visitor) any { return v.VisitTryExpr(n) }

func NewTryExpr(span lexer.Span, operand Expression) *TryExpr {
	return &TryExpr{baseExpr: baseExpr{newPos(span)}, Operand: operand}
}

// CatchExpr is `expr catch [|err| ...] end`: runs Handler with the error
// payload bound to ErrName if Operand evaluates to an Error.
type CatchExpr struct {
	baseExpr
	Operand Expression
	ErrName string // empty if the handler doesn't bind the error
	Handler *BlockExpr
}

func (n *CatchExpr) Accept(v Visitor) any { return v.VisitCatchExpr(n) }

func NewCatchExpr(span lexer.Span, operand Expression, errName string, handler *BlockExpr) *CatchExpr {
	return &CatchExpr{baseExpr: baseExpr{newPos(span)}, Operand: operand, ErrName: errName, Handler: handler}
}

// CastExpr is `expr as Type`.
type CastExpr struct {
	baseExpr
	Operand  Expression
	TypeName string
}

func (n *CastExpr) Accept(v Visitor) any { return v.VisitCastExpr(n) }

func NewCastExpr(span lexer.Span, operand Expression, typeName string) *CastExpr {
	return &CastExpr{baseExpr: baseExpr{newPos(span)}, Operand: operand, TypeName: typeName}
}

// EnumConstructExpr builds an Enum value: `Type::Variant` or
// `Type::Variant(expr)`.
type EnumConstructExpr struct {
	baseExpr
	EnumName string
	Variant  string
	Payload  Expression // nil if the variant carries no payload
}

func (n *EnumConstructExpr) Accept(v Visitor) any { return v.VisitEnumConstructExpr(n) }

func NewEnumConstructExpr(span lexer.Span, enumName, variant string, payload Expression) *EnumConstructExpr {
	return &EnumConstructExpr{baseExpr: baseExpr{newPos(span)}, EnumName: enumName, Variant: variant, Payload: payload}
}

// ObjectConstructExpr builds a user `object` value: `TypeName(field: expr, ...)`.
type ObjectConstructExpr struct {
	baseExpr
	TypeName string
	Fields   []Arg
}

func (n *ObjectConstructExpr) Accept(v Visitor) any { return v.VisitObjectConstructExpr(n) }

func NewObjectConstructExpr(span lexer.Span, typeName string, fields []Arg) *ObjectConstructExpr {
	return &ObjectConstructExpr{baseExpr: baseExpr{newPos(span)}, TypeName: typeName, Fields: fields}
}
