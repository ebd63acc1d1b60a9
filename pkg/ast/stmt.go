package ast

import "github.com/rigz-lang/rigz/pkg/lexer"

// Statement is any node that does not itself produce a value consumed by an
// enclosing expression (§2's Element = Statement | Expression split).
type Statement interface {
	Element
	stmtNode()
}

type baseStmt struct{ pos }

func (baseStmt) elementNode() {}
func (baseStmt) stmtNode()    {}

// LValue is an assignment target: a bare identifier, `this`, a tuple of
// identifiers, or a `base.path` instance-set (§4.2).
type LValue struct {
	Names  []string   // one entry for a plain identifier; >1 for tuple destructuring
	Base   Expression // non-nil for `base.path = ...` instance-set
	Path   string
	IsThis bool
}

// BindingStmt is `let`/`mut` binding or a plain `lvalue = expr` /
// compound-assignment statement (§4.3's LoadLet/LoadMut/BinaryAssign
// lowering).
type BindingStmt struct {
	baseStmt
	Mutable bool
	Declare bool // true for `let`/`mut name = expr`; false for a bare re-assignment
	Shadow  bool
	Target  LValue
	Op      string // "" for plain `=`, else the compound operator's symbol
	Value   Expression
}

func (n *BindingStmt) Accept(v Visitor) any { return v.VisitBindingStmt(n) }

func NewBindingStmt(span lexer.Span, mutable, declare, shadow bool, target LValue, op string, value Expression) *BindingStmt {
	return &BindingStmt{baseStmt: baseStmt{newPos(span)}, Mutable: mutable, Declare: declare, Shadow: shadow, Target: target, Op: op, Value: value}
}

// FunctionDef is `fn name(params) ... end`, optionally receiving `self`
// (§3.4's Scope.self flag) and carrying a Lifecycle (§3.4, §4.3).
type FunctionDef struct {
	baseStmt
	Name        string
	SelfParam   string // empty if the function does not receive self
	SelfMutable bool
	Params      []Param
	ReturnType  string
	Body        *BlockExpr // nil for a trait declaration-only signature
	Lifecycle   Lifecycle
}

func (n *FunctionDef) Accept(v Visitor) any { return v.VisitFunctionDef(n) }

// LifecycleKind discriminates the Scope.Lifecycle variants (§3.4).
type LifecycleKind uint8

const (
	LifecycleNone LifecycleKind = iota
	LifecycleTest
	LifecycleMemo
	LifecycleOn
	LifecycleComposite
)

// Lifecycle annotates a FunctionDef with one of §3.4's Scope lifecycles.
type Lifecycle struct {
	Kind  LifecycleKind
	Event string // set when Kind == LifecycleOn
}

func NewFunctionDef(span lexer.Span, name, selfParam string, selfMutable bool, params []Param, returnType string, body *BlockExpr, lc Lifecycle) *FunctionDef {
	return &FunctionDef{
		baseStmt: baseStmt{newPos(span)}, Name: name, SelfParam: selfParam, SelfMutable: selfMutable,
		Params: params, ReturnType: returnType, Body: body, Lifecycle: lc,
	}
}

// TraitDef is `trait Name ... end`: a set of method signatures, some with
// default bodies.
type TraitDef struct {
	baseStmt
	Name    string
	Methods []*FunctionDef
}

func (n *TraitDef) Accept(v Visitor) any { return v.VisitTraitDef(n) }

func NewTraitDef(span lexer.Span, name string, methods []*FunctionDef) *TraitDef {
	return &TraitDef{baseStmt: baseStmt{newPos(span)}, Name: name, Methods: methods}
}

// ImplDef is `impl Trait for Type ... end`: concrete method bodies for a
// trait on a type (every method must have a body, §4.2).
type ImplDef struct {
	baseStmt
	Trait   string
	Type    string
	Methods []*FunctionDef
}

func (n *ImplDef) Accept(v Visitor) any { return v.VisitImplDef(n) }

func NewImplDef(span lexer.Span, trait, typ string, methods []*FunctionDef) *ImplDef {
	return &ImplDef{baseStmt: baseStmt{newPos(span)}, Trait: trait, Type: typ, Methods: methods}
}

// EnumVariant is one `Name` or `Name(Type)` case of an EnumDef.
type EnumVariant struct {
	Name        string
	PayloadType string // empty if the variant carries no payload
}

// EnumDef is `enum Name Variant1 Variant2(Type) ... end`.
type EnumDef struct {
	baseStmt
	Name     string
	Variants []EnumVariant
}

func (n *EnumDef) Accept(v Visitor) any { return v.VisitEnumDef(n) }

func NewEnumDef(span lexer.Span, name string, variants []EnumVariant) *EnumDef {
	return &EnumDef{baseStmt: baseStmt{newPos(span)}, Name: name, Variants: variants}
}

// ObjectField is one `name: Type` field of an ObjectDef.
type ObjectField struct {
	Name string
	Type string
}

// ObjectDef is `object Name field: Type, ... end` (a user-defined Custom
// type, §3.3).
type ObjectDef struct {
	baseStmt
	Name   string
	Fields []ObjectField
}

func (n *ObjectDef) Accept(v Visitor) any { return v.VisitObjectDef(n) }

func NewObjectDef(span lexer.Span, name string, fields []ObjectField) *ObjectDef {
	return &ObjectDef{baseStmt: baseStmt{newPos(span)}, Name: name, Fields: fields}
}

// ImportStmt is `import name`: registers a module by name for compilation.
type ImportStmt struct {
	baseStmt
	Module string
}

func (n *ImportStmt) Accept(v Visitor) any { return v.VisitImportStmt(n) }

func NewImportStmt(span lexer.Span, module string) *ImportStmt {
	return &ImportStmt{baseStmt: baseStmt{newPos(span)}, Module: module}
}

// ExportStmt is `export name`: marks a top-level binding visible to an
// embedding host.
type ExportStmt struct {
	baseStmt
	Name string
}

func (n *ExportStmt) Accept(v Visitor) any { return v.VisitExportStmt(n) }

func NewExportStmt(span lexer.Span, name string) *ExportStmt {
	return &ExportStmt{baseStmt: baseStmt{newPos(span)}, Name: name}
}

// ControlKind discriminates the zero-value jump statements (§4.4: Ret,
// Break, Next, Halt/Exit).
type ControlKind uint8

const (
	CtrlReturn ControlKind = iota
	CtrlBreak
	CtrlNext
	CtrlExit
)

// ControlStmt is `return [expr]`, `break`, `next`, or `exit [expr]`.
type ControlStmt struct {
	baseStmt
	Kind  ControlKind
	Value Expression // nil if no value accompanies the jump
}

func (n *ControlStmt) Accept(v Visitor) any { return v.VisitControlStmt(n) }

func NewControlStmt(span lexer.Span, kind ControlKind, value Expression) *ControlStmt {
	return &ControlStmt{baseStmt: baseStmt{newPos(span)}, Kind: kind, Value: value}
}

// ExprStmt wraps an Expression used in statement position (its value is the
// last-expression value of its enclosing block unless discarded by a
// following statement).
type ExprStmt struct {
	baseStmt
	Expr Expression
}

func (n *ExprStmt) Accept(v Visitor) any { return v.VisitExprStmt(n) }

func NewExprStmt(span lexer.Span, expr Expression) *ExprStmt {
	return &ExprStmt{baseStmt: baseStmt{newPos(span)}, Expr: expr}
}
