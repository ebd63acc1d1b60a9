package ast

// Visitor lets a single pass (the compiler, a printer, a static checker)
// walk every node kind in the tree without a type switch at each call site,
// the same shape the teacher's own component-tree packages use for
// traversal.
type Visitor interface {
	VisitProgram(*Program) any

	VisitLiteral(*Literal) any
	VisitIdentifier(*Identifier) any
	VisitThisExpr(*ThisExpr) any
	VisitBinaryExpr(*BinaryExpr) any
	VisitUnaryExpr(*UnaryExpr) any
	VisitCallExpr(*CallExpr) any
	VisitIndexExpr(*IndexExpr) any
	VisitFieldExpr(*FieldExpr) any
	VisitListExpr(*ListExpr) any
	VisitSetExpr(*SetExpr) any
	VisitMapExpr(*MapExpr) any
	VisitTupleExpr(*TupleExpr) any
	VisitRangeExpr(*RangeExpr) any
	VisitBlockExpr(*BlockExpr) any
	VisitIfExpr(*IfExpr) any
	VisitLoopExpr(*LoopExpr) any
	VisitForExpr(*ForExpr) any
	VisitMatchExpr(*MatchExpr) any
	VisitTryExpr(*TryExpr) any
	VisitCatchExpr(*CatchExpr) any
	VisitCastExpr(*CastExpr) any
	VisitEnumConstructExpr(*EnumConstructExpr) any
	VisitObjectConstructExpr(*ObjectConstructExpr) any

	VisitBindingStmt(*BindingStmt) any
	VisitFunctionDef(*FunctionDef) any
	VisitTraitDef(*TraitDef) any
	VisitImplDef(*ImplDef) any
	VisitEnumDef(*EnumDef) any
	VisitObjectDef(*ObjectDef) any
	VisitImportStmt(*ImportStmt) any
	VisitExportStmt(*ExportStmt) any
	VisitControlStmt(*ControlStmt) any
	VisitExprStmt(*ExprStmt) any
}

// BaseVisitor implements Visitor with no-op defaults so a caller that only
// cares about a handful of node kinds can embed it and override the rest,
// the way the teacher's pack-mate component-tree visitors do.
type BaseVisitor struct{}

func (BaseVisitor) VisitProgram(*Program) any                               { return nil }
func (BaseVisitor) VisitLiteral(*Literal) any                               { return nil }
func (BaseVisitor) VisitIdentifier(*Identifier) any                         { return nil }
func (BaseVisitor) VisitThisExpr(*ThisExpr) any                             { return nil }
func (BaseVisitor) VisitBinaryExpr(*BinaryExpr) any                         { return nil }
func (BaseVisitor) VisitUnaryExpr(*UnaryExpr) any                           { return nil }
func (BaseVisitor) VisitCallExpr(*CallExpr) any                             { return nil }
func (BaseVisitor) VisitIndexExpr(*IndexExpr) any                           { return nil }
func (BaseVisitor) VisitFieldExpr(*FieldExpr) any                           { return nil }
func (BaseVisitor) VisitListExpr(*ListExpr) any                             { return nil }
func (BaseVisitor) VisitSetExpr(*SetExpr) any                               { return nil }
func (BaseVisitor) VisitMapExpr(*MapExpr) any                               { return nil }
func (BaseVisitor) VisitTupleExpr(*TupleExpr) any                           { return nil }
func (BaseVisitor) VisitRangeExpr(*RangeExpr) any                           { return nil }
func (BaseVisitor) VisitBlockExpr(*BlockExpr) any                           { return nil }
func (BaseVisitor) VisitIfExpr(*IfExpr) any                                 { return nil }
func (BaseVisitor) VisitLoopExpr(*LoopExpr) any                             { return nil }
func (BaseVisitor) VisitForExpr(*ForExpr) any                               { return nil }
func (BaseVisitor) VisitMatchExpr(*MatchExpr) any                           { return nil }
func (BaseVisitor) VisitTryExpr(*TryExpr) any                               { return nil }
func (BaseVisitor) VisitCatchExpr(*CatchExpr) any                           { return nil }
func (BaseVisitor) VisitCastExpr(*CastExpr) any                             { return nil }
func (BaseVisitor) VisitEnumConstructExpr(*EnumConstructExpr) any           { return nil }
func (BaseVisitor) VisitObjectConstructExpr(*ObjectConstructExpr) any       { return nil }
func (BaseVisitor) VisitBindingStmt(*BindingStmt) any                       { return nil }
func (BaseVisitor) VisitFunctionDef(*FunctionDef) any                       { return nil }
func (BaseVisitor) VisitTraitDef(*TraitDef) any                             { return nil }
func (BaseVisitor) VisitImplDef(*ImplDef) any                               { return nil }
func (BaseVisitor) VisitEnumDef(*EnumDef) any                               { return nil }
func (BaseVisitor) VisitObjectDef(*ObjectDef) any                           { return nil }
func (BaseVisitor) VisitImportStmt(*ImportStmt) any                         { return nil }
func (BaseVisitor) VisitExportStmt(*ExportStmt) any                         { return nil }
func (BaseVisitor) VisitControlStmt(*ControlStmt) any                       { return nil }
func (BaseVisitor) VisitExprStmt(*ExprStmt) any                             { return nil }
