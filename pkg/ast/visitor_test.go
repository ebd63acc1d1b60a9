package ast

import (
	"testing"

	"github.com/rigz-lang/rigz/pkg/lexer"
)

type countingVisitor struct {
	BaseVisitor
	literals int
}

func (c *countingVisitor) VisitLiteral(n *Literal) any {
	c.literals++
	return nil
}

func TestAcceptDispatchesToVisitor(t *testing.T) {
	lit := NewLiteral(lexer.Span{}, LitInt, "1", false)
	prog := &Program{Elements: []Element{NewExprStmt(lexer.Span{}, lit)}}

	v := &countingVisitor{}
	stmt := prog.Elements[0].(*ExprStmt)
	stmt.Expr.Accept(v)

	if v.literals != 1 {
		t.Fatalf("expected 1 literal visit, got %d", v.literals)
	}
}
