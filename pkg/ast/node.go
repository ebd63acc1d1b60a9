// Package ast defines Rigz's syntax tree: a Program is an ordered sequence
// of Elements, each either a Statement or an Expression (§2, §3.4).
package ast

import "github.com/rigz-lang/rigz/pkg/lexer"

// Node is implemented by every AST node. Accept lets a Visitor walk the
// tree without every stage needing its own type switch.
type Node interface {
	Span() lexer.Span
	Accept(v Visitor) any
}

// Element is either a Statement or an Expression at the top level of a
// Program or block body.
type Element interface {
	Node
	elementNode()
}

// Program is the root of the tree: the ordered sequence of Elements that
// becomes Scope 0 (§3.4).
type Program struct {
	Elements []Element
}

func (p *Program) Span() lexer.Span {
	if len(p.Elements) == 0 {
		return lexer.Span{}
	}
	return lexer.Span{Start: p.Elements[0].Span().Start, End: p.Elements[len(p.Elements)-1].Span().End}
}

func (p *Program) Accept(v Visitor) any { return v.VisitProgram(p) }

// pos is embedded by every concrete node to carry its source span.
type pos struct{ span lexer.Span }

func (p pos) Span() lexer.Span { return p.span }

func newPos(span lexer.Span) pos { return pos{span: span} }
