package parser

import (
	"github.com/rigz-lang/rigz/pkg/ast"
	"github.com/rigz-lang/rigz/pkg/lexer"
)

// parseElement dispatches on the current token to either a statement form
// or falls through to an expression statement (§2's Element split).
func (p *Parser) parseElement() ast.Element {
	switch p.cur().Kind {
	case lexer.Lifecycle:
		return p.parseLifecycleDecoratedFn()
	case lexer.KwLet:
		return p.parseBinding(true, false)
	case lexer.KwMut:
		return p.parseBinding(true, true)
	case lexer.KwFn:
		return p.parseFunctionDef(ast.Lifecycle{})
	case lexer.KwTrait:
		return p.parseTraitDef()
	case lexer.KwImpl:
		return p.parseImplDef()
	case lexer.KwEnum:
		return p.parseEnumDef()
	case lexer.KwObject:
		return p.parseObjectDef()
	case lexer.KwImport:
		return p.parseImportStmt()
	case lexer.KwExport:
		return p.parseExportStmt()
	case lexer.KwReturn:
		return p.parseControlStmt(ast.CtrlReturn, true)
	case lexer.KwBreak:
		return p.parseControlStmt(ast.CtrlBreak, false)
	case lexer.KwNext:
		return p.parseControlStmt(ast.CtrlNext, false)
	case lexer.KwExit:
		return p.parseControlStmt(ast.CtrlExit, true)
	default:
		return p.parseExprOrAssignment()
	}
}

func (p *Parser) parseLifecycleDecorated() ast.Lifecycle {
	tok := p.advance() // the @ident token
	switch tok.Text {
	case "memo":
		return ast.Lifecycle{Kind: ast.LifecycleMemo}
	case "test":
		return ast.Lifecycle{Kind: ast.LifecycleTest}
	case "on":
		event := ""
		if p.at(lexer.LParen) {
			p.advance()
			if p.at(lexer.String) {
				event = p.advance().Text
			} else {
				p.error("expected string event name in @on(...)")
			}
			p.expect(lexer.RParen, "')'")
		}
		return ast.Lifecycle{Kind: ast.LifecycleOn, Event: event}
	default:
		p.error("unknown lifecycle marker @%s", tok.Text)
		return ast.Lifecycle{}
	}
}

func (p *Parser) parseLifecycleDecoratedFn() ast.Element {
	lc := p.parseLifecycleDecorated()
	p.skipTerminators()
	if !p.at(lexer.KwFn) {
		p.error("expected 'fn' after lifecycle marker")
		return nil
	}
	return p.parseFunctionDef(lc)
}

// parseBinding parses `let`/`mut name = expr`.
func (p *Parser) parseBinding(declare, mutable bool) ast.Element {
	start := p.cur().Span
	p.advance() // let/mut
	target := p.parseLValue()
	op := ""
	switch p.cur().Kind {
	case lexer.Assign:
		p.advance()
	case lexer.PlusEq, lexer.MinusEq, lexer.StarEq, lexer.SlashEq, lexer.PercentEq,
		lexer.AmpEq, lexer.PipeEq, lexer.CaretEq, lexer.ShlEq, lexer.ShrEq:
		op = p.advance().Text
	default:
		p.error("expected '=' or a compound-assignment operator in binding")
	}
	value := p.parseExpr(0)
	return ast.NewBindingStmt(start, mutable, declare, true, target, op, value)
}

// parseLValue parses an assignment target (§4.2): identifier, `this`, a
// tuple of identifiers, or `base.path`.
func (p *Parser) parseLValue() ast.LValue {
	if p.at(lexer.KwThis) {
		p.advance()
		return ast.LValue{IsThis: true}
	}
	if p.at(lexer.LParen) {
		p.advance()
		var names []string
		for !p.at(lexer.RParen) && !p.at(lexer.EOF) {
			names = append(names, p.expect(lexer.Ident, "identifier").Text)
			if p.at(lexer.Comma) {
				p.advance()
			}
		}
		p.expect(lexer.RParen, "')'")
		return ast.LValue{Names: names}
	}
	name := p.expect(lexer.Ident, "identifier").Text
	if p.at(lexer.Dot) {
		p.advance()
		path := p.expect(lexer.Ident, "identifier").Text
		for p.at(lexer.Dot) {
			p.advance()
			path += "." + p.expect(lexer.Ident, "identifier").Text
		}
		return ast.LValue{Base: ast.NewIdentifier(lexer.Span{}, name), Path: path}
	}
	return ast.LValue{Names: []string{name}}
}

// parseExprOrAssignment handles the case where a bare identifier at
// statement position turns out to be an assignment target rather than a
// call or expression, which can only be disambiguated by looking past it.
func (p *Parser) parseExprOrAssignment() ast.Element {
	start := p.cur().Span
	if p.at(lexer.LParen) && isTupleAssignAhead(p) {
		target := p.parseLValue()
		p.expect(lexer.Assign, "'='")
		value := p.parseExpr(0)
		return ast.NewBindingStmt(start, false, false, false, target, "", value)
	}
	if p.at(lexer.Ident) && isAssignAhead(p) {
		target := p.parseLValue()
		op := ""
		if p.at(lexer.Assign) {
			p.advance()
		} else {
			op = p.advance().Text
		}
		value := p.parseExpr(0)
		return ast.NewBindingStmt(start, false, false, false, target, op, value)
	}
	expr := p.parseExpr(0)
	return ast.NewExprStmt(start, expr)
}

// isTupleAssignAhead reports whether the upcoming tokens form a
// `(ident, ident, ...) =` destructuring target, without consuming anything.
func isTupleAssignAhead(p *Parser) bool {
	i := 1
	for {
		if p.peekAt(i).Kind != lexer.Ident {
			return false
		}
		i++
		if p.peekAt(i).Kind == lexer.Comma {
			i++
			continue
		}
		break
	}
	return p.peekAt(i).Kind == lexer.RParen && p.peekAt(i+1).Kind == lexer.Assign
}

// isAssignAhead reports whether the upcoming tokens form an assignment
// target followed by an assignment operator, without consuming anything.
func isAssignAhead(p *Parser) bool {
	i := 1
	for p.peekAt(i).Kind == lexer.Dot {
		i++
		if p.peekAt(i).Kind != lexer.Ident {
			return false
		}
		i++
	}
	switch p.peekAt(i).Kind {
	case lexer.Assign, lexer.PlusEq, lexer.MinusEq, lexer.StarEq, lexer.SlashEq,
		lexer.PercentEq, lexer.AmpEq, lexer.PipeEq, lexer.CaretEq, lexer.ShlEq, lexer.ShrEq:
		return true
	default:
		return false
	}
}

func (p *Parser) parseParams() []ast.Param {
	var params []ast.Param
	p.expect(lexer.LParen, "'('")
	for !p.at(lexer.RParen) && !p.at(lexer.EOF) {
		mutable := false
		if p.at(lexer.KwMut) {
			mutable = true
			p.advance()
		}
		name := p.expect(lexer.Ident, "parameter name").Text
		typeName := ""
		if p.at(lexer.Colon) {
			p.advance()
			typeName = p.parseTypeName()
		}
		var def ast.Expression
		if p.at(lexer.Assign) {
			p.advance()
			def = p.parseExpr(0)
		}
		params = append(params, ast.Param{Name: name, Mutable: mutable, Type: typeName, Default: def})
		if p.at(lexer.Comma) {
			p.advance()
		}
	}
	p.expect(lexer.RParen, "')'")
	return params
}

func (p *Parser) parseTypeName() string {
	if p.at(lexer.TypeIdent) || p.at(lexer.Ident) {
		return p.advance().Text
	}
	p.error("expected a type name")
	return ""
}

// parseFunctionDef parses `fn [self.]name(params) [-> Type] body end`. A
// body-less form (`fn name(params)`) is legal only inside a trait (§4.2).
func (p *Parser) parseFunctionDef(lc ast.Lifecycle) ast.Element {
	start := p.cur().Span
	p.advance() // fn
	selfParam := ""
	selfMutable := false
	if p.at(lexer.KwMut) && p.peekAt(1).Kind == lexer.Ident && p.peekAt(2).Kind == lexer.Dot {
		selfMutable = true
		p.advance() // mut
	}
	name := p.expect(lexer.Ident, "function name").Text
	if p.at(lexer.Dot) {
		// `self.name` / `mut self.name` receiver form
		selfParam = name
		p.advance()
		name = p.expect(lexer.Ident, "function name").Text
	}
	params := p.parseParams()
	returnType := ""
	if p.at(lexer.Minus) && p.peekAt(1).Kind == lexer.Gt {
		p.advance()
		p.advance()
		returnType = p.parseTypeName()
	}
	var body *ast.BlockExpr
	switch {
	case p.at(lexer.Assign):
		p.advance()
		bodyStart := p.cur().Span
		expr := p.parseExpr(0)
		body = ast.NewBlockExpr(bodyStart, nil, []ast.Element{ast.NewExprStmt(bodyStart, expr)})
	case p.at(lexer.Newline) || p.at(lexer.KwDo):
		if p.at(lexer.KwDo) {
			p.advance()
		}
		bodyStart := p.cur().Span
		elems := p.parseBlockUntil(lexer.KwEnd)
		p.expect(lexer.KwEnd, "'end'")
		body = ast.NewBlockExpr(bodyStart, nil, elems)
	default:
		// declaration-only signature, legal inside a trait
	}
	return ast.NewFunctionDef(start, name, selfParam, selfMutable, params, returnType, body, lc)
}

func (p *Parser) parseTraitDef() ast.Element {
	start := p.cur().Span
	p.advance() // trait
	name := p.expect(lexer.TypeIdent, "trait name").Text
	p.skipTerminators()
	var methods []*ast.FunctionDef
	for !p.at(lexer.KwEnd) && !p.at(lexer.EOF) && !p.abort() {
		lc := ast.Lifecycle{}
		if p.at(lexer.Lifecycle) {
			lc = p.parseLifecycleDecorated()
			p.skipTerminators()
		}
		if !p.at(lexer.KwFn) {
			p.error("expected 'fn' in trait body")
			p.recover()
			p.skipTerminators()
			continue
		}
		if fn, ok := p.parseFunctionDef(lc).(*ast.FunctionDef); ok {
			methods = append(methods, fn)
		}
		p.skipTerminators()
	}
	p.expect(lexer.KwEnd, "'end'")
	return ast.NewTraitDef(start, name, methods)
}

func (p *Parser) parseImplDef() ast.Element {
	start := p.cur().Span
	p.advance() // impl
	trait := p.expect(lexer.TypeIdent, "trait name").Text
	p.expect(lexer.KwFor, "'for'")
	typ := p.parseTypeName()
	p.skipTerminators()
	var methods []*ast.FunctionDef
	for !p.at(lexer.KwEnd) && !p.at(lexer.EOF) && !p.abort() {
		if !p.at(lexer.KwFn) {
			p.error("expected 'fn' in impl body")
			p.recover()
			p.skipTerminators()
			continue
		}
		fnEl := p.parseFunctionDef(ast.Lifecycle{})
		fn, ok := fnEl.(*ast.FunctionDef)
		if ok {
			if fn.Body == nil {
				p.error("impl method %q requires a body", fn.Name)
			}
			methods = append(methods, fn)
		}
		p.skipTerminators()
	}
	p.expect(lexer.KwEnd, "'end'")
	return ast.NewImplDef(start, trait, typ, methods)
}

func (p *Parser) parseEnumDef() ast.Element {
	start := p.cur().Span
	p.advance() // enum
	name := p.expect(lexer.TypeIdent, "enum name").Text
	p.skipTerminators()
	var variants []ast.EnumVariant
	for !p.at(lexer.KwEnd) && !p.at(lexer.EOF) && !p.abort() {
		vname := p.expect(lexer.TypeIdent, "variant name").Text
		payload := ""
		if p.at(lexer.LParen) {
			p.advance()
			payload = p.parseTypeName()
			p.expect(lexer.RParen, "')'")
		}
		variants = append(variants, ast.EnumVariant{Name: vname, PayloadType: payload})
		p.skipTerminators()
	}
	p.expect(lexer.KwEnd, "'end'")
	return ast.NewEnumDef(start, name, variants)
}

func (p *Parser) parseObjectDef() ast.Element {
	start := p.cur().Span
	p.advance() // object
	name := p.expect(lexer.TypeIdent, "object name").Text
	p.skipTerminators()
	var fields []ast.ObjectField
	for !p.at(lexer.KwEnd) && !p.at(lexer.EOF) && !p.abort() {
		fname := p.expect(lexer.Ident, "field name").Text
		p.expect(lexer.Colon, "':'")
		ftype := p.parseTypeName()
		fields = append(fields, ast.ObjectField{Name: fname, Type: ftype})
		if p.at(lexer.Comma) {
			p.advance()
		}
		p.skipTerminators()
	}
	p.expect(lexer.KwEnd, "'end'")
	return ast.NewObjectDef(start, name, fields)
}

func (p *Parser) parseImportStmt() ast.Element {
	start := p.cur().Span
	p.advance() // import
	name := p.expect(lexer.Ident, "module name").Text
	return ast.NewImportStmt(start, name)
}

func (p *Parser) parseExportStmt() ast.Element {
	start := p.cur().Span
	p.advance() // export
	name := p.expect(lexer.Ident, "identifier").Text
	return ast.NewExportStmt(start, name)
}

func (p *Parser) parseControlStmt(kind ast.ControlKind, allowValue bool) ast.Element {
	start := p.cur().Span
	p.advance()
	var value ast.Expression
	if allowValue && startsExpression(p.cur().Kind) {
		value = p.parseExpr(0)
	}
	return ast.NewControlStmt(start, kind, value)
}
