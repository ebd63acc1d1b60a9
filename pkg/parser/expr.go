package parser

import (
	"github.com/rigz-lang/rigz/pkg/ast"
	"github.com/rigz-lang/rigz/pkg/lexer"
)

// bindingPower is one row of the Pratt table (§4.2).
type bindingPower struct{ left, right int }

var infixBP = map[lexer.Kind]bindingPower{
	lexer.QuestionColon: {2, 1},
	lexer.OrOr:          {3, 4},
	lexer.AndAnd:        {5, 6},
	lexer.PipeOp:        {7, 8},
	lexer.Caret:         {9, 10},
	lexer.Amp:           {11, 12},
	lexer.EqEq:          {13, 14},
	lexer.NotEq:         {13, 14},
	lexer.Lt:            {15, 16},
	lexer.Lte:           {15, 16},
	lexer.Gt:            {15, 16},
	lexer.Gte:           {15, 16},
	lexer.Shl:           {17, 18},
	lexer.Shr:           {17, 18},
	lexer.Plus:          {19, 20},
	lexer.Minus:         {19, 20},
	lexer.Star:          {21, 22},
	lexer.Slash:         {21, 22},
	lexer.Percent:       {21, 22},
	lexer.KwAs:          {23, 24},
	lexer.Dot:           {25, 26},
	lexer.LBracket:      {25, 26},
	lexer.Pipe2:         {25, 26},
}

// statementTerminators are the tokens that end an expression without being
// consumed by it (§4.2).
func isTerminator(k lexer.Kind) bool {
	switch k {
	case lexer.Newline, lexer.Comma, lexer.RParen, lexer.RBracket, lexer.RBrace,
		lexer.KwEnd, lexer.KwElse, lexer.KwThen, lexer.KwOn, lexer.EOF:
		return true
	default:
		return false
	}
}

func startsExpression(k lexer.Kind) bool {
	switch k {
	case lexer.Ident, lexer.TypeIdent, lexer.Int, lexer.Float, lexer.String, lexer.Symbol,
		lexer.KwTrue, lexer.KwFalse, lexer.KwNone, lexer.KwThis, lexer.LParen, lexer.LBracket,
		lexer.LBrace, lexer.Minus, lexer.Bang, lexer.KwTry, lexer.KwIf, lexer.KwUnless,
		lexer.KwFor, lexer.KwMatch, lexer.KwDo, lexer.KwLoop:
		return true
	default:
		return false
	}
}

// parseExpr is the Pratt loop. minBP == 0 marks a top-level call (the
// statement's own expression, or a binding's RHS), which is the only
// context where the bare-identifier-call sugar of §4.2 applies — nested
// right-hand sides (minBP > 0) never trigger it, which is what keeps
// `1 + foo 2` from being read as a call swallowing unrelated operators.
func (p *Parser) parseExpr(minBP int) ast.Expression {
	left := p.parsePrefix(minBP == 0)
	for {
		tok := p.cur()
		bp, ok := infixBP[tok.Kind]
		if !ok || bp.left < minBP {
			break
		}
		left = p.parseInfix(left, bp)
	}
	if p.at(lexer.KwCatch) {
		left = p.parseCatch(left)
	}
	return left
}

func (p *Parser) parseInfix(left ast.Expression, bp bindingPower) ast.Expression {
	tok := p.advance()
	switch tok.Kind {
	case lexer.Dot:
		// `tuple.0`/`list.1` (§8's S4 `split_first`, §4's message-passing
		// examples like `pids.0`) index a Tuple/List positionally; the
		// lexer never fuses `.0` into one token, so a bare integer literal
		// is just as valid a member name here as an identifier.
		if p.at(lexer.Int) {
			name := p.advance().Text
			return ast.NewFieldExpr(tok.Span, left, name)
		}
		name := p.expect(lexer.Ident, "member name").Text
		if p.at(lexer.LParen) {
			args := p.parseParenArgs()
			return ast.NewCallExpr(tok.Span, left, name, args)
		}
		return ast.NewFieldExpr(tok.Span, left, name)
	case lexer.LBracket:
		idx := p.parseExpr(0)
		p.expect(lexer.RBracket, "']'")
		return ast.NewIndexExpr(tok.Span, left, idx)
	case lexer.KwAs:
		typeName := p.parseTypeName()
		return ast.NewCastExpr(tok.Span, left, typeName)
	case lexer.Pipe2:
		right := p.parseExpr(bp.right)
		if call, ok := right.(*ast.CallExpr); ok {
			call.Args = append([]ast.Arg{{Value: left}}, call.Args...)
			return call
		}
		return ast.NewCallExpr(tok.Span, nil, "", []ast.Arg{{Value: left}, {Value: right}})
	default:
		right := p.parseExpr(bp.right)
		return ast.NewBinaryExpr(tok.Span, tok.Text, left, right)
	}
}

func (p *Parser) parseCatch(operand ast.Expression) ast.Expression {
	start := p.cur().Span
	p.advance() // catch
	errName := ""
	if p.at(lexer.PipeOp) {
		p.advance()
		errName = p.expect(lexer.Ident, "error binding name").Text
		p.expect(lexer.PipeOp, "'|'")
	}
	p.skipTerminators()
	elems := p.parseBlockUntil(lexer.KwEnd)
	p.expect(lexer.KwEnd, "'end'")
	handler := ast.NewBlockExpr(start, nil, elems)
	return ast.NewCatchExpr(start, operand, errName, handler)
}

// parsePrefix parses a unary operator or a primary expression, applying the
// bare-call sugar only when allowBareCall is set.
func (p *Parser) parsePrefix(allowBareCall bool) ast.Expression {
	tok := p.cur()
	switch tok.Kind {
	case lexer.Minus:
		p.advance()
		return ast.NewUnaryExpr(tok.Span, "-", p.parseExpr(20))
	case lexer.Bang:
		p.advance()
		return ast.NewUnaryExpr(tok.Span, "!", p.parseExpr(20))
	case lexer.KwTry:
		p.advance()
		return ast.NewTryExpr(tok.Span, p.parseExpr(20))
	default:
		return p.parsePrimary(allowBareCall)
	}
}

func (p *Parser) parsePrimary(allowBareCall bool) ast.Expression {
	tok := p.cur()
	switch tok.Kind {
	case lexer.Int:
		p.advance()
		return ast.NewLiteral(tok.Span, ast.LitInt, tok.Text, false)
	case lexer.Float:
		p.advance()
		return ast.NewLiteral(tok.Span, ast.LitFloat, tok.Text, false)
	case lexer.String:
		p.advance()
		return ast.NewLiteral(tok.Span, ast.LitString, tok.Text, false)
	case lexer.Symbol:
		p.advance()
		return ast.NewLiteral(tok.Span, ast.LitSymbol, tok.Text, false)
	case lexer.KwTrue:
		p.advance()
		return ast.NewLiteral(tok.Span, ast.LitBool, "true", true)
	case lexer.KwFalse:
		p.advance()
		return ast.NewLiteral(tok.Span, ast.LitBool, "false", false)
	case lexer.KwNone:
		p.advance()
		return ast.NewLiteral(tok.Span, ast.LitNone, "none", false)
	case lexer.KwThis:
		p.advance()
		return ast.NewThisExpr(tok.Span)
	case lexer.LParen:
		return p.parseParenOrTuple()
	case lexer.LBracket:
		return p.parseListOrRange()
	case lexer.LBrace:
		return p.parseMapOrSet()
	case lexer.KwIf:
		return p.parseIfExpr(false)
	case lexer.KwUnless:
		return p.parseIfExpr(true)
	case lexer.KwFor:
		return p.parseForExpr()
	case lexer.KwMatch:
		return p.parseMatchExpr()
	case lexer.KwDo:
		return p.parseBlockLiteral()
	case lexer.KwLoop:
		return p.parseLoopExpr()
	case lexer.TypeIdent:
		return p.parseTypeIdentPrimary()
	case lexer.Ident:
		return p.parseIdentPrimary(allowBareCall)
	default:
		p.error("unexpected token %q in expression", tok.Text)
		p.advance()
		return ast.NewLiteral(tok.Span, ast.LitNone, "none", false)
	}
}

func (p *Parser) parseParenOrTuple() ast.Expression {
	start := p.cur().Span
	p.advance() // (
	var items []ast.Expression
	for !p.at(lexer.RParen) && !p.at(lexer.EOF) {
		items = append(items, p.parseExpr(0))
		if p.at(lexer.Comma) {
			p.advance()
			continue
		}
		break
	}
	p.expect(lexer.RParen, "')'")
	if len(items) == 1 {
		return items[0]
	}
	return ast.NewTupleExpr(start, items)
}

func (p *Parser) parseListOrRange() ast.Expression {
	start := p.cur().Span
	p.advance() // [
	var items []ast.Expression
	for !p.at(lexer.RBracket) && !p.at(lexer.EOF) {
		items = append(items, p.parseExpr(0))
		if p.at(lexer.Comma) {
			p.advance()
			continue
		}
		break
	}
	p.expect(lexer.RBracket, "']'")
	return ast.NewListExpr(start, items)
}

func (p *Parser) parseMapOrSet() ast.Expression {
	start := p.cur().Span
	p.advance() // {
	if p.at(lexer.RBrace) {
		p.advance()
		return ast.NewMapExpr(start, nil)
	}
	first := p.parseExpr(0)
	if p.at(lexer.Colon) {
		p.advance()
		val := p.parseExpr(0)
		entries := []ast.MapEntry{{Key: first, Value: val}}
		for p.at(lexer.Comma) {
			p.advance()
			if p.at(lexer.RBrace) {
				break
			}
			k := p.parseExpr(0)
			p.expect(lexer.Colon, "':'")
			v := p.parseExpr(0)
			entries = append(entries, ast.MapEntry{Key: k, Value: v})
		}
		p.expect(lexer.RBrace, "'}'")
		return ast.NewMapExpr(start, entries)
	}
	items := []ast.Expression{first}
	for p.at(lexer.Comma) {
		p.advance()
		if p.at(lexer.RBrace) {
			break
		}
		items = append(items, p.parseExpr(0))
	}
	p.expect(lexer.RBrace, "'}'")
	return ast.NewSetExpr(start, items)
}

func (p *Parser) parseBlockLiteral() ast.Expression {
	start := p.cur().Span
	p.advance() // do
	var params []ast.Param
	if p.at(lexer.PipeOp) {
		p.advance()
		for !p.at(lexer.PipeOp) && !p.at(lexer.EOF) {
			mutable := false
			if p.at(lexer.KwMut) {
				mutable = true
				p.advance()
			}
			params = append(params, ast.Param{Name: p.expect(lexer.Ident, "parameter name").Text, Mutable: mutable})
			if p.at(lexer.Comma) {
				p.advance()
			}
		}
		p.expect(lexer.PipeOp, "'|'")
	}
	elems := p.parseBlockUntil(lexer.KwEnd)
	p.expect(lexer.KwEnd, "'end'")
	return ast.NewBlockExpr(start, params, elems)
}

func (p *Parser) parseIfExpr(negated bool) ast.Expression {
	start := p.cur().Span
	p.advance() // if/unless
	cond := p.parseExpr(0)
	if p.at(lexer.KwThen) {
		p.advance()
	}
	p.skipTerminators()
	thenElems := p.parseBlockUntil(lexer.KwEnd, lexer.KwElse)
	thenBlock := ast.NewBlockExpr(start, nil, thenElems)
	var elseBlock *ast.BlockExpr
	if p.at(lexer.KwElse) {
		elseStart := p.cur().Span
		p.advance()
		p.skipTerminators()
		elseElems := p.parseBlockUntil(lexer.KwEnd)
		elseBlock = ast.NewBlockExpr(elseStart, nil, elseElems)
	}
	p.expect(lexer.KwEnd, "'end'")
	return ast.NewIfExpr(start, negated, cond, thenBlock, elseBlock)
}

func (p *Parser) parseLoopExpr() ast.Expression {
	start := p.cur().Span
	p.advance() // loop
	p.skipTerminators()
	elems := p.parseBlockUntil(lexer.KwEnd)
	p.expect(lexer.KwEnd, "'end'")
	return ast.NewLoopExpr(start, ast.NewBlockExpr(start, nil, elems))
}

func (p *Parser) parseForExpr() ast.Expression {
	start := p.cur().Span
	p.advance() // for
	var binding []string
	binding = append(binding, p.expect(lexer.Ident, "loop variable").Text)
	if p.at(lexer.Comma) {
		p.advance()
		binding = append(binding, p.expect(lexer.Ident, "loop variable").Text)
	}
	p.expect(lexer.KwIn, "'in'")
	iterable := p.parseExpr(0)
	if p.at(lexer.Colon) {
		p.advance()
		compr := p.parseExpr(0)
		return ast.NewForExpr(start, binding, iterable, nil, compr)
	}
	p.skipTerminators()
	elems := p.parseBlockUntil(lexer.KwEnd)
	p.expect(lexer.KwEnd, "'end'")
	return ast.NewForExpr(start, binding, iterable, ast.NewBlockExpr(start, nil, elems), nil)
}

func (p *Parser) parseMatchExpr() ast.Expression {
	start := p.cur().Span
	p.advance() // match
	subject := p.parseExpr(0)
	p.skipTerminators()
	var arms []ast.MatchArm
	// Each arm's enum path separator is lexed as two adjacent Colon tokens
	// since the lexer has no dedicated `::` token.
	for p.at(lexer.KwOn) {
		armStart := p.cur().Span
		p.advance()
		enumName := p.expect(lexer.TypeIdent, "enum type name").Text
		p.expect(lexer.Colon, "':'")
		p.expect(lexer.Colon, "':'")
		variant := p.expect(lexer.TypeIdent, "variant name").Text
		binding := ""
		if p.at(lexer.LParen) {
			p.advance()
			binding = p.expect(lexer.Ident, "binding name").Text
			p.expect(lexer.RParen, "')'")
		}
		p.skipTerminators()
		elems := p.parseBlockUntil(lexer.KwOn, lexer.KwElse, lexer.KwEnd)
		arms = append(arms, ast.MatchArm{
			EnumName: enumName, Variant: variant, Binding: binding,
			Body: ast.NewBlockExpr(armStart, nil, elems),
		})
	}
	if p.at(lexer.KwElse) {
		elseStart := p.cur().Span
		p.advance()
		p.skipTerminators()
		elems := p.parseBlockUntil(lexer.KwEnd)
		arms = append(arms, ast.MatchArm{Body: ast.NewBlockExpr(elseStart, nil, elems)})
	}
	p.expect(lexer.KwEnd, "'end'")
	return ast.NewMatchExpr(start, subject, arms)
}

// parseTypeIdentPrimary handles `Type::Variant[(expr)]` enum construction
// and `Type(field: expr, ...)` object construction, both keyed on a leading
// type identifier (§3.3, §4.3).
func (p *Parser) parseTypeIdentPrimary() ast.Expression {
	start := p.cur().Span
	name := p.advance().Text
	if p.at(lexer.Colon) && p.peekAt(1).Kind == lexer.Colon {
		p.advance()
		p.advance()
		variant := p.expect(lexer.TypeIdent, "variant name").Text
		var payload ast.Expression
		if p.at(lexer.LParen) {
			p.advance()
			payload = p.parseExpr(0)
			p.expect(lexer.RParen, "')'")
		}
		return ast.NewEnumConstructExpr(start, name, variant, payload)
	}
	if p.at(lexer.LParen) {
		args := p.parseParenArgs()
		return ast.NewObjectConstructExpr(start, name, args)
	}
	return ast.NewIdentifier(start, name)
}

func (p *Parser) parseParenArgs() []ast.Arg {
	p.advance() // (
	var args []ast.Arg
	seenNamed := false
	for !p.at(lexer.RParen) && !p.at(lexer.EOF) {
		if p.at(lexer.Ident) && p.peekAt(1).Kind == lexer.Colon {
			name := p.advance().Text
			p.advance() // :
			args = append(args, ast.Arg{Name: name, Value: p.parseExpr(0)})
			seenNamed = true
		} else {
			if seenNamed {
				p.error("positional argument cannot follow a named argument")
			}
			args = append(args, ast.Arg{Value: p.parseExpr(0)})
		}
		if p.at(lexer.Comma) {
			p.advance()
		}
	}
	p.expect(lexer.RParen, "')'")
	return args
}

// parseIdentPrimary handles a bare identifier, which may turn out to be a
// value reference, a parenthesized call, or (only at statement position,
// per allowBareCall) an implicit positional-argument call (§4.2).
func (p *Parser) parseIdentPrimary(allowBareCall bool) ast.Expression {
	start := p.cur().Span
	name := p.advance().Text
	if p.at(lexer.LParen) {
		args := p.parseParenArgs()
		return ast.NewCallExpr(start, nil, name, args)
	}
	if allowBareCall && startsExpression(p.cur().Kind) && !isTerminator(p.cur().Kind) && p.cur().Kind != lexer.KwIn {
		var args []ast.Arg
		for {
			if p.at(lexer.Ident) && p.peekAt(1).Kind == lexer.Colon {
				argName := p.advance().Text
				p.advance()
				args = append(args, ast.Arg{Name: argName, Value: p.parseExpr(0)})
			} else {
				args = append(args, ast.Arg{Value: p.parseExpr(0)})
			}
			if p.at(lexer.Comma) {
				p.advance()
				continue
			}
			break
		}
		return ast.NewCallExpr(start, nil, name, args)
	}
	return ast.NewIdentifier(start, name)
}
