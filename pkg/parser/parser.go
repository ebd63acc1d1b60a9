// Package parser implements Rigz's hand-written recursive-descent, Pratt-
// style expression parser (§4.2): tokens in, a *ast.Program out.
package parser

import (
	"fmt"
	"strings"

	"github.com/rigz-lang/rigz/pkg/ast"
	"github.com/rigz-lang/rigz/pkg/lexer"
)

// maxErrors caps how many parse errors accumulate before giving up,
// matching the lexer's own recovery budget (and the teacher's ErrAsm).
const maxErrors = 10

// ParseError is one accumulated syntax error.
type ParseError struct {
	Pos lexer.Position
	Msg string
}

func (e ParseError) Error() string { return fmt.Sprintf("%s: %s", e.Pos, e.Msg) }

// ErrParse collects every syntax error found, mirroring ErrLex/ErrAsm: the
// parser recovers by skipping to the next newline rather than aborting.
type ErrParse []ParseError

func (e ErrParse) Error() string {
	parts := make([]string, len(e))
	for i, pe := range e {
		parts[i] = pe.Error()
	}
	return strings.Join(parts, "\n")
}

// Parser consumes a token stream and builds an *ast.Program.
type Parser struct {
	toks []lexer.Token
	pos  int
	errs ErrParse
}

// New prepares a Parser over a token stream produced by pkg/lexer.
func New(toks []lexer.Token) *Parser {
	return &Parser{toks: toks}
}

// Parse runs the full recursive-descent parse.
func Parse(src string) (*ast.Program, error) {
	toks, lexErr := lexer.New(src).Tokenize()
	p := New(toks)
	prog := p.ParseProgram()
	if lexErr != nil {
		return prog, lexErr
	}
	if len(p.errs) > 0 {
		return prog, p.errs
	}
	return prog, nil
}

func (p *Parser) abort() bool { return len(p.errs) >= maxErrors }

func (p *Parser) cur() lexer.Token {
	if p.pos >= len(p.toks) {
		return lexer.Token{Kind: lexer.EOF}
	}
	return p.toks[p.pos]
}

func (p *Parser) peekAt(n int) lexer.Token {
	idx := p.pos + n
	if idx >= len(p.toks) {
		return lexer.Token{Kind: lexer.EOF}
	}
	return p.toks[idx]
}

func (p *Parser) at(k lexer.Kind) bool { return p.cur().Kind == k }

func (p *Parser) advance() lexer.Token {
	t := p.cur()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *Parser) expect(k lexer.Kind, what string) lexer.Token {
	if p.at(k) {
		return p.advance()
	}
	p.error("expected %s, got %q", what, p.cur().Text)
	return p.cur()
}

func (p *Parser) error(format string, args ...any) {
	p.errs = append(p.errs, ParseError{Pos: p.cur().Span.Start, Msg: fmt.Sprintf(format, args...)})
}

// recover skips tokens until the next statement terminator, the teacher's
// "drop to next newline" recovery rule (§4.2).
func (p *Parser) recover() {
	for !p.at(lexer.Newline) && !p.at(lexer.EOF) {
		p.advance()
	}
}

func (p *Parser) skipTerminators() {
	for p.at(lexer.Newline) {
		p.advance()
	}
}

// ParseProgram parses the full token stream into a Program, the same
// top-level entry a compiled-program host calls.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	p.skipTerminators()
	for !p.at(lexer.EOF) && !p.abort() {
		el := p.parseElement()
		if el != nil {
			prog.Elements = append(prog.Elements, el)
		}
		p.skipTerminators()
	}
	return prog
}

func (p *Parser) parseBlockUntil(ends ...lexer.Kind) []ast.Element {
	var elems []ast.Element
	p.skipTerminators()
	for !p.abort() && !p.atAny(ends...) && !p.at(lexer.EOF) {
		el := p.parseElement()
		if el != nil {
			elems = append(elems, el)
		}
		p.skipTerminators()
	}
	return elems
}

func (p *Parser) atAny(kinds ...lexer.Kind) bool {
	for _, k := range kinds {
		if p.at(k) {
			return true
		}
	}
	return false
}
