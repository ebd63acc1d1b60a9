// Package lexer implements the longest-match UTF-8 tokenizer that begins
// the pipeline: source text in, a stream of kind-tagged, span-carrying
// tokens out, with comments and insignificant whitespace dropped.
package lexer

import "fmt"

// Kind discriminates the token variants.
type Kind uint8

const (
	EOF Kind = iota
	Newline

	Ident     // foo, bar_baz
	TypeIdent // CamelCase
	Int       // 123
	Float     // 1.5, 1e10
	String    // '...', "...", `...`
	Symbol    // :ident
	Lifecycle // @ident

	// Punctuation
	LParen
	RParen
	LBracket
	RBracket
	LBrace
	RBrace
	Comma
	Dot
	DotDot
	Colon
	Pipe2  // |>
	PipeOp // |

	// Operators
	Plus
	Minus
	Star
	Slash
	Percent
	EqEq
	NotEq
	Lt
	Gt
	Lte
	Gte
	AndAnd
	OrOr
	Amp
	Caret
	Shl
	Shr
	Question
	QuestionColon // ?:
	QuestionDot   // ?.
	Bang

	// Assignment
	Assign
	PlusEq
	MinusEq
	StarEq
	SlashEq
	PercentEq
	AmpEq
	PipeEq
	CaretEq
	ShlEq
	ShrEq

	// Keywords
	KwLet
	KwMut
	KwFn
	KwEnd
	KwDo
	KwIf
	KwUnless
	KwElse
	KwFor
	KwIn
	KwReturn
	KwExit
	KwBreak
	KwNext
	KwTrait
	KwImpl
	KwImport
	KwExport
	KwType
	KwObject
	KwEnum
	KwMatch
	KwOn
	KwAs
	KwTry
	KwCatch
	KwThis
	KwTrue
	KwFalse
	KwNone
	KwThen
	KwLoop
)

var keywords = map[string]Kind{
	"let":    KwLet,
	"mut":    KwMut,
	"fn":     KwFn,
	"end":    KwEnd,
	"do":     KwDo,
	"if":     KwIf,
	"unless": KwUnless,
	"else":   KwElse,
	"for":    KwFor,
	"in":     KwIn,
	"return": KwReturn,
	"exit":   KwExit,
	"break":  KwBreak,
	"next":   KwNext,
	"trait":  KwTrait,
	"impl":   KwImpl,
	"import": KwImport,
	"export": KwExport,
	"type":   KwType,
	"object": KwObject,
	"enum":   KwEnum,
	"match":  KwMatch,
	"on":     KwOn,
	"as":     KwAs,
	"try":    KwTry,
	"catch":  KwCatch,
	"this":   KwThis,
	"true":   KwTrue,
	"false":  KwFalse,
	"none":   KwNone,
	"then":   KwThen,
	"loop":   KwLoop,
	"and":    AndAnd,
	"or":     OrOr,
}

// Position is a 1-based line/column location in the source, plus the byte
// offset used for span slicing.
type Position struct {
	Line   int
	Column int
	Offset int
}

func (p Position) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Column) }

// Span is the half-open [Start, End) byte range a token occupies.
type Span struct {
	Start Position
	End   Position
}

// Token is one lexeme: its kind, the literal text it was scanned from, and
// its source span.
type Token struct {
	Kind Kind
	Text string
	Span Span
}

func (t Token) String() string { return fmt.Sprintf("%v(%q)@%s", t.Kind, t.Text, t.Span.Start) }
