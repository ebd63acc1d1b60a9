package lexer

import "testing"

func kinds(toks []Token) []Kind {
	out := make([]Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestTokenizeBasic(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []Kind
	}{
		{"ident and int", "x 1", []Kind{Ident, Int, EOF}},
		{"type ident", "Foo", []Kind{TypeIdent, EOF}},
		{"keywords", "let mut fn end", []Kind{KwLet, KwMut, KwFn, KwEnd, EOF}},
		{"float", "1.5", []Kind{Float, EOF}},
		{"symbol", ":ok", []Kind{Symbol, EOF}},
		{"lifecycle", "@on", []Kind{Lifecycle, EOF}},
		{"newline terminator", "x\ny", []Kind{Ident, Newline, Ident, EOF}},
		{"semicolon terminator", "x;y", []Kind{Ident, Newline, Ident, EOF}},
		{"operators", "+ - * / % == != <= >= << >>", []Kind{
			Plus, Minus, Star, Slash, Percent, EqEq, NotEq, Lte, Gte, Shl, Shr, EOF,
		}},
		{"elvis and pipe", "?: |> ..", []Kind{QuestionColon, Pipe2, DotDot, EOF}},
		{"line comment dropped", "x # comment\ny", []Kind{Ident, Newline, Ident, EOF}},
		{"block comment dropped", "x /* c */ y", []Kind{Ident, Ident, EOF}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			toks, err := New(tc.src).Tokenize()
			if err != nil {
				t.Fatalf("unexpected lex error: %v", err)
			}
			got := kinds(toks)
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("token %d: got %v, want %v", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestStringQuoteStyles(t *testing.T) {
	for _, src := range []string{`'hi "there"'`, `"hi 'there'"`, "`hi 'there' \"too\"`"} {
		toks, err := New(src).Tokenize()
		if err != nil {
			t.Fatalf("unexpected lex error for %s: %v", src, err)
		}
		if len(toks) != 2 || toks[0].Kind != String {
			t.Fatalf("expected single String token for %s, got %v", src, toks)
		}
	}
}

func TestUnterminatedStringAccumulatesError(t *testing.T) {
	_, err := New(`"unterminated`).Tokenize()
	if err == nil {
		t.Fatal("expected an error for unterminated string")
	}
	if _, ok := err.(ErrLex); !ok {
		t.Fatalf("expected ErrLex, got %T", err)
	}
}

func TestEscapesInString(t *testing.T) {
	toks, err := New(`"a\nb"`).Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Text != "a\nb" {
		t.Fatalf("got %q, want %q", toks[0].Text, "a\nb")
	}
}
