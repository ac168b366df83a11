package token_test

import (
	"testing"

	"mexpand/internal/source"
	"mexpand/internal/token"
)

func tok(k token.Kind, text string) token.Token {
	return token.Token{Kind: k, Span: source.Span{}, Text: text}
}

func TestIsLiteral(t *testing.T) {
	lits := []token.Kind{token.IntLit, token.FloatLit, token.StringLit, token.RawStringLit, token.CharLit}
	for _, k := range lits {
		if !tok(k, "").IsLiteral() {
			t.Fatalf("%v should be literal", k)
		}
	}
	non := []token.Kind{token.Ident, token.Lifetime, token.Plus, token.LParen}
	for _, k := range non {
		if tok(k, "").IsLiteral() {
			t.Fatalf("%v must NOT be literal", k)
		}
	}
}

func TestIsPunct(t *testing.T) {
	ops := []token.Kind{
		token.Plus, token.Bang, token.BangEq, token.ColonColon, token.FatArrow,
		token.Pound, token.Dollar, token.Tilde, token.LParen, token.RBracket,
	}
	for _, k := range ops {
		if !tok(k, "").IsPunct() {
			t.Fatalf("%v should be punct", k)
		}
	}
	for _, k := range []token.Kind{token.Ident, token.IntLit, token.EOF} {
		if tok(k, "").IsPunct() {
			t.Fatalf("%v must NOT be punct", k)
		}
	}
}

func TestDelimiters(t *testing.T) {
	pairs := map[token.Kind]token.Kind{
		token.LParen:   token.RParen,
		token.LBrace:   token.RBrace,
		token.LBracket: token.RBracket,
	}
	for open, closeKind := range pairs {
		if !open.IsOpenDelim() || open.IsCloseDelim() {
			t.Errorf("%v must be an opening delimiter", open)
		}
		if !closeKind.IsCloseDelim() {
			t.Errorf("%v must be a closing delimiter", closeKind)
		}
		if open.Closer() != closeKind {
			t.Errorf("%v.Closer() = %v, want %v", open, open.Closer(), closeKind)
		}
	}
	if token.Plus.Closer() != token.Invalid {
		t.Error("non-delimiter must have no closer")
	}
}

func TestKindString(t *testing.T) {
	if token.Bang.String() != "!" || token.Ident.String() != "Ident" {
		t.Errorf("unexpected names %q %q", token.Bang, token.Ident)
	}
	if token.Kind(250).String() != "Kind(?)" {
		t.Errorf("out of range kind should be Kind(?)")
	}
}

func TestHasNewlineBefore(t *testing.T) {
	tk := tok(token.Ident, "x")
	if tk.HasNewlineBefore() {
		t.Fatal("no trivia means no newline")
	}
	tk.Leading = []token.Trivia{{Kind: token.TriviaSpace}, {Kind: token.TriviaNewline}}
	if !tk.HasNewlineBefore() {
		t.Fatal("newline trivia must be detected")
	}
}
