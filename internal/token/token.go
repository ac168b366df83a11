package token

import (
	"mexpand/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsLiteral reports whether the token is a numeric, string or char literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, StringLit, RawStringLit, CharLit:
		return true
	default:
		return false
	}
}

// IsPunct reports whether the token is punctuation or an operator (delimiters included).
func (t Token) IsPunct() bool {
	return t.Kind >= Plus && t.Kind <= RBracket
}

// IsIdent reports whether the token is an identifier (keywords included).
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsKeyword reports whether the token is a reserved word.
func (t Token) IsKeyword() bool {
	return t.Kind == Ident && LookupKeyword(t.Text)
}

// HasNewlineBefore reports whether leading trivia contains a line break.
func (t Token) HasNewlineBefore() bool {
	for _, tv := range t.Leading {
		if tv.Kind == TriviaNewline {
			return true
		}
	}
	return false
}
