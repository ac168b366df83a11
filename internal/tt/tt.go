// Package tt models token trees: the input and output of macro expansion.
package tt

import (
	"strings"
)

type DelimiterKind uint8

const (
	// DelimNone marks an invisible group, as produced by builtin expansions.
	DelimNone DelimiterKind = iota
	DelimParen
	DelimBrace
	DelimBracket
)

func (d DelimiterKind) open() string {
	switch d {
	case DelimParen:
		return "("
	case DelimBrace:
		return "{"
	case DelimBracket:
		return "["
	}
	return ""
}

func (d DelimiterKind) close() string {
	switch d {
	case DelimParen:
		return ")"
	case DelimBrace:
		return "}"
	case DelimBracket:
		return "]"
	}
	return ""
}

// Spacing says whether a punct is glued to the next token (`:` in `::`).
type Spacing uint8

const (
	Alone Spacing = iota
	Joint
)

// TokenTree is either a leaf (Literal, Ident, Punct) or a *Subtree.
type TokenTree interface {
	writeTo(b *strings.Builder)
}

type Literal struct {
	Text string
}

type Ident struct {
	Text string
}

type Punct struct {
	Char    rune
	Spacing Spacing
}

type Subtree struct {
	Delimiter  DelimiterKind
	TokenTrees []TokenTree
}

func (l Literal) writeTo(b *strings.Builder) { b.WriteString(l.Text) }
func (i Ident) writeTo(b *strings.Builder)   { b.WriteString(i.Text) }
func (p Punct) writeTo(b *strings.Builder)   { b.WriteRune(p.Char) }

func (s *Subtree) writeTo(b *strings.Builder) {
	b.WriteString(s.Delimiter.open())
	for i, t := range s.TokenTrees {
		t.writeTo(b)
		if p, ok := t.(Punct); ok && p.Spacing == Joint {
			continue
		}
		if i < len(s.TokenTrees)-1 {
			b.WriteByte(' ')
		}
	}
	b.WriteString(s.Delimiter.close())
}

// String renders the tree as source text, one space between tokens.
func (s *Subtree) String() string {
	if s == nil {
		return ""
	}
	var b strings.Builder
	s.writeTo(&b)
	return b.String()
}

// Len counts the direct children of s.
func (s *Subtree) Len() int {
	if s == nil {
		return 0
	}
	return len(s.TokenTrees)
}

// SingleLiteral returns the only child when it is a literal.
func (s *Subtree) SingleLiteral() (Literal, bool) {
	if s.Len() != 1 {
		return Literal{}, false
	}
	lit, ok := s.TokenTrees[0].(Literal)
	return lit, ok
}
