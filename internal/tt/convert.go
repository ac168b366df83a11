package tt

import (
	"unicode/utf8"

	"mexpand/internal/token"
)

// FromTokens builds a tree from a flat token stream. Delimiters open and close
// subtrees; a closer without an opener becomes a punct, unclosed groups end at
// the end of the stream. Invalid tokens are dropped.
func FromTokens(delim DelimiterKind, toks []token.Token) *Subtree {
	root := &Subtree{Delimiter: delim}
	stack := []*Subtree{root}
	closers := []token.Kind{token.Invalid}

	for i, tok := range toks {
		top := stack[len(stack)-1]
		switch {
		case tok.Kind.IsOpenDelim():
			sub := &Subtree{Delimiter: delimOf(tok.Kind)}
			top.TokenTrees = append(top.TokenTrees, sub)
			stack = append(stack, sub)
			closers = append(closers, tok.Kind.Closer())
		case tok.Kind.IsCloseDelim() && closers[len(closers)-1] == tok.Kind:
			stack = stack[:len(stack)-1]
			closers = closers[:len(closers)-1]
		case tok.Kind == token.Ident || tok.Kind == token.Underscore:
			top.TokenTrees = append(top.TokenTrees, Ident{Text: tok.Text})
		case tok.IsLiteral() || tok.Kind == token.Lifetime:
			top.TokenTrees = append(top.TokenTrees, Literal{Text: tok.Text})
		case tok.IsPunct():
			top.TokenTrees = appendPuncts(top.TokenTrees, tok, joinedWithNext(toks, i))
		}
	}
	return root
}

func delimOf(k token.Kind) DelimiterKind {
	switch k {
	case token.LParen:
		return DelimParen
	case token.LBrace:
		return DelimBrace
	case token.LBracket:
		return DelimBracket
	}
	return DelimNone
}

// appendPuncts splits multi-char operators (`::`, `=>`) into joint puncts.
func appendPuncts(out []TokenTree, tok token.Token, joint bool) []TokenTree {
	text := tok.Text
	for len(text) > 0 {
		r, sz := utf8.DecodeRuneInString(text)
		text = text[sz:]
		sp := Joint
		if len(text) == 0 && !joint {
			sp = Alone
		}
		out = append(out, Punct{Char: r, Spacing: sp})
	}
	return out
}

func joinedWithNext(toks []token.Token, i int) bool {
	if i+1 >= len(toks) {
		return false
	}
	next := toks[i+1]
	return next.IsPunct() && !next.Kind.IsOpenDelim() && !next.Kind.IsCloseDelim() &&
		len(next.Leading) == 0 && next.Span.Start == toks[i].Span.End
}
