package lexer

import (
	"fmt"

	"mexpand/internal/diag"
	"mexpand/internal/source"
	"mexpand/internal/token"
)

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token   // 1 элементный буфер для токена
	hold   []token.Trivia // накопленные leading trivia
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// NewRange lexes only file.Content[start:end].
func NewRange(file *source.File, start, end uint32, opts Options) *Lexer {
	lx := New(file, opts)
	lx.cursor.Off = start
	lx.cursor.Limit = end
	return lx
}

// Next возвращает следующий **значимый** токен с уже собранным Leading.
// После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.collectLeadingTrivia()

	// Leading из hold к EOF не приклеиваем
	if lx.cursor.EOF() {
		return token.Token{
			Kind: token.EOF,
			Span: lx.emptySpan(),
		}
	}

	ch := lx.cursor.Peek()
	var tok token.Token

	switch {
	case ch == 'r' || ch == 'b':
		// r"..", r#".."#, r#ident, b"..", b'.', br".."
		if t, ok := lx.scanPrefixed(); ok {
			tok = t
		} else {
			tok = lx.scanIdentOrKeyword()
		}

	case ch == '_':
		b0, b1, ok := lx.cursor.Peek2()
		if ok && b0 == '_' && isIdentContinueByte(b1) {
			// "__foo" или "_123" → идентификатор
			tok = lx.scanIdentOrKeyword()
		} else {
			tok = lx.scanOperatorOrPunct()
		}

	case isIdentStartByte(ch), ch >= utf8RuneSelf:
		tok = lx.scanIdentOrKeyword()

	case isDec(ch):
		tok = lx.scanNumber()

	case ch == '"':
		tok = lx.scanString(lx.cursor.Mark())

	case ch == '\'':
		tok = lx.scanQuote()

	default:
		tok = lx.scanOperatorOrPunct()
	}

	if tok.Span.Len() > maxTokenLength {
		lx.errLex(diag.LexTokenTooLong, tok.Span,
			fmt.Sprintf("token exceeds %d bytes", maxTokenLength))
		// дальше не лексим: остаток файла недостоверен
		lx.cursor.Off = lx.cursor.limit()
		tok.Kind = token.Invalid
		tok.Text = ""
	}

	tok.Leading = lx.hold
	lx.hold = nil

	return tok
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	if lx.look != nil {
		return *lx.look
	}
	t := lx.Next()
	lx.look = &t
	return t
}

// All lexes the remaining input; the last element is always EOF.
func (lx *Lexer) All() []token.Token {
	toks := make([]token.Token, 0, 64)
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) emit(k token.Kind, start Mark) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: k, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}
