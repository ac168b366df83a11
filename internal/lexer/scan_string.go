package lexer

import (
	"unicode/utf8"

	"mexpand/internal/diag"
	"mexpand/internal/token"
)

// scanString сканирует "..." (и b"..." - префикс уже съеден, start указывает на него).
// Перевод строки внутри литерала допустим; escape не валидируем глубоко.
func (lx *Lexer) scanString(start Mark) token.Token {
	lx.cursor.Bump() // opening '"'
	for !lx.cursor.EOF() {
		b := lx.cursor.Bump()
		if b == '"' {
			return lx.emit(token.StringLit, start)
		}
		if b == '\\' && !lx.cursor.EOF() {
			lx.cursor.Bump()
		}
	}
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexUnterminatedString, tok.Span, "unterminated string literal")
	return tok
}

// scanRawString: курсор стоит на первом '#' или '"' после префикса r/br.
func (lx *Lexer) scanRawString(start Mark) token.Token {
	hashes := 0
	for lx.cursor.Eat('#') {
		hashes++
	}
	if !lx.cursor.Eat('"') {
		tok := lx.emit(token.Invalid, start)
		lx.errLex(diag.LexUnterminatedString, tok.Span, "expected '\"' after raw string prefix")
		return tok
	}
	for !lx.cursor.EOF() {
		if lx.cursor.Bump() != '"' {
			continue
		}
		n := 0
		for n < hashes && lx.cursor.Peek() == '#' {
			lx.cursor.Bump()
			n++
		}
		if n == hashes {
			return lx.emit(token.RawStringLit, start)
		}
	}
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexUnterminatedString, tok.Span, "unterminated raw string literal")
	return tok
}

// scanQuote различает lifetime ('a, 'static) и символьный литерал ('a', '\n').
func (lx *Lexer) scanQuote() token.Token {
	start := lx.cursor.Mark()
	rest := lx.file.Content[lx.cursor.Off+1 : lx.cursor.limit()]
	r, sz := utf8.DecodeRune(rest)
	if sz > 0 && isIdentStartRune(r) {
		next, _ := utf8.DecodeRune(rest[sz:])
		if len(rest) == sz || next != '\'' {
			lx.cursor.Bump() // '\''
			lx.eatIdent()
			return lx.emit(token.Lifetime, start)
		}
	}
	return lx.scanChar(start)
}

// scanChar: курсор на открывающей '\”.
func (lx *Lexer) scanChar(start Mark) token.Token {
	lx.cursor.Bump()
	for !lx.cursor.EOF() {
		switch lx.cursor.Peek() {
		case '\'':
			lx.cursor.Bump()
			return lx.emit(token.CharLit, start)
		case '\n':
			tok := lx.emit(token.Invalid, start)
			lx.errLex(diag.LexUnterminatedChar, tok.Span, "unterminated character literal")
			return tok
		case '\\':
			lx.cursor.Bump()
			if !lx.cursor.EOF() {
				lx.bumpRune()
			}
		default:
			lx.bumpRune()
		}
	}
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexUnterminatedChar, tok.Span, "unterminated character literal")
	return tok
}
