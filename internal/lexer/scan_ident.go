package lexer

import (
	"mexpand/internal/token"
)

const utf8RuneSelf = 0x80

// scanIdentOrKeyword сканирует идентификатор. Ключевые слова остаются Ident,
// их различает token.LookupKeyword. Token.Text - ровно исходный срез.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	if !lx.eatIdent() {
		return lx.scanOperatorOrPunct()
	}
	tok := lx.emit(token.Ident, start)
	if tok.Text == "_" {
		tok.Kind = token.Underscore
	}
	return tok
}

// eatIdent consumes one identifier and reports whether anything was consumed.
func (lx *Lexer) eatIdent() bool {
	r, sz := lx.peekRune()
	if sz == 0 {
		return false
	}
	if r < utf8RuneSelf {
		if !isIdentStartByte(byte(r)) {
			return false
		}
		lx.cursor.Bump()
	} else {
		if !isIdentStartRune(r) {
			return false
		}
		lx.bumpRune()
	}
	for {
		r2, sz2 := lx.peekRune()
		if sz2 == 0 {
			return true
		}
		if r2 < utf8RuneSelf {
			if !isIdentContinueByte(byte(r2)) {
				return true
			}
			lx.cursor.Bump()
			continue
		}
		if !isIdentContinueRune(r2) {
			return true
		}
		lx.bumpRune()
	}
}

// scanPrefixed handles literals and raw identifiers introduced by 'r' or 'b'.
// Returns false without consuming input when the prefix starts a plain identifier.
func (lx *Lexer) scanPrefixed() (token.Token, bool) {
	start := lx.cursor.Mark()
	b0, b1, ok := lx.cursor.Peek2()
	if !ok {
		return token.Token{}, false
	}
	switch {
	case b0 == 'r' && b1 == '"':
		lx.cursor.Bump()
		return lx.scanRawString(start), true
	case b0 == 'r' && b1 == '#':
		_, _, b2, ok3 := lx.cursor.Peek3()
		if ok3 && (b2 == '"' || b2 == '#') {
			lx.cursor.Bump()
			return lx.scanRawString(start), true
		}
		// r#ident
		lx.cursor.Bump()
		lx.cursor.Bump()
		if lx.eatIdent() {
			return lx.emit(token.Ident, start), true
		}
		lx.cursor.Reset(start)
		return token.Token{}, false
	case b0 == 'b' && b1 == '"':
		lx.cursor.Bump()
		return lx.scanString(start), true
	case b0 == 'b' && b1 == '\'':
		lx.cursor.Bump()
		return lx.scanChar(start), true
	case b0 == 'b' && b1 == 'r':
		_, _, b2, ok3 := lx.cursor.Peek3()
		if ok3 && (b2 == '"' || b2 == '#') {
			lx.cursor.Bump()
			lx.cursor.Bump()
			return lx.scanRawString(start), true
		}
	}
	return token.Token{}, false
}
