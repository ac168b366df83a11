package lexer

import (
	"mexpand/internal/diag"
	"mexpand/internal/token"
)

// Поддержка: 0, 1_000, 0b..., 0o..., 0x..., 1.0, 1e-3, 1.0e+10 и суффиксы (1u8, 2.5f32).
// Суффикс остаётся в Token.Text. "1..2" и "1.foo" - точка не часть числа.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit

	if lx.cursor.Peek() == '0' {
		if _, b1, ok := lx.cursor.Peek2(); ok {
			var digit func(byte) bool
			switch b1 {
			case 'b':
				digit = func(b byte) bool { return b == '0' || b == '1' }
			case 'o':
				digit = func(b byte) bool { return b >= '0' && b <= '7' }
			case 'x':
				digit = isHex
			}
			if digit != nil {
				lx.cursor.Bump()
				lx.cursor.Bump()
				n := 0
				for digit(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
					if lx.cursor.Bump() != '_' {
						n++
					}
				}
				if n == 0 {
					tok := lx.emit(token.Invalid, start)
					lx.errLex(diag.LexBadNumber, tok.Span, "expected digits after base prefix")
					return tok
				}
				lx.eatSuffix()
				return lx.emit(kind, start)
			}
		}
	}

	lx.eatDecDigits()

	// дробная часть: "1." допустимо, но не "1..", не "1.foo"
	if lx.cursor.Peek() == '.' {
		_, b1, ok := lx.cursor.Peek2()
		if !ok || (b1 != '.' && b1 < utf8RuneSelf && !isIdentStartByte(b1)) {
			lx.cursor.Bump()
			kind = token.FloatLit
			lx.eatDecDigits()
		}
	}

	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		mark := lx.cursor.Mark()
		lx.cursor.Bump()
		if s := lx.cursor.Peek(); s == '+' || s == '-' {
			lx.cursor.Bump()
		}
		if isDec(lx.cursor.Peek()) {
			kind = token.FloatLit
			lx.eatDecDigits()
		} else {
			// не экспонента - значит суффикс вида "1em"
			lx.cursor.Reset(mark)
		}
	}

	lx.eatSuffix()
	return lx.emit(kind, start)
}

func (lx *Lexer) eatDecDigits() {
	for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
		lx.cursor.Bump()
	}
}

func (lx *Lexer) eatSuffix() {
	for isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
}
