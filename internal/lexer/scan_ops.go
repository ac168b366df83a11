package lexer

import (
	"mexpand/internal/diag"
	"mexpand/internal/token"
)

// Жадность: сначала 3-символьные, затем 2-символьные, затем 1-символьные.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()

	switch {
	case lx.try3('.', '.', '='):
		return lx.emit(token.DotDotEq, start)
	case lx.try3('.', '.', '.'):
		return lx.emit(token.DotDotDot, start)
	case lx.try3('<', '<', '='):
		return lx.emit(token.ShlEq, start)
	case lx.try3('>', '>', '='):
		return lx.emit(token.ShrEq, start)
	}

	switch {
	case lx.try2('.', '.'):
		return lx.emit(token.DotDot, start)
	case lx.try2(':', ':'):
		return lx.emit(token.ColonColon, start)
	case lx.try2('-', '>'):
		return lx.emit(token.Arrow, start)
	case lx.try2('=', '>'):
		return lx.emit(token.FatArrow, start)
	case lx.try2('&', '&'):
		return lx.emit(token.AndAnd, start)
	case lx.try2('|', '|'):
		return lx.emit(token.OrOr, start)
	case lx.try2('=', '='):
		return lx.emit(token.EqEq, start)
	case lx.try2('!', '='):
		return lx.emit(token.BangEq, start)
	case lx.try2('<', '='):
		return lx.emit(token.LtEq, start)
	case lx.try2('>', '='):
		return lx.emit(token.GtEq, start)
	case lx.try2('<', '<'):
		return lx.emit(token.Shl, start)
	case lx.try2('>', '>'):
		return lx.emit(token.Shr, start)
	case lx.try2('+', '='):
		return lx.emit(token.PlusEq, start)
	case lx.try2('-', '='):
		return lx.emit(token.MinusEq, start)
	case lx.try2('*', '='):
		return lx.emit(token.StarEq, start)
	case lx.try2('/', '='):
		return lx.emit(token.SlashEq, start)
	case lx.try2('%', '='):
		return lx.emit(token.PercentEq, start)
	case lx.try2('^', '='):
		return lx.emit(token.CaretEq, start)
	case lx.try2('&', '='):
		return lx.emit(token.AmpEq, start)
	case lx.try2('|', '='):
		return lx.emit(token.PipeEq, start)
	}

	if k, ok := singlePunct[lx.cursor.Peek()]; ok {
		lx.cursor.Bump()
		return lx.emit(k, start)
	}

	// неизвестный символ: съедаем руну целиком
	lx.bumpRune()
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexUnknownChar, tok.Span, "unknown character "+quoteText(tok.Text))
	return tok
}

var singlePunct = map[byte]token.Kind{
	'+': token.Plus, '-': token.Minus, '*': token.Star, '/': token.Slash,
	'%': token.Percent, '^': token.Caret, '!': token.Bang, '&': token.Amp,
	'|': token.Pipe, '=': token.Eq, '>': token.Gt, '<': token.Lt,
	'@': token.At, '_': token.Underscore, '.': token.Dot, ',': token.Comma,
	';': token.Semicolon, ':': token.Colon, '#': token.Pound, '$': token.Dollar,
	'?': token.Question, '~': token.Tilde,
	'(': token.LParen, ')': token.RParen,
	'{': token.LBrace, '}': token.RBrace,
	'[': token.LBracket, ']': token.RBracket,
}
