package parser

import (
	"mexpand/internal/diag"
	"mexpand/internal/source"
	"mexpand/internal/token"
)

// advance - съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF && tok.Kind != token.Invalid {
		p.lastSpan = tok.Span
	}
	return tok
}

// getDiagnosticSpan - возвращает лучший span для диагностики.
// На EOF указываем позицию сразу после последнего токена.
func (p *Parser) getDiagnosticSpan() source.Span {
	peek := p.lx.Peek()
	if peek.Kind == token.EOF && p.lastSpan.End > 0 {
		return source.Span{
			File:  p.lastSpan.File,
			Start: p.lastSpan.End,
			End:   p.lastSpan.End,
		}
	}
	return peek.Span
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) bool {
	if p.opts.Reporter == nil {
		return false
	}
	if sev == diag.SevError {
		// лимит уже исчерпан предыдущими ошибками
		if p.opts.Enough() {
			return false
		}
		p.opts.CurrentErrors++
	}
	diag.NewReportBuilder(p.opts.Reporter, sev, code, sp, msg).Emit()
	return true
}
