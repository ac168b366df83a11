package lexer

import (
	"mexpand/internal/diag"
	"mexpand/internal/source"
)

// maxTokenLength bounds a single token; longer input is reported and skipped.
const maxTokenLength = 1 << 16

type Options struct {
	Reporter diag.Reporter // может быть nil - тогда ошибки игнорируем (но продолжаем лексить)
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		diag.ReportError(lx.opts.Reporter, code, sp, msg).Emit()
	}
}
