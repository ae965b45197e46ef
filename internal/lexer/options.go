package lexer

import (
	"rym/internal/diag"
	"rym/internal/source"
)

type Options struct {
	Reporter diag.Reporter // может быть nil - тогда ошибки игнорируем (но продолжаем лексить)
}

func (lx *Lexer) report(code diag.Code, sp source.Span, title string) *diag.ReportBuilder {
	return diag.ReportError(lx.opts.Reporter, code, sp, title)
}
