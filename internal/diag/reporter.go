package diag

import "rym/internal/source"

// Reporter - минимальный контракт получения диагностик от фаз.
// Реализации: *Sink, NopReporter, DedupReporter.
type Reporter interface {
	Emit(d Diagnostic)
}

// NopReporter discards everything.
type NopReporter struct{}

func (NopReporter) Emit(Diagnostic) {}

// ReportBuilder accumulates diagnostic details before emitting to Reporter.
type ReportBuilder struct {
	reporter Reporter
	diag     Diagnostic
	emitted  bool
}

// NewReportBuilder constructs a builder bound to Reporter.
func NewReportBuilder(r Reporter, level Level, code Code, primary source.Span, title string) *ReportBuilder {
	return &ReportBuilder{
		reporter: r,
		diag:     New(level, code, primary, title),
	}
}

// ReportError is a shortcut for LevelError diagnostics.
func ReportError(r Reporter, code Code, primary source.Span, title string) *ReportBuilder {
	return NewReportBuilder(r, LevelError, code, primary, title)
}

// WithNote appends a span-less note.
func (b *ReportBuilder) WithNote(msg string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag = b.diag.WithNote(msg)
	return b
}

// WithHelp appends a span-less help line.
func (b *ReportBuilder) WithHelp(msg string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag = b.diag.WithHelp(msg)
	return b
}

// WithLabel annotates a span.
func (b *ReportBuilder) WithLabel(sp source.Span, text string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag = b.diag.WithLabel(sp, text)
	return b
}

// Emit sends diagnostic to underlying reporter exactly once.
func (b *ReportBuilder) Emit() {
	if b == nil || b.emitted {
		return
	}
	if b.reporter != nil {
		b.reporter.Emit(b.diag)
	}
	b.emitted = true
}

// Diagnostic returns accumulated diagnostic without emitting.
func (b *ReportBuilder) Diagnostic() Diagnostic {
	if b == nil {
		return Diagnostic{}
	}
	return b.diag
}
