package driver

import (
	"context"
	"time"

	"rym/internal/diag"
	"rym/internal/observ"
	"rym/internal/trace"
)

// Options - общие настройки конвейера одного файла.
type Options struct {
	MaxDiagnostics int  // 0 - без лимита
	Dedup          bool // подавлять повторы (code, span, title)
	Normalize      bool // ast.Normalize после разбора
	// Timer накапливает время фаз; nil - замеры выключены.
	Timer *observ.Timer
}

// reporter создаёт sink на один файл и reporter поверх него.
func (o Options) reporter() (*diag.Sink, diag.Reporter) {
	sink := diag.NewSink(o.MaxDiagnostics)
	if o.Dedup {
		return sink, diag.NewDedupReporter(sink)
	}
	return sink, sink
}

// drain забирает диагностики в детерминированном порядке.
func drain(sink *diag.Sink) (diags []diag.Diagnostic, dropped int) {
	dropped = sink.Dropped()
	diags = sink.Collect()
	diag.Sort(diags)
	return diags, dropped
}

// runPass оборачивает фазу в trace-спан и добавляет её время в Timer.
func runPass(ctx context.Context, opts Options, name string, fn func(sp *trace.Span)) {
	_, sp := trace.Start(ctx, trace.ScopePass, name)
	start := time.Now()
	fn(sp)
	opts.Timer.Add(name, time.Since(start))
	sp.End("")
}
