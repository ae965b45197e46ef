package diag

import "rym/internal/source"

type dedupKey struct {
	code  Code
	level Level
	span  source.Span
	title string
}

func keyOf(d Diagnostic) dedupKey {
	return dedupKey{code: d.Code, level: d.Level, span: d.Span(), title: d.Title}
}

// DedupReporter wraps another Reporter and suppresses duplicate diagnostics
// with the same code, level, primary span and title.
type DedupReporter struct {
	next Reporter
	seen map[dedupKey]struct{}
}

// NewDedupReporter returns a Reporter that filters out duplicates while
// forwarding unique diagnostics to the provided reporter.
func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{
		next: next,
		seen: make(map[dedupKey]struct{}),
	}
}

func (r *DedupReporter) Emit(d Diagnostic) {
	if r == nil {
		return
	}
	key := keyOf(d)
	if _, ok := r.seen[key]; ok {
		return
	}
	r.seen[key] = struct{}{}
	if r.next != nil {
		r.next.Emit(d)
	}
}
