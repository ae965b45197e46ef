package diag

import (
	"cmp"
	"slices"

	"rym/internal/source"
)

// Label is a secondary annotation: a span with a short text.
type Label struct {
	Span source.Span
	Text string
}

// Diagnostic is a structured, leveled report about the source text.
//
// Children are sub-diagnostics (notes, help); they are reachable only
// through their parent.
type Diagnostic struct {
	Level    Level
	Code     Code
	Title    string
	Primary  []source.Span
	Labels   []Label
	Children []Diagnostic
}

// New creates a diagnostic with the primary span; a dummy span is omitted.
func New(level Level, code Code, primary source.Span, title string) Diagnostic {
	d := Diagnostic{Level: level, Code: code, Title: title}
	return d.WithSpan(primary)
}

func NewError(code Code, primary source.Span, title string) Diagnostic {
	return New(LevelError, code, primary, title)
}

// WithSpan appends another primary span. Dummy spans are not recorded.
func (d Diagnostic) WithSpan(sp source.Span) Diagnostic {
	if sp.IsDummy() {
		return d
	}
	d.Primary = append(slices.Clip(d.Primary), sp)
	return d
}

// WithLabel adds a (span, text) annotation keeping labels sorted.
func (d Diagnostic) WithLabel(sp source.Span, text string) Diagnostic {
	if sp.IsDummy() {
		return d
	}
	labels := append(slices.Clip(d.Labels), Label{Span: sp, Text: text})
	slices.SortStableFunc(labels, compareLabels)
	d.Labels = labels
	return d
}

// WithNote attaches a span-less note child.
func (d Diagnostic) WithNote(msg string) Diagnostic {
	return d.WithChild(Diagnostic{Level: LevelNote, Title: msg})
}

// WithHelp attaches a span-less help child.
func (d Diagnostic) WithHelp(msg string) Diagnostic {
	return d.WithChild(Diagnostic{Level: LevelHelp, Title: msg})
}

func (d Diagnostic) WithChild(child Diagnostic) Diagnostic {
	d.Children = append(slices.Clip(d.Children), child)
	return d
}

// Span returns the first primary span, or DummySpan.
func (d Diagnostic) Span() source.Span {
	if len(d.Primary) == 0 {
		return source.DummySpan
	}
	return d.Primary[0]
}

// IsError reports whether the diagnostic is error-level.
func (d Diagnostic) IsError() bool {
	return d.Level >= LevelError
}

func compareLabels(a, b Label) int {
	if c := compareSpans(a.Span, b.Span); c != 0 {
		return c
	}
	return cmp.Compare(a.Text, b.Text)
}

func compareSpans(a, b source.Span) int {
	return cmp.Or(
		cmp.Compare(a.File, b.File),
		cmp.Compare(a.Start, b.Start),
		cmp.Compare(a.End, b.End),
	)
}
