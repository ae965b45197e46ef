package diag

import (
	"strings"
	"testing"

	"rym/internal/source"
)

func sp(start, end uint32) source.Span {
	return source.Span{File: 1, Start: start, End: end}
}

func TestNewOmitsDummySpan(t *testing.T) {
	d := NewError(LexUnknownChar, source.DummySpan, "Invalid character")
	if len(d.Primary) != 0 {
		t.Fatalf("dummy span must be omitted, got %v", d.Primary)
	}
	if !d.Span().IsDummy() {
		t.Fatalf("Span() of spanless diagnostic = %v", d.Span())
	}

	d = NewError(LexUnknownChar, sp(0, 1), "Invalid character")
	if len(d.Primary) != 1 || d.Primary[0] != sp(0, 1) {
		t.Fatalf("primary = %v", d.Primary)
	}
}

func TestLabelsSorted(t *testing.T) {
	d := NewError(SynExpectComma, sp(7, 8), "Expected `,`").
		WithLabel(sp(7, 8), "found `2`").
		WithLabel(sp(0, 1), "b").
		WithLabel(sp(0, 1), "a")
	want := []string{"a", "b", "found `2`"}
	if len(d.Labels) != len(want) {
		t.Fatalf("labels = %v", d.Labels)
	}
	for i, l := range d.Labels {
		if l.Text != want[i] {
			t.Errorf("label %d = %q, want %q", i, l.Text, want[i])
		}
	}
}

func TestWithDoesNotAlias(t *testing.T) {
	base := NewError(LexBadEscape, sp(0, 2), "x").WithNote("one")
	a := base.WithNote("a")
	b := base.WithNote("b")
	if a.Children[1].Title != "a" || b.Children[1].Title != "b" {
		t.Fatalf("children aliased: %v / %v", a.Children, b.Children)
	}
}

func TestSinkCollectDrains(t *testing.T) {
	s := NewSink(0)
	s.Emit(NewError(LexReservedChar, sp(0, 1), "Reserved character"))
	ReportError(s, LexUnterminatedString, sp(2, 6), "Unterminated string literal").
		WithNote("Missing trailing `\"` to terminate the string literal").
		Emit()

	if !s.HasErrors() {
		t.Fatal("expected errors")
	}
	got := s.Collect()
	if len(got) != 2 {
		t.Fatalf("collected %d diagnostics, want 2", len(got))
	}
	if got[1].Children[0].Level != LevelNote {
		t.Errorf("child level = %v", got[1].Children[0].Level)
	}
	if s.Len() != 0 || len(s.Collect()) != 0 {
		t.Fatal("sink must be empty after Collect")
	}
}

func TestSinkLimit(t *testing.T) {
	s := NewSink(2)
	for i := range uint32(5) {
		s.Emit(NewError(SynUnexpectedToken, sp(i, i+1), "Unexpected token"))
	}
	if s.Len() != 2 || s.Dropped() != 3 {
		t.Fatalf("len=%d dropped=%d", s.Len(), s.Dropped())
	}
}

func TestSortAndDedup(t *testing.T) {
	s := NewSink(0)
	s.Emit(NewError(SynExpectComma, sp(9, 10), "Expected `,`"))
	s.Emit(New(LevelWarning, SynInfo, sp(2, 3), "w"))
	s.Emit(NewError(SynExpectComma, sp(2, 3), "Expected `,`"))
	s.Emit(NewError(SynExpectComma, sp(9, 10), "Expected `,`"))
	s.Dedup()
	s.Sort()

	items := s.Items()
	if len(items) != 3 {
		t.Fatalf("after dedup %d items", len(items))
	}
	if items[0].Level != LevelError || items[1].Level != LevelWarning || items[2].Span().Start != 9 {
		t.Fatalf("unexpected order: %+v", items)
	}
}

func TestDedupReporter(t *testing.T) {
	s := NewSink(0)
	r := NewDedupReporter(s)
	for range 3 {
		r.Emit(NewError(SynUnclosedDelimiter, sp(0, 4), "Unclosed delimiter"))
	}
	r.Emit(NewError(SynUnclosedDelimiter, sp(5, 9), "Unclosed delimiter"))
	if s.Len() != 2 {
		t.Fatalf("got %d diagnostics, want 2", s.Len())
	}
}

func TestBuilderEmitsOnce(t *testing.T) {
	s := NewSink(0)
	b := ReportError(s, SynExpectExpression, sp(0, 1), "Expected expression")
	b.Emit()
	b.Emit()
	if s.Len() != 1 {
		t.Fatalf("builder emitted %d times", s.Len())
	}
}

func TestCodeID(t *testing.T) {
	tests := map[Code]string{
		UnknownCode:           "",
		LexUnterminatedString: "LEX1002",
		SynExpectComma:        "SYN2006",
		IOLoadFileError:       "IO4001",
	}
	for c, want := range tests {
		if got := c.ID(); got != want {
			t.Errorf("%d.ID() = %q, want %q", c, got, want)
		}
	}
}

func TestFormatShort(t *testing.T) {
	fs := source.NewFileSetWithBase("/workspace")
	id := fs.Add("/workspace/src/main.rym", []byte("a\nb\n"), 0)

	diags := []Diagnostic{
		NewError(SynUnexpectedToken, source.Span{File: id, Start: 2, End: 3}, "second\nline"),
		NewError(LexReservedChar, source.Span{File: id, Start: 0, End: 1}, "Reserved character").
			WithNote("note text"),
	}
	want := strings.Join([]string{
		"error LEX1005 src/main.rym:1:1 Reserved character",
		"note LEX1005 src/main.rym:1:1 note text",
		"error SYN2001 src/main.rym:2:1 second line",
	}, "\n")
	if got := FormatShort(diags, fs, true); got != want {
		t.Fatalf("unexpected short output:\nwant:\n%s\n\ngot:\n%s", want, got)
	}
}
