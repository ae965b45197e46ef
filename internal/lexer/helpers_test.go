package lexer

import (
	"fmt"
	"strings"
	"testing"

	"rym/internal/diag"
	"rym/internal/source"
	"rym/internal/token"
)

// lexString lexes src as a virtual file and returns tokens (EOF included)
// plus the drained diagnostics.
func lexString(t *testing.T, src string) ([]token.Token, []diag.Diagnostic, *source.File) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.rym", []byte(src))
	file := fs.Get(id)
	sink := diag.NewSink(0)
	toks := New(file, Options{Reporter: sink}).All()
	return toks, sink.Collect(), file
}

func kindsOf(toks []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(toks))
	for _, tok := range toks {
		out = append(out, tok.Kind)
	}
	return out
}

func diagnosticsSummary(diags []diag.Diagnostic) string {
	if len(diags) == 0 {
		return "<none>"
	}
	var b strings.Builder
	for _, d := range diags {
		fmt.Fprintf(&b, "\n  %s %s %v", d.Code.ID(), d.Title, d.Primary)
		for _, c := range d.Children {
			fmt.Fprintf(&b, "\n    %s: %s", c.Level.Label(), c.Title)
		}
	}
	return b.String()
}

func expectKinds(t *testing.T, src string, want ...token.Kind) []token.Token {
	t.Helper()
	toks, diags, _ := lexString(t, src)
	if len(diags) != 0 {
		t.Fatalf("%q: unexpected diagnostics:%s", src, diagnosticsSummary(diags))
	}
	want = append(want, token.EOF)
	got := kindsOf(toks)
	if len(got) != len(want) {
		t.Fatalf("%q: got kinds %v, want %v", src, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("%q: token %d = %v, want %v (all: %v)", src, i, got[i], want[i], got)
		}
	}
	return toks
}
