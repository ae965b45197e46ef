package tt

import (
	"fmt"
	"strings"
	"testing"

	"rym/internal/diag"
	"rym/internal/lexer"
	"rym/internal/source"
	"rym/internal/token"
)

func build(t *testing.T, src string) (TokenStream, []diag.Diagnostic) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.rym", []byte(src)))
	sink := diag.NewSink(0)
	toks := lexer.New(file, lexer.Options{Reporter: sink}).All()
	stream := Build(toks, sink)
	return stream, sink.Collect()
}

// shape renders the stream compactly: groups as delimiters, tokens by kind.
func shape(s TokenStream) string {
	var b strings.Builder
	for i, tree := range s.Trees {
		if i > 0 {
			b.WriteByte(' ')
		}
		if tree.Group == nil {
			b.WriteString(tree.Token.Kind.String())
			continue
		}
		g := tree.Group
		b.WriteString(g.Delim.Open().Lexeme())
		b.WriteString(shape(g.Stream))
		if g.Unclosed {
			b.WriteString("…")
		} else {
			b.WriteString(g.Delim.Close().Lexeme())
		}
	}
	return b.String()
}

func titles(diags []diag.Diagnostic) []string {
	out := make([]string, 0, len(diags))
	for _, d := range diags {
		out = append(out, fmt.Sprintf("%s@%d..%d", d.Title, d.Span().Start, d.Span().End))
	}
	return out
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		shape string
		diags []string
	}{
		{"empty call", "empty_call()", "Ident ()", nil},
		{"nested", "f(a, [b]) { c }", "Ident (Ident Comma [Ident]) {Ident}", nil},
		{"newlines kept", "{\na\n}", "{Newline Ident Newline}", nil},
		{"unclosed", "(1 + 2", "(IntLit Plus IntLit…", []string{"Unclosed delimiter@0..6"}},
		{"unclosed empty", "(", "(…", []string{"Unclosed delimiter@0..1"}},
		{"unclosed trailing newline", "(a\n", "(Ident Newline…", []string{"Unclosed delimiter@0..2"}},
		{"close inside other group", "{ f(x }", "{Ident (Ident……", []string{
			"Unexpected closing delimiter@6..7",
			"Unclosed delimiter@3..5",
			"Unclosed delimiter@0..5",
		}},
		{"stray close", "a ) b", "Ident Ident", []string{"Unexpected closing delimiter@2..3"}},
		{"mismatched close", "(a ] b)", "(Ident Ident)", []string{"Unexpected closing delimiter@3..4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stream, diags := build(t, tt.src)
			if s := shape(stream); s != tt.shape {
				t.Fatalf("shape = %q, want %q", s, tt.shape)
			}
			got := titles(diags)
			if strings.Join(got, ";") != strings.Join(tt.diags, ";") {
				t.Fatalf("diags = %v, want %v", got, tt.diags)
			}
		})
	}
}

func TestDelimSpans(t *testing.T) {
	stream, diags := build(t, "call(a)")
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", titles(diags))
	}
	g := stream.Trees[1].Group
	if g == nil {
		t.Fatal("expected group")
	}
	want := DelimSpan{
		Open:   source.Span{Start: 4, End: 5},
		Close:  source.Span{Start: 6, End: 7},
		Entire: source.Span{Start: 4, End: 7},
	}
	if g.Span != want {
		t.Fatalf("span = %+v, want %+v", g.Span, want)
	}
	if g.Stream.End != (source.Span{Start: 6, End: 6}) {
		t.Fatalf("inner end = %v", g.Stream.End)
	}
	if stream.End != (source.Span{Start: 7, End: 7}) {
		t.Fatalf("root end = %v", stream.End)
	}
}

func TestDelimiterBalance(t *testing.T) {
	for n := 1; n <= 6; n++ {
		for m := 0; m <= n+1; m++ {
			src := strings.Repeat("(", n) + "x" + strings.Repeat(")", m)
			stream, diags := build(t, src)
			total, unclosed := stream.Groups()
			if total != n {
				t.Fatalf("%q: %d groups, want %d", src, total, n)
			}
			var unclosedDiags, strayDiags int
			for _, d := range diags {
				switch d.Code {
				case diag.SynUnclosedDelimiter:
					unclosedDiags++
				case diag.SynUnexpectedCloseDelimiter:
					strayDiags++
				}
			}
			wantUnclosed := max(n-m, 0)
			if unclosed != wantUnclosed || unclosedDiags != wantUnclosed {
				t.Fatalf("%q: unclosed=%d diags=%d, want %d", src, unclosed, unclosedDiags, wantUnclosed)
			}
			if strayDiags != max(m-n, 0) {
				t.Fatalf("%q: %d stray close diagnostics", src, strayDiags)
			}
		}
	}
}

func TestFlattenRestoresTokens(t *testing.T) {
	src := "fn f(a) { [a, (1)] }\nf(2)"
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.rym", []byte(src)))
	toks := lexer.New(file, lexer.Options{}).All()
	flat := Build(toks, nil).Flatten()
	toks = toks[:len(toks)-1] // EOF
	if len(flat) != len(toks) {
		t.Fatalf("flatten returned %d tokens, want %d", len(flat), len(toks))
	}
	for i := range toks {
		if flat[i].Kind != toks[i].Kind || flat[i].Span != toks[i].Span {
			t.Fatalf("token %d: %v@%v, want %v@%v", i, flat[i].Kind, flat[i].Span, toks[i].Kind, toks[i].Span)
		}
	}
}

func TestIterSkipsNewlines(t *testing.T) {
	stream, _ := build(t, "a\nb\n")
	var kinds []token.Kind
	for tree := range stream.Iter(true) {
		kinds = append(kinds, tree.Kind())
	}
	if len(kinds) != 2 || kinds[0] != token.Ident || kinds[1] != token.Ident {
		t.Fatalf("kinds = %v", kinds)
	}
	n := 0
	for range stream.Iter(false) {
		n++
	}
	if n != 4 {
		t.Fatalf("Iter(false) yielded %d trees, want 4", n)
	}
}
