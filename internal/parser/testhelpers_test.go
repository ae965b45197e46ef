package parser

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"testing"

	"rym/internal/ast"
	"rym/internal/diag"
	"rym/internal/lexer"
	"rym/internal/source"
	"rym/internal/tt"
)

type parsed struct {
	file  *source.File
	b     *ast.Builder
	res   Result
	diags []diag.Diagnostic
}

func (p parsed) sexpr() string {
	return ast.Sexpr(p.b, ast.FileNode(p.res.File))
}

// parseString прогоняет полный конвейер: lexer → tt → parser.
func parseString(t *testing.T, src string) parsed {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.rym", []byte(src)))
	sink := diag.NewSink(0)
	toks := lexer.New(file, lexer.Options{Reporter: sink}).All()
	stream := tt.Build(toks, sink)
	b := ast.NewBuilder(ast.Hints{}, nil)
	res := ParseFile(file, stream, b, Options{Reporter: sink})
	return parsed{file: file, b: b, res: res, diags: sink.Collect()}
}

func diagnosticsSummary(diags []diag.Diagnostic) string {
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Title)
	}
	return strings.Join(lines, "; ")
}

func codesOf(diags []diag.Diagnostic) []diag.Code {
	out := make([]diag.Code, 0, len(diags))
	for _, d := range diags {
		out = append(out, d.Code)
	}
	return out
}

// errorNodeSpans собирает span-ы Error-выражений и Error-операторов.
func errorNodeSpans(b *ast.Builder, file ast.FileID) []source.Span {
	var spans []source.Span
	ast.Inspect(b, ast.FileNode(file), func(b *ast.Builder, node ast.Node) bool {
		if b.IsError(node) {
			spans = append(spans, b.NodeSpan(node))
		}
		return true
	})
	return spans
}

func sortSpans(spans []source.Span) {
	slices.SortFunc(spans, func(a, b source.Span) int {
		if a.Start != b.Start {
			return cmp.Compare(a.Start, b.Start)
		}
		return cmp.Compare(a.End, b.End)
	})
}

// firstExpr возвращает выражение первого оператора файла.
func firstExpr(t *testing.T, p parsed) ast.ExprID {
	t.Helper()
	f := p.b.Files.Get(p.res.File)
	if len(f.Stmts) == 0 {
		t.Fatalf("no statements; diagnostics: %s", diagnosticsSummary(p.diags))
	}
	s := p.b.Stmts.Get(f.Stmts[0])
	if s.Kind != ast.StmtExpr {
		t.Fatalf("first statement is %v, want expression", s.Kind)
	}
	return s.Expr
}
