package parser

import (
	"slices"
	"testing"

	"rym/internal/ast"
	"rym/internal/diag"
	"rym/internal/source"
	"rym/internal/testkit"
)

func TestStatements(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"const", "const x = 1;", "(const x 1)"},
		{"mut", "mut y = x + 1", "(mut y (+ x 1))"},
		{"binding-value-next-line", "const x =\n  1", "(const x 1)"},
		{"fn", "fn add(a, b) { a + b }", "(fn add (a b) (block (+ a b)))"},
		{"fn-expr-body", "fn id(x) x", "(fn id (x) x)"},
		{"fn-no-params", "fn main() {}", "(fn main () (block))"},
		{"mod", "mod m { const x = 1 }", "(mod m (const x 1))"},
		{"nested-mod", "mod a {\n  mod b {\n    fn f() 1\n  }\n}", "(mod a (mod b (fn f () 1)))"},
		{"separators", "const a = 1\nconst b = 2; a +\n  b", "(const a 1) (const b 2) (+ a b)"},
		{"empty-lines", "\n\n1\n\n;;2\n", "1 2"},
		{"semi-expr", "f(x);", "(semi (call f x))"},
		{"fn-in-block", "{ fn f() 1\n f() }", "(block (fn f () 1) (call f))"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := parseString(t, tt.src)
			if len(p.diags) != 0 {
				t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(p.diags))
			}
			if got := p.sexpr(); got != tt.want {
				t.Fatalf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestItemData(t *testing.T) {
	p := parseString(t, "mut counter = 0\nfn f(a, b) a")
	f := p.b.Files.Get(p.res.File)
	if len(f.Stmts) != 2 {
		t.Fatalf("got %d statements", len(f.Stmts))
	}

	bind, ok := p.b.Items.Binding(p.b.Stmts.Get(f.Stmts[0]).Item)
	if !ok || !bind.Mutable {
		t.Fatalf("first item is not a mutable binding")
	}
	item := p.b.Items.Get(p.b.Stmts.Get(f.Stmts[0]).Item)
	if p.b.Name(item.Name) != "counter" || item.NameSpan.Start != 4 || item.NameSpan.End != 11 {
		t.Fatalf("binding name = %q at %v", p.b.Name(item.Name), item.NameSpan)
	}

	fn, ok := p.b.Items.Func(p.b.Stmts.Get(f.Stmts[1]).Item)
	if !ok || len(fn.Params) != 2 || p.b.Name(fn.Params[1].Name) != "b" {
		t.Fatalf("function params = %+v", fn)
	}
}

func TestRecovery(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		want  string
		codes []diag.Code
	}{
		{"unclosed-paren", "(1 + 2", "(group (+ 1 2))", []diag.Code{diag.SynUnclosedDelimiter}},
		{"stray-close", "(1 + 2))", "(group (+ 1 2))", []diag.Code{diag.SynUnexpectedCloseDelimiter}},
		{"missing-operand", "1 +", "(+ 1 (error))", []diag.Code{diag.SynExpectExpression}},
		{"missing-separator", "1 2\n3", "1 (error) 3", []diag.Code{diag.SynUnexpectedToken}},
		{"if-without-block", "if x 1\n2", "(if x (error)) 2", []diag.Code{diag.SynExpectBlock}},
		{"field-without-name", "x.\ny", "(error) y", []diag.Code{diag.SynExpectIdentifier}},
		{"binding-without-name", "const = 1\nconst y = 2", "(error) (const y 2)", []diag.Code{diag.SynExpectIdentifier}},
		{"binding-without-eq", "const x 1", "(error)", []diag.Code{diag.SynExpectEquals}},
		{"fn-missing-comma", "fn f(a b) a", "(fn f (a b) a)", []diag.Code{diag.SynExpectComma}},
		{"fn-missing-body", "fn f()\n1", "(fn f () (error)) 1", []diag.Code{diag.SynExpectExpression}},
		{"fn-missing-params", "fn f { 1 }", "(error)", []diag.Code{diag.SynUnexpectedToken}},
		{"mod-without-block", "mod m 1", "(error)", []diag.Code{diag.SynExpectBlock}},
		{"for-unsupported", "for x in y { x }\n1", "(error) 1", []diag.Code{diag.SynUnsupported}},
		{"bad-start", "else 1\n2", "(error) 2", []diag.Code{diag.SynExpectExpression}},
		{"tuple-missing-comma", "(1 2)", "(tuple 1 2)", []diag.Code{diag.SynExpectComma}},
		{"leftover-in-index", "a[1 2]", "(index a (error))", []diag.Code{diag.SynUnexpectedToken}},
		{"record-missing-colon", "P { x 1, y: 2 }", "(record P (x (error)) (y 2))", []diag.Code{diag.SynExpectColon}},
		{"error-in-block-isolated", "{ 1 +; 2 }\n3", "(block (semi (+ 1 (error))) 2) 3", []diag.Code{diag.SynExpectExpression}},
		{"error-in-args", "f(1, +, 3)", "(call f 1 (error) 3)", []diag.Code{diag.SynExpectExpression}},
		{"invalid-assign", "f() = 1", "(= (call f) 1)", []diag.Code{diag.SynInvalidAssignTarget}},
		{"record-missing-name", "P { 1, y: 2 }", "(record P (_ (error)) (y 2))", []diag.Code{diag.SynExpectIdentifier}},
		{"if-bad-cond", "if , { 1 }", "(if (error) (block 1))", []diag.Code{diag.SynExpectExpression}},
		{"if-operator-cond", "if * { 1 }", "(if (error) (block 1))", []diag.Code{diag.SynExpectExpression}},
		{"if-bad-cond-else", "if , { 1 } else { 2 }", "(if (error) (block 1) (block 2))", []diag.Code{diag.SynExpectExpression}},
		{"if-bad-cond-no-block", "if , 1\n2", "(error) 2", []diag.Code{diag.SynExpectExpression}},
		{"while-bad-cond", "while , {}", "(while (error) (block))", []diag.Code{diag.SynExpectExpression}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := parseString(t, tt.src)
			if got := codesOf(p.diags); !slices.Equal(got, tt.codes) {
				t.Fatalf("codes = %v, want %v: %s", got, tt.codes, diagnosticsSummary(p.diags))
			}
			if got := p.sexpr(); got != tt.want {
				t.Fatalf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

// Каждый Error-узел соответствует ровно одной диагностике парсера.
func TestErrorNodesMatchDiagnostics(t *testing.T) {
	for _, src := range []string{
		"1 +",
		"if x 1",
		"x.",
		"const = 1",
		"for x {}",
		"else",
		"{ 1 +; * }",
		"f(1, +, 3)",
		"if , { 1 }",
		"while , {}",
		"if * { 1 }",
		"if , 1",
		"1 2",
		"1 2 3; 4",
		"a[1 2]",
		"P { x 1 }",
		"P { 1 }",
	} {
		p := parseString(t, src)
		nodes := errorNodeSpans(p.b, p.res.File)
		if len(nodes) != len(p.diags) || len(nodes) != p.res.Errors {
			t.Errorf("%q: %d error nodes, %d diagnostics, Result.Errors=%d: %s",
				src, len(nodes), len(p.diags), p.res.Errors, diagnosticsSummary(p.diags))
			continue
		}
		var primary []source.Span
		for _, d := range p.diags {
			primary = append(primary, d.Primary...)
		}
		sortSpans(nodes)
		sortSpans(primary)
		if !slices.Equal(nodes, primary) {
			t.Errorf("%q: error nodes at %v, diagnostics at %v", src, nodes, primary)
		}
	}
}

func TestFoundLabel(t *testing.T) {
	p := parseString(t, "const 2 = 1")
	if len(p.diags) != 1 {
		t.Fatalf("diagnostics: %s", diagnosticsSummary(p.diags))
	}
	d := p.diags[0]
	if d.Title != "Expected identifier" {
		t.Fatalf("title = %q", d.Title)
	}
	if len(d.Labels) != 1 || d.Labels[0].Text != "found integer literal `2`" {
		t.Fatalf("labels = %+v", d.Labels)
	}
}

func TestEmptyFile(t *testing.T) {
	p := parseString(t, "")
	if len(p.diags) != 0 || p.sexpr() != "" {
		t.Fatalf("got %q, %s", p.sexpr(), diagnosticsSummary(p.diags))
	}
	if ast.CountNodes(p.b, p.res.File) != 0 {
		t.Fatal("empty file has nodes")
	}
}

func TestSpanInvariantsCorpus(t *testing.T) {
	corpus := []string{
		"",
		"1\n",
		"mut x = 1 +\n  2\n",
		"const y = -(x * 3) % 4;\n",
		"fn add(a, b) { a + b }\n",
		"fn f() {\n  if a { 1 } else if b { 2 } else { 3 }\n}\n",
		"mod m {\n  const k = [1, 2, (3,), ()]\n}\n",
		"p = Point { x: 1, y: f(2)[0].z, }\n",
		"while i < 10 { i += 1; if i == 5 { break i } }\n",
		"loop { continue }\nreturn !ok && done || x != 'c'\n",
		"a.b.c = \"s\"\n",
		// восстановление после ошибок
		"f(1 2)\n",
		"1 +\n",
		"a.\nb\n",
		"(1, 2\n",
		"mut = 5\nx\n",
		"for i in xs { i }\nnext\n",
	}
	for _, src := range corpus {
		p := parseString(t, src)
		if err := testkit.CheckSpanInvariants(p.b, p.res.File, p.file); err != nil {
			t.Errorf("%q: %v", src, err)
		}
	}
}
