package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"rym/internal/ast"
	"rym/internal/diag"
	"rym/internal/lexer"
	"rym/internal/parser"
	"rym/internal/source"
	"rym/internal/token"
	"rym/internal/tt"
)

type parsed struct {
	fs     *source.FileSet
	file   *source.File
	stream tt.TokenStream
	b      *ast.Builder
	id     ast.FileID
}

func parseString(t *testing.T, src string) parsed {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.rym", []byte(src)))
	sink := diag.NewSink(0)
	stream := tt.Build(lexer.New(file, lexer.Options{Reporter: sink}).All(), sink)
	b := ast.NewBuilder(ast.Hints{}, nil)
	res := parser.ParseFile(file, stream, b, parser.Options{Reporter: sink})
	if sink.Len() != 0 {
		t.Fatalf("unexpected diagnostics:\n%s", diag.FormatShort(sink.Items(), fs, false))
	}
	return parsed{fs: fs, file: file, stream: stream, b: b, id: res.File}
}

func TestFormatTokensPretty(t *testing.T) {
	p := parseString(t, "a + 12\n")
	var buf bytes.Buffer
	if err := FormatTokensPretty(&buf, lexer.New(p.file, lexer.Options{}).All(), p.fs); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("lines = %d:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "  1: Ident") || !strings.HasSuffix(lines[0], " a at 1:1-1:2") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.HasSuffix(lines[2], " 12 at 1:5-1:7") {
		t.Errorf("line 2 = %q", lines[2])
	}
	if !strings.Contains(lines[4], "EOF") {
		t.Errorf("last line = %q", lines[4])
	}
}

func TestFormatTokensJSON(t *testing.T) {
	p := parseString(t, "\"hi\\n\"\n")
	var buf bytes.Buffer
	if err := FormatTokensJSON(&buf, lexer.New(p.file, lexer.Options{}).All()); err != nil {
		t.Fatal(err)
	}
	var out []TokenOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out) != 3 || out[0].Kind != "StringLit" || out[0].Value != `"hi\n"` {
		t.Fatalf("tokens = %+v", out)
	}
}

func TestFormatPrims(t *testing.T) {
	content := []byte("x /* open")
	var list []token.Prim
	for p := range lexer.NewPrimitive(content).All() {
		list = append(list, p)
	}
	var buf bytes.Buffer
	if err := FormatPrimsPretty(&buf, list, content); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "(unterminated)") {
		t.Fatalf("unterminated comment not marked:\n%s", buf.String())
	}
	if strings.Count(buf.String(), "(unterminated)") != 1 {
		t.Fatalf("only the comment is unterminated:\n%s", buf.String())
	}
	var joined strings.Builder
	for _, p := range primOutputs(list, content) {
		joined.WriteString(p.Text)
	}
	if joined.String() != string(content) {
		t.Fatalf("prim texts do not cover input: %q", joined.String())
	}
}

func TestFormatTreePretty(t *testing.T) {
	p := parseString(t, "f(a)\n")
	var buf bytes.Buffer
	if err := FormatTreePretty(&buf, p.stream, p.fs); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"Ident f 1:1-1:2",
		"() 1:2-1:5",
		"  Ident a 1:3-1:4",
		"Newline 1:5-2:1",
		"EOF 2:1-2:1",
		"",
	}, "\n")
	if buf.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestFormatTreeJSON(t *testing.T) {
	p := parseString(t, "[1, (2)]")
	var buf bytes.Buffer
	if err := FormatTreeJSON(&buf, p.stream); err != nil {
		t.Fatal(err)
	}
	var out []TreeOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out) == 0 || out[0].Kind != "[]" || len(out[0].Children) != 3 || out[0].Children[2].Kind != "()" {
		t.Fatalf("tree = %+v", out)
	}
}

func TestFormatASTPretty(t *testing.T) {
	p := parseString(t, "mut x = 1 + 2\n")
	var buf bytes.Buffer
	if err := FormatASTPretty(&buf, p.b, p.id, p.fs); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"File test.rym (span: 1:1-2:1)",
		"└─ Binding mut x (span: 1:1-1:14)",
		"   └─ Binary + (span: 1:9-1:14)",
		"      ├─ Lit 1 (span: 1:9-1:10)",
		"      └─ Lit 2 (span: 1:13-1:14)",
		"",
	}, "\n")
	if buf.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestFormatASTJSON(t *testing.T) {
	p := parseString(t, "fn f(a, b) { a.x }\n")
	var buf bytes.Buffer
	if err := FormatASTJSON(&buf, p.b, p.id); err != nil {
		t.Fatal(err)
	}
	var out ASTNodeOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Type != "File" || len(out.Children) != 1 {
		t.Fatalf("root = %+v", out)
	}
	item := out.Children[0].Children[0]
	if item.Type != "Item" || item.Kind != "Func" || item.Text != "f" {
		t.Fatalf("item = %+v", item)
	}
	if params, ok := item.Fields["params"].([]any); !ok || len(params) != 2 {
		t.Fatalf("params = %#v", item.Fields["params"])
	}
}

func TestFormatASTSexpr(t *testing.T) {
	p := parseString(t, "1; 2\nx = -y\n")
	var buf bytes.Buffer
	if err := FormatASTSexpr(&buf, p.b, p.id); err != nil {
		t.Fatal(err)
	}
	if want := "(semi 1)\n2\n(= x (- y))\n"; buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}
