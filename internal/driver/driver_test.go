package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"rym/internal/ast"
	"rym/internal/diag"
	"rym/internal/observ"
	"rym/internal/source"
	"rym/internal/trace"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func codesOf(diags []diag.Diagnostic) []diag.Code {
	out := make([]diag.Code, len(diags))
	for i, d := range diags {
		out[i] = d.Code
	}
	return out
}

func TestParsePassExtrasOnlyWhenTraced(t *testing.T) {
	tests := []struct {
		name  string
		level trace.Level
		want  string
	}{
		{"phase", trace.LevelPhase, "4"},
		{"off", trace.LevelOff, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := source.NewFileSet()
			id := fs.AddVirtual("a.rym", []byte("1 + 2\n"))
			r := trace.NewRingTracer(32, tt.level)
			ctx := trace.WithTracer(context.Background(), r)

			ParseSource(ctx, fs, id, Options{})
			got := ""
			for _, ev := range r.Snapshot() {
				if ev.Kind == trace.KindSpanEnd && ev.Name == "parse" {
					got = ev.Extra["nodes"]
				}
			}
			if got != tt.want {
				t.Fatalf("nodes extra = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseSourceVirtual(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.rym", []byte("mut x = 1 +\n  2\n"))
	timer := observ.NewTimer()

	res := ParseSource(context.Background(), fs, id, Options{Timer: timer})
	if len(res.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", codesOf(res.Diagnostics))
	}
	if got := ast.Sexpr(res.Builder, ast.FileNode(res.FileID)); got != "(mut x (+ 1 2))" {
		t.Fatalf("sexpr = %q", got)
	}

	seen := map[string]bool{}
	for _, ph := range timer.Report().Phases {
		seen[ph.Name] = true
	}
	for _, name := range []string{"lex", "tree", "parse"} {
		if !seen[name] {
			t.Errorf("phase %q not timed; report = %+v", name, timer.Report())
		}
	}
	if seen["normalize"] {
		t.Errorf("normalize ran although disabled")
	}
}

func TestParseSourceNormalize(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("n.rym", []byte("--x\n"))
	res := ParseSource(context.Background(), fs, id, Options{Normalize: true})
	if res.Normalized != 1 {
		t.Fatalf("Normalized = %d, want 1", res.Normalized)
	}
	if got := ast.Sexpr(res.Builder, ast.FileNode(res.FileID)); got != "x" {
		t.Fatalf("sexpr = %q", got)
	}
}

func TestParseSourceCollectsAllPasses(t *testing.T) {
	fs := source.NewFileSet()
	// лексер (незакрытая строка), дерево (незакрытая скобка) и парсер
	id := fs.AddVirtual("bad.rym", []byte("f(1 2)\n\"abc\n"))
	res := ParseSource(context.Background(), fs, id, Options{})
	if !res.HasErrors() {
		t.Fatalf("expected errors")
	}
	codes := codesOf(res.Diagnostics)
	found := false
	for _, c := range codes {
		if c == diag.SynExpectComma {
			found = true
		}
	}
	if !found {
		t.Fatalf("codes = %v, want %v among them", codes, diag.SynExpectComma)
	}
	// диагностики отсортированы по позиции
	for i := 1; i < len(res.Diagnostics); i++ {
		if res.Diagnostics[i-1].Span().Start > res.Diagnostics[i].Span().Start {
			t.Fatalf("diagnostics not sorted: %v", codes)
		}
	}
}

func TestMaxDiagnosticsDrops(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("many.rym", []byte("f(1 2 3 4 5)\n"))
	res := ParseSource(context.Background(), fs, id, Options{MaxDiagnostics: 2})
	if len(res.Diagnostics) != 2 {
		t.Fatalf("len = %d, want 2", len(res.Diagnostics))
	}
	if res.Dropped != 2 {
		t.Fatalf("Dropped = %d, want 2", res.Dropped)
	}
}

func TestTokenizeFileMissing(t *testing.T) {
	_, err := TokenizeFile(context.Background(), filepath.Join(t.TempDir(), "nope.rym"), Options{})
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestListSourceFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.rym"), "1\n")
	writeFile(t, filepath.Join(dir, "sub", "a.rym"), "2\n")
	writeFile(t, filepath.Join(dir, "notes.txt"), "x\n")
	writeFile(t, filepath.Join(dir, ".git", "c.rym"), "3\n")

	files, err := ListSourceFiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{filepath.Join(dir, "b.rym"), filepath.Join(dir, "sub", "a.rym")}
	if len(files) != len(want) {
		t.Fatalf("files = %v, want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Fatalf("files = %v, want %v", files, want)
		}
	}

	single, err := ListSourceFiles(want[0])
	if err != nil || len(single) != 1 || single[0] != want[0] {
		t.Fatalf("single file: %v, %v", single, err)
	}
}

func TestParseDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "ok.rym"), "fn f(a) { a }\n")
	writeFile(t, filepath.Join(dir, "bad.rym"), "mut = 1\n")

	_, results, err := ParseDir(context.Background(), dir, DirOptions{Jobs: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d", len(results))
	}
	// отсортировано: bad.rym, ok.rym
	if len(results[0].Diagnostics) == 0 {
		t.Errorf("bad.rym: expected diagnostics")
	}
	if len(results[1].Diagnostics) != 0 {
		t.Errorf("ok.rym: unexpected diagnostics %v", codesOf(results[1].Diagnostics))
	}
	if got := ast.Sexpr(results[1].Parse.Builder, ast.FileNode(results[1].Parse.FileID)); got != "(fn f (a) (block a))" {
		t.Errorf("ok.rym sexpr = %q", got)
	}
}

func TestTokenizeDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.rym"), "a + b\n")
	_, results, err := TokenizeDir(context.Background(), dir, DirOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d", len(results))
	}
	// a + b \n EOF
	if n := len(results[0].Tokens); n != 5 {
		t.Fatalf("tokens = %d, want 5", n)
	}
}

func TestDiagnoseDirUsesCache(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.rym"), "f(1 2)\n")
	writeFile(t, filepath.Join(dir, "b.rym"), "1 + 2\n")
	cache, err := OpenDiskCacheAt(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	opts := DirOptions{Options: Options{Dedup: true}, Cache: cache}

	_, first, err := DiagnoseDir(context.Background(), dir, opts)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range first {
		if r.Cached {
			t.Fatalf("%s: cached on first run", r.Path)
		}
	}

	fs, second, err := DiagnoseDir(context.Background(), dir, opts)
	if err != nil {
		t.Fatal(err)
	}
	for i, r := range second {
		if !r.Cached {
			t.Fatalf("%s: not cached on second run", r.Path)
		}
		if len(r.Diagnostics) != len(first[i].Diagnostics) {
			t.Fatalf("%s: %d diagnostics from cache, want %d", r.Path, len(r.Diagnostics), len(first[i].Diagnostics))
		}
		for _, d := range r.Diagnostics {
			if d.Span().File != r.FileID {
				t.Fatalf("%s: span file %d, want %d", r.Path, d.Span().File, r.FileID)
			}
		}
	}
	if !second[0].HasErrors() || second[1].HasErrors() {
		t.Fatalf("unexpected error state: %+v", second)
	}
	if fs.Get(second[0].FileID) == nil {
		t.Fatalf("file set lost a.rym")
	}

	// изменение содержимого - промах кеша
	writeFile(t, filepath.Join(dir, "b.rym"), "1 +\n")
	_, third, err := DiagnoseDir(context.Background(), dir, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !third[0].Cached || third[1].Cached {
		t.Fatalf("cache state after edit: a=%v b=%v", third[0].Cached, third[1].Cached)
	}
}

func TestDiagnoseDirRepairsCorruptCache(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.rym"), "1 +\n")
	cache, err := OpenDiskCacheAt(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	opts := DirOptions{Cache: cache}

	fs, first, err := DiagnoseDir(context.Background(), dir, opts)
	if err != nil {
		t.Fatal(err)
	}
	key := CacheKey(fs.Get(first[0].FileID), opts.Options)
	if err := os.WriteFile(cache.pathFor(key), []byte{0xff, 0x00, 0x13}, 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		cached bool
	}{
		{"corrupt-entry-is-a-miss", false},
		{"rewritten-entry-hits", true},
	}
	for _, tt := range tests {
		_, res, err := DiagnoseDir(context.Background(), dir, opts)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if res[0].Cached != tt.cached {
			t.Fatalf("%s: cached = %v, want %v", tt.name, res[0].Cached, tt.cached)
		}
		for _, d := range res[0].Diagnostics {
			if d.Code == diag.IOCacheError {
				t.Fatalf("%s: cache failure reported: %+v", tt.name, d)
			}
		}
		if got := codesOf(res[0].Diagnostics); len(got) != 1 || got[0] != diag.SynExpectExpression {
			t.Fatalf("%s: codes = %v", tt.name, got)
		}
	}
}

func TestDiagnoseDirProgress(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.rym", "b.rym", "c.rym"} {
		writeFile(t, filepath.Join(dir, name), "x\n")
	}
	events := make(chan ProgressEvent, 16)
	_, _, err := DiagnoseDir(context.Background(), dir, DirOptions{Progress: events})
	if err != nil {
		t.Fatal(err)
	}
	close(events)

	counts := map[ProgressStage]int{}
	for ev := range events {
		if ev.Total != 3 {
			t.Fatalf("Total = %d, want 3", ev.Total)
		}
		counts[ev.Stage]++
	}
	if counts[ProgressQueued] != 3 || counts[ProgressStarted] != 3 || counts[ProgressDone] != 3 {
		t.Fatalf("stage counts = %v", counts)
	}
}

func TestRemapDiagnostics(t *testing.T) {
	d := diag.NewError(diag.SynExpectComma, source.Span{File: 7, Start: 1, End: 2}, "Expected `,`").
		WithLabel(source.Span{File: 7, Start: 3, End: 4}, "found").
		WithChild(diag.New(diag.LevelNote, diag.SynExpectComma, source.Span{File: 7, Start: 5, End: 6}, "note"))

	out := remapDiagnostics([]diag.Diagnostic{d}, 2)
	if out[0].Span().File != 2 || out[0].Labels[0].Span.File != 2 || out[0].Children[0].Span().File != 2 {
		t.Fatalf("not remapped: %+v", out[0])
	}
	// исходник не тронут
	if d.Span().File != 7 || d.Labels[0].Span.File != 7 {
		t.Fatalf("original mutated: %+v", d)
	}
}
