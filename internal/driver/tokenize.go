package driver

import (
	"context"
	"fmt"
	"strconv"

	"rym/internal/diag"
	"rym/internal/lexer"
	"rym/internal/source"
	"rym/internal/token"
	"rym/internal/trace"
)

type TokenizeResult struct {
	FileSet     *source.FileSet
	File        *source.File
	Tokens      []token.Token // включая завершающий EOF
	Diagnostics []diag.Diagnostic
	Dropped     int
}

// HasErrors reports whether lexing produced an error-level diagnostic.
func (r *TokenizeResult) HasErrors() bool {
	return hasErrors(r.Diagnostics)
}

// TokenizeFile загружает файл и прогоняет лексер до EOF.
func TokenizeFile(ctx context.Context, path string, opts Options) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return TokenizeSource(ctx, fs, fileID, opts), nil
}

// TokenizeSource лексирует уже загруженный файл.
func TokenizeSource(ctx context.Context, fs *source.FileSet, fileID source.FileID, opts Options) *TokenizeResult {
	file := fs.Get(fileID)
	sink, rep := opts.reporter()

	var tokens []token.Token
	runPass(ctx, opts, "lex", func(sp *trace.Span) {
		tokens = lexer.New(file, lexer.Options{Reporter: rep}).All()
		sp.WithExtra("tokens", strconv.Itoa(len(tokens)))
	})

	diags, dropped := drain(sink)
	return &TokenizeResult{
		FileSet:     fs,
		File:        file,
		Tokens:      tokens,
		Diagnostics: diags,
		Dropped:     dropped,
	}
}

type PrimitiveResult struct {
	FileSet *source.FileSet
	File    *source.File
	Prims   []token.Prim
}

// PrimitiveFile - только первый слой лексера, без диагностик.
func PrimitiveFile(path string) (*PrimitiveResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	file := fs.Get(fileID)
	var prims []token.Prim
	for p := range lexer.NewPrimitive(file.Content).All() {
		prims = append(prims, p)
	}
	return &PrimitiveResult{FileSet: fs, File: file, Prims: prims}, nil
}

func hasErrors(diags []diag.Diagnostic) bool {
	for _, d := range diags {
		if d.IsError() {
			return true
		}
	}
	return false
}
