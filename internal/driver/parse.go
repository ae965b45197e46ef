package driver

import (
	"context"
	"fmt"
	"strconv"

	"rym/internal/ast"
	"rym/internal/diag"
	"rym/internal/parser"
	"rym/internal/source"
	"rym/internal/trace"
)

type ParseResult struct {
	FileSet     *source.FileSet
	File        *source.File
	Builder     *ast.Builder
	FileID      ast.FileID
	Diagnostics []diag.Diagnostic
	Dropped     int
	// Normalized - число схлопнутых унарных цепочек (0, если проход выключен).
	Normalized int
}

// HasErrors reports whether any pass produced an error-level diagnostic.
func (r *ParseResult) HasErrors() bool {
	return hasErrors(r.Diagnostics)
}

// ParseFile загружает файл с диска и прогоняет полный конвейер.
func ParseFile(ctx context.Context, path string, opts Options) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return ParseSource(ctx, fs, fileID, opts), nil
}

// ParseSource: lex → tree → parse (→ normalize) для загруженного файла.
// Всегда возвращает AST, даже если в тексте были ошибки.
func ParseSource(ctx context.Context, fs *source.FileSet, fileID source.FileID, opts Options) *ParseResult {
	file := fs.Get(fileID)
	sink, rep := opts.reporter()
	stream := buildTree(ctx, opts, file, rep)

	builder := ast.NewBuilder(ast.Hints{}, nil)
	var res parser.Result
	runPass(ctx, opts, "parse", func(sp *trace.Span) {
		res = parser.ParseFile(file, stream, builder, parser.Options{Reporter: rep})
		if sp.Recording() {
			sp.WithExtra("errors", strconv.Itoa(res.Errors)).
				WithExtra("nodes", strconv.Itoa(ast.CountNodes(builder, res.File)))
		}
	})

	normalized := 0
	if opts.Normalize {
		runPass(ctx, opts, "normalize", func(sp *trace.Span) {
			normalized = ast.Normalize(builder, res.File)
			sp.WithExtra("rewrites", strconv.Itoa(normalized))
		})
	}

	diags, dropped := drain(sink)
	return &ParseResult{
		FileSet:     fs,
		File:        file,
		Builder:     builder,
		FileID:      res.File,
		Diagnostics: diags,
		Dropped:     dropped,
		Normalized:  normalized,
	}
}
