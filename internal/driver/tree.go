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
	"rym/internal/tt"
)

type TreeResult struct {
	FileSet     *source.FileSet
	File        *source.File
	Stream      tt.TokenStream
	Diagnostics []diag.Diagnostic
	Dropped     int
}

// HasErrors reports whether lexing or grouping produced an error.
func (r *TreeResult) HasErrors() bool {
	return hasErrors(r.Diagnostics)
}

// TreeFile: лексер и группировка по скобкам.
func TreeFile(ctx context.Context, path string, opts Options) (*TreeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return TreeSource(ctx, fs, fileID, opts), nil
}

// TreeSource строит дерево токенов уже загруженного файла.
func TreeSource(ctx context.Context, fs *source.FileSet, fileID source.FileID, opts Options) *TreeResult {
	file := fs.Get(fileID)
	sink, rep := opts.reporter()
	stream := buildTree(ctx, opts, file, rep)
	diags, dropped := drain(sink)
	return &TreeResult{
		FileSet:     fs,
		File:        file,
		Stream:      stream,
		Diagnostics: diags,
		Dropped:     dropped,
	}
}

func buildTree(ctx context.Context, opts Options, file *source.File, rep diag.Reporter) tt.TokenStream {
	var tokens []token.Token
	runPass(ctx, opts, "lex", func(sp *trace.Span) {
		tokens = lexer.New(file, lexer.Options{Reporter: rep}).All()
		sp.WithExtra("tokens", strconv.Itoa(len(tokens)))
	})

	var stream tt.TokenStream
	runPass(ctx, opts, "tree", func(sp *trace.Span) {
		stream = tt.Build(tokens, rep)
		total, unclosed := stream.Groups()
		sp.WithExtra("groups", strconv.Itoa(total)).
			WithExtra("unclosed", strconv.Itoa(unclosed))
	})
	return stream
}
