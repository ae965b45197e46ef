package diag

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"rym/internal/source"
)

type shortDiagnostic struct {
	Level   string
	Code    string
	Path    string
	Line    uint32
	Column  uint32
	Message string
}

// FormatShort renders diagnostics one per line:
//
//	error LEX1002 main.rym:1:1 Unterminated string literal
//
// Entries are sorted by path, line, column. Notes are rendered as separate
// "note" lines at the parent position when includeNotes is set.
func FormatShort(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}

	rendered := make([]shortDiagnostic, 0, len(diags))
	for i := range diags {
		rendered = appendShort(rendered, &diags[i], fs, includeNotes)
	}

	slices.SortStableFunc(rendered, func(a, b shortDiagnostic) int {
		return cmp.Or(
			cmp.Compare(a.Path, b.Path),
			cmp.Compare(a.Line, b.Line),
			cmp.Compare(a.Column, b.Column),
		)
	})

	var b strings.Builder
	for i, d := range rendered {
		code := d.Code
		if code == "" {
			code = "-"
		}
		fmt.Fprintf(&b, "%s %s %s:%d:%d %s", d.Level, code, d.Path, d.Line, d.Column, d.Message)
		if i < len(rendered)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func appendShort(out []shortDiagnostic, d *Diagnostic, fs *source.FileSet, includeNotes bool) []shortDiagnostic {
	loc := resolveSpan(fs, d.Span())
	out = append(out, shortDiagnostic{
		Level:   d.Level.Label(),
		Code:    d.Code.ID(),
		Path:    loc.Path,
		Line:    loc.Line,
		Column:  loc.Column,
		Message: sanitizeMessage(d.Title),
	})
	if includeNotes {
		for _, child := range d.Children {
			out = append(out, shortDiagnostic{
				Level:   child.Level.Label(),
				Code:    d.Code.ID(),
				Path:    loc.Path,
				Line:    loc.Line,
				Column:  loc.Column,
				Message: sanitizeMessage(child.Title),
			})
		}
	}
	return out
}

type resolvedSpan struct {
	Path   string
	Line   uint32
	Column uint32
}

func resolveSpan(fs *source.FileSet, span source.Span) resolvedSpan {
	file := fs.Get(span.File)
	if file == nil {
		return resolvedSpan{Path: "<unknown>", Line: 1, Column: 1}
	}
	start, _ := fs.Resolve(span)
	return resolvedSpan{
		Path:   normalizePath(file.FormatPath("relative", fs.BaseDir())),
		Line:   start.Line,
		Column: start.Col,
	}
}

func normalizePath(path string) string {
	p := filepath.ToSlash(path)
	for strings.HasPrefix(p, "./") {
		p = strings.TrimPrefix(p, "./")
	}
	return p
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
