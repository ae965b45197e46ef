package diagfmt

import (
	"encoding/json"
	"io"

	"rym/internal/diag"
	"rym/internal/source"
)

// LocationJSON представляет местоположение в файле для JSON
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

// LabelJSON - вторичная метка диагностики.
type LabelJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// NoteJSON представляет дополнительную заметку для JSON
type NoteJSON struct {
	Severity string        `json:"severity"`
	Message  string        `json:"message"`
	Location *LocationJSON `json:"location,omitempty"`
}

// DiagnosticJSON представляет диагностику в JSON формате
type DiagnosticJSON struct {
	Severity string        `json:"severity"`
	Code     string        `json:"code"`
	Message  string        `json:"message"`
	Location *LocationJSON `json:"location,omitempty"` // nil для IO без файла
	Labels   []LabelJSON   `json:"labels,omitempty"`
	Notes    []NoteJSON    `json:"notes,omitempty"`
}

// DiagnosticsOutput представляет корневую структуру JSON вывода
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
	Dropped     int              `json:"dropped,omitempty"`
}

// makeLocation создаёт LocationJSON из Span; nil для фиктивного спана.
func makeLocation(span source.Span, fs *source.FileSet, pathMode PathMode, includePositions bool) *LocationJSON {
	if span.IsDummy() || fs == nil {
		return nil
	}
	f := fs.Get(span.File)
	if f == nil {
		return nil
	}

	loc := &LocationJSON{
		File:      f.FormatPath(pathMode.mode(), fs.BaseDir()),
		StartByte: span.Start,
		EndByte:   span.End,
	}

	// Добавляем позиции строк/колонок если требуется
	if includePositions {
		startPos, endPos := fs.Resolve(span)
		loc.StartLine = startPos.Line
		loc.StartCol = startPos.Col
		loc.EndLine = endPos.Line
		loc.EndCol = endPos.Col
	}
	return loc
}

// BuildDiagnosticsOutput формирует структуру JSON-вывода без сериализации.
func BuildDiagnosticsOutput(diags []diag.Diagnostic, dropped int, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	maxItems := len(diags)
	if opts.Max > 0 && opts.Max < maxItems {
		maxItems = opts.Max
	}

	diagnostics := make([]DiagnosticJSON, 0, maxItems)
	for _, d := range diags[:maxItems] {
		dj := DiagnosticJSON{
			Severity: d.Level.String(),
			Code:     d.Code.ID(),
			Message:  d.Title,
			Location: makeLocation(d.Span(), fs, opts.PathMode, opts.IncludePositions),
		}
		for _, l := range d.Labels {
			loc := makeLocation(l.Span, fs, opts.PathMode, opts.IncludePositions)
			if loc == nil {
				continue
			}
			dj.Labels = append(dj.Labels, LabelJSON{Message: l.Text, Location: *loc})
		}
		if opts.IncludeNotes {
			for _, child := range d.Children {
				dj.Notes = append(dj.Notes, NoteJSON{
					Severity: child.Level.String(),
					Message:  child.Title,
					Location: makeLocation(child.Span(), fs, opts.PathMode, opts.IncludePositions),
				})
			}
		}
		diagnostics = append(diagnostics, dj)
	}

	return DiagnosticsOutput{
		Diagnostics: diagnostics,
		Count:       len(diagnostics),
		Dropped:     dropped + len(diags) - maxItems,
	}
}

// JSON форматирует диагностики в JSON формат.
func JSON(w io.Writer, diags []diag.Diagnostic, dropped int, fs *source.FileSet, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildDiagnosticsOutput(diags, dropped, fs, opts))
}
