package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"rym/internal/diag"
	"rym/internal/source"
)

type palette struct {
	err, warn, note, help *color.Color
	title, gutter, label  *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		note:   color.New(color.FgCyan, color.Bold),
		help:   color.New(color.FgGreen, color.Bold),
		title:  color.New(color.Bold),
		gutter: color.New(color.FgBlue, color.Bold),
		label:  color.New(color.FgBlue),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.note, p.help, p.title, p.gutter, p.label} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) level(l diag.Level) *color.Color {
	switch l {
	case diag.LevelError:
		return p.err
	case diag.LevelWarning:
		return p.warn
	case diag.LevelNote:
		return p.note
	default:
		return p.help
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Ожидается, что diags уже отсортированы (diag.Sort).
// Для каждой диагностики печатает:
//
//	error[SYN2006]: Expected `,`
//	  --> main.rym:1:5
//	   |
//	 1 | f(1 2)
//	   |     ^ found integer literal `2`
//	   = note: ...
func Pretty(w io.Writer, diags []diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) error {
	pal := newPalette(opts.Color)
	for i, d := range diags {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := prettyOne(w, d, fs, opts, pal); err != nil {
			return err
		}
	}
	return nil
}

func prettyOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) error {
	var sb strings.Builder
	header := d.Level.Label()
	if id := d.Code.ID(); id != "" {
		header += "[" + id + "]"
	}
	sb.WriteString(pal.level(d.Level).Sprint(header))
	sb.WriteString(pal.title.Sprint(": " + d.Title))
	sb.WriteByte('\n')

	gutter := gutterWidth(d, fs)
	pad := strings.Repeat(" ", gutter)

	primary := d.Span()
	if !primary.IsDummy() && fs != nil && fs.Get(primary.File) != nil {
		start, _ := fs.Resolve(primary)
		file := fs.Get(primary.File)
		fmt.Fprintf(&sb, "%s%s %s:%d:%d\n", pad, pal.gutter.Sprint("-->"), file.FormatPath(opts.PathMode.mode(), fs.BaseDir()), start.Line, start.Col)
		fmt.Fprintf(&sb, "%s %s\n", pad, pal.gutter.Sprint("|"))

		// метка с тем же спаном подписывает основные ^^^
		primaryText := ""
		var rest []diag.Label
		for _, l := range d.Labels {
			if l.Span == primary && primaryText == "" {
				primaryText = l.Text
				continue
			}
			rest = append(rest, l)
		}
		writeSnippet(&sb, fs, primary, '^', primaryText, pal.level(d.Level), gutter, pal)
		for _, l := range rest {
			if l.Span.File != primary.File {
				continue
			}
			writeSnippet(&sb, fs, l.Span, '-', l.Text, pal.label, gutter, pal)
		}
	}

	if opts.ShowNotes {
		for _, child := range d.Children {
			fmt.Fprintf(&sb, "%s %s %s %s\n", pad, pal.gutter.Sprint("="), pal.level(child.Level).Sprint(child.Level.Label()+":"), child.Title)
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// writeSnippet печатает строку исходника и подчёркивание спана.
// Многострочный спан подчёркивается до конца первой строки.
func writeSnippet(sb *strings.Builder, fs *source.FileSet, sp source.Span, marker rune, text string, c *color.Color, gutter int, pal palette) {
	file := fs.Get(sp.File)
	start, end := fs.Resolve(sp)
	line := file.GetLine(start.Line)

	col := min(int(start.Col)-1, len(line))
	endCol := len(line)
	if end.Line == start.Line {
		endCol = min(int(end.Col)-1, len(line))
	}
	endCol = max(endCol, col)

	lineNo := fmt.Sprintf("%*d", gutter, start.Line)
	display := expandTabs(line)
	fmt.Fprintf(sb, "%s %s %s\n", pal.gutter.Sprint(lineNo), pal.gutter.Sprint("|"), display)

	offset := runewidth.StringWidth(expandTabs(line[:col]))
	width := max(1, runewidth.StringWidth(expandTabs(line[col:endCol])))
	underline := strings.Repeat(string(marker), width)
	if text != "" {
		underline += " " + text
	}
	fmt.Fprintf(sb, "%s %s %s%s\n", strings.Repeat(" ", gutter), pal.gutter.Sprint("|"), strings.Repeat(" ", offset), c.Sprint(underline))
}

func gutterWidth(d diag.Diagnostic, fs *source.FileSet) int {
	if fs == nil || d.Span().IsDummy() || fs.Get(d.Span().File) == nil {
		return 1
	}
	maxLine := uint32(1)
	spans := []source.Span{d.Span()}
	for _, l := range d.Labels {
		spans = append(spans, l.Span)
	}
	for _, sp := range spans {
		if fs.Get(sp.File) == nil {
			continue
		}
		start, _ := fs.Resolve(sp)
		maxLine = max(maxLine, start.Line)
	}
	return len(fmt.Sprint(maxLine))
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}

// Summary печатает итоговую строку прогона: число ошибок, предупреждений
// и диагностик, не попавших в вывод из-за лимита.
func Summary(w io.Writer, diags []diag.Diagnostic, dropped int, files int, useColor bool) error {
	pal := newPalette(useColor)
	errs, warns := 0, 0
	for _, d := range diags {
		switch d.Level {
		case diag.LevelError:
			errs++
		case diag.LevelWarning:
			warns++
		}
	}
	var parts []string
	switch {
	case errs > 0:
		parts = append(parts, pal.err.Sprint(plural(errs, "error")))
	case warns == 0:
		parts = append(parts, pal.help.Sprint("no problems"))
	}
	if warns > 0 {
		parts = append(parts, pal.warn.Sprint(plural(warns, "warning")))
	}
	line := strings.Join(parts, ", ") + " in " + plural(files, "file")
	if dropped > 0 {
		line += fmt.Sprintf(" (%d more not shown)", dropped)
	}
	_, err := fmt.Fprintln(w, line)
	return err
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
