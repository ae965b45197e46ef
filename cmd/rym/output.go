package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"rym/internal/diag"
	"rym/internal/diagfmt"
	"rym/internal/source"
)

// useColor решает, раскрашивать ли вывод в w. Не-терминальные writer'ы
// (буферы в тестах, пайпы) раскрашиваются только при --color=on.
func useColor(mode string, w io.Writer) (bool, error) {
	if f, ok := w.(*os.File); ok {
		return diagfmt.ResolveColor(mode, f)
	}
	return diagfmt.ResolveColor(mode, nil)
}

// reportDiagnostics печатает диагностики одного файла в stderr в
// человекочитаемом виде; используется командами дампа.
func reportDiagnostics(cmd *cobra.Command, s *session, fs *source.FileSet, diags []diag.Diagnostic, dropped int) error {
	if len(diags) == 0 && dropped == 0 {
		return nil
	}
	w := cmd.ErrOrStderr()
	color, err := useColor(s.cfg.Color, w)
	if err != nil {
		return err
	}
	if err := diagfmt.Pretty(w, diags, fs, diagfmt.PrettyOpts{Color: color, ShowNotes: true}); err != nil {
		return err
	}
	if dropped > 0 {
		_, err = fmt.Fprintf(w, "... %d more diagnostics not shown\n", dropped)
	}
	return err
}

// formatFlag читает --format команды и проверяет его по списку.
func formatFlag(cmd *cobra.Command, allowed ...string) (string, error) {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return "", fmt.Errorf("failed to get format flag: %w", err)
	}
	format = strings.ToLower(strings.TrimSpace(format))
	for _, a := range allowed {
		if format == a {
			return format, nil
		}
	}
	return "", fmt.Errorf("unknown format %q (expected: %s)", format, strings.Join(allowed, "|"))
}

// printTimings выводит сводку таймера фаз, если включён --timings.
func printTimings(cmd *cobra.Command, s *session) {
	if s.timer == nil {
		return
	}
	fmt.Fprint(cmd.ErrOrStderr(), s.timer.Summary())
}

// exitStatus превращает наличие ошибок в errHasErrors.
func exitStatus(hasErrors bool) error {
	if hasErrors {
		return errHasErrors
	}
	return nil
}
