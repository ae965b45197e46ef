package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"rym/internal/diag"
	"rym/internal/diagfmt"
	"rym/internal/driver"
	"rym/internal/source"
)

// cacheApp - имя каталога кеша под $XDG_CACHE_HOME.
const cacheApp = "rym"

func newDiagCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diag [flags] <file.rym|directory>",
		Short: "Run diagnostics on a rym source file or directory",
		Long:  `Run diagnostics to find lexical and syntax issues in rym source files or all *.rym files within a directory`,
		Args:  cobra.ExactArgs(1),
		RunE:  runCommand(runDiagnose),
	}
	cmd.Flags().String("format", "", "output format (pretty|json); default from diagnostics.format")
	cmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	cmd.Flags().Bool("no-cache", false, "disable the on-disk diagnostics cache")
	cmd.Flags().String("ui", "off", "show a progress view (auto|on|off)")
	cmd.Flags().Lookup("ui").NoOptDefVal = "on"
	cmd.Flags().Bool("with-notes", true, "include diagnostic notes in output")
	cmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	return cmd
}

// diagOutput - параметры вывода diag, общие с watch.
type diagOutput struct {
	format    string
	withNotes bool
	pathMode  diagfmt.PathMode
	color     bool
}

func readDiagOutput(cmd *cobra.Command, s *session) (diagOutput, error) {
	o := diagOutput{format: s.cfg.Format}
	if cmd.Flags().Changed("format") {
		format, err := formatFlag(cmd, "pretty", "json")
		if err != nil {
			return o, err
		}
		o.format = format
	}
	var err error
	if o.withNotes, err = cmd.Flags().GetBool("with-notes"); err != nil {
		return o, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return o, fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	if fullPath {
		o.pathMode = diagfmt.PathModeAbsolute
	}
	if o.color, err = useColor(s.cfg.Color, cmd.OutOrStdout()); err != nil {
		return o, err
	}
	return o, nil
}

// runDiagnose executes the "diag" command: it runs the pipeline for a file
// or directory, prints the results and exits non-zero on error-level
// diagnostics.
func runDiagnose(cmd *cobra.Command, args []string, s *session) error {
	out, err := readDiagOutput(cmd, s)
	if err != nil {
		return err
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}

	opts := driver.DirOptions{Options: s.driverOptions(), Jobs: s.cfg.Jobs}
	if s.cfg.Cache {
		cache, err := driver.OpenDiskCache(cacheApp)
		if err != nil {
			// без кеша работаем дальше, это не ошибка исходников
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: disk cache disabled: %v\n", err)
		} else {
			opts.Cache = cache
		}
	}

	var (
		fs      *source.FileSet
		results []driver.DiagnoseFileResult
	)
	if out.format == "pretty" && shouldUseTUI(mode) {
		files, err := driver.ListSourceFiles(args[0])
		if err != nil {
			return err
		}
		fs, results, err = runDiagnoseWithUI(cmd.Context(), args[0], files, opts)
		if err != nil {
			return err
		}
	} else {
		fs, results, err = driver.DiagnoseDir(cmd.Context(), args[0], opts)
		if err != nil {
			return fmt.Errorf("diagnostics failed: %w", err)
		}
	}

	if err := writeDiagnoseResults(cmd.OutOrStdout(), fs, results, out); err != nil {
		return err
	}
	printTimings(cmd, s)
	return exitStatus(anyErrors(results))
}

// writeDiagnoseResults печатает диагностики всех файлов одним списком;
// results уже упорядочены по пути, диагностики внутри файла по позиции.
func writeDiagnoseResults(w io.Writer, fs *source.FileSet, results []driver.DiagnoseFileResult, out diagOutput) error {
	var (
		all     []diag.Diagnostic
		dropped int
	)
	for _, r := range results {
		all = append(all, r.Diagnostics...)
		dropped += r.Dropped
	}

	if out.format == "json" {
		return diagfmt.JSON(w, all, dropped, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         out.pathMode,
			IncludeNotes:     out.withNotes,
		})
	}
	if err := diagfmt.Pretty(w, all, fs, diagfmt.PrettyOpts{
		Color:     out.color,
		PathMode:  out.pathMode,
		ShowNotes: out.withNotes,
	}); err != nil {
		return err
	}
	if len(all) > 0 {
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return diagfmt.Summary(w, all, dropped, len(results), out.color)
}

func anyErrors(results []driver.DiagnoseFileResult) bool {
	for _, r := range results {
		if r.HasErrors() {
			return true
		}
	}
	return false
}
