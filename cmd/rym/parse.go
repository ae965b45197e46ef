package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"rym/internal/ast"
	"rym/internal/diagfmt"
	"rym/internal/driver"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [flags] <file.rym|directory>",
		Short: "Parse a rym source file or directory and output AST",
		Long:  `Parse analyzes a rym source file or all *.rym files in a directory and outputs their syntax trees`,
		Args:  cobra.ExactArgs(1),
		RunE:  runCommand(runParse),
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json|sexpr)")
	cmd.Flags().Bool("normalize", false, "collapse chains of identical unary operators after parsing")
	cmd.Flags().Bool("stats", false, "print the number of AST nodes")
	cmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	return cmd
}

func runParse(cmd *cobra.Command, args []string, s *session) error {
	format, err := formatFlag(cmd, "pretty", "json", "sexpr")
	if err != nil {
		return err
	}
	stats, err := cmd.Flags().GetBool("stats")
	if err != nil {
		return fmt.Errorf("failed to get stats flag: %w", err)
	}

	// Проверяем, файл это или директория
	st, err := os.Stat(args[0])
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}

	if !st.IsDir() {
		res, err := driver.ParseFile(cmd.Context(), args[0], s.driverOptions())
		if err != nil {
			return fmt.Errorf("parsing failed: %w", err)
		}
		if err := reportDiagnostics(cmd, s, res.FileSet, res.Diagnostics, res.Dropped); err != nil {
			return err
		}
		if err := writeAST(cmd.OutOrStdout(), res, format, stats); err != nil {
			return err
		}
		printTimings(cmd, s)
		return exitStatus(res.HasErrors())
	}

	// Парсинг директории
	fs, results, err := driver.ParseDir(cmd.Context(), args[0], driver.DirOptions{
		Options: s.driverOptions(),
		Jobs:    s.cfg.Jobs,
	})
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	out := cmd.OutOrStdout()
	failed := false
	for _, r := range results {
		if err := reportDiagnostics(cmd, s, fs, r.Diagnostics, droppedOf(r)); err != nil {
			return err
		}
		if r.Parse == nil {
			failed = true
			continue
		}
		failed = failed || r.Parse.HasErrors()
		if format != "json" {
			if _, err := fmt.Fprintf(out, "== %s ==\n", r.Parse.File.FormatPath("auto", fs.BaseDir())); err != nil {
				return err
			}
		}
		if err := writeAST(out, r.Parse, format, stats); err != nil {
			return err
		}
	}
	printTimings(cmd, s)
	return exitStatus(failed)
}

func droppedOf(r driver.ParseDirResult) int {
	if r.Parse == nil {
		return 0
	}
	return r.Parse.Dropped
}

func writeAST(w io.Writer, res *driver.ParseResult, format string, stats bool) error {
	var err error
	switch format {
	case "json":
		err = diagfmt.FormatASTJSON(w, res.Builder, res.FileID)
	case "sexpr":
		err = diagfmt.FormatASTSexpr(w, res.Builder, res.FileID)
	default:
		err = diagfmt.FormatASTPretty(w, res.Builder, res.FileID, res.FileSet)
	}
	if err != nil || !stats {
		return err
	}
	_, err = fmt.Fprintf(w, "nodes: %d\n", ast.CountNodes(res.Builder, res.FileID))
	if err == nil && res.Normalized > 0 {
		_, err = fmt.Fprintf(w, "normalized: %d\n", res.Normalized)
	}
	return err
}
