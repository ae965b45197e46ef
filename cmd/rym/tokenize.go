package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rym/internal/diagfmt"
	"rym/internal/driver"
)

func newTokenizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize [flags] file.rym",
		Short: "Tokenize a rym source file",
		Long: `Tokenize breaks down a rym source file into its constituent tokens.
With --primitive only the first lexer layer runs: raw kinds and lengths, no diagnostics.`,
		Args: cobra.ExactArgs(1),
		RunE: runCommand(runTokenize),
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	cmd.Flags().Bool("primitive", false, "dump primitive tokens instead of rich ones")
	return cmd
}

func runTokenize(cmd *cobra.Command, args []string, s *session) error {
	format, err := formatFlag(cmd, "pretty", "json")
	if err != nil {
		return err
	}
	primitive, err := cmd.Flags().GetBool("primitive")
	if err != nil {
		return fmt.Errorf("failed to get primitive flag: %w", err)
	}
	out := cmd.OutOrStdout()

	if primitive {
		res, err := driver.PrimitiveFile(args[0])
		if err != nil {
			return err
		}
		if format == "json" {
			return diagfmt.FormatPrimsJSON(out, res.Prims, res.File.Content)
		}
		return diagfmt.FormatPrimsPretty(out, res.Prims, res.File.Content)
	}

	res, err := driver.TokenizeFile(cmd.Context(), args[0], s.driverOptions())
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}
	// Выводим диагностику в stderr, если есть
	if err := reportDiagnostics(cmd, s, res.FileSet, res.Diagnostics, res.Dropped); err != nil {
		return err
	}

	// Выводим токены в выбранном формате
	if format == "json" {
		err = diagfmt.FormatTokensJSON(out, res.Tokens)
	} else {
		err = diagfmt.FormatTokensPretty(out, res.Tokens, res.FileSet)
	}
	if err != nil {
		return err
	}
	printTimings(cmd, s)
	return exitStatus(res.HasErrors())
}
