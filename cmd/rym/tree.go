package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rym/internal/diagfmt"
	"rym/internal/driver"
)

func newTreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree [flags] file.rym",
		Short: "Show the delimiter token tree of a rym source file",
		Args:  cobra.ExactArgs(1),
		RunE:  runCommand(runTree),
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func runTree(cmd *cobra.Command, args []string, s *session) error {
	format, err := formatFlag(cmd, "pretty", "json")
	if err != nil {
		return err
	}
	res, err := driver.TreeFile(cmd.Context(), args[0], s.driverOptions())
	if err != nil {
		return fmt.Errorf("grouping failed: %w", err)
	}
	if err := reportDiagnostics(cmd, s, res.FileSet, res.Diagnostics, res.Dropped); err != nil {
		return err
	}
	if format == "json" {
		err = diagfmt.FormatTreeJSON(cmd.OutOrStdout(), res.Stream)
	} else {
		err = diagfmt.FormatTreePretty(cmd.OutOrStdout(), res.Stream, res.FileSet)
	}
	if err != nil {
		return err
	}
	printTimings(cmd, s)
	return exitStatus(res.HasErrors())
}
