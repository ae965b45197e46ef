package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"rym/internal/driver"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [flags] <directory>",
		Short: "Re-run diagnostics whenever a .rym file changes",
		Args:  cobra.ExactArgs(1),
		RunE:  runCommand(runWatch),
	}
	cmd.Flags().String("format", "", "output format (pretty|json); default from diagnostics.format")
	cmd.Flags().Int("jobs", 0, "max parallel workers for the initial run (0=auto)")
	cmd.Flags().Duration("debounce", driver.DefaultDebounce, "quiet period before re-running")
	cmd.Flags().Bool("with-notes", true, "include diagnostic notes in output")
	cmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	return cmd
}

func runWatch(cmd *cobra.Command, args []string, s *session) error {
	dir := args[0]
	st, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}
	if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", dir)
	}
	out, err := readDiagOutput(cmd, s)
	if err != nil {
		return err
	}
	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return fmt.Errorf("failed to get debounce flag: %w", err)
	}

	// watch не пишет в дисковый кеш: файлы меняются на каждом шаге
	opts := driver.DirOptions{Options: s.driverOptions(), Jobs: s.cfg.Jobs}
	w := cmd.OutOrStdout()
	errw := cmd.ErrOrStderr()

	run := func(ctx context.Context, path string) {
		fs, results, err := driver.DiagnoseDir(ctx, path, opts)
		if err != nil {
			fmt.Fprintf(errw, "error: %v\n", err)
			return
		}
		if err := writeDiagnoseResults(w, fs, results, out); err != nil {
			fmt.Fprintf(errw, "error: %v\n", err)
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	run(ctx, dir)
	fmt.Fprintf(errw, "watching %s (ctrl+c to stop)\n", dir)

	return driver.Watch(ctx, dir, driver.WatchOptions{
		Debounce: debounce,
		OnChange: func(ctx context.Context, paths []string) {
			fmt.Fprintf(errw, "[%s] %d file(s) changed\n", time.Now().Format("15:04:05"), len(paths))
			for _, p := range paths {
				run(ctx, p)
			}
		},
		OnError: func(err error) {
			fmt.Fprintf(errw, "watch: %v\n", err)
		},
	})
}
