package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"rym/internal/version"
)

// errHasErrors - команда отработала, но в исходниках есть ошибки.
// main завершает процесс с кодом 1 без дополнительного сообщения.
var errHasErrors = errors.New("source contains errors")

// newRootCmd собирает дерево команд; тесты создают свежий экземпляр на каждый прогон.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rym",
		Short: "rym language front end",
		Long:  `rym tokenizes, groups and parses rym sources and reports diagnostics`,
		// Устанавливаем версию для автоматического флага --version
		Version:           version.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: openSession,
		PersistentPostRun: closeSession,
	}

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics per file (0 = unlimited)")
	pf.Bool("timings", false, "show timing information")
	pf.String("config", "", "path to rym.toml (default: search upward)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-format", "text", "trace output format (text|ndjson)")
	pf.String("trace-output", "-", "trace output file (- for stderr)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.Duration("trace-heartbeat", 0, "emit heartbeat trace events at this interval (0 = off)")
	pf.String("cpu-profile", "", "write a CPU profile to this file")
	pf.String("mem-profile", "", "write a heap profile to this file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to this file")

	// Добавляем команды
	rootCmd.AddCommand(newTokenizeCmd())
	rootCmd.AddCommand(newTreeCmd())
	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newDiagCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newCleanCmd())
	return rootCmd
}

// main runs the CLI and exits with status 1 on any error, including
// error-level diagnostics in the processed sources.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errHasErrors) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
