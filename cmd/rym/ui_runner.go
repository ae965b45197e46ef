package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"rym/internal/driver"
	"rym/internal/source"
	"rym/internal/ui"
)

type diagnoseOutcome struct {
	fs      *source.FileSet
	results []driver.DiagnoseFileResult
	err     error
}

// runDiagnoseWithUI запускает DiagnoseDir в фоне и показывает прогресс,
// пока канал событий не закроется.
func runDiagnoseWithUI(ctx context.Context, path string, files []string, opts driver.DirOptions) (*source.FileSet, []driver.DiagnoseFileResult, error) {
	events := make(chan driver.ProgressEvent, 256)
	outcomeCh := make(chan diagnoseOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = events
		fs, results, err := driver.DiagnoseDir(ctx, path, optsCopy)
		outcomeCh <- diagnoseOutcome{fs: fs, results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel("diagnosing", files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr), tea.WithContext(ctx))
	_, uiErr := program.Run()
	// после выхода модели (в т.ч. по ctrl+c) события дочитываем, чтобы воркеры не встали
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.fs, outcome.results, uiErr
	}
	return outcome.fs, outcome.results, outcome.err
}
