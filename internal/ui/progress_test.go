package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"rym/internal/driver"
)

func TestProgressModelTracksEvents(t *testing.T) {
	events := make(chan driver.ProgressEvent)
	model := NewProgressModel("diag", []string{"a.rym", "b.rym", "c.rym"}, events)
	m := model.(*progressModel)

	steps := []driver.ProgressEvent{
		{Path: "a.rym", Stage: driver.ProgressStarted},
		{Path: "a.rym", Stage: driver.ProgressDone},
		{Path: "b.rym", Stage: driver.ProgressDone, Errors: 2},
		{Path: "c.rym", Stage: driver.ProgressCached},
		{Path: "unknown.rym", Stage: driver.ProgressDone},
	}
	for _, ev := range steps {
		m.Update(eventMsg(ev))
	}

	if m.finished != 3 || m.errors != 1 {
		t.Fatalf("finished=%d errors=%d", m.finished, m.errors)
	}
	want := []string{"done", "error", "cached"}
	for i, item := range m.items {
		if item.status != want[i] {
			t.Errorf("%s: status %q, want %q", item.path, item.status, want[i])
		}
	}

	view := m.View()
	if !strings.Contains(view, "(3/3)") || !strings.Contains(view, "1 with errors") {
		t.Fatalf("view header:\n%s", view)
	}

	_, cmd := m.Update(doneMsg{})
	if !m.done || cmd == nil {
		t.Fatalf("done message must finish the model")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("done must quit the program")
	}
}

func TestProgressViewCollapsesLongLists(t *testing.T) {
	files := make([]string, maxVisible+5)
	for i := range files {
		files[i] = strings.Repeat("x", i+1) + ".rym"
	}
	m := NewProgressModel("diag", files, nil).(*progressModel)
	if view := m.View(); !strings.Contains(view, "... and 5 more") {
		t.Fatalf("view:\n%s", view)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short.rym", 20, "short.rym"},
		{"very/long/path/file.rym", 10, "very/lo..."},
		{"abcdef", 3, "abc"},
		{"日本語.rym", 5, "日..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
