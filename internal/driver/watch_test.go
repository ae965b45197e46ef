package driver

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchReportsChangedSources(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan []string, 8)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, dir, WatchOptions{
			Debounce: 20 * time.Millisecond,
			OnChange: func(_ context.Context, paths []string) { changes <- paths },
		})
	}()

	target := filepath.Join(dir, "main.rym")
	ignored := filepath.Join(dir, "notes.txt")
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()

	// вотчер стартует асинхронно: пишем, пока не увидим событие
	for {
		select {
		case paths := <-changes:
			for _, p := range paths {
				if filepath.Ext(p) != SourceExt {
					t.Fatalf("non-source path reported: %v", paths)
				}
			}
			if len(paths) == 0 || filepath.Base(paths[0]) != "main.rym" {
				t.Fatalf("paths = %v", paths)
			}
			cancel()
			if err := <-done; err != nil {
				t.Fatalf("Watch: %v", err)
			}
			return
		case <-tick.C:
			writeFile(t, ignored, "x")
			writeFile(t, target, "x\n")
		case <-deadline:
			t.Fatal("no change reported")
		}
	}
}
