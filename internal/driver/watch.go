package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"rym/internal/trace"
)

// DefaultDebounce - пауза после последнего события перед перезапуском.
const DefaultDebounce = 100 * time.Millisecond

// WatchOptions configures Watch.
type WatchOptions struct {
	Debounce time.Duration // 0 = DefaultDebounce
	// OnChange получает отсортированные пути изменённых .rym файлов.
	// Вызовы сериализованы.
	OnChange func(ctx context.Context, paths []string)
	// OnError получает ошибки fsnotify; nil - ошибки игнорируются.
	OnError func(err error)
}

// Watch следит за dir рекурсивно и после затишья вызывает OnChange
// для .rym файлов, которые были записаны или созданы. Возвращается
// при отмене ctx.
func Watch(ctx context.Context, dir string, opts WatchOptions) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watchDirRecursive(watcher, dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	var (
		mu            sync.Mutex
		pending       = make(map[string]struct{})
		debounceTimer *time.Timer
		running       sync.Mutex // OnChange не пересекаются
	)
	flush := func() {
		mu.Lock()
		paths := make([]string, 0, len(pending))
		for p := range pending {
			paths = append(paths, p)
		}
		clear(pending)
		mu.Unlock()
		if len(paths) == 0 || opts.OnChange == nil || ctx.Err() != nil {
			return
		}
		sort.Strings(paths)

		running.Lock()
		defer running.Unlock()
		trace.Point(trace.FromContext(ctx), trace.ScopeDriver, "watch", fmt.Sprintf("%d changed", len(paths)), trace.CurrentSpan(ctx).SpanID)
		opts.OnChange(ctx, paths)
	}
	defer func() {
		mu.Lock()
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			// новые подкаталоги тоже нужно отслеживать
			if event.Op&fsnotify.Create != 0 {
				if isDir(event.Name) {
					if err := watchDirRecursive(watcher, event.Name); err != nil && opts.OnError != nil {
						opts.OnError(err)
					}
					continue
				}
			}
			if filepath.Ext(event.Name) != SourceExt {
				continue
			}

			// Debounce
			mu.Lock()
			pending[event.Name] = struct{}{}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounce, flush)
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if opts.OnError != nil {
				opts.OnError(err)
			}
		}
	}
}

// watchDirRecursive adds a directory and all subdirectories to the watcher.
func watchDirRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
