package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"rym/internal/diag"
	"rym/internal/source"
	"rym/internal/token"
	"rym/internal/trace"
)

// SourceExt - расширение исходных файлов.
const SourceExt = ".rym"

// TokenizeDirResult содержит результат токенизации одного файла
type TokenizeDirResult struct {
	Path        string        // путь к файлу
	FileID      source.FileID // ID файла в FileSet
	Tokens      []token.Token
	Diagnostics []diag.Diagnostic
}

// ParseDirResult содержит результат парсинга одного файла; Parse == nil,
// если файл не загрузился (тогда в Diagnostics одна IO-диагностика).
type ParseDirResult struct {
	Path        string
	Parse       *ParseResult
	Diagnostics []diag.Diagnostic
}

// DiagnoseFileResult - итог диагностики одного файла.
type DiagnoseFileResult struct {
	Path        string
	FileID      source.FileID
	Diagnostics []diag.Diagnostic
	Dropped     int
	Cached      bool
}

// HasErrors reports whether the file has an error-level diagnostic.
func (r DiagnoseFileResult) HasErrors() bool {
	return hasErrors(r.Diagnostics)
}

// DirOptions расширяет Options для многофайловых прогонов.
type DirOptions struct {
	Options
	Jobs     int                  // 0 = GOMAXPROCS
	Cache    *DiskCache           // nil - без кеша
	Progress chan<- ProgressEvent // nil - без событий прогресса
}

// ListSourceFiles возвращает отсортированный список *.rym файлов.
// Если path - файл, список состоит из него одного.
func ListSourceFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && p != path && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if !d.IsDir() && strings.HasSuffix(p, SourceExt) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// loadedFiles - предзагрузка: FileSet не потокобезопасен на запись,
// поэтому все Load делаются до старта воркеров.
type loadedFiles struct {
	fs      *source.FileSet
	paths   []string
	ids     map[string]source.FileID
	loadErr map[string]error
}

func loadAll(dir string) (*loadedFiles, error) {
	paths, err := ListSourceFiles(dir)
	if err != nil {
		return nil, err
	}
	base := dir
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		base = filepath.Dir(dir)
	}
	lf := &loadedFiles{
		fs:      source.NewFileSetWithBase(base),
		paths:   paths,
		ids:     make(map[string]source.FileID, len(paths)),
		loadErr: make(map[string]error),
	}
	for _, path := range paths {
		id, err := lf.fs.Load(path)
		if err != nil {
			lf.loadErr[path] = err
			continue
		}
		lf.ids[path] = id
	}
	return lf, nil
}

// loadFailure - IO-диагностика для файла, который не удалось прочитать.
// Спан фиктивный: файла в FileSet нет.
func loadFailure(path string, err error) []diag.Diagnostic {
	d := diag.NewError(diag.IOLoadFileError, source.DummySpan, fmt.Sprintf("failed to load %s", path)).
		WithNote(err.Error())
	return []diag.Diagnostic{d}
}

func workers(jobs, files int) int {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	return max(1, min(jobs, files))
}

// forEachFile запускает fn для каждого файла с ограничением параллелизма.
// Индексы уникальны для каждой горутины, поэтому results пишутся без мьютекса.
func forEachFile(ctx context.Context, paths []string, jobs int, fn func(ctx context.Context, i int, path string) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers(jobs, len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			// Проверка отмены
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			return fn(gctx, i, path)
		})
	}
	return g.Wait()
}

// fileSpan открывает file-спан под текущим спаном контекста.
func fileSpan(ctx context.Context, path string) (context.Context, *trace.Span) {
	return trace.Start(ctx, trace.ScopeFile, filepath.Base(path))
}

// TokenizeDir токенизирует все *.rym файлы параллельно
func TokenizeDir(ctx context.Context, dir string, opts DirOptions) (*source.FileSet, []TokenizeDirResult, error) {
	lf, err := loadAll(dir)
	if err != nil {
		return nil, nil, err
	}
	results := make([]TokenizeDirResult, len(lf.paths))
	err = forEachFile(ctx, lf.paths, opts.Jobs, func(ctx context.Context, i int, path string) error {
		if loadErr, failed := lf.loadErr[path]; failed {
			results[i] = TokenizeDirResult{Path: path, Diagnostics: loadFailure(path, loadErr)}
			return nil
		}
		ctx, sp := fileSpan(ctx, path)
		defer sp.End("")
		res := TokenizeSource(ctx, lf.fs, lf.ids[path], opts.Options)
		results[i] = TokenizeDirResult{
			Path:        path,
			FileID:      lf.ids[path],
			Tokens:      res.Tokens,
			Diagnostics: res.Diagnostics,
		}
		return nil
	})
	return lf.fs, results, err
}

// ParseDir парсит все *.rym файлы параллельно; у каждого файла свой
// sink, свой лексер и свой ast.Builder.
func ParseDir(ctx context.Context, dir string, opts DirOptions) (*source.FileSet, []ParseDirResult, error) {
	lf, err := loadAll(dir)
	if err != nil {
		return nil, nil, err
	}
	results := make([]ParseDirResult, len(lf.paths))
	err = forEachFile(ctx, lf.paths, opts.Jobs, func(ctx context.Context, i int, path string) error {
		if loadErr, failed := lf.loadErr[path]; failed {
			results[i] = ParseDirResult{Path: path, Diagnostics: loadFailure(path, loadErr)}
			return nil
		}
		ctx, sp := fileSpan(ctx, path)
		defer sp.End("")
		res := ParseSource(ctx, lf.fs, lf.ids[path], opts.Options)
		results[i] = ParseDirResult{Path: path, Parse: res, Diagnostics: res.Diagnostics}
		return nil
	})
	return lf.fs, results, err
}

// DiagnoseDir прогоняет конвейер по файлу или каталогу, используя
// DiskCache, и сообщает о прогрессе через opts.Progress.
func DiagnoseDir(ctx context.Context, path string, opts DirOptions) (*source.FileSet, []DiagnoseFileResult, error) {
	lf, err := loadAll(path)
	if err != nil {
		return nil, nil, err
	}
	total := len(lf.paths)
	for _, p := range lf.paths {
		emitProgress(opts.Progress, ProgressEvent{Path: p, Stage: ProgressQueued, Total: total})
	}

	results := make([]DiagnoseFileResult, total)
	err = forEachFile(ctx, lf.paths, opts.Jobs, func(ctx context.Context, i int, p string) error {
		if loadErr, failed := lf.loadErr[p]; failed {
			results[i] = DiagnoseFileResult{Path: p, Diagnostics: loadFailure(p, loadErr)}
			emitProgress(opts.Progress, ProgressEvent{Path: p, Stage: ProgressDone, Errors: 1, Total: total})
			return nil
		}
		ctx, sp := fileSpan(ctx, p)
		defer sp.End("")

		start := time.Now()
		emitProgress(opts.Progress, ProgressEvent{Path: p, Stage: ProgressStarted, Total: total})
		results[i] = diagnoseOne(ctx, lf.fs, lf.ids[p], p, opts)

		stage := ProgressDone
		if results[i].Cached {
			stage = ProgressCached
			sp.WithExtra("cached", "true")
		}
		emitProgress(opts.Progress, ProgressEvent{
			Path:    p,
			Stage:   stage,
			Errors:  countErrors(results[i].Diagnostics),
			Elapsed: time.Since(start),
			Total:   total,
		})
		return nil
	})
	return lf.fs, results, err
}

func diagnoseOne(ctx context.Context, fs *source.FileSet, id source.FileID, path string, opts DirOptions) DiagnoseFileResult {
	file := fs.Get(id)
	key := CacheKey(file, opts.Options)

	// нечитаемая запись - тот же промах: ниже Put её перезапишет
	var payload DiskPayload
	if hit, err := opts.Cache.Get(key, &payload); err == nil && hit && payload.ContentHash == file.Hash {
		return DiagnoseFileResult{
			Path:        path,
			FileID:      id,
			Diagnostics: remapDiagnostics(payload.Diagnostics, id),
			Dropped:     int(payload.Dropped),
			Cached:      true,
		}
	}

	res := ParseSource(ctx, fs, id, opts.Options)
	out := DiagnoseFileResult{
		Path:        path,
		FileID:      id,
		Diagnostics: res.Diagnostics,
		Dropped:     res.Dropped,
	}
	if cacheErr := opts.Cache.Put(key, newDiskPayload(file, res)); cacheErr != nil {
		// кеш - оптимизация: сбой не мешает результату, но виден пользователю
		out.Diagnostics = append(out.Diagnostics,
			diag.New(diag.LevelWarning, diag.IOCacheError, source.DummySpan, "diagnostic cache failure").
				WithNote(cacheErr.Error()))
	}
	return out
}

func countErrors(diags []diag.Diagnostic) int {
	n := 0
	for _, d := range diags {
		if d.IsError() {
			n++
		}
	}
	return n
}
