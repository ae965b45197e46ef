package driver

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"rym/internal/ast"
	"rym/internal/diag"
	"rym/internal/project"
	"rym/internal/source"
	"rym/internal/version"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache хранит результаты диагностики файлов по хешу содержимого.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload - закешированный результат одного файла.
type DiskPayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Path        string
	ContentHash project.Digest
	Tool        string // версия инструмента, записавшая payload

	Diagnostics []diag.Diagnostic // спаны с FileID на момент записи
	Dropped     uint32
	Nodes       uint32
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt opens a cache rooted at dir, creating it if needed.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// CacheKey: H(content || tool version || options), так что смена версии
// или лимитов диагностик инвалидирует запись.
func CacheKey(file *source.File, opts Options) project.Digest {
	optsDigest := project.StringDigest(fmt.Sprintf("max=%d dedup=%t normalize=%t",
		opts.MaxDiagnostics, opts.Dedup, opts.Normalize))
	return project.Combine(project.Digest(file.Hash), project.StringDigest(version.Version), optsDigest)
}

func (c *DiskCache) pathFor(key project.Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// Подкаталог по первым двум символам, чтобы не копить тысячи файлов в одном.
	return filepath.Join(c.dir, "files", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key project.Digest, payload *DiskPayload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		// после успешного Rename временного файла уже нет
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload from the disk cache.
// Payload другой схемы считается промахом.
func (c *DiskCache) Get(key project.Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer func() { _ = f.Close() }()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	return out.Schema == diskCacheSchemaVersion, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

func newDiskPayload(file *source.File, res *ParseResult) *DiskPayload {
	dropped, err := safecast.Conv[uint32](res.Dropped)
	if err != nil {
		dropped = ^uint32(0)
	}
	nodes, err := safecast.Conv[uint32](ast.CountNodes(res.Builder, res.FileID))
	if err != nil {
		nodes = ^uint32(0)
	}
	return &DiskPayload{
		Schema:      diskCacheSchemaVersion,
		Path:        file.Path,
		ContentHash: project.Digest(file.Hash),
		Tool:        version.Version,
		Diagnostics: res.Diagnostics,
		Dropped:     dropped,
		Nodes:       nodes,
	}
}

// remapDiagnostics переносит закешированные диагностики на FileID текущего
// прогона: при повторном запуске файл может получить другой ID.
func remapDiagnostics(diags []diag.Diagnostic, id source.FileID) []diag.Diagnostic {
	out := make([]diag.Diagnostic, len(diags))
	for i, d := range diags {
		out[i] = remapDiagnostic(d, id)
	}
	return out
}

func remapDiagnostic(d diag.Diagnostic, id source.FileID) diag.Diagnostic {
	if len(d.Primary) > 0 {
		primary := make([]source.Span, len(d.Primary))
		for i, sp := range d.Primary {
			sp.File = id
			primary[i] = sp
		}
		d.Primary = primary
	}
	if len(d.Labels) > 0 {
		labels := make([]diag.Label, len(d.Labels))
		for i, l := range d.Labels {
			l.Span.File = id
			labels[i] = l
		}
		d.Labels = labels
	}
	if len(d.Children) > 0 {
		d.Children = remapDiagnostics(d.Children, id)
	}
	return d
}
