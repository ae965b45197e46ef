package driver

import "time"

// ProgressStage - стадия обработки файла в DiagnoseDir.
type ProgressStage int

const (
	// ProgressQueued: файл найден и ждёт свободного воркера.
	ProgressQueued ProgressStage = iota
	ProgressStarted
	ProgressDone
	// ProgressCached: результат взят из DiskCache, разбор пропущен.
	ProgressCached
)

func (s ProgressStage) String() string {
	switch s {
	case ProgressQueued:
		return "queued"
	case ProgressStarted:
		return "started"
	case ProgressDone:
		return "done"
	case ProgressCached:
		return "cached"
	default:
		return "unknown"
	}
}

// ProgressEvent describes one file changing stage.
type ProgressEvent struct {
	Path    string
	Stage   ProgressStage
	Errors  int // для Done/Cached
	Elapsed time.Duration
	Total   int // сколько файлов в прогоне
}

// emitProgress не блокирует воркер, если канал не задан.
func emitProgress(ch chan<- ProgressEvent, ev ProgressEvent) {
	if ch == nil {
		return
	}
	ch <- ev
}
