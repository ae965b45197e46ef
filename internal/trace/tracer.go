package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Tracer принимает события. Реализации обязаны быть goroutine-safe:
// файловые спаны открываются из воркеров errgroup.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	Close() error
	Level() Level
	Enabled() bool // Level() > LevelOff
}

// Dumper - трейсер, который держит события в памяти и умеет их выгрузить.
type Dumper interface {
	Dump(w io.Writer, format Format) error
}

// StorageMode - куда попадают события.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1 // сразу в вывод
	ModeRing                          // только в память
	ModeBoth                          // оба
)

var modeNames = [...]string{
	ModeStream: "stream",
	ModeRing:   "ring",
	ModeBoth:   "both",
}

func (m StorageMode) String() string { return lookupName(modeNames[:], int(m)) }

// ParseMode разбирает режим хранения; "" = stream.
func ParseMode(s string) (StorageMode, error) {
	if s == "" {
		return ModeStream, nil
	}
	for m, name := range modeNames {
		if name != "" && strings.EqualFold(s, name) {
			return StorageMode(m), nil
		}
	}
	return ModeStream, fmt.Errorf("invalid storage mode: %q (expected: stream|ring|both)", s)
}

// Config описывает трейсер команды.
type Config struct {
	Level      Level
	Mode       StorageMode // 0 = stream
	Format     Format      // FormatAuto выбирается по расширению OutputPath
	Output     io.Writer   // если nil, открывается OutputPath
	OutputPath string      // "" и "-" = stderr
	RingSize   int         // 0 = 4096
}

// New собирает трейсер по cfg.
//
// На LevelError ничего не пишется: проходы копятся в кольце, которое
// CLI выгружает при панике команды.
func New(cfg Config) (Tracer, error) {
	switch {
	case cfg.Level == LevelOff:
		return Nop, nil
	case cfg.Level == LevelError:
		return NewRingTracer(cfg.RingSize, LevelPhase), nil
	case cfg.Mode == ModeRing:
		return NewRingTracer(cfg.RingSize, cfg.Level), nil
	case cfg.Mode != 0 && cfg.Mode != ModeStream && cfg.Mode != ModeBoth:
		return nil, fmt.Errorf("unknown storage mode: %v", cfg.Mode)
	}

	w, err := openOutput(cfg)
	if err != nil {
		return nil, err
	}
	format := cfg.Format
	if format == FormatAuto {
		format = FormatText
		if strings.HasSuffix(cfg.OutputPath, ".ndjson") {
			format = FormatNDJSON
		}
	}
	stream := NewStreamTracer(w, cfg.Level, format)
	if cfg.Mode != ModeBoth {
		return stream, nil
	}
	return NewMultiTracer(cfg.Level, stream, NewRingTracer(cfg.RingSize, cfg.Level)), nil
}

func openOutput(cfg Config) (io.Writer, error) {
	switch {
	case cfg.Output != nil:
		return cfg.Output, nil
	case cfg.OutputPath == "" || cfg.OutputPath == "-":
		// stderr оборачивается, чтобы Close трейсера его не закрыл
		return struct{ io.Writer }{os.Stderr}, nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("open trace output: %w", err)
	}
	return f, nil
}
