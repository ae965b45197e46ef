package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"rym/internal/config"
	"rym/internal/driver"
	"rym/internal/observ"
	"rym/internal/prof"
	"rym/internal/trace"
)

// skipConfig - аннотация команд, которым не нужен rym.toml (version, init).
const skipConfig = "rym/skip-config"

// session - состояние одного запуска CLI: конфиг, трейсер и таймер.
type session struct {
	cfg       *config.Config
	tracer    trace.Tracer
	heartbeat *trace.Heartbeat
	timer     *observ.Timer
	span      *trace.Span
	profiler  *prof.Session
	runID     string // связывает трассу и дамп паники одного запуска
}

type sessionKey struct{}

func sessionFrom(cmd *cobra.Command) *session {
	if s, ok := cmd.Context().Value(sessionKey{}).(*session); ok {
		return s
	}
	return &session{tracer: trace.Nop}
}

// openSession загружает конфиг относительно первого аргумента команды и
// поднимает трейсер. Корневой driver-спан закрывает closeSession.
func openSession(cmd *cobra.Command, args []string) error {
	if cmd.Annotations[skipConfig] != "" {
		return nil
	}
	startDir, err := configStartDir(args)
	if err != nil {
		return err
	}
	cfg, err := config.Load(startDir, cmd.Flags())
	if err != nil {
		return err
	}

	s := &session{cfg: cfg, tracer: trace.Nop, runID: uuid.NewString()}
	if err := s.setupTracing(cmd); err != nil {
		return err
	}
	if err := s.setupProfiling(cmd); err != nil {
		s.close(cmd)
		return err
	}
	if timings, _ := cmd.Flags().GetBool("timings"); timings {
		s.timer = observ.NewTimer()
	}

	ctx := trace.WithTracer(cmd.Context(), s.tracer)
	ctx, s.span = trace.Start(ctx, trace.ScopeDriver, cmd.Name())
	s.span.WithExtra("run", s.runID)
	cmd.SetContext(context.WithValue(ctx, sessionKey{}, s))
	return nil
}

// closeSession выполняется только после успешного RunE; при ошибке
// команды трейсер закрывает runCommand через defer.
func closeSession(cmd *cobra.Command, _ []string) {
	sessionFrom(cmd).close(cmd)
}

func (s *session) close(cmd *cobra.Command) {
	if s.span != nil {
		s.span.End("")
		s.span = nil
	}
	if s.heartbeat != nil {
		s.heartbeat.Stop()
		s.heartbeat = nil
	}
	if err := s.profiler.Stop(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "profile: %v\n", err)
	}
	if s.tracer == nil {
		return
	}
	if err := s.tracer.Flush(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
	}
	if err := s.tracer.Close(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
	}
	s.tracer = nil
}

// setupTracing inspects trace-related settings and initializes the tracer.
func (s *session) setupTracing(cmd *cobra.Command) error {
	traceCfg, err := s.cfg.TraceConfig()
	if err != nil {
		return fmt.Errorf("invalid trace settings: %w", err)
	}
	tracer, err := trace.New(traceCfg)
	if err != nil {
		return fmt.Errorf("failed to create tracer: %w", err)
	}
	s.tracer = tracer

	interval, err := cmd.Flags().GetDuration("trace-heartbeat")
	if err != nil {
		return fmt.Errorf("failed to get trace-heartbeat flag: %w", err)
	}
	s.heartbeat = trace.StartHeartbeat(tracer, interval)
	return nil
}

// setupProfiling inspects profiling flags and enables the requested profilers.
func (s *session) setupProfiling(cmd *cobra.Command) error {
	var opts prof.Options
	for name, dst := range map[string]*string{
		"cpu-profile":   &opts.CPU,
		"mem-profile":   &opts.Mem,
		"runtime-trace": &opts.Trace,
	} {
		v, err := cmd.Flags().GetString(name)
		if err != nil {
			return fmt.Errorf("failed to get %s flag: %w", name, err)
		}
		*dst = v
	}
	if !opts.Enabled() {
		return nil
	}
	p, err := prof.Start(opts)
	if err != nil {
		return fmt.Errorf("failed to start profiling: %w", err)
	}
	s.profiler = p
	return nil
}

// dumpTraceOnPanic выводит содержимое кольцевого буфера трейсера в stderr
// и перевыбрасывает панику.
func (s *session) dumpTraceOnPanic() {
	r := recover()
	if r == nil {
		return
	}
	if d, ok := s.tracer.(trace.Dumper); ok {
		fmt.Fprintf(os.Stderr, "=== trace before panic (run %s) ===\n", s.runID)
		_ = d.Dump(os.Stderr, trace.FormatText)
	}
	panic(r)
}

// runCommand оборачивает RunE: дамп трейса при панике и закрытие
// сессии, если команда вернула ошибку (PersistentPostRun тогда не вызывается).
func runCommand(fn func(cmd *cobra.Command, args []string, s *session) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		s := sessionFrom(cmd)
		defer s.dumpTraceOnPanic()
		defer func() {
			if err != nil {
				s.close(cmd)
			}
		}()
		return fn(cmd, args, s)
	}
}

// driverOptions переводит конфиг в настройки конвейера.
func (s *session) driverOptions() driver.Options {
	return driver.Options{
		MaxDiagnostics: s.cfg.MaxDiagnostics,
		Dedup:          s.cfg.Dedup,
		Normalize:      s.cfg.Normalize,
		Timer:          s.timer,
	}
}

// configStartDir: каталог аргумента (или файла-аргумента), иначе cwd.
func configStartDir(args []string) (string, error) {
	if len(args) == 0 || args[0] == "" {
		return os.Getwd()
	}
	st, err := os.Stat(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to stat path: %w", err)
	}
	if st.IsDir() {
		return args[0], nil
	}
	return filepath.Dir(args[0]), nil
}
