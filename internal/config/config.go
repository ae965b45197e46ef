package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"rym/internal/project"
	"rym/internal/trace"
	"rym/internal/version"
)

// EnvPrefix is the prefix of environment overrides (RYM_MAX_DIAGNOSTICS).
const EnvPrefix = "RYM_"

// Config is the merged configuration of one CLI invocation.
type Config struct {
	ProjectRoot    string
	ManifestPath   string // "" - rym.toml не найден
	Name           string
	ToolConstraint string

	MaxDiagnostics int
	Dedup          bool
	Format         string // pretty|json

	Jobs      int // 0 = GOMAXPROCS
	Cache     bool
	Normalize bool

	Color       string // auto|on|off
	TraceLevel  string
	TraceFormat string
	TraceOutput string
	TraceMode   string
}

type layered struct {
	Diagnostics struct {
		Max    int    `koanf:"max"`
		Dedup  bool   `koanf:"dedup"`
		Format string `koanf:"format"`
	} `koanf:"diagnostics"`
	Build struct {
		Jobs      int  `koanf:"jobs"`
		Cache     bool `koanf:"cache"`
		Normalize bool `koanf:"normalize"`
	} `koanf:"build"`
	Color string `koanf:"color"`
	Trace struct {
		Level  string `koanf:"level"`
		Format string `koanf:"format"`
		Output string `koanf:"output"`
		Mode   string `koanf:"mode"`
	} `koanf:"trace"`
}

func defaults() map[string]any {
	return map[string]any{
		"diagnostics.max":    100,
		"diagnostics.dedup":  true,
		"diagnostics.format": "pretty",
		"build.jobs":         0,
		"build.cache":        true,
		"build.normalize":    false,
		"color":              "auto",
		"trace.level":        "off",
		"trace.format":       "text",
		"trace.output":       "-",
		"trace.mode":         "stream",
	}
}

// envKeys maps RYM_<NAME> (lower-cased, prefix stripped) to a config key.
var envKeys = map[string]string{
	"max_diagnostics": "diagnostics.max",
	"dedup":           "diagnostics.dedup",
	"format":          "diagnostics.format",
	"jobs":            "build.jobs",
	"cache":           "build.cache",
	"normalize":       "build.normalize",
	"color":           "color",
	"trace_level":     "trace.level",
	"trace_format":    "trace.format",
	"trace_output":    "trace.output",
	"trace_mode":      "trace.mode",
}

// flagKeys maps CLI flag names to config keys. --format is per-command and
// is not part of the layered config.
var flagKeys = map[string]string{
	"max-diagnostics": "diagnostics.max",
	"jobs":            "build.jobs",
	"normalize":       "build.normalize",
	"color":           "color",
	"trace-level":     "trace.level",
	"trace-format":    "trace.format",
	"trace-output":    "trace.output",
	"trace-mode":      "trace.mode",
}

// Load merges, highest priority last: defaults, the nearest rym.toml above
// startDir (or --config), RYM_* environment and explicitly set flags.
func Load(startDir string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. rym.toml
	cfg := &Config{}
	manifestPath, err := manifestPath(startDir, flags)
	if err != nil {
		return nil, err
	}
	if manifestPath != "" {
		m, err := project.LoadManifest(manifestPath)
		if err != nil {
			return nil, err
		}
		if err := k.Load(confmap.Provider(m.Settings, "."), nil); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", manifestPath, err)
		}
		cfg.ManifestPath = manifestPath
		cfg.ProjectRoot = filepath.Dir(manifestPath)
		cfg.Name = m.Name
		cfg.ToolConstraint = m.Rym
	}

	// 3. Environment: RYM_MAX_DIAGNOSTICS -> diagnostics.max
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return envKeys[strings.ToLower(strings.TrimPrefix(s, EnvPrefix))]
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags (only explicitly set)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			if f.Name == "no-cache" {
				noCache, _ := flags.GetBool("no-cache")
				return "build.cache", !noCache
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var l layered
	if err := k.Unmarshal("", &l); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.MaxDiagnostics = l.Diagnostics.Max
	cfg.Dedup = l.Diagnostics.Dedup
	cfg.Format = l.Diagnostics.Format
	cfg.Jobs = l.Build.Jobs
	cfg.Cache = l.Build.Cache
	cfg.Normalize = l.Build.Normalize
	cfg.Color = l.Color
	cfg.TraceLevel = l.Trace.Level
	cfg.TraceFormat = l.Trace.Format
	cfg.TraceOutput = l.Trace.Output
	cfg.TraceMode = l.Trace.Mode

	if cfg.ProjectRoot == "" {
		root, err := filepath.Abs(startDir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve start directory: %w", err)
		}
		cfg.ProjectRoot = root
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// manifestPath: явный --config, иначе поиск rym.toml вверх от startDir.
func manifestPath(startDir string, flags *pflag.FlagSet) (string, error) {
	if flags != nil && flags.Lookup("config") != nil && flags.Changed("config") {
		path, err := flags.GetString("config")
		if err != nil {
			return "", fmt.Errorf("read --config: %w", err)
		}
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("config file %s: %w", path, err)
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to resolve config path: %w", err)
		}
		return abs, nil
	}
	path, ok, err := project.FindManifest(startDir)
	if err != nil || !ok {
		return "", err
	}
	return path, nil
}

// Validate checks enumerations, ranges and the tool version constraint.
func (c *Config) Validate() error {
	switch c.Format {
	case "pretty", "json":
	default:
		return fmt.Errorf("invalid diagnostics format %q (expected: pretty|json)", c.Format)
	}
	switch c.Color {
	case "auto", "on", "off":
	default:
		return fmt.Errorf("invalid color mode %q (expected: auto|on|off)", c.Color)
	}
	if c.MaxDiagnostics < 0 {
		return fmt.Errorf("diagnostics.max must be >= 0, got %d", c.MaxDiagnostics)
	}
	if c.Jobs < 0 {
		return fmt.Errorf("build.jobs must be >= 0, got %d", c.Jobs)
	}
	if _, err := trace.ParseLevel(c.TraceLevel); err != nil {
		return err
	}
	if _, err := trace.ParseFormat(c.TraceFormat); err != nil {
		return err
	}
	if _, err := trace.ParseMode(c.TraceMode); err != nil {
		return err
	}
	if c.ToolConstraint != "" {
		ok, err := version.Satisfies(c.ToolConstraint)
		if err != nil {
			return fmt.Errorf("%s: %w", c.ManifestPath, err)
		}
		if !ok {
			return fmt.Errorf("%s: project requires rym %s, running %s", c.ManifestPath, c.ToolConstraint, version.Version)
		}
	}
	return nil
}

// TraceConfig converts the trace settings for trace.New.
func (c *Config) TraceConfig() (trace.Config, error) {
	level, err := trace.ParseLevel(c.TraceLevel)
	if err != nil {
		return trace.Config{}, err
	}
	format, err := trace.ParseFormat(c.TraceFormat)
	if err != nil {
		return trace.Config{}, err
	}
	mode, err := trace.ParseMode(c.TraceMode)
	if err != nil {
		return trace.Config{}, err
	}
	return trace.Config{Level: level, Mode: mode, Format: format, OutputPath: c.TraceOutput}, nil
}
