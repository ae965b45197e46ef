package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"rym/internal/project"
	"rym/internal/trace"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, project.ManifestName)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("rym", pflag.ContinueOnError)
	fs.String("config", "", "")
	fs.Int("max-diagnostics", 0, "")
	fs.Int("jobs", 0, "")
	fs.Bool("no-cache", false, "")
	fs.Bool("normalize", false, "")
	fs.String("color", "auto", "")
	fs.String("trace-level", "off", "")
	fs.String("trace-format", "text", "")
	fs.String("trace-output", "-", "")
	fs.String("trace-mode", "stream", "")
	fs.String("format", "pretty", "")
	return fs
}

func TestDefaultsWithoutManifest(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ManifestPath != "" {
		t.Fatalf("ManifestPath = %q, want empty", cfg.ManifestPath)
	}
	if cfg.MaxDiagnostics != 100 || !cfg.Dedup || cfg.Format != "pretty" {
		t.Fatalf("diagnostics defaults = %+v", cfg)
	}
	if cfg.Jobs != 0 || !cfg.Cache || cfg.Normalize {
		t.Fatalf("build defaults = %+v", cfg)
	}
	if cfg.Color != "auto" || cfg.TraceLevel != "off" || cfg.TraceOutput != "-" {
		t.Fatalf("misc defaults = %+v", cfg)
	}
}

func TestLayerPriority(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `[package]
name = "demo"

[diagnostics]
max = 20
format = "json"

[build]
jobs = 2
`)
	t.Setenv("RYM_MAX_DIAGNOSTICS", "30")
	t.Setenv("RYM_JOBS", "3")

	fs := testFlags()
	if err := fs.Parse([]string{"--jobs=4", "--no-cache"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir, fs)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "demo" {
		t.Errorf("Name = %q", cfg.Name)
	}
	// manifest < env < flags
	if cfg.Format != "json" {
		t.Errorf("Format = %q, want json from manifest", cfg.Format)
	}
	if cfg.MaxDiagnostics != 30 {
		t.Errorf("MaxDiagnostics = %d, want 30 from env", cfg.MaxDiagnostics)
	}
	if cfg.Jobs != 4 {
		t.Errorf("Jobs = %d, want 4 from flag", cfg.Jobs)
	}
	if cfg.Cache {
		t.Errorf("Cache = true, want false from --no-cache")
	}
	// флаг не задан явно - значение по умолчанию флага не перекрывает конфиг
	if cfg.Color != "auto" {
		t.Errorf("Color = %q", cfg.Color)
	}
}

func TestManifestFoundFromNestedDir(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[package]\nname = \"nested\"\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(nested, nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "nested" {
		t.Fatalf("Name = %q", cfg.Name)
	}
	want, _ := filepath.EvalSymlinks(root)
	if got, _ := filepath.EvalSymlinks(cfg.ProjectRoot); got != want {
		t.Fatalf("ProjectRoot = %q, want %q", cfg.ProjectRoot, root)
	}
}

func TestExplicitConfigFlag(t *testing.T) {
	dir := t.TempDir()
	other := t.TempDir()
	path := writeManifest(t, other, "[package]\nname = \"other\"\n\n[build]\nnormalize = true\n")

	fs := testFlags()
	if err := fs.Parse([]string{"--config", path}); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(dir, fs)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "other" || !cfg.Normalize {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestValidationErrors(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		env      map[string]string
		want     string
	}{
		{
			name:     "bad format",
			manifest: "[package]\nname = \"x\"\n[diagnostics]\nformat = \"xml\"\n",
			want:     "invalid diagnostics format",
		},
		{
			name: "bad color",
			env:  map[string]string{"RYM_COLOR": "rainbow"},
			want: "invalid color mode",
		},
		{
			name: "bad trace level",
			env:  map[string]string{"RYM_TRACE_LEVEL": "verbose"},
			want: "invalid",
		},
		{
			name:     "negative max",
			manifest: "[package]\nname = \"x\"\n[diagnostics]\nmax = -1\n",
			want:     "diagnostics.max",
		},
		{
			name:     "tool version",
			manifest: "[package]\nname = \"x\"\nrym = \">= 99.0.0\"\n",
			want:     "requires rym",
		},
		{
			name:     "missing package",
			manifest: "[build]\njobs = 1\n",
			want:     "missing [package]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.manifest != "" {
				writeManifest(t, dir, tt.manifest)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(dir, nil)
			if err == nil {
				t.Fatalf("expected error containing %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error = %v, want substring %q", err, tt.want)
			}
		})
	}
}

func TestTraceConfig(t *testing.T) {
	cfg := &Config{TraceLevel: "phase", TraceFormat: "ndjson", TraceOutput: "trace.ndjson", TraceMode: "both"}
	tc, err := cfg.TraceConfig()
	if err != nil {
		t.Fatal(err)
	}
	if tc.Level != trace.LevelPhase || tc.Format != trace.FormatNDJSON || tc.OutputPath != "trace.ndjson" || tc.Mode != trace.ModeBoth {
		t.Fatalf("trace config = %+v", tc)
	}
}
