package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"rym/internal/project"
	"rym/internal/version"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [path|name]",
		Short: "Initialize a new rym project",
		Long: `Initialize a new rym project by creating a project manifest (rym.toml)
and an entry file (main.rym). If [path|name] is omitted, initializes
the current directory. If a non-existing name is provided, a directory will be
created.`,
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{skipConfig: "true"},
		RunE:        runInit,
	}
}

// runInit creates rym.toml and main.rym in the target directory. It refuses
// to overwrite an existing manifest; an existing main.rym is kept.
func runInit(cmd *cobra.Command, args []string) error {
	// Resolve target directory
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	target := wd
	if len(args) > 0 && args[0] != "." {
		target = args[0]
		if !filepath.IsAbs(target) {
			target = filepath.Join(wd, target)
		}
	}

	// Ensure directory exists
	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err := os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	name := strings.TrimSpace(filepath.Base(target))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "rym-project"
	}

	manifestPath := filepath.Join(target, project.ManifestName)
	if _, err := os.Stat(manifestPath); err == nil {
		return fmt.Errorf("project already initialized: %s exists", manifestPath)
	}
	if err := os.WriteFile(manifestPath, []byte(defaultManifest(name)), 0o600); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	mainPath := filepath.Join(target, "main.rym")
	createdMain := false
	if _, err := os.Stat(mainPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(mainPath, []byte(defaultMain), 0o600); err != nil {
			return fmt.Errorf("failed to write main.rym: %w", err)
		}
		createdMain = true
	}

	rel := target
	if r, err := filepath.Rel(wd, target); err == nil {
		rel = r
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Initialized rym project in %s\n", rel)
	fmt.Fprintf(out, "  - %s\n", project.ManifestName)
	if createdMain {
		fmt.Fprintf(out, "  - main.rym\n")
	} else {
		fmt.Fprintf(out, "  - main.rym (existing)\n")
	}
	return nil
}

// defaultManifest pins the project to the running tool's major.minor line.
func defaultManifest(name string) string {
	core := version.Version
	if i := strings.IndexByte(core, '-'); i >= 0 {
		core = core[:i]
	}
	return fmt.Sprintf(`# rym project manifest
[package]
name = %q
rym = ">= %s"

[diagnostics]
max = 100
format = "pretty"

[build]
jobs = 0
cache = true
`, name, core)
}

const defaultMain = `fn square(x) {
    x * x
}

mut total = 0
mut i = 0
while i < 10 {
    total += square(i)
    i += 1
}
total
`
