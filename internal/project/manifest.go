package project

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

var (
	// ErrPackageSectionMissing indicates that [package] is missing in rym.toml.
	ErrPackageSectionMissing = errors.New("missing [package]")
	// ErrPackageNameMissing indicates that [package].name is missing or empty.
	ErrPackageNameMissing = errors.New("missing [package].name")
)

// Manifest - разобранный rym.toml. Поля секций [diagnostics] и [build]
// хранятся как map только для заданных ключей, чтобы config мог наложить
// их поверх значений по умолчанию, не затирая их нулями.
type Manifest struct {
	Path string
	Name string
	// Rym - необязательное semver-ограничение на версию инструмента.
	Rym string
	// Settings - заданные ключи [diagnostics] и [build] в виде
	// "diagnostics.max" → значение.
	Settings map[string]any
}

type manifestFile struct {
	Package struct {
		Name string `toml:"name"`
		Rym  string `toml:"rym"`
	} `toml:"package"`
	Diagnostics struct {
		Max    int    `toml:"max"`
		Dedup  bool   `toml:"dedup"`
		Format string `toml:"format"`
	} `toml:"diagnostics"`
	Build struct {
		Jobs      int  `toml:"jobs"`
		Cache     bool `toml:"cache"`
		Normalize bool `toml:"normalize"`
	} `toml:"build"`
}

// LoadManifest parses rym.toml and checks required keys.
func LoadManifest(path string) (*Manifest, error) {
	var cfg manifestFile
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return nil, fmt.Errorf("%s: %w", path, ErrPackageSectionMissing)
	}
	name := strings.TrimSpace(cfg.Package.Name)
	if !meta.IsDefined("package", "name") || name == "" {
		return nil, fmt.Errorf("%s: %w", path, ErrPackageNameMissing)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	m := &Manifest{
		Path:     path,
		Name:     name,
		Rym:      strings.TrimSpace(cfg.Package.Rym),
		Settings: make(map[string]any),
	}
	set := func(section, key string, v any) {
		if meta.IsDefined(section, key) {
			m.Settings[section+"."+key] = v
		}
	}
	set("diagnostics", "max", cfg.Diagnostics.Max)
	set("diagnostics", "dedup", cfg.Diagnostics.Dedup)
	set("diagnostics", "format", cfg.Diagnostics.Format)
	set("build", "jobs", cfg.Build.Jobs)
	set("build", "cache", cfg.Build.Cache)
	set("build", "normalize", cfg.Build.Normalize)
	return m, nil
}
