package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestName is the project file looked up from the working directory.
const ManifestName = "mexpand.toml"

var (
	ErrManifestInvalid = errors.New("invalid manifest")
	ErrMissingCrate    = errors.New("missing [crate].name")
)

// Manifest is a parsed mexpand.toml together with its location.
type Manifest struct {
	Path   string
	Root   string // каталог, где лежит mexpand.toml
	Config Config
}

type Config struct {
	Crate  CrateConfig  `toml:"crate"`
	Expand ExpandConfig `toml:"expand"`
}

type CrateConfig struct {
	Name string `toml:"name"`
	Root string `toml:"root"`
}

// ExpandConfig holds optional overrides; nil means "not set".
type ExpandConfig struct {
	Syntax         string `toml:"syntax"`
	Jobs           *int   `toml:"jobs"`
	Cache          *bool  `toml:"cache"`
	MaxDiagnostics *int   `toml:"max_diagnostics"`
}

// FindManifest walks up from startDir to locate mexpand.toml.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadManifest finds and parses the manifest governing startDir.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

// LoadConfig parses and validates one manifest file.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w: %w", path, ErrManifestInvalid, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: %w: unknown key %q", path, ErrManifestInvalid, undecoded[0].String())
	}
	if !meta.IsDefined("crate", "name") || strings.TrimSpace(cfg.Crate.Name) == "" {
		return Config{}, fmt.Errorf("%s: %w", path, ErrMissingCrate)
	}
	if cfg.Expand.Syntax != "" {
		if _, err := ParseSyntax(cfg.Expand.Syntax); err != nil {
			return Config{}, fmt.Errorf("%s: %w: %w", path, ErrManifestInvalid, err)
		}
	}
	if cfg.Expand.Jobs != nil && *cfg.Expand.Jobs < 0 {
		return Config{}, fmt.Errorf("%s: %w: [expand].jobs must be >= 0", path, ErrManifestInvalid)
	}
	if cfg.Expand.MaxDiagnostics != nil && *cfg.Expand.MaxDiagnostics < 0 {
		return Config{}, fmt.Errorf("%s: %w: [expand].max_diagnostics must be >= 0", path, ErrManifestInvalid)
	}
	return cfg, nil
}

// SourceRoot returns the directory scanned for sources.
func (m *Manifest) SourceRoot() string {
	root := strings.TrimSpace(m.Config.Crate.Root)
	if root == "" {
		return m.Root
	}
	if filepath.IsAbs(root) {
		return root
	}
	return filepath.Join(m.Root, filepath.FromSlash(root))
}
