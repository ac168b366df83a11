package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

// Syntax selects the parser backend.
type Syntax string

const (
	SyntaxNative     Syntax = "native"
	SyntaxTreeSitter Syntax = "tree-sitter"
)

func ParseSyntax(s string) (Syntax, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "native", "":
		return SyntaxNative, nil
	case "tree-sitter", "treesitter", "ts":
		return SyntaxTreeSitter, nil
	}
	return "", fmt.Errorf("unknown syntax backend %q (expected: native|tree-sitter)", s)
}

// Environment overrides.
const (
	EnvJobs           = "MEXPAND_JOBS"
	EnvCache          = "MEXPAND_CACHE"
	EnvSyntax         = "MEXPAND_SYNTAX"
	EnvMaxDiagnostics = "MEXPAND_MAX_DIAGNOSTICS"
)

const DefaultMaxDiagnostics = 100

// Settings is the effective configuration after defaults, manifest, env and
// flags were applied in that order.
type Settings struct {
	Crate          string
	Root           string // каталог исходников
	Syntax         Syntax
	Jobs           int // 0 = GOMAXPROCS
	Cache          bool
	MaxDiagnostics int
}

func Defaults() Settings {
	return Settings{
		Syntax:         SyntaxNative,
		Cache:          true,
		MaxDiagnostics: DefaultMaxDiagnostics,
	}
}

// ApplyManifest overlays values set in m.
func (s *Settings) ApplyManifest(m *Manifest) {
	if m == nil {
		return
	}
	s.Crate = strings.TrimSpace(m.Config.Crate.Name)
	s.Root = m.SourceRoot()
	e := m.Config.Expand
	if e.Syntax != "" {
		if syn, err := ParseSyntax(e.Syntax); err == nil {
			s.Syntax = syn
		}
	}
	if e.Jobs != nil {
		s.Jobs = *e.Jobs
	}
	if e.Cache != nil {
		s.Cache = *e.Cache
	}
	if e.MaxDiagnostics != nil {
		s.MaxDiagnostics = *e.MaxDiagnostics
	}
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overlays MEXPAND_* variables. Malformed values are errors.
func (s *Settings) ApplyEnv(lookup LookupFunc) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	var errs []error
	if v, ok := lookup(EnvJobs); ok {
		n, err := cast.ToIntE(strings.TrimSpace(v))
		if err != nil || n < 0 {
			errs = append(errs, fmt.Errorf("%s=%q: expected a non-negative integer", EnvJobs, v))
		} else {
			s.Jobs = n
		}
	}
	if v, ok := lookup(EnvCache); ok {
		b, err := cast.ToBoolE(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s=%q: %w", EnvCache, v, err))
		} else {
			s.Cache = b
		}
	}
	if v, ok := lookup(EnvSyntax); ok {
		syn, err := ParseSyntax(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvSyntax, err))
		} else {
			s.Syntax = syn
		}
	}
	if v, ok := lookup(EnvMaxDiagnostics); ok {
		n, err := cast.ToIntE(strings.TrimSpace(v))
		if err != nil || n < 0 {
			errs = append(errs, fmt.Errorf("%s=%q: expected a non-negative integer", EnvMaxDiagnostics, v))
		} else {
			s.MaxDiagnostics = n
		}
	}
	return errors.Join(errs...)
}

// LoadDotEnv loads dir/.env into the process environment without overriding
// variables that are already set. A missing file is not an error.
func LoadDotEnv(dir string) error {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Resolve computes Settings for startDir: defaults, then the manifest found by
// walking up, then .env and the process environment. Flags are applied by the
// caller afterwards.
func Resolve(startDir string, lookup LookupFunc) (Settings, *Manifest, error) {
	s := Defaults()
	manifest, _, err := LoadManifest(startDir)
	if err != nil {
		return s, nil, err
	}
	s.ApplyManifest(manifest)

	envDir := startDir
	if manifest != nil {
		envDir = manifest.Root
	}
	if lookup == nil {
		if err := LoadDotEnv(envDir); err != nil {
			return s, manifest, err
		}
	}
	if err := s.ApplyEnv(lookup); err != nil {
		return s, manifest, err
	}
	return s, manifest, nil
}
