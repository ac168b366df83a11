package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"mexpand/internal/project"
)

// resolveSettings applies, in order: defaults, mexpand.toml found from
// startDir, .env and MEXPAND_* variables, then flags the user set explicitly.
func resolveSettings(cmd *cobra.Command, startDir string) (project.Settings, *project.Manifest, error) {
	settings, manifest, err := project.Resolve(startDir, nil)
	if err != nil {
		return settings, manifest, err
	}

	flags := cmd.Flags()
	if f := cmd.Root().PersistentFlags(); f.Changed("max-diagnostics") {
		n, err := f.GetInt("max-diagnostics")
		if err != nil {
			return settings, manifest, err
		}
		if n < 0 {
			return settings, manifest, fmt.Errorf("--max-diagnostics must be non-negative, got %d", n)
		}
		settings.MaxDiagnostics = n
	}
	if flags.Lookup("syntax") != nil && flags.Changed("syntax") {
		raw, _ := flags.GetString("syntax")
		syn, err := project.ParseSyntax(raw)
		if err != nil {
			return settings, manifest, err
		}
		settings.Syntax = syn
	}
	if flags.Lookup("jobs") != nil && flags.Changed("jobs") {
		n, _ := flags.GetInt("jobs")
		if n < 0 {
			return settings, manifest, fmt.Errorf("--jobs must be non-negative, got %d", n)
		}
		settings.Jobs = n
	}
	if flags.Lookup("crate") != nil && flags.Changed("crate") {
		settings.Crate, _ = flags.GetString("crate")
	}
	if flags.Lookup("no-cache") != nil && flags.Changed("no-cache") {
		noCache, _ := flags.GetBool("no-cache")
		settings.Cache = !noCache
	}
	return settings, manifest, nil
}

// startDirFor returns the directory settings are looked up from.
func startDirFor(target string) (string, os.FileInfo, error) {
	info, err := os.Stat(target)
	if err != nil {
		return "", nil, err
	}
	dir := target
	if !info.IsDir() {
		dir = filepath.Dir(target)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", nil, err
	}
	return abs, info, nil
}
