package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"mexpand/internal/driver"
	"mexpand/internal/observ"
	"mexpand/internal/project"
)

// cacheApp names the directory under $XDG_CACHE_HOME.
const cacheApp = "mexpand"

var expandCmd = &cobra.Command{
	Use:   "expand [flags] [file.rs|dir]",
	Short: "Expand builtin macro calls",
	Long: `Expand resolves every macro call of a file or of all *.rs files under a directory
and expands line!, column!, file! and stringify!. A directory is treated as one crate:
macro_rules! definitions in any of its files shadow the builtins everywhere.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExpand,
}

func init() {
	expandCmd.Flags().String("format", "pretty", "output format (pretty|json|source)")
	expandCmd.Flags().String("syntax", string(project.SyntaxNative), "parser backend (native|tree-sitter)")
	expandCmd.Flags().String("crate", "", "crate name (default: manifest or directory name)")
	expandCmd.Flags().Int("jobs", 0, "max files processed in parallel (0=auto)")
	expandCmd.Flags().Bool("no-cache", false, "do not read or write the expansion cache")
	expandCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	expandCmd.Flags().Bool("metrics", false, "print expansion metrics in Prometheus text format to stderr")
}

func runExpand(cmd *cobra.Command, args []string) (err error) {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "json", "source":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}
	withMetrics, err := cmd.Flags().GetBool("metrics")
	if err != nil {
		return fmt.Errorf("failed to get metrics flag: %w", err)
	}
	timings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	target := "."
	if len(args) > 0 {
		target = args[0]
	}
	startDir, info, err := startDirFor(target)
	if err != nil {
		return err
	}
	settings, manifest, err := resolveSettings(cmd, startDir)
	if err != nil {
		return err
	}

	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer func() { cleanup(err != nil) }()

	baseDir, paths, err := expandTargets(target, info, settings, manifest)
	if err != nil {
		return err
	}
	if settings.Crate == "" && info.IsDir() {
		settings.Crate = filepath.Base(baseDir)
	}

	opts := driver.Options{
		Crate:          settings.Crate,
		Syntax:         settings.Syntax,
		Jobs:           settings.Jobs,
		MaxDiagnostics: settings.MaxDiagnostics,
		Timings:        timings,
	}
	if settings.Cache {
		cache, cacheErr := driver.OpenDiskCache(cacheApp)
		if cacheErr != nil {
			// без кэша всё равно работаем
			fmt.Fprintf(cmd.ErrOrStderr(), "mexpand: cache disabled: %v\n", cacheErr)
		} else {
			opts.Cache = cache
		}
	}
	var registry *prometheus.Registry
	if withMetrics {
		registry = prometheus.NewRegistry()
		opts.Metrics = observ.NewMetrics(registry)
	}

	res, err := runExpansion(cmd.Context(), mode, quiet(cmd), settings.Crate, baseDir, paths, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		err = writeExpandJSON(out, res)
	case "source":
		err = writeExpandSource(out, res)
	default:
		err = writeExpandPretty(out, res)
	}
	if err != nil {
		return err
	}

	if format != "json" {
		if err := writeDiagnostics(cmd, res); err != nil {
			return err
		}
	}
	if !quiet(cmd) && format == "pretty" {
		writeSummary(cmd.ErrOrStderr(), res)
	}
	if registry != nil {
		if err := writeMetrics(cmd.ErrOrStderr(), registry); err != nil {
			return err
		}
	}
	if res.HasErrors() {
		return errFailed
	}
	return nil
}

// expandTargets lists the files of one run. A directory that is the manifest
// root expands the configured source root instead.
func expandTargets(target string, info os.FileInfo, settings project.Settings, manifest *project.Manifest) (string, []string, error) {
	abs, err := filepath.Abs(target)
	if err != nil {
		return "", nil, err
	}
	if !info.IsDir() {
		return filepath.Dir(abs), []string{abs}, nil
	}
	dir := abs
	if manifest != nil && settings.Root != "" && filepath.Clean(manifest.Root) == dir {
		dir = settings.Root
	}
	paths, err := driver.ListRustFiles(dir)
	if err != nil {
		return "", nil, err
	}
	return dir, paths, nil
}

func runExpansion(ctx context.Context, mode uiMode, quiet bool, crate, baseDir string, paths []string, opts driver.Options) (*driver.Result, error) {
	if !quiet && shouldUseTUI(mode) && (mode == uiModeOn || len(paths) > 1) {
		title := "expanding " + crate
		if crate == "" {
			title = "expanding"
		}
		return runExpandWithUI(ctx, title, baseDir, paths, opts)
	}
	return driver.ExpandFiles(ctx, baseDir, paths, opts)
}

func writeDiagnostics(cmd *cobra.Command, res *driver.Result) error {
	return printDiagnostics(cmd, res.Diagnostics(), res.FileSet, 1)
}
