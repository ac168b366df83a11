package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"mexpand/internal/ast"
	"mexpand/internal/db"
	"mexpand/internal/diag"
	"mexpand/internal/hirexpand"
	"mexpand/internal/name"
	"mexpand/internal/observ"
	"mexpand/internal/project"
	"mexpand/internal/source"
	"mexpand/internal/trace"
	"mexpand/internal/tsrust"
)

// Options configures an expansion run.
type Options struct {
	Crate          string // default: base name of the directory
	Syntax         project.Syntax
	Jobs           int // 0 = GOMAXPROCS
	MaxDiagnostics int // per file, 0 = project.DefaultMaxDiagnostics
	Cache          *DiskCache
	Metrics        *observ.Metrics
	Progress       ProgressSink
	Timings        bool
}

// Expand expands a single file as a one-file crate.
func Expand(ctx context.Context, path string, opts Options) (*Result, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return ExpandFiles(ctx, filepath.Dir(abs), []string{abs}, opts)
}

// ExpandDir expands every *.rs file under dir as one crate.
func ExpandDir(ctx context.Context, dir string, opts Options) (*Result, error) {
	files, err := ListRustFiles(dir)
	if err != nil {
		return nil, err
	}
	if opts.Crate == "" {
		if abs, err := filepath.Abs(dir); err == nil {
			opts.Crate = filepath.Base(abs)
		}
	}
	return ExpandFiles(ctx, dir, files, opts)
}

// ListRustFiles возвращает отсортированный список *.rs файлов, пропуская
// скрытые каталоги и target/.
func ListRustFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			base := d.Name()
			if path != dir && (strings.HasPrefix(base, ".") || base == "target") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, ".rs") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// ExpandFiles loads paths into one crate and expands every macro call in them.
// Files are parsed in parallel first so that macro_rules! definitions from any
// file are visible, then expanded in parallel. Cancellation is checked between
// files.
func ExpandFiles(ctx context.Context, baseDir string, paths []string, opts Options) (*Result, error) {
	if opts.MaxDiagnostics <= 0 {
		opts.MaxDiagnostics = project.DefaultMaxDiagnostics
	}
	if abs, err := filepath.Abs(baseDir); err == nil {
		baseDir = abs
	}
	if opts.Syntax == "" {
		opts.Syntax = project.SyntaxNative
	}
	if opts.Crate == "" {
		opts.Crate = "main"
	}

	ctx, span := trace.StartSpan(ctx, trace.ScopeDriver, "expand")
	defer span.End("")
	span.WithExtra("crate", opts.Crate).WithExtra("files", fmt.Sprint(len(paths)))

	fileSet := source.NewFileSetWithBase(baseDir)
	database := db.New(fileSet, opts.MaxDiagnostics)
	switch opts.Syntax {
	case project.SyntaxNative:
	case project.SyntaxTreeSitter:
		database.SetParser(tsrust.Parse)
	default:
		return nil, fmt.Errorf("unknown syntax backend %q", opts.Syntax)
	}
	krate := database.AddCrate(opts.Crate)

	res := &Result{
		FileSet: fileSet,
		DB:      database,
		Crate:   opts.Crate,
		Files:   make([]FileResult, len(paths)),
	}
	for i, path := range paths {
		res.Files[i].Path = DisplayPath(baseDir, path)
		emit(opts.Progress, Event{File: res.Files[i].Path, Stage: StageLoad, Status: StatusQueued})
	}

	loadPass(ctx, res, paths, krate, opts)
	if err := runPass(ctx, res, "parse", opts.Jobs, func(ctx context.Context, fr *FileResult) {
		parseFile(ctx, database, fr, opts)
	}); err != nil {
		countCancelled(res, opts)
		return res, err
	}
	defs := crateDefsDigest(database, krate)
	if err := runPass(ctx, res, "expand", opts.Jobs, func(ctx context.Context, fr *FileResult) {
		expandFile(ctx, database, fr, opts, defs)
	}); err != nil {
		countCancelled(res, opts)
		return res, err
	}
	return res, nil
}

// countCancelled records the loaded files a cancelled run never finished.
func countCancelled(res *Result, opts Options) {
	for i := range res.Files {
		if fr := &res.Files[i]; fr.Err == nil && !fr.finished {
			opts.Metrics.ObserveFile(observ.FileStatusCancelled, 0)
		}
	}
}

// DisplayPath is how results name path: relative to baseDir with forward
// slashes, or path itself outside baseDir.
func DisplayPath(baseDir, path string) string {
	abs, err := filepath.Abs(path)
	base, baseErr := filepath.Abs(baseDir)
	if err == nil && baseErr == nil {
		if rel, err := filepath.Rel(base, abs); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(path)
}

func loadPass(ctx context.Context, res *Result, paths []string, krate hirexpand.CrateID, opts Options) {
	_, span := trace.StartSpan(ctx, trace.ScopePass, "load")
	defer span.End("")

	for i, path := range paths {
		fr := &res.Files[i]
		fr.timer = observ.NewTimer()
		done := fr.timer.Track("load")
		id, err := res.FileSet.Load(path)
		done("")
		if err != nil {
			fr.Err = fmt.Errorf("load %s: %w", fr.Path, err)
			opts.Metrics.ObserveFile(observ.FileStatusFailed, 0)
			emit(opts.Progress, Event{File: fr.Path, Stage: StageLoad, Status: StatusError, Err: fr.Err})
			continue
		}
		fr.FileID = id
		fr.Bag = diag.NewBag(opts.MaxDiagnostics)
		res.DB.AddFile(krate, id)
	}
}

// runPass fans fn out over the loaded files with at most jobs goroutines.
func runPass(ctx context.Context, res *Result, name string, jobs int, fn func(context.Context, *FileResult)) error {
	ctx, span := trace.StartSpan(ctx, trace.ScopePass, name)
	defer span.End("")

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(res.Files))))

	for i := range res.Files {
		fr := &res.Files[i]
		if fr.Err != nil {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(gctx, fr)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	// errgroup отменяет gctx только при ошибке воркера
	return ctx.Err()
}

func parseFile(ctx context.Context, database *db.RootDatabase, fr *FileResult, opts Options) {
	_, span := trace.StartSpan(ctx, trace.ScopeFile, "parse:"+fr.Path)
	emit(opts.Progress, Event{File: fr.Path, Stage: StageParse, Status: StatusWorking})
	done := fr.timer.Track("parse")
	tree := database.ParseFile(fr.FileID)
	done(fmt.Sprintf("%d calls", tree.NumCalls()))
	span.End("")
}

// crateDefsDigest hashes the sorted macro_rules! names of the crate and the
// content of every file defining one. It is part of every cache key: a new
// definition anywhere can change how a file resolves, and an edit to a
// defining file moves the spans of its "defined here" notes.
func crateDefsDigest(database *db.RootDatabase, krate hirexpand.CrateID) project.Digest {
	var names []string
	var definers []*source.File
	for _, id := range database.CrateFiles(krate) {
		defs := database.ParseFile(id).Defs()
		if len(defs) == 0 {
			continue
		}
		for _, def := range defs {
			names = append(names, def.Name)
		}
		definers = append(definers, database.FileSet().Get(id))
	}
	sort.Strings(names)
	sort.Slice(definers, func(i, j int) bool { return definers[i].Path < definers[j].Path })

	parts := make([][]byte, 0, len(names)+2*len(definers))
	for _, n := range names {
		parts = append(parts, []byte(n))
	}
	for _, f := range definers {
		parts = append(parts, []byte(f.Path), f.Hash[:])
	}
	return project.Combine(parts...)
}

func expandFile(ctx context.Context, database *db.RootDatabase, fr *FileResult, opts Options, defs project.Digest) {
	started := time.Now()
	ctx, span := trace.StartSpan(ctx, trace.ScopeFile, "file:"+fr.Path)
	defer span.End("")

	file := database.FileSet().Get(fr.FileID)
	if opts.Cache != nil {
		fr.key = cacheKey(opts, fr.Path, file.Content, defs)
		var cached CachedFile
		ok, err := opts.Cache.Get(fr.key, &cached)
		switch {
		case err != nil:
			trace.Point(ctx, trace.ScopeFile, "cache", "unreadable entry: "+err.Error())
		case ok:
			restoreCached(database.FileSet(), fr, &cached)
			fr.Cached = true
			span.WithExtra("cached", "true")
			for _, e := range fr.Expansions {
				opts.Metrics.ObserveExpansion(metricName(e), observ.OutcomeCached)
			}
			opts.Metrics.ObserveFile(observ.FileStatusCached, time.Since(started))
			emit(opts.Progress, Event{File: fr.Path, Stage: StageExpand, Status: StatusCached, Elapsed: time.Since(started)})
			fr.finished = true
			return
		}
	}

	emit(opts.Progress, Event{File: fr.Path, Stage: StageResolve, Status: StatusWorking})
	for _, d := range database.ParseDiagnostics(fr.FileID) {
		fr.Bag.Add(d)
	}
	rep := diag.BagReporter{Bag: fr.Bag}
	tree := database.ParseFile(fr.FileID)

	done := fr.timer.Track("expand")
	for _, call := range tree.Calls() {
		exp := expandCall(database, fr.FileID, call, rep)
		fr.Expansions = append(fr.Expansions, exp)
		outcome := outcomeOf(exp)
		opts.Metrics.ObserveExpansion(metricName(exp), outcome)
		trace.Point(ctx, trace.ScopeNode, exp.Name+"!", outcome)
	}
	done(fmt.Sprintf("%d expansions", len(fr.Expansions)))

	if opts.Cache != nil {
		if err := opts.Cache.Put(fr.key, toCached(database.FileSet(), fr)); err != nil {
			trace.Point(ctx, trace.ScopeFile, "cache", "write failed: "+err.Error())
		}
	}

	report := fr.timer.Report()
	fr.Timing = &report
	if opts.Timings {
		appendTimingDiagnostic(fr.Bag, fr.FileID, timingPayload{Path: fr.Path, TotalMS: report.TotalMS, Phases: report.Phases})
	}

	status, fileStatus := StatusDone, observ.FileStatusOK
	if fr.Bag.HasErrors() {
		status, fileStatus = StatusError, observ.FileStatusFailed
	}
	opts.Metrics.ObserveFile(fileStatus, time.Since(started))
	emit(opts.Progress, Event{File: fr.Path, Stage: StageExpand, Status: status, Elapsed: time.Since(started)})
	fr.finished = true
}

func expandCall(database *db.RootDatabase, file source.FileID, call ast.MacroCallNode, rep diag.Reporter) Expansion {
	text := database.FileText(file)
	sp := call.Span()
	exp := Expansion{
		Name:  call.Name(),
		Path:  strings.Join(call.Path(), "::"),
		Span:  sp,
		Start: source.Locate(text, sp.Start),
		End:   source.Locate(text, sp.End),
	}

	astID := hirexpand.AstID{File: hirexpand.FileHir(file), Call: call.ID()}
	res := hirexpand.ResolveMacroCall(database, astID, rep)
	switch res.Status {
	case hirexpand.ResolvedDeclarative:
		exp.Kind = KindDeclarative
	case hirexpand.ResolvedBuiltin:
		exp.Kind = KindBuiltin
		out, err := database.MacroExpand(res.Call)
		if err != nil {
			exp.Err = err
			at, reason := sp, err
			var expErr *hirexpand.ExpandError
			if errors.As(err, &expErr) {
				at, reason = expErr.Span, expErr.Err
			}
			diag.ReportError(rep, diag.ExpUnexpectedToken, at,
				fmt.Sprintf("cannot expand %s!: %v; expected '(', '[' or '{' after the macro name", exp.Name, reason)).Emit()
			break
		}
		exp.Output = out.String()
	default:
		exp.Kind = KindUnresolved
	}
	return exp
}

func outcomeOf(e Expansion) string {
	switch {
	case e.OK():
		return observ.OutcomeOK
	case e.Kind == KindBuiltin:
		return observ.OutcomeError
	case e.Kind == KindDeclarative:
		return observ.OutcomeDeclarative
	default:
		return observ.OutcomeUnresolved
	}
}

// metricName keeps label cardinality bounded: user macro names collapse to "other".
func metricName(e Expansion) string {
	if e.Kind == KindBuiltin {
		return e.Name
	}
	return "other"
}

// cachedError rebuilds the expansion error of a cached entry.
func cachedError(macro string, sp source.Span) error {
	return &hirexpand.ExpandError{Macro: name.New(macro), Span: sp, Err: hirexpand.ErrUnexpectedToken}
}

// ClearCache removes every cached entry under the default cache directory.
func ClearCache(app string) (string, error) {
	dir, err := DefaultCacheDir(app)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		return dir, nil
	}
	c := &DiskCache{dir: dir}
	return dir, c.DropAll()
}
