// Package db is the query database behind macro expansion: it owns the file
// set, maps files to crates, interns macro call sites and memoizes parse and
// expansion results. It is safe for concurrent use.
package db

import (
	"fmt"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"mexpand/internal/ast"
	"mexpand/internal/diag"
	"mexpand/internal/hirexpand"
	"mexpand/internal/parser"
	"mexpand/internal/source"
	"mexpand/internal/tt"
)

type crateData struct {
	name  string
	files []source.FileID
}

type parsed struct {
	tree  *ast.Tree
	diags []diag.Diagnostic
}

type expansion struct {
	out *tt.Subtree
	err error
}

// ParseFunc builds the macro-call tree of one file.
type ParseFunc func(file *source.File, rep diag.Reporter) *ast.Tree

// NativeParse is the default ParseFunc backed by internal/parser.
func NativeParse(file *source.File, rep diag.Reporter) *ast.Tree {
	return parser.Parse(file, parser.Options{Reporter: rep}).Tree
}

// Stats counts how often queries ran versus were served from memory.
type Stats struct {
	Parses     int
	Expansions int
	Hits       int
}

// RootDatabase implements hirexpand.ResolveDatabase.
type RootDatabase struct {
	files          *source.FileSet
	maxDiagnostics int
	parseFn        ParseFunc

	mu         sync.Mutex
	crates     []crateData
	fileCrate  map[source.FileID]hirexpand.CrateID
	trees      map[source.FileID]parsed
	locs       []hirexpand.MacroCallLoc
	locIndex   map[hirexpand.MacroCallLoc]hirexpand.MacroCallID
	expansions map[hirexpand.MacroCallID]expansion
	stats      Stats

	flight singleflight.Group
}

var _ hirexpand.ResolveDatabase = (*RootDatabase)(nil)

// New creates a database over fs. maxDiagnostics bounds the per-file parse
// diagnostics; zero means 100.
func New(fs *source.FileSet, maxDiagnostics int) *RootDatabase {
	if maxDiagnostics <= 0 {
		maxDiagnostics = 100
	}
	return &RootDatabase{
		files:          fs,
		maxDiagnostics: maxDiagnostics,
		parseFn:        NativeParse,
		fileCrate:      make(map[source.FileID]hirexpand.CrateID),
		trees:          make(map[source.FileID]parsed),
		locIndex:       make(map[hirexpand.MacroCallLoc]hirexpand.MacroCallID),
		expansions:     make(map[hirexpand.MacroCallID]expansion),
	}
}

func (db *RootDatabase) FileSet() *source.FileSet { return db.files }

// SetParser replaces the syntax backend. Call it before the first ParseFile.
func (db *RootDatabase) SetParser(fn ParseFunc) {
	if fn != nil {
		db.parseFn = fn
	}
}

// AddCrate registers a crate by name; registering the same name twice returns the same id.
func (db *RootDatabase) AddCrate(name string) hirexpand.CrateID {
	db.mu.Lock()
	defer db.mu.Unlock()
	for i, c := range db.crates {
		if c.name == name {
			return hirexpand.CrateID(i + 1)
		}
	}
	db.crates = append(db.crates, crateData{name: name})
	return hirexpand.CrateID(len(db.crates))
}

func (db *RootDatabase) CrateByName(name string) (hirexpand.CrateID, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for i, c := range db.crates {
		if c.name == name {
			return hirexpand.CrateID(i + 1), true
		}
	}
	return 0, false
}

func (db *RootDatabase) CrateName(krate hirexpand.CrateID) string {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.crate(krate).name
}

// AddFile attaches file to krate.
func (db *RootDatabase) AddFile(krate hirexpand.CrateID, file source.FileID) {
	db.mu.Lock()
	defer db.mu.Unlock()
	c := db.crate(krate)
	if _, ok := db.fileCrate[file]; ok {
		return
	}
	c.files = append(c.files, file)
	db.fileCrate[file] = krate
}

// CrateOf returns the crate of file, or 0 when the file belongs to none.
func (db *RootDatabase) CrateOf(file source.FileID) hirexpand.CrateID {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.fileCrate[file]
}

func (db *RootDatabase) CrateFiles(krate hirexpand.CrateID) []source.FileID {
	if krate == 0 {
		return nil
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	return append([]source.FileID(nil), db.crate(krate).files...)
}

// crate требует удержания db.mu
func (db *RootDatabase) crate(krate hirexpand.CrateID) *crateData {
	if krate == 0 || int(krate) > len(db.crates) {
		panic(fmt.Sprintf("db: unknown crate %d", krate))
	}
	return &db.crates[krate-1]
}

func (db *RootDatabase) FileText(id source.FileID) string {
	return db.files.Get(id).Text()
}

// ParseFile parses id at most once.
func (db *RootDatabase) ParseFile(id source.FileID) *ast.Tree {
	return db.parse(id).tree
}

// ParseDiagnostics returns the lexer and parser diagnostics of id.
func (db *RootDatabase) ParseDiagnostics(id source.FileID) []diag.Diagnostic {
	return db.parse(id).diags
}

func (db *RootDatabase) parse(id source.FileID) parsed {
	db.mu.Lock()
	if p, ok := db.trees[id]; ok {
		db.stats.Hits++
		db.mu.Unlock()
		return p
	}
	db.mu.Unlock()

	v, _, _ := db.flight.Do("parse:"+strconv.FormatUint(uint64(id), 10), func() (any, error) {
		db.mu.Lock()
		if p, ok := db.trees[id]; ok {
			db.mu.Unlock()
			return p, nil
		}
		db.mu.Unlock()

		bag := diag.NewBag(db.maxDiagnostics)
		tree := db.parseFn(db.files.Get(id), diag.BagReporter{Bag: bag})
		p := parsed{tree: tree, diags: bag.Items()}

		db.mu.Lock()
		db.trees[id] = p
		db.stats.Parses++
		db.mu.Unlock()
		return p, nil
	})
	return v.(parsed)
}

func (db *RootDatabase) InternMacro(loc hirexpand.MacroCallLoc) hirexpand.MacroCallID {
	db.mu.Lock()
	defer db.mu.Unlock()
	if id, ok := db.locIndex[loc]; ok {
		return id
	}
	db.locs = append(db.locs, loc)
	id := hirexpand.MacroCallID(len(db.locs))
	db.locIndex[loc] = id
	return id
}

func (db *RootDatabase) LookupInternMacro(id hirexpand.MacroCallID) hirexpand.MacroCallLoc {
	db.mu.Lock()
	defer db.mu.Unlock()
	if !id.IsValid() || int(id) > len(db.locs) {
		panic(fmt.Sprintf("db: unknown macro call %d", id))
	}
	return db.locs[id-1]
}

// MacroCallNode resolves an AstID to its syntax node. Macro files have no
// syntax of their own and panic.
func (db *RootDatabase) MacroCallNode(id hirexpand.AstID) ast.MacroCallNode {
	return db.ParseFile(id.File.FileID()).Call(id.Call)
}

// MacroExpand expands id at most once and returns the memoized result.
func (db *RootDatabase) MacroExpand(id hirexpand.MacroCallID) (*tt.Subtree, error) {
	db.mu.Lock()
	if e, ok := db.expansions[id]; ok {
		db.stats.Hits++
		db.mu.Unlock()
		return e.out, e.err
	}
	db.mu.Unlock()

	v, _, _ := db.flight.Do("expand:"+strconv.FormatUint(uint64(id), 10), func() (any, error) {
		db.mu.Lock()
		if e, ok := db.expansions[id]; ok {
			db.mu.Unlock()
			return e, nil
		}
		db.mu.Unlock()

		out, err := hirexpand.MacroExpand(db, id)
		e := expansion{out: out, err: err}

		db.mu.Lock()
		db.expansions[id] = e
		db.stats.Expansions++
		db.mu.Unlock()
		return e, nil
	})
	e := v.(expansion)
	return e.out, e.err
}

func (db *RootDatabase) Stats() Stats {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.stats
}
