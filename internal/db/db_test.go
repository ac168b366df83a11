package db

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"mexpand/internal/ast"
	"mexpand/internal/diag"
	"mexpand/internal/hirexpand"
	"mexpand/internal/source"
)

func newDB(t *testing.T, files map[string]string) (*RootDatabase, map[string]source.FileID) {
	t.Helper()
	fs := source.NewFileSet()
	db := New(fs, 0)
	krate := db.AddCrate("demo")
	ids := make(map[string]source.FileID, len(files))
	for path, src := range files {
		id := fs.AddVirtual(path, []byte(src))
		db.AddFile(krate, id)
		ids[path] = id
	}
	return db, ids
}

func TestCrates(t *testing.T) {
	db, ids := newDB(t, map[string]string{"lib.rs": "", "main.rs": ""})

	krate, ok := db.CrateByName("demo")
	require.True(t, ok)
	require.Equal(t, krate, db.AddCrate("demo"), "crate names are unique")
	require.Equal(t, "demo", db.CrateName(krate))
	require.Equal(t, krate, db.CrateOf(ids["lib.rs"]))
	require.ElementsMatch(t, []source.FileID{ids["lib.rs"], ids["main.rs"]}, db.CrateFiles(krate))

	db.AddFile(krate, ids["lib.rs"])
	require.Len(t, db.CrateFiles(krate), 2, "adding a file twice is a no-op")

	other := db.AddCrate("other")
	require.NotEqual(t, krate, other)
	require.Empty(t, db.CrateFiles(other))
	require.Nil(t, db.CrateFiles(0))
	require.Equal(t, hirexpand.CrateID(0), db.CrateOf(source.FileID(99)))

	_, ok = db.CrateByName("missing")
	require.False(t, ok)
}

func TestParseIsMemoized(t *testing.T) {
	db, ids := newDB(t, map[string]string{"lib.rs": "line!() column!("})
	id := ids["lib.rs"]

	first := db.ParseFile(id)
	second := db.ParseFile(id)
	require.Same(t, first, second)
	require.Equal(t, uint32(2), first.NumCalls())

	diags := db.ParseDiagnostics(id)
	require.Len(t, diags, 1)
	require.Equal(t, diag.SynUnclosedDelimiter, diags[0].Code)

	stats := db.Stats()
	require.Equal(t, 1, stats.Parses)
	require.GreaterOrEqual(t, stats.Hits, 2)
}

func TestInternMacro(t *testing.T) {
	db, ids := newDB(t, map[string]string{"lib.rs": "line!() line!()"})
	file := hirexpand.FileHir(ids["lib.rs"])

	loc1 := hirexpand.MacroCallLoc{AST: hirexpand.AstID{File: file, Call: ast.CallID(1)}}
	loc2 := hirexpand.MacroCallLoc{AST: hirexpand.AstID{File: file, Call: ast.CallID(2)}}

	id1 := db.InternMacro(loc1)
	id2 := db.InternMacro(loc2)
	require.NotEqual(t, id1, id2)
	require.Equal(t, id1, db.InternMacro(loc1))
	require.Equal(t, loc2, db.LookupInternMacro(id2))

	require.Panics(t, func() { db.LookupInternMacro(hirexpand.MacroCallID(42)) })
	require.Panics(t, func() { db.LookupInternMacro(0) })
}

func TestMacroExpandEndToEnd(t *testing.T) {
	src := "fn main() {\n    let l = line!();\n    let s = stringify!(a + b);\n    let f = file!();\n    column!;\n}\n"
	db, ids := newDB(t, map[string]string{"main.rs": src})
	file := hirexpand.FileHir(ids["main.rs"])

	want := []struct {
		out string
		err error
	}{
		{"2", nil},
		{`"a + b"`, nil},
		{`""`, nil},
		{"", hirexpand.ErrUnexpectedToken},
	}
	tree := db.ParseFile(ids["main.rs"])
	require.Equal(t, uint32(len(want)), tree.NumCalls())

	for i, w := range want {
		res := hirexpand.ResolveMacroCall(db, hirexpand.AstID{File: file, Call: ast.CallID(i + 1)}, nil)
		require.Equal(t, hirexpand.ResolvedBuiltin, res.Status)

		out, err := db.MacroExpand(res.Call)
		if w.err != nil {
			require.ErrorIs(t, err, w.err)
			require.Nil(t, out)
			continue
		}
		require.NoError(t, err)
		lit, ok := out.SingleLiteral()
		require.True(t, ok)
		require.Equal(t, w.out, lit.Text)
	}
}

func TestMacroExpandRunsOnce(t *testing.T) {
	db, ids := newDB(t, map[string]string{"lib.rs": "stringify!(x)"})
	res := hirexpand.ResolveMacroCall(db, hirexpand.AstID{File: hirexpand.FileHir(ids["lib.rs"]), Call: 1}, nil)
	require.Equal(t, hirexpand.ResolvedBuiltin, res.Status)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := db.MacroExpand(res.Call)
			if err != nil || out.String() != `"x"` {
				t.Errorf("unexpected expansion %v %v", out, err)
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 1, db.Stats().Expansions)
}

func TestMacroExpandDeclarative(t *testing.T) {
	db, ids := newDB(t, map[string]string{
		"lib.rs":  "macro_rules! line { () => { 0 } }",
		"main.rs": "line!()",
	})
	res := hirexpand.ResolveMacroCall(db, hirexpand.AstID{File: hirexpand.FileHir(ids["main.rs"]), Call: 1}, nil)
	require.Equal(t, hirexpand.ResolvedDeclarative, res.Status)

	_, err := db.MacroExpand(res.Call)
	require.True(t, errors.Is(err, hirexpand.ErrDeclarative))
}

func TestSetParser(t *testing.T) {
	db, ids := newDB(t, map[string]string{"lib.rs": "line!()"})
	calls := 0
	db.SetParser(func(file *source.File, rep diag.Reporter) *ast.Tree {
		calls++
		return NativeParse(file, rep)
	})
	db.SetParser(nil)
	require.Equal(t, uint32(1), db.ParseFile(ids["lib.rs"]).NumCalls())
	db.ParseFile(ids["lib.rs"])
	require.Equal(t, 1, calls)
}
