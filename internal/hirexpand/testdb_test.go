package hirexpand

import (
	"fmt"
	"testing"

	"mexpand/internal/ast"
	"mexpand/internal/name"
	"mexpand/internal/parser"
	"mexpand/internal/source"
	"mexpand/internal/tt"
)

// testDB - минимальная in-memory реализация ResolveDatabase для тестов.
type testDB struct {
	fs    *source.FileSet
	files []source.FileID
	trees map[source.FileID]*ast.Tree
	locs  []MacroCallLoc
}

func newTestDB(t *testing.T, sources ...string) *testDB {
	t.Helper()
	db := &testDB{fs: source.NewFileSet(), trees: make(map[source.FileID]*ast.Tree)}
	for i, src := range sources {
		db.files = append(db.files, db.fs.AddVirtual(fmt.Sprintf("f%d.rs", i), []byte(src)))
	}
	return db
}

func (db *testDB) FileText(id source.FileID) string { return db.fs.Get(id).Text() }

func (db *testDB) ParseFile(id source.FileID) *ast.Tree {
	if tree, ok := db.trees[id]; ok {
		return tree
	}
	tree := parser.Parse(db.fs.Get(id), parser.Options{}).Tree
	db.trees[id] = tree
	return tree
}

func (db *testDB) LookupInternMacro(id MacroCallID) MacroCallLoc {
	if !id.IsValid() || int(id) > len(db.locs) {
		panic(fmt.Sprintf("unknown macro call %d", id))
	}
	return db.locs[id-1]
}

func (db *testDB) InternMacro(loc MacroCallLoc) MacroCallID {
	for i, l := range db.locs {
		if l == loc {
			return MacroCallID(i + 1)
		}
	}
	db.locs = append(db.locs, loc)
	return MacroCallID(len(db.locs))
}

func (db *testDB) MacroCallNode(id AstID) ast.MacroCallNode {
	return db.ParseFile(id.File.FileID()).Call(id.Call)
}

func (db *testDB) CrateOf(source.FileID) CrateID { return 1 }

func (db *testDB) CrateFiles(CrateID) []source.FileID { return db.files }

func callAst(db *testDB, file int, call int) AstID {
	return AstID{File: FileHir(db.files[file]), Call: ast.CallID(call)}
}

// expandCall резолвит n-й вызов (1-based) в первом файле как builtin и раскрывает его.
func expandCall(t *testing.T, db *testDB, call int) (*tt.Subtree, error) {
	t.Helper()
	astID := callAst(db, 0, call)
	node := db.MacroCallNode(astID)
	def, ok := FindBuiltinMacro(name.New(node.Name()), 1, astID)
	if !ok {
		t.Fatalf("%s! is not a builtin", node.Name())
	}
	id := db.InternMacro(MacroCallLoc{Def: def, AST: astID})
	return def.Builtin.Expand(db, id, CallArgument(db, id))
}

func expandLiteral(t *testing.T, src string) string {
	t.Helper()
	out, err := expandCall(t, newTestDB(t, src), 1)
	if err != nil {
		t.Fatalf("%q: unexpected error %v", src, err)
	}
	lit, ok := out.SingleLiteral()
	if !ok || out.Delimiter != tt.DelimNone {
		t.Fatalf("%q: expected a single undelimited literal, got %s", src, out)
	}
	return lit.Text
}
