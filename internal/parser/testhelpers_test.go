package parser

import (
	"fmt"
	"strings"
	"testing"

	"mexpand/internal/ast"
	"mexpand/internal/diag"
	"mexpand/internal/source"
)

func parseSource(t *testing.T, src string) (*ast.Tree, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.rs", []byte(src))
	bag := diag.NewBag(32)
	res := Parse(fs.Get(id), Options{Reporter: &diag.BagReporter{Bag: bag}})
	if res.Bag != bag {
		t.Fatalf("result must expose the reporter bag")
	}
	return res.Tree, bag
}

func parseWith(t *testing.T, src string, opts Options) Result {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.rs", []byte(src))
	return Parse(fs.Get(id), opts)
}

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil {
		return "<nil bag>"
	}
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

func requireCodes(t *testing.T, bag *diag.Bag, want ...diag.Code) {
	t.Helper()
	items := bag.Items()
	if len(items) != len(want) {
		t.Fatalf("diagnostics: %s, want %d", diagnosticsSummary(bag), len(want))
	}
	for i, code := range want {
		if items[i].Code != code {
			t.Fatalf("diagnostic %d: %s, want %s (all: %s)", i, items[i].Code.ID(), code.ID(), diagnosticsSummary(bag))
		}
	}
}
