package testkit

import (
	"strings"
	"testing"

	"mexpand/internal/ast"
	"mexpand/internal/source"
	"mexpand/internal/token"
)

func buildTree(file *source.File, calls ...ast.Call) *ast.Tree {
	b := ast.NewBuilder(ast.Hints{})
	for _, c := range calls {
		b.NewCall(c)
	}
	return b.Finish(file)
}

func TestCheckSpanInvariants(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("k.rs", []byte("line!() x!")))
	sp := func(start, end uint32) source.Span { return source.Span{File: file.ID, Start: start, End: end} }

	good := buildTree(file,
		ast.Call{Span: sp(0, 5), Path: []string{"line"}, NameSpan: sp(0, 4), Bang: sp(4, 5)},
		ast.Call{Span: sp(8, 10), Path: []string{"x"}, NameSpan: sp(8, 9), Bang: sp(9, 10)},
	)
	if err := CheckSpanInvariants(good, file); err != nil {
		t.Fatalf("valid tree rejected: %v", err)
	}

	cases := []struct {
		name string
		call ast.Call
		want string
	}{
		{"empty", ast.Call{Span: sp(3, 3), Path: []string{"line"}, NameSpan: sp(3, 3)}, "empty span"},
		{"past end", ast.Call{Span: sp(0, 40), Path: []string{"line"}, NameSpan: sp(0, 4)}, "beyond content"},
		{"name outside", ast.Call{Span: sp(0, 3), Path: []string{"line"}, NameSpan: sp(0, 4)}, "outside call"},
		{"wrong name", ast.Call{Span: sp(0, 5), Path: []string{"file"}, NameSpan: sp(0, 4)}, "name span covers"},
	}
	for _, tc := range cases {
		err := CheckSpanInvariants(buildTree(file, tc.call), file)
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: got %v, want %q", tc.name, err, tc.want)
		}
	}

	overlap := buildTree(file,
		ast.Call{Span: sp(0, 7), Path: []string{"line"}, NameSpan: sp(0, 4)},
		ast.Call{Span: sp(5, 10), Path: []string{"x"}, NameSpan: sp(8, 9)},
	)
	if err := CheckSpanInvariants(overlap, file); err == nil || !strings.Contains(err.Error(), "overlaps") {
		t.Fatalf("overlap: got %v", err)
	}
}

func TestCheckSpanInvariantsGroup(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("g.rs", []byte("m!(a) ")))
	sp := func(start, end uint32) source.Span { return source.Span{File: file.ID, Start: start, End: end} }

	b := ast.NewBuilder(ast.Hints{})
	g := b.NewGroup(ast.Group{Open: token.LParen, Span: sp(2, 5), Closed: true,
		Tokens: []token.Token{{Kind: token.Ident, Text: "a", Span: sp(3, 4)}}})
	b.NewCall(ast.Call{Span: sp(0, 5), Path: []string{"m"}, NameSpan: sp(0, 1), Bang: sp(1, 2), Group: g})
	if err := CheckSpanInvariants(b.Finish(file), file); err != nil {
		t.Fatalf("valid group rejected: %v", err)
	}

	b = ast.NewBuilder(ast.Hints{})
	g = b.NewGroup(ast.Group{Open: token.LParen, Span: sp(2, 5)})
	b.NewCall(ast.Call{Span: sp(0, 5), Path: []string{"m"}, NameSpan: sp(0, 1), Group: g})
	if err := CheckSpanInvariants(b.Finish(file), file); err == nil {
		t.Fatalf("unclosed group stopping before end of file must be rejected")
	}
}
