package tsrust

import (
	"testing"

	"github.com/stretchr/testify/require"

	"mexpand/internal/ast"
	"mexpand/internal/diag"
	"mexpand/internal/parser"
	"mexpand/internal/source"
	"mexpand/internal/testkit"
)

const sample = `macro_rules! twice { ($e:expr) => { $e * 2 } }

fn main() {
    let a = line!();
    let b = std::stringify!(x + /* c */ y);
    let c = column![];
    println!("{}", file!{});
}
`

func parseBoth(t *testing.T, src string) (native, sitter *ast.Tree, bag *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("sample.rs", []byte(src)))
	native = parser.Parse(file, parser.Options{}).Tree
	bag = diag.NewBag(16)
	sitter = Parse(file, diag.BagReporter{Bag: bag})
	return native, sitter, bag
}

func TestMatchesNativeParser(t *testing.T) {
	native, ts, bag := parseBoth(t, sample)
	require.Zero(t, bag.Len(), "well-formed input must not produce diagnostics")
	require.Equal(t, native.NumCalls(), ts.NumCalls())
	require.Equal(t, uint32(4), ts.NumCalls())

	nc, tc := native.Calls(), ts.Calls()
	for i := range nc {
		require.Equal(t, nc[i].Name(), tc[i].Name())
		require.Equal(t, nc[i].Path(), tc[i].Path())
		require.Equal(t, nc[i].Span(), tc[i].Span(), "call %s!", nc[i].Name())
		require.Equal(t, nc[i].NameSpan(), tc[i].NameSpan())

		ng, ok := nc[i].TokenTree()
		require.True(t, ok)
		tg, ok := tc[i].TokenTree()
		require.True(t, ok)
		require.Equal(t, ng.Text(), tg.Text())
		require.Equal(t, ng.Delimiter(), tg.Delimiter())
		require.True(t, tg.Closed())

		require.Len(t, tg.Tokens(), len(ng.Tokens()))
		for j, tok := range ng.Tokens() {
			require.Equal(t, tok.Text, tg.Tokens()[j].Text)
			require.Equal(t, tok.Span, tg.Tokens()[j].Span)
		}
	}

	require.Len(t, ts.Defs(), 1)
	require.Equal(t, "twice", ts.Defs()[0].Name)
	require.Equal(t, native.Defs()[0].NameSpan, ts.Defs()[0].NameSpan)
	require.True(t, ts.Defs()[0].Body.IsValid())
}

func TestNestedCallsAreArguments(t *testing.T) {
	_, ts, _ := parseBoth(t, sample)
	pr := ts.Calls()[3]
	require.Equal(t, "println", pr.Name())
	tg, _ := pr.TokenTree()
	require.Equal(t, `("{}", file!{})`, tg.Text())
}

func TestSplitPath(t *testing.T) {
	require.Equal(t, []string{"line"}, splitPath("line"))
	require.Equal(t, []string{"std", "line"}, splitPath("std :: line"))
	require.Equal(t, []string{"core", "file"}, splitPath("::core::file"))
	require.Equal(t, []string{"line"}, splitPath("r#line"))
}

func TestPoolReuse(t *testing.T) {
	pool := NewParserPool()
	fs := source.NewFileSet()
	for _, src := range []string{"fn a() { line!() }", "fn b() { column!() }"} {
		tree := pool.Parse(fs.Get(fs.AddVirtual("p.rs", []byte(src))), nil)
		require.Equal(t, uint32(1), tree.NumCalls())
	}
}

func TestSpanInvariants(t *testing.T) {
	for _, src := range []string{sample, "fn f() { line!(); core::file!() }"} {
		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("inv.rs", []byte(src)))
		tree := Parse(file, diag.BagReporter{Bag: diag.NewBag(16)})
		require.NoError(t, testkit.CheckSpanInvariants(tree, file), src)
	}
}

func TestBrokenCallsMatchNativeParser(t *testing.T) {
	tests := []struct {
		src    string
		name   string
		group  bool
		closed bool
	}{
		{"fn f() { line!; }", "line", false, false},
		{"fn f() {\n    let bad = std::file!;\n}\n", "file", false, false},
		{"stringify!(a b", "stringify", true, false},
	}
	for _, tt := range tests {
		native, ts, bag := parseBoth(t, tt.src)
		require.Equal(t, uint32(1), native.NumCalls(), tt.src)
		require.Equal(t, native.NumCalls(), ts.NumCalls(), tt.src)
		require.NotZero(t, bag.Len(), tt.src)

		nc, tc := native.Calls()[0], ts.Calls()[0]
		require.Equal(t, tt.name, tc.Name())
		require.Equal(t, nc.Span(), tc.Span(), tt.src)
		require.Equal(t, nc.NameSpan(), tc.NameSpan(), tt.src)

		tg, ok := tc.TokenTree()
		require.Equal(t, tt.group, ok, tt.src)
		if ok {
			ng, _ := nc.TokenTree()
			require.Equal(t, tt.closed, tg.Closed())
			require.Equal(t, ng.Span(), tg.Span())
		}

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("broken.rs", []byte(tt.src)))
		require.NoError(t, testkit.CheckSpanInvariants(Parse(file, nil), file), tt.src)
	}
}
