package parser

import (
	"testing"

	"mexpand/internal/diag"
	"mexpand/internal/source"
	"mexpand/internal/testkit"
)

func TestSpanInvariants(t *testing.T) {
	cases := []string{
		"fn main() {\n    let x = line!();\n    std::stringify!(a + b);\n}\n",
		"macro_rules! m { () => {} }\nm!() r#line!()",
		"stringify!(a b\n  c",
		"file!",
		"m!(a ] b) n!{ ( }",
		"if !done { column![] }",
	}
	for _, src := range cases {
		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("inv.rs", []byte(src)))
		res := Parse(file, Options{Reporter: diag.BagReporter{Bag: diag.NewBag(16)}})
		if err := testkit.CheckSpanInvariants(res.Tree, file); err != nil {
			t.Fatalf("%q: %v", src, err)
		}
	}
}
