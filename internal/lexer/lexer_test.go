package lexer_test

import (
	"fmt"
	"testing"

	"mexpand/internal/diag"
	"mexpand/internal/lexer"
	"mexpand/internal/source"
	"mexpand/internal/token"
)

// testReporter собирает все диагностики, полученные от лексера
type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	r.diagnostics = append(r.diagnostics, diag.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  primary,
		Notes:    notes,
	})
}

func (r *testReporter) codes() []diag.Code {
	out := make([]diag.Code, 0, len(r.diagnostics))
	for _, d := range r.diagnostics {
		out = append(out, d.Code)
	}
	return out
}

func makeTestLexer(input string) (*lexer.Lexer, *testReporter) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.rs", []byte(input))
	reporter := &testReporter{}
	return lexer.New(fs.Get(fileID), lexer.Options{Reporter: reporter}), reporter
}

type tk struct {
	kind token.Kind
	text string
}

func lexAll(t *testing.T, input string) ([]tk, *testReporter) {
	t.Helper()
	lx, rep := makeTestLexer(input)
	toks := lx.All()
	out := make([]tk, 0, len(toks))
	for _, tok := range toks[:len(toks)-1] {
		out = append(out, tk{tok.Kind, tok.Text})
	}
	if last := toks[len(toks)-1]; last.Kind != token.EOF {
		t.Fatalf("last token %v, want EOF", last.Kind)
	}
	return out, rep
}

func expectTokens(t *testing.T, input string, want ...tk) {
	t.Helper()
	got, rep := lexAll(t, input)
	if len(rep.diagnostics) != 0 {
		t.Fatalf("%q: unexpected diagnostics %v", input, rep.codes())
	}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("%q:\n got  %v\n want %v", input, got, want)
	}
}

func TestMacroCallTokens(t *testing.T) {
	expectTokens(t, `line!()`,
		tk{token.Ident, "line"}, tk{token.Bang, "!"}, tk{token.LParen, "("}, tk{token.RParen, ")"})
	expectTokens(t, `std::stringify![a != b]`,
		tk{token.Ident, "std"}, tk{token.ColonColon, "::"}, tk{token.Ident, "stringify"},
		tk{token.Bang, "!"}, tk{token.LBracket, "["}, tk{token.Ident, "a"},
		tk{token.BangEq, "!="}, tk{token.Ident, "b"}, tk{token.RBracket, "]"})
	expectTokens(t, `macro_rules! m { ($x:expr) => { $x }; }`,
		tk{token.Ident, "macro_rules"}, tk{token.Bang, "!"}, tk{token.Ident, "m"},
		tk{token.LBrace, "{"}, tk{token.LParen, "("}, tk{token.Dollar, "$"}, tk{token.Ident, "x"},
		tk{token.Colon, ":"}, tk{token.Ident, "expr"}, tk{token.RParen, ")"},
		tk{token.FatArrow, "=>"}, tk{token.LBrace, "{"}, tk{token.Dollar, "$"}, tk{token.Ident, "x"},
		tk{token.RBrace, "}"}, tk{token.Semicolon, ";"}, tk{token.RBrace, "}"})
}

func TestOperatorsGreedy(t *testing.T) {
	expectTokens(t, `..= ... .. <<= >>= -> += #[~]?@`,
		tk{token.DotDotEq, "..="}, tk{token.DotDotDot, "..."}, tk{token.DotDot, ".."},
		tk{token.ShlEq, "<<="}, tk{token.ShrEq, ">>="}, tk{token.Arrow, "->"},
		tk{token.PlusEq, "+="}, tk{token.Pound, "#"}, tk{token.LBracket, "["},
		tk{token.Tilde, "~"}, tk{token.RBracket, "]"}, tk{token.Question, "?"}, tk{token.At, "@"})
}

func TestIdentifiers(t *testing.T) {
	expectTokens(t, `_ _x __y r#match rb br é_ident`,
		tk{token.Underscore, "_"}, tk{token.Ident, "_x"}, tk{token.Ident, "__y"},
		tk{token.Ident, "r#match"}, tk{token.Ident, "rb"}, tk{token.Ident, "br"},
		tk{token.Ident, "é_ident"})
	expectTokens(t, `r`, tk{token.Ident, "r"})
}

func TestStringLiterals(t *testing.T) {
	expectTokens(t, `"a\"b" b"bytes" "multi
line"`,
		tk{token.StringLit, `"a\"b"`}, tk{token.StringLit, `b"bytes"`},
		tk{token.StringLit, "\"multi\nline\""})
	expectTokens(t, `r"raw\" r#"a "q" b"# br##"x"#"##`,
		tk{token.RawStringLit, `r"raw\"`}, tk{token.RawStringLit, `r#"a "q" b"#`},
		tk{token.RawStringLit, `br##"x"#"##`})
}

func TestLifetimesAndChars(t *testing.T) {
	expectTokens(t, `'a 'static 'a' '\n' '\'' 'é' b'x'`,
		tk{token.Lifetime, "'a"}, tk{token.Lifetime, "'static"}, tk{token.CharLit, "'a'"},
		tk{token.CharLit, `'\n'`}, tk{token.CharLit, `'\''`}, tk{token.CharLit, "'é'"},
		tk{token.CharLit, "b'x'"})
}

func TestNumbers(t *testing.T) {
	expectTokens(t, `1u8 2.5f32 0xFF_u8 0b1010 0o17 1_000 1e10 3.0E-2`,
		tk{token.IntLit, "1u8"}, tk{token.FloatLit, "2.5f32"}, tk{token.IntLit, "0xFF_u8"},
		tk{token.IntLit, "0b1010"}, tk{token.IntLit, "0o17"}, tk{token.IntLit, "1_000"},
		tk{token.FloatLit, "1e10"}, tk{token.FloatLit, "3.0E-2"})
	expectTokens(t, `1..2`, tk{token.IntLit, "1"}, tk{token.DotDot, ".."}, tk{token.IntLit, "2"})
	expectTokens(t, `x.0.foo`, tk{token.Ident, "x"}, tk{token.Dot, "."}, tk{token.IntLit, "0"},
		tk{token.Dot, "."}, tk{token.Ident, "foo"})
	expectTokens(t, `1.`, tk{token.FloatLit, "1."})
}

func TestTrivia(t *testing.T) {
	lx, rep := makeTestLexer("// c\n/* a /* b */ */ x /// doc\n//// plain\n/** d */ /**/ //! inner\ny")
	x := lx.Next()
	if x.Text != "x" {
		t.Fatalf("expected x, got %q", x.Text)
	}
	wantX := []token.TriviaKind{token.TriviaLineComment, token.TriviaNewline, token.TriviaBlockComment, token.TriviaSpace}
	if len(x.Leading) != len(wantX) {
		t.Fatalf("leading of x: %d trivia, want %d", len(x.Leading), len(wantX))
	}
	for i, k := range wantX {
		if x.Leading[i].Kind != k {
			t.Fatalf("trivia %d: kind %v, want %v", i, x.Leading[i].Kind, k)
		}
	}
	if x.Leading[2].Text != "/* a /* b */ */" {
		t.Fatalf("nested block comment text %q", x.Leading[2].Text)
	}

	y := lx.Next()
	var kinds []token.TriviaKind
	for _, tv := range y.Leading {
		if tv.Kind != token.TriviaSpace && tv.Kind != token.TriviaNewline {
			kinds = append(kinds, tv.Kind)
		}
	}
	wantY := []token.TriviaKind{token.TriviaDocLine, token.TriviaLineComment, token.TriviaDocBlock, token.TriviaBlockComment, token.TriviaDocLine}
	if fmt.Sprint(kinds) != fmt.Sprint(wantY) {
		t.Fatalf("comment kinds %v, want %v", kinds, wantY)
	}
	if !y.HasNewlineBefore() {
		t.Fatalf("y must follow a newline")
	}
	if eof := lx.Next(); eof.Kind != token.EOF {
		t.Fatalf("expected EOF, got %v", eof.Kind)
	}
	if len(rep.diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics %v", rep.codes())
	}
}

func TestLexErrors(t *testing.T) {
	cases := []struct {
		input string
		code  diag.Code
	}{
		{`"open`, diag.LexUnterminatedString},
		{`r#"open"`, diag.LexUnterminatedString},
		{`r##x`, diag.LexUnterminatedString},
		{"' x\n", diag.LexUnterminatedChar},
		{`/* never closed`, diag.LexUnterminatedBlockComment},
		{`0x`, diag.LexBadNumber},
		{`€`, diag.LexUnknownChar},
		{`\`, diag.LexUnknownChar},
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			_, rep := lexAll(t, tc.input)
			if len(rep.diagnostics) != 1 {
				t.Fatalf("got diagnostics %v, want exactly one", rep.codes())
			}
			if rep.diagnostics[0].Code != tc.code {
				t.Fatalf("got %v, want %v", rep.diagnostics[0].Code.ID(), tc.code.ID())
			}
		})
	}
}

func TestUnknownCharConsumesWholeRune(t *testing.T) {
	got, _ := lexAll(t, "a€b")
	want := []tk{{token.Ident, "a"}, {token.Invalid, "€"}, {token.Ident, "b"}}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	lx, _ := makeTestLexer("file!()")
	if p := lx.Peek(); p.Text != "file" {
		t.Fatalf("peek %q", p.Text)
	}
	if p := lx.Peek(); p.Text != "file" {
		t.Fatalf("second peek %q", p.Text)
	}
	if n := lx.Next(); n.Text != "file" {
		t.Fatalf("next %q", n.Text)
	}
	if n := lx.Next(); n.Kind != token.Bang {
		t.Fatalf("expected '!', got %v", n.Kind)
	}
}

func TestTokenSpans(t *testing.T) {
	lx, _ := makeTestLexer("  column!( x )")
	want := []source.Span{{Start: 2, End: 8}, {Start: 8, End: 9}, {Start: 9, End: 10}, {Start: 11, End: 12}, {Start: 13, End: 14}, {Start: 14, End: 14}}
	for i, w := range want {
		tok := lx.Next()
		if tok.Span.Start != w.Start || tok.Span.End != w.End {
			t.Fatalf("token %d (%q): span %d-%d, want %d-%d", i, tok.Text, tok.Span.Start, tok.Span.End, w.Start, w.End)
		}
	}
}

func TestNewRange(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.rs", []byte("m!(a + b) tail"))
	lx := lexer.NewRange(fs.Get(id), 3, 8, lexer.Options{})
	toks := lx.All()
	if len(toks) != 4 || toks[0].Text != "a" || toks[2].Text != "b" || toks[3].Kind != token.EOF {
		t.Fatalf("unexpected tokens %v", toks)
	}
	if toks[3].Span.Start != 8 {
		t.Fatalf("EOF must sit at the range end, got %d", toks[3].Span.Start)
	}
}
