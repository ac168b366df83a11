package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"mexpand/internal/ast"
	"mexpand/internal/source"
)

// CallOutput describes one macro call site for `mexpand parse`.
type CallOutput struct {
	Name     string       `json:"name"`
	Path     string       `json:"path"`
	Location LocationJSON `json:"location"`
	Args     *ArgsOutput  `json:"args,omitempty"`
}

type ArgsOutput struct {
	Delimiter string `json:"delimiter"`
	Closed    bool   `json:"closed"`
	Tokens    int    `json:"tokens"`
	Text      string `json:"text"`
}

type DefOutput struct {
	Name     string       `json:"name"`
	Location LocationJSON `json:"location"`
}

type CallsOutput struct {
	File  string       `json:"file"`
	Calls []CallOutput `json:"calls"`
	Defs  []DefOutput  `json:"macro_rules,omitempty"`
}

// BuildCallsOutput собирает вызовы и определения дерева.
func BuildCallsOutput(tree *ast.Tree, fs *source.FileSet, mode PathMode) CallsOutput {
	f := fs.Get(tree.File)
	out := CallsOutput{
		File:  formatPath(f, mode, fs.BaseDir()),
		Calls: make([]CallOutput, 0, tree.NumCalls()),
	}
	for _, call := range tree.Calls() {
		co := CallOutput{
			Name:     call.Name(),
			Path:     strings.Join(call.Path(), "::"),
			Location: MakeLocation(call.Span(), fs, mode, true),
		}
		if tt, ok := call.TokenTree(); ok {
			co.Args = &ArgsOutput{
				Delimiter: tt.Delimiter().String(),
				Closed:    tt.Closed(),
				Tokens:    len(tt.Tokens()),
				Text:      tt.Text(),
			}
		}
		out.Calls = append(out.Calls, co)
	}
	for _, def := range tree.Defs() {
		out.Defs = append(out.Defs, DefOutput{
			Name:     def.Name,
			Location: MakeLocation(def.Span, fs, mode, true),
		})
	}
	return out
}

// FormatCallsPretty выводит вызовы макросов построчно.
func FormatCallsPretty(w io.Writer, tree *ast.Tree, fs *source.FileSet, mode PathMode) error {
	out := BuildCallsOutput(tree, fs, mode)
	var b strings.Builder
	for i, c := range out.Calls {
		fmt.Fprintf(&b, "%3d: %-20s at %d:%d-%d:%d", i+1, c.Path+"!",
			c.Location.StartLine, c.Location.StartCol, c.Location.EndLine, c.Location.EndCol)
		switch {
		case c.Args == nil:
			b.WriteString(" (no arguments)")
		case !c.Args.Closed:
			fmt.Fprintf(&b, " %s... unclosed, %d tokens", c.Args.Delimiter, c.Args.Tokens)
		default:
			fmt.Fprintf(&b, " %s%s, %d tokens", c.Args.Delimiter, closerOf(c.Args.Delimiter), c.Args.Tokens)
		}
		b.WriteByte('\n')
	}
	for _, d := range out.Defs {
		fmt.Fprintf(&b, "def: macro_rules! %s at %d:%d\n", d.Name, d.Location.StartLine, d.Location.StartCol)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// FormatCallsJSON выводит вызовы макросов в JSON формате.
func FormatCallsJSON(w io.Writer, tree *ast.Tree, fs *source.FileSet, mode PathMode) error {
	return encodeIndented(w, BuildCallsOutput(tree, fs, mode))
}

func closerOf(open string) string {
	switch open {
	case "(":
		return ")"
	case "[":
		return "]"
	case "{":
		return "}"
	}
	return ""
}
