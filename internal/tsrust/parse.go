package tsrust

import (
	"fmt"
	"slices"
	"strings"

	"fortio.org/safecast"
	sitter "github.com/tree-sitter/go-tree-sitter"

	"mexpand/internal/ast"
	"mexpand/internal/diag"
	"mexpand/internal/lexer"
	"mexpand/internal/parser"
	"mexpand/internal/source"
	"mexpand/internal/token"
)

type builder struct {
	file  *source.File
	b     *ast.Builder
	rep   diag.Reporter
	calls []ast.Call // в порядке обхода, пишутся в Builder в Finish
}

// Parse builds the macro-call tree of file with the shared parser pool.
// Syntax errors found by tree-sitter go to rep as SYN diagnostics.
func Parse(file *source.File, rep diag.Reporter) *ast.Tree {
	return defaultPool.Parse(file, rep)
}

func (p *ParserPool) Parse(file *source.File, rep diag.Reporter) *ast.Tree {
	sp := p.Get()
	defer p.Put(sp)

	tree := sp.Parse(file.Content, nil)
	bld := &builder{file: file, b: ast.NewBuilder(ast.Hints{}), rep: rep}
	if tree != nil {
		defer tree.Close()
		root := tree.RootNode()
		bld.walk(root)
		if root.HasError() {
			bld.recoverCalls()
		}
	}
	return bld.finish()
}

// recoverCalls adds the calls tree-sitter lost to error recovery, such as `line!;`
// or a group left open at EOF. They are taken from the native scanner, which
// sees every `path!` the same way on broken input.
func (b *builder) recoverCalls() {
	native := parser.Parse(b.file, parser.Options{}).Tree
	for _, nc := range native.Calls() {
		if b.overlaps(nc.Span()) {
			continue
		}
		call := ast.Call{
			Span:     nc.Span(),
			Path:     nc.Path(),
			NameSpan: nc.NameSpan(),
			Bang:     nc.Bang(),
		}
		if g, ok := nc.TokenTree(); ok {
			call.Group = b.b.NewGroup(ast.Group{
				Open:   g.Delimiter(),
				Span:   g.Span(),
				Closed: g.Closed(),
				Tokens: g.Tokens(),
			})
			if !g.Closed() {
				b.report(diag.SynUnclosedDelimiter, source.Span{File: b.file.ID, Start: g.Span().Start, End: g.Span().Start + 1},
					fmt.Sprintf("unclosed delimiter '%s'", g.Delimiter()))
			}
		} else {
			b.reportNoGroup(call)
		}
		b.calls = append(b.calls, call)
	}
}

func (b *builder) overlaps(sp source.Span) bool {
	for _, c := range b.calls {
		if sp.Start < c.Span.End && c.Span.Start < sp.End {
			return true
		}
	}
	return false
}

func (b *builder) finish() *ast.Tree {
	slices.SortStableFunc(b.calls, func(x, y ast.Call) int {
		return int(x.Span.Start) - int(y.Span.Start)
	})
	for _, c := range b.calls {
		b.b.NewCall(c)
	}
	return b.b.Finish(b.file)
}

func (b *builder) walk(node *sitter.Node) {
	if node == nil {
		return
	}
	switch node.Kind() {
	case "macro_invocation":
		b.call(node)
		// вложенные вызовы - часть аргумента
		return
	case "macro_definition":
		b.definition(node)
		return
	}
	if node.IsError() {
		b.report(diag.SynUnexpectedToken, b.span(node), "syntax error")
	}
	if node.IsMissing() {
		b.missing(node)
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		b.walk(node.Child(i))
	}
}

func (b *builder) call(node *sitter.Node) {
	macro := node.ChildByFieldName("macro")
	if macro == nil {
		return
	}
	nameNode := macro
	if n := macro.ChildByFieldName("name"); n != nil {
		nameNode = n
	}

	call := ast.Call{
		Span:     b.span(node),
		Path:     splitPath(b.text(macro)),
		NameSpan: b.span(nameNode),
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "!":
			call.Bang = b.span(child)
		case "token_tree":
			call.Group = b.group(child, child.StartByte(), child.EndByte())
		}
	}
	if !call.Group.IsValid() {
		b.reportNoGroup(call)
		call.Span.End = call.Bang.End
	}
	b.calls = append(b.calls, call)
}

func (b *builder) reportNoGroup(call ast.Call) {
	b.report(diag.SynExpectDelimiter, source.Span{File: b.file.ID, Start: call.Bang.End, End: call.Bang.End},
		fmt.Sprintf("expected one of '(', '[' or '{' after '%s!'", strings.Join(call.Path, "::")))
}

func (b *builder) definition(node *sitter.Node) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	def := ast.MacroDef{
		Name:     strings.TrimPrefix(b.text(nameNode), "r#"),
		NameSpan: b.span(nameNode),
		Span:     b.span(node),
	}
	// тело - от первой скобки после имени до конца узла
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.StartByte() <= nameNode.StartByte() {
			continue
		}
		if k := child.Kind(); k == "(" || k == "{" || k == "[" {
			def.Body = b.group(node, child.StartByte(), node.EndByte())
			break
		}
	}
	b.b.NewDef(def)
}

// group re-lexes the delimited range [start, end) so tokens match internal/parser.
func (b *builder) group(node *sitter.Node, start, end uint) ast.GroupID {
	sp := source.Span{File: b.file.ID, Start: b.offset(start), End: b.offset(end)}
	open := delimiterKind(b.file.Content[sp.Start])
	closed := sp.Len() >= 2 && delimiterKind(b.file.Content[sp.End-1]) == open.Closer() && !lastChildMissing(node)
	inner := sp.End
	if closed {
		inner--
	}
	if !closed {
		// как и в internal/parser: незакрытая группа тянется до конца файла
		sp.End = b.offset(uint(len(b.file.Content)))
		inner = sp.End
		b.report(diag.SynUnclosedDelimiter, source.Span{File: b.file.ID, Start: sp.Start, End: sp.Start + 1},
			fmt.Sprintf("unclosed delimiter '%s'", open))
	}

	lx := lexer.NewRange(b.file, sp.Start+1, inner, lexer.Options{Reporter: b.rep})
	toks := lx.All()
	return b.b.NewGroup(ast.Group{
		Open:   open,
		Span:   sp,
		Closed: closed,
		Tokens: toks[:len(toks)-1],
	})
}

func (b *builder) missing(node *sitter.Node) {
	sp := b.span(node)
	kind := node.Kind()
	if kind == "" {
		return
	}
	if k := delimiterKind(kind[0]); len(kind) == 1 && k.IsCloseDelim() {
		b.report(diag.SynUnclosedDelimiter, sp, fmt.Sprintf("missing closing delimiter '%s'", kind))
		return
	}
	b.report(diag.SynUnexpectedToken, sp, fmt.Sprintf("missing '%s'", kind))
}

func (b *builder) report(code diag.Code, sp source.Span, msg string) {
	if b.rep != nil {
		diag.ReportError(b.rep, code, sp, msg).Emit()
	}
}

func (b *builder) span(node *sitter.Node) source.Span {
	return source.Span{File: b.file.ID, Start: b.offset(node.StartByte()), End: b.offset(node.EndByte())}
}

func (b *builder) text(node *sitter.Node) string {
	return string(b.file.Content[node.StartByte():node.EndByte()])
}

func (b *builder) offset(off uint) uint32 {
	v, err := safecast.Conv[uint32](off)
	if err != nil {
		panic(fmt.Errorf("tsrust: offset overflow: %w", err))
	}
	return v
}

func lastChildMissing(node *sitter.Node) bool {
	n := node.ChildCount()
	return n > 0 && node.Child(n-1).IsMissing()
}

func delimiterKind(b byte) token.Kind {
	switch b {
	case '(':
		return token.LParen
	case ')':
		return token.RParen
	case '{':
		return token.LBrace
	case '}':
		return token.RBrace
	case '[':
		return token.LBracket
	case ']':
		return token.RBracket
	}
	return token.Invalid
}

// splitPath turns "std :: line" or "::core::file" into its segments.
func splitPath(text string) []string {
	var out []string
	for _, seg := range strings.Split(text, "::") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		out = append(out, strings.TrimPrefix(seg, "r#"))
	}
	return out
}
