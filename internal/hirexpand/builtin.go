package hirexpand

import (
	"fmt"

	"mexpand/internal/ast"
	"mexpand/internal/name"
	"mexpand/internal/source"
	"mexpand/internal/tt"
)

// AstDatabase is what builtin expansion needs from the surrounding database.
type AstDatabase interface {
	FileText(source.FileID) string
	ParseFile(source.FileID) *ast.Tree
	LookupInternMacro(MacroCallID) MacroCallLoc
	InternMacro(MacroCallLoc) MacroCallID
	MacroCallNode(AstID) ast.MacroCallNode
}

// BuiltinFnLikeExpander selects one of the builtin function-like macros.
type BuiltinFnLikeExpander uint8

const (
	BuiltinColumn BuiltinFnLikeExpander = iota + 1
	BuiltinFile
	BuiltinLine
	BuiltinStringify
)

var builtinFnLike = [...]struct {
	name     name.Name
	expander BuiltinFnLikeExpander
}{
	{name.ColumnMacro, BuiltinColumn},
	{name.FileMacro, BuiltinFile},
	{name.LineMacro, BuiltinLine},
	{name.StringifyMacro, BuiltinStringify},
}

// FindBuiltinMacro maps ident to a builtin definition. The boolean is false
// when ident is not a builtin; that is not an error.
func FindBuiltinMacro(ident name.Name, krate CrateID, astID AstID) (MacroDefID, bool) {
	for _, b := range builtinFnLike {
		if b.name == ident {
			return MacroDefID{
				Krate:   krate,
				Kind:    BuiltinFnLike,
				AST:     astID,
				Builtin: b.expander,
			}, true
		}
	}
	return MacroDefID{}, false
}

// BuiltinNames lists the registered builtin macro names in registry order.
func BuiltinNames() []name.Name {
	out := make([]name.Name, 0, len(builtinFnLike))
	for _, b := range builtinFnLike {
		out = append(out, b.name)
	}
	return out
}

// Name returns the macro name the expander is registered under.
func (e BuiltinFnLikeExpander) Name() name.Name {
	for _, b := range builtinFnLike {
		if b.expander == e {
			return b.name
		}
	}
	return name.Name{}
}

func (e BuiltinFnLikeExpander) String() string {
	if n := e.Name(); !n.IsMissing() {
		return n.String()
	}
	return fmt.Sprintf("BuiltinFnLikeExpander(%d)", uint8(e))
}

// Expand synthesizes the replacement for call id. arg is the parsed argument
// group; builtins read the call syntax directly and do not inspect it.
func (e BuiltinFnLikeExpander) Expand(db AstDatabase, id MacroCallID, arg *tt.Subtree) (*tt.Subtree, error) {
	loc := db.LookupInternMacro(id)
	call := db.MacroCallNode(loc.AST)

	group, ok := call.TokenTree()
	if !ok {
		return nil, unexpectedToken(e.Name(), call.Span())
	}

	switch e {
	case BuiltinLine:
		// строка считается от начала группы аргументов
		text := db.FileText(loc.AST.File.OriginalFile(db))
		return tt.QuoteInt(uint64(source.LineOf(text, group.Span().Start))), nil
	case BuiltinColumn:
		// а колонка - от начала самого вызова
		text := db.FileText(loc.AST.File.OriginalFile(db))
		return tt.QuoteInt(uint64(source.ColumnOf(text, call.Span().Start))), nil
	case BuiltinFile:
		// всегда пустая строка, путь не раскрываем
		return tt.QuoteString(""), nil
	case BuiltinStringify:
		text, err := argumentText(call)
		if err != nil {
			return nil, unexpectedToken(e.Name(), call.Span())
		}
		return tt.QuoteString(text), nil
	}
	panic(fmt.Sprintf("hirexpand: unknown builtin expander %d", uint8(e)))
}

// argumentText returns the verbatim source of the argument group without its
// delimiters. An unclosed group keeps everything up to end of file.
func argumentText(call ast.MacroCallNode) (string, error) {
	group, ok := call.TokenTree()
	if !ok {
		return "", ErrUnexpectedToken
	}
	text := group.Text()
	if text == "" {
		return "", ErrUnexpectedToken
	}
	text = text[1:]
	if group.Closed() {
		text = text[:len(text)-1]
	}
	return text, nil
}
