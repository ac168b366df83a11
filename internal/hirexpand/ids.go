package hirexpand

import (
	"fmt"

	"mexpand/internal/ast"
	"mexpand/internal/source"
)

// CrateID identifies a crate registered in the database. Zero is no crate.
type CrateID uint32

// MacroCallID is the interned identity of a call site (1-based, 0 = none).
type MacroCallID uint32

func (id MacroCallID) IsValid() bool { return id != 0 }

// HirFileID is either a real source file or the virtual file produced by a
// macro expansion.
type HirFileID struct {
	file  source.FileID
	macro MacroCallID
}

// FileHir wraps an on-disk file.
func FileHir(id source.FileID) HirFileID { return HirFileID{file: id} }

// MacroFile wraps the expansion of call.
func MacroFile(call MacroCallID) HirFileID { return HirFileID{macro: call} }

// IsMacroFile reports whether h names a macro expansion.
func (h HirFileID) IsMacroFile() bool { return h.macro.IsValid() }

// FileID returns the source file of a non-macro HirFileID. Macro files panic.
func (h HirFileID) FileID() source.FileID {
	if h.IsMacroFile() {
		panic(fmt.Sprintf("hirexpand: %s is a macro file", h))
	}
	return h.file
}

type callLocator interface {
	LookupInternMacro(MacroCallID) MacroCallLoc
}

// OriginalFile walks expansion parents up to the on-disk file that contains h.
func (h HirFileID) OriginalFile(db callLocator) source.FileID {
	for h.IsMacroFile() {
		h = db.LookupInternMacro(h.macro).AST.File
	}
	return h.file
}

func (h HirFileID) String() string {
	if h.IsMacroFile() {
		return fmt.Sprintf("macro#%d", h.macro)
	}
	return fmt.Sprintf("file#%d", h.file)
}

// AstID locates a macro call node: the file it lives in and its id in that
// file's tree.
type AstID struct {
	File HirFileID
	Call ast.CallID
}

// MacroDefKind tells how a definition expands.
type MacroDefKind uint8

const (
	// Declarative is a user macro_rules! definition; it is never expanded here.
	Declarative MacroDefKind = iota + 1
	BuiltinFnLike
)

func (k MacroDefKind) String() string {
	switch k {
	case Declarative:
		return "declarative"
	case BuiltinFnLike:
		return "builtin"
	}
	return "unknown"
}

// MacroDefID describes the definition a call resolved to.
type MacroDefID struct {
	Krate   CrateID
	Kind    MacroDefKind
	AST     AstID                 // call site for builtins, defining file for Declarative
	Builtin BuiltinFnLikeExpander // valid when Kind == BuiltinFnLike
	Rules   ast.DefID             // valid when Kind == Declarative
}

// MacroCallLoc is what a MacroCallID is interned from.
type MacroCallLoc struct {
	Def MacroDefID
	AST AstID
}
