package hirexpand

import (
	"fmt"

	"mexpand/internal/diag"
	"mexpand/internal/name"
	"mexpand/internal/source"
)

// ResolveDatabase adds crate structure to AstDatabase.
type ResolveDatabase interface {
	AstDatabase
	CrateOf(source.FileID) CrateID
	CrateFiles(CrateID) []source.FileID
}

type ResolveStatus uint8

const (
	Unresolved ResolveStatus = iota
	ResolvedBuiltin
	ResolvedDeclarative
)

func (s ResolveStatus) String() string {
	switch s {
	case ResolvedBuiltin:
		return "builtin"
	case ResolvedDeclarative:
		return "declarative"
	}
	return "unresolved"
}

// Resolution is the outcome of ResolveMacroCall. Call is valid unless Status is Unresolved.
type Resolution struct {
	Status ResolveStatus
	Name   name.Name
	Call   MacroCallID
	Def    MacroDefID
}

// ResolveMacroCall decides what the call at astID refers to and interns it.
// A macro_rules! definition anywhere in the same crate shadows a builtin of the
// same name (reported as info, the call stays unexpanded); a name that is
// neither is reported as a warning.
func ResolveMacroCall(db ResolveDatabase, astID AstID, rep diag.Reporter) Resolution {
	call := db.MacroCallNode(astID)
	ident := name.New(call.Name())
	krate := db.CrateOf(astID.File.OriginalFile(db))
	res := Resolution{Name: ident}

	for _, file := range db.CrateFiles(krate) {
		tree := db.ParseFile(file)
		defID, ok := tree.FindDef(ident.String())
		if !ok {
			continue
		}
		res.Status = ResolvedDeclarative
		res.Def = MacroDefID{
			Krate: krate,
			Kind:  Declarative,
			AST:   AstID{File: FileHir(file)},
			Rules: defID,
		}
		res.Call = db.InternMacro(MacroCallLoc{Def: res.Def, AST: astID})
		if rep != nil {
			msg := fmt.Sprintf("%s! is defined by macro_rules! and left unexpanded", ident)
			if _, builtin := FindBuiltinMacro(ident, krate, astID); builtin {
				msg = fmt.Sprintf("macro_rules! %s shadows the builtin %s!; call left unexpanded", ident, ident)
			}
			diag.ReportInfo(rep, diag.ExpUserMacro, call.NameSpan(), msg).
				WithNote(tree.Def(defID).NameSpan, "defined here").
				Emit()
		}
		return res
	}

	if def, ok := FindBuiltinMacro(ident, krate, astID); ok {
		res.Status = ResolvedBuiltin
		res.Def = def
		res.Call = db.InternMacro(MacroCallLoc{Def: def, AST: astID})
		return res
	}

	if rep != nil {
		diag.ReportWarning(rep, diag.ExpUnresolved, call.NameSpan(),
			fmt.Sprintf("cannot find macro `%s` in this scope", ident)).Emit()
	}
	return res
}
