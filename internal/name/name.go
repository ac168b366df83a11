// Package name interns identifiers so equality is a handle comparison.
package name

import (
	"strings"
	"unique"

	"golang.org/x/text/unicode/norm"
)

// Name is an interned, NFC-normalized identifier. The zero Name is missing.
type Name struct {
	h unique.Handle[string]
}

// Known builtin macro names.
var (
	LineMacro      = New("line")
	ColumnMacro    = New("column")
	FileMacro      = New("file")
	StringifyMacro = New("stringify")
)

// New interns ident. A raw-identifier prefix r# is dropped.
func New(ident string) Name {
	ident = strings.TrimPrefix(ident, "r#")
	if !norm.NFC.IsNormalString(ident) {
		ident = norm.NFC.String(ident)
	}
	return Name{h: unique.Make(ident)}
}

func (n Name) IsMissing() bool { return n == Name{} }

func (n Name) String() string {
	if n.IsMissing() {
		return "[missing name]"
	}
	return n.h.Value()
}
