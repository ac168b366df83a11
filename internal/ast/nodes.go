package ast

import (
	"mexpand/internal/source"
	"mexpand/internal/token"
)

// Call is a macro invocation `path ! group`.
type Call struct {
	Span     source.Span // от первого сегмента пути до конца группы (или до '!')
	Path     []string
	NameSpan source.Span // последний сегмент пути
	Bang     source.Span
	Group    GroupID // NoGroupID, если после '!' нет разделителя
}

// Group is a delimited token tree. Tokens excludes the outer delimiters;
// nested groups stay flattened in Tokens.
type Group struct {
	Open   token.Kind
	Span   source.Span // включая разделители; незакрытая группа тянется до конца файла
	Closed bool
	Tokens []token.Token
}

// MacroDef is a `macro_rules! name { ... }` definition.
type MacroDef struct {
	Name     string
	NameSpan source.Span
	Span     source.Span
	Body     GroupID
}
