package ast

import (
	"mexpand/internal/source"
)

type Hints struct{ Calls, Defs, Groups uint }

// Builder allocates the nodes of one Tree.
type Builder struct {
	Calls  *Arena[Call]
	Defs   *Arena[MacroDef]
	Groups *Arena[Group]
}

func NewBuilder(hints Hints) *Builder {
	if hints.Calls == 0 {
		hints.Calls = 1 << 4
	}
	if hints.Defs == 0 {
		hints.Defs = 1 << 2
	}
	if hints.Groups == 0 {
		hints.Groups = 1 << 4
	}
	return &Builder{
		Calls:  NewArena[Call](hints.Calls),
		Defs:   NewArena[MacroDef](hints.Defs),
		Groups: NewArena[Group](hints.Groups),
	}
}

func (b *Builder) NewGroup(g Group) GroupID {
	return GroupID(b.Groups.Allocate(g))
}

func (b *Builder) NewCall(c Call) CallID {
	return CallID(b.Calls.Allocate(c))
}

func (b *Builder) NewDef(d MacroDef) DefID {
	return DefID(b.Defs.Allocate(d))
}

// Finish freezes the builder into a Tree over file.
func (b *Builder) Finish(file *source.File) *Tree {
	return &Tree{
		File:   file.ID,
		Text:   file.Text(),
		calls:  b.Calls,
		defs:   b.Defs,
		groups: b.Groups,
	}
}
