package ast

type (
	// CallID identifies a macro call node within a Tree.
	CallID uint32
	// DefID identifies a macro_rules! definition within a Tree.
	DefID uint32
	// GroupID identifies a delimited token tree within a Tree.
	GroupID uint32
)

const (
	NoCallID  CallID  = 0
	NoDefID   DefID   = 0
	NoGroupID GroupID = 0
)

func (id CallID) IsValid() bool  { return id != NoCallID }
func (id DefID) IsValid() bool   { return id != NoDefID }
func (id GroupID) IsValid() bool { return id != NoGroupID }
