package ast

import (
	"fmt"
	"sort"

	"mexpand/internal/source"
	"mexpand/internal/token"
)

// Tree holds the macro calls and definitions found in one file, in source order.
type Tree struct {
	File source.FileID
	Text string

	calls  *Arena[Call]
	defs   *Arena[MacroDef]
	groups *Arena[Group]
}

func (t *Tree) NumCalls() uint32 { return t.calls.Len() }

// Calls returns views over every call in source order.
func (t *Tree) Calls() []MacroCallNode {
	out := make([]MacroCallNode, 0, t.calls.Len())
	for i := uint32(1); i <= t.calls.Len(); i++ {
		out = append(out, MacroCallNode{tree: t, id: CallID(i)})
	}
	return out
}

// Call returns the view of id. Unknown ids panic.
func (t *Tree) Call(id CallID) MacroCallNode {
	if t.calls.Get(uint32(id)) == nil {
		panic(fmt.Sprintf("ast: unknown call id %d in file %d", id, t.File))
	}
	return MacroCallNode{tree: t, id: id}
}

// Defs returns every macro_rules! definition in source order.
func (t *Tree) Defs() []MacroDef {
	return t.defs.Slice()
}

// FindDef returns the first macro_rules! definition named name.
func (t *Tree) FindDef(name string) (DefID, bool) {
	for i, d := range t.defs.Slice() {
		if d.Name == name {
			return DefID(i + 1), true
		}
	}
	return NoDefID, false
}

// Def returns the definition id. Unknown ids panic.
func (t *Tree) Def(id DefID) *MacroDef {
	d := t.defs.Get(uint32(id))
	if d == nil {
		panic(fmt.Sprintf("ast: unknown macro definition id %d in file %d", id, t.File))
	}
	return d
}

// CallAt returns the call whose span contains off.
func (t *Tree) CallAt(off uint32) (MacroCallNode, bool) {
	calls := t.calls.Slice()
	i := sort.Search(len(calls), func(i int) bool { return calls[i].Span.End > off })
	if i < len(calls) && calls[i].Span.Start <= off {
		return MacroCallNode{tree: t, id: CallID(i + 1)}, true
	}
	return MacroCallNode{}, false
}

// MacroCallNode is a read-only view over a Call.
type MacroCallNode struct {
	tree *Tree
	id   CallID
}

func (n MacroCallNode) ID() CallID { return n.id }

func (n MacroCallNode) IsValid() bool { return n.tree != nil && n.id.IsValid() }

func (n MacroCallNode) node() *Call { return n.tree.calls.Get(uint32(n.id)) }

func (n MacroCallNode) Span() source.Span { return n.node().Span }

// Name is the last path segment, e.g. "line" for std::line!().
func (n MacroCallNode) Name() string {
	p := n.node().Path
	return p[len(p)-1]
}

func (n MacroCallNode) NameSpan() source.Span { return n.node().NameSpan }

func (n MacroCallNode) Bang() source.Span { return n.node().Bang }

func (n MacroCallNode) Path() []string { return n.node().Path }

// Text is the verbatim source of the whole call.
func (n MacroCallNode) Text() string {
	sp := n.Span()
	return n.tree.Text[sp.Start:sp.End]
}

// TokenTree returns the argument group; false when the call has none.
func (n MacroCallNode) TokenTree() (TokenTreeNode, bool) {
	g := n.node().Group
	if !g.IsValid() {
		return TokenTreeNode{}, false
	}
	return TokenTreeNode{tree: n.tree, id: g}, true
}

// TokenTreeNode is a read-only view over a Group.
type TokenTreeNode struct {
	tree *Tree
	id   GroupID
}

func (g TokenTreeNode) node() *Group { return g.tree.groups.Get(uint32(g.id)) }

func (g TokenTreeNode) Span() source.Span { return g.node().Span }

// Text is the verbatim source of the group, delimiters included.
func (g TokenTreeNode) Text() string {
	sp := g.Span()
	return g.tree.Text[sp.Start:sp.End]
}

func (g TokenTreeNode) Tokens() []token.Token { return g.node().Tokens }

func (g TokenTreeNode) Delimiter() token.Kind { return g.node().Open }

func (g TokenTreeNode) Closed() bool { return g.node().Closed }
