package hirexpand

import (
	"fmt"

	"mexpand/internal/tt"
)

// CallArgument converts the argument group of call id into a token tree.
// Calls without a group yield an empty subtree.
func CallArgument(db AstDatabase, id MacroCallID) *tt.Subtree {
	call := db.MacroCallNode(db.LookupInternMacro(id).AST)
	group, ok := call.TokenTree()
	if !ok {
		return tt.Quote()
	}
	return tt.FromTokens(tt.DelimNone, group.Tokens())
}

// MacroExpand expands call id according to its definition kind. It is not
// memoized; use the database for that.
func MacroExpand(db AstDatabase, id MacroCallID) (*tt.Subtree, error) {
	loc := db.LookupInternMacro(id)
	switch loc.Def.Kind {
	case BuiltinFnLike:
		return loc.Def.Builtin.Expand(db, id, CallArgument(db, id))
	case Declarative:
		return nil, fmt.Errorf("macro call %d: %w", id, ErrDeclarative)
	}
	panic(fmt.Sprintf("hirexpand: macro call %d has no definition kind", id))
}
