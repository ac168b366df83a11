package testkit

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"mexpand/internal/ast"
	"mexpand/internal/source"
)

// CheckSpanInvariants runs the span invariants every parser backend must keep:
// 1) each call span is non-empty, points into sf and lies within its content
// 2) the name span and the argument group lie inside the call span, and the
// group ends the call
// 3) calls are in source order and do not overlap
// 4) definition name spans lie inside the definition
func CheckSpanInvariants(tree *ast.Tree, sf *source.File) error {
	if tree == nil || sf == nil {
		return fmt.Errorf("nil tree or file")
	}
	if tree.File != sf.ID {
		return fmt.Errorf("tree belongs to file %d, want %d", tree.File, sf.ID)
	}
	size, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var prev source.Span
	for i, call := range tree.Calls() {
		sp := call.Span()
		if err := within(sp, sf.ID, size); err != nil {
			return fmt.Errorf("call %d (%s!): %w", i+1, call.Name(), err)
		}
		if i > 0 && sp.Start < prev.End {
			return fmt.Errorf("call %d (%s!) at %v overlaps previous call %v", i+1, call.Name(), sp, prev)
		}
		prev = sp

		ns := call.NameSpan()
		if !contains(sp, ns) {
			return fmt.Errorf("call %d: name span %v outside call %v", i+1, ns, sp)
		}
		// r#line тоже даёт имя line
		if text := tree.Text[ns.Start:ns.End]; !strings.HasSuffix(text, call.Name()) {
			return fmt.Errorf("call %d: name span covers %q, want %q", i+1, text, call.Name())
		}

		group, ok := call.TokenTree()
		if !ok {
			continue
		}
		gs := group.Span()
		if !contains(sp, gs) || gs.End != sp.End {
			return fmt.Errorf("call %d: group %v must end call %v", i+1, gs, sp)
		}
		if !group.Delimiter().IsOpenDelim() {
			return fmt.Errorf("call %d: group opens with %v", i+1, group.Delimiter())
		}
		if !group.Closed() && gs.End != size {
			return fmt.Errorf("call %d: unclosed group must run to end of file, ends at %d", i+1, gs.End)
		}
		for _, tok := range group.Tokens() {
			if tok.Span.Start <= gs.Start || tok.Span.End > gs.End {
				return fmt.Errorf("call %d: token %q at %v outside group %v", i+1, tok.Text, tok.Span, gs)
			}
		}
	}

	for _, def := range tree.Defs() {
		if err := within(def.Span, sf.ID, size); err != nil {
			return fmt.Errorf("macro_rules! %s: %w", def.Name, err)
		}
		if !contains(def.Span, def.NameSpan) {
			return fmt.Errorf("macro_rules! %s: name span %v outside %v", def.Name, def.NameSpan, def.Span)
		}
	}
	return nil
}

func within(sp source.Span, file source.FileID, size uint32) error {
	if sp.End <= sp.Start {
		return fmt.Errorf("empty span %v", sp)
	}
	if sp.File != file {
		return fmt.Errorf("span file mismatch: got=%d want=%d", sp.File, file)
	}
	if sp.End > size {
		return fmt.Errorf("span end beyond content: %d > %d", sp.End, size)
	}
	return nil
}

func contains(outer, inner source.Span) bool {
	return inner.File == outer.File && inner.Start >= outer.Start && inner.End <= outer.End
}
