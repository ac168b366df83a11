package fuzztests

import (
	"errors"
	"testing"

	"mexpand/internal/db"
	"mexpand/internal/diag"
	"mexpand/internal/hirexpand"
	"mexpand/internal/source"
)

// FuzzExpandBuiltins resolves and expands every call: expansion either
// succeeds or fails with ErrUnexpectedToken, and never panics.
func FuzzExpandBuiltins(f *testing.F) {
	addSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clamp(input)

		fs := source.NewFileSet()
		id := fs.AddVirtual("fuzz.rs", input)
		database := db.New(fs, 128)
		krate := database.AddCrate("fuzz")
		database.AddFile(krate, id)

		rep := diag.BagReporter{Bag: diag.NewBag(128)}
		for _, call := range database.ParseFile(id).Calls() {
			res := hirexpand.ResolveMacroCall(database, hirexpand.AstID{File: hirexpand.FileHir(id), Call: call.ID()}, rep)
			if res.Status != hirexpand.ResolvedBuiltin {
				continue
			}
			out, err := database.MacroExpand(res.Call)
			switch {
			case err == nil:
				if _, ok := out.SingleLiteral(); !ok {
					t.Fatalf("%s! expanded to %q, want a single literal", call.Name(), out)
				}
			case !errors.Is(err, hirexpand.ErrUnexpectedToken):
				t.Fatalf("%s!: unexpected error %v", call.Name(), err)
			}
		}
	})
}
