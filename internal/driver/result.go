package driver

import (
	"mexpand/internal/db"
	"mexpand/internal/diag"
	"mexpand/internal/observ"
	"mexpand/internal/project"
	"mexpand/internal/source"
)

// ExpansionKind says how a call was resolved.
type ExpansionKind uint8

const (
	KindBuiltin ExpansionKind = iota
	KindDeclarative
	KindUnresolved
)

func (k ExpansionKind) String() string {
	switch k {
	case KindBuiltin:
		return "builtin"
	case KindDeclarative:
		return "declarative"
	case KindUnresolved:
		return "unresolved"
	}
	return "unknown"
}

// Expansion is the outcome for one macro call site.
type Expansion struct {
	Name   string // последний сегмент пути
	Path   string // "std::line"
	Span   source.Span
	Start  source.LineCol // строка и колонка в символах
	End    source.LineCol
	Kind   ExpansionKind
	Output string // текст раскрытия, пусто при ошибке
	Err    error  // *hirexpand.ExpandError
}

// OK reports whether the call was expanded.
func (e Expansion) OK() bool { return e.Kind == KindBuiltin && e.Err == nil }

// FileResult collects everything produced for one file.
type FileResult struct {
	Path       string // relative to the base directory
	FileID     source.FileID
	Expansions []Expansion
	Bag        *diag.Bag
	Cached     bool
	Err        error // load failure; nothing else is set then
	Timing     *observ.Report

	key      project.Digest
	timer    *observ.Timer
	finished bool // expand pass done (or cache hit)
}

// Result is the outcome of one Expand/ExpandDir run.
type Result struct {
	FileSet *source.FileSet
	DB      *db.RootDatabase
	Crate   string
	Files   []FileResult
}

// Diagnostics merges every file bag in file order.
func (r *Result) Diagnostics() *diag.Bag {
	total := 0
	for i := range r.Files {
		if r.Files[i].Bag != nil {
			total += r.Files[i].Bag.Len()
		}
	}
	out := diag.NewBag(max(total, 1))
	for i := range r.Files {
		out.Merge(r.Files[i].Bag)
	}
	return out
}

// HasErrors reports load failures and error diagnostics.
func (r *Result) HasErrors() bool {
	for i := range r.Files {
		f := &r.Files[i]
		if f.Err != nil || (f.Bag != nil && f.Bag.HasErrors()) {
			return true
		}
	}
	return false
}

// Counts tallies expansions by outcome.
type Counts struct {
	Expanded    int `json:"expanded"`
	Failed      int `json:"failed"`
	Declarative int `json:"declarative"`
	Unresolved  int `json:"unresolved"`
}

func (r *Result) Counts() Counts {
	var c Counts
	for i := range r.Files {
		for _, e := range r.Files[i].Expansions {
			switch {
			case e.OK():
				c.Expanded++
			case e.Kind == KindBuiltin:
				c.Failed++
			case e.Kind == KindDeclarative:
				c.Declarative++
			default:
				c.Unresolved++
			}
		}
	}
	return c
}
