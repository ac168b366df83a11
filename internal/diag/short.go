package diag

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"mexpand/internal/source"
)

// shortLine is one rendered line of FormatShortDiagnostics.
type shortLine struct {
	path      string
	line, col uint32
	sev       string
	code      string
	msg       string
}

func (l shortLine) String() string {
	return fmt.Sprintf("%s %s %s:%d:%d %s", l.sev, l.code, l.path, l.line, l.col, l.msg)
}

func compareShort(a, b shortLine) int {
	return cmp.Or(
		cmp.Compare(a.path, b.path),
		cmp.Compare(a.line, b.line),
		cmp.Compare(a.col, b.col),
		cmp.Compare(a.sev, b.sev),
		cmp.Compare(a.code, b.code),
		cmp.Compare(a.msg, b.msg),
	)
}

// FormatShortDiagnostics renders one line per diagnostic:
//
//	severity CODE path:line:col message
//
// Lines are sorted by position. Columns count characters. Spans pointing at
// unknown files or outside their file are dropped.
func FormatShortDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}
	var lines []shortLine
	add := func(sev, code string, sp source.Span, msg string) {
		path, line, col, ok := locate(fs, sp)
		if !ok {
			return
		}
		lines = append(lines, shortLine{path: path, line: line, col: col, sev: sev, code: code, msg: flatten(msg)})
	}
	for i := range diags {
		d := &diags[i]
		code := d.Code.ID()
		add(d.Severity.Label(), code, d.Primary, d.Message)
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			add("note", code, n.Span, n.Msg)
		}
	}
	slices.SortStableFunc(lines, compareShort)

	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return strings.Join(out, "\n")
}

func locate(fs *source.FileSet, sp source.Span) (path string, line, col uint32, ok bool) {
	if int(sp.File) >= fs.Len() {
		return "", 0, 0, false
	}
	f := fs.Get(sp.File)
	text := f.Text()
	if int(sp.Start) > len(text) {
		return "", 0, 0, false
	}
	if int(sp.Start) < len(text) && !utf8.RuneStart(text[sp.Start]) {
		return "", 0, 0, false
	}
	path = strings.TrimPrefix(f.DisplayPath(fs.BaseDir()), "./")
	return path, source.LineOf(text, sp.Start), source.ColumnOf(text, sp.Start), true
}

// flatten склеивает многострочное сообщение в одну строку.
func flatten(msg string) string {
	return strings.TrimSpace(strings.Join(strings.Fields(strings.ReplaceAll(msg, "\r", "\n")), " "))
}
