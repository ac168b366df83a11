package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"mexpand/internal/diag"
	"mexpand/internal/source"
)

const tabWidth = 4

type palette struct {
	err, warn, info, note *color.Color
	gutter, caret, bold   *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		info:   mk(color.FgCyan, color.Bold),
		note:   mk(color.FgGreen),
		gutter: mk(color.FgBlue, color.Bold),
		caret:  mk(color.FgRed, color.Bold),
		bold:   mk(color.Bold),
	}
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty выводит диагностики в человекочитаемом виде:
//
//	error[SYN2001]: message
//	  --> src/lib.rs:3:5
//	   |
//	 3 | let x = foo!(;
//	   |     ^^^^
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	if bag == nil || fs == nil {
		return nil
	}
	p := newPalette(opts.Color)
	baseDir := fs.BaseDir()
	items := bag.Items()
	for i := range items {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := prettyOne(w, &items[i], fs, baseDir, p, opts); err != nil {
			return err
		}
	}
	return nil
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, baseDir string, p palette, opts PrettyOpts) error {
	var b strings.Builder
	sevColor := p.severity(d.Severity)
	b.WriteString(sevColor.Sprintf("%s[%s]", d.Severity.Label(), d.Code.ID()))
	b.WriteString(p.bold.Sprintf(": %s", d.Message))
	b.WriteByte('\n')

	f := fs.Get(d.Primary.File)
	start := position(f, d.Primary.Start)

	first := start.Line
	if opts.Context > 0 {
		if uint32(opts.Context) >= first {
			first = 1
		} else {
			first -= uint32(opts.Context)
		}
	}
	gutterWidth := len(strconv.FormatUint(uint64(start.Line), 10))
	pad := strings.Repeat(" ", gutterWidth)

	fmt.Fprintf(&b, "%s%s %s:%d:%d\n", pad, p.gutter.Sprint("-->"), formatPath(f, opts.PathMode, baseDir), start.Line, start.Col)
	fmt.Fprintf(&b, "%s %s\n", pad, p.gutter.Sprint("|"))
	for line := first; line <= start.Line; line++ {
		num := fmt.Sprintf("%*d", gutterWidth, line)
		text := expandTabs(f.GetLine(line))
		fmt.Fprintf(&b, "%s %s %s\n", p.gutter.Sprint(num), p.gutter.Sprint("|"), text)
	}
	offset, width := caretRange(f, d.Primary)
	fmt.Fprintf(&b, "%s %s %s%s\n", pad, p.gutter.Sprint("|"),
		strings.Repeat(" ", offset), sevColor.Sprint(strings.Repeat("^", width)))

	if opts.ShowNotes {
		for _, note := range d.Notes {
			nf := fs.Get(note.Span.File)
			pos := position(nf, note.Span.Start)
			fmt.Fprintf(&b, "%s %s %s: %s:%d:%d: %s\n", pad, p.gutter.Sprint("="), p.note.Sprint("note"),
				formatPath(nf, opts.PathMode, baseDir), pos.Line, pos.Col, note.Msg)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// caretRange returns the display offset and width of span on its first line.
// Spans running past the end of the line are clipped to it.
func caretRange(f *source.File, span source.Span) (offset, width int) {
	text := f.Text()
	start := min(int(span.Start), len(text))
	lineStart := strings.LastIndexByte(text[:start], '\n') + 1
	lineEnd := len(text)
	if i := strings.IndexByte(text[start:], '\n'); i >= 0 {
		lineEnd = start + i
	}
	end := min(int(span.End), lineEnd)
	end = max(end, start)

	offset = runewidth.StringWidth(expandTabs(text[lineStart:start]))
	width = runewidth.StringWidth(expandTabs(text[start:end]))
	return offset, max(width, 1)
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}
