package driver

import (
	"sort"
	"strings"
)

// Rewrite returns content with every successful expansion substituted for its
// call. Failed, declarative and unresolved calls are left as written, as are
// expansions overlapping an earlier one.
func Rewrite(content string, expansions []Expansion) string {
	ok := make([]Expansion, 0, len(expansions))
	for _, e := range expansions {
		if e.OK() && int(e.Span.End) <= len(content) && e.Span.Start <= e.Span.End {
			ok = append(ok, e)
		}
	}
	sort.SliceStable(ok, func(i, j int) bool { return ok[i].Span.Start < ok[j].Span.Start })

	var b strings.Builder
	b.Grow(len(content))
	last := uint32(0)
	for _, e := range ok {
		if e.Span.Start < last {
			continue
		}
		b.WriteString(content[last:e.Span.Start])
		b.WriteString(e.Output)
		last = e.Span.End
	}
	b.WriteString(content[last:])
	return b.String()
}
