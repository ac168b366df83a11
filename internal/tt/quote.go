package tt

import (
	"fmt"
	"strconv"
	"strings"
)

// Quote wraps trees into an undelimited subtree.
func Quote(trees ...TokenTree) *Subtree {
	return &Subtree{Delimiter: DelimNone, TokenTrees: trees}
}

// QuoteInt quotes n as an unsuffixed integer literal.
func QuoteInt(n uint64) *Subtree {
	return Quote(Literal{Text: strconv.FormatUint(n, 10)})
}

// QuoteString quotes s as a string literal.
func QuoteString(s string) *Subtree {
	return Quote(Literal{Text: `"` + EscapeDefault(s) + `"`})
}

// EscapeDefault escapes s the way string literals are printed: \t \r \n \\ \' \"
// get a backslash, printable ASCII stays, everything else becomes \u{hex}.
func EscapeDefault(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	for _, r := range s {
		switch r {
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case '\n':
			b.WriteString(`\n`)
		case '\\', '\'', '"':
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			if r >= 0x20 && r < 0x7f {
				b.WriteRune(r)
			} else {
				fmt.Fprintf(&b, `\u{%x}`, r)
			}
		}
	}
	return b.String()
}
