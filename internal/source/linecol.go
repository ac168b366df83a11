package source

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"fortio.org/safecast"
)

// LineOf returns the 1-based line of the byte offset off in text.
// It counts the '\n' characters in text[:off]; nothing at or after off is examined.
// off must satisfy 0 <= off <= len(text).
func LineOf(text string, off uint32) uint32 {
	checkOffset(text, off)
	n, err := safecast.Conv[uint32](strings.Count(text[:off], "\n"))
	if err != nil {
		panic(fmt.Errorf("line count overflow: %w", err))
	}
	return n + 1
}

// ColumnOf returns the 1-based column of the byte offset off in text.
// Walks back from off one character at a time until a '\n' or the start of
// text; the column is the number of characters passed plus one.
// off must lie on a character boundary inside [0, len(text)].
func ColumnOf(text string, off uint32) uint32 {
	checkOffset(text, off)
	col := uint32(1)
	prefix := text[:off]
	for len(prefix) > 0 {
		r, size := utf8.DecodeLastRuneInString(prefix)
		if r == '\n' {
			break
		}
		col++
		prefix = prefix[:len(prefix)-size]
	}
	return col
}

func checkOffset(text string, off uint32) {
	if int(off) > len(text) {
		panic(fmt.Sprintf("source: offset %d out of range [0, %d]", off, len(text)))
	}
	if int(off) < len(text) && !utf8.RuneStart(text[off]) {
		panic(fmt.Sprintf("source: offset %d is not on a character boundary", off))
	}
}

// Locate is the lenient form of LineOf/ColumnOf for rendering positions that
// may come from broken input or a stale cache. An offset past the end is
// clamped to len(text); an offset inside a character resolves to that
// character. Invalid UTF-8 bytes count as one character each.
func Locate(text string, off uint32) LineCol {
	end := min(int(off), len(text))
	lineStart := strings.LastIndexByte(text[:end], '\n') + 1
	col := 1
	for i := lineStart; i < end; {
		_, size := utf8.DecodeRuneInString(text[i:])
		if i+size > end {
			break
		}
		i += size
		col++
	}
	return LineCol{
		Line: safecast.MustConv[uint32](strings.Count(text[:lineStart], "\n") + 1),
		Col:  safecast.MustConv[uint32](col),
	}
}
