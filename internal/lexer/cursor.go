package lexer

import (
	"fmt"

	"fortio.org/safecast"

	"mexpand/internal/source"
)

// Cursor walks the bytes of one file. Lexing a macro argument group only
// reads inside the group, so Limit may end before the file does.
type Cursor struct {
	File *source.File
	Off  uint32
	// Limit is the exclusive end of the readable range; 0 means end of file.
	Limit uint32
}

// NewCursor starts at offset 0 and reads up to the end of f.
func NewCursor(f *source.File) Cursor {
	return Cursor{File: f, Limit: contentLen(f)}
}

func contentLen(f *source.File) uint32 {
	n, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("lexer: file %s is too large: %w", f.Path, err))
	}
	return n
}

func (c *Cursor) limit() uint32 {
	if c.Limit == 0 {
		return contentLen(c.File)
	}
	return c.Limit
}

// EOF: дошли до конца диапазона
func (c *Cursor) EOF() bool {
	return c.Off >= c.limit()
}

// at returns the byte n positions ahead, or false past the range.
func (c *Cursor) at(n uint32) (byte, bool) {
	i := c.Off + n
	if i >= c.limit() {
		return 0, false
	}
	return c.File.Content[i], true
}

// Peek returns the current byte, or 0 at EOF.
func (c *Cursor) Peek() byte {
	b, _ := c.at(0)
	return b
}

// Peek2 returns the current and the next byte; ok is false when the range
// holds fewer than two.
func (c *Cursor) Peek2() (b0, b1 byte, ok bool) {
	if _, ok = c.at(1); !ok {
		return 0, 0, false
	}
	return c.File.Content[c.Off], c.File.Content[c.Off+1], true
}

// Peek3 is Peek2 for three bytes.
func (c *Cursor) Peek3() (b0, b1, b2 byte, ok bool) {
	if _, ok = c.at(2); !ok {
		return 0, 0, 0, false
	}
	return c.File.Content[c.Off], c.File.Content[c.Off+1], c.File.Content[c.Off+2], true
}

// Bump consumes one byte and returns it; at EOF it returns 0 and stays put.
func (c *Cursor) Bump() byte {
	b, ok := c.at(0)
	if ok {
		c.Off++
	}
	return b
}

// Eat consumes b if it is the current byte.
func (c *Cursor) Eat(b byte) bool {
	if cur, ok := c.at(0); ok && cur == b {
		c.Off++
		return true
	}
	return false
}

// Mark is a saved offset: the start of a token, or a point to back off to
// when a raw string or suffix turns out not to be one.
type Mark uint32

func (c *Cursor) Mark() Mark { return Mark(c.Off) }

// SpanFrom is the span from m to the current offset.
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.File.ID, Start: uint32(m), End: c.Off}
}

// Reset moves the cursor back to m.
func (c *Cursor) Reset(m Mark) { c.Off = uint32(m) }
