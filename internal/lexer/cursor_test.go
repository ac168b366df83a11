package lexer

import (
	"testing"

	"mexpand/internal/source"
)

func createFile(content string) *source.File {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.rs", []byte(content))
	return fs.Get(id)
}

func TestCursorWalk(t *testing.T) {
	cursor := NewCursor(createFile("m!\n"))

	for i, want := range []byte{'m', '!', '\n'} {
		if cursor.EOF() {
			t.Fatalf("step %d: unexpected EOF", i)
		}
		if got := cursor.Peek(); got != want {
			t.Fatalf("step %d: peek %q, want %q", i, got, want)
		}
		if got := cursor.Bump(); got != want {
			t.Fatalf("step %d: bump %q, want %q", i, got, want)
		}
	}
	if !cursor.EOF() || cursor.Peek() != 0 || cursor.Bump() != 0 {
		t.Fatalf("cursor must stay at EOF and yield zero bytes")
	}
}

func TestCursorLookahead(t *testing.T) {
	cursor := NewCursor(createFile("..="))

	if b0, b1, b2, ok := cursor.Peek3(); !ok || b0 != '.' || b1 != '.' || b2 != '=' {
		t.Fatalf("Peek3 = %q %q %q %v", b0, b1, b2, ok)
	}
	cursor.Bump()
	if _, _, _, ok := cursor.Peek3(); ok {
		t.Fatalf("Peek3 must fail with two bytes left")
	}
	if b0, b1, ok := cursor.Peek2(); !ok || b0 != '.' || b1 != '=' {
		t.Fatalf("Peek2 = %q %q %v", b0, b1, ok)
	}
	cursor.Bump()
	if b0, b1, ok := cursor.Peek2(); ok || b0 != 0 || b1 != 0 {
		t.Fatalf("Peek2 at last byte = %q %q %v", b0, b1, ok)
	}
}

func TestCursorSpanFromMultibyte(t *testing.T) {
	file := createFile("α!(")
	cursor := NewCursor(file)
	mark := cursor.Mark()
	cursor.Bump()
	cursor.Bump()

	span := cursor.SpanFrom(mark)
	if span.File != file.ID || span.Start != 0 || span.End != 2 {
		t.Fatalf("unexpected span %+v", span)
	}
	if got := string(span.Slice(file.Content)); got != "α" {
		t.Fatalf("span text %q", got)
	}
}

func TestCursorEatAndReset(t *testing.T) {
	cursor := NewCursor(createFile("r#x"))
	start := cursor.Mark()

	if cursor.Eat('#') {
		t.Fatalf("Eat must not consume a mismatching byte")
	}
	if !cursor.Eat('r') || !cursor.Eat('#') {
		t.Fatalf("expected to eat prefix")
	}
	cursor.Reset(start)
	if cursor.Peek() != 'r' {
		t.Fatalf("reset did not rewind, at %q", cursor.Peek())
	}
}

func TestCursorLimit(t *testing.T) {
	cursor := NewCursor(createFile("abc"))
	cursor.Limit = 2
	cursor.Bump()
	cursor.Bump()
	if !cursor.EOF() {
		t.Fatalf("cursor must stop at Limit")
	}
}
