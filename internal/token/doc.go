// Package token defines lexical token kinds and trivia for Rust-like sources.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly (Start..End).
//   - Keywords are lexed as Ident; LookupKeyword classifies them. Macro names
//     such as macro_rules are ordinary identifiers.
//   - '!' directly followed by '=' is BangEq, so `a != b` never looks like a
//     macro call.
//   - Comments and whitespace are leading Trivia and never appear in the main
//     token stream.
package token
