// Package tsrust builds ast.Tree values from tree-sitter-rust parse trees.
// It is an alternative to internal/parser and yields the same calls, groups
// and tokens for well-formed input.
package tsrust

import (
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
)

// ParserPool recycles tree-sitter parsers configured for Rust.
// Safe for use by multiple goroutines.
type ParserPool struct {
	lang *sitter.Language
	pool sync.Pool
}

func NewParserPool() *ParserPool {
	lang := sitter.NewLanguage(tree_sitter_rust.Language())
	p := &ParserPool{lang: lang}
	p.pool = sync.Pool{
		New: func() any {
			sp := sitter.NewParser()
			_ = sp.SetLanguage(lang)
			return sp
		},
	}
	return p
}

// Get returns a parser ready for Rust input.
func (p *ParserPool) Get() *sitter.Parser {
	sp := p.pool.Get().(*sitter.Parser)
	_ = sp.SetLanguage(p.lang)
	return sp
}

// Put resets sp and hands it back. sp must not be used afterwards.
func (p *ParserPool) Put(sp *sitter.Parser) {
	if sp == nil {
		return
	}
	sp.Reset()
	p.pool.Put(sp)
}

var defaultPool = NewParserPool()
