package parser

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"mexpand/internal/ast"
	"mexpand/internal/diag"
	"mexpand/internal/lexer"
	"mexpand/internal/source"
	"mexpand/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	Tree *ast.Tree
	Bag  *diag.Bag
}

// Parser - состояние парсера на один файл
type Parser struct {
	lx       *lexer.Lexer
	arenas   *ast.Builder
	file     *source.File
	opts     Options
	lastSpan source.Span // span последнего съеденного токена для лучшей диагностики
	open     []token.Token
}

// ParseFile scans a file for macro calls and macro_rules! definitions.
// Macro calls nested in another call's argument group belong to that
// argument and are not reported as separate calls.
func ParseFile(file *source.File, lx *lexer.Lexer, opts Options) Result {
	p := Parser{
		lx:     lx,
		arenas: ast.NewBuilder(ast.Hints{}),
		file:   file,
		opts:   opts,
	}
	p.parseTop()

	var bag *diag.Bag
	switch br := opts.Reporter.(type) {
	case *diag.BagReporter:
		bag = br.Bag
	case diag.BagReporter:
		bag = br.Bag
	}
	return Result{
		Tree: p.arenas.Finish(file),
		Bag:  bag,
	}
}

// Parse lexes and parses file, sending lexer and parser diagnostics to opts.Reporter.
func Parse(file *source.File, opts Options) Result {
	lx := lexer.New(file, lexer.Options{Reporter: opts.Reporter})
	return ParseFile(file, lx, opts)
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

// parseTop - основной цикл: ищем `path !`, остальное пропускаем,
// отслеживая баланс скобок вне вызовов.
func (p *Parser) parseTop() {
	for !p.at(token.EOF) {
		tok := p.lx.Peek()
		switch {
		case tok.Kind == token.Ident, tok.Kind == token.ColonColon:
			p.parsePathOrCall()
		case tok.Kind.IsOpenDelim():
			p.open = append(p.open, p.advance())
		case tok.Kind.IsCloseDelim():
			p.advance()
			p.closeTop(tok)
		default:
			p.advance()
		}
	}
	for _, open := range p.open {
		p.report(diag.SynUnclosedDelimiter, diag.SevError, open.Span,
			fmt.Sprintf("unclosed delimiter '%s'", open.Text))
	}
}

func (p *Parser) closeTop(tok token.Token) {
	for i := len(p.open) - 1; i >= 0; i-- {
		if p.open[i].Kind.Closer() != tok.Kind {
			continue
		}
		for _, unclosed := range p.open[i+1:] {
			p.report(diag.SynUnclosedDelimiter, diag.SevError, unclosed.Span,
				fmt.Sprintf("unclosed delimiter '%s'", unclosed.Text))
		}
		p.open = p.open[:i]
		return
	}
	p.report(diag.SynUnbalancedClose, diag.SevError, tok.Span,
		fmt.Sprintf("unexpected closing delimiter '%s'", tok.Text))
}

// parsePathOrCall съедает путь a::b::c; если за ним '!', строит вызов или определение.
func (p *Parser) parsePathOrCall() {
	first := p.lx.Peek()
	if first.Kind == token.ColonColon {
		p.advance()
		if !p.at(token.Ident) {
			return
		}
	}

	var (
		path     []string
		nameTok  token.Token
		keywords bool
	)
	for {
		nameTok = p.advance()
		path = append(path, unraw(nameTok.Text))
		keywords = nameTok.IsKeyword()
		if !p.at(token.ColonColon) {
			break
		}
		p.advance()
		if !p.at(token.Ident) {
			return
		}
	}

	// `if !x`, `return !done` - не вызовы
	if keywords || !p.at(token.Bang) {
		return
	}
	bang := p.advance()

	if len(path) == 1 && path[0] == "macro_rules" && p.at(token.Ident) {
		p.parseMacroRules(first, p.advance())
		return
	}

	call := ast.Call{
		Span:     first.Span.Cover(bang.Span),
		Path:     path,
		NameSpan: nameTok.Span,
		Bang:     bang.Span,
	}
	if p.lx.Peek().Kind.IsOpenDelim() {
		call.Group = p.parseGroup()
		call.Span = call.Span.Cover(p.arenas.Groups.Get(uint32(call.Group)).Span)
	} else {
		p.report(diag.SynExpectDelimiter, diag.SevError, p.getDiagnosticSpan(),
			fmt.Sprintf("expected one of '(', '[' or '{' after '%s!'", strings.Join(path, "::")))
	}
	p.arenas.NewCall(call)
}

func (p *Parser) parseMacroRules(start, name token.Token) {
	def := ast.MacroDef{
		Name:     unraw(name.Text),
		NameSpan: name.Span,
		Span:     start.Span.Cover(name.Span),
	}
	if p.lx.Peek().Kind.IsOpenDelim() {
		def.Body = p.parseGroup()
		def.Span = def.Span.Cover(p.arenas.Groups.Get(uint32(def.Body)).Span)
	} else {
		p.report(diag.SynExpectDelimiter, diag.SevError, p.getDiagnosticSpan(),
			fmt.Sprintf("expected macro body after 'macro_rules! %s'", def.Name))
	}
	p.arenas.NewDef(def)
}

// parseGroup съедает сбалансированную группу начиная с открывающей скобки.
// Незакрытая группа тянется до конца файла.
func (p *Parser) parseGroup() ast.GroupID {
	open := p.advance()
	stack := []token.Token{open}
	var toks []token.Token

	for {
		tok := p.lx.Peek()
		switch {
		case tok.Kind == token.EOF:
			for i := len(stack) - 1; i >= 0; i-- {
				p.report(diag.SynUnclosedDelimiter, diag.SevError, stack[i].Span,
					fmt.Sprintf("unclosed delimiter '%s'", stack[i].Text))
			}
			return p.arenas.NewGroup(ast.Group{
				Open:   open.Kind,
				Span:   source.Span{File: open.Span.File, Start: open.Span.Start, End: p.fileLen()},
				Tokens: toks,
			})

		case tok.Kind.IsOpenDelim():
			stack = append(stack, p.advance())
			toks = append(toks, tok)

		case tok.Kind.IsCloseDelim():
			p.advance()
			depth := matchingOpen(stack, tok.Kind)
			if depth < 0 {
				p.report(diag.SynUnbalancedClose, diag.SevError, tok.Span,
					fmt.Sprintf("unexpected closing delimiter '%s'", tok.Text))
				toks = append(toks, tok)
				continue
			}
			for _, unclosed := range stack[depth+1:] {
				p.report(diag.SynUnclosedDelimiter, diag.SevError, unclosed.Span,
					fmt.Sprintf("unclosed delimiter '%s'", unclosed.Text))
			}
			stack = stack[:depth]
			if len(stack) == 0 {
				return p.arenas.NewGroup(ast.Group{
					Open:   open.Kind,
					Span:   open.Span.Cover(tok.Span),
					Closed: true,
					Tokens: toks,
				})
			}
			toks = append(toks, tok)

		default:
			toks = append(toks, p.advance())
		}
	}
}

func matchingOpen(stack []token.Token, closer token.Kind) int {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].Kind.Closer() == closer {
			return i
		}
	}
	return -1
}

func (p *Parser) fileLen() uint32 {
	n, err := safecast.Conv[uint32](len(p.file.Content))
	if err != nil {
		panic(fmt.Errorf("file length overflow: %w", err))
	}
	return n
}

func unraw(ident string) string {
	return strings.TrimPrefix(ident, "r#")
}
