package driver

import (
	"fortio.org/safecast"

	"mexpand/internal/ast"
	"mexpand/internal/diag"
	"mexpand/internal/lexer"
	"mexpand/internal/parser"
	"mexpand/internal/project"
	"mexpand/internal/source"
	"mexpand/internal/token"
	"mexpand/internal/tsrust"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize lexes one file; the last token is EOF.
func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	fs, file, bag, err := loadSingle(path, maxDiagnostics)
	if err != nil {
		return nil, err
	}
	lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  lx.All(),
		Bag:     bag,
	}, nil
}

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tree    *ast.Tree
	Bag     *diag.Bag
}

// Parse finds the macro calls of one file with the chosen backend.
func Parse(path string, syntax project.Syntax, maxDiagnostics int) (*ParseResult, error) {
	fs, file, bag, err := loadSingle(path, maxDiagnostics)
	if err != nil {
		return nil, err
	}
	rep := diag.BagReporter{Bag: bag}

	var tree *ast.Tree
	if syntax == project.SyntaxTreeSitter {
		tree = tsrust.Parse(file, rep)
	} else {
		maxErrors, err := safecast.Conv[uint](maxDiagnostics)
		if err != nil {
			return nil, err
		}
		tree = parser.Parse(file, parser.Options{Reporter: rep, MaxErrors: maxErrors}).Tree
	}
	return &ParseResult{
		FileSet: fs,
		File:    file,
		Tree:    tree,
		Bag:     bag,
	}, nil
}

func loadSingle(path string, maxDiagnostics int) (*source.FileSet, *source.File, *diag.Bag, error) {
	if maxDiagnostics <= 0 {
		maxDiagnostics = project.DefaultMaxDiagnostics
	}
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, nil, nil, err
	}
	return fs, fs.Get(fileID), diag.NewBag(maxDiagnostics), nil
}
