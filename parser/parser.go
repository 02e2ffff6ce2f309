package parser

import (
	"io"
	"strings"

	"github.com/panyam/pgcl/ast"
)

func newParser(input io.Reader) *LLParser {
	return NewLLParser(NewLexer(input))
}

// Parse reads a whole program: its declarations followed by its
// instructions.  The result is built with ast.Build so the usual program
// checks apply.
func Parse(input io.Reader, cfg ast.ProgramConfig, opts ...ast.BuildOption) (*ast.Program, error) {
	p := newParser(input)
	var decls []ast.Decl
	seen := map[string]int{}
	for isDeclStart(p.PeekToken()) {
		start := p.Peek()
		d, err := p.ParseDecl()
		if err != nil {
			return nil, err
		}
		// ast.Build reports clashes by index, the parser knows where they are
		if first, dup := seen[d.Name()]; dup {
			return nil, p.wrap(start, &ast.DuplicateNameError{Name: d.Name(), First: first, Second: len(decls)})
		}
		seen[d.Name()] = len(decls)
		decls = append(decls, d)
	}
	instrs, err := p.ParseInstrs()
	if err != nil {
		return nil, err
	}
	if err := p.Done(); err != nil {
		return nil, err
	}
	return ast.Build(decls, instrs, cfg, opts...)
}

// ParseProgram parses a program from source text with the given config.
func ParseProgram(src string, cfg ast.ProgramConfig, opts ...ast.BuildOption) (*ast.Program, error) {
	return Parse(strings.NewReader(src), cfg, opts...)
}

func ParseExpr(src string) (ast.Expr, error) {
	p := newParser(strings.NewReader(src))
	e, err := p.ParseExpr()
	if err == nil {
		err = p.Done()
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// ParseInstrs parses a sequence of instructions without declarations.
func ParseInstrs(src string) ([]ast.Instr, error) {
	p := newParser(strings.NewReader(src))
	instrs, err := p.ParseInstrs()
	if err == nil {
		err = p.Done()
	}
	if err != nil {
		return nil, err
	}
	return instrs, nil
}

func ParseDecl(src string) (ast.Decl, error) {
	p := newParser(strings.NewReader(src))
	d, err := p.ParseDecl()
	if err == nil {
		err = p.Done()
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}
