package loader

import (
	"fmt"
	"io"

	"github.com/panyam/pgcl/ast"
	"github.com/panyam/pgcl/parser"
)

// Parser builds a program from source text.
type Parser interface {
	// Parse reads from the input reader and returns the built program.
	// sourceName is used for context in error messages (e.g., file path).
	Parse(input io.Reader, sourceName string, cfg ast.ProgramConfig, opts ...ast.BuildOption) (*ast.Program, error)
}

// FileSystem is the read side of a file store.  Paths are slash separated
// and interpreted by the implementation.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	Exists(path string) bool
}

// SourceParser reads programs with the parser package.
type SourceParser struct{}

func (SourceParser) Parse(input io.Reader, sourceName string, cfg ast.ProgramConfig, opts ...ast.BuildOption) (*ast.Program, error) {
	prog, err := parser.Parse(input, cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("in '%s': %w", sourceName, err)
	}
	return prog, nil
}
