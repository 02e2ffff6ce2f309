package parser

import (
	"errors"
	"fmt"
)

var ErrSyntax = errors.New("syntax error")

// ParseError is a syntax error at a position of the source.
type ParseError struct {
	Line int
	Col  int
	Near string // Text of the offending token
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("Error at Line %d, Col %d near '%s': %s", e.Line, e.Col, e.Near, e.Msg)
}

func (e *ParseError) Is(target error) bool { return target == ErrSyntax }

// NodeError is an ast constructor rejecting what the parser read.  It keeps
// the position and unwraps to the ast error.
type NodeError struct {
	Line int
	Col  int
	Err  error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("Error at Line %d, Col %d: %v", e.Line, e.Col, e.Err)
}

func (e *NodeError) Unwrap() error { return e.Err }
