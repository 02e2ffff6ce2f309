package ast

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedNode           = errors.New("malformed node")
	ErrDuplicateName           = errors.New("duplicate declaration name")
	ErrUnboundTarget           = errors.New("unbound substitution target")
	ErrMalformedQueryPlacement = errors.New("malformed query placement")
)

// MalformedNodeError reports a local invariant violated while constructing a node.
type MalformedNodeError struct {
	Node      string // Variant being built, eg "Bounds" or "CategoricalExpr"
	Field     string
	Invariant string
}

func (e *MalformedNodeError) Error() string {
	return fmt.Sprintf("malformed %s: field %s: %s", e.Node, e.Field, e.Invariant)
}

func (e *MalformedNodeError) Is(target error) bool { return target == ErrMalformedNode }

func malformed(node, field, format string, args ...any) error {
	return &MalformedNodeError{Node: node, Field: field, Invariant: fmt.Sprintf(format, args...)}
}

// DuplicateNameError is returned when two declarations of a program share a name.
type DuplicateNameError struct {
	Name          string
	First, Second int // Indexes of the clashing declarations
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("declaration '%s' at index %d already declared at index %d", e.Name, e.Second, e.First)
}

func (e *DuplicateNameError) Is(target error) bool { return target == ErrDuplicateName }

// UnboundTargetError is returned by substitution when a mapping key can never
// name a variable of the language.
type UnboundTargetError struct {
	Name   string
	Reason string
}

func (e *UnboundTargetError) Error() string {
	return fmt.Sprintf("cannot substitute '%s': %s", e.Name, e.Reason)
}

func (e *UnboundTargetError) Is(target error) bool { return target == ErrUnboundTarget }

// MalformedQueryPlacementError is the advisory structural check that queries
// only form the suffix of a program's instruction sequence.
type MalformedQueryPlacementError struct {
	Index  int // Top level instruction index where the violation was found
	Query  string
	Reason string
}

func (e *MalformedQueryPlacementError) Error() string {
	return fmt.Sprintf("instruction %d: %s (query: %s)", e.Index, e.Reason, e.Query)
}

func (e *MalformedQueryPlacementError) Is(target error) bool {
	return target == ErrMalformedQueryPlacement
}
