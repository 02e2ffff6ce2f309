// Package walk rewrites pGCL trees.  Every function here returns a new tree
// and leaves its input untouched; subtrees that a rewrite does not change are
// shared between the input and the output rather than copied.
package walk

import (
	"github.com/panyam/pgcl/ast"
)

// Order decides when an ExprFunc sees a node relative to its children.
type Order int

const (
	// PreOrder offers each node to the transform before its children.  A
	// node the transform replaces is not descended into, so a replacement
	// is never rewritten again.
	PreOrder Order = iota

	// PostOrder rebuilds the children first and then offers the rebuilt
	// node to the transform.
	PostOrder
)

// ExprFunc rewrites a single expression.  It returns false to keep the
// expression as it is.
type ExprFunc func(ast.Expr) (ast.Expr, bool)

// InstrFunc replaces one instruction by zero or more instructions.  It
// returns false to keep the instruction as it is.
type InstrFunc func(ast.Instr) ([]ast.Instr, bool)

// Expr rewrites every expression of the tree rooted at e with f.
func Expr(e ast.Expr, order Order, f ExprFunc) ast.Expr {
	return (&rewriter{order: order, f: f}).expr(e)
}

// Instr rewrites every expression within i, including those of nested blocks.
func Instr(i ast.Instr, order Order, f ExprFunc) ast.Instr {
	return (&rewriter{order: order, f: f}).instr(i)
}

// Instrs is Instr over a sequence of instructions.
func Instrs(instrs []ast.Instr, order Order, f ExprFunc) []ast.Instr {
	return (&rewriter{order: order, f: f}).instrs(instrs)
}

// Decl rewrites the value of a constant.  Names and types are left alone.
func Decl(d ast.Decl, order Order, f ExprFunc) ast.Decl {
	r := &rewriter{order: order, f: f}
	if c, ok := ast.Cast[*ast.ConstDecl](d); ok {
		if v := r.expr(c.Value); v != c.Value {
			return &ast.ConstDecl{Var: c.Var, Value: v}
		}
	}
	return d
}

// Program rewrites every expression of p, in constants and instructions.
// The config is carried over unchanged.
func Program(p *ast.Program, order Order, f ExprFunc) *ast.Program {
	decls := mapShared(p.Declarations, func(d ast.Decl) ast.Decl { return Decl(d, order, f) })
	instrs := Instrs(p.Instructions, order, f)
	if sameSlice(decls, p.Declarations) && sameSlice(instrs, p.Instructions) {
		return p
	}
	return &ast.Program{Config: p.Config, Declarations: decls, Instructions: instrs}
}

// MapInstrs rewrites instruction sequences bottom up: the bodies of compound
// instructions are mapped before f sees the rebuilt instruction.
func MapInstrs(instrs []ast.Instr, f InstrFunc) []ast.Instr {
	m := &instrMapper{f: f}
	return m.instrs(instrs)
}

// mapShared applies f to each element and returns items itself when no
// element changed.
func mapShared[T comparable](items []T, f func(T) T) []T {
	var out []T
	for idx, item := range items {
		mapped := f(item)
		if out == nil && mapped != item {
			out = make([]T, len(items))
			copy(out, items[:idx])
		}
		if out != nil {
			out[idx] = mapped
		}
	}
	if out == nil {
		return items
	}
	return out
}

func sameSlice[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
