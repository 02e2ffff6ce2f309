package ast

// --- Interfaces ---

// Node is the capability shared by every element of a pGCL tree: structural
// equality, a hash consistent with that equality and canonical rendering.
//
// Nodes are immutable once built.  Fields are exported so analyses can read
// them directly, but nothing in this module writes to a node after its
// construction and callers must not either; rewrites produce new trees that
// share untouched subtrees with the original.
type Node interface {
	String() string // Canonical pGCL surface syntax
	Equal(other Node) bool
	Hash() uint64
}

// Type is the closed union of value types.
type Type interface {
	Node
	typeNode() // Marker method for types
}

// Decl is the closed union of declarations.
type Decl interface {
	Node
	declNode() // Marker method for declarations

	// Name bound by this declaration
	Name() string
}

// Expr is the closed union of expressions, both state expressions and
// distribution valued ones.
type Expr interface {
	Node
	exprNode() // Marker method for expressions
}

// DistrExpr narrows Expr to the distribution valued variants.
type DistrExpr interface {
	Expr
	distrNode()
}

// Instr is the closed union of instructions.
type Instr interface {
	Node
	instrNode() // Marker method for instructions
}

// Query narrows Instr to the terminal analysis queries.
type Query interface {
	Instr
	queryNode()
}

// Cast narrows a node to the given union or variant.  It is the bridge for
// code that only knows about Node and needs one of the narrow unions back:
//
//	if e, ok := Cast[Expr](n); ok { ... }
func Cast[T Node](n Node) (T, bool) {
	t, ok := n.(T)
	return t, ok
}

// AsType narrows n to a Type.
func AsType(n Node) (Type, bool) { return Cast[Type](n) }

// AsDecl narrows n to a Decl.
func AsDecl(n Node) (Decl, bool) { return Cast[Decl](n) }

// AsExpr narrows n to an Expr.
func AsExpr(n Node) (Expr, bool) { return Cast[Expr](n) }

// AsInstr narrows n to an Instr.  Queries are instructions too.
func AsInstr(n Node) (Instr, bool) { return Cast[Instr](n) }

// AsQuery narrows n to a Query.
func AsQuery(n Node) (Query, bool) { return Cast[Query](n) }

// IsDistr tells whether e is distribution valued.
func IsDistr(e Expr) bool {
	_, ok := e.(DistrExpr)
	return ok
}
