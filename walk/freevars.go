package walk

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/panyam/pgcl/ast"
)

// VarSet is a set of variable names.
type VarSet = mapset.Set[ast.Var]

func newVarSet(names ...ast.Var) VarSet {
	return mapset.NewThreadUnsafeSet(names...)
}

type freeVarsOptions struct {
	constants map[ast.Var]ast.Expr
	cache     *Cache
}

type FreeVarsOption func(*freeVarsOptions)

// WithConstants makes references to the given constants contribute the free
// variables of their values instead of their own names.  Without it, a
// constant reference counts as a free occurrence of the constant's name.
func WithConstants(values map[ast.Var]ast.Expr) FreeVarsOption {
	return func(o *freeVarsOptions) { o.constants = values }
}

// WithCache memoizes results per expression node.  The cache is not
// consulted when constants are inlined since the result then depends on
// more than the node.
func WithCache(c *Cache) FreeVarsOption {
	return func(o *freeVarsOptions) { o.cache = c }
}

// FreeVars collects the names of the variables occurring free in n.
// Binding sites are not occurrences: assigned names, declared names, the
// parameter of an optimization query and plotted variables are not
// included unless they also occur in an expression.  For a deferred
// substitution t[m] the result is FV(t) \ dom m together with FV(m(x)) for
// every x of dom m that is free in t.
func FreeVars(n ast.Node, opts ...FreeVarsOption) VarSet {
	c := newCollector(opts)
	return c.node(n)
}

func FreeVarsExpr(e ast.Expr, opts ...FreeVarsOption) VarSet {
	return FreeVars(e, opts...)
}

// FreeVarsProgram collects the free variables of a whole program, inlining
// constants when the program's config asks for it.
func FreeVarsProgram(p *ast.Program, opts ...FreeVarsOption) VarSet {
	if p.Config.InlineConstants {
		opts = append(opts, WithConstants(p.ConstantValues()))
	}
	return FreeVars(p, opts...)
}

type collector struct {
	freeVarsOptions
	inlining map[ast.Var]bool // constants being expanded, guards against cycles
}

func newCollector(opts []FreeVarsOption) *collector {
	c := &collector{inlining: map[ast.Var]bool{}}
	for _, opt := range opts {
		opt(&c.freeVarsOptions)
	}
	if len(c.constants) > 0 {
		c.cache = nil
	}
	return c
}

func (c *collector) node(n ast.Node) VarSet {
	if e, ok := ast.AsExpr(n); ok {
		return c.expr(e)
	}
	out := newVarSet()
	for _, child := range ast.Children(n) {
		out = out.Union(c.node(child))
	}
	return out
}

func (c *collector) expr(e ast.Expr) VarSet {
	if c.cache != nil {
		if vars, ok := c.cache.Get(e); ok {
			return vars
		}
	}
	var out VarSet
	switch e := e.(type) {
	case *ast.VarExpr:
		out = c.variable(e.Var)
	case *ast.SubstExpr:
		target := c.expr(e.Expr)
		out = target.Clone()
		for name := range e.Subst {
			out.Remove(name)
		}
		for name, value := range e.Subst {
			if target.Contains(name) {
				out = out.Union(c.expr(value))
			}
		}
	default:
		out = newVarSet()
		for _, child := range ast.Children(e) {
			out = out.Union(c.node(child))
		}
	}
	if c.cache != nil {
		c.cache.Add(e, out)
	}
	return out
}

func (c *collector) variable(name ast.Var) VarSet {
	value, isConst := c.constants[name]
	if !isConst || c.inlining[name] {
		return newVarSet(name)
	}
	c.inlining[name] = true
	defer delete(c.inlining, name)
	return c.expr(value)
}
