package walk

import (
	"fmt"
	"maps"

	"github.com/panyam/pgcl/ast"
)

// Mapping assigns replacement expressions to variable names.
type Mapping = map[ast.Var]ast.Expr

// Substitute replaces every free occurrence of the keys of mapping in n by
// the mapped expressions, simultaneously and in a single pass: replacements
// are never themselves rewritten.  Binding sites are left alone, that is the
// left hand side of assignments, declaration names, the parameter of an
// optimization query and the variables of a plot.
//
// Deferred substitutions already in the tree are composed with mapping
// instead of being entered, so names they bind are never captured.
//
// An empty mapping returns n itself.  The only failure is a mapping key that
// can never name a variable, reported as an *ast.UnboundTargetError.
func Substitute(n ast.Node, mapping Mapping) (ast.Node, error) {
	switch n := n.(type) {
	case ast.Type:
		return n, validateMapping(mapping)
	case ast.Decl:
		return SubstituteDecl(n, mapping)
	case ast.Expr:
		return SubstituteExpr(n, mapping)
	case ast.Instr:
		return SubstituteInstr(n, mapping)
	case *ast.Program:
		return SubstituteProgram(n, mapping)
	}
	panic(fmt.Sprintf("walk: cannot substitute into %T", n))
}

func SubstituteExpr(e ast.Expr, mapping Mapping) (ast.Expr, error) {
	if err := validateMapping(mapping); err != nil || len(mapping) == 0 {
		return e, err
	}
	return Expr(e, PreOrder, substitution(mapping)), nil
}

func SubstituteInstr(i ast.Instr, mapping Mapping) (ast.Instr, error) {
	if err := validateMapping(mapping); err != nil || len(mapping) == 0 {
		return i, err
	}
	return Instr(i, PreOrder, substitution(mapping)), nil
}

func SubstituteInstrs(instrs []ast.Instr, mapping Mapping) ([]ast.Instr, error) {
	if err := validateMapping(mapping); err != nil || len(mapping) == 0 {
		return instrs, err
	}
	return Instrs(instrs, PreOrder, substitution(mapping)), nil
}

// SubstituteDecl only ever touches the value of a constant; the declared
// name is a binding site.
func SubstituteDecl(d ast.Decl, mapping Mapping) (ast.Decl, error) {
	if err := validateMapping(mapping); err != nil || len(mapping) == 0 {
		return d, err
	}
	return Decl(d, PreOrder, substitution(mapping)), nil
}

func SubstituteProgram(p *ast.Program, mapping Mapping) (*ast.Program, error) {
	if err := validateMapping(mapping); err != nil || len(mapping) == 0 {
		return p, err
	}
	return Program(p, PreOrder, substitution(mapping)), nil
}

func validateMapping(mapping Mapping) error {
	for _, name := range ast.SortedKeys(mapping) {
		switch {
		case name == "":
			return &ast.UnboundTargetError{Name: name, Reason: "empty name"}
		case ast.IsKeyword(name):
			return &ast.UnboundTargetError{Name: name, Reason: "reserved word"}
		case !ast.IsIdentifier(name):
			return &ast.UnboundTargetError{Name: name, Reason: "not an identifier"}
		case mapping[name] == nil:
			return &ast.UnboundTargetError{Name: name, Reason: "no replacement expression"}
		}
	}
	return nil
}

func substitution(mapping Mapping) ExprFunc {
	return func(e ast.Expr) (ast.Expr, bool) {
		switch e := e.(type) {
		case *ast.VarExpr:
			if v, ok := mapping[e.Var]; ok {
				return v, true
			}
		case *ast.SubstExpr:
			return composeSubst(e, mapping), true
		}
		return nil, false
	}
}

// composeSubst pushes sigma into the deferred substitution t[m]:
//
//	(t[m])sigma = t[m']  where  m'(x) = m(x)sigma  for x in dom m
//	                            m'(y) = sigma(y)    for y in FV(t) \ dom m
//
// The target t is kept as is since every name of dom m is bound in it.
func composeSubst(e *ast.SubstExpr, sigma Mapping) ast.Expr {
	var composed Mapping
	set := func(k ast.Var, v ast.Expr) {
		if composed == nil {
			composed = maps.Clone(e.Subst)
			if composed == nil {
				composed = Mapping{}
			}
		}
		composed[k] = v
	}
	sub := substitution(sigma)
	for _, k := range ast.SortedKeys(e.Subst) {
		if v := Expr(e.Subst[k], PreOrder, sub); v != e.Subst[k] {
			set(k, v)
		}
	}
	free := FreeVarsExpr(e.Expr)
	for _, y := range ast.SortedKeys(sigma) {
		if _, bound := e.Subst[y]; !bound && free.Contains(y) {
			set(y, sigma[y])
		}
	}
	if composed == nil {
		return e
	}
	return &ast.SubstExpr{Subst: composed, Expr: e.Expr}
}
