package ast

import (
	"maps"
	"slices"
)

// Children returns the immediate children of n in a fixed order: textual
// order for operators and applications, the condition before the branches
// and the then branch before the else branch, declarations before
// instructions.  Substitution mappings come after their target in sorted key
// order.
func Children(n Node) []Node {
	switch n := n.(type) {
	case Type:
		return nil
	case Decl:
		return MatchDecl(n, childLister{})
	case Expr:
		return MatchExpr(n, childLister{})
	case Instr:
		return MatchInstr(n, childLister{})
	case *Program:
		out := make([]Node, 0, len(n.Declarations)+len(n.Instructions))
		for _, d := range n.Declarations {
			out = append(out, d)
		}
		return appendInstrs(out, n.Instructions)
	}
	return nil
}

// Inspect walks the tree rooted at n in pre-order, calling f on each node.
// Children of a node are skipped when f returns false for it.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, f)
	}
}

// SortedKeys returns the names bound by a substitution in the order they are
// rendered and walked.
func SortedKeys(subst map[Var]Expr) []Var {
	return slices.Sorted(maps.Keys(subst))
}

func appendInstrs(out []Node, instrs []Instr) []Node {
	for _, i := range instrs {
		out = append(out, i)
	}
	return out
}

func nodes(children ...Node) []Node { return children }

type childLister struct{}

var (
	_ DeclVisitor[[]Node]  = childLister{}
	_ ExprVisitor[[]Node]  = childLister{}
	_ InstrVisitor[[]Node] = childLister{}
)

func (childLister) VisitVarDecl(d *VarDecl) []Node             { return nodes(d.Typ) }
func (childLister) VisitConstDecl(d *ConstDecl) []Node         { return nodes(d.Value) }
func (childLister) VisitParameterDecl(d *ParameterDecl) []Node { return nodes(d.Typ) }

func (childLister) VisitVarExpr(*VarExpr) []Node             { return nil }
func (childLister) VisitBoolLitExpr(*BoolLitExpr) []Node     { return nil }
func (childLister) VisitNatLitExpr(*NatLitExpr) []Node       { return nil }
func (childLister) VisitRealLitExpr(*RealLitExpr) []Node     { return nil }
func (childLister) VisitUnopExpr(e *UnopExpr) []Node         { return nodes(e.Expr) }
func (childLister) VisitBinopExpr(e *BinopExpr) []Node       { return nodes(e.Lhs, e.Rhs) }
func (childLister) VisitTickExpr(e *TickExpr) []Node         { return nodes(e.Expr) }
func (childLister) VisitDUniformExpr(e *DUniformExpr) []Node { return nodes(e.Start, e.End) }
func (childLister) VisitCUniformExpr(e *CUniformExpr) []Node { return nodes(e.Start, e.End) }
func (childLister) VisitBernoulliExpr(e *BernoulliExpr) []Node {
	return nodes(e.Param)
}
func (childLister) VisitGeometricExpr(e *GeometricExpr) []Node { return nodes(e.Param) }
func (childLister) VisitPoissonExpr(e *PoissonExpr) []Node     { return nodes(e.Param) }
func (childLister) VisitLogDistExpr(e *LogDistExpr) []Node     { return nodes(e.Param) }
func (childLister) VisitBinomialExpr(e *BinomialExpr) []Node   { return nodes(e.N, e.P) }
func (childLister) VisitIidSampleExpr(e *IidSampleExpr) []Node { return nodes(e.Base, e.Count) }

func (childLister) VisitSubstExpr(e *SubstExpr) []Node {
	out := nodes(e.Expr)
	for _, k := range SortedKeys(e.Subst) {
		out = append(out, e.Subst[k])
	}
	return out
}

func (childLister) VisitCategoricalExpr(e *CategoricalExpr) []Node {
	out := make([]Node, len(e.Entries))
	for i, entry := range e.Entries {
		out[i] = entry.Value
	}
	return out
}

func (childLister) VisitSkipInstr(*SkipInstr) []Node   { return nil }
func (childLister) VisitPrintInstr(*PrintInstr) []Node { return nil }
func (childLister) VisitPlotInstr(*PlotInstr) []Node   { return nil }
func (childLister) VisitAsgnInstr(i *AsgnInstr) []Node { return nodes(i.Rhs) }
func (childLister) VisitTickInstr(i *TickInstr) []Node { return nodes(i.Expr) }

func (childLister) VisitObserveInstr(i *ObserveInstr) []Node         { return nodes(i.Cond) }
func (childLister) VisitExpectationInstr(i *ExpectationInstr) []Node { return nodes(i.Expr) }
func (childLister) VisitOptimizationQuery(i *OptimizationQuery) []Node {
	return nodes(i.Expr)
}
func (childLister) VisitProbabilityQueryInstr(i *ProbabilityQueryInstr) []Node {
	return nodes(i.Expr)
}

func (childLister) VisitIfInstr(i *IfInstr) []Node {
	return appendInstrs(appendInstrs(nodes(i.Cond), i.TrueBranch), i.FalseBranch)
}

func (childLister) VisitWhileInstr(i *WhileInstr) []Node {
	return appendInstrs(nodes(i.Cond), i.Body)
}

func (childLister) VisitLoopInstr(i *LoopInstr) []Node {
	return appendInstrs(nodes(i.Iterations), i.Body)
}

func (childLister) VisitChoiceInstr(i *ChoiceInstr) []Node {
	return appendInstrs(appendInstrs(nodes(i.Prob), i.LhsBranch), i.RhsBranch)
}
