package ast

import (
	"maps"
	"slices"

	"github.com/shopspring/decimal"
)

// Equal reports whether a and b are structurally equal.  Nodes of different
// families are never equal, and decimals compare by value so 0.50 equals 0.5.
// A Program's Config does not take part in equality.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch a := a.(type) {
	case Type:
		if b, ok := b.(Type); ok {
			return equalType(a, b)
		}
	case Decl:
		if b, ok := b.(Decl); ok {
			return equalDecl(a, b)
		}
	case Expr:
		if b, ok := b.(Expr); ok {
			return equalExpr(a, b)
		}
	case Instr:
		if b, ok := b.(Instr); ok {
			return equalInstr(a, b)
		}
	case *Program:
		if b, ok := b.(*Program); ok {
			return equalProgram(a, b)
		}
	}
	return false
}

func equalType(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return MatchType(a, typeEq{b})
}

func equalDecl(a, b Decl) bool { return MatchDecl(a, declEq{b}) }

func equalExpr(a, b Expr) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return MatchExpr(a, exprEq{b})
}

func equalInstr(a, b Instr) bool { return MatchInstr(a, instrEq{b}) }

func equalInstrs(a, b []Instr) bool { return slices.EqualFunc(a, b, equalInstr) }

func equalProgram(a, b *Program) bool {
	return slices.EqualFunc(a.Declarations, b.Declarations, equalDecl) &&
		equalInstrs(a.Instructions, b.Instructions)
}

func equalDecimalPtr(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func equalUintPtr(a, b *uint64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// ---- Types

type typeEq struct{ other Type }

var _ TypeVisitor[bool] = typeEq{}

func (v typeEq) VisitBoolType(*BoolType) bool {
	_, ok := v.other.(*BoolType)
	return ok
}

func (v typeEq) VisitRealType(*RealType) bool {
	_, ok := v.other.(*RealType)
	return ok
}

func (v typeEq) VisitNatType(t *NatType) bool {
	o, ok := v.other.(*NatType)
	return ok && t.Bounds.Equal(o.Bounds)
}

// ---- Declarations

type declEq struct{ other Decl }

var _ DeclVisitor[bool] = declEq{}

func (v declEq) VisitVarDecl(d *VarDecl) bool {
	o, ok := v.other.(*VarDecl)
	return ok && d.Var == o.Var && equalType(d.Typ, o.Typ)
}

func (v declEq) VisitConstDecl(d *ConstDecl) bool {
	o, ok := v.other.(*ConstDecl)
	return ok && d.Var == o.Var && equalExpr(d.Value, o.Value)
}

func (v declEq) VisitParameterDecl(d *ParameterDecl) bool {
	o, ok := v.other.(*ParameterDecl)
	return ok && d.Var == o.Var && equalType(d.Typ, o.Typ)
}

// ---- Expressions

type exprEq struct{ other Expr }

var _ ExprVisitor[bool] = exprEq{}

func (v exprEq) VisitVarExpr(e *VarExpr) bool {
	o, ok := v.other.(*VarExpr)
	return ok && e.Var == o.Var
}

func (v exprEq) VisitBoolLitExpr(e *BoolLitExpr) bool {
	o, ok := v.other.(*BoolLitExpr)
	return ok && e.Value == o.Value
}

func (v exprEq) VisitNatLitExpr(e *NatLitExpr) bool {
	o, ok := v.other.(*NatLitExpr)
	return ok && e.Value == o.Value
}

func (v exprEq) VisitRealLitExpr(e *RealLitExpr) bool {
	o, ok := v.other.(*RealLitExpr)
	return ok && e.Value.Equal(o.Value)
}

func (v exprEq) VisitUnopExpr(e *UnopExpr) bool {
	o, ok := v.other.(*UnopExpr)
	return ok && e.Op == o.Op && equalExpr(e.Expr, o.Expr)
}

func (v exprEq) VisitBinopExpr(e *BinopExpr) bool {
	o, ok := v.other.(*BinopExpr)
	return ok && e.Op == o.Op && equalExpr(e.Lhs, o.Lhs) && equalExpr(e.Rhs, o.Rhs)
}

func (v exprEq) VisitSubstExpr(e *SubstExpr) bool {
	o, ok := v.other.(*SubstExpr)
	return ok && equalExpr(e.Expr, o.Expr) && maps.EqualFunc(e.Subst, o.Subst, equalExpr)
}

func (v exprEq) VisitTickExpr(e *TickExpr) bool {
	o, ok := v.other.(*TickExpr)
	return ok && equalExpr(e.Expr, o.Expr)
}

func (v exprEq) VisitDUniformExpr(e *DUniformExpr) bool {
	o, ok := v.other.(*DUniformExpr)
	return ok && equalExpr(e.Start, o.Start) && equalExpr(e.End, o.End)
}

func (v exprEq) VisitCUniformExpr(e *CUniformExpr) bool {
	o, ok := v.other.(*CUniformExpr)
	return ok && equalExpr(e.Start, o.Start) && equalExpr(e.End, o.End)
}

func (v exprEq) VisitBernoulliExpr(e *BernoulliExpr) bool {
	o, ok := v.other.(*BernoulliExpr)
	return ok && equalExpr(e.Param, o.Param)
}

func (v exprEq) VisitGeometricExpr(e *GeometricExpr) bool {
	o, ok := v.other.(*GeometricExpr)
	return ok && equalExpr(e.Param, o.Param)
}

func (v exprEq) VisitPoissonExpr(e *PoissonExpr) bool {
	o, ok := v.other.(*PoissonExpr)
	return ok && equalExpr(e.Param, o.Param)
}

func (v exprEq) VisitLogDistExpr(e *LogDistExpr) bool {
	o, ok := v.other.(*LogDistExpr)
	return ok && equalExpr(e.Param, o.Param)
}

func (v exprEq) VisitBinomialExpr(e *BinomialExpr) bool {
	o, ok := v.other.(*BinomialExpr)
	return ok && equalExpr(e.N, o.N) && equalExpr(e.P, o.P)
}

func (v exprEq) VisitCategoricalExpr(e *CategoricalExpr) bool {
	o, ok := v.other.(*CategoricalExpr)
	return ok && slices.EqualFunc(e.Entries, o.Entries, func(a, b CategoricalEntry) bool {
		return a.Weight.Equal(b.Weight) && equalExpr(a.Value, b.Value)
	})
}

func (v exprEq) VisitIidSampleExpr(e *IidSampleExpr) bool {
	o, ok := v.other.(*IidSampleExpr)
	return ok && equalExpr(e.Base, o.Base) && equalExpr(e.Count, o.Count)
}

// ---- Instructions

type instrEq struct{ other Instr }

var _ InstrVisitor[bool] = instrEq{}

func (v instrEq) VisitSkipInstr(*SkipInstr) bool {
	_, ok := v.other.(*SkipInstr)
	return ok
}

func (v instrEq) VisitPrintInstr(*PrintInstr) bool {
	_, ok := v.other.(*PrintInstr)
	return ok
}

func (v instrEq) VisitAsgnInstr(i *AsgnInstr) bool {
	o, ok := v.other.(*AsgnInstr)
	return ok && i.Lhs == o.Lhs && equalExpr(i.Rhs, o.Rhs)
}

func (v instrEq) VisitIfInstr(i *IfInstr) bool {
	o, ok := v.other.(*IfInstr)
	return ok && equalExpr(i.Cond, o.Cond) &&
		equalInstrs(i.TrueBranch, o.TrueBranch) && equalInstrs(i.FalseBranch, o.FalseBranch)
}

func (v instrEq) VisitWhileInstr(i *WhileInstr) bool {
	o, ok := v.other.(*WhileInstr)
	return ok && equalExpr(i.Cond, o.Cond) && equalInstrs(i.Body, o.Body)
}

func (v instrEq) VisitLoopInstr(i *LoopInstr) bool {
	o, ok := v.other.(*LoopInstr)
	return ok && equalExpr(i.Iterations, o.Iterations) && equalInstrs(i.Body, o.Body)
}

func (v instrEq) VisitChoiceInstr(i *ChoiceInstr) bool {
	o, ok := v.other.(*ChoiceInstr)
	return ok && equalExpr(i.Prob, o.Prob) &&
		equalInstrs(i.LhsBranch, o.LhsBranch) && equalInstrs(i.RhsBranch, o.RhsBranch)
}

func (v instrEq) VisitTickInstr(i *TickInstr) bool {
	o, ok := v.other.(*TickInstr)
	return ok && equalExpr(i.Expr, o.Expr)
}

func (v instrEq) VisitObserveInstr(i *ObserveInstr) bool {
	o, ok := v.other.(*ObserveInstr)
	return ok && equalExpr(i.Cond, o.Cond)
}

func (v instrEq) VisitExpectationInstr(i *ExpectationInstr) bool {
	o, ok := v.other.(*ExpectationInstr)
	return ok && equalExpr(i.Expr, o.Expr)
}

func (v instrEq) VisitProbabilityQueryInstr(i *ProbabilityQueryInstr) bool {
	o, ok := v.other.(*ProbabilityQueryInstr)
	return ok && equalExpr(i.Expr, o.Expr)
}

func (v instrEq) VisitOptimizationQuery(i *OptimizationQuery) bool {
	o, ok := v.other.(*OptimizationQuery)
	return ok && i.Parameter == o.Parameter && i.Type == o.Type && equalExpr(i.Expr, o.Expr)
}

func (v instrEq) VisitPlotInstr(i *PlotInstr) bool {
	o, ok := v.other.(*PlotInstr)
	return ok && i.Var1 == o.Var1 && i.Var2 == o.Var2 &&
		equalDecimalPtr(i.Prob, o.Prob) && equalUintPtr(i.TermCount, o.TermCount)
}
