package ast

import "fmt"

// The visitor interfaces below list every variant of each union.  Adding a
// variant means adding a method here, which breaks every implementation until
// it handles the new case.  Implementations should assert conformance:
//
//	var _ ast.ExprVisitor[string] = (*myVisitor)(nil)
//
// Code that must cover every variant goes through the Match functions.  A
// type switch is fine for picking out a few variants and ignoring the rest.

type TypeVisitor[R any] interface {
	VisitBoolType(*BoolType) R
	VisitNatType(*NatType) R
	VisitRealType(*RealType) R
}

type DeclVisitor[R any] interface {
	VisitVarDecl(*VarDecl) R
	VisitConstDecl(*ConstDecl) R
	VisitParameterDecl(*ParameterDecl) R
}

type ExprVisitor[R any] interface {
	VisitVarExpr(*VarExpr) R
	VisitBoolLitExpr(*BoolLitExpr) R
	VisitNatLitExpr(*NatLitExpr) R
	VisitRealLitExpr(*RealLitExpr) R
	VisitUnopExpr(*UnopExpr) R
	VisitBinopExpr(*BinopExpr) R
	VisitSubstExpr(*SubstExpr) R
	VisitTickExpr(*TickExpr) R
	VisitDUniformExpr(*DUniformExpr) R
	VisitCUniformExpr(*CUniformExpr) R
	VisitBernoulliExpr(*BernoulliExpr) R
	VisitGeometricExpr(*GeometricExpr) R
	VisitPoissonExpr(*PoissonExpr) R
	VisitLogDistExpr(*LogDistExpr) R
	VisitBinomialExpr(*BinomialExpr) R
	VisitCategoricalExpr(*CategoricalExpr) R
	VisitIidSampleExpr(*IidSampleExpr) R
}

type InstrVisitor[R any] interface {
	VisitSkipInstr(*SkipInstr) R
	VisitAsgnInstr(*AsgnInstr) R
	VisitIfInstr(*IfInstr) R
	VisitWhileInstr(*WhileInstr) R
	VisitLoopInstr(*LoopInstr) R
	VisitChoiceInstr(*ChoiceInstr) R
	VisitTickInstr(*TickInstr) R
	VisitObserveInstr(*ObserveInstr) R
	VisitExpectationInstr(*ExpectationInstr) R
	VisitProbabilityQueryInstr(*ProbabilityQueryInstr) R
	VisitOptimizationQuery(*OptimizationQuery) R
	VisitPrintInstr(*PrintInstr) R
	VisitPlotInstr(*PlotInstr) R
}

func MatchType[R any](t Type, v TypeVisitor[R]) R {
	switch t := t.(type) {
	case *BoolType:
		return v.VisitBoolType(t)
	case *NatType:
		return v.VisitNatType(t)
	case *RealType:
		return v.VisitRealType(t)
	}
	panic(fmt.Sprintf("ast: unhandled type variant %T", t))
}

func MatchDecl[R any](d Decl, v DeclVisitor[R]) R {
	switch d := d.(type) {
	case *VarDecl:
		return v.VisitVarDecl(d)
	case *ConstDecl:
		return v.VisitConstDecl(d)
	case *ParameterDecl:
		return v.VisitParameterDecl(d)
	}
	panic(fmt.Sprintf("ast: unhandled declaration variant %T", d))
}

func MatchExpr[R any](e Expr, v ExprVisitor[R]) R {
	switch e := e.(type) {
	case *VarExpr:
		return v.VisitVarExpr(e)
	case *BoolLitExpr:
		return v.VisitBoolLitExpr(e)
	case *NatLitExpr:
		return v.VisitNatLitExpr(e)
	case *RealLitExpr:
		return v.VisitRealLitExpr(e)
	case *UnopExpr:
		return v.VisitUnopExpr(e)
	case *BinopExpr:
		return v.VisitBinopExpr(e)
	case *SubstExpr:
		return v.VisitSubstExpr(e)
	case *TickExpr:
		return v.VisitTickExpr(e)
	case *DUniformExpr:
		return v.VisitDUniformExpr(e)
	case *CUniformExpr:
		return v.VisitCUniformExpr(e)
	case *BernoulliExpr:
		return v.VisitBernoulliExpr(e)
	case *GeometricExpr:
		return v.VisitGeometricExpr(e)
	case *PoissonExpr:
		return v.VisitPoissonExpr(e)
	case *LogDistExpr:
		return v.VisitLogDistExpr(e)
	case *BinomialExpr:
		return v.VisitBinomialExpr(e)
	case *CategoricalExpr:
		return v.VisitCategoricalExpr(e)
	case *IidSampleExpr:
		return v.VisitIidSampleExpr(e)
	}
	panic(fmt.Sprintf("ast: unhandled expression variant %T", e))
}

func MatchInstr[R any](i Instr, v InstrVisitor[R]) R {
	switch i := i.(type) {
	case *SkipInstr:
		return v.VisitSkipInstr(i)
	case *AsgnInstr:
		return v.VisitAsgnInstr(i)
	case *IfInstr:
		return v.VisitIfInstr(i)
	case *WhileInstr:
		return v.VisitWhileInstr(i)
	case *LoopInstr:
		return v.VisitLoopInstr(i)
	case *ChoiceInstr:
		return v.VisitChoiceInstr(i)
	case *TickInstr:
		return v.VisitTickInstr(i)
	case *ObserveInstr:
		return v.VisitObserveInstr(i)
	case *ExpectationInstr:
		return v.VisitExpectationInstr(i)
	case *ProbabilityQueryInstr:
		return v.VisitProbabilityQueryInstr(i)
	case *OptimizationQuery:
		return v.VisitOptimizationQuery(i)
	case *PrintInstr:
		return v.VisitPrintInstr(i)
	case *PlotInstr:
		return v.VisitPlotInstr(i)
	}
	panic(fmt.Sprintf("ast: unhandled instruction variant %T", i))
}
