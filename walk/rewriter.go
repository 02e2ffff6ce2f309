package walk

import (
	"maps"

	"github.com/panyam/pgcl/ast"
)

type rewriter struct {
	order Order
	f     ExprFunc
}

var (
	_ ast.ExprVisitor[ast.Expr]   = (*rewriter)(nil)
	_ ast.InstrVisitor[ast.Instr] = (*rewriter)(nil)
)

func (r *rewriter) expr(e ast.Expr) ast.Expr {
	if e == nil {
		return nil
	}
	if r.order == PreOrder {
		if out, ok := r.f(e); ok {
			return out
		}
		return ast.MatchExpr(e, r)
	}
	rebuilt := ast.MatchExpr(e, r)
	if out, ok := r.f(rebuilt); ok {
		return out
	}
	return rebuilt
}

func (r *rewriter) instrs(instrs []ast.Instr) []ast.Instr {
	return mapShared(instrs, r.instr)
}

func (r *rewriter) instr(i ast.Instr) ast.Instr { return ast.MatchInstr(i, r) }

// ---- Expressions

func (r *rewriter) VisitVarExpr(e *ast.VarExpr) ast.Expr         { return e }
func (r *rewriter) VisitBoolLitExpr(e *ast.BoolLitExpr) ast.Expr { return e }
func (r *rewriter) VisitNatLitExpr(e *ast.NatLitExpr) ast.Expr   { return e }
func (r *rewriter) VisitRealLitExpr(e *ast.RealLitExpr) ast.Expr { return e }

func (r *rewriter) VisitUnopExpr(e *ast.UnopExpr) ast.Expr {
	if x := r.expr(e.Expr); x != e.Expr {
		return &ast.UnopExpr{Op: e.Op, Expr: x}
	}
	return e
}

func (r *rewriter) VisitBinopExpr(e *ast.BinopExpr) ast.Expr {
	lhs, rhs := r.expr(e.Lhs), r.expr(e.Rhs)
	if lhs != e.Lhs || rhs != e.Rhs {
		return &ast.BinopExpr{Op: e.Op, Lhs: lhs, Rhs: rhs}
	}
	return e
}

// VisitSubstExpr rewrites the target and the substituted values alike.
// Transforms that care about the binding structure of a deferred
// substitution, like Substitute, intercept SubstExpr before getting here.
func (r *rewriter) VisitSubstExpr(e *ast.SubstExpr) ast.Expr {
	target := r.expr(e.Expr)
	var subst map[ast.Var]ast.Expr
	for _, k := range ast.SortedKeys(e.Subst) {
		if v := r.expr(e.Subst[k]); v != e.Subst[k] {
			if subst == nil {
				subst = maps.Clone(e.Subst)
			}
			subst[k] = v
		}
	}
	if target == e.Expr && subst == nil {
		return e
	}
	if subst == nil {
		subst = e.Subst
	}
	return &ast.SubstExpr{Subst: subst, Expr: target}
}

func (r *rewriter) VisitTickExpr(e *ast.TickExpr) ast.Expr {
	if x := r.expr(e.Expr); x != e.Expr {
		return &ast.TickExpr{Expr: x}
	}
	return e
}

func (r *rewriter) VisitDUniformExpr(e *ast.DUniformExpr) ast.Expr {
	start, end := r.expr(e.Start), r.expr(e.End)
	if start != e.Start || end != e.End {
		return &ast.DUniformExpr{Start: start, End: end}
	}
	return e
}

func (r *rewriter) VisitCUniformExpr(e *ast.CUniformExpr) ast.Expr {
	start, end := r.expr(e.Start), r.expr(e.End)
	if start != e.Start || end != e.End {
		return &ast.CUniformExpr{Start: start, End: end}
	}
	return e
}

func (r *rewriter) VisitBernoulliExpr(e *ast.BernoulliExpr) ast.Expr {
	if p := r.expr(e.Param); p != e.Param {
		return &ast.BernoulliExpr{Param: p}
	}
	return e
}

func (r *rewriter) VisitGeometricExpr(e *ast.GeometricExpr) ast.Expr {
	if p := r.expr(e.Param); p != e.Param {
		return &ast.GeometricExpr{Param: p}
	}
	return e
}

func (r *rewriter) VisitPoissonExpr(e *ast.PoissonExpr) ast.Expr {
	if p := r.expr(e.Param); p != e.Param {
		return &ast.PoissonExpr{Param: p}
	}
	return e
}

func (r *rewriter) VisitLogDistExpr(e *ast.LogDistExpr) ast.Expr {
	if p := r.expr(e.Param); p != e.Param {
		return &ast.LogDistExpr{Param: p}
	}
	return e
}

func (r *rewriter) VisitBinomialExpr(e *ast.BinomialExpr) ast.Expr {
	n, p := r.expr(e.N), r.expr(e.P)
	if n != e.N || p != e.P {
		return &ast.BinomialExpr{N: n, P: p}
	}
	return e
}

func (r *rewriter) VisitCategoricalExpr(e *ast.CategoricalExpr) ast.Expr {
	var entries []ast.CategoricalEntry
	for idx, entry := range e.Entries {
		v := r.expr(entry.Value)
		if v == entry.Value {
			continue
		}
		if entries == nil {
			entries = append([]ast.CategoricalEntry(nil), e.Entries...)
		}
		entries[idx] = ast.CategoricalEntry{Value: v, Weight: entry.Weight}
	}
	if entries == nil {
		return e
	}
	return &ast.CategoricalExpr{Entries: entries}
}

func (r *rewriter) VisitIidSampleExpr(e *ast.IidSampleExpr) ast.Expr {
	base, count := r.expr(e.Base), r.expr(e.Count)
	if base != e.Base || count != e.Count {
		return &ast.IidSampleExpr{Base: base, Count: count}
	}
	return e
}

// ---- Instructions

func (r *rewriter) VisitSkipInstr(i *ast.SkipInstr) ast.Instr   { return i }
func (r *rewriter) VisitPrintInstr(i *ast.PrintInstr) ast.Instr { return i }
func (r *rewriter) VisitPlotInstr(i *ast.PlotInstr) ast.Instr   { return i }

func (r *rewriter) VisitAsgnInstr(i *ast.AsgnInstr) ast.Instr {
	// the assigned name is a binding site and is never rewritten
	if rhs := r.expr(i.Rhs); rhs != i.Rhs {
		return &ast.AsgnInstr{Lhs: i.Lhs, Rhs: rhs}
	}
	return i
}

func (r *rewriter) VisitIfInstr(i *ast.IfInstr) ast.Instr {
	cond, tb, fb := r.expr(i.Cond), r.instrs(i.TrueBranch), r.instrs(i.FalseBranch)
	if cond != i.Cond || !sameSlice(tb, i.TrueBranch) || !sameSlice(fb, i.FalseBranch) {
		return &ast.IfInstr{Cond: cond, TrueBranch: tb, FalseBranch: fb}
	}
	return i
}

func (r *rewriter) VisitWhileInstr(i *ast.WhileInstr) ast.Instr {
	cond, body := r.expr(i.Cond), r.instrs(i.Body)
	if cond != i.Cond || !sameSlice(body, i.Body) {
		return &ast.WhileInstr{Cond: cond, Body: body}
	}
	return i
}

func (r *rewriter) VisitLoopInstr(i *ast.LoopInstr) ast.Instr {
	n, body := r.expr(i.Iterations), r.instrs(i.Body)
	if n != i.Iterations || !sameSlice(body, i.Body) {
		return &ast.LoopInstr{Iterations: n, Body: body}
	}
	return i
}

func (r *rewriter) VisitChoiceInstr(i *ast.ChoiceInstr) ast.Instr {
	prob, lb, rb := r.expr(i.Prob), r.instrs(i.LhsBranch), r.instrs(i.RhsBranch)
	if prob != i.Prob || !sameSlice(lb, i.LhsBranch) || !sameSlice(rb, i.RhsBranch) {
		return &ast.ChoiceInstr{Prob: prob, LhsBranch: lb, RhsBranch: rb}
	}
	return i
}

func (r *rewriter) VisitTickInstr(i *ast.TickInstr) ast.Instr {
	if x := r.expr(i.Expr); x != i.Expr {
		return &ast.TickInstr{Expr: x}
	}
	return i
}

func (r *rewriter) VisitObserveInstr(i *ast.ObserveInstr) ast.Instr {
	if x := r.expr(i.Cond); x != i.Cond {
		return &ast.ObserveInstr{Cond: x}
	}
	return i
}

func (r *rewriter) VisitExpectationInstr(i *ast.ExpectationInstr) ast.Instr {
	if x := r.expr(i.Expr); x != i.Expr {
		return &ast.ExpectationInstr{Expr: x}
	}
	return i
}

func (r *rewriter) VisitProbabilityQueryInstr(i *ast.ProbabilityQueryInstr) ast.Instr {
	if x := r.expr(i.Expr); x != i.Expr {
		return &ast.ProbabilityQueryInstr{Expr: x}
	}
	return i
}

func (r *rewriter) VisitOptimizationQuery(i *ast.OptimizationQuery) ast.Instr {
	// the parameter being optimized is a name, not an occurrence
	if x := r.expr(i.Expr); x != i.Expr {
		return &ast.OptimizationQuery{Expr: x, Parameter: i.Parameter, Type: i.Type}
	}
	return i
}

// ---- Instruction level mapping

type instrMapper struct {
	f InstrFunc
}

func (m *instrMapper) instrs(instrs []ast.Instr) []ast.Instr {
	var out []ast.Instr
	changed := false
	for idx, i := range instrs {
		rebuilt := m.rebuild(i)
		replaced, ok := m.f(rebuilt)
		if !ok {
			replaced = []ast.Instr{rebuilt}
		}
		if !changed && (len(replaced) != 1 || replaced[0] != i) {
			changed = true
			out = append(make([]ast.Instr, 0, len(instrs)), instrs[:idx]...)
		}
		if changed {
			out = append(out, replaced...)
		}
	}
	if !changed {
		return instrs
	}
	return out
}

// rebuild maps the bodies of compound instructions.
func (m *instrMapper) rebuild(i ast.Instr) ast.Instr {
	switch i := i.(type) {
	case *ast.IfInstr:
		tb, fb := m.instrs(i.TrueBranch), m.instrs(i.FalseBranch)
		if !sameSlice(tb, i.TrueBranch) || !sameSlice(fb, i.FalseBranch) {
			return &ast.IfInstr{Cond: i.Cond, TrueBranch: tb, FalseBranch: fb}
		}
	case *ast.WhileInstr:
		if body := m.instrs(i.Body); !sameSlice(body, i.Body) {
			return &ast.WhileInstr{Cond: i.Cond, Body: body}
		}
	case *ast.LoopInstr:
		if body := m.instrs(i.Body); !sameSlice(body, i.Body) {
			return &ast.LoopInstr{Iterations: i.Iterations, Body: body}
		}
	case *ast.ChoiceInstr:
		lb, rb := m.instrs(i.LhsBranch), m.instrs(i.RhsBranch)
		if !sameSlice(lb, i.LhsBranch) || !sameSlice(rb, i.RhsBranch) {
			return &ast.ChoiceInstr{Prob: i.Prob, LhsBranch: lb, RhsBranch: rb}
		}
	}
	return i
}
