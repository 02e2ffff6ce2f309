package ast

import (
	"slices"

	"github.com/shopspring/decimal"
)

// SkipInstr does nothing.
type SkipInstr struct{}

// AsgnInstr assigns Rhs to the variable Lhs.  Rhs may be distribution
// valued, in which case Lhs is sampled from it.
type AsgnInstr struct {
	Lhs Var
	Rhs Expr
}

type IfInstr struct {
	Cond        Expr
	TrueBranch  []Instr
	FalseBranch []Instr
}

type WhileInstr struct {
	Cond Expr
	Body []Instr
}

// LoopInstr runs Body a statically known number of times.
type LoopInstr struct {
	Iterations Expr
	Body       []Instr
}

// ChoiceInstr runs LhsBranch with probability Prob and RhsBranch otherwise.
// Prob need not be a literal.
type ChoiceInstr struct {
	Prob      Expr
	LhsBranch []Instr
	RhsBranch []Instr
}

// TickInstr adds Expr to the cost of the run.
type TickInstr struct {
	Expr Expr
}

// ObserveInstr conditions the state distribution on Cond.  Runs that
// violate Cond carry zero weight, they are not errors.
type ObserveInstr struct {
	Cond Expr
}

// --- Queries

// ExpectationInstr asks for the expected value of Expr.
type ExpectationInstr struct {
	Expr Expr
}

// ProbabilityQueryInstr asks for the probability that Expr holds.
type ProbabilityQueryInstr struct {
	Expr Expr
}

type OptimizationType int

const (
	Maximize OptimizationType = iota
	Minimize
)

func (t OptimizationType) String() string {
	if t == Minimize {
		return "MIN"
	}
	return "MAX"
}

// OptimizationQuery asks for the value of Parameter that maximizes or
// minimizes Expr.
type OptimizationQuery struct {
	Expr      Expr
	Parameter Var
	Type      OptimizationType
}

// PrintInstr prints the program's final state distribution.
type PrintInstr struct{}

// PlotInstr plots the distribution of Var1, or the joint distribution of
// Var1 and Var2.  Prob is the probability mass to cover and TermCount the
// number of terms to unroll; nil means the analysis default.
type PlotInstr struct {
	Var1      Var
	Var2      Var // Empty if not given
	Prob      *decimal.Decimal
	TermCount *uint64
}

// --- Constructors

func requireInstrs(node, field string, instrs []Instr) ([]Instr, error) {
	for i, instr := range instrs {
		if instr == nil {
			return nil, malformed(node, field, "instruction %d is missing", i)
		}
	}
	return slices.Clone(instrs), nil
}

func NewAsgnInstr(lhs string, rhs Expr) (*AsgnInstr, error) {
	if err := checkName("AsgnInstr", "Lhs", lhs); err != nil {
		return nil, err
	}
	if err := requireExpr("AsgnInstr", "Rhs", rhs); err != nil {
		return nil, err
	}
	return &AsgnInstr{Lhs: lhs, Rhs: rhs}, nil
}

func NewIfInstr(cond Expr, trueBranch, falseBranch []Instr) (*IfInstr, error) {
	if err := requireExpr("IfInstr", "Cond", cond); err != nil {
		return nil, err
	}
	tb, err := requireInstrs("IfInstr", "TrueBranch", trueBranch)
	if err != nil {
		return nil, err
	}
	fb, err := requireInstrs("IfInstr", "FalseBranch", falseBranch)
	if err != nil {
		return nil, err
	}
	return &IfInstr{Cond: cond, TrueBranch: tb, FalseBranch: fb}, nil
}

func NewWhileInstr(cond Expr, body []Instr) (*WhileInstr, error) {
	if err := requireExpr("WhileInstr", "Cond", cond); err != nil {
		return nil, err
	}
	b, err := requireInstrs("WhileInstr", "Body", body)
	if err != nil {
		return nil, err
	}
	return &WhileInstr{Cond: cond, Body: b}, nil
}

func NewLoopInstr(iterations Expr, body []Instr) (*LoopInstr, error) {
	if err := requireExpr("LoopInstr", "Iterations", iterations); err != nil {
		return nil, err
	}
	b, err := requireInstrs("LoopInstr", "Body", body)
	if err != nil {
		return nil, err
	}
	return &LoopInstr{Iterations: iterations, Body: b}, nil
}

func NewChoiceInstr(prob Expr, lhs, rhs []Instr) (*ChoiceInstr, error) {
	if err := requireExpr("ChoiceInstr", "Prob", prob); err != nil {
		return nil, err
	}
	lb, err := requireInstrs("ChoiceInstr", "LhsBranch", lhs)
	if err != nil {
		return nil, err
	}
	rb, err := requireInstrs("ChoiceInstr", "RhsBranch", rhs)
	if err != nil {
		return nil, err
	}
	return &ChoiceInstr{Prob: prob, LhsBranch: lb, RhsBranch: rb}, nil
}

func NewTickInstr(e Expr) (*TickInstr, error) {
	if err := requireExpr("TickInstr", "Expr", e); err != nil {
		return nil, err
	}
	return &TickInstr{Expr: e}, nil
}

func NewObserveInstr(cond Expr) (*ObserveInstr, error) {
	if err := requireExpr("ObserveInstr", "Cond", cond); err != nil {
		return nil, err
	}
	return &ObserveInstr{Cond: cond}, nil
}

func NewExpectationInstr(e Expr) (*ExpectationInstr, error) {
	if err := requireExpr("ExpectationInstr", "Expr", e); err != nil {
		return nil, err
	}
	return &ExpectationInstr{Expr: e}, nil
}

func NewProbabilityQueryInstr(e Expr) (*ProbabilityQueryInstr, error) {
	if err := requireExpr("ProbabilityQueryInstr", "Expr", e); err != nil {
		return nil, err
	}
	return &ProbabilityQueryInstr{Expr: e}, nil
}

func NewOptimizationQuery(e Expr, parameter string, typ OptimizationType) (*OptimizationQuery, error) {
	if err := requireExpr("OptimizationQuery", "Expr", e); err != nil {
		return nil, err
	}
	if err := checkName("OptimizationQuery", "Parameter", parameter); err != nil {
		return nil, err
	}
	if typ != Maximize && typ != Minimize {
		return nil, malformed("OptimizationQuery", "Type", "unknown optimization type %d", typ)
	}
	return &OptimizationQuery{Expr: e, Parameter: parameter, Type: typ}, nil
}

// NewPlotInstr builds a plot query; var2 may be empty and prob or
// termCount nil.  A given prob must lie in [0, 1].
func NewPlotInstr(var1, var2 string, prob *decimal.Decimal, termCount *uint64) (*PlotInstr, error) {
	if err := checkName("PlotInstr", "Var1", var1); err != nil {
		return nil, err
	}
	if var2 != "" {
		if err := checkName("PlotInstr", "Var2", var2); err != nil {
			return nil, err
		}
	}
	out := &PlotInstr{Var1: var1, Var2: var2}
	if prob != nil {
		if prob.IsNegative() || prob.GreaterThan(decimal.NewFromInt(1)) {
			return nil, malformed("PlotInstr", "Prob", "probability %s is not within [0, 1]", prob)
		}
		p := *prob
		out.Prob = &p
	}
	if termCount != nil {
		n := *termCount
		out.TermCount = &n
	}
	return out, nil
}

// --- Node capability

func (i *SkipInstr) instrNode()             {}
func (i *AsgnInstr) instrNode()             {}
func (i *IfInstr) instrNode()               {}
func (i *WhileInstr) instrNode()            {}
func (i *LoopInstr) instrNode()             {}
func (i *ChoiceInstr) instrNode()           {}
func (i *TickInstr) instrNode()             {}
func (i *ObserveInstr) instrNode()          {}
func (i *ExpectationInstr) instrNode()      {}
func (i *ProbabilityQueryInstr) instrNode() {}
func (i *OptimizationQuery) instrNode()     {}
func (i *PrintInstr) instrNode()            {}
func (i *PlotInstr) instrNode()             {}

func (i *ExpectationInstr) queryNode()      {}
func (i *ProbabilityQueryInstr) queryNode() {}
func (i *OptimizationQuery) queryNode()     {}
func (i *PrintInstr) queryNode()            {}
func (i *PlotInstr) queryNode()             {}

func (i *SkipInstr) String() string             { return Render(i) }
func (i *AsgnInstr) String() string             { return Render(i) }
func (i *IfInstr) String() string               { return Render(i) }
func (i *WhileInstr) String() string            { return Render(i) }
func (i *LoopInstr) String() string             { return Render(i) }
func (i *ChoiceInstr) String() string           { return Render(i) }
func (i *TickInstr) String() string             { return Render(i) }
func (i *ObserveInstr) String() string          { return Render(i) }
func (i *ExpectationInstr) String() string      { return Render(i) }
func (i *ProbabilityQueryInstr) String() string { return Render(i) }
func (i *OptimizationQuery) String() string     { return Render(i) }
func (i *PrintInstr) String() string            { return Render(i) }
func (i *PlotInstr) String() string             { return Render(i) }

func (i *SkipInstr) Hash() uint64             { return hashNode(familyInstr, i) }
func (i *AsgnInstr) Hash() uint64             { return hashNode(familyInstr, i) }
func (i *IfInstr) Hash() uint64               { return hashNode(familyInstr, i) }
func (i *WhileInstr) Hash() uint64            { return hashNode(familyInstr, i) }
func (i *LoopInstr) Hash() uint64             { return hashNode(familyInstr, i) }
func (i *ChoiceInstr) Hash() uint64           { return hashNode(familyInstr, i) }
func (i *TickInstr) Hash() uint64             { return hashNode(familyInstr, i) }
func (i *ObserveInstr) Hash() uint64          { return hashNode(familyInstr, i) }
func (i *ExpectationInstr) Hash() uint64      { return hashNode(familyInstr, i) }
func (i *ProbabilityQueryInstr) Hash() uint64 { return hashNode(familyInstr, i) }
func (i *OptimizationQuery) Hash() uint64     { return hashNode(familyInstr, i) }
func (i *PrintInstr) Hash() uint64            { return hashNode(familyInstr, i) }
func (i *PlotInstr) Hash() uint64             { return hashNode(familyInstr, i) }

func (i *SkipInstr) Equal(o Node) bool             { return Equal(i, o) }
func (i *AsgnInstr) Equal(o Node) bool             { return Equal(i, o) }
func (i *IfInstr) Equal(o Node) bool               { return Equal(i, o) }
func (i *WhileInstr) Equal(o Node) bool            { return Equal(i, o) }
func (i *LoopInstr) Equal(o Node) bool             { return Equal(i, o) }
func (i *ChoiceInstr) Equal(o Node) bool           { return Equal(i, o) }
func (i *TickInstr) Equal(o Node) bool             { return Equal(i, o) }
func (i *ObserveInstr) Equal(o Node) bool          { return Equal(i, o) }
func (i *ExpectationInstr) Equal(o Node) bool      { return Equal(i, o) }
func (i *ProbabilityQueryInstr) Equal(o Node) bool { return Equal(i, o) }
func (i *OptimizationQuery) Equal(o Node) bool     { return Equal(i, o) }
func (i *PrintInstr) Equal(o Node) bool            { return Equal(i, o) }
func (i *PlotInstr) Equal(o Node) bool             { return Equal(i, o) }
