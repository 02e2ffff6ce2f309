package ast

import (
	"fmt"
	"strconv"
	"strings"

	gfn "github.com/panyam/goutils/fn"
	"github.com/shopspring/decimal"
)

const DefaultIndent = "    "

// RenderOptions control cosmetic aspects of rendering.  None of them change
// what a rendered tree parses back to, except HideTicks which is meant for
// display only.
type RenderOptions struct {
	Indent    string // One level of block indentation
	HideTicks bool   // Drop tick instructions and unwrap tick expressions
}

func DefaultRenderOptions() RenderOptions {
	return RenderOptions{Indent: DefaultIndent}
}

// Render returns the canonical surface syntax of n.
func Render(n Node) string { return RenderWith(n, DefaultRenderOptions()) }

func RenderWith(n Node, opts RenderOptions) string {
	if opts.Indent == "" {
		opts.Indent = DefaultIndent
	}
	r := &renderer{opts: opts, cp: NewCodePrinter(opts.Indent)}
	r.node(n)
	return r.cp.String()
}

type side int

const (
	leftSide side = iota
	rightSide
)

// needsParens decides whether a child rendered under the parent operator
// must be parenthesized when it sits on the given side.
func needsParens(p Precedencer, parent, child string, s side) bool {
	pp, cp := p.PrecedenceFor(parent), p.PrecedenceFor(child)
	if cp != pp {
		return cp < pp
	}
	switch p.AssociativityFor(parent) {
	case AssocLeft:
		return s == rightSide
	case AssocRight:
		return s == leftSide
	}
	return true
}

// formatReal renders a decimal so it always reads back as a real.
func formatReal(d decimal.Decimal) string {
	s := d.String()
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

type renderer struct {
	opts RenderOptions
	cp   CodePrinter
}

var (
	_ TypeVisitor[string]    = (*renderer)(nil)
	_ DeclVisitor[string]    = (*renderer)(nil)
	_ ExprVisitor[string]    = (*renderer)(nil)
	_ InstrVisitor[struct{}] = (*renderer)(nil)
)

func (r *renderer) node(n Node) {
	switch n := n.(type) {
	case Type:
		r.cp.Print(MatchType(n, r))
	case Decl:
		r.cp.Print(MatchDecl(n, r))
	case Expr:
		r.cp.Print(r.expr(n))
	case Instr:
		if _, ok := n.(*TickInstr); ok && r.opts.HideTicks {
			r.cp.Print("skip")
			return
		}
		r.instr(n)
	case *Program:
		r.program(n)
	default:
		panic(fmt.Sprintf("ast: cannot render %T", n))
	}
}

// ---- Types and declarations

func (r *renderer) VisitBoolType(*BoolType) string { return "bool" }
func (r *renderer) VisitRealType(*RealType) string { return "real" }
func (r *renderer) VisitNatType(t *NatType) string { return "nat" + renderBounds(t.Bounds) }

func renderBounds(b *Bounds) string {
	if b == nil {
		return ""
	}
	upper := "inf"
	if b.Upper != nil {
		upper = strconv.FormatInt(*b.Upper, 10)
	}
	return fmt.Sprintf(" [%d, %s]", b.Lower, upper)
}

func (r *renderer) VisitVarDecl(d *VarDecl) string {
	// bounds follow the name: nat x [0, 10];
	if nat, ok := Cast[*NatType](d.Typ); ok {
		return "nat " + d.Var + renderBounds(nat.Bounds) + ";"
	}
	return MatchType(d.Typ, r) + " " + d.Var + ";"
}

func (r *renderer) VisitConstDecl(d *ConstDecl) string {
	return fmt.Sprintf("const %s := %s;", d.Var, r.expr(d.Value))
}

func (r *renderer) VisitParameterDecl(d *ParameterDecl) string {
	if _, ok := Cast[*RealType](d.Typ); ok {
		return "rparam " + d.Var + ";"
	}
	return "nparam " + d.Var + ";"
}

// ---- Expressions

func (r *renderer) unwrap(e Expr) Expr {
	for r.opts.HideTicks {
		t, ok := e.(*TickExpr)
		if !ok {
			break
		}
		e = t.Expr
	}
	return e
}

func (r *renderer) expr(e Expr) string { return MatchExpr(r.unwrap(e), r) }

func (r *renderer) exprs(es ...Expr) string {
	return strings.Join(gfn.Map(es, r.expr), ", ")
}

func (r *renderer) operand(parent string, child Expr, s side) string {
	child = r.unwrap(child)
	out := MatchExpr(child, r)
	if needsParens(DefaultPrecedencer, parent, OperatorKey(child), s) {
		return "(" + out + ")"
	}
	return out
}

func (r *renderer) apply(name string, args ...Expr) string {
	return name + "(" + r.exprs(args...) + ")"
}

func (r *renderer) VisitVarExpr(e *VarExpr) string         { return e.Var }
func (r *renderer) VisitBoolLitExpr(e *BoolLitExpr) string { return strconv.FormatBool(e.Value) }
func (r *renderer) VisitNatLitExpr(e *NatLitExpr) string   { return strconv.FormatUint(e.Value, 10) }
func (r *renderer) VisitRealLitExpr(e *RealLitExpr) string { return formatReal(e.Value) }

func (r *renderer) VisitUnopExpr(e *UnopExpr) string {
	switch e.Op {
	case Iverson:
		return "[" + r.expr(e.Expr) + "]"
	case Not:
		return "not " + r.operand(e.Op.Key(), e.Expr, rightSide)
	}
	return e.Op.String() + r.operand(e.Op.Key(), e.Expr, rightSide)
}

func (r *renderer) VisitBinopExpr(e *BinopExpr) string {
	key := e.Op.Key()
	return r.operand(key, e.Lhs, leftSide) + " " + e.Op.String() + " " + r.operand(key, e.Rhs, rightSide)
}

func (r *renderer) VisitSubstExpr(e *SubstExpr) string {
	entries := gfn.Map(SortedKeys(e.Subst), func(k Var) string {
		return k + "/" + r.expr(e.Subst[k])
	})
	return r.operand(keySubst, e.Expr, leftSide) + "[" + strings.Join(entries, ", ") + "]"
}

func (r *renderer) VisitTickExpr(e *TickExpr) string { return r.apply("tick", e.Expr) }

func (r *renderer) VisitDUniformExpr(e *DUniformExpr) string {
	return r.apply("unif_d", e.Start, e.End)
}

func (r *renderer) VisitCUniformExpr(e *CUniformExpr) string {
	return r.apply("unif_c", e.Start, e.End)
}

func (r *renderer) VisitBernoulliExpr(e *BernoulliExpr) string { return r.apply("bernoulli", e.Param) }
func (r *renderer) VisitGeometricExpr(e *GeometricExpr) string { return r.apply("geometric", e.Param) }
func (r *renderer) VisitPoissonExpr(e *PoissonExpr) string     { return r.apply("poisson", e.Param) }
func (r *renderer) VisitLogDistExpr(e *LogDistExpr) string     { return r.apply("logdist", e.Param) }
func (r *renderer) VisitBinomialExpr(e *BinomialExpr) string   { return r.apply("binomial", e.N, e.P) }
func (r *renderer) VisitIidSampleExpr(e *IidSampleExpr) string { return r.apply("iid", e.Base, e.Count) }

func (r *renderer) VisitCategoricalExpr(e *CategoricalExpr) string {
	entries := gfn.Map(e.Entries, func(c CategoricalEntry) string {
		return r.expr(c.Value) + " : " + c.Weight.String()
	})
	return "categorical(" + strings.Join(entries, ", ") + ")"
}

// ---- Instructions

func (r *renderer) instr(i Instr) { MatchInstr(i, r) }

func (r *renderer) visible(instrs []Instr) []Instr {
	if !r.opts.HideTicks {
		return instrs
	}
	out := make([]Instr, 0, len(instrs))
	for _, i := range instrs {
		if _, ok := i.(*TickInstr); !ok {
			out = append(out, i)
		}
	}
	return out
}

// isCompound tells whether i ends in a block and so takes no ';' in a sequence.
func isCompound(i Instr) bool {
	switch i.(type) {
	case *IfInstr, *WhileInstr, *LoopInstr, *ChoiceInstr:
		return true
	}
	return false
}

func (r *renderer) sequence(instrs []Instr) {
	for _, i := range r.visible(instrs) {
		r.instr(i)
		if !isCompound(i) {
			r.cp.Print(";")
		}
		r.cp.Print("\n")
	}
}

func (r *renderer) block(instrs []Instr) {
	if len(r.visible(instrs)) == 0 {
		r.cp.Print("{ }")
		return
	}
	r.cp.Println("{")
	WithIndent(1, r.cp, func(CodePrinter) { r.sequence(instrs) })
	r.cp.Print("}")
}

func (r *renderer) program(p *Program) {
	for _, d := range p.Declarations {
		r.cp.Println(MatchDecl(d, r))
	}
	if len(p.Declarations) > 0 && len(r.visible(p.Instructions)) > 0 {
		r.cp.Println("")
	}
	r.sequence(p.Instructions)
}

func (r *renderer) VisitSkipInstr(*SkipInstr) (out struct{}) {
	r.cp.Print("skip")
	return
}

func (r *renderer) VisitAsgnInstr(i *AsgnInstr) (out struct{}) {
	r.cp.Printf("%s := %s", i.Lhs, r.expr(i.Rhs))
	return
}

func (r *renderer) VisitIfInstr(i *IfInstr) (out struct{}) {
	r.cp.Printf("if (%s) ", r.expr(i.Cond))
	r.block(i.TrueBranch)
	if len(r.visible(i.FalseBranch)) > 0 {
		r.cp.Print(" else ")
		r.block(i.FalseBranch)
	}
	return
}

func (r *renderer) VisitWhileInstr(i *WhileInstr) (out struct{}) {
	r.cp.Printf("while (%s) ", r.expr(i.Cond))
	r.block(i.Body)
	return
}

func (r *renderer) VisitLoopInstr(i *LoopInstr) (out struct{}) {
	r.cp.Printf("loop(%s) ", r.expr(i.Iterations))
	r.block(i.Body)
	return
}

func (r *renderer) VisitChoiceInstr(i *ChoiceInstr) (out struct{}) {
	r.block(i.LhsBranch)
	r.cp.Printf(" [%s] ", r.expr(i.Prob))
	r.block(i.RhsBranch)
	return
}

func (r *renderer) VisitTickInstr(i *TickInstr) (out struct{}) {
	r.cp.Print(r.apply("tick", i.Expr))
	return
}

func (r *renderer) VisitObserveInstr(i *ObserveInstr) (out struct{}) {
	r.cp.Print(r.apply("observe", i.Cond))
	return
}

func (r *renderer) VisitExpectationInstr(i *ExpectationInstr) (out struct{}) {
	r.cp.Printf("?Ex[%s]", r.expr(i.Expr))
	return
}

func (r *renderer) VisitProbabilityQueryInstr(i *ProbabilityQueryInstr) (out struct{}) {
	r.cp.Printf("?Pr[%s]", r.expr(i.Expr))
	return
}

func (r *renderer) VisitOptimizationQuery(i *OptimizationQuery) (out struct{}) {
	r.cp.Printf("?Opt[%s, %s, %s]", r.expr(i.Expr), i.Parameter, i.Type)
	return
}

func (r *renderer) VisitPrintInstr(*PrintInstr) (out struct{}) {
	r.cp.Print("!Print")
	return
}

func (r *renderer) VisitPlotInstr(i *PlotInstr) (out struct{}) {
	args := []string{i.Var1}
	if i.Var2 != "" {
		args = append(args, i.Var2)
	}
	if i.Prob != nil {
		args = append(args, formatReal(*i.Prob))
	}
	if i.TermCount != nil {
		args = append(args, strconv.FormatUint(*i.TermCount, 10))
	}
	r.cp.Printf("!Plot[%s]", strings.Join(args, ", "))
	return
}
