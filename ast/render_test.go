package ast

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gotest.tools/v3/golden"
)

func TestRenderParentheses(t *testing.T) {
	a, b, c := v("a"), v("b"), v("c")
	sub := func(e Expr) Expr { return must(NewSubstExpr(map[Var]Expr{"a": nat(1)}, e)) }

	tests := []struct {
		expected string
		expr     Expr
	}{
		{"a - b - c", bin(Minus, bin(Minus, a, b), c)},
		{"a - (b - c)", bin(Minus, a, bin(Minus, b, c))},
		{"a ^ b ^ c", bin(Power, a, bin(Power, b, c))},
		{"(a ^ b) ^ c", bin(Power, bin(Power, a, b), c)},
		{"(a < b) < c", bin(Lt, bin(Lt, a, b), c)},
		{"a < (b < c)", bin(Lt, a, bin(Lt, b, c))},
		{"(a + b) * c", bin(Times, bin(Plus, a, b), c)},
		{"a + b * c", bin(Plus, a, bin(Times, b, c))},
		{"a || b & c", bin(Or, a, bin(And, b, c))},
		{"(a || b) & c", bin(And, bin(Or, a, b), c)},
		{"a xor b = c", bin(Xor, a, bin(Eq, b, c))},
		{"-(a + b)", un(Neg, bin(Plus, a, b))},
		{"-a + b", bin(Plus, un(Neg, a), b)},
		{"-a ^ b", bin(Power, un(Neg, a), b)},
		{"--a", un(Neg, un(Neg, a))},
		{"not (a < b)", un(Not, bin(Lt, a, b))},
		{"not a & b", bin(And, un(Not, a), b)},
		{"[a < b] * 2", bin(Times, un(Iverson, bin(Lt, a, b)), nat(2))},
		{"(a + b)[a/1]", sub(bin(Plus, a, b))},
		{"a[a/1] * b", bin(Times, sub(a), b)},
		{"(-a)[a/1]", sub(un(Neg, a))},
		{"-a[a/1]", un(Neg, sub(a))},
		{"a[a/1][a/1]", sub(sub(a))},
		{"tick(a + 1) * 2", bin(Times, must(NewTickExpr(bin(Plus, a, nat(1)))), nat(2))},
		{"0.5 * 2.0", bin(Times, rlit("0.5"), rlit("2"))},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, Render(tt.expr))
		})
	}
}

func TestRenderDistributions(t *testing.T) {
	a, b := v("a"), v("b")
	half := rlit("0.5")
	tests := []struct {
		expected string
		expr     Expr
	}{
		{"unif_d(a, b)", must(NewDUniformExpr(a, b))},
		{"unif_c(0.5, b + 1)", must(NewCUniformExpr(half, bin(Plus, b, nat(1))))},
		{"bernoulli(0.5)", must(NewBernoulliExpr(half))},
		{"geometric(1 / 2)", must(NewGeometricExpr(bin(Divide, nat(1), nat(2))))},
		{"poisson(a)", must(NewPoissonExpr(a))},
		{"logdist(0.5)", must(NewLogDistExpr(half))},
		{"binomial(a, 0.5)", must(NewBinomialExpr(a, half))},
		{"iid(bernoulli(0.5), a)", must(NewIidSampleExpr(a, must(NewBernoulliExpr(half))))},
		{"categorical(true : 0.3, false : 0.7)", must(NewCategoricalExpr(
			CategoricalEntry{Value: &BoolLitExpr{Value: true}, Weight: decimal.RequireFromString("0.3")},
			CategoricalEntry{Value: &BoolLitExpr{Value: false}, Weight: decimal.RequireFromString("0.7")},
		))},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, Render(tt.expr))
			assert.True(t, IsDistr(tt.expr))
		})
	}
}

func testProgram(t *testing.T, cfg ProgramConfig) *Program {
	t.Helper()
	x, r := v("x"), v("r")
	decls := []Decl{
		must(NewVarDecl("x", must(NewNatType(0, ptr[int64](10))))),
		must(NewVarDecl("r", &RealType{})),
		must(NewConstDecl("c", nat(5))),
		must(NewParameterDecl("p", &RealType{})),
	}
	instrs := []Instr{
		asgn("x", must(NewDUniformExpr(nat(0), v("c")))),
		must(NewIfInstr(bin(Lt, x, nat(5)),
			[]Instr{asgn("r", bin(Plus, r, rlit("0.5")))},
			[]Instr{must(NewTickInstr(nat(1))), &SkipInstr{}})),
		must(NewWhileInstr(bin(Gt, x, nat(0)), []Instr{
			must(NewChoiceInstr(v("p"),
				[]Instr{asgn("x", bin(Minus, x, nat(1)))},
				[]Instr{asgn("x", bin(Plus, x, nat(1)))})),
		})),
		must(NewLoopInstr(nat(3), []Instr{asgn("r", bin(Times, r, rlit("2")))})),
		must(NewObserveInstr(bin(Leq, r, nat(10)))),
		must(NewExpectationInstr(r)),
	}
	return must(Build(decls, instrs, cfg))
}

func TestRenderProgram(t *testing.T) {
	golden.Assert(t, testProgram(t, DefaultConfig()).String(), "program.golden")
}

func TestRenderHideTicks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HideTicks = true
	cfg.Indent = "  "
	out := testProgram(t, cfg).Format()
	assert.Contains(t, out, "} else {\n  skip;\n}\n")
	assert.NotContains(t, out, "tick")

	tick := must(NewTickInstr(nat(1)))
	assert.Equal(t, "skip", RenderWith(tick, RenderOptions{HideTicks: true}))
	assert.Equal(t, "tick(1)", Render(tick))
	assert.Equal(t, "x + 1", RenderWith(bin(Plus, v("x"), must(NewTickExpr(nat(1)))), RenderOptions{HideTicks: true}))

	// an if whose else branch only ticks loses the else
	ifTick := must(NewIfInstr(v("b"), []Instr{&SkipInstr{}}, []Instr{tick}))
	assert.Equal(t, "if (b) {\n    skip;\n}", RenderWith(ifTick, RenderOptions{HideTicks: true}))
}

func TestRenderInstructions(t *testing.T) {
	tests := []struct {
		expected string
		instr    Instr
	}{
		{"skip", &SkipInstr{}},
		{"x := x + 1", asgn("x", bin(Plus, v("x"), nat(1)))},
		{"while (b) { }", must(NewWhileInstr(v("b"), nil))},
		{"{ } [0.5] { }", must(NewChoiceInstr(rlit("0.5"), nil, nil))},
		{"?Pr[x = 1]", must(NewProbabilityQueryInstr(bin(Eq, v("x"), nat(1))))},
		{"?Opt[x * p, p, MAX]", must(NewOptimizationQuery(bin(Times, v("x"), v("p")), "p", Maximize))},
		{"!Print", &PrintInstr{}},
		{"!Plot[x]", must(NewPlotInstr("x", "", nil, nil))},
		{"!Plot[x, y, 1.0, 10]", must(NewPlotInstr("x", "y", ptr(decimal.NewFromInt(1)), ptr[uint64](10)))},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, Render(tt.instr))
			assert.Equal(t, tt.expected, tt.instr.String())
		})
	}
}
