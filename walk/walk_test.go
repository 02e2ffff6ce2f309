package walk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panyam/pgcl/ast"
	"github.com/panyam/pgcl/parser"
)

// foldPlus folds additions of two literals.
func foldPlus(e ast.Expr) (ast.Expr, bool) {
	b, ok := ast.Cast[*ast.BinopExpr](e)
	if !ok || b.Op != ast.Plus {
		return nil, false
	}
	l, lok := ast.Cast[*ast.NatLitExpr](b.Lhs)
	r, rok := ast.Cast[*ast.NatLitExpr](b.Rhs)
	if !lok || !rok {
		return nil, false
	}
	return &ast.NatLitExpr{Value: l.Value + r.Value}, true
}

func TestExprOrder(t *testing.T) {
	e := expr(t, "(1 + 2) + 3")
	assert.Equal(t, "6", Expr(e, PostOrder, foldPlus).String())
	// pre order sees the root before its operands are folded
	assert.Equal(t, "3 + 3", Expr(e, PreOrder, foldPlus).String())
	assert.Equal(t, "1 + 2 + 3", e.String())
}

func TestPreOrderDoesNotRevisitReplacements(t *testing.T) {
	calls := 0
	grow := func(e ast.Expr) (ast.Expr, bool) {
		calls++
		if v, ok := ast.Cast[*ast.VarExpr](e); ok && v.Var == "x" {
			return expr(t, "x + x"), true
		}
		return nil, false
	}
	out := Expr(expr(t, "x * y"), PreOrder, grow)
	assert.Equal(t, "(x + x) * y", out.String())
	assert.Equal(t, 3, calls)
}

func TestInstrsRewriteNestedBlocks(t *testing.T) {
	in := instrs(t, "if (1 + 1 = x) { loop(2 + 2) { x := x + (3 + 4) } } else { observe(true) }; ?Ex[1 + 1]")
	out := Instrs(in, PostOrder, foldPlus)
	assert.Equal(t, []string{
		"if (2 = x) {\n    loop(4) {\n        x := x + 7;\n    }\n} else {\n    observe(true);\n}",
		"?Ex[2]",
	}, renderInstrs(out))

	// the else branch had nothing to fold and is shared
	before, after := in[0].(*ast.IfInstr), out[0].(*ast.IfInstr)
	assert.Same(t, before.FalseBranch[0], after.FalseBranch[0])
}

func TestProgramKeepsConfig(t *testing.T) {
	cfg := ast.DefaultConfig()
	cfg.Indent = "\t"
	prog, err := parser.ParseProgram("nat x; const c := 1 + 1; x := c", cfg)
	require.NoError(t, err)

	out := Program(prog, PostOrder, foldPlus)
	assert.NotSame(t, prog, out)
	assert.Equal(t, cfg, out.Config)
	assert.Equal(t, "nat x;\nconst c := 2;\n\nx := c;\n", out.String())
	assert.Same(t, prog.Declarations[0], out.Declarations[0])
	assert.Same(t, prog.Instructions[0], out.Instructions[0])
}

func TestMapInstrs(t *testing.T) {
	in := instrs(t, "tick(1); while (b) { tick(2); x := 1 }; skip; y := 2")

	// drop ticks and skips, duplicate assignments to y
	out := MapInstrs(in, func(i ast.Instr) ([]ast.Instr, bool) {
		switch i := i.(type) {
		case *ast.TickInstr, *ast.SkipInstr:
			return nil, true
		case *ast.AsgnInstr:
			if i.Lhs == "y" {
				return []ast.Instr{i, i}, true
			}
		}
		return nil, false
	})
	assert.Equal(t, []string{"while (b) {\n    x := 1;\n}", "y := 2", "y := 2"}, renderInstrs(out))
	assert.Len(t, in, 4, "input sequence is untouched")

	same := MapInstrs(in, func(ast.Instr) ([]ast.Instr, bool) { return nil, false })
	assert.Same(t, &in[0], &same[0], "nothing changed so the input slice is returned")
}
