package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panyam/pgcl/ast"
)

// parseFragment runs one production of the parser over input and checks
// that all of it was consumed.
func parseFragment[T any](t *testing.T, input string, parseFunc func(p *LLParser) (T, error)) (T, error) {
	t.Helper()
	p := NewLLParser(NewLexer(strings.NewReader(input)))
	out, err := parseFunc(p)
	if err == nil {
		err = p.Done()
	}
	return out, err
}

func assertError(t *testing.T, input string, err error, expectError bool, errorContains string) {
	t.Helper()
	if !expectError {
		require.NoError(t, err, "Input: %s", input)
		return
	}
	require.Error(t, err, "Input: %s", input)
	if errorContains != "" {
		assert.Contains(t, err.Error(), errorContains, "Input: %s", input)
	}
}

func TestParseExpression(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		expected      string // Canonical rendering, "" for the input itself
		expectError   bool
		errorContains string
	}{
		{"identifier", "myVar", "", false, ""},
		{"nat literal", "12345", "", false, ""},
		{"real literal", "0.25", "", false, ""},
		{"booleans", "true & false", "", false, ""},
		{"redundant parens", "(a + (b))", "a + b", false, ""},
		{"needed parens", "(a + b) * c", "", false, ""},
		{"right operand parens", "a - (b - c)", "", false, ""},
		{"power", "a ^ b ^ c", "", false, ""},
		{"power left parens", "(a ^ b) ^ c", "", false, ""},
		{"negation", "-x + 1", "", false, ""},
		{"negated sum", "-(x + 1)", "", false, ""},
		{"double negation", "- -x", "--x", false, ""},
		{"not", "not (a & b)", "", false, ""},
		{"iverson", "[x < 3] * 2", "", false, ""},
		{"comparison", "x + 1 <= y * 2", "", false, ""},
		{"subst", "x[x/1, y/z]", "", false, ""},
		{"subst sorted", "x[y/1, x/2]", "x[x/2, y/1]", false, ""},
		{"subst of sum", "(x + y)[x/1]", "", false, ""},
		{"nested subst", "x[x/y][y/2]", "", false, ""},
		{"subst with division", "x[x/a / b]", "", false, ""},
		{"tick", "tick(1) + x", "", false, ""},
		{"dist unif_d", "unif_d(1, 6)", "", false, ""},
		{"dist unif_c", "unif_c(0.0, 1.0)", "", false, ""},
		{"dist bernoulli", "bernoulli(0.5)", "", false, ""},
		{"dist geometric", "geometric(1/2)", "geometric(1 / 2)", false, ""},
		{"dist poisson", "poisson(3)", "", false, ""},
		{"dist logdist", "logdist(0.5)", "", false, ""},
		{"dist binomial", "binomial(10, 0.5)", "", false, ""},
		{"categorical", "categorical(1 : 0.5, 2 : 0.5)", "", false, ""},
		{"iid", "iid(bernoulli(0.5), n)", "", false, ""},
		{"chained comparison", "a < b < c", "", true, "cannot be chained"},
		{"unbalanced", "(a + b", "", true, "expected RPAREN"},
		{"dangling operator", "a +", "", true, "expected an expression"},
		{"wrong arity", "unif_d(1)", "", true, "expected COMMA"},
		{"empty input", "", "", true, "expected an expression"},
		{"keyword operand", "if", "", true, "expected an expression"},
		{"zero weight", "categorical(1 : 0)", "", true, "malformed CategoricalExpr"},
		{"duplicate subst", "x[x/1, x/2]", "", true, "substituted twice"},
		{"trailing input", "a b", "", true, "expected EOF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, err := parseFragment(t, tt.input, func(p *LLParser) (ast.Expr, error) {
				return p.ParseExpr()
			})
			assertError(t, tt.input, err, tt.expectError, tt.errorContains)
			if tt.expectError {
				return
			}
			expected := tt.expected
			if expected == "" {
				expected = tt.input
			}
			assert.Equal(t, expected, ast.Render(actual))
		})
	}
}

func TestParseLiterals(t *testing.T) {
	e, err := ParseExpr("3")
	require.NoError(t, err)
	nat, ok := ast.Cast[*ast.NatLitExpr](e)
	require.True(t, ok, "got %T", e)
	assert.Equal(t, uint64(3), nat.Value)

	e, err = ParseExpr("3.50")
	require.NoError(t, err)
	rl, ok := ast.Cast[*ast.RealLitExpr](e)
	require.True(t, ok, "got %T", e)
	assert.Equal(t, "3.5", rl.Value.String())

	e, err = ParseExpr("iid(geometric(0.5), k)")
	require.NoError(t, err)
	iid, ok := ast.Cast[*ast.IidSampleExpr](e)
	require.True(t, ok, "got %T", e)
	assert.Equal(t, "geometric(0.5)", ast.Render(iid.Base))
	assert.Equal(t, "k", ast.Render(iid.Count))
}

func TestParseDeclaration(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		expectError   bool
		errorContains string
	}{
		{"bool", "bool b;", false, ""},
		{"real", "real r;", false, ""},
		{"nat", "nat x;", false, ""},
		{"bounded nat", "nat x [0, 10];", false, ""},
		{"open nat", "nat x [3, inf];", false, ""},
		{"const", "const c := 5 * 2;", false, ""},
		{"nparam", "nparam n;", false, ""},
		{"rparam", "rparam p;", false, ""},
		{"missing semicolon", "nat x", true, "expected SEMICOLON"},
		{"empty bounds", "nat x [5, 3];", true, "malformed Bounds"},
		{"const with var", "const c := x + 1;", true, "malformed ConstDecl"},
		{"const with distribution", "const c := bernoulli(0.5);", true, "malformed ConstDecl"},
		{"keyword name", "nat if;", true, "expected IDENTIFIER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, err := parseFragment(t, tt.input, func(p *LLParser) (ast.Decl, error) {
				return p.ParseDecl()
			})
			assertError(t, tt.input, err, tt.expectError, tt.errorContains)
			if !tt.expectError {
				assert.Equal(t, tt.input, ast.Render(actual))
			}
		})
	}
}

func TestParseInstruction(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		expected      string
		expectError   bool
		errorContains string
	}{
		{"skip", "skip", "skip;\n", false, ""},
		{"assignment", "x := x + 1", "x := x + 1;\n", false, ""},
		{"sequence", "x := 1; y := 2;", "x := 1;\ny := 2;\n", false, ""},
		{"optional last semicolon", "x := 1; y := 2", "x := 1;\ny := 2;\n", false, ""},
		{"if", "if (x < 1) { x := 1 }", "if (x < 1) {\n    x := 1;\n}\n", false, ""},
		{"if else", "if (b) { skip } else { x := 2 }", "if (b) {\n    skip;\n} else {\n    x := 2;\n}\n", false, ""},
		{"while", "while (x > 0) { x := x - 1 }", "while (x > 0) {\n    x := x - 1;\n}\n", false, ""},
		{"loop", "loop(3) { tick(1) }", "loop(3) {\n    tick(1);\n}\n", false, ""},
		{"choice", "{ x := 1 } [0.5] { x := 2 }", "{\n    x := 1;\n} [0.5] {\n    x := 2;\n}\n", false, ""},
		{"empty blocks", "{ } [0.5] { }", "{ } [0.5] { }\n", false, ""},
		{"compound then simple", "if (b) { } x := 1", "if (b) { }\nx := 1;\n", false, ""},
		{"observe", "observe(x = 1)", "observe(x = 1);\n", false, ""},
		{"expectation", "?Ex[x]", "?Ex[x];\n", false, ""},
		{"probability", "?Pr[x = 1]", "?Pr[x = 1];\n", false, ""},
		{"optimization", "?Opt[x * p, p, MIN]", "?Opt[x * p, p, MIN];\n", false, ""},
		{"print", "!Print", "!Print;\n", false, ""},
		{"plot", "!Plot[x, y, 0.5, 10]", "!Plot[x, y, 0.5, 10];\n", false, ""},
		{"plot term count", "!Plot[x, 10]", "!Plot[x, 10];\n", false, ""},
		{"missing separator", "x := 1 y := 2", "", true, "expected one of"},
		{"unclosed block", "while (b) { skip", "", true, "expected RBRACE"},
		{"stray brace", "skip }", "", true, "expected EOF"},
		{"bad probability", "!Plot[x, 1.5]", "", true, "malformed PlotInstr"},
		{"misordered plot", "!Plot[x, 10, y]", "", true, "unexpected plot argument"},
		{"assign to keyword", "true := 1", "", true, "expected an instruction"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual, err := parseFragment(t, tt.input, func(p *LLParser) ([]ast.Instr, error) {
				return p.ParseInstrs()
			})
			assertError(t, tt.input, err, tt.expectError, tt.errorContains)
			if tt.expectError {
				return
			}
			prog, err := ast.Build(nil, actual, ast.DefaultConfig())
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ast.Render(prog))
		})
	}
}

func TestParseErrorPositions(t *testing.T) {
	_, err := ParseInstrs("x := 1;\ny := (2 +;")
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Line)
	assert.Equal(t, 10, perr.Col)
	assert.Equal(t, ";", perr.Near)
	assert.ErrorIs(t, err, ErrSyntax)

	// ast constructor errors keep their identity and gain a position
	_, err = ParseDecl("nat x [5, 3];")
	var nerr *NodeError
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, 1, nerr.Line)
	assert.Equal(t, 7, nerr.Col)
	assert.ErrorIs(t, err, ast.ErrMalformedNode)
}
