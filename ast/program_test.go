package ast

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panyam/pgcl/logging"
)

func TestBuildDuplicateNames(t *testing.T) {
	decls := []Decl{
		must(NewVarDecl("x", &BoolType{})),
		must(NewVarDecl("y", &RealType{})),
		must(NewConstDecl("x", nat(1))),
	}
	_, err := Build(decls, nil, DefaultConfig())
	require.ErrorIs(t, err, ErrDuplicateName)
	var derr *DuplicateNameError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "x", derr.Name)
	assert.Equal(t, 0, derr.First)
	assert.Equal(t, 2, derr.Second)

	_, err = Build([]Decl{nil}, nil, DefaultConfig())
	assert.ErrorIs(t, err, ErrMalformedNode)
}

func TestBuildCopiesSlices(t *testing.T) {
	instrs := []Instr{&SkipInstr{}, &SkipInstr{}}
	prog, err := Build(nil, instrs, DefaultConfig())
	require.NoError(t, err)
	instrs[0] = asgn("x", nat(1))
	assert.Equal(t, "skip;\nskip;\n", prog.String())
}

func TestQueryPlacement(t *testing.T) {
	query := must(NewExpectationInstr(v("x")))
	tests := []struct {
		name   string
		instrs []Instr
		reason string
	}{
		{"suffix", []Instr{asgn("x", nat(1)), query, must(NewProbabilityQueryInstr(v("x")))}, ""},
		{"only queries", []Instr{query}, ""},
		{"instruction after query", []Instr{query, &SkipInstr{}}, "instruction follows a query"},
		{"nested query", []Instr{must(NewWhileInstr(v("b"), []Instr{query}))}, "query nested inside a compound instruction"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckQueryPlacement(tt.instrs)
			if tt.reason == "" {
				assert.NoError(t, err)
				return
			}
			var qerr *MalformedQueryPlacementError
			require.ErrorAs(t, err, &qerr)
			assert.Equal(t, tt.reason, qerr.Reason)
			assert.ErrorIs(t, err, ErrMalformedQueryPlacement)
		})
	}
}

func TestBuildQueryPlacementIsAdvisory(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	logger := logging.New(&buf, slog.LevelInfo)
	instrs := []Instr{must(NewExpectationInstr(v("x"))), asgn("x", nat(1))}

	prog, err := Build(nil, instrs, DefaultConfig(), WithLogger(logger))
	require.NoError(t, err)
	assert.Len(t, prog.Instructions, 2)
	assert.Contains(t, buf.String(), "WARN: Query is not at the end of the program")
	assert.Contains(t, buf.String(), "instruction follows a query")

	cfg := DefaultConfig()
	cfg.EnforceQueryPlacement = true
	_, err = Build(nil, instrs, cfg)
	assert.ErrorIs(t, err, ErrMalformedQueryPlacement)
}

func TestProgramAccessors(t *testing.T) {
	prog := testProgram(t, DefaultConfig())

	d, ok := prog.Decl("c")
	require.True(t, ok)
	assert.Equal(t, "const c := 5;", d.String())
	_, ok = prog.Decl("missing")
	assert.False(t, ok)

	assert.Len(t, prog.Variables(), 2)
	assert.Len(t, prog.Constants(), 1)
	assert.Len(t, prog.Parameters(), 1)
	assert.Equal(t, map[Var]Expr{"c": nat(5)}, prog.ConstantValues())
	require.Len(t, prog.Queries(), 1)
	assert.Equal(t, "?Ex[r]", prog.Queries()[0].String())
}

func TestProgramEqualityIgnoresConfig(t *testing.T) {
	a := testProgram(t, DefaultConfig())
	cfg := DefaultConfig()
	cfg.HideTicks = true
	b := testProgram(t, cfg)
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Hash(), b.Hash())
	assert.NotEqual(t, a.Format(), b.Format())
	assert.Equal(t, a.String(), b.String(), "String ignores the config")
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
indent = "\t"
hide_ticks = true
inline_constants = true
`))
	require.NoError(t, err)
	assert.Equal(t, ProgramConfig{Indent: "\t", HideTicks: true, InlineConstants: true}, cfg)

	cfg, err = ParseConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	_, err = ParseConfig([]byte(`hide_tick = true`))
	assert.ErrorContains(t, err, "unknown keys hide_tick")

	_, err = ParseConfig([]byte(`hide_ticks = "yes"`))
	assert.ErrorContains(t, err, "invalid program config")
}

func TestConfigRoundTrip(t *testing.T) {
	cfg := ProgramConfig{Indent: "  ", EnforceQueryPlacement: true}
	data, err := cfg.MarshalTOML()
	require.NoError(t, err)
	back, err := ParseConfig(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
	assert.Equal(t, RenderOptions{Indent: "  "}, back.RenderOptions())
}
