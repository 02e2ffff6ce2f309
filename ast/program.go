package ast

import (
	"log/slog"
	"slices"
)

// Program is an ordered list of declarations followed by the instructions
// to run.  Build is the only way to make one that is known to be valid; the
// slices it holds are private copies.
type Program struct {
	Config       ProgramConfig
	Declarations []Decl
	Instructions []Instr
}

type buildOptions struct {
	logger *slog.Logger
}

type BuildOption func(*buildOptions)

// WithLogger sets where advisory findings of Build are reported.
func WithLogger(logger *slog.Logger) BuildOption {
	return func(o *buildOptions) { o.logger = logger }
}

// Build assembles a program.  Declaration names must be unique.  Queries
// are expected to form the tail of the instruction list; a violation is
// logged as a warning, or returned as an error when the config enforces
// query placement.
func Build(decls []Decl, instrs []Instr, cfg ProgramConfig, opts ...BuildOption) (*Program, error) {
	bo := buildOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&bo)
	}

	seen := map[string]int{}
	for idx, d := range decls {
		if d == nil {
			return nil, malformed("Program", "Declarations", "declaration %d is missing", idx)
		}
		if first, ok := seen[d.Name()]; ok {
			return nil, &DuplicateNameError{Name: d.Name(), First: first, Second: idx}
		}
		seen[d.Name()] = idx
	}
	body, err := requireInstrs("Program", "Instructions", instrs)
	if err != nil {
		return nil, err
	}

	if err := CheckQueryPlacement(body); err != nil {
		if cfg.EnforceQueryPlacement {
			return nil, err
		}
		bo.logger.Warn("Query is not at the end of the program", "error", err)
	}
	return &Program{Config: cfg, Declarations: slices.Clone(decls), Instructions: body}, nil
}

// CheckQueryPlacement verifies that queries only appear as a suffix of
// instrs, and never inside the body of a compound instruction.
func CheckQueryPlacement(instrs []Instr) error {
	var lastQuery Query
	for idx, instr := range instrs {
		if q, ok := AsQuery(instr); ok {
			lastQuery = q
			continue
		}
		if lastQuery != nil {
			return &MalformedQueryPlacementError{
				Index:  idx,
				Query:  lastQuery.String(),
				Reason: "instruction follows a query",
			}
		}
		var nested Query
		Inspect(instr, func(n Node) bool {
			if q, ok := AsQuery(n); ok && nested == nil {
				nested = q
			}
			return nested == nil
		})
		if nested != nil {
			return &MalformedQueryPlacementError{
				Index:  idx,
				Query:  nested.String(),
				Reason: "query nested inside a compound instruction",
			}
		}
	}
	return nil
}

// Decl looks up the declaration of name.
func (p *Program) Decl(name string) (Decl, bool) {
	for _, d := range p.Declarations {
		if d.Name() == name {
			return d, true
		}
	}
	return nil, false
}

func declsOf[T Decl](p *Program) (out []T) {
	for _, d := range p.Declarations {
		if t, ok := d.(T); ok {
			out = append(out, t)
		}
	}
	return
}

// Variables returns the variable declarations in declaration order.
func (p *Program) Variables() []*VarDecl { return declsOf[*VarDecl](p) }

// Constants returns the constant declarations in declaration order.
func (p *Program) Constants() []*ConstDecl { return declsOf[*ConstDecl](p) }

// Parameters returns the parameter declarations in declaration order.
func (p *Program) Parameters() []*ParameterDecl { return declsOf[*ParameterDecl](p) }

// ConstantValues maps each constant name to its value.
func (p *Program) ConstantValues() map[Var]Expr {
	out := map[Var]Expr{}
	for _, c := range p.Constants() {
		out[c.Var] = c.Value
	}
	return out
}

// Queries returns the top level queries in program order.
func (p *Program) Queries() (out []Query) {
	for _, i := range p.Instructions {
		if q, ok := AsQuery(i); ok {
			out = append(out, q)
		}
	}
	return
}

// Format renders the program with the options from its config.
func (p *Program) Format() string { return RenderWith(p, p.Config.RenderOptions()) }

func (p *Program) String() string    { return Render(p) }
func (p *Program) Hash() uint64      { return hashNode(familyProgram, p) }
func (p *Program) Equal(o Node) bool { return Equal(p, o) }
