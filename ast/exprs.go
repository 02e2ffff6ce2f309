package ast

import (
	"maps"
	"slices"

	"github.com/shopspring/decimal"
)

// --- State expressions ---

// VarExpr references a variable, constant or parameter by name.
type VarExpr struct {
	Var Var
}

// BoolLitExpr is a boolean literal.
type BoolLitExpr struct {
	Value bool
}

// NatLitExpr is a natural number literal.
type NatLitExpr struct {
	Value uint64
}

// RealLitExpr is a non negative decimal literal.  Negative reals are written
// as Neg applied to a literal.
type RealLitExpr struct {
	Value decimal.Decimal
}

// UnopExpr applies a unary operator.
type UnopExpr struct {
	Op   Unop
	Expr Expr
}

// BinopExpr applies a binary operator.
type BinopExpr struct {
	Op  Binop
	Lhs Expr
	Rhs Expr
}

// SubstExpr is a deferred substitution: it denotes Expr with every free
// occurrence of each key of Subst replaced, simultaneously, by its value.
// This is a marker carried through the tree and is distinct from the eager
// substitution performed by the walk package.
type SubstExpr struct {
	Subst map[Var]Expr
	Expr  Expr
}

// TickExpr marks a subexpression whose evaluation also costs one tick.
type TickExpr struct {
	Expr Expr
}

// --- Distribution valued expressions ---

// DUniformExpr is the discrete uniform distribution over [Start, End].
type DUniformExpr struct {
	Start Expr
	End   Expr
}

// CUniformExpr is the continuous uniform distribution over [Start, End].
type CUniformExpr struct {
	Start Expr
	End   Expr
}

// BernoulliExpr is the Bernoulli distribution with success probability Param.
type BernoulliExpr struct {
	Param Expr
}

// GeometricExpr is the geometric distribution with parameter Param.
type GeometricExpr struct {
	Param Expr
}

// PoissonExpr is the Poisson distribution with rate Param.
type PoissonExpr struct {
	Param Expr
}

// LogDistExpr is the logarithmic distribution with parameter Param.
type LogDistExpr struct {
	Param Expr
}

// BinomialExpr is the binomial distribution of N trials with probability P.
type BinomialExpr struct {
	N Expr
	P Expr
}

// CategoricalEntry is one point of a categorical distribution.
type CategoricalEntry struct {
	Value  Expr
	Weight decimal.Decimal
}

// CategoricalExpr chooses between values with the given relative weights.
// Weights are not normalized here; that is left to the analyses.
type CategoricalExpr struct {
	Entries []CategoricalEntry
}

// IidSampleExpr sums Count independent draws from the Base distribution.
type IidSampleExpr struct {
	Base  Expr
	Count Expr
}

// TotalWeight returns the sum of all entry weights.
func (c *CategoricalExpr) TotalWeight() (out decimal.Decimal) {
	for _, e := range c.Entries {
		out = out.Add(e.Weight)
	}
	return
}

// Probability returns the normalized probability of the i'th entry.
func (c *CategoricalExpr) Probability(i int) decimal.Decimal {
	return c.Entries[i].Weight.Div(c.TotalWeight())
}

// --- Constructors ---

func requireExpr(node, field string, e Expr) error {
	if e == nil {
		return malformed(node, field, "expression is missing")
	}
	return nil
}

func requireExprs(node string, fields []string, exprs ...Expr) error {
	for i, e := range exprs {
		if err := requireExpr(node, fields[i], e); err != nil {
			return err
		}
	}
	return nil
}

func NewVarExpr(name string) (*VarExpr, error) {
	if err := checkName("VarExpr", "Var", name); err != nil {
		return nil, err
	}
	return &VarExpr{Var: name}, nil
}

func NewRealLitExpr(value decimal.Decimal) (*RealLitExpr, error) {
	if value.IsNegative() {
		return nil, malformed("RealLitExpr", "Value", "literal %s is negative", value)
	}
	return &RealLitExpr{Value: value}, nil
}

func NewUnopExpr(op Unop, e Expr) (*UnopExpr, error) {
	if !op.valid() {
		return nil, malformed("UnopExpr", "Op", "unknown unary operator %d", op)
	}
	if err := requireExpr("UnopExpr", "Expr", e); err != nil {
		return nil, err
	}
	return &UnopExpr{Op: op, Expr: e}, nil
}

func NewBinopExpr(op Binop, lhs, rhs Expr) (*BinopExpr, error) {
	if !op.valid() {
		return nil, malformed("BinopExpr", "Op", "unknown binary operator %d", op)
	}
	if err := requireExprs("BinopExpr", []string{"Lhs", "Rhs"}, lhs, rhs); err != nil {
		return nil, err
	}
	return &BinopExpr{Op: op, Lhs: lhs, Rhs: rhs}, nil
}

func NewSubstExpr(subst map[Var]Expr, e Expr) (*SubstExpr, error) {
	if err := requireExpr("SubstExpr", "Expr", e); err != nil {
		return nil, err
	}
	for name, val := range subst {
		if err := checkName("SubstExpr", "Subst", name); err != nil {
			return nil, err
		}
		if err := requireExpr("SubstExpr", "Subst["+name+"]", val); err != nil {
			return nil, err
		}
	}
	return &SubstExpr{Subst: maps.Clone(subst), Expr: e}, nil
}

func NewTickExpr(e Expr) (*TickExpr, error) {
	if err := requireExpr("TickExpr", "Expr", e); err != nil {
		return nil, err
	}
	return &TickExpr{Expr: e}, nil
}

func NewDUniformExpr(start, end Expr) (*DUniformExpr, error) {
	if err := requireExprs("DUniformExpr", []string{"Start", "End"}, start, end); err != nil {
		return nil, err
	}
	return &DUniformExpr{Start: start, End: end}, nil
}

func NewCUniformExpr(start, end Expr) (*CUniformExpr, error) {
	if err := requireExprs("CUniformExpr", []string{"Start", "End"}, start, end); err != nil {
		return nil, err
	}
	return &CUniformExpr{Start: start, End: end}, nil
}

func NewBernoulliExpr(p Expr) (*BernoulliExpr, error) {
	if err := requireExpr("BernoulliExpr", "Param", p); err != nil {
		return nil, err
	}
	return &BernoulliExpr{Param: p}, nil
}

func NewGeometricExpr(p Expr) (*GeometricExpr, error) {
	if err := requireExpr("GeometricExpr", "Param", p); err != nil {
		return nil, err
	}
	return &GeometricExpr{Param: p}, nil
}

func NewPoissonExpr(lambda Expr) (*PoissonExpr, error) {
	if err := requireExpr("PoissonExpr", "Param", lambda); err != nil {
		return nil, err
	}
	return &PoissonExpr{Param: lambda}, nil
}

func NewLogDistExpr(p Expr) (*LogDistExpr, error) {
	if err := requireExpr("LogDistExpr", "Param", p); err != nil {
		return nil, err
	}
	return &LogDistExpr{Param: p}, nil
}

func NewBinomialExpr(n, p Expr) (*BinomialExpr, error) {
	if err := requireExprs("BinomialExpr", []string{"N", "P"}, n, p); err != nil {
		return nil, err
	}
	return &BinomialExpr{N: n, P: p}, nil
}

// NewCategoricalExpr requires at least one entry, no negative weight and a
// positive total weight.
func NewCategoricalExpr(entries ...CategoricalEntry) (*CategoricalExpr, error) {
	if len(entries) == 0 {
		return nil, malformed("CategoricalExpr", "Entries", "support is empty")
	}
	total := decimal.Zero
	for i, entry := range entries {
		if entry.Value == nil {
			return nil, malformed("CategoricalExpr", "Entries", "entry %d has no value", i)
		}
		if entry.Weight.IsNegative() {
			return nil, malformed("CategoricalExpr", "Entries", "entry %d has negative weight %s", i, entry.Weight)
		}
		total = total.Add(entry.Weight)
	}
	if !total.IsPositive() {
		return nil, malformed("CategoricalExpr", "Entries", "total weight is zero")
	}
	return &CategoricalExpr{Entries: slices.Clone(entries)}, nil
}

// NewIidSampleExpr draws count independent copies of base, which must itself
// be distribution valued.
func NewIidSampleExpr(count, base Expr) (*IidSampleExpr, error) {
	if err := requireExprs("IidSampleExpr", []string{"Count", "Base"}, count, base); err != nil {
		return nil, err
	}
	if !IsDistr(base) {
		return nil, malformed("IidSampleExpr", "Base", "%s is not a distribution", base)
	}
	return &IidSampleExpr{Base: base, Count: count}, nil
}

// --- Node capability ---

func (e *VarExpr) exprNode()         {}
func (e *BoolLitExpr) exprNode()     {}
func (e *NatLitExpr) exprNode()      {}
func (e *RealLitExpr) exprNode()     {}
func (e *UnopExpr) exprNode()        {}
func (e *BinopExpr) exprNode()       {}
func (e *SubstExpr) exprNode()       {}
func (e *TickExpr) exprNode()        {}
func (e *DUniformExpr) exprNode()    {}
func (e *CUniformExpr) exprNode()    {}
func (e *BernoulliExpr) exprNode()   {}
func (e *GeometricExpr) exprNode()   {}
func (e *PoissonExpr) exprNode()     {}
func (e *LogDistExpr) exprNode()     {}
func (e *BinomialExpr) exprNode()    {}
func (e *CategoricalExpr) exprNode() {}
func (e *IidSampleExpr) exprNode()   {}

func (e *DUniformExpr) distrNode()    {}
func (e *CUniformExpr) distrNode()    {}
func (e *BernoulliExpr) distrNode()   {}
func (e *GeometricExpr) distrNode()   {}
func (e *PoissonExpr) distrNode()     {}
func (e *LogDistExpr) distrNode()     {}
func (e *BinomialExpr) distrNode()    {}
func (e *CategoricalExpr) distrNode() {}
func (e *IidSampleExpr) distrNode()   {}

func (e *VarExpr) String() string         { return Render(e) }
func (e *BoolLitExpr) String() string     { return Render(e) }
func (e *NatLitExpr) String() string      { return Render(e) }
func (e *RealLitExpr) String() string     { return Render(e) }
func (e *UnopExpr) String() string        { return Render(e) }
func (e *BinopExpr) String() string       { return Render(e) }
func (e *SubstExpr) String() string       { return Render(e) }
func (e *TickExpr) String() string        { return Render(e) }
func (e *DUniformExpr) String() string    { return Render(e) }
func (e *CUniformExpr) String() string    { return Render(e) }
func (e *BernoulliExpr) String() string   { return Render(e) }
func (e *GeometricExpr) String() string   { return Render(e) }
func (e *PoissonExpr) String() string     { return Render(e) }
func (e *LogDistExpr) String() string     { return Render(e) }
func (e *BinomialExpr) String() string    { return Render(e) }
func (e *CategoricalExpr) String() string { return Render(e) }
func (e *IidSampleExpr) String() string   { return Render(e) }

func (e *VarExpr) Hash() uint64         { return hashNode(familyExpr, e) }
func (e *BoolLitExpr) Hash() uint64     { return hashNode(familyExpr, e) }
func (e *NatLitExpr) Hash() uint64      { return hashNode(familyExpr, e) }
func (e *RealLitExpr) Hash() uint64     { return hashNode(familyExpr, e) }
func (e *UnopExpr) Hash() uint64        { return hashNode(familyExpr, e) }
func (e *BinopExpr) Hash() uint64       { return hashNode(familyExpr, e) }
func (e *SubstExpr) Hash() uint64       { return hashNode(familyExpr, e) }
func (e *TickExpr) Hash() uint64        { return hashNode(familyExpr, e) }
func (e *DUniformExpr) Hash() uint64    { return hashNode(familyExpr, e) }
func (e *CUniformExpr) Hash() uint64    { return hashNode(familyExpr, e) }
func (e *BernoulliExpr) Hash() uint64   { return hashNode(familyExpr, e) }
func (e *GeometricExpr) Hash() uint64   { return hashNode(familyExpr, e) }
func (e *PoissonExpr) Hash() uint64     { return hashNode(familyExpr, e) }
func (e *LogDistExpr) Hash() uint64     { return hashNode(familyExpr, e) }
func (e *BinomialExpr) Hash() uint64    { return hashNode(familyExpr, e) }
func (e *CategoricalExpr) Hash() uint64 { return hashNode(familyExpr, e) }
func (e *IidSampleExpr) Hash() uint64   { return hashNode(familyExpr, e) }

func (e *VarExpr) Equal(o Node) bool         { return Equal(e, o) }
func (e *BoolLitExpr) Equal(o Node) bool     { return Equal(e, o) }
func (e *NatLitExpr) Equal(o Node) bool      { return Equal(e, o) }
func (e *RealLitExpr) Equal(o Node) bool     { return Equal(e, o) }
func (e *UnopExpr) Equal(o Node) bool        { return Equal(e, o) }
func (e *BinopExpr) Equal(o Node) bool       { return Equal(e, o) }
func (e *SubstExpr) Equal(o Node) bool       { return Equal(e, o) }
func (e *TickExpr) Equal(o Node) bool        { return Equal(e, o) }
func (e *DUniformExpr) Equal(o Node) bool    { return Equal(e, o) }
func (e *CUniformExpr) Equal(o Node) bool    { return Equal(e, o) }
func (e *BernoulliExpr) Equal(o Node) bool   { return Equal(e, o) }
func (e *GeometricExpr) Equal(o Node) bool   { return Equal(e, o) }
func (e *PoissonExpr) Equal(o Node) bool     { return Equal(e, o) }
func (e *LogDistExpr) Equal(o Node) bool     { return Equal(e, o) }
func (e *BinomialExpr) Equal(o Node) bool    { return Equal(e, o) }
func (e *CategoricalExpr) Equal(o Node) bool { return Equal(e, o) }
func (e *IidSampleExpr) Equal(o Node) bool   { return Equal(e, o) }
