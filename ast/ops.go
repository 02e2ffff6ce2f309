package ast

import "fmt"

// Associativity of an operator when chained with operators of equal precedence.
type Associativity int

const (
	AssocNone Associativity = iota
	AssocLeft
	AssocRight
)

// ResultKind is the fixed kind of value an operator produces.
type ResultKind int

const (
	ResultOperand      ResultKind = iota // Same as the operand(s), eg literals and variables
	ResultBool                           // Boolean
	ResultNat                            // Natural number
	ResultNumber                         // Nat or real depending on the operands
	ResultReal                           // Always real
	ResultDistribution                   // Distribution over values
)

// Precedence levels, lowest binding first.
const (
	PrecOr = iota + 1
	PrecXor
	PrecAnd
	PrecCompare
	PrecAdd
	PrecMul
	PrecPower
	PrecUnary
	PrecPostfix
	PrecAtom
)

// PrecedenceInfo is one row of the operator table.
type PrecedenceInfo struct {
	Symbol     string // Surface symbol, infix for binops, prefix/function name otherwise
	Precedence int
	Assoc      Associativity
	Result     ResultKind
}

// Precedencer resolves the precedence and associativity of an operator key.
// The parser uses it to unchain flat operator sequences and the renderer to
// decide on parentheses, so both agree on one table.
type Precedencer interface {
	PrecedenceFor(operator string) int
	AssociativityFor(operator string) Associativity
}

// Unop is a unary operator.
type Unop int

const (
	Neg     Unop = iota // Arithmetic negation, -e
	Not                 // Boolean negation, not e
	Iverson             // Iverson bracket, [e]
)

// Binop is a binary operator.
type Binop int

const (
	Or Binop = iota
	Xor
	And
	Leq
	Lt
	Geq
	Gt
	Eq
	Neq
	Plus
	Minus
	Times
	Divide
	Modulo
	Power
)

var unopKeys = [...]string{Neg: "neg", Not: "not", Iverson: "iverson"}

var binopKeys = [...]string{
	Or: "||", Xor: "xor", And: "&",
	Leq: "<=", Lt: "<", Geq: ">=", Gt: ">", Eq: "=", Neq: "!=",
	Plus: "+", Minus: "-", Times: "*", Divide: "/", Modulo: "%", Power: "^",
}

// Keys for the non operator forms that still take part in precedence decisions.
const (
	keyVar         = "var"
	keyBoolLit     = "bool"
	keyNatLit      = "nat"
	keyRealLit     = "real"
	keySubst       = "subst"
	keyTick        = "tick"
	keyDUniform    = "unif_d"
	keyCUniform    = "unif_c"
	keyBernoulli   = "bernoulli"
	keyGeometric   = "geometric"
	keyPoisson     = "poisson"
	keyLogDist     = "logdist"
	keyBinomial    = "binomial"
	keyCategorical = "categorical"
	keyIid         = "iid"
)

// operatorTable is the single source of truth for symbols, precedence,
// associativity and result kinds.  Every expression form has a row.
var operatorTable = map[string]PrecedenceInfo{
	"||":  {"||", PrecOr, AssocLeft, ResultBool},
	"xor": {"xor", PrecXor, AssocLeft, ResultBool},
	"&":   {"&", PrecAnd, AssocLeft, ResultBool},
	"<=":  {"<=", PrecCompare, AssocNone, ResultBool},
	"<":   {"<", PrecCompare, AssocNone, ResultBool},
	">=":  {">=", PrecCompare, AssocNone, ResultBool},
	">":   {">", PrecCompare, AssocNone, ResultBool},
	"=":   {"=", PrecCompare, AssocNone, ResultBool},
	"!=":  {"!=", PrecCompare, AssocNone, ResultBool},
	"+":   {"+", PrecAdd, AssocLeft, ResultNumber},
	"-":   {"-", PrecAdd, AssocLeft, ResultNumber},
	"*":   {"*", PrecMul, AssocLeft, ResultNumber},
	"/":   {"/", PrecMul, AssocLeft, ResultReal},
	"%":   {"%", PrecMul, AssocLeft, ResultNat},
	"^":   {"^", PrecPower, AssocRight, ResultNumber},

	// Prefix operators nest without parentheses, eg "not not x" or "--x".
	"neg":     {"-", PrecUnary, AssocRight, ResultNumber},
	"not":     {"not", PrecUnary, AssocRight, ResultBool},
	"iverson": {"[]", PrecAtom, AssocNone, ResultNat},

	// Postfix substitution chains to the left, eg "x[x/y][y/1]".
	keySubst: {"[/]", PrecPostfix, AssocLeft, ResultOperand},

	keyVar:         {"", PrecAtom, AssocNone, ResultOperand},
	keyBoolLit:     {"", PrecAtom, AssocNone, ResultBool},
	keyNatLit:      {"", PrecAtom, AssocNone, ResultNat},
	keyRealLit:     {"", PrecAtom, AssocNone, ResultReal},
	keyTick:        {"tick", PrecAtom, AssocNone, ResultOperand},
	keyDUniform:    {"unif_d", PrecAtom, AssocNone, ResultDistribution},
	keyCUniform:    {"unif_c", PrecAtom, AssocNone, ResultDistribution},
	keyBernoulli:   {"bernoulli", PrecAtom, AssocNone, ResultDistribution},
	keyGeometric:   {"geometric", PrecAtom, AssocNone, ResultDistribution},
	keyPoisson:     {"poisson", PrecAtom, AssocNone, ResultDistribution},
	keyLogDist:     {"logdist", PrecAtom, AssocNone, ResultDistribution},
	keyBinomial:    {"binomial", PrecAtom, AssocNone, ResultDistribution},
	keyCategorical: {"categorical", PrecAtom, AssocNone, ResultDistribution},
	keyIid:         {"iid", PrecAtom, AssocNone, ResultDistribution},
}

func lookupOperator(key string) PrecedenceInfo {
	info, ok := operatorTable[key]
	if !ok {
		panic(fmt.Sprintf("ast: operator '%s' missing from the operator table", key))
	}
	return info
}

func (op Unop) valid() bool  { return op >= 0 && int(op) < len(unopKeys) }
func (op Binop) valid() bool { return op >= 0 && int(op) < len(binopKeys) }

// Key is the row of this operator in the operator table.
func (op Unop) Key() string  { return unopKeys[op] }
func (op Binop) Key() string { return binopKeys[op] }

func (op Unop) Info() PrecedenceInfo  { return lookupOperator(op.Key()) }
func (op Binop) Info() PrecedenceInfo { return lookupOperator(op.Key()) }

func (op Unop) Result() ResultKind  { return op.Info().Result }
func (op Binop) Result() ResultKind { return op.Info().Result }

func (op Unop) String() string  { return op.Info().Symbol }
func (op Binop) String() string { return op.Info().Symbol }

// BinopFromSymbol returns the binary operator written as sym.
func BinopFromSymbol(sym string) (Binop, bool) {
	for op, key := range binopKeys {
		if key == sym {
			return Binop(op), true
		}
	}
	return 0, false
}

// tablePrecedencer answers Precedencer queries from operatorTable.
type tablePrecedencer struct{}

// DefaultPrecedencer is the Precedencer backed by the operator table.
var DefaultPrecedencer Precedencer = tablePrecedencer{}

func (tablePrecedencer) PrecedenceFor(operator string) int {
	if info, ok := operatorTable[operator]; ok {
		return info.Precedence
	}
	return 0
}

func (tablePrecedencer) AssociativityFor(operator string) Associativity {
	if info, ok := operatorTable[operator]; ok {
		return info.Assoc
	}
	return AssocNone
}

// OperatorKey returns the operator table row governing how e renders.
func OperatorKey(e Expr) string { return MatchExpr(e, operatorKeys{}) }

// Precedence returns the binding strength of e's root form.
func Precedence(e Expr) int { return lookupOperator(OperatorKey(e)).Precedence }

type operatorKeys struct{}

var _ ExprVisitor[string] = operatorKeys{}

func (operatorKeys) VisitVarExpr(*VarExpr) string                 { return keyVar }
func (operatorKeys) VisitBoolLitExpr(*BoolLitExpr) string         { return keyBoolLit }
func (operatorKeys) VisitNatLitExpr(*NatLitExpr) string           { return keyNatLit }
func (operatorKeys) VisitRealLitExpr(*RealLitExpr) string         { return keyRealLit }
func (operatorKeys) VisitUnopExpr(e *UnopExpr) string             { return e.Op.Key() }
func (operatorKeys) VisitBinopExpr(e *BinopExpr) string           { return e.Op.Key() }
func (operatorKeys) VisitSubstExpr(*SubstExpr) string             { return keySubst }
func (operatorKeys) VisitTickExpr(*TickExpr) string               { return keyTick }
func (operatorKeys) VisitDUniformExpr(*DUniformExpr) string       { return keyDUniform }
func (operatorKeys) VisitCUniformExpr(*CUniformExpr) string       { return keyCUniform }
func (operatorKeys) VisitBernoulliExpr(*BernoulliExpr) string     { return keyBernoulli }
func (operatorKeys) VisitGeometricExpr(*GeometricExpr) string     { return keyGeometric }
func (operatorKeys) VisitPoissonExpr(*PoissonExpr) string         { return keyPoisson }
func (operatorKeys) VisitLogDistExpr(*LogDistExpr) string         { return keyLogDist }
func (operatorKeys) VisitBinomialExpr(*BinomialExpr) string       { return keyBinomial }
func (operatorKeys) VisitCategoricalExpr(*CategoricalExpr) string { return keyCategorical }
func (operatorKeys) VisitIidSampleExpr(*IidSampleExpr) string     { return keyIid }
