package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	gfn "github.com/panyam/goutils/fn"
	"github.com/shopspring/decimal"

	"github.com/panyam/pgcl/ast"
)

// LLParser is a recursive descent parser over the render grammar of pGCL
// with one token of lookahead.
type LLParser struct {
	lexer  *Lexer
	peeked *Token
	last   Token // Most recently consumed token
	err    error // Sticky lexer error
}

func NewLLParser(lexer *Lexer) *LLParser {
	return &LLParser{lexer: lexer}
}

func (p *LLParser) Errorf(format string, args ...any) error {
	tok := p.Peek()
	if p.err != nil {
		return p.err
	}
	return &ParseError{Line: tok.Line, Col: tok.Col, Near: tok.Text, Msg: fmt.Sprintf(format, args...)}
}

// wrap attaches the position of tok to an ast constructor error.  Errors
// that already carry a position are returned as is.
func (p *LLParser) wrap(tok Token, err error) error {
	var parseErr *ParseError
	var nodeErr *NodeError
	if err == nil || errors.As(err, &parseErr) || errors.As(err, &nodeErr) {
		return err
	}
	return &NodeError{Line: tok.Line, Col: tok.Col, Err: err}
}

func (p *LLParser) Peek() Token {
	if p.peeked == nil {
		tok, err := p.lexer.Next()
		if err != nil && p.err == nil {
			p.err = err
		}
		if err != nil {
			tok.Kind = eof
		}
		p.peeked = &tok
	}
	return *p.peeked
}

func (p *LLParser) PeekToken() int { return p.Peek().Kind }

func (p *LLParser) Advance() Token {
	tok := p.Peek()
	p.peeked = nil
	p.last = tok
	return tok
}

// Expect checks if the current peeked token is one of the expected tokens.
// It does NOT advance.
func (p *LLParser) Expect(tokensIn ...int) (int, error) {
	peekedToken := p.PeekToken()
	if p.err != nil {
		return -1, p.err
	}
	for _, tok := range tokensIn {
		if tok == peekedToken {
			return tok, nil
		}
	}
	if len(tokensIn) == 1 {
		return -1, p.Errorf("expected %s, found: %s", TokenString(tokensIn[0]), TokenString(peekedToken))
	}
	expectedStrings := gfn.Map(tokensIn, TokenString)
	return -1, p.Errorf("expected one of: [%s], found: %s", strings.Join(expectedStrings, ", "), TokenString(peekedToken))
}

// AdvanceIf expects one of the given tokens and consumes it.
func (p *LLParser) AdvanceIf(tokensIn ...int) (Token, error) {
	if _, err := p.Expect(tokensIn...); err != nil {
		return Token{}, err
	}
	return p.Advance(), nil
}

// Done fails unless all input has been consumed.
func (p *LLParser) Done() error {
	_, err := p.Expect(eof)
	return err
}

func (p *LLParser) ParseIdentifier() (string, error) {
	tok, err := p.AdvanceIf(IDENTIFIER)
	return tok.Text, err
}

// ---- Declarations

func isDeclStart(tok int) bool {
	switch tok {
	case BOOL, NAT, REAL, CONST, NPARAM, RPARAM:
		return true
	}
	return false
}

// ParseDecl parses one declaration including its terminating ';'.
func (p *LLParser) ParseDecl() (out ast.Decl, err error) {
	start, err := p.AdvanceIf(BOOL, NAT, REAL, CONST, NPARAM, RPARAM)
	if err != nil {
		return nil, err
	}
	name, err := p.ParseIdentifier()
	if err != nil {
		return nil, err
	}
	switch start.Kind {
	case BOOL:
		out, err = ast.NewVarDecl(name, &ast.BoolType{})
	case REAL:
		out, err = ast.NewVarDecl(name, &ast.RealType{})
	case NPARAM:
		out, err = ast.NewParameterDecl(name, &ast.NatType{})
	case RPARAM:
		out, err = ast.NewParameterDecl(name, &ast.RealType{})
	case NAT:
		var typ *ast.NatType
		if typ, err = p.parseNatType(); err != nil {
			return nil, err
		}
		out, err = ast.NewVarDecl(name, typ)
	case CONST:
		if _, err = p.AdvanceIf(ASSIGN); err != nil {
			return nil, err
		}
		var value ast.Expr
		if value, err = p.ParseExpr(); err != nil {
			return nil, err
		}
		out, err = ast.NewConstDecl(name, value)
	}
	if err != nil {
		return nil, p.wrap(start, err)
	}
	if _, err = p.AdvanceIf(SEMICOLON); err != nil {
		return nil, err
	}
	return out, nil
}

// parseNatType parses the optional bounds after a nat declaration's name.
func (p *LLParser) parseNatType() (*ast.NatType, error) {
	if p.PeekToken() != LBRACKET {
		return &ast.NatType{}, nil
	}
	start := p.Advance()
	lower, err := p.parseInt()
	if err != nil {
		return nil, err
	}
	if _, err = p.AdvanceIf(COMMA); err != nil {
		return nil, err
	}
	var upper *int64
	if p.PeekToken() == INF {
		p.Advance()
	} else {
		hi, err := p.parseInt()
		if err != nil {
			return nil, err
		}
		upper = &hi
	}
	if _, err = p.AdvanceIf(RBRACKET); err != nil {
		return nil, err
	}
	typ, err := ast.NewNatType(lower, upper)
	return typ, p.wrap(start, err)
}

func (p *LLParser) parseInt() (int64, error) {
	tok, err := p.AdvanceIf(NUMBER)
	if err != nil {
		return 0, err
	}
	v, perr := strconv.ParseInt(tok.Text, 10, 64)
	if perr != nil {
		return 0, &ParseError{Line: tok.Line, Col: tok.Col, Near: tok.Text, Msg: "expected an integer"}
	}
	return v, nil
}

// ---- Instructions

// ParseInstrs parses instructions up to a closing '}' or the end of input.
// Simple instructions are separated by ';', which may be left out before
// the end of the sequence.  Blocks need no separator.
func (p *LLParser) ParseInstrs() (out []ast.Instr, err error) {
	for {
		switch p.PeekToken() {
		case RBRACE, eof:
			return out, p.err
		case SEMICOLON:
			p.Advance()
			continue
		}
		instr, err := p.ParseInstr()
		if err != nil {
			return nil, err
		}
		out = append(out, instr)
		if p.last.Kind != RBRACE {
			if _, err := p.Expect(SEMICOLON, RBRACE, eof); err != nil {
				return nil, err
			}
		}
	}
}

func (p *LLParser) parseBlock() ([]ast.Instr, error) {
	if _, err := p.AdvanceIf(LBRACE); err != nil {
		return nil, err
	}
	body, err := p.ParseInstrs()
	if err != nil {
		return nil, err
	}
	if _, err := p.AdvanceIf(RBRACE); err != nil {
		return nil, err
	}
	return body, nil
}

// parseEnclosed parses "(" expr ")" or "[" expr "]".
func (p *LLParser) parseEnclosed(open, close int) (ast.Expr, error) {
	if _, err := p.AdvanceIf(open); err != nil {
		return nil, err
	}
	e, err := p.ParseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.AdvanceIf(close); err != nil {
		return nil, err
	}
	return e, nil
}

func (p *LLParser) ParseInstr() (out ast.Instr, err error) {
	start := p.Peek()
	switch start.Kind {
	case SKIP:
		p.Advance()
		return &ast.SkipInstr{}, nil
	case PRINT:
		p.Advance()
		return &ast.PrintInstr{}, nil
	case IDENTIFIER:
		p.Advance()
		if _, err = p.AdvanceIf(ASSIGN); err != nil {
			return nil, err
		}
		var rhs ast.Expr
		if rhs, err = p.ParseExpr(); err != nil {
			return nil, err
		}
		out, err = ast.NewAsgnInstr(start.Text, rhs)
	case IF:
		out, err = p.parseIf()
	case WHILE, LOOP:
		p.Advance()
		var cond ast.Expr
		var body []ast.Instr
		if cond, err = p.parseEnclosed(LPAREN, RPAREN); err != nil {
			return nil, err
		}
		if body, err = p.parseBlock(); err != nil {
			return nil, err
		}
		if start.Kind == WHILE {
			out, err = ast.NewWhileInstr(cond, body)
		} else {
			out, err = ast.NewLoopInstr(cond, body)
		}
	case LBRACE:
		out, err = p.parseChoice()
	case TICK, OBSERVE, QUERY_EX, QUERY_PR:
		p.Advance()
		open, close := LPAREN, RPAREN
		if start.Kind == QUERY_EX || start.Kind == QUERY_PR {
			open, close = LBRACKET, RBRACKET
		}
		var e ast.Expr
		if e, err = p.parseEnclosed(open, close); err != nil {
			return nil, err
		}
		switch start.Kind {
		case TICK:
			out, err = ast.NewTickInstr(e)
		case OBSERVE:
			out, err = ast.NewObserveInstr(e)
		case QUERY_EX:
			out, err = ast.NewExpectationInstr(e)
		default:
			out, err = ast.NewProbabilityQueryInstr(e)
		}
	case QUERY_OPT:
		out, err = p.parseOptimization()
	case PLOT:
		out, err = p.parsePlot()
	default:
		return nil, p.Errorf("expected an instruction, found: %s", TokenString(start.Kind))
	}
	if err != nil {
		return nil, p.wrap(start, err)
	}
	return out, nil
}

func (p *LLParser) parseIf() (ast.Instr, error) {
	p.Advance()
	cond, err := p.parseEnclosed(LPAREN, RPAREN)
	if err != nil {
		return nil, err
	}
	tb, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var fb []ast.Instr
	if p.PeekToken() == ELSE {
		p.Advance()
		if fb, err = p.parseBlock(); err != nil {
			return nil, err
		}
	}
	return ast.NewIfInstr(cond, tb, fb)
}

func (p *LLParser) parseChoice() (ast.Instr, error) {
	lhs, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	prob, err := p.parseEnclosed(LBRACKET, RBRACKET)
	if err != nil {
		return nil, err
	}
	rhs, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return ast.NewChoiceInstr(prob, lhs, rhs)
}

func (p *LLParser) parseOptimization() (ast.Instr, error) {
	p.Advance()
	if _, err := p.AdvanceIf(LBRACKET); err != nil {
		return nil, err
	}
	e, err := p.ParseExpr()
	if err != nil {
		return nil, err
	}
	if _, err = p.AdvanceIf(COMMA); err != nil {
		return nil, err
	}
	param, err := p.ParseIdentifier()
	if err != nil {
		return nil, err
	}
	if _, err = p.AdvanceIf(COMMA); err != nil {
		return nil, err
	}
	dir, err := p.AdvanceIf(MAX, MIN)
	if err != nil {
		return nil, err
	}
	if _, err = p.AdvanceIf(RBRACKET); err != nil {
		return nil, err
	}
	typ := ast.Maximize
	if dir.Kind == MIN {
		typ = ast.Minimize
	}
	return ast.NewOptimizationQuery(e, param, typ)
}

// parsePlot parses !Plot[x], !Plot[x, y] and either form followed by a
// real probability and then an integer term count.
func (p *LLParser) parsePlot() (ast.Instr, error) {
	p.Advance()
	if _, err := p.AdvanceIf(LBRACKET); err != nil {
		return nil, err
	}
	var1, err := p.ParseIdentifier()
	if err != nil {
		return nil, err
	}
	var var2 string
	var prob *decimal.Decimal
	var termCount *uint64
	for p.PeekToken() == COMMA {
		p.Advance()
		tok, err := p.AdvanceIf(IDENTIFIER, NUMBER)
		if err != nil {
			return nil, err
		}
		switch {
		case tok.Kind == IDENTIFIER && var2 == "" && prob == nil && termCount == nil:
			var2 = tok.Text
		case tok.Kind == NUMBER && strings.Contains(tok.Text, ".") && prob == nil && termCount == nil:
			d, err := decimal.NewFromString(tok.Text)
			if err != nil {
				return nil, &ParseError{Line: tok.Line, Col: tok.Col, Near: tok.Text, Msg: "invalid probability"}
			}
			prob = &d
		case tok.Kind == NUMBER && !strings.Contains(tok.Text, ".") && termCount == nil:
			n, err := strconv.ParseUint(tok.Text, 10, 64)
			if err != nil {
				return nil, &ParseError{Line: tok.Line, Col: tok.Col, Near: tok.Text, Msg: "invalid term count"}
			}
			termCount = &n
		default:
			return nil, &ParseError{Line: tok.Line, Col: tok.Col, Near: tok.Text, Msg: "unexpected plot argument"}
		}
	}
	if _, err = p.AdvanceIf(RBRACKET); err != nil {
		return nil, err
	}
	return ast.NewPlotInstr(var1, var2, prob, termCount)
}

// ---- Expressions

// ParseExpr parses a chain of unary expressions separated by binary
// operators and resolves it with the ast precedence table.
func (p *LLParser) ParseExpr() (ast.Expr, error) {
	start := p.Peek()
	chain := &ChainedExpr{}
	for {
		operand, err := p.ParseUnaryExpr()
		if err != nil {
			return nil, err
		}
		chain.Children = append(chain.Children, operand)
		tok := p.Peek()
		if tok.Kind != BINARY_OP && tok.Kind != MINUS {
			break
		}
		p.Advance()
		chain.Operators = append(chain.Operators, tok.Text)
	}
	e, err := chain.Unchain(ast.DefaultPrecedencer)
	if errors.Is(err, ast.ErrMalformedNode) {
		return nil, p.wrap(start, err)
	} else if err != nil {
		return nil, &ParseError{Line: start.Line, Col: start.Col, Near: start.Text, Msg: err.Error()}
	}
	return e, nil
}

func (p *LLParser) ParseUnaryExpr() (ast.Expr, error) {
	start := p.Peek()
	var op ast.Unop
	switch start.Kind {
	case MINUS:
		op = ast.Neg
	case NOT:
		op = ast.Not
	default:
		return p.ParsePostfixExpr()
	}
	p.Advance()
	operand, err := p.ParseUnaryExpr()
	if err != nil {
		return nil, err
	}
	out, err := ast.NewUnopExpr(op, operand)
	if err != nil {
		return nil, p.wrap(start, err)
	}
	return out, nil
}

// ParsePostfixExpr parses a primary expression followed by any number of
// deferred substitutions, eg x[x/y, y/1].
func (p *LLParser) ParsePostfixExpr() (ast.Expr, error) {
	e, err := p.ParsePrimaryExpr()
	if err != nil {
		return nil, err
	}
	for p.PeekToken() == LBRACKET {
		start := p.Advance()
		subst := map[ast.Var]ast.Expr{}
		for p.PeekToken() != RBRACKET {
			if len(subst) > 0 {
				if _, err = p.AdvanceIf(COMMA); err != nil {
					return nil, err
				}
			}
			nameTok, err := p.AdvanceIf(IDENTIFIER)
			if err != nil {
				return nil, err
			}
			if _, dup := subst[nameTok.Text]; dup {
				return nil, &ParseError{Line: nameTok.Line, Col: nameTok.Col, Near: nameTok.Text, Msg: "variable substituted twice"}
			}
			if slash, err := p.AdvanceIf(BINARY_OP); err != nil || slash.Text != "/" {
				if err == nil {
					err = &ParseError{Line: slash.Line, Col: slash.Col, Near: slash.Text, Msg: "expected '/'"}
				}
				return nil, err
			}
			value, err := p.ParseExpr()
			if err != nil {
				return nil, err
			}
			subst[nameTok.Text] = value
		}
		p.Advance()
		var out *ast.SubstExpr
		if out, err = ast.NewSubstExpr(subst, e); err != nil {
			return nil, p.wrap(start, err)
		}
		e = out
	}
	return e, nil
}

func (p *LLParser) ParsePrimaryExpr() (out ast.Expr, err error) {
	start := p.Peek()
	switch start.Kind {
	case IDENTIFIER:
		p.Advance()
		out, err = ast.NewVarExpr(start.Text)
	case TRUE, FALSE:
		p.Advance()
		return &ast.BoolLitExpr{Value: start.Kind == TRUE}, nil
	case NUMBER:
		p.Advance()
		return p.parseNumber(start)
	case LPAREN:
		return p.parseEnclosed(LPAREN, RPAREN)
	case LBRACKET:
		var inner ast.Expr
		if inner, err = p.parseEnclosed(LBRACKET, RBRACKET); err != nil {
			return nil, err
		}
		out, err = ast.NewUnopExpr(ast.Iverson, inner)
	case TICK:
		p.Advance()
		var args []ast.Expr
		if args, err = p.parseArgs(1); err != nil {
			return nil, err
		}
		out, err = ast.NewTickExpr(args[0])
	case DISTRIBUTION:
		p.Advance()
		out, err = p.parseDistribution(start)
	case IID:
		p.Advance()
		var args []ast.Expr
		if args, err = p.parseArgs(2); err != nil {
			return nil, err
		}
		out, err = ast.NewIidSampleExpr(args[1], args[0])
	case CATEGORICAL:
		p.Advance()
		out, err = p.parseCategorical()
	default:
		return nil, p.Errorf("expected an expression, found: %s", TokenString(start.Kind))
	}
	if err != nil {
		return nil, p.wrap(start, err)
	}
	return out, nil
}

func (p *LLParser) parseNumber(tok Token) (ast.Expr, error) {
	if strings.Contains(tok.Text, ".") {
		d, err := decimal.NewFromString(tok.Text)
		if err != nil {
			return nil, &ParseError{Line: tok.Line, Col: tok.Col, Near: tok.Text, Msg: "invalid real literal"}
		}
		out, err := ast.NewRealLitExpr(d)
		if err != nil {
			return nil, p.wrap(tok, err)
		}
		return out, nil
	}
	v, err := strconv.ParseUint(tok.Text, 10, 64)
	if err != nil {
		return nil, &ParseError{Line: tok.Line, Col: tok.Col, Near: tok.Text, Msg: "natural literal out of range"}
	}
	return &ast.NatLitExpr{Value: v}, nil
}

// parseArgs parses a parenthesized argument list of exactly n expressions.
func (p *LLParser) parseArgs(n int) ([]ast.Expr, error) {
	if _, err := p.AdvanceIf(LPAREN); err != nil {
		return nil, err
	}
	var args []ast.Expr
	for i := range n {
		if i > 0 {
			if _, err := p.AdvanceIf(COMMA); err != nil {
				return nil, err
			}
		}
		arg, err := p.ParseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	if _, err := p.AdvanceIf(RPAREN); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *LLParser) parseDistribution(name Token) (ast.Expr, error) {
	arity := 1
	switch name.Text {
	case "unif_d", "unif_c", "binomial":
		arity = 2
	}
	args, err := p.parseArgs(arity)
	if err != nil {
		return nil, err
	}
	switch name.Text {
	case "unif_d":
		return ast.NewDUniformExpr(args[0], args[1])
	case "unif_c":
		return ast.NewCUniformExpr(args[0], args[1])
	case "binomial":
		return ast.NewBinomialExpr(args[0], args[1])
	case "bernoulli":
		return ast.NewBernoulliExpr(args[0])
	case "geometric":
		return ast.NewGeometricExpr(args[0])
	case "poisson":
		return ast.NewPoissonExpr(args[0])
	case "logdist":
		return ast.NewLogDistExpr(args[0])
	}
	return nil, &ParseError{Line: name.Line, Col: name.Col, Near: name.Text, Msg: "unknown distribution"}
}

// parseCategorical parses categorical(v1 : w1, v2 : w2, ...).
func (p *LLParser) parseCategorical() (ast.Expr, error) {
	if _, err := p.AdvanceIf(LPAREN); err != nil {
		return nil, err
	}
	var entries []ast.CategoricalEntry
	for {
		value, err := p.ParseExpr()
		if err != nil {
			return nil, err
		}
		if _, err = p.AdvanceIf(COLON); err != nil {
			return nil, err
		}
		wtok, err := p.AdvanceIf(NUMBER)
		if err != nil {
			return nil, err
		}
		weight, err := decimal.NewFromString(wtok.Text)
		if err != nil {
			return nil, &ParseError{Line: wtok.Line, Col: wtok.Col, Near: wtok.Text, Msg: "invalid weight"}
		}
		entries = append(entries, ast.CategoricalEntry{Value: value, Weight: weight})
		if p.PeekToken() != COMMA {
			break
		}
		p.Advance()
	}
	if _, err := p.AdvanceIf(RPAREN); err != nil {
		return nil, err
	}
	return ast.NewCategoricalExpr(entries...)
}
