package parser

import (
	"fmt"
	"strings"

	gfn "github.com/panyam/goutils/fn"

	"github.com/panyam/pgcl/ast"
)

// ChainedExpr is a flat run of operands separated by binary operators, as
// read off the source before precedence is taken into account.
type ChainedExpr struct {
	Children  []ast.Expr
	Operators []string
}

func (c *ChainedExpr) String() string {
	return fmt.Sprintf("(%s)", strings.Join(gfn.Map(c.Children, func(e ast.Expr) string { return e.String() }), ", "))
}

// Unchain builds the operator tree of the chain by precedence climbing.
// Non associative operators of one level, like comparisons, cannot be
// chained without parentheses.
func (c *ChainedExpr) Unchain(p ast.Precedencer) (ast.Expr, error) {
	if len(c.Children) == 0 {
		return nil, fmt.Errorf("empty expression")
	}
	if len(c.Children) != len(c.Operators)+1 {
		return nil, fmt.Errorf("malformed chain: %d operands for %d operators", len(c.Children), len(c.Operators))
	}
	if p == nil {
		p = ast.DefaultPrecedencer
	}
	childIdx, opIdx := 0, 0
	return c.parseExpressionRecursive(p, &childIdx, &opIdx, 0)
}

// parseExpressionRecursive consumes operands and operators from the current
// indexes, folding only operators whose precedence is at least
// minPrecedence.
func (c *ChainedExpr) parseExpressionRecursive(p ast.Precedencer, childIdx *int, opIdx *int, minPrecedence int) (ast.Expr, error) {
	lhs := c.Children[*childIdx]
	*childIdx++

	for *opIdx < len(c.Operators) {
		currentOp := c.Operators[*opIdx]
		opPrec := p.PrecedenceFor(currentOp)
		opAssoc := p.AssociativityFor(currentOp)
		if opPrec < minPrecedence {
			break
		}
		*opIdx++

		// Left and non associative operators take a strictly tighter right
		// operand, right associative ones recurse at their own level.
		nextMinPrecedence := opPrec + 1
		if opAssoc == ast.AssocRight {
			nextMinPrecedence = opPrec
		}
		rhs, err := c.parseExpressionRecursive(p, childIdx, opIdx, nextMinPrecedence)
		if err != nil {
			return nil, err
		}

		op, ok := ast.BinopFromSymbol(currentOp)
		if !ok {
			return nil, fmt.Errorf("unknown operator '%s'", currentOp)
		}
		if lhs, err = ast.NewBinopExpr(op, lhs, rhs); err != nil {
			return nil, err
		}

		if opAssoc == ast.AssocNone && *opIdx < len(c.Operators) {
			if next := c.Operators[*opIdx]; p.PrecedenceFor(next) == opPrec {
				return nil, fmt.Errorf("operators '%s' and '%s' cannot be chained, use parentheses", currentOp, next)
			}
		}
	}
	return lhs, nil
}
