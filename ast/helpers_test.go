package ast

import (
	"github.com/shopspring/decimal"
)

// must unwraps constructor results in test fixtures that are known to be valid.
func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func v(name string) *VarExpr { return &VarExpr{Var: name} }

func nat(n uint64) *NatLitExpr { return &NatLitExpr{Value: n} }

func rlit(s string) *RealLitExpr {
	return must(NewRealLitExpr(decimal.RequireFromString(s)))
}

func bin(op Binop, lhs, rhs Expr) *BinopExpr { return must(NewBinopExpr(op, lhs, rhs)) }

func un(op Unop, e Expr) *UnopExpr { return must(NewUnopExpr(op, e)) }

func asgn(lhs string, rhs Expr) *AsgnInstr { return must(NewAsgnInstr(lhs, rhs)) }

func ptr[T any](v T) *T { return &v }
