package compiler

import (
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	"github.com/pkg/errors"
	"github.com/vyPal/linprog/lib/parser"
	"github.com/vyPal/linprog/lib/polynomial"
)

func (ctx *Context) compileExpression(e polynomial.Expression) (value.Value, error) {
	if len(e) == 0 {
		return constant.NewInt(types.I64, 0), nil
	}

	left, err := ctx.compileTerm(e[0])
	if err != nil {
		return nil, err
	}
	for _, term := range e[1:] {
		right, err := ctx.compileTerm(term)
		if err != nil {
			return nil, err
		}
		left = ctx.Block.NewAdd(left, right)
	}
	return left, nil
}

func (ctx *Context) compileTerm(t polynomial.Term) (value.Value, error) {
	v, err := ctx.lookupVariable(t.Variable)
	if err != nil {
		return nil, err
	}
	if t.Coefficient == 1 {
		return v, nil
	}
	return ctx.Block.NewMul(constant.NewInt(types.I64, int64(t.Coefficient)), v), nil
}

func (ctx *Context) compileConstraint(c parser.Constraint) (value.Value, error) {
	lhs, err := ctx.compileExpression(c.LHS)
	if err != nil {
		return nil, err
	}
	rhs := constant.NewInt(types.I64, int64(c.RHS))

	switch c.Comparator {
	case parser.LessEqual:
		return ctx.Block.NewICmp(enum.IPredSLE, lhs, rhs), nil
	case parser.GreaterEqual:
		return ctx.Block.NewICmp(enum.IPredSGE, lhs, rhs), nil
	case parser.Equal:
		return ctx.Block.NewICmp(enum.IPredEQ, lhs, rhs), nil
	default:
		return nil, errors.Errorf("unknown comparator %q", c.Comparator)
	}
}
