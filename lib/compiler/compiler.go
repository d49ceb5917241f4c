package compiler

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	"github.com/pkg/errors"
	"github.com/vyPal/linprog/lib/parser"
)

// Context is the block being filled together with the parameters of the
// function that owns it, keyed by variable.
type Context struct {
	*ir.Block
	*Compiler
	vars map[rune]value.Value
}

func NewContext(f *ir.Func, comp *Compiler) *Context {
	ctx := &Context{
		Block:    f.NewBlock(""),
		Compiler: comp,
		vars:     make(map[rune]value.Value, len(f.Params)),
	}
	for i, param := range f.Params {
		ctx.vars[comp.Variables[i]] = param
	}
	return ctx
}

func (c *Context) lookupVariable(v rune) (value.Value, error) {
	if val, ok := c.vars[v]; ok {
		return val, nil
	}
	return nil, errors.Errorf("unable to find a variable named %c", v)
}

// Compiler lowers a program into an LLVM module with one i64 parameter
// per variable, in Program.Variables order:
//
//	i64 @objective(...)    the goal
//	i1  @constraint_N(...) whether constraint N holds, counting from 0
//	i1  @feasible(...)     whether every constraint holds
type Compiler struct {
	Module      *ir.Module
	Program     *parser.Program
	Variables   []rune
	Constraints []*ir.Func
}

func NewCompiler() *Compiler {
	return &Compiler{
		Module: ir.NewModule(),
	}
}

func (c *Compiler) newParams() []*ir.Param {
	params := make([]*ir.Param, 0, len(c.Variables))
	for _, v := range c.Variables {
		params = append(params, ir.NewParam(string(v), types.I64))
	}
	return params
}

func (c *Compiler) Compile(prog *parser.Program) error {
	c.Program = prog
	c.Variables = prog.Variables()

	objective := c.Module.NewFunc("objective", types.I64, c.newParams()...)
	ctx := NewContext(objective, c)
	goal, err := ctx.compileExpression(prog.Goal)
	if err != nil {
		return errors.Wrap(err, "compiling goal")
	}
	ctx.NewRet(goal)

	for i, constraint := range prog.Constraints {
		fn := c.Module.NewFunc(fmt.Sprintf("constraint_%d", i), types.I1, c.newParams()...)
		ctx := NewContext(fn, c)
		holds, err := ctx.compileConstraint(constraint)
		if err != nil {
			return errors.Wrapf(err, "compiling constraint %d", i+1)
		}
		ctx.NewRet(holds)
		c.Constraints = append(c.Constraints, fn)
	}

	c.compileFeasible()
	return nil
}

func (c *Compiler) compileFeasible() {
	fn := c.Module.NewFunc("feasible", types.I1, c.newParams()...)
	ctx := NewContext(fn, c)

	args := make([]value.Value, 0, len(fn.Params))
	for _, param := range fn.Params {
		args = append(args, param)
	}

	var all value.Value = constant.True
	for i, constraint := range c.Constraints {
		holds := ctx.NewCall(constraint, args...)
		if i == 0 {
			all = holds
			continue
		}
		all = ctx.NewAnd(all, holds)
	}
	ctx.NewRet(all)
}

func (c *Compiler) String() string {
	return c.Module.String()
}
