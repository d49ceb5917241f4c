package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vyPal/linprog/lib/parser"
	"github.com/vyPal/linprog/lib/polynomial"
)

func TestCompile(t *testing.T) {
	prog, err := parser.ParseProgram("max", "2x + y", []string{
		"x + y <= 4",
		"3x >= 1",
		"x - y = 0",
	})
	require.NoError(t, err)

	comp := NewCompiler()
	require.NoError(t, comp.Compile(prog))

	out := comp.String()
	assert.Contains(t, out, "define i64 @objective(i64 %x, i64 %y)")
	assert.Contains(t, out, "mul i64 2, %x")
	assert.Contains(t, out, "define i1 @constraint_0(i64 %x, i64 %y)")
	assert.Contains(t, out, "define i1 @constraint_2(i64 %x, i64 %y)")
	assert.Contains(t, out, "icmp sle i64")
	assert.Contains(t, out, "icmp sge i64")
	assert.Contains(t, out, "icmp eq i64")
	assert.Contains(t, out, "mul i64 -1, %y")
	assert.Contains(t, out, "define i1 @feasible(i64 %x, i64 %y)")
	assert.Contains(t, out, "call i1 @constraint_1(i64 %x, i64 %y)")
	assert.Contains(t, out, "and i1")

	assert.Len(t, comp.Constraints, 3)
	assert.Len(t, comp.Module.Funcs, 5)
}

func TestCompile_NoConstraints(t *testing.T) {
	prog, err := parser.ParseProgram("min", "x", nil)
	require.NoError(t, err)

	comp := NewCompiler()
	require.NoError(t, comp.Compile(prog))

	out := comp.String()
	assert.Contains(t, out, "ret i64 %x")
	assert.Contains(t, out, "ret i1 true")
}

func TestCompile_UnknownComparator(t *testing.T) {
	prog := &parser.Program{
		Goal: polynomial.Expression{{Coefficient: 1, Variable: 'x'}},
		Constraints: []parser.Constraint{
			{LHS: polynomial.Expression{{Coefficient: 1, Variable: 'x'}}, Comparator: "<", RHS: 1},
		},
	}

	err := NewCompiler().Compile(prog)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "constraint 1")
}
