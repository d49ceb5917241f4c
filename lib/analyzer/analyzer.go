package analyzer

import (
	"fmt"
	"slices"

	"github.com/pkg/errors"
	"github.com/vyPal/linprog/lib/parser"
	"github.com/vyPal/linprog/lib/polynomial"
)

type Warning struct {
	Where   string
	Message string
}

func (w Warning) String() string {
	return w.Where + ": " + w.Message
}

type Report struct {
	Variables      []rune
	GoalVariables  []rune
	ConstraintOnly []rune
	Unconstrained  []rune
	Warnings       []Warning
}

var ErrEmptyGoal = errors.New("goal has no terms")

// Analyze checks a parsed program for mistakes that still parse but are
// almost certainly not what the author meant.
func Analyze(prog *parser.Program) (*Report, error) {
	if len(prog.Goal) == 0 {
		return nil, ErrEmptyGoal
	}

	report := &Report{
		Variables:     prog.Variables(),
		GoalVariables: prog.Goal.Variables(),
	}

	report.checkExpression("goal", prog.Goal)

	constrained := []rune{}
	for i, c := range prog.Constraints {
		where := fmt.Sprintf("constraint %d", i+1)
		report.checkExpression(where, c.LHS)
		for _, v := range c.LHS.Variables() {
			if !slices.Contains(constrained, v) {
				constrained = append(constrained, v)
			}
		}
	}

	for _, v := range report.Variables {
		inGoal := slices.Contains(report.GoalVariables, v)
		inConstraints := slices.Contains(constrained, v)
		switch {
		case !inGoal:
			report.ConstraintOnly = append(report.ConstraintOnly, v)
			report.warn("goal", "variable %c only appears in constraints", v)
		case !inConstraints:
			report.Unconstrained = append(report.Unconstrained, v)
			report.warn("goal", "variable %c is not bounded by any constraint", v)
		}
	}

	return report, nil
}

func (r *Report) checkExpression(where string, expr polynomial.Expression) {
	seen := map[rune]bool{}
	for _, term := range expr {
		if term.Coefficient == 0 {
			r.warn(where, "term %s has a zero coefficient", term)
		}
		if seen[term.Variable] {
			r.warn(where, "variable %c appears more than once, its coefficients are summed", term.Variable)
		}
		seen[term.Variable] = true
	}
}

func (r *Report) warn(where, format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, Warning{Where: where, Message: fmt.Sprintf(format, args...)})
}
