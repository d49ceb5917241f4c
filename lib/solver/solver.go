package solver

import (
	"context"
	"math"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vyPal/linprog/lib/parser"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// Tolerance is handed to lp.Simplex; zero keeps gonum's defaults.
var Tolerance = 0.0

var ErrNoConstraints = errors.New("program has no constraints")

type Solution struct {
	Objective float64
	Variables []rune
	Values    map[rune]float64
}

// standardForm is a program rewritten as: minimise c·x subject to Ax = b, x >= 0.
// The first len(columns) entries of x are the program variables, the rest
// are slack variables.
type standardForm struct {
	c       []float64
	a       *mat.Dense
	b       []float64
	columns []rune
	fixed   []rune
	// unbounded variables appear in no constraint yet improve the goal
	// without limit. They only matter once the rest is known to be feasible.
	unbounded []rune
}

func toStandardForm(prog *parser.Program) (*standardForm, error) {
	if len(prog.Constraints) == 0 {
		return nil, ErrNoConstraints
	}

	sign := 1.0
	if prog.Sense == parser.Maximise {
		sign = -1.0
	}

	goal := prog.Goal.Coefficients()
	rows := make([]map[rune]int, 0, len(prog.Constraints))
	kept := make([]parser.Constraint, 0, len(prog.Constraints))
	used := map[rune]bool{}
	slacks := 0
	for i, c := range prog.Constraints {
		row := c.LHS.Coefficients()
		empty := true
		for v, coeff := range row {
			if coeff != 0 {
				used[v] = true
				empty = false
			}
		}
		if c.Comparator == parser.Equal {
			// 0 = b holds for every x or for none.
			if empty && c.RHS != 0 {
				return nil, errors.Wrapf(lp.ErrInfeasible, "constraint %d: %s", i+1, c)
			}
			if empty {
				continue
			}
		} else {
			slacks++
		}
		rows = append(rows, row)
		kept = append(kept, c)
	}

	sf := &standardForm{}
	for _, v := range prog.Variables() {
		if used[v] {
			sf.columns = append(sf.columns, v)
			continue
		}
		// Nothing bounds v, so it either runs off to infinity or sits at zero.
		if sign*float64(goal[v]) < 0 {
			sf.unbounded = append(sf.unbounded, v)
		}
		sf.fixed = append(sf.fixed, v)
	}

	m := len(kept)
	n := len(sf.columns) + slacks
	if m > n {
		return nil, errors.Errorf("%d constraints over %d columns: too many equality constraints", m, n)
	}

	if m == 0 {
		// Only 0 = 0 rows remained, so every variable sits at zero.
		return sf, nil
	}

	sf.c = make([]float64, n)
	for j, v := range sf.columns {
		sf.c[j] = sign * float64(goal[v])
	}

	sf.a = mat.NewDense(m, n, nil)
	sf.b = make([]float64, m)
	slack := len(sf.columns)
	for i, c := range kept {
		for j, v := range sf.columns {
			sf.a.Set(i, j, float64(rows[i][v]))
		}
		switch c.Comparator {
		case parser.LessEqual:
			sf.a.Set(i, slack, 1)
			slack++
		case parser.GreaterEqual:
			sf.a.Set(i, slack, -1)
			slack++
		case parser.Equal:
		default:
			return nil, errors.Errorf("constraint %d: unknown comparator %q", i+1, c.Comparator)
		}
		sf.b[i] = float64(c.RHS)

		if sf.b[i] < 0 {
			for j := 0; j < n; j++ {
				sf.a.Set(i, j, -sf.a.At(i, j))
			}
			sf.b[i] = -sf.b[i]
		}
	}

	return sf, nil
}

// Solve finds an optimal non-negative assignment for the program's variables.
// Infeasible and unbounded programs return errors wrapping lp.ErrInfeasible
// and lp.ErrUnbounded.
func Solve(prog *parser.Program) (*Solution, error) {
	sf, err := toStandardForm(prog)
	if err != nil {
		return nil, err
	}

	var rows, cols int
	if sf.a != nil {
		rows, cols = sf.a.Dims()
	}
	logrus.WithFields(logrus.Fields{
		"sense":       prog.Sense,
		"rows":        rows,
		"columns":     cols,
		"fixed":       string(sf.fixed),
		"constraints": len(prog.Constraints),
	}).Debug("solving standard form")

	var (
		opt float64
		x   []float64
	)
	if sf.a != nil {
		opt, x, err = lp.Simplex(sf.c, sf.a, sf.b, Tolerance, nil)
		if err != nil {
			return nil, errors.Wrap(err, "simplex")
		}
	}
	if len(sf.unbounded) > 0 {
		return nil, errors.Wrapf(lp.ErrUnbounded, "variable %c is not bounded by any constraint", sf.unbounded[0])
	}

	if prog.Sense == parser.Maximise {
		opt = -opt
	}

	sol := &Solution{
		Objective: cleanZero(opt),
		Variables: prog.Variables(),
		Values:    make(map[rune]float64, len(sf.columns)+len(sf.fixed)),
	}
	for j, v := range sf.columns {
		sol.Values[v] = cleanZero(x[j])
	}
	for _, v := range sf.fixed {
		sol.Values[v] = 0
	}

	logrus.WithField("objective", sol.Objective).Debug("solved")
	return sol, nil
}

// SolveAll solves every program concurrently. Solutions come back in the
// order of progs; the first failure cancels the rest.
func SolveAll(ctx context.Context, progs []*parser.Program) ([]*Solution, error) {
	solutions := make([]*Solution, len(progs))

	g, ctx := errgroup.WithContext(ctx)
	for i, prog := range progs {
		i, prog := i, prog
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sol, err := Solve(prog)
			if err != nil {
				return errors.Wrapf(err, "program %d", i+1)
			}
			solutions[i] = sol
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return solutions, nil
}

func cleanZero(f float64) float64 {
	if math.Abs(f) < 1e-9 {
		return 0
	}
	return f
}
