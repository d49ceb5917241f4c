package parser

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/pkg/errors"
	lplex "github.com/vyPal/linprog/lib/lexer"
	"github.com/vyPal/linprog/lib/polynomial"
)

var constraintParser = participle.MustBuild[ConstraintLine](
	participle.Lexer(lplex.ConstraintLexer),
)

func Parser() *participle.Parser[ConstraintLine] {
	return constraintParser
}

// ParseConstraint reads "<expression> <comparator> <integer>", for example
// "3x + y <= 18".
func ParseConstraint(text string) (Constraint, error) {
	line, err := constraintParser.ParseString("", text)
	if err != nil {
		return Constraint{}, errors.Wrapf(err, "invalid constraint %q", text)
	}

	lhs, err := polynomial.ParseExpression(line.LHS)
	if err != nil {
		return Constraint{}, errors.Wrapf(err, "invalid constraint %q", text)
	}
	if len(lhs) == 0 {
		return Constraint{}, errors.Errorf("invalid constraint %q: left hand side has no terms", text)
	}

	rhs, err := strconv.Atoi(strings.TrimSpace(line.RHS))
	if err != nil {
		return Constraint{}, errors.Wrapf(err, "invalid constraint %q: right hand side must be an integer constant", text)
	}

	return Constraint{
		LHS:        lhs,
		Comparator: Comparator(line.Comparator),
		RHS:        rhs,
	}, nil
}

func ParseSense(s string) (Sense, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "max", "maximise", "maximize":
		return Maximise, nil
	case "min", "minimise", "minimize":
		return Minimise, nil
	default:
		return "", errors.Errorf("unknown optimisation sense %q", s)
	}
}

func ParseProgram(sense, goal string, constraints []string) (*Program, error) {
	s, err := ParseSense(sense)
	if err != nil {
		return nil, err
	}

	g, err := polynomial.ParseExpression(goal)
	if err != nil {
		return nil, errors.Wrap(err, "invalid goal")
	}

	prog := &Program{
		Sense:       s,
		Goal:        g,
		Constraints: make([]Constraint, 0, len(constraints)),
	}

	for i, text := range constraints {
		c, err := ParseConstraint(text)
		if err != nil {
			return nil, errors.Wrapf(err, "constraint %d", i+1)
		}
		prog.Constraints = append(prog.Constraints, c)
	}

	return prog, nil
}
