package parser

import (
	"strconv"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/vyPal/linprog/lib/polynomial"
)

type Comparator string

const (
	LessEqual    Comparator = "<="
	GreaterEqual Comparator = ">="
	Equal        Comparator = "="
)

type Sense string

const (
	Maximise Sense = "maximise"
	Minimise Sense = "minimise"
)

// ConstraintLine is the raw shape of one constraint as the grammar sees it.
type ConstraintLine struct {
	Pos lexer.Position

	LHS        string `parser:"@Side"`
	Comparator string `parser:"@Comparator"`
	RHS        string `parser:"@Side"`
}

type Constraint struct {
	LHS        polynomial.Expression `json:"lhs"`
	Comparator Comparator            `json:"comparator"`
	RHS        int                   `json:"rhs"`
}

func (c Constraint) String() string {
	return c.LHS.String() + " " + string(c.Comparator) + " " + strconv.Itoa(c.RHS)
}

// Program is a linear program: one objective and the constraints on it.
// Every variable is implicitly non-negative.
type Program struct {
	Sense       Sense                 `json:"sense"`
	Goal        polynomial.Expression `json:"goal"`
	Constraints []Constraint          `json:"constraints"`
}

// Variables returns every variable of the goal and the constraints, sorted.
func (p *Program) Variables() []rune {
	all := polynomial.Expression{}
	all = append(all, p.Goal...)
	for _, c := range p.Constraints {
		all = append(all, c.LHS...)
	}
	return all.Variables()
}
