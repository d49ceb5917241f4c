package polynomial

import (
	"slices"
	"strconv"
	"strings"
)

// Expression is a sum of signed terms in the order they were written.
// Terms sharing a variable are kept apart.
type Expression []Term

type signState int

const (
	neutral signState = iota
	sawPlus
	sawMinus
)

// ParseExpression reads a whitespace separated sequence of sign tokens
// ("+", "-") and term tokens, e.g. "2x + 3y - 5z". An unsigned term is
// added; a "-" negates the term that follows it. Two sign tokens in a row
// are rejected. A trailing sign with no term after it is accepted.
func ParseExpression(text string) (Expression, error) {
	state := neutral
	expr := Expression{}

	for i, token := range strings.Fields(text) {
		switch token {
		case "+", "-":
			if state != neutral {
				return nil, &MalformedExpressionError{Token: token, Input: text, Index: i}
			}
			state = sawPlus
			if token == "-" {
				state = sawMinus
			}
		default:
			term, err := ParseTerm(token)
			if err != nil {
				if termErr, ok := err.(*MalformedTermError); ok {
					termErr.Input = text
				}
				return nil, err
			}
			if state == sawMinus {
				term.Coefficient = -term.Coefficient
			}
			state = neutral
			expr = append(expr, term)
		}
	}

	return expr, nil
}

// Variables returns every distinct variable of the expression in sorted order.
func (e Expression) Variables() []rune {
	vars := []rune{}
	for _, term := range e {
		if !slices.Contains(vars, term.Variable) {
			vars = append(vars, term.Variable)
		}
	}
	slices.Sort(vars)
	return vars
}

// Coefficients sums the coefficients of each variable.
func (e Expression) Coefficients() map[rune]int {
	coeffs := make(map[rune]int, len(e))
	for _, term := range e {
		coeffs[term.Variable] += term.Coefficient
	}
	return coeffs
}

// String writes the expression back in the form ParseExpression reads,
// with negative coefficients moved onto a "-" sign token.
func (e Expression) String() string {
	var sb strings.Builder
	for i, term := range e {
		coeff := term.Coefficient
		switch {
		case coeff < 0 && i == 0:
			sb.WriteString("- ")
			coeff = -coeff
		case coeff < 0:
			sb.WriteString(" - ")
			coeff = -coeff
		case i > 0:
			sb.WriteString(" + ")
		}
		sb.WriteString(strconv.Itoa(coeff))
		sb.WriteRune(term.Variable)
	}
	return sb.String()
}
