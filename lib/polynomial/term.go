package polynomial

import (
	"encoding/json"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Term is one signed integer coefficient paired with a single letter variable.
type Term struct {
	Coefficient int
	Variable    rune
}

func (t Term) String() string {
	return strconv.Itoa(t.Coefficient) + string(t.Variable)
}

// ParseTerm reads a token such as "5x" or "y". The token must already be
// split from its neighbours; no whitespace is trimmed and a sign has to
// arrive as its own token.
func ParseTerm(token string) (Term, error) {
	if token == "" {
		return Term{}, &MalformedTermError{Token: token, Reason: "empty term"}
	}

	variable, size := utf8.DecodeLastRuneInString(token)
	if !unicode.IsLetter(variable) {
		return Term{}, &MalformedTermError{Token: token, Reason: "term must end in an alphabetic variable"}
	}

	prefix := token[:len(token)-size]
	if prefix == "" {
		return Term{Coefficient: 1, Variable: variable}, nil
	}

	coefficient, err := strconv.Atoi(prefix)
	if err != nil {
		return Term{}, &MalformedTermError{
			Token:  token,
			Reason: "coefficient " + strconv.Quote(prefix) + " is not an integer",
			Err:    err,
		}
	}

	return Term{Coefficient: coefficient, Variable: variable}, nil
}

// MarshalJSON writes the variable as a one character string rather than
// its code point.
func (t Term) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Coefficient int    `json:"coefficient"`
		Variable    string `json:"variable"`
	}{t.Coefficient, string(t.Variable)})
}
