package polynomial

import "fmt"

// MalformedTermError is returned when a term token cannot be read as an
// optional integer coefficient followed by a single letter.
type MalformedTermError struct {
	Token  string
	Input  string
	Reason string
	Err    error
}

func (e *MalformedTermError) Error() string {
	msg := fmt.Sprintf("malformed term %q", e.Token)
	if e.Input != "" {
		msg += fmt.Sprintf(" in %q", e.Input)
	}
	return msg + ": " + e.Reason
}

func (e *MalformedTermError) Unwrap() error {
	return e.Err
}

// MalformedExpressionError is returned when two sign tokens follow each
// other without a term between them. Index is the position of the second
// sign among the whitespace separated tokens.
type MalformedExpressionError struct {
	Token string
	Input string
	Index int
}

func (e *MalformedExpressionError) Error() string {
	return fmt.Sprintf("encountered two signs in a row at token %d (%q) in %q", e.Index, e.Token, e.Input)
}
