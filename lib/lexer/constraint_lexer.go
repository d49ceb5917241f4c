package lplex

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// Comparators lists the comparator tokens the lexer accepts, longest first
// so "<=" is not read as a stray "<".
var Comparators = []string{"<=", ">=", "="}

// ConstraintLexer splits a constraint line such as "3x + y <= 18" into the
// text on either side and the comparator between them. The sides are left
// whole so the polynomial parser sees exactly what the user wrote.
var ConstraintLexer lexer.Definition = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comparator", Pattern: strings.Join(Comparators, "|")},
	{Name: "Side", Pattern: `[^<>=]+`},
})
