package condition

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrSyntax reports a condition string that contains text no clause matches.
var ErrSyntax = errors.New("condition: syntax error")

// Verb is a clause comparison.
type Verb string

const (
	VerbIs                   Verb = "is"
	VerbNot                  Verb = "not"
	VerbContains             Verb = "contains"
	VerbLessThan             Verb = "less_than"
	VerbLessThanOrEqualTo    Verb = "less_than_or_equal_to"
	VerbGreaterThan          Verb = "greater_than"
	VerbGreaterThanOrEqualTo Verb = "greater_than_or_equal_to"
)

// Verbs lists every supported verb.
func Verbs() []Verb {
	return []Verb{
		VerbIs, VerbNot, VerbContains,
		VerbLessThan, VerbLessThanOrEqualTo,
		VerbGreaterThan, VerbGreaterThanOrEqualTo,
	}
}

// Numeric reports whether v compares integers.
func (v Verb) Numeric() bool {
	switch v {
	case VerbLessThan, VerbLessThanOrEqualTo, VerbGreaterThan, VerbGreaterThanOrEqualTo:
		return true
	}
	return false
}

// Clause is one field:verb(value) test.
type Clause struct {
	Field string
	Verb  Verb
	Value string
}

func (c Clause) String() string {
	return fmt.Sprintf("%s:%s(%s)", c.Field, c.Verb, c.Value)
}

var clausePattern = regexp.MustCompile(`(.+?):(is|not|contains|less_than|less_than_or_equal_to|greater_than|greater_than_or_equal_to)\((.*?)\),?`)

// Parse splits raw into clauses. Whitespace between clauses is ignored; any
// other unmatched text fails with ErrSyntax.
func Parse(raw string) ([]Clause, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	matches := clausePattern.FindAllStringSubmatchIndex(raw, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrSyntax, raw)
	}
	clauses := make([]Clause, 0, len(matches))
	cursor := 0
	for _, m := range matches {
		if strings.TrimSpace(raw[cursor:m[0]]) != "" {
			return nil, fmt.Errorf("%w: unexpected %q", ErrSyntax, raw[cursor:m[0]])
		}
		clauses = append(clauses, Clause{
			Field: strings.TrimSpace(raw[m[2]:m[3]]),
			Verb:  Verb(raw[m[4]:m[5]]),
			Value: raw[m[6]:m[7]],
		})
		cursor = m[1]
	}
	if strings.TrimSpace(raw[cursor:]) != "" {
		return nil, fmt.Errorf("%w: unexpected %q", ErrSyntax, raw[cursor:])
	}
	return clauses, nil
}

// Format renders clauses back to the condition string form.
func Format(clauses []Clause) string {
	parts := make([]string, len(clauses))
	for i, clause := range clauses {
		parts[i] = clause.String()
	}
	return strings.Join(parts, ",")
}
