// Package query turns a free-text search term into a storage predicate:
// a literal, case-insensitive substring match on one field.
package query

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

var ErrUnknownField = errors.New("query: field is not searchable")

// Filter matches records whose Field contains Term, ignoring case. An empty
// Term matches everything.
type Filter struct {
	Field string
	Term  string

	folded string
}

// Build trims the raw term. Wildcard characters in the term have no special
// meaning in any backend.
func Build(field, raw string) Filter {
	term := strings.TrimSpace(raw)
	return Filter{Field: field, Term: term, folded: cases.Fold().String(term)}
}

// All reports whether the filter places no constraint.
func (f Filter) All() bool { return f.Term == "" }

// Match is the in-memory form of the filter. Caser is not safe for
// concurrent use so each call folds with its own.
func (f Filter) Match(value string) bool {
	if f.All() {
		return true
	}
	return strings.Contains(cases.Fold().String(value), f.folded)
}

// Columns whitelists searchable fields and their SQL column names.
type Columns map[string]string

// Where renders the filter as a SQL predicate with the term bound to
// placeholder $argPos. It returns an empty clause and no args for an
// unconstrained filter.
func (f Filter) Where(cols Columns, argPos int) (string, []any, error) {
	col, ok := cols[f.Field]
	if !ok {
		return "", nil, fmt.Errorf("%w: %q", ErrUnknownField, f.Field)
	}
	if f.All() {
		return "", nil, nil
	}
	clause := fmt.Sprintf(`%s ILIKE '%%' || $%d || '%%' ESCAPE '\'`, col, argPos)
	return clause, []any{EscapeLike(f.Term)}, nil
}

// EscapeLike escapes LIKE metacharacters so the term matches literally.
func EscapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
