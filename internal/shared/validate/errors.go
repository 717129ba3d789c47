package validate

import (
	"fmt"
	"strings"
)

// FieldError is one user-correctable problem with one input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is the ordered list of field errors produced by a schema run:
// schema field order first, rule order within a field second.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// For returns the messages reported for field, in order.
func (e Errors) For(field string) []string {
	var msgs []string
	for _, fe := range e {
		if fe.Field == field {
			msgs = append(msgs, fe.Message)
		}
	}
	return msgs
}

// Has reports whether field has at least one error.
func (e Errors) Has(field string) bool {
	return len(e.For(field)) > 0
}

// SchemaError reports a malformed schema. It is a programming error, never
// the user's fault, and is kept apart from Errors for that reason.
type SchemaError struct {
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return "validate: malformed schema: " + e.Reason
	}
	return fmt.Sprintf("validate: malformed schema: field %q: %s", e.Field, e.Reason)
}
