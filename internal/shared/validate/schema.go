// Package validate runs raw request fields through declarative rule chains
// and produces either a clean record or an ordered list of field errors.
package validate

import (
	"errors"
	"fmt"
	"time"
)

// Field is one named input with its ordered rule chain.
type Field struct {
	Name  string
	Rules []Rule
}

// F is shorthand for building a Field.
func F(name string, rules ...Rule) Field {
	return Field{Name: name, Rules: rules}
}

// CrossRule checks a relation between already-clean fields. It runs only when
// none of Needs has an error, and reports Message on Field when Valid is false.
type CrossRule struct {
	Field   string
	Needs   []string
	Message string
	Valid   func(Record) bool
}

type Schema struct {
	fields []Field
	cross  []CrossRule
}

// NewSchema checks the schema shape once so Run never has to.
func NewSchema(fields []Field, cross ...CrossRule) (*Schema, error) {
	if len(fields) == 0 {
		return nil, &SchemaError{Reason: "no fields"}
	}

	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			return nil, &SchemaError{Reason: "empty field name"}
		}
		if _, dup := seen[f.Name]; dup {
			return nil, &SchemaError{Field: f.Name, Reason: "duplicate field"}
		}
		seen[f.Name] = struct{}{}
		for i, r := range f.Rules {
			if r == nil {
				return nil, &SchemaError{Field: f.Name, Reason: fmt.Sprintf("rule %d is nil", i)}
			}
		}
	}

	for _, c := range cross {
		if c.Valid == nil {
			return nil, &SchemaError{Field: c.Field, Reason: "cross rule without check"}
		}
		for _, name := range append([]string{c.Field}, c.Needs...) {
			if _, ok := seen[name]; !ok {
				return nil, &SchemaError{Field: name, Reason: "cross rule references unknown field"}
			}
		}
	}

	return &Schema{fields: fields, cross: cross}, nil
}

// MustSchema is NewSchema for package-level schemas.
func MustSchema(fields []Field, cross ...CrossRule) *Schema {
	s, err := NewSchema(fields, cross...)
	if err != nil {
		panic(err)
	}
	return s
}

// Run evaluates every field. It returns the clean record, or Errors when any
// field failed, or *SchemaError when a rule was misused.
func (s *Schema) Run(raw map[string]string) (Record, error) {
	rec := make(Record, len(s.fields))
	var errs Errors

	for _, f := range s.fields {
		var value any = raw[f.Name]
		failed := false

	chain:
		for _, r := range f.Rules {
			out := r.apply(f.Name, value)
			switch {
			case out.err != nil:
				return nil, out.err
			case out.message != "":
				errs = append(errs, FieldError{Field: f.Name, Message: out.message})
				failed = true
				break chain
			case out.stop:
				value = out.value
				break chain
			default:
				value = out.value
			}
		}

		if !failed && value != nil {
			rec[f.Name] = value
		}
	}

	for _, c := range s.cross {
		if errs.Has(c.Field) || anyFailed(errs, c.Needs) {
			continue
		}
		if !c.Valid(rec) {
			errs = append(errs, FieldError{Field: c.Field, Message: c.Message})
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return rec, nil
}

func anyFailed(errs Errors, fields []string) bool {
	for _, f := range fields {
		if errs.Has(f) {
			return true
		}
	}
	return false
}

// AsErrors extracts field errors from err.
func AsErrors(err error) (Errors, bool) {
	var errs Errors
	if errors.As(err, &errs) {
		return errs, true
	}
	return nil, false
}

// Record holds sanitized values keyed by field name. Absent optional fields
// have no entry.
type Record map[string]any

func (r Record) Text(name string) string {
	s, _ := r[name].(string)
	return s
}

// Date returns the field as a calendar date, or nil when it is absent.
func (r Record) Date(name string) *time.Time {
	t, ok := r[name].(time.Time)
	if !ok {
		return nil
	}
	return &t
}

func (r Record) Has(name string) bool {
	_, ok := r[name]
	return ok
}
