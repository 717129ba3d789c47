package validate

import (
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Rule is one step of a field's chain. Sanitizers rewrite the value, checks
// either pass it through or report a message.
type Rule interface {
	apply(field string, value any) outcome
}

type outcome struct {
	value   any
	stop    bool   // end the chain, keeping value
	message string // user-facing failure, ends the chain
	err     error  // *SchemaError
}

type ruleFunc func(field string, value any) outcome

func (f ruleFunc) apply(field string, value any) outcome { return f(field, value) }

func asString(field, rule string, value any) (string, *SchemaError) {
	s, ok := value.(string)
	if !ok {
		return "", &SchemaError{Field: field, Reason: fmt.Sprintf("%s needs a string, got %T", rule, value)}
	}
	return s, nil
}

// Trim strips leading and trailing white space.
func Trim() Rule {
	return ruleFunc(func(field string, value any) outcome {
		s, err := asString(field, "trim", value)
		if err != nil {
			return outcome{err: err}
		}
		return outcome{value: strings.TrimSpace(s)}
	})
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"'", "&#x27;",
	"<", "&lt;",
	">", "&gt;",
	"/", "&#x2F;",
	`\`, "&#x5C;",
	"`", "&#96;",
)

// EscapeString applies the Escape rule's entity table to s. Search terms go
// through it so they compare against stored values in the same form.
func EscapeString(s string) string {
	return htmlEscaper.Replace(s)
}

// Escape replaces markup-significant characters with HTML entities so the
// value can be redisplayed verbatim.
func Escape() Rule {
	return ruleFunc(func(field string, value any) outcome {
		s, err := asString(field, "escape", value)
		if err != nil {
			return outcome{err: err}
		}
		return outcome{value: EscapeString(s)}
	})
}

// Lower maps the value to lower case.
func Lower() Rule {
	return ruleFunc(func(field string, value any) outcome {
		s, err := asString(field, "lower", value)
		if err != nil {
			return outcome{err: err}
		}
		return outcome{value: strings.ToLower(s)}
	})
}

// Required fails with msg when the value is empty.
func Required(msg string) Rule {
	return ruleFunc(func(field string, value any) outcome {
		s, err := asString(field, "required", value)
		if err != nil {
			return outcome{err: err}
		}
		if s == "" {
			return outcome{message: msg}
		}
		return outcome{value: s}
	})
}

// Optional ends the chain with an absent value when the input is empty, so
// the remaining rules only see non-empty input.
func Optional() Rule {
	return ruleFunc(func(field string, value any) outcome {
		s, err := asString(field, "optional", value)
		if err != nil {
			return outcome{err: err}
		}
		if s == "" {
			return outcome{value: nil, stop: true}
		}
		return outcome{value: s}
	})
}

// Check runs an ozzo-validation rule and reports msg when it fails.
func Check(rule validation.Rule, msg string) Rule {
	return ruleFunc(func(field string, value any) outcome {
		if rule == nil {
			return outcome{err: &SchemaError{Field: field, Reason: "nil validation rule"}}
		}
		if err := rule.Validate(value); err != nil {
			var internal validation.InternalError
			if ok := asInternal(err, &internal); ok {
				return outcome{err: &SchemaError{Field: field, Reason: internal.Error()}}
			}
			return outcome{message: msg}
		}
		return outcome{value: value}
	})
}

func asInternal(err error, target *validation.InternalError) bool {
	ie, ok := err.(validation.InternalError)
	if ok {
		*target = ie
	}
	return ok
}

func stringCheck(name string, rule validation.Rule, msg string) Rule {
	inner := Check(rule, msg)
	return ruleFunc(func(field string, value any) outcome {
		if _, err := asString(field, name, value); err != nil {
			return outcome{err: err}
		}
		return inner.apply(field, value)
	})
}

// Alphanumeric accepts ASCII letters and digits only.
func Alphanumeric(msg string) Rule {
	return stringCheck("alphanumeric", is.Alphanumeric, msg)
}

// UUID accepts a canonical lower-case UUID string. Put Lower before it to
// accept upper-case input.
func UUID(msg string) Rule {
	return stringCheck("uuid", is.UUID, msg)
}

var isoLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"20060102",
}

// ParseISODate parses an ISO-8601 date or date-time and returns its calendar
// date at UTC midnight.
func ParseISODate(s string) (time.Time, bool) {
	for _, layout := range isoLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// ISODate converts the value to a calendar date (time.Time at UTC midnight)
// or fails with msg. Pair it with Optional for nullable dates.
func ISODate(msg string) Rule {
	return ruleFunc(func(field string, value any) outcome {
		s, err := asString(field, "iso8601 date", value)
		if err != nil {
			return outcome{err: err}
		}
		d, ok := ParseISODate(s)
		if !ok {
			return outcome{message: msg}
		}
		return outcome{value: d}
	})
}
