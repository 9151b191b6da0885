// Package validation checks flat key/value data against named rules and
// collects every violation instead of stopping at the first.
package validation

import (
	"errors"
	"fmt"
	"net"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Rules maps a field name to the rules it must satisfy, in order. Supported
// rules are "required", "min=N", "max=N", "oneof=a b c", "prefix=S" and
// "hostport".
type Rules map[string][]string

type Violations struct {
	Errors map[string][]error
}

func (violations Violations) MarshalJSON() ([]byte, error) {
	errors := make(map[string][]string)
	for fieldName, fieldErrors := range violations.Errors {
		errors[fieldName] = make([]string, len(fieldErrors))
		for index, fieldError := range fieldErrors {
			errors[fieldName][index] = fieldError.Error()
		}
	}

	return json.Marshal(map[string]map[string][]string{
		"errors": errors,
	})
}

func (violations Violations) IsEmpty() bool {
	return len(violations.Errors) == 0
}

// Add records err against field.
func (violations *Violations) Add(field string, err error) {
	if violations.Errors == nil {
		violations.Errors = make(map[string][]error)
	}
	violations.Errors[field] = append(violations.Errors[field], err)
}

// Err joins every violation into one error, ordered by field name. It returns
// nil when there are none.
func (violations Violations) Err() error {
	fields := make([]string, 0, len(violations.Errors))
	for field := range violations.Errors {
		fields = append(fields, field)
	}
	slices.Sort(fields)

	var errs []error
	for _, field := range fields {
		errs = append(errs, violations.Errors[field]...)
	}
	return errors.Join(errs...)
}

// ValidateMap checks every entry of data against its rules. A field in data
// without rules is itself a violation.
func ValidateMap(data map[string]any, rules Rules) Violations {
	var violations Violations
	violations.Errors = make(map[string][]error)

	for attributeName, attributeValue := range data {
		attributeRules, attributeRulesExists := rules[attributeName]
		if !attributeRulesExists {
			violations.Add(attributeName, fmt.Errorf("validation: no rules found :: %s", attributeName))
			continue
		}

		for _, attributeRule := range attributeRules {
			if err := validate(attributeRule, attributeName, attributeValue); err != nil {
				violations.Add(attributeName, err)
			}
		}
	}

	return violations
}

func validate(rule string, name string, value any) error {
	rule, arg, _ := strings.Cut(rule, "=")

	switch rule {
	case "required":
		if isEmpty(value) {
			return fmt.Errorf("%s is required", name)
		}
	case "min", "max":
		limit, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("invalid validation rule :: %s=%s", rule, arg)
		}
		n, ok := value.(int)
		if !ok {
			return fmt.Errorf("%s must be an integer", name)
		}
		if rule == "min" && n < limit {
			return fmt.Errorf("%s must be at least %d", name, limit)
		}
		if rule == "max" && n > limit {
			return fmt.Errorf("%s must be at most %d", name, limit)
		}
	case "oneof":
		s := fmt.Sprint(value)
		if !slices.Contains(strings.Fields(arg), s) {
			return fmt.Errorf("%s must be one of [%s], got %q", name, arg, s)
		}
	case "prefix":
		s, _ := value.(string)
		if !strings.HasPrefix(s, arg) {
			return fmt.Errorf("%s must start with %q", name, arg)
		}
	case "hostport":
		s, _ := value.(string)
		if _, _, err := net.SplitHostPort(s); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	default:
		return fmt.Errorf("invalid validation rule :: %s", rule)
	}

	return nil
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []any:
		return len(v) == 0
	}
	return false
}
