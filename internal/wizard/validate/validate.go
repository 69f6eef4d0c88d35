// Package validate implements the field registry: per-field rules backed by
// go-playground/validator, applied to single fields or to a list of fields.
package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/festy23/trip_publisher/internal/wizard/model"
)

// Error tags that do not come from the validator.
const (
	TagUnknown = "unknown"
	TagType    = "type"
)

// FieldError describes one failed field.
type FieldError struct {
	Field   string
	Tag     string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// ToValidationError converts to the wire shape.
func (e FieldError) ToValidationError() model.ValidationError {
	return model.ValidationError{FieldID: e.Field, Message: e.Message}
}

// Registry holds the field rules. It is safe for concurrent use.
type Registry struct {
	validate *validator.Validate
	rules    map[string]Rule
}

// New returns a registry with the itinerary rules.
func New() *Registry {
	return NewWithRules(defaultRules)
}

// NewWithRules returns a registry over custom rules.
func NewWithRules(rules map[string]Rule) *Registry {
	copied := make(map[string]Rule, len(rules))
	for k, v := range rules {
		copied[k] = v
	}
	return &Registry{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		rules:    copied,
	}
}

// Has reports whether name has a rule.
func (r *Registry) Has(name string) bool {
	_, ok := r.Rule(name)
	return ok
}

// Rule returns the rule for name.
func (r *Registry) Rule(name string) (Rule, bool) {
	rule, ok := r.rules[name]
	return rule, ok
}

// ValidateField checks one value. Text values are trimmed first; empty text and nil numbers
// are absent, which only fails required fields. It returns nil when the value is valid.
func (r *Registry) ValidateField(name string, value any) *FieldError {
	rule, ok := r.Rule(name)
	if !ok {
		return &FieldError{Field: name, Tag: TagUnknown, Message: "is not a known field"}
	}

	present, err := r.check(rule, value)
	if err != nil {
		return &FieldError{Field: name, Tag: TagType, Message: rule.Label + " has an invalid value"}
	}
	if present == nil {
		if rule.Required {
			return &FieldError{Field: name, Tag: "required", Message: rule.Label + " is required"}
		}
		return nil
	}

	if err := r.validate.Var(present, rule.Tag); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return &FieldError{Field: name, Tag: fe.Tag(), Message: message(rule, fe.Tag(), fe.Param())}
		}
		return &FieldError{Field: name, Tag: TagType, Message: rule.Label + " has an invalid value"}
	}
	return nil
}

// ValidateFields checks the named fields of f in the given order.
// Every name is evaluated; the result lists all failures.
func (r *Registry) ValidateFields(f *model.Fields, names []string) []FieldError {
	var out []FieldError
	for _, name := range names {
		if !r.Has(name) {
			continue
		}
		value, err := f.Get(name)
		if err != nil {
			out = append(out, FieldError{Field: name, Tag: TagUnknown, Message: err.Error()})
			continue
		}
		if fe := r.ValidateField(name, value); fe != nil {
			out = append(out, *fe)
		}
	}
	return out
}

// check normalises value; a nil result means absent.
func (r *Registry) check(rule Rule, value any) (any, error) {
	if rule.Number {
		switch v := value.(type) {
		case nil:
			return nil, nil
		case int:
			return v, nil
		case *int:
			if v == nil {
				return nil, nil
			}
			return *v, nil
		default:
			return nil, fmt.Errorf("unexpected %T", value)
		}
	}

	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return nil, nil
		}
		return trimmed, nil
	default:
		return nil, fmt.Errorf("unexpected %T", value)
	}
}

func message(rule Rule, tag, param string) string {
	switch tag {
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", rule.Label, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", rule.Label, param)
	case "gte":
		return fmt.Sprintf("%s must be at least %s", rule.Label, param)
	case "lte":
		return fmt.Sprintf("%s must be at most %s", rule.Label, param)
	case "http_url", "url":
		return rule.Label + " must be a valid http(s) URL"
	case "required":
		return rule.Label + " is required"
	default:
		return rule.Label + " is invalid"
	}
}
