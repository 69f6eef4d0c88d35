// Package aggregate merges field and business-rule failures into one list ordered by
// section, and resolves the first failure to a step and section.
package aggregate

import (
	"sort"

	"github.com/festy23/trip_publisher/internal/wizard/model"
	"github.com/festy23/trip_publisher/internal/wizard/steps"
	"github.com/festy23/trip_publisher/internal/wizard/validate"
)

// Rule is a collection-level check the schema cannot express.
type Rule struct {
	Field   string
	Message string
	Failed  func(d *model.Draft) bool
}

// Rules are the business rules evaluated on every pass.
var Rules = []Rule{
	{
		Field:   model.FieldCategories,
		Message: "Select at least one category",
		Failed:  func(d *model.Draft) bool { return len(d.Categories) == 0 },
	},
	{
		Field:   model.FieldActivityTags,
		Message: "Add at least one activity tag",
		Failed:  func(d *model.Draft) bool { return len(d.ActivityTags) == 0 },
	},
}

// StepScope lists the fields gated by step n.
func StepScope(n int) []string {
	return steps.FieldsForStep(n)
}

// FullScope lists every field of every step.
func FullScope() []string {
	var out []string
	for i := 1; i <= steps.Count(); i++ {
		out = append(out, steps.FieldsForStep(i)...)
	}
	return out
}

// BusinessRules evaluates every rule whose field is in scope.
func BusinessRules(d *model.Draft, scope []string) []model.ValidationError {
	in := make(map[string]bool, len(scope))
	for _, f := range scope {
		in[f] = true
	}

	var out []model.ValidationError
	for _, r := range Rules {
		if !in[r.Field] {
			continue
		}
		if r.Failed(d) {
			out = append(out, model.ValidationError{FieldID: r.Field, Message: r.Message})
		}
	}
	return out
}

// Aggregate merges both lists and orders them by section, then field declaration.
// Errors on the same field keep their discovery order.
func Aggregate(formErrors []validate.FieldError, ruleErrors []model.ValidationError) []model.ValidationError {
	out := make([]model.ValidationError, 0, len(formErrors)+len(ruleErrors))
	for _, fe := range formErrors {
		out = append(out, fe.ToValidationError())
	}
	out = append(out, ruleErrors...)

	sort.SliceStable(out, func(i, j int) bool {
		return steps.FieldRank(out[i].FieldID) < steps.FieldRank(out[j].FieldID)
	})
	return out
}

// Check runs the field registry and the business rules over the whole scope.
func Check(reg *validate.Registry, d *model.Draft, scope []string) []model.ValidationError {
	return Aggregate(reg.ValidateFields(&d.Fields, scope), BusinessRules(d, scope))
}

// First resolves the earliest error to its section and step.
func First(errs []model.ValidationError) *model.Jump {
	if len(errs) == 0 {
		return nil
	}
	field := errs[0].FieldID
	section, ok := steps.SectionOf(field)
	if !ok {
		section = steps.SectionBasics
	}
	return &model.Jump{FieldID: field, Section: section, Step: steps.SectionToStep(section)}
}

// ByField keeps the first message per field, for inline display.
func ByField(errs []model.ValidationError) map[string]string {
	out := make(map[string]string, len(errs))
	for _, e := range errs {
		if _, ok := out[e.FieldID]; !ok {
			out[e.FieldID] = e.Message
		}
	}
	return out
}
