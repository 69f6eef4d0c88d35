// Package steps defines the ordered wizard steps, the sections each step reveals,
// and the fields each section owns.
package steps

import (
	"strings"

	"github.com/festy23/trip_publisher/internal/wizard/model"
)

// Section anchors.
const (
	SectionBasics      = "section-basics"
	SectionDescription = "section-description"
	SectionCategories  = "section-categories"
	SectionTags        = "section-tags"
	SectionScreenshots = "section-screenshots"
	SectionGuide       = "section-guide"
	SectionVideo       = "section-video"
	SectionTeam        = "section-team"
	SectionCommunities = "section-communities"
)

// Step is one page of the wizard.
type Step struct {
	Index          int
	Label          string
	SectionAnchors []string
}

type section struct {
	anchor string
	fields []string
}

// table is the single source of ordering: steps, then sections, then fields.
var table = []struct {
	label    string
	sections []section
}{
	{
		label: "Basics",
		sections: []section{
			{SectionBasics, []string{
				model.FieldTitle, model.FieldTagline, model.FieldDestination,
				model.FieldDurationDays, model.FieldBudget,
			}},
		},
	},
	{
		label: "Story",
		sections: []section{
			{SectionDescription, []string{
				model.FieldDescription, model.FieldStory, model.FieldInspiration,
				model.FieldHighlights, model.FieldSafetyTips,
			}},
			{SectionCategories, []string{model.FieldCategories}},
			{SectionTags, []string{model.FieldActivityTags}},
		},
	},
	{
		label: "Media & Team",
		sections: []section{
			{SectionScreenshots, []string{model.FieldScreenshots}},
			{SectionGuide, []string{model.FieldGuideURL}},
			{SectionVideo, []string{model.FieldVideoURL}},
			{SectionTeam, []string{model.FieldTeamMembers}},
		},
	},
	{
		label: "Share",
		sections: []section{
			{SectionCommunities, []string{model.FieldCommunities}},
		},
	},
}

var (
	allSteps     []Step
	sectionStep  = map[string]int{}
	sectionOrder = map[string]int{}
	fieldSection = map[string]string{}
	fieldOrder   = map[string]int{}
)

func init() {
	sectionRank, fieldRank := 0, 0
	for i, s := range table {
		step := Step{Index: i + 1, Label: s.label}
		for _, sec := range s.sections {
			step.SectionAnchors = append(step.SectionAnchors, sec.anchor)
			sectionStep[sec.anchor] = i + 1
			sectionOrder[sec.anchor] = sectionRank
			sectionRank++
			for _, f := range sec.fields {
				fieldSection[f] = sec.anchor
				fieldOrder[f] = fieldRank
				fieldRank++
			}
		}
		allSteps = append(allSteps, step)
	}
}

// Count is the number of steps.
func Count() int {
	return len(allSteps)
}

// SectionToStep returns the step owning anchor. Unknown anchors map to step 1.
func SectionToStep(anchor string) int {
	if step, ok := sectionStep[anchor]; ok {
		return step
	}
	return 1
}

// Clamp bounds n to [1, Count()].
func Clamp(n int) int {
	if n < 1 {
		return 1
	}
	if n > len(allSteps) {
		return len(allSteps)
	}
	return n
}

// RootField strips nested path segments: "team_members.0.avatar_url" -> "team_members".
func RootField(fieldID string) string {
	if i := strings.IndexAny(fieldID, ".["); i >= 0 {
		return fieldID[:i]
	}
	return fieldID
}

// SectionOf returns the anchor owning a field (nested keys allowed).
func SectionOf(fieldID string) (string, bool) {
	anchor, ok := fieldSection[RootField(fieldID)]
	return anchor, ok
}

// StepForField returns the step owning a field, defaulting to step 1.
func StepForField(fieldID string) int {
	anchor, _ := SectionOf(fieldID)
	return SectionToStep(anchor)
}

// FieldsForStep lists every field (schema or collection) shown on step n.
func FieldsForStep(n int) []string {
	if n < 1 || n > len(table) {
		return nil
	}
	var out []string
	for _, sec := range table[n-1].sections {
		out = append(out, sec.fields...)
	}
	return out
}

// KnownField reports whether fieldID (or its root) belongs to some section.
func KnownField(fieldID string) bool {
	_, ok := fieldSection[RootField(fieldID)]
	return ok
}

// FieldRank orders fields topologically: by section order, then declaration order.
// Unknown fields sort last.
func FieldRank(fieldID string) int {
	if r, ok := fieldOrder[RootField(fieldID)]; ok {
		return r
	}
	return len(fieldOrder)
}

// Views renders the step table for the front end.
func Views() []model.StepView {
	out := make([]model.StepView, 0, len(allSteps))
	for _, s := range allSteps {
		out = append(out, model.StepView{
			Index:    s.Index,
			Label:    s.Label,
			Sections: append([]string(nil), s.SectionAnchors...),
		})
	}
	return out
}
