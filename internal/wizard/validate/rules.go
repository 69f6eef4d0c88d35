package validate

import "github.com/festy23/trip_publisher/internal/wizard/model"

// Rule describes one schema-backed field.
type Rule struct {
	Label    string
	Required bool
	Number   bool
	// Tag is the validator tag applied to present values.
	Tag string
}

var defaultRules = map[string]Rule{
	model.FieldTitle:        {Label: "Title", Required: true, Tag: "min=5,max=100"},
	model.FieldTagline:      {Label: "Tagline", Tag: "min=10,max=160"},
	model.FieldDescription:  {Label: "Description", Required: true, Tag: "min=50,max=5000"},
	model.FieldDestination:  {Label: "Destination", Required: true, Tag: "min=2,max=120"},
	model.FieldStory:        {Label: "Story", Tag: "max=5000"},
	model.FieldInspiration:  {Label: "Inspiration", Tag: "max=5000"},
	model.FieldHighlights:   {Label: "Highlights", Tag: "max=5000"},
	model.FieldSafetyTips:   {Label: "Safety tips", Tag: "max=5000"},
	model.FieldVideoURL:     {Label: "Video URL", Tag: "http_url,max=500"},
	model.FieldDurationDays: {Label: "Duration", Number: true, Tag: "gte=1,lte=365"},
	model.FieldBudget:       {Label: "Budget", Number: true, Tag: "gte=0,lte=1000000"},
}
