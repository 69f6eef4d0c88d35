// Package model provides the draft itinerary, its collections' element types and the DTOs
// exchanged by the publishing wizard.
package model

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Field identifiers. They double as wire keys of the create payload.
const (
	FieldTitle        = "title"
	FieldTagline      = "tagline"
	FieldDescription  = "description"
	FieldDestination  = "destination"
	FieldStory        = "story"
	FieldInspiration  = "inspiration"
	FieldHighlights   = "highlights"
	FieldSafetyTips   = "safety_tips"
	FieldVideoURL     = "video_url"
	FieldDurationDays = "duration_days"
	FieldBudget       = "budget"

	// Collection-backed identifiers, used for error routing only.
	FieldActivityTags = "activity_tags"
	FieldCategories   = "categories"
	FieldTeamMembers  = "team_members"
	FieldScreenshots  = "screenshots"
	FieldGuideURL     = "guide_url"
	FieldCommunities  = "communities"
)

// Fields holds the schema-validated part of a draft.
// Numeric fields are nil when absent.
type Fields struct {
	Title        string
	Tagline      string
	Description  string
	Destination  string
	Story        string
	Inspiration  string
	Highlights   string
	SafetyTips   string
	VideoURL     string
	DurationDays *int
	Budget       *int
}

var textFields = map[string]func(*Fields) *string{
	FieldTitle:       func(f *Fields) *string { return &f.Title },
	FieldTagline:     func(f *Fields) *string { return &f.Tagline },
	FieldDescription: func(f *Fields) *string { return &f.Description },
	FieldDestination: func(f *Fields) *string { return &f.Destination },
	FieldStory:       func(f *Fields) *string { return &f.Story },
	FieldInspiration: func(f *Fields) *string { return &f.Inspiration },
	FieldHighlights:  func(f *Fields) *string { return &f.Highlights },
	FieldSafetyTips:  func(f *Fields) *string { return &f.SafetyTips },
	FieldVideoURL:    func(f *Fields) *string { return &f.VideoURL },
}

var numberFields = map[string]func(*Fields) **int{
	FieldDurationDays: func(f *Fields) **int { return &f.DurationDays },
	FieldBudget:       func(f *Fields) **int { return &f.Budget },
}

// IsFormField reports whether name is a schema-backed field.
func IsFormField(name string) bool {
	_, text := textFields[name]
	_, num := numberFields[name]
	return text || num
}

// IsNumberField reports whether name holds an integer.
func IsNumberField(name string) bool {
	_, ok := numberFields[name]
	return ok
}

// Get returns the current value of a field: a string for text fields,
// an int or nil for numeric fields.
func (f *Fields) Get(name string) (any, error) {
	if get, ok := textFields[name]; ok {
		return *get(f), nil
	}
	if get, ok := numberFields[name]; ok {
		if p := *get(f); p != nil {
			return *p, nil
		}
		return nil, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownField, name)
}

// Set assigns a raw value (as decoded from JSON or YAML) to a field.
// Empty strings and nil clear numeric fields.
func (f *Fields) Set(name string, raw any) error {
	if get, ok := textFields[name]; ok {
		switch v := raw.(type) {
		case nil:
			*get(f) = ""
		case string:
			*get(f) = v
		default:
			return fmt.Errorf("%w: %s expects text", ErrInvalidFieldValue, name)
		}
		return nil
	}

	if get, ok := numberFields[name]; ok {
		n, present, err := toInt(raw)
		if err != nil {
			return fmt.Errorf("%w: %s %v", ErrInvalidFieldValue, name, err)
		}
		if !present {
			*get(f) = nil
			return nil
		}
		*get(f) = &n
		return nil
	}

	return fmt.Errorf("%w: %s", ErrUnknownField, name)
}

// Numbers are held to the int32 range so a float such as 1e20 is rejected instead of
// wrapping on conversion.
func toInt(raw any) (int, bool, error) {
	switch v := raw.(type) {
	case nil:
		return 0, false, nil
	case int:
		return boundInt(int64(v))
	case int64:
		return boundInt(v)
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) || math.IsNaN(v) {
			return 0, false, fmt.Errorf("expects a whole number")
		}
		if v < math.MinInt32 || v > math.MaxInt32 {
			return 0, false, errOutOfRange
		}
		return int(v), true, nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, false, nil
		}
		n, err := strconv.ParseInt(s, 10, 32)
		if errors.Is(err, strconv.ErrRange) {
			return 0, false, errOutOfRange
		}
		if err != nil {
			return 0, false, fmt.Errorf("expects a whole number")
		}
		return int(n), true, nil
	default:
		return 0, false, fmt.Errorf("expects a number")
	}
}

var errOutOfRange = errors.New("expects a whole number in range")

func boundInt(v int64) (int, bool, error) {
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, false, errOutOfRange
	}
	return int(v), true, nil
}
