// Package publish implements submission: the state machine, the wire payload builder,
// response interpretation and the post-publish community fan-out.
package publish

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"

	"github.com/festy23/trip_publisher/internal/wizard/aggregate"
	"github.com/festy23/trip_publisher/internal/wizard/model"
	"github.com/festy23/trip_publisher/internal/wizard/steps"
)

// BuildPayload assembles the create body from a draft. Empty text, nil numbers and
// empty collections are omitted. Communities are not part of the payload.
func BuildPayload(d *model.Draft) *model.Payload {
	f := d.Fields
	p := &model.Payload{
		Title:        strings.TrimSpace(f.Title),
		Tagline:      strings.TrimSpace(f.Tagline),
		Description:  strings.TrimSpace(f.Description),
		Destination:  strings.TrimSpace(f.Destination),
		Story:        strings.TrimSpace(f.Story),
		Inspiration:  strings.TrimSpace(f.Inspiration),
		Highlights:   strings.TrimSpace(f.Highlights),
		SafetyTips:   strings.TrimSpace(f.SafetyTips),
		VideoURL:     strings.TrimSpace(f.VideoURL),
		DurationDays: copyInt(f.DurationDays),
		Budget:       copyInt(f.Budget),
		GuideURL:     strings.TrimSpace(d.GuideURL),
	}

	if len(d.ActivityTags) > 0 {
		p.ActivityTags = append([]string(nil), d.ActivityTags...)
	}
	for _, c := range d.Categories {
		p.Categories = append(p.Categories, string(c))
	}
	for _, m := range d.TeamMembers {
		switch v := m.(type) {
		case *model.RegisteredMember:
			p.TeamMembers = append(p.TeamMembers, model.PayloadMember{
				UserID:    v.UserID,
				Username:  v.Username,
				AvatarURL: v.AvatarURL,
				Role:      v.Role,
			})
		case *model.UnregisteredMember:
			p.TeamMembers = append(p.TeamMembers, model.PayloadMember{Name: v.Name, Role: v.Role})
		}
	}
	if len(d.Screenshots) > 0 {
		p.Screenshots = append([]string(nil), d.Screenshots...)
	}
	return p
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// idPaths are the locations checked, in order, for the new itinerary's identifier.
var idPaths = [][]string{
	{"id"},
	{"_id"},
	{"itinerary_id"},
	{"data", "id"},
	{"data", "_id"},
	{"data", "itinerary_id"},
	{"data", "itinerary", "id"},
	{"itinerary", "id"},
	{"itinerary", "_id"},
}

// ExtractPublishedID returns the first non-empty identifier found at a known path.
// String and numeric identifiers are accepted.
func ExtractPublishedID(raw []byte) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return "", model.ErrPublishedIDMissing
	}

	for _, path := range idPaths {
		if id := lookup(doc, path); id != "" {
			return id, nil
		}
	}
	return "", model.ErrPublishedIDMissing
}

func lookup(doc any, path []string) string {
	cur := doc
	for _, key := range path {
		obj, ok := cur.(map[string]any)
		if !ok {
			return ""
		}
		cur = obj[key]
	}
	switch v := cur.(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

// MapServerErrors converts a backend rejection into field errors ordered by section.
// Nested keys keep their full path; routing uses the root field. Auth and server
// failures, and keys that name no wizard field, yield nil so the caller reports a
// generic failure instead.
func MapServerErrors(apiErr *model.APIError) []model.ValidationError {
	if apiErr == nil || len(apiErr.Fields) == 0 {
		return nil
	}
	switch {
	case !apiErr.IsClientError(), apiErr.StatusCode == 401, apiErr.StatusCode == 403:
		return nil
	}

	keys := make([]string, 0, len(apiErr.Fields))
	for k := range apiErr.Fields {
		if steps.KnownField(k) {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return nil
	}
	sort.Strings(keys)

	errs := make([]model.ValidationError, 0, len(keys))
	for _, k := range keys {
		errs = append(errs, model.ValidationError{FieldID: k, Message: apiErr.Fields[k]})
	}
	return aggregate.Aggregate(nil, errs)
}
