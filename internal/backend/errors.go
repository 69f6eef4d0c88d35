package backend

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/festy23/trip_publisher/internal/wizard/model"
)

// fieldAliases maps legacy backend spellings onto canonical field keys.
var fieldAliases = map[string]string{
	"travel_companions": model.FieldTeamMembers,
	"travelCompanions":  model.FieldTeamMembers,
	"teamMembers":       model.FieldTeamMembers,
	"avatar":            "avatar_url",
	"avatarUrl":         "avatar_url",
	"userId":            "user_id",
	"activities":        model.FieldActivityTags,
	"activityTags":      model.FieldActivityTags,
	"safetyTips":        model.FieldSafetyTips,
	"videoUrl":          model.FieldVideoURL,
	"durationDays":      model.FieldDurationDays,
	"guideUrl":          model.FieldGuideURL,
}

var envelopeKeys = map[string]bool{
	"message": true, "error": true, "status": true, "success": true,
	"code": true, "detail": true, "statusCode": true,
}

const maxMessageLen = 200

// ParseAPIError turns a non-2xx response body into an *model.APIError.
// It accepts {"errors": {...}}, {"errors": [{"field","message"}]} and bare
// top-level field maps; nested keys are flattened to dotted paths.
func ParseAPIError(status int, body []byte) *model.APIError {
	apiErr := &model.APIError{StatusCode: status}

	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		apiErr.Message = truncate(strings.TrimSpace(string(body)))
		return apiErr
	}

	apiErr.Message = envelopeMessage(doc)
	fields := map[string]string{}

	if raw, ok := doc["errors"]; ok {
		collectErrors(raw, fields)
	} else {
		for k, v := range doc {
			if envelopeKeys[k] {
				continue
			}
			flatten(k, v, fields)
		}
	}

	if len(fields) > 0 {
		apiErr.Fields = fields
	}
	return apiErr
}

func envelopeMessage(doc map[string]any) string {
	for _, key := range []string{"message", "error", "detail"} {
		switch v := doc[key].(type) {
		case string:
			if v != "" {
				return truncate(v)
			}
		case map[string]any:
			if m, ok := v["message"].(string); ok && m != "" {
				return truncate(m)
			}
		}
	}
	return ""
}

func collectErrors(raw any, fields map[string]string) {
	switch v := raw.(type) {
	case map[string]any:
		for k, inner := range v {
			flatten(k, inner, fields)
		}
	case []any:
		for _, item := range v {
			obj, ok := item.(map[string]any)
			if !ok {
				continue
			}
			key := firstString(obj, "field", "path", "param")
			msg := firstString(obj, "message", "msg", "error")
			if key != "" {
				add(fields, NormalizeFieldKey(key), msg)
			}
		}
	}
}

// flatten walks nested maps and lists of objects. Strings and lists of strings are messages.
func flatten(prefix string, v any, fields map[string]string) {
	switch val := v.(type) {
	case string:
		add(fields, NormalizeFieldKey(prefix), val)
	case []any:
		var msgs []string
		for i, item := range val {
			switch it := item.(type) {
			case string:
				msgs = append(msgs, it)
			case map[string]any:
				flatten(prefix+"."+strconv.Itoa(i), it, fields)
			}
		}
		if len(msgs) > 0 {
			add(fields, NormalizeFieldKey(prefix), strings.Join(msgs, "; "))
		}
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			flatten(prefix+"."+k, val[k], fields)
		}
	case nil:
	default:
		add(fields, NormalizeFieldKey(prefix), fmt.Sprint(val))
	}
}

func add(fields map[string]string, key, msg string) {
	if msg == "" {
		msg = "is invalid"
	}
	if prev, ok := fields[key]; ok {
		fields[key] = prev + "; " + msg
		return
	}
	fields[key] = msg
}

// NormalizeFieldKey rewrites bracketed indices to dots and maps legacy segment names:
// "travel_companions[0].avatar" becomes "team_members.0.avatar_url".
func NormalizeFieldKey(key string) string {
	key = strings.NewReplacer("[", ".", "]", "").Replace(strings.TrimSpace(key))
	parts := strings.Split(key, ".")
	out := parts[:0]
	for _, p := range parts {
		if p == "" {
			continue
		}
		if alias, ok := fieldAliases[p]; ok {
			p = alias
		}
		out = append(out, p)
	}
	return strings.Join(out, ".")
}

func firstString(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := obj[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case []any:
			parts := make([]string, 0, len(v))
			for _, p := range v {
				parts = append(parts, fmt.Sprint(p))
			}
			if len(parts) > 0 {
				return strings.Join(parts, ".")
			}
		}
	}
	return ""
}

func truncate(s string) string {
	if len(s) <= maxMessageLen {
		return s
	}
	return s[:maxMessageLen] + "..."
}
