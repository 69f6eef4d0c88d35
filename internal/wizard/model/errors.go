package model

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrSessionNotFound indicates the wizard session does not exist or has expired.
	ErrSessionNotFound = errors.New("session not found")
	// ErrForbidden indicates the session belongs to another user.
	ErrForbidden = errors.New("session belongs to another user")
	// ErrBusy indicates a submission is in flight and the draft cannot change.
	ErrBusy = errors.New("submission in progress")
	// ErrUploadInProgress indicates another upload batch is running.
	ErrUploadInProgress = errors.New("upload already in progress")
	// ErrPublished indicates the draft was published and the success modal must be dismissed first.
	ErrPublished = errors.New("itinerary already published; dismiss to continue")
	// ErrNotPublished indicates dismiss was requested without a successful publish.
	ErrNotPublished = errors.New("nothing has been published")
	// ErrUnknownField indicates a field name outside the registry.
	ErrUnknownField = errors.New("unknown field")
	// ErrInvalidFieldValue indicates a value of the wrong type for a field.
	ErrInvalidFieldValue = errors.New("invalid field value")
	// ErrIndexOutOfRange indicates a positional remove with a bad index.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrUnknownCategory indicates a category outside the vocabulary.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrDuplicateMember indicates the registered user is already on the team.
	ErrDuplicateMember = errors.New("user is already a team member")
	// ErrMemberNameRequired indicates an unregistered member without a name.
	ErrMemberNameRequired = errors.New("member name is required")
	// ErrMemberIDRequired indicates a registered member without a user id.
	ErrMemberIDRequired = errors.New("member user id is required")
	// ErrCommunityLimit indicates the selected communities cap was reached.
	ErrCommunityLimit = errors.New("community selection limit reached")
	// ErrInvalidCommunity indicates an empty community slug.
	ErrInvalidCommunity = errors.New("invalid community")
	// ErrAssetLimit indicates the screenshot cap was reached.
	ErrAssetLimit = errors.New("screenshot limit reached")
	// ErrNoFiles indicates an upload request without files.
	ErrNoFiles = errors.New("no files uploaded")
	// ErrPublishedIDMissing indicates the create response carried no identifier.
	ErrPublishedIDMissing = errors.New("create response carried no itinerary id")
)

// APIError is a non-2xx response from the itinerary backend.
type APIError struct {
	// StatusCode is the HTTP status.
	StatusCode int
	// Message is a human readable summary, if the backend sent one.
	Message string
	// Fields maps (possibly nested) field keys such as "team_members.0.avatar_url" to messages.
	Fields map[string]string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if len(e.Fields) > 0 {
		return fmt.Sprintf("backend returned %d: %s (%d field errors)", e.StatusCode, msg, len(e.Fields))
	}
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, msg)
}

// IsClientError reports a 4xx response.
func (e *APIError) IsClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}
