package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_Uniqueness(t *testing.T) {
	all := []error{
		ErrSessionNotFound, ErrForbidden, ErrBusy, ErrUploadInProgress, ErrPublished,
		ErrNotPublished, ErrUnknownField, ErrInvalidFieldValue, ErrIndexOutOfRange,
		ErrUnknownCategory, ErrDuplicateMember, ErrMemberNameRequired, ErrMemberIDRequired,
		ErrCommunityLimit, ErrInvalidCommunity, ErrAssetLimit, ErrNoFiles, ErrPublishedIDMissing,
	}
	for i := range all {
		for j := range all {
			if i != j {
				assert.False(t, errors.Is(all[i], all[j]), "%v should differ from %v", all[i], all[j])
			}
		}
	}
}

func TestAPIError(t *testing.T) {
	t.Run("uses status text without message", func(t *testing.T) {
		err := &APIError{StatusCode: 502}
		assert.Equal(t, "backend returned 502: Bad Gateway", err.Error())
		assert.False(t, err.IsClientError())
	})

	t.Run("counts field errors", func(t *testing.T) {
		err := &APIError{
			StatusCode: 422,
			Message:    "validation failed",
			Fields:     map[string]string{"title": "too short", "team_members.0.avatar_url": "invalid"},
		}
		assert.Equal(t, "backend returned 422: validation failed (2 field errors)", err.Error())
		assert.True(t, err.IsClientError())
	})

	t.Run("matches through wrapping", func(t *testing.T) {
		var apiErr *APIError
		wrapped := errors.Join(errors.New("create itinerary"), &APIError{StatusCode: 400})
		assert.True(t, errors.As(wrapped, &apiErr))
		assert.Equal(t, 400, apiErr.StatusCode)
	})
}
