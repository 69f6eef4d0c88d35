package backend

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAPIError(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantMsg    string
		wantFields map[string]string
	}{
		{
			name:       "errors object with nested index",
			body:       `{"message":"Invalid","errors":{"team_members.0.avatar_url":"bad url","title":["too short","required"]}}`,
			wantMsg:    "Invalid",
			wantFields: map[string]string{"team_members.0.avatar_url": "bad url", "title": "too short; required"},
		},
		{
			name:       "errors list",
			body:       `{"errors":[{"field":"travel_companions[1].avatar","message":"invalid"},{"path":"budget","msg":"negative"}]}`,
			wantFields: map[string]string{"team_members.1.avatar_url": "invalid", "budget": "negative"},
		},
		{
			name:       "top level field map",
			body:       `{"error":"Bad Request","title":"required","team_members":{"2":{"name":["empty"]}}}`,
			wantMsg:    "Bad Request",
			wantFields: map[string]string{"title": "required", "team_members.2.name": "empty"},
		},
		{
			name:    "nested error message",
			body:    `{"error":{"message":"token expired"}}`,
			wantMsg: "token expired",
		},
		{
			name:    "plain text body",
			body:    "  upstream exploded  ",
			wantMsg: "upstream exploded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseAPIError(http.StatusBadRequest, []byte(tt.body))
			assert.Equal(t, http.StatusBadRequest, got.StatusCode)
			assert.Equal(t, tt.wantMsg, got.Message)
			assert.Equal(t, tt.wantFields, got.Fields)
		})
	}
}

func TestParseAPIError_TruncatesLongText(t *testing.T) {
	long := make([]byte, 500)
	for i := range long {
		long[i] = 'x'
	}
	got := ParseAPIError(http.StatusBadGateway, long)
	assert.Len(t, got.Message, maxMessageLen+3)
}

func TestNormalizeFieldKey(t *testing.T) {
	assert.Equal(t, "team_members.0.avatar_url", NormalizeFieldKey("travel_companions[0].avatar"))
	assert.Equal(t, "team_members.3.user_id", NormalizeFieldKey("teamMembers.3.userId"))
	assert.Equal(t, "title", NormalizeFieldKey(" title "))
	assert.Equal(t, "activity_tags", NormalizeFieldKey("activities"))
}
