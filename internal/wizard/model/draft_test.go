package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory("Solo Travel")
	assert.True(t, ok)
	assert.Equal(t, CategorySoloTravel, c)

	_, ok = ParseCategory("solo travel")
	assert.False(t, ok, "vocabulary match is exact")

	_, ok = ParseCategory("Space Tourism")
	assert.False(t, ok)
}

func TestCategories_ReturnsCopy(t *testing.T) {
	cats := Categories()
	assert.Equal(t, CategoryAdventure, cats[0])
	cats[0] = "mutated"
	assert.Equal(t, CategoryAdventure, Categories()[0])
}

func TestTeamMemberRequest_ToUser(t *testing.T) {
	t.Run("canonical avatar field", func(t *testing.T) {
		u := TeamMemberRequest{UserID: "u1", Username: "mika", AvatarURL: "https://cdn/a.png", Avatar: "ignored"}.ToUser()
		assert.Equal(t, User{ID: "u1", Username: "mika", AvatarURL: "https://cdn/a.png"}, u)
	})

	t.Run("legacy avatar field", func(t *testing.T) {
		u := TeamMemberRequest{UserID: "u2", Avatar: "https://cdn/b.png"}.ToUser()
		assert.Equal(t, "https://cdn/b.png", u.AvatarURL)
	})
}
