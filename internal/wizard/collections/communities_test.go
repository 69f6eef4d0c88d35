package collections

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/festy23/trip_publisher/internal/wizard/model"
)

func TestCommunities_Toggle(t *testing.T) {
	var c Communities

	on, err := c.Toggle("hikers")
	require.NoError(t, err)
	assert.True(t, on)

	on, err = c.Toggle(" hikers ")
	require.NoError(t, err)
	assert.False(t, on)
	assert.Zero(t, c.Len())
}

func TestCommunities_Limit(t *testing.T) {
	var c Communities
	for i := 0; i < MaxCommunities; i++ {
		_, err := c.Toggle(fmt.Sprintf("c%d", i))
		require.NoError(t, err)
	}

	_, err := c.Toggle("extra")
	assert.ErrorIs(t, err, model.ErrCommunityLimit)
	assert.Equal(t, MaxCommunities, c.Len())

	// Deselecting still works at the cap.
	on, err := c.Toggle("c0")
	require.NoError(t, err)
	assert.False(t, on)
}

func TestCommunities_Invalid(t *testing.T) {
	var c Communities
	for _, slug := range []string{"", "  ", "a/b", "x?y"} {
		_, err := c.Toggle(slug)
		assert.ErrorIs(t, err, model.ErrInvalidCommunity, slug)
	}
	c.Reset()
	assert.Empty(t, c.Values())
}
