package collections

import (
	"fmt"
	"strings"

	"github.com/festy23/trip_publisher/internal/wizard/model"
)

// MaxCommunities caps the community selection.
const MaxCommunities = 5

// Communities is the set of community slugs selected for post-publish fan-out.
type Communities struct {
	slugs []string
}

// Toggle selects slug if absent and deselects it if present.
// Selecting beyond MaxCommunities fails with ErrCommunityLimit.
func (c *Communities) Toggle(slug string) (bool, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" || strings.ContainsAny(slug, "/?#") {
		return false, fmt.Errorf("%w: %q", model.ErrInvalidCommunity, slug)
	}
	for i, s := range c.slugs {
		if s == slug {
			c.slugs = append(c.slugs[:i], c.slugs[i+1:]...)
			return false, nil
		}
	}
	if len(c.slugs) >= MaxCommunities {
		return false, fmt.Errorf("%w: at most %d", model.ErrCommunityLimit, MaxCommunities)
	}
	c.slugs = append(c.slugs, slug)
	return true, nil
}

// Values returns a copy of the selection.
func (c *Communities) Values() []string {
	return append([]string(nil), c.slugs...)
}

// Len returns the number of selected communities.
func (c *Communities) Len() int {
	return len(c.slugs)
}

// Reset clears the selection.
func (c *Communities) Reset() {
	c.slugs = nil
}
