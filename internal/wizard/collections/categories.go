package collections

import (
	"fmt"

	"github.com/festy23/trip_publisher/internal/wizard/model"
)

// Categories is a set over the fixed category vocabulary, kept in selection order.
type Categories struct {
	values []model.Category
}

// Toggle adds value if absent and removes it if present.
// It returns whether value is selected afterwards.
func (c *Categories) Toggle(value string) (bool, error) {
	cat, ok := model.ParseCategory(value)
	if !ok {
		return false, fmt.Errorf("%w: %q", model.ErrUnknownCategory, value)
	}
	for i, v := range c.values {
		if v == cat {
			c.values = append(c.values[:i], c.values[i+1:]...)
			return false, nil
		}
	}
	c.values = append(c.values, cat)
	return true, nil
}

// Values returns a copy of the selection.
func (c *Categories) Values() []model.Category {
	return append([]model.Category(nil), c.values...)
}

// Len returns the number of selected categories.
func (c *Categories) Len() int {
	return len(c.values)
}

// Reset clears the selection.
func (c *Categories) Reset() {
	c.values = nil
}
