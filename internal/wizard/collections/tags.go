// Package collections holds the draft's list-shaped state: activity tags, categories,
// team members, uploaded screenshots and selected communities. None of them run schema
// validation; each keeps only its own uniqueness or cardinality invariant.
package collections

import "strings"

// Tags is an ordered set of free-text activity tags.
type Tags struct {
	values []string
}

// Add splits raw on commas, trims, drops empties and appends values not yet present
// (exact, case-sensitive match). It returns the values actually added.
func (t *Tags) Add(raw string) []string {
	var added []string
	for _, part := range strings.Split(raw, ",") {
		v := strings.TrimSpace(part)
		if v == "" || t.Contains(v) {
			continue
		}
		t.values = append(t.values, v)
		added = append(added, v)
	}
	return added
}

// Remove deletes value by exact match.
func (t *Tags) Remove(value string) bool {
	for i, v := range t.values {
		if v == value {
			t.values = append(t.values[:i], t.values[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports an exact match.
func (t *Tags) Contains(value string) bool {
	for _, v := range t.values {
		if v == value {
			return true
		}
	}
	return false
}

// Values returns a copy in insertion order.
func (t *Tags) Values() []string {
	return append([]string(nil), t.values...)
}

// Len returns the number of tags.
func (t *Tags) Len() int {
	return len(t.values)
}

// Reset empties the collection.
func (t *Tags) Reset() {
	t.values = nil
}
