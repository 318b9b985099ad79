package classification

import (
	"slices"
	"strings"
)

// Criteria narrows a classified batch. Zero-valued fields match everything.
type Criteria struct {
	// Search matches name or SKU, case-insensitively, by substring.
	Search   string
	Category string
	Classes  []Class
	Statuses []Status
}

// IsZero reports whether the criteria match every item.
func (c Criteria) IsZero() bool {
	return strings.TrimSpace(c.Search) == "" &&
		strings.TrimSpace(c.Category) == "" &&
		len(c.Classes) == 0 &&
		len(c.Statuses) == 0
}

// Matches reports whether a single item satisfies the criteria.
func (c Criteria) Matches(item ClassifiedItem) bool {
	if term := strings.ToLower(strings.TrimSpace(c.Search)); term != "" {
		if !strings.Contains(strings.ToLower(item.Name), term) &&
			!strings.Contains(strings.ToLower(item.SKU), term) {
			return false
		}
	}
	if category := strings.TrimSpace(c.Category); category != "" && !strings.EqualFold(item.Category, category) {
		return false
	}
	if len(c.Classes) > 0 && !slices.Contains(c.Classes, item.Class) {
		return false
	}
	if len(c.Statuses) > 0 && !slices.Contains(c.Statuses, item.Status) {
		return false
	}
	return true
}

// Filter returns the items matching c in their original order. The input is
// not modified.
func Filter(items []ClassifiedItem, c Criteria) []ClassifiedItem {
	out := make([]ClassifiedItem, 0, len(items))
	for _, item := range items {
		if c.Matches(item) {
			out = append(out, item)
		}
	}
	return out
}
