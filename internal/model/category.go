package model

import "sort"

// CategoryMapping maps a raw category to its overall category.
type CategoryMapping struct {
	entries map[string]string
}

// NewCategoryMapping copies entries into a mapping.
func NewCategoryMapping(entries map[string]string) CategoryMapping {
	m := CategoryMapping{entries: make(map[string]string, len(entries))}
	for k, v := range entries {
		m.entries[k] = v
	}
	return m
}

// Lookup returns the overall category for a raw category.
func (m CategoryMapping) Lookup(category string) (string, bool) {
	v, ok := m.entries[category]
	return v, ok
}

// Len returns the number of entries.
func (m CategoryMapping) Len() int {
	return len(m.entries)
}

// OverallCategories returns the distinct overall category labels, sorted.
func (m CategoryMapping) OverallCategories() []string {
	seen := make(map[string]bool)
	var labels []string
	for _, v := range m.entries {
		if !seen[v] {
			seen[v] = true
			labels = append(labels, v)
		}
	}
	sort.Strings(labels)
	return labels
}
