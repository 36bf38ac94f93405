package feed

import (
	"fmt"
	"strings"
)

type Filterer struct{}

func NewFilterer() *Filterer {
	return &Filterer{}
}

// Run marks entries rejected by the source's include/exclude rules.
// Entries are returned in their original order.
func (f *Filterer) Run(entries []Entry, source Source) []Entry {
	if len(source.Filters) == 0 {
		return entries
	}

	marked := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		entry.IsFiltered, entry.FilterReason = f.applyFilters(entry, source.Filters)
		marked = append(marked, entry)
	}

	return marked
}

func (f *Filterer) applyFilters(entry Entry, filters []SourceFilter) (bool, string) {
	for _, filter := range filters {
		value := f.getFieldValue(entry, filter.Field)

		for _, exclude := range filter.Excludes {
			if f.matchesFilter(value, exclude) {
				return true, fmt.Sprintf("Excluded by %s filter: contains '%s'", filter.Field, exclude)
			}
		}

		if len(filter.Includes) > 0 {
			matched := false
			for _, include := range filter.Includes {
				if f.matchesFilter(value, include) {
					matched = true
					break
				}
			}
			if !matched {
				return true, fmt.Sprintf("Excluded by %s filter: does not contain any of %v", filter.Field, filter.Includes)
			}
		}
	}

	return false, ""
}

func (f *Filterer) matchesFilter(value, pattern string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(pattern))
}

func (f *Filterer) getFieldValue(entry Entry, field string) string {
	switch field {
	case "title":
		return entry.Title
	case "link":
		return entry.Link
	default:
		return ""
	}
}
