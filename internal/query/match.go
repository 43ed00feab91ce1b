package query

import (
	"strconv"
	"strings"

	"github.com/bibman/bibman/internal/bibtex"
)

// Matches evaluates q against one entry. Filters and free terms are ANDed;
// the first failing constraint short-circuits.
func Matches(e *bibtex.Entry, q Query) bool {
	for _, f := range q.Filters {
		if !matchFilter(e, f) {
			return false
		}
	}
	for _, term := range q.FreeTerms {
		if !matchFreeTerm(e, term) {
			return false
		}
	}
	return true
}

func matchFilter(e *bibtex.Entry, f Filter) bool {
	switch f.Field {
	case "title":
		return strings.Contains(strings.ToLower(e.Title), f.Value)
	case "author":
		return strings.Contains(strings.ToLower(e.Author), f.Value)
	case "keywords":
		return strings.Contains(strings.ToLower(e.Keywords), f.Value)
	case "url":
		return strings.Contains(strings.ToLower(e.URL), f.Value)
	case "year":
		return matchYear(e.Year, f.Value)
	}
	return false
}

// matchYear handles y:2020 substring filters and y:min-max inclusive
// ranges. A range that fails to parse, or an entry year that is not purely
// numeric, falls back to substring containment on the raw year string.
func matchYear(year, value string) bool {
	if strings.Contains(value, "-") {
		parts := strings.SplitN(value, "-", 2)
		min, errMin := strconv.Atoi(parts[0])
		max, errMax := strconv.Atoi(parts[1])
		y, errYear := strconv.Atoi(strings.TrimSpace(year))
		if errMin == nil && errMax == nil && errYear == nil {
			return min <= y && y <= max
		}
		return strings.Contains(year, value)
	}
	return strings.Contains(year, value)
}

// matchFreeTerm looks for the term in the default search fields: title,
// author, keywords, and the citation key.
func matchFreeTerm(e *bibtex.Entry, term string) bool {
	return strings.Contains(strings.ToLower(e.Title), term) ||
		strings.Contains(strings.ToLower(e.Author), term) ||
		strings.Contains(strings.ToLower(e.Keywords), term) ||
		strings.Contains(strings.ToLower(e.Key), term)
}

// Apply filters entries down to those matching q, preserving order.
func Apply(entries []*bibtex.Entry, q Query) []*bibtex.Entry {
	if q.IsEmpty() {
		out := make([]*bibtex.Entry, len(entries))
		copy(out, entries)
		return out
	}
	out := make([]*bibtex.Entry, 0, len(entries))
	for _, e := range entries {
		if Matches(e, q) {
			out = append(out, e)
		}
	}
	return out
}
