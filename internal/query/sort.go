package query

import (
	"sort"
	"strconv"
	"strings"

	"github.com/bibman/bibman/internal/bibtex"
)

// Column identifies a sortable view column.
type Column string

// Sortable columns. Presence columns sort entries that have the file/URL
// before those that do not.
const (
	ColReadState Column = "state"
	ColPriority  Column = "priority"
	ColFile      Column = "file"
	ColURL       Column = "url"
	ColType      Column = "type"
	ColYear      Column = "year"
	ColAuthor    Column = "author"
	ColJournal   Column = "journal"
	ColTitle     Column = "title"
	ColRating    Column = "rating"
)

// Columns lists every sortable column, in display order.
var Columns = []Column{
	ColReadState, ColPriority, ColFile, ColURL, ColType,
	ColYear, ColAuthor, ColJournal, ColTitle, ColRating,
}

// ParseColumn resolves a column name, case-insensitively.
func ParseColumn(name string) (Column, bool) {
	c := Column(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Columns {
		if c == known {
			return c, true
		}
	}
	return "", false
}

// unsetPrioritySentinel pushes priority-0 (unset) entries to the end of an
// ascending priority sort.
const unsetPrioritySentinel = 99

// SortState is the caller-owned sort selection. The core never retains it
// between calls.
type SortState struct {
	Column  Column
	Reverse bool
}

// Select updates the state for a column click: the same column toggles the
// direction, a different column is adopted ascending.
func (s *SortState) Select(col Column) {
	if s.Column == col {
		s.Reverse = !s.Reverse
		return
	}
	s.Column = col
	s.Reverse = false
}

// Sort orders entries in place by the selected column. The sort is stable:
// entries with equal keys keep their pre-sort relative order, in both
// directions, so re-sorting after a filter change stays visually
// predictable.
func Sort(entries []*bibtex.Entry, state SortState) {
	if state.Column == "" {
		return
	}
	less := lessFunc(state.Column)
	if state.Reverse {
		asc := less
		less = func(a, b *bibtex.Entry) bool { return asc(b, a) }
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return less(entries[i], entries[j])
	})
}

func lessFunc(col Column) func(a, b *bibtex.Entry) bool {
	switch col {
	case ColReadState:
		return func(a, b *bibtex.Entry) bool {
			return readStateRank(a) < readStateRank(b)
		}
	case ColPriority:
		return func(a, b *bibtex.Entry) bool {
			return priorityRank(a) < priorityRank(b)
		}
	case ColFile:
		return func(a, b *bibtex.Entry) bool {
			return presenceRank(a.HasFile()) < presenceRank(b.HasFile())
		}
	case ColURL:
		return func(a, b *bibtex.Entry) bool {
			return presenceRank(a.HasURL()) < presenceRank(b.HasURL())
		}
	case ColType:
		return func(a, b *bibtex.Entry) bool {
			return strings.ToLower(a.Type) < strings.ToLower(b.Type)
		}
	case ColYear:
		return func(a, b *bibtex.Entry) bool {
			return numericYear(a.Year) < numericYear(b.Year)
		}
	case ColAuthor:
		return func(a, b *bibtex.Entry) bool {
			return strings.ToLower(a.AuthorsShort()) < strings.ToLower(b.AuthorsShort())
		}
	case ColJournal:
		return func(a, b *bibtex.Entry) bool {
			return strings.ToLower(a.Venue()) < strings.ToLower(b.Venue())
		}
	case ColTitle:
		return func(a, b *bibtex.Entry) bool {
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	case ColRating:
		return func(a, b *bibtex.Entry) bool {
			return a.Rating < b.Rating
		}
	}
	return func(a, b *bibtex.Entry) bool { return false }
}

// readStateRank is the position in the fixed read-state ordering; unknown
// states rank with unset.
func readStateRank(e *bibtex.Entry) int {
	for i, s := range bibtex.ReadStates {
		if e.ReadState == s {
			return i
		}
	}
	return 0
}

func priorityRank(e *bibtex.Entry) int {
	if e.Priority > 0 {
		return e.Priority
	}
	return unsetPrioritySentinel
}

func presenceRank(present bool) int {
	if present {
		return 0
	}
	return 1
}

// numericYear parses the year for ordering; non-numeric years sort as 0.
func numericYear(year string) int {
	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil {
		return 0
	}
	return y
}
