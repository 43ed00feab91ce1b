// Package bibtex defines the bibliography entry model and a flat-file
// BibTeX codec that round-trips unknown fields verbatim.
package bibtex

import "strings"

// ReadStates is the fixed read-state cycle. The empty state means "unset".
var ReadStates = []string{"", "to-read", "skimmed", "read"}

// Priorities is the fixed priority cycle. Zero means "unset".
var Priorities = []int{0, 1, 2, 3}

// MaxRating is the upper bound for entry ratings.
const MaxRating = 5

// Entry is one bibliographic record.
//
// Scalar fields default to the empty string; empty means "unset". Any field
// not covered by a named struct member lives in RawFields and is preserved
// verbatim when the entry is written back out.
type Entry struct {
	Key  string
	Type string

	Title    string
	Author   string
	Year     string
	Journal  string
	DOI      string
	URL      string
	Abstract string
	Keywords string
	Comment  string
	File     string

	Rating    int    // 0..5, clamped on every write
	ReadState string // one of ReadStates
	Priority  int    // one of Priorities

	RawFields map[string]string
}

// NewEntry returns an entry with an initialized raw-field bucket.
func NewEntry(key, entryType string) *Entry {
	return &Entry{
		Key:       key,
		Type:      entryType,
		RawFields: make(map[string]string),
	}
}

// SetRating clamps the value into [0, MaxRating] and stores it.
func (e *Entry) SetRating(value int) {
	if value < 0 {
		value = 0
	}
	if value > MaxRating {
		value = MaxRating
	}
	e.Rating = value
}

// CycleReadState advances the read state through ReadStates, wrapping.
func (e *Entry) CycleReadState() {
	idx := 0
	for i, s := range ReadStates {
		if s == e.ReadState {
			idx = i
			break
		}
	}
	e.ReadState = ReadStates[(idx+1)%len(ReadStates)]
}

// CyclePriority advances the priority through Priorities, wrapping.
func (e *Entry) CyclePriority() {
	idx := 0
	for i, p := range Priorities {
		if p == e.Priority {
			idx = i
			break
		}
	}
	e.Priority = Priorities[(idx+1)%len(Priorities)]
}

// AuthorsShort returns the first author's surname, or "Unknown" when the
// author field is empty.
func (e *Entry) AuthorsShort() string {
	if e.Author == "" {
		return "Unknown"
	}
	first := strings.TrimSpace(strings.SplitN(e.Author, " and ", 2)[0])
	if first == "" {
		return "Unknown"
	}
	if idx := strings.Index(first, ","); idx >= 0 {
		return strings.TrimSpace(first[:idx])
	}
	words := strings.Fields(first)
	if len(words) == 0 {
		return first
	}
	return words[len(words)-1]
}

// KeywordsList splits the comma-separated keywords field.
func (e *Entry) KeywordsList() []string {
	if strings.TrimSpace(e.Keywords) == "" {
		return nil
	}
	var out []string
	for _, kw := range strings.Split(e.Keywords, ",") {
		kw = strings.TrimSpace(kw)
		if kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

// HasFile reports whether the entry carries a file reference.
func (e *Entry) HasFile() bool { return e.File != "" }

// HasURL reports whether the entry carries a URL.
func (e *Entry) HasURL() bool { return e.URL != "" }

// Booktitle returns the raw booktitle field, the journal fallback used by
// the journal sort column and display code.
func (e *Entry) Booktitle() string {
	return e.RawFields["booktitle"]
}

// Venue returns the journal, falling back to the booktitle raw field.
func (e *Entry) Venue() string {
	if e.Journal != "" {
		return e.Journal
	}
	return e.Booktitle()
}

// GetField returns a field value by its BibTeX name, consulting the raw
// bucket for unrecognized names. The dispatch is a closed switch rather than
// reflection so the known-field set stays explicit.
func (e *Entry) GetField(name string) string {
	switch name {
	case "title":
		return e.Title
	case "author":
		return e.Author
	case "year":
		return e.Year
	case "journal":
		return e.Journal
	case "doi":
		return e.DOI
	case "url":
		return e.URL
	case "abstract":
		return e.Abstract
	case "keywords":
		return e.Keywords
	case "comment":
		return e.Comment
	case "file":
		return e.File
	}
	return e.RawFields[name]
}

// SetField stores a field value by its BibTeX name. Unrecognized names go
// into the raw bucket.
func (e *Entry) SetField(name, value string) {
	switch name {
	case "title":
		e.Title = value
	case "author":
		e.Author = value
	case "year":
		e.Year = value
	case "journal":
		e.Journal = value
	case "doi":
		e.DOI = value
	case "url":
		e.URL = value
	case "abstract":
		e.Abstract = value
	case "keywords":
		e.Keywords = value
	case "comment":
		e.Comment = value
	case "file":
		e.File = value
	default:
		if e.RawFields == nil {
			e.RawFields = make(map[string]string)
		}
		e.RawFields[name] = value
	}
}
