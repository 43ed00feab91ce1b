package bibtex

// FieldSpec lists the fields conventionally expected for an entry type.
// The lists drive display hints only; nothing is enforced.
type FieldSpec struct {
	Required []string
	Optional []string
}

// EntryTypes is the fixed entry-type vocabulary.
var EntryTypes = map[string]FieldSpec{
	"article": {
		Required: []string{"author", "title", "journal", "year"},
		Optional: []string{"volume", "number", "pages", "month", "doi", "abstract", "keywords"},
	},
	"book": {
		Required: []string{"author", "title", "publisher", "year"},
		Optional: []string{"editor", "volume", "series", "address", "edition", "month", "doi"},
	},
	"inproceedings": {
		Required: []string{"author", "title", "booktitle", "year"},
		Optional: []string{"editor", "volume", "series", "pages", "address", "month", "organization", "publisher", "doi"},
	},
	"incollection": {
		Required: []string{"author", "title", "booktitle", "publisher", "year"},
		Optional: []string{"editor", "volume", "series", "chapter", "pages", "address", "edition", "month", "doi"},
	},
	"phdthesis": {
		Required: []string{"author", "title", "school", "year"},
		Optional: []string{"address", "month", "doi"},
	},
	"mastersthesis": {
		Required: []string{"author", "title", "school", "year"},
		Optional: []string{"address", "month"},
	},
	"techreport": {
		Required: []string{"author", "title", "institution", "year"},
		Optional: []string{"type", "number", "address", "month", "doi"},
	},
	"misc": {
		Required: nil,
		Optional: []string{"author", "title", "year", "month", "url", "doi"},
	},
}

// KnownType reports whether entryType is in the fixed vocabulary.
func KnownType(entryType string) bool {
	_, ok := EntryTypes[entryType]
	return ok
}
