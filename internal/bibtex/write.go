package bibtex

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// fieldOrder is the fixed serialization order for known fields. Raw fields
// follow, sorted by name, so output is deterministic and diffs stay small.
var fieldOrder = []string{
	"title", "author", "year", "journal", "doi", "url",
	"abstract", "keywords", "comment",
}

// Format serializes one entry to BibTeX.
func Format(e *Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "@%s{%s,\n", e.Type, e.Key)

	writeField := func(name, value string) {
		if value != "" {
			fmt.Fprintf(&b, "  %s = {%s},\n", name, value)
		}
	}

	for _, name := range fieldOrder {
		writeField(name, e.GetField(name))
	}
	if e.Rating > 0 {
		writeField("ranking", fmt.Sprintf("rank%d", e.Rating))
	}
	writeField("readstate", e.ReadState)
	if e.Priority > 0 {
		writeField("priority", fmt.Sprintf("%d", e.Priority))
	}
	writeField("file", e.File)

	rawNames := make([]string, 0, len(e.RawFields))
	for name := range e.RawFields {
		rawNames = append(rawNames, name)
	}
	sort.Strings(rawNames)
	for _, name := range rawNames {
		writeField(name, e.RawFields[name])
	}

	b.WriteString("}\n")
	return b.String()
}

// FormatAll serializes a whole collection, entries separated by blank lines.
func FormatAll(entries []*Entry) string {
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = Format(e)
	}
	return strings.Join(parts, "\n")
}

// WriteFile serializes entries and writes them to path. The write goes
// through a temp file in the same directory so a crash mid-write cannot
// truncate the library.
func WriteFile(path string, entries []*Entry) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(FormatAll(entries)), 0644); err != nil {
		return fmt.Errorf("writing bib file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing bib file: %w", err)
	}
	return nil
}
