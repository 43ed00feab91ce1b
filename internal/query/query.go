// Package query implements the search-box micro-language, the entry
// matcher, and the column sort engine over an in-memory collection.
//
// A query string splits on whitespace into tokens. A token of the form
// prefix:value becomes a field filter when the prefix is a known alias;
// anything else - plain words, unknown prefixes, empty values - degrades to
// a free-text term. All filters and terms are ANDed.
package query

import "strings"

// Filter is one field-prefixed constraint, value already lower-cased.
type Filter struct {
	Field string
	Value string
}

// Query is the parsed form of one search-box string.
type Query struct {
	Filters   []Filter
	FreeTerms []string
}

// IsEmpty reports whether the query constrains nothing. An empty query
// matches every entry.
func (q Query) IsEmpty() bool {
	return len(q.Filters) == 0 && len(q.FreeTerms) == 0
}

// fieldAliases maps search prefixes to canonical field names. Lookup is
// case-insensitive on the prefix.
var fieldAliases = map[string]string{
	"t": "title", "title": "title",
	"a": "author", "author": "author",
	"k": "keywords", "kw": "keywords", "keyword": "keywords", "keywords": "keywords",
	"y": "year", "year": "year",
	"u": "url", "url": "url",
}

// Parse tokenizes a free-text search string. It never fails: malformed
// tokens become free-text terms, including their literal colon.
func Parse(text string) Query {
	var q Query
	for _, token := range strings.Fields(text) {
		if idx := strings.Index(token, ":"); idx >= 0 {
			prefix, value := token[:idx], token[idx+1:]
			if field, ok := fieldAliases[strings.ToLower(prefix)]; ok && value != "" {
				q.Filters = append(q.Filters, Filter{Field: field, Value: strings.ToLower(value)})
				continue
			}
		}
		q.FreeTerms = append(q.FreeTerms, strings.ToLower(token))
	}
	return q
}
