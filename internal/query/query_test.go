package query

import (
	"reflect"
	"testing"

	"github.com/bibman/bibman/internal/bibtex"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		filters   []Filter
		freeTerms []string
	}{
		{
			name:  "empty",
			input: "   ",
		},
		{
			name:    "short aliases",
			input:   "a:smith t:glacier",
			filters: []Filter{{"author", "smith"}, {"title", "glacier"}},
		},
		{
			name:    "long aliases and case folding",
			input:   "AUTHOR:Smith Keywords:ICE",
			filters: []Filter{{"author", "smith"}, {"keywords", "ice"}},
		},
		{
			name:      "unknown prefix degrades to free text",
			input:     "doi:10.1000/xyz glacier",
			freeTerms: []string{"doi:10.1000/xyz", "glacier"},
		},
		{
			name:      "empty value degrades to free text",
			input:     "t: glacier",
			freeTerms: []string{"t:", "glacier"},
		},
		{
			name:    "value keeps extra colons",
			input:   "u:https://arxiv.org",
			filters: []Filter{{"url", "https://arxiv.org"}},
		},
		{
			name:    "duplicate fields all kept",
			input:   "k:ice k:ocean",
			filters: []Filter{{"keywords", "ice"}, {"keywords", "ocean"}},
		},
		{
			name:      "mixed",
			input:     "y:2015-2023 permafrost",
			filters:   []Filter{{"year", "2015-2023"}},
			freeTerms: []string{"permafrost"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Parse(tt.input)
			if !reflect.DeepEqual(q.Filters, tt.filters) {
				t.Errorf("Filters = %v, want %v", q.Filters, tt.filters)
			}
			if !reflect.DeepEqual(q.FreeTerms, tt.freeTerms) {
				t.Errorf("FreeTerms = %v, want %v", q.FreeTerms, tt.freeTerms)
			}
		})
	}
}

func testEntry() *bibtex.Entry {
	e := bibtex.NewEntry("Smith2023", "article")
	e.Title = "Glacial Dynamics"
	e.Author = "Smith, John"
	e.Year = "2023"
	e.Keywords = "glacier, ice"
	e.URL = "https://example.com/paper"
	return e
}

func TestMatches_EmptyQueryMatchesEverything(t *testing.T) {
	if !Matches(testEntry(), Parse("")) {
		t.Error("empty query should match any entry")
	}
	if !Matches(bibtex.NewEntry("k", "misc"), Parse("")) {
		t.Error("empty query should match a bare entry")
	}
}

func TestMatches_FieldFilters(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  bool
	}{
		{"author and title", "a:smith t:glacier", true},
		{"author mismatch", "a:jones", false},
		{"keyword", "k:ice", true},
		{"url", "u:example.com", true},
		{"literal year", "y:2023", true},
		{"year range inside", "y:2015-2023", true},
		{"year range outside", "y:2015-2022", false},
		{"free term on key", "smith2023", true},
		{"free term missing", "volcano", false},
		{"all terms must match", "glacier volcano", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Matches(testEntry(), Parse(tt.query)); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestMatchYear_Fallbacks(t *testing.T) {
	tests := []struct {
		name  string
		year  string
		value string
		want  bool
	}{
		{"range hit", "2023", "2015-2023", true},
		{"range miss", "2024", "2015-2023", false},
		{"non-numeric year falls back to substring", "n/a", "2015-2023", false},
		{"non-numeric range falls back to substring", "circa-1999", "circa-1999", true},
		{"plain substring", "1999", "99", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchYear(tt.year, tt.value); got != tt.want {
				t.Errorf("matchYear(%q, %q) = %v, want %v", tt.year, tt.value, got, tt.want)
			}
		})
	}
}

func TestApply_PreservesOrder(t *testing.T) {
	a := bibtex.NewEntry("A1", "article")
	a.Title = "ice one"
	b := bibtex.NewEntry("B2", "article")
	b.Title = "fire"
	c := bibtex.NewEntry("C3", "article")
	c.Title = "ice two"

	got := Apply([]*bibtex.Entry{a, b, c}, Parse("t:ice"))
	if len(got) != 2 || got[0] != a || got[1] != c {
		t.Errorf("Apply() = %v, want [A1 C3] in order", keys(got))
	}
}

func keys(entries []*bibtex.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Key
	}
	return out
}
