package bibtex

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

const sampleBib = `
% personal library
@article{Smith2023,
  title = {Glacial {Dynamics} in the 21st Century},
  author = {Smith, John and Jones, Mary},
  year = {2023},
  journal = {Nature},
  keywords = {glacier, ice},
  ranking = {rank4},
  readstate = {read},
  priority = {2},
  volume = {17},
}

@comment{jabref-meta: databaseType:bibtex;}

@inproceedings{Doe2020,
  title = "Quoted Title",
  author = {Doe, Jane},
  year = 2020,
  booktitle = {Proc. Ice Conf.}
}
`

func TestParse_Sample(t *testing.T) {
	entries, err := Parse(sampleBib)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Parse() returned %d entries, want 2", len(entries))
	}

	smith := entries[0]
	if smith.Key != "Smith2023" || smith.Type != "article" {
		t.Errorf("entry 0 = %s/%s, want Smith2023/article", smith.Key, smith.Type)
	}
	if smith.Title != "Glacial {Dynamics} in the 21st Century" {
		t.Errorf("Title = %q", smith.Title)
	}
	if smith.Rating != 4 {
		t.Errorf("Rating = %d, want 4", smith.Rating)
	}
	if smith.ReadState != "read" {
		t.Errorf("ReadState = %q, want read", smith.ReadState)
	}
	if smith.Priority != 2 {
		t.Errorf("Priority = %d, want 2", smith.Priority)
	}
	if smith.RawFields["volume"] != "17" {
		t.Errorf("RawFields[volume] = %q, want 17", smith.RawFields["volume"])
	}

	doe := entries[1]
	if doe.Title != "Quoted Title" {
		t.Errorf("quoted title = %q", doe.Title)
	}
	if doe.Year != "2020" {
		t.Errorf("bare year = %q, want 2020", doe.Year)
	}
	if doe.Booktitle() != "Proc. Ice Conf." {
		t.Errorf("Booktitle() = %q", doe.Booktitle())
	}
}

func TestParse_MultilineValueCollapses(t *testing.T) {
	entries, err := Parse("@article{A1,\n  abstract = {line one\n   line two},\n}")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if got := entries[0].Abstract; got != "line one line two" {
		t.Errorf("Abstract = %q, want collapsed whitespace", got)
	}
}

func TestParse_CaseProtectionBracesStripped(t *testing.T) {
	entries, err := Parse("@article{A1, title = {{All Caps Kept}} }")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if got := entries[0].Title; got != "All Caps Kept" {
		t.Errorf("Title = %q, want outer protection braces stripped once", got)
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"unterminated entry", "@article{A1, title = {x},"},
		{"missing equals", "@article{A1, title {x}}"},
		{"unterminated value", "@article{A1, title = {x}"},
		{"missing key", "@article{, title = {x}}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Errorf("Parse(%q) error = %v, want *ParseError", tt.text, err)
			}
		})
	}
}

func TestParseOne_NoEntry(t *testing.T) {
	if _, err := ParseOne("just some prose, nothing bib-like"); !errors.Is(err, ErrNoEntry) {
		t.Errorf("ParseOne() error = %v, want ErrNoEntry", err)
	}
}

func TestRoundTrip_PreservesEverything(t *testing.T) {
	e := NewEntry("Jones2021", "article")
	e.Title = "Ice Sheet Dynamics"
	e.Author = "Jones, Alice"
	e.Year = "2021"
	e.Journal = "The Cryosphere"
	e.Keywords = "ice, dynamics"
	e.SetRating(3)
	e.ReadState = "skimmed"
	e.Priority = 1
	e.File = ":Jones2021.pdf:PDF"
	e.RawFields["volume"] = "9"
	e.RawFields["date-added"] = "2024-02-01T09:00:00"

	parsed, err := ParseOne(Format(e))
	if err != nil {
		t.Fatalf("round trip parse: %v", err)
	}

	if parsed.Rating != 3 {
		t.Errorf("Rating = %d, want 3", parsed.Rating)
	}
	if parsed.ReadState != "skimmed" {
		t.Errorf("ReadState = %q, want skimmed", parsed.ReadState)
	}
	if parsed.Priority != 1 {
		t.Errorf("Priority = %d, want 1", parsed.Priority)
	}
	if parsed.Keywords != e.Keywords {
		t.Errorf("Keywords = %q, want %q", parsed.Keywords, e.Keywords)
	}
	if parsed.File != e.File {
		t.Errorf("File = %q, want %q", parsed.File, e.File)
	}
	for name, want := range e.RawFields {
		if got := parsed.RawFields[name]; got != want {
			t.Errorf("RawFields[%s] = %q, want %q", name, got, want)
		}
	}
}

func TestWriteFile_ThenParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "library.bib")

	a := NewEntry("Able2019", "book")
	a.Title = "On Sorting"
	b := NewEntry("Baker2020", "article")
	b.Title = "On Searching"

	if err := WriteFile(path, []*Entry{a, b}); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	entries, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error: %v", err)
	}
	if len(entries) != 2 || entries[0].Key != "Able2019" || entries[1].Key != "Baker2020" {
		t.Errorf("ParseFile() round trip lost entries: %+v", entries)
	}
}

func TestFormat_DeterministicRawOrder(t *testing.T) {
	e := NewEntry("K1", "article")
	e.RawFields["zeta"] = "1"
	e.RawFields["alpha"] = "2"
	out := Format(e)
	if strings.Index(out, "alpha") > strings.Index(out, "zeta") {
		t.Errorf("raw fields not sorted:\n%s", out)
	}
}
