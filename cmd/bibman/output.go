package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/bibman/bibman/internal/bibtex"
)

// Title truncation lengths by context.
const (
	ListTitleMaxLen   = 60 // Used in list/search output
	DetailTitleMaxLen = 70 // Used in get detail view
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Key    string `json:"key,omitempty"`
	Path   string `json:"path,omitempty"`
}

// EntryView is the JSON representation of a bibliography entry.
type EntryView struct {
	Key       string            `json:"key"`
	Type      string            `json:"type"`
	Title     string            `json:"title,omitempty"`
	Author    string            `json:"author,omitempty"`
	Year      string            `json:"year,omitempty"`
	Journal   string            `json:"journal,omitempty"`
	DOI       string            `json:"doi,omitempty"`
	URL       string            `json:"url,omitempty"`
	Keywords  string            `json:"keywords,omitempty"`
	Comment   string            `json:"comment,omitempty"`
	File      string            `json:"file,omitempty"`
	Rating    int               `json:"rating,omitempty"`
	ReadState string            `json:"read_state,omitempty"`
	Priority  int               `json:"priority,omitempty"`
	Raw       map[string]string `json:"raw,omitempty"`
}

func viewOf(e *bibtex.Entry) EntryView {
	v := EntryView{
		Key:       e.Key,
		Type:      e.Type,
		Title:     e.Title,
		Author:    e.Author,
		Year:      e.Year,
		Journal:   e.Venue(),
		DOI:       e.DOI,
		URL:       e.URL,
		Keywords:  e.Keywords,
		Comment:   e.Comment,
		File:      e.File,
		Rating:    e.Rating,
		ReadState: e.ReadState,
		Priority:  e.Priority,
	}
	if len(e.RawFields) > 0 {
		v.Raw = e.RawFields
	}
	return v
}

func viewsOf(entries []*bibtex.Entry) []EntryView {
	views := make([]EntryView, len(entries))
	for i, e := range entries {
		views[i] = viewOf(e)
	}
	return views
}

// printEntryLine prints the one-line list representation of an entry.
func printEntryLine(e *bibtex.Entry) {
	marks := ""
	if e.HasFile() {
		marks += "P"
	}
	if e.HasURL() {
		marks += "U"
	}
	state := e.ReadState
	if state == "" {
		state = "-"
	}
	fmt.Printf("%-24s %-4s %s  [%s]\n", e.Key, e.Year, truncateString(e.Title, ListTitleMaxLen), marks+" "+state)
}

// printEntryDetail prints the full detail view of an entry.
func printEntryDetail(e *bibtex.Entry) {
	fmt.Println(e.Key)
	fmt.Printf("Type:      %s\n", e.Type)
	fmt.Printf("Title:     %s\n", truncateString(e.Title, DetailTitleMaxLen))
	fmt.Printf("Author:    %s\n", e.Author)
	fmt.Printf("Year:      %s\n", e.Year)
	if v := e.Venue(); v != "" {
		fmt.Printf("Venue:     %s\n", v)
	}
	if e.DOI != "" {
		fmt.Printf("DOI:       %s\n", e.DOI)
	}
	if e.URL != "" {
		fmt.Printf("URL:       %s\n", e.URL)
	}
	if e.Keywords != "" {
		fmt.Printf("Keywords:  %s\n", e.Keywords)
	}
	if e.File != "" {
		fmt.Printf("File:      %s\n", e.File)
	}
	if e.Rating > 0 {
		fmt.Printf("Rating:    %d/5\n", e.Rating)
	}
	if e.ReadState != "" {
		fmt.Printf("State:     %s\n", e.ReadState)
	}
	if e.Priority > 0 {
		fmt.Printf("Priority:  %d\n", e.Priority)
	}
	if e.Comment != "" {
		fmt.Printf("Comment:   %s\n", e.Comment)
	}
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
