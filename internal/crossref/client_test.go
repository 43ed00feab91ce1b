package crossref

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const sampleWork = `{
  "status": "ok",
  "message": {
    "DOI": "10.1000/glacier.2021",
    "type": "journal-article",
    "title": ["Ice Sheet Dynamics in a Warming Climate"],
    "container-title": ["Journal of Glaciology"],
    "author": [
      {"family": "Jones", "given": "Alice"},
      {"family": "Smith", "given": "Bob"}
    ],
    "published-print": {"date-parts": [[2021, 6]]},
    "issued": {"date-parts": [[2020, 12, 1]]},
    "volume": "67",
    "issue": "3",
    "page": "401-420",
    "publisher": "Cambridge University Press",
    "URL": "https://doi.org/10.1000/glacier.2021"
  }
}`

func TestLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/works/10.1000%2Fglacier.2021" && r.URL.Path != "/works/10.1000/glacier.2021" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleWork))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	e, err := c.Lookup(context.Background(), "10.1000/glacier.2021")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}

	if e.Type != "article" {
		t.Errorf("type = %q, want article", e.Type)
	}
	if e.Title != "Ice Sheet Dynamics in a Warming Climate" {
		t.Errorf("title = %q", e.Title)
	}
	if e.Author != "Jones, Alice and Smith, Bob" {
		t.Errorf("author = %q", e.Author)
	}
	if e.Year != "2021" {
		t.Errorf("year = %q, want print year", e.Year)
	}
	if e.Journal != "Journal of Glaciology" {
		t.Errorf("journal = %q", e.Journal)
	}
	if e.DOI != "10.1000/glacier.2021" {
		t.Errorf("doi = %q", e.DOI)
	}
	if e.Key != "Jones2021" {
		t.Errorf("key = %q, want Jones2021", e.Key)
	}

	rawWant := map[string]string{
		"volume":    "67",
		"number":    "3",
		"pages":     "401-420",
		"publisher": "Cambridge University Press",
	}
	for k, v := range rawWant {
		if got := e.RawFields[k]; got != v {
			t.Errorf("raw %s = %q, want %q", k, got, v)
		}
	}
}

func TestLookupYearFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message": {
			"type": "posted-content",
			"title": ["A Preprint"],
			"author": [{"family": "Doe", "given": "Jan"}],
			"issued": {"date-parts": [[2019]]}
		}}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	e, err := c.Lookup(context.Background(), "10.1000/preprint")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if e.Year != "2019" {
		t.Errorf("year = %q, want issued fallback 2019", e.Year)
	}
	if e.Type != "misc" {
		t.Errorf("type = %q, want misc for unknown work type", e.Type)
	}
	if e.Key != "Doe2019" {
		t.Errorf("key = %q", e.Key)
	}
}

func TestLookupNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Resource not found.", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.Lookup(context.Background(), "10.1000/nope")
	if !IsNotFound(err) {
		t.Errorf("err = %v, want not-found", err)
	}
}

func TestLookupServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.Lookup(context.Background(), "10.1000/boom")
	if err == nil {
		t.Fatal("expected error")
	}
	if IsNotFound(err) {
		t.Error("500 reported as not-found")
	}
}

func TestLookupCorporateAuthor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message": {
			"type": "report",
			"title": ["Annual Climate Report"],
			"author": [{"name": "World Meteorological Organization"}],
			"issued": {"date-parts": [[2022]]}
		}}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	e, err := c.Lookup(context.Background(), "10.1000/report")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if e.Author != "World Meteorological Organization" {
		t.Errorf("author = %q", e.Author)
	}
	if e.Type != "techreport" {
		t.Errorf("type = %q", e.Type)
	}
	if e.Key != "WorldMeteorologicalOrganization2022" {
		t.Errorf("key = %q", e.Key)
	}
}
