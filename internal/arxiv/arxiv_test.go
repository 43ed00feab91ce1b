package arxiv

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestExtractID(t *testing.T) {
	tests := []struct {
		name string
		doi  string
		url  string
		want string
	}{
		{"doi", "10.48550/arXiv.2301.00001", "", "2301.00001"},
		{"doi case-insensitive", "10.48550/ARXIV.2301.00001", "", "2301.00001"},
		{"abs url", "", "https://arxiv.org/abs/2301.00001", "2301.00001"},
		{"pdf url", "", "https://arxiv.org/pdf/2301.00001.pdf", "2301.00001"},
		{"versioned url", "", "https://arxiv.org/abs/2301.00001v2", "2301.00001"},
		{"versioned pdf url", "", "https://arxiv.org/pdf/2301.00001v3.pdf", "2301.00001"},
		{"old-style id", "", "https://arxiv.org/abs/math/0211159", "math/0211159"},
		{"doi wins over url", "10.48550/arXiv.1111.1111", "https://arxiv.org/abs/2222.2222", "1111.1111"},
		{"unrelated doi", "10.1000/xyz123", "", ""},
		{"unrelated url", "", "https://example.com/paper.pdf", ""},
		{"empty", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractID(tt.doi, tt.url); got != tt.want {
				t.Errorf("ExtractID(%q, %q) = %q, want %q", tt.doi, tt.url, got, tt.want)
			}
		})
	}
}

func TestPDFURL(t *testing.T) {
	if got := PDFURL("2301.00001"); got != "https://arxiv.org/pdf/2301.00001" {
		t.Errorf("PDFURL = %q", got)
	}
}

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:arxiv="http://arxiv.org/schemas/atom">
  <entry>
    <id>http://arxiv.org/abs/2301.00001v1</id>
    <title>Attention Is
   All You Need</title>
    <published>2017-06-12T17:57:34Z</published>
    <summary>  We propose a new
   network architecture.  </summary>
    <author><name>Ashish Vaswani</name></author>
    <author><name>Noam Shazeer</name></author>
  </entry>
</feed>`

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("id_list"); got != "2301.00001" {
			t.Errorf("id_list = %q", got)
		}
		w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	e, err := c.Fetch(context.Background(), "2301.00001")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if e.Title != "Attention Is All You Need" {
		t.Errorf("title = %q", e.Title)
	}
	if e.Author != "Ashish Vaswani and Noam Shazeer" {
		t.Errorf("author = %q", e.Author)
	}
	if e.Year != "2017" {
		t.Errorf("year = %q", e.Year)
	}
	if e.DOI != "10.48550/arXiv.2301.00001" {
		t.Errorf("doi = %q", e.DOI)
	}
	if e.URL != "https://arxiv.org/abs/2301.00001" {
		t.Errorf("url = %q", e.URL)
	}
	if e.Abstract != "We propose a new network architecture." {
		t.Errorf("abstract = %q", e.Abstract)
	}
	if e.RawFields["eprint"] != "2301.00001" || e.RawFields["archiveprefix"] != "arXiv" {
		t.Errorf("raw fields = %v", e.RawFields)
	}
	if e.Key != "Vaswani2017" {
		t.Errorf("key = %q", e.Key)
	}
	if e.Type != "misc" {
		t.Errorf("type = %q", e.Type)
	}
}

func TestFetchNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<?xml version="1.0"?><feed xmlns="http://www.w3.org/2005/Atom"></feed>`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	if _, err := c.Fetch(context.Background(), "0000.00000"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestFetchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	if _, err := c.Fetch(context.Background(), "2301.00001"); err == nil {
		t.Error("expected error on 503")
	}
}
