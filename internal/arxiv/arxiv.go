// Package arxiv extracts arXiv identifiers from entry metadata and imports
// entry metadata from the arXiv Atom API.
package arxiv

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/bibman/bibman/internal/bibtex"
)

const (
	// BaseURL is the arXiv Atom API endpoint.
	BaseURL = "https://export.arxiv.org/api/query"

	// DefaultTimeout bounds a single metadata lookup.
	DefaultTimeout = 15 * time.Second

	userAgent = "bibman/1.0 (https://github.com/bibman/bibman)"
)

// ErrNotFound indicates the API returned no entry for the requested ID.
var ErrNotFound = errors.New("arXiv ID not found")

var (
	doiIDRe = regexp.MustCompile(`^10\.48550/[aA]r[xX]iv\.(.+)$`)
	urlIDRe = regexp.MustCompile(`(?i)arxiv\.org/(?:abs|pdf)/(.+?)(?:v\d+)?(?:\.pdf)?$`)
)

// ExtractID pulls an arXiv identifier out of a DOI of the form
// 10.48550/arXiv.<id> or an arxiv.org /abs or /pdf URL, with any version
// suffix stripped. Returns "" when neither carries one.
func ExtractID(doi, entryURL string) string {
	if m := doiIDRe.FindStringSubmatch(strings.TrimSpace(doi)); m != nil {
		return m[1]
	}
	if m := urlIDRe.FindStringSubmatch(strings.TrimSpace(entryURL)); m != nil {
		return m[1]
	}
	return ""
}

// PDFURL is the download location for an arXiv identifier.
func PDFURL(id string) string {
	return "https://arxiv.org/pdf/" + id
}

// Client looks up paper metadata on the arXiv Atom API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = u
	}
}

// NewClient creates an arXiv API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    BaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type feed struct {
	Entries []feedEntry `xml:"entry"`
}

type feedEntry struct {
	ID        string       `xml:"id"`
	Title     string       `xml:"title"`
	Published string       `xml:"published"`
	Authors   []feedAuthor `xml:"author"`
	Summary   string       `xml:"summary"`
	DOI       string       `xml:"doi"`
}

type feedAuthor struct {
	Name string `xml:"name"`
}

// Fetch retrieves metadata for an arXiv ID and maps it onto a bibliography
// entry with a provisional key; the caller is responsible for making the
// key unique before adding the entry.
func (c *Client) Fetch(ctx context.Context, id string) (*bibtex.Entry, error) {
	queryURL := c.baseURL + "?id_list=" + url.QueryEscape(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, queryURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arXiv request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API status %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read arXiv response: %w", err)
	}

	var f feed
	if err := xml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode arXiv response: %w", err)
	}
	// The API answers unknown IDs with an empty feed or an entry whose ID
	// link carries no identifier.
	if len(f.Entries) == 0 || strings.TrimSpace(f.Entries[0].Title) == "" {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return mapEntry(id, f.Entries[0]), nil
}

func mapEntry(id string, fe feedEntry) *bibtex.Entry {
	e := bibtex.NewEntry("", "misc")
	e.Title = collapseWhitespace(fe.Title)
	e.Abstract = collapseWhitespace(fe.Summary)
	e.URL = "https://arxiv.org/abs/" + id
	e.DOI = strings.TrimSpace(fe.DOI)
	if e.DOI == "" {
		e.DOI = "10.48550/arXiv." + id
	}

	names := make([]string, 0, len(fe.Authors))
	for _, a := range fe.Authors {
		if n := strings.TrimSpace(a.Name); n != "" {
			names = append(names, n)
		}
	}
	e.Author = strings.Join(names, " and ")

	if t, err := time.Parse(time.RFC3339, fe.Published); err == nil {
		e.Year = strconv.Itoa(t.Year())
	}

	e.RawFields["eprint"] = id
	e.RawFields["archiveprefix"] = "arXiv"

	e.Key = provisionalKey(names, e.Year)
	return e
}

// provisionalKey is "{surname}{year}" from the first author's last name.
// arXiv reports names "First Last", so the last word is the surname.
func provisionalKey(names []string, year string) string {
	surname := "Unknown"
	if len(names) > 0 {
		words := strings.Fields(names[0])
		if len(words) > 0 {
			surname = words[len(words)-1]
		}
	}
	return strings.ReplaceAll(surname, " ", "") + year
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
