// Package crossref imports entry metadata from the Crossref REST API by DOI.
package crossref

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/bibman/bibman/internal/bibtex"
)

const (
	// BaseURL is the Crossref REST API base URL.
	BaseURL = "https://api.crossref.org"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 15 * time.Second

	// RateLimit honors Crossref's polite-pool guidance.
	RateLimit = 2.0
)

// Client is a rate-limited HTTP client for the Crossref REST API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	mailto     string
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
		c.baseURL = strings.TrimSuffix(u, "/")
	}
}

// WithMailto identifies the caller to Crossref's polite pool.
func WithMailto(email string) ClientOption {
	return func(c *Client) {
		c.mailto = email
	}
}

// NewClient creates a new Crossref API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type worksResponse struct {
	Message message `json:"message"`
}

type message struct {
	DOI             string     `json:"DOI"`
	Type            string     `json:"type"`
	Title           []string   `json:"title"`
	ContainerTitle  []string   `json:"container-title"`
	Author          []author   `json:"author"`
	PublishedPrint  *dateParts `json:"published-print"`
	PublishedOnline *dateParts `json:"published-online"`
	Issued          *dateParts `json:"issued"`
	Volume          string     `json:"volume"`
	Issue           string     `json:"issue"`
	Page            string     `json:"page"`
	Publisher       string     `json:"publisher"`
	URL             string     `json:"URL"`
}

type author struct {
	Family string `json:"family"`
	Given  string `json:"given"`
	Name   string `json:"name"`
}

type dateParts struct {
	DateParts [][]int `json:"date-parts"`
}

// Lookup fetches the Crossref work record for a DOI and maps it to a
// bibliography entry with a provisional "{FirstAuthorFamily}{Year}" key; the
// caller makes the key unique before adding.
func (c *Client) Lookup(ctx context.Context, doi string) (*bibtex.Entry, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqURL := c.baseURL + "/works/" + url.PathEscape(doi)
	if c.mailto != "" {
		reqURL += "?mailto=" + url.QueryEscape(c.mailto)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "bibman/1.0 (https://github.com/bibman/bibman)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, doi)
	case resp.StatusCode != http.StatusOK:
		return nil, &APIError{StatusCode: resp.StatusCode, DOI: doi}
	}

	var wr worksResponse
	if err := json.NewDecoder(resp.Body).Decode(&wr); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	return mapMessage(doi, wr.Message), nil
}

// crossrefTypes maps Crossref work types onto BibTeX entry types. Anything
// unlisted becomes misc.
var crossrefTypes = map[string]string{
	"journal-article":     "article",
	"proceedings-article": "inproceedings",
	"book":                "book",
	"book-chapter":        "incollection",
	"monograph":           "book",
	"edited-book":         "book",
	"reference-book":      "book",
	"dissertation":        "phdthesis",
	"report":              "techreport",
}

func mapMessage(doi string, m message) *bibtex.Entry {
	entryType, ok := crossrefTypes[m.Type]
	if !ok {
		entryType = "misc"
	}
	e := bibtex.NewEntry("", entryType)
	e.DOI = doi
	if m.DOI != "" {
		e.DOI = m.DOI
	}
	e.URL = m.URL

	if len(m.Title) > 0 {
		e.Title = strings.TrimSpace(m.Title[0])
	}
	if len(m.ContainerTitle) > 0 {
		e.Journal = strings.TrimSpace(m.ContainerTitle[0])
	}

	e.Author = joinAuthors(m.Author)
	e.Year = pickYear(m)

	for k, v := range map[string]string{
		"volume":    m.Volume,
		"number":    m.Issue,
		"pages":     m.Page,
		"publisher": m.Publisher,
	} {
		if v != "" {
			e.RawFields[k] = v
		}
	}

	e.Key = provisionalKey(m.Author, e.Year)
	return e
}

// joinAuthors renders "Family, Given and Family, Given …". Corporate
// authors come back in Name and are used verbatim.
func joinAuthors(authors []author) string {
	parts := make([]string, 0, len(authors))
	for _, a := range authors {
		switch {
		case a.Family != "" && a.Given != "":
			parts = append(parts, a.Family+", "+a.Given)
		case a.Family != "":
			parts = append(parts, a.Family)
		case a.Name != "":
			parts = append(parts, a.Name)
		}
	}
	return strings.Join(parts, " and ")
}

// pickYear prefers the print date, then online, then the issued date.
func pickYear(m message) string {
	for _, dp := range []*dateParts{m.PublishedPrint, m.PublishedOnline, m.Issued} {
		if dp == nil || len(dp.DateParts) == 0 || len(dp.DateParts[0]) == 0 {
			continue
		}
		if y := dp.DateParts[0][0]; y > 0 {
			return strconv.Itoa(y)
		}
	}
	return ""
}

func provisionalKey(authors []author, year string) string {
	family := "Unknown"
	for _, a := range authors {
		if a.Family != "" {
			family = a.Family
			break
		}
		if a.Name != "" {
			family = a.Name
			break
		}
	}
	return strings.ReplaceAll(family, " ", "") + year
}
