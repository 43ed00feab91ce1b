package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/bibman/bibman/internal/bibtex"
)

// oaLocation is one open-access location in an Unpaywall response.
type oaLocation struct {
	URLForPDF      string `json:"url_for_pdf"`
	URLForLanding  string `json:"url_for_landing_page"`
	Version        string `json:"version"`
	HostType       string `json:"host_type"`
	RepositoryName string `json:"repository_institution"`
}

type unpaywallResponse struct {
	DOI            string       `json:"doi"`
	IsOA           bool         `json:"is_oa"`
	BestOALocation *oaLocation  `json:"best_oa_location"`
	OALocations    []oaLocation `json:"oa_locations"`
}

// tryUnpaywall queries the Unpaywall index by DOI and downloads the first
// direct-PDF location that works, best location first. A record that offers
// only landing pages is reported distinctly instead of downloading HTML.
// Returns "" on success, else the reason.
func (f *Fetcher) tryUnpaywall(ctx context.Context, e *bibtex.Entry, target string) string {
	doi := strings.TrimSpace(e.DOI)
	if doi == "" {
		return "entry has no DOI"
	}
	if f.email == "" {
		return "no contact email configured (set unpaywall_email)"
	}

	rec, err := f.unpaywallLookup(ctx, doi)
	if err != nil {
		return err.Error()
	}

	pdfURLs := rec.pdfURLs()
	if len(pdfURLs) == 0 {
		if landing := rec.landingPage(); landing != "" {
			return fmt.Sprintf("only a landing page is available (%s)", landing)
		}
		return "no open-access copy found"
	}

	var lastErr error
	for _, u := range pdfURLs {
		if err := f.download(ctx, u, target); err != nil {
			lastErr = err
			continue
		}
		return ""
	}
	return lastErr.Error()
}

func (f *Fetcher) unpaywallLookup(ctx context.Context, doi string) (*unpaywallResponse, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	lookupURL := fmt.Sprintf("%s/v2/%s?email=%s", f.unpaywallURL, doi, url.QueryEscape(f.email))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent())

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("DOI %s not known to Unpaywall", doi)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Unpaywall API HTTP %s", resp.Status)
	}

	var rec unpaywallResponse
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return nil, fmt.Errorf("decode Unpaywall response: %w", err)
	}
	return &rec, nil
}

// pdfURLs lists every direct-PDF location, best location first, without
// duplicates.
func (r *unpaywallResponse) pdfURLs() []string {
	var urls []string
	seen := make(map[string]bool)
	add := func(u string) {
		if u != "" && !seen[u] {
			seen[u] = true
			urls = append(urls, u)
		}
	}
	if r.BestOALocation != nil {
		add(r.BestOALocation.URLForPDF)
	}
	for _, loc := range r.OALocations {
		add(loc.URLForPDF)
	}
	return urls
}

func (r *unpaywallResponse) landingPage() string {
	if r.BestOALocation != nil && r.BestOALocation.URLForLanding != "" {
		return r.BestOALocation.URLForLanding
	}
	for _, loc := range r.OALocations {
		if loc.URLForLanding != "" {
			return loc.URLForLanding
		}
	}
	return ""
}
