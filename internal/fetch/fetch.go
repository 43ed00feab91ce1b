// Package fetch downloads PDFs for bibliography entries by trying a fixed
// sequence of strategies: arXiv, then the Unpaywall open-access index, then
// the entry's own URL. The first strategy that produces a real PDF wins;
// when all fail, the reasons are aggregated into one error.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/bibman/bibman/internal/arxiv"
	"github.com/bibman/bibman/internal/bibtex"
	"github.com/bibman/bibman/internal/pdffile"
)

const (
	// DefaultTimeout bounds a single download request.
	DefaultTimeout = 30 * time.Second

	// RateLimit keeps the pipeline polite toward the upstream services.
	RateLimit = 1.0

	userAgent = "bibman/1.0 (mailto:%s)"
)

// Strategy names used in attempt reasons and the fetch log.
const (
	StrategyArxiv     = "arXiv"
	StrategyUnpaywall = "Unpaywall"
	StrategyDirect    = "direct URL"
)

// Fetcher runs the PDF fetch pipeline.
type Fetcher struct {
	httpClient   *http.Client
	limiter      *rate.Limiter
	email        string
	arxivBaseURL string
	unpaywallURL string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(f *Fetcher) {
		f.httpClient = hc
	}
}

// WithRateLimit overrides the politeness limiter's requests per second.
func WithRateLimit(rps float64) Option {
	return func(f *Fetcher) {
		f.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithEmail sets the contact email required by the Unpaywall API.
func WithEmail(email string) Option {
	return func(f *Fetcher) {
		f.email = email
	}
}

// WithArxivBaseURL overrides the arXiv PDF host (for testing).
func WithArxivBaseURL(u string) Option {
	return func(f *Fetcher) {
		f.arxivBaseURL = strings.TrimSuffix(u, "/")
	}
}

// WithUnpaywallBaseURL overrides the Unpaywall API host (for testing).
func WithUnpaywallBaseURL(u string) Option {
	return func(f *Fetcher) {
		f.unpaywallURL = strings.TrimSuffix(u, "/")
	}
}

// NewFetcher creates a pipeline with default hosts and a politeness limiter.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		httpClient:   &http.Client{Timeout: DefaultTimeout},
		limiter:      rate.NewLimiter(rate.Limit(RateLimit), 1),
		arxivBaseURL: "https://arxiv.org/pdf",
		unpaywallURL: "https://api.unpaywall.org",
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Result reports a successful fetch.
type Result struct {
	Path     string
	Strategy string
}

// Fetch tries each strategy in order and saves the first PDF that downloads
// to destDir under the canonical "{key} - {title}.pdf" name. When overwrite
// is false an existing target fails immediately. All-strategy failure
// returns a *PipelineError listing one reason per strategy.
func (f *Fetcher) Fetch(ctx context.Context, e *bibtex.Entry, destDir string, overwrite bool) (Result, error) {
	if strings.TrimSpace(destDir) == "" {
		return Result{}, ErrNoDownloadDir
	}
	target := filepath.Join(destDir, pdffile.Filename(e.Key, e.Title))
	if !overwrite {
		if _, err := os.Stat(target); err == nil {
			return Result{}, fmt.Errorf("%w: %s", ErrTargetExists, target)
		}
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create download directory: %w", err)
	}

	perr := &PipelineError{Key: e.Key}

	if reason := f.tryArxiv(ctx, e, target); reason == "" {
		return Result{Path: target, Strategy: StrategyArxiv}, nil
	} else {
		perr.Attempts = append(perr.Attempts, Attempt{StrategyArxiv, reason})
	}

	if reason := f.tryUnpaywall(ctx, e, target); reason == "" {
		return Result{Path: target, Strategy: StrategyUnpaywall}, nil
	} else {
		perr.Attempts = append(perr.Attempts, Attempt{StrategyUnpaywall, reason})
	}

	if reason := f.tryDirect(ctx, e, target); reason == "" {
		return Result{Path: target, Strategy: StrategyDirect}, nil
	} else {
		perr.Attempts = append(perr.Attempts, Attempt{StrategyDirect, reason})
	}

	return Result{}, perr
}

// tryArxiv downloads from the arXiv PDF host when the entry's DOI or URL
// carries an arXiv identifier. Returns "" on success, else the reason.
func (f *Fetcher) tryArxiv(ctx context.Context, e *bibtex.Entry, target string) string {
	id := arxiv.ExtractID(e.DOI, e.URL)
	if id == "" {
		return "no arXiv identifier in DOI or URL"
	}
	if err := f.download(ctx, f.arxivBaseURL+"/"+id, target); err != nil {
		return err.Error()
	}
	return ""
}

// tryDirect downloads the entry's own URL after a HEAD check confirms the
// server declares a PDF content type.
func (f *Fetcher) tryDirect(ctx context.Context, e *bibtex.Entry, target string) string {
	raw := strings.TrimSpace(e.URL)
	if raw == "" {
		return "entry has no URL"
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Sprintf("URL is not http(s): %s", raw)
	}

	ct, err := f.head(ctx, raw)
	if err != nil {
		return err.Error()
	}
	if !isPDFType(ct) {
		return fmt.Sprintf("URL does not serve a PDF (content type %q)", ct)
	}

	if err := f.download(ctx, raw, target); err != nil {
		return err.Error()
	}
	return ""
}

func (f *Fetcher) head(ctx context.Context, rawURL string) (string, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", f.userAgent())

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %s", resp.Status)
	}
	return resp.Header.Get("Content-Type"), nil
}

// download GETs srcURL into target, accepting only responses whose declared
// content type contains "pdf". The file is written via a temp name so a
// failed download never leaves a partial target behind.
func (f *Fetcher) download(ctx context.Context, srcURL, target string) error {
	if err := f.limiter.Wait(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srcURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", f.userAgent())

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %s from %s", resp.Status, srcURL)
	}
	ct := resp.Header.Get("Content-Type")
	if !isPDFType(ct) {
		return fmt.Errorf("response is not a PDF (content type %q)", ct)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".bibman-*.pdf")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), target)
}

func (f *Fetcher) userAgent() string {
	email := f.email
	if email == "" {
		email = "unknown@localhost"
	}
	return fmt.Sprintf(userAgent, email)
}

func isPDFType(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "pdf")
}
