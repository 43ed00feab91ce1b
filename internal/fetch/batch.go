package fetch

import (
	"context"

	"github.com/bibman/bibman/internal/bibtex"
	"github.com/bibman/bibman/internal/pdffile"
)

// AttemptLog receives per-entry fetch outcomes. internal/history implements
// it; tests pass nil to skip logging.
type AttemptLog interface {
	Record(ctx context.Context, key, strategy, url string, ok bool, reason string) error
}

// BatchOptions configures a fetch-missing run.
type BatchOptions struct {
	// DestDir is where downloaded PDFs are saved.
	DestDir string
	// BaseDir is the PDF base directory used to decide whether an entry
	// already has a resolvable PDF and to store the new file reference.
	BaseDir string
	// IncludeBroken also fetches for entries whose stored file reference
	// no longer resolves to a file on disk.
	IncludeBroken bool
}

// BatchResult summarizes a fetch-missing run.
type BatchResult struct {
	Candidates int `json:"candidates"`
	Fetched    int `json:"fetched"`
	Failed     int `json:"failed"`
	// Stopped is set when the run was cancelled before all candidates
	// were processed. The entry in flight at cancellation still finished.
	Stopped bool `json:"stopped,omitempty"`
}

// Batch fetches PDFs for every entry that has none, sequentially and in
// order. Cancelling ctx stops the run after the current entry completes;
// the in-flight download is never cut off. Successful fetches update the
// entry's file reference, and every outcome is recorded to log when one is
// provided.
func (f *Fetcher) Batch(ctx context.Context, entries []*bibtex.Entry, opts BatchOptions, log AttemptLog) BatchResult {
	var res BatchResult

	candidates := make([]*bibtex.Entry, 0, len(entries))
	for _, e := range entries {
		if f.needsPDF(e, opts) {
			candidates = append(candidates, e)
		}
	}
	res.Candidates = len(candidates)

	// Each entry runs on a detached context so cancellation is honored
	// between entries but never kills a download mid-flight.
	inner := context.WithoutCancel(ctx)

	for _, e := range candidates {
		if ctx.Err() != nil {
			res.Stopped = true
			break
		}

		r, err := f.Fetch(inner, e, opts.DestDir, false)
		if err != nil {
			res.Failed++
			f.logFailure(inner, log, e.Key, err)
			continue
		}

		e.File = pdffile.FormatJabRef(r.Path, opts.BaseDir)
		res.Fetched++
		if log != nil {
			log.Record(inner, e.Key, r.Strategy, r.Path, true, "")
		}
	}

	return res
}

func (f *Fetcher) needsPDF(e *bibtex.Entry, opts BatchOptions) bool {
	if pdffile.Resolve(e.File, e.Key, opts.BaseDir) != "" {
		return false
	}
	if e.File != "" && !opts.IncludeBroken {
		return false
	}
	return true
}

func (f *Fetcher) logFailure(ctx context.Context, log AttemptLog, key string, err error) {
	if log == nil {
		return
	}
	if pe, ok := IsPipelineError(err); ok {
		for _, a := range pe.Attempts {
			log.Record(ctx, key, a.Strategy, "", false, a.Reason)
		}
		return
	}
	log.Record(ctx, key, "", "", false, err.Error())
}
