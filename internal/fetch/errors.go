package fetch

import (
	"errors"
	"fmt"
	"strings"
)

// Precondition failures. These are user-actionable instructions, not
// pipeline failures, so they are reported before any strategy runs.
var (
	// ErrNoDownloadDir indicates no destination directory is configured.
	ErrNoDownloadDir = errors.New("download directory is not set, configure it with 'bibman config'")

	// ErrTargetExists indicates the target filename already exists and
	// overwrite was not requested.
	ErrTargetExists = errors.New("target file already exists")
)

// Attempt is one strategy's failure reason.
type Attempt struct {
	Strategy string
	Reason   string
}

// PipelineError aggregates every strategy's failure for one entry. It is
// returned only when all strategies have been tried and none produced a PDF.
type PipelineError struct {
	Key      string
	Attempts []Attempt
}

func (e *PipelineError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "could not fetch PDF for %s:", e.Key)
	for _, a := range e.Attempts {
		fmt.Fprintf(&b, "\n  %s: %s", a.Strategy, a.Reason)
	}
	return b.String()
}

// IsPipelineError reports whether err is an all-strategies-failed error and
// returns it for inspection.
func IsPipelineError(err error) (*PipelineError, bool) {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
