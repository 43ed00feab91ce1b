package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bibman/bibman/internal/bibtex"
	"github.com/bibman/bibman/internal/config"
	"github.com/bibman/bibman/internal/fetch"
	"github.com/bibman/bibman/internal/history"
	"github.com/bibman/bibman/internal/library"
	"github.com/bibman/bibman/internal/pdffile"
)

var fetchOverwrite bool

func init() {
	fetchCmd.Flags().BoolVar(&fetchOverwrite, "overwrite", false, "Overwrite an existing target file")
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch <key>",
	Short: "Fetch the PDF for an entry",
	Long: `Fetch the PDF for an entry, trying arXiv, then Unpaywall, then the
entry's own URL. The downloaded file is linked into the entry's file field.

Examples:
  bibman fetch Smith2020
  bibman fetch Smith2020 --overwrite`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	lib := mustOpenLibrary(cfg)
	e := mustFindEntry(lib, args[0])

	f := newFetcher(cfg)
	log := openHistory()
	if log != nil {
		defer log.Close()
	}

	res, err := f.Fetch(context.Background(), e, cfg.DownloadDir, fetchOverwrite)
	if err != nil {
		recordFailure(log, e.Key, err)
		switch {
		case errors.Is(err, fetch.ErrNoDownloadDir):
			exitWithError(ExitConfigError, "%v", err)
		case errors.Is(err, fetch.ErrTargetExists):
			exitWithError(ExitError, "%v", err)
		}
		exitWithError(ExitError, "%v", err)
	}
	if log != nil {
		log.Record(context.Background(), e.Key, res.Strategy, res.Path, true, "")
	}

	e.File = pdffile.FormatJabRef(res.Path, cfg.PDFBaseDir)
	mustSave(lib)

	if humanOutput {
		fmt.Printf("Fetched via %s: %s\n", res.Strategy, res.Path)
		return nil
	}
	return outputJSON(StatusResponse{Status: "fetched", Key: e.Key, Path: res.Path})
}

func newFetcher(cfg *config.Config) *fetch.Fetcher {
	return fetch.NewFetcher(fetch.WithEmail(cfg.UnpaywallEmail))
}

// openHistory opens the fetch log; logging is best-effort and never blocks
// the fetch itself.
func openHistory() *history.Log {
	path := history.DefaultPath()
	if path == "" {
		return nil
	}
	log, err := history.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: fetch log unavailable: %v\n", err)
		return nil
	}
	return log
}

func recordFailure(log *history.Log, key string, err error) {
	if log == nil {
		return
	}
	ctx := context.Background()
	if pe, ok := fetch.IsPipelineError(err); ok {
		for _, a := range pe.Attempts {
			log.Record(ctx, key, a.Strategy, "", false, a.Reason)
		}
		return
	}
	log.Record(ctx, key, "", "", false, err.Error())
}

// autoFetch downloads the PDF for a just-imported entry when auto_fetch is
// on. Failures are reported but never fail the import.
func autoFetch(cfg *config.Config, lib *library.Library, e *bibtex.Entry) {
	f := newFetcher(cfg)
	log := openHistory()
	if log != nil {
		defer log.Close()
	}

	res, err := f.Fetch(context.Background(), e, cfg.DownloadDir, false)
	if err != nil {
		recordFailure(log, e.Key, err)
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		return
	}
	if log != nil {
		log.Record(context.Background(), e.Key, res.Strategy, res.Path, true, "")
	}
	e.File = pdffile.FormatJabRef(res.Path, cfg.PDFBaseDir)
	mustSave(lib)
}
