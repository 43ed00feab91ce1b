package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/bibman/bibman/internal/fetch"
)

var fetchMissingIncludeBroken bool

func init() {
	fetchMissingCmd.Flags().BoolVar(&fetchMissingIncludeBroken, "include-broken", false,
		"Also fetch for entries whose stored file reference no longer resolves")
	rootCmd.AddCommand(fetchMissingCmd)
}

var fetchMissingCmd = &cobra.Command{
	Use:   "fetch-missing",
	Short: "Fetch PDFs for every entry without one",
	Long: `Fetch PDFs for every entry that has no resolvable PDF, sequentially.
Interrupting with Ctrl-C finishes the entry in flight, then stops.

Examples:
  bibman fetch-missing
  bibman fetch-missing --include-broken`,
	RunE: runFetchMissing,
}

func runFetchMissing(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	lib := mustOpenLibrary(cfg)

	baseDir, err := cfg.RequirePDFBaseDir()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	f := newFetcher(cfg)
	log := openHistory()
	if log != nil {
		defer log.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res := f.Batch(ctx, lib.Entries, fetch.BatchOptions{
		DestDir:       cfg.DownloadDir,
		BaseDir:       baseDir,
		IncludeBroken: fetchMissingIncludeBroken,
	}, log)

	if res.Fetched > 0 {
		mustSave(lib)
	}

	if humanOutput {
		fmt.Printf("%d candidates, %d fetched, %d failed\n", res.Candidates, res.Fetched, res.Failed)
		if res.Stopped {
			fmt.Println("interrupted: stopped after the entry in flight")
		}
		return nil
	}
	return outputJSON(res)
}
