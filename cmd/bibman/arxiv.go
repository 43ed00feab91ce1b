package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bibman/bibman/internal/arxiv"
	"github.com/bibman/bibman/internal/citekey"
)

func init() {
	rootCmd.AddCommand(arxivCmd)
}

var arxivCmd = &cobra.Command{
	Use:   "arxiv <id>",
	Short: "Import an entry by arXiv ID",
	Long: `Look up an arXiv ID (or abs/pdf URL) on the arXiv API and add the
resulting entry. With auto_fetch enabled, the PDF is fetched right away.

Examples:
  bibman arxiv 2301.00001
  bibman arxiv https://arxiv.org/abs/2301.00001v2`,
	Args: cobra.ExactArgs(1),
	RunE: runArxiv,
}

func runArxiv(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	lib := mustOpenLibrary(cfg)

	id := args[0]
	if extracted := arxiv.ExtractID(id, id); extracted != "" {
		id = extracted
	}

	client := arxiv.NewClient()
	e, err := client.Fetch(context.Background(), id)
	if err != nil {
		if errors.Is(err, arxiv.ErrNotFound) {
			exitWithError(ExitNotFound, "%v", err)
		}
		exitWithError(ExitError, "%v", err)
	}

	e.Key = citekey.MakeUnique(citekey.DeriveBase(e.Author, e.Year), lib.UsedKeys())
	if err := lib.Add(e); err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	mustSave(lib)

	if cfg.AutoFetch {
		autoFetch(cfg, lib, e)
	}

	if humanOutput {
		fmt.Printf("Added %s\n", e.Key)
		printEntryDetail(e)
		return nil
	}
	return outputJSON(viewOf(e))
}
