package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bibman/bibman/internal/citekey"
	"github.com/bibman/bibman/internal/crossref"
	"github.com/bibman/bibman/internal/pdffile"
)

func init() {
	rootCmd.AddCommand(doiCmd)
}

var doiCmd = &cobra.Command{
	Use:   "doi <doi>",
	Short: "Import an entry by DOI via Crossref",
	Long: `Look up a DOI on Crossref and add the resulting entry. The citation
key is derived from the first author and year and disambiguated against the
library. With auto_fetch enabled, the PDF is fetched right away.

Examples:
  bibman doi 10.1000/glacier.2021
  bibman doi https://doi.org/10.1000/glacier.2021`,
	Args: cobra.ExactArgs(1),
	RunE: runDOI,
}

func runDOI(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	lib := mustOpenLibrary(cfg)

	doi := pdffile.NormalizeDOI(args[0])
	if !strings.HasPrefix(doi, "10.") {
		exitWithError(ExitError, "not a DOI: %s", args[0])
	}

	client := crossref.NewClient(crossref.WithMailto(cfg.UnpaywallEmail))
	e, err := client.Lookup(context.Background(), doi)
	if err != nil {
		if crossref.IsNotFound(err) {
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
