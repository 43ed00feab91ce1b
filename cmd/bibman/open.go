package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bibman/bibman/internal/pdffile"
)

func init() {
	rootCmd.AddCommand(openCmd)
}

var openCmd = &cobra.Command{
	Use:   "open <key>",
	Short: "Open an entry's PDF in the configured reader",
	Long: `Resolve an entry's PDF and open it with the configured pdf_reader
(system default when unset).

Example:
  bibman open Smith2020`,
	Args: cobra.ExactArgs(1),
	RunE: runOpen,
}

func runOpen(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	lib := mustOpenLibrary(cfg)
	e := mustFindEntry(lib, args[0])

	baseDir, err := cfg.RequirePDFBaseDir()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	path := pdffile.Resolve(e.File, e.Key, baseDir)
	if path == "" {
		exitWithError(ExitNotFound, "no PDF found for %s", e.Key)
	}

	opener := pdffile.NewOpener(cfg.PDFReader)
	if err := opener.Open(path); err != nil {
		exitWithError(ExitError, "opening %s: %v", path, err)
	}

	if humanOutput {
		fmt.Printf("Opened %s\n", path)
		return nil
	}
	return outputJSON(StatusResponse{Status: "opened", Key: e.Key, Path: path})
}
