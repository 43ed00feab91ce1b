package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bibman/bibman/internal/pdffile"
)

var addpdfKeep bool

func init() {
	addpdfCmd.Flags().BoolVar(&addpdfKeep, "keep", false, "Copy nothing; link the PDF where it is")
	rootCmd.AddCommand(addpdfCmd)
}

var addpdfCmd = &cobra.Command{
	Use:   "addpdf <key> <path>",
	Short: "Link an existing PDF to an entry",
	Long: `Move a PDF into the base directory under the canonical
"{key} - {title}.pdf" name and link it to the entry. With --keep the file
stays where it is and is linked in place. A DOI found in the PDF's first
pages backfills an entry without one.

Examples:
  bibman addpdf Smith2020 ~/Downloads/paper.pdf
  bibman addpdf Smith2020 /archive/paper.pdf --keep`,
	Args: cobra.ExactArgs(2),
	RunE: runAddPDF,
}

func runAddPDF(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	lib := mustOpenLibrary(cfg)
	e := mustFindEntry(lib, args[0])

	src := args[1]
	if _, err := os.Stat(src); err != nil {
		exitWithError(ExitError, "cannot read PDF: %v", err)
	}

	path := src
	if !addpdfKeep {
		baseDir, err := cfg.RequirePDFBaseDir()
		if err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
		path = filepath.Join(baseDir, pdffile.Filename(e.Key, e.Title))
		if path != src {
			if _, err := os.Stat(path); err == nil {
				exitWithError(ExitError, "target already exists: %s", path)
			}
			if err := os.Rename(src, path); err != nil {
				exitWithError(ExitError, "moving PDF: %v", err)
			}
		}
	}

	e.File = pdffile.FormatJabRef(path, cfg.PDFBaseDir)

	// Backfill a missing DOI from the PDF text when one is found.
	if e.DOI == "" {
		if doi, err := pdffile.ExtractDOI(path); err == nil && doi != "" {
			e.DOI = doi
		}
	}

	mustSave(lib)

	if humanOutput {
		fmt.Printf("Linked %s -> %s\n", e.Key, path)
		if e.DOI != "" {
			fmt.Printf("DOI: %s\n", e.DOI)
		}
		return nil
	}
	return outputJSON(StatusResponse{Status: "linked", Key: e.Key, Path: path})
}
