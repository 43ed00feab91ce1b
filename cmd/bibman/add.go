package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/bibman/bibman/internal/bibtex"
	"github.com/bibman/bibman/internal/library"
)

func init() {
	rootCmd.AddCommand(addCmd)
}

var addCmd = &cobra.Command{
	Use:   "add [file]",
	Short: "Add BibTeX entries from a file or stdin",
	Long: `Add BibTeX entries to the library. Entries are read from the given
file, or from stdin when no file is given (paste, then Ctrl-D).

Entries whose citation key is already in the library are rejected and
counted; the rest are still added.

Examples:
  bibman add refs.bib
  pbpaste | bibman add`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAdd,
}

// AddResponse reports an import outcome.
type AddResponse struct {
	Added      []string `json:"added"`
	Duplicates []string `json:"duplicates,omitempty"`
}

func runAdd(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	lib := mustOpenLibrary(cfg)

	var data []byte
	var err error
	if len(args) == 1 {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		exitWithError(ExitError, "reading input: %v", err)
	}

	entries, err := bibtex.Parse(string(data))
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	if len(entries) == 0 {
		exitWithError(ExitDataError, "no valid entry found in input")
	}

	var resp AddResponse
	for _, e := range entries {
		if err := lib.Add(e); err != nil {
			if errors.Is(err, library.ErrDuplicateKey) {
				resp.Duplicates = append(resp.Duplicates, e.Key)
				continue
			}
			exitWithError(ExitDataError, "%v", err)
		}
		resp.Added = append(resp.Added, e.Key)
	}
	if len(resp.Added) > 0 {
		mustSave(lib)
	}

	if humanOutput {
		fmt.Printf("Added %d entries", len(resp.Added))
		if len(resp.Duplicates) > 0 {
			fmt.Printf(", rejected %d duplicate keys: %v", len(resp.Duplicates), resp.Duplicates)
		}
		fmt.Println()
		return nil
	}
	return outputJSON(resp)
}
