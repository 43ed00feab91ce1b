package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bibman/bibman/internal/bibtex"
	"github.com/bibman/bibman/internal/query"
)

var (
	listSort    string
	listReverse bool
	listLimit   int
)

func init() {
	listCmd.Flags().StringVar(&listSort, "sort", "", "Sort column (state, priority, file, url, type, year, author, journal, title, rating)")
	listCmd.Flags().BoolVar(&listReverse, "reverse", false, "Reverse the sort order")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "Maximum results to return (0 = all)")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all entries",
	Long: `List all entries in the library.

Examples:
  bibman list
  bibman list --sort year --reverse
  bibman list --limit 20`,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	lib := mustOpenLibrary(cfg)

	entries := lib.Entries
	sortEntries(entries, listSort, listReverse)
	if listLimit > 0 && listLimit < len(entries) {
		entries = entries[:listLimit]
	}

	if humanOutput {
		if len(entries) == 0 {
			fmt.Println("Library is empty")
			return nil
		}
		fmt.Printf("%d entries:\n\n", len(entries))
		for _, e := range entries {
			printEntryLine(e)
		}
		return nil
	}
	return outputJSON(viewsOf(entries))
}

// sortEntries applies an optional --sort/--reverse selection, exiting on an
// unknown column name.
func sortEntries(entries []*bibtex.Entry, sortCol string, reverse bool) {
	if sortCol == "" {
		return
	}
	col, ok := query.ParseColumn(sortCol)
	if !ok {
		exitWithError(ExitError, "unknown sort column: %s (valid: %v)", sortCol, query.Columns)
	}
	query.Sort(entries, query.SortState{Column: col, Reverse: reverse})
}
