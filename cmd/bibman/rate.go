package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bibman/bibman/internal/bibtex"
)

func init() {
	rootCmd.AddCommand(rateCmd)
}

var rateCmd = &cobra.Command{
	Use:   "rate <key> <rating>",
	Short: "Rate an entry from 0 to 5",
	Long: `Rate an entry. Ratings are clamped into [0, 5]; 0 clears the rating.

Example:
  bibman rate Smith2020 4`,
	Args: cobra.ExactArgs(2),
	RunE: runRate,
}

func runRate(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	lib := mustOpenLibrary(cfg)
	e := mustFindEntry(lib, args[0])

	value, err := strconv.Atoi(args[1])
	if err != nil {
		exitWithError(ExitError, "rating must be a number 0-%d: %s", bibtex.MaxRating, args[1])
	}
	e.SetRating(value)
	mustSave(lib)

	if humanOutput {
		fmt.Printf("%s: rating %d/%d\n", e.Key, e.Rating, bibtex.MaxRating)
		return nil
	}
	return outputJSON(viewOf(e))
}
