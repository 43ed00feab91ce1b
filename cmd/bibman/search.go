package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bibman/bibman/internal/query"
)

var (
	searchSort    string
	searchReverse bool
)

func init() {
	searchCmd.Flags().StringVar(&searchSort, "sort", "", "Sort column (state, priority, file, url, type, year, author, journal, title, rating)")
	searchCmd.Flags().BoolVar(&searchReverse, "reverse", false, "Reverse the sort order")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search entries",
	Long: `Search entries with field-prefixed filters and free-text terms,
combined with AND.

Field prefixes: a:/author:, t:/title:, k:/kw:/keyword:/keywords:,
y:/year: (exact or min-max range), u:/url:. Unprefixed terms match
title, author, keywords, and the citation key.

Examples:
  bibman search glacier
  bibman search "a:smith y:2015-2023"
  bibman search "t:ice k:climate" --sort year --reverse`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	lib := mustOpenLibrary(cfg)

	q := query.Parse(strings.Join(args, " "))
	matched := query.Apply(lib.Entries, q)
	sortEntries(matched, searchSort, searchReverse)

	if humanOutput {
		if len(matched) == 0 {
			fmt.Println("No matches")
			return nil
		}
		fmt.Printf("%d of %d entries match:\n\n", len(matched), len(lib.Entries))
		for _, e := range matched {
			printEntryLine(e)
		}
		return nil
	}
	return outputJSON(viewsOf(matched))
}
