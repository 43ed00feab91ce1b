package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(keywordsCmd)
}

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "List keywords with usage counts",
	Long: `List every keyword used in the library with the number of entries
carrying it, most frequent first.`,
	RunE: runKeywords,
}

type keywordView struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

func runKeywords(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	lib := mustOpenLibrary(cfg)

	counts := lib.KeywordCounts()

	if humanOutput {
		if len(counts) == 0 {
			fmt.Println("No keywords in library")
			return nil
		}
		for _, kc := range counts {
			fmt.Printf("%4d  %s\n", kc.Count, kc.Keyword)
		}
		return nil
	}

	views := make([]keywordView, len(counts))
	for i, kc := range counts {
		views[i] = keywordView{Keyword: kc.Keyword, Count: kc.Count}
	}
	return outputJSON(views)
}
