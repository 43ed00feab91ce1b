package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(setCmd)
}

var setCmd = &cobra.Command{
	Use:   "set <key> <field> <value>",
	Short: "Set a field on an entry",
	Long: `Set a field on an entry. Known fields (title, author, year, journal,
doi, url, keywords, comment, ...) update the typed field; anything else is
kept verbatim as a raw field and survives round-trips.

Examples:
  bibman set Smith2020 journal "Journal of Glaciology"
  bibman set Smith2020 volume 67`,
	Args: cobra.ExactArgs(3),
	RunE: runSet,
}

func runSet(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	lib := mustOpenLibrary(cfg)
	e := mustFindEntry(lib, args[0])

	e.SetField(args[1], args[2])
	mustSave(lib)

	if humanOutput {
		fmt.Printf("%s: %s = %s\n", e.Key, args[1], args[2])
		return nil
	}
	return outputJSON(viewOf(e))
}
