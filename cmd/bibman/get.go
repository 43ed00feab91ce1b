package main

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(getCmd)
}

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Show a single entry by citation key",
	Long: `Show a single entry by its citation key.

Example:
  bibman get Smith2020`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	lib := mustOpenLibrary(cfg)
	e := mustFindEntry(lib, args[0])

	if humanOutput {
		printEntryDetail(e)
		return nil
	}
	return outputJSON(viewOf(e))
}
