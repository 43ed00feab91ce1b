package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bibman/bibman/internal/library"
)

func init() {
	rootCmd.AddCommand(removeCmd)
}

var removeCmd = &cobra.Command{
	Use:     "remove <key>",
	Aliases: []string{"rm"},
	Short:   "Remove an entry from the library",
	Long: `Remove an entry by citation key. The linked PDF, if any, is left on
disk.

Example:
  bibman remove Smith2020`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func runRemove(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	lib := mustOpenLibrary(cfg)

	if err := lib.Remove(args[0]); err != nil {
		if errors.Is(err, library.ErrKeyNotFound) {
			exitWithError(ExitNotFound, "%v", err)
		}
		exitWithError(ExitError, "%v", err)
	}
	mustSave(lib)

	if humanOutput {
		fmt.Printf("Removed %s\n", args[0])
		return nil
	}
	return outputJSON(StatusResponse{Status: "removed", Key: args[0]})
}
