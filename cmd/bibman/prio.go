package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(prioCmd)
}

var prioCmd = &cobra.Command{
	Use:   "prio <key> [value]",
	Short: "Set or cycle an entry's priority",
	Long: `Set an entry's priority (1 = highest, 3 = lowest, 0 = unset), or
cycle to the next priority when no value is given.

Examples:
  bibman prio Smith2020
  bibman prio Smith2020 1`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runPrio,
}

func runPrio(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	lib := mustOpenLibrary(cfg)
	e := mustFindEntry(lib, args[0])

	if len(args) == 1 {
		e.CyclePriority()
	} else {
		value, err := strconv.Atoi(args[1])
		if err != nil || value < 0 || value > 3 {
			exitWithError(ExitError, "priority must be 0-3: %s", args[1])
		}
		e.Priority = value
	}
	mustSave(lib)

	if humanOutput {
		if e.Priority == 0 {
			fmt.Printf("%s: priority unset\n", e.Key)
		} else {
			fmt.Printf("%s: priority %d\n", e.Key, e.Priority)
		}
		return nil
	}
	return outputJSON(viewOf(e))
}
