package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bibman/bibman/internal/bibtex"
)

func init() {
	rootCmd.AddCommand(stateCmd)
}

var stateCmd = &cobra.Command{
	Use:   "state <key> [value]",
	Short: "Set or cycle an entry's read state",
	Long: `Set an entry's read state, or cycle to the next state when no value
is given. The cycle is: (unset) -> to-read -> skimmed -> read -> (unset).

Examples:
  bibman state Smith2020
  bibman state Smith2020 read`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runState,
}

func runState(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	lib := mustOpenLibrary(cfg)
	e := mustFindEntry(lib, args[0])

	if len(args) == 1 {
		e.CycleReadState()
	} else {
		value := args[1]
		if value == "unset" || value == "none" {
			value = ""
		}
		if !validReadState(value) {
			exitWithError(ExitError, "invalid read state: %s (valid: to-read, skimmed, read, unset)", args[1])
		}
		e.ReadState = value
	}
	mustSave(lib)

	if humanOutput {
		state := e.ReadState
		if state == "" {
			state = "(unset)"
		}
		fmt.Printf("%s: %s\n", e.Key, state)
		return nil
	}
	return outputJSON(viewOf(e))
}

func validReadState(value string) bool {
	for _, s := range bibtex.ReadStates {
		if value == s {
			return true
		}
	}
	return false
}
