// Package main provides the bibman CLI entry point.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

// bibPath overrides the configured library file
var bibPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bibman",
	Short: "BibTeX bibliography manager",
	Long: `bibman manages a personal BibTeX library: search and sort entries,
track ratings and reading state, normalize citation keys, and fetch
open-access PDFs.

The library of record is a plain .bib file. All commands output JSON by
default for easy scripting; pass --human for terminal-friendly output.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	_ = godotenv.Load()
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&bibPath, "bib", "", "BibTeX file to operate on (default: configured library)")
	rootCmd.Version = Version
}
