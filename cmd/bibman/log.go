package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bibman/bibman/internal/history"
)

var logLimit int

func init() {
	logCmd.Flags().IntVar(&logLimit, "limit", 20, "Maximum attempts to show")
	rootCmd.AddCommand(logCmd)
}

var logCmd = &cobra.Command{
	Use:   "log [key]",
	Short: "Show recent PDF fetch attempts",
	Long: `Show the fetch log: the most recent attempts across all entries, or
every attempt for one citation key.

Examples:
  bibman log
  bibman log Smith2020`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLog,
}

func runLog(cmd *cobra.Command, args []string) error {
	path := history.DefaultPath()
	if path == "" {
		exitWithError(ExitError, "cannot determine fetch log location")
	}
	log, err := history.Open(path)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	defer log.Close()

	ctx := context.Background()
	var attempts []history.Attempt
	if len(args) == 1 {
		attempts, err = log.ListByKey(ctx, args[0])
	} else {
		attempts, err = log.ListRecent(ctx, logLimit)
	}
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		if len(attempts) == 0 {
			fmt.Println("No fetch attempts logged")
			return nil
		}
		for _, a := range attempts {
			mark := "FAIL"
			detail := a.Reason
			if a.OK {
				mark = "ok"
				detail = a.URL
			}
			fmt.Printf("%s  %-4s %-24s %-10s %s\n",
				a.At.Local().Format("2006-01-02 15:04"), mark, a.Key, a.Strategy, detail)
		}
		return nil
	}
	if attempts == nil {
		attempts = []history.Attempt{}
	}
	return outputJSON(attempts)
}
