package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bibman/bibman/internal/pdffile"
)

func init() {
	rootCmd.AddCommand(resolveCmd)
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <key>",
	Short: "Resolve an entry's PDF on disk",
	Long: `Print the on-disk path of an entry's PDF. The stored file reference
wins when it exists; otherwise the base directory is searched for
"{key}*.pdf".

Example:
  bibman resolve Smith2020`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	lib := mustOpenLibrary(cfg)
	e := mustFindEntry(lib, args[0])

	baseDir, err := cfg.RequirePDFBaseDir()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	path := pdffile.Resolve(e.File, e.Key, baseDir)
	if path == "" {
		exitWithError(ExitNotFound, "no PDF found for %s", e.Key)
	}

	if humanOutput {
		fmt.Println(path)
		return nil
	}
	return outputJSON(StatusResponse{Status: "found", Key: e.Key, Path: path})
}
