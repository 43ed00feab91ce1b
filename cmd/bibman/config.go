package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bibman/bibman/internal/config"
)

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change bibman settings",
	Long: `Show or change settings stored in ` + "`$XDG_CONFIG_HOME/bibman/config.yml`" + `.

Keys: library, pdf_base_dir, download_dir, unpaywall_email, pdf_reader,
auto_fetch.`,
}

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the current configuration",
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value.

Examples:
  bibman config set library ~/refs/library.bib
  bibman config set pdf_base_dir ~/refs/pdfs
  bibman config set pdf_reader zathura
  bibman config set auto_fetch true`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

// UpdateResponse is the response for config set.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	if humanOutput {
		fmt.Printf("library:         %s\n", cfg.Library)
		fmt.Printf("pdf_base_dir:    %s\n", cfg.PDFBaseDir)
		fmt.Printf("download_dir:    %s\n", cfg.DownloadDir)
		fmt.Printf("unpaywall_email: %s\n", cfg.UnpaywallEmail)
		fmt.Printf("pdf_reader:      %s\n", cfg.PDFReader)
		fmt.Printf("auto_fetch:      %t\n", cfg.AutoFetch)
		fmt.Printf("\nconfig file:     %s\n", config.Path())
		return nil
	}
	return outputJSON(cfg)
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	key, value := args[0], args[1]

	switch key {
	case "library":
		cfg.Library = value
	case "pdf_base_dir":
		if err := config.ValidateDir(value); err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
		cfg.PDFBaseDir = value
	case "download_dir":
		if err := config.ValidateDir(value); err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
		cfg.DownloadDir = value
	case "unpaywall_email":
		cfg.UnpaywallEmail = value
	case "pdf_reader":
		if err := config.ValidateReader(value); err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
		cfg.PDFReader = value
	case "auto_fetch":
		switch value {
		case "true", "yes", "on":
			cfg.AutoFetch = true
		case "false", "no", "off":
			cfg.AutoFetch = false
		default:
			exitWithError(ExitConfigError, "auto_fetch must be true or false: %s", value)
		}
	default:
		exitWithError(ExitConfigError, "unknown config key: %s", key)
	}

	if err := cfg.Save(); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		fmt.Printf("%s = %s\n", key, value)
		return nil
	}
	return outputJSON(UpdateResponse{Status: "updated", Key: key, Value: value})
}
