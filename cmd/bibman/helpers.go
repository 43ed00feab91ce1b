package main

import (
	"errors"

	"github.com/bibman/bibman/internal/bibtex"
	"github.com/bibman/bibman/internal/config"
	"github.com/bibman/bibman/internal/library"
)

// mustLoadConfig loads the global config, exiting on failure.
func mustLoadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	return cfg
}

// libraryPath resolves the BibTeX file to operate on: the --bib flag wins,
// then the configured library.
func libraryPath(cfg *config.Config) string {
	if bibPath != "" {
		return bibPath
	}
	path, err := cfg.RequireLibrary()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	return path
}

// mustOpenLibrary loads the library, exiting on failure.
func mustOpenLibrary(cfg *config.Config) *library.Library {
	lib, err := library.Load(libraryPath(cfg))
	if err != nil {
		var perr *bibtex.ParseError
		if errors.As(err, &perr) {
			exitWithError(ExitDataError, "%v", err)
		}
		exitWithError(ExitError, "%v", err)
	}
	return lib
}

// mustSave writes the library back, exiting on failure.
func mustSave(lib *library.Library) {
	if err := lib.Save(); err != nil {
		exitWithError(ExitError, "saving library: %v", err)
	}
}

// mustFindEntry looks up a key, exiting with ExitNotFound when absent.
func mustFindEntry(lib *library.Library, key string) *bibtex.Entry {
	e, err := lib.FindByKey(key)
	if err != nil {
		exitWithError(ExitNotFound, "%v", err)
	}
	return e
}
