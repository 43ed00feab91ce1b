// Package config handles bibman's global configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the global configuration stored in
// $XDG_CONFIG_HOME/bibman/config.yml.
type Config struct {
	// Library is the default BibTeX file operated on when --bib is not
	// given. Overridden by BIBMAN_BIB.
	Library string `yaml:"library,omitempty"`
	// PDFBaseDir is where linked PDFs live and where the resolver globs.
	PDFBaseDir string `yaml:"pdf_base_dir,omitempty"`
	// DownloadDir is where fetched PDFs are saved. Defaults to PDFBaseDir.
	DownloadDir string `yaml:"download_dir,omitempty"`
	// UnpaywallEmail is the contact email required by the Unpaywall API.
	// Overridden by UNPAYWALL_EMAIL.
	UnpaywallEmail string `yaml:"unpaywall_email,omitempty"`
	// PDFReader selects how PDFs are opened: system, zathura, evince,
	// okular, skim.
	PDFReader string `yaml:"pdf_reader,omitempty"`
	// AutoFetch makes DOI and arXiv imports try to download the PDF
	// immediately after adding the entry.
	AutoFetch bool `yaml:"auto_fetch,omitempty"`
}

const (
	// Dir is the directory name under XDG_CONFIG_HOME.
	Dir = "bibman"
	// File is the config file name.
	File = "config.yml"
)

// cache holds the loaded config for the process lifetime.
var cache *Config

// Path returns the path to the global config file. Respects
// XDG_CONFIG_HOME, defaults to ~/.config/bibman/config.yml.
func Path() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, Dir, File)
}

// Load reads the global configuration. A missing file yields a zero config,
// not an error. Environment variables override file values.
func Load() (*Config, error) {
	if cache != nil {
		return cache, nil
	}

	cfg := &Config{}
	path := Path()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// zero config
		case err != nil:
			return nil, fmt.Errorf("reading config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config: %w", err)
			}
		}
	}

	applyEnv(cfg)

	cfg.Library = ExpandTilde(cfg.Library)
	cfg.PDFBaseDir = ExpandTilde(cfg.PDFBaseDir)
	cfg.DownloadDir = ExpandTilde(cfg.DownloadDir)
	if cfg.DownloadDir == "" {
		cfg.DownloadDir = cfg.PDFBaseDir
	}

	cache = cfg
	return cfg, nil
}

// ResetCache clears the cached config. Useful for testing.
func ResetCache() {
	cache = nil
}

// Save writes the configuration file, creating the directory if needed.
func (c *Config) Save() error {
	path := Path()
	if path == "" {
		return errors.New("cannot determine config path")
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("BIBMAN_BIB"); v != "" {
		cfg.Library = v
	}
	if v := os.Getenv("UNPAYWALL_EMAIL"); v != "" {
		cfg.UnpaywallEmail = v
	}
}

// ValidReaders lists the supported pdf_reader values.
var ValidReaders = []string{"system", "zathura", "evince", "okular", "skim"}

// Precondition failures are user-actionable instructions, not system errors.
var (
	ErrNoPDFBaseDir = errors.New("PDF base directory is not set, configure pdf_base_dir with 'bibman config'")
	ErrNoLibrary    = errors.New("no library file configured, set library with 'bibman config' or pass --bib")
)

// RequirePDFBaseDir returns the configured base dir or an instruction.
func (c *Config) RequirePDFBaseDir() (string, error) {
	if strings.TrimSpace(c.PDFBaseDir) == "" {
		return "", ErrNoPDFBaseDir
	}
	return c.PDFBaseDir, nil
}

// RequireLibrary returns the configured library path or an instruction.
func (c *Config) RequireLibrary() (string, error) {
	if strings.TrimSpace(c.Library) == "" {
		return "", ErrNoLibrary
	}
	return c.Library, nil
}

// ValidateDir checks that a configured path exists and is a directory.
// Empty means "not yet configured" and is allowed.
func ValidateDir(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(ExpandTilde(path))
	if err != nil {
		return fmt.Errorf("path does not exist: %s", path)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}
	return nil
}

// ValidateReader checks that the reader value is supported. Empty defaults
// to "system".
func ValidateReader(reader string) error {
	if reader == "" {
		return nil
	}
	for _, valid := range ValidReaders {
		if reader == valid {
			return nil
		}
	}
	return fmt.Errorf("invalid pdf_reader: %s (valid: %v)", reader, ValidReaders)
}

// ExpandTilde expands a leading ~ to the user's home directory. Paths
// without it pass through unchanged.
func ExpandTilde(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
