package pdffile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseJabRef(t *testing.T) {
	tests := []struct {
		name      string
		fileField string
		baseDir   string
		want      string
	}{
		{"jabref triple", ":Smith2023.pdf:PDF", "/lib", "/lib/Smith2023.pdf"},
		{"with description", "Paper:Smith2023.pdf:PDF", "/lib", "/lib/Smith2023.pdf"},
		{"bare relative", "Smith2023.pdf", "/lib", "/lib/Smith2023.pdf"},
		{"absolute stays", ":/data/Smith2023.pdf:PDF", "/lib", "/data/Smith2023.pdf"},
		{"no base dir", ":Smith2023.pdf:PDF", "", "Smith2023.pdf"},
		{"empty", "", "/lib", ""},
		{"whitespace", "  :Smith2023.pdf:PDF  ", "/lib", "/lib/Smith2023.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseJabRef(tt.fileField, tt.baseDir); got != tt.want {
				t.Errorf("ParseJabRef(%q, %q) = %q, want %q", tt.fileField, tt.baseDir, got, tt.want)
			}
		})
	}
}

func TestFormatJabRef(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		baseDir string
		want    string
	}{
		{"inside base dir", "/lib/Smith2023.pdf", "/lib", ":Smith2023.pdf:PDF"},
		{"outside base dir", "/data/Smith2023.pdf", "/lib", ":/data/Smith2023.pdf:PDF"},
		{"no base dir", "/lib/Smith2023.pdf", "", ":/lib/Smith2023.pdf:PDF"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatJabRef(tt.path, tt.baseDir); got != tt.want {
				t.Errorf("FormatJabRef(%q, %q) = %q, want %q", tt.path, tt.baseDir, got, tt.want)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	base := "/lib"
	field := FormatJabRef("/lib/Jones2021 - Ice Sheet Dynamics.pdf", base)
	if got := ParseJabRef(field, base); got != "/lib/Jones2021 - Ice Sheet Dynamics.pdf" {
		t.Errorf("round trip = %q", got)
	}
}

func TestResolve(t *testing.T) {
	baseDir := t.TempDir()

	stored := filepath.Join(baseDir, "exact.pdf")
	globbed := filepath.Join(baseDir, "Jones2021 - Ice Sheet Dynamics.pdf")
	for _, p := range []string{stored, globbed} {
		if err := os.WriteFile(p, []byte("%PDF-1.4"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("stored path wins", func(t *testing.T) {
		if got := Resolve(":exact.pdf:PDF", "Jones2021", baseDir); got != stored {
			t.Errorf("got %q, want %q", got, stored)
		}
	})
	t.Run("stale reference falls back to glob", func(t *testing.T) {
		if got := Resolve(":gone.pdf:PDF", "Jones2021", baseDir); got != globbed {
			t.Errorf("got %q, want %q", got, globbed)
		}
	})
	t.Run("no reference globs by key", func(t *testing.T) {
		if got := Resolve("", "Jones2021", baseDir); got != globbed {
			t.Errorf("got %q, want %q", got, globbed)
		}
	})
	t.Run("nothing found", func(t *testing.T) {
		if got := Resolve("", "Nobody1999", baseDir); got != "" {
			t.Errorf("got %q, want empty", got)
		}
	})
	t.Run("no base dir", func(t *testing.T) {
		if got := Resolve(":gone.pdf:PDF", "Jones2021", ""); got != "" {
			t.Errorf("got %q, want empty", got)
		}
	})
}
