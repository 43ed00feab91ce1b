// Package pdffile resolves stored file references against the PDF base
// directory and handles the JabRef-style "description:path:type" format.
package pdffile

import (
	"os"
	"path/filepath"
	"strings"
)

// ParseJabRef resolves a JabRef-style file field to a path. The description
// and type parts are optional: ":Smith2023.pdf:PDF" and "Smith2023.pdf" both
// yield the same path. Relative paths are joined onto baseDir.
func ParseJabRef(fileField, baseDir string) string {
	path := strings.TrimSpace(fileField)
	if strings.Contains(path, ":") {
		parts := strings.Split(path, ":")
		if len(parts) >= 2 {
			path = parts[1]
		} else {
			path = parts[0]
		}
	}
	path = strings.TrimSpace(path)
	if baseDir != "" && path != "" && !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	return path
}

// FormatJabRef renders a path as a JabRef file field value ":name.pdf:PDF".
// Files inside baseDir are stored by basename so the base directory stays
// configurable; files elsewhere keep their full path.
func FormatJabRef(path, baseDir string) string {
	stored := path
	if baseDir != "" {
		if rel, err := filepath.Rel(baseDir, path); err == nil && !strings.HasPrefix(rel, "..") {
			stored = rel
		}
	}
	if !strings.ContainsRune(stored, filepath.Separator) {
		stored = filepath.Base(stored)
	}
	return ":" + stored + ":PDF"
}

// Resolve maps a stored (possibly stale) file reference to an existing file
// on disk. The stored path wins when it exists; otherwise the base directory
// is globbed for "{key}*.pdf", since externally maintained references drift
// from on-disk names while the citation key stays the reliable join key.
// Returns "" when nothing is found.
func Resolve(fileField, key, baseDir string) string {
	if fileField != "" {
		path := ParseJabRef(fileField, baseDir)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	if baseDir != "" && key != "" {
		matches, err := filepath.Glob(filepath.Join(baseDir, key+"*.pdf"))
		if err == nil && len(matches) > 0 {
			return matches[0]
		}
	}

	return ""
}
