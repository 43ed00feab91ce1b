package citekey

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bibman/bibman/internal/bibtex"
	"github.com/bibman/bibman/internal/pdffile"
)

var fourDigitRe = regexp.MustCompile(`\d{4}`)

// Rename is one planned key change.
type Rename struct {
	Entry  *bibtex.Entry
	NewKey string
}

// Plan is the result of scanning a collection for unification. It is
// computed once and applied atomically after the caller confirms.
type Plan struct {
	Total                  int
	AlreadyOK              int
	SkippedMissingMetadata int
	Renames                []Rename
}

// HasAuthorAndYear reports whether an entry carries enough metadata to
// derive an AuthorYear key: a non-blank author and a 4-digit year run.
func HasAuthorAndYear(e *bibtex.Entry) bool {
	if strings.TrimSpace(e.Author) == "" {
		return false
	}
	return fourDigitRe.MatchString(e.Year)
}

// Scan walks the collection in order and plans the renames needed to make
// every key canonical. Keys that are already canonical are kept and
// reserved; entries missing author or year are skipped, with their literal
// key still reserved so new keys cannot collide with them.
func Scan(entries []*bibtex.Entry) Plan {
	plan := Plan{Total: len(entries)}
	used := make(map[string]bool, len(entries))

	var pending []*bibtex.Entry
	for _, e := range entries {
		current := strings.TrimSpace(e.Key)
		if IsCanonical(current) {
			plan.AlreadyOK++
			used[current] = true
			continue
		}
		if !HasAuthorAndYear(e) {
			plan.SkippedMissingMetadata++
			used[current] = true
			continue
		}
		pending = append(pending, e)
	}

	for _, e := range pending {
		newKey := MakeUnique(DeriveBase(e.Author, e.Year), used)
		used[newKey] = true
		if newKey == strings.TrimSpace(e.Key) {
			plan.AlreadyOK++
		} else {
			plan.Renames = append(plan.Renames, Rename{Entry: e, NewKey: newKey})
		}
	}

	return plan
}

// ApplyResult summarizes an applied plan.
type ApplyResult struct {
	KeysRenamed   int
	FilesRenamed  int
	FileConflicts int
}

// Apply executes a plan: each entry gets its new key, and when baseDir is
// configured its linked PDF is renamed and relinked to match. A rename
// whose target filename already exists is skipped and counted as a
// conflict; the remaining renames still proceed.
func Apply(plan Plan, baseDir string) ApplyResult {
	var res ApplyResult

	for _, r := range plan.Renames {
		e := r.Entry

		if baseDir != "" && e.File != "" {
			current := pdffile.Resolve(e.File, e.Key, baseDir)
			if current != "" {
				target := filepath.Join(baseDir, pdffile.Filename(r.NewKey, e.Title))
				if absPath(current) != absPath(target) {
					if _, err := os.Stat(target); err == nil {
						res.FileConflicts++
					} else if err := os.Rename(current, target); err == nil {
						e.File = pdffile.FormatJabRef(target, baseDir)
						res.FilesRenamed++
					}
				}
			}
		}

		e.Key = r.NewKey
		res.KeysRenamed++
	}

	return res
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
