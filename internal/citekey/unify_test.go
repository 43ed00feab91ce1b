package citekey

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bibman/bibman/internal/bibtex"
)

func TestScan(t *testing.T) {
	entries := []*bibtex.Entry{
		{Key: "Steiniger2021", Author: "Steiniger, S.", Year: "2021"},
		{Key: "STEINIGER2021", Author: "Steiniger, S.", Year: "2021"},
		{Key: "goelles_snow_2025", Author: `{G{\"o}lles}, Thomas`, Year: "2025"},
		{Key: "anon-report", Author: "", Year: "2020"},
		{Key: "smith_undated", Author: "Smith, John", Year: "forthcoming"},
	}

	plan := Scan(entries)

	if plan.Total != 5 {
		t.Errorf("Total = %d, want 5", plan.Total)
	}
	if plan.AlreadyOK != 1 {
		t.Errorf("AlreadyOK = %d, want 1", plan.AlreadyOK)
	}
	if plan.SkippedMissingMetadata != 2 {
		t.Errorf("SkippedMissingMetadata = %d, want 2", plan.SkippedMissingMetadata)
	}
	if len(plan.Renames) != 2 {
		t.Fatalf("got %d renames, want 2", len(plan.Renames))
	}

	// Steiniger2021 is reserved by the canonical entry, so the shouting
	// duplicate takes the disambiguation suffix.
	if got := plan.Renames[0].NewKey; got != "Steiniger2021a" {
		t.Errorf("rename 0 = %q, want Steiniger2021a", got)
	}
	if got := plan.Renames[1].NewKey; got != "Goelles2025" {
		t.Errorf("rename 1 = %q, want Goelles2025", got)
	}
}

func TestScanDerivedKeyMatchesCurrent(t *testing.T) {
	// The key decomposes to surname+year but is not canonically cased, and
	// canonical derivation produces the casing fix as a rename.
	entries := []*bibtex.Entry{
		{Key: "smith2020", Author: "Smith, John", Year: "2020"},
	}
	plan := Scan(entries)
	if len(plan.Renames) != 1 || plan.Renames[0].NewKey != "Smith2020" {
		t.Fatalf("plan.Renames = %+v, want one rename to Smith2020", plan.Renames)
	}
}

func TestScanReservesSkippedKeys(t *testing.T) {
	entries := []*bibtex.Entry{
		{Key: "Smith2020", Author: "", Year: ""},
		{Key: "smith_misc", Author: "Smith, John", Year: "2020"},
	}
	plan := Scan(entries)
	if plan.SkippedMissingMetadata != 1 {
		t.Fatalf("SkippedMissingMetadata = %d, want 1", plan.SkippedMissingMetadata)
	}
	if len(plan.Renames) != 1 || plan.Renames[0].NewKey != "Smith2020a" {
		t.Fatalf("plan.Renames = %+v, want one rename to Smith2020a", plan.Renames)
	}
}

func TestApplyRenamesKeysAndFiles(t *testing.T) {
	baseDir := t.TempDir()

	oldPath := filepath.Join(baseDir, "goelles_snow_2025.pdf")
	if err := os.WriteFile(oldPath, []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatal(err)
	}

	e := &bibtex.Entry{
		Key:    "goelles_snow_2025",
		Author: `{G{\"o}lles}, Thomas`,
		Year:   "2025",
		Title:  "Snow Cover Mapping",
		File:   ":goelles_snow_2025.pdf:PDF",
	}

	plan := Scan([]*bibtex.Entry{e})
	res := Apply(plan, baseDir)

	if res.KeysRenamed != 1 {
		t.Errorf("KeysRenamed = %d, want 1", res.KeysRenamed)
	}
	if res.FilesRenamed != 1 {
		t.Errorf("FilesRenamed = %d, want 1", res.FilesRenamed)
	}
	if e.Key != "Goelles2025" {
		t.Errorf("key = %q, want Goelles2025", e.Key)
	}

	wantPath := filepath.Join(baseDir, "Goelles2025 - Snow Cover Mapping.pdf")
	if _, err := os.Stat(wantPath); err != nil {
		t.Errorf("renamed PDF missing: %v", err)
	}
	if _, err := os.Stat(oldPath); !os.IsNotExist(err) {
		t.Errorf("old PDF still present")
	}
	if e.File != ":Goelles2025 - Snow Cover Mapping.pdf:PDF" {
		t.Errorf("file field = %q", e.File)
	}
}

func TestApplyCountsConflicts(t *testing.T) {
	baseDir := t.TempDir()

	oldPath := filepath.Join(baseDir, "smith_old.pdf")
	target := filepath.Join(baseDir, "Smith2020.pdf")
	for _, p := range []string{oldPath, target} {
		if err := os.WriteFile(p, []byte("%PDF-1.4"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	e := &bibtex.Entry{
		Key:    "smith_old",
		Author: "Smith, John",
		Year:   "2020",
		File:   ":smith_old.pdf:PDF",
	}

	plan := Scan([]*bibtex.Entry{e})
	res := Apply(plan, baseDir)

	if res.FileConflicts != 1 {
		t.Errorf("FileConflicts = %d, want 1", res.FileConflicts)
	}
	if res.FilesRenamed != 0 {
		t.Errorf("FilesRenamed = %d, want 0", res.FilesRenamed)
	}
	// The key still changes even when the PDF cannot move.
	if e.Key != "Smith2020" {
		t.Errorf("key = %q, want Smith2020", e.Key)
	}
	if _, err := os.Stat(oldPath); err != nil {
		t.Errorf("conflicting source moved: %v", err)
	}
}

func TestApplyNoBaseDir(t *testing.T) {
	e := &bibtex.Entry{Key: "smith_x", Author: "Smith, J.", Year: "2020", File: ":x.pdf:PDF"}
	plan := Scan([]*bibtex.Entry{e})
	res := Apply(plan, "")
	if res.KeysRenamed != 1 || res.FilesRenamed != 0 {
		t.Fatalf("res = %+v, want key rename only", res)
	}
}
