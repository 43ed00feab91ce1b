package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bibman/bibman/internal/citekey"
)

var unifyApply bool

func init() {
	unifyCmd.Flags().BoolVar(&unifyApply, "apply", false, "Apply the planned renames")
	rootCmd.AddCommand(unifyCmd)
}

var unifyCmd = &cobra.Command{
	Use:   "unify",
	Short: "Normalize every citation key to AuthorYear form",
	Long: `Plan (and with --apply, perform) the renames that make every citation
key canonical AuthorYear form, e.g. STEINIGER2021 -> Steiniger2021. Linked
PDFs are renamed along with their keys. Entries without an author or a
4-digit year are skipped. Without --apply only the plan is printed.

Examples:
  bibman unify
  bibman unify --apply`,
	RunE: runUnify,
}

// UnifyResponse reports a unification plan and, when applied, its outcome.
type UnifyResponse struct {
	Total         int               `json:"total"`
	AlreadyOK     int               `json:"already_ok"`
	Skipped       int               `json:"skipped_missing_metadata"`
	Renames       map[string]string `json:"renames,omitempty"`
	Applied       bool              `json:"applied"`
	FilesRenamed  int               `json:"files_renamed,omitempty"`
	FileConflicts int               `json:"file_conflicts,omitempty"`
}

func runUnify(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	lib := mustOpenLibrary(cfg)

	plan := citekey.Scan(lib.Entries)

	resp := UnifyResponse{
		Total:     plan.Total,
		AlreadyOK: plan.AlreadyOK,
		Skipped:   plan.SkippedMissingMetadata,
		Applied:   unifyApply,
	}
	// Capture the pairs before Apply mutates the keys.
	type renamePair struct{ from, to string }
	pairs := make([]renamePair, len(plan.Renames))
	for i, r := range plan.Renames {
		pairs[i] = renamePair{from: r.Entry.Key, to: r.NewKey}
	}
	if len(pairs) > 0 {
		resp.Renames = make(map[string]string, len(pairs))
		for _, p := range pairs {
			resp.Renames[p.from] = p.to
		}
	}

	if unifyApply && len(plan.Renames) > 0 {
		applied := citekey.Apply(plan, cfg.PDFBaseDir)
		resp.FilesRenamed = applied.FilesRenamed
		resp.FileConflicts = applied.FileConflicts
		mustSave(lib)
	}

	if humanOutput {
		fmt.Printf("%d entries: %d already canonical, %d skipped (missing author/year), %d to rename\n",
			resp.Total, resp.AlreadyOK, resp.Skipped, len(pairs))
		for _, p := range pairs {
			fmt.Printf("  %s -> %s\n", p.from, p.to)
		}
		if unifyApply {
			fmt.Printf("Applied: %d PDFs renamed, %d filename conflicts\n", resp.FilesRenamed, resp.FileConflicts)
		} else if len(pairs) > 0 {
			fmt.Println("Dry run; pass --apply to rename")
		}
		return nil
	}
	return outputJSON(resp)
}
