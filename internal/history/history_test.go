package history

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestLog(t *testing.T) *Log {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

func TestRecordAndListByKey(t *testing.T) {
	l := openTestLog(t)
	ctx := context.Background()

	if err := l.Record(ctx, "Smith2020", "arXiv", "", false, "no arXiv identifier in DOI or URL"); err != nil {
		t.Fatal(err)
	}
	if err := l.Record(ctx, "Smith2020", "Unpaywall", "https://host/a.pdf", true, ""); err != nil {
		t.Fatal(err)
	}
	if err := l.Record(ctx, "Other2021", "direct URL", "", false, "entry has no URL"); err != nil {
		t.Fatal(err)
	}

	attempts, err := l.ListByKey(ctx, "Smith2020")
	if err != nil {
		t.Fatalf("ListByKey: %v", err)
	}
	if len(attempts) != 2 {
		t.Fatalf("got %d attempts, want 2", len(attempts))
	}
	// Newest first.
	if !attempts[0].OK || attempts[0].Strategy != "Unpaywall" {
		t.Errorf("attempts[0] = %+v", attempts[0])
	}
	if attempts[1].OK || attempts[1].Reason == "" {
		t.Errorf("attempts[1] = %+v", attempts[1])
	}
	if attempts[0].At.IsZero() {
		t.Error("timestamp not recorded")
	}
}

func TestListRecent(t *testing.T) {
	l := openTestLog(t)
	ctx := context.Background()

	keys := []string{"A2020", "B2020", "C2020", "D2020"}
	for _, k := range keys {
		if err := l.Record(ctx, k, "arXiv", "", false, "x"); err != nil {
			t.Fatal(err)
		}
	}

	attempts, err := l.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(attempts) != 2 {
		t.Fatalf("got %d attempts, want 2", len(attempts))
	}
	if attempts[0].Key != "D2020" || attempts[1].Key != "C2020" {
		t.Errorf("recent keys = %s, %s", attempts[0].Key, attempts[1].Key)
	}
}

func TestListByKeyEmpty(t *testing.T) {
	l := openTestLog(t)
	attempts, err := l.ListByKey(context.Background(), "Nobody1999")
	if err != nil {
		t.Fatalf("ListByKey: %v", err)
	}
	if len(attempts) != 0 {
		t.Errorf("got %d attempts, want 0", len(attempts))
	}
}
