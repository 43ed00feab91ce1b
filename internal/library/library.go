// Package library owns the in-memory entry collection and its flat-file
// persistence. All mutating operations preserve the one-key-one-entry
// invariant; the file on disk is only touched by Save.
package library

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bibman/bibman/internal/bibtex"
)

// Sentinel errors for key lookups and duplicate imports.
var (
	ErrKeyNotFound  = errors.New("no entry with that citation key")
	ErrDuplicateKey = errors.New("citation key already in library")
)

// Library is a bibliography loaded from one BibTeX file.
type Library struct {
	Path    string
	Entries []*bibtex.Entry
}

// Load parses the BibTeX file at path. A missing file is a data error, not
// an empty library: bibman never invents the library file.
func Load(path string) (*Library, error) {
	entries, err := bibtex.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return &Library{Path: path, Entries: entries}, nil
}

// Save writes the library back to its file atomically.
func (l *Library) Save() error {
	return bibtex.WriteFile(l.Path, l.Entries)
}

// FindByKey returns the entry with the given key.
func (l *Library) FindByKey(key string) (*bibtex.Entry, error) {
	for _, e := range l.Entries {
		if e.Key == key {
			return e, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
}

// UsedKeys returns the set of keys currently in the library.
func (l *Library) UsedKeys() map[string]bool {
	used := make(map[string]bool, len(l.Entries))
	for _, e := range l.Entries {
		used[e.Key] = true
	}
	return used
}

// Add appends an entry, stamping its date-added field. An entry whose key
// is already present is rejected; the caller decides whether to derive a
// fresh key and retry.
func (l *Library) Add(e *bibtex.Entry) error {
	key := strings.TrimSpace(e.Key)
	if key == "" {
		return errors.New("entry has no citation key")
	}
	if l.UsedKeys()[key] {
		return fmt.Errorf("%w: %s", ErrDuplicateKey, key)
	}
	if e.RawFields == nil {
		e.RawFields = make(map[string]string)
	}
	if _, ok := e.RawFields["date-added"]; !ok {
		e.RawFields["date-added"] = time.Now().Format("2006-01-02")
	}
	l.Entries = append(l.Entries, e)
	return nil
}

// Remove deletes the entry with the given key, preserving order.
func (l *Library) Remove(key string) error {
	for i, e := range l.Entries {
		if e.Key == key {
			l.Entries = append(l.Entries[:i], l.Entries[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrKeyNotFound, key)
}

// KeywordCount is one keyword and how many entries carry it.
type KeywordCount struct {
	Keyword string
	Count   int
}

// KeywordCounts tallies keywords across the library, most frequent first,
// ties alphabetical.
func (l *Library) KeywordCounts() []KeywordCount {
	counts := make(map[string]int)
	for _, e := range l.Entries {
		for _, kw := range e.KeywordsList() {
			counts[strings.ToLower(kw)]++
		}
	}
	out := make([]KeywordCount, 0, len(counts))
	for kw, n := range counts {
		out = append(out, KeywordCount{Keyword: kw, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Keyword < out[j].Keyword
	})
	return out
}
