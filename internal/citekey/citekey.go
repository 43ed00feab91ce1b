// Package citekey derives canonical AuthorYear citation keys and migrates
// whole collections to that convention without collisions.
//
// The canonical key shape is a capitalized surname (hyphen segments each
// capitalized), a four-digit year, and an optional single lowercase
// disambiguation letter, e.g. Steiniger2021 or Mueller-Lang2019b.
package citekey

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	authorYearRe      = regexp.MustCompile(`^[A-Z][A-Za-z0-9-]*\d{4}[a-z]?$`)
	authorYearPartsRe = regexp.MustCompile(`^([A-Za-z0-9-]+?)(\d{4})([A-Za-z]?)$`)
	yearRe            = regexp.MustCompile(`\d{4}`)
)

// IsAuthorYearKey reports whether key matches the AuthorYear shape.
func IsAuthorYearKey(key string) bool {
	return authorYearRe.MatchString(strings.TrimSpace(key))
}

// Canonicalize normalizes the casing of an AuthorYear-like key, e.g.
// STEINIGER2021 -> Steiniger2021, steiniger2021A -> Steiniger2021a.
// Keys that do not decompose into surname+year+suffix are returned as-is.
func Canonicalize(key string) string {
	k := strings.TrimSpace(key)
	m := authorYearPartsRe.FindStringSubmatch(k)
	if m == nil {
		return k
	}
	author, year, suffix := m[1], m[2], m[3]
	segments := strings.Split(author, "-")
	for i, seg := range segments {
		if seg == "" {
			continue
		}
		segments[i] = strings.ToUpper(seg[:1]) + strings.ToLower(seg[1:])
	}
	return strings.Join(segments, "-") + year + strings.ToLower(suffix)
}

// IsCanonical reports whether key already is a canonical AuthorYear key,
// i.e. canonicalizing it is a no-op.
func IsCanonical(key string) bool {
	k := strings.TrimSpace(key)
	return IsAuthorYearKey(k) && Canonicalize(k) == k
}

// DeriveBase builds the "SurnameYYYY" base key from the author and year
// fields. The surname comes from the first author (the segment before
// " and "); accents, umlauts and common LaTeX macros fold to plain ASCII.
// A missing author yields "Unknown", a missing 4-digit year yields "0000".
func DeriveBase(authorField, yearField string) string {
	return primarySurname(authorField) + extractYear(yearField)
}

// MakeUnique returns base if unused, otherwise the first unused of
// base+a..base+z, then base+z2, base+z3, and so on.
func MakeUnique(base string, used map[string]bool) string {
	if !used[base] {
		return base
	}
	for c := 'a'; c <= 'z'; c++ {
		candidate := base + string(c)
		if !used[candidate] {
			return candidate
		}
	}
	for n := 2; ; n++ {
		candidate := base + "z" + strconv.Itoa(n)
		if !used[candidate] {
			return candidate
		}
	}
}

func extractYear(yearField string) string {
	if m := yearRe.FindString(yearField); m != "" {
		return m
	}
	return "0000"
}

func primarySurname(authorField string) string {
	if strings.TrimSpace(authorField) == "" {
		return "Unknown"
	}
	first := strings.TrimSpace(strings.SplitN(authorField, " and ", 2)[0])
	if first == "" {
		return "Unknown"
	}

	var raw string
	if idx := strings.Index(first, ","); idx >= 0 {
		raw = first[:idx]
	} else {
		words := strings.Fields(first)
		if len(words) == 0 {
			raw = first
		} else {
			raw = words[len(words)-1]
		}
	}

	normalized := normalizeToken(raw)
	if normalized == "" {
		return "Unknown"
	}
	return capitalizeSurname(normalized)
}

// capitalizeSurname uppercases the first letter of every hyphen segment and
// lowers the rest of segments that arrive fully upper-cased (BIBTEX shouting
// style); mixed-case segments keep their interior casing.
func capitalizeSurname(s string) string {
	segments := strings.Split(s, "-")
	for i, seg := range segments {
		if seg == "" {
			continue
		}
		if seg == strings.ToUpper(seg) && seg != strings.ToLower(seg) {
			seg = strings.ToUpper(seg[:1]) + strings.ToLower(seg[1:])
		} else {
			seg = strings.ToUpper(seg[:1]) + seg[1:]
		}
		segments[i] = seg
	}
	return strings.Join(segments, "-")
}
