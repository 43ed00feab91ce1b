package citekey

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// The normalizer is a prioritized list of substitution rules, not a LaTeX
// parser: named macros first, then umlaut macros, then generic accent
// macros, then wrapper commands. Obscure macros fall through unchanged and
// are dropped with the other non-alphanumerics at the end.

// namedMacros are whole-glyph commands with fixed ASCII expansions.
// Order matters: \oe must be handled before \o.
var namedMacros = []struct{ src, dst string }{
	{`\ss`, "ss"}, {`\SS`, "SS"},
	{`\ae`, "ae"}, {`\AE`, "AE"},
	{`\oe`, "oe"}, {`\OE`, "OE"},
	{`\aa`, "aa"}, {`\AA`, "AA"},
	{`\o`, "o"}, {`\O`, "O"},
	{`\l`, "l"}, {`\L`, "L"},
}

// germanFolds fold umlauts and eszett the German way (two ASCII letters),
// applied before the generic accent stripper flattens them to one.
var germanFolds = []struct{ src, dst string }{
	{"ä", "ae"}, {"Ä", "Ae"},
	{"ö", "oe"}, {"Ö", "Oe"},
	{"ü", "ue"}, {"Ü", "Ue"},
	{"ß", "ss"},
}

var (
	umlautMacroRe  = regexp.MustCompile(`\\"\s*\{?\s*([A-Za-z])\s*\}?`)
	accentMacroRe  = regexp.MustCompile("\\\\[\"'`^~=.uvHckrbdt]\\s*\\{?\\s*([A-Za-z])\\s*\\}?")
	wrapperMacroRe = regexp.MustCompile(`\\[A-Za-z]+\s*\{([^}]*)\}`)
	bareMacroRe    = regexp.MustCompile(`\\[A-Za-z]+`)
	nonTokenRe     = regexp.MustCompile(`[^A-Za-z0-9-]`)
)

var umlautFold = map[string]string{
	"a": "ae", "A": "Ae",
	"o": "oe", "O": "Oe",
	"u": "ue", "U": "Ue",
}

// accentStripper decomposes and drops combining marks: é -> e, ř -> r.
var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeToken folds a surname token to plain ASCII letters, digits and
// hyphens. An empty result means nothing usable survived.
func normalizeToken(text string) string {
	t := normalizeLatex(text)

	for _, f := range germanFolds {
		t = strings.ReplaceAll(t, f.src, f.dst)
	}
	if folded, _, err := transform.String(accentStripper, t); err == nil {
		t = folded
	}

	t = nonTokenRe.ReplaceAllString(t, "")
	return strings.Trim(t, "-")
}

func normalizeLatex(text string) string {
	t := text
	for _, m := range namedMacros {
		t = strings.ReplaceAll(t, m.src, m.dst)
	}

	t = umlautMacroRe.ReplaceAllStringFunc(t, func(match string) string {
		letter := umlautMacroRe.FindStringSubmatch(match)[1]
		if folded, ok := umlautFold[letter]; ok {
			return folded
		}
		return letter
	})

	t = accentMacroRe.ReplaceAllString(t, "$1")
	t = wrapperMacroRe.ReplaceAllString(t, "$1")
	t = bareMacroRe.ReplaceAllString(t, "")
	t = strings.NewReplacer("{", "", "}", "").Replace(t)
	return t
}
