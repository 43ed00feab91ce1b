package pdffile

import (
	"regexp"
	"strings"
)

var (
	unsafeRe     = regexp.MustCompile(`[\\/:*?"<>|{}]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// maxTitleLen keeps generated paths reasonable on every filesystem.
const maxTitleLen = 80

// Filename returns the canonical stored name "{key} - {title}.pdf" with
// filesystem-unsafe characters stripped, whitespace collapsed, and the
// title truncated. Falls back to "{key}.pdf" when no title survives
// sanitization.
func Filename(key, title string) string {
	if key == "" {
		key = "unknown"
	}
	title = unsafeRe.ReplaceAllString(title, "")
	title = strings.TrimSpace(whitespaceRe.ReplaceAllString(title, " "))
	if title == "" {
		return key + ".pdf"
	}
	if len(title) > maxTitleLen {
		title = strings.TrimRight(title[:maxTitleLen], " ")
	}
	return key + " - " + title + ".pdf"
}
