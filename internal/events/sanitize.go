package events

import (
	"regexp"
	"strings"
)

const maxSanitizedLen = 2000

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	tagRe        = regexp.MustCompile(`<[^>]*>`)
	styleRuleRe  = regexp.MustCompile(`\{[^}]*\}`)
	junkTokenRe  = regexp.MustCompile(`(?i)#[a-z0-9_-]{5,}\b`)
)

// Sanitize strips markup residue from scraped text: whitespace runs, HTML
// tags, CSS rule bodies, and long hashtag-like tokens that leak out of style
// blocks. Output is capped at 2000 characters.
func Sanitize(value string) string {
	text := tagRe.ReplaceAllString(value, "")
	text = styleRuleRe.ReplaceAllString(text, "")
	text = junkTokenRe.ReplaceAllString(text, "")
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)
	if len(text) > maxSanitizedLen {
		text = text[:maxSanitizedLen]
	}
	return text
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}

// Truncate caps a string at n bytes, used when a field has a hard width in
// the record contract.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
