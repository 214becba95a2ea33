package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/ekulkisnek/chi-events-pro/internal/temporal"
)

// Ordered pattern lists for heuristic field extraction. Order is behavior:
// earlier patterns win, and tests pin the precedence.

var datePatterns = []*regexp.Regexp{
	// "Sep 21", "September 21, 2025"
	regexp.MustCompile(`(?i)\b(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?\s+\d{1,2}(?:,?\s+\d{4})?`),
	// "9/21/2025", "09-21-25"
	regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`),
	// "21 September 2025"
	regexp.MustCompile(`(?i)\b\d{1,2}\s+(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{4}\b`),
	// relative phrasings kept verbatim when they cannot be resolved here
	regexp.MustCompile(`(?i)\b(?:today|tonight|tomorrow|this\s+(?:week|weekend|monday|tuesday|wednesday|thursday|friday|saturday|sunday)|next\s+(?:week|monday|tuesday|wednesday|thursday|friday|saturday|sunday))\b`),
}

var timePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b\d{1,2}:\d{2}\s*(?:am|pm)\b`),
	regexp.MustCompile(`(?i)\b\d{1,2}\s*(?:am|pm)\b`),
	regexp.MustCompile(`\b\d{1,2}:\d{2}\b`),
	regexp.MustCompile(`(?i)(?:\bat|@)\s*\d{1,2}(?::\d{2})?\s*(?:am|pm)?\b`),
}

const venueSuffixes = `St|Street|Ave|Avenue|Blvd|Boulevard|Rd|Road|Park|Theater|Theatre|Center|Centre|Hall|Arena|Stadium|Museum|Zoo|Pier|Beach|Plaza|Square|Library|University|College|School|Church|Temple|Mosque|Synagogue`

var locationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:at|@|location:)\s*([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\s+(?:` + venueSuffixes + `))`),
	regexp.MustCompile(`([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\s+(?:` + venueSuffixes + `))`),
	regexp.MustCompile(`(?i)(?:venue|location):\s*([^,\n]{3,100})`),
	regexp.MustCompile(`@\s*([A-Z][a-zA-Z\s]{2,50})`),
	regexp.MustCompile(`(?i)\b(\d{3,5}\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\s+(?:St|Street|Ave|Avenue|Blvd|Boulevard|Rd|Road))\b`),
}

var (
	priceRe    = regexp.MustCompile(`(?i)\$\d+(?:\.\d{2})?|\bfree\b|\bdonation\b|pay\s+what\s+you\s+can`)
	atPrefixRe = regexp.MustCompile(`(?i)^(?:at|@)\s*`)
)

// ExtractDate scans free text for the first date-shaped fragment. When the
// fragment resolves inside the plausibility window it is returned as
// YYYY-MM-DD; relative phrasings that cannot be resolved here are returned
// verbatim for the temporal resolver to retry later.
func ExtractDate(text string, now time.Time) string {
	if text == "" {
		return ""
	}
	for _, pattern := range datePatterns {
		match := pattern.FindString(text)
		if match == "" {
			continue
		}
		if resolved, ok := temporal.Resolve(match, "", now); ok && temporal.WithinRetention(resolved, now) {
			return resolved.Format("2006-01-02")
		}
		return strings.TrimSpace(match)
	}
	return ""
}

// ExtractTime scans for the first time-of-day fragment, trimmed of an "at"
// or "@" prefix and capped at the field width.
func ExtractTime(text string) string {
	for _, pattern := range timePatterns {
		match := pattern.FindString(text)
		if match == "" {
			continue
		}
		match = strings.TrimSpace(atPrefixRe.ReplaceAllString(match, ""))
		if len(match) > 20 {
			match = match[:20]
		}
		return match
	}
	return ""
}

// ExtractLocation scans for venue-shaped fragments: keyword proximity
// ("at …", "venue: …"), capitalized names ending in a venue suffix, and
// street addresses.
func ExtractLocation(text string) string {
	for _, pattern := range locationPatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		loc := strings.TrimSpace(m[1])
		if len(loc) > 3 && len(loc) < 200 {
			return loc
		}
	}
	return ""
}

// ExtractPrice matches dollar amounts and the common free-admission
// phrasings.
func ExtractPrice(text string) string {
	match := priceRe.FindString(text)
	if len(match) > 50 {
		match = match[:50]
	}
	return match
}

func lowerTrim(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func remainingLines(text string, from, to int) string {
	lines := strings.Split(text, "\n")
	if from >= len(lines) {
		return ""
	}
	if to > len(lines) {
		to = len(lines)
	}
	var parts []string
	for _, line := range lines[from:to] {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, " ")
}
