// Package temporal turns free-text date and time phrases into comparable
// instants. Source sites disagree wildly on date phrasing, so resolution is a
// two-stage policy: a general parse first, then a month/day regex rescue with
// a year-rollover rule for year-less recurring listings.
package temporal

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

const (
	// RetentionPast is how far back a resolved date may sit before the
	// record is considered stale.
	RetentionPast = 365 * 24 * time.Hour
	// PlausibleFuture bounds how far out a resolved date may sit.
	PlausibleFuture = 2 * 365 * 24 * time.Hour

	// A same-year month/day more than this far in the past rolls forward
	// one year ("Sep 21" published the prior December).
	rolloverGrace = 24 * time.Hour

	// A general parse landing more than this many years from the reference
	// year is treated as a misparse (a stray number read as a year).
	maxYearDrift = 2
)

var (
	numericMonthDayRe = regexp.MustCompile(`\b([01]?\d)[/-]([0-3]?\d)\b`)
	monthNameDayRe    = regexp.MustCompile(`(?i)(jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)\.?\s*([0-3]?\d)`)

	isoDateRe     = regexp.MustCompile(`\b20\d{2}-[01]?\d-[0-3]?\d\b`)
	slashDateRe   = regexp.MustCompile(`\b[01]?\d/[0-3]?\d(/20\d{2})?\b`)
	monthDayHintRe = regexp.MustCompile(`(?i)(jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)\.?\s*[0-3]?\d`)

	monthIndex = map[string]time.Month{
		"jan": time.January, "feb": time.February, "mar": time.March,
		"apr": time.April, "may": time.May, "jun": time.June,
		"jul": time.July, "aug": time.August, "sep": time.September,
		"sept": time.September, "oct": time.October, "nov": time.November,
		"dec": time.December,
	}
)

// Resolve converts free-text date (and optional time) into an instant relative
// to now. The general parse runs first; if it fails or lands an implausible
// year, the regex rescue scans for a month/day pair, assumes the current year,
// and rolls forward one year when the naive date is already past.
func Resolve(dateText, timeText string, now time.Time) (time.Time, bool) {
	base := strings.TrimSpace(dateText)
	if timeText != "" {
		base = strings.TrimSpace(base + " " + timeText)
	}
	if base == "" {
		return time.Time{}, false
	}

	parsed, err := dateparse.ParseIn(base, now.Location())
	if err == nil && yearDrift(parsed, now) <= maxYearDrift {
		return parsed, true
	}

	if rescued, ok := rescueMonthDay(dateText, now); ok {
		return rescued, true
	}
	if err == nil {
		// Keep the drifted parse rather than nothing; retention filtering
		// downstream decides whether it survives.
		return parsed, true
	}
	return time.Time{}, false
}

func yearDrift(t, now time.Time) int {
	drift := t.Year() - now.Year()
	if drift < 0 {
		drift = -drift
	}
	return drift
}

// rescueMonthDay scans for numeric mm/dd or a month-name day. A month-name
// match overrides a numeric one, mirroring the precedence the original
// pattern order established.
func rescueMonthDay(dateText string, now time.Time) (time.Time, bool) {
	var month time.Month
	var day int

	if m := numericMonthDayRe.FindStringSubmatch(dateText); m != nil {
		month = time.Month(atoi(m[1]))
		day = atoi(m[2])
	}
	if m := monthNameDayRe.FindStringSubmatch(dateText); m != nil {
		if mon, ok := monthIndex[strings.ToLower(m[1])]; ok {
			month = mon
		}
		if d := atoi(m[2]); d > 0 {
			day = d
		}
	}
	if month < time.January || month > time.December || day < 1 || day > 31 {
		return time.Time{}, false
	}

	candidate := time.Date(now.Year(), month, day, 0, 0, 0, 0, now.Location())
	if candidate.Before(now.Add(-rolloverGrace)) {
		candidate = candidate.AddDate(1, 0, 0)
	}
	return candidate, true
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}

// WithinRetention reports whether t falls inside the window the canonical
// dataset keeps: one year past to two years future.
func WithinRetention(t, now time.Time) bool {
	if t.Before(now.Add(-RetentionPast)) {
		return false
	}
	return !t.After(now.Add(PlausibleFuture))
}

// PlausibleText reports whether free text contains something date-shaped:
// a month-name day, an ISO date, a mm/dd form, or anything the general
// parser accepts.
func PlausibleText(dateText string, now time.Time) bool {
	s := strings.ToLower(strings.TrimSpace(dateText))
	if s == "" {
		return false
	}
	if monthDayHintRe.MatchString(s) || isoDateRe.MatchString(s) || slashDateRe.MatchString(s) {
		return true
	}
	_, err := dateparse.ParseIn(s, now.Location())
	return err == nil
}
