// Package consolidate merges per-run record sets into the canonical dataset:
// URL alias folding, field cleaning, trust fallback, admission filtering,
// timestamp derivation, dedup, and sort, in that fixed order.
package consolidate

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ekulkisnek/chi-events-pro/internal/events"
	"github.com/ekulkisnek/chi-events-pro/internal/metrics"
	"github.com/ekulkisnek/chi-events-pro/internal/temporal"
)

// Administrative and legal document titles that sites file under "events".
var bannedTitleFragments = []string{
	"permit", "application", "foia", "request", "guide", "inspection",
	"framework", "faq", "templates", "homepage", "view all news", "press",
	"program agreement", "ordinance", "executed", "amendment", "contract",
	"agreement", "notice", "policy", "standards",
}

// Markup residue that survives tag stripping on some sources. A field still
// carrying one of these after cleaning is garbage, not text.
var junkMarkers = []string{"#cds-separator", "console.log("}

var (
	httpSchemeRe = regexp.MustCompile(`^https?://`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

const (
	minTitleLen       = 3
	minLocationLen    = 3
	minDescriptionLen = 10
)

// Consolidator merges record sets relative to a fixed reference time, so a
// build is reproducible and idempotent for a given now.
type Consolidator struct {
	logger *zap.Logger
	now    time.Time
}

// New builds a Consolidator anchored at now.
func New(logger *zap.Logger, now time.Time) *Consolidator {
	return &Consolidator{logger: logger, now: now}
}

// Consolidate applies the full pipeline to the union of the input sets and
// returns the canonical, sorted record list. Inputs are not mutated.
func (c *Consolidator) Consolidate(inputs ...[]events.Event) []events.Event {
	var out []events.Event
	seen := make(map[string]struct{})
	dropped := make(map[string]int)

	for _, set := range inputs {
		for _, rec := range set {
			e, reason := c.admit(rec)
			if reason != "" {
				dropped[reason]++
				metrics.RecordDropped(reason)
				continue
			}
			key := dedupKey(e.Title, e.DateInfo)
			if _, dup := seen[key]; dup {
				dropped["duplicate"]++
				continue
			}
			seen[key] = struct{}{}
			out = append(out, e)
		}
	}

	sortRecords(out)
	c.logger.Info("consolidated",
		zap.Int("admitted", len(out)),
		zap.Any("dropped", dropped),
	)
	return out
}

// admit runs one record through steps 1-5. It returns the cleaned record, or
// a non-empty drop reason.
func (c *Consolidator) admit(rec events.Event) (events.Event, string) {
	e := rec

	// 1. Fold URL aliases.
	e.EventURL = e.CanonicalURL()
	e.URL, e.Link = "", ""

	// 2. Clean location and description; a field that is junk after cleaning
	// is dropped rather than kept.
	e.Location = cleanField(e.Location)
	e.Description = cleanField(e.Description)

	// 3. Trusted-source fallback runs before the length filter. A location is
	// present only when longer than minLocationLen.
	if len(e.Location) <= minLocationLen && TrustedSource(e.EventURL) {
		e.Location = FallbackLocation
	}

	// 4. Admission filter.
	e.Title = events.Sanitize(e.Title)
	if len(e.Title) <= minTitleLen {
		return e, "short_title"
	}
	if banned(e.Title) {
		return e, "banned_title"
	}
	if !httpSchemeRe.MatchString(e.EventURL) {
		return e, "bad_url"
	}
	if len(e.Location) <= minLocationLen {
		return e, "no_location"
	}
	if len(e.Description) < minDescriptionLen {
		return e, "thin_description"
	}

	// 5. Derive the sortable timestamp and enforce retention. A record whose
	// date text no longer resolves keeps a previously derived timestamp.
	resolved, ok := temporal.Resolve(e.DateInfo, e.TimeStart, c.now)
	if !ok && e.Timestamp != "" {
		if ts, err := time.Parse(time.RFC3339, e.Timestamp); err == nil {
			resolved, ok = ts, true
		}
	}
	if !ok {
		return e, "undated"
	}
	if !temporal.WithinRetention(resolved, c.now) {
		return e, "stale"
	}
	e.Timestamp = resolved.UTC().Format(time.RFC3339)

	// Identity is recomputed after cleaning so every stage agrees on it.
	e.ID = events.Fingerprint(e.Title, e.DateInfo, e.Location)
	return e, ""
}

func cleanField(s string) string {
	cleaned := events.Sanitize(s)
	lower := strings.ToLower(cleaned)
	for _, marker := range junkMarkers {
		if strings.Contains(lower, marker) {
			return ""
		}
	}
	return cleaned
}

func banned(title string) bool {
	lower := strings.ToLower(title)
	for _, fragment := range bannedTitleFragments {
		if strings.Contains(lower, fragment) {
			return true
		}
	}
	return false
}

// dedupKey is (normalized title, normalized date text). First occurrence
// wins; later sources only add fresh keys.
func dedupKey(title, dateInfo string) string {
	t := strings.ToLower(strings.TrimSpace(title))
	d := strings.ToLower(whitespaceRe.ReplaceAllString(strings.TrimSpace(dateInfo), " "))
	return t + "|" + d
}

// sortRecords orders soonest first; records without a timestamp sort last,
// alphabetically.
func sortRecords(records []events.Event) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		switch {
		case a.Timestamp == "" && b.Timestamp == "":
			return a.Title < b.Title
		case a.Timestamp == "":
			return false
		case b.Timestamp == "":
			return true
		default:
			return a.Timestamp < b.Timestamp
		}
	})
}
