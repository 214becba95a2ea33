// Package extract pulls candidate event records out of heterogeneous markup.
// Structured strategies (linked data, microdata, calendar resources) and
// heuristic strategies (cards, tables, lists, links) all implement the same
// capability, so the pipeline can add or drop strategies without touching
// anything downstream.
package extract

import (
	"context"
	"net/url"
	"regexp"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ekulkisnek/chi-events-pro/internal/events"
	"github.com/ekulkisnek/chi-events-pro/internal/temporal"
)

// Extractor produces raw candidates from a parsed document. Implementations
// must be independent of each other; a candidate missing from one strategy
// may still be found by another.
type Extractor interface {
	Name() string
	Extract(ctx context.Context, doc *goquery.Document, pageURL string) []events.RawCandidate
}

var absoluteHTTPRe = regexp.MustCompile(`^https?://`)

// LikelyEvent is the admission gate shared by all heuristic output: a
// plausible title, an absolute http(s) link, and date text that resolves
// inside the retention window. Records failing it are dropped silently.
func LikelyEvent(raw events.RawCandidate, now time.Time) bool {
	title := raw.Title
	if len(title) <= 3 || len(title) > 200 {
		return false
	}
	if !absoluteHTTPRe.MatchString(raw.EventURL) {
		return false
	}
	resolved, ok := temporal.Resolve(raw.DateText, raw.TimeText, now)
	if !ok {
		return false
	}
	return temporal.WithinRetention(resolved, now)
}

// resolveURL joins href against base, returning base itself when href is
// empty or unparseable.
func resolveURL(base, href string) string {
	if href == "" {
		return base
	}
	b, err := url.Parse(base)
	if err != nil {
		return base
	}
	u, err := b.Parse(href)
	if err != nil {
		return base
	}
	return u.String()
}

// dedupKey is the in-run dedup key every heuristic strategy shares.
func dedupKey(title, dateText string) string {
	return lowerTrim(title) + "|" + lowerTrim(dateText)
}
