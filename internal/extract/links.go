package extract

import (
	"context"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ekulkisnek/chi-events-pro/internal/events"
)

// Path vocabulary for anchors that look like event detail pages.
var eventLinkSelectors = []string{
	`a[href*="/event"]`, `a[href*="/events/"]`, `a[href*="/calendar"]`, `a[href*="/show"]`,
	`a[href*="/program"]`, `a[href*="/activity"]`, `a[href*="/happening"]`,
	`a[href*="/concert"]`, `a[href*="/performance"]`, `a[href*="/exhibition"]`,
	`a[href*="/workshop"]`, `a[href*="/class"]`, `a[href*="/seminar"]`,
	`a[href*="/festival"]`, `a[href*="/fair"]`, `a[href*="/market"]`,
}

var eventPathRe = regexp.MustCompile(`(?i)(event|events|show|concert|performance|festival|opennight|exhibit|exhibition|game|match|/e/)`)

var pathSeparatorRe = regexp.MustCompile(`[-_]+`)

// LinkScan treats event-shaped anchors as candidates even without a date,
// using surrounding container text as context. Its output is the feed for
// detail-page enrichment.
type LinkScan struct {
	ref time.Time
}

// NewLinkScan builds a scan anchored at the given reference time.
func NewLinkScan(ref time.Time) *LinkScan {
	return &LinkScan{ref: ref}
}

// Name implements Extractor.
func (*LinkScan) Name() string { return "links" }

// Extract implements Extractor.
func (l *LinkScan) Extract(_ context.Context, doc *goquery.Document, pageURL string) []events.RawCandidate {
	var out []events.RawCandidate
	seen := make(map[string]struct{})
	for _, selector := range eventLinkSelectors {
		doc.Find(selector).Each(func(_ int, link *goquery.Selection) {
			href, ok := link.Attr("href")
			if !ok || href == "" {
				return
			}
			fullURL := resolveURL(pageURL, href)
			linkText := strings.TrimSpace(link.Text())
			contextText := strings.TrimSpace(link.Parent().Text())
			if contextText == "" {
				contextText = strings.TrimSpace(link.Parent().Parent().Text())
			}

			dateText := ExtractDate(contextText, l.ref)
			// A dateless anchor is still worth keeping when its text is
			// substantial; the detail fetch may recover the date.
			if dateText == "" && len(linkText) < 5 {
				return
			}

			title := linkText
			if title == "" {
				title = titleFromPath(href)
			}
			if len(title) < 3 {
				return
			}
			key := dedupKey(title, dateText)
			if _, dup := seen[key]; dup {
				return
			}
			seen[key] = struct{}{}

			out = append(out, events.RawCandidate{
				Title:       events.Truncate(title, 200),
				DateText:    dateText,
				TimeText:    events.Truncate(ExtractTime(contextText), 20),
				Location:    events.Truncate(ExtractLocation(contextText), 200),
				Description: events.Truncate(contextText, 500),
				EventURL:    fullURL,
				SourceURL:   pageURL,
			})
		})
	}
	return out
}

func titleFromPath(href string) string {
	trimmed := strings.Trim(href, "/")
	segments := strings.Split(trimmed, "/")
	last := segments[len(segments)-1]
	last = pathSeparatorRe.ReplaceAllString(last, " ")
	if strings.TrimSpace(last) == "" {
		return "Event"
	}
	return strings.TrimSpace(last)
}

// CandidateLinks collects same-host outlinks whose path looks event-shaped,
// for the crawl frontier.
func CandidateLinks(doc *goquery.Document, pageURL string) []string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	add := func(u *url.URL) {
		s := u.String()
		if _, dup := seen[s]; dup {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	doc.Find("a[href]").Each(func(_ int, link *goquery.Selection) {
		href := strings.TrimSpace(link.AttrOr("href", ""))
		if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "mailto:") {
			return
		}
		u, err := base.Parse(href)
		if err != nil {
			return
		}
		if !strings.EqualFold(u.Hostname(), base.Hostname()) {
			return
		}
		if !eventPathRe.MatchString(strings.ToLower(u.Path)) {
			return
		}
		add(u)
	})

	// rel=next style hints surface the next listing page even when its path
	// carries no event vocabulary
	doc.Find(`a[rel="next"]`).Each(func(_ int, link *goquery.Selection) {
		href := strings.TrimSpace(link.AttrOr("href", ""))
		if href == "" {
			return
		}
		if u, err := base.Parse(href); err == nil {
			add(u)
		}
	})
	return out
}
