package extract

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ekulkisnek/chi-events-pro/internal/events"
)

const (
	listItemMinText = 20
	listItemMaxText = 1000
)

// ListScan treats list items inside a card-sized length window as candidate
// records under the same date-gated rule as the container scan.
type ListScan struct {
	ref time.Time
}

// NewListScan builds a scan anchored at the given reference time.
func NewListScan(ref time.Time) *ListScan {
	return &ListScan{ref: ref}
}

// Name implements Extractor.
func (*ListScan) Name() string { return "lists" }

// Extract implements Extractor.
func (l *ListScan) Extract(_ context.Context, doc *goquery.Document, pageURL string) []events.RawCandidate {
	var out []events.RawCandidate
	seen := make(map[string]struct{})
	doc.Find(`li, [role="listitem"]`).Each(func(_ int, li *goquery.Selection) {
		text := li.Text()
		if len(text) < listItemMinText || len(text) > listItemMaxText {
			return
		}
		dateText := ExtractDate(text, l.ref)
		if dateText == "" {
			return
		}

		title := listItemTitle(li, text)
		if len(title) < 3 {
			return
		}
		key := dedupKey(title, dateText)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}

		eventURL := pageURL
		if href, ok := li.Find("a").First().Attr("href"); ok && href != "" {
			eventURL = resolveURL(pageURL, href)
		}

		out = append(out, events.RawCandidate{
			Title:       events.Truncate(title, 200),
			DateText:    dateText,
			TimeText:    events.Truncate(ExtractTime(text), 20),
			Location:    events.Truncate(ExtractLocation(text), 200),
			Description: events.Truncate(strings.TrimSpace(text), 500),
			EventURL:    eventURL,
			SourceURL:   pageURL,
		})
	})
	return out
}

func listItemTitle(li *goquery.Selection, text string) string {
	if t := strings.TrimSpace(li.Find("a").First().Text()); t != "" {
		return t
	}
	if t := strings.TrimSpace(li.Find("strong, b").First().Text()); t != "" {
		return t
	}
	return events.Truncate(firstLine(text), 150)
}
