package extract

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ekulkisnek/chi-events-pro/internal/events"
)

// Selector vocabulary for elements that look like event cards. Broad on
// purpose; the size window and date gate do the real filtering.
var containerSelectors = []string{
	`[class*="event"]`, `[class*="Event"]`, `[id*="event"]`, `[id*="Event"]`,
	`[class*="card"]`, `[class*="item"]`, `[class*="listing"]`, `[class*="post"]`,
	`[class*="entry"]`, `[class*="program"]`, `[class*="activity"]`,
	`article`, `section[class*="event"]`, `div[class*="event"]`,
	`li[class*="event"]`, `tr[class*="event"]`,
	`[data-event-id]`, `[data-event]`, `[data-event-url]`,
	`[class*="calendar"]`, `[class*="Calendar"]`,
}

const (
	containerMinText = 15
	containerMaxText = 3000
)

// ContainerScan is the primary heuristic: elements whose class, id, or data
// attributes suggest an event card, sized like a card, and carrying a
// recognizable date somewhere in their text.
type ContainerScan struct {
	ref time.Time
}

// NewContainerScan builds a scan anchored at the given reference time.
func NewContainerScan(ref time.Time) *ContainerScan {
	return &ContainerScan{ref: ref}
}

// Name implements Extractor.
func (*ContainerScan) Name() string { return "containers" }

// Extract implements Extractor.
func (c *ContainerScan) Extract(_ context.Context, doc *goquery.Document, pageURL string) []events.RawCandidate {
	var out []events.RawCandidate
	seen := make(map[string]struct{})
	for _, selector := range containerSelectors {
		doc.Find(selector).Each(func(_ int, el *goquery.Selection) {
			text := el.Text()
			if len(text) < containerMinText || len(text) > containerMaxText {
				return
			}
			dateText := ExtractDate(text, c.ref)
			if dateText == "" {
				return
			}
			title := containerTitle(el, text)
			if len(title) < 3 || len(title) > 200 {
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
				TimeText:    events.Truncate(containerTime(el, text), 20),
				Location:    events.Truncate(containerLocation(el, text), 200),
				Description: events.Truncate(containerDescription(el, text), 500),
				EventURL:    containerLink(el, pageURL),
				Price:       events.Truncate(ExtractPrice(text), 50),
				SourceURL:   pageURL,
			})
		})
	}
	return out
}

// containerTitle walks the priority list: headings, then the first link,
// then bold/title-classed children, then explicit title attributes, then the
// first line of text.
func containerTitle(el *goquery.Selection, text string) string {
	if t := strings.TrimSpace(el.Find("h1, h2, h3, h4, h5, h6").First().Text()); t != "" {
		return t
	}
	if t := strings.TrimSpace(el.Find("a").First().Text()); t != "" {
		return t
	}
	if t := strings.TrimSpace(el.Find(`strong, b, .title, [class*="title"]`).First().Text()); t != "" {
		return t
	}
	if t, ok := el.Attr("title"); ok && strings.TrimSpace(t) != "" {
		return strings.TrimSpace(t)
	}
	if t, ok := el.Attr("data-title"); ok && strings.TrimSpace(t) != "" {
		return strings.TrimSpace(t)
	}
	return events.Truncate(firstLine(text), 150)
}

func containerLink(el *goquery.Selection, pageURL string) string {
	if href, ok := el.Find("a").First().Attr("href"); ok && href != "" {
		return resolveURL(pageURL, href)
	}
	for _, attr := range []string{"href", "data-url", "data-event-url"} {
		if href, ok := el.Attr(attr); ok && href != "" {
			return resolveURL(pageURL, href)
		}
	}
	return pageURL
}

func containerLocation(el *goquery.Selection, text string) string {
	if loc := ExtractLocation(text); loc != "" {
		return loc
	}
	if loc := strings.TrimSpace(el.Find(`[class*="location"], [class*="venue"], [class*="address"]`).First().Text()); loc != "" {
		return loc
	}
	return strings.TrimSpace(el.Find("address").First().Text())
}

func containerTime(el *goquery.Selection, text string) string {
	if t := ExtractTime(text); t != "" {
		return t
	}
	return strings.TrimSpace(el.Find(`[class*="time"]`).First().Text())
}

func containerDescription(el *goquery.Selection, text string) string {
	if d := strings.TrimSpace(el.Find(`p, .description, [class*="desc"]`).First().Text()); d != "" {
		return d
	}
	return remainingLines(text, 1, 4)
}
