package extract

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ekulkisnek/chi-events-pro/internal/events"
)

// Microdata extracts events from elements carrying an Event itemtype,
// reading itemprop children by content attribute, href, or text, in that
// order.
type Microdata struct{}

// Name implements Extractor.
func (Microdata) Name() string { return "microdata" }

// Extract implements Extractor.
func (Microdata) Extract(_ context.Context, doc *goquery.Document, pageURL string) []events.RawCandidate {
	var out []events.RawCandidate
	doc.Find(`[itemtype*="Event"]`).Each(func(_ int, root *goquery.Selection) {
		eventURL := itemProp(root, `[itemprop="url"]`)
		if eventURL == "" {
			eventURL = pageURL
		} else {
			eventURL = resolveURL(pageURL, eventURL)
		}
		out = append(out, events.RawCandidate{
			Title:       itemProp(root, `[itemprop="name"]`),
			Description: itemProp(root, `[itemprop="description"]`),
			DateText:    itemProp(root, `[itemprop="startDate"]`),
			Location:    itemProp(root, `[itemprop="location"] [itemprop="name"], [itemprop="location"]`),
			EventURL:    eventURL,
			Category:    itemProp(root, `[itemprop="eventType"]`),
			SourceURL:   pageURL,
		})
	})
	return out
}

func itemProp(root *goquery.Selection, selector string) string {
	s := root.Find(selector).First()
	if content, ok := s.Attr("content"); ok && strings.TrimSpace(content) != "" {
		return strings.TrimSpace(content)
	}
	if href, ok := s.Attr("href"); ok && strings.TrimSpace(href) != "" {
		return strings.TrimSpace(href)
	}
	return strings.TrimSpace(s.Text())
}
