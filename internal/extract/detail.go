package extract

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/ekulkisnek/chi-events-pro/internal/events"
)

// Enricher fetches an event detail page and rebuilds a candidate from it.
// Detail pages usually carry a fuller title, a real description, and the
// date a listing card only hinted at.
type Enricher struct {
	client Fetcher
	logger *zap.Logger
	ref    time.Time
}

// NewEnricher builds an enricher over the shared fetcher.
func NewEnricher(client Fetcher, logger *zap.Logger, ref time.Time) *Enricher {
	return &Enricher{client: client, logger: logger, ref: ref}
}

// Enrich fetches eventURL and extracts detail-page fields. The boolean is
// false when the fetch fails or the page yields no usable title.
func (e *Enricher) Enrich(ctx context.Context, eventURL string) (events.RawCandidate, bool) {
	body, err := e.client.Fetch(ctx, eventURL)
	if err != nil {
		e.logger.Debug("detail fetch failed", zap.String("url", eventURL), zap.Error(err))
		return events.RawCandidate{}, false
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return events.RawCandidate{}, false
	}

	title := detailTitle(doc)
	if len(title) <= 3 {
		return events.RawCandidate{}, false
	}

	return events.RawCandidate{
		Title:       events.Truncate(title, 200),
		DateText:    detailDate(doc, e.ref),
		TimeText:    events.Truncate(ExtractTime(doc.Text()), 20),
		Location:    events.Truncate(detailLocation(doc), 200),
		Description: events.Truncate(detailDescription(doc), 500),
		EventURL:    eventURL,
		SourceURL:   eventURL,
	}, true
}

func detailTitle(doc *goquery.Document) string {
	if t := strings.TrimSpace(doc.Find("h1").First().Text()); t != "" {
		return t
	}
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		// Page titles tend to end in "| Site Name"; keep the event part.
		return strings.TrimSpace(strings.SplitN(t, "|", 2)[0])
	}
	if t, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		return strings.TrimSpace(t)
	}
	return ""
}

func detailDescription(doc *goquery.Document) string {
	if d, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok && strings.TrimSpace(d) != "" {
		return strings.TrimSpace(d)
	}
	if d, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok && strings.TrimSpace(d) != "" {
		return strings.TrimSpace(d)
	}
	return strings.TrimSpace(doc.Find("p").First().Text())
}

func detailLocation(doc *goquery.Document) string {
	if loc := strings.TrimSpace(doc.Find(`[class*="location"], [class*="venue"], [class*="address"]`).First().Text()); loc != "" {
		return loc
	}
	if loc := strings.TrimSpace(doc.Find("address").First().Text()); loc != "" {
		return loc
	}
	return ExtractLocation(doc.Text())
}

// detailDate prefers date-classed elements over a whole-page scan so that
// unrelated dates in footers or article bylines do not win.
func detailDate(doc *goquery.Document, ref time.Time) string {
	var fromClass string
	doc.Find(`[class*="date"], [class*="time"], time`).EachWithBreak(func(_ int, el *goquery.Selection) bool {
		text := strings.TrimSpace(el.Text())
		if text == "" {
			if dt, ok := el.Attr("datetime"); ok {
				text = strings.TrimSpace(dt)
			}
		}
		if text == "" {
			return true
		}
		if d := ExtractDate(text, ref); d != "" {
			fromClass = d
			return false
		}
		if fromClass == "" {
			fromClass = events.Truncate(text, 50)
		}
		return true
	})
	if fromClass != "" {
		return fromClass
	}
	return ExtractDate(doc.Text(), ref)
}
