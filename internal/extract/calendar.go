package extract

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"github.com/ekulkisnek/chi-events-pro/internal/events"
)

// Fetcher is the single capability the extractors need from the HTTP layer.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Calendar discovers linked .ics resources, fetches each through the shared
// (rate-limited) fetcher, and maps VEVENT components onto raw candidates.
// A resource that fails to fetch or parse is skipped; the rest still run.
type Calendar struct {
	client Fetcher
	logger *zap.Logger
}

// NewCalendar builds the calendar extractor.
func NewCalendar(client Fetcher, logger *zap.Logger) *Calendar {
	return &Calendar{client: client, logger: logger}
}

// Name implements Extractor.
func (c *Calendar) Name() string { return "ics" }

// Extract implements Extractor.
func (c *Calendar) Extract(ctx context.Context, doc *goquery.Document, pageURL string) []events.RawCandidate {
	var out []events.RawCandidate
	for _, href := range c.calendarLinks(doc, pageURL) {
		body, err := c.client.Fetch(ctx, href)
		if err != nil {
			c.logger.Debug("calendar fetch failed", zap.String("url", href), zap.Error(err))
			continue
		}
		cal, err := ics.ParseCalendar(strings.NewReader(body))
		if err != nil {
			c.logger.Debug("calendar parse failed", zap.String("url", href), zap.Error(err))
			continue
		}
		for _, ev := range cal.Events() {
			out = append(out, vEventCandidate(ev, pageURL))
		}
	}
	return out
}

func (c *Calendar) calendarLinks(doc *goquery.Document, pageURL string) []string {
	seen := make(map[string]struct{})
	var links []string
	doc.Find(`a[href$=".ics"], link[href$=".ics"]`).Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		resolved := resolveURL(pageURL, href)
		if resolved == pageURL {
			return
		}
		if _, dup := seen[resolved]; dup {
			return
		}
		seen[resolved] = struct{}{}
		links = append(links, resolved)
	})
	return links
}

func vEventCandidate(ev *ics.VEvent, pageURL string) events.RawCandidate {
	dateText := ""
	if start, err := ev.GetStartAt(); err == nil {
		dateText = start.UTC().Format(time.RFC3339)
	}
	eventURL := propValue(ev, ics.ComponentPropertyUrl)
	if eventURL == "" {
		eventURL = pageURL
	}
	return events.RawCandidate{
		Title:       propValue(ev, ics.ComponentPropertySummary),
		Description: propValue(ev, ics.ComponentPropertyDescription),
		DateText:    dateText,
		Location:    propValue(ev, ics.ComponentPropertyLocation),
		EventURL:    eventURL,
		SourceURL:   pageURL,
	}
}

func propValue(ev *ics.VEvent, name ics.ComponentProperty) string {
	prop := ev.GetProperty(name)
	if prop == nil {
		return ""
	}
	return prop.Value
}
