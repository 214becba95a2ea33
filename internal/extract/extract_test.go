package extract

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"github.com/ekulkisnek/chi-events-pro/internal/events"
)

var testRef = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

func docFromHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestJSONLDExtractsEventNodes(t *testing.T) {
	html := `<html><head><script type="application/ld+json">
	{
	  "@context": "https://schema.org",
	  "@graph": [
	    {"@type": "Event", "name": "Jazz Night", "startDate": "2025-09-21T19:00:00",
	     "location": {"@type": "Place", "name": "Harris Theater"},
	     "url": "https://example.test/events/jazz",
	     "description": "An evening of jazz.",
	     "offers": {"price": "25.00"}},
	    {"@type": "Organization", "name": "Not An Event"}
	  ]
	}
	</script></head><body></body></html>`

	got := JSONLD{}.Extract(context.Background(), docFromHTML(t, html), "https://example.test/calendar")
	require.Len(t, got, 1)
	require.Equal(t, "Jazz Night", got[0].Title)
	require.Equal(t, "2025-09-21T19:00:00", got[0].DateText)
	require.Equal(t, "Harris Theater", got[0].Location)
	require.Equal(t, "https://example.test/events/jazz", got[0].EventURL)
	require.Equal(t, "25.00", got[0].Price)
	require.Equal(t, "https://example.test/calendar", got[0].SourceURL)
}

func TestJSONLDTypeList(t *testing.T) {
	html := `<script type="application/ld+json">
	{"@type": ["Event", "Festival"], "name": "Summer Fest", "startDate": "2025-07-04"}
	</script>`
	got := JSONLD{}.Extract(context.Background(), docFromHTML(t, html), "https://example.test/")
	require.Len(t, got, 1)
	require.Equal(t, "Summer Fest", got[0].Title)
	// no url field falls back to the page
	require.Equal(t, "https://example.test/", got[0].EventURL)
}

func TestJSONLDMalformedBlockSkipped(t *testing.T) {
	html := `<script type="application/ld+json">{not json}</script>
	<script type="application/ld+json">{"@type":"Event","name":"Survivor","startDate":"2025-05-01"}</script>`
	got := JSONLD{}.Extract(context.Background(), docFromHTML(t, html), "https://example.test/")
	require.Len(t, got, 1)
	require.Equal(t, "Survivor", got[0].Title)
}

func TestJSONLDAddressFallback(t *testing.T) {
	html := `<script type="application/ld+json">
	{"@type":"Event","name":"Block Party","startDate":"2025-06-01",
	 "location":{"@type":"Place","address":{"streetAddress":"123 Main St"}}}
	</script>`
	got := JSONLD{}.Extract(context.Background(), docFromHTML(t, html), "https://example.test/")
	require.Len(t, got, 1)
	require.Equal(t, "123 Main St", got[0].Location)
}

func TestMicrodataExtractsEventItems(t *testing.T) {
	html := `<div itemscope itemtype="https://schema.org/Event">
	  <h2 itemprop="name">Gallery Opening</h2>
	  <time itemprop="startDate" content="2025-04-12T18:00:00">April 12</time>
	  <span itemprop="location"><span itemprop="name">West Loop Gallery</span></span>
	  <a itemprop="url" href="/events/gallery-opening">Details</a>
	</div>`
	got := Microdata{}.Extract(context.Background(), docFromHTML(t, html), "https://example.test/whats-on")
	require.Len(t, got, 1)
	require.Equal(t, "Gallery Opening", got[0].Title)
	require.Equal(t, "2025-04-12T18:00:00", got[0].DateText)
	require.Equal(t, "West Loop Gallery", got[0].Location)
	require.Equal(t, "https://example.test/events/gallery-opening", got[0].EventURL)
}

func TestLikelyEvent(t *testing.T) {
	base := events.RawCandidate{
		Title:    "Jazz Night at the Green Mill",
		DateText: "Sep 21, 2025",
		EventURL: "https://example.test/events/jazz",
	}
	require.True(t, LikelyEvent(base, testRef))

	short := base
	short.Title = "Go"
	require.False(t, LikelyEvent(short, testRef))

	relative := base
	relative.EventURL = "/events/jazz"
	require.False(t, LikelyEvent(relative, testRef))

	undated := base
	undated.DateText = "see website for details"
	require.False(t, LikelyEvent(undated, testRef))

	stale := base
	stale.DateText = "2023-06-15"
	require.False(t, LikelyEvent(stale, testRef))
}

func TestResolveURL(t *testing.T) {
	require.Equal(t, "https://example.test/a/b", resolveURL("https://example.test/a/", "b"))
	require.Equal(t, "https://example.test/x", resolveURL("https://example.test/a/", "/x"))
	require.Equal(t, "https://other.test/y", resolveURL("https://example.test/", "https://other.test/y"))
	require.Equal(t, "https://example.test/a", resolveURL("https://example.test/a", ""))
}

func TestExtractDate(t *testing.T) {
	require.Equal(t, "2025-09-21", ExtractDate("Join us Sep 21, 2025 for music", testRef))
	require.Equal(t, "2025-09-21", ExtractDate("Coming up: September 21", testRef))
	require.Equal(t, "2025-04-05", ExtractDate("Doors open 4/5/2025 downtown", testRef))
	require.Equal(t, "tomorrow", ExtractDate("Happening tomorrow night", testRef))
	require.Equal(t, "", ExtractDate("No schedule information here", testRef))
}

func TestExtractTime(t *testing.T) {
	require.Equal(t, "7:30 PM", ExtractTime("Doors at 7:30 PM sharp"))
	require.Equal(t, "9pm", ExtractTime("show starts 9pm"))
	require.Equal(t, "", ExtractTime("no times mentioned"))
}

func TestExtractLocation(t *testing.T) {
	require.Equal(t, "Millennium Park", ExtractLocation("Concert at Millennium Park tonight"))
	require.Equal(t, "Harris Theater", ExtractLocation("Harris Theater presents"))
	require.Equal(t, "", ExtractLocation("somewhere nice"))
}

func TestExtractPrice(t *testing.T) {
	require.Equal(t, "$15", ExtractPrice("Tickets $15 at the door"))
	require.Equal(t, "Free", ExtractPrice("Free admission all day"))
	require.Equal(t, "", ExtractPrice("no cost info"))
}
