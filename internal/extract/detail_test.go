package extract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubFetcher struct {
	pages map[string]string
}

func (s stubFetcher) Fetch(_ context.Context, url string) (string, error) {
	body, ok := s.pages[url]
	if !ok {
		return "", errors.New("unreachable")
	}
	return body, nil
}

func TestEnricherFillsFieldsFromDetailPage(t *testing.T) {
	page := `<html><head>
	  <title>Jazz Night | Example Venue</title>
	  <meta name="description" content="A full evening of live jazz.">
	</head><body>
	  <h1>Jazz Night at the Green Mill</h1>
	  <div class="event-date">September 21, 2025</div>
	  <div class="venue-info">Green Mill Cocktail Lounge</div>
	  <p>Doors at 7:30 PM.</p>
	</body></html>`

	e := NewEnricher(stubFetcher{pages: map[string]string{
		"https://example.test/events/jazz": page,
	}}, zap.NewNop(), testRef)

	got, ok := e.Enrich(context.Background(), "https://example.test/events/jazz")
	require.True(t, ok)
	require.Equal(t, "Jazz Night at the Green Mill", got.Title)
	require.Equal(t, "2025-09-21", got.DateText)
	require.Equal(t, "A full evening of live jazz.", got.Description)
	require.Equal(t, "Green Mill Cocktail Lounge", got.Location)
	require.Equal(t, "https://example.test/events/jazz", got.EventURL)
}

func TestEnricherTitleFallsBackToPageTitle(t *testing.T) {
	page := `<html><head><title>Spring Gala | Example Org</title></head>
	<body><p>Join us April 18, 2025 for the gala.</p></body></html>`

	e := NewEnricher(stubFetcher{pages: map[string]string{
		"https://example.test/events/gala": page,
	}}, zap.NewNop(), testRef)

	got, ok := e.Enrich(context.Background(), "https://example.test/events/gala")
	require.True(t, ok)
	require.Equal(t, "Spring Gala", got.Title)
	require.Equal(t, "2025-04-18", got.DateText)
}

func TestEnricherRejectsFetchFailureAndEmptyTitle(t *testing.T) {
	e := NewEnricher(stubFetcher{}, zap.NewNop(), testRef)
	_, ok := e.Enrich(context.Background(), "https://example.test/missing")
	require.False(t, ok)

	e = NewEnricher(stubFetcher{pages: map[string]string{
		"https://example.test/bare": `<html><body><div>no heading</div></body></html>`,
	}}, zap.NewNop(), testRef)
	_, ok = e.Enrich(context.Background(), "https://example.test/bare")
	require.False(t, ok)
}

func TestCalendarExtractsLinkedICS(t *testing.T) {
	ics := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//example//calendar//EN",
		"BEGIN:VEVENT",
		"UID:1@example.test",
		"DTSTART:20250921T190000Z",
		"SUMMARY:Jazz Night",
		"LOCATION:Harris Theater",
		"URL:https://example.test/events/jazz",
		"END:VEVENT",
		"END:VCALENDAR",
		"",
	}, "\r\n")

	page := `<html><body><a href="/feeds/events.ics">Subscribe</a></body></html>`
	cal := NewCalendar(stubFetcher{pages: map[string]string{
		"https://example.test/feeds/events.ics": ics,
	}}, zap.NewNop())

	got := cal.Extract(context.Background(), docFromHTML(t, page), "https://example.test/whats-on")
	require.Len(t, got, 1)
	require.Equal(t, "Jazz Night", got[0].Title)
	require.Equal(t, "2025-09-21T19:00:00Z", got[0].DateText)
	require.Equal(t, "Harris Theater", got[0].Location)
	require.Equal(t, "https://example.test/events/jazz", got[0].EventURL)
	require.Equal(t, "https://example.test/whats-on", got[0].SourceURL)
}

func TestCalendarSkipsUnfetchableResource(t *testing.T) {
	page := `<html><body><a href="/feeds/gone.ics">Subscribe</a></body></html>`
	cal := NewCalendar(stubFetcher{}, zap.NewNop())
	got := cal.Extract(context.Background(), docFromHTML(t, page), "https://example.test/")
	require.Empty(t, got)
}
