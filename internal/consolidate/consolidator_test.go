package consolidate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ekulkisnek/chi-events-pro/internal/events"
)

var testNow = time.Date(2024, time.December, 1, 12, 0, 0, 0, time.UTC)

func wellFormed() events.Event {
	return events.Event{
		Title:       "Jazz Night",
		DateInfo:    "Jan 5, 2025",
		Location:    "The Green Mill",
		Description: "An evening of live jazz with a rotating quartet.",
		EventURL:    "https://example.test/events/jazz",
	}
}

func TestConsolidateAdmitsWellFormedRecord(t *testing.T) {
	c := New(zap.NewNop(), testNow)
	got := c.Consolidate([]events.Event{wellFormed()})
	require.Len(t, got, 1)
	require.Equal(t, "2025-01-05T00:00:00Z", got[0].Timestamp)
	require.NotEmpty(t, got[0].ID)
}

func TestConsolidateRejectsBannedTitles(t *testing.T) {
	c := New(zap.NewNop(), testNow)
	rec := wellFormed()
	rec.Title = "FOIA Request Guide"
	require.Empty(t, c.Consolidate([]events.Event{rec}))
}

func TestConsolidateTrustedSourceFallback(t *testing.T) {
	c := New(zap.NewNop(), testNow)

	trusted := wellFormed()
	trusted.Location = ""
	trusted.EventURL = "https://do312.com/events/jazz"
	got := c.Consolidate([]events.Event{trusted})
	require.Len(t, got, 1)
	require.Equal(t, FallbackLocation, got[0].Location)

	untrusted := wellFormed()
	untrusted.Location = ""
	untrusted.EventURL = "https://example-blog.test/events/jazz"
	require.Empty(t, c.Consolidate([]events.Event{untrusted}))
}

func TestConsolidateLocationLengthBoundary(t *testing.T) {
	c := New(zap.NewNop(), testNow)

	// A three-character location does not count as present.
	short := wellFormed()
	short.Location = "MCA"
	require.Empty(t, c.Consolidate([]events.Event{short}))

	// Trusted sources get the fallback at the same boundary.
	trusted := wellFormed()
	trusted.Location = "MCA"
	trusted.EventURL = "https://do312.com/events/jazz"
	got := c.Consolidate([]events.Event{trusted})
	require.Len(t, got, 1)
	require.Equal(t, FallbackLocation, got[0].Location)

	// Four characters is enough.
	long := wellFormed()
	long.Location = "Dojo"
	require.Len(t, c.Consolidate([]events.Event{long}), 1)
}

func TestConsolidateRetentionWindow(t *testing.T) {
	c := New(zap.NewNop(), testNow)

	stale := wellFormed()
	stale.DateInfo = testNow.AddDate(0, 0, -400).Format("2006-01-02")
	require.Empty(t, c.Consolidate([]events.Event{stale}))

	recent := wellFormed()
	recent.DateInfo = testNow.AddDate(0, 0, -30).Format("2006-01-02")
	require.Len(t, c.Consolidate([]events.Event{recent}), 1)
}

func TestConsolidateDedupFirstWins(t *testing.T) {
	c := New(zap.NewNop(), testNow)

	first := wellFormed()
	second := wellFormed()
	second.Description = "A different description from a second source entirely."

	got := c.Consolidate([]events.Event{first}, []events.Event{second})
	require.Len(t, got, 1)
	require.Equal(t, first.Description, got[0].Description)
}

func TestConsolidateIdempotent(t *testing.T) {
	c := New(zap.NewNop(), testNow)

	inputs := []events.Event{wellFormed()}
	other := wellFormed()
	other.Title = "Winter Market"
	other.DateInfo = "Dec 14, 2024"
	inputs = append(inputs, other)

	once := c.Consolidate(inputs)
	twice := c.Consolidate(once)
	require.Equal(t, once, twice)
}

func TestConsolidateSortsSoonestFirst(t *testing.T) {
	c := New(zap.NewNop(), testNow)

	late := wellFormed()
	late.Title = "Spring Gala"
	late.DateInfo = "Apr 18, 2025"
	early := wellFormed()
	early.Title = "Winter Market"
	early.DateInfo = "Dec 14, 2024"

	got := c.Consolidate([]events.Event{late, early})
	require.Len(t, got, 2)
	require.Equal(t, "Winter Market", got[0].Title)
	require.Equal(t, "Spring Gala", got[1].Title)
}

func TestConsolidateFoldsURLAliases(t *testing.T) {
	c := New(zap.NewNop(), testNow)
	rec := wellFormed()
	rec.EventURL = ""
	rec.URL = "https://example.test/events/alias"

	got := c.Consolidate([]events.Event{rec})
	require.Len(t, got, 1)
	require.Equal(t, "https://example.test/events/alias", got[0].EventURL)
	require.Empty(t, got[0].URL)
}

func TestConsolidateDropsJunkFields(t *testing.T) {
	c := New(zap.NewNop(), testNow)
	rec := wellFormed()
	rec.Description = "#cds-separator #cds-separator"

	// Junk description empties the field and the record fails admission.
	require.Empty(t, c.Consolidate([]events.Event{rec}))
}

func TestTrustedSource(t *testing.T) {
	require.True(t, TrustedSource("https://do312.com/events/1"))
	require.True(t, TrustedSource("https://www.navypier.org/whats-happening"))
	require.False(t, TrustedSource("https://example-blog.test/events/1"))
	require.False(t, TrustedSource("https://do312.com.evil.test/x"))
	require.False(t, TrustedSource("not a url"))
}
