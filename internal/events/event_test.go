package events

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFingerprintDeterministic(t *testing.T) {
	a := Fingerprint("Jazz Night", "Jan 5, 2025", "The Green Mill")
	b := Fingerprint("Jazz Night", "Jan 5, 2025", "The Green Mill")
	require.Equal(t, a, b)
	require.Len(t, a, 16)
}

func TestFingerprintCaseAndSpaceInsensitive(t *testing.T) {
	a := Fingerprint("Jazz Night", "Jan 5, 2025", "The Green Mill")
	b := Fingerprint("  JAZZ NIGHT ", "Jan 5, 2025", "the green mill")
	require.Equal(t, a, b)
}

func TestFingerprintChangesWithAnyField(t *testing.T) {
	base := Fingerprint("Jazz Night", "Jan 5, 2025", "The Green Mill")
	require.NotEqual(t, base, Fingerprint("Blues Night", "Jan 5, 2025", "The Green Mill"))
	require.NotEqual(t, base, Fingerprint("Jazz Night", "Jan 6, 2025", "The Green Mill"))
	require.NotEqual(t, base, Fingerprint("Jazz Night", "Jan 5, 2025", "Thalia Hall"))
}

func TestSanitizeStripsMarkupResidue(t *testing.T) {
	cases := map[string]string{
		"  Jazz   Night  ":                         "Jazz Night",
		"<b>Jazz</b> Night":                        "Jazz Night",
		"Jazz Night .cls{color:red} after":         "Jazz Night .cls after",
		"Jazz Night #cds-separator trailing":       "Jazz Night trailing",
		"plain text":                               "plain text",
		"line\nbreaks\tand   spaces":               "line breaks and spaces",
		"<div class=\"card\">Title</div> tomorrow": "Title tomorrow",
	}
	for in, want := range cases {
		require.Equal(t, want, Sanitize(in), "input %q", in)
	}
}

func TestSanitizeCapsLength(t *testing.T) {
	long := strings.Repeat("a", 5000)
	require.Len(t, Sanitize(long), 2000)
}

func TestNormalizeStampsProvenanceAndID(t *testing.T) {
	scraped := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	got := Normalize(RawCandidate{
		Title:     " <b>Jazz Night</b> ",
		DateText:  "Jan 5, 2025",
		Location:  "The Green Mill",
		EventURL:  " https://example.org/events/jazz ",
		SourceURL: "https://example.org/events",
	}, Provenance{
		Source:    "crawler",
		SourceURL: "https://example.org/events",
		Method:    "jsonld",
		RunID:     "run-1",
		ScrapedAt: scraped,
	})

	require.Equal(t, "Jazz Night", got.Title)
	require.Equal(t, "https://example.org/events/jazz", got.EventURL)
	require.Equal(t, "jsonld", got.ExtractionMethod)
	require.Equal(t, "2025-01-02T03:04:05Z", got.ScrapedAt)
	require.Equal(t, Fingerprint("Jazz Night", "Jan 5, 2025", "The Green Mill"), got.ID)
}

func TestCanonicalURLFallsBackThroughAliases(t *testing.T) {
	require.Equal(t, "https://a.test/", Event{EventURL: "https://a.test/"}.CanonicalURL())
	require.Equal(t, "https://b.test/", Event{URL: "https://b.test/"}.CanonicalURL())
	require.Equal(t, "https://c.test/", Event{Link: "https://c.test/"}.CanonicalURL())
	require.Equal(t, "https://d.test/", Event{SourceURL: "https://d.test/"}.CanonicalURL())
	require.Empty(t, Event{}.CanonicalURL())
}
