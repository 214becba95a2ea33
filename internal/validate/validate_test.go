package validate

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ekulkisnek/chi-events-pro/internal/events"
)

var testNow = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

func valid(title string) events.Event {
	return events.Event{
		Title:       title,
		DateInfo:    "Sep 21, 2025",
		Location:    "Harris Theater",
		Description: "An evening of live jazz with a rotating quartet.",
		EventURL:    "https://example.test/events/" + title,
	}
}

func TestCheckCountsMissingFields(t *testing.T) {
	noPlace := valid("a")
	noPlace.Location = ""
	noDesc := valid("b")
	noDesc.Description = "thin"
	noDate := valid("c")
	noDate.DateInfo = "sometime soon"

	s := Check([]events.Event{valid("ok"), noPlace, noDesc, noDate}, testNow)
	require.Equal(t, 4, s.Total)
	require.Equal(t, 1, s.Valid)
	require.Equal(t, 1, s.MissingPlace)
	require.Equal(t, 1, s.MissingDesc)
	require.Equal(t, 1, s.MissingTime)
	require.InDelta(t, 0.25, s.PctValid, 1e-9)
}

func TestCheckAcceptsTimestampWithoutDateText(t *testing.T) {
	rec := valid("stamped")
	rec.DateInfo = ""
	rec.Timestamp = "2025-09-21T19:00:00Z"

	s := Check([]events.Event{rec}, testNow)
	require.Equal(t, 1, s.Valid)
}

func TestValidatePassesAboveThreshold(t *testing.T) {
	records := []events.Event{valid("a"), valid("b"), {Title: "junk"}}
	s, err := Validate(records, testNow)
	require.NoError(t, err)
	require.InDelta(t, 2.0/3.0, s.PctValid, 1e-9)
}

func TestValidateFailsBelowThreshold(t *testing.T) {
	records := []events.Event{valid("a"), {Title: "junk"}, {Title: "more junk"}}
	_, err := Validate(records, testNow)
	require.Error(t, err)

	var qualityErr *ErrDatasetQuality
	require.True(t, errors.As(err, &qualityErr))
	require.Equal(t, 1, qualityErr.Summary.Valid)
}

func TestValidateFailsEmptyDataset(t *testing.T) {
	_, err := Validate(nil, testNow)
	require.Error(t, err)
}

func TestByDomainSortsByVolume(t *testing.T) {
	records := []events.Event{
		valid("a"), valid("b"),
		{
			Title:       "Offsite Show",
			DateInfo:    "Sep 21, 2025",
			Location:    "Navy Pier",
			Description: "Fireworks over the lake, weather permitting.",
			EventURL:    "https://other.test/events/fireworks",
		},
	}

	got := ByDomain(records, testNow)
	require.Len(t, got, 2)
	require.Equal(t, "example.test", got[0].Domain)
	require.Equal(t, 2, got[0].Total)
	require.Equal(t, "other.test", got[1].Domain)
	require.Equal(t, 1, got[1].Valid)
}
