// Package events defines the raw extractor output and the canonical event
// record persisted to the dataset.
package events

import "time"

// RawCandidate is unvalidated extractor output. Every field except SourceURL
// is optional free text; extractors map whatever aliases a site uses
// (name, startDate, venue, link, ...) onto these fields before normalization.
type RawCandidate struct {
	Title       string
	DateText    string
	TimeText    string
	Location    string
	Description string
	EventURL    string
	Category    string
	Price       string
	SourceURL   string
}

// Event is the canonical record served to the map UI. Field names follow the
// published dataset contract, so the JSON tags are load-bearing.
type Event struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	DateInfo    string `json:"date_info,omitempty"`
	TimeStart   string `json:"time_start,omitempty"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
	EventURL    string `json:"event_url,omitempty"`
	Category    string `json:"category,omitempty"`
	Price       string `json:"price,omitempty"`

	// Timestamp is the resolved sortable instant in RFC 3339, or empty when
	// the date text never resolved.
	Timestamp string `json:"_ts,omitempty"`

	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	// Provenance, write-once at creation.
	Source           string `json:"source,omitempty"`
	SourceURL        string `json:"source_url,omitempty"`
	ScrapedAt        string `json:"scraped_at,omitempty"`
	ExtractionMethod string `json:"extraction_method,omitempty"`
	RunID            string `json:"run_id,omitempty"`

	// Alias fields seen in older dataset files. Consolidation folds them
	// into EventURL and never writes them back.
	URL  string `json:"url,omitempty"`
	Link string `json:"link,omitempty"`
}

// Provenance stamps the write-once origin metadata onto a record.
type Provenance struct {
	Source    string
	SourceURL string
	Method    string
	RunID     string
	ScrapedAt time.Time
}

// Normalize maps a raw candidate onto the canonical shape: every text field is
// sanitized, the URL is trimmed as-is, and the fingerprint is computed from
// the sanitized title/date/location triple.
func Normalize(raw RawCandidate, prov Provenance) Event {
	e := Event{
		Title:            Sanitize(raw.Title),
		DateInfo:         Sanitize(raw.DateText),
		TimeStart:        Sanitize(raw.TimeText),
		Location:         Sanitize(raw.Location),
		Description:      Sanitize(raw.Description),
		EventURL:         trimmed(raw.EventURL),
		Category:         Sanitize(raw.Category),
		Price:            Sanitize(raw.Price),
		Source:           prov.Source,
		SourceURL:        prov.SourceURL,
		ExtractionMethod: prov.Method,
		RunID:            prov.RunID,
	}
	if !prov.ScrapedAt.IsZero() {
		e.ScrapedAt = prov.ScrapedAt.UTC().Format(time.RFC3339)
	}
	e.ID = Fingerprint(e.Title, e.DateInfo, e.Location)
	return e
}

// CanonicalURL returns the event URL, falling back through the alias fields
// older dataset files used.
func (e Event) CanonicalURL() string {
	for _, u := range []string{e.EventURL, e.URL, e.Link, e.SourceURL} {
		if u != "" {
			return u
		}
	}
	return ""
}
