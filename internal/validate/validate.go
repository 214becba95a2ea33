// Package validate computes the dataset quality gate: the fraction of
// records passing the full admission predicate, with a hard threshold that
// fails the build.
package validate

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/ekulkisnek/chi-events-pro/internal/events"
	"github.com/ekulkisnek/chi-events-pro/internal/temporal"
)

// Threshold is the minimum fraction of valid records for a passing build.
const Threshold = 0.60

// ErrDatasetQuality is returned when validity falls below Threshold. It is
// the only pipeline error that should produce a non-zero exit.
type ErrDatasetQuality struct {
	Summary Summary
}

func (e *ErrDatasetQuality) Error() string {
	return fmt.Sprintf("dataset quality %.1f%% below %.0f%% threshold (%d/%d valid)",
		e.Summary.PctValid*100, Threshold*100, e.Summary.Valid, e.Summary.Total)
}

// Summary is the machine-readable validation result.
type Summary struct {
	Total        int     `json:"total"`
	Valid        int     `json:"valid"`
	PctValid     float64 `json:"pct_valid"`
	MissingTime  int     `json:"missing_time"`
	MissingPlace int     `json:"missing_place"`
	MissingDesc  int     `json:"missing_desc"`
}

var httpSchemeRe = regexp.MustCompile(`^https?://`)

// Check computes the validation summary without judging it.
func Check(records []events.Event, now time.Time) Summary {
	s := Summary{Total: len(records)}
	for _, e := range records {
		title := len(strings.TrimSpace(e.Title)) > 3
		link := httpSchemeRe.MatchString(e.CanonicalURL())
		place := len(strings.TrimSpace(e.Location)) > 3
		desc := len(strings.TrimSpace(e.Description)) > 10
		dated := e.Timestamp != "" || temporal.PlausibleText(e.DateInfo, now)

		if !dated {
			s.MissingTime++
		}
		if !place {
			s.MissingPlace++
		}
		if !desc {
			s.MissingDesc++
		}
		if title && link && place && desc && dated {
			s.Valid++
		}
	}
	if s.Total > 0 {
		s.PctValid = float64(s.Valid) / float64(s.Total)
	}
	return s
}

// Validate runs Check and enforces the threshold. An empty dataset fails.
func Validate(records []events.Event, now time.Time) (Summary, error) {
	s := Check(records, now)
	if s.Total == 0 || s.PctValid < Threshold {
		return s, &ErrDatasetQuality{Summary: s}
	}
	return s, nil
}

// DomainReport summarizes quality per source domain, sorted by volume.
type DomainReport struct {
	Domain      string `json:"domain"`
	Total       int    `json:"total"`
	Valid       int    `json:"valid"`
	MissingDesc int    `json:"missing_desc"`
}

// ByDomain groups records by event URL host and reports per-domain quality,
// largest domains first.
func ByDomain(records []events.Event, now time.Time) []DomainReport {
	byHost := make(map[string][]events.Event)
	for _, e := range records {
		byHost[hostOf(e.CanonicalURL())] = append(byHost[hostOf(e.CanonicalURL())], e)
	}

	out := make([]DomainReport, 0, len(byHost))
	for host, set := range byHost {
		s := Check(set, now)
		out = append(out, DomainReport{
			Domain:      host,
			Total:       s.Total,
			Valid:       s.Valid,
			MissingDesc: s.MissingDesc,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Domain < out[j].Domain
	})
	return out
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "unknown"
	}
	return strings.ToLower(u.Hostname())
}
