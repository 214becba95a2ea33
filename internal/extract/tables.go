package extract

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ekulkisnek/chi-events-pro/internal/events"
)

// TableScan treats table rows as candidate records: a row with at least two
// cells and a plausible date somewhere in its text. The first substantial
// cell supplies the title, preferring a linked one.
type TableScan struct {
	ref time.Time
}

// NewTableScan builds a scan anchored at the given reference time.
func NewTableScan(ref time.Time) *TableScan {
	return &TableScan{ref: ref}
}

// Name implements Extractor.
func (*TableScan) Name() string { return "tables" }

// Extract implements Extractor.
func (t *TableScan) Extract(_ context.Context, doc *goquery.Document, pageURL string) []events.RawCandidate {
	var out []events.RawCandidate
	seen := make(map[string]struct{})
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		rows := table.Find("tr")
		if rows.Length() < 2 {
			return
		}
		rows.Each(func(_ int, row *goquery.Selection) {
			cells := row.Find("td, th")
			if cells.Length() < 2 {
				return
			}
			text := row.Text()
			dateText := ExtractDate(text, t.ref)
			if dateText == "" {
				return
			}

			title, location, eventURL := scanRowCells(cells, pageURL)
			if len(title) < 3 {
				return
			}
			key := dedupKey(title, dateText)
			if _, dup := seen[key]; dup {
				return
			}
			seen[key] = struct{}{}

			out = append(out, events.RawCandidate{
				Title:       events.Truncate(title, 200),
				DateText:    dateText,
				TimeText:    events.Truncate(ExtractTime(text), 20),
				Location:    events.Truncate(location, 200),
				Description: events.Truncate(strings.TrimSpace(text), 500),
				EventURL:    eventURL,
				SourceURL:   pageURL,
			})
		})
	})
	return out
}

func scanRowCells(cells *goquery.Selection, pageURL string) (title, location, eventURL string) {
	eventURL = pageURL
	cells.Each(func(_ int, cell *goquery.Selection) {
		cellText := strings.TrimSpace(cell.Text())
		if title == "" && len(cellText) > 3 && len(cellText) < 200 {
			link := cell.Find("a").First()
			if link.Length() > 0 {
				title = strings.TrimSpace(link.Text())
				if href, ok := link.Attr("href"); ok && href != "" {
					eventURL = resolveURL(pageURL, href)
				}
			} else {
				title = cellText
			}
		}
		if location == "" {
			location = ExtractLocation(cellText)
		}
	})
	return title, location, eventURL
}
