package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var paginationSelectors = []string{
	`a[href*="page"]`, `a[href*="p="]`, `a[href*="offset"]`, `a[href*="start="]`,
	`a[class*="next"]`, `a[class*="pagination"]`,
	`a[aria-label*="next"]`, `a[aria-label*="Next"]`,
	`a[title*="next"]`, `a[title*="Next"]`,
	`[class*="pagination"] a`, `[class*="pager"] a`, `[class*="load-more"]`,
	`a[href*="/page/"]`, `a[href*="?page="]`, `a[href*="&page="]`,
}

// MaxPaginationLinks caps how many additional listing pages one seed may
// surface per run. PaginationLinks applies it per call; the scheduler
// enforces it across a seed's whole run.
const MaxPaginationLinks = 10

// PaginationLinks scans for next/page/offset link patterns and returns
// additional listing pages for the scheduler, capped at MaxPaginationLinks.
func PaginationLinks(doc *goquery.Document, pageURL string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, selector := range paginationSelectors {
		doc.Find(selector).Each(func(_ int, link *goquery.Selection) {
			if len(out) >= MaxPaginationLinks {
				return
			}
			href := strings.TrimSpace(link.AttrOr("href", ""))
			if href == "" {
				return
			}
			resolved := resolveURL(pageURL, href)
			if resolved == pageURL || strings.Contains(resolved, "#") {
				return
			}
			if !strings.Contains(resolved, "page") &&
				!strings.Contains(resolved, "offset") &&
				!strings.Contains(resolved, "p=") {
				return
			}
			if _, dup := seen[resolved]; dup {
				return
			}
			seen[resolved] = struct{}{}
			out = append(out, resolved)
		})
	}
	return out
}
