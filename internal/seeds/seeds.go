// Package seeds loads the crawl seed list and expands known listing sites
// into their paginated URLs, so a run covers more than each site's first
// page without needing on-page pagination discovery to succeed.
package seeds

import (
	"bufio"
	"fmt"
	"net/url"
	"os"
	"strings"
)

// pagination describes how one site paginates its listings: a query
// parameter (`?page=N`) or a path segment (`/page/N/`).
type pagination struct {
	param    string // query parameter name, empty for path style
	pathSeg  bool
	lastPage int
}

// Pagination schemes observed per site. Pages start at 2; page 1 is the
// seed itself.
var domainPatterns = map[string]pagination{
	"do312.com":               {param: "page", lastPage: 20},
	"timeout.com":             {param: "page", lastPage: 20},
	"choosechicago.com":       {pathSeg: true, lastPage: 30},
	"chicagomag.com":          {param: "_page", lastPage: 20},
	"chicagoparkdistrict.com": {param: "page", lastPage: 30},
	"chipublib.org":           {param: "page", lastPage: 20},
	"lpzoo.org":               {pathSeg: true, lastPage: 10},
	"navypier.org":            {pathSeg: true, lastPage: 12},
	"uchicago.edu":            {param: "page", lastPage: 20},
	"northwestern.edu":        {param: "page", lastPage: 20},
	"depaul.edu":              {param: "page", lastPage: 20},
	"uic.edu":                 {param: "page", lastPage: 20},
}

// Load reads a newline-delimited seed file, trimming whitespace and
// skipping blank lines and # comments.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seeds: %w", err)
	}
	defer f.Close()

	var out []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read seeds: %w", err)
	}
	return out, nil
}

// Expand returns the seed list with per-site pagination URLs appended.
// Seeds on sites without a known scheme pass through unchanged. Output
// preserves order and is deduplicated.
func Expand(seedURLs []string) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(s string) {
		if _, dup := seen[s]; dup {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	for _, seed := range seedURLs {
		add(seed)
		scheme, ok := patternFor(seed)
		if !ok {
			continue
		}
		for page := 2; page <= scheme.lastPage; page++ {
			if expanded := paginate(seed, scheme, page); expanded != "" {
				add(expanded)
			}
		}
	}
	return out
}

func patternFor(seed string) (pagination, bool) {
	u, err := url.Parse(seed)
	if err != nil {
		return pagination{}, false
	}
	host := strings.ToLower(u.Hostname())
	for domain, scheme := range domainPatterns {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return scheme, true
		}
	}
	return pagination{}, false
}

func paginate(seed string, scheme pagination, page int) string {
	u, err := url.Parse(seed)
	if err != nil {
		return ""
	}
	if scheme.pathSeg {
		u.Path = strings.TrimSuffix(u.Path, "/") + fmt.Sprintf("/page/%d/", page)
		return u.String()
	}
	q := u.Query()
	q.Set(scheme.param, fmt.Sprintf("%d", page))
	u.RawQuery = q.Encode()
	return u.String()
}

// Write persists an expanded seed list, one URL per line.
func Write(path string, seedURLs []string) error {
	body := strings.Join(seedURLs, "\n") + "\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return fmt.Errorf("write seeds: %w", err)
	}
	return nil
}
