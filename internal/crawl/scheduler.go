// Package crawl drives the per-seed fetch/extract loop: a FIFO frontier per
// seed, a shared visited set, per-host pacing, and a page budget. Seeds run
// on a bounded worker pool; each seed is internally serial.
package crawl

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ekulkisnek/chi-events-pro/internal/events"
	"github.com/ekulkisnek/chi-events-pro/internal/extract"
	"github.com/ekulkisnek/chi-events-pro/internal/metrics"
	"github.com/ekulkisnek/chi-events-pro/internal/temporal"
)

// Fetcher is the capability the scheduler needs from the HTTP layer.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Config controls a crawl run.
type Config struct {
	// MaxPagesPerSeed bounds how many pages one seed may visit, counting
	// listing, pagination, and outlink pages alike. Visits are charged when a
	// URL enters the visited set, so failed fetches consume budget too.
	MaxPagesPerSeed int
	// Concurrency bounds how many seeds run at once.
	Concurrency int
	// FollowLinks enables same-host event-path outlink enqueueing.
	FollowLinks bool
	// DetailBudget bounds detail-page enrichment fetches per seed.
	DetailBudget int
	// DetailDelay spaces enrichment fetches.
	DetailDelay time.Duration
	// PaginationDelay spaces fetches of pagination-discovered pages.
	PaginationDelay time.Duration
	// HostInterval is the minimum spacing between fetches to one host.
	HostInterval time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxPagesPerSeed <= 0 {
		c.MaxPagesPerSeed = 5
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 3
	}
	if c.DetailBudget <= 0 {
		c.DetailBudget = 50
	}
	if c.DetailDelay <= 0 {
		c.DetailDelay = 500 * time.Millisecond
	}
	if c.PaginationDelay <= 0 {
		c.PaginationDelay = 800 * time.Millisecond
	}
	if c.HostInterval <= 0 {
		c.HostInterval = time.Second
	}
	return c
}

// SeedStats summarizes one seed's share of a run.
type SeedStats struct {
	Seed       string `json:"seed"`
	Pages      int    `json:"pages"`
	Candidates int    `json:"candidates"`
	Admitted   int    `json:"admitted"`
}

// Crawler runs crawl batches. Safe for one Run at a time.
type Crawler struct {
	client Fetcher
	logger *zap.Logger
	cfg    Config
	now    func() time.Time

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// New builds a Crawler over the shared fetcher.
func New(client Fetcher, logger *zap.Logger, cfg Config) *Crawler {
	return &Crawler{
		client:   client,
		logger:   logger,
		cfg:      cfg.withDefaults(),
		now:      time.Now,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Run crawls every seed and returns the admitted records plus per-seed
// counters. Individual page failures are contained; Run only errors when the
// context is canceled before any work happens.
func (c *Crawler) Run(ctx context.Context, seedURLs []string) ([]events.Event, []SeedStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	runID := uuid.NewString()
	started := c.now()
	c.logger.Info("crawl starting",
		zap.String("run_id", runID),
		zap.Int("seeds", len(seedURLs)),
		zap.Int("max_pages", c.cfg.MaxPagesPerSeed),
	)

	visited := &visitSet{}
	results := make([][]events.Event, len(seedURLs))
	stats := make([]SeedStats, len(seedURLs))

	sem := make(chan struct{}, c.cfg.Concurrency)
	var wg sync.WaitGroup
	for i, seed := range seedURLs {
		wg.Add(1)
		go func(i int, seed string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i], stats[i] = c.crawlSeed(ctx, runID, seed, visited)
		}(i, seed)
	}
	wg.Wait()

	var all []events.Event
	for _, batch := range results {
		all = append(all, batch...)
	}
	c.logger.Info("crawl finished",
		zap.String("run_id", runID),
		zap.Int("events", len(all)),
		zap.Duration("elapsed", c.now().Sub(started)),
	)
	return all, stats, nil
}

type frontierPage struct {
	url            string
	fromPagination bool
}

func (c *Crawler) crawlSeed(ctx context.Context, runID, seed string, visited *visitSet) ([]events.Event, SeedStats) {
	stats := SeedStats{Seed: seed}
	ref := c.now()
	source := hostOf(seed)
	logger := c.logger.With(zap.String("seed", seed))

	structured := []extract.Extractor{
		extract.JSONLD{},
		extract.Microdata{},
		extract.NewCalendar(c.client, logger),
	}
	heuristic := []extract.Extractor{
		extract.NewContainerScan(ref),
		extract.NewTableScan(ref),
		extract.NewListScan(ref),
		extract.NewLinkScan(ref),
	}

	var (
		admitted    []events.Event
		enrichQueue []events.RawCandidate
		seen        = make(map[string]struct{})
	)
	admit := func(raw events.RawCandidate, method string) {
		key := strings.ToLower(strings.TrimSpace(raw.Title)) + "|" + strings.ToLower(strings.TrimSpace(raw.DateText))
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		admitted = append(admitted, events.Normalize(raw, events.Provenance{
			Source:    source,
			SourceURL: raw.SourceURL,
			Method:    method,
			RunID:     runID,
			ScrapedAt: c.now(),
		}))
		stats.Admitted++
		metrics.RecordAdmitted(source)
	}

	frontier := []frontierPage{{url: seed}}
	budget := 0
	paginationQueued := 0
	for len(frontier) > 0 && budget < c.cfg.MaxPagesPerSeed {
		if ctx.Err() != nil {
			break
		}
		page := frontier[0]
		frontier = frontier[1:]
		if !visited.markIfNew(page.url) {
			continue
		}
		budget++
		if page.fromPagination && !pause(ctx, c.cfg.PaginationDelay) {
			break
		}
		if !c.waitHost(ctx, page.url) {
			break
		}

		body, err := c.client.Fetch(ctx, page.url)
		if err != nil {
			// Failed pages stay visited; no requeue.
			logger.Warn("page fetch failed", zap.String("url", page.url), zap.Error(err))
			metrics.PageFailed(source)
			continue
		}
		stats.Pages++
		metrics.PageFetched(source)

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
		if err != nil {
			logger.Warn("page parse failed", zap.String("url", page.url), zap.Error(err))
			continue
		}

		for _, ex := range structured {
			cands := ex.Extract(ctx, doc, page.url)
			stats.Candidates += len(cands)
			metrics.Candidates(ex.Name(), len(cands))
			for _, raw := range cands {
				if extract.LikelyEvent(raw, ref) {
					admit(raw, ex.Name())
				}
			}
		}
		for _, ex := range heuristic {
			cands := ex.Extract(ctx, doc, page.url)
			stats.Candidates += len(cands)
			metrics.Candidates(ex.Name(), len(cands))
			for _, raw := range cands {
				switch {
				case extract.LikelyEvent(raw, ref):
					admit(raw, ex.Name())
				case ex.Name() == "links" && raw.EventURL != page.url:
					// Dateless anchors go to detail enrichment instead.
					enrichQueue = append(enrichQueue, raw)
				}
			}
		}

		for _, next := range extract.PaginationLinks(doc, page.url) {
			if paginationQueued >= extract.MaxPaginationLinks {
				break
			}
			paginationQueued++
			frontier = append(frontier, frontierPage{url: next, fromPagination: true})
		}
		if c.cfg.FollowLinks {
			for _, next := range extract.CandidateLinks(doc, page.url) {
				frontier = append(frontier, frontierPage{url: next})
			}
		}
	}

	c.enrich(ctx, logger, enrichQueue, ref, visited, admit)

	logger.Info("seed done",
		zap.Int("pages", stats.Pages),
		zap.Int("candidates", stats.Candidates),
		zap.Int("admitted", stats.Admitted),
	)
	return admitted, stats
}

// enrich dereferences dateless link candidates, merging whatever the detail
// page recovers, and re-applies the admission gate.
func (c *Crawler) enrich(ctx context.Context, logger *zap.Logger, queue []events.RawCandidate, ref time.Time, visited *visitSet, admit func(events.RawCandidate, string)) {
	if len(queue) == 0 {
		return
	}
	enricher := extract.NewEnricher(c.client, logger, ref)
	fetched := 0
	for _, raw := range queue {
		if fetched >= c.cfg.DetailBudget || ctx.Err() != nil {
			break
		}
		// Pages already crawled this run hold nothing new.
		if !visited.markIfNew(raw.EventURL) {
			continue
		}
		if fetched > 0 && !pause(ctx, c.cfg.DetailDelay) {
			break
		}
		if !c.waitHost(ctx, raw.EventURL) {
			break
		}
		fetched++
		detail, ok := enricher.Enrich(ctx, raw.EventURL)
		if !ok {
			continue
		}
		merged := mergeCandidate(raw, detail)
		if extract.LikelyEvent(merged, ref) {
			admit(merged, "detail")
		}
	}
}

// mergeCandidate prefers detail-page fields, keeping the listing's values
// where the detail page came back empty.
func mergeCandidate(listing, detail events.RawCandidate) events.RawCandidate {
	out := detail
	if out.Title == "" {
		out.Title = listing.Title
	}
	if out.DateText == "" {
		out.DateText = listing.DateText
	}
	if out.TimeText == "" {
		out.TimeText = listing.TimeText
	}
	if out.Location == "" {
		out.Location = listing.Location
	}
	if out.Description == "" {
		out.Description = listing.Description
	}
	out.EventURL = listing.EventURL
	out.SourceURL = listing.SourceURL
	return out
}

func (c *Crawler) waitHost(ctx context.Context, rawURL string) bool {
	host := hostOf(rawURL)
	c.mu.Lock()
	limiter, ok := c.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(c.cfg.HostInterval), 1)
		c.limiters[host] = limiter
	}
	c.mu.Unlock()
	return limiter.Wait(ctx) == nil
}

// FilterWindow keeps records whose resolved timestamp falls inside
// [now, now+days). days <= 0 keeps everything; records without a timestamp
// are kept for the consolidator to judge.
func FilterWindow(records []events.Event, days int, now time.Time) []events.Event {
	if days <= 0 {
		return records
	}
	cutoff := now.AddDate(0, 0, days)
	var out []events.Event
	for _, e := range records {
		if e.Timestamp == "" {
			if resolved, ok := temporal.Resolve(e.DateInfo, e.TimeStart, now); ok {
				if resolved.Before(now.Add(-24*time.Hour)) || resolved.After(cutoff) {
					continue
				}
			}
			out = append(out, e)
			continue
		}
		ts, err := time.Parse(time.RFC3339, e.Timestamp)
		if err != nil {
			out = append(out, e)
			continue
		}
		if ts.Before(now.Add(-24*time.Hour)) || ts.After(cutoff) {
			continue
		}
		out = append(out, e)
	}
	return out
}

type visitSet struct {
	seen sync.Map
}

func (v *visitSet) markIfNew(url string) bool {
	if url == "" {
		return false
	}
	_, loaded := v.seen.LoadOrStore(url, struct{}{})
	return !loaded
}

func pause(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "unknown"
	}
	return strings.ToLower(u.Hostname())
}
