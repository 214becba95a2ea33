package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ekulkisnek/chi-events-pro/internal/crawl"
	"github.com/ekulkisnek/chi-events-pro/internal/dataset"
	"github.com/ekulkisnek/chi-events-pro/internal/fetch"
	"github.com/ekulkisnek/chi-events-pro/internal/logging"
	"github.com/ekulkisnek/chi-events-pro/internal/seeds"
)

func newCrawlCmd() *cobra.Command {
	var (
		seedsFile string
		outDir    string
		maxPages  int
		follow    bool
		days      int
	)

	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Crawl the seed list and write a per-run record set",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := appFrom(cmd.Context())
			if err != nil {
				return err
			}
			cfg := a.Config

			if seedsFile == "" {
				seedsFile = cfg.Crawl.SeedsFile
			}
			if outDir == "" {
				outDir = cfg.Dataset.RunDir
			}
			if maxPages <= 0 {
				maxPages = cfg.Crawl.MaxPagesPerSeed
			}
			if !cmd.Flags().Changed("crawl") {
				follow = cfg.Crawl.FollowLinks
			}

			seedURLs, err := seeds.Load(seedsFile)
			if err != nil {
				return err
			}

			logger := logging.ForStage(a.Logger, "crawl")
			client := fetch.New(fetch.Config{
				UserAgent:     cfg.HTTP.UserAgent,
				Timeout:       cfg.FetchTimeout(),
				MaxRetries:    cfg.HTTP.MaxRetries,
				BackoffBase:   cfg.BackoffBase(),
				RespectRobots: cfg.HTTP.RespectRobots,
			}, logger)

			crawler := crawl.New(client, logger, crawl.Config{
				MaxPagesPerSeed: maxPages,
				Concurrency:     cfg.Crawl.Concurrency,
				FollowLinks:     follow,
				DetailBudget:    cfg.Crawl.DetailBudget,
				DetailDelay:     time.Duration(cfg.Crawl.DetailDelayMs) * time.Millisecond,
				PaginationDelay: time.Duration(cfg.Crawl.PaginationDelayMs) * time.Millisecond,
				HostInterval:    time.Duration(cfg.Crawl.HostIntervalMs) * time.Millisecond,
			})

			records, stats, err := crawler.Run(cmd.Context(), seedURLs)
			if err != nil {
				return fmt.Errorf("crawl run: %w", err)
			}
			records = crawl.FilterWindow(records, days, time.Now())

			out := filepath.Join(outDir, fmt.Sprintf("events-%s.json", time.Now().UTC().Format("20060102-150405")))
			if err := dataset.Write(out, records); err != nil {
				return err
			}
			for _, s := range stats {
				logger.Info("seed summary",
					zap.String("seed", s.Seed),
					zap.Int("pages", s.Pages),
					zap.Int("candidates", s.Candidates),
					zap.Int("admitted", s.Admitted),
				)
			}
			logger.Info("run written", zap.String("path", out), zap.Int("records", len(records)))
			return nil
		},
	}

	cmd.Flags().StringVar(&seedsFile, "seeds", "", "seed list file (newline-delimited URLs)")
	cmd.Flags().StringVar(&outDir, "out", "", "directory for the per-run record set")
	cmd.Flags().IntVar(&maxPages, "max-pages", 0, "page budget per seed")
	cmd.Flags().BoolVar(&follow, "crawl", false, "follow same-host event links beyond the seed page")
	cmd.Flags().IntVar(&days, "days", 0, "keep only events within the next N days")
	return cmd
}
