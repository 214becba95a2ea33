// Package cmd defines the CLI commands for the events pipeline executable.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ekulkisnek/chi-events-pro/internal/config"
	"github.com/ekulkisnek/chi-events-pro/internal/logging"
	"github.com/ekulkisnek/chi-events-pro/internal/metrics"
)

var cfgFile string

// App bundles the services every subcommand needs.
type App struct {
	Config config.Config
	Logger *zap.Logger
}

type appKeyType struct{}

var appKey appKeyType

// newApp is a variable so tests can substitute a mock factory.
var newApp = func() (*App, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	metrics.Init()
	return &App{Config: cfg, Logger: logger}, nil
}

func appFrom(ctx context.Context) (*App, error) {
	a, ok := ctx.Value(appKey).(*App)
	if !ok || a == nil {
		return nil, errors.New("application services not initialized")
	}
	return a, nil
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chi-events",
		Short: "Event listing discovery and consolidation pipeline",
		Long: `chi-events crawls event listing sites, extracts candidate records with
structured and heuristic strategies, and consolidates them into one
deduplicated, quality-gated dataset.`,
		SilenceUsage: true,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return fmt.Errorf("initialize application services: %w", err)
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, a))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if a, ok := cmd.Context().Value(appKey).(*App); ok && a != nil {
				_ = a.Logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: built-in defaults plus CHIEVENTS_* env)")

	cmd.AddCommand(
		newCrawlCmd(),
		newConsolidateCmd(),
		newValidateCmd(),
		newQualityCmd(),
		newGeocodeCmd(),
		newExpandSeedsCmd(),
		newServeCmd(),
	)
	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
