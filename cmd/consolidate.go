package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ekulkisnek/chi-events-pro/internal/consolidate"
	"github.com/ekulkisnek/chi-events-pro/internal/dataset"
	"github.com/ekulkisnek/chi-events-pro/internal/events"
	"github.com/ekulkisnek/chi-events-pro/internal/logging"
)

func newConsolidateCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "consolidate <run-file>...",
		Short: "Merge per-run record sets into the canonical dataset",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFrom(cmd.Context())
			if err != nil {
				return err
			}
			if out == "" {
				out = a.Config.Dataset.Path
			}

			inputs := make([][]events.Event, 0, len(args))
			for _, path := range args {
				set, err := dataset.Load(path)
				if err != nil {
					return fmt.Errorf("load %s: %w", path, err)
				}
				inputs = append(inputs, set)
			}

			logger := logging.ForStage(a.Logger, "consolidate")
			records := consolidate.New(logger, time.Now()).Consolidate(inputs...)
			if err := dataset.Write(out, records); err != nil {
				return err
			}
			logger.Info("dataset written", zap.String("path", out), zap.Int("records", len(records)))
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "canonical dataset path")
	return cmd
}
