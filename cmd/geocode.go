package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ekulkisnek/chi-events-pro/internal/dataset"
	"github.com/ekulkisnek/chi-events-pro/internal/geocode"
	"github.com/ekulkisnek/chi-events-pro/internal/logging"
)

func newGeocodeCmd() *cobra.Command {
	var data string

	cmd := &cobra.Command{
		Use:   "geocode",
		Short: "Fill missing coordinates via venue table and Nominatim",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := appFrom(cmd.Context())
			if err != nil {
				return err
			}
			if data == "" {
				data = a.Config.Dataset.Path
			}

			records, err := dataset.Load(data)
			if err != nil {
				return err
			}
			cache, err := geocode.LoadCache(a.Config.Geocode.CachePath)
			if err != nil {
				return err
			}

			logger := logging.ForStage(a.Logger, "geocode")
			client := geocode.NewClient(a.Config.Geocode.BaseURL, logger)
			enriched := geocode.New(client, cache, logger).Enrich(cmd.Context(), records)

			if err := cache.Save(); err != nil {
				logger.Warn("geocode cache save failed", zap.Error(err))
			}
			if err := dataset.Write(data, enriched); err != nil {
				return err
			}
			logger.Info("geocoding done", zap.String("path", data), zap.Int("records", len(enriched)))
			return nil
		},
	}

	cmd.Flags().StringVar(&data, "data", "", "dataset file to enrich in place")
	return cmd
}
