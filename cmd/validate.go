package cmd

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/ekulkisnek/chi-events-pro/internal/dataset"
	"github.com/ekulkisnek/chi-events-pro/internal/validate"
)

func newValidateCmd() *cobra.Command {
	var data string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check dataset quality; non-zero exit below the threshold",
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

			summary, vErr := validate.Validate(records, time.Now())
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(summary); err != nil {
				return err
			}
			return vErr
		},
	}

	cmd.Flags().StringVar(&data, "data", "", "dataset file to validate")
	return cmd
}

func newQualityCmd() *cobra.Command {
	var data string

	cmd := &cobra.Command{
		Use:   "quality",
		Short: "Report dataset quality per source domain",
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

			report := validate.ByDomain(records, time.Now())
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}

	cmd.Flags().StringVar(&data, "data", "", "dataset file to report on")
	return cmd
}
