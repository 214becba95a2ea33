package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ekulkisnek/chi-events-pro/internal/logging"
	"github.com/ekulkisnek/chi-events-pro/internal/seeds"
)

func newExpandSeedsCmd() *cobra.Command {
	var (
		in  string
		out string
	)

	cmd := &cobra.Command{
		Use:   "expand-seeds",
		Short: "Expand seed URLs with per-site pagination patterns",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := appFrom(cmd.Context())
			if err != nil {
				return err
			}
			if in == "" {
				in = a.Config.Crawl.SeedsFile
			}
			if out == "" {
				out = "seeds-expanded.txt"
			}

			seedURLs, err := seeds.Load(in)
			if err != nil {
				return err
			}
			expanded := seeds.Expand(seedURLs)
			if err := seeds.Write(out, expanded); err != nil {
				return err
			}
			logging.ForStage(a.Logger, "seeds").Info("seeds expanded",
				zap.Int("in", len(seedURLs)),
				zap.Int("out", len(expanded)),
				zap.String("path", out),
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&in, "seeds", "", "seed list to expand")
	cmd.Flags().StringVar(&out, "out", "", "expanded seed list destination")
	return cmd
}
