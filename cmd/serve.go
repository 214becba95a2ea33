package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ekulkisnek/chi-events-pro/internal/api"
	"github.com/ekulkisnek/chi-events-pro/internal/logging"
)

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the canonical dataset over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := appFrom(cmd.Context())
			if err != nil {
				return err
			}
			if port <= 0 {
				port = a.Config.Server.Port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			server := api.NewServer(a.Config.Dataset.Path, logging.ForStage(a.Logger, "serve"))
			return server.Serve(ctx, fmt.Sprintf(":%d", port))
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "listen port")
	return cmd
}
