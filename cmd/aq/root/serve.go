package root

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"avatarquest/internal/httpapi"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			e, cleanup, err := openEnv(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if addr == "" {
				addr = e.cfg.HTTPAddr
			}
			e.logger.Info("starting api",
				zap.String("addr", addr),
				zap.String("coach_provider", e.cfg.Coach.Provider),
			)
			return httpapi.New(e.svc, e.logger).Run(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides AQ_HTTP_ADDR)")
	return cmd
}
