package commands

import (
	"github.com/spf13/cobra"

	"github.com/DrSkyle/campuslab/pkg/config"
	"github.com/DrSkyle/campuslab/pkg/server"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web dashboard",
		Long: `Serve the self-refreshing HTML dashboard together with a JSON API,
health check and Prometheus metrics.

  GET /                  dashboard
  GET /api/frame         latest frame as JSON
  GET /api/frame.{fmt}   latest frame as csv, json, yaml or html
  GET /health            liveness
  GET /metrics           Prometheus exposition`,
		Example: `  campuslab serve --listen :9090`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger, err := a.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			eng, err := a.newEngine(ctx, logger)
			if err != nil {
				return err
			}
			defer closeEngine(eng, logger)

			srv := server.New(eng, a.settings.Interval,
				server.WithLogger(logger),
				server.WithAccessLog(cmd.ErrOrStderr()),
			)
			return srv.ListenAndServe(ctx, a.settings.Listen)
		},
	}

	cmd.Flags().String("listen", config.DefaultListenAddr, "Address to listen on")
	a.bindFlags(cmd.Flags(), map[string]string{"listen": "listen"})
	return cmd
}
