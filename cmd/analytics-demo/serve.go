package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kbukum/providerkit/server"
)

func newServeCommand() *cobra.Command {
	opts := runOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Expose the analytics manager over HTTP",
		Long: `Start the HTTP server, then the providers for the platform, and
serve until interrupted. /health reports degraded until every provider
is ready.

Routes:
  GET  /health     component health
  GET  /version    build information
  GET  /providers  retained and disposed providers
  POST /events     {"name": "...", "params": {...}, "preferred": false}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.out = cmd.OutOrStdout()
			return serveDemo(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVarP(&opts.configFile, "config", "c", "", "Path to the config file")
	cmd.Flags().StringVar(&opts.envFile, "env-file", "", "Path to a .env file")
	cmd.Flags().StringVarP(&opts.platform, "platform", "p", "", "Override the detected platform")
	cmd.Flags().IntVar(&opts.port, "port", 0, "Override server.port")
	cmd.Flags().IntVar(&opts.readyTicks, "ready-ticks", 0, "Make project providers ready after this many frames instead of their delay")
	return cmd
}

// newDemoServer builds the demo with an HTTP server registered ahead of
// the analytics component, so /health answers while providers get ready.
func newDemoServer(ctx context.Context, opts runOptions) (*demo, *server.Server, error) {
	d, err := newDemo(ctx, opts)
	if err != nil {
		return nil, nil, err
	}
	srv := server.New(d.app.Cfg.Server, d.app.Logger)
	srv.ApplyDefaults(d.app.Cfg.Name, d.app.Components.HealthAll)
	registerRoutes(srv.Engine(), &analyticsHandler{mgr: d.mgr, entity: d.entity})

	if err := d.app.RegisterComponent(server.NewComponent(srv)); err != nil {
		return nil, nil, err
	}
	if err := d.registerManager(); err != nil {
		return nil, nil, err
	}
	return d, srv, nil
}

func serveDemo(ctx context.Context, opts runOptions) error {
	d, _, err := newDemoServer(ctx, opts)
	if err != nil {
		return err
	}
	return d.app.Run(ctx)
}
